package database

import (
	"ecolearn_backend/internal/config"
	"ecolearn_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.ParentChild{},
		&model.Course{},
		&model.Lesson{},
		&model.LessonCompletion{},
		&model.Exercise{},
		&model.ExerciseSubmission{},
		&model.Game{},
		&model.GameScore{},
		&model.LevelTestResult{},
		&model.Badge{},
		&model.UserBadge{},
		&model.Notification{},
		&model.Message{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedBadges(db)

	return db, nil
}

// seedBadges inserts the fixed badge catalog on first boot.
func seedBadges(db *gorm.DB) {
	var count int64
	db.Model(&model.Badge{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []model.Badge{
		{Code: "first_steps", Name: "🌱 خطواتي الأولى", Description: "جمع 50 نقطة", PointsThreshold: 50, Enabled: true},
		{Code: "eco_friend", Name: "🌿 صديق الطبيعة", Description: "جمع 200 نقطة", PointsThreshold: 200, Enabled: true},
		{Code: "eco_hero", Name: "🦸 بطل البيئة", Description: "جمع 500 نقطة", PointsThreshold: 500, Enabled: true},
		{Code: "planet_guardian", Name: "🌍 حارس الكوكب", Description: "جمع 1000 نقطة", PointsThreshold: 1000, Enabled: true},
		{Code: "placement_done", Name: "🎯 اجتياز اختبار المستوى", Description: "إتمام اختبار تحديد المستوى", PointsThreshold: 0, Enabled: true},
	}
	for _, b := range defaults {
		db.Create(&b)
	}
}
