package repository

import (
	"ecolearn_backend/internal/model"

	"gorm.io/gorm"
)

type LevelTestRepository struct {
	DB *gorm.DB
}

func NewLevelTestRepository(db *gorm.DB) *LevelTestRepository {
	return &LevelTestRepository{DB: db}
}

func (r *LevelTestRepository) Create(result *model.LevelTestResult) error {
	return r.DB.Create(result).Error
}

func (r *LevelTestRepository) Find(userID uint, level string) (*model.LevelTestResult, error) {
	var result model.LevelTestResult
	err := r.DB.Where("user_id = ? AND level = ?", userID, level).
		First(&result).Error
	return &result, err
}

func (r *LevelTestRepository) Exists(userID uint, level string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.LevelTestResult{}).
		Where("user_id = ? AND level = ?", userID, level).
		Count(&count).Error
	return count > 0, err
}
