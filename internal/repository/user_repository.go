package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ecolearn_backend/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type UserRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

// leaderboardTTL bounds how stale the cached ranking can get; points change
// on every graded submission, so the cache expires instead of invalidating.
const leaderboardTTL = 30 * time.Second

func NewUserRepository(db *gorm.DB, rdb *redis.Client) *UserRepository {
	return &UserRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

func leaderboardKey(gradeLevel string, limit int) string {
	return fmt.Sprintf("leaderboard:%s:%d", gradeLevel, limit)
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.Preload("Badges").First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdateGradeLevel(userID uint, level string) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("grade_level", level).Error
}

func (r *UserRepository) AddPoints(userID uint, points int) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("points", gorm.Expr("points + ?", points)).
		Error
}

func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_seen", gorm.Expr("CURRENT_TIMESTAMP(3)")).Error
}

// FindTopByPoints serves the leaderboard from a short-lived redis entry
// when warm, falling back to the ranking query and re-priming the cache.
func (r *UserRepository) FindTopByPoints(gradeLevel string, limit int) ([]model.User, error) {
	key := leaderboardKey(gradeLevel, limit)
	if r.Redis != nil {
		if raw, err := r.Redis.Get(r.ctx, key).Result(); err == nil {
			var cached []model.User
			if jerr := json.Unmarshal([]byte(raw), &cached); jerr == nil {
				return cached, nil
			}
		}
	}

	var users []model.User
	q := r.DB.Where("role = ?", model.Student)
	if gradeLevel != "" {
		q = q.Where("grade_level = ?", gradeLevel)
	}
	if err := q.Order("points DESC").Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}

	if r.Redis != nil {
		if raw, err := json.Marshal(users); err == nil {
			r.Redis.Set(r.ctx, key, string(raw), leaderboardTTL)
		}
	}
	return users, nil
}

// LinkParent attaches a student to a parent account, ignoring duplicates.
func (r *UserRepository) LinkParent(parentID, studentID uint) error {
	var existing model.ParentChild
	err := r.DB.Where("parent_id = ? AND student_id = ?", parentID, studentID).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return r.DB.Create(&model.ParentChild{ParentID: parentID, StudentID: studentID}).Error
}

func (r *UserRepository) FindChildren(parentID uint) ([]model.User, error) {
	var children []model.User
	err := r.DB.
		Joins("JOIN parent_children ON parent_children.student_id = users.id").
		Where("parent_children.parent_id = ?", parentID).
		Find(&children).Error
	return children, err
}

func (r *UserRepository) IsLinked(parentID, studentID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.ParentChild{}).
		Where("parent_id = ? AND student_id = ?", parentID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) FindByRole(role model.UserRole) ([]model.User, error) {
	var users []model.User
	err := r.DB.Where("role = ?", role).Find(&users).Error
	return users, err
}
