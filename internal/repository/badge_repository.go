package repository

import (
	"ecolearn_backend/internal/model"

	"gorm.io/gorm"
)

type BadgeRepository struct {
	DB *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{DB: db}
}

func (r *BadgeRepository) ListEnabled() ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.Where("enabled = ?", true).Order("points_threshold ASC").Find(&badges).Error
	return badges, err
}

func (r *BadgeRepository) FindByCode(code string) (*model.Badge, error) {
	var badge model.Badge
	err := r.DB.Where("code = ?", code).First(&badge).Error
	return &badge, err
}

func (r *BadgeRepository) ListForUser(userID uint) ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.
		Joins("JOIN user_badges ON user_badges.badge_id = badges.id").
		Where("user_badges.user_id = ?", userID).
		Find(&badges).Error
	return badges, err
}

// Award grants a badge once; awarding an owned badge is a no-op reporting
// false.
func (r *BadgeRepository) Award(userID, badgeID uint) (bool, error) {
	var count int64
	if err := r.DB.Model(&model.UserBadge{}).
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if err := r.DB.Create(&model.UserBadge{UserID: userID, BadgeID: badgeID}).Error; err != nil {
		return false, err
	}
	return true, nil
}
