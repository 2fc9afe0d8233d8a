package service

import (
	"ecolearn_backend/internal/model"
	"ecolearn_backend/internal/repository"
	"ecolearn_backend/pkg/logger"
	"fmt"

	"go.uber.org/zap"
)

// BadgeService awards badges when students cross point thresholds or finish
// milestones, and raises a notification for every new award.
type BadgeService struct {
	BadgeRepo    *repository.BadgeRepository
	UserRepo     *repository.UserRepository
	Notification *NotificationService
}

func NewBadgeService(badgeRepo *repository.BadgeRepository, userRepo *repository.UserRepository, notification *NotificationService) *BadgeService {
	return &BadgeService{
		BadgeRepo:    badgeRepo,
		UserRepo:     userRepo,
		Notification: notification,
	}
}

// CheckPointBadges awards every enabled points-based badge the user now
// qualifies for. Called after any points mutation.
func (s *BadgeService) CheckPointBadges(userID uint) ([]model.Badge, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	badges, err := s.BadgeRepo.ListEnabled()
	if err != nil {
		return nil, err
	}

	var awarded []model.Badge
	for _, badge := range badges {
		if badge.PointsThreshold <= 0 || user.Points < badge.PointsThreshold {
			continue
		}
		newlyAwarded, err := s.BadgeRepo.Award(userID, badge.ID)
		if err != nil {
			logger.Log.Error("badge award failed",
				zap.Uint("user", userID), zap.String("badge", badge.Code), zap.Error(err))
			continue
		}
		if newlyAwarded {
			awarded = append(awarded, badge)
			s.notifyAward(userID, badge)
		}
	}
	return awarded, nil
}

// AwardByCode grants a specific non-points badge (e.g. placement test done).
func (s *BadgeService) AwardByCode(userID uint, code string) (*model.Badge, error) {
	badge, err := s.BadgeRepo.FindByCode(code)
	if err != nil {
		return nil, err
	}
	newlyAwarded, err := s.BadgeRepo.Award(userID, badge.ID)
	if err != nil {
		return nil, err
	}
	if !newlyAwarded {
		return nil, nil
	}
	s.notifyAward(userID, *badge)
	return badge, nil
}

func (s *BadgeService) ListForUser(userID uint) ([]model.Badge, error) {
	return s.BadgeRepo.ListForUser(userID)
}

func (s *BadgeService) notifyAward(userID uint, badge model.Badge) {
	if s.Notification == nil {
		return
	}
	err := s.Notification.Notify(userID, model.NotifBadgeAwarded,
		"وسام جديد!",
		fmt.Sprintf("مبروك! حصلت على وسام %s", badge.Name))
	if err != nil {
		logger.Log.Error("badge notification failed", zap.Error(err))
	}
}
