package service

import (
	"ecolearn_backend/internal/model"
	"ecolearn_backend/internal/repository"
	"ecolearn_backend/internal/util"
)

type NotificationService struct {
	NotificationRepo *repository.NotificationRepository
}

func NewNotificationService(repo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{NotificationRepo: repo}
}

func (s *NotificationService) Notify(userID uint, typ model.NotificationType, title, body string) error {
	return s.NotificationRepo.Create(&model.Notification{
		UserID: userID,
		Type:   typ,
		Title:  title,
		Body:   body,
	})
}

func (s *NotificationService) List(userID uint, unreadOnly bool) ([]model.Notification, error) {
	return s.NotificationRepo.List(userID, unreadOnly, 100)
}

func (s *NotificationService) MarkRead(userID, notificationID uint) (*model.Notification, error) {
	n, err := s.NotificationRepo.FindByID(notificationID)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	if n.Read {
		return n, nil // idempotent
	}
	if err := s.NotificationRepo.MarkRead(n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	return s.NotificationRepo.UnreadCount(userID)
}
