package service

import (
	"ecolearn_backend/internal/model"
	"ecolearn_backend/internal/repository"
	"ecolearn_backend/internal/util"
	"ecolearn_backend/pkg/logger"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// MessageService implements the teacher-parent messaging channel. Threads
// are flat counterpart-keyed message lists; clients keep them fresh by
// polling and replacing the thread wholesale.
type MessageService struct {
	MessageRepo  *repository.MessageRepository
	UserRepo     *repository.UserRepository
	Notification *NotificationService
}

func NewMessageService(messageRepo *repository.MessageRepository, userRepo *repository.UserRepository, notification *NotificationService) *MessageService {
	return &MessageService{
		MessageRepo:  messageRepo,
		UserRepo:     userRepo,
		Notification: notification,
	}
}

// Thread returns all messages between the user and the counterpart, oldest
// first, and marks the counterpart's messages as read.
func (s *MessageService) Thread(userID, counterpartID uint) ([]model.Message, error) {
	messages, err := s.MessageRepo.Thread(userID, counterpartID)
	if err != nil {
		return nil, err
	}

	if err := s.MessageRepo.MarkThreadRead(userID, counterpartID); err != nil {
		logger.Log.Error("mark thread read failed", zap.Error(err))
	}
	return messages, nil
}

func (s *MessageService) Send(sender *model.User, recipientID uint, content string) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, util.ErrEmptyMessage
	}

	// recipient must exist; a dangling id would strand the thread
	recipient, err := s.UserRepo.FindByID(recipientID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	msg := &model.Message{
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		SenderRole:  sender.Role,
		Content:     content,
	}
	if err := s.MessageRepo.Create(msg); err != nil {
		return nil, err
	}

	if s.Notification != nil {
		err := s.Notification.Notify(recipient.ID, model.NotifNewMessage,
			"رسالة جديدة",
			fmt.Sprintf("لديك رسالة جديدة من %s", sender.Name))
		if err != nil {
			logger.Log.Error("message notification failed", zap.Error(err))
		}
	}

	return msg, nil
}

// Counterparts lists the accounts the user has an open thread with.
func (s *MessageService) Counterparts(userID uint) ([]model.User, error) {
	ids, err := s.MessageRepo.Counterparts(userID)
	if err != nil {
		return nil, err
	}

	users := make([]model.User, 0, len(ids))
	for _, id := range ids {
		u, err := s.UserRepo.FindByID(id)
		if err != nil {
			continue
		}
		users = append(users, *u)
	}
	return users, nil
}
