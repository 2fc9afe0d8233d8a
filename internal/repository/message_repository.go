package repository

import (
	"ecolearn_backend/internal/model"

	"gorm.io/gorm"
)

type MessageRepository struct {
	DB *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

func (r *MessageRepository) Create(msg *model.Message) error {
	return r.DB.Create(msg).Error
}

// Thread returns the full ordered conversation between two accounts. The
// poll-based clients replace their local copy wholesale with this list.
func (r *MessageRepository) Thread(userA, userB uint) ([]model.Message, error) {
	var messages []model.Message
	err := r.DB.
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userA, userB, userB, userA).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

// Counterparts lists the distinct user ids this user has exchanged messages
// with.
func (r *MessageRepository) Counterparts(userID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Raw(
		`SELECT DISTINCT IF(sender_id = ?, recipient_id, sender_id)
		 FROM messages
		 WHERE deleted_at IS NULL AND (sender_id = ? OR recipient_id = ?)`,
		userID, userID, userID,
	).Scan(&ids).Error
	return ids, err
}

func (r *MessageRepository) MarkThreadRead(recipientID, senderID uint) error {
	return r.DB.Model(&model.Message{}).
		Where("recipient_id = ? AND sender_id = ? AND read_at IS NULL", recipientID, senderID).
		Update("read_at", gorm.Expr("CURRENT_TIMESTAMP(3)")).Error
}
