package model

import "time"

// Message belongs to the flat teacher-parent conversation identified by the
// (sender, recipient) pair; there is no conversation entity, a thread is the
// ordered set of messages exchanged between the two accounts.
type Message struct {
	UUIDBase
	SenderID    uint       `gorm:"index;not null" json:"senderId"`
	RecipientID uint       `gorm:"index;not null" json:"recipientId"`
	SenderRole  UserRole   `gorm:"size:20;not null" json:"senderRole"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	ReadAt      *time.Time `json:"readAt,omitempty"`
}
