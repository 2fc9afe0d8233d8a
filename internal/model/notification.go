package model

import "time"

type NotificationType string

const (
	NotifBadgeAwarded NotificationType = "badge_awarded"
	NotifNewMessage   NotificationType = "new_message"
	NotifLevelTest    NotificationType = "level_test_completed"
	NotifSystem       NotificationType = "system"
)

// swagger:model Notification
type Notification struct {
	BaseModel
	UserID uint             `gorm:"index;not null" json:"userId"`
	Type   NotificationType `gorm:"size:30;not null" json:"type"`
	Title  string           `gorm:"size:200" json:"title"`
	Body   string           `gorm:"type:text" json:"body"`
	Read   bool             `gorm:"default:false;index" json:"read"`
	ReadAt *time.Time       `json:"readAt,omitempty"`
}
