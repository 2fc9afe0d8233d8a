package model

import "time"

// Badge definitions are seeded at migration time; IconURL points into the
// storage service (local uploads or minio bucket).
type Badge struct {
	BaseModel
	Code            string `gorm:"size:50;unique;not null" json:"code"`
	Name            string `gorm:"size:100;not null" json:"name"`
	Description     string `gorm:"size:255" json:"description"`
	IconURL         string `gorm:"size:255" json:"iconUrl"`
	PointsThreshold int    `gorm:"default:0" json:"pointsThreshold"` // 0 = not points-based
	Enabled         bool   `gorm:"default:true" json:"enabled"`
}

type UserBadge struct {
	UserID    uint      `gorm:"primaryKey" json:"userId"`
	BadgeID   uint      `gorm:"primaryKey" json:"badgeId"`
	CreatedAt time.Time `json:"awardedAt"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}
