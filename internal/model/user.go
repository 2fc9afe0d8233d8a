package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Parent  UserRole = "parent"
	Admin   UserRole = "admin"
)

// Grade levels follow the French primary-school naming used by the app.
const (
	Grade5 = "5eme"
	Grade6 = "6eme"
)

func ValidGradeLevel(level string) bool {
	return level == Grade5 || level == Grade6
}

// swagger:model User
type User struct {
	BaseModel
	Name       string    `gorm:"size:100;not null" json:"name"`
	Email      string    `gorm:"size:100;unique;not null" json:"email"`
	Password   string    `gorm:"size:100;not null" json:"-"`
	Role       UserRole  `gorm:"type:enum('student','teacher','parent','admin');default:'student'" json:"role"`
	Points     int       `gorm:"default:0" json:"points"`
	Level      int       `gorm:"default:1" json:"level"`
	GradeLevel string    `gorm:"size:10" json:"gradeLevel,omitempty"` // empty until the student picks one
	Language   string    `gorm:"size:10;default:'ar'" json:"language"`
	Avatar     string    `gorm:"size:255" json:"avatar"`
	Disabled   bool      `gorm:"default:false" json:"disabled"`
	LastLogin  time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen   time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`

	Badges []Badge `gorm:"many2many:user_badges;" json:"badges,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// ParentChild links a parent account to a student account.
type ParentChild struct {
	BaseModel
	ParentID  uint `gorm:"index;not null" json:"parentId"`
	StudentID uint `gorm:"index;not null" json:"studentId"`
}

func (ParentChild) TableName() string {
	return "parent_children"
}
