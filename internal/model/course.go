package model

// swagger:model Course
type Course struct {
	BaseModel
	Title       string   `gorm:"size:200;not null" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	GradeLevel  string   `gorm:"size:10;index" json:"gradeLevel"`
	CoverURL    string   `gorm:"size:255" json:"coverUrl"`
	Order       int      `gorm:"default:0" json:"order"`
	IsPublished bool     `gorm:"default:false" json:"isPublished"`
	CreatorID   uint     `gorm:"index" json:"creatorId"`
	Lessons     []Lesson `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
}

// Lesson is a single content unit inside a course: a text body plus an
// optional cartoon video.
type Lesson struct {
	BaseModel
	CourseID        uint   `gorm:"index;not null" json:"courseId"`
	Title           string `gorm:"size:200;not null" json:"title"`
	Order           int    `gorm:"default:0" json:"order"`
	Content         string `gorm:"type:text" json:"content"`
	VideoURL        string `gorm:"size:255" json:"videoUrl"`
	ThumbnailURL    string `gorm:"size:255" json:"thumbnailUrl"`
	DurationSeconds int    `gorm:"default:0" json:"durationSeconds"`
}

// LessonCompletion records that a student finished a lesson.
type LessonCompletion struct {
	BaseModel
	UserID   uint `gorm:"uniqueIndex:idx_user_lesson;not null" json:"userId"`
	LessonID uint `gorm:"uniqueIndex:idx_user_lesson;not null" json:"lessonId"`
	CourseID uint `gorm:"index;not null" json:"courseId"`
}
