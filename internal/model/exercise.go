package model

// Exercise holds the versioned static specification of one exercise,
// authored by teachers and consumed by the grading engine. The Spec column
// is the JSON encoding of a grader.Spec for the given kind.
type Exercise struct {
	BaseModel
	LessonID uint   `gorm:"index;not null" json:"lessonId"`
	Kind     string `gorm:"size:20;not null" json:"kind"`
	Title    string `gorm:"size:200" json:"title"`
	Spec     string `gorm:"type:text;not null" json:"spec"`
	Points   int    `gorm:"default:10" json:"points"`
	Version  int    `gorm:"default:1" json:"version"`
}

// ExerciseSubmission stores one graded attempt.
type ExerciseSubmission struct {
	BaseModel
	UserID     uint   `gorm:"index;not null" json:"userId"`
	ExerciseID uint   `gorm:"index;not null" json:"exerciseId"`
	Score      int    `json:"score"`
	MaxScore   int    `json:"maxScore"`
	Passed     bool   `json:"passed"`
	Answers    string `gorm:"type:text" json:"answers,omitempty"` // raw submission JSON
}

// swagger:model Game
type Game struct {
	BaseModel
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	GradeLevel  string `gorm:"size:10;index" json:"gradeLevel"`
	Kind        string `gorm:"size:20;not null" json:"kind"`
	Spec        string `gorm:"type:text" json:"spec"`
	Points      int    `gorm:"default:10" json:"points"`
	IsPublished bool   `gorm:"default:false" json:"isPublished"`
}

// GameScore stores the best submitted result of a student on a game.
type GameScore struct {
	BaseModel
	UserID   uint `gorm:"uniqueIndex:idx_user_game;not null" json:"userId"`
	GameID   uint `gorm:"uniqueIndex:idx_user_game;not null" json:"gameId"`
	Score    int  `json:"score"`
	MaxScore int  `json:"maxScore"`
	Passed   bool `json:"passed"`
}
