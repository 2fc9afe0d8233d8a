package model

// LevelTestResult is the stored outcome of the one-time diagnostic placement
// test. The unique index enforces the single-attempt rule per grade level.
type LevelTestResult struct {
	BaseModel
	UserID   uint   `gorm:"uniqueIndex:idx_user_level;not null" json:"userId"`
	Level    string `gorm:"size:10;uniqueIndex:idx_user_level;not null" json:"level"`
	Score    int    `json:"score"`
	Category string `gorm:"size:100" json:"category"`
	Answers  string `gorm:"type:text" json:"answers,omitempty"` // JSON list of {questionId, choiceId, isCorrect}
}
