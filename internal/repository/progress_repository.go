package repository

import (
	"ecolearn_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) CreateSubmission(sub *model.ExerciseSubmission) error {
	return r.DB.Create(sub).Error
}

func (r *ProgressRepository) ListSubmissions(userID uint, exerciseID uint) ([]model.ExerciseSubmission, error) {
	var subs []model.ExerciseSubmission
	q := r.DB.Where("user_id = ?", userID)
	if exerciseID != 0 {
		q = q.Where("exercise_id = ?", exerciseID)
	}
	err := q.Order("created_at DESC").Find(&subs).Error
	return subs, err
}

func (r *ProgressRepository) BestSubmission(userID, exerciseID uint) (*model.ExerciseSubmission, error) {
	var sub model.ExerciseSubmission
	err := r.DB.Where("user_id = ? AND exercise_id = ?", userID, exerciseID).
		Order("score DESC").First(&sub).Error
	return &sub, err
}

// UpsertGameScore keeps the best score of a student on a game.
func (r *ProgressRepository) UpsertGameScore(score *model.GameScore) error {
	var existing model.GameScore
	err := r.DB.Where("user_id = ? AND game_id = ?", score.UserID, score.GameID).
		First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.DB.Create(score).Error
	}
	if err != nil {
		return err
	}
	if score.Score > existing.Score {
		existing.Score = score.Score
		existing.MaxScore = score.MaxScore
		existing.Passed = score.Passed
		return r.DB.Save(&existing).Error
	}
	return nil
}

func (r *ProgressRepository) MarkLessonCompleted(userID, lessonID, courseID uint) error {
	var existing model.LessonCompletion
	err := r.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&existing).Error
	if err == nil {
		return nil // already completed, idempotent
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return r.DB.Create(&model.LessonCompletion{
		UserID:   userID,
		LessonID: lessonID,
		CourseID: courseID,
	}).Error
}

func (r *ProgressRepository) CountCompletedLessons(userID, courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.LessonCompletion{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count, err
}

func (r *ProgressRepository) ListGameScores(userID uint) ([]model.GameScore, error) {
	var scores []model.GameScore
	err := r.DB.Where("user_id = ?", userID).Find(&scores).Error
	return scores, err
}
