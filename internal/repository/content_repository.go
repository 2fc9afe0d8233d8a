package repository

import (
	"ecolearn_backend/internal/model"

	"gorm.io/gorm"
)

// ContentRepository covers courses, lessons, exercises and games.
type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

func (r *ContentRepository) CreateCourse(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *ContentRepository) UpdateCourse(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *ContentRepository) FindCourseByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("lessons.`order` ASC")
	}).First(&course, id).Error
	return &course, err
}

func (r *ContentRepository) ListCourses(gradeLevel string, publishedOnly bool) ([]model.Course, error) {
	var courses []model.Course
	q := r.DB.Model(&model.Course{})
	if gradeLevel != "" {
		q = q.Where("grade_level = ?", gradeLevel)
	}
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	err := q.Order("`order` ASC").Find(&courses).Error
	return courses, err
}

func (r *ContentRepository) CreateLesson(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *ContentRepository) UpdateLesson(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

func (r *ContentRepository) FindLessonByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	return &lesson, err
}

func (r *ContentRepository) CountLessons(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lesson{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

func (r *ContentRepository) CreateExercise(ex *model.Exercise) error {
	return r.DB.Create(ex).Error
}

func (r *ContentRepository) FindExerciseByID(id uint) (*model.Exercise, error) {
	var ex model.Exercise
	err := r.DB.First(&ex, id).Error
	return &ex, err
}

func (r *ContentRepository) ListExercises(lessonID uint) ([]model.Exercise, error) {
	var exercises []model.Exercise
	err := r.DB.Where("lesson_id = ?", lessonID).Find(&exercises).Error
	return exercises, err
}

// UpdateExerciseSpec bumps the content version together with the new spec.
func (r *ContentRepository) UpdateExerciseSpec(id uint, spec string) error {
	return r.DB.Model(&model.Exercise{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"spec":    spec,
			"version": gorm.Expr("version + 1"),
		}).Error
}

func (r *ContentRepository) CreateGame(game *model.Game) error {
	return r.DB.Create(game).Error
}

func (r *ContentRepository) FindGameByID(id uint) (*model.Game, error) {
	var game model.Game
	err := r.DB.First(&game, id).Error
	return &game, err
}

func (r *ContentRepository) ListGames(gradeLevel string, publishedOnly bool) ([]model.Game, error) {
	var games []model.Game
	q := r.DB.Model(&model.Game{})
	if gradeLevel != "" {
		q = q.Where("grade_level = ?", gradeLevel)
	}
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	err := q.Find(&games).Error
	return games, err
}
