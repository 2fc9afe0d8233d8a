package service

import (
	"context"
	"ecolearn_backend/internal/config"
	"ecolearn_backend/internal/grader"
	"ecolearn_backend/internal/model"
	"ecolearn_backend/internal/repository"
	"ecolearn_backend/internal/util"
	"ecolearn_backend/pkg/logger"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContentService manages the course/lesson/game catalog and exercise specs.
type ContentService struct {
	ContentRepo *repository.ContentRepository
	Storage     *StorageService
	Cfg         *config.Config
}

func NewContentService(contentRepo *repository.ContentRepository, storage *StorageService, cfg *config.Config) *ContentService {
	return &ContentService{
		ContentRepo: contentRepo,
		Storage:     storage,
		Cfg:         cfg,
	}
}

type CourseCreateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	GradeLevel  string `json:"gradeLevel" binding:"required"`
	CoverURL    string `json:"coverUrl"`
	Order       int    `json:"order"`
	IsPublished bool   `json:"isPublished"`
}

func (s *ContentService) CreateCourse(creatorID uint, req CourseCreateRequest) (*model.Course, error) {
	if !model.ValidGradeLevel(req.GradeLevel) {
		return nil, util.ErrInvalidGradeLevel
	}

	course := &model.Course{
		Title:       req.Title,
		Description: req.Description,
		GradeLevel:  req.GradeLevel,
		CoverURL:    req.CoverURL,
		Order:       req.Order,
		IsPublished: req.IsPublished,
		CreatorID:   creatorID,
	}
	if err := s.ContentRepo.CreateCourse(course); err != nil {
		return nil, err
	}
	return course, nil
}

type CourseUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	CoverURL    *string `json:"coverUrl"`
	Order       *int    `json:"order"`
	IsPublished *bool   `json:"isPublished"`
}

// UpdateCourse applies a partial edit; nil fields are left untouched, so a
// publish toggle does not clobber the rest of the record.
func (s *ContentService) UpdateCourse(id uint, req CourseUpdateRequest) (*model.Course, error) {
	course, err := s.ContentRepo.FindCourseByID(id)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.CoverURL != nil {
		course.CoverURL = *req.CoverURL
	}
	if req.Order != nil {
		course.Order = *req.Order
	}
	if req.IsPublished != nil {
		course.IsPublished = *req.IsPublished
	}

	if err := s.ContentRepo.UpdateCourse(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *ContentService) ListCourses(gradeLevel string, publishedOnly bool) ([]model.Course, error) {
	return s.ContentRepo.ListCourses(gradeLevel, publishedOnly)
}

func (s *ContentService) GetCourse(id uint) (*model.Course, error) {
	return s.ContentRepo.FindCourseByID(id)
}

type LessonCreateRequest struct {
	Title   string `json:"title" binding:"required"`
	Order   int    `json:"order"`
	Content string `json:"content"`
}

func (s *ContentService) CreateLesson(courseID uint, req LessonCreateRequest) (*model.Lesson, error) {
	if _, err := s.ContentRepo.FindCourseByID(courseID); err != nil {
		return nil, util.ErrCourseNotFound
	}

	lesson := &model.Lesson{
		CourseID: courseID,
		Title:    req.Title,
		Order:    req.Order,
		Content:  req.Content,
	}
	if err := s.ContentRepo.CreateLesson(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// AttachLessonVideo stores an uploaded cartoon video, probes its duration
// and generates a poster thumbnail.
func (s *ContentService) AttachLessonVideo(ctx context.Context, lessonID uint, file *multipart.FileHeader) (*model.Lesson, error) {
	lesson, err := s.ContentRepo.FindLessonByID(lessonID)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowed := false
	for _, e := range util.AllowedVideoExtensions {
		if e == ext {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("unsupported video extension %q", ext)
	}

	// spool to a temp file so ffmpeg can probe it
	tmp, err := os.CreateTemp("", "lesson-video-*"+ext)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	if _, err := tmp.ReadFrom(src); err != nil {
		return nil, err
	}

	info, err := util.GetVideoInfo(tmp.Name())
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("lessons/%d/%s%s", lessonID, uuid.New().String(), ext)
	videoURL, err := s.Storage.UploadFile(ctx, name, tmp.Name(), util.MimeVideo+strings.TrimPrefix(ext, "."))
	if err != nil {
		return nil, err
	}

	thumbPath := filepath.Join(os.TempDir(), fmt.Sprintf("thumb-%d-%d.jpg", lessonID, time.Now().UnixNano()))
	thumbURL := ""
	if err := util.GenerateThumbnail(tmp.Name(), thumbPath, "00:00:01"); err != nil {
		logger.Log.Error("thumbnail generation failed", zap.Uint("lesson", lessonID), zap.Error(err))
	} else {
		defer os.Remove(thumbPath)
		thumbName := fmt.Sprintf("lessons/%d/thumb-%s.jpg", lessonID, uuid.New().String())
		thumbURL, err = s.Storage.UploadFile(ctx, thumbName, thumbPath, "image/jpeg")
		if err != nil {
			logger.Log.Error("thumbnail upload failed", zap.Error(err))
			thumbURL = ""
		}
	}

	lesson.VideoURL = videoURL
	lesson.ThumbnailURL = thumbURL
	lesson.DurationSeconds = int(info.Duration)
	if err := s.ContentRepo.UpdateLesson(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

type ExerciseCreateRequest struct {
	Title  string      `json:"title"`
	Kind   string      `json:"kind" binding:"required"`
	Spec   grader.Spec `json:"spec" binding:"required"`
	Points int         `json:"points"`
}

// CreateExercise validates the spec against the grading engine before
// persisting it, so broken content never reaches students.
func (s *ContentService) CreateExercise(lessonID uint, req ExerciseCreateRequest) (*model.Exercise, error) {
	if _, err := s.ContentRepo.FindLessonByID(lessonID); err != nil {
		return nil, err
	}

	req.Spec.Kind = grader.Kind(req.Kind)
	if req.Spec.MaxScore <= 0 {
		req.Spec.MaxScore = req.Points
	}
	if err := validateSpec(req.Spec); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(req.Spec)
	if err != nil {
		return nil, err
	}

	ex := &model.Exercise{
		LessonID: lessonID,
		Kind:     req.Kind,
		Title:    req.Title,
		Spec:     string(raw),
		Points:   req.Spec.MaxScore,
	}
	if err := s.ContentRepo.CreateExercise(ex); err != nil {
		return nil, err
	}
	return ex, nil
}

// UpdateExerciseSpec revises the scoring spec of an existing exercise and
// bumps its content version. Pending submissions keep the score they were
// graded with; only new submissions see the revised spec.
func (s *ContentService) UpdateExerciseSpec(id uint, spec grader.Spec) (*model.Exercise, error) {
	ex, err := s.ContentRepo.FindExerciseByID(id)
	if err != nil {
		return nil, util.ErrExerciseNotFound
	}

	spec.Kind = grader.Kind(ex.Kind)
	if spec.MaxScore <= 0 {
		spec.MaxScore = ex.Points
	}
	if err := validateSpec(spec); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(spec)
	if err != nil {
		return nil, err
	}
	if err := s.ContentRepo.UpdateExerciseSpec(id, string(raw)); err != nil {
		return nil, err
	}
	return s.ContentRepo.FindExerciseByID(id)
}

// validateSpec rejects specs the grader could never score.
func validateSpec(spec grader.Spec) error {
	if spec.MaxScore <= 0 {
		return grader.ErrInvalidSpec
	}
	switch spec.Kind {
	case grader.KindChoice, grader.KindScenario, grader.KindStickerRepair:
		if spec.CorrectChoice == "" {
			return grader.ErrInvalidSpec
		}
	case grader.KindMulti:
		hasCorrect := false
		for _, o := range spec.Options {
			if o.Correct {
				hasCorrect = true
				break
			}
		}
		if !hasCorrect {
			return grader.ErrInvalidSpec
		}
	case grader.KindShort:
		if len(spec.Keywords) == 0 {
			return grader.ErrInvalidSpec
		}
	case grader.KindMatching:
		if len(spec.Pairs) == 0 {
			return grader.ErrInvalidSpec
		}
	case grader.KindDragSequence:
		if len(spec.CorrectOrder) == 0 {
			return grader.ErrInvalidSpec
		}
	case grader.KindMCQSet:
		if len(spec.SubQuestions) == 0 {
			return grader.ErrInvalidSpec
		}
	default:
		return grader.ErrUnknownKind
	}
	return nil
}

func (s *ContentService) ListExercises(lessonID uint) ([]model.Exercise, error) {
	return s.ContentRepo.ListExercises(lessonID)
}

type GameCreateRequest struct {
	Title       string      `json:"title" binding:"required"`
	Description string      `json:"description"`
	GradeLevel  string      `json:"gradeLevel" binding:"required"`
	Kind        string      `json:"kind" binding:"required"`
	Spec        grader.Spec `json:"spec"`
	Points      int         `json:"points"`
	IsPublished bool        `json:"isPublished"`
}

func (s *ContentService) CreateGame(req GameCreateRequest) (*model.Game, error) {
	if !model.ValidGradeLevel(req.GradeLevel) {
		return nil, util.ErrInvalidGradeLevel
	}

	req.Spec.Kind = grader.Kind(req.Kind)
	if req.Spec.MaxScore <= 0 {
		req.Spec.MaxScore = req.Points
	}
	if err := validateSpec(req.Spec); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(req.Spec)
	if err != nil {
		return nil, err
	}

	game := &model.Game{
		Title:       req.Title,
		Description: req.Description,
		GradeLevel:  req.GradeLevel,
		Kind:        req.Kind,
		Spec:        string(raw),
		Points:      req.Spec.MaxScore,
		IsPublished: req.IsPublished,
	}
	if err := s.ContentRepo.CreateGame(game); err != nil {
		return nil, err
	}
	return game, nil
}

func (s *ContentService) ListGames(gradeLevel string, publishedOnly bool) ([]model.Game, error) {
	return s.ContentRepo.ListGames(gradeLevel, publishedOnly)
}
