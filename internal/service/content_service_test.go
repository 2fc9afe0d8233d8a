package service

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"ecolearn_backend/internal/grader"
	"ecolearn_backend/internal/model"
	"ecolearn_backend/internal/repository"
	"ecolearn_backend/internal/util"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Course{}, &model.Lesson{}, &model.Exercise{},
		&model.ExerciseSubmission{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newContentService(t *testing.T) *ContentService {
	t.Helper()
	return NewContentService(repository.NewContentRepository(newTestDB(t)), nil, nil)
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestUpdateCoursePartialMerge(t *testing.T) {
	svc := newContentService(t)

	course, err := svc.CreateCourse(1, CourseCreateRequest{
		Title:       "رحلة إلى عالم البيئة",
		Description: "مقدمة في علوم البيئة",
		GradeLevel:  "5eme",
	})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}

	got, err := svc.UpdateCourse(course.ID, CourseUpdateRequest{
		Title:       strPtr("حماة الكوكب"),
		IsPublished: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("UpdateCourse: %v", err)
	}
	if got.Title != "حماة الكوكب" || !got.IsPublished {
		t.Errorf("update not applied: %+v", got)
	}
	if got.Description != "مقدمة في علوم البيئة" {
		t.Errorf("omitted field clobbered: %q", got.Description)
	}

	// the merge must be persisted, not just returned
	reloaded, err := svc.GetCourse(course.ID)
	if err != nil {
		t.Fatalf("GetCourse: %v", err)
	}
	if reloaded.Title != "حماة الكوكب" || !reloaded.IsPublished {
		t.Errorf("persisted course = %+v", reloaded)
	}
}

func TestUpdateCourseUnknownID(t *testing.T) {
	svc := newContentService(t)

	if _, err := svc.UpdateCourse(999, CourseUpdateRequest{Title: strPtr("x")}); !errors.Is(err, util.ErrCourseNotFound) {
		t.Errorf("err = %v, want ErrCourseNotFound", err)
	}
}

func seedExercise(t *testing.T, svc *ContentService) *model.Exercise {
	t.Helper()
	course, err := svc.CreateCourse(1, CourseCreateRequest{Title: "c", GradeLevel: "5eme"})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	lesson, err := svc.CreateLesson(course.ID, LessonCreateRequest{Title: "l"})
	if err != nil {
		t.Fatalf("CreateLesson: %v", err)
	}
	ex, err := svc.CreateExercise(lesson.ID, ExerciseCreateRequest{
		Title: "النفايات",
		Kind:  "short",
		Spec: grader.Spec{
			MaxScore: 10,
			Keywords: []string{"إعادة التدوير"},
		},
	})
	if err != nil {
		t.Fatalf("CreateExercise: %v", err)
	}
	return ex
}

func TestUpdateExerciseSpecBumpsVersion(t *testing.T) {
	svc := newContentService(t)
	ex := seedExercise(t, svc)
	before, err := svc.ContentRepo.FindExerciseByID(ex.ID)
	if err != nil {
		t.Fatal(err)
	}

	revised, err := svc.UpdateExerciseSpec(ex.ID, grader.Spec{
		MaxScore: 10,
		Keywords: []string{"إعادة التدوير", "تقليل"},
	})
	if err != nil {
		t.Fatalf("UpdateExerciseSpec: %v", err)
	}
	if revised.Version != before.Version+1 {
		t.Errorf("version = %d, want %d", revised.Version, before.Version+1)
	}

	var spec grader.Spec
	if err := json.Unmarshal([]byte(revised.Spec), &spec); err != nil {
		t.Fatalf("stored spec: %v", err)
	}
	if len(spec.Keywords) != 2 {
		t.Errorf("stored keywords = %v", spec.Keywords)
	}
	if spec.Kind != grader.KindShort {
		t.Errorf("kind = %q, want the exercise's own kind", spec.Kind)
	}
}

func TestUpdateExerciseSpecRejectsInvalid(t *testing.T) {
	svc := newContentService(t)
	ex := seedExercise(t, svc)
	before, err := svc.ContentRepo.FindExerciseByID(ex.ID)
	if err != nil {
		t.Fatal(err)
	}

	// a short exercise without keywords can never be scored
	if _, err := svc.UpdateExerciseSpec(ex.ID, grader.Spec{MaxScore: 10}); !errors.Is(err, grader.ErrInvalidSpec) {
		t.Errorf("err = %v, want ErrInvalidSpec", err)
	}

	// the stored spec must be untouched after the rejection
	kept, err := svc.ContentRepo.FindExerciseByID(ex.ID)
	if err != nil {
		t.Fatal(err)
	}
	if kept.Version != before.Version || kept.Spec != before.Spec {
		t.Errorf("rejected update modified the exercise: %+v", kept)
	}

	if _, err := svc.UpdateExerciseSpec(999, grader.Spec{MaxScore: 10}); !errors.Is(err, util.ErrExerciseNotFound) {
		t.Errorf("err = %v, want ErrExerciseNotFound", err)
	}
}

func TestExerciseHistory(t *testing.T) {
	db := newTestDB(t)
	progressRepo := repository.NewProgressRepository(db)
	svc := &ExerciseService{ProgressRepo: progressRepo}

	base := time.Now().Add(-time.Hour)
	for i, sub := range []model.ExerciseSubmission{
		{UserID: 1, ExerciseID: 7, Score: 4, MaxScore: 10},
		{UserID: 1, ExerciseID: 7, Score: 8, MaxScore: 10, Passed: true},
		{UserID: 1, ExerciseID: 8, Score: 10, MaxScore: 10, Passed: true},
		{UserID: 2, ExerciseID: 7, Score: 9, MaxScore: 10, Passed: true},
	} {
		sub.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := progressRepo.CreateSubmission(&sub); err != nil {
			t.Fatalf("seed submission: %v", err)
		}
	}

	all, err := svc.History(1, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want the student's 3 attempts", len(all))
	}
	if all[0].ExerciseID != 8 {
		t.Errorf("first entry = exercise %d, want the newest attempt first", all[0].ExerciseID)
	}

	one, err := svc.History(1, 7)
	if err != nil {
		t.Fatalf("History(exercise 7): %v", err)
	}
	if len(one) != 2 {
		t.Errorf("len = %d, want 2 attempts on exercise 7", len(one))
	}
	for _, s := range one {
		if s.ExerciseID != 7 || s.UserID != 1 {
			t.Errorf("stray entry in filtered history: %+v", s)
		}
	}
}
