package service

import (
	"ecolearn_backend/internal/grader"
	"ecolearn_backend/internal/model"
	"ecolearn_backend/internal/repository"
	"ecolearn_backend/internal/util"
	"ecolearn_backend/pkg/monitoring"
	"encoding/json"
	"strconv"

	"gorm.io/gorm"
)

// ExerciseService grades submissions against the stored exercise spec,
// records progress and feeds the points/badge pipeline. Grading itself is
// delegated to the pure grader package.
type ExerciseService struct {
	ContentRepo  *repository.ContentRepository
	ProgressRepo *repository.ProgressRepository
	UserRepo     *repository.UserRepository
	Badges       *BadgeService
}

func NewExerciseService(contentRepo *repository.ContentRepository, progressRepo *repository.ProgressRepository, userRepo *repository.UserRepository, badges *BadgeService) *ExerciseService {
	return &ExerciseService{
		ContentRepo:  contentRepo,
		ProgressRepo: progressRepo,
		UserRepo:     userRepo,
		Badges:       badges,
	}
}

// SubmitResult is what the student sees after a graded attempt.
type SubmitResult struct {
	Score         int           `json:"score"`
	MaxScore      int           `json:"maxScore"`
	Passed        bool          `json:"passed"`
	PointsAwarded int           `json:"pointsAwarded"`
	NewBadges     []model.Badge `json:"newBadges,omitempty"`
}

// SubmitExercise grades a submission server-side. Points are only awarded
// on the first passing attempt of an exercise.
func (s *ExerciseService) SubmitExercise(userID, courseID, exerciseID uint, sub grader.Submission) (*SubmitResult, error) {
	ex, err := s.ContentRepo.FindExerciseByID(exerciseID)
	if err != nil {
		return nil, util.ErrExerciseNotFound
	}

	lesson, err := s.ContentRepo.FindLessonByID(ex.LessonID)
	if err != nil {
		return nil, err
	}
	if lesson.CourseID != courseID {
		return nil, util.ErrExerciseNotFound
	}

	var spec grader.Spec
	if err := json.Unmarshal([]byte(ex.Spec), &spec); err != nil {
		return nil, err
	}

	res, err := grader.Grade(spec, sub)
	if err != nil {
		return nil, err
	}

	monitoring.ExerciseSubmissions.WithLabelValues(ex.Kind, strconv.FormatBool(res.Passed)).Inc()

	passedBefore := false
	if best, err := s.ProgressRepo.BestSubmission(userID, exerciseID); err == nil {
		passedBefore = best.Passed
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	rawAnswers, _ := json.Marshal(sub)
	record := &model.ExerciseSubmission{
		UserID:     userID,
		ExerciseID: exerciseID,
		Score:      res.Score,
		MaxScore:   res.MaxScore,
		Passed:     res.Passed,
		Answers:    string(rawAnswers),
	}
	if err := s.ProgressRepo.CreateSubmission(record); err != nil {
		return nil, err
	}

	out := &SubmitResult{Score: res.Score, MaxScore: res.MaxScore, Passed: res.Passed}

	if res.Passed && !passedBefore {
		out.PointsAwarded = ex.Points
		if err := s.UserRepo.AddPoints(userID, ex.Points); err != nil {
			return nil, err
		}
		if err := s.ProgressRepo.MarkLessonCompleted(userID, ex.LessonID, lesson.CourseID); err != nil {
			return nil, err
		}
		if s.Badges != nil {
			out.NewBadges, _ = s.Badges.CheckPointBadges(userID)
		}
	}

	return out, nil
}

// SubmitGame records a game score. The client grades simple games locally;
// the server re-grades when the game carries a spec, otherwise it trusts the
// reported score but clamps it to the declared maximum.
func (s *ExerciseService) SubmitGame(userID, gameID uint, reported grader.Result, sub *grader.Submission) (*SubmitResult, error) {
	game, err := s.ContentRepo.FindGameByID(gameID)
	if err != nil {
		return nil, util.ErrGameNotFound
	}

	res := reported
	if game.Spec != "" && sub != nil {
		var spec grader.Spec
		if err := json.Unmarshal([]byte(game.Spec), &spec); err == nil {
			if graded, gerr := grader.Grade(spec, *sub); gerr == nil {
				res = graded
			}
		}
	}
	if res.MaxScore <= 0 {
		res.MaxScore = game.Points
	}
	if res.Score < 0 {
		res.Score = 0
	}
	if res.Score > res.MaxScore {
		res.Score = res.MaxScore
	}
	res.Passed = grader.PassThreshold(res.Score, res.MaxScore)

	monitoring.ExerciseSubmissions.WithLabelValues(game.Kind, strconv.FormatBool(res.Passed)).Inc()

	prevPassed := false
	if scores, err := s.ProgressRepo.ListGameScores(userID); err == nil {
		for _, sc := range scores {
			if sc.GameID == gameID && sc.Passed {
				prevPassed = true
				break
			}
		}
	}

	if err := s.ProgressRepo.UpsertGameScore(&model.GameScore{
		UserID:   userID,
		GameID:   gameID,
		Score:    res.Score,
		MaxScore: res.MaxScore,
		Passed:   res.Passed,
	}); err != nil {
		return nil, err
	}

	out := &SubmitResult{Score: res.Score, MaxScore: res.MaxScore, Passed: res.Passed}
	if res.Passed && !prevPassed {
		out.PointsAwarded = game.Points
		if err := s.UserRepo.AddPoints(userID, game.Points); err != nil {
			return nil, err
		}
		if s.Badges != nil {
			out.NewBadges, _ = s.Badges.CheckPointBadges(userID)
		}
	}
	return out, nil
}

// History returns a student's graded attempts, newest first, optionally
// narrowed to one exercise.
func (s *ExerciseService) History(userID, exerciseID uint) ([]model.ExerciseSubmission, error) {
	return s.ProgressRepo.ListSubmissions(userID, exerciseID)
}
