package service

import (
	"ecolearn_backend/internal/leveltest"
	"ecolearn_backend/internal/model"
	"ecolearn_backend/internal/repository"
	"ecolearn_backend/internal/util"
	"ecolearn_backend/pkg/logger"
	"ecolearn_backend/pkg/monitoring"
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LevelTestService enforces the server side of the diagnostic placement
// test: one attempt per grade level, score/category recomputed from the
// fixed question bank rather than trusted from the client.
type LevelTestService struct {
	LevelTestRepo *repository.LevelTestRepository
	UserRepo      *repository.UserRepository
	Badges        *BadgeService
}

func NewLevelTestService(levelTestRepo *repository.LevelTestRepository, userRepo *repository.UserRepository, badges *BadgeService) *LevelTestService {
	return &LevelTestService{
		LevelTestRepo: levelTestRepo,
		UserRepo:      userRepo,
		Badges:        badges,
	}
}

// Status mirrors the GET /level-test/status response shape.
type Status struct {
	Level     string `json:"level"`
	Completed bool   `json:"completed"`
	Score     *int   `json:"score,omitempty"`
	Category  string `json:"category,omitempty"`
}

func (s *LevelTestService) Status(userID uint, level string) (*Status, error) {
	if _, err := leveltest.BankFor(level); err != nil {
		return nil, util.ErrInvalidGradeLevel
	}

	result, err := s.LevelTestRepo.Find(userID, level)
	if err == gorm.ErrRecordNotFound {
		return &Status{Level: level, Completed: false}, nil
	}
	if err != nil {
		return nil, err
	}

	return &Status{
		Level:     level,
		Completed: true,
		Score:     &result.Score,
		Category:  result.Category,
	}, nil
}

// Submit validates every answer against the bank, recomputes the score and
// category, and stores the immutable attempt. A second submission for the
// same level is rejected.
func (s *LevelTestService) Submit(userID uint, level string, answers []leveltest.Answer) (*model.LevelTestResult, error) {
	bank, err := leveltest.BankFor(level)
	if err != nil {
		return nil, util.ErrInvalidGradeLevel
	}

	exists, err := s.LevelTestRepo.Exists(userID, level)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrTestAlreadySubmitted
	}

	if len(answers) != len(bank.Questions) {
		return nil, leveltest.ErrIncomplete
	}

	// recompute correctness server-side, ignoring the client's isCorrect flags
	score := 0
	checked := make([]leveltest.Answer, 0, len(answers))
	seen := make(map[string]bool, len(answers))
	for _, a := range answers {
		q, ok := bank.Question(a.QuestionID)
		if !ok || seen[a.QuestionID] {
			return nil, leveltest.ErrIncomplete
		}
		seen[a.QuestionID] = true

		correct := a.ChoiceID == q.CorrectChoice
		if correct {
			score++
		}
		checked = append(checked, leveltest.Answer{
			QuestionID: a.QuestionID,
			ChoiceID:   a.ChoiceID,
			IsCorrect:  correct,
		})
	}

	raw, _ := json.Marshal(checked)
	result := &model.LevelTestResult{
		UserID:   userID,
		Level:    level,
		Score:    score,
		Category: bank.CategoryFor(score),
		Answers:  string(raw),
	}
	if err := s.LevelTestRepo.Create(result); err != nil {
		return nil, err
	}
	monitoring.LevelTestCompletions.WithLabelValues(level).Inc()

	// completing the placement test fixes the student's grade level
	if err := s.UserRepo.UpdateGradeLevel(userID, level); err != nil {
		logger.Log.Error("grade level update failed", zap.Uint("user", userID), zap.Error(err))
	}

	if s.Badges != nil {
		if _, err := s.Badges.AwardByCode(userID, "placement_done"); err != nil {
			logger.Log.Error("placement badge award failed", zap.Error(err))
		}
	}

	return result, nil
}

// Questions returns the bank questions of a level without correct choices.
func (s *LevelTestService) Questions(level string) ([]leveltest.Question, error) {
	bank, err := leveltest.BankFor(level)
	if err != nil {
		return nil, util.ErrInvalidGradeLevel
	}
	return bank.Questions, nil
}
