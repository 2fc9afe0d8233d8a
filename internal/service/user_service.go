package service

import (
	"ecolearn_backend/internal/model"
	"ecolearn_backend/internal/repository"
	"ecolearn_backend/internal/util"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) GetByID(id uint) (*model.User, error) {
	return s.UserRepo.FindByID(id)
}

// SetGradeLevel records the grade a student picked at level selection.
func (s *UserService) SetGradeLevel(userID uint, level string) error {
	if !model.ValidGradeLevel(level) {
		return util.ErrInvalidGradeLevel
	}
	return s.UserRepo.UpdateGradeLevel(userID, level)
}

type ProfileUpdateRequest struct {
	Name     string `json:"name"`
	Language string `json:"language"`
	Avatar   string `json:"avatar"`
}

func (s *UserService) UpdateProfile(userID uint, req ProfileUpdateRequest) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Language != "" {
		user.Language = req.Language
	}
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// LinkChild attaches a student to the calling parent by the student's email.
func (s *UserService) LinkChild(parentID uint, studentEmail string) (*model.User, error) {
	student, err := s.UserRepo.FindByEmail(studentEmail)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	if student.Role != model.Student {
		return nil, util.ErrUserNotFound
	}
	if err := s.UserRepo.LinkParent(parentID, student.ID); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *UserService) Children(parentID uint) ([]model.User, error) {
	return s.UserRepo.FindChildren(parentID)
}

func (s *UserService) Leaderboard(gradeLevel string, limit int) ([]model.User, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.UserRepo.FindTopByPoints(gradeLevel, limit)
}
