package service

import (
	"ecolearn_backend/internal/model"
	"ecolearn_backend/internal/repository"
	"ecolearn_backend/internal/util"
)

type DashboardService struct {
	UserRepo      *repository.UserRepository
	ContentRepo   *repository.ContentRepository
	ProgressRepo  *repository.ProgressRepository
	BadgeRepo     *repository.BadgeRepository
	LevelTestRepo *repository.LevelTestRepository
}

func NewDashboardService(
	userRepo *repository.UserRepository,
	contentRepo *repository.ContentRepository,
	progressRepo *repository.ProgressRepository,
	badgeRepo *repository.BadgeRepository,
	levelTestRepo *repository.LevelTestRepository,
) *DashboardService {
	return &DashboardService{
		UserRepo:      userRepo,
		ContentRepo:   contentRepo,
		ProgressRepo:  progressRepo,
		BadgeRepo:     badgeRepo,
		LevelTestRepo: levelTestRepo,
	}
}

type CourseProgress struct {
	CourseID         uint   `json:"courseId"`
	Title            string `json:"title"`
	TotalLessons     int64  `json:"totalLessons"`
	CompletedLessons int64  `json:"completedLessons"`
	Percent          int    `json:"percent"`
}

type StudentSummary struct {
	User          *model.User        `json:"user"`
	Points        int                `json:"points"`
	Level         string             `json:"level"`
	Badges        []model.Badge      `json:"badges"`
	Courses       []CourseProgress   `json:"courses"`
	GameScores    []model.GameScore  `json:"gameScores"`
	TestCompleted bool               `json:"testCompleted"`
	TestCategory  string             `json:"testCategory,omitempty"`
}

// StudentDashboard assembles the student's home view: points, badges,
// per-course completion and best game scores.
func (s *DashboardService) StudentDashboard(userID uint) (*StudentSummary, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	summary := &StudentSummary{
		User:   user,
		Points: user.Points,
		Level:  user.GradeLevel,
	}

	badges, err := s.BadgeRepo.ListForUser(userID)
	if err != nil {
		return nil, err
	}
	summary.Badges = badges

	if user.GradeLevel != "" {
		courses, err := s.ContentRepo.ListCourses(user.GradeLevel, true)
		if err != nil {
			return nil, err
		}
		for _, course := range courses {
			total, err := s.ContentRepo.CountLessons(course.ID)
			if err != nil {
				return nil, err
			}
			done, err := s.ProgressRepo.CountCompletedLessons(userID, course.ID)
			if err != nil {
				return nil, err
			}
			cp := CourseProgress{
				CourseID:         course.ID,
				Title:            course.Title,
				TotalLessons:     total,
				CompletedLessons: done,
			}
			if total > 0 {
				cp.Percent = int(done * 100 / total)
			}
			summary.Courses = append(summary.Courses, cp)
		}

		if result, err := s.LevelTestRepo.Find(userID, user.GradeLevel); err == nil && result != nil {
			summary.TestCompleted = true
			summary.TestCategory = result.Category
		}
	}

	scores, err := s.ProgressRepo.ListGameScores(userID)
	if err != nil {
		return nil, err
	}
	summary.GameScores = scores

	return summary, nil
}

// ChildDashboard is StudentDashboard gated on the parent-child link.
func (s *DashboardService) ChildDashboard(parentID, studentID uint) (*StudentSummary, error) {
	linked, err := s.UserRepo.IsLinked(parentID, studentID)
	if err != nil {
		return nil, err
	}
	if !linked {
		return nil, util.ErrNotLinkedToStudent
	}
	return s.StudentDashboard(studentID)
}

type ChildOverview struct {
	Student *StudentSummary `json:"student"`
}

// ParentDashboard returns a progress summary per linked child.
func (s *DashboardService) ParentDashboard(parentID uint) ([]ChildOverview, error) {
	children, err := s.UserRepo.FindChildren(parentID)
	if err != nil {
		return nil, err
	}

	overviews := make([]ChildOverview, 0, len(children))
	for _, child := range children {
		summary, err := s.StudentDashboard(child.ID)
		if err != nil {
			return nil, err
		}
		overviews = append(overviews, ChildOverview{Student: summary})
	}
	return overviews, nil
}

type RosterEntry struct {
	Student      model.User `json:"student"`
	TestDone     bool       `json:"testDone"`
	TestCategory string     `json:"testCategory,omitempty"`
}

// TeacherRoster lists all students with their placement status so the
// teacher can see who still needs the level test.
func (s *DashboardService) TeacherRoster() ([]RosterEntry, error) {
	students, err := s.UserRepo.FindByRole(model.Student)
	if err != nil {
		return nil, err
	}

	roster := make([]RosterEntry, 0, len(students))
	for _, student := range students {
		entry := RosterEntry{Student: student}
		if student.GradeLevel != "" {
			if result, err := s.LevelTestRepo.Find(student.ID, student.GradeLevel); err == nil && result != nil {
				entry.TestDone = true
				entry.TestCategory = result.Category
			}
		}
		roster = append(roster, entry)
	}
	return roster, nil
}
