package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrInvalidGradeLevel    = errors.New("invalid grade level")
	ErrTestAlreadySubmitted = errors.New("level test already submitted for this grade")
	ErrCourseNotFound       = errors.New("course not found")
	ErrExerciseNotFound     = errors.New("exercise not found")
	ErrGameNotFound         = errors.New("game not found")
	ErrNotLinkedToStudent   = errors.New("parent is not linked to this student")
	ErrEmptyMessage         = errors.New("message content must not be empty")
)
