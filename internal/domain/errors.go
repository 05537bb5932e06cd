package domain

import "errors"

// -----------------------------------------------------------------------------
// Domain Errors
// These errors represent domain-level failures and are used by stores and
// services to communicate domain-specific error conditions.
// -----------------------------------------------------------------------------

// Content errors
var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrLevelNotFound    = errors.New("level not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrOptionNotFound   = errors.New("option not found")
)

// Session errors
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionCompleted = errors.New("session already completed")
)

// Grading errors
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrLanguageMismatch = errors.New("language does not match course")
	ErrNoTestCases      = errors.New("coding question has no test cases")
)

// Session creation errors
var (
	ErrInsufficientContent  = errors.New("not enough questions for a session")
	ErrNoQuestionsAvailable = errors.New("no questions available for this level")
)

// Progress errors
var (
	ErrProgressNotFound = errors.New("progress not found")
	ErrLevelLocked      = errors.New("level is locked")
)

// Leaderboard errors
var (
	ErrNoLeaderboardData = errors.New("no leaderboard data available")
)

// General errors
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)
