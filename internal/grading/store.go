package grading

import (
	"context"

	"github.com/google/uuid"

	"github.com/Jhananishri-B/practice-hub/internal/domain"
	"github.com/Jhananishri-B/practice-hub/internal/runner"
)

// Store is the persistence surface the verifier consumes. Implementations
// live in the storage packages; the interface is defined here, on the
// consumer side.
type Store interface {
	Session(ctx context.Context, id uuid.UUID) (*domain.PracticeSession, error)
	SessionQuestion(ctx context.Context, sessionID, questionID uuid.UUID) (*domain.SessionQuestion, error)
	SetSessionQuestionStatus(ctx context.Context, sessionID, questionID uuid.UUID, status domain.QuestionStatus) error

	Question(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	Option(ctx context.Context, id uuid.UUID) (*domain.MCQOption, error)
	TestCases(ctx context.Context, questionID uuid.UUID) ([]domain.TestCase, error)
	Course(ctx context.Context, id uuid.UUID) (*domain.Course, error)

	// SaveSubmission persists the submission row and its per-case results
	// atomically.
	SaveSubmission(ctx context.Context, sub *domain.UserSubmission, results []domain.TestCaseResult) error
}

// Languages maps a course to the single language its coding questions accept.
// The mapping is fixed configuration, not user-editable at runtime.
type Languages interface {
	ForCourse(course *domain.Course) (runner.Language, bool)
}
