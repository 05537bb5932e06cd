package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Jhananishri-B/practice-hub/internal/domain"
)

// Store is the persistence surface the session service consumes.
type Store interface {
	Course(ctx context.Context, id uuid.UUID) (*domain.Course, error)
	Level(ctx context.Context, id uuid.UUID) (*domain.Level, error)
	Question(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	QuestionsByLevel(ctx context.Context, levelID uuid.UUID, qtype domain.QuestionType) ([]domain.Question, error)
	OptionsByQuestion(ctx context.Context, questionID uuid.UUID) ([]domain.MCQOption, error)
	TestCases(ctx context.Context, questionID uuid.UUID) ([]domain.TestCase, error)

	// CreateSession persists the session row and its question rows atomically.
	// A failure leaves no session row behind.
	CreateSession(ctx context.Context, session *domain.PracticeSession, questions []domain.SessionQuestion) error
	Session(ctx context.Context, id uuid.UUID) (*domain.PracticeSession, error)
	SessionQuestions(ctx context.Context, sessionID uuid.UUID) ([]domain.SessionQuestion, error)
	CompleteSession(ctx context.Context, id uuid.UUID, at time.Time) error
	Submissions(ctx context.Context, sessionID uuid.UUID) ([]domain.UserSubmission, error)
	ResultsBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.TestCaseResult, error)
}

// Progress is the unlock engine as seen from the session service.
type Progress interface {
	IsUnlocked(ctx context.Context, userID, courseID, levelID uuid.UUID) (bool, error)
	MarkCompleted(ctx context.Context, userID, courseID, levelID uuid.UUID) error
}

// Publisher emits session lifecycle events for downstream consumers. A nil
// publisher disables events entirely.
type Publisher interface {
	PublishSessionCompleted(ctx context.Context, session *domain.PracticeSession, levelCompleted bool) error
}
