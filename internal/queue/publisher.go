package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jhananishri-B/practice-hub/internal/domain"
)

// Publisher publishes learning events to the queue
type Publisher struct {
	conn *Connection
}

// NewPublisher creates a new queue publisher
func NewPublisher(conn *Connection) *Publisher {
	return &Publisher{conn: conn}
}

// PublishSessionCompleted publishes a session completion event
func (p *Publisher) PublishSessionCompleted(ctx context.Context, session *domain.PracticeSession, levelCompleted bool) error {
	event := newSessionCompletedEvent(session, levelCompleted)

	if err := p.conn.PublishJSON(ctx, SessionQueueName, event); err != nil {
		return fmt.Errorf("failed to publish session completed event: %w", err)
	}

	slog.Info("published session completed event",
		"session_id", event.SessionID,
		"user_id", event.UserID,
		"level_id", event.LevelID,
		"level_completed", event.LevelCompleted,
	)

	return nil
}

// PublishSubmissionGraded publishes a graded submission event
func (p *Publisher) PublishSubmissionGraded(ctx context.Context, sub *domain.UserSubmission) error {
	event := newSubmissionGradedEvent(sub)

	if err := p.conn.PublishJSON(ctx, SubmissionQueueName, event); err != nil {
		return fmt.Errorf("failed to publish submission graded event: %w", err)
	}

	slog.Info("published submission graded event",
		"submission_id", event.SubmissionID,
		"session_id", event.SessionID,
		"is_correct", event.IsCorrect,
	)

	return nil
}

func newSessionCompletedEvent(session *domain.PracticeSession, levelCompleted bool) *SessionCompletedEvent {
	completedAt := time.Now()
	if session.CompletedAt != nil {
		completedAt = *session.CompletedAt
	}

	return &SessionCompletedEvent{
		SessionID:      session.ID,
		UserID:         session.UserID,
		CourseID:       session.CourseID,
		LevelID:        session.LevelID,
		SessionType:    session.SessionType,
		TotalQuestions: session.TotalQuestions,
		LevelCompleted: levelCompleted,
		CompletedAt:    completedAt,
	}
}

func newSubmissionGradedEvent(sub *domain.UserSubmission) *SubmissionGradedEvent {
	return &SubmissionGradedEvent{
		SubmissionID:    sub.ID,
		SessionID:       sub.SessionID,
		QuestionID:      sub.QuestionID,
		UserID:          sub.UserID,
		SubmissionType:  sub.SubmissionType,
		IsCorrect:       sub.IsCorrect,
		TestCasesPassed: sub.TestCasesPassed,
		TotalTestCases:  sub.TotalTestCases,
		SubmittedAt:     sub.SubmittedAt,
	}
}
