package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionType is the kind of practice session (which question pool it draws
// from).
type SessionType string

const (
	SessionTypeCoding SessionType = "coding"
	SessionTypeMCQ    SessionType = "mcq"
)

// IsValid checks if the session type is supported.
func (t SessionType) IsValid() bool {
	return t == SessionTypeCoding || t == SessionTypeMCQ
}

// String returns the session type as a string.
func (t SessionType) String() string {
	return string(t)
}

// SessionStatus represents the lifecycle state of a practice session.
type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "in_progress"
	SessionStatusCompleted  SessionStatus = "completed"
)

// QuestionStatus tracks a question's attempt state within one session.
type QuestionStatus string

const (
	QuestionStatusNotAttempted QuestionStatus = "not_attempted"
	QuestionStatusAttempted    QuestionStatus = "attempted"
	QuestionStatusCompleted    QuestionStatus = "completed"
)

// PracticeSession is one learner's pass through a level's selected question
// set. TotalQuestions is a snapshot taken at creation and must equal the
// number of SessionQuestion rows for the session. Sessions are never deleted
// and completion is terminal.
type PracticeSession struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	CourseID       uuid.UUID
	LevelID        uuid.UUID
	SessionType    SessionType
	Status         SessionStatus
	TotalQuestions int
	StartedAt      time.Time
	CompletedAt    *time.Time
}

// IsTerminal returns true if the session can no longer change state.
func (s *PracticeSession) IsTerminal() bool {
	return s.Status == SessionStatusCompleted
}

// SessionQuestion joins a session to one attached question. The set of rows
// for a session is fixed at creation; only Status mutates afterwards.
type SessionQuestion struct {
	SessionID     uuid.UUID
	QuestionID    uuid.UUID
	QuestionOrder int
	Status        QuestionStatus
}
