package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserSubmission is one graded answer within a session. History is
// append-only per (session, question); "latest" is resolved by timestamp at
// read time, not by enforced uniqueness.
type UserSubmission struct {
	ID             uuid.UUID
	SessionID      uuid.UUID
	QuestionID     uuid.UUID
	UserID         uuid.UUID
	SubmissionType QuestionType
	IsCorrect      bool
	SubmittedAt    time.Time

	// MCQ-only.
	SelectedOptionID *uuid.UUID

	// Coding-only.
	SubmittedCode   string
	Language        string
	TestCasesPassed int
	TotalTestCases  int
}

// TestCaseResult records the outcome of one test case for one graded coding
// submission.
type TestCaseResult struct {
	ID            uuid.UUID
	SubmissionID  uuid.UUID
	TestCaseID    uuid.UUID
	Passed        bool
	ActualOutput  string
	ErrorMessage  string
	ExecutionTime time.Duration
}

// LatestSubmissions reduces an append-only submission history to the most
// recent submission per question.
func LatestSubmissions(history []UserSubmission) map[uuid.UUID]UserSubmission {
	latest := make(map[uuid.UUID]UserSubmission)
	for _, sub := range history {
		prev, ok := latest[sub.QuestionID]
		if !ok || sub.SubmittedAt.After(prev.SubmittedAt) {
			latest[sub.QuestionID] = sub
		}
	}
	return latest
}
