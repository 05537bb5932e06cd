package domain

import (
	"time"

	"github.com/google/uuid"
)

// QuestionType distinguishes multiple-choice from coding questions.
type QuestionType string

const (
	QuestionTypeMCQ    QuestionType = "mcq"
	QuestionTypeCoding QuestionType = "coding"
)

// IsValid checks if the question type is supported.
func (t QuestionType) IsValid() bool {
	return t == QuestionTypeMCQ || t == QuestionTypeCoding
}

// String returns the question type as a string.
func (t QuestionType) String() string {
	return string(t)
}

// Question is a single exercise attached to a level. Coding questions carry
// format/constraint metadata and a reference solution; MCQ questions carry
// options instead.
type Question struct {
	ID           uuid.UUID
	LevelID      uuid.UUID
	QuestionType QuestionType
	Title        string
	Description  string
	Difficulty   string

	// Coding-only fields.
	InputFormat       string
	OutputFormat      string
	Constraints       string
	ReferenceSolution string

	CreatedAt time.Time
}

// TestCase is an (input, expected output) pair used to grade a coding
// submission. Hidden cases are withheld from "run" mode but always graded
// on submit.
type TestCase struct {
	ID             uuid.UUID
	QuestionID     uuid.UUID
	TestCaseNumber int // 1-based, unique per question
	InputData      string
	ExpectedOutput string
	IsHidden       bool
}

// MCQOption is one answer choice for an MCQ question. Exactly one option per
// question is correct; that invariant is enforced upstream by content
// management and not re-validated here.
type MCQOption struct {
	ID           uuid.UUID
	QuestionID   uuid.UUID
	OptionLetter string
	OptionText   string
	IsCorrect    bool
}
