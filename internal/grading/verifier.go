package grading

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Jhananishri-B/practice-hub/internal/domain"
	"github.com/Jhananishri-B/practice-hub/internal/runner"
)

// Evaluator grades code against test cases. Satisfied by *runner.Evaluator.
type Evaluator interface {
	Evaluate(ctx context.Context, code string, lang runner.Language, cases []domain.TestCase) []runner.CaseOutcome
}

// Publisher emits graded submission events for downstream consumers. A nil
// publisher disables events entirely.
type Publisher interface {
	PublishSubmissionGraded(ctx context.Context, sub *domain.UserSubmission) error
}

// Verifier turns a raw user answer into a persisted, graded submission. It
// branches on the question type: MCQ answers are checked against the stored
// correct option, coding answers are delegated to the evaluator.
type Verifier struct {
	store     Store
	evaluator Evaluator
	languages Languages
	publisher Publisher
	now       func() time.Time
}

// NewVerifier creates a verifier.
func NewVerifier(store Store, evaluator Evaluator, languages Languages) *Verifier {
	return &Verifier{
		store:     store,
		evaluator: evaluator,
		languages: languages,
		now:       time.Now,
	}
}

// SetPublisher enables graded submission events.
func (v *Verifier) SetPublisher(p Publisher) {
	v.publisher = p
}

// SubmitRequest contains one answer for one question in a session.
type SubmitRequest struct {
	SessionID  uuid.UUID
	QuestionID uuid.UUID
	UserID     uuid.UUID

	// MCQ answers.
	SelectedOptionID *uuid.UUID

	// Coding answers.
	Code     string
	Language string
}

// RunRequest is a dry run of coding submission code against the visible test
// cases only. Nothing is persisted.
type RunRequest struct {
	SessionID  uuid.UUID
	QuestionID uuid.UUID
	UserID     uuid.UUID
	Code       string
	Language   string
}

// CaseReport is the client-facing view of one graded test case. Hidden cases
// report pass/fail but withhold their output and diagnostics.
type CaseReport struct {
	TestCaseNumber int    `json:"test_case_number"`
	Hidden         bool   `json:"hidden"`
	Passed         bool   `json:"passed"`
	ActualOutput   string `json:"actual_output,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"`
	ExecutionMs    int64  `json:"execution_ms"`
}

// Result is the uniform outcome of a graded submission, MCQ or coding.
type Result struct {
	SubmissionID    uuid.UUID           `json:"submission_id"`
	QuestionType    domain.QuestionType `json:"question_type"`
	IsCorrect       bool                `json:"is_correct"`
	TestCasesPassed int                 `json:"test_cases_passed,omitempty"`
	TotalTestCases  int                 `json:"total_test_cases,omitempty"`
	Cases           []CaseReport        `json:"cases,omitempty"`
}

// Submit grades one answer and records it. The submission history is
// append-only; resubmitting the same question adds a new row.
func (v *Verifier) Submit(ctx context.Context, req SubmitRequest) (*Result, error) {
	session, sq, question, err := v.resolve(ctx, req.SessionID, req.QuestionID, req.UserID)
	if err != nil {
		return nil, err
	}

	switch question.QuestionType {
	case domain.QuestionTypeMCQ:
		return v.submitMCQ(ctx, session, question, req)
	case domain.QuestionTypeCoding:
		return v.submitCoding(ctx, session, sq, question, req)
	default:
		return nil, fmt.Errorf("%w: unknown question type %q", domain.ErrInvalidInput, question.QuestionType)
	}
}

// Run executes code against the question's visible test cases without
// recording anything. Hidden cases stay hidden; submit is the only path that
// grades them.
func (v *Verifier) Run(ctx context.Context, req RunRequest) ([]CaseReport, error) {
	session, _, question, err := v.resolve(ctx, req.SessionID, req.QuestionID, req.UserID)
	if err != nil {
		return nil, err
	}
	if question.QuestionType != domain.QuestionTypeCoding {
		return nil, fmt.Errorf("%w: run is only available for coding questions", domain.ErrInvalidInput)
	}

	lang, err := v.checkLanguage(ctx, session.CourseID, req.Code, req.Language)
	if err != nil {
		return nil, err
	}

	cases, err := v.store.TestCases(ctx, question.ID)
	if err != nil {
		return nil, fmt.Errorf("load test cases: %w", err)
	}
	if len(cases) == 0 {
		return nil, domain.ErrNoTestCases
	}

	visible := make([]domain.TestCase, 0, len(cases))
	for _, tc := range cases {
		if !tc.IsHidden {
			visible = append(visible, tc)
		}
	}

	outcomes := v.evaluator.Evaluate(ctx, req.Code, lang, visible)
	reports := make([]CaseReport, 0, len(outcomes))
	for _, o := range outcomes {
		reports = append(reports, CaseReport{
			TestCaseNumber: o.TestCaseNumber,
			Passed:         o.Passed,
			ActualOutput:   o.ActualOutput,
			ErrorMessage:   o.ErrorMessage,
			ExecutionMs:    o.ExecutionTime.Milliseconds(),
		})
	}
	return reports, nil
}

// resolve loads the session, verifies ownership and the session/question
// pairing, and loads the question.
func (v *Verifier) resolve(ctx context.Context, sessionID, questionID, userID uuid.UUID) (*domain.PracticeSession, *domain.SessionQuestion, *domain.Question, error) {
	session, err := v.store.Session(ctx, sessionID)
	if err != nil {
		return nil, nil, nil, err
	}
	if session.UserID != userID {
		// Another user's session is indistinguishable from a missing one.
		return nil, nil, nil, domain.ErrSessionNotFound
	}
	if session.IsTerminal() {
		return nil, nil, nil, domain.ErrSessionCompleted
	}

	sq, err := v.store.SessionQuestion(ctx, sessionID, questionID)
	if err != nil {
		return nil, nil, nil, err
	}

	question, err := v.store.Question(ctx, questionID)
	if err != nil {
		return nil, nil, nil, err
	}
	return session, sq, question, nil
}

func (v *Verifier) submitMCQ(ctx context.Context, session *domain.PracticeSession, question *domain.Question, req SubmitRequest) (*Result, error) {
	if req.SelectedOptionID == nil {
		return nil, fmt.Errorf("%w: selected_option_id is required", domain.ErrInvalidInput)
	}

	option, err := v.store.Option(ctx, *req.SelectedOptionID)
	if err != nil {
		return nil, err
	}
	if option.QuestionID != question.ID {
		return nil, domain.ErrOptionNotFound
	}

	sub := &domain.UserSubmission{
		ID:               uuid.New(),
		SessionID:        session.ID,
		QuestionID:       question.ID,
		UserID:           session.UserID,
		SubmissionType:   domain.QuestionTypeMCQ,
		SelectedOptionID: req.SelectedOptionID,
		IsCorrect:        option.IsCorrect,
		SubmittedAt:      v.now(),
	}
	if err := v.store.SaveSubmission(ctx, sub, nil); err != nil {
		return nil, fmt.Errorf("save submission: %w", err)
	}
	v.publishGraded(ctx, sub)

	return &Result{
		SubmissionID: sub.ID,
		QuestionType: domain.QuestionTypeMCQ,
		IsCorrect:    option.IsCorrect,
	}, nil
}

// publishGraded emits the graded submission event. The submission is already
// recorded; a publish failure must not fail the grade.
func (v *Verifier) publishGraded(ctx context.Context, sub *domain.UserSubmission) {
	if v.publisher == nil {
		return
	}
	if err := v.publisher.PublishSubmissionGraded(ctx, sub); err != nil {
		slog.Warn("failed to publish submission graded event",
			"submission_id", sub.ID,
			"error", err,
		)
	}
}

func (v *Verifier) submitCoding(ctx context.Context, session *domain.PracticeSession, sq *domain.SessionQuestion, question *domain.Question, req SubmitRequest) (*Result, error) {
	lang, err := v.checkLanguage(ctx, session.CourseID, req.Code, req.Language)
	if err != nil {
		return nil, err
	}

	cases, err := v.store.TestCases(ctx, question.ID)
	if err != nil {
		return nil, fmt.Errorf("load test cases: %w", err)
	}
	if len(cases) == 0 {
		return nil, domain.ErrNoTestCases
	}

	outcomes := v.evaluator.Evaluate(ctx, req.Code, lang, cases)
	passed := runner.PassedCount(outcomes)
	allPassed := passed == len(cases)

	sub := &domain.UserSubmission{
		ID:              uuid.New(),
		SessionID:       session.ID,
		QuestionID:      question.ID,
		UserID:          session.UserID,
		SubmissionType:  domain.QuestionTypeCoding,
		SubmittedCode:   req.Code,
		Language:        lang.String(),
		TestCasesPassed: passed,
		TotalTestCases:  len(cases),
		IsCorrect:       allPassed,
		SubmittedAt:     v.now(),
	}

	results := make([]domain.TestCaseResult, 0, len(outcomes))
	reports := make([]CaseReport, 0, len(outcomes))
	for _, o := range outcomes {
		results = append(results, domain.TestCaseResult{
			ID:            uuid.New(),
			SubmissionID:  sub.ID,
			TestCaseID:    o.TestCaseID,
			Passed:        o.Passed,
			ActualOutput:  o.ActualOutput,
			ErrorMessage:  o.ErrorMessage,
			ExecutionTime: o.ExecutionTime,
		})
		report := CaseReport{
			TestCaseNumber: o.TestCaseNumber,
			Hidden:         o.Hidden,
			Passed:         o.Passed,
			ExecutionMs:    o.ExecutionTime.Milliseconds(),
		}
		if !o.Hidden {
			report.ActualOutput = o.ActualOutput
			report.ErrorMessage = o.ErrorMessage
		}
		reports = append(reports, report)
	}

	if err := v.store.SaveSubmission(ctx, sub, results); err != nil {
		return nil, fmt.Errorf("save submission: %w", err)
	}
	v.publishGraded(ctx, sub)

	status := domain.QuestionStatusAttempted
	if allPassed {
		status = domain.QuestionStatusCompleted
	}
	if err := v.store.SetSessionQuestionStatus(ctx, sq.SessionID, sq.QuestionID, status); err != nil {
		return nil, fmt.Errorf("update question status: %w", err)
	}

	return &Result{
		SubmissionID:    sub.ID,
		QuestionType:    domain.QuestionTypeCoding,
		IsCorrect:       allPassed,
		TestCasesPassed: passed,
		TotalTestCases:  len(cases),
		Cases:           reports,
	}, nil
}

// checkLanguage validates the submission language against the course's fixed
// expected language. Mismatches are rejected before any code runs.
func (v *Verifier) checkLanguage(ctx context.Context, courseID uuid.UUID, code, language string) (runner.Language, error) {
	if code == "" {
		return "", fmt.Errorf("%w: code is required", domain.ErrInvalidInput)
	}
	if language == "" {
		return "", fmt.Errorf("%w: language is required", domain.ErrInvalidInput)
	}
	lang, err := runner.ParseLanguage(language)
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}

	course, err := v.store.Course(ctx, courseID)
	if err != nil {
		return "", err
	}
	expected, ok := v.languages.ForCourse(course)
	if ok && expected != lang {
		return "", fmt.Errorf("%w: course expects %s", domain.ErrLanguageMismatch, expected)
	}
	return lang, nil
}
