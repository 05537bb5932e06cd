package session

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Jhananishri-B/practice-hub/internal/domain"
)

// DefaultSampleSize is how many coding questions a coding session draws from
// the level's pool when not configured otherwise.
const DefaultSampleSize = 2

// Service manages practice session lifecycle: creation with question
// selection, resumption, and finalization.
type Service struct {
	store      Store
	progress   Progress
	policy     TypePolicy
	publisher  Publisher
	sampleSize int
	now        func() time.Time
	shuffle    func(n int) []int
}

// NewService creates a session service. publisher may be nil.
func NewService(store Store, progress Progress, policy TypePolicy, publisher Publisher) *Service {
	return &Service{
		store:      store,
		progress:   progress,
		policy:     policy,
		publisher:  publisher,
		sampleSize: DefaultSampleSize,
		now:        time.Now,
		shuffle:    rand.Perm,
	}
}

// SetSampleSize overrides the coding question sample size.
func (s *Service) SetSampleSize(n int) {
	if n > 0 {
		s.sampleSize = n
	}
}

// QuestionView is a session question with its eager rendering payload:
// options for MCQ, test cases (hidden ones flagged) for coding.
type QuestionView struct {
	Question  domain.Question
	Order     int
	Status    domain.QuestionStatus
	Options   []domain.MCQOption
	TestCases []domain.TestCase
}

// StartedSession is the full payload returned by Start and Get.
type StartedSession struct {
	Session   domain.PracticeSession
	Questions []QuestionView
}

// CompletionResult summarizes a finalized session.
type CompletionResult struct {
	Session            domain.PracticeSession
	QuestionsCompleted int
	TotalQuestions     int
	LevelCompleted     bool
}

// Start creates a practice session for a (user, course, level) triple. The
// requested type wins when valid; otherwise the per-level default policy
// applies.
func (s *Service) Start(ctx context.Context, userID, courseID, levelID uuid.UUID, requestedType domain.SessionType) (*StartedSession, error) {
	course, err := s.store.Course(ctx, courseID)
	if err != nil {
		return nil, err
	}
	level, err := s.store.Level(ctx, levelID)
	if err != nil {
		return nil, err
	}
	if level.CourseID != course.ID {
		return nil, domain.ErrLevelNotFound
	}

	unlocked, err := s.progress.IsUnlocked(ctx, userID, courseID, levelID)
	if err != nil {
		return nil, fmt.Errorf("check unlock: %w", err)
	}
	if !unlocked {
		return nil, domain.ErrLevelLocked
	}

	sessionType := requestedType
	if !sessionType.IsValid() {
		sessionType = s.policy.DefaultType(course, level)
	}

	questions, err := s.selectQuestions(ctx, levelID, sessionType)
	if err != nil {
		return nil, err
	}

	session := domain.PracticeSession{
		ID:             uuid.New(),
		UserID:         userID,
		CourseID:       courseID,
		LevelID:        levelID,
		SessionType:    sessionType,
		Status:         domain.SessionStatusInProgress,
		TotalQuestions: len(questions),
		StartedAt:      s.now(),
	}

	rows := make([]domain.SessionQuestion, 0, len(questions))
	for i, q := range questions {
		rows = append(rows, domain.SessionQuestion{
			SessionID:     session.ID,
			QuestionID:    q.ID,
			QuestionOrder: i + 1,
			Status:        domain.QuestionStatusNotAttempted,
		})
	}
	if err := s.store.CreateSession(ctx, &session, rows); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	views, err := s.renderQuestions(ctx, questions, rows)
	if err != nil {
		return nil, err
	}

	slog.Info("session started",
		"session_id", session.ID,
		"user_id", userID,
		"session_type", sessionType,
		"questions", len(questions),
	)
	return &StartedSession{Session: session, Questions: views}, nil
}

// Get returns a session with its question payloads, for resumption. All
// state lives in storage; a process restart loses nothing.
func (s *Service) Get(ctx context.Context, sessionID, userID uuid.UUID) (*StartedSession, error) {
	session, err := s.ownedSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.SessionQuestions(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session questions: %w", err)
	}

	questions := make([]domain.Question, 0, len(rows))
	for _, row := range rows {
		q, err := s.store.Question(ctx, row.QuestionID)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}

	views, err := s.renderQuestions(ctx, questions, rows)
	if err != nil {
		return nil, err
	}
	return &StartedSession{Session: *session, Questions: views}, nil
}

// Complete finalizes a session. Partial completion is allowed but only a
// fully completed question set advances level progress. Completion is
// terminal.
func (s *Service) Complete(ctx context.Context, sessionID, userID uuid.UUID) (*CompletionResult, error) {
	session, err := s.ownedSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.IsTerminal() {
		return nil, domain.ErrSessionCompleted
	}

	rows, err := s.store.SessionQuestions(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session questions: %w", err)
	}
	completed := 0
	for _, row := range rows {
		if row.Status == domain.QuestionStatusCompleted {
			completed++
		}
	}

	now := s.now()
	if err := s.store.CompleteSession(ctx, sessionID, now); err != nil {
		return nil, fmt.Errorf("complete session: %w", err)
	}
	session.Status = domain.SessionStatusCompleted
	session.CompletedAt = &now

	levelCompleted := completed == session.TotalQuestions && session.TotalQuestions > 0
	if levelCompleted {
		if err := s.progress.MarkCompleted(ctx, userID, session.CourseID, session.LevelID); err != nil {
			return nil, fmt.Errorf("mark level completed: %w", err)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishSessionCompleted(ctx, session, levelCompleted); err != nil {
			slog.Warn("publish session completed event", "session_id", sessionID, "error", err)
		}
	}

	return &CompletionResult{
		Session:            *session,
		QuestionsCompleted: completed,
		TotalQuestions:     session.TotalQuestions,
		LevelCompleted:     levelCompleted,
	}, nil
}

// CaseResult is one graded test case as rendered in submission history.
// Hidden cases report pass/fail but withhold their output and diagnostics.
type CaseResult struct {
	TestCaseNumber int    `json:"test_case_number"`
	Hidden         bool   `json:"hidden"`
	Passed         bool   `json:"passed"`
	ActualOutput   string `json:"actual_output,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"`
	ExecutionMs    int64  `json:"execution_ms"`
}

// SubmissionView is one history entry with its per-case results. Cases is
// nil for MCQ submissions.
type SubmissionView struct {
	Submission domain.UserSubmission
	Cases      []CaseResult
}

// Submissions returns the session's append-only submission history. With
// latestOnly set, the history is reduced to the most recent submission per
// question, preserving submission order.
func (s *Service) Submissions(ctx context.Context, sessionID, userID uuid.UUID, latestOnly bool) ([]SubmissionView, error) {
	if _, err := s.ownedSession(ctx, sessionID, userID); err != nil {
		return nil, err
	}
	history, err := s.store.Submissions(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if latestOnly {
		latest := domain.LatestSubmissions(history)
		filtered := make([]domain.UserSubmission, 0, len(latest))
		for _, sub := range history {
			if latest[sub.QuestionID].ID == sub.ID {
				filtered = append(filtered, sub)
			}
		}
		history = filtered
	}

	views := make([]SubmissionView, 0, len(history))
	for _, sub := range history {
		view := SubmissionView{Submission: sub}
		if sub.SubmissionType == domain.QuestionTypeCoding {
			cases, err := s.caseResults(ctx, sub.ID, sub.QuestionID)
			if err != nil {
				return nil, err
			}
			view.Cases = cases
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *Service) caseResults(ctx context.Context, submissionID, questionID uuid.UUID) ([]CaseResult, error) {
	results, err := s.store.ResultsBySubmission(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("load case results: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	testCases, err := s.store.TestCases(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("load test cases: %w", err)
	}
	byID := make(map[uuid.UUID]domain.TestCase, len(testCases))
	for _, tc := range testCases {
		byID[tc.ID] = tc
	}

	cases := make([]CaseResult, 0, len(results))
	for _, res := range results {
		tc := byID[res.TestCaseID]
		c := CaseResult{
			TestCaseNumber: tc.TestCaseNumber,
			Hidden:         tc.IsHidden,
			Passed:         res.Passed,
			ExecutionMs:    res.ExecutionTime.Milliseconds(),
		}
		if !tc.IsHidden {
			c.ActualOutput = res.ActualOutput
			c.ErrorMessage = res.ErrorMessage
		}
		cases = append(cases, c)
	}
	sort.Slice(cases, func(i, j int) bool {
		return cases[i].TestCaseNumber < cases[j].TestCaseNumber
	})
	return cases, nil
}

func (s *Service) ownedSession(ctx context.Context, sessionID, userID uuid.UUID) (*domain.PracticeSession, error) {
	session, err := s.store.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// selectQuestions applies the type-dependent selection policy: a random
// sample without replacement for coding, all questions in creation order for
// MCQ.
func (s *Service) selectQuestions(ctx context.Context, levelID uuid.UUID, sessionType domain.SessionType) ([]domain.Question, error) {
	switch sessionType {
	case domain.SessionTypeCoding:
		pool, err := s.store.QuestionsByLevel(ctx, levelID, domain.QuestionTypeCoding)
		if err != nil {
			return nil, fmt.Errorf("load coding questions: %w", err)
		}
		if len(pool) < s.sampleSize {
			return nil, domain.ErrInsufficientContent
		}
		perm := s.shuffle(len(pool))
		selected := make([]domain.Question, 0, s.sampleSize)
		for _, idx := range perm[:s.sampleSize] {
			selected = append(selected, pool[idx])
		}
		return selected, nil

	case domain.SessionTypeMCQ:
		pool, err := s.store.QuestionsByLevel(ctx, levelID, domain.QuestionTypeMCQ)
		if err != nil {
			return nil, fmt.Errorf("load mcq questions: %w", err)
		}
		if len(pool) == 0 {
			return nil, domain.ErrNoQuestionsAvailable
		}
		return pool, nil

	default:
		return nil, fmt.Errorf("%w: unknown session type %q", domain.ErrInvalidInput, sessionType)
	}
}

func (s *Service) renderQuestions(ctx context.Context, questions []domain.Question, rows []domain.SessionQuestion) ([]QuestionView, error) {
	views := make([]QuestionView, 0, len(questions))
	for i, q := range questions {
		view := QuestionView{
			Question: q,
			Order:    rows[i].QuestionOrder,
			Status:   rows[i].Status,
		}
		switch q.QuestionType {
		case domain.QuestionTypeMCQ:
			options, err := s.store.OptionsByQuestion(ctx, q.ID)
			if err != nil {
				return nil, fmt.Errorf("load options: %w", err)
			}
			view.Options = options
		case domain.QuestionTypeCoding:
			cases, err := s.store.TestCases(ctx, q.ID)
			if err != nil {
				return nil, fmt.Errorf("load test cases: %w", err)
			}
			view.TestCases = cases
		}
		views = append(views, view)
	}
	return views, nil
}
