package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Jhananishri-B/practice-hub/internal/domain"
)

type fakeStore struct {
	courses   map[uuid.UUID]*domain.Course
	levels    map[uuid.UUID]*domain.Level
	questions map[uuid.UUID]*domain.Question
	byLevel   map[uuid.UUID][]domain.Question
	options   map[uuid.UUID][]domain.MCQOption
	testCases map[uuid.UUID][]domain.TestCase

	sessions     map[uuid.UUID]*domain.PracticeSession
	sessionRows  map[uuid.UUID][]domain.SessionQuestion
	submissions  map[uuid.UUID][]domain.UserSubmission
	results      map[uuid.UUID][]domain.TestCaseResult
	createErr    error
	createCalled int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		courses:     make(map[uuid.UUID]*domain.Course),
		levels:      make(map[uuid.UUID]*domain.Level),
		questions:   make(map[uuid.UUID]*domain.Question),
		byLevel:     make(map[uuid.UUID][]domain.Question),
		options:     make(map[uuid.UUID][]domain.MCQOption),
		testCases:   make(map[uuid.UUID][]domain.TestCase),
		sessions:    make(map[uuid.UUID]*domain.PracticeSession),
		sessionRows: make(map[uuid.UUID][]domain.SessionQuestion),
		submissions: make(map[uuid.UUID][]domain.UserSubmission),
		results:     make(map[uuid.UUID][]domain.TestCaseResult),
	}
}

func (s *fakeStore) Course(_ context.Context, id uuid.UUID) (*domain.Course, error) {
	c, ok := s.courses[id]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	return c, nil
}

func (s *fakeStore) Level(_ context.Context, id uuid.UUID) (*domain.Level, error) {
	l, ok := s.levels[id]
	if !ok {
		return nil, domain.ErrLevelNotFound
	}
	return l, nil
}

func (s *fakeStore) Question(_ context.Context, id uuid.UUID) (*domain.Question, error) {
	q, ok := s.questions[id]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	return q, nil
}

func (s *fakeStore) QuestionsByLevel(_ context.Context, levelID uuid.UUID, qtype domain.QuestionType) ([]domain.Question, error) {
	var out []domain.Question
	for _, q := range s.byLevel[levelID] {
		if q.QuestionType == qtype {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *fakeStore) OptionsByQuestion(_ context.Context, questionID uuid.UUID) ([]domain.MCQOption, error) {
	return s.options[questionID], nil
}

func (s *fakeStore) TestCases(_ context.Context, questionID uuid.UUID) ([]domain.TestCase, error) {
	return s.testCases[questionID], nil
}

func (s *fakeStore) CreateSession(_ context.Context, session *domain.PracticeSession, rows []domain.SessionQuestion) error {
	s.createCalled++
	if s.createErr != nil {
		return s.createErr
	}
	s.sessions[session.ID] = session
	s.sessionRows[session.ID] = rows
	return nil
}

func (s *fakeStore) Session(_ context.Context, id uuid.UUID) (*domain.PracticeSession, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

func (s *fakeStore) SessionQuestions(_ context.Context, sessionID uuid.UUID) ([]domain.SessionQuestion, error) {
	return s.sessionRows[sessionID], nil
}

func (s *fakeStore) CompleteSession(_ context.Context, id uuid.UUID, at time.Time) error {
	sess, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	sess.Status = domain.SessionStatusCompleted
	sess.CompletedAt = &at
	return nil
}

func (s *fakeStore) Submissions(_ context.Context, sessionID uuid.UUID) ([]domain.UserSubmission, error) {
	return s.submissions[sessionID], nil
}

func (s *fakeStore) ResultsBySubmission(_ context.Context, submissionID uuid.UUID) ([]domain.TestCaseResult, error) {
	return s.results[submissionID], nil
}

type fakeProgress struct {
	unlocked      bool
	markCalls     []uuid.UUID
	markErr       error
	unlockedCheck int
}

func (p *fakeProgress) IsUnlocked(_ context.Context, _, _, _ uuid.UUID) (bool, error) {
	p.unlockedCheck++
	return p.unlocked, nil
}

func (p *fakeProgress) MarkCompleted(_ context.Context, _, _, levelID uuid.UUID) error {
	if p.markErr != nil {
		return p.markErr
	}
	p.markCalls = append(p.markCalls, levelID)
	return nil
}

type fakePublisher struct {
	completed []bool
}

func (p *fakePublisher) PublishSessionCompleted(_ context.Context, _ *domain.PracticeSession, levelCompleted bool) error {
	p.completed = append(p.completed, levelCompleted)
	return nil
}

type fixture struct {
	store     *fakeStore
	progress  *fakeProgress
	publisher *fakePublisher
	service   *Service
	userID    uuid.UUID
	course    *domain.Course
	level     *domain.Level
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newFakeStore()
	progress := &fakeProgress{unlocked: true}
	publisher := &fakePublisher{}
	service := NewService(store, progress, NewDefaultTypePolicy(nil), publisher)

	course := &domain.Course{ID: uuid.New(), Title: "Python", TotalLevels: 5}
	level := &domain.Level{ID: uuid.New(), CourseID: course.ID, LevelNumber: 1, Title: "Basics"}
	store.courses[course.ID] = course
	store.levels[level.ID] = level

	return &fixture{
		store:     store,
		progress:  progress,
		publisher: publisher,
		service:   service,
		userID:    uuid.New(),
		course:    course,
		level:     level,
	}
}

func (f *fixture) addQuestions(t *testing.T, qtype domain.QuestionType, n int) []domain.Question {
	t.Helper()
	added := make([]domain.Question, 0, n)
	for i := 0; i < n; i++ {
		q := domain.Question{
			ID:           uuid.New(),
			LevelID:      f.level.ID,
			QuestionType: qtype,
			Title:        "q",
			CreatedAt:    time.Now().Add(time.Duration(i) * time.Second),
		}
		f.store.questions[q.ID] = &q
		f.store.byLevel[f.level.ID] = append(f.store.byLevel[f.level.ID], q)
		if qtype == domain.QuestionTypeCoding {
			f.store.testCases[q.ID] = []domain.TestCase{
				{ID: uuid.New(), QuestionID: q.ID, TestCaseNumber: 1},
				{ID: uuid.New(), QuestionID: q.ID, TestCaseNumber: 2, IsHidden: true},
			}
		} else {
			f.store.options[q.ID] = []domain.MCQOption{
				{ID: uuid.New(), QuestionID: q.ID, OptionLetter: "a", IsCorrect: true},
				{ID: uuid.New(), QuestionID: q.ID, OptionLetter: "b"},
			}
		}
		added = append(added, q)
	}
	return added
}

func TestStart_CodingAttachesExactSample(t *testing.T) {
	f := newFixture(t)
	f.addQuestions(t, domain.QuestionTypeCoding, 2)

	started, err := f.service.Start(context.Background(), f.userID, f.course.ID, f.level.ID, domain.SessionTypeCoding)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if started.Session.TotalQuestions != 2 {
		t.Errorf("TotalQuestions = %d; want 2", started.Session.TotalQuestions)
	}
	if len(started.Questions) != 2 {
		t.Fatalf("len(Questions) = %d; want 2", len(started.Questions))
	}
	for i, view := range started.Questions {
		if view.Order != i+1 {
			t.Errorf("question %d order = %d; want %d", i, view.Order, i+1)
		}
		if view.Status != domain.QuestionStatusNotAttempted {
			t.Errorf("question %d status = %q; want not_attempted", i, view.Status)
		}
		if len(view.TestCases) != 2 {
			t.Errorf("question %d has %d test cases; want all incl. hidden", i, len(view.TestCases))
		}
	}
}

func TestStart_CodingSamplesWithoutReplacement(t *testing.T) {
	f := newFixture(t)
	f.addQuestions(t, domain.QuestionTypeCoding, 5)

	seen := make(map[uuid.UUID]bool)
	for trial := 0; trial < 50; trial++ {
		started, err := f.service.Start(context.Background(), f.userID, f.course.ID, f.level.ID, domain.SessionTypeCoding)
		if err != nil {
			t.Fatalf("Start() trial %d error = %v", trial, err)
		}
		if len(started.Questions) != 2 {
			t.Fatalf("trial %d attached %d questions; want 2", trial, len(started.Questions))
		}
		if started.Questions[0].Question.ID == started.Questions[1].Question.ID {
			t.Fatal("duplicate question in one session")
		}
		for _, view := range started.Questions {
			seen[view.Question.ID] = true
		}
	}
	if len(seen) < 3 {
		t.Errorf("over 50 trials only %d distinct questions appeared; sampling looks non-random", len(seen))
	}
}

func TestStart_CodingInsufficientContent(t *testing.T) {
	f := newFixture(t)
	f.addQuestions(t, domain.QuestionTypeCoding, 1)

	_, err := f.service.Start(context.Background(), f.userID, f.course.ID, f.level.ID, domain.SessionTypeCoding)
	if !errors.Is(err, domain.ErrInsufficientContent) {
		t.Errorf("err = %v; want ErrInsufficientContent", err)
	}
	if f.store.createCalled != 0 {
		t.Error("no session row may be created when selection fails")
	}
}

func TestStart_MCQAllInOrder(t *testing.T) {
	f := newFixture(t)
	added := f.addQuestions(t, domain.QuestionTypeMCQ, 3)

	started, err := f.service.Start(context.Background(), f.userID, f.course.ID, f.level.ID, domain.SessionTypeMCQ)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if len(started.Questions) != 3 {
		t.Fatalf("len(Questions) = %d; want all 3", len(started.Questions))
	}
	for i, view := range started.Questions {
		if view.Question.ID != added[i].ID {
			t.Errorf("question %d out of creation order", i)
		}
		if len(view.Options) != 2 {
			t.Errorf("question %d missing eager options", i)
		}
	}
}

func TestStart_MCQEmptyPool(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Start(context.Background(), f.userID, f.course.ID, f.level.ID, domain.SessionTypeMCQ)
	if !errors.Is(err, domain.ErrNoQuestionsAvailable) {
		t.Errorf("err = %v; want ErrNoQuestionsAvailable", err)
	}
	if f.store.createCalled != 0 {
		t.Error("no session row may be created for an empty pool")
	}
}

func TestStart_LockedLevel(t *testing.T) {
	f := newFixture(t)
	f.addQuestions(t, domain.QuestionTypeCoding, 2)
	f.progress.unlocked = false

	_, err := f.service.Start(context.Background(), f.userID, f.course.ID, f.level.ID, domain.SessionTypeCoding)
	if !errors.Is(err, domain.ErrLevelLocked) {
		t.Errorf("err = %v; want ErrLevelLocked", err)
	}
}

func TestStart_LevelFromAnotherCourse(t *testing.T) {
	f := newFixture(t)
	stray := &domain.Level{ID: uuid.New(), CourseID: uuid.New(), LevelNumber: 1}
	f.store.levels[stray.ID] = stray

	_, err := f.service.Start(context.Background(), f.userID, f.course.ID, stray.ID, domain.SessionTypeCoding)
	if !errors.Is(err, domain.ErrLevelNotFound) {
		t.Errorf("err = %v; want ErrLevelNotFound", err)
	}
}

func TestStart_DefaultTypePolicy(t *testing.T) {
	f := newFixture(t)
	f.addQuestions(t, domain.QuestionTypeCoding, 2)
	f.addQuestions(t, domain.QuestionTypeMCQ, 1)

	// No requested type falls back to the policy default (coding).
	started, err := f.service.Start(context.Background(), f.userID, f.course.ID, f.level.ID, "")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if started.Session.SessionType != domain.SessionTypeCoding {
		t.Errorf("SessionType = %q; want policy default coding", started.Session.SessionType)
	}

	// A valid requested type wins over the policy.
	started, err = f.service.Start(context.Background(), f.userID, f.course.ID, f.level.ID, domain.SessionTypeMCQ)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if started.Session.SessionType != domain.SessionTypeMCQ {
		t.Errorf("SessionType = %q; want requested mcq", started.Session.SessionType)
	}
}

func startSession(t *testing.T, f *fixture) *StartedSession {
	t.Helper()
	f.addQuestions(t, domain.QuestionTypeCoding, 2)
	started, err := f.service.Start(context.Background(), f.userID, f.course.ID, f.level.ID, domain.SessionTypeCoding)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return started
}

func TestComplete_AllQuestionsDone(t *testing.T) {
	f := newFixture(t)
	started := startSession(t, f)

	rows := f.store.sessionRows[started.Session.ID]
	for i := range rows {
		rows[i].Status = domain.QuestionStatusCompleted
	}

	res, err := f.service.Complete(context.Background(), started.Session.ID, f.userID)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if !res.LevelCompleted {
		t.Error("fully completed session must advance level progress")
	}
	if len(f.progress.markCalls) != 1 {
		t.Errorf("MarkCompleted called %d times; want 1", len(f.progress.markCalls))
	}
	if res.Session.Status != domain.SessionStatusCompleted || res.Session.CompletedAt == nil {
		t.Error("session not finalized")
	}
	if len(f.publisher.completed) != 1 || !f.publisher.completed[0] {
		t.Errorf("publisher calls = %v; want one event with levelCompleted=true", f.publisher.completed)
	}
}

func TestComplete_PartialDoesNotAdvanceProgress(t *testing.T) {
	f := newFixture(t)
	started := startSession(t, f)

	rows := f.store.sessionRows[started.Session.ID]
	rows[0].Status = domain.QuestionStatusCompleted

	res, err := f.service.Complete(context.Background(), started.Session.ID, f.userID)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if res.LevelCompleted {
		t.Error("partial session must not advance level progress")
	}
	if res.QuestionsCompleted != 1 || res.TotalQuestions != 2 {
		t.Errorf("counts = %d/%d; want 1/2", res.QuestionsCompleted, res.TotalQuestions)
	}
	if len(f.progress.markCalls) != 0 {
		t.Error("MarkCompleted must not be called for a partial session")
	}
	if res.Session.Status != domain.SessionStatusCompleted {
		t.Error("partial completion still finalizes the session")
	}
}

func TestComplete_IsTerminal(t *testing.T) {
	f := newFixture(t)
	started := startSession(t, f)

	if _, err := f.service.Complete(context.Background(), started.Session.ID, f.userID); err != nil {
		t.Fatalf("first Complete() error = %v", err)
	}
	_, err := f.service.Complete(context.Background(), started.Session.ID, f.userID)
	if !errors.Is(err, domain.ErrSessionCompleted) {
		t.Errorf("second Complete() err = %v; want ErrSessionCompleted", err)
	}
}

func TestComplete_ForeignSession(t *testing.T) {
	f := newFixture(t)
	started := startSession(t, f)

	_, err := f.service.Complete(context.Background(), started.Session.ID, uuid.New())
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("err = %v; want ErrSessionNotFound", err)
	}
}

func TestGet_Resumption(t *testing.T) {
	f := newFixture(t)
	started := startSession(t, f)

	got, err := f.service.Get(context.Background(), started.Session.ID, f.userID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Session.ID != started.Session.ID {
		t.Error("wrong session returned")
	}
	if len(got.Questions) != 2 {
		t.Fatalf("len(Questions) = %d; want 2", len(got.Questions))
	}
	for _, view := range got.Questions {
		if len(view.TestCases) == 0 {
			t.Error("resumed session missing eager test cases")
		}
	}
}

func TestSubmissions_LatestOnlyKeepsNewestPerQuestion(t *testing.T) {
	f := newFixture(t)
	started := startSession(t, f)
	sessionID := started.Session.ID
	q1 := started.Questions[0].Question.ID
	q2 := started.Questions[1].Question.ID

	base := time.Now()
	old := domain.UserSubmission{
		ID: uuid.New(), SessionID: sessionID, QuestionID: q1, UserID: f.userID,
		SubmissionType: domain.QuestionTypeCoding, SubmittedAt: base,
	}
	newer := domain.UserSubmission{
		ID: uuid.New(), SessionID: sessionID, QuestionID: q1, UserID: f.userID,
		SubmissionType: domain.QuestionTypeCoding, IsCorrect: true,
		SubmittedAt: base.Add(time.Minute),
	}
	other := domain.UserSubmission{
		ID: uuid.New(), SessionID: sessionID, QuestionID: q2, UserID: f.userID,
		SubmissionType: domain.QuestionTypeCoding, SubmittedAt: base.Add(30 * time.Second),
	}
	f.store.submissions[sessionID] = []domain.UserSubmission{old, newer, other}

	views, err := f.service.Submissions(context.Background(), sessionID, f.userID, true)
	if err != nil {
		t.Fatalf("Submissions() error = %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("len(views) = %d; want 2", len(views))
	}
	if views[0].Submission.ID != newer.ID {
		t.Error("latest filter kept the older submission for q1")
	}
	if views[1].Submission.ID != other.ID {
		t.Error("latest filter dropped the only submission for q2")
	}

	all, err := f.service.Submissions(context.Background(), sessionID, f.userID, false)
	if err != nil {
		t.Fatalf("Submissions() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("unfiltered len = %d; want 3", len(all))
	}
}

func TestSubmissions_HiddenCaseResultsMasked(t *testing.T) {
	f := newFixture(t)
	started := startSession(t, f)
	sessionID := started.Session.ID
	question := started.Questions[0].Question.ID
	cases := f.store.testCases[question]

	sub := domain.UserSubmission{
		ID: uuid.New(), SessionID: sessionID, QuestionID: question, UserID: f.userID,
		SubmissionType: domain.QuestionTypeCoding, SubmittedAt: time.Now(),
	}
	f.store.submissions[sessionID] = []domain.UserSubmission{sub}
	f.store.results[sub.ID] = []domain.TestCaseResult{
		{ID: uuid.New(), SubmissionID: sub.ID, TestCaseID: cases[1].ID, ActualOutput: "secret", ErrorMessage: "boom"},
		{ID: uuid.New(), SubmissionID: sub.ID, TestCaseID: cases[0].ID, Passed: true, ActualOutput: "42"},
	}

	views, err := f.service.Submissions(context.Background(), sessionID, f.userID, false)
	if err != nil {
		t.Fatalf("Submissions() error = %v", err)
	}
	if len(views) != 1 || len(views[0].Cases) != 2 {
		t.Fatalf("views = %+v; want 1 view with 2 cases", views)
	}

	visible, hidden := views[0].Cases[0], views[0].Cases[1]
	if visible.TestCaseNumber != 1 || hidden.TestCaseNumber != 2 {
		t.Fatal("cases not ordered by test case number")
	}
	if visible.ActualOutput != "42" {
		t.Errorf("visible ActualOutput = %q; want %q", visible.ActualOutput, "42")
	}
	if !hidden.Hidden {
		t.Error("second case must be flagged hidden")
	}
	if hidden.ActualOutput != "" || hidden.ErrorMessage != "" {
		t.Errorf("hidden case leaked output: %+v", hidden)
	}
}

func TestSubmissions_MCQEntriesCarryNoCases(t *testing.T) {
	f := newFixture(t)
	started := startSession(t, f)
	sessionID := started.Session.ID
	optionID := uuid.New()

	f.store.submissions[sessionID] = []domain.UserSubmission{{
		ID: uuid.New(), SessionID: sessionID, UserID: f.userID,
		SubmissionType: domain.QuestionTypeMCQ, SelectedOptionID: &optionID,
		IsCorrect: true, SubmittedAt: time.Now(),
	}}

	views, err := f.service.Submissions(context.Background(), sessionID, f.userID, false)
	if err != nil {
		t.Fatalf("Submissions() error = %v", err)
	}
	if len(views) != 1 || views[0].Cases != nil {
		t.Fatalf("MCQ history entry must have nil Cases; got %+v", views)
	}
}

func TestComplete_MCQSessionDoesNotAdvanceProgress(t *testing.T) {
	f := newFixture(t)
	f.addQuestions(t, domain.QuestionTypeMCQ, 3)

	started, err := f.service.Start(context.Background(), f.userID, f.course.ID, f.level.ID, domain.SessionTypeMCQ)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// MCQ grading never moves question rows to completed, so the session
	// finalizes without touching level progress.
	res, err := f.service.Complete(context.Background(), started.Session.ID, f.userID)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if res.LevelCompleted {
		t.Error("MCQ session must not complete the level")
	}
	if len(f.progress.markCalls) != 0 {
		t.Errorf("MarkCompleted called %d times; want 0", len(f.progress.markCalls))
	}
	if res.Session.Status != domain.SessionStatusCompleted {
		t.Error("session itself must still finalize")
	}
}
