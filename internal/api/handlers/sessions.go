package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Jhananishri-B/practice-hub/internal/domain"
	"github.com/Jhananishri-B/practice-hub/internal/grading"
	"github.com/Jhananishri-B/practice-hub/internal/session"
)

// SessionHandler handles practice session endpoints
type SessionHandler struct {
	sessions *session.Service
	verifier *grading.Verifier
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *session.Service, verifier *grading.Verifier) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		verifier: verifier,
	}
}

// StartSessionRequest is the request body for starting a session
type StartSessionRequest struct {
	CourseID    string `json:"course_id"`
	LevelID     string `json:"level_id"`
	SessionType string `json:"session_type,omitempty"`
}

// SessionResponse represents a practice session in API responses
type SessionResponse struct {
	ID             string `json:"id"`
	CourseID       string `json:"course_id"`
	LevelID        string `json:"level_id"`
	SessionType    string `json:"session_type"`
	Status         string `json:"status"`
	TotalQuestions int    `json:"total_questions"`
	StartedAt      string `json:"started_at"`
	CompletedAt    string `json:"completed_at,omitempty"`
}

// OptionResponse is one MCQ answer choice. The correct flag is never
// rendered; grading happens server side only.
type OptionResponse struct {
	ID           string `json:"id"`
	OptionLetter string `json:"option_letter"`
	OptionText   string `json:"option_text"`
}

// TestCaseResponse is one test case as shown to the learner. Hidden cases
// expose their number only.
type TestCaseResponse struct {
	TestCaseNumber int    `json:"test_case_number"`
	Hidden         bool   `json:"hidden"`
	InputData      string `json:"input_data,omitempty"`
	ExpectedOutput string `json:"expected_output,omitempty"`
}

// QuestionResponse is one question within a session payload. The reference
// solution is never rendered.
type QuestionResponse struct {
	ID           string             `json:"id"`
	Order        int                `json:"order"`
	Status       string             `json:"status"`
	QuestionType string             `json:"question_type"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	Difficulty   string             `json:"difficulty,omitempty"`
	InputFormat  string             `json:"input_format,omitempty"`
	OutputFormat string             `json:"output_format,omitempty"`
	Constraints  string             `json:"constraints,omitempty"`
	Options      []OptionResponse   `json:"options,omitempty"`
	TestCases    []TestCaseResponse `json:"test_cases,omitempty"`
}

// StartedSessionResponse is the full payload for session start and fetch
type StartedSessionResponse struct {
	Session   SessionResponse    `json:"session"`
	Questions []QuestionResponse `json:"questions"`
}

// Start creates a new practice session for a level
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r.Context())
	if !ok {
		Unauthorized(w, r, "authentication required")
		return
	}

	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, r, "invalid request body")
		return
	}

	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		BadRequest(w, r, "invalid course ID")
		return
	}
	levelID, err := uuid.Parse(req.LevelID)
	if err != nil {
		BadRequest(w, r, "invalid level ID")
		return
	}

	started, err := h.sessions.Start(r.Context(), userID, courseID, levelID, domain.SessionType(req.SessionType))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, startedSessionResponse(started))
}

// Get returns a session with its question payloads
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r.Context())
	if !ok {
		Unauthorized(w, r, "authentication required")
		return
	}

	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, r, "invalid session ID")
		return
	}

	started, err := h.sessions.Get(r.Context(), sessionID, userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, startedSessionResponse(started))
}

// SubmitAnswerRequest is the request body for submitting an answer
type SubmitAnswerRequest struct {
	QuestionID       string `json:"question_id"`
	SelectedOptionID string `json:"selected_option_id,omitempty"`
	Code             string `json:"code,omitempty"`
	Language         string `json:"language,omitempty"`
}

// Submit grades one answer within a session
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r.Context())
	if !ok {
		Unauthorized(w, r, "authentication required")
		return
	}

	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, r, "invalid session ID")
		return
	}

	var req SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, r, "invalid request body")
		return
	}

	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		BadRequest(w, r, "invalid question ID")
		return
	}

	submitReq := grading.SubmitRequest{
		SessionID:  sessionID,
		QuestionID: questionID,
		UserID:     userID,
		Code:       req.Code,
		Language:   req.Language,
	}
	if req.SelectedOptionID != "" {
		optionID, err := uuid.Parse(req.SelectedOptionID)
		if err != nil {
			BadRequest(w, r, "invalid option ID")
			return
		}
		submitReq.SelectedOptionID = &optionID
	}

	result, err := h.verifier.Submit(r.Context(), submitReq)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// RunCodeRequest is the request body for a dry run
type RunCodeRequest struct {
	QuestionID string `json:"question_id"`
	Code       string `json:"code"`
	Language   string `json:"language,omitempty"`
}

// Run executes code against the visible test cases without recording
// a submission
func (h *SessionHandler) Run(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r.Context())
	if !ok {
		Unauthorized(w, r, "authentication required")
		return
	}

	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, r, "invalid session ID")
		return
	}

	var req RunCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, r, "invalid request body")
		return
	}

	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		BadRequest(w, r, "invalid question ID")
		return
	}

	cases, err := h.verifier.Run(r.Context(), grading.RunRequest{
		SessionID:  sessionID,
		QuestionID: questionID,
		UserID:     userID,
		Code:       req.Code,
		Language:   req.Language,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"cases": cases})
}

// CompletionResponse summarizes a finalized session
type CompletionResponse struct {
	Session            SessionResponse `json:"session"`
	QuestionsCompleted int             `json:"questions_completed"`
	TotalQuestions     int             `json:"total_questions"`
	LevelCompleted     bool            `json:"level_completed"`
}

// Complete finalizes a session and reports level completion
func (h *SessionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r.Context())
	if !ok {
		Unauthorized(w, r, "authentication required")
		return
	}

	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, r, "invalid session ID")
		return
	}

	result, err := h.sessions.Complete(r.Context(), sessionID, userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, CompletionResponse{
		Session:            sessionResponse(&result.Session),
		QuestionsCompleted: result.QuestionsCompleted,
		TotalQuestions:     result.TotalQuestions,
		LevelCompleted:     result.LevelCompleted,
	})
}

// SubmissionResponse represents one recorded submission. Coding entries carry
// their per-case results, with hidden case output withheld.
type SubmissionResponse struct {
	ID               string               `json:"id"`
	QuestionID       string               `json:"question_id"`
	SubmissionType   string               `json:"submission_type"`
	IsCorrect        bool                 `json:"is_correct"`
	SubmittedAt      string               `json:"submitted_at"`
	SelectedOptionID string               `json:"selected_option_id,omitempty"`
	Language         string               `json:"language,omitempty"`
	TestCasesPassed  int                  `json:"test_cases_passed,omitempty"`
	TotalTestCases   int                  `json:"total_test_cases,omitempty"`
	Cases            []session.CaseResult `json:"cases,omitempty"`
}

// Submissions lists the submission history for a session. With ?latest=true
// the history collapses to the most recent submission per question.
func (h *SessionHandler) Submissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r.Context())
	if !ok {
		Unauthorized(w, r, "authentication required")
		return
	}

	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, r, "invalid session ID")
		return
	}

	latestOnly := false
	if raw := r.URL.Query().Get("latest"); raw != "" {
		latestOnly, err = strconv.ParseBool(raw)
		if err != nil {
			BadRequest(w, r, "invalid latest parameter")
			return
		}
	}

	subs, err := h.sessions.Submissions(r.Context(), sessionID, userID, latestOnly)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := make([]SubmissionResponse, 0, len(subs))
	for i := range subs {
		resp = append(resp, submissionResponse(&subs[i]))
	}
	WriteJSON(w, http.StatusOK, map[string]any{"submissions": resp})
}

func sessionResponse(s *domain.PracticeSession) SessionResponse {
	resp := SessionResponse{
		ID:             s.ID.String(),
		CourseID:       s.CourseID.String(),
		LevelID:        s.LevelID.String(),
		SessionType:    string(s.SessionType),
		Status:         string(s.Status),
		TotalQuestions: s.TotalQuestions,
		StartedAt:      s.StartedAt.UTC().Format(time.RFC3339),
	}
	if s.CompletedAt != nil {
		resp.CompletedAt = s.CompletedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func startedSessionResponse(started *session.StartedSession) StartedSessionResponse {
	questions := make([]QuestionResponse, 0, len(started.Questions))
	for i := range started.Questions {
		questions = append(questions, questionResponse(&started.Questions[i]))
	}
	return StartedSessionResponse{
		Session:   sessionResponse(&started.Session),
		Questions: questions,
	}
}

func questionResponse(view *session.QuestionView) QuestionResponse {
	q := view.Question
	resp := QuestionResponse{
		ID:           q.ID.String(),
		Order:        view.Order,
		Status:       string(view.Status),
		QuestionType: string(q.QuestionType),
		Title:        q.Title,
		Description:  q.Description,
		Difficulty:   q.Difficulty,
		InputFormat:  q.InputFormat,
		OutputFormat: q.OutputFormat,
		Constraints:  q.Constraints,
	}
	for _, opt := range view.Options {
		resp.Options = append(resp.Options, OptionResponse{
			ID:           opt.ID.String(),
			OptionLetter: opt.OptionLetter,
			OptionText:   opt.OptionText,
		})
	}
	for _, tc := range view.TestCases {
		tcResp := TestCaseResponse{
			TestCaseNumber: tc.TestCaseNumber,
			Hidden:         tc.IsHidden,
		}
		if !tc.IsHidden {
			tcResp.InputData = tc.InputData
			tcResp.ExpectedOutput = tc.ExpectedOutput
		}
		resp.TestCases = append(resp.TestCases, tcResp)
	}
	return resp
}

func submissionResponse(view *session.SubmissionView) SubmissionResponse {
	sub := view.Submission
	resp := SubmissionResponse{
		ID:              sub.ID.String(),
		QuestionID:      sub.QuestionID.String(),
		SubmissionType:  string(sub.SubmissionType),
		IsCorrect:       sub.IsCorrect,
		SubmittedAt:     sub.SubmittedAt.UTC().Format(time.RFC3339),
		Language:        sub.Language,
		TestCasesPassed: sub.TestCasesPassed,
		TotalTestCases:  sub.TotalTestCases,
		Cases:           view.Cases,
	}
	if sub.SelectedOptionID != nil {
		resp.SelectedOptionID = sub.SelectedOptionID.String()
	}
	return resp
}

// getUserIDFromContext extracts the user ID from request context
func getUserIDFromContext(ctx interface{ Value(any) any }) (uuid.UUID, bool) {
	v := ctx.Value(ContextKeyUser)
	if v == nil {
		return uuid.Nil, false
	}
	if id, ok := v.(uuid.UUID); ok {
		return id, true
	}
	return uuid.Nil, false
}

// ContextKey type for context keys
type ContextKey string

// ContextKeyUser holds the authenticated user's ID
const ContextKeyUser ContextKey = "user"
