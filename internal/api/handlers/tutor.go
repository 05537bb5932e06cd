package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Jhananishri-B/practice-hub/internal/tutor"
)

// TutorHandler handles the AI tutor endpoint
type TutorHandler struct {
	service *tutor.Service
}

// NewTutorHandler creates a new tutor handler. A nil service reports the
// tutor as unavailable.
func NewTutorHandler(service *tutor.Service) *TutorHandler {
	return &TutorHandler{service: service}
}

// AskRequest is the request body for a tutor question
type AskRequest struct {
	Question      string `json:"question"`
	QuestionTitle string `json:"question_title,omitempty"`
	Code          string `json:"code,omitempty"`
	Language      string `json:"language,omitempty"`
}

// AskResponse is the tutor's answer
type AskResponse struct {
	Content      string `json:"content"`
	Model        string `json:"model,omitempty"`
	InputTokens  int    `json:"input_tokens,omitempty"`
	OutputTokens int    `json:"output_tokens,omitempty"`
}

// Ask forwards a learner question to the tutor provider
func (h *TutorHandler) Ask(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserIDFromContext(r.Context()); !ok {
		Unauthorized(w, r, "authentication required")
		return
	}

	if h.service == nil {
		Unavailable(w, r, "tutor is not configured")
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, r, "invalid request body")
		return
	}

	answer, err := h.service.Ask(r.Context(), &tutor.Request{
		Question:      req.Question,
		QuestionTitle: req.QuestionTitle,
		Code:          req.Code,
		Language:      req.Language,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, AskResponse{
		Content:      answer.Content,
		Model:        answer.Model,
		InputTokens:  answer.InputTokens,
		OutputTokens: answer.OutputTokens,
	})
}
