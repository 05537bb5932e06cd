package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Jhananishri-B/practice-hub/internal/domain"
	"github.com/Jhananishri-B/practice-hub/internal/progress"
)

// CourseStore is the course catalog read surface the handler needs.
type CourseStore interface {
	Courses(ctx context.Context) ([]domain.Course, error)
}

// CourseHandler handles course catalog endpoints
type CourseHandler struct {
	store    CourseStore
	progress *progress.Engine
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(store CourseStore, engine *progress.Engine) *CourseHandler {
	return &CourseHandler{
		store:    store,
		progress: engine,
	}
}

// CourseResponse represents a course in API responses
type CourseResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	TotalLevels int    `json:"total_levels"`
	CreatedAt   string `json:"created_at"`
}

// LevelResponse is a level decorated with the requesting user's unlock state
type LevelResponse struct {
	ID          string `json:"id"`
	LevelNumber int    `json:"level_number"`
	Title       string `json:"title"`
	Status      string `json:"status,omitempty"`
	Unlocked    bool   `json:"unlocked"`
	Completed   bool   `json:"completed"`
}

// List returns the course catalog
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	courses, err := h.store.Courses(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := make([]CourseResponse, 0, len(courses))
	for _, c := range courses {
		resp = append(resp, CourseResponse{
			ID:          c.ID.String(),
			Title:       c.Title,
			Description: c.Description,
			TotalLevels: c.TotalLevels,
			CreatedAt:   c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	WriteJSON(w, http.StatusOK, map[string]any{"courses": resp})
}

// ListLevels returns a course's levels with the user's unlock state
func (h *CourseHandler) ListLevels(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r.Context())
	if !ok {
		Unauthorized(w, r, "authentication required")
		return
	}

	courseID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, r, "invalid course ID")
		return
	}

	levels, err := h.progress.ListLevels(r.Context(), userID, courseID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := make([]LevelResponse, 0, len(levels))
	for _, lv := range levels {
		resp = append(resp, LevelResponse{
			ID:          lv.ID.String(),
			LevelNumber: lv.LevelNumber,
			Title:       lv.Title,
			Status:      string(lv.Status),
			Unlocked:    lv.Unlocked,
			Completed:   lv.Completed,
		})
	}
	WriteJSON(w, http.StatusOK, map[string]any{"levels": resp})
}
