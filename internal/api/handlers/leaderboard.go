package handlers

import (
	"net/http"
	"strconv"

	"github.com/Jhananishri-B/practice-hub/internal/leaderboard"
)

// LeaderboardHandler handles the leaderboard endpoint
type LeaderboardHandler struct {
	service *leaderboard.Service
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(service *leaderboard.Service) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

// Top returns the current leaderboard
func (h *LeaderboardHandler) Top(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			BadRequest(w, r, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.service.Top(r.Context(), limit)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"leaderboard": entries})
}
