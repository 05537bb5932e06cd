package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/Jhananishri-B/practice-hub/internal/domain"
	"github.com/Jhananishri-B/practice-hub/internal/session"
)

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) *APIError {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q; want application/json", ct)
	}
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp.Error == nil {
		t.Fatal("error envelope missing")
	}
	return resp.Error
}

func TestWriteDomainError_Mapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"course not found", domain.ErrCourseNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"session not found", domain.ErrSessionNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"session completed", domain.ErrSessionCompleted, http.StatusConflict, "CONFLICT"},
		{"level locked", domain.ErrLevelLocked, http.StatusForbidden, "FORBIDDEN"},
		{"invalid input", domain.ErrInvalidInput, http.StatusBadRequest, "BAD_REQUEST"},
		{"language mismatch", domain.ErrLanguageMismatch, http.StatusBadRequest, "BAD_REQUEST"},
		{"no test cases", domain.ErrNoTestCases, http.StatusBadRequest, "BAD_REQUEST"},
		{"insufficient content", domain.ErrInsufficientContent, http.StatusBadRequest, "BAD_REQUEST"},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"unknown", fmt.Errorf("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil)

			writeDomainError(rec, req, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d; want %d", rec.Code, tt.wantStatus)
			}
			apiErr := decodeErrorResponse(t, rec)
			if apiErr.Code != tt.wantCode {
				t.Errorf("code = %q; want %q", apiErr.Code, tt.wantCode)
			}
			if apiErr.Message == "" {
				t.Error("message must not be empty")
			}
		})
	}
}

func TestWriteDomainError_WrappedErrorStillMaps(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/start", nil)

	writeDomainError(rec, req, fmt.Errorf("start session: %w", domain.ErrLevelLocked))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusForbidden)
	}
	if apiErr := decodeErrorResponse(t, rec); apiErr.Code != "FORBIDDEN" {
		t.Errorf("code = %q; want FORBIDDEN", apiErr.Code)
	}
}

// missingSessionStore serves Session only; the handler under test fails there
// before touching anything else.
type missingSessionStore struct {
	session.Store
}

func (missingSessionStore) Session(_ context.Context, _ uuid.UUID) (*domain.PracticeSession, error) {
	return nil, domain.ErrSessionNotFound
}

func TestSessionHandler_Get_UnknownSessionUsesEnvelope(t *testing.T) {
	svc := session.NewService(missingSessionStore{}, nil, session.NewDefaultTypePolicy(nil), nil)
	handler := NewSessionHandler(svc, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/sessions/{id}", handler.Get)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+uuid.NewString(), nil)
	req = req.WithContext(context.WithValue(req.Context(), ContextKeyUser, uuid.New()))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusNotFound)
	}
	if apiErr := decodeErrorResponse(t, rec); apiErr.Code != "NOT_FOUND" {
		t.Errorf("code = %q; want NOT_FOUND", apiErr.Code)
	}
}

func TestSessionHandler_Get_NoUserInContext(t *testing.T) {
	svc := session.NewService(missingSessionStore{}, nil, session.NewDefaultTypePolicy(nil), nil)
	handler := NewSessionHandler(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusUnauthorized)
	}
	if apiErr := decodeErrorResponse(t, rec); apiErr.Code != "UNAUTHORIZED" {
		t.Errorf("code = %q; want UNAUTHORIZED", apiErr.Code)
	}
}
