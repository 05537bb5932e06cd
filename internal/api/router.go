package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Jhananishri-B/practice-hub/internal/api/handlers"
	"github.com/Jhananishri-B/practice-hub/internal/api/middleware"
)

// Router wraps the HTTP multiplexer with middleware and handlers
type Router struct {
	mux         *http.ServeMux
	app         *App
	sessions    *handlers.SessionHandler
	courses     *handlers.CourseHandler
	leaderboard *handlers.LeaderboardHandler
	tutor       *handlers.TutorHandler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(app *App) http.Handler {
	r := &Router{
		mux: http.NewServeMux(),
		app: app,
	}

	// Initialize handlers
	r.sessions = handlers.NewSessionHandler(app.Sessions, app.Grading)
	r.courses = handlers.NewCourseHandler(app.Store, app.Progress)
	r.leaderboard = handlers.NewLeaderboardHandler(app.Leaderboard)
	r.tutor = handlers.NewTutorHandler(app.Tutor)

	// Register routes
	r.registerRoutes()

	// Build middleware chain
	return r.buildMiddlewareChain(r.mux, app)
}

func (r *Router) registerRoutes() {
	// Health check
	r.mux.HandleFunc("GET /health", r.handleHealth)
	r.mux.HandleFunc("GET /ready", r.handleReady)

	// Code execution is the expensive path; it gets its own limiter on top
	// of the general one.
	expensive := middleware.ExpensiveRateLimit(middleware.DefaultRateLimitConfig())

	// Courses (public catalog, per-user level state requires auth)
	r.mux.HandleFunc("GET /api/v1/courses", r.courses.List)
	r.mux.HandleFunc("GET /api/v1/courses/{id}/levels", r.requireAuth(r.courses.ListLevels))

	// Practice sessions (requires auth)
	r.mux.HandleFunc("POST /api/v1/sessions/start", r.requireAuth(r.sessions.Start))
	r.mux.HandleFunc("GET /api/v1/sessions/{id}", r.requireAuth(r.sessions.Get))
	r.mux.HandleFunc("POST /api/v1/sessions/{id}/submit", r.requireAuth(expensive(r.sessions.Submit)))
	r.mux.HandleFunc("POST /api/v1/sessions/{id}/run", r.requireAuth(expensive(r.sessions.Run)))
	r.mux.HandleFunc("POST /api/v1/sessions/{id}/complete", r.requireAuth(r.sessions.Complete))
	r.mux.HandleFunc("GET /api/v1/sessions/{id}/submissions", r.requireAuth(r.sessions.Submissions))

	// Leaderboard (public)
	r.mux.HandleFunc("GET /api/v1/leaderboard", r.leaderboard.Top)

	// Tutor (requires auth)
	r.mux.HandleFunc("POST /api/v1/tutor/ask", r.requireAuth(r.tutor.Ask))
}

func (r *Router) buildMiddlewareChain(handler http.Handler, app *App) http.Handler {
	// Apply middleware in reverse order (last applied = first executed)
	handler = middleware.Recovery(handler)
	handler = middleware.Logger(handler)

	// Apply rate limiting (skip in debug mode for easier development)
	if !app.Config.Debug {
		handler = middleware.RateLimitMiddleware(middleware.DefaultRateLimitConfig())(handler)
	}

	handler = middleware.RequestID(handler)
	handler = middleware.CORS(handler)

	return handler
}

// requireAuth wraps a handler with bearer token authentication
func (r *Router) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		header := req.Header.Get("Authorization")
		if header == "" {
			handlers.Unauthorized(w, req, "authentication required")
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			handlers.Unauthorized(w, req, "invalid authorization header")
			return
		}

		userID, err := r.app.Auth.ValidateToken(token)
		if err != nil {
			slog.Warn("invalid token",
				"error", err,
				"request_id", middleware.GetRequestID(req.Context()),
			)
			handlers.Unauthorized(w, req, "invalid or expired token")
			return
		}

		// Add user to context
		ctx := context.WithValue(req.Context(), handlers.ContextKeyUser, userID)
		next(w, req.WithContext(ctx))
	}
}

// Health check handlers
func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	handlers.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (r *Router) handleReady(w http.ResponseWriter, req *http.Request) {
	checks := map[string]string{
		"database": "healthy",
	}
	ready := true

	if err := r.app.Ping(req.Context()); err != nil {
		slog.Error("database health check failed",
			"error", err,
			"request_id", middleware.GetRequestID(req.Context()),
		)
		checks["database"] = "unhealthy"
		ready = false
	}

	if r.app.Queue != nil {
		if r.app.Queue.IsConnected() {
			checks["queue"] = "healthy"
		} else {
			checks["queue"] = "unhealthy"
			ready = false
		}
	}

	if !ready {
		handlers.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not ready",
			"checks": checks,
		})
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
		"checks": checks,
	})
}
