package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Jhananishri-B/practice-hub/internal/api/middleware"
)

func TestRateLimiter_Allow(t *testing.T) {
	// Create a limiter: 5 requests per second, burst of 5
	rl := middleware.NewRateLimiter(5, time.Second, 5)

	key := "test-client"

	// Should allow first 5 requests (burst)
	for i := 0; i < 5; i++ {
		if !rl.Allow(key) {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	// 6th request should be denied
	if rl.Allow(key) {
		t.Error("6th request should be denied")
	}
}

func TestRateLimiter_TokenRefill(t *testing.T) {
	// Create a limiter: 10 requests per 100ms, burst of 2
	rl := middleware.NewRateLimiter(10, 100*time.Millisecond, 2)

	key := "test-client"

	// Use up the burst
	rl.Allow(key)
	rl.Allow(key)

	// Should be denied now
	if rl.Allow(key) {
		t.Error("Request should be denied after burst")
	}

	// Wait for a refill interval
	time.Sleep(150 * time.Millisecond)

	if !rl.Allow(key) {
		t.Error("Request should be allowed after refill")
	}
}

func TestRateLimiter_SeparateKeys(t *testing.T) {
	rl := middleware.NewRateLimiter(1, time.Minute, 1)

	if !rl.Allow("client-a") {
		t.Error("First request from client-a should be allowed")
	}
	if rl.Allow("client-a") {
		t.Error("Second request from client-a should be denied")
	}

	// A different client has its own bucket.
	if !rl.Allow("client-b") {
		t.Error("First request from client-b should be allowed")
	}
}

func TestRateLimiter_Remaining(t *testing.T) {
	rl := middleware.NewRateLimiter(5, time.Minute, 5)

	key := "test-client"

	if got := rl.Remaining(key); got != 5 {
		t.Errorf("Remaining for unseen key = %d, want 5", got)
	}

	rl.Allow(key)
	rl.Allow(key)

	if got := rl.Remaining(key); got != 3 {
		t.Errorf("Remaining after 2 requests = %d, want 3", got)
	}
}

func TestExpensiveRateLimit_Denies(t *testing.T) {
	cfg := middleware.RateLimitConfig{
		RequestsPerMinute:          60,
		ExpensiveRequestsPerMinute: 1,
		BurstMultiplier:            1,
	}

	calls := 0
	handler := middleware.ExpensiveRateLimit(cfg)(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/x/run", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
	if calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}
}

func TestRateLimitMiddleware_SetsRemainingHeader(t *testing.T) {
	cfg := middleware.RateLimitConfig{
		RequestsPerMinute:          10,
		ExpensiveRequestsPerMinute: 10,
		BurstMultiplier:            1,
	}

	handler := middleware.RateLimitMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil)
	req.RemoteAddr = "10.0.0.2:1234"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "9" {
		t.Errorf("X-RateLimit-Remaining = %q, want %q", got, "9")
	}
}
