package storage

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "bad conn", err: driver.ErrBadConn, want: true},
		{name: "wrapped bad conn", err: fmt.Errorf("query: %w", driver.ErrBadConn), want: true},
		{name: "connection reset", err: errors.New("read tcp: connection reset by peer"), want: true},
		{name: "sqlite busy", err: errors.New("database is locked"), want: true},
		{name: "constraint violation", err: errors.New("UNIQUE constraint failed"), want: false},
		{name: "plain not found", err: errors.New("no rows"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %v; want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWithRetry_RecoversFromTransientErrors(t *testing.T) {
	attempts := 0
	got, err := WithRetry(context.Background(), func(context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", driver.ErrBadConn
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("WithRetry() error = %v", err)
	}
	if got != "ok" || attempts != 3 {
		t.Errorf("got %q after %d attempts; want ok after 3", got, attempts)
	}
}

func TestWithRetry_DoesNotRetryPermanentErrors(t *testing.T) {
	permanent := errors.New("UNIQUE constraint failed")
	attempts := 0
	_, err := WithRetry(context.Background(), func(context.Context) (int, error) {
		attempts++
		return 0, permanent
	})
	if !errors.Is(err, permanent) {
		t.Errorf("err = %v; want the permanent error", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d; want 1 for a non-retryable error", attempts)
	}
}
