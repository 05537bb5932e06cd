// Package storage holds cross-backend persistence helpers shared by the
// SQLite and Postgres implementations.
package storage

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
)

// WithRetry runs op with a small bounded number of retries on transient
// storage errors. Non-transient errors propagate on the first attempt.
func WithRetry[T any](ctx context.Context, op func(context.Context) (T, error)) (T, error) {
	r := retry.New[T](retry.Config{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		Multiplier:    2.0,
		BackoffPolicy: retry.BackoffExponential,
		Jitter:        true,
		IsRetryable:   IsTransient,
	})
	return r.Do(ctx, op)
}

// IsTransient reports whether an error looks like a dropped or congested
// connection rather than a query or constraint failure.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := err.Error()
	for _, hint := range []string{
		"connection reset by peer",
		"broken pipe",
		"conn closed",
		"connection refused",
		"database is locked",
	} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}
