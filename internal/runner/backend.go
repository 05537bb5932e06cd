package runner

import (
	"context"
	"time"
)

// ExecRequest is one out-of-process execution of user code against one
// standard-input payload.
type ExecRequest struct {
	Language Language
	Source   string
	Stdin    string
}

// ExecResult captures everything the spawned process produced.
type ExecResult struct {
	ExitCode      int
	Stdout        string
	Stderr        string
	Duration      time.Duration
	TimedOut      bool
	CompileFailed bool
}

// OK reports whether the process ran to completion and exited cleanly.
func (r *ExecResult) OK() bool {
	return r.ExitCode == 0 && !r.TimedOut && !r.CompileFailed
}

// Backend executes a single piece of code against a single stdin payload in
// an isolated workspace. Implementations must clean up all per-invocation
// state on every exit path.
type Backend interface {
	Execute(ctx context.Context, req ExecRequest) (*ExecResult, error)
}
