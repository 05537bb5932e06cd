package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// LocalBackend executes code directly on the host using os/exec. Each call
// gets a fresh temp directory which is removed when the call returns.
type LocalBackend struct {
	configs  map[Language]LanguageConfig
	compiler string // "gcc" or "clang"
	timeout  time.Duration
}

// NewLocalBackend creates a local execution backend.
func NewLocalBackend(timeout time.Duration) *LocalBackend {
	compiler := "gcc"
	if _, err := exec.LookPath("gcc"); err != nil {
		compiler = "clang"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &LocalBackend{
		configs:  DefaultLanguageConfigs(),
		compiler: compiler,
		timeout:  timeout,
	}
}

// Execute runs one source+stdin pair and captures its output.
func (b *LocalBackend) Execute(ctx context.Context, req ExecRequest) (*ExecResult, error) {
	cfg, ok := b.configs[req.Language]
	if !ok {
		return nil, fmt.Errorf("no local config for language %s", req.Language)
	}

	tmpDir, err := os.MkdirTemp("", "practicehub-run-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	srcPath := filepath.Join(tmpDir, cfg.SourceFile)
	if err := os.WriteFile(srcPath, []byte(req.Source), 0644); err != nil {
		return nil, fmt.Errorf("write source: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	start := time.Now()

	var runCmd *exec.Cmd
	switch req.Language {
	case LanguageC:
		binPath := filepath.Join(tmpDir, cfg.BinaryFile)
		compileCmd := exec.CommandContext(ctx, b.compiler, "-Wall", "-o", binPath, srcPath)
		compileCmd.Dir = tmpDir
		if out, err := compileCmd.CombinedOutput(); err != nil {
			return &ExecResult{
				ExitCode:      exitCode(compileCmd, err),
				Stderr:        string(out),
				Duration:      time.Since(start),
				TimedOut:      errors.Is(ctx.Err(), context.DeadlineExceeded),
				CompileFailed: true,
			}, nil
		}
		runCmd = exec.CommandContext(ctx, binPath)
	case LanguagePython:
		runCmd = exec.CommandContext(ctx, "python3", srcPath)
	default:
		return nil, fmt.Errorf("no local runner for language %s", req.Language)
	}

	var stdout, stderr bytes.Buffer
	runCmd.Dir = tmpDir
	runCmd.Stdin = strings.NewReader(req.Stdin)
	runCmd.Stdout = &stdout
	runCmd.Stderr = &stderr

	runErr := runCmd.Run()
	duration := time.Since(start)

	result := &ExecResult{
		ExitCode: exitCode(runCmd, runErr),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: duration,
		TimedOut: errors.Is(ctx.Err(), context.DeadlineExceeded),
	}

	if runErr != nil && result.ExitCode == 0 {
		// Spawn failure (binary missing, permission denied) with no exit code.
		result.ExitCode = -1
		if result.Stderr == "" {
			result.Stderr = runErr.Error()
		}
	}

	return result, nil
}

// exitCode extracts the process exit code, falling back to -1 when the
// process never ran.
func exitCode(cmd *exec.Cmd, err error) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		return -1
	}
	return 0
}

// Ensure LocalBackend implements Backend.
var _ Backend = (*LocalBackend)(nil)
