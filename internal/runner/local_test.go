package runner

import (
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Jhananishri-B/practice-hub/internal/domain"
)

func requirePython3(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not installed")
	}
}

func TestLocalBackend_Execute_Python(t *testing.T) {
	requirePython3(t)

	backend := NewLocalBackend(10 * time.Second)
	res, err := backend.Execute(context.Background(), ExecRequest{
		Language: LanguagePython,
		Source:   "print(int(input()) + int(input()))",
		Stdin:    "10\n20\n",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !res.OK() {
		t.Fatalf("result not OK: exit=%d stderr=%q", res.ExitCode, res.Stderr)
	}
	if res.Stdout != "30\n" {
		t.Errorf("Stdout = %q; want %q", res.Stdout, "30\n")
	}
	if res.Duration <= 0 {
		t.Error("Duration must be positive")
	}
}

func TestLocalBackend_Execute_RuntimeError(t *testing.T) {
	requirePython3(t)

	backend := NewLocalBackend(10 * time.Second)
	res, err := backend.Execute(context.Background(), ExecRequest{
		Language: LanguagePython,
		Source:   "print(1 // 0)",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.OK() {
		t.Fatal("crashing program must not report OK")
	}
	if res.ExitCode == 0 {
		t.Errorf("ExitCode = 0; want non-zero")
	}
	if !strings.Contains(res.Stderr, "ZeroDivisionError") {
		t.Errorf("Stderr = %q; want python traceback", res.Stderr)
	}
}

func TestLocalBackend_Execute_Timeout(t *testing.T) {
	requirePython3(t)

	backend := NewLocalBackend(500 * time.Millisecond)
	res, err := backend.Execute(context.Background(), ExecRequest{
		Language: LanguagePython,
		Source:   "while True:\n    pass",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !res.TimedOut {
		t.Error("infinite loop must be reported as timed out")
	}
	if res.OK() {
		t.Error("timed out run must not report OK")
	}
}

func TestEvaluator_LocalBackend_GradesBatch(t *testing.T) {
	requirePython3(t)

	eval := NewEvaluator(NewLocalBackend(10 * time.Second))
	code := "print(int(input()) + int(input()))"
	cases := []domain.TestCase{
		{ID: uuid.New(), TestCaseNumber: 1, InputData: `10\\n20`, ExpectedOutput: "30"},
		{ID: uuid.New(), TestCaseNumber: 2, InputData: `2\n3`, ExpectedOutput: "5", IsHidden: true},
	}

	outcomes := eval.Evaluate(context.Background(), code, LanguagePython, cases)
	if len(outcomes) != 2 {
		t.Fatalf("len(outcomes) = %d; want 2", len(outcomes))
	}
	for _, o := range outcomes {
		if !o.Passed {
			t.Errorf("case %d failed: output=%q err=%q", o.TestCaseNumber, o.ActualOutput, o.ErrorMessage)
		}
	}
	if !outcomes[1].Hidden {
		t.Error("second outcome must keep the hidden flag")
	}
}

func TestEvaluator_LocalBackend_CrashDoesNotAbortBatch(t *testing.T) {
	requirePython3(t)

	eval := NewEvaluator(NewLocalBackend(10 * time.Second))
	code := "print(10 // int(input()))"
	cases := []domain.TestCase{
		{ID: uuid.New(), TestCaseNumber: 1, InputData: "0", ExpectedOutput: "anything"},
		{ID: uuid.New(), TestCaseNumber: 2, InputData: "2", ExpectedOutput: "5"},
	}

	outcomes := eval.Evaluate(context.Background(), code, LanguagePython, cases)
	if len(outcomes) != 2 {
		t.Fatalf("len(outcomes) = %d; want 2", len(outcomes))
	}
	if outcomes[0].Passed {
		t.Error("division by zero case must fail")
	}
	if outcomes[0].ErrorMessage == "" {
		t.Error("crashing case must record a diagnostic")
	}
	if !outcomes[1].Passed {
		t.Errorf("later case must still be graded: output=%q err=%q",
			outcomes[1].ActualOutput, outcomes[1].ErrorMessage)
	}
}

func TestEvaluator_LocalBackend_OutputContentIsStrict(t *testing.T) {
	requirePython3(t)

	eval := NewEvaluator(NewLocalBackend(10 * time.Second))
	cases := []domain.TestCase{
		{ID: uuid.New(), TestCaseNumber: 1, ExpectedOutput: "5"},
	}

	outcomes := eval.Evaluate(context.Background(), `print("05")`, LanguagePython, cases)
	if len(outcomes) != 1 {
		t.Fatalf("len(outcomes) = %d; want 1", len(outcomes))
	}
	if outcomes[0].Passed {
		t.Errorf("%q must not match expected %q", outcomes[0].ActualOutput, "5")
	}
}

func TestEvaluator_LocalBackend_TimeoutRecordedPerCase(t *testing.T) {
	requirePython3(t)

	eval := NewEvaluator(NewLocalBackend(500 * time.Millisecond))
	cases := []domain.TestCase{
		{ID: uuid.New(), TestCaseNumber: 1, ExpectedOutput: "never"},
	}

	outcomes := eval.Evaluate(context.Background(), "while True:\n    pass", LanguagePython, cases)
	if outcomes[0].Passed {
		t.Error("timed out case must not pass")
	}
	if !strings.Contains(outcomes[0].ErrorMessage, "time") {
		t.Errorf("ErrorMessage = %q; want timeout diagnostic", outcomes[0].ErrorMessage)
	}
}
