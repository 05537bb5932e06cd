package runner

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Jhananishri-B/practice-hub/internal/domain"
)

// CaseOutcome is the graded result of one test case.
type CaseOutcome struct {
	TestCaseID     uuid.UUID
	TestCaseNumber int
	Hidden         bool
	Passed         bool
	ActualOutput   string
	ErrorMessage   string
	ExecutionTime  time.Duration
}

// Evaluator runs user code against test cases, one process per case,
// sequentially. Which subset of cases to grade (visible only vs all) is the
// caller's policy; the evaluator is mode-agnostic.
type Evaluator struct {
	backend Backend
}

// NewEvaluator creates an evaluator on top of an execution backend.
func NewEvaluator(backend Backend) *Evaluator {
	return &Evaluator{backend: backend}
}

// Evaluate grades code against every provided test case. A failing or
// crashing case never aborts the batch; it is recorded and grading moves on.
func (e *Evaluator) Evaluate(ctx context.Context, code string, lang Language, cases []domain.TestCase) []CaseOutcome {
	outcomes := make([]CaseOutcome, 0, len(cases))

	for _, tc := range cases {
		outcome := CaseOutcome{
			TestCaseID:     tc.ID,
			TestCaseNumber: tc.TestCaseNumber,
			Hidden:         tc.IsHidden,
		}

		stdin := NormalizeTestData(tc.InputData)
		if stdin != "" {
			stdin += "\n"
		}

		res, err := e.backend.Execute(ctx, ExecRequest{
			Language: lang,
			Source:   code,
			Stdin:    stdin,
		})
		if err != nil {
			// Backend infrastructure failure (temp dir, docker daemon).
			// Counts against this case only.
			outcome.ErrorMessage = err.Error()
			outcomes = append(outcomes, outcome)
			slog.Warn("execution backend error",
				"test_case", tc.TestCaseNumber,
				"language", lang,
				"error", err,
			)
			continue
		}

		outcome.ActualOutput = res.Stdout
		outcome.ExecutionTime = res.Duration

		if !res.OK() {
			outcome.ErrorMessage = diagnosticMessage(res)
			outcomes = append(outcomes, outcome)
			continue
		}

		expected := NormalizeTestData(tc.ExpectedOutput)
		outcome.Passed = OutputsMatch(expected, res.Stdout)
		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

// diagnosticMessage picks the most useful error text for a failed process:
// stderr, falling back to stdout, falling back to a generic message.
func diagnosticMessage(res *ExecResult) string {
	switch {
	case res.TimedOut:
		return "execution timed out"
	case res.CompileFailed:
		msg := strings.TrimSpace(res.Stderr)
		if msg == "" {
			msg = strings.TrimSpace(res.Stdout)
		}
		if msg == "" {
			return "compilation error"
		}
		return "compilation error: " + msg
	default:
		if msg := strings.TrimSpace(res.Stderr); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(res.Stdout); msg != "" {
			return msg
		}
		return "execution failed"
	}
}

// PassedCount counts the passing outcomes in a batch.
func PassedCount(outcomes []CaseOutcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Passed {
			n++
		}
	}
	return n
}
