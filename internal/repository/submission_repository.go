package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jhananishri-B/practice-hub/internal/domain"
	"github.com/Jhananishri-B/practice-hub/internal/storage"
)

// SubmissionRepository persists the append-only submission history in
// PostgreSQL.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a Postgres-backed submission store.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// SaveSubmission inserts the submission row and its test case results in one
// transaction.
func (r *SubmissionRepository) SaveSubmission(ctx context.Context, sub *domain.UserSubmission, results []domain.TestCaseResult) error {
	_, err := storage.WithRetry(ctx, func(ctx context.Context) (struct{}, error) {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return struct{}{}, fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		_, err = tx.Exec(ctx, `
			INSERT INTO user_submissions (id, session_id, question_id, user_id,
				submission_type, is_correct, selected_option_id, submitted_code,
				language, test_cases_passed, total_test_cases, submitted_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			sub.ID, sub.SessionID, sub.QuestionID, sub.UserID,
			sub.SubmissionType.String(), sub.IsCorrect, sub.SelectedOptionID,
			sub.SubmittedCode, sub.Language, sub.TestCasesPassed,
			sub.TotalTestCases, sub.SubmittedAt)
		if err != nil {
			return struct{}{}, fmt.Errorf("insert submission: %w", err)
		}

		for _, res := range results {
			_, err = tx.Exec(ctx, `
				INSERT INTO test_case_results (id, submission_id, test_case_id,
					passed, actual_output, error_message, execution_ms)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				res.ID, res.SubmissionID, res.TestCaseID, res.Passed,
				res.ActualOutput, res.ErrorMessage, res.ExecutionTime.Milliseconds())
			if err != nil {
				return struct{}{}, fmt.Errorf("insert test case result: %w", err)
			}
		}

		return struct{}{}, tx.Commit(ctx)
	})
	return err
}

// Submissions lists a session's full submission history, oldest first.
func (r *SubmissionRepository) Submissions(ctx context.Context, sessionID uuid.UUID) ([]domain.UserSubmission, error) {
	return storage.WithRetry(ctx, func(ctx context.Context) ([]domain.UserSubmission, error) {
		query := `
			SELECT id, session_id, question_id, user_id, submission_type,
				is_correct, selected_option_id, submitted_code, language,
				test_cases_passed, total_test_cases, submitted_at
			FROM user_submissions WHERE session_id = $1
			ORDER BY submitted_at, id
		`
		rows, err := r.pool.Query(ctx, query, sessionID)
		if err != nil {
			return nil, fmt.Errorf("list submissions: %w", err)
		}
		defer rows.Close()

		var subs []domain.UserSubmission
		for rows.Next() {
			var sub domain.UserSubmission
			var correct domain.FlexBool
			err := rows.Scan(&sub.ID, &sub.SessionID, &sub.QuestionID,
				&sub.UserID, &sub.SubmissionType, &correct,
				&sub.SelectedOptionID, &sub.SubmittedCode, &sub.Language,
				&sub.TestCasesPassed, &sub.TotalTestCases, &sub.SubmittedAt)
			if err != nil {
				return nil, err
			}
			sub.IsCorrect = bool(correct)
			subs = append(subs, sub)
		}
		return subs, rows.Err()
	})
}

// ResultsBySubmission lists the per-case results of one submission.
func (r *SubmissionRepository) ResultsBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.TestCaseResult, error) {
	return storage.WithRetry(ctx, func(ctx context.Context) ([]domain.TestCaseResult, error) {
		query := `
			SELECT id, submission_id, test_case_id, passed, actual_output,
				error_message, execution_ms
			FROM test_case_results WHERE submission_id = $1
		`
		rows, err := r.pool.Query(ctx, query, submissionID)
		if err != nil {
			return nil, fmt.Errorf("list test case results: %w", err)
		}
		defer rows.Close()

		var out []domain.TestCaseResult
		for rows.Next() {
			var res domain.TestCaseResult
			var passed domain.FlexBool
			var execMs int64
			err := rows.Scan(&res.ID, &res.SubmissionID, &res.TestCaseID,
				&passed, &res.ActualOutput, &res.ErrorMessage, &execMs)
			if err != nil {
				return nil, err
			}
			res.Passed = bool(passed)
			res.ExecutionTime = time.Duration(execMs) * time.Millisecond
			out = append(out, res)
		}
		return out, rows.Err()
	})
}
