package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Jhananishri-B/practice-hub/internal/domain"
)

// SubmissionStore persists the append-only submission history and per-case
// results.
type SubmissionStore struct {
	db *DB
}

// NewSubmissionStore creates a SQLite-backed submission store.
func NewSubmissionStore(db *DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

// SaveSubmission inserts the submission row and its test case results in one
// transaction.
func (s *SubmissionStore) SaveSubmission(ctx context.Context, sub *domain.UserSubmission, results []domain.TestCaseResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var optionID any
	if sub.SelectedOptionID != nil {
		optionID = sub.SelectedOptionID.String()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_submissions (id, session_id, question_id, user_id,
			submission_type, is_correct, selected_option_id, submitted_code,
			language, test_cases_passed, total_test_cases, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID.String(), sub.SessionID.String(), sub.QuestionID.String(),
		sub.UserID.String(), sub.SubmissionType.String(), sub.IsCorrect,
		optionID, sub.SubmittedCode, sub.Language, sub.TestCasesPassed,
		sub.TotalTestCases, sub.SubmittedAt)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}

	for _, r := range results {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO test_case_results (id, submission_id, test_case_id,
				passed, actual_output, error_message, execution_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.ID.String(), r.SubmissionID.String(), r.TestCaseID.String(),
			r.Passed, r.ActualOutput, r.ErrorMessage, r.ExecutionTime.Milliseconds())
		if err != nil {
			return fmt.Errorf("insert test case result: %w", err)
		}
	}

	return tx.Commit()
}

// Submissions lists a session's full submission history, oldest first.
func (s *SubmissionStore) Submissions(ctx context.Context, sessionID uuid.UUID) ([]domain.UserSubmission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, question_id, user_id, submission_type,
			is_correct, selected_option_id, submitted_code, language,
			test_cases_passed, total_test_cases, submitted_at
		FROM user_submissions WHERE session_id = ?
		ORDER BY submitted_at, id`, sessionID.String())
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var subs []domain.UserSubmission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

// ResultsBySubmission lists the per-case results of one submission.
func (s *SubmissionStore) ResultsBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.TestCaseResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, submission_id, test_case_id, passed, actual_output,
			error_message, execution_ms
		FROM test_case_results WHERE submission_id = ?`, submissionID.String())
	if err != nil {
		return nil, fmt.Errorf("list test case results: %w", err)
	}
	defer rows.Close()

	var results []domain.TestCaseResult
	for rows.Next() {
		var r domain.TestCaseResult
		var id, subID, tcID string
		var passed domain.FlexBool
		var execMs int64
		if err := rows.Scan(&id, &subID, &tcID, &passed, &r.ActualOutput, &r.ErrorMessage, &execMs); err != nil {
			return nil, fmt.Errorf("scan test case result: %w", err)
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse result id: %w", err)
		}
		if r.SubmissionID, err = uuid.Parse(subID); err != nil {
			return nil, fmt.Errorf("parse submission id: %w", err)
		}
		if r.TestCaseID, err = uuid.Parse(tcID); err != nil {
			return nil, fmt.Errorf("parse test case id: %w", err)
		}
		r.Passed = bool(passed)
		r.ExecutionTime = time.Duration(execMs) * time.Millisecond
		results = append(results, r)
	}
	return results, rows.Err()
}

func scanSubmission(row scanner) (*domain.UserSubmission, error) {
	var sub domain.UserSubmission
	var id, sessionID, questionID, userID, stype string
	var correct domain.FlexBool
	var optionID sql.NullString
	err := row.Scan(&id, &sessionID, &questionID, &userID, &stype, &correct,
		&optionID, &sub.SubmittedCode, &sub.Language, &sub.TestCasesPassed,
		&sub.TotalTestCases, &sub.SubmittedAt)
	if err != nil {
		return nil, fmt.Errorf("scan submission: %w", err)
	}
	if sub.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse submission id: %w", err)
	}
	if sub.SessionID, err = uuid.Parse(sessionID); err != nil {
		return nil, fmt.Errorf("parse session id: %w", err)
	}
	if sub.QuestionID, err = uuid.Parse(questionID); err != nil {
		return nil, fmt.Errorf("parse question id: %w", err)
	}
	if sub.UserID, err = uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("parse user id: %w", err)
	}
	sub.SubmissionType = domain.QuestionType(stype)
	sub.IsCorrect = bool(correct)
	if optionID.Valid {
		parsed, err := uuid.Parse(optionID.String)
		if err != nil {
			return nil, fmt.Errorf("parse option id: %w", err)
		}
		sub.SelectedOptionID = &parsed
	}
	return &sub, nil
}
