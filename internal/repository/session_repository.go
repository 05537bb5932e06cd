package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jhananishri-B/practice-hub/internal/domain"
	"github.com/Jhananishri-B/practice-hub/internal/storage"
)

// SessionRepository persists practice sessions in PostgreSQL.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a Postgres-backed session store.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// CreateSession inserts the session row and its question rows in one
// transaction.
func (r *SessionRepository) CreateSession(ctx context.Context, sess *domain.PracticeSession, questions []domain.SessionQuestion) error {
	_, err := storage.WithRetry(ctx, func(ctx context.Context) (struct{}, error) {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return struct{}{}, fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		_, err = tx.Exec(ctx, `
			INSERT INTO practice_sessions (id, user_id, course_id, level_id,
				session_type, status, total_questions, started_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			sess.ID, sess.UserID, sess.CourseID, sess.LevelID,
			sess.SessionType.String(), string(sess.Status),
			sess.TotalQuestions, sess.StartedAt)
		if err != nil {
			return struct{}{}, fmt.Errorf("insert session: %w", err)
		}

		for _, q := range questions {
			_, err = tx.Exec(ctx, `
				INSERT INTO session_questions (session_id, question_id, question_order, status)
				VALUES ($1, $2, $3, $4)`,
				q.SessionID, q.QuestionID, q.QuestionOrder, string(q.Status))
			if err != nil {
				return struct{}{}, fmt.Errorf("insert session question: %w", err)
			}
		}

		return struct{}{}, tx.Commit(ctx)
	})
	return err
}

// Session retrieves a session by ID.
func (r *SessionRepository) Session(ctx context.Context, id uuid.UUID) (*domain.PracticeSession, error) {
	return storage.WithRetry(ctx, func(ctx context.Context) (*domain.PracticeSession, error) {
		query := `
			SELECT id, user_id, course_id, level_id, session_type, status,
				total_questions, started_at, completed_at
			FROM practice_sessions WHERE id = $1
		`
		sess := &domain.PracticeSession{}
		err := r.pool.QueryRow(ctx, query, id).Scan(
			&sess.ID, &sess.UserID, &sess.CourseID, &sess.LevelID,
			&sess.SessionType, &sess.Status, &sess.TotalQuestions,
			&sess.StartedAt, &sess.CompletedAt,
		)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		if err != nil {
			return nil, err
		}
		return sess, nil
	})
}

// SessionQuestions lists a session's question rows in session order.
func (r *SessionRepository) SessionQuestions(ctx context.Context, sessionID uuid.UUID) ([]domain.SessionQuestion, error) {
	return storage.WithRetry(ctx, func(ctx context.Context) ([]domain.SessionQuestion, error) {
		query := `
			SELECT session_id, question_id, question_order, status
			FROM session_questions WHERE session_id = $1 ORDER BY question_order
		`
		rows, err := r.pool.Query(ctx, query, sessionID)
		if err != nil {
			return nil, fmt.Errorf("list session questions: %w", err)
		}
		defer rows.Close()

		var out []domain.SessionQuestion
		for rows.Next() {
			var sq domain.SessionQuestion
			if err := rows.Scan(&sq.SessionID, &sq.QuestionID, &sq.QuestionOrder, &sq.Status); err != nil {
				return nil, err
			}
			out = append(out, sq)
		}
		return out, rows.Err()
	})
}

// SessionQuestion retrieves one (session, question) pairing.
func (r *SessionRepository) SessionQuestion(ctx context.Context, sessionID, questionID uuid.UUID) (*domain.SessionQuestion, error) {
	return storage.WithRetry(ctx, func(ctx context.Context) (*domain.SessionQuestion, error) {
		query := `
			SELECT session_id, question_id, question_order, status
			FROM session_questions WHERE session_id = $1 AND question_id = $2
		`
		sq := &domain.SessionQuestion{}
		err := r.pool.QueryRow(ctx, query, sessionID, questionID).Scan(
			&sq.SessionID, &sq.QuestionID, &sq.QuestionOrder, &sq.Status,
		)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrQuestionNotFound
		}
		if err != nil {
			return nil, err
		}
		return sq, nil
	})
}

// SetSessionQuestionStatus updates one pairing's attempt status.
func (r *SessionRepository) SetSessionQuestionStatus(ctx context.Context, sessionID, questionID uuid.UUID, status domain.QuestionStatus) error {
	_, err := storage.WithRetry(ctx, func(ctx context.Context) (struct{}, error) {
		tag, err := r.pool.Exec(ctx, `
			UPDATE session_questions SET status = $1
			WHERE session_id = $2 AND question_id = $3`,
			string(status), sessionID, questionID)
		if err != nil {
			return struct{}{}, fmt.Errorf("update session question: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return struct{}{}, domain.ErrQuestionNotFound
		}
		return struct{}{}, nil
	})
	return err
}

// CompleteSession marks a session completed. Completion is terminal.
func (r *SessionRepository) CompleteSession(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := storage.WithRetry(ctx, func(ctx context.Context) (struct{}, error) {
		tag, err := r.pool.Exec(ctx, `
			UPDATE practice_sessions SET status = $1, completed_at = $2
			WHERE id = $3 AND status = $4`,
			string(domain.SessionStatusCompleted), at, id,
			string(domain.SessionStatusInProgress))
		if err != nil {
			return struct{}{}, fmt.Errorf("complete session: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return struct{}{}, domain.ErrSessionCompleted
		}
		return struct{}{}, nil
	})
	return err
}
