package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Jhananishri-B/practice-hub/internal/domain"
)

// SessionStore persists practice sessions and their attached questions.
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a SQLite-backed session store.
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// CreateSession inserts the session row and its question rows in one
// transaction. A failure leaves no session row behind.
func (s *SessionStore) CreateSession(ctx context.Context, sess *domain.PracticeSession, questions []domain.SessionQuestion) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO practice_sessions (id, user_id, course_id, level_id,
			session_type, status, total_questions, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID.String(), sess.UserID.String(), sess.CourseID.String(),
		sess.LevelID.String(), sess.SessionType.String(), string(sess.Status),
		sess.TotalQuestions, sess.StartedAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	for _, q := range questions {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO session_questions (session_id, question_id, question_order, status)
			VALUES (?, ?, ?, ?)`,
			q.SessionID.String(), q.QuestionID.String(), q.QuestionOrder, string(q.Status))
		if err != nil {
			return fmt.Errorf("insert session question: %w", err)
		}
	}

	return tx.Commit()
}

// Session retrieves a session by ID.
func (s *SessionStore) Session(ctx context.Context, id uuid.UUID) (*domain.PracticeSession, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, course_id, level_id, session_type, status,
			total_questions, started_at, completed_at
		FROM practice_sessions WHERE id = ?`, id.String())

	var sess domain.PracticeSession
	var sid, userID, courseID, levelID, stype, status string
	var completedAt sql.NullTime
	err := row.Scan(&sid, &userID, &courseID, &levelID, &stype, &status,
		&sess.TotalQuestions, &sess.StartedAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}

	if sess.ID, err = uuid.Parse(sid); err != nil {
		return nil, fmt.Errorf("parse session id: %w", err)
	}
	if sess.UserID, err = uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("parse user id: %w", err)
	}
	if sess.CourseID, err = uuid.Parse(courseID); err != nil {
		return nil, fmt.Errorf("parse course id: %w", err)
	}
	if sess.LevelID, err = uuid.Parse(levelID); err != nil {
		return nil, fmt.Errorf("parse level id: %w", err)
	}
	sess.SessionType = domain.SessionType(stype)
	sess.Status = domain.SessionStatus(status)
	if completedAt.Valid {
		sess.CompletedAt = &completedAt.Time
	}
	return &sess, nil
}

// SessionQuestions lists a session's question rows in session order.
func (s *SessionStore) SessionQuestions(ctx context.Context, sessionID uuid.UUID) ([]domain.SessionQuestion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, question_id, question_order, status
		FROM session_questions WHERE session_id = ? ORDER BY question_order`, sessionID.String())
	if err != nil {
		return nil, fmt.Errorf("list session questions: %w", err)
	}
	defer rows.Close()

	var out []domain.SessionQuestion
	for rows.Next() {
		sq, err := scanSessionQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sq)
	}
	return out, rows.Err()
}

// SessionQuestion retrieves one (session, question) pairing.
func (s *SessionStore) SessionQuestion(ctx context.Context, sessionID, questionID uuid.UUID) (*domain.SessionQuestion, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT session_id, question_id, question_order, status
		FROM session_questions WHERE session_id = ? AND question_id = ?`,
		sessionID.String(), questionID.String())
	sq, err := scanSessionQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrQuestionNotFound
	}
	return sq, err
}

// SetSessionQuestionStatus updates one pairing's attempt status.
func (s *SessionStore) SetSessionQuestionStatus(ctx context.Context, sessionID, questionID uuid.UUID, status domain.QuestionStatus) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE session_questions SET status = ?
		WHERE session_id = ? AND question_id = ?`,
		string(status), sessionID.String(), questionID.String())
	if err != nil {
		return fmt.Errorf("update session question: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

// CompleteSession marks a session completed. Completion is terminal.
func (s *SessionStore) CompleteSession(ctx context.Context, id uuid.UUID, at time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE practice_sessions SET status = ?, completed_at = ?
		WHERE id = ? AND status = ?`,
		string(domain.SessionStatusCompleted), at, id.String(),
		string(domain.SessionStatusInProgress))
	if err != nil {
		return fmt.Errorf("complete session: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrSessionCompleted
	}
	return nil
}

func scanSessionQuestion(row scanner) (*domain.SessionQuestion, error) {
	var sq domain.SessionQuestion
	var sessionID, questionID, status string
	err := row.Scan(&sessionID, &questionID, &sq.QuestionOrder, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan session question: %w", err)
	}
	if sq.SessionID, err = uuid.Parse(sessionID); err != nil {
		return nil, fmt.Errorf("parse session id: %w", err)
	}
	if sq.QuestionID, err = uuid.Parse(questionID); err != nil {
		return nil, fmt.Errorf("parse question id: %w", err)
	}
	sq.Status = domain.QuestionStatus(status)
	return &sq, nil
}
