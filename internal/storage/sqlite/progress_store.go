package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Jhananishri-B/practice-hub/internal/domain"
)

// ProgressStore persists per-user per-level unlock and completion rows,
// keyed by (user, course, level).
type ProgressStore struct {
	db *DB
}

// NewProgressStore creates a SQLite-backed progress store.
func NewProgressStore(db *DB) *ProgressStore {
	return &ProgressStore{db: db}
}

// Progress retrieves one progress row.
func (s *ProgressStore) Progress(ctx context.Context, userID, courseID, levelID uuid.UUID) (*domain.UserProgress, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, course_id, level_id, status, completed_at
		FROM user_progress
		WHERE user_id = ? AND course_id = ? AND level_id = ?`,
		userID.String(), courseID.String(), levelID.String())
	p, err := scanProgress(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProgressNotFound
	}
	return p, err
}

// ProgressByCourse lists a user's progress rows for one course.
func (s *ProgressStore) ProgressByCourse(ctx context.Context, userID, courseID uuid.UUID) ([]domain.UserProgress, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, course_id, level_id, status, completed_at
		FROM user_progress WHERE user_id = ? AND course_id = ?`,
		userID.String(), courseID.String())
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	var out []domain.UserProgress
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// UpsertProgress inserts or updates a progress row on its unique key.
func (s *ProgressStore) UpsertProgress(ctx context.Context, p *domain.UserProgress) error {
	var completedAt any
	if p.CompletedAt != nil {
		completedAt = *p.CompletedAt
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_progress (user_id, course_id, level_id, status, completed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, course_id, level_id) DO UPDATE SET
			status=excluded.status, completed_at=excluded.completed_at`,
		p.UserID.String(), p.CourseID.String(), p.LevelID.String(),
		string(p.Status), completedAt)
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}

// CompletedLevelCount counts a user's completed levels in one course.
func (s *ProgressStore) CompletedLevelCount(ctx context.Context, userID, courseID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM user_progress
		WHERE user_id = ? AND course_id = ? AND status = ?`,
		userID.String(), courseID.String(), string(domain.ProgressStatusCompleted)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count completed levels: %w", err)
	}
	return n, nil
}

// TopLearners ranks users by completed levels, then by correctly answered
// questions. Users with no activity are excluded.
func (s *ProgressStore) TopLearners(ctx context.Context, limit int) ([]domain.LeaderboardRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.name,
			COALESCE(p.completed, 0) AS completed,
			COALESCE(c.correct, 0) AS correct
		FROM users u
		LEFT JOIN (
			SELECT user_id, COUNT(*) AS completed
			FROM user_progress WHERE status = ? GROUP BY user_id
		) p ON p.user_id = u.id
		LEFT JOIN (
			SELECT user_id, COUNT(DISTINCT question_id) AS correct
			FROM user_submissions WHERE is_correct IN (1, '1', 'true') GROUP BY user_id
		) c ON c.user_id = u.id
		WHERE COALESCE(p.completed, 0) > 0 OR COALESCE(c.correct, 0) > 0
		ORDER BY completed DESC, correct DESC, u.name
		LIMIT ?`,
		string(domain.ProgressStatusCompleted), limit)
	if err != nil {
		return nil, fmt.Errorf("rank learners: %w", err)
	}
	defer rows.Close()

	var out []domain.LeaderboardRow
	for rows.Next() {
		var r domain.LeaderboardRow
		var userID string
		if err := rows.Scan(&userID, &r.Name, &r.LevelsCompleted, &r.CorrectSubmissions); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		if r.UserID, err = uuid.Parse(userID); err != nil {
			return nil, fmt.Errorf("parse user id: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanProgress(row scanner) (*domain.UserProgress, error) {
	var p domain.UserProgress
	var userID, courseID, levelID, status string
	var completedAt sql.NullTime
	err := row.Scan(&userID, &courseID, &levelID, &status, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan progress: %w", err)
	}
	if p.UserID, err = uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("parse user id: %w", err)
	}
	if p.CourseID, err = uuid.Parse(courseID); err != nil {
		return nil, fmt.Errorf("parse course id: %w", err)
	}
	if p.LevelID, err = uuid.Parse(levelID); err != nil {
		return nil, fmt.Errorf("parse level id: %w", err)
	}
	p.Status = domain.ProgressStatus(status)
	if completedAt.Valid {
		p.CompletedAt = &completedAt.Time
	}
	return &p, nil
}
