package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jhananishri-B/practice-hub/internal/domain"
	"github.com/Jhananishri-B/practice-hub/internal/storage"
)

// ProgressRepository persists per-user unlock and completion rows in
// PostgreSQL.
type ProgressRepository struct {
	pool *pgxpool.Pool
}

// NewProgressRepository creates a Postgres-backed progress store.
func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{pool: pool}
}

// Progress retrieves one progress row.
func (r *ProgressRepository) Progress(ctx context.Context, userID, courseID, levelID uuid.UUID) (*domain.UserProgress, error) {
	return storage.WithRetry(ctx, func(ctx context.Context) (*domain.UserProgress, error) {
		query := `
			SELECT user_id, course_id, level_id, status, completed_at
			FROM user_progress
			WHERE user_id = $1 AND course_id = $2 AND level_id = $3
		`
		p := &domain.UserProgress{}
		err := r.pool.QueryRow(ctx, query, userID, courseID, levelID).Scan(
			&p.UserID, &p.CourseID, &p.LevelID, &p.Status, &p.CompletedAt,
		)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProgressNotFound
		}
		if err != nil {
			return nil, err
		}
		return p, nil
	})
}

// ProgressByCourse lists a user's progress rows for one course.
func (r *ProgressRepository) ProgressByCourse(ctx context.Context, userID, courseID uuid.UUID) ([]domain.UserProgress, error) {
	return storage.WithRetry(ctx, func(ctx context.Context) ([]domain.UserProgress, error) {
		query := `
			SELECT user_id, course_id, level_id, status, completed_at
			FROM user_progress WHERE user_id = $1 AND course_id = $2
		`
		rows, err := r.pool.Query(ctx, query, userID, courseID)
		if err != nil {
			return nil, fmt.Errorf("list progress: %w", err)
		}
		defer rows.Close()

		var out []domain.UserProgress
		for rows.Next() {
			var p domain.UserProgress
			if err := rows.Scan(&p.UserID, &p.CourseID, &p.LevelID, &p.Status, &p.CompletedAt); err != nil {
				return nil, err
			}
			out = append(out, p)
		}
		return out, rows.Err()
	})
}

// UpsertProgress inserts or updates a progress row on its unique key.
func (r *ProgressRepository) UpsertProgress(ctx context.Context, p *domain.UserProgress) error {
	_, err := storage.WithRetry(ctx, func(ctx context.Context) (struct{}, error) {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO user_progress (user_id, course_id, level_id, status, completed_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id, course_id, level_id) DO UPDATE SET
				status = EXCLUDED.status, completed_at = EXCLUDED.completed_at`,
			p.UserID, p.CourseID, p.LevelID, string(p.Status), p.CompletedAt)
		if err != nil {
			return struct{}{}, fmt.Errorf("upsert progress: %w", err)
		}
		return struct{}{}, nil
	})
	return err
}

// CompletedLevelCount counts a user's completed levels in one course.
func (r *ProgressRepository) CompletedLevelCount(ctx context.Context, userID, courseID uuid.UUID) (int, error) {
	return storage.WithRetry(ctx, func(ctx context.Context) (int, error) {
		var n int
		err := r.pool.QueryRow(ctx, `
			SELECT COUNT(*) FROM user_progress
			WHERE user_id = $1 AND course_id = $2 AND status = $3`,
			userID, courseID, string(domain.ProgressStatusCompleted)).Scan(&n)
		if err != nil {
			return 0, fmt.Errorf("count completed levels: %w", err)
		}
		return n, nil
	})
}

// TopLearners ranks users by completed levels, then by correctly answered
// questions. Users with no activity are excluded.
func (r *ProgressRepository) TopLearners(ctx context.Context, limit int) ([]domain.LeaderboardRow, error) {
	return storage.WithRetry(ctx, func(ctx context.Context) ([]domain.LeaderboardRow, error) {
		query := `
			SELECT u.id, u.name,
				COALESCE(p.completed, 0) AS completed,
				COALESCE(c.correct, 0) AS correct
			FROM users u
			LEFT JOIN (
				SELECT user_id, COUNT(*) AS completed
				FROM user_progress WHERE status = $1 GROUP BY user_id
			) p ON p.user_id = u.id
			LEFT JOIN (
				SELECT user_id, COUNT(DISTINCT question_id) AS correct
				FROM user_submissions WHERE is_correct GROUP BY user_id
			) c ON c.user_id = u.id
			WHERE COALESCE(p.completed, 0) > 0 OR COALESCE(c.correct, 0) > 0
			ORDER BY completed DESC, correct DESC, u.name
			LIMIT $2
		`
		rows, err := r.pool.Query(ctx, query, string(domain.ProgressStatusCompleted), limit)
		if err != nil {
			return nil, fmt.Errorf("rank learners: %w", err)
		}
		defer rows.Close()

		var out []domain.LeaderboardRow
		for rows.Next() {
			var row domain.LeaderboardRow
			if err := rows.Scan(&row.UserID, &row.Name, &row.LevelsCompleted, &row.CorrectSubmissions); err != nil {
				return nil, fmt.Errorf("scan leaderboard row: %w", err)
			}
			out = append(out, row)
		}
		return out, rows.Err()
	})
}
