package progress

import (
	"context"

	"github.com/google/uuid"

	"github.com/Jhananishri-B/practice-hub/internal/domain"
)

// Store is the persistence surface the unlock engine consumes. Progress rows
// are keyed by (user, course, level) and upserted, never duplicated.
type Store interface {
	Course(ctx context.Context, id uuid.UUID) (*domain.Course, error)
	CourseByTitle(ctx context.Context, title string) (*domain.Course, error)
	LevelsByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.Level, error)

	// Progress returns domain.ErrProgressNotFound when no row exists.
	Progress(ctx context.Context, userID, courseID, levelID uuid.UUID) (*domain.UserProgress, error)
	ProgressByCourse(ctx context.Context, userID, courseID uuid.UUID) ([]domain.UserProgress, error)
	UpsertProgress(ctx context.Context, p *domain.UserProgress) error
	CompletedLevelCount(ctx context.Context, userID, courseID uuid.UUID) (int, error)
}
