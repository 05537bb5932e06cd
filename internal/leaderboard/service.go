package leaderboard

import (
	"context"
	"log/slog"

	"github.com/Jhananishri-B/practice-hub/internal/domain"
)

// DefaultLimit is the number of entries returned when the caller does not
// ask for a specific count.
const DefaultLimit = 10

// MaxLimit caps the entry count a caller may request.
const MaxLimit = 100

// Service resolves rankings through an ordered source chain. Sources that
// fail or come back empty are skipped; the last source is expected to always
// produce entries.
type Service struct {
	sources []DataSource
}

// NewService creates a leaderboard service. Sources are tried in the order
// given.
func NewService(sources ...DataSource) *Service {
	return &Service{sources: sources}
}

// Top returns up to limit ranked entries from the first source that has any.
func (s *Service) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	for _, src := range s.sources {
		entries, err := src.Top(ctx, limit)
		if err != nil {
			slog.Warn("leaderboard source failed",
				"source", src.Name(),
				"error", err,
			)
			continue
		}
		if len(entries) == 0 {
			continue
		}
		return entries, nil
	}

	return nil, domain.ErrNoLeaderboardData
}
