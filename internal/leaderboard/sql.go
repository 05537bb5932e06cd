package leaderboard

import (
	"context"
	"fmt"
)

// SQLSource ranks users straight from the primary store.
type SQLSource struct {
	store Store
}

// NewSQLSource creates a store-backed source.
func NewSQLSource(store Store) *SQLSource {
	return &SQLSource{store: store}
}

func (s *SQLSource) Name() string { return "sql" }

// Top returns the highest ranked users from the store.
func (s *SQLSource) Top(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.store.TopLearners(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("query top learners: %w", err)
	}
	return rank(rows), nil
}
