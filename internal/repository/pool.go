// Package repository provides the PostgreSQL persistence layer. It
// implements the same consumer-side store interfaces as the SQLite layer and
// is selected when DATABASE_URL points at a Postgres DSN.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool connects a pgx pool and verifies connectivity.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// Store bundles the Postgres-backed stores behind one value, mirroring the
// SQLite composite store.
type Store struct {
	*ContentRepository
	*SessionRepository
	*SubmissionRepository
	*ProgressRepository
}

// NewStore creates the full Postgres store over one pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		ContentRepository:    NewContentRepository(pool),
		SessionRepository:    NewSessionRepository(pool),
		SubmissionRepository: NewSubmissionRepository(pool),
		ProgressRepository:   NewProgressRepository(pool),
	}
}
