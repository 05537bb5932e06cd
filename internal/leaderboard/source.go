// Package leaderboard ranks users by completed levels and correct
// submissions. Rankings come from a chain of data sources tried in order,
// ending in a static fallback so the endpoint always has something to show.
package leaderboard

import (
	"context"

	"github.com/Jhananishri-B/practice-hub/internal/domain"
)

// Entry is one ranked leaderboard row.
type Entry struct {
	Rank               int    `json:"rank"`
	Name               string `json:"name"`
	LevelsCompleted    int    `json:"levels_completed"`
	CorrectSubmissions int    `json:"correct_submissions"`
}

// DataSource produces the top users, best first. An empty result means the
// source has nothing to offer and the next source should be tried.
type DataSource interface {
	Name() string
	Top(ctx context.Context, limit int) ([]Entry, error)
}

// Store is the persistence queried by the live source.
type Store interface {
	TopLearners(ctx context.Context, limit int) ([]domain.LeaderboardRow, error)
}

// rank converts rows to ranked entries, preserving the store's order.
func rank(rows []domain.LeaderboardRow) []Entry {
	entries := make([]Entry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, Entry{
			Rank:               i + 1,
			Name:               row.Name,
			LevelsCompleted:    row.LevelsCompleted,
			CorrectSubmissions: row.CorrectSubmissions,
		})
	}
	return entries
}
