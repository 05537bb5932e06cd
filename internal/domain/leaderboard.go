package domain

import "github.com/google/uuid"

// LeaderboardRow is one user's aggregate standing: completed levels across
// all courses and correct submissions, ordered by the query that produced it.
type LeaderboardRow struct {
	UserID             uuid.UUID `json:"user_id"`
	Name               string    `json:"name"`
	LevelsCompleted    int       `json:"levels_completed"`
	CorrectSubmissions int       `json:"correct_submissions"`
}
