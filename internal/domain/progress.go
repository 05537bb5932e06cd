package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProgressStatus is a user's state for one level. Status only moves forward:
// unlocked -> completed, never back.
type ProgressStatus string

const (
	ProgressStatusUnlocked  ProgressStatus = "unlocked"
	ProgressStatusCompleted ProgressStatus = "completed"
)

// UserProgress is the persisted unlock/completion record for one
// (user, course, level) triple. The triple is a unique key; rows are
// upserted, never duplicated.
type UserProgress struct {
	UserID      uuid.UUID
	CourseID    uuid.UUID
	LevelID     uuid.UUID
	Status      ProgressStatus
	CompletedAt *time.Time
}

// Advance moves the progress status forward if the transition is legal and
// reports whether anything changed. Re-completing a completed level is a
// no-op.
func (p *UserProgress) Advance(to ProgressStatus, now time.Time) bool {
	if p.Status == ProgressStatusCompleted {
		return false
	}
	if to == ProgressStatusCompleted {
		p.Status = ProgressStatusCompleted
		p.CompletedAt = &now
		return true
	}
	return false
}
