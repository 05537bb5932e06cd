package domain

import (
	"time"

	"github.com/google/uuid"
)

// Course groups an ordered set of levels under one curriculum.
type Course struct {
	ID          uuid.UUID
	Title       string
	Description string
	// TotalLevels is the declared level count. It may drift from the number
	// of level rows actually present and must be tolerated, not trusted.
	TotalLevels int
	CreatedAt   time.Time
}

// Level is one ordered unit of a course. Level numbers are 1-based and
// dense in practice but not guaranteed contiguous.
type Level struct {
	ID          uuid.UUID
	CourseID    uuid.UUID
	LevelNumber int
	Title       string
	CreatedAt   time.Time
}

// LevelView is a level decorated with the requesting user's unlock state.
type LevelView struct {
	Level
	Status    ProgressStatus
	Unlocked  bool
	Completed bool
}
