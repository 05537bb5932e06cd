package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Jhananishri-B/practice-hub/internal/domain"
)

// Engine maintains per-user per-level unlock and completion state. Unlock is
// derived at read time from completed predecessors and prerequisite rules;
// only the lazy level-1 row and the opportunistic next-level unlock are ever
// written outside MarkCompleted.
type Engine struct {
	store Store
	rules []Rule
	now   func() time.Time

	// writeBack toggles the opportunistic next-level unlock write during
	// listings. Reads are correct either way.
	writeBack bool
}

// NewEngine creates an unlock engine with the given prerequisite rules.
func NewEngine(store Store, rules []Rule) *Engine {
	return &Engine{
		store:     store,
		rules:     rules,
		now:       time.Now,
		writeBack: true,
	}
}

// SetWriteBack enables or disables the opportunistic unlock write-back.
func (e *Engine) SetWriteBack(enabled bool) {
	e.writeBack = enabled
}

// IsUnlocked reports whether the user may start a session on the level.
// Level 1 of any course is unconditionally unlocked and lazily materialized.
func (e *Engine) IsUnlocked(ctx context.Context, userID, courseID, levelID uuid.UUID) (bool, error) {
	course, err := e.store.Course(ctx, courseID)
	if err != nil {
		return false, err
	}
	levels, err := e.sortedLevels(ctx, courseID)
	if err != nil {
		return false, err
	}

	idx := -1
	for i, l := range levels {
		if l.ID == levelID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false, domain.ErrLevelNotFound
	}

	if idx == 0 {
		if err := e.materializeUnlock(ctx, userID, courseID, levelID); err != nil {
			return false, err
		}
		return true, nil
	}

	// An existing row means the level was unlocked at some point; status
	// never regresses.
	_, err = e.store.Progress(ctx, userID, courseID, levelID)
	switch {
	case err == nil:
		return true, nil
	case !errors.Is(err, domain.ErrProgressNotFound):
		return false, err
	}

	prev := levels[idx-1]
	prevProgress, err := e.store.Progress(ctx, userID, courseID, prev.ID)
	if err == nil && prevProgress.Status == domain.ProgressStatusCompleted {
		return true, nil
	}
	if err != nil && !errors.Is(err, domain.ErrProgressNotFound) {
		return false, err
	}

	return e.ruleSatisfied(ctx, userID, course.Title)
}

// MarkCompleted records a level as completed. Calling it again for an
// already-completed level is a no-op.
func (e *Engine) MarkCompleted(ctx context.Context, userID, courseID, levelID uuid.UUID) error {
	row, err := e.store.Progress(ctx, userID, courseID, levelID)
	if errors.Is(err, domain.ErrProgressNotFound) {
		row = &domain.UserProgress{
			UserID:   userID,
			CourseID: courseID,
			LevelID:  levelID,
			Status:   domain.ProgressStatusUnlocked,
		}
	} else if err != nil {
		return err
	}

	if !row.Advance(domain.ProgressStatusCompleted, e.now()) {
		return nil
	}
	if err := e.store.UpsertProgress(ctx, row); err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	slog.Info("level completed", "user_id", userID, "course_id", courseID, "level_id", levelID)
	return nil
}

// ListLevels returns the course's levels with the user's unlock state
// derived at read time. When a completed predecessor is observed, the next
// level's unlock row is written back opportunistically; that write is best
// effort and its failure never affects the returned view.
func (e *Engine) ListLevels(ctx context.Context, userID, courseID uuid.UUID) ([]domain.LevelView, error) {
	course, err := e.store.Course(ctx, courseID)
	if err != nil {
		return nil, err
	}
	levels, err := e.sortedLevels(ctx, courseID)
	if err != nil {
		return nil, err
	}
	rows, err := e.store.ProgressByCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	byLevel := make(map[uuid.UUID]domain.UserProgress, len(rows))
	for _, r := range rows {
		byLevel[r.LevelID] = r
	}

	wholesale, err := e.ruleSatisfied(ctx, userID, course.Title)
	if err != nil {
		return nil, err
	}

	views := make([]domain.LevelView, 0, len(levels))
	prevCompleted := false
	for i, level := range levels {
		view := domain.LevelView{Level: level}
		row, hasRow := byLevel[level.ID]

		switch {
		case hasRow && row.Status == domain.ProgressStatusCompleted:
			view.Status = domain.ProgressStatusCompleted
			view.Unlocked = true
			view.Completed = true
		case hasRow, i == 0, prevCompleted, wholesale:
			view.Status = domain.ProgressStatusUnlocked
			view.Unlocked = true
		}

		if view.Unlocked && !hasRow && e.writeBack {
			if err := e.materializeUnlock(ctx, userID, courseID, level.ID); err != nil {
				slog.Warn("unlock write-back failed",
					"user_id", userID,
					"level_id", level.ID,
					"error", err,
				)
			}
		}

		views = append(views, view)
		prevCompleted = view.Completed
	}
	return views, nil
}

func (e *Engine) sortedLevels(ctx context.Context, courseID uuid.UUID) ([]domain.Level, error) {
	levels, err := e.store.LevelsByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if len(levels) == 0 {
		return nil, domain.ErrLevelNotFound
	}
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].LevelNumber < levels[j].LevelNumber
	})
	return levels, nil
}

// materializeUnlock creates an unlocked row if none exists. Existing rows
// are left untouched so completion never regresses.
func (e *Engine) materializeUnlock(ctx context.Context, userID, courseID, levelID uuid.UUID) error {
	_, err := e.store.Progress(ctx, userID, courseID, levelID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrProgressNotFound) {
		return err
	}
	return e.store.UpsertProgress(ctx, &domain.UserProgress{
		UserID:   userID,
		CourseID: courseID,
		LevelID:  levelID,
		Status:   domain.ProgressStatusUnlocked,
	})
}

// ruleSatisfied checks the course's prerequisite rule, if any.
func (e *Engine) ruleSatisfied(ctx context.Context, userID uuid.UUID, courseTitle string) (bool, error) {
	rule, ok := ruleFor(e.rules, courseTitle)
	if !ok {
		return false, nil
	}
	prereq, err := e.store.CourseByTitle(ctx, rule.PrereqCourseTitle)
	if errors.Is(err, domain.ErrCourseNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	completed, err := e.store.CompletedLevelCount(ctx, userID, prereq.ID)
	if err != nil {
		return false, err
	}
	return completed >= rule.RequiredCompleted, nil
}
