package domain

import (
	"testing"
	"time"
)

func TestUserProgress_Advance(t *testing.T) {
	now := time.Now()

	t.Run("unlocked to completed", func(t *testing.T) {
		p := &UserProgress{Status: ProgressStatusUnlocked}
		if !p.Advance(ProgressStatusCompleted, now) {
			t.Fatal("Advance() = false; want true")
		}
		if p.Status != ProgressStatusCompleted {
			t.Errorf("Status = %q; want %q", p.Status, ProgressStatusCompleted)
		}
		if p.CompletedAt == nil || !p.CompletedAt.Equal(now) {
			t.Error("CompletedAt not set")
		}
	})

	t.Run("completed is terminal", func(t *testing.T) {
		earlier := now.Add(-time.Hour)
		p := &UserProgress{Status: ProgressStatusCompleted, CompletedAt: &earlier}
		if p.Advance(ProgressStatusCompleted, now) {
			t.Fatal("Advance() = true; want false for already-completed")
		}
		if !p.CompletedAt.Equal(earlier) {
			t.Error("CompletedAt changed on re-complete")
		}
	})

	t.Run("never regresses", func(t *testing.T) {
		p := &UserProgress{Status: ProgressStatusCompleted, CompletedAt: &now}
		if p.Advance(ProgressStatusUnlocked, now) {
			t.Fatal("Advance() = true; want false for regression")
		}
		if p.Status != ProgressStatusCompleted {
			t.Errorf("Status = %q; want %q", p.Status, ProgressStatusCompleted)
		}
	})
}
