package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestLatestSubmissions(t *testing.T) {
	q1 := uuid.New()
	q2 := uuid.New()
	base := time.Now()

	history := []UserSubmission{
		{ID: uuid.New(), QuestionID: q1, IsCorrect: false, SubmittedAt: base},
		{ID: uuid.New(), QuestionID: q2, IsCorrect: true, SubmittedAt: base.Add(time.Minute)},
		{ID: uuid.New(), QuestionID: q1, IsCorrect: true, SubmittedAt: base.Add(2 * time.Minute)},
	}

	latest := LatestSubmissions(history)
	if len(latest) != 2 {
		t.Fatalf("len = %d; want 2", len(latest))
	}
	if !latest[q1].IsCorrect {
		t.Error("latest for q1 should be the correct retry")
	}
	if !latest[q2].IsCorrect {
		t.Error("latest for q2 should be correct")
	}
}

func TestLatestSubmissions_Empty(t *testing.T) {
	if got := LatestSubmissions(nil); len(got) != 0 {
		t.Errorf("len = %d; want 0", len(got))
	}
}
