package session

import (
	"testing"

	"github.com/Jhananishri-B/practice-hub/internal/domain"
)

func TestDefaultTypePolicy(t *testing.T) {
	policy := NewDefaultTypePolicy([]TypeException{
		{CourseTitle: "Machine Learning", LevelNumber: 1, Type: domain.SessionTypeMCQ},
	})

	tests := []struct {
		name   string
		course string
		level  int
		want   domain.SessionType
	}{
		{name: "unlisted course defaults to coding", course: "Python", level: 1, want: domain.SessionTypeCoding},
		{name: "exception level defaults to mcq", course: "Machine Learning", level: 1, want: domain.SessionTypeMCQ},
		{name: "exception matches title case-insensitively", course: "machine learning", level: 1, want: domain.SessionTypeMCQ},
		{name: "other levels of the exception course stay coding", course: "Machine Learning", level: 2, want: domain.SessionTypeCoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			course := &domain.Course{Title: tt.course}
			level := &domain.Level{LevelNumber: tt.level}
			if got := policy.DefaultType(course, level); got != tt.want {
				t.Errorf("DefaultType() = %q; want %q", got, tt.want)
			}
		})
	}
}
