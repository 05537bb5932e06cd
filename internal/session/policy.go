package session

import (
	"strings"

	"github.com/Jhananishri-B/practice-hub/internal/domain"
)

// TypePolicy decides a session's effective type when the caller does not
// request one.
type TypePolicy interface {
	DefaultType(course *domain.Course, level *domain.Level) domain.SessionType
}

// TypeException overrides the default session type for one (course, level)
// pair, matched by course title.
type TypeException struct {
	CourseTitle string
	LevelNumber int
	Type        domain.SessionType
}

// DefaultTypePolicy defaults every level to a coding session except for a
// small fixed exception table.
type DefaultTypePolicy struct {
	exceptions []TypeException
}

// NewDefaultTypePolicy builds the policy from an exception table. Course
// titles match case-insensitively.
func NewDefaultTypePolicy(exceptions []TypeException) *DefaultTypePolicy {
	return &DefaultTypePolicy{exceptions: exceptions}
}

func (p *DefaultTypePolicy) DefaultType(course *domain.Course, level *domain.Level) domain.SessionType {
	for _, ex := range p.exceptions {
		if strings.EqualFold(ex.CourseTitle, course.Title) && ex.LevelNumber == level.LevelNumber {
			return ex.Type
		}
	}
	return domain.SessionTypeCoding
}
