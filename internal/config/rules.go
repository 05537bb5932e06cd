package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Jhananishri-B/practice-hub/internal/domain"
	"github.com/Jhananishri-B/practice-hub/internal/progress"
	"github.com/Jhananishri-B/practice-hub/internal/runner"
	"github.com/Jhananishri-B/practice-hub/internal/session"
)

//go:embed default_rules.yaml
var defaultRules []byte

// Rules is the fixed course configuration table: the language each course's
// coding questions accept, cross-course prerequisite unlock rules, and
// per-level session type defaults. It is loaded once at startup and never
// edited at runtime.
type Rules struct {
	Languages       []CourseLanguage `yaml:"languages"`
	Prerequisites   []Prerequisite   `yaml:"prerequisites"`
	SessionDefaults []SessionDefault `yaml:"session_defaults"`
}

// CourseLanguage pins a course to one submission language.
type CourseLanguage struct {
	Course   string `yaml:"course"`
	Language string `yaml:"language"`
}

// Prerequisite unlocks a course wholesale after enough completed levels of
// another course.
type Prerequisite struct {
	Course         string `yaml:"course"`
	Requires       string `yaml:"requires"`
	RequiredLevels int    `yaml:"required_levels"`
}

// SessionDefault overrides the default session type for one level.
type SessionDefault struct {
	Course      string `yaml:"course"`
	LevelNumber int    `yaml:"level_number"`
	SessionType string `yaml:"session_type"`
}

// LoadRules reads the rules file at path, or the embedded defaults when path
// is empty.
func LoadRules(path string) (*Rules, error) {
	data := defaultRules
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read rules file: %w", err)
		}
	}

	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}
	for _, cl := range rules.Languages {
		if !runner.Language(cl.Language).IsValid() {
			return nil, fmt.Errorf("rules file: unsupported language %q for course %q", cl.Language, cl.Course)
		}
	}
	return &rules, nil
}

// ForCourse returns the language a course's coding questions accept.
func (r *Rules) ForCourse(course *domain.Course) (runner.Language, bool) {
	for _, cl := range r.Languages {
		if strings.EqualFold(cl.Course, course.Title) {
			return runner.Language(cl.Language), true
		}
	}
	return "", false
}

// ProgressRules converts the prerequisite table for the unlock engine.
func (r *Rules) ProgressRules() []progress.Rule {
	rules := make([]progress.Rule, 0, len(r.Prerequisites))
	for _, p := range r.Prerequisites {
		rules = append(rules, progress.Rule{
			CourseTitle:       p.Course,
			PrereqCourseTitle: p.Requires,
			RequiredCompleted: p.RequiredLevels,
		})
	}
	return rules
}

// TypeExceptions converts the session type default table for the session
// service.
func (r *Rules) TypeExceptions() []session.TypeException {
	exceptions := make([]session.TypeException, 0, len(r.SessionDefaults))
	for _, d := range r.SessionDefaults {
		exceptions = append(exceptions, session.TypeException{
			CourseTitle: d.Course,
			LevelNumber: d.LevelNumber,
			Type:        domain.SessionType(d.SessionType),
		})
	}
	return exceptions
}
