package progress

import "strings"

// Rule unlocks every level of a course wholesale once the user has completed
// enough levels of a prerequisite course. Rules are a small fixed table keyed
// by course title; courses without a rule rely on ordinary level-by-level
// progression only.
type Rule struct {
	CourseTitle       string
	PrereqCourseTitle string
	RequiredCompleted int
}

// ruleFor finds the rule for a course title, matched case-insensitively.
func ruleFor(rules []Rule, courseTitle string) (Rule, bool) {
	for _, r := range rules {
		if strings.EqualFold(r.CourseTitle, courseTitle) {
			return r, true
		}
	}
	return Rule{}, false
}
