package search

import (
	"strings"

	"github.com/ching011500/coursebot/core"
	"github.com/ching011500/coursebot/nlq"
)

// Filter keeps the candidates that satisfy every constraint. Constraints
// combine as a conjunction; a course with missing or unparseable metadata
// for a constrained field simply fails that constraint. Candidate order is
// preserved, so a ranked input stays ranked.
func Filter(candidates []*core.SearchResult, c *nlq.Constraints) []*core.SearchResult {
	if c == nil || !c.HasFilter() {
		return candidates
	}
	var out []*core.SearchResult
	for _, cand := range candidates {
		if matches(cand.Course, c) {
			out = append(out, cand)
		}
	}
	return out
}

// Relax re-filters on the department constraint alone. Used as a fallback
// when the full conjunction leaves nothing: a cohort-qualified question can
// still get an answer scoped to the right department.
func Relax(candidates []*core.SearchResult, c *nlq.Constraints) []*core.SearchResult {
	if c == nil || c.Department == "" {
		return nil
	}
	var out []*core.SearchResult
	for _, cand := range candidates {
		if deptMatch(cand.Course.Department, c.Department) {
			out = append(out, cand)
		}
	}
	return out
}

func matches(course *core.CourseRecord, c *nlq.Constraints) bool {
	if course == nil {
		return false
	}
	if c.DeptMarker != "" && !strings.Contains(course.Department, c.DeptMarker) {
		return false
	}
	if c.Department != "" && !deptMatch(course.Department, c.Department) {
		// Cross-listed courses carry the asking cohort in their mapping
		// even though another department owns the section.
		if !crossListed(course, c) {
			return false
		}
		return matchesTime(course, c)
	}
	if c.Cohort != nil {
		label := c.Cohort.Label()
		if !course.Mapping.MatchesCohort(label) {
			return false
		}
		if c.Requirement != core.RequirementUnknown && !cohortRequirementMatches(course, label, c.Requirement) {
			return false
		}
	} else if c.Requirement != core.RequirementUnknown {
		switch c.Requirement {
		case core.RequirementRequired:
			if !course.Mapping.HasRequired() {
				return false
			}
		case core.RequirementElective:
			// A question asking for electives without naming a cohort
			// means purely elective offerings, not mixed ones.
			if !course.Mapping.HasElective() || course.Mapping.HasRequired() {
				return false
			}
		}
	}
	return matchesTime(course, c)
}

// crossListed reports whether a course owned by another department still
// satisfies the question because its cohort mapping names the requested
// cohort, with a compatible requirement status when one is constrained.
func crossListed(course *core.CourseRecord, c *nlq.Constraints) bool {
	if c.Cohort == nil {
		return false
	}
	label := c.Cohort.Label()
	pairs := course.Mapping.MatchesFor(label)
	if len(pairs) == 0 {
		return false
	}
	if c.Requirement == core.RequirementUnknown {
		return true
	}
	for _, p := range pairs {
		if core.ParseRequirement(p.Requirement) == c.Requirement {
			return true
		}
	}
	return false
}

// cohortRequirementMatches checks the requirement status of the matched
// cohort pairs, not the course as a whole: a section required for 經濟系1
// and elective for 金融系2 answers a 經濟系大一必修 question.
func cohortRequirementMatches(course *core.CourseRecord, label string, want core.Requirement) bool {
	for _, p := range course.Mapping.MatchesFor(label) {
		if core.ParseRequirement(p.Requirement) == want {
			return true
		}
	}
	return false
}

// matchesTime checks the weekday/band constraint against parsed slots only.
// Raw schedule text is never consulted; a course whose schedule did not
// parse (時間另訂, intensive blocks) cannot satisfy a time constraint.
func matchesTime(course *core.CourseRecord, c *nlq.Constraints) bool {
	if !c.HasTime() {
		return true
	}
	for _, slot := range course.Slots {
		if slot.Matches(c.Weekday, c.Band) {
			return true
		}
	}
	return false
}

// deptMatch reports whether a course's owning department satisfies the
// requested department token. Graduate tokens tolerate the 系 and 碩
// qualifiers differing between the two sides, in either direction.
func deptMatch(dept, target string) bool {
	if dept == "" || target == "" {
		return false
	}
	if strings.Contains(dept, target) {
		return true
	}
	if strings.Contains(dept, "碩") && strings.Contains(target, "碩") {
		a := stripDeptQualifiers(dept)
		b := stripDeptQualifiers(target)
		if a != "" && b != "" && (strings.Contains(a, b) || strings.Contains(b, a)) {
			return true
		}
	}
	return false
}

func stripDeptQualifiers(dept string) string {
	dept = strings.ReplaceAll(dept, "系", "")
	dept = strings.ReplaceAll(dept, "碩", "")
	return strings.TrimSpace(dept)
}
