package nlq

import (
	"strconv"

	"github.com/ching011500/coursebot/core"
)

// DegreeKind distinguishes undergraduate from graduate cohorts.
type DegreeKind int

const (
	DegreeUnknown DegreeKind = iota
	Undergraduate
	Graduate
)

func (d DegreeKind) String() string {
	switch d {
	case Undergraduate:
		return "學士班"
	case Graduate:
		return "碩士班"
	default:
		return "未定"
	}
}

// Cohort is a parsed department + year constraint. Department carries
// the program marker (統計系, 資工碩) exactly as catalog cohort labels
// spell it, so Label() can be compared against stored labels directly.
type Cohort struct {
	Department string
	Level      int
	Degree     DegreeKind

	// Section is the explicit section letter when the question named
	// one (經濟系1A). Usually empty, which matches every section.
	Section string
}

// Label renders the cohort the way the catalog writes it:
// 統計系1, 經濟系1A, 資工碩1, 資工系碩1.
func (c Cohort) Label() string {
	return c.Department + strconv.Itoa(c.Level) + c.Section
}

// Constraints is the structured interpretation of one question.
// Zero values mean the question did not mention that dimension.
type Constraints struct {
	// Department is the requested department token, marker included
	// (經濟系 or 資工碩). Empty when the question names none.
	Department string

	// DeptMarker constrains department matching to departments whose
	// name contains the marker. Set by the physical-education
	// heuristic when a sport is named without a department.
	DeptMarker string

	Cohort      *Cohort
	Requirement core.Requirement

	// Weekday and Band are zero when unconstrained.
	Weekday core.Weekday
	Band    core.TimeBand

	// Phrase is the cleaned retrieval phrase handed to the ranker.
	Phrase string
}

// HasTime reports whether the question constrains weekday or band.
func (c *Constraints) HasTime() bool {
	return c.Weekday != 0 || c.Band != 0
}

// HasFilter reports whether any structural constraint is present, which
// decides whether post-filtering runs at all.
func (c *Constraints) HasFilter() bool {
	return c.Department != "" || c.DeptMarker != "" || c.Cohort != nil ||
		c.Requirement != core.RequirementUnknown || c.HasTime()
}

// IsGraduateRequired reports whether the question asks for required
// courses of a graduate cohort. Such queries need the widest retrieval
// net because graduate seminars are often cross-listed under another
// department.
func (c *Constraints) IsGraduateRequired() bool {
	return c.Cohort != nil && c.Cohort.Degree == Graduate &&
		c.Requirement == core.RequirementRequired
}
