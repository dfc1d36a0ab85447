package search

import (
	"github.com/ching011500/coursebot/core"
	"github.com/ching011500/coursebot/nlq"
)

// Retrieval amplification multipliers. Exact post-filtering discards
// most of the candidate pool, so constrained questions cast a wider
// net before fusion.
const (
	// baseMultiplier applies to unconstrained questions.
	baseMultiplier = 5

	// requirementMultiplier applies when the question constrains
	// required/elective status without naming a cohort.
	requirementMultiplier = 12

	// cohortMultiplier applies when the question names a cohort.
	cohortMultiplier = 15

	// graduateRequiredMultiplier applies to graduate-cohort required
	// queries, which must also surface cross-listed seminars owned by
	// other departments.
	graduateRequiredMultiplier = 20
)

// Seminar probe: graduate required courses are frequently cross-listed
// thesis seminars whose owning department differs from the student's
// cohort, so the primary phrase alone misses them.
const (
	seminarProbeQuery = "專題研討 Seminar"
	seminarProbeLimit = 50
)

// FetchLimit returns the over-fetched candidate count for a question
// with the given constraints and requested result count.
func FetchLimit(c *nlq.Constraints, limit int) int {
	if limit < 1 {
		limit = 1
	}
	switch {
	case c.IsGraduateRequired():
		return limit * graduateRequiredMultiplier
	case c.Cohort != nil:
		return limit * cohortMultiplier
	case c.Requirement != core.RequirementUnknown:
		return limit * requirementMultiplier
	default:
		return limit * baseMultiplier
	}
}

// NeedsSeminarProbe reports whether the supplementary lexical probe
// for cross-listed seminar courses should run.
func NeedsSeminarProbe(c *nlq.Constraints) bool {
	return c.IsGraduateRequired()
}

// SeminarProbe returns the probe query and its fixed result count.
func SeminarProbe() (query string, limit int) {
	return seminarProbeQuery, seminarProbeLimit
}
