package core

import (
	"encoding/binary"
	"sort"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing so the same course
// always receives the same ID across rebuilds.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Requirement is the enrollment status of a course for one cohort.
type Requirement int

const (
	// RequirementUnknown means the raw label carried neither marker.
	RequirementUnknown Requirement = iota
	// RequirementRequired corresponds to a 必修 label.
	RequirementRequired
	// RequirementElective corresponds to a 選修 label.
	RequirementElective
)

// String returns the Chinese catalog label for the requirement status.
func (r Requirement) String() string {
	switch r {
	case RequirementRequired:
		return "必修"
	case RequirementElective:
		return "選修"
	default:
		return "未定"
	}
}

// ParseRequirement classifies a raw requirement label from the catalog.
// A label containing 必 wins over 選 when both appear.
func ParseRequirement(label string) Requirement {
	if strings.Contains(label, "必") {
		return RequirementRequired
	}
	if strings.Contains(label, "選") {
		return RequirementElective
	}
	return RequirementUnknown
}

// GradePair binds one cohort label to its requirement label.
// The relation is one-to-many: a section can belong to several cohorts
// with a different requirement status per cohort, so the pairs are kept
// as a single ordered list rather than two parallel ones.
type GradePair struct {
	Cohort      string
	Requirement string
}

// Required reports whether the pair's requirement label marks a required course.
func (p GradePair) Required() bool {
	return ParseRequirement(p.Requirement) == RequirementRequired
}

// GradeRequiredMapping is the cohort/requirement structure for one course.
// RequiredGroups and ElectiveGroups are derived partitions of the cohort
// labels; a label with ambiguous source data may appear in both and is
// never deduplicated away. AllGroups is the union used for membership tests.
type GradeRequiredMapping struct {
	Pairs          []GradePair
	RequiredGroups []string
	ElectiveGroups []string
	AllGroups      []string
}

// NewGradeRequiredMapping derives the group partitions from an ordered pair list.
func NewGradeRequiredMapping(pairs []GradePair) GradeRequiredMapping {
	m := GradeRequiredMapping{Pairs: pairs}
	seen := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		switch ParseRequirement(p.Requirement) {
		case RequirementRequired:
			m.RequiredGroups = append(m.RequiredGroups, p.Cohort)
		case RequirementElective:
			m.ElectiveGroups = append(m.ElectiveGroups, p.Cohort)
		}
		if !seen[p.Cohort] {
			seen[p.Cohort] = true
			m.AllGroups = append(m.AllGroups, p.Cohort)
		}
	}
	return m
}

// cohortSectionSuffixes are the section letters a stored cohort label may
// carry beyond the department+numeral prefix, e.g. 經濟系1A vs 經濟系1.
const cohortSectionSuffixes = "ABCDEF"

// matchesCohort reports whether a stored cohort label satisfies a requested
// cohort token. The request carries no section letter, so 經濟系1 matches
// 經濟系1A and 經濟系1B but never 經濟系11. Graduate tokens tolerate the
// 系 qualifier differing between the two sides (資工系碩1 vs 資工碩1).
func matchesCohort(stored, requested string) bool {
	if stored == requested {
		return true
	}
	if strings.HasPrefix(stored, requested) {
		diff := strings.TrimSpace(stored[len(requested):])
		if len(diff) == 1 && strings.Contains(cohortSectionSuffixes, diff) {
			return true
		}
	}
	if strings.Contains(requested, "碩") && strings.Contains(stored, "碩") {
		reqDept, reqNum, ok1 := splitGraduateLabel(requested)
		stoDept, stoNum, ok2 := splitGraduateLabel(stored)
		if ok1 && ok2 && reqNum != "" {
			deptMatch := strings.Contains(stoDept, reqDept) || strings.Contains(reqDept, stoDept)
			numMatch := stoNum == reqNum || strings.HasPrefix(stoNum, reqNum)
			if deptMatch && numMatch {
				return true
			}
		}
	}
	return false
}

// splitGraduateLabel splits a graduate cohort label around the 碩 marker,
// dropping the 系 qualifier so 資工系碩1 and 資工碩1 compare equal.
func splitGraduateLabel(label string) (dept, num string, ok bool) {
	idx := strings.Index(label, "碩")
	if idx < 0 {
		return "", "", false
	}
	dept = strings.TrimSpace(strings.ReplaceAll(label[:idx], "系", ""))
	num = strings.TrimSpace(label[idx+len("碩"):])
	return dept, num, true
}

// MatchesCohort reports whether any cohort label in the mapping satisfies
// the requested cohort token.
func (m GradeRequiredMapping) MatchesCohort(requested string) bool {
	for _, label := range m.AllGroups {
		if matchesCohort(label, requested) {
			return true
		}
	}
	return false
}

// RequirementFor returns the requirement status of the first pair whose
// cohort label satisfies the requested cohort token, scanning exact matches
// before prefix matches. Returns RequirementUnknown when nothing matches.
func (m GradeRequiredMapping) RequirementFor(requested string) Requirement {
	for _, p := range m.Pairs {
		if p.Cohort == requested {
			if r := ParseRequirement(p.Requirement); r != RequirementUnknown {
				return r
			}
		}
	}
	for _, p := range m.Pairs {
		if matchesCohort(p.Cohort, requested) {
			if r := ParseRequirement(p.Requirement); r != RequirementUnknown {
				return r
			}
		}
	}
	return RequirementUnknown
}

// MatchesFor returns every pair whose cohort label satisfies the requested
// cohort token, preserving mapping order and skipping duplicates.
func (m GradeRequiredMapping) MatchesFor(requested string) []GradePair {
	var out []GradePair
	seen := make(map[string]bool)
	for _, p := range m.Pairs {
		if !seen[p.Cohort] && matchesCohort(p.Cohort, requested) {
			seen[p.Cohort] = true
			out = append(out, p)
		}
	}
	return out
}

// HasRequired reports whether any cohort takes this course as required.
func (m GradeRequiredMapping) HasRequired() bool {
	return len(m.RequiredGroups) > 0
}

// HasElective reports whether any cohort takes this course as elective.
func (m GradeRequiredMapping) HasElective() bool {
	return len(m.ElectiveGroups) > 0
}

// CourseRecord represents one offering of a course section.
// Records are created at ingestion, immutable while serving queries, and
// replaced wholesale on index rebuild.
type CourseRecord struct {
	Id         ID
	Serial     string // section code, unique within a term
	Name       string
	YearTerm   string
	Department string
	Teacher    string
	Credit     string
	Hours      string
	Category   string
	Language   string
	EduType    string
	Note       string

	Mapping GradeRequiredMapping

	// ScheduleRaw is the catalog string, e.g. 每週二3~4 電1F02.
	// Slots is the parsed form; time filtering only ever consults Slots.
	ScheduleRaw string
	Slots       []ScheduleSlot

	// Text is the canonical flattened rendering used by both indexes.
	// Vector is the embedding of Text, unit-normalized.
	Text   string
	Vector []float32
}

// Key returns the composite identity string the record's ID is derived from.
func (c *CourseRecord) Key() string {
	return c.YearTerm + "_" + c.Serial + "_" + c.EduType
}

// SlotsEqual reports whether two courses share the exact same schedule set,
// ignoring slot order and locations.
func SlotsEqual(a, b []ScheduleSlot) bool {
	if len(a) != len(b) {
		return false
	}
	ka, kb := slotKeys(a), slotKeys(b)
	for i := range ka {
		if ka[i] != kb[i] {
			return false
		}
	}
	return true
}

func slotKeys(slots []ScheduleSlot) []string {
	keys := make([]string, len(slots))
	for i, s := range slots {
		keys[i] = s.TimeKey()
	}
	sort.Strings(keys)
	return keys
}

// SimilarityMatch represents a course match from vector similarity search.
type SimilarityMatch struct {
	CourseId ID
	Score    float32
}

// SearchResult represents a ranked course with its relevance score.
type SearchResult struct {
	Course *CourseRecord
	Score  float32
}
