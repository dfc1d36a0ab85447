package search

import (
	"sort"
	"strings"

	"github.com/ching011500/coursebot/core"
)

// concurrentSectionMarker flags a merged group taught by more than one
// instructor, so the rendered answer tells the reader to pick a section.
const concurrentSectionMarker = "（多班開設）"

// CourseGroup is one course as a student thinks of it: sections sharing
// the same name and the exact same meeting times, merged into a single
// entry. 經濟學原理 taught in three parallel sections at 週二3~4 is one
// group; the same name at a different time is another.
type CourseGroup struct {
	Name        string
	Slots       []core.ScheduleSlot
	ScheduleRaw string
	Serials     []string
	Instructors []string
	Courses     []*core.CourseRecord
}

// InstructorLine renders the group's instructors for display, marking
// groups with concurrent sections.
func (g *CourseGroup) InstructorLine() string {
	line := strings.Join(g.Instructors, "、")
	if len(g.Instructors) > 1 {
		line += concurrentSectionMarker
	}
	return line
}

// Group merges ranked results into course groups, preserving the order in
// which each group first appears. The returned count of groups, not of raw
// sections, is what a "how many courses" answer reports.
func Group(results []*core.SearchResult) []*CourseGroup {
	var groups []*CourseGroup
	index := make(map[string]*CourseGroup)
	for _, r := range results {
		course := r.Course
		if course == nil {
			continue
		}
		key := groupKey(course)
		g, ok := index[key]
		if !ok {
			g = &CourseGroup{
				Name:        course.Name,
				Slots:       course.Slots,
				ScheduleRaw: course.ScheduleRaw,
			}
			index[key] = g
			groups = append(groups, g)
		}
		g.Courses = append(g.Courses, course)
		g.Serials = appendDistinct(g.Serials, course.Serial)
		g.Instructors = appendDistinct(g.Instructors, course.Teacher)
	}
	return groups
}

// groupKey is the merge identity: course name plus the canonical form of
// the parsed schedule set. Locations are ignored so parallel sections in
// different rooms still merge.
func groupKey(course *core.CourseRecord) string {
	keys := make([]string, len(course.Slots))
	for i, s := range course.Slots {
		keys[i] = s.TimeKey()
	}
	sort.Strings(keys)
	return course.Name + "|" + strings.Join(keys, ",")
}

func appendDistinct(list []string, v string) []string {
	if v == "" {
		return list
	}
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
