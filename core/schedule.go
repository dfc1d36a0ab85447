package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Weekday is a day of the week as named in the course catalog.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = map[Weekday]string{
	Monday:    "一",
	Tuesday:   "二",
	Wednesday: "三",
	Thursday:  "四",
	Friday:    "五",
	Saturday:  "六",
	Sunday:    "日",
}

// String returns the catalog form, e.g. 週二.
func (d Weekday) String() string {
	if name, ok := weekdayNames[d]; ok {
		return "週" + name
	}
	return fmt.Sprintf("Weekday(%d)", int(d))
}

// WeekdayFromChar maps a single Chinese day character (一..日) to a Weekday.
func WeekdayFromChar(ch string) (Weekday, bool) {
	for d, name := range weekdayNames {
		if name == ch {
			return d, true
		}
	}
	if ch == "天" {
		return Sunday, true
	}
	return 0, false
}

// TimeBand is one of the three fixed coarse partitions of the daily
// period schedule. Periods run 1..12.
type TimeBand int

const (
	// Morning covers periods 1-4.
	Morning TimeBand = iota + 1
	// Afternoon covers periods 5-8.
	Afternoon
	// Evening covers periods 9-12.
	Evening
)

// String returns the catalog form, e.g. 早上.
func (b TimeBand) String() string {
	switch b {
	case Morning:
		return "早上"
	case Afternoon:
		return "下午"
	case Evening:
		return "晚上"
	default:
		return fmt.Sprintf("TimeBand(%d)", int(b))
	}
}

// Range returns the inclusive period range of the band.
func (b TimeBand) Range() (start, end int) {
	switch b {
	case Morning:
		return 1, 4
	case Afternoon:
		return 5, 8
	case Evening:
		return 9, 12
	default:
		return 0, 0
	}
}

// ContainsRange reports whether the period range [start, end] falls fully
// inside the band.
func (b TimeBand) ContainsRange(start, end int) bool {
	lo, hi := b.Range()
	return start >= lo && end <= hi && start <= end
}

// ScheduleSlot is one parsed (weekday, period-range) meeting of a course.
// Periods are integers 1..12.
type ScheduleSlot struct {
	Day      Weekday
	Start    int
	End      int
	Location string
}

// TimeKey returns a canonical string for the slot's time, ignoring location.
// Used for exact schedule-set comparison when grouping sections.
func (s ScheduleSlot) TimeKey() string {
	return fmt.Sprintf("%d:%d-%d", s.Day, s.Start, s.End)
}

// String renders the slot back in catalog form.
func (s ScheduleSlot) String() string {
	out := fmt.Sprintf("%s%d~%d", s.Day, s.Start, s.End)
	if s.Location != "" {
		out += " " + s.Location
	}
	return out
}

// Matches reports whether the slot meets on the given weekday (0 means any)
// and falls fully inside the given band (0 means any).
func (s ScheduleSlot) Matches(day Weekday, band TimeBand) bool {
	if day != 0 && s.Day != day {
		return false
	}
	if band != 0 && !band.ContainsRange(s.Start, s.End) {
		return false
	}
	return true
}

// slotPattern matches one meeting inside a raw schedule string, e.g.
// 每週二3~4 or 週五 6-7. Anchoring the period range to the 週X marker keeps
// classroom numerals (電1F02) from being mistaken for periods.
var slotPattern = regexp.MustCompile(`每?週([一二三四五六日])\s*(\d{1,2})\s*[~-]\s*(\d{1,2})`)

// singlePeriodPattern matches a one-period meeting, e.g. 週三5.
var singlePeriodPattern = regexp.MustCompile(`每?週([一二三四五六日])\s*(\d{1,2})(?:\D|$)`)

// ParseSchedule extracts the (weekday, period-range) slots from a raw
// catalog schedule string. Text that parses to no slot (intensive courses,
// 時間另訂 and the like) yields an empty set, never an error; such courses
// simply never match a time constraint.
func ParseSchedule(raw string) []ScheduleSlot {
	var slots []ScheduleSlot
	seen := make(map[string]bool)

	remaining := raw
	for _, m := range slotPattern.FindAllStringSubmatchIndex(raw, -1) {
		day, _ := WeekdayFromChar(raw[m[2]:m[3]])
		start, _ := strconv.Atoi(raw[m[4]:m[5]])
		end, _ := strconv.Atoi(raw[m[6]:m[7]])
		if start < 1 || start > 12 || end < start || end > 12 {
			continue
		}
		slot := ScheduleSlot{Day: day, Start: start, End: end, Location: trailingLocation(raw, m[1])}
		if !seen[slot.TimeKey()] {
			seen[slot.TimeKey()] = true
			slots = append(slots, slot)
		}
		remaining = strings.Replace(remaining, raw[m[0]:m[1]], "", 1)
	}

	// Single-period meetings only in text the range pattern did not consume.
	for _, m := range singlePeriodPattern.FindAllStringSubmatch(remaining, -1) {
		day, _ := WeekdayFromChar(m[1])
		start, _ := strconv.Atoi(m[2])
		if start < 1 || start > 12 {
			continue
		}
		slot := ScheduleSlot{Day: day, Start: start, End: start}
		if !seen[slot.TimeKey()] {
			seen[slot.TimeKey()] = true
			slots = append(slots, slot)
		}
	}

	return slots
}

// trailingLocation extracts the classroom token following a slot match,
// stopping at the next slot or end of string.
func trailingLocation(raw string, from int) string {
	rest := strings.TrimSpace(raw[from:])
	if rest == "" {
		return ""
	}
	if idx := strings.Index(rest, "週"); idx >= 0 {
		rest = rest[:idx]
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
