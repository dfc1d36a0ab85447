package nlq

import (
	"regexp"
	"strings"

	"github.com/ching011500/coursebot/core"
)

// Parse interprets a free-text question as structured constraints.
// Extractors run in a fixed order over a filler-stripped copy of the
// question: cohort, department, requirement, weekday, time band, then
// the physical-education heuristic. Parsing never fails; a question
// with no recognizable tokens yields empty constraints and the cleaned
// question as the retrieval phrase.
func Parse(question string) *Constraints {
	cleaned := stripFiller(question)

	constraints := &Constraints{}
	constraints.Cohort = extractCohort(cleaned)
	constraints.Department = extractDepartment(constraints.Cohort, cleaned)
	constraints.Requirement = extractRequirement(cleaned)
	constraints.Weekday = extractWeekday(cleaned)
	constraints.Band = extractBand(cleaned)

	if constraints.Department == "" && constraints.Cohort == nil {
		constraints.DeptMarker = detectSportCategory(cleaned)
	}

	constraints.Phrase = buildPhrase(constraints, cleaned)
	return constraints
}

var fillerReplacer = strings.NewReplacer(
	"請問", " ", "我想找", " ", "我想查", " ", "我想要", " ", "我想", " ",
	"想要", " ", "幫我找", " ", "幫我查", " ", "幫我", " ", "告訴我", " ",
	"查詢一下", " ", "查一下", " ", "有哪些", " ", "有什麼", " ",
	"嗎", " ", "呢", " ", "？", " ", "?", " ", "！", " ", "!", " ",
	"，", " ", "。", " ", "、", " ",
)

// stripFiller removes conversational lead-ins and punctuation so the
// department pattern anchors on the actual department name instead of
// swallowing the whole phrase.
func stripFiller(question string) string {
	return strings.Join(strings.Fields(fillerReplacer.Replace(question)), " ")
}

// gradeKeywords maps spoken year phrases to the catalog's numbering.
// Longer graduate phrases come first so 碩士一年級 is not misread as
// the undergraduate 一年級.
var gradeKeywords = []struct {
	keyword string
	numeral string
	grad    bool
}{
	{"碩士一年級", "碩1", true},
	{"碩士二年級", "碩2", true},
	{"碩士三年級", "碩3", true},
	{"碩一", "碩1", true},
	{"碩二", "碩2", true},
	{"碩三", "碩3", true},
	{"大一", "1", false},
	{"大二", "2", false},
	{"大三", "3", false},
	{"大四", "4", false},
	{"一年級", "1", false},
	{"二年級", "2", false},
	{"三年級", "3", false},
	{"四年級", "4", false},
}

var (
	deptPattern     = regexp.MustCompile(`(\S+系)`)
	gradDeptPattern = regexp.MustCompile(`(\S+碩)`)
)

// cohortPatterns recognize explicit catalog-style cohort tokens when no
// spoken year phrase is present. Graduate forms come first so 資工系碩1
// is not split as 資工系 + stray numeral.
var cohortPatterns = []struct {
	re   *regexp.Regexp
	grad bool
}{
	{regexp.MustCompile(`(\S+系碩)\s*([1-3])`), true},
	{regexp.MustCompile(`(\S+碩)\s*([1-3])`), true},
	{regexp.MustCompile(`(\S+系)\s*([1-4])([A-F]?)`), false},
}

func extractCohort(text string) *Cohort {
	for _, gk := range gradeKeywords {
		if !strings.Contains(text, gk.keyword) {
			continue
		}
		level := int(gk.numeral[len(gk.numeral)-1] - '0')

		// A named department takes priority: 統計系大一, 資工系碩一.
		if m := deptPattern.FindStringSubmatch(text); m != nil {
			dept := m[1]
			if gk.grad {
				dept += "碩"
			}
			return &Cohort{Department: dept, Level: level, Degree: degreeOf(gk.grad)}
		}

		if gk.grad {
			// 資工碩一 carries the marker without 系.
			if m := gradDeptPattern.FindStringSubmatch(text); m != nil {
				return &Cohort{Department: m[1], Level: level, Degree: Graduate}
			}
			continue
		}

		// 統計大一 names the department without the 系 marker.
		bare := regexp.MustCompile(`([^大\s]+)` + gk.keyword)
		if m := bare.FindStringSubmatch(text); m != nil {
			dept := m[1]
			if !strings.Contains(dept, "系") {
				dept += "系"
			}
			return &Cohort{Department: dept, Level: level, Degree: Undergraduate}
		}
	}

	for _, cp := range cohortPatterns {
		m := cp.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		cohort := &Cohort{
			Department: m[1],
			Level:      int(m[2][0] - '0'),
			Degree:     degreeOf(cp.grad),
		}
		if len(m) > 3 {
			cohort.Section = m[3]
		}
		return cohort
	}
	return nil
}

func degreeOf(grad bool) DegreeKind {
	if grad {
		return Graduate
	}
	return Undergraduate
}

// extractDepartment picks the department token, preferring the one
// embedded in the cohort so 資工碩一 yields 資工碩 rather than nothing.
func extractDepartment(cohort *Cohort, text string) string {
	if cohort != nil {
		label := cohort.Label()
		if m := deptPattern.FindStringSubmatch(label); m != nil {
			return m[1]
		}
		if m := gradDeptPattern.FindStringSubmatch(label); m != nil {
			return m[1]
		}
	}
	if m := deptPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := gradDeptPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// extractRequirement reads 必修/選修. When both appear the later
// mention wins.
func extractRequirement(text string) core.Requirement {
	required := strings.LastIndex(text, "必修")
	elective := strings.LastIndex(text, "選修")
	switch {
	case required < 0 && elective < 0:
		return core.RequirementUnknown
	case required > elective:
		return core.RequirementRequired
	default:
		return core.RequirementElective
	}
}

// weekdayTokens lists every accepted spelling. Full English names come
// before their abbreviations so an equal-position match prefers the
// longer spelling.
var weekdayTokens = []struct {
	token string
	day   core.Weekday
}{
	{"星期一", core.Monday}, {"禮拜一", core.Monday}, {"週一", core.Monday},
	{"monday", core.Monday}, {"mon", core.Monday},
	{"星期二", core.Tuesday}, {"禮拜二", core.Tuesday}, {"週二", core.Tuesday},
	{"tuesday", core.Tuesday}, {"tue", core.Tuesday},
	{"星期三", core.Wednesday}, {"禮拜三", core.Wednesday}, {"週三", core.Wednesday},
	{"wednesday", core.Wednesday}, {"wed", core.Wednesday},
	{"星期四", core.Thursday}, {"禮拜四", core.Thursday}, {"週四", core.Thursday},
	{"thursday", core.Thursday}, {"thu", core.Thursday},
	{"星期五", core.Friday}, {"禮拜五", core.Friday}, {"週五", core.Friday},
	{"friday", core.Friday}, {"fri", core.Friday},
	{"星期六", core.Saturday}, {"禮拜六", core.Saturday}, {"週六", core.Saturday},
	{"saturday", core.Saturday}, {"sat", core.Saturday},
	{"星期日", core.Sunday}, {"禮拜日", core.Sunday}, {"禮拜天", core.Sunday},
	{"週日", core.Sunday}, {"sunday", core.Sunday}, {"sun", core.Sunday},
}

// extractWeekday returns the weekday whose mention occurs last in the
// question; zero when none is mentioned.
func extractWeekday(text string) core.Weekday {
	lower := strings.ToLower(text)

	var day core.Weekday
	best := -1
	for _, wt := range weekdayTokens {
		if idx := strings.LastIndex(lower, wt.token); idx > best {
			best = idx
			day = wt.day
		}
	}
	return day
}

// bandTokens accept the three Chinese band words plus uppercase AM/PM.
// Lowercase am/pm is deliberately not matched: it appears inside
// ordinary English words.
var bandTokens = []struct {
	token string
	band  core.TimeBand
}{
	{"早上", core.Morning}, {"上午", core.Morning}, {"AM", core.Morning},
	{"下午", core.Afternoon}, {"PM", core.Afternoon},
	{"晚上", core.Evening}, {"夜間", core.Evening},
}

// extractBand returns the time band mentioned last in the question.
func extractBand(text string) core.TimeBand {
	var band core.TimeBand
	best := -1
	for _, bt := range bandTokens {
		if idx := strings.LastIndex(text, bt.token); idx > best {
			best = idx
			band = bt.band
		}
	}
	return band
}

// sportKeywords signal a physical-education course request. Without a
// department token these constrain matching to departments carrying
// the 體育 marker instead of searching the whole catalog.
var sportKeywords = []string{
	"羽球", "桌球", "網球", "籃球", "排球", "壘球", "足球",
	"游泳", "瑜珈", "有氧", "體適能", "健身", "慢跑", "田徑",
	"舞蹈", "國標", "太極", "體育課",
}

func detectSportCategory(text string) string {
	for _, keyword := range sportKeywords {
		if strings.Contains(text, keyword) {
			return "體育"
		}
	}
	return ""
}

// buildPhrase assembles the retrieval phrase. With a department the
// phrase is the compact token sequence the catalog text itself uses;
// without one the cleaned question is the best available signal.
func buildPhrase(c *Constraints, cleaned string) string {
	if c.Department == "" {
		return cleaned
	}

	parts := []string{c.Department}
	if c.Cohort != nil {
		parts = append(parts, c.Cohort.Label())
	}
	switch c.Requirement {
	case core.RequirementRequired:
		parts = append(parts, "必修")
	case core.RequirementElective:
		parts = append(parts, "選修")
	}
	return strings.Join(parts, " ")
}
