package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ching011500/coursebot/core"
	"github.com/ching011500/coursebot/nlq"
)

func filterCourse(serial, name, dept, schedule string, pairs ...core.GradePair) *core.SearchResult {
	record := &core.CourseRecord{
		Serial:      serial,
		Name:        name,
		YearTerm:    "1141",
		Department:  dept,
		EduType:     "日間學制",
		Mapping:     core.NewGradeRequiredMapping(pairs),
		ScheduleRaw: schedule,
		Slots:       core.ParseSchedule(schedule),
	}
	record.Id = core.IDFromContent(record.Key())
	return &core.SearchResult{Course: record, Score: 1}
}

func names(results []*core.SearchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Course.Name
	}
	return out
}

func TestFilter_NoConstraintsPassesThrough(t *testing.T) {
	candidates := []*core.SearchResult{
		filterCourse("U0001", "經濟學原理", "經濟系", "每週二3~4 社3F05",
			core.GradePair{Cohort: "經濟系1A", Requirement: "必"}),
	}
	assert.Equal(t, candidates, Filter(candidates, nlq.Parse("你好")))
	assert.Equal(t, candidates, Filter(candidates, nil))
}

func TestFilter_CohortPrefixToleratesSectionLetters(t *testing.T) {
	candidates := []*core.SearchResult{
		filterCourse("U0001", "經濟學原理A班", "經濟系", "每週二3~4 社3F05",
			core.GradePair{Cohort: "經濟系1A", Requirement: "必"}),
		filterCourse("U0002", "經濟學原理B班", "經濟系", "每週四6~7 社3F05",
			core.GradePair{Cohort: "經濟系1B", Requirement: "必"}),
		filterCourse("U0003", "個體經濟學", "經濟系", "每週一3~4 社3F06",
			core.GradePair{Cohort: "經濟系2A", Requirement: "必"}),
	}

	got := Filter(candidates, nlq.Parse("經濟系大一必修有哪些"))
	assert.Equal(t, []string{"經濟學原理A班", "經濟學原理B班"}, names(got))
}

func TestFilter_RequirementIsPerCohort(t *testing.T) {
	// Required for 經濟系1A, elective for 金融系2A. The status of the
	// asking cohort decides, not the course as a whole.
	mixed := filterCourse("U0001", "經濟學原理", "經濟系", "每週二3~4 社3F05",
		core.GradePair{Cohort: "經濟系1A", Requirement: "必"},
		core.GradePair{Cohort: "金融系2A", Requirement: "選"})
	candidates := []*core.SearchResult{mixed}

	assert.Len(t, Filter(candidates, nlq.Parse("經濟系大一必修")), 1)
	assert.Empty(t, Filter(candidates, nlq.Parse("經濟系大一選修")))
	assert.Len(t, Filter(candidates, nlq.Parse("金融系大二選修")), 1)
}

func TestFilter_ElectiveWithoutCohortExcludesMixed(t *testing.T) {
	candidates := []*core.SearchResult{
		filterCourse("U0001", "混合課", "經濟系", "每週二3~4 社3F05",
			core.GradePair{Cohort: "經濟系1A", Requirement: "必"},
			core.GradePair{Cohort: "金融系2A", Requirement: "選"}),
		filterCourse("U0002", "純選修課", "經濟系", "每週三3~4 社3F05",
			core.GradePair{Cohort: "經濟系3A", Requirement: "選"}),
	}

	got := Filter(candidates, nlq.Parse("經濟系有什麼選修"))
	assert.Equal(t, []string{"純選修課"}, names(got))
}

func TestFilter_TimeUsesParsedSlotsOnly(t *testing.T) {
	candidates := []*core.SearchResult{
		filterCourse("U0001", "早上課", "經濟系", "每週二3~4 社3F05",
			core.GradePair{Cohort: "經濟系1A", Requirement: "必"}),
		filterCourse("U0002", "下午課", "經濟系", "每週二6~7 社3F05",
			core.GradePair{Cohort: "經濟系1A", Requirement: "必"}),
		// Classroom numerals must not read as meeting periods.
		filterCourse("U0003", "下午單節課", "經濟系", "每週二5 電2F14",
			core.GradePair{Cohort: "經濟系1A", Requirement: "必"}),
		// Unparseable schedule: never satisfies a time constraint.
		filterCourse("U0004", "密集課", "經濟系", "時間另訂",
			core.GradePair{Cohort: "經濟系1A", Requirement: "必"}),
	}

	morning := Filter(candidates, nlq.Parse("經濟系星期二早上的課"))
	assert.Equal(t, []string{"早上課"}, names(morning))

	afternoon := Filter(candidates, nlq.Parse("經濟系星期二下午的課"))
	assert.Equal(t, []string{"下午課", "下午單節課"}, names(afternoon))

	tuesday := Filter(candidates, nlq.Parse("經濟系星期二的課"))
	assert.Len(t, tuesday, 3)
}

func TestFilter_CrossListedCourseRetained(t *testing.T) {
	// The seminar belongs to electrical engineering but its mapping
	// names the computer science graduate cohort.
	seminar := filterCourse("M0001", "專題研討", "電機工程學系碩士班", "每週五6~7 電4F01",
		core.GradePair{Cohort: "電機碩1A", Requirement: "必"},
		core.GradePair{Cohort: "資工碩1A", Requirement: "必"})
	other := filterCourse("M0002", "半導體元件", "電機工程學系碩士班", "每週三2~4 電4F02",
		core.GradePair{Cohort: "電機碩1A", Requirement: "選"})
	candidates := []*core.SearchResult{seminar, other}

	constraints := nlq.Parse("資工碩一必修有哪些")
	require.NotNil(t, constraints.Cohort)

	got := Filter(candidates, constraints)
	assert.Equal(t, []string{"專題研討"}, names(got))
}

func TestFilter_DeptMarkerConstrainsOwningDepartment(t *testing.T) {
	candidates := []*core.SearchResult{
		filterCourse("U0001", "羽球初級", "體育室", "每週四3~4 體育館",
			core.GradePair{Cohort: "經濟系1A", Requirement: "選"}),
		filterCourse("U0002", "羽球社會學", "社會學系", "每週四3~4 社3F01",
			core.GradePair{Cohort: "社會系2A", Requirement: "選"}),
	}

	constraints := nlq.Parse("我想上羽球課")
	require.Equal(t, "體育", constraints.DeptMarker)

	got := Filter(candidates, constraints)
	assert.Equal(t, []string{"羽球初級"}, names(got))
}

func TestFilter_MissingMetadataFailsConstraint(t *testing.T) {
	bare := filterCourse("U0001", "無對應課", "經濟系", "每週二3~4 社3F05")
	got := Filter([]*core.SearchResult{bare}, nlq.Parse("經濟系大一必修"))
	assert.Empty(t, got)
}

func TestRelax_DepartmentOnlyFallback(t *testing.T) {
	candidates := []*core.SearchResult{
		filterCourse("U0001", "個體經濟學", "經濟系", "每週一3~4 社3F06",
			core.GradePair{Cohort: "經濟系2A", Requirement: "必"}),
		filterCourse("U0002", "社會學導論", "社會學系", "每週一3~4 社3F01",
			core.GradePair{Cohort: "社會系1A", Requirement: "必"}),
	}

	// The strict pass finds nothing for a first-year question when the
	// department only offers second-year sections.
	constraints := nlq.Parse("經濟系大一的課")
	strict := Filter(candidates, constraints)
	require.Empty(t, strict)

	relaxed := Relax(candidates, constraints)
	assert.Equal(t, []string{"個體經濟學"}, names(relaxed))

	assert.Nil(t, Relax(candidates, &nlq.Constraints{}))
}
