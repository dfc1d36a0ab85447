package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ching011500/coursebot/core"
)

func groupCourse(serial, name, teacher, schedule string) *core.SearchResult {
	record := &core.CourseRecord{
		Serial:      serial,
		Name:        name,
		YearTerm:    "1141",
		Department:  "經濟系",
		Teacher:     teacher,
		EduType:     "日間學制",
		ScheduleRaw: schedule,
		Slots:       core.ParseSchedule(schedule),
	}
	record.Id = core.IDFromContent(record.Key())
	return &core.SearchResult{Course: record, Score: 1}
}

func TestGroup_MergesSameNameSameSchedule(t *testing.T) {
	results := []*core.SearchResult{
		groupCourse("U0001", "經濟學原理", "王老師", "每週二3~4 社3F05"),
		groupCourse("U0002", "經濟學原理", "李老師", "每週二3~4 社3F06"),
		groupCourse("U0003", "經濟學原理", "陳老師", "每週四6~7 社3F05"),
	}

	groups := Group(results)
	require.Len(t, groups, 2)

	merged := groups[0]
	assert.Equal(t, "經濟學原理", merged.Name)
	assert.Equal(t, []string{"U0001", "U0002"}, merged.Serials)
	assert.Equal(t, []string{"王老師", "李老師"}, merged.Instructors)
	assert.Len(t, merged.Courses, 2)

	separate := groups[1]
	assert.Equal(t, []string{"U0003"}, separate.Serials)
	assert.Equal(t, []string{"陳老師"}, separate.Instructors)
}

func TestGroup_DifferentRoomsSameTimeStillMerge(t *testing.T) {
	results := []*core.SearchResult{
		groupCourse("U0001", "微積分", "王老師", "每週一1~2 社1F01"),
		groupCourse("U0002", "微積分", "李老師", "每週一1~2 電2F14"),
	}
	groups := Group(results)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Courses, 2)
}

func TestGroup_SameNameDifferentTimeStaysSeparate(t *testing.T) {
	results := []*core.SearchResult{
		groupCourse("U0001", "體育", "王老師", "每週三3~4 體育館"),
		groupCourse("U0002", "體育", "王老師", "每週五3~4 體育館"),
	}
	assert.Len(t, Group(results), 2)
}

func TestGroup_PreservesFirstSeenOrder(t *testing.T) {
	results := []*core.SearchResult{
		groupCourse("U0003", "統計學", "陳老師", "每週一3~4 社3F05"),
		groupCourse("U0001", "經濟學原理", "王老師", "每週二3~4 社3F05"),
		groupCourse("U0002", "統計學", "林老師", "每週一3~4 社3F06"),
	}
	groups := Group(results)
	require.Len(t, groups, 2)
	assert.Equal(t, "統計學", groups[0].Name)
	assert.Equal(t, "經濟學原理", groups[1].Name)
}

func TestGroup_InstructorLine(t *testing.T) {
	single := &CourseGroup{Instructors: []string{"王老師"}}
	assert.Equal(t, "王老師", single.InstructorLine())

	multi := &CourseGroup{Instructors: []string{"王老師", "李老師"}}
	assert.Equal(t, "王老師、李老師（多班開設）", multi.InstructorLine())
}

func TestGroup_DeduplicatesRepeatedCandidates(t *testing.T) {
	course := groupCourse("U0001", "專題研討", "王老師", "每週五6~7 電4F01")
	groups := Group([]*core.SearchResult{course, course})
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"U0001"}, groups[0].Serials)
	assert.Equal(t, []string{"王老師"}, groups[0].Instructors)
}

func TestGroup_SkipsNilCourses(t *testing.T) {
	groups := Group([]*core.SearchResult{{Course: nil}})
	assert.Empty(t, groups)
}
