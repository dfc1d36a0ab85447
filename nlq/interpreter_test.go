package nlq

import (
	"testing"

	"github.com/ching011500/coursebot/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_UndergraduateCohort(t *testing.T) {
	c := Parse("請問經濟系大一有哪些必修課程？")

	assert.Equal(t, "經濟系", c.Department)
	require.NotNil(t, c.Cohort)
	assert.Equal(t, "經濟系1", c.Cohort.Label())
	assert.Equal(t, 1, c.Cohort.Level)
	assert.Equal(t, Undergraduate, c.Cohort.Degree)
	assert.Equal(t, core.RequirementRequired, c.Requirement)
	assert.Equal(t, "經濟系 經濟系1 必修", c.Phrase)
}

func TestParse_BareDepartmentBeforeYear(t *testing.T) {
	c := Parse("統計大一的課")

	require.NotNil(t, c.Cohort)
	assert.Equal(t, "統計系1", c.Cohort.Label())
	assert.Equal(t, "統計系", c.Department)
}

func TestParse_GraduateCohortWithoutDeptMarker(t *testing.T) {
	c := Parse("資工碩一必修")

	require.NotNil(t, c.Cohort)
	assert.Equal(t, "資工碩1", c.Cohort.Label())
	assert.Equal(t, Graduate, c.Cohort.Degree)
	assert.Equal(t, "資工碩", c.Department)
	assert.True(t, c.IsGraduateRequired())
}

func TestParse_GraduateCohortWithDeptMarker(t *testing.T) {
	c := Parse("資工系碩一的必修課")

	require.NotNil(t, c.Cohort)
	assert.Equal(t, "資工系碩1", c.Cohort.Label())
	assert.Equal(t, Graduate, c.Cohort.Degree)
}

func TestParse_ExplicitSectionLetter(t *testing.T) {
	c := Parse("經濟系1A的必修課程")

	require.NotNil(t, c.Cohort)
	assert.Equal(t, "經濟系1A", c.Cohort.Label())
	assert.Equal(t, "A", c.Cohort.Section)
}

func TestParse_SpelledOutGraduateYear(t *testing.T) {
	c := Parse("統計系碩士一年級的課")

	require.NotNil(t, c.Cohort)
	assert.Equal(t, "統計系碩1", c.Cohort.Label())
	assert.Equal(t, Graduate, c.Cohort.Degree)
}

func TestParse_RequirementLastMentionWins(t *testing.T) {
	assert.Equal(t, core.RequirementElective, Parse("不要必修，我要選修").Requirement)
	assert.Equal(t, core.RequirementRequired, Parse("選修還是必修").Requirement)
	assert.Equal(t, core.RequirementUnknown, Parse("資工系的課").Requirement)
}

func TestParse_Weekday(t *testing.T) {
	tests := []struct {
		question string
		want     core.Weekday
	}{
		{"週二早上的課", core.Tuesday},
		{"星期三下午", core.Wednesday},
		{"禮拜天有課嗎", core.Sunday},
		{"Tuesday morning courses", core.Tuesday},
		{"Wed 的課", core.Wednesday},
		{"沒有提到時間", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Parse(tt.question).Weekday, tt.question)
	}
}

func TestParse_Weekday_LastMentionWins(t *testing.T) {
	c := Parse("週一不行，改成週四好了")
	assert.Equal(t, core.Thursday, c.Weekday)
}

func TestParse_TimeBand(t *testing.T) {
	assert.Equal(t, core.Morning, Parse("週二早上的課").Band)
	assert.Equal(t, core.Morning, Parse("上午有什麼課").Band)
	assert.Equal(t, core.Afternoon, Parse("下午的選修").Band)
	assert.Equal(t, core.Evening, Parse("晚上的課").Band)
	assert.Equal(t, core.Evening, Parse("夜間部課程").Band)
	assert.Equal(t, core.TimeBand(0), Parse("資工系的課").Band)
}

func TestParse_BandIgnoresLowercaseAmPm(t *testing.T) {
	// "program" contains "am"; only the uppercase abbreviation counts.
	assert.Equal(t, core.TimeBand(0), Parse("program design courses").Band)
}

func TestParse_SportWithoutDepartment(t *testing.T) {
	c := Parse("我想上羽球課")

	assert.Empty(t, c.Department)
	assert.Equal(t, "體育", c.DeptMarker)
	assert.True(t, c.HasFilter())
}

func TestParse_SportWithDepartmentKeepsDepartment(t *testing.T) {
	c := Parse("體育系的羽球課")

	assert.Equal(t, "體育系", c.Department)
	assert.Empty(t, c.DeptMarker)
}

func TestParse_NoConstraints(t *testing.T) {
	c := Parse("我想找人工智慧相關的課程")

	assert.Empty(t, c.Department)
	assert.Nil(t, c.Cohort)
	assert.False(t, c.HasTime())
	assert.NotEmpty(t, c.Phrase)
}

func TestParse_PhraseWithoutDepartmentIsCleanedQuestion(t *testing.T) {
	c := Parse("請問有哪些人工智慧課程？")

	assert.NotContains(t, c.Phrase, "請問")
	assert.NotContains(t, c.Phrase, "？")
	assert.Contains(t, c.Phrase, "人工智慧")
}

func TestParse_Deterministic(t *testing.T) {
	question := "週二早上統計系大一的必修課"
	first := Parse(question)
	second := Parse(question)
	assert.Equal(t, first, second)
}
