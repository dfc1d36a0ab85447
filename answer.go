package coursebot

import (
	"fmt"
	"strings"

	"github.com/ching011500/coursebot/search"
)

const noResultsMessage = "很抱歉，沒有找到符合條件的課程。請嘗試調整查詢條件。"

// renderTimeAnswer renders time-constrained results directly. The slot
// data already answers the question exactly, so a generation pass could
// only introduce errors.
func renderTimeAnswer(groups []*search.CourseGroup) string {
	var b strings.Builder
	fmt.Fprintf(&b, "符合時間條件的課程共有 %d 門：\n", len(groups))
	for i, group := range groups {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, group.Name)
		fmt.Fprintf(&b, "   授課教師：%s\n", group.InstructorLine())
		fmt.Fprintf(&b, "   上課時間：%s\n", renderSchedule(group))
		fmt.Fprintf(&b, "   課程代碼：%s\n", strings.Join(group.Serials, "、"))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderFallback lists the grouped results without a generated summary.
func renderFallback(groups []*search.CourseGroup) string {
	var b strings.Builder
	fmt.Fprintf(&b, "查詢到 %d 門相關課程：\n", len(groups))
	for i, group := range groups {
		fmt.Fprintf(&b, "\n%d. %s（%s）\n", i+1, group.Name, group.InstructorLine())
		fmt.Fprintf(&b, "   上課時間：%s\n", renderSchedule(group))
		fmt.Fprintf(&b, "   課程代碼：%s\n", strings.Join(group.Serials, "、"))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderGroupContext flattens one course group into the context block
// handed to the answer generator. Merged sections share one block so the
// model counts courses the way a student would.
func renderGroupContext(group *search.CourseGroup) string {
	var b strings.Builder
	b.WriteString(group.Courses[0].Text)
	if len(group.Serials) > 1 {
		fmt.Fprintf(&b, "\n同名同時段班別：%s\n", strings.Join(group.Serials, "、"))
		fmt.Fprintf(&b, "授課教師：%s", group.InstructorLine())
	}
	return b.String()
}

// renderSchedule prefers the parsed slots and falls back to the catalog
// string when nothing parsed.
func renderSchedule(group *search.CourseGroup) string {
	if len(group.Slots) == 0 {
		if group.ScheduleRaw != "" {
			return group.ScheduleRaw
		}
		return "時間未定"
	}
	parts := make([]string, len(group.Slots))
	for i, slot := range group.Slots {
		parts[i] = slot.String()
	}
	return strings.Join(parts, "、")
}
