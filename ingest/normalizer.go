// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingest

import (
	"fmt"
	"strings"

	"github.com/ching011500/coursebot/core"
)

// RawCourse is one row from the crawler's course table, untouched.
type RawCourse struct {
	Serial     string
	Name       string
	YearTerm   string
	Department string
	Teacher    string
	Grade      string // pipe-delimited cohort labels, parallel to Required
	Required   string // pipe-delimited requirement labels
	Credit     string
	Hours      string
	Category   string
	Language   string
	EduType    string
	Note       string
	Schedule   string
}

// ParseGradeRequired splits the parallel pipe-delimited cohort and
// requirement strings into explicit pairs. The two lists must have the
// same length after splitting; a mismatch means the crawler produced a
// corrupt row and silently zipping the shorter length would assign
// requirement labels to the wrong cohorts.
func ParseGradeRequired(grade, required string) ([]core.GradePair, error) {
	cohorts := splitPipe(grade)
	labels := splitPipe(required)

	if len(cohorts) != len(labels) {
		return nil, fmt.Errorf("%w: %d cohorts, %d requirement labels",
			core.ErrMismatchedMapping, len(cohorts), len(labels))
	}

	pairs := make([]core.GradePair, len(cohorts))
	for i := range cohorts {
		pairs[i] = core.GradePair{Cohort: cohorts[i], Requirement: labels[i]}
	}
	return pairs, nil
}

func splitPipe(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, "|")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// NormalizeCourse converts a raw crawler row into a CourseRecord with
// the cohort mapping, parsed schedule slots, canonical text rendering,
// and content-based ID filled in.
func NormalizeCourse(raw RawCourse) (*core.CourseRecord, error) {
	pairs, err := ParseGradeRequired(raw.Grade, raw.Required)
	if err != nil {
		return nil, fmt.Errorf("course %s %q: %w", raw.Serial, raw.Name, err)
	}

	record := &core.CourseRecord{
		Serial:      raw.Serial,
		Name:        raw.Name,
		YearTerm:    raw.YearTerm,
		Department:  raw.Department,
		Teacher:     raw.Teacher,
		Credit:      raw.Credit,
		Hours:       raw.Hours,
		Category:    raw.Category,
		Language:    raw.Language,
		EduType:     raw.EduType,
		Note:        raw.Note,
		Mapping:     core.NewGradeRequiredMapping(pairs),
		ScheduleRaw: raw.Schedule,
		Slots:       core.ParseSchedule(raw.Schedule),
	}
	record.Text = RenderCourseText(record)
	record.Id = core.IDFromContent(record.Key())

	if err := core.ValidateCourseRecord(record); err != nil {
		return nil, err
	}
	return record, nil
}

// groupListLimit caps the rendered group lists; a handful of general
// education courses map to dozens of cohorts and would dominate the
// embedding otherwise.
const groupListLimit = 10

// RenderCourseText produces the canonical flattened rendering of a
// course. This text is the unit of embedding and the lexical index
// document, so the same record must always yield byte-identical
// output. Line order and formatting are load-bearing; changing either
// invalidates every stored embedding.
func RenderCourseText(record *core.CourseRecord) string {
	var lines []string

	lines = append(lines, "課程名稱："+record.Name)
	lines = append(lines, "課程代碼："+record.Serial)
	lines = append(lines, "學年度學期："+record.YearTerm)
	lines = append(lines, "系所："+record.Department)

	if len(record.Mapping.Pairs) > 0 {
		cohorts := make([]string, len(record.Mapping.Pairs))
		for i, pair := range record.Mapping.Pairs {
			cohorts[i] = pair.Cohort
		}
		lines = append(lines, "年級："+strings.Join(cohorts, "|"))

		lines = append(lines, "年級組別與必選修對應：")
		for _, pair := range record.Mapping.Pairs {
			switch core.ParseRequirement(pair.Requirement) {
			case core.RequirementRequired:
				lines = append(lines, "  "+pair.Cohort+"：必修課程")
			case core.RequirementElective:
				lines = append(lines, "  "+pair.Cohort+"：選修課程")
			default:
				lines = append(lines, "  "+pair.Cohort+"："+pair.Requirement)
			}
		}
		if groups := record.Mapping.RequiredGroups; len(groups) > 0 {
			lines = append(lines, "必修組別："+joinLimited(groups, groupListLimit))
		}
		if groups := record.Mapping.ElectiveGroups; len(groups) > 0 {
			lines = append(lines, "選修組別："+joinLimited(groups, groupListLimit))
		}
	}

	lines = append(lines, "授課教師："+record.Teacher)
	if record.Category != "" {
		lines = append(lines, "課程類別："+record.Category)
	}
	lines = append(lines, "學分數："+record.Credit)
	if record.Hours != "" {
		lines = append(lines, "時數："+record.Hours)
	}
	if record.Language != "" {
		lines = append(lines, "授課語言："+record.Language)
	}
	lines = append(lines, "上課時間："+record.ScheduleRaw)
	lines = append(lines, "學制："+record.EduType)
	if record.Note != "" {
		lines = append(lines, "備註："+record.Note)
	}

	return strings.Join(lines, "\n")
}

func joinLimited(items []string, limit int) string {
	if len(items) > limit {
		items = items[:limit]
	}
	return strings.Join(items, ", ")
}
