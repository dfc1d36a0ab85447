package ingest

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// CourseSource supplies raw course rows to the pipeline.
type CourseSource interface {
	// Load returns every course row in the source.
	Load(ctx context.Context) ([]RawCourse, error)

	// Close releases the underlying handle.
	Close() error
}

// SQLiteSource reads the crawler's single-table course database.
type SQLiteSource struct {
	db *sql.DB
}

var _ CourseSource = (*SQLiteSource)(nil)

// OpenSQLiteSource opens the crawler database read-only.
func OpenSQLiteSource(path string) (*SQLiteSource, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open course database: %w", err)
	}
	return &SQLiteSource{db: db}, nil
}

// Load reads every row of the courses table.
func (s *SQLiteSource) Load(ctx context.Context) ([]RawCourse, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			COALESCE(serial, ''),
			COALESCE(name, ''),
			COALESCE(yearterm, ''),
			COALESCE(dept, ''),
			COALESCE(teacher, ''),
			COALESCE(grade, ''),
			COALESCE(required, ''),
			COALESCE(credit, ''),
			COALESCE(hours, ''),
			COALESCE(category, ''),
			COALESCE(language, ''),
			COALESCE(edu_type, ''),
			COALESCE(note, ''),
			COALESCE(schedule, '')
		FROM courses`)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	var courses []RawCourse
	for rows.Next() {
		var raw RawCourse
		err := rows.Scan(
			&raw.Serial, &raw.Name, &raw.YearTerm, &raw.Department,
			&raw.Teacher, &raw.Grade, &raw.Required, &raw.Credit,
			&raw.Hours, &raw.Category, &raw.Language, &raw.EduType,
			&raw.Note, &raw.Schedule,
		)
		if err != nil {
			return nil, fmt.Errorf("scan course row: %w", err)
		}
		courses = append(courses, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate course rows: %w", err)
	}
	return courses, nil
}

// Close closes the database handle.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// StaticSource serves a fixed slice of rows. Useful in tests and for
// loading courses from a non-database origin.
type StaticSource struct {
	Courses []RawCourse
}

var _ CourseSource = (*StaticSource)(nil)

func (s *StaticSource) Load(ctx context.Context) ([]RawCourse, error) {
	return s.Courses, nil
}

func (s *StaticSource) Close() error {
	return nil
}
