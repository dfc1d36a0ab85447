package storage

import (
	"context"

	"github.com/ching011500/coursebot/core"
)

// CourseRepository provides operations for managing indexed course records.
// Implementations must be thread-safe and support concurrent access.
type CourseRepository interface {
	// PutCourses adds or replaces course records by their content-based IDs.
	PutCourses(ctx context.Context, records ...*core.CourseRecord) error

	// ReplaceAll replaces the entire stored corpus with the given records
	// in one write path. Either every record is committed or none is;
	// a half-written corpus is never observable.
	ReplaceAll(ctx context.Context, records []*core.CourseRecord) error

	// GetCourse retrieves a single course record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetCourse(ctx context.Context, id core.ID) (*core.CourseRecord, error)

	// GetCourses retrieves multiple course records by their IDs.
	// Returns only the records that exist (no error for missing records).
	GetCourses(ctx context.Context, ids ...core.ID) ([]*core.CourseRecord, error)

	// AllCourses retrieves every stored course record.
	AllCourses(ctx context.Context) ([]*core.CourseRecord, error)

	// Count returns the number of stored course records.
	Count(ctx context.Context) (int, error)

	// FindSimilar finds courses whose embedding is similar to the given
	// vector. Returns records with similarity >= minSimilarity, up to limit
	// results, ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
