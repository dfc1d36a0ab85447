package ingest

// SkippedCourse records one source row excluded from the build.
type SkippedCourse struct {
	Serial string
	Name   string
	Reason string
}

// BuildReport summarizes one corpus build.
type BuildReport struct {
	// Total is the number of rows read from the source.
	Total int

	// Built is the number of records committed to storage.
	Built int

	// Skipped lists rows excluded for malformed data. The build
	// succeeds despite skips; they are reported, not fatal.
	Skipped []SkippedCourse
}
