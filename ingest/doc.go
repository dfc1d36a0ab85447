// Package ingest builds the searchable course corpus.
//
// The pipeline loads raw course rows from the crawler's SQLite
// database, normalizes each row into a core.CourseRecord (including
// the per-cohort requirement mapping and the canonical text
// rendering), obtains embeddings in batches from the AI provider, and
// commits the finished corpus to storage in one atomic replace.
//
// Rows with malformed cohort mappings are skipped and reported in the
// build report; the build continues. Embedding failures are retried
// with exponential backoff, and if a batch still fails the whole build
// fails with nothing committed. A partial index is worse than a stale
// one.
package ingest
