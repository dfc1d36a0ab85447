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
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/ching011500/coursebot/ai"
	"github.com/ching011500/coursebot/core"
	"github.com/ching011500/coursebot/storage"
	"github.com/panjf2000/ants/v2"
)

// Pipeline orchestrates a corpus build: load, normalize, embed, commit.
// Embedding batches run concurrently on a worker pool; the commit is a
// single atomic replace so readers never see a partial corpus.
type Pipeline struct {
	repository     storage.CourseRepository
	source         CourseSource
	provider       ai.AIProvider
	pool           *ants.Pool
	batchSize      int
	maxAttempts    int
	baseDelay      time.Duration
	progressWriter io.Writer
	logger         *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many course texts are embedded per provider call.
// Default is 32.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithRetry sets the bounded retry policy for embedding calls.
// Default is 3 attempts starting at one second.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts < 1 {
			return ErrInvalidMaxAttempts
		}
		p.maxAttempts = maxAttempts
		p.baseDelay = baseDelay
		return nil
	}
}

// WithProgressWriter directs progress output somewhere other than
// discard, typically os.Stderr for the CLI.
func WithProgressWriter(w io.Writer) Option {
	return func(p *Pipeline) error {
		if w == nil {
			w = io.Discard
		}
		p.progressWriter = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new build pipeline.
func NewPipeline(
	repository storage.CourseRepository,
	source CourseSource,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if source == nil {
		return nil, ErrSourceRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository:     repository,
		source:         source,
		provider:       provider,
		pool:           pool,
		batchSize:      32,
		maxAttempts:    3,
		baseDelay:      time.Second,
		progressWriter: io.Discard,
		logger:         slog.Default().With("component", "ingest-pipeline"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Build runs a full corpus build and commits the result atomically.
// Rows with malformed cohort mappings are skipped and reported. Any
// embedding batch that fails after bounded retries abandons the build
// with nothing committed.
func (p *Pipeline) Build(ctx context.Context) (*BuildReport, error) {
	raws, err := p.source.Load(ctx)
	if err != nil {
		return nil, err
	}

	report := &BuildReport{Total: len(raws)}

	records := make([]*core.CourseRecord, 0, len(raws))
	for _, raw := range raws {
		record, err := NormalizeCourse(raw)
		if err != nil {
			p.logger.Warn("skipping malformed course row",
				"serial", raw.Serial, "name", raw.Name, "err", err)
			report.Skipped = append(report.Skipped, SkippedCourse{
				Serial: raw.Serial,
				Name:   raw.Name,
				Reason: err.Error(),
			})
			continue
		}
		records = append(records, record)
	}

	if err := p.embedAll(ctx, records); err != nil {
		return nil, err
	}

	if err := p.repository.ReplaceAll(ctx, records); err != nil {
		return nil, err
	}

	report.Built = len(records)
	p.logger.Info("corpus build complete",
		"total", report.Total, "built", report.Built, "skipped", len(report.Skipped))
	return report, nil
}

// embedAll fills in Vector for every record, batching provider calls
// across the worker pool. Vectors are unit-normalized so similarity
// reduces to a dot product.
func (p *Pipeline) embedAll(ctx context.Context, records []*core.CourseRecord) error {
	if len(records) == 0 {
		return nil
	}

	tracker := NewProgressTracker(p.progressWriter, len(records), p.batchSize)
	tracker.Start()

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() { firstErr = err })
	}

	for start := 0; start < len(records); start += p.batchSize {
		end := start + p.batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		wg.Add(1)
		if err := p.pool.Submit(func() {
			defer wg.Done()
			if err := p.embedBatch(ctx, batch); err != nil {
				fail(err)
				return
			}
			tracker.Increment(len(batch))
		}); err != nil {
			wg.Done()
			fail(err)
			break
		}
	}

	wg.Wait()
	tracker.Finish()

	if firstErr != nil {
		return fmt.Errorf("%w: %w", ErrEmbeddingFailed, firstErr)
	}
	return nil
}

func (p *Pipeline) embedBatch(ctx context.Context, batch []*core.CourseRecord) error {
	texts := make([]string, len(batch))
	for i, record := range batch {
		texts[i] = record.Text
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var embedErr error
		vectors, embedErr = p.provider.Embedder().EmbedTexts(ctx, texts)
		return embedErr
	}, p.maxAttempts, p.baseDelay)
	if err != nil {
		return err
	}

	if len(vectors) != len(batch) {
		return fmt.Errorf("%w: got %d, want %d",
			ErrEmbeddingCountMismatch, len(vectors), len(batch))
	}

	for i, record := range batch {
		record.Vector = NormalizeVector(vectors[i])
	}
	return nil
}

// Release frees the worker pool. The pipeline must not be used after
// calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
