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


// Package coursebot answers natural-language questions about a
// university course catalog with hybrid semantic and lexical retrieval
// followed by exact constraint filtering.
package coursebot

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ching011500/coursebot/ai"
	"github.com/ching011500/coursebot/ai/openai"
	"github.com/ching011500/coursebot/core"
	"github.com/ching011500/coursebot/ingest"
	"github.com/ching011500/coursebot/lexical"
	"github.com/ching011500/coursebot/nlq"
	"github.com/ching011500/coursebot/search"
	"github.com/ching011500/coursebot/storage"
	"github.com/ching011500/coursebot/storage/badger"
)

const defaultGenerationTimeout = 60 * time.Second

// generation is one immutable served index build. Queries read whichever
// generation is current; a rebuild prepares the next one off to the side
// and swaps it in atomically.
type generation struct {
	searcher *search.Searcher
	count    int
}

// Service is the question-answering facade over the course index.
type Service struct {
	backend    *badger.Backend
	repository storage.CourseRepository
	provider   ai.AIProvider
	source     ingest.CourseSource
	tokenizer  lexical.Tokenizer
	logger     *slog.Logger

	generationTimeout time.Duration
	weights           search.Weights

	current   atomic.Pointer[generation]
	rebuildMu sync.Mutex
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	aiConfig          *ai.Config
	provider          ai.AIProvider
	source            ingest.CourseSource
	logger            *slog.Logger
	generationTimeout time.Duration
	weights           search.Weights
}

// WithAIConfig sets the AI provider endpoints and model names.
func WithAIConfig(config *ai.Config) ServiceOption {
	return func(o *serviceOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider injects an AI provider directly, bypassing the OpenAI
// client construction. The service takes ownership and closes it.
func WithProvider(provider ai.AIProvider) ServiceOption {
	return func(o *serviceOptions) {
		o.provider = provider
	}
}

// WithSource sets the course catalog source used by RebuildIndex.
func WithSource(source ingest.CourseSource) ServiceOption {
	return func(o *serviceOptions) {
		o.source = source
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithGenerationTimeout bounds how long one answer generation may take
// before the service falls back to the raw candidate list.
func WithGenerationTimeout(timeout time.Duration) ServiceOption {
	return func(o *serviceOptions) {
		if timeout > 0 {
			o.generationTimeout = timeout
		}
	}
}

// WithFusionWeights sets the initial hybrid fusion weights.
func WithFusionWeights(w search.Weights) ServiceOption {
	return func(o *serviceOptions) {
		o.weights = w
	}
}

// New opens the course index at filePath and wires the retrieval stack.
// An empty filePath opens an in-memory index. If the store already holds
// a corpus the service is immediately ready to answer; otherwise queries
// return ErrIndexNotReady until the first RebuildIndex.
func New(filePath string, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		aiConfig:          ai.DefaultConfig(),
		logger:            slog.Default(),
		generationTimeout: defaultGenerationTimeout,
		weights:           search.DefaultWeights(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if err := options.weights.Validate(); err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(filePath, filePath == "")
	if err != nil {
		return nil, err
	}

	repository, err := badger.NewCourseRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	tokenizer, err := lexical.NewTokenizer()
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	s := &Service{
		backend:           backend,
		repository:        repository,
		provider:          provider,
		source:            options.source,
		tokenizer:         tokenizer,
		logger:            options.logger,
		generationTimeout: options.generationTimeout,
		weights:           options.weights,
	}

	if err := s.loadExisting(context.Background()); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// loadExisting serves a corpus left by a previous process, rebuilding
// the in-memory lexical index from the stored canonical text.
func (s *Service) loadExisting(ctx context.Context) error {
	count, err := s.repository.Count(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}

	records, err := s.repository.AllCourses(ctx)
	if err != nil {
		return err
	}
	return s.swapGeneration(records, s.fusionWeights())
}

// swapGeneration builds a fresh searcher over the given corpus and
// publishes it as the current generation.
func (s *Service) swapGeneration(records []*core.CourseRecord, weights search.Weights) error {
	documents := make([]lexical.Document, 0, len(records))
	for _, record := range records {
		documents = append(documents, lexical.Document{Id: record.Id, Text: record.Text})
	}
	index := lexical.Build(documents, s.tokenizer)

	searcher, err := search.NewSearcher(s.repository, index, s.provider.Embedder(),
		search.WithWeights(weights),
		search.WithLogger(s.logger))
	if err != nil {
		return err
	}

	s.current.Store(&generation{searcher: searcher, count: len(records)})
	return nil
}

// Ready reports whether the service has an index to answer from.
func (s *Service) Ready() bool {
	return s.current.Load() != nil
}

// CourseCount returns the number of indexed course sections.
func (s *Service) CourseCount() int {
	gen := s.current.Load()
	if gen == nil {
		return 0
	}
	return gen.count
}

// Weights returns the current fusion weights.
func (s *Service) Weights() search.Weights {
	return s.fusionWeights()
}

// SetWeights changes the fusion weights at run time. The change applies
// to the current generation immediately and carries over to rebuilds.
func (s *Service) SetWeights(w search.Weights) error {
	if err := w.Validate(); err != nil {
		return err
	}
	s.rebuildMu.Lock()
	s.weights = w
	s.rebuildMu.Unlock()

	if gen := s.current.Load(); gen != nil {
		return gen.searcher.SetWeights(w)
	}
	return nil
}

func (s *Service) fusionWeights() search.Weights {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()
	return s.weights
}

// RebuildIndex ingests the configured course source from scratch and
// atomically replaces the served index. Concurrent rebuilds serialize;
// queries keep reading the previous generation until the swap. A failed
// build leaves the previous generation untouched.
func (s *Service) RebuildIndex(ctx context.Context, opts ...ingest.Option) (*ingest.BuildReport, error) {
	if s.source == nil {
		return nil, ErrNoSource
	}

	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	pipeline, err := ingest.NewPipeline(s.repository, s.source, s.provider,
		append([]ingest.Option{ingest.WithLogger(s.logger)}, opts...)...)
	if err != nil {
		return nil, err
	}
	defer pipeline.Release()

	report, err := pipeline.Build(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.repository.AllCourses(ctx)
	if err != nil {
		return nil, err
	}
	// rebuildMu is held, so read the weights field directly.
	if err := s.swapGeneration(records, s.weights); err != nil {
		return nil, err
	}

	s.logger.Info("course index rebuilt",
		"total", report.Total, "built", report.Built, "skipped", len(report.Skipped))
	return report, nil
}

// Search runs one retrieval pass and returns ranked raw results without
// filtering or answer generation.
func (s *Service) Search(ctx context.Context, query string, limit int, hybrid bool) ([]*core.SearchResult, error) {
	gen := s.current.Load()
	if gen == nil {
		return nil, ErrIndexNotReady
	}
	return gen.searcher.Search(ctx, query, limit, hybrid)
}

// Query answers a natural-language question about the catalog. The
// question is parsed into constraints, candidates are retrieved with an
// amplified limit, filtered exactly, grouped into courses, and rendered.
// Time-constrained questions are rendered directly from the grouped
// results; everything else goes through the answer generator, falling
// back to a plain course list when generation fails or times out.
func (s *Service) Query(ctx context.Context, question string, limit int) (string, error) {
	gen := s.current.Load()
	if gen == nil {
		return "", ErrIndexNotReady
	}
	if limit < 1 {
		limit = 10
	}

	constraints := nlq.Parse(question)
	fetchLimit := search.FetchLimit(constraints, limit)

	candidates, err := gen.searcher.Search(ctx, constraints.Phrase, fetchLimit, true)
	if err != nil {
		return "", err
	}

	if search.NeedsSeminarProbe(constraints) {
		probeQuery, probeLimit := search.SeminarProbe()
		probed, probeErr := gen.searcher.Search(ctx, probeQuery, probeLimit, true)
		if probeErr != nil {
			s.logger.Warn("seminar probe failed", "err", probeErr)
		} else {
			candidates = mergeCandidates(candidates, probed)
		}
	}

	filtered := search.Filter(candidates, constraints)
	if len(filtered) == 0 && constraints.Department != "" {
		filtered = search.Relax(candidates, constraints)
	}
	if len(filtered) == 0 {
		return noResultsMessage, nil
	}

	groups := search.Group(filtered)
	if len(groups) > limit {
		groups = groups[:limit]
	}

	if constraints.HasTime() {
		return renderTimeAnswer(groups), nil
	}
	return s.generateAnswer(ctx, question, groups)
}

// generateAnswer asks the language model to phrase the grouped results.
// Generation is best-effort: on error or timeout the grouped results are
// rendered directly so the retrieval work is never wasted.
func (s *Service) generateAnswer(ctx context.Context, question string, groups []*search.CourseGroup) (string, error) {
	contexts := make([]string, len(groups))
	for i, group := range groups {
		contexts[i] = renderGroupContext(group)
	}

	genCtx, cancel := context.WithTimeout(ctx, s.generationTimeout)
	defer cancel()

	answer, err := s.provider.AnswerGenerator().GenerateAnswer(genCtx, question, contexts)
	if err != nil {
		s.logger.Warn("answer generation failed, returning course list", "err", err)
		return renderFallback(groups), nil
	}
	return answer, nil
}

// mergeCandidates appends extra results, skipping courses already in the
// primary set.
func mergeCandidates(primary, extra []*core.SearchResult) []*core.SearchResult {
	seen := make(map[core.ID]bool, len(primary))
	for _, r := range primary {
		seen[r.Course.Id] = true
	}
	for _, r := range extra {
		if !seen[r.Course.Id] {
			seen[r.Course.Id] = true
			primary = append(primary, r)
		}
	}
	return primary
}

// Close releases the AI provider, course source, and storage backend.
func (s *Service) Close() error {
	if s.source != nil {
		if err := s.source.Close(); err != nil {
			s.logger.Error("error closing course source", "err", err)
		}
	}
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
