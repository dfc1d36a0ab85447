package search

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/ching011500/coursebot/ai"
	"github.com/ching011500/coursebot/core"
	"github.com/ching011500/coursebot/lexical"
	"github.com/ching011500/coursebot/storage"
)

// semanticOverFetch widens the nearest-neighbor pool before fusion.
// Fusion can promote a document that ranks below the cut on the
// semantic signal alone.
const semanticOverFetch = 3

// Weights are the fusion knobs. They must be non-negative and sum to
// one. Changing weights only changes the fusion step; nothing is
// rebuilt.
type Weights struct {
	Semantic float64
	Lexical  float64
}

// DefaultWeights favors the semantic signal slightly.
func DefaultWeights() Weights {
	return Weights{Semantic: 0.6, Lexical: 0.4}
}

// Validate reports whether the weights are usable for fusion.
func (w Weights) Validate() error {
	if w.Semantic < 0 || w.Lexical < 0 {
		return ErrInvalidWeights
	}
	if math.Abs(w.Semantic+w.Lexical-1.0) > 1e-9 {
		return ErrInvalidWeights
	}
	return nil
}

// Searcher provides hybrid semantic and lexical retrieval over the
// course corpus. The lexical index is immutable; weights are the only
// mutable state and are guarded for concurrent readers.
type Searcher struct {
	repository storage.CourseRepository
	index      *lexical.Index
	embedder   ai.Embedder
	logger     *slog.Logger

	mu      sync.RWMutex
	weights Weights
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithWeights sets the initial fusion weights.
// Default is DefaultWeights().
func WithWeights(w Weights) Option {
	return func(s *Searcher) error {
		if err := w.Validate(); err != nil {
			return err
		}
		s.weights = w
		return nil
	}
}

// NewSearcher creates a new searcher. The lexical index may be nil, in
// which case only semantic retrieval is available.
func NewSearcher(
	repository storage.CourseRepository,
	index *lexical.Index,
	embedder ai.Embedder,
	opts ...Option,
) (*Searcher, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		repository: repository,
		index:      index,
		embedder:   embedder,
		logger:     slog.Default().With("component", "searcher"),
		weights:    DefaultWeights(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Weights returns the current fusion weights.
func (s *Searcher) Weights() Weights {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weights
}

// SetWeights replaces the fusion weights at run time.
func (s *Searcher) SetWeights(w Weights) error {
	if err := w.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.weights = w
	s.mu.Unlock()
	s.logger.Debug("fusion weights updated", "semantic", w.Semantic, "lexical", w.Lexical)
	return nil
}

// Search retrieves the top maxHits courses for the query.
// In hybrid mode the semantic and lexical signals are fused; otherwise
// only semantic similarity ranks the results.
func (s *Searcher) Search(ctx context.Context, query string, maxHits int, hybrid bool) ([]*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, query, maxHits, hybrid, nil)
}

// SearchWithMonitor is Search with stage callbacks for observability.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, maxHits int, hybrid bool, monitor SearchMonitor) ([]*core.SearchResult, error) {
	if maxHits <= 0 {
		return nil, ErrInvalidLimit
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query)

	// 1. Semantic pool: embed the query and over-fetch neighbors.
	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}
	embedding = normalizeVector(embedding)

	matches, err := s.repository.FindSimilar(ctx, embedding, -1, maxHits*semanticOverFetch)
	if err != nil {
		s.logger.Error("error querying for similar courses", "err", err)
		return nil, err
	}
	monitor.AfterSemanticSearch(matches)

	semanticScores := make(map[core.ID]float64, len(matches))
	courses := make(map[core.ID]*core.CourseRecord, len(matches))
	for _, match := range matches {
		semanticScores[match.Course.Id] = clamp01(float64(match.Score))
		courses[match.Course.Id] = match.Course
	}

	if !hybrid || s.index == nil || s.index.Len() == 0 {
		results := s.rankSemanticOnly(semanticScores, courses, maxHits)
		monitor.Finish(results)
		return results, nil
	}

	// 2. Lexical signal: score the whole corpus, then min-max rescale.
	// Using the full score distribution keeps the rescaling fair; a
	// top-k tail would inflate weak matches.
	lexicalScores := normalizeLexical(s.index.ScoreAll(query))
	monitor.AfterLexicalScoring(len(lexicalScores))

	// 3. Fuse. Absence from one signal scores zero there, never
	// excludes the course.
	weights := s.Weights()
	fused := make(map[core.ID]float64, len(semanticScores)+len(lexicalScores))
	for id, semantic := range semanticScores {
		lex := lexicalScores[id]
		fused[id] = weights.Semantic*semantic + weights.Lexical*lex
		monitor.FusedCandidate(id, semantic, lex, fused[id])
	}
	for id, lex := range lexicalScores {
		if _, seen := fused[id]; seen || lex == 0 {
			continue
		}
		fused[id] = weights.Lexical * lex
		monitor.FusedCandidate(id, 0, lex, fused[id])
	}

	// 4. Fetch records the semantic pool did not return.
	missing := make([]core.ID, 0)
	for id := range fused {
		if _, ok := courses[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		records, err := s.repository.GetCourses(ctx, missing...)
		if err != nil {
			s.logger.Error("error retrieving courses", "count", len(missing), "err", err)
			return nil, err
		}
		for _, record := range records {
			courses[record.Id] = record
		}
	}

	results := make([]*core.SearchResult, 0, len(fused))
	for id, score := range fused {
		course, ok := courses[id]
		if !ok {
			continue
		}
		results = append(results, &core.SearchResult{Course: course, Score: float32(score)})
	}

	sortResults(results)
	if len(results) > maxHits {
		results = results[:maxHits]
	}
	monitor.Finish(results)
	return results, nil
}

func (s *Searcher) rankSemanticOnly(scores map[core.ID]float64, courses map[core.ID]*core.CourseRecord, maxHits int) []*core.SearchResult {
	results := make([]*core.SearchResult, 0, len(scores))
	for id, score := range scores {
		results = append(results, &core.SearchResult{Course: courses[id], Score: float32(score)})
	}
	sortResults(results)
	if len(results) > maxHits {
		results = results[:maxHits]
	}
	return results
}

// sortResults orders by fused score descending with course ID as the
// deterministic tie-break.
func sortResults(results []*core.SearchResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Course.Id < results[j].Course.Id
	})
}

// normalizeLexical rescales raw BM25 scores to 0..1 by observed
// min/max. Zero-score documents are omitted; they contribute nothing
// to fusion.
func normalizeLexical(scores []lexical.Score) map[core.ID]float64 {
	if len(scores) == 0 {
		return nil
	}

	minScore := math.Inf(1)
	maxScore := math.Inf(-1)
	for _, score := range scores {
		if score.Value < minScore {
			minScore = score.Value
		}
		if score.Value > maxScore {
			maxScore = score.Value
		}
	}
	if maxScore <= minScore {
		// Flat distribution carries no ranking signal.
		return nil
	}

	normalized := make(map[core.ID]float64, len(scores))
	for _, score := range scores {
		value := (score.Value - minScore) / (maxScore - minScore)
		if value > 0 {
			normalized[score.Id] = value
		}
	}
	return normalized
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func normalizeVector(v []float32) []float32 {
	var magnitude float64
	for _, val := range v {
		magnitude += float64(val) * float64(val)
	}
	magnitude = math.Sqrt(magnitude)
	if magnitude == 0 {
		return v
	}
	out := make([]float32, len(v))
	for i, val := range v {
		out[i] = float32(float64(val) / magnitude)
	}
	return out
}
