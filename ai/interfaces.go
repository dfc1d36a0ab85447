package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// AnswerGenerator produces a prose answer to a course question from
// retrieved course summaries. Implementations must be thread-safe and
// must never fabricate facts absent from the supplied contexts.
type AnswerGenerator interface {
	// GenerateAnswer answers the question using only the supplied
	// course summaries. Returns an error if generation fails; callers
	// are expected to fall back to presenting the raw summaries.
	GenerateAnswer(ctx context.Context, question string, contexts []string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and
// lifecycle management.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// AnswerGenerator returns the answer generation service.
	AnswerGenerator() AnswerGenerator

	// Close releases resources held by the provider and its services.
	Close() error
}
