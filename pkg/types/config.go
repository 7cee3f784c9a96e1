package types

import "fmt"

// Default configuration values used by DefaultChunkerConfig.
const (
	DefaultSimilarityThreshold  = 0.5
	DefaultMinChunkSentences    = 2
	DefaultMaxChunkSentences    = 12
	DefaultSimilarityPercentile = 25
	DefaultMinSentenceLength    = 10
	DefaultEmbeddingBatchSize   = 32
	DefaultModelName            = "text-embedding-3-small"
)

// ChunkerConfig controls sentence splitting, boundary detection, and chunk
// assembly. A config is validated once at engine construction and never
// mutated afterwards.
type ChunkerConfig struct {
	// SimilarityThreshold is the fixed cutoff in [0, 1]. Adjacent sentence
	// pairs whose similarity falls below the effective threshold become
	// chunk boundaries.
	SimilarityThreshold float64

	// MinChunkSentences is the preferred minimum sentence count per chunk.
	// Documents with fewer sentences than this are emitted as one chunk.
	MinChunkSentences int

	// MaxChunkSentences is the hard maximum sentence count per chunk.
	MaxChunkSentences int

	// SimilarityPercentile selects the adaptive cutoff from the document's
	// own similarity distribution, in [0, 100].
	SimilarityPercentile int

	// MinSentenceLength discards split fragments shorter than this many
	// characters.
	MinSentenceLength int

	// EmbeddingBatchSize bounds how many sentences are sent to the
	// embedding provider per request.
	EmbeddingBatchSize int

	// ModelName is the opaque model identifier passed through to the
	// embedding provider.
	ModelName string
}

// DefaultChunkerConfig returns a config with defaults suitable for technical
// prose and markdown.
func DefaultChunkerConfig() ChunkerConfig {
	return ChunkerConfig{
		SimilarityThreshold:  DefaultSimilarityThreshold,
		MinChunkSentences:    DefaultMinChunkSentences,
		MaxChunkSentences:    DefaultMaxChunkSentences,
		SimilarityPercentile: DefaultSimilarityPercentile,
		MinSentenceLength:    DefaultMinSentenceLength,
		EmbeddingBatchSize:   DefaultEmbeddingBatchSize,
		ModelName:            DefaultModelName,
	}
}

// Validate checks the config invariants in a fixed order: threshold range,
// min/max ordering, percentile range, minimum chunk size. It is a fail-fast
// precondition for engine construction, not a retryable error.
func (c *ChunkerConfig) Validate() error {
	if c.SimilarityThreshold < 0.0 || c.SimilarityThreshold > 1.0 {
		return fmt.Errorf("%w: similarity_threshold %v must be in [0.0, 1.0]",
			ErrInvalidConfig, c.SimilarityThreshold)
	}
	if c.MinChunkSentences > c.MaxChunkSentences {
		return fmt.Errorf("%w: min_chunk_sentences %d exceeds max_chunk_sentences %d",
			ErrInvalidConfig, c.MinChunkSentences, c.MaxChunkSentences)
	}
	if c.SimilarityPercentile < 0 || c.SimilarityPercentile > 100 {
		return fmt.Errorf("%w: similarity_percentile %d must be in [0, 100]",
			ErrInvalidConfig, c.SimilarityPercentile)
	}
	if c.MinChunkSentences < 1 {
		return fmt.Errorf("%w: min_chunk_sentences %d must be >= 1",
			ErrInvalidConfig, c.MinChunkSentences)
	}
	if c.MinSentenceLength < 0 {
		return fmt.Errorf("%w: min_sentence_length %d cannot be negative",
			ErrInvalidConfig, c.MinSentenceLength)
	}
	if c.EmbeddingBatchSize < 1 {
		return fmt.Errorf("%w: embedding_batch_size %d must be >= 1",
			ErrInvalidConfig, c.EmbeddingBatchSize)
	}
	return nil
}
