package types

import "errors"

// Configuration and chunk validation errors.
var (
	// ErrInvalidConfig signals a chunker configuration that failed
	// validation. Always a construction-time failure, never per-document.
	ErrInvalidConfig = errors.New("invalid chunker configuration")

	ErrEmptyContent         = errors.New("content cannot be empty")
	ErrInvalidSentenceRange = errors.New("invalid sentence range")
	ErrInvalidChunkIndex    = errors.New("invalid chunk index")
	ErrInvalidSimilarity    = errors.New("similarity must be between -1 and 1")
)

// Pipeline stage errors. Every error propagated out of chunk processing
// wraps exactly one of these, so callers can tell which stage failed.
var (
	// ErrSplitting signals a sentence segmentation failure.
	ErrSplitting = errors.New("sentence splitting failed")
	// ErrEmbedding signals an embedding provider failure.
	ErrEmbedding = errors.New("embedding generation failed")
	// ErrSimilarity signals a similarity calculation failure.
	ErrSimilarity = errors.New("similarity calculation failed")
	// ErrAssembly signals a chunk assembly failure.
	ErrAssembly = errors.New("chunk assembly failed")
)

// Similarity calculation errors.
var (
	// ErrDimensionMismatch signals vectors of different lengths.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrZeroVector signals a vector with zero norm.
	ErrZeroVector = errors.New("zero vector has no direction")
)

// Search result errors.
var (
	ErrInvalidChunkID        = errors.New("invalid chunk ID")
	ErrInvalidRank           = errors.New("rank must be >= 1")
	ErrInvalidRelevanceScore = errors.New("relevance score must be between 0 and 1")
	ErrMissingDocumentInfo   = errors.New("document info is required")
)
