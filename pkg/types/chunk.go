package types

import (
	"crypto/sha256"
	"strings"
)

// ChunkMetadata carries document-level context attached to every chunk.
// WordCount and CharCount are computed per chunk, not copied from the
// source document.
type ChunkMetadata struct {
	SourceFile string
	Title      string // Optional, empty when unknown
	Category   string // Optional, empty when unknown
	Keywords   []string
	WordCount  int
	CharCount  int
}

// SemanticChunk is a contiguous run of sentences emitted as one retrievable
// unit. Chunks of a single document partition its sentence list exactly:
// the half-open ranges [StartSentence, EndSentence) have no gaps and no
// overlaps when walked in ChunkIndex order.
type SemanticChunk struct {
	// Content is the chunk's sentences joined by a single space.
	Content string

	// ChunkIndex is the zero-based position among the document's chunks.
	ChunkIndex int

	// TotalChunks is the number of chunks produced for the document.
	// Identical on every chunk of one run.
	TotalChunks int

	// StartSentence and EndSentence bound the half-open sentence-index
	// range [start, end) into the document's sentence list.
	StartSentence int
	EndSentence   int

	// AvgSimilarity is the mean pairwise cosine similarity among the
	// chunk's internal sentences. Single-sentence chunks report 1.0.
	AvgSimilarity float64

	Metadata ChunkMetadata
}

// SentenceCount returns the number of sentences covered by the chunk.
func (c *SemanticChunk) SentenceCount() int {
	return c.EndSentence - c.StartSentence
}

// ComputeCounts fills the metadata word and character counts from Content.
func (c *SemanticChunk) ComputeCounts() {
	c.Metadata.WordCount = len(strings.Fields(c.Content))
	c.Metadata.CharCount = len(c.Content)
}

// ContentHash returns the SHA-256 hash of the chunk content, used for
// deduplication in storage.
func (c *SemanticChunk) ContentHash() [32]byte {
	return sha256.Sum256([]byte(c.Content))
}

// Validate checks structural integrity of a produced chunk.
func (c *SemanticChunk) Validate() error {
	if c.Content == "" {
		return ErrEmptyContent
	}
	if c.StartSentence < 0 || c.EndSentence <= c.StartSentence {
		return ErrInvalidSentenceRange
	}
	if c.ChunkIndex < 0 || c.TotalChunks < 1 || c.ChunkIndex >= c.TotalChunks {
		return ErrInvalidChunkIndex
	}
	if c.AvgSimilarity < -1.0 || c.AvgSimilarity > 1.0 {
		return ErrInvalidSimilarity
	}
	return nil
}
