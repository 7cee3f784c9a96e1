// Package types provides shared type definitions for the SemChunk MCP server.
//
// This package defines domain types used across multiple components of
// SemChunk, including semantic chunks, chunker configuration, and search
// results.
//
// # Core Types
//
// SemanticChunk represents a contiguous run of sentences emitted as one
// retrievable unit:
//
//	chunk := &types.SemanticChunk{
//	    Content:       "First sentence. Second sentence.",
//	    ChunkIndex:    0,
//	    TotalChunks:   3,
//	    StartSentence: 0,
//	    EndSentence:   2,
//	    AvgSimilarity: 0.87,
//	}
//
// ChunkerConfig controls the chunking pipeline and is validated once at
// engine construction:
//
//	cfg := types.DefaultChunkerConfig()
//	cfg.MaxChunkSentences = 20
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Partition Invariant
//
// For one processed document with N sentences, the half-open ranges
// [StartSentence, EndSentence) across all chunks, in ChunkIndex order,
// cover [0, N) exactly with no gaps and no overlaps. TotalChunks is the
// same on every chunk of the run.
//
// # Error Taxonomy
//
// Pipeline errors wrap one of the stage sentinels (ErrSplitting,
// ErrEmbedding, ErrSimilarity, ErrAssembly) so failures identify the stage
// that produced them:
//
//	if errors.Is(err, types.ErrEmbedding) {
//	    // provider failure; retry policy belongs to the caller
//	}
//
// ErrInvalidConfig is always a construction-time failure: configuration is
// validated eagerly before any document is touched.
//
// # Search Results
//
// SearchResult combines chunk content with relevance scoring:
//
//	result := &types.SearchResult{
//	    ChunkID:        123,
//	    Rank:           1,
//	    RelevanceScore: 0.92,
//	    Content:        chunkContent,
//	}
//
// Relevance scores are normalized to [0, 1] range, with higher values
// indicating better matches.
package types
