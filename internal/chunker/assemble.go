package chunker

import (
	"strings"

	"github.com/dshills/semchunk-mcp/pkg/types"
)

// fallbackSimilarity is reported when a chunk's internal similarity cannot
// be computed. A failed aggregate is not a hard error for an already
// embedded chunk.
const fallbackSimilarity = 0.5

// assembleChunks converts sentences, detected boundary positions, and
// index-aligned embeddings into the final ordered chunk list.
//
// Positions 0 and len(sentences) act as implicit boundaries bracketing the
// detected ones. Within each boundary-delimited segment, up to
// cfg.MaxChunkSentences sentences are consumed greedily per chunk. A
// trailing remainder shorter than cfg.MinChunkSentences is emitted as its
// own short chunk: it cannot be attached to a later chunk without crossing
// a detected boundary, and growing the previous chunk would break the
// maximum-size guarantee.
func assembleChunks(sentences []string, boundaries []int, embeddings [][]float64, cfg types.ChunkerConfig, meta types.ChunkMetadata) []types.SemanticChunk {
	positions := segmentPositions(len(sentences), boundaries)

	var chunks []types.SemanticChunk
	for i := 0; i < len(positions)-1; i++ {
		segStart, segEnd := positions[i], positions[i+1]

		for start := segStart; start < segEnd; start += cfg.MaxChunkSentences {
			end := start + cfg.MaxChunkSentences
			if end > segEnd {
				end = segEnd
			}
			chunks = append(chunks, buildChunk(sentences, embeddings, start, end, meta))
		}
	}

	// Backfill the final count on every chunk of the run.
	for i := range chunks {
		chunks[i].ChunkIndex = i
		chunks[i].TotalChunks = len(chunks)
	}

	return chunks
}

// segmentPositions brackets the detected boundaries with the implicit 0 and
// N positions, dropping anything out of range. Detected boundaries arrive
// in ascending order from DetectBoundaries.
func segmentPositions(sentenceCount int, boundaries []int) []int {
	positions := make([]int, 0, len(boundaries)+2)
	positions = append(positions, 0)
	for _, b := range boundaries {
		if b > 0 && b < sentenceCount {
			positions = append(positions, b)
		}
	}
	positions = append(positions, sentenceCount)
	return positions
}

// buildChunk materializes one chunk over the half-open sentence range
// [start, end).
func buildChunk(sentences []string, embeddings [][]float64, start, end int, meta types.ChunkMetadata) types.SemanticChunk {
	chunk := types.SemanticChunk{
		Content:       strings.Join(sentences[start:end], " "),
		StartSentence: start,
		EndSentence:   end,
		AvgSimilarity: chunkAvgSimilarity(embeddings, start, end),
		Metadata:      meta,
	}
	chunk.ComputeCounts()
	return chunk
}

// chunkAvgSimilarity computes the mean pairwise cosine similarity among a
// chunk's internal sentences. Single-sentence chunks report 1.0 by
// convention; an unexpected calculation failure reports the fallback value
// instead of failing the document.
func chunkAvgSimilarity(embeddings [][]float64, start, end int) float64 {
	if end-start <= 1 {
		return 1.0
	}
	if end > len(embeddings) {
		return fallbackSimilarity
	}

	sims, err := PairwiseSimilarities(embeddings[start:end])
	if err != nil || len(sims) == 0 {
		return fallbackSimilarity
	}

	var sum float64
	for _, s := range sims {
		sum += s
	}
	return sum / float64(len(sims))
}
