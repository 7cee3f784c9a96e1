package chunker

import (
	"fmt"
	"math"

	"github.com/dshills/semchunk-mcp/pkg/types"
)

// CosineSimilarity computes dot(a,b) / (‖a‖·‖b‖), clamped to [-1, 1] to
// absorb floating-point drift. Returns ErrDimensionMismatch when the vectors
// have different lengths and ErrZeroVector when either norm is zero.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", types.ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, types.ErrZeroVector
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))

	// Clamp against accumulated rounding error.
	if sim > 1.0 {
		sim = 1.0
	} else if sim < -1.0 {
		sim = -1.0
	}

	return sim, nil
}

// PairwiseSimilarities returns the cosine similarity between each pair of
// consecutive embeddings: n embeddings yield n-1 values. Fewer than two
// embeddings yield an empty list.
func PairwiseSimilarities(embeddings [][]float64) ([]float64, error) {
	if len(embeddings) < 2 {
		return []float64{}, nil
	}

	sims := make([]float64, 0, len(embeddings)-1)
	for i := 0; i < len(embeddings)-1; i++ {
		sim, err := CosineSimilarity(embeddings[i], embeddings[i+1])
		if err != nil {
			return nil, fmt.Errorf("pair %d-%d: %w", i, i+1, err)
		}
		sims = append(sims, sim)
	}

	return sims, nil
}

// Percentile returns the value at index round(p/100 * (len-1)) of an
// already-sorted ascending list. An empty list yields 0.0.
func Percentile(sorted []float64, p int) float64 {
	if len(sorted) == 0 {
		return 0.0
	}

	idx := int(math.Round(float64(p) / 100.0 * float64(len(sorted)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}

	return sorted[idx]
}
