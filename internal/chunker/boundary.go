package chunker

import (
	"sort"

	"github.com/dshills/semchunk-mcp/pkg/types"
)

// DetectBoundaries selects sentence-index positions where the document
// should be cut. The effective threshold is the lower of the fixed
// configured threshold and an adaptive percentile of the document's own
// similarity distribution, so a boundary is emitted whenever either signal
// considers the adjacent pair dissimilar. Each low-similarity pair at index
// i produces boundary position i+1: the cut falls immediately after the
// dissimilar pair.
func DetectBoundaries(similarities []float64, cfg types.ChunkerConfig) []int {
	if len(similarities) == 0 {
		return nil
	}

	sorted := make([]float64, len(similarities))
	copy(sorted, similarities)
	sort.Float64s(sorted)

	adaptive := Percentile(sorted, cfg.SimilarityPercentile)

	effective := cfg.SimilarityThreshold
	if adaptive < effective {
		effective = adaptive
	}

	var boundaries []int
	for i, sim := range similarities {
		if sim < effective {
			boundaries = append(boundaries, i+1)
		}
	}

	return boundaries
}
