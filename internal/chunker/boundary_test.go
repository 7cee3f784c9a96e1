package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/semchunk-mcp/pkg/types"
)

func boundaryConfig(threshold float64, percentile int) types.ChunkerConfig {
	cfg := types.DefaultChunkerConfig()
	cfg.SimilarityThreshold = threshold
	cfg.SimilarityPercentile = percentile
	return cfg
}

func TestDetectBoundaries_FixedThresholdWins(t *testing.T) {
	// Percentile 100 makes the adaptive cutoff the highest similarity, so
	// the fixed threshold is the lower signal and decides the cut.
	sims := []float64{0.9, 0.2, 0.8}
	boundaries := DetectBoundaries(sims, boundaryConfig(0.5, 100))

	// Only sims[1] is below 0.5; the cut falls after that pair.
	assert.Equal(t, []int{2}, boundaries)
}

func TestDetectBoundaries_AdaptiveThresholdWins(t *testing.T) {
	// Percentile 0 makes the adaptive cutoff the lowest similarity, which
	// undercuts the generous fixed threshold. Nothing is strictly below
	// the minimum of the distribution, so no boundary is emitted.
	sims := []float64{0.9, 0.2, 0.8}
	boundaries := DetectBoundaries(sims, boundaryConfig(0.95, 0))

	assert.Empty(t, boundaries)
}

func TestDetectBoundaries_MinOfBothSignals(t *testing.T) {
	sims := []float64{0.6, 0.3, 0.7, 0.1}

	// sorted: 0.1 0.3 0.6 0.7; percentile 50 -> round(0.5*3)=2 -> 0.6.
	// effective = min(0.9, 0.6) = 0.6: cuts after pairs 1 and 3.
	boundaries := DetectBoundaries(sims, boundaryConfig(0.9, 50))
	assert.Equal(t, []int{2, 4}, boundaries)
}

func TestDetectBoundaries_EmptyInput(t *testing.T) {
	assert.Nil(t, DetectBoundaries(nil, boundaryConfig(0.5, 25)))
	assert.Nil(t, DetectBoundaries([]float64{}, boundaryConfig(0.5, 25)))
}

func TestDetectBoundaries_UniformSimilarities(t *testing.T) {
	// With identical similarities the adaptive cutoff equals every value;
	// nothing is strictly below it, so a flat document is never cut even
	// when the fixed threshold is generous.
	sims := []float64{0.1, 0.1, 0.1}
	boundaries := DetectBoundaries(sims, boundaryConfig(0.9, 100))

	assert.Empty(t, boundaries)
}

func TestDetectBoundaries_LowPairsBelowBothSignals(t *testing.T) {
	// sorted: 0.05 0.1 0.8 0.9; percentile 75 -> round(0.75*3)=2 -> 0.8.
	// effective = min(0.5, 0.8) = 0.5: both low pairs cut.
	sims := []float64{0.9, 0.05, 0.8, 0.1}
	boundaries := DetectBoundaries(sims, boundaryConfig(0.5, 75))

	assert.Equal(t, []int{2, 4}, boundaries)
}

func TestDetectBoundaries_InputNotMutated(t *testing.T) {
	sims := []float64{0.9, 0.1, 0.5}
	DetectBoundaries(sims, boundaryConfig(0.5, 50))

	assert.Equal(t, []float64{0.9, 0.1, 0.5}, sims)
}
