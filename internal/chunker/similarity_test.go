package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/semchunk-mcp/pkg/types"
)

func TestCosineSimilarity_SelfSimilarity(t *testing.T) {
	vectors := [][]float64{
		{1, 0},
		{0.3, -0.7, 0.2},
		{1e-3, 2e-3, 3e-3, 4e-3},
	}

	for _, v := range vectors {
		sim, err := CosineSimilarity(v, v)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, sim, 1e-10)
	}
}

func TestCosineSimilarity_Orthogonality(t *testing.T) {
	sim, err := CosineSimilarity([]float64{1, 0}, []float64{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, sim, 1e-10)
}

func TestCosineSimilarity_OppositeVectors(t *testing.T) {
	sim, err := CosineSimilarity([]float64{2, 3}, []float64{-2, -3})
	require.NoError(t, err)
	assert.InDelta(t, -1.0, sim, 1e-10)
}

func TestCosineSimilarity_DimensionMismatch(t *testing.T) {
	_, err := CosineSimilarity([]float64{1, 2}, []float64{1, 2, 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrDimensionMismatch)
}

func TestCosineSimilarity_ZeroVector(t *testing.T) {
	_, err := CosineSimilarity([]float64{0, 0}, []float64{1, 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrZeroVector)

	_, err = CosineSimilarity([]float64{1, 2}, []float64{0, 0})
	assert.ErrorIs(t, err, types.ErrZeroVector)
}

func TestCosineSimilarity_ClampedRange(t *testing.T) {
	// Near-parallel vectors can drift past 1.0 in floating point.
	a := []float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1}
	b := []float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1}

	sim, err := CosineSimilarity(a, b)
	require.NoError(t, err)
	assert.LessOrEqual(t, sim, 1.0)
	assert.GreaterOrEqual(t, sim, -1.0)
}

func TestPairwiseSimilarities_ThreeEmbeddings(t *testing.T) {
	sims, err := PairwiseSimilarities([][]float64{
		{1, 0},
		{1, 0},
		{0, 1},
	})

	require.NoError(t, err)
	require.Len(t, sims, 2)
	assert.InDelta(t, 1.0, sims[0], 1e-10)
	assert.InDelta(t, 0.0, sims[1], 1e-10)
}

func TestPairwiseSimilarities_FewerThanTwo(t *testing.T) {
	sims, err := PairwiseSimilarities(nil)
	require.NoError(t, err)
	assert.Empty(t, sims)

	sims, err = PairwiseSimilarities([][]float64{{1, 2}})
	require.NoError(t, err)
	assert.Empty(t, sims)
}

func TestPairwiseSimilarities_ErrorPropagation(t *testing.T) {
	_, err := PairwiseSimilarities([][]float64{
		{1, 0},
		{1, 0, 0},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrDimensionMismatch)
}

func TestPercentile(t *testing.T) {
	sorted := []float64{0.1, 0.2, 0.3, 0.4, 0.5}

	tests := []struct {
		name string
		p    int
		want float64
	}{
		{"zeroth", 0, 0.1},
		{"hundredth", 100, 0.5},
		{"median", 50, 0.3},
		{"quarter", 25, 0.2},
		{"rounds to nearest index", 30, 0.2}, // 0.3*4 = 1.2 -> index 1
		{"rounds up", 40, 0.3},               // 0.4*4 = 1.6 -> index 2
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percentile(sorted, tt.p))
		})
	}
}

func TestPercentile_Empty(t *testing.T) {
	assert.Equal(t, 0.0, Percentile(nil, 50))
	assert.Equal(t, 0.0, Percentile([]float64{}, 50))
}

func TestPercentile_SingleValue(t *testing.T) {
	assert.Equal(t, 0.42, Percentile([]float64{0.42}, 0))
	assert.Equal(t, 0.42, Percentile([]float64{0.42}, 100))
}
