package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeVector_RoundTrip(t *testing.T) {
	vector := []float64{0.1, -2.5, 3.75, 0}

	blob := SerializeVector(vector)
	assert.Len(t, blob, len(vector)*8)

	got := DeserializeVector(blob)
	assert.Equal(t, vector, got)
}

func TestDeserializeVector_Empty(t *testing.T) {
	assert.Empty(t, DeserializeVector(nil))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float64{1, 0}, []float64{2, 0}), 1e-12)
	assert.InDelta(t, 0.0, CosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-12)
	assert.InDelta(t, -1.0, CosineSimilarity([]float64{1, 0}, []float64{-1, 0}), 1e-12)

	// Degenerate inputs report zero rather than erroring at rank time.
	assert.Zero(t, CosineSimilarity([]float64{1, 0}, []float64{1, 0, 0}))
	assert.Zero(t, CosineSimilarity([]float64{0, 0}, []float64{1, 0}))
}

func TestSortCandidates(t *testing.T) {
	candidates := []candidate{
		{chunkID: 1, score: 0.2},
		{chunkID: 2, score: 0.9},
		{chunkID: 3, score: 0.5},
	}
	sortCandidates(candidates)

	require.Len(t, candidates, 3)
	assert.Equal(t, int64(2), candidates[0].chunkID)
	assert.Equal(t, int64(3), candidates[1].chunkID)
	assert.Equal(t, int64(1), candidates[2].chunkID)
}

func TestBuildVectorResults_LimitHandling(t *testing.T) {
	candidates := []candidate{
		{chunkID: 1, score: 0.9},
		{chunkID: 2, score: 0.8},
	}

	results := buildVectorResults(candidates, 1)
	require.Len(t, results, 1)
	assert.Equal(t, int64(1), results[0].ChunkID)

	assert.Len(t, buildVectorResults(candidates, 10), 2)
	assert.Len(t, buildVectorResults(candidates, 0), 2)
}

func TestSanitizeFTSQuery(t *testing.T) {
	assert.Equal(t, "", sanitizeFTSQuery(""))
	assert.Equal(t, `hello world`, sanitizeFTSQuery("hello world"))
	assert.Equal(t, `\"quoted\"`, sanitizeFTSQuery(`"quoted"`))
	assert.Equal(t, `a \AND b`, sanitizeFTSQuery("a AND b"))
	assert.Equal(t, `wild\*card`, sanitizeFTSQuery("wild*card"))
}

func TestEncodeDecodeKeywords(t *testing.T) {
	keywords := []string{"alpha", "beta gamma", "delta"}
	assert.Equal(t, keywords, decodeKeywords(encodeKeywords(keywords)))
	assert.Nil(t, decodeKeywords(""))
	assert.Equal(t, "", encodeKeywords(nil))
}
