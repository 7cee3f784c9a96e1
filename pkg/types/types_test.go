package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultChunkerConfig(t *testing.T) {
	cfg := DefaultChunkerConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 0.5, cfg.SimilarityThreshold)
	assert.Equal(t, 2, cfg.MinChunkSentences)
	assert.Equal(t, 12, cfg.MaxChunkSentences)
	assert.Equal(t, 25, cfg.SimilarityPercentile)
	assert.Equal(t, "text-embedding-3-small", cfg.ModelName)
}

func TestChunkerConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ChunkerConfig)
		msg    string
	}{
		{"threshold too high", func(c *ChunkerConfig) { c.SimilarityThreshold = 1.5 }, "similarity_threshold"},
		{"threshold negative", func(c *ChunkerConfig) { c.SimilarityThreshold = -0.1 }, "similarity_threshold"},
		{"min above max", func(c *ChunkerConfig) { c.MinChunkSentences = 5; c.MaxChunkSentences = 2 }, "min_chunk_sentences"},
		{"percentile too high", func(c *ChunkerConfig) { c.SimilarityPercentile = 101 }, "similarity_percentile"},
		{"min below one", func(c *ChunkerConfig) { c.MinChunkSentences = 0 }, "min_chunk_sentences"},
		{"negative sentence length", func(c *ChunkerConfig) { c.MinSentenceLength = -1 }, "min_sentence_length"},
		{"zero batch size", func(c *ChunkerConfig) { c.EmbeddingBatchSize = 0 }, "embedding_batch_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultChunkerConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestChunkerConfig_ValidationOrder(t *testing.T) {
	// Several fields invalid at once: the threshold check reports first.
	cfg := DefaultChunkerConfig()
	cfg.SimilarityThreshold = 2.0
	cfg.MinChunkSentences = 9
	cfg.MaxChunkSentences = 3

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "similarity_threshold")
}

func TestSemanticChunk_Validate(t *testing.T) {
	valid := SemanticChunk{
		Content:       "Some content.",
		ChunkIndex:    0,
		TotalChunks:   1,
		StartSentence: 0,
		EndSentence:   1,
		AvgSimilarity: 1.0,
	}
	assert.NoError(t, valid.Validate())

	empty := valid
	empty.Content = ""
	assert.ErrorIs(t, empty.Validate(), ErrEmptyContent)

	badRange := valid
	badRange.EndSentence = 0
	assert.ErrorIs(t, badRange.Validate(), ErrInvalidSentenceRange)

	badIndex := valid
	badIndex.ChunkIndex = 1
	assert.ErrorIs(t, badIndex.Validate(), ErrInvalidChunkIndex)

	badSim := valid
	badSim.AvgSimilarity = 1.5
	assert.ErrorIs(t, badSim.Validate(), ErrInvalidSimilarity)
}

func TestSemanticChunk_ComputeCounts(t *testing.T) {
	c := SemanticChunk{Content: "Two words. And three more."}
	c.ComputeCounts()

	assert.Equal(t, 5, c.Metadata.WordCount)
	assert.Equal(t, len(c.Content), c.Metadata.CharCount)
}

func TestSemanticChunk_ContentHash(t *testing.T) {
	a := SemanticChunk{Content: "identical"}
	b := SemanticChunk{Content: "identical"}
	c := SemanticChunk{Content: "different"}

	assert.Equal(t, a.ContentHash(), b.ContentHash())
	assert.NotEqual(t, a.ContentHash(), c.ContentHash())
}

func TestSemanticChunk_SentenceCount(t *testing.T) {
	c := SemanticChunk{StartSentence: 3, EndSentence: 7}
	assert.Equal(t, 4, c.SentenceCount())
}
