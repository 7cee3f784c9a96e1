package chunker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/semchunk-mcp/pkg/types"
)

// stubProvider returns canned vectors keyed by sentence text. Unknown texts
// get a deterministic default so order bugs surface as similarity changes.
type stubProvider struct {
	vectors map[string][]float64
	err     error

	mu      sync.Mutex
	batches [][]string
	models  []string
}

func (p *stubProvider) EmbedBatch(_ context.Context, model string, texts []string) ([][]float64, error) {
	p.mu.Lock()
	p.batches = append(p.batches, texts)
	p.models = append(p.models, model)
	p.mu.Unlock()

	if p.err != nil {
		return nil, p.err
	}

	out := make([][]float64, len(texts))
	for i, text := range texts {
		if v, ok := p.vectors[text]; ok {
			out[i] = v
		} else {
			out[i] = []float64{1, 0}
		}
	}
	return out, nil
}

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.batches)
}

func testConfig() types.ChunkerConfig {
	cfg := types.DefaultChunkerConfig()
	cfg.MinChunkSentences = 1
	cfg.MaxChunkSentences = 10
	cfg.MinSentenceLength = 0
	cfg.SimilarityThreshold = 0.5
	cfg.SimilarityPercentile = 100
	return cfg
}

func TestNew_ValidatesConfig(t *testing.T) {
	cfg := testConfig()
	cfg.SimilarityThreshold = 1.5

	_, err := New(cfg, &stubProvider{})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidConfig)
}

func TestNew_MinAboveMax(t *testing.T) {
	cfg := testConfig()
	cfg.MinChunkSentences = 5
	cfg.MaxChunkSentences = 2

	_, err := New(cfg, &stubProvider{})
	assert.ErrorIs(t, err, types.ErrInvalidConfig)
}

func TestNew_RequiresProvider(t *testing.T) {
	_, err := New(testConfig(), nil)
	assert.ErrorIs(t, err, types.ErrInvalidConfig)
}

func TestChunkDocument_ShortDocumentSingleChunk(t *testing.T) {
	cfg := testConfig()
	cfg.MinChunkSentences = 5

	provider := &stubProvider{}
	c, err := New(cfg, provider)
	require.NoError(t, err)

	content := "First sentence here. Second sentence here. Third sentence here."
	chunks, err := c.ChunkDocument(context.Background(), content, types.ChunkMetadata{SourceFile: "a.md"})
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].ChunkIndex)
	assert.Equal(t, 1, chunks[0].TotalChunks)
	assert.Equal(t, 0, chunks[0].StartSentence)
	assert.Equal(t, 3, chunks[0].EndSentence)
	assert.InDelta(t, 1.0, chunks[0].AvgSimilarity, 1e-10)

	// The embedding provider must not be called for short documents.
	assert.Zero(t, provider.callCount())
}

func TestChunkDocument_BoundaryAtTopicShift(t *testing.T) {
	provider := &stubProvider{vectors: map[string][]float64{
		"The cat sat on the mat.":      {1, 0},
		"The cat slept on the rug.":    {1, 0},
		"Stocks fell sharply today.":   {0, 1},
		"Markets closed lower sunday.": {0, 1},
	}}

	c, err := New(testConfig(), provider)
	require.NoError(t, err)

	content := "The cat sat on the mat. The cat slept on the rug. Stocks fell sharply today. Markets closed lower sunday."
	chunks, err := c.ChunkDocument(context.Background(), content, types.ChunkMetadata{})
	require.NoError(t, err)

	require.Len(t, chunks, 2)
	assert.Equal(t, 0, chunks[0].StartSentence)
	assert.Equal(t, 2, chunks[0].EndSentence)
	assert.Equal(t, 2, chunks[1].StartSentence)
	assert.Equal(t, 4, chunks[1].EndSentence)
	assert.Contains(t, chunks[0].Content, "cat")
	assert.Contains(t, chunks[1].Content, "Stocks")
}

func TestChunkDocument_PartitionInvariant(t *testing.T) {
	c, err := New(testConfig(), &stubProvider{})
	require.NoError(t, err)

	var sb strings.Builder
	for i := 0; i < 25; i++ {
		fmt.Fprintf(&sb, "This is test sentence number %d. ", i)
	}

	chunks, err := c.ChunkDocument(context.Background(), sb.String(), types.ChunkMetadata{})
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	next := 0
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.ChunkIndex)
		assert.Equal(t, len(chunks), chunk.TotalChunks)
		assert.Equal(t, next, chunk.StartSentence)
		next = chunk.EndSentence
	}
	assert.Equal(t, 25, next)
}

func TestChunkDocument_Deterministic(t *testing.T) {
	cfg := testConfig()
	cfg.EmbeddingBatchSize = 3 // force several concurrent batches

	c, err := New(cfg, &stubProvider{})
	require.NoError(t, err)

	var sb strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&sb, "Deterministic sentence number %d appears here. ", i)
	}
	content := sb.String()

	first, err := c.ChunkDocument(context.Background(), content, types.ChunkMetadata{SourceFile: "d.md"})
	require.NoError(t, err)
	second, err := c.ChunkDocument(context.Background(), content, types.ChunkMetadata{SourceFile: "d.md"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestChunkDocument_ProviderErrorPropagated(t *testing.T) {
	errUnavailable := errors.New("service unavailable")
	provider := &stubProvider{err: errUnavailable}
	c, err := New(testConfig(), provider)
	require.NoError(t, err)

	chunks, err := c.ChunkDocument(context.Background(),
		"One sentence here. Another sentence here. A third sentence here.", types.ChunkMetadata{})

	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrEmbedding)
	assert.ErrorIs(t, err, errUnavailable, "provider error must stay in the chain")
	assert.Nil(t, chunks, "no partial output on failure")
}

func TestChunkDocument_DimensionMismatchIsSimilarityError(t *testing.T) {
	provider := &stubProvider{vectors: map[string][]float64{
		"Mismatched vector sentence one.": {1, 0, 0},
		"Mismatched vector sentence two.": {1, 0},
	}}
	c, err := New(testConfig(), provider)
	require.NoError(t, err)

	_, err = c.ChunkDocument(context.Background(),
		"Mismatched vector sentence one. Mismatched vector sentence two.", types.ChunkMetadata{})

	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrSimilarity)
	assert.ErrorIs(t, err, types.ErrDimensionMismatch)
}

func TestChunkDocument_BlankContent(t *testing.T) {
	c, err := New(testConfig(), &stubProvider{})
	require.NoError(t, err)

	chunks, err := c.ChunkDocument(context.Background(), "   \n  ", types.ChunkMetadata{})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunkDocument_ModelNamePassedThrough(t *testing.T) {
	cfg := testConfig()
	cfg.ModelName = "custom-embed-v2"

	provider := &stubProvider{}
	c, err := New(cfg, provider)
	require.NoError(t, err)

	_, err = c.ChunkDocument(context.Background(),
		"Model name sentence one. Model name sentence two.", types.ChunkMetadata{})
	require.NoError(t, err)

	provider.mu.Lock()
	defer provider.mu.Unlock()
	require.NotEmpty(t, provider.models)
	for _, m := range provider.models {
		assert.Equal(t, "custom-embed-v2", m)
	}
}

func TestChunkDocument_BatchSizeRespected(t *testing.T) {
	cfg := testConfig()
	cfg.EmbeddingBatchSize = 4

	provider := &stubProvider{}
	c, err := New(cfg, provider)
	require.NoError(t, err)

	var sb strings.Builder
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&sb, "Batch sizing sentence number %d. ", i)
	}

	_, err = c.ChunkDocument(context.Background(), sb.String(), types.ChunkMetadata{})
	require.NoError(t, err)

	provider.mu.Lock()
	defer provider.mu.Unlock()
	require.Len(t, provider.batches, 3) // 4 + 4 + 2
	total := 0
	for _, batch := range provider.batches {
		assert.LessOrEqual(t, len(batch), 4)
		total += len(batch)
	}
	assert.Equal(t, 10, total)
}
