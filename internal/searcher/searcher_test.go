package searcher

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/semchunk-mcp/internal/embedder"
	"github.com/dshills/semchunk-mcp/internal/storage"
)

// mockEmbedder implements the Embedder interface for testing
type mockEmbedder struct {
	generateFunc func(ctx context.Context, req embedder.EmbeddingRequest) (*embedder.Embedding, error)
}

func (m *mockEmbedder) GenerateEmbedding(ctx context.Context, req embedder.EmbeddingRequest) (*embedder.Embedding, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, req)
	}

	return &embedder.Embedding{
		Vector:    []float64{1, 0, 0},
		Dimension: 3,
		Model:     "mock-model",
		Provider:  "mock",
		Hash:      embedder.ComputeHash(req.Text, "mock-model"),
	}, nil
}

func (m *mockEmbedder) GenerateBatch(ctx context.Context, req embedder.BatchEmbeddingRequest) (*embedder.BatchEmbeddingResponse, error) {
	embeddings := make([]*embedder.Embedding, len(req.Texts))
	for i, text := range req.Texts {
		emb, err := m.GenerateEmbedding(ctx, embedder.EmbeddingRequest{Text: text})
		if err != nil {
			return nil, err
		}
		embeddings[i] = emb
	}
	return &embedder.BatchEmbeddingResponse{
		Embeddings: embeddings,
		Provider:   "mock",
		Model:      "mock-model",
	}, nil
}

func (m *mockEmbedder) Dimension() int   { return 3 }
func (m *mockEmbedder) Provider() string { return "mock" }
func (m *mockEmbedder) Model() string    { return "mock-model" }
func (m *mockEmbedder) Close() error     { return nil }

// setupTestSearcher creates a searcher over real storage with a mock embedder
func setupTestSearcher(t *testing.T) (*Searcher, *storage.SQLiteStorage, *storage.Corpus) {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "search.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	search := NewSearcher(store, &mockEmbedder{})

	corpus := &storage.Corpus{
		RootPath:     "/test/corpus",
		Name:         "corpus",
		IndexVersion: storage.CurrentSchemaVersion,
	}
	require.NoError(t, store.CreateCorpus(context.Background(), corpus))

	return search, store, corpus
}

// seedChunk stores a chunk with the given content and embedding vector and
// returns its ID.
func seedChunk(t *testing.T, store storage.Storage, docID int64, index int, content string, vector []float64) int64 {
	t.Helper()
	ctx := context.Background()

	chunk := &storage.Chunk{
		DocumentID:    docID,
		ChunkIndex:    index,
		TotalChunks:   1,
		Content:       content,
		StartSentence: 0,
		EndSentence:   1,
		AvgSimilarity: 0.9,
		WordCount:     len(content) / 5,
		CharCount:     len(content),
	}
	require.NoError(t, store.UpsertChunk(ctx, chunk))

	require.NoError(t, store.UpsertEmbedding(ctx, &storage.Embedding{
		ChunkID:   chunk.ID,
		Vector:    storage.SerializeVector(vector),
		Dimension: len(vector),
		Provider:  "mock",
		Model:     "mock-model",
	}))

	return chunk.ID
}

func seedDocument(t *testing.T, store storage.Storage, corpusID int64, path, title, category string) int64 {
	t.Helper()

	doc := &storage.Document{
		CorpusID: corpusID,
		FilePath: path,
		Title:    title,
		Category: category,
	}
	require.NoError(t, store.UpsertDocument(context.Background(), doc))
	return doc.ID
}

func TestSearch_EmptyQueryRejected(t *testing.T) {
	search, _, corpus := setupTestSearcher(t)

	_, err := search.Search(context.Background(), SearchRequest{CorpusID: corpus.ID, Query: "   "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query cannot be empty")
}

func TestSearch_UnsupportedMode(t *testing.T) {
	search, _, corpus := setupTestSearcher(t)

	_, err := search.Search(context.Background(), SearchRequest{
		CorpusID: corpus.ID,
		Query:    "anything",
		Mode:     SearchMode("fuzzy"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported search mode")
}

func TestValidateRequest_AppliesDefaults(t *testing.T) {
	search, _, _ := setupTestSearcher(t)

	req := SearchRequest{Query: "q"}
	require.NoError(t, search.validateRequest(&req))
	assert.Equal(t, DefaultLimit, req.Limit)
	assert.Equal(t, SearchModeHybrid, req.Mode)
	assert.Equal(t, float64(DefaultRRFConstant), req.RRFConstant)
	assert.Equal(t, DefaultCacheTTL, req.CacheTTL)

	over := SearchRequest{Query: "q", Limit: 5000}
	require.NoError(t, search.validateRequest(&over))
	assert.Equal(t, MaxLimit, over.Limit)
}

func TestVectorSearch_RanksBySimilarity(t *testing.T) {
	search, store, corpus := setupTestSearcher(t)
	docID := seedDocument(t, store, corpus.ID, "guides/setup.md", "Setup", "guides")

	// Query vector is {1,0,0}; closest match first.
	exact := seedChunk(t, store, docID, 0, "exact match content", []float64{1, 0, 0})
	near := seedChunk(t, store, docID, 1, "close match content", []float64{0.9, 0.1, 0})
	far := seedChunk(t, store, docID, 2, "unrelated content", []float64{0, 1, 0})

	resp, err := search.Search(context.Background(), SearchRequest{
		CorpusID: corpus.ID,
		Query:    "setup instructions",
		Mode:     SearchModeVector,
		Limit:    2,
	})
	require.NoError(t, err)

	require.Len(t, resp.Results, 2)
	assert.Equal(t, exact, resp.Results[0].ChunkID)
	assert.Equal(t, near, resp.Results[1].ChunkID)
	assert.NotEqual(t, far, resp.Results[1].ChunkID)
	assert.Equal(t, SearchModeVector, resp.SearchMode)

	require.NotNil(t, resp.Results[0].Document)
	assert.Equal(t, "guides/setup.md", resp.Results[0].Document.Path)
	assert.Equal(t, "Setup", resp.Results[0].Document.Title)
	assert.InDelta(t, 0.9, resp.Results[0].AvgSimilarity, 1e-9)
}

func TestKeywordSearch_MatchesContent(t *testing.T) {
	search, store, corpus := setupTestSearcher(t)
	docID := seedDocument(t, store, corpus.ID, "notes.md", "Notes", "")

	want := seedChunk(t, store, docID, 0, "Deploying with kubernetes requires a manifest.", []float64{1, 0, 0})
	seedChunk(t, store, docID, 1, "Watering the garden on dry days.", []float64{0, 1, 0})

	resp, err := search.Search(context.Background(), SearchRequest{
		CorpusID: corpus.ID,
		Query:    "kubernetes",
		Mode:     SearchModeKeyword,
	})
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	assert.Equal(t, want, resp.Results[0].ChunkID)
	assert.Equal(t, 1, resp.Results[0].Rank)
	assert.Positive(t, resp.Results[0].RelevanceScore)
}

func TestHybridSearch_FusesBothRankings(t *testing.T) {
	search, store, corpus := setupTestSearcher(t)
	docID := seedDocument(t, store, corpus.ID, "ops.md", "Ops", "")

	// "both" scores in the vector and keyword legs; the others in one each.
	both := seedChunk(t, store, docID, 0, "Rolling deployment strategy for clusters.", []float64{1, 0, 0})
	vectorOnly := seedChunk(t, store, docID, 1, "Gradual rollout of changes across machines.", []float64{0.95, 0.05, 0})
	keywordOnly := seedChunk(t, store, docID, 2, "A deployment went out on Friday.", []float64{0, 1, 0})

	resp, err := search.Search(context.Background(), SearchRequest{
		CorpusID: corpus.ID,
		Query:    "deployment",
		Mode:     SearchModeHybrid,
		Limit:    3,
	})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Results)
	assert.Equal(t, both, resp.Results[0].ChunkID)

	ids := make([]int64, 0, len(resp.Results))
	for _, r := range resp.Results {
		ids = append(ids, r.ChunkID)
	}
	assert.Contains(t, ids, vectorOnly)
	assert.Contains(t, ids, keywordOnly)
	assert.Positive(t, resp.VectorResults)
	assert.Positive(t, resp.TextResults)
}

func TestHybridSearch_SurvivesEmbedderFailure(t *testing.T) {
	search, store, corpus := setupTestSearcher(t)
	docID := seedDocument(t, store, corpus.ID, "ops.md", "Ops", "")
	want := seedChunk(t, store, docID, 0, "Deployment checklist for operators.", []float64{1, 0, 0})

	search.embedder = &mockEmbedder{
		generateFunc: func(ctx context.Context, req embedder.EmbeddingRequest) (*embedder.Embedding, error) {
			return nil, errors.New("provider unavailable")
		},
	}

	resp, err := search.Search(context.Background(), SearchRequest{
		CorpusID: corpus.ID,
		Query:    "deployment",
		Mode:     SearchModeHybrid,
	})
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	assert.Equal(t, want, resp.Results[0].ChunkID)
	assert.Zero(t, resp.VectorResults)
}

func TestVectorSearch_EmbedderFailureIsFatal(t *testing.T) {
	search, _, corpus := setupTestSearcher(t)

	search.embedder = &mockEmbedder{
		generateFunc: func(ctx context.Context, req embedder.EmbeddingRequest) (*embedder.Embedding, error) {
			return nil, errors.New("provider unavailable")
		},
	}

	_, err := search.Search(context.Background(), SearchRequest{
		CorpusID: corpus.ID,
		Query:    "anything",
		Mode:     SearchModeVector,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query embedding")
}

func TestSearch_CacheHit(t *testing.T) {
	search, store, corpus := setupTestSearcher(t)
	docID := seedDocument(t, store, corpus.ID, "notes.md", "Notes", "")
	seedChunk(t, store, docID, 0, "Caching speeds up repeated queries.", []float64{1, 0, 0})

	req := SearchRequest{
		CorpusID: corpus.ID,
		Query:    "caching",
		Mode:     SearchModeKeyword,
		UseCache: true,
	}

	first, err := search.Search(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	require.NotEmpty(t, first.Results)

	second, err := search.Search(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Results[0].ChunkID, second.Results[0].ChunkID)

	// Mutating a returned response must not corrupt the cache.
	second.Results[0].Content = "mutated"
	third, err := search.Search(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", third.Results[0].Content)
}

func TestSearch_CacheRespectsTTL(t *testing.T) {
	search, store, corpus := setupTestSearcher(t)
	docID := seedDocument(t, store, corpus.ID, "notes.md", "Notes", "")
	seedChunk(t, store, docID, 0, "Entries expire after their TTL.", []float64{1, 0, 0})

	req := SearchRequest{
		CorpusID: corpus.ID,
		Query:    "expire",
		Mode:     SearchModeKeyword,
		UseCache: true,
		CacheTTL: time.Nanosecond,
	}

	_, err := search.Search(context.Background(), req)
	require.NoError(t, err)

	time.Sleep(time.Millisecond)

	resp, err := search.Search(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, resp.CacheHit)
}

func TestInvalidateCache(t *testing.T) {
	search, store, corpus := setupTestSearcher(t)
	docID := seedDocument(t, store, corpus.ID, "notes.md", "Notes", "")
	seedChunk(t, store, docID, 0, "Reindexing drops cached responses.", []float64{1, 0, 0})

	req := SearchRequest{
		CorpusID: corpus.ID,
		Query:    "reindexing",
		Mode:     SearchModeKeyword,
		UseCache: true,
	}

	_, err := search.Search(context.Background(), req)
	require.NoError(t, err)

	search.InvalidateCache()

	resp, err := search.Search(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, resp.CacheHit)
}

func TestApplyRRF(t *testing.T) {
	vector := []storage.VectorResult{
		{ChunkID: 1, SimilarityScore: 0.95},
		{ChunkID: 2, SimilarityScore: 0.80},
	}
	text := []storage.TextResult{
		{ChunkID: 2, BM25Score: 0.9},
		{ChunkID: 3, BM25Score: 0.5},
	}

	ranked := applyRRF(vector, text, 60)
	require.Len(t, ranked, 3)

	// Chunk 2 appears in both rankings and must fuse to the top.
	assert.Equal(t, int64(2), ranked[0].chunkID)
	assert.InDelta(t, 1.0/62+1.0/61, ranked[0].score, 1e-9)
	assert.Equal(t, 1, ranked[0].rank)

	// Chunk 1 (vector rank 1) beats chunk 3 (text rank 2).
	assert.Equal(t, int64(1), ranked[1].chunkID)
	assert.Equal(t, int64(3), ranked[2].chunkID)
}

func TestComputeQueryHash_Distinguishes(t *testing.T) {
	base := SearchRequest{Query: "q", Mode: SearchModeHybrid, CorpusID: 1, Limit: 10}

	other := base
	other.Query = "different"
	assert.NotEqual(t, computeQueryHash(base), computeQueryHash(other))

	other = base
	other.Limit = 20
	assert.NotEqual(t, computeQueryHash(base), computeQueryHash(other))

	other = base
	other.Filters = &storage.SearchFilters{Categories: []string{"guides"}}
	assert.NotEqual(t, computeQueryHash(base), computeQueryHash(other))

	assert.Equal(t, computeQueryHash(base), computeQueryHash(base))
}
