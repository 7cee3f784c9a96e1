package chunker

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/semchunk-mcp/internal/splitter"
	"github.com/dshills/semchunk-mcp/pkg/types"
)

// maxConcurrentBatches bounds how many embedding batches are in flight per
// document. Sentence order is preserved regardless: every batch writes into
// its own index-aligned slots.
const maxConcurrentBatches = 4

// EmbeddingProvider is the capability the chunker needs from an embedding
// backend: one fallible batch call whose output is index-aligned with the
// input texts. Test doubles substitute deterministic vectors without
// network access.
type EmbeddingProvider interface {
	EmbedBatch(ctx context.Context, model string, texts []string) ([][]float64, error)
}

// Chunker splits documents into semantically coherent chunks using
// embedding similarity between adjacent sentences. A Chunker holds no
// per-document state and is safe for concurrent use across documents.
type Chunker struct {
	cfg      types.ChunkerConfig
	provider EmbeddingProvider
	split    *splitter.Splitter
}

// New creates a Chunker. The configuration is validated eagerly;
// construction fails before any document is processed if it is invalid.
func New(cfg types.ChunkerConfig, provider EmbeddingProvider) (*Chunker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, fmt.Errorf("%w: embedding provider is required", types.ErrInvalidConfig)
	}
	return &Chunker{
		cfg:      cfg,
		provider: provider,
		split:    splitter.New(cfg.MinSentenceLength),
	}, nil
}

// Config returns the validated configuration the chunker was built with.
func (c *Chunker) Config() types.ChunkerConfig {
	return c.cfg
}

// ChunkDocument converts document content into an ordered chunk list whose
// sentence ranges exactly partition the document's sentence list. On any
// failure no partial output is returned; the error identifies the pipeline
// stage that failed. Blank content yields an empty list.
func (c *Chunker) ChunkDocument(ctx context.Context, content string, meta types.ChunkMetadata) ([]types.SemanticChunk, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return []types.SemanticChunk{}, nil
	}

	sentences := c.split.Split(content)
	if len(sentences) == 0 {
		// Everything fell below the minimum fragment length; treat the
		// whole document as one sentence rather than dropping it.
		sentences = []string{trimmed}
	}

	// Short documents skip embedding entirely: one chunk, whole document.
	if len(sentences) < c.cfg.MinChunkSentences {
		return []types.SemanticChunk{singleChunk(sentences, meta)}, nil
	}

	embeddings, err := c.embedSentences(ctx, sentences)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrEmbedding, err)
	}

	similarities, err := PairwiseSimilarities(embeddings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrSimilarity, err)
	}

	boundaries := DetectBoundaries(similarities, c.cfg)

	return assembleChunks(sentences, boundaries, embeddings, c.cfg, meta), nil
}

// singleChunk emits the whole document as one chunk with the conventional
// self-similarity of 1.0.
func singleChunk(sentences []string, meta types.ChunkMetadata) types.SemanticChunk {
	chunk := types.SemanticChunk{
		Content:       strings.Join(sentences, " "),
		ChunkIndex:    0,
		TotalChunks:   1,
		StartSentence: 0,
		EndSentence:   len(sentences),
		AvgSimilarity: 1.0,
		Metadata:      meta,
	}
	chunk.ComputeCounts()
	return chunk
}

// embedSentences requests embeddings in batches of cfg.EmbeddingBatchSize.
// Batches run concurrently but every result lands in its index-aligned
// slot, so the returned list matches the sentence order exactly. The first
// provider failure aborts the document; there is no internal retry.
func (c *Chunker) embedSentences(ctx context.Context, sentences []string) ([][]float64, error) {
	embeddings := make([][]float64, len(sentences))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentBatches)

	for start := 0; start < len(sentences); start += c.cfg.EmbeddingBatchSize {
		end := start + c.cfg.EmbeddingBatchSize
		if end > len(sentences) {
			end = len(sentences)
		}

		g.Go(func() error {
			vectors, err := c.provider.EmbedBatch(gctx, c.cfg.ModelName, sentences[start:end])
			if err != nil {
				return fmt.Errorf("sentences %d-%d: %w", start, end, err)
			}
			if len(vectors) != end-start {
				return fmt.Errorf("sentences %d-%d: provider returned %d embeddings for %d texts",
					start, end, len(vectors), end-start)
			}
			copy(embeddings[start:end], vectors)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return embeddings, nil
}
