package embedder

import (
	"context"
	"fmt"
)

// Adapter exposes an Embedder through the batch-of-vectors shape the
// chunking engine consumes.
type Adapter struct {
	emb Embedder
}

// NewAdapter wraps an Embedder for use by the chunking engine.
func NewAdapter(emb Embedder) *Adapter {
	return &Adapter{emb: emb}
}

// EmbedBatch embeds texts in order and returns one vector per input text.
func (a *Adapter) EmbedBatch(ctx context.Context, model string, texts []string) ([][]float64, error) {
	resp, err := a.emb.GenerateBatch(ctx, BatchEmbeddingRequest{
		Texts: texts,
		Model: model,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d",
			ErrProviderFailed, len(texts), len(resp.Embeddings))
	}

	vectors := make([][]float64, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil {
			return nil, fmt.Errorf("%w: missing embedding at index %d", ErrProviderFailed, i)
		}
		vectors[i] = emb.Vector
	}
	return vectors, nil
}

// Close releases the underlying embedder.
func (a *Adapter) Close() error {
	return a.emb.Close()
}
