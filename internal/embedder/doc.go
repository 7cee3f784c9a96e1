// Package embedder generates vector embeddings for sentences using various
// providers.
//
// The embedder supports multiple providers (Jina AI, OpenAI, local) and
// provides batching, caching, and retry handling for production use.
//
// # Basic Usage
//
//	// Create embedder (auto-detects provider from environment)
//	emb, err := embedder.NewFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer emb.Close()
//
//	// Generate single embedding
//	result, err := emb.GenerateEmbedding(ctx, embedder.EmbeddingRequest{
//	    Text: "Semantic chunking groups sentences by topic.",
//	})
//	fmt.Printf("Vector dimension: %d\n", len(result.Vector))
//
// # Batch Processing
//
// Sentence lists should always go through the batch API:
//
//	resp, err := emb.GenerateBatch(ctx, embedder.BatchEmbeddingRequest{
//	    Texts: sentences,
//	})
//
// Batching reduces API round trips; the chunking engine slices documents
// into batches and runs them concurrently.
//
// # Provider Selection
//
// The factory selects a provider based on environment variables:
//
//  1. If SEMCHUNK_EMBEDDING_PROVIDER is set → use the named provider
//  2. Else if JINA_API_KEY is set → use Jina AI
//  3. Else if OPENAI_API_KEY is set → use OpenAI
//  4. Else → fallback to the local provider (offline mode)
//
// The local provider derives deterministic vectors from sentence hashes.
// It keeps the pipeline runnable offline and in tests but carries no
// semantic signal, so chunk boundaries degrade to size-based splitting.
//
// # Caching
//
// Embeddings are cached in memory behind an LRU, keyed by a hash of the
// model name and sentence text. Re-chunking an edited document only pays
// for the sentences that changed.
//
// # Error Handling
//
// Transient API failures are retried with exponential backoff. Exhausted
// retries surface as ErrProviderFailed:
//
//	resp, err := emb.GenerateBatch(ctx, req)
//	if errors.Is(err, embedder.ErrProviderFailed) {
//	    // API unavailable, retry later
//	}
package embedder
