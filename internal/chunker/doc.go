// Package chunker detects semantic boundaries in documents and assembles
// sentences into retrievable chunks.
//
// Naive fixed-window chunking breaks sentences mid-thought and degrades
// retrieval relevance. This package instead cuts documents where meaning
// shifts, measured as a drop in cosine similarity between the embeddings of
// adjacent sentences.
//
// # Pipeline
//
//	text -> splitter -> sentences -> embedding provider (batched)
//	     -> pairwise similarities -> boundary detection -> chunk assembly
//
// # Basic Usage
//
//	c, err := chunker.New(types.DefaultChunkerConfig(), provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	chunks, err := c.ChunkDocument(ctx, content, types.ChunkMetadata{
//	    SourceFile: "docs/guide.md",
//	})
//
// # Boundary Thresholding
//
// Two signals combine into the effective cut threshold:
//
//   - the fixed SimilarityThreshold from configuration, and
//   - an adaptive percentile of the document's own similarity distribution.
//
// The lower of the two wins, so a boundary is emitted whenever either
// signal flags an adjacent pair as dissimilar. This trades precision for
// recall of topic shifts.
//
// # Assembly Constraints
//
// Boundary-delimited segments are consumed greedily, at most
// MaxChunkSentences per chunk. A trailing remainder shorter than
// MinChunkSentences stays a separate short chunk: attaching it anywhere
// else would either cross a detected boundary or break the maximum-size
// guarantee. Documents with fewer sentences than MinChunkSentences bypass
// embedding entirely and come back as a single whole-document chunk.
//
// # Guarantees
//
// For a given content, metadata, configuration, and provider output the
// result is deterministic. Chunk sentence ranges partition the sentence
// list exactly. On failure no partial output is returned and the error
// wraps the stage sentinel (types.ErrEmbedding, types.ErrSimilarity, ...)
// identifying where processing stopped. The chunker never retries the
// embedding provider; transient-failure policy belongs to the caller.
package chunker
