// Package indexer coordinates the end-to-end ingestion pipeline for document
// corpora.
//
// The indexer orchestrates discovery, chunking, embedding, and storage,
// managing concurrency and error handling for whole-directory ingestion.
//
// # Basic Usage
//
//	idx := indexer.New(store, engine, emb)
//
//	stats, err := idx.IndexCorpus(ctx, "/path/to/docs", nil)
//
//	fmt.Printf("Indexed %d documents in %v\n", stats.DocumentsIndexed, stats.Duration)
//
// # Ingestion Pipeline
//
// The indexer executes a multi-stage pipeline:
//
//  1. Discovery: find .md, .markdown, and .txt files, skipping hidden dirs
//  2. Incremental decision: compare content hashes, skip unchanged documents
//  3. Chunk: split documents into semantic chunks (parallel across batches)
//  4. Embed: generate a retrieval vector per chunk in provider batches
//  5. Store: persist documents, chunks, and embeddings in transactions
//
// # Incremental Indexing
//
// Re-running IndexCorpus only processes changed documents. Change detection
// uses SHA-256 content hashing, so touching a file without editing it does
// not trigger a re-chunk. Changed documents have their old chunks deleted
// before the new ones are written.
//
// # Failure Handling
//
// A document that fails to chunk or embed is recorded in
// Statistics.ErrorMessages and counted as failed; the rest of its batch
// continues. Nothing is written for a failed document, so its stored hash
// stays stale and the next run retries it. Context cancellation aborts the
// whole run.
package indexer
