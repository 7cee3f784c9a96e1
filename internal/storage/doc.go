// Package storage provides SQLite-based persistence for chunked documents.
//
// The storage layer manages:
//   - Corpus metadata
//   - Document information and content hashes
//   - Semantic chunks with sentence ranges and cohesion scores
//   - Vector embeddings
//   - Full-text search indexes
//
// # Database Schema
//
// Tables:
//   - corpora: Corpus metadata (root path, name)
//   - documents: Document paths, titles, categories, SHA-256 hashes
//   - chunks: Semantic chunks with sentence ranges
//   - embeddings: Vector embeddings for chunks
//   - chunks_fts: FTS5 full-text search index
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("~/.semchunk/indices/corpus.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	doc := &storage.Document{
//	    CorpusID:    corpusID,
//	    FilePath:    "guides/getting-started.md",
//	    Title:       "Getting Started",
//	    ContentHash: hash,
//	}
//	err = db.UpsertDocument(ctx, doc)
//
// # Transactions
//
// Use transactions so a document's chunks and embeddings land atomically:
//
//	tx, err := db.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback()
//
//	_ = tx.UpsertDocument(ctx, doc)
//	for _, chunk := range chunks {
//	    _ = tx.UpsertChunk(ctx, chunk)
//	}
//
//	if err := tx.Commit(); err != nil {
//	    return err
//	}
//
// # Incremental Updates
//
// Document content hashes let the indexer skip unchanged files: compare the
// stored hash with the on-disk hash before re-chunking.
//
// # Vector Search
//
// Embeddings are stored as little-endian float64 blobs. With the sqlite_vec
// build tag, similarity search runs inside SQLite; the purego build loads
// candidate vectors and ranks them in Go.
package storage
