package indexer

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/semchunk-mcp/internal/chunker"
	"github.com/dshills/semchunk-mcp/internal/embedder"
	"github.com/dshills/semchunk-mcp/internal/storage"
	"github.com/dshills/semchunk-mcp/pkg/types"
)

// defaultExtensions are the document types indexed when none are configured
var defaultExtensions = []string{".md", ".markdown", ".txt"}

// Indexer coordinates the ingestion pipeline: discover -> chunk -> store
type Indexer struct {
	engine   *chunker.Chunker
	embedder embedder.Embedder
	storage  storage.Storage

	// Worker pool configuration
	workers int
}

// Config contains configuration for the indexer
type Config struct {
	Workers       int      // Number of concurrent workers (default: runtime.NumCPU())
	BatchSize     int      // Number of documents to commit per transaction (default: 20)
	Extensions    []string // File extensions to index (default: .md, .markdown, .txt)
	IncludeHidden bool     // Whether to descend into hidden directories (default: false)
}

// Statistics contains statistics about an indexing operation
type Statistics struct {
	DocumentsIndexed int
	DocumentsSkipped int
	DocumentsFailed  int
	ChunksCreated    int
	Duration         time.Duration
	ErrorMessages    []string
}

// New creates a new Indexer instance
func New(store storage.Storage, engine *chunker.Chunker, emb embedder.Embedder) *Indexer {
	return &Indexer{
		engine:   engine,
		embedder: emb,
		storage:  store,
		workers:  runtime.NumCPU(),
	}
}

// IndexCorpus indexes every matching document under rootPath
func (idx *Indexer) IndexCorpus(ctx context.Context, rootPath string, config *Config) (*Statistics, error) {
	if config == nil {
		config = &Config{}
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 20
	}
	if len(config.Extensions) == 0 {
		config.Extensions = defaultExtensions
	}
	idx.workers = config.Workers

	startTime := time.Now()
	stats := &Statistics{
		ErrorMessages: make([]string, 0),
	}

	corpus, err := idx.getOrCreateCorpus(ctx, rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create corpus: %w", err)
	}

	docs, err := idx.discoverDocuments(rootPath, config)
	if err != nil {
		return nil, fmt.Errorf("failed to discover documents: %w", err)
	}

	if err := idx.indexDocuments(ctx, corpus, docs, config, stats); err != nil {
		return nil, fmt.Errorf("failed to index documents: %w", err)
	}

	if err := idx.updateCorpusStats(ctx, corpus); err != nil {
		return nil, fmt.Errorf("failed to update corpus stats: %w", err)
	}

	stats.Duration = time.Since(startTime)
	return stats, nil
}

// getOrCreateCorpus retrieves an existing corpus or creates a new one
func (idx *Indexer) getOrCreateCorpus(ctx context.Context, rootPath string) (*storage.Corpus, error) {
	corpus, err := idx.storage.GetCorpus(ctx, rootPath)
	if err == nil {
		return corpus, nil
	}

	if err != storage.ErrNotFound {
		return nil, err
	}

	corpus = &storage.Corpus{
		RootPath:     rootPath,
		Name:         filepath.Base(rootPath),
		IndexVersion: storage.CurrentSchemaVersion,
	}

	if err := idx.storage.CreateCorpus(ctx, corpus); err != nil {
		return nil, err
	}

	return corpus, nil
}

// discoverDocuments finds all matching documents under the corpus root
func (idx *Indexer) discoverDocuments(rootPath string, config *Config) ([]string, error) {
	var docs []string

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if !config.IncludeHidden && strings.HasPrefix(info.Name(), ".") && path != rootPath {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		for _, want := range config.Extensions {
			if ext == want {
				docs = append(docs, path)
				return nil
			}
		}
		return nil
	})

	return docs, err
}

// indexDocuments indexes documents concurrently in per-batch transactions
func (idx *Indexer) indexDocuments(ctx context.Context, corpus *storage.Corpus, docs []string, config *Config, stats *Statistics) error {
	var (
		indexed int32
		skipped int32
		failed  int32
		chunks  int32
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.workers)
	var mu sync.Mutex // Protects stats.ErrorMessages

	for i := 0; i < len(docs); i += config.BatchSize {
		end := i + config.BatchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[i:end]

		g.Go(func() error {
			return idx.indexBatch(gctx, corpus, batch, &indexed, &skipped, &failed, &chunks, &mu, stats)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	stats.DocumentsIndexed = int(indexed)
	stats.DocumentsSkipped = int(skipped)
	stats.DocumentsFailed = int(failed)
	stats.ChunksCreated = int(chunks)

	return nil
}

// indexBatch indexes a batch of documents within one transaction
func (idx *Indexer) indexBatch(ctx context.Context, corpus *storage.Corpus, docs []string,
	indexed, skipped, failed, chunks *int32, mu *sync.Mutex, stats *Statistics) error {

	tx, err := idx.storage.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, docPath := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := idx.indexDocument(ctx, tx, corpus, docPath, indexed, skipped, chunks)
		if err != nil {
			atomic.AddInt32(failed, 1)
			mu.Lock()
			stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %v", docPath, err))
			mu.Unlock()
			// Continue with other documents
			continue
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// indexDocument chunks and stores a single document
func (idx *Indexer) indexDocument(ctx context.Context, store storage.Storage, corpus *storage.Corpus,
	docPath string, indexed, skipped, chunks *int32) error {

	relPath, err := filepath.Rel(corpus.RootPath, docPath)
	if err != nil {
		return err
	}

	content, modTime, err := readDocument(docPath)
	if err != nil {
		return err
	}
	hash := sha256.Sum256(content)

	existing, err := idx.lookupDocument(ctx, store, corpus.ID, relPath)
	if err != nil {
		return err
	}
	if existing != nil && existing.ContentHash == hash {
		atomic.AddInt32(skipped, 1)
		return nil
	}

	title := extractTitle(string(content), relPath)
	category := extractCategory(relPath)

	meta := types.ChunkMetadata{
		SourceFile: relPath,
		Title:      title,
		Category:   category,
	}

	// Everything fallible runs before the first write. A document that
	// fails to chunk or embed leaves its stored record untouched, so the
	// next run sees the old hash and retries it.
	semanticChunks, err := idx.engine.ChunkDocument(ctx, string(content), meta)
	if err != nil {
		return fmt.Errorf("failed to chunk document: %w", err)
	}

	chunkVectors, err := idx.embedChunks(ctx, semanticChunks)
	if err != nil {
		return fmt.Errorf("failed to embed chunks: %w", err)
	}

	if existing != nil {
		// Stale chunks would survive a re-chunk that yields fewer chunks,
		// so clear them before writing the new set.
		if err := store.DeleteChunksByDocument(ctx, existing.ID); err != nil {
			return fmt.Errorf("failed to delete old chunks: %w", err)
		}
	}

	doc := &storage.Document{
		CorpusID:    corpus.ID,
		FilePath:    relPath,
		Title:       title,
		Category:    category,
		ContentHash: hash,
		ModTime:     modTime,
		SizeBytes:   int64(len(content)),
		ChunkCount:  len(semanticChunks),
	}
	if n := len(semanticChunks); n > 0 {
		doc.SentenceCount = semanticChunks[n-1].EndSentence
	}

	if err := store.UpsertDocument(ctx, doc); err != nil {
		return err
	}

	for i, sc := range semanticChunks {
		stored := storage.FromSemanticChunk(sc, doc.ID)
		if err := store.UpsertChunk(ctx, stored); err != nil {
			return fmt.Errorf("failed to store chunk: %w", err)
		}

		emb := &storage.Embedding{
			ChunkID:   stored.ID,
			Vector:    storage.SerializeVector(chunkVectors[i]),
			Dimension: len(chunkVectors[i]),
			Provider:  idx.embedder.Provider(),
			Model:     idx.embedder.Model(),
		}
		if err := store.UpsertEmbedding(ctx, emb); err != nil {
			return fmt.Errorf("failed to store embedding: %w", err)
		}
	}

	atomic.AddInt32(indexed, 1)
	atomic.AddInt32(chunks, int32(len(semanticChunks)))

	return nil
}

// embedChunks embeds chunk contents for retrieval, batching against the
// provider's request limit.
func (idx *Indexer) embedChunks(ctx context.Context, semanticChunks []types.SemanticChunk) ([][]float64, error) {
	vectors := make([][]float64, 0, len(semanticChunks))

	for start := 0; start < len(semanticChunks); start += embedder.MaxBatchSize {
		end := start + embedder.MaxBatchSize
		if end > len(semanticChunks) {
			end = len(semanticChunks)
		}

		texts := make([]string, 0, end-start)
		for _, sc := range semanticChunks[start:end] {
			texts = append(texts, sc.Content)
		}

		resp, err := idx.embedder.GenerateBatch(ctx, embedder.BatchEmbeddingRequest{Texts: texts})
		if err != nil {
			return nil, err
		}
		if len(resp.Embeddings) != len(texts) {
			return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
		}
		for _, emb := range resp.Embeddings {
			vectors = append(vectors, emb.Vector)
		}
	}

	return vectors, nil
}

// lookupDocument fetches the stored record for a document path. A nil
// result means the document has never been indexed.
func (idx *Indexer) lookupDocument(ctx context.Context, store storage.Storage, corpusID int64,
	relPath string) (*storage.Document, error) {

	existing, err := store.GetDocument(ctx, corpusID, relPath)
	if err == storage.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return existing, nil
}

// updateCorpusStats refreshes the corpus document and chunk counts
func (idx *Indexer) updateCorpusStats(ctx context.Context, corpus *storage.Corpus) error {
	docs, err := idx.storage.ListDocuments(ctx, corpus.ID)
	if err != nil {
		return err
	}

	totalChunks := 0
	for _, doc := range docs {
		totalChunks += doc.ChunkCount
	}

	corpus.TotalDocuments = len(docs)
	corpus.TotalChunks = totalChunks
	corpus.LastIndexedAt = time.Now()

	return idx.storage.UpdateCorpus(ctx, corpus)
}

// readDocument loads a document's content and modification time
func readDocument(path string) ([]byte, time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, time.Time{}, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, time.Time{}, err
	}

	return content, info.ModTime(), nil
}

// extractTitle returns the first markdown heading, falling back to the
// file name without extension.
func extractTitle(content, relPath string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
	}

	base := filepath.Base(relPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// extractCategory uses the document's top-level directory as its category.
// Documents at the corpus root have no category.
func extractCategory(relPath string) string {
	dir := filepath.Dir(relPath)
	if dir == "." {
		return ""
	}
	parts := strings.Split(filepath.ToSlash(dir), "/")
	return parts[0]
}
