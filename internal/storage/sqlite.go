package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when trying to create a duplicate entity
	ErrAlreadyExists = errors.New("already exists")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, storage: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

func (t *sqliteTx) querier() querier {
	return t.tx
}

func (s *SQLiteStorage) querier() querier {
	return s.db
}

// Corpus operations

func (s *SQLiteStorage) createCorpusWithQuerier(ctx context.Context, q querier, corpus *Corpus) error {
	query := `
		INSERT INTO corpora (root_path, name, index_version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		corpus.RootPath, corpus.Name, corpus.IndexVersion, now, now)
	if err != nil {
		return fmt.Errorf("failed to create corpus: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	corpus.ID = id
	corpus.CreatedAt = now
	corpus.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) CreateCorpus(ctx context.Context, corpus *Corpus) error {
	return s.createCorpusWithQuerier(ctx, s.querier(), corpus)
}

const corpusColumns = `id, root_path, name, total_documents, total_chunks,
	       index_version, last_indexed_at, created_at, updated_at`

func scanCorpus(row *sql.Row) (*Corpus, error) {
	var corpus Corpus
	var lastIndexedAt sql.NullTime
	err := row.Scan(
		&corpus.ID, &corpus.RootPath, &corpus.Name,
		&corpus.TotalDocuments, &corpus.TotalChunks, &corpus.IndexVersion,
		&lastIndexedAt, &corpus.CreatedAt, &corpus.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastIndexedAt.Valid {
		corpus.LastIndexedAt = lastIndexedAt.Time
	}
	return &corpus, nil
}

func (s *SQLiteStorage) getCorpusWithQuerier(ctx context.Context, q querier, rootPath string) (*Corpus, error) {
	query := `SELECT ` + corpusColumns + ` FROM corpora WHERE root_path = ?`
	return scanCorpus(q.QueryRowContext(ctx, query, rootPath))
}

func (s *SQLiteStorage) GetCorpus(ctx context.Context, rootPath string) (*Corpus, error) {
	return s.getCorpusWithQuerier(ctx, s.querier(), rootPath)
}

func (s *SQLiteStorage) getCorpusByIDWithQuerier(ctx context.Context, q querier, corpusID int64) (*Corpus, error) {
	query := `SELECT ` + corpusColumns + ` FROM corpora WHERE id = ?`
	return scanCorpus(q.QueryRowContext(ctx, query, corpusID))
}

func (s *SQLiteStorage) GetCorpusByID(ctx context.Context, corpusID int64) (*Corpus, error) {
	return s.getCorpusByIDWithQuerier(ctx, s.querier(), corpusID)
}

func (s *SQLiteStorage) updateCorpusWithQuerier(ctx context.Context, q querier, corpus *Corpus) error {
	query := `
		UPDATE corpora
		SET name = ?, total_documents = ?, total_chunks = ?,
		    last_indexed_at = ?, updated_at = ?
		WHERE id = ?
	`
	now := time.Now()
	_, err := q.ExecContext(ctx, query,
		corpus.Name, corpus.TotalDocuments, corpus.TotalChunks,
		corpus.LastIndexedAt, now, corpus.ID)
	if err != nil {
		return fmt.Errorf("failed to update corpus: %w", err)
	}
	corpus.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpdateCorpus(ctx context.Context, corpus *Corpus) error {
	return s.updateCorpusWithQuerier(ctx, s.querier(), corpus)
}

// Document operations

func (s *SQLiteStorage) upsertDocumentWithQuerier(ctx context.Context, q querier, doc *Document) error {
	query := `
		INSERT INTO documents (corpus_id, file_path, title, category, content_hash,
			mod_time, size_bytes, sentence_count, chunk_count,
			last_indexed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(corpus_id, file_path) DO UPDATE SET
			title = excluded.title,
			category = excluded.category,
			content_hash = excluded.content_hash,
			mod_time = excluded.mod_time,
			size_bytes = excluded.size_bytes,
			sentence_count = excluded.sentence_count,
			chunk_count = excluded.chunk_count,
			last_indexed_at = excluded.last_indexed_at,
			updated_at = excluded.updated_at
		RETURNING id
	`
	now := time.Now()
	err := q.QueryRowContext(ctx, query,
		doc.CorpusID, doc.FilePath, doc.Title, doc.Category, doc.ContentHash[:],
		doc.ModTime, doc.SizeBytes, doc.SentenceCount, doc.ChunkCount,
		now, now, now).Scan(&doc.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	doc.LastIndexedAt = now
	doc.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpsertDocument(ctx context.Context, doc *Document) error {
	return s.upsertDocumentWithQuerier(ctx, s.querier(), doc)
}

const documentColumns = `id, corpus_id, file_path, title, category, content_hash,
	       mod_time, size_bytes, sentence_count, chunk_count,
	       last_indexed_at, created_at, updated_at`

func scanDocumentRow(scan func(dest ...interface{}) error) (*Document, error) {
	var doc Document
	var hash []byte
	err := scan(
		&doc.ID, &doc.CorpusID, &doc.FilePath, &doc.Title, &doc.Category,
		&hash, &doc.ModTime, &doc.SizeBytes, &doc.SentenceCount, &doc.ChunkCount,
		&doc.LastIndexedAt, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	copy(doc.ContentHash[:], hash)
	return &doc, nil
}

func (s *SQLiteStorage) getDocumentWithQuerier(ctx context.Context, q querier, corpusID int64, filePath string) (*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE corpus_id = ? AND file_path = ?`
	doc, err := scanDocumentRow(q.QueryRowContext(ctx, query, corpusID, filePath).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return doc, err
}

func (s *SQLiteStorage) GetDocument(ctx context.Context, corpusID int64, filePath string) (*Document, error) {
	return s.getDocumentWithQuerier(ctx, s.querier(), corpusID, filePath)
}

func (s *SQLiteStorage) getDocumentByIDWithQuerier(ctx context.Context, q querier, docID int64) (*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = ?`
	doc, err := scanDocumentRow(q.QueryRowContext(ctx, query, docID).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return doc, err
}

func (s *SQLiteStorage) GetDocumentByID(ctx context.Context, docID int64) (*Document, error) {
	return s.getDocumentByIDWithQuerier(ctx, s.querier(), docID)
}

func (s *SQLiteStorage) deleteDocumentWithQuerier(ctx context.Context, q querier, docID int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, docID)
	return err
}

func (s *SQLiteStorage) DeleteDocument(ctx context.Context, docID int64) error {
	return s.deleteDocumentWithQuerier(ctx, s.querier(), docID)
}

func (s *SQLiteStorage) listDocumentsWithQuerier(ctx context.Context, q querier, corpusID int64) ([]*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE corpus_id = ? ORDER BY file_path`
	rows, err := q.QueryContext(ctx, query, corpusID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	docs := make([]*Document, 0)
	for rows.Next() {
		doc, err := scanDocumentRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *SQLiteStorage) ListDocuments(ctx context.Context, corpusID int64) ([]*Document, error) {
	return s.listDocumentsWithQuerier(ctx, s.querier(), corpusID)
}

// Chunk operations

func (s *SQLiteStorage) upsertChunkWithQuerier(ctx context.Context, q querier, chunk *Chunk) error {
	query := `
		INSERT INTO chunks (
			document_id, chunk_index, total_chunks, content, content_hash,
			start_sentence, end_sentence, avg_similarity,
			word_count, char_count, keywords,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(document_id, chunk_index)
		DO UPDATE SET
			total_chunks = excluded.total_chunks,
			content = excluded.content,
			content_hash = excluded.content_hash,
			start_sentence = excluded.start_sentence,
			end_sentence = excluded.end_sentence,
			avg_similarity = excluded.avg_similarity,
			word_count = excluded.word_count,
			char_count = excluded.char_count,
			keywords = excluded.keywords,
			updated_at = excluded.updated_at
		RETURNING id, created_at, updated_at
	`
	now := time.Now()
	err := q.QueryRowContext(ctx, query,
		chunk.DocumentID, chunk.ChunkIndex, chunk.TotalChunks,
		chunk.Content, chunk.ContentHash[:],
		chunk.StartSentence, chunk.EndSentence, chunk.AvgSimilarity,
		chunk.WordCount, chunk.CharCount, encodeKeywords(chunk.Keywords),
		now, now,
	).Scan(&chunk.ID, &chunk.CreatedAt, &chunk.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert chunk: %w", err)
	}

	return nil
}

func (s *SQLiteStorage) UpsertChunk(ctx context.Context, chunk *Chunk) error {
	return s.upsertChunkWithQuerier(ctx, s.querier(), chunk)
}

const chunkColumns = `id, document_id, chunk_index, total_chunks, content, content_hash,
	       start_sentence, end_sentence, avg_similarity,
	       word_count, char_count, keywords, created_at, updated_at`

func scanChunkRow(scan func(dest ...interface{}) error) (*Chunk, error) {
	var chunk Chunk
	var hash []byte
	var keywords string
	err := scan(
		&chunk.ID, &chunk.DocumentID, &chunk.ChunkIndex, &chunk.TotalChunks,
		&chunk.Content, &hash,
		&chunk.StartSentence, &chunk.EndSentence, &chunk.AvgSimilarity,
		&chunk.WordCount, &chunk.CharCount, &keywords,
		&chunk.CreatedAt, &chunk.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	copy(chunk.ContentHash[:], hash)
	chunk.Keywords = decodeKeywords(keywords)
	return &chunk, nil
}

func (s *SQLiteStorage) getChunkWithQuerier(ctx context.Context, q querier, chunkID int64) (*Chunk, error) {
	query := `SELECT ` + chunkColumns + ` FROM chunks WHERE id = ?`
	chunk, err := scanChunkRow(q.QueryRowContext(ctx, query, chunkID).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return chunk, err
}

func (s *SQLiteStorage) GetChunk(ctx context.Context, chunkID int64) (*Chunk, error) {
	return s.getChunkWithQuerier(ctx, s.querier(), chunkID)
}

func (s *SQLiteStorage) listChunksByDocumentWithQuerier(ctx context.Context, q querier, docID int64) ([]*Chunk, error) {
	query := `SELECT ` + chunkColumns + ` FROM chunks WHERE document_id = ? ORDER BY chunk_index`
	rows, err := q.QueryContext(ctx, query, docID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	chunks := make([]*Chunk, 0)
	for rows.Next() {
		chunk, err := scanChunkRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

func (s *SQLiteStorage) ListChunksByDocument(ctx context.Context, docID int64) ([]*Chunk, error) {
	return s.listChunksByDocumentWithQuerier(ctx, s.querier(), docID)
}

func (s *SQLiteStorage) deleteChunksByDocumentWithQuerier(ctx context.Context, q querier, docID int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM chunks WHERE document_id = ?`, docID)
	return err
}

func (s *SQLiteStorage) DeleteChunksByDocument(ctx context.Context, docID int64) error {
	return s.deleteChunksByDocumentWithQuerier(ctx, s.querier(), docID)
}

// Embedding operations

func (s *SQLiteStorage) upsertEmbeddingWithQuerier(ctx context.Context, q querier, embedding *Embedding) error {
	query := `
		INSERT INTO embeddings (chunk_id, vector, dimension, provider, model, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(chunk_id) DO UPDATE SET
			vector = excluded.vector,
			dimension = excluded.dimension,
			provider = excluded.provider,
			model = excluded.model
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		embedding.ChunkID, embedding.Vector, embedding.Dimension,
		embedding.Provider, embedding.Model, now)
	if err != nil {
		return fmt.Errorf("failed to upsert embedding: %w", err)
	}

	if embedding.ID == 0 {
		id, err := result.LastInsertId()
		if err == nil {
			embedding.ID = id
		}
	}

	embedding.CreatedAt = now
	return nil
}

func (s *SQLiteStorage) UpsertEmbedding(ctx context.Context, embedding *Embedding) error {
	return s.upsertEmbeddingWithQuerier(ctx, s.querier(), embedding)
}

func (s *SQLiteStorage) getEmbeddingWithQuerier(ctx context.Context, q querier, chunkID int64) (*Embedding, error) {
	query := `
		SELECT id, chunk_id, vector, dimension, provider, model, created_at
		FROM embeddings
		WHERE chunk_id = ?
	`
	var embedding Embedding
	err := q.QueryRowContext(ctx, query, chunkID).Scan(
		&embedding.ID, &embedding.ChunkID, &embedding.Vector,
		&embedding.Dimension, &embedding.Provider, &embedding.Model,
		&embedding.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &embedding, nil
}

func (s *SQLiteStorage) GetEmbedding(ctx context.Context, chunkID int64) (*Embedding, error) {
	return s.getEmbeddingWithQuerier(ctx, s.querier(), chunkID)
}

func (s *SQLiteStorage) deleteEmbeddingWithQuerier(ctx context.Context, q querier, chunkID int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM embeddings WHERE chunk_id = ?`, chunkID)
	return err
}

func (s *SQLiteStorage) DeleteEmbedding(ctx context.Context, chunkID int64) error {
	return s.deleteEmbeddingWithQuerier(ctx, s.querier(), chunkID)
}

// Search operations

func (s *SQLiteStorage) SearchVector(ctx context.Context, corpusID int64, queryVector []float64, limit int, filters *SearchFilters) ([]VectorResult, error) {
	return searchVector(ctx, s.db, corpusID, queryVector, limit, filters)
}

func (s *SQLiteStorage) SearchText(ctx context.Context, corpusID int64, query string, limit int, filters *SearchFilters) ([]TextResult, error) {
	return searchText(ctx, s.db, corpusID, query, limit, filters)
}

// Status operations

func (s *SQLiteStorage) GetStatus(ctx context.Context, corpusID int64) (*CorpusStatus, error) {
	corpus, err := s.GetCorpusByID(ctx, corpusID)
	if err != nil {
		return nil, err
	}

	status := &CorpusStatus{
		Corpus:        corpus,
		LastIndexedAt: corpus.LastIndexedAt,
	}

	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents WHERE corpus_id = ?", corpusID).Scan(&status.DocumentsCount)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM chunks c
		JOIN documents d ON c.document_id = d.id
		WHERE d.corpus_id = ?
	`, corpusID).Scan(&status.ChunksCount)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM embeddings e
		JOIN chunks c ON e.chunk_id = c.id
		JOIN documents d ON c.document_id = d.id
		WHERE d.corpus_id = ?
	`, corpusID).Scan(&status.EmbeddingsCount)
	if err != nil {
		return nil, err
	}

	var pageCount, pageSize int
	err = s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount)
	if err == nil {
		_ = s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize)
		status.IndexSizeMB = float64(pageCount*pageSize) / (1024 * 1024)
	}

	status.Health = HealthStatus{
		DatabaseAccessible:  true,
		EmbeddingsAvailable: status.EmbeddingsCount > 0,
		FTSIndexesBuilt:     true, // FTS indexes are created with migrations
	}

	return status, nil
}

// Transaction implementations delegate to the shared querier helpers.

func (t *sqliteTx) CreateCorpus(ctx context.Context, corpus *Corpus) error {
	return t.storage.createCorpusWithQuerier(ctx, t.querier(), corpus)
}

func (t *sqliteTx) GetCorpus(ctx context.Context, rootPath string) (*Corpus, error) {
	return t.storage.getCorpusWithQuerier(ctx, t.querier(), rootPath)
}

func (t *sqliteTx) GetCorpusByID(ctx context.Context, corpusID int64) (*Corpus, error) {
	return t.storage.getCorpusByIDWithQuerier(ctx, t.querier(), corpusID)
}

func (t *sqliteTx) UpdateCorpus(ctx context.Context, corpus *Corpus) error {
	return t.storage.updateCorpusWithQuerier(ctx, t.querier(), corpus)
}

func (t *sqliteTx) UpsertDocument(ctx context.Context, doc *Document) error {
	return t.storage.upsertDocumentWithQuerier(ctx, t.querier(), doc)
}

func (t *sqliteTx) GetDocument(ctx context.Context, corpusID int64, filePath string) (*Document, error) {
	return t.storage.getDocumentWithQuerier(ctx, t.querier(), corpusID, filePath)
}

func (t *sqliteTx) GetDocumentByID(ctx context.Context, docID int64) (*Document, error) {
	return t.storage.getDocumentByIDWithQuerier(ctx, t.querier(), docID)
}

func (t *sqliteTx) DeleteDocument(ctx context.Context, docID int64) error {
	return t.storage.deleteDocumentWithQuerier(ctx, t.querier(), docID)
}

func (t *sqliteTx) ListDocuments(ctx context.Context, corpusID int64) ([]*Document, error) {
	return t.storage.listDocumentsWithQuerier(ctx, t.querier(), corpusID)
}

func (t *sqliteTx) UpsertChunk(ctx context.Context, chunk *Chunk) error {
	return t.storage.upsertChunkWithQuerier(ctx, t.querier(), chunk)
}

func (t *sqliteTx) GetChunk(ctx context.Context, chunkID int64) (*Chunk, error) {
	return t.storage.getChunkWithQuerier(ctx, t.querier(), chunkID)
}

func (t *sqliteTx) ListChunksByDocument(ctx context.Context, docID int64) ([]*Chunk, error) {
	return t.storage.listChunksByDocumentWithQuerier(ctx, t.querier(), docID)
}

func (t *sqliteTx) DeleteChunksByDocument(ctx context.Context, docID int64) error {
	return t.storage.deleteChunksByDocumentWithQuerier(ctx, t.querier(), docID)
}

func (t *sqliteTx) UpsertEmbedding(ctx context.Context, embedding *Embedding) error {
	return t.storage.upsertEmbeddingWithQuerier(ctx, t.querier(), embedding)
}

func (t *sqliteTx) GetEmbedding(ctx context.Context, chunkID int64) (*Embedding, error) {
	return t.storage.getEmbeddingWithQuerier(ctx, t.querier(), chunkID)
}

func (t *sqliteTx) DeleteEmbedding(ctx context.Context, chunkID int64) error {
	return t.storage.deleteEmbeddingWithQuerier(ctx, t.querier(), chunkID)
}

func (t *sqliteTx) SearchVector(ctx context.Context, corpusID int64, vector []float64, limit int, filters *SearchFilters) ([]VectorResult, error) {
	return t.storage.SearchVector(ctx, corpusID, vector, limit, filters)
}

func (t *sqliteTx) SearchText(ctx context.Context, corpusID int64, query string, limit int, filters *SearchFilters) ([]TextResult, error) {
	return t.storage.SearchText(ctx, corpusID, query, limit, filters)
}

func (t *sqliteTx) GetStatus(ctx context.Context, corpusID int64) (*CorpusStatus, error) {
	return t.storage.GetStatus(ctx, corpusID)
}

func (t *sqliteTx) Close() error {
	// Transactions don't close the underlying connection
	return nil
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	// SQLite does not support true nested transactions
	return nil, errors.New("nested transactions not supported")
}
