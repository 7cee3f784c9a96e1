package storage

import (
	"context"
	"strings"
	"time"

	"github.com/dshills/semchunk-mcp/pkg/types"
)

// Storage defines the interface for persisting and querying chunked documents
type Storage interface {
	// Corpus operations
	CreateCorpus(ctx context.Context, corpus *Corpus) error
	GetCorpus(ctx context.Context, rootPath string) (*Corpus, error)
	GetCorpusByID(ctx context.Context, corpusID int64) (*Corpus, error)
	UpdateCorpus(ctx context.Context, corpus *Corpus) error

	// Document operations
	UpsertDocument(ctx context.Context, doc *Document) error
	GetDocument(ctx context.Context, corpusID int64, filePath string) (*Document, error)
	GetDocumentByID(ctx context.Context, docID int64) (*Document, error)
	DeleteDocument(ctx context.Context, docID int64) error
	ListDocuments(ctx context.Context, corpusID int64) ([]*Document, error)

	// Chunk operations
	UpsertChunk(ctx context.Context, chunk *Chunk) error
	GetChunk(ctx context.Context, chunkID int64) (*Chunk, error)
	ListChunksByDocument(ctx context.Context, docID int64) ([]*Chunk, error)
	DeleteChunksByDocument(ctx context.Context, docID int64) error

	// Embedding operations
	UpsertEmbedding(ctx context.Context, embedding *Embedding) error
	GetEmbedding(ctx context.Context, chunkID int64) (*Embedding, error)
	DeleteEmbedding(ctx context.Context, chunkID int64) error

	// Search operations
	SearchVector(ctx context.Context, corpusID int64, vector []float64, limit int, filters *SearchFilters) ([]VectorResult, error)
	SearchText(ctx context.Context, corpusID int64, query string, limit int, filters *SearchFilters) ([]TextResult, error)

	// Status operations
	GetStatus(ctx context.Context, corpusID int64) (*CorpusStatus, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage // Embed Storage interface for transaction operations
}

// Corpus represents an indexed document collection
type Corpus struct {
	ID             int64
	RootPath       string
	Name           string
	TotalDocuments int
	TotalChunks    int
	IndexVersion   string
	LastIndexedAt  time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Document represents a tracked source document
type Document struct {
	ID            int64
	CorpusID      int64
	FilePath      string // Relative to corpus root
	Title         string
	Category      string
	ContentHash   [32]byte
	ModTime       time.Time
	SizeBytes     int64
	SentenceCount int
	ChunkCount    int
	LastIndexedAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Chunk represents a persisted semantic chunk
type Chunk struct {
	ID            int64
	DocumentID    int64
	ChunkIndex    int
	TotalChunks   int
	Content       string
	ContentHash   [32]byte
	StartSentence int
	EndSentence   int
	AvgSimilarity float64
	WordCount     int
	CharCount     int
	Keywords      []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Embedding represents a stored chunk embedding
type Embedding struct {
	ID        int64
	ChunkID   int64
	Vector    []byte // Serialized float64 array, little-endian
	Dimension int
	Provider  string
	Model     string
	CreatedAt time.Time
}

// SearchFilters contains filters for narrowing search results
type SearchFilters struct {
	Categories   []string // Filter by document category
	PathPattern  string   // Glob pattern for document paths
	MinRelevance float64  // Minimum relevance score
}

// VectorResult represents a result from vector similarity search
type VectorResult struct {
	ChunkID         int64
	SimilarityScore float64
}

// TextResult represents a result from full-text search
type TextResult struct {
	ChunkID   int64
	BM25Score float64
}

// CorpusStatus contains statistics about an indexed corpus
type CorpusStatus struct {
	Corpus          *Corpus
	DocumentsCount  int
	ChunksCount     int
	EmbeddingsCount int
	IndexSizeMB     float64
	LastIndexedAt   time.Time
	Health          HealthStatus
}

// HealthStatus represents the health of the index
type HealthStatus struct {
	DatabaseAccessible  bool
	EmbeddingsAvailable bool
	FTSIndexesBuilt     bool
}

// ToSemanticChunk converts a stored chunk back to its engine representation.
func (c *Chunk) ToSemanticChunk(doc *Document) types.SemanticChunk {
	meta := types.ChunkMetadata{
		Keywords:  c.Keywords,
		WordCount: c.WordCount,
		CharCount: c.CharCount,
	}
	if doc != nil {
		meta.SourceFile = doc.FilePath
		meta.Title = doc.Title
		meta.Category = doc.Category
	}
	return types.SemanticChunk{
		Content:       c.Content,
		ChunkIndex:    c.ChunkIndex,
		TotalChunks:   c.TotalChunks,
		StartSentence: c.StartSentence,
		EndSentence:   c.EndSentence,
		AvgSimilarity: c.AvgSimilarity,
		Metadata:      meta,
	}
}

// FromSemanticChunk converts an engine chunk to its stored representation.
func FromSemanticChunk(sc types.SemanticChunk, docID int64) *Chunk {
	return &Chunk{
		DocumentID:    docID,
		ChunkIndex:    sc.ChunkIndex,
		TotalChunks:   sc.TotalChunks,
		Content:       sc.Content,
		ContentHash:   sc.ContentHash(),
		StartSentence: sc.StartSentence,
		EndSentence:   sc.EndSentence,
		AvgSimilarity: sc.AvgSimilarity,
		WordCount:     sc.Metadata.WordCount,
		CharCount:     sc.Metadata.CharCount,
		Keywords:      sc.Metadata.Keywords,
	}
}

// encodeKeywords flattens a keyword list for storage. Keywords never contain
// the unit separator, so the encoding is unambiguous.
func encodeKeywords(keywords []string) string {
	return strings.Join(keywords, "\x1f")
}

func decodeKeywords(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "\x1f")
}
