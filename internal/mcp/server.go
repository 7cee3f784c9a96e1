package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/semchunk-mcp/internal/chunker"
	"github.com/dshills/semchunk-mcp/internal/embedder"
	"github.com/dshills/semchunk-mcp/internal/indexer"
	"github.com/dshills/semchunk-mcp/internal/searcher"
	"github.com/dshills/semchunk-mcp/internal/storage"
	"github.com/dshills/semchunk-mcp/pkg/types"
)

const (
	// ServerName is the MCP server name
	ServerName = "semchunk-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DefaultDBPath is the default location for the database
	DefaultDBPath = "~/.semchunk/indices"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	storage  storage.Storage
	embedder embedder.Embedder
	engine   *chunker.Chunker
	indexer  *indexer.Indexer
	searcher *searcher.Searcher

	// Rejects concurrent index_corpus invocations
	indexLock indexer.IndexLock
}

// NewServer creates a new MCP server instance
func NewServer(dbPath string) (*Server, error) {
	if dbPath == "" || dbPath == DefaultDBPath {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".semchunk", "indices")
	}

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// One database file for all corpora
	dbFile := filepath.Join(dbPath, "semchunk.db")

	store, err := storage.NewSQLiteStorage(dbFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	emb, err := embedder.NewFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	// The chunking engine and the chunk embeddings share one provider, so
	// sentence vectors cached during boundary detection are reused.
	engine, err := chunker.New(types.DefaultChunkerConfig(), embedder.NewAdapter(emb))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chunking engine: %w", err)
	}

	s := &Server{
		mcp:      server.NewMCPServer(ServerName, ServerVersion),
		storage:  store,
		embedder: emb,
		engine:   engine,
		indexer:  indexer.New(store, engine, emb),
		searcher: searcher.NewSearcher(store, emb),
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.storage.Close() }()
	defer func() { _ = s.embedder.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	s.mcp.AddTool(chunkDocumentTool(), s.handleChunkDocument)
	s.mcp.AddTool(indexCorpusTool(), s.handleIndexCorpus)
	s.mcp.AddTool(searchChunksTool(), s.handleSearchChunks)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
	return nil
}
