package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/semchunk-mcp/internal/chunker"
	"github.com/dshills/semchunk-mcp/internal/embedder"
	"github.com/dshills/semchunk-mcp/internal/indexer"
	"github.com/dshills/semchunk-mcp/internal/searcher"
	"github.com/dshills/semchunk-mcp/internal/storage"
	"github.com/dshills/semchunk-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams      = -32602 // Invalid method parameters
	ErrorCodeInternalError      = -32603 // Internal JSON-RPC error
	ErrorCodeCorpusNotFound     = -32001 // Specified path is not a readable directory
	ErrorCodeIndexingInProgress = -32002 // Another indexing operation is already running
	ErrorCodeNotIndexed         = -32003 // Corpus not indexed
	ErrorCodeEmptyQuery         = -32004 // Query parameter is empty
)

// handleChunkDocument handles the chunk_document tool invocation. It runs
// the chunking engine on the supplied text and returns the chunks without
// touching storage.
func (s *Server) handleChunkDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	content, ok := args["content"].(string)
	if !ok || content == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "content parameter is required", map[string]interface{}{
			"param":  "content",
			"reason": "missing or empty",
		})
	}

	engine, err := s.engineForRequest(args)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid chunker configuration", map[string]interface{}{
			"reason": err.Error(),
		})
	}

	meta := types.ChunkMetadata{
		SourceFile: getStringDefault(args, "source_file", ""),
		Title:      getStringDefault(args, "title", ""),
		Category:   getStringDefault(args, "category", ""),
	}

	chunks, err := engine.ChunkDocument(ctx, content, meta)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "chunking failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	chunkList := make([]map[string]interface{}, len(chunks))
	for i, c := range chunks {
		chunkList[i] = map[string]interface{}{
			"content":        c.Content,
			"chunk_index":    c.ChunkIndex,
			"total_chunks":   c.TotalChunks,
			"start_sentence": c.StartSentence,
			"end_sentence":   c.EndSentence,
			"avg_similarity": c.AvgSimilarity,
			"word_count":     c.Metadata.WordCount,
			"char_count":     c.Metadata.CharCount,
		}
	}

	response := map[string]interface{}{
		"total_chunks": len(chunks),
		"chunks":       chunkList,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// engineForRequest returns the shared engine, or a request-scoped one when
// the arguments override the default configuration.
func (s *Server) engineForRequest(args map[string]interface{}) (*chunker.Chunker, error) {
	cfg := types.DefaultChunkerConfig()
	overridden := false

	if v, ok := args["similarity_threshold"].(float64); ok {
		cfg.SimilarityThreshold = v
		overridden = true
	}
	if v, ok := args["similarity_percentile"].(float64); ok {
		cfg.SimilarityPercentile = int(v)
		overridden = true
	}
	if v, ok := args["min_chunk_sentences"].(float64); ok {
		cfg.MinChunkSentences = int(v)
		overridden = true
	}
	if v, ok := args["max_chunk_sentences"].(float64); ok {
		cfg.MaxChunkSentences = int(v)
		overridden = true
	}
	if v, ok := args["min_sentence_length"].(float64); ok {
		cfg.MinSentenceLength = int(v)
		overridden = true
	}
	if v, ok := args["model_name"].(string); ok && v != "" {
		cfg.ModelName = v
		overridden = true
	}

	if !overridden {
		return s.engine, nil
	}

	return chunker.New(cfg, embedder.NewAdapter(s.embedder))
}

// handleIndexCorpus handles the index_corpus tool invocation
func (s *Server) handleIndexCorpus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	if err := validatePath(path); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	if !s.indexLock.TryAcquire() {
		return nil, newMCPError(ErrorCodeIndexingInProgress, "another indexing operation is already running", nil)
	}
	defer s.indexLock.Release()

	config := &indexer.Config{
		IncludeHidden: getBoolDefault(args, "include_hidden", false),
		Extensions:    getStringSlice(args, "extensions"),
	}
	if workers := getIntDefault(args, "workers", 0); workers > 0 {
		config.Workers = workers
	}

	stats, err := s.indexer.IndexCorpus(ctx, path, config)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "indexing failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Cached search responses may reference chunks replaced by this run
	s.searcher.InvalidateCache()

	response := map[string]interface{}{
		"indexed":           true,
		"documents_indexed": stats.DocumentsIndexed,
		"documents_skipped": stats.DocumentsSkipped,
		"documents_failed":  stats.DocumentsFailed,
		"chunks_created":    stats.ChunksCreated,
		"duration_ms":       stats.Duration.Milliseconds(),
	}

	if len(stats.ErrorMessages) > 0 {
		errorCount := len(stats.ErrorMessages)
		if errorCount > 5 {
			response["errors"] = stats.ErrorMessages[:5]
			response["error_count"] = errorCount
		} else {
			response["errors"] = stats.ErrorMessages
		}
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSearchChunks handles the search_chunks tool invocation
func (s *Server) handleSearchChunks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	if err := validatePath(path); err != nil {
		return nil, newMCPError(ErrorCodeCorpusNotFound, "invalid corpus path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	searchMode := getStringDefault(args, "search_mode", "hybrid")
	if searchMode != "hybrid" && searchMode != "vector" && searchMode != "keyword" {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid search_mode", map[string]interface{}{
			"param":   "search_mode",
			"value":   searchMode,
			"allowed": []string{"hybrid", "vector", "keyword"},
		})
	}

	corpus, err := s.storage.GetCorpus(ctx, path)
	if err == storage.ErrNotFound {
		return nil, newMCPError(ErrorCodeNotIndexed, "corpus not indexed", map[string]interface{}{
			"path":    path,
			"message": "Use the index_corpus tool to index this directory first.",
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to look up corpus", map[string]interface{}{
			"error": err.Error(),
		})
	}

	resp, err := s.searcher.Search(ctx, searcher.SearchRequest{
		CorpusID: corpus.ID,
		Query:    query,
		Limit:    limit,
		Mode:     searcher.SearchMode(searchMode),
		Filters:  parseSearchFilters(args),
		UseCache: true,
	})
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	results := make([]map[string]interface{}, len(resp.Results))
	for i, r := range resp.Results {
		entry := map[string]interface{}{
			"chunk_id":        r.ChunkID,
			"rank":            r.Rank,
			"relevance_score": r.RelevanceScore,
			"content":         r.Content,
			"avg_similarity":  r.AvgSimilarity,
			"start_sentence":  r.StartSentence,
			"end_sentence":    r.EndSentence,
		}
		if r.Document != nil {
			entry["document"] = map[string]interface{}{
				"path":     r.Document.Path,
				"title":    r.Document.Title,
				"category": r.Document.Category,
			}
		}
		results[i] = entry
	}

	response := map[string]interface{}{
		"total_results": resp.TotalResults,
		"search_mode":   string(resp.SearchMode),
		"duration_ms":   resp.Duration.Milliseconds(),
		"cache_hit":     resp.CacheHit,
		"results":       results,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	corpus, err := s.storage.GetCorpus(ctx, path)
	if err == storage.ErrNotFound {
		response := map[string]interface{}{
			"indexed": false,
			"path":    path,
			"message": "Corpus not indexed. Use the index_corpus tool to index this directory.",
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get corpus status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	status, err := s.storage.GetStatus(ctx, corpus.ID)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"indexed": true,
		"corpus": map[string]interface{}{
			"path":            corpus.RootPath,
			"name":            corpus.Name,
			"index_version":   corpus.IndexVersion,
			"last_indexed_at": corpus.LastIndexedAt.Format("2006-01-02T15:04:05Z07:00"),
		},
		"statistics": map[string]interface{}{
			"documents_count":  status.DocumentsCount,
			"chunks_count":     status.ChunksCount,
			"embeddings_count": status.EmbeddingsCount,
			"index_size_mb":    fmt.Sprintf("%.2f", status.IndexSizeMB),
		},
		"health": map[string]interface{}{
			"database_accessible":  status.Health.DatabaseAccessible,
			"embeddings_available": status.Health.EmbeddingsAvailable,
			"fts_indexes_built":    status.Health.FTSIndexesBuilt,
		},
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validatePath checks if a path is an absolute, readable directory
func validatePath(path string) error {
	if path == "" {
		return ErrPathRequired
	}

	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}

	if !info.IsDir() {
		return ErrNotDirectory
	}

	f, err := os.Open(path)
	if err != nil {
		return ErrPathNotReadable
	}
	_ = f.Close()

	return nil
}

// parseSearchFilters extracts the optional filters object
func parseSearchFilters(args map[string]interface{}) *storage.SearchFilters {
	raw, ok := args["filters"].(map[string]interface{})
	if !ok {
		return nil
	}

	filters := &storage.SearchFilters{
		PathPattern: getStringDefault(raw, "path_pattern", ""),
		Categories:  getStringSlice(raw, "categories"),
	}
	if v, ok := raw["min_relevance"].(float64); ok {
		filters.MinRelevance = v
	}

	return filters
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// getStringSlice extracts a string array parameter, nil when absent
func getStringSlice(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}

	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Validation helpers

var (
	ErrPathRequired    = errors.New("path is required")
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrNotDirectory    = errors.New("path is not a directory")
)
