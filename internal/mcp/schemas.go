package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// chunkDocumentTool returns the tool definition for chunk_document
func chunkDocumentTool() mcp.Tool {
	return mcp.Tool{
		Name:        "chunk_document",
		Description: "Split a document into semantically coherent chunks without persisting anything",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Document text to chunk",
				},
				"source_file": map[string]interface{}{
					"type":        "string",
					"description": "Optional source path recorded in chunk metadata",
				},
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Optional document title recorded in chunk metadata",
				},
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Optional document category recorded in chunk metadata",
				},
				"similarity_threshold": map[string]interface{}{
					"type":        "number",
					"description": "Fixed boundary threshold (0.0-1.0); a boundary opens where adjacent-sentence similarity drops below the effective threshold",
					"minimum":     0.0,
					"maximum":     1.0,
				},
				"similarity_percentile": map[string]interface{}{
					"type":        "integer",
					"description": "Percentile (0-100) of observed similarities used as the adaptive threshold; the lower of fixed and adaptive wins",
					"minimum":     0,
					"maximum":     100,
				},
				"min_chunk_sentences": map[string]interface{}{
					"type":        "integer",
					"description": "Documents with fewer sentences are returned as a single chunk",
					"minimum":     1,
				},
				"max_chunk_sentences": map[string]interface{}{
					"type":        "integer",
					"description": "Hard cap on sentences per chunk",
					"minimum":     1,
				},
				"min_sentence_length": map[string]interface{}{
					"type":        "integer",
					"description": "Fragments shorter than this (in characters) are dropped during splitting",
					"minimum":     0,
				},
				"model_name": map[string]interface{}{
					"type":        "string",
					"description": "Embedding model override passed to the provider",
				},
			},
			Required: []string{"content"},
		},
	}
}

// indexCorpusTool returns the tool definition for index_corpus
func indexCorpusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_corpus",
		Description: "Index a directory of documents (.md, .markdown, .txt) to make them searchable",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the corpus root directory",
				},
				"include_hidden": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, descend into hidden directories",
					"default":     false,
				},
				"extensions": map[string]interface{}{
					"type":        "array",
					"description": "File extensions to index (default: .md, .markdown, .txt)",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"workers": map[string]interface{}{
					"type":        "integer",
					"description": "Number of concurrent indexing workers (default: number of CPUs)",
					"minimum":     1,
				},
			},
			Required: []string{"path"},
		},
	}
}

// searchChunksTool returns the tool definition for search_chunks
func searchChunksTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_chunks",
		Description: "Search indexed document chunks with natural language or keyword queries",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to an indexed corpus root",
				},
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query (natural language or keywords)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
				"search_mode": map[string]interface{}{
					"type":        "string",
					"description": "Search strategy: hybrid (vector + keyword), vector (semantic only), or keyword (BM25 only)",
					"enum":        []string{"hybrid", "vector", "keyword"},
					"default":     "hybrid",
				},
				"filters": map[string]interface{}{
					"type":        "object",
					"description": "Optional filters to narrow search",
					"properties": map[string]interface{}{
						"categories": map[string]interface{}{
							"type":        "array",
							"description": "Filter by document category (top-level directory name)",
							"items": map[string]interface{}{
								"type": "string",
							},
						},
						"path_pattern": map[string]interface{}{
							"type":        "string",
							"description": "Glob pattern for document paths (e.g., 'guides/*')",
						},
						"min_relevance": map[string]interface{}{
							"type":        "number",
							"description": "Minimum relevance score threshold (0.0-1.0)",
							"minimum":     0.0,
							"maximum":     1.0,
						},
					},
				},
			},
			Required: []string{"path", "query"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Query indexing status and statistics for a document corpus",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to a corpus root",
				},
			},
			Required: []string{"path"},
		},
	}
}
