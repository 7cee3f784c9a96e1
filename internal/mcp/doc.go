// Package mcp implements the Model Context Protocol (MCP) server for
// semantic document chunking.
//
// The server exposes four tools to AI assistants:
//   - chunk_document: Split text into semantic chunks without persisting
//   - index_corpus: Index a directory of documents for search
//   - search_chunks: Search indexed chunks with natural language queries
//   - get_status: Check indexing status and statistics
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server reads protocol messages on stdin and writes responses to
// stdout, so all logging goes to stderr.
//
// # Tool: chunk_document
//
// Chunk a document and return the result directly:
//
//	Request:
//	{
//	  "name": "chunk_document",
//	  "arguments": {
//	    "content": "First topic sentence. Another sentence. New topic begins here.",
//	    "similarity_threshold": 0.75,
//	    "max_chunk_sentences": 12
//	  }
//	}
//
//	Response:
//	{
//	  "total_chunks": 2,
//	  "chunks": [
//	    {
//	      "content": "First topic sentence. Another sentence.",
//	      "chunk_index": 0,
//	      "total_chunks": 2,
//	      "start_sentence": 0,
//	      "end_sentence": 2,
//	      "avg_similarity": 0.91,
//	      "word_count": 6,
//	      "char_count": 39
//	    },
//	    ...
//	  ]
//	}
//
// Configuration arguments are optional; omitted ones fall back to the
// server defaults. Nothing is written to storage.
//
// # Tool: index_corpus
//
// Index a directory of .md, .markdown, and .txt files:
//
//	Request:
//	{
//	  "name": "index_corpus",
//	  "arguments": {"path": "/docs/handbook"}
//	}
//
//	Response:
//	{
//	  "indexed": true,
//	  "documents_indexed": 42,
//	  "documents_skipped": 3,
//	  "chunks_created": 317,
//	  "duration_ms": 5400
//	}
//
// Unchanged documents (by content hash) are skipped. Only one indexing
// operation may run at a time; concurrent requests fail with error code
// -32002 rather than queueing.
//
// # Tool: search_chunks
//
// Search an indexed corpus:
//
//	Request:
//	{
//	  "name": "search_chunks",
//	  "arguments": {
//	    "path": "/docs/handbook",
//	    "query": "rotating credentials",
//	    "search_mode": "hybrid",
//	    "limit": 10,
//	    "filters": {"categories": ["security"]}
//	  }
//	}
//
// Results carry the chunk content, its sentence range and internal
// cohesion score, document metadata, and the fused relevance score.
//
// # Tool: get_status
//
// Report corpus statistics and index health for a path. An unindexed
// path returns {"indexed": false} rather than an error.
//
// # Error Codes
//
// Standard JSON-RPC codes plus application codes:
//
//	-32602  invalid parameters
//	-32603  internal error
//	-32001  corpus path missing or unreadable
//	-32002  indexing already in progress
//	-32003  corpus not indexed
//	-32004  empty query
package mcp
