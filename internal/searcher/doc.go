// Package searcher implements hybrid retrieval over indexed document chunks,
// combining vector similarity and keyword matching.
//
// Three search modes are available:
//   - Hybrid: vector + BM25 keyword search fused with RRF (recommended)
//   - Vector: pure semantic search using chunk embeddings
//   - Keyword: FTS5 BM25 full-text search only
//
// # Basic Usage
//
//	s := searcher.NewSearcher(store, emb)
//
//	resp, err := s.Search(ctx, searcher.SearchRequest{
//	    CorpusID: corpus.ID,
//	    Query:    "how do I configure retries",
//	    Limit:    10,
//	    Mode:     searcher.SearchModeHybrid,
//	})
//
//	for _, result := range resp.Results {
//	    fmt.Printf("[%d] %s (score: %.3f)\n",
//	        result.Rank, result.Document.Path, result.RelevanceScore)
//	}
//
// # Choosing a Mode
//
// Hybrid works best for most queries: the vector leg catches paraphrases
// while the keyword leg catches exact terms the embedding model dilutes.
// Vector mode suits purely conceptual queries, keyword mode suits exact
// phrases and proper nouns, and keyword mode is the only one that works
// without an embedding provider.
//
// In hybrid mode the two legs run concurrently; a single failing leg
// degrades the search rather than failing it.
//
// # Reciprocal Rank Fusion
//
// Hybrid mode merges the two ranked lists with RRF:
//
//	for each result r in vector results: score[r.chunk] += 1/(k + rank(r))
//	for each result r in text results:   score[r.chunk] += 1/(k + rank(r))
//	sort by score descending
//
// where k = 60. Each leg fetches 2x the requested limit so a chunk ranked
// well by only one leg still has a chance after fusion.
//
// # Filtering
//
//	resp, _ := s.Search(ctx, searcher.SearchRequest{
//	    CorpusID: corpus.ID,
//	    Query:    "deployment checklist",
//	    Filters: &storage.SearchFilters{
//	        Categories:  []string{"guides"},
//	        PathPattern: "guides/ops/*",
//	    },
//	})
//
// # Caching
//
// Responses are cached in an LRU keyed by a hash of the query, mode,
// corpus, limit, and filters. Entries expire after the request's CacheTTL
// (default one hour). Call InvalidateCache after reindexing, since cached
// results may reference chunks that no longer exist.
package searcher
