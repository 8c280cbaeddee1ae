package client

// QueryResult is the engine's query response, echoed as-is.
type QueryResult map[string]any

// SearchHit is a single vector search match.
type SearchHit struct {
	ID       int64          `json:"id"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// SearchResult is the payload returned by vector search operations. Limit
// echoes the requested bound; it is not necessarily enforced server-side.
type SearchResult struct {
	Results []SearchHit `json:"results"`
	Query   string      `json:"query,omitempty"`
	Limit   int         `json:"limit"`
}

// TableInfo describes one table.
type TableInfo struct {
	Name      string `json:"name"`
	Rows      uint64 `json:"rows"`
	SizeBytes uint64 `json:"size_bytes"`
	CreatedAt string `json:"created_at"`
}

// StorageStats summarizes the engine's storage.
type StorageStats struct {
	TotalTables    int    `json:"total_tables"`
	TotalRows      uint64 `json:"total_rows"`
	TotalSizeBytes uint64 `json:"total_size_bytes"`
}

// Health is the engine's health check response.
type Health struct {
	Status string `json:"status"`
}

// cannedSearchHits are the fixed results returned by placeholder index
// searches, mirroring what the engine returns for a small corpus.
func cannedSearchHits() []SearchHit {
	return []SearchHit{
		{ID: 1, Score: 0.95, Metadata: map[string]any{"text": "Sample result"}},
		{ID: 2, Score: 0.87, Metadata: map[string]any{"text": "Another result"}},
	}
}
