package client

import (
	"context"
	"log/slog"
)

// Placeholder is a transport that performs no server interaction at all.
// Read operations return fixed representative payloads, administrative
// operations log and succeed, and nothing ever fails. It exists for
// demos and unit tests; it is distinct from the remote transport, whose
// placeholder behavior is limited to the administrative operations.
type Placeholder struct {
	logger *slog.Logger
}

// NewPlaceholder creates a placeholder transport.
func NewPlaceholder(logger *slog.Logger) *Placeholder {
	return &Placeholder{
		logger: logger.With(slog.String("transport", "placeholder")),
	}
}

func (p *Placeholder) ExecuteQuery(_ context.Context, sql string) (QueryResult, error) {
	return QueryResult{"status": "ok", "query": sql}, nil
}

func (p *Placeholder) VectorSearch(_ context.Context, query string, limit int) (*SearchResult, error) {
	hits := cannedSearchHits()
	if len(hits) > limit {
		hits = hits[:limit]
	}

	return &SearchResult{Results: hits, Query: query, Limit: limit}, nil
}

func (p *Placeholder) SubscribeStream(_ context.Context, topic string) (*StreamSubscription, error) {
	sub := &StreamSubscription{
		ID:     "placeholder-sub",
		Topic:  topic,
		Status: "active",
	}
	sub.unsubscribeFn = func(context.Context) error {
		p.logger.Info("unsubscribing from topic", slog.String("topic", topic))

		return nil
	}

	return sub, nil
}

func (p *Placeholder) CreateTable(_ context.Context, name, schema string) error {
	p.logger.Info("creating table",
		slog.String("table", name),
		slog.String("schema", schema),
	)

	return nil
}

func (p *Placeholder) InsertData(_ context.Context, table string, data map[string]any) error {
	p.logger.Info("inserting data",
		slog.String("table", table),
		slog.Int("fields", len(data)),
	)

	return nil
}

func (p *Placeholder) CreateVectorIndex(_ context.Context, table, column string) (*VectorIndex, error) {
	ix := &VectorIndex{
		ID:     table + "." + column,
		Table:  table,
		Column: column,
	}
	ix.searchFn = func(_ context.Context, _ []float64, limit int) (*SearchResult, error) {
		hits := cannedSearchHits()
		if len(hits) > limit {
			hits = hits[:limit]
		}

		return &SearchResult{Results: hits, Limit: limit}, nil
	}
	ix.deleteFn = func(context.Context) error {
		p.logger.Info("deleting vector index",
			slog.String("table", table),
			slog.String("column", column),
		)

		return nil
	}

	return ix, nil
}

func (p *Placeholder) ListTables(context.Context) ([]string, error) {
	return []string{"docs", "users", "products"}, nil
}

func (p *Placeholder) GetTableInfo(_ context.Context, table string) (*TableInfo, error) {
	return &TableInfo{
		Name:      table,
		Rows:      1000,
		SizeBytes: 1024000,
		CreatedAt: "2024-01-01T00:00:00Z",
	}, nil
}

func (p *Placeholder) GetStats(context.Context) (*StorageStats, error) {
	return &StorageStats{
		TotalTables:    3,
		TotalRows:      5000,
		TotalSizeBytes: 5120000,
	}, nil
}

func (p *Placeholder) HealthCheck(context.Context) (*Health, error) {
	return &Health{Status: "healthy"}, nil
}

func (p *Placeholder) Close() error {
	return nil
}
