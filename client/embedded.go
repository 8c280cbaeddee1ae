package client

import (
	"context"
	"log/slog"

	"github.com/vectraedge/vectra-go/engine"
)

// embedded dispatches every operation to an in-process engine. All
// operations are real: tables and rows persist in the engine's storage,
// vector indexes are searchable, and subscriptions are tracked.
type embedded struct {
	cfg    Config
	eng    *engine.Engine
	logger *slog.Logger
}

func newEmbedded(cfg Config, logger *slog.Logger) (*embedded, error) {
	eng, err := engine.Open(cfg.DataDir, logger)
	if err != nil {
		return nil, &UnavailableError{Mode: ModeEmbedded, Err: err}
	}

	return &embedded{
		cfg:    cfg,
		eng:    eng,
		logger: logger.With(slog.String("transport", "embedded")),
	}, nil
}

func (e *embedded) ExecuteQuery(_ context.Context, sql string) (QueryResult, error) {
	out, err := e.eng.Query(sql)
	if err != nil {
		return nil, transportErr(opExecuteQuery, err)
	}

	if out == nil {
		out = map[string]any{}
	}

	return out, nil
}

func (e *embedded) VectorSearch(_ context.Context, query string, limit int) (*SearchResult, error) {
	hits, err := e.eng.SearchText(query, limit)
	if err != nil {
		return nil, transportErr(opVectorSearch, err)
	}

	return &SearchResult{
		Results: toSearchHits(hits),
		Query:   query,
		Limit:   limit,
	}, nil
}

func (e *embedded) SubscribeStream(_ context.Context, topic string) (*StreamSubscription, error) {
	id, status, err := e.eng.Subscribe(topic)
	if err != nil {
		return nil, transportErr(opSubscribe, err)
	}

	sub := &StreamSubscription{ID: id, Topic: topic, Status: status}
	sub.unsubscribeFn = func(context.Context) error {
		return e.eng.Unsubscribe(id)
	}

	return sub, nil
}

func (e *embedded) CreateTable(_ context.Context, name, schema string) error {
	return e.eng.CreateTable(name, schema)
}

func (e *embedded) InsertData(_ context.Context, table string, data map[string]any) error {
	return e.eng.Insert(table, data)
}

func (e *embedded) CreateVectorIndex(_ context.Context, table, column string) (*VectorIndex, error) {
	id, err := e.eng.CreateIndex(table, column)
	if err != nil {
		return nil, err
	}

	ix := &VectorIndex{ID: id, Table: table, Column: column}
	ix.searchFn = func(_ context.Context, vector []float64, limit int) (*SearchResult, error) {
		hits, err := e.eng.SearchIndex(id, vector, limit)
		if err != nil {
			return nil, transportErr(opVectorSearch, err)
		}

		return &SearchResult{Results: toSearchHits(hits), Limit: limit}, nil
	}
	ix.deleteFn = func(context.Context) error {
		return e.eng.DeleteIndex(id)
	}

	return ix, nil
}

func (e *embedded) ListTables(context.Context) ([]string, error) {
	return e.eng.ListTables()
}

func (e *embedded) GetTableInfo(_ context.Context, table string) (*TableInfo, error) {
	info, err := e.eng.TableInfo(table)
	if err != nil {
		return nil, err
	}

	return &TableInfo{
		Name:      info.Name,
		Rows:      info.Rows,
		SizeBytes: info.SizeBytes,
		CreatedAt: info.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}, nil
}

func (e *embedded) GetStats(context.Context) (*StorageStats, error) {
	stats, err := e.eng.Stats()
	if err != nil {
		return nil, err
	}

	return &StorageStats{
		TotalTables:    stats.TotalTables,
		TotalRows:      stats.TotalRows,
		TotalSizeBytes: stats.TotalSizeBytes,
	}, nil
}

func (e *embedded) HealthCheck(context.Context) (*Health, error) {
	return &Health{Status: e.eng.Health()}, nil
}

func (e *embedded) Close() error {
	return e.eng.Close()
}

func toSearchHits(hits []engine.Hit) []SearchHit {
	out := make([]SearchHit, len(hits))
	for i, h := range hits {
		out[i] = SearchHit{ID: h.ID, Score: h.Score, Metadata: h.Metadata}
	}

	return out
}
