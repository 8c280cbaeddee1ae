package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Per-call timeouts. Calls are never retried; a timeout surfaces as the
// same TransportError family as any other transport failure.
const (
	callTimeout   = 30 * time.Second
	healthTimeout = 10 * time.Second
)

// remote dispatches every operation over HTTP+JSON to a running engine.
//
// The engine's HTTP surface covers query, vector search, stream
// subscription, and health. The administrative operations (CreateTable,
// InsertData, index deletion, unsubscribe) have no wire path; they follow
// the documented placeholder contract: an idempotent no-op observable as
// a single log line, never an error for missing functionality.
type remote struct {
	cfg    Config
	base   string
	http   *http.Client
	logger *slog.Logger
}

func newRemote(cfg Config, logger *slog.Logger) *remote {
	return &remote{
		cfg:    cfg,
		base:   cfg.BaseAddress(),
		http:   &http.Client{},
		logger: logger.With(slog.String("transport", "remote")),
	}
}

func (r *remote) postJSON(ctx context.Context, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, r.base+path, bytes.NewReader(payload),
	)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (r *remote) ExecuteQuery(ctx context.Context, sql string) (QueryResult, error) {
	var out QueryResult

	err := r.postJSON(ctx, "/query", map[string]string{"query": sql}, &out)
	if err != nil {
		return nil, transportErr(opExecuteQuery, err)
	}

	if out == nil {
		out = QueryResult{}
	}

	return out, nil
}

func (r *remote) VectorSearch(ctx context.Context, query string, limit int) (*SearchResult, error) {
	body := map[string]any{"query": query, "limit": limit}

	var out SearchResult

	if err := r.postJSON(ctx, "/vector/search", body, &out); err != nil {
		return nil, transportErr(opVectorSearch, err)
	}

	if out.Limit == 0 {
		out.Limit = limit
	}

	return &out, nil
}

func (r *remote) SubscribeStream(ctx context.Context, topic string) (*StreamSubscription, error) {
	var ack struct {
		SubscriptionID string `json:"subscription_id"`
		Status         string `json:"status"`
	}

	err := r.postJSON(ctx, "/stream/subscribe", map[string]string{"topic": topic}, &ack)
	if err != nil {
		return nil, transportErr(opSubscribe, err)
	}

	if ack.SubscriptionID == "" {
		ack.SubscriptionID = "unknown"
	}

	if ack.Status == "" {
		ack.Status = "unknown"
	}

	sub := &StreamSubscription{
		ID:     ack.SubscriptionID,
		Topic:  topic,
		Status: ack.Status,
	}
	sub.unsubscribeFn = func(context.Context) error {
		r.logger.Info("unsubscribing from topic",
			slog.String("topic", topic),
			slog.String("subscription_id", sub.ID),
		)

		return nil
	}

	return sub, nil
}

func (r *remote) CreateTable(ctx context.Context, name, schema string) error {
	r.logger.InfoContext(ctx, "creating table",
		slog.String("table", name),
		slog.String("schema", schema),
	)

	return nil
}

func (r *remote) InsertData(ctx context.Context, table string, data map[string]any) error {
	r.logger.InfoContext(ctx, "inserting data",
		slog.String("table", table),
		slog.Int("fields", len(data)),
	)

	return nil
}

func (r *remote) CreateVectorIndex(ctx context.Context, table, column string) (*VectorIndex, error) {
	r.logger.InfoContext(ctx, "creating vector index",
		slog.String("table", table),
		slog.String("column", column),
	)

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
		r.logger.Info("deleting vector index",
			slog.String("table", table),
			slog.String("column", column),
		)

		return nil
	}

	return ix, nil
}

// ListTables returns representative table names. The engine exposes no
// catalog endpoint over HTTP; this is part of the placeholder contract.
func (r *remote) ListTables(context.Context) ([]string, error) {
	return []string{"docs", "users", "products"}, nil
}

// GetTableInfo returns representative metadata; see ListTables.
func (r *remote) GetTableInfo(_ context.Context, table string) (*TableInfo, error) {
	return &TableInfo{
		Name:      table,
		Rows:      1000,
		SizeBytes: 1024000,
		CreatedAt: "2024-01-01T00:00:00Z",
	}, nil
}

// GetStats returns representative storage statistics; see ListTables.
func (r *remote) GetStats(context.Context) (*StorageStats, error) {
	return &StorageStats{
		TotalTables:    3,
		TotalRows:      5000,
		TotalSizeBytes: 5120000,
	}, nil
}

func (r *remote) HealthCheck(ctx context.Context) (*Health, error) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, r.base+"/health", nil,
	)
	if err != nil {
		return nil, transportErr(opHealthCheck, err)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, transportErr(opHealthCheck, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, transportErr(
			opHealthCheck, fmt.Errorf("unexpected status %s", resp.Status),
		)
	}

	var health Health
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, transportErr(opHealthCheck, fmt.Errorf("decode response: %w", err))
	}

	return &health, nil
}

func (r *remote) Close() error {
	r.http.CloseIdleConnections()

	return nil
}
