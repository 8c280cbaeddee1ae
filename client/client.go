// Package client provides the VectraEdge client: a single logical
// interface with two interchangeable transports, selected once at
// construction time. The remote transport speaks HTTP+JSON to a running
// engine; the embedded transport drives an in-process engine directly.
package client

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vectraedge/vectra-go/engine"
)

// TransportMode selects the transport implementation at construction.
type TransportMode int

const (
	// ModeRemote dispatches every operation over HTTP to a running engine.
	ModeRemote TransportMode = iota
	// ModeEmbedded dispatches every operation to an in-process engine.
	ModeEmbedded
)

func (m TransportMode) String() string {
	switch m {
	case ModeRemote:
		return "remote"
	case ModeEmbedded:
		return "embedded"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Config holds the immutable client configuration. It is fixed once the
// client is constructed; there is no reconnect logic.
type Config struct {
	Host string
	Port int
	Mode TransportMode

	// DataDir is the embedded engine's storage directory.
	// Only used with ModeEmbedded.
	DataDir string
}

// BaseAddress returns the HTTP base address derived from host and port.
func (c Config) BaseAddress() string {
	return fmt.Sprintf("http://%s:%d", c.Host, c.Port)
}

// Client is the transport-independent operation set. Implementations are
// safe for concurrent use: they carry no mutable state beyond the
// configuration captured at construction. Calls never retry; failures
// surface immediately, with query, search, subscribe, and health
// failures wrapped in a *TransportError.
type Client interface {
	// ExecuteQuery runs a SQL query and returns the engine's result
	// object as-is. A successful call never returns a nil payload.
	ExecuteQuery(ctx context.Context, sql string) (QueryResult, error)

	// VectorSearch performs a text-driven similarity search. The limit
	// bounds the result count and is echoed back in the payload.
	VectorSearch(ctx context.Context, query string, limit int) (*SearchResult, error)

	// SubscribeStream subscribes to a topic and returns a handle derived
	// from the engine's acknowledgement.
	SubscribeStream(ctx context.Context, topic string) (*StreamSubscription, error)

	// CreateTable creates a table. On the remote transport this is a
	// documented placeholder: the engine exposes no administrative
	// endpoint, so the call logs and succeeds without a wire exchange.
	CreateTable(ctx context.Context, name, schema string) error

	// InsertData inserts one row into a table. Same placeholder contract
	// as CreateTable on the remote transport.
	InsertData(ctx context.Context, table string, data map[string]any) error

	// CreateVectorIndex creates a vector index on table.column and
	// returns a handle that re-dispatches through this client.
	CreateVectorIndex(ctx context.Context, table, column string) (*VectorIndex, error)

	ListTables(ctx context.Context) ([]string, error)
	GetTableInfo(ctx context.Context, table string) (*TableInfo, error)
	GetStats(ctx context.Context) (*StorageStats, error)

	// HealthCheck probes the engine. On the remote transport this always
	// issues a real network call with a 10-second timeout.
	HealthCheck(ctx context.Context) (*Health, error)

	// Close releases transport resources. For the embedded transport
	// this closes the underlying engine.
	Close() error
}

// New constructs a client for the given configuration. Selecting
// ModeEmbedded acquires the in-process engine; if that fails, New
// returns an *UnavailableError rather than downgrading to remote.
func New(cfg Config, logger *slog.Logger) (Client, error) {
	switch cfg.Mode {
	case ModeRemote:
		return newRemote(cfg, logger), nil
	case ModeEmbedded:
		return newEmbedded(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown transport mode %d", int(cfg.Mode))
	}
}

// DetectEmbeddedCapability reports whether the embedded engine can be
// acquired at dataDir. It is meant to run once at process startup, with
// the answer folded into the Config, instead of discovering the
// capability through construction failures.
func DetectEmbeddedCapability(dataDir string, logger *slog.Logger) bool {
	eng, err := engine.Open(dataDir, logger)
	if err != nil {
		logger.Debug("embedded engine unavailable",
			slog.String("data_dir", dataDir),
			slog.String("error", err.Error()),
		)

		return false
	}

	if err := eng.Close(); err != nil {
		logger.Warn("closing probe engine",
			slog.String("error", err.Error()),
		)
	}

	return true
}
