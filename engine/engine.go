// Package engine implements the in-process VectraEdge engine behind the
// embedded transport: badger-backed tables and rows, in-memory vector
// indexes with cosine-similarity search, and topic subscriptions.
package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const (
	tablePrefix = "meta:table:"
	rowPrefix   = "row:"
)

// Engine is the in-process engine. Table metadata and rows live in
// badger; vector indexes and subscriptions are in-memory and guarded by
// mu. Safe for concurrent use.
type Engine struct {
	db     *badger.DB
	logger *slog.Logger

	mu      sync.RWMutex
	indexes map[string]*vectorIndex
	subs    map[string]*subscription
}

// TableMeta describes one table as stored in the engine.
type TableMeta struct {
	Name      string    `json:"name"`
	Schema    string    `json:"schema"`
	CreatedAt time.Time `json:"created_at"`
	Rows      uint64    `json:"rows"`
	SizeBytes uint64    `json:"size_bytes"`
}

// Stats summarizes all tables.
type Stats struct {
	TotalTables    int
	TotalRows      uint64
	TotalSizeBytes uint64
}

// Open acquires the engine at dir. The directory is created if missing;
// a second engine on the same directory fails because badger holds a
// directory lock.
func Open(dir string, logger *slog.Logger) (*Engine, error) {
	if dir == "" {
		return nil, errors.New("data directory not set")
	}

	opts := badger.DefaultOptions(dir).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open storage at %s: %w", dir, err)
	}

	logger.Info("engine opened", slog.String("data_dir", dir))

	return &Engine{
		db:      db,
		logger:  logger.With(slog.String("component", "engine")),
		indexes: make(map[string]*vectorIndex),
		subs:    make(map[string]*subscription),
	}, nil
}

// Close releases the storage lock. The engine must not be used after.
func (e *Engine) Close() error {
	return e.db.Close()
}

// Health reports the engine's status.
func (e *Engine) Health() string {
	if e.db.IsClosed() {
		return "closed"
	}

	return "healthy"
}

// CreateTable registers a table. Creating a table that already exists
// is an error.
func (e *Engine) CreateTable(name, schema string) error {
	if name == "" {
		return errors.New("table name is empty")
	}

	key := []byte(tablePrefix + name)

	return e.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return fmt.Errorf("table %q already exists", name)
		}

		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		meta := TableMeta{
			Name:      name,
			Schema:    schema,
			CreatedAt: time.Now(),
		}

		return writeMeta(txn, key, meta)
	})
}

// Insert stores one row. The table is created on first insert if it does
// not exist yet, so callers can load data without a schema step.
func (e *Engine) Insert(table string, row map[string]any) error {
	if table == "" {
		return errors.New("table name is empty")
	}

	val, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode row: %w", err)
	}

	metaKey := []byte(tablePrefix + table)
	rowKey := []byte(rowPrefix + table + ":" + uuid.NewString())

	return e.db.Update(func(txn *badger.Txn) error {
		meta, err := readMeta(txn, metaKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			meta = TableMeta{Name: table, CreatedAt: time.Now()}
		} else if err != nil {
			return err
		}

		if err := txn.Set(rowKey, val); err != nil {
			return err
		}

		meta.Rows++
		meta.SizeBytes += uint64(len(val))

		return writeMeta(txn, metaKey, meta)
	})
}

// ListTables returns all table names, sorted.
func (e *Engine) ListTables() ([]string, error) {
	var names []string

	err := e.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(tablePrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			names = append(names, strings.TrimPrefix(key, tablePrefix))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(names)

	return names, nil
}

// TableInfo returns the metadata for one table.
func (e *Engine) TableInfo(table string) (*TableMeta, error) {
	var meta TableMeta

	err := e.db.View(func(txn *badger.Txn) error {
		m, err := readMeta(txn, []byte(tablePrefix+table))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("table %q not found", table)
		}

		if err != nil {
			return err
		}

		meta = m

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &meta, nil
}

// Stats aggregates metadata across all tables.
func (e *Engine) Stats() (*Stats, error) {
	var stats Stats

	err := e.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(tablePrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var meta TableMeta
				if err := json.Unmarshal(val, &meta); err != nil {
					return fmt.Errorf("decode table meta: %w", err)
				}

				stats.TotalTables++
				stats.TotalRows += meta.Rows
				stats.TotalSizeBytes += meta.SizeBytes

				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// Query executes a SQL query. Only enough of the statement is understood
// to locate the target table and report scan counts; the full query
// language lives in the serving engine, not this embedded subset.
func (e *Engine) Query(sql string) (map[string]any, error) {
	if strings.TrimSpace(sql) == "" {
		return nil, errors.New("empty query")
	}

	table := tableFromQuery(sql)
	if table == "" {
		return map[string]any{"status": "ok"}, nil
	}

	var scanned int

	err := e.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(rowPrefix + table + ":")

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			scanned++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"status":       "ok",
		"table":        table,
		"rows_scanned": scanned,
	}, nil
}

// tableFromQuery extracts the token following FROM, if any.
func tableFromQuery(sql string) string {
	fields := strings.Fields(sql)
	for i, f := range fields {
		if strings.EqualFold(f, "from") && i+1 < len(fields) {
			return strings.Trim(fields[i+1], ";,()")
		}
	}

	return ""
}

func readMeta(txn *badger.Txn, key []byte) (TableMeta, error) {
	var meta TableMeta

	item, err := txn.Get(key)
	if err != nil {
		return meta, err
	}

	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &meta)
	})
	if err != nil {
		return meta, fmt.Errorf("decode table meta: %w", err)
	}

	return meta, nil
}

func writeMeta(txn *badger.Txn, key []byte, meta TableMeta) error {
	val, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode table meta: %w", err)
	}

	return txn.Set(key, val)
}
