package bench

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vectraedge/vectra-go/client"
)

// Config controls phase repetition counts and workload shapes.
type Config struct {
	ConnectionSamples int
	TableOps          int

	InsertSizes   []int // target payload sizes in bytes
	InsertRepeats int

	Queries      []string
	QueryRepeats int

	SearchLimits  []int
	SearchRepeats int

	ConcurrencyLevels []int

	MemoryBatchSize int // rows generated for the memory pressure batch
	MemoryInserts   int // rows actually inserted from the batch

	RapidOps          int
	LargePayloadBytes int
	LargeRepeats      int
}

// DefaultConfig returns the standard benchmark shape.
func DefaultConfig() Config {
	return Config{
		ConnectionSamples: 10,
		TableOps:          5,
		InsertSizes:       []int{100, 1000, 10000},
		InsertRepeats:     10,
		Queries: []string{
			"SELECT * FROM perf_test_table LIMIT 10",
			"SELECT COUNT(*) FROM perf_test_table",
			"SELECT * FROM perf_test_table WHERE id > 5",
		},
		QueryRepeats:      10,
		SearchLimits:      []int{5, 10, 20, 50},
		SearchRepeats:     10,
		ConcurrencyLevels: []int{5, 10, 20},
		MemoryBatchSize:   1000,
		MemoryInserts:     100,
		RapidOps:          50,
		LargePayloadBytes: 100 * 1024,
		LargeRepeats:      10,
	}
}

// Harness runs the measurement phases against a client. Phases execute
// sequentially on one control flow; only the concurrency phase fans out.
// The client is read-shared and never mutated during a run.
type Harness struct {
	client client.Client
	cfg    Config
	store  *Store
	logger *slog.Logger
}

// NewHarness creates a Harness recording into store.
func NewHarness(c client.Client, cfg Config, store *Store, logger *slog.Logger) *Harness {
	return &Harness{
		client: c,
		cfg:    cfg,
		store:  store,
		logger: logger.With(slog.String("component", "bench")),
	}
}

// RunAll executes every phase in its fixed order. A failing phase is
// logged and skipped without recording a result; results from the other
// phases are preserved. No phase is retried.
func (h *Harness) RunAll(ctx context.Context) {
	phases := []struct {
		name string
		run  func(context.Context) error
	}{
		{"connection", h.MeasureConnection},
		{"table_ops", h.MeasureTableOps},
		{"insertion", h.MeasureInsertion},
		{"query", h.MeasureQueries},
		{"vector_search", h.MeasureVectorSearch},
		{"concurrency", h.MeasureConcurrency},
		{"memory", h.MeasureMemoryPressure},
		{"stress", h.MeasureStress},
	}

	for _, phase := range phases {
		h.logger.InfoContext(ctx, "running phase", slog.String("phase", phase.name))

		if err := phase.run(ctx); err != nil {
			h.logger.ErrorContext(ctx, "phase failed",
				slog.String("phase", phase.name),
				slog.String("error", err.Error()),
			)
		}
	}
}

// MeasureConnection repeats health checks and records avg/min/max
// latency under "connection".
func (h *Harness) MeasureConnection(ctx context.Context) error {
	times := make([]float64, 0, h.cfg.ConnectionSamples)

	for i := 0; i < h.cfg.ConnectionSamples; i++ {
		ms, err := h.timed(func() error {
			_, err := h.client.HealthCheck(ctx)

			return err
		})
		if err != nil {
			h.logger.Warn("health check failed",
				slog.Int("attempt", i+1),
				slog.String("error", err.Error()),
			)

			continue
		}

		times = append(times, ms)
	}

	if len(times) == 0 {
		return fmt.Errorf("no successful health checks in %d attempts", h.cfg.ConnectionSamples)
	}

	avg, min, max := summarize(times)
	h.store.Record("connection", Result{
		AvgMs:   avg,
		MinMs:   min,
		MaxMs:   max,
		Samples: len(times),
	})

	return nil
}

// MeasureTableOps creates tables with distinct generated names and
// records average creation latency under "table_creation". No cleanup is
// attempted; the transport has no drop-table operation.
func (h *Harness) MeasureTableOps(ctx context.Context) error {
	times := make([]float64, 0, h.cfg.TableOps)

	for i := 0; i < h.cfg.TableOps; i++ {
		name := fmt.Sprintf("perf_test_table_%d_%s", i, uuid.NewString()[:8])

		ms, err := h.timed(func() error {
			return h.client.CreateTable(ctx, name, "id INT, name TEXT, data TEXT")
		})
		if err != nil {
			h.logger.Warn("table creation failed",
				slog.String("table", name),
				slog.String("error", err.Error()),
			)

			continue
		}

		times = append(times, ms)
	}

	if len(times) == 0 {
		return fmt.Errorf("no successful table creations in %d attempts", h.cfg.TableOps)
	}

	avg, _, _ := summarize(times)
	h.store.Record("table_creation", Result{AvgMs: avg, Samples: len(times)})

	return nil
}

// MeasureInsertion inserts payloads of each configured size and records
// average latency and derived throughput under "data_insertion_<size>b".
func (h *Harness) MeasureInsertion(ctx context.Context) error {
	recorded := 0

	for _, size := range h.cfg.InsertSizes {
		payload := makePayload(size)
		times := make([]float64, 0, h.cfg.InsertRepeats)

		for i := 0; i < h.cfg.InsertRepeats; i++ {
			ms, err := h.timed(func() error {
				return h.client.InsertData(ctx, "perf_test_table", payload)
			})
			if err != nil {
				h.logger.Warn("insertion failed",
					slog.Int("size", size),
					slog.String("error", err.Error()),
				)

				continue
			}

			times = append(times, ms)
		}

		if len(times) == 0 {
			continue
		}

		avg, _, _ := summarize(times)

		// KB/s from the average per-call latency.
		var throughput float64
		if avg > 0 {
			throughput = (float64(size) / 1024) / (avg / 1000)
		}

		h.store.Record(fmt.Sprintf("data_insertion_%db", size), Result{
			AvgMs:   avg,
			Samples: len(times),
			Extra:   map[string]any{"throughput_kbs": throughput},
		})

		recorded++
	}

	if recorded == 0 {
		return fmt.Errorf("no successful insertions for any payload size")
	}

	return nil
}

// MeasureQueries repeats each configured query and records average
// latency under "query_<n>".
func (h *Harness) MeasureQueries(ctx context.Context) error {
	recorded := 0

	for i, query := range h.cfg.Queries {
		times := make([]float64, 0, h.cfg.QueryRepeats)

		for j := 0; j < h.cfg.QueryRepeats; j++ {
			ms, err := h.timed(func() error {
				_, err := h.client.ExecuteQuery(ctx, query)

				return err
			})
			if err != nil {
				h.logger.Warn("query failed",
					slog.Int("query", i+1),
					slog.String("error", err.Error()),
				)

				continue
			}

			times = append(times, ms)
		}

		if len(times) == 0 {
			continue
		}

		avg, _, _ := summarize(times)
		h.store.Record(fmt.Sprintf("query_%d", i+1), Result{
			AvgMs:   avg,
			Samples: len(times),
			Extra:   map[string]any{"query": query},
		})

		recorded++
	}

	if recorded == 0 {
		return fmt.Errorf("no successful queries")
	}

	return nil
}

// MeasureVectorSearch repeats searches at each configured limit and
// records average latency under "vector_search_<limit>".
func (h *Harness) MeasureVectorSearch(ctx context.Context) error {
	recorded := 0

	for _, limit := range h.cfg.SearchLimits {
		times := make([]float64, 0, h.cfg.SearchRepeats)

		for i := 0; i < h.cfg.SearchRepeats; i++ {
			ms, err := h.timed(func() error {
				_, err := h.client.VectorSearch(ctx, "test query", limit)

				return err
			})
			if err != nil {
				h.logger.Warn("vector search failed",
					slog.Int("limit", limit),
					slog.String("error", err.Error()),
				)

				continue
			}

			times = append(times, ms)
		}

		if len(times) == 0 {
			continue
		}

		avg, _, _ := summarize(times)
		h.store.Record(fmt.Sprintf("vector_search_%d", limit), Result{
			AvgMs:   avg,
			Samples: len(times),
			Extra:   map[string]any{"limit": limit},
		})

		recorded++
	}

	if recorded == 0 {
		return fmt.Errorf("no successful vector searches")
	}

	return nil
}

// MeasureConcurrency runs the load generator at each configured level
// and records the batch outcome under "concurrent_<level>".
func (h *Harness) MeasureConcurrency(ctx context.Context) error {
	for _, level := range h.cfg.ConcurrencyLevels {
		lr := RunLevel(ctx, h.client, level)

		h.store.Record(fmt.Sprintf("concurrent_%d", level), Result{
			Extra: map[string]any{
				"concurrency_level":      level,
				"total_time_s":           lr.Elapsed.Seconds(),
				"completed_operations":   lr.Completed,
				"failed_operations":      lr.Failed,
				"throughput_ops_per_sec": lr.Throughput,
			},
		})

		h.logger.InfoContext(ctx, "concurrency level done",
			slog.Int("level", level),
			slog.Int64("completed", lr.Completed),
			slog.Int64("failed", lr.Failed),
		)
	}

	return nil
}

// MeasureMemoryPressure generates an in-memory batch, inserts a bounded
// number of its rows, then discards the batch. It records a descriptive
// summary under "memory_usage"; this phase measures behavior under
// pressure, not precise memory accounting.
func (h *Harness) MeasureMemoryPressure(ctx context.Context) error {
	batch := memoryBatch(h.cfg.MemoryBatchSize)

	inserted := 0

	for i := 0; i < h.cfg.MemoryInserts && i < len(batch); i++ {
		if err := h.client.InsertData(ctx, "memory_test_table", batch[i]); err != nil {
			h.logger.Warn("memory batch insert failed",
				slog.Int("row", i),
				slog.String("error", err.Error()),
			)

			continue
		}

		inserted++
	}

	h.store.Record("memory_usage", Result{
		Extra: map[string]any{
			"test_data_size_mb": float64(h.cfg.MemoryBatchSize) / 1024,
			"rows_inserted":     inserted,
			"status":            "completed",
		},
	})

	return nil
}

// MeasureStress records rapid repeated stats calls under
// "stress_rapid_operations" and large fixed-size insertions under
// "stress_large_data".
func (h *Harness) MeasureStress(ctx context.Context) error {
	rapid := make([]float64, 0, h.cfg.RapidOps)

	for i := 0; i < h.cfg.RapidOps; i++ {
		ms, err := h.timed(func() error {
			_, err := h.client.GetStats(ctx)

			return err
		})
		if err != nil {
			h.logger.Warn("rapid stats call failed",
				slog.Int("attempt", i+1),
				slog.String("error", err.Error()),
			)

			continue
		}

		rapid = append(rapid, ms)
	}

	if len(rapid) > 0 {
		avg, _, _ := summarize(rapid)
		h.store.Record("stress_rapid_operations", Result{
			AvgMs:   avg,
			Samples: len(rapid),
		})
	}

	large := makePayload(h.cfg.LargePayloadBytes)
	largeTimes := make([]float64, 0, h.cfg.LargeRepeats)

	for i := 0; i < h.cfg.LargeRepeats; i++ {
		ms, err := h.timed(func() error {
			return h.client.InsertData(ctx, "stress_test_table", large)
		})
		if err != nil {
			h.logger.Warn("large insert failed",
				slog.Int("attempt", i+1),
				slog.String("error", err.Error()),
			)

			continue
		}

		largeTimes = append(largeTimes, ms)
	}

	if len(largeTimes) > 0 {
		avg, _, _ := summarize(largeTimes)
		h.store.Record("stress_large_data", Result{
			AvgMs:   avg,
			Samples: len(largeTimes),
			Extra: map[string]any{
				"data_size_kb": h.cfg.LargePayloadBytes / 1024,
			},
		})
	}

	if len(rapid) == 0 && len(largeTimes) == 0 {
		return fmt.Errorf("no successful stress operations")
	}

	return nil
}

// timed measures one call in milliseconds. Failed calls return the error
// and their elapsed time is discarded by the callers.
func (h *Harness) timed(f func() error) (float64, error) {
	start := time.Now()
	err := f()
	ms := float64(time.Since(start).Microseconds()) / 1000

	return ms, err
}
