package bench

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/vectraedge/vectra-go/client"
)

func smallConfig() Config {
	return Config{
		ConnectionSamples: 3,
		TableOps:          2,
		InsertSizes:       []int{100, 1000},
		InsertRepeats:     2,
		Queries: []string{
			"SELECT * FROM perf_test_table LIMIT 10",
			"SELECT COUNT(*) FROM perf_test_table",
		},
		QueryRepeats:      2,
		SearchLimits:      []int{5, 10},
		SearchRepeats:     2,
		ConcurrencyLevels: []int{4},
		MemoryBatchSize:   20,
		MemoryInserts:     10,
		RapidOps:          5,
		LargePayloadBytes: 4096,
		LargeRepeats:      2,
	}
}

func TestRunAllRecordsEveryPhase(t *testing.T) {
	store := NewStore()
	h := NewHarness(client.NewPlaceholder(testLogger()), smallConfig(), store, testLogger())

	h.RunAll(context.Background())

	want := []string{
		"connection",
		"table_creation",
		"data_insertion_100b",
		"data_insertion_1000b",
		"query_1",
		"query_2",
		"vector_search_5",
		"vector_search_10",
		"concurrent_4",
		"memory_usage",
		"stress_rapid_operations",
		"stress_large_data",
	}

	for _, name := range want {
		if _, ok := store.Get(name); !ok {
			t.Errorf("missing result %q", name)
		}
	}
}

func TestConnectionPhaseStatistics(t *testing.T) {
	store := NewStore()
	h := NewHarness(client.NewPlaceholder(testLogger()), smallConfig(), store, testLogger())

	if err := h.MeasureConnection(context.Background()); err != nil {
		t.Fatalf("MeasureConnection failed: %v", err)
	}

	r, ok := store.Get("connection")
	if !ok {
		t.Fatal("connection result not recorded")
	}

	if r.Samples != 3 {
		t.Errorf("samples = %d, want 3", r.Samples)
	}
	if r.MinMs < 0 {
		t.Errorf("min = %f, want >= 0", r.MinMs)
	}
	if r.MinMs > r.AvgMs || r.AvgMs > r.MaxMs {
		t.Errorf("expected min <= avg <= max, got %f/%f/%f",
			r.MinMs, r.AvgMs, r.MaxMs)
	}
}

func TestFailingPhasesDoNotAbortRun(t *testing.T) {
	store := NewStore()
	h := NewHarness(failingClient{}, smallConfig(), store, testLogger())

	h.RunAll(context.Background())

	// Latency phases record nothing when every call fails.
	if _, ok := store.Get("connection"); ok {
		t.Error("connection result recorded despite total failure")
	}
	if _, ok := store.Get("query_1"); ok {
		t.Error("query result recorded despite total failure")
	}

	// The concurrency phase always records its aggregate.
	r, ok := store.Get("concurrent_4")
	if !ok {
		t.Fatal("concurrency result not recorded")
	}

	if r.Extra["failed_operations"] != int64(4) {
		t.Errorf("failed_operations = %v, want 4", r.Extra["failed_operations"])
	}
	if r.Extra["completed_operations"] != int64(0) {
		t.Errorf("completed_operations = %v, want 0", r.Extra["completed_operations"])
	}
}

func TestConcurrencyPhaseResult(t *testing.T) {
	store := NewStore()

	cfg := smallConfig()
	cfg.ConcurrencyLevels = []int{10}

	h := NewHarness(client.NewPlaceholder(testLogger()), cfg, store, testLogger())

	if err := h.MeasureConcurrency(context.Background()); err != nil {
		t.Fatalf("MeasureConcurrency failed: %v", err)
	}

	r, ok := store.Get("concurrent_10")
	if !ok {
		t.Fatal("concurrent_10 not recorded")
	}

	if r.Extra["completed_operations"] != int64(10) {
		t.Errorf("completed = %v, want 10", r.Extra["completed_operations"])
	}
	if r.Extra["failed_operations"] != int64(0) {
		t.Errorf("failed = %v, want 0", r.Extra["failed_operations"])
	}

	throughput, _ := r.Extra["throughput_ops_per_sec"].(float64)
	if throughput <= 0 {
		t.Errorf("throughput = %f, want > 0", throughput)
	}
}

func TestMakePayloadApproximatesTarget(t *testing.T) {
	for _, target := range []int{100, 1000, 10000} {
		payload := makePayload(target)

		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}

		diff := len(raw) - target
		if diff < -payloadOverhead || diff > payloadOverhead {
			t.Errorf("target %d: serialized %d bytes, off by %d",
				target, len(raw), diff)
		}
	}
}

func TestMakePayloadClampsSmallTargets(t *testing.T) {
	for _, target := range []int{-100, 0, 10, payloadOverhead} {
		payload := makePayload(target)

		if payload["data"] != "small" {
			t.Errorf("target %d: expected trivial payload, got %v",
				target, payload)
		}
	}
}

func TestStoreOverwrites(t *testing.T) {
	store := NewStore()

	store.Record("x", Result{AvgMs: 1})
	store.Record("x", Result{AvgMs: 2})

	r, ok := store.Get("x")
	if !ok {
		t.Fatal("result not recorded")
	}

	if r.AvgMs != 2 {
		t.Errorf("avg = %f, want 2 (overwrite)", r.AvgMs)
	}

	if store.Len() != 1 {
		t.Errorf("len = %d, want 1", store.Len())
	}
}

func TestStoreNamesSorted(t *testing.T) {
	store := NewStore()

	store.Record("b", Result{})
	store.Record("a", Result{})
	store.Record("c", Result{})

	names := store.Names()
	want := []string{"a", "b", "c"}

	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}

	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
