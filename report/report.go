// Package report serializes benchmark results and renders human-readable
// summaries.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/vectraedge/vectra-go/bench"
)

// DefaultFilename is the conventional results file name.
const DefaultFilename = "performance_results.json"

// WriteJSON writes the full result set as indented JSON. Map keys are
// emitted sorted, so the output is stable across calls.
func WriteJSON(w io.Writer, store *bench.Store) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(store.Results()); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	return nil
}

// Load reads a result set previously written by WriteJSON.
func Load(r io.Reader) (map[string]bench.Result, error) {
	var results map[string]bench.Result
	if err := json.NewDecoder(r).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}

	return results, nil
}

// Summary renders one display line per known result category, in a
// fixed order: connection, table creation, insertion by size, queries,
// vector search by limit, concurrency by level, stress. Results under
// unknown names are omitted here but stay in the store.
func Summary(store *bench.Store) []string {
	var lines []string

	if r, ok := store.Get("connection"); ok {
		lines = append(lines, fmt.Sprintf("Connection: %.2fms avg", r.AvgMs))
	}

	if r, ok := store.Get("table_creation"); ok {
		lines = append(lines, fmt.Sprintf("Table creation: %.2fms avg", r.AvgMs))
	}

	for _, size := range numericSuffixes(store, "data_insertion_", "b") {
		name := fmt.Sprintf("data_insertion_%db", size)
		r, _ := store.Get(name)
		lines = append(lines, fmt.Sprintf("Insertion %dB: %.2fms avg, %.2f KB/s",
			size, r.AvgMs, extraFloat(r, "throughput_kbs")))
	}

	for _, n := range numericSuffixes(store, "query_", "") {
		r, _ := store.Get(fmt.Sprintf("query_%d", n))
		lines = append(lines, fmt.Sprintf("Query %d: %.2fms avg", n, r.AvgMs))
	}

	for _, limit := range numericSuffixes(store, "vector_search_", "") {
		r, _ := store.Get(fmt.Sprintf("vector_search_%d", limit))
		lines = append(lines, fmt.Sprintf("Vector search (limit %d): %.2fms avg",
			limit, r.AvgMs))
	}

	for _, level := range numericSuffixes(store, "concurrent_", "") {
		r, _ := store.Get(fmt.Sprintf("concurrent_%d", level))
		lines = append(lines, fmt.Sprintf("Concurrent %d: %.2f ops/sec",
			level, extraFloat(r, "throughput_ops_per_sec")))
	}

	if r, ok := store.Get("stress_rapid_operations"); ok {
		lines = append(lines, fmt.Sprintf("Rapid operations: %.2fms avg", r.AvgMs))
	}

	if r, ok := store.Get("stress_large_data"); ok {
		lines = append(lines, fmt.Sprintf("Large data (%.0fKB): %.2fms avg",
			extraFloat(r, "data_size_kb"), r.AvgMs))
	}

	return lines
}

// Fprint writes the summary with a header to w.
func Fprint(w io.Writer, store *bench.Store) {
	fmt.Fprintln(w, "Performance Test Summary")
	fmt.Fprintln(w, strings.Repeat("=", 50))

	lines := Summary(store)
	if len(lines) == 0 {
		fmt.Fprintln(w, "No results recorded.")

		return
	}

	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}

// numericSuffixes returns the sorted numeric suffixes of recorded names
// matching prefix<digits>trailer.
func numericSuffixes(store *bench.Store, prefix, trailer string) []int {
	var out []int

	for _, name := range store.Names() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}

		suffix := strings.TrimPrefix(name, prefix)
		if trailer != "" {
			if !strings.HasSuffix(suffix, trailer) {
				continue
			}

			suffix = strings.TrimSuffix(suffix, trailer)
		}

		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}

		out = append(out, n)
	}

	sort.Ints(out)

	return out
}

// extraFloat reads a numeric value from a result's extras. Values arrive
// as float64 after a JSON round trip but may be stored as ints directly.
func extraFloat(r bench.Result, key string) float64 {
	switch v := r.Extra[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()

		return f
	default:
		return 0
	}
}
