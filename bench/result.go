// Package bench drives a VectraEdge client through a fixed sequence of
// measurement phases and aggregates latency and throughput results.
package bench

import (
	"sort"
	"sync"
)

// Result holds the aggregated measurements for one named phase or
// sub-case. Records are append-only: once stored they are never mutated.
// Every latency sample is wall-clock time around exactly one client call;
// failed calls never contribute to the latency set.
type Result struct {
	AvgMs   float64        `json:"avg_time_ms,omitempty"`
	MinMs   float64        `json:"min_time_ms,omitempty"`
	MaxMs   float64        `json:"max_time_ms,omitempty"`
	Samples int            `json:"samples,omitempty"`
	Extra   map[string]any `json:"extra,omitempty"`
}

// Store accumulates named results. A later Record under the same name
// overwrites the earlier entry. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	results map[string]Result
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{results: make(map[string]Result)}
}

// Record stores a result under name, replacing any prior entry.
func (s *Store) Record(name string, r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results[name] = r
}

// Get returns the result recorded under name.
func (s *Store) Get(name string) (Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.results[name]

	return r, ok
}

// Names returns all recorded names, sorted.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.results))
	for name := range s.results {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Results returns a copy of the full result set.
func (s *Store) Results() map[string]Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Result, len(s.results))
	for name, r := range s.results {
		out[name] = r
	}

	return out
}

// Len returns the number of recorded results.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.results)
}

// summarize returns the mean, minimum, and maximum of times. It must not
// be called with an empty slice.
func summarize(times []float64) (avg, min, max float64) {
	min = times[0]
	max = times[0]

	var total float64

	for _, t := range times {
		total += t

		if t < min {
			min = t
		}

		if t > max {
			max = t
		}
	}

	return total / float64(len(times)), min, max
}
