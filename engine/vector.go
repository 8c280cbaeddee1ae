package engine

import (
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"strings"
	"sync"
)

// EmbeddingDim is the dimensionality of text embeddings produced by
// EmbedText.
const EmbeddingDim = 64

// Hit is a single vector search match.
type Hit struct {
	ID       int64
	Score    float64
	Metadata map[string]any
}

type vectorIndex struct {
	id     string
	table  string
	column string

	mu      sync.RWMutex
	nextID  int64
	vectors map[int64][]float64
	meta    map[int64]map[string]any
}

// CreateIndex registers a vector index on table.column and returns its
// ID. Creating the same index twice is an error.
func (e *Engine) CreateIndex(table, column string) (string, error) {
	id := table + "." + column

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.indexes[id]; ok {
		return "", fmt.Errorf("index %q already exists", id)
	}

	e.indexes[id] = &vectorIndex{
		id:      id,
		table:   table,
		column:  column,
		vectors: make(map[int64][]float64),
		meta:    make(map[int64]map[string]any),
	}

	return id, nil
}

// DeleteIndex removes an index. Deleting a missing index is a no-op.
func (e *Engine) DeleteIndex(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.indexes, id)

	return nil
}

// InsertVector adds a vector with optional metadata to an index and
// returns the assigned ID.
func (e *Engine) InsertVector(indexID string, vector []float64, meta map[string]any) (int64, error) {
	ix, err := e.index(indexID)
	if err != nil {
		return 0, err
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.nextID++
	id := ix.nextID
	ix.vectors[id] = vector
	ix.meta[id] = meta

	return id, nil
}

// SearchIndex returns the top-limit hits by cosine similarity.
func (e *Engine) SearchIndex(indexID string, vector []float64, limit int) ([]Hit, error) {
	ix, err := e.index(indexID)
	if err != nil {
		return nil, err
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	return ix.search(vector, limit), nil
}

// SearchText embeds the query text and searches every index, merging the
// hits into one ranked list. With no indexed vectors the result is empty.
func (e *Engine) SearchText(query string, limit int) ([]Hit, error) {
	vector := EmbedText(query)

	e.mu.RLock()
	defer e.mu.RUnlock()

	var merged []Hit

	for _, ix := range e.indexes {
		ix.mu.RLock()
		merged = append(merged, ix.search(vector, limit)...)
		ix.mu.RUnlock()
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})

	if len(merged) > limit {
		merged = merged[:limit]
	}

	if merged == nil {
		merged = []Hit{}
	}

	return merged, nil
}

func (e *Engine) index(id string) (*vectorIndex, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ix, ok := e.indexes[id]
	if !ok {
		return nil, fmt.Errorf("index %q not found", id)
	}

	return ix, nil
}

// search assumes ix.mu is held.
func (ix *vectorIndex) search(vector []float64, limit int) []Hit {
	hits := make([]Hit, 0, len(ix.vectors))

	for id, v := range ix.vectors {
		hits = append(hits, Hit{
			ID:       id,
			Score:    cosine(vector, v),
			Metadata: ix.meta[id],
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}

		return hits[i].ID < hits[j].ID
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}

	return hits
}

// EmbedText produces a deterministic pseudo-embedding: each word hashes
// into one dimension, and the vector is L2-normalized. Identical text
// always embeds identically, which is what repeatable benchmarks need.
func EmbedText(text string) []float64 {
	vector := make([]float64, EmbeddingDim)

	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New64a()
		h.Write([]byte(word))
		sum := h.Sum64()

		dim := int(sum % EmbeddingDim)
		sign := 1.0
		if (sum>>32)%2 == 1 {
			sign = -1.0
		}

		vector[dim] += sign
	}

	var norm float64
	for _, v := range vector {
		norm += v * v
	}

	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vector {
			vector[i] /= norm
		}
	}

	return vector
}

func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64

	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}

	for _, v := range a {
		normA += v * v
	}

	for _, v := range b {
		normB += v * v
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
