package client

import (
	"context"
	"sync/atomic"
)

const defaultSearchLimit = 10

// VectorIndex identifies a server-side vector index. The handle carries
// no live connection: every operation re-dispatches through the client
// that created it, and errors propagate from that client unchanged.
// Discarding the handle implies no server-side cleanup.
type VectorIndex struct {
	ID     string
	Table  string
	Column string

	searchFn func(ctx context.Context, vector []float64, limit int) (*SearchResult, error)
	deleteFn func(ctx context.Context) error
}

// Search runs a similarity search against this index. A limit of zero or
// less defaults to 10.
func (ix *VectorIndex) Search(ctx context.Context, vector []float64, limit int) (*SearchResult, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	return ix.searchFn(ctx, vector, limit)
}

// Delete removes the index. On transports without an administrative
// endpoint this follows the placeholder contract: log and succeed.
func (ix *VectorIndex) Delete(ctx context.Context) error {
	return ix.deleteFn(ctx)
}

// StreamSubscription identifies a topic subscription held by the caller.
type StreamSubscription struct {
	ID     string
	Topic  string
	Status string

	unsubscribeFn func(ctx context.Context) error
	done          atomic.Bool
}

// Unsubscribe cancels the subscription. It is idempotent: the second and
// later calls return nil without dispatching anything.
func (s *StreamSubscription) Unsubscribe(ctx context.Context) error {
	if s.done.Swap(true) {
		return nil
	}

	return s.unsubscribeFn(ctx)
}
