package bench

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vectraedge/vectra-go/client"
)

// LoadResult aggregates one concurrent batch run. Completed+Failed
// always equals the dispatched level.
type LoadResult struct {
	Level      int
	Completed  int64
	Failed     int64
	Elapsed    time.Duration
	Throughput float64 // completed operations per second
}

// RunLevel dispatches exactly level concurrent workers against c, each
// executing one operation chosen by worker index modulo 3 (query, vector
// search, stats). Worker outcomes accumulate in atomic counters; a
// worker's failure never aborts its siblings, and cancellation of ctx
// still lets in-flight workers finish or fail individually before the
// aggregate is published.
func RunLevel(ctx context.Context, c client.Client, level int) LoadResult {
	var (
		completed atomic.Int64
		failed    atomic.Int64
		wg        sync.WaitGroup
	)

	start := time.Now()

	for i := 0; i < level; i++ {
		wg.Add(1)

		go func(worker int) {
			defer wg.Done()

			var err error

			switch worker % 3 {
			case 0:
				_, err = c.ExecuteQuery(ctx, "SELECT * FROM perf_test_table LIMIT 1")
			case 1:
				_, err = c.VectorSearch(ctx, "test", 5)
			default:
				_, err = c.GetStats(ctx)
			}

			if err != nil {
				failed.Add(1)

				return
			}

			completed.Add(1)
		}(i)
	}

	wg.Wait()

	elapsed := time.Since(start)

	result := LoadResult{
		Level:     level,
		Completed: completed.Load(),
		Failed:    failed.Load(),
		Elapsed:   elapsed,
	}

	if secs := elapsed.Seconds(); secs > 0 {
		result.Throughput = float64(result.Completed) / secs
	}

	return result
}
