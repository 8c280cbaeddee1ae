package bench

import "strings"

// payloadOverhead is the approximate JSON envelope size around the
// padded data field.
const payloadOverhead = 50

// makePayload returns a row whose serialized size approximates target
// bytes. Targets at or below the envelope overhead clamp to a trivial
// payload instead of failing.
func makePayload(target int) map[string]any {
	pad := target - payloadOverhead
	if pad <= 0 {
		return map[string]any{"id": 1, "data": "small"}
	}

	return map[string]any{
		"id":        1,
		"data":      strings.Repeat("x", pad),
		"timestamp": "2024-01-01T00:00:00Z",
	}
}

// memoryBatch builds count rows of roughly 1 KB of padding plus an
// embedding-sized vector each, used to create memory pressure. Every row
// gets its own allocations.
func memoryBatch(count int) []map[string]any {
	rows := make([]map[string]any, count)

	for i := range rows {
		vector := make([]float64, 384)
		for j := range vector {
			vector[j] = 0.1
		}

		rows[i] = map[string]any{
			"id":     i,
			"data":   strings.Repeat("x", 1000),
			"vector": vector,
		}
	}

	return rows
}
