package hooking

import (
	"sync"
)

// AverageLatencyTracer can collect the total and average latency of the
// accesses served by a set of caches.
type AverageLatencyTracer struct {
	filter       AccessFilter
	lock         sync.Mutex
	totalLatency uint64
	accessCount  uint64
}

// NewAverageLatencyTracer creates a new AverageLatencyTracer.
func NewAverageLatencyTracer(filter AccessFilter) *AverageLatencyTracer {
	if filter == nil {
		filter = AllAccesses
	}

	return &AverageLatencyTracer{
		filter: filter,
	}
}

// Func records the latency of an access.
func (t *AverageLatencyTracer) Func(ctx HookCtx) {
	if ctx.Pos != HookPosCacheAccess {
		return
	}

	access := ctx.Item.(CacheAccess)
	if !t.filter(access) {
		return
	}

	t.lock.Lock()
	t.totalLatency += access.Latency
	t.accessCount++
	t.lock.Unlock()
}

// TotalLatency returns the sum of the latencies of all recorded accesses.
func (t *AverageLatencyTracer) TotalLatency() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.totalLatency
}

// TotalCount returns the number of recorded accesses.
func (t *AverageLatencyTracer) TotalCount() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.accessCount
}

// AverageLatency returns the average latency of the recorded accesses. It
// returns 0 if nothing has been recorded.
func (t *AverageLatencyTracer) AverageLatency() float64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.accessCount == 0 {
		return 0
	}

	return float64(t.totalLatency) / float64(t.accessCount)
}
