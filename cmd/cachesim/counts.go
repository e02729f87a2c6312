package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/cachesim/mem/hierarchy"
	"github.com/sarchlab/cachesim/sim/hooking"
)

// accessCounts observes the accesses served by every cache of a hierarchy.
type accessCounts struct {
	counter   *hooking.AccessCountTracer
	names     []string
	latencies []*hooking.AverageLatencyTracer
}

func attachAccessCounts(h *hierarchy.Hierarchy) *accessCounts {
	counts := &accessCounts{
		counter: hooking.NewAccessCountTracer(hooking.AllAccesses),
	}

	for _, c := range h.Caches() {
		latency := hooking.NewAverageLatencyTracer(hooking.AllAccesses)

		c.AcceptHook(counts.counter)
		c.AcceptHook(latency)

		counts.names = append(counts.names, c.Name())
		counts.latencies = append(counts.latencies, latency)
	}

	return counts
}

// WriteTo prints one line per cache.
func (a *accessCounts) WriteTo(w io.Writer) (int64, error) {
	sb := new(strings.Builder)

	fmt.Fprintln(sb, "Access Counts:")
	for i, name := range a.names {
		count := a.counter.Count(name)
		fmt.Fprintf(sb,
			"  %-4s Hits: %8d  Misses: %8d  Evictions: %8d  Avg Latency: %8.2f\n",
			name, count.Hits, count.Misses, count.Evictions,
			a.latencies[i].AverageLatency())
	}

	n, err := io.WriteString(w, sb.String())

	return int64(n), err
}
