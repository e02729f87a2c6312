package hierarchy

import (
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/cachesim/mem/cache"
)

// Report is a snapshot of the counters of a hierarchy.
type Report struct {
	Config Config `json:"config"`

	ICache cache.Stats `json:"icache"`
	DCache cache.Stats `json:"dcache"`
	L2     cache.Stats `json:"l2cache"`

	MemoryAccesses uint64 `json:"memory_accesses"`
	TotalCycles    uint64 `json:"total_cycles"`
}

// Report returns the current counters.
func (h *Hierarchy) Report() Report {
	h.mustBeInitialized()

	return Report{
		Config:         h.config,
		ICache:         h.icache.Stats(),
		DCache:         h.dcache.Stats(),
		L2:             h.l2.Stats(),
		MemoryAccesses: h.memory.NumAccesses(),
		TotalCycles:    h.cycles,
	}
}

// WriteTo prints the report in a human-readable form.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	sb := new(strings.Builder)

	fmt.Fprintln(sb, "Cache Configuration:")
	writeCacheConfig(sb, "I$", r.Config.ICache)
	writeCacheConfig(sb, "D$", r.Config.DCache)
	writeCacheConfig(sb, "L2$", r.Config.L2)
	fmt.Fprintf(sb, "  Inclusive:  %t\n", r.Config.Inclusive)
	fmt.Fprintf(sb, "  Blocksize:  %d\n", r.Config.BlockSize)
	fmt.Fprintf(sb, "  Memspeed:   %d\n", r.Config.MemoryLatency)
	fmt.Fprintln(sb, "Cache Statistics:")
	writeCacheStats(sb, "I$", r.ICache)
	writeCacheStats(sb, "D$", r.DCache)
	writeCacheStats(sb, "L2$", r.L2)
	fmt.Fprintf(sb, "  Memory Accesses: %10d\n", r.MemoryAccesses)
	fmt.Fprintf(sb, "  Total Cycles:    %10d\n", r.TotalCycles)

	n, err := io.WriteString(w, sb.String())

	return int64(n), err
}

func writeCacheConfig(w io.Writer, label string, c cache.Config) {
	fmt.Fprintf(w, "  %-4s sets=%d assoc=%d hit=%d\n",
		label, c.NumSets, c.WayAssociativity, c.HitLatency)
}

func writeCacheStats(w io.Writer, label string, s cache.Stats) {
	fmt.Fprintf(w, "  %-4s Accesses:         %10d\n", label, s.References)
	fmt.Fprintf(w, "  %-4s Misses:           %10d\n", label, s.Misses)
	fmt.Fprintf(w, "  %-4s Penalties:        %10d\n", label, s.PenaltyCycles)
	fmt.Fprintf(w, "  %-4s Miss Rate:        %10.2f%%\n", label, 100*s.MissRate())
	fmt.Fprintf(w, "  %-4s Avg Miss Penalty: %10.2f\n", label, s.AvgMissPenalty())
}
