package cache

// Stats holds the counters of a cache. They only grow while a trace is being
// replayed.
type Stats struct {
	References    uint64 `json:"references"`
	Misses        uint64 `json:"misses"`
	PenaltyCycles uint64 `json:"penalty_cycles"`
}

// Hits returns the number of references that did not miss.
func (s Stats) Hits() uint64 {
	return s.References - s.Misses
}

// MissRate returns misses / references, or 0 when there is no reference.
func (s Stats) MissRate() float64 {
	if s.References == 0 {
		return 0
	}

	return float64(s.Misses) / float64(s.References)
}

// AvgMissPenalty returns the average number of penalty cycles per miss, or 0
// when there is no miss.
func (s Stats) AvgMissPenalty() float64 {
	if s.Misses == 0 {
		return 0
	}

	return float64(s.PenaltyCycles) / float64(s.Misses)
}
