package tagging

// A VictimFinder decides which block should be evicted.
type VictimFinder interface {
	FindVictim(tags TagArray, address uint64) Block
}

// LRUVictimFinder evicts the least recently used block.
type LRUVictimFinder struct {
}

// NewLRUVictimFinder returns a newly constructed lru evictor
func NewLRUVictimFinder() *LRUVictimFinder {
	e := new(LRUVictimFinder)
	return e
}

// FindVictim returns the block with the lowest recency in the set that the
// address maps to. Ties go to the lowest way. Never-used blocks have recency 0,
// so they are always chosen before any valid block.
func (e *LRUVictimFinder) FindVictim(tags TagArray, address uint64) Block {
	set, _ := tags.GetSet(address)

	victim := set.Blocks[0]
	for _, block := range set.Blocks[1:] {
		if block.Recency < victim.Recency {
			victim = block
		}
	}

	return victim
}
