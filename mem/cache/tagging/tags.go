// Package tagging keeps track of which blocks are resident in a cache.
//
// It does not store any data. Each way of a set holds a tag, a valid bit, and
// a recency value. Recency 0 means the way has never been used. Recency equal
// to the associativity means the way is the most recently used one in its
// set. Once a set is full, the recency values of its ways form a permutation
// of 1..associativity.
package tagging

// TagArray is the directory of a cache.
type TagArray interface {
	// Lookup finds the valid block that holds reqAddr.
	Lookup(reqAddr uint64) (Block, bool)

	// Locate decomposes reqAddr according to the geometry of the array.
	Locate(reqAddr uint64) Location

	// GetSet returns the set that reqAddr maps to.
	GetSet(reqAddr uint64) (set *Set, setID int)

	// Update overwrites the stored copy of the block.
	Update(block Block)

	// Visit marks the block as the most recently used block of its set.
	Visit(block Block)

	// Reset invalidates all the blocks.
	Reset()

	NumSets() int
	NumWays() int
	BlockSize() int
	TotalSize() uint64
}

// NewTagArray creates a tag array with all blocks invalid.
func NewTagArray(numSets, numWays, blockSize int) TagArray {
	t := &tagArrayImpl{
		numSets:   numSets,
		numWays:   numWays,
		blockSize: blockSize,
	}

	t.Reset()

	return t
}

// A Block is the information that is associated with a cache line.
type Block struct {
	Tag     uint64
	SetID   int
	WayID   int
	IsValid bool
	Recency int
}

// A Set is a list of blocks where a certain piece memory can be stored at.
type Set struct {
	Blocks []Block
}

// Recencies returns the recency value of each way, in way order.
func (s *Set) Recencies() []int {
	r := make([]int, len(s.Blocks))
	for i, b := range s.Blocks {
		r[i] = b.Recency
	}

	return r
}

type tagArrayImpl struct {
	numSets   int
	numWays   int
	blockSize int
	sets      []Set
}

func (t *tagArrayImpl) NumSets() int {
	return t.numSets
}

func (t *tagArrayImpl) NumWays() int {
	return t.numWays
}

func (t *tagArrayImpl) BlockSize() int {
	return t.blockSize
}

// TotalSize returns the maximum number of bytes can be stored in the cache
func (t *tagArrayImpl) TotalSize() uint64 {
	return uint64(t.numSets) * uint64(t.numWays) * uint64(t.blockSize)
}

func (t *tagArrayImpl) Locate(reqAddr uint64) Location {
	return Decompose(reqAddr, t.numSets, t.blockSize)
}

func (t *tagArrayImpl) GetSet(reqAddr uint64) (set *Set, setID int) {
	setID = t.Locate(reqAddr).SetID
	set = &t.sets[setID]

	return
}

func (t *tagArrayImpl) Lookup(reqAddr uint64) (Block, bool) {
	loc := t.Locate(reqAddr)
	set := &t.sets[loc.SetID]

	for _, block := range set.Blocks {
		if block.IsValid && block.Tag == loc.Tag {
			return block, true
		}
	}

	return Block{}, false
}

func (t *tagArrayImpl) Update(block Block) {
	t.sets[block.SetID].Blocks[block.WayID] = block
}

// Visit compacts the recency of the set and promotes the block. Every way that
// was more recently used than the block moves one step down, and the block
// takes the top recency. The comparison uses the recency the block has before
// it is promoted.
func (t *tagArrayImpl) Visit(block Block) {
	set := &t.sets[block.SetID]
	pivot := set.Blocks[block.WayID].Recency

	for i := range set.Blocks {
		if set.Blocks[i].Recency > pivot {
			set.Blocks[i].Recency--
		}
	}

	set.Blocks[block.WayID].Recency = t.numWays
}

func (t *tagArrayImpl) Reset() {
	t.sets = make([]Set, t.numSets)
	for i := 0; i < t.numSets; i++ {
		t.sets[i].Blocks = make([]Block, t.numWays)
		for j := 0; j < t.numWays; j++ {
			t.sets[i].Blocks[j] = Block{
				SetID: i,
				WayID: j,
			}
		}
	}
}
