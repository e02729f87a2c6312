package tagging

// A Location is where an address lives in a cache: the set that it maps to,
// the tag that identifies its block inside the set, and the byte offset inside
// the block.
type Location struct {
	SetID  int
	Tag    uint64
	Offset uint64
}

// Decompose splits an address into set index, tag, and block offset. Both
// numSets and blockSize must be powers of two.
//
// Two addresses share a cache block if and only if they produce the same
// SetID and Tag.
func Decompose(addr uint64, numSets int, blockSize int) Location {
	blockAddr := addr / uint64(blockSize)

	return Location{
		SetID:  int(blockAddr & uint64(numSets-1)),
		Tag:    addr / (uint64(blockSize) * uint64(numSets)),
		Offset: addr & uint64(blockSize-1),
	}
}

// IsPowerOfTwo returns true if n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
