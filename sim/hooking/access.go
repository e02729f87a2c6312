package hooking

// HookPosCacheAccess is triggered after a cache finishes serving an access.
// The Item of the HookCtx is a CacheAccess.
var HookPosCacheAccess = &HookPos{Name: "HookPosCacheAccess"}

// CacheAccess is data that is passed to the hook when a cache has served an
// access.
type CacheAccess struct {
	Where   string
	Address uint64
	SetID   int
	WayID   int
	Tag     uint64
	Hit     bool

	// Evicted is set when a miss replaced a valid block. EvictedTag is the
	// tag of the replaced block.
	Evicted    bool
	EvictedTag uint64

	// Latency is the total number of cycles the access takes, including the
	// penalty paid to the lower level on a miss.
	Latency uint64
}

// AccessFilter is a function that can filter interesting accesses. If this
// function returns true, the access is considered useful.
type AccessFilter func(a CacheAccess) bool

// AllAccesses is an AccessFilter that accepts every access.
func AllAccesses(CacheAccess) bool {
	return true
}

// A TimeTeller can tell the current time, in cycles.
type TimeTeller interface {
	Now() uint64
}
