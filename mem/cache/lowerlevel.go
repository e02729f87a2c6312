package cache

// LowerLevel is where a cache sends its misses. The value returned by Access
// is the penalty, in cycles, that the cache adds to its own hit latency.
type LowerLevel interface {
	Access(addr uint64) uint64
}

// LowerLevelFunc turns a function into a LowerLevel.
type LowerLevelFunc func(addr uint64) uint64

// Access calls f.
func (f LowerLevelFunc) Access(addr uint64) uint64 {
	return f(addr)
}
