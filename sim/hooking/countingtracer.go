package hooking

import (
	"sort"
	"sync"
)

// AccessCount is the number of hits, misses and evictions observed at one
// cache.
type AccessCount struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// AccessCountTracer counts the hits, misses, and evictions of each cache it
// is attached to.
type AccessCountTracer struct {
	filter AccessFilter
	lock   sync.Mutex
	counts map[string]*AccessCount
}

// NewAccessCountTracer creates a new AccessCountTracer. A nil filter accepts
// all accesses.
func NewAccessCountTracer(filter AccessFilter) *AccessCountTracer {
	if filter == nil {
		filter = AllAccesses
	}

	return &AccessCountTracer{
		filter: filter,
		counts: make(map[string]*AccessCount),
	}
}

// Func counts the access carried by the hook context.
func (t *AccessCountTracer) Func(ctx HookCtx) {
	if ctx.Pos != HookPosCacheAccess {
		return
	}

	access := ctx.Item.(CacheAccess)
	if !t.filter(access) {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	count, ok := t.counts[access.Where]
	if !ok {
		count = &AccessCount{}
		t.counts[access.Where] = count
	}

	if access.Hit {
		count.Hits++
	} else {
		count.Misses++
	}

	if access.Evicted {
		count.Evictions++
	}
}

// Count returns the numbers collected for the named cache.
func (t *AccessCountTracer) Count(where string) AccessCount {
	t.lock.Lock()
	defer t.lock.Unlock()

	count, ok := t.counts[where]
	if !ok {
		return AccessCount{}
	}

	return *count
}

// Names returns the names of all the caches that have been observed, sorted.
func (t *AccessCountTracer) Names() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	names := make([]string, 0, len(t.counts))
	for name := range t.counts {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
