package hooking

import (
	"log"
)

// A LogHook is a hook that prints one line for each access served by the
// caches it is attached to.
type LogHook struct {
	*log.Logger

	filter AccessFilter
}

// NewLogHook creates a LogHook that writes with the given logger.
func NewLogHook(logger *log.Logger, filter AccessFilter) *LogHook {
	if filter == nil {
		filter = AllAccesses
	}

	return &LogHook{
		Logger: logger,
		filter: filter,
	}
}

// Func prints the access.
func (h *LogHook) Func(ctx HookCtx) {
	if ctx.Pos != HookPosCacheAccess {
		return
	}

	access := ctx.Item.(CacheAccess)
	if !h.filter(access) {
		return
	}

	result := "miss"
	if access.Hit {
		result = "hit"
	}

	if access.Evicted {
		h.Printf("%s 0x%x %s set=%d way=%d latency=%d evict=0x%x",
			access.Where, access.Address, result,
			access.SetID, access.WayID, access.Latency, access.EvictedTag)

		return
	}

	h.Printf("%s 0x%x %s set=%d way=%d latency=%d",
		access.Where, access.Address, result,
		access.SetID, access.WayID, access.Latency)
}
