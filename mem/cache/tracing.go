package cache

import (
	"github.com/sarchlab/cachesim/mem/cache/tagging"
	"github.com/sarchlab/cachesim/sim/hooking"
)

func (c *Cache) traceAccess(
	addr uint64,
	block tagging.Block,
	hit bool,
	replaced tagging.Block,
	latency uint64,
) {
	if c.NumHooks() == 0 {
		return
	}

	var evictedTag uint64
	if replaced.IsValid {
		evictedTag = replaced.Tag
	}

	ctx := hooking.HookCtx{
		Domain: c,
		Pos:    hooking.HookPosCacheAccess,
		Item: hooking.CacheAccess{
			Where:      c.name,
			Address:    addr,
			SetID:      block.SetID,
			WayID:      block.WayID,
			Tag:        block.Tag,
			Hit:        hit,
			Evicted:    replaced.IsValid,
			EvictedTag: evictedTag,
			Latency:    latency,
		},
	}

	c.InvokeHook(ctx)
}
