package datarecording

import (
	"github.com/sarchlab/cachesim/sim/hooking"
)

const accessTableName = "cache_accesses"

type accessEntry struct {
	Seq        uint64
	Cache      string
	Address    uint64
	SetID      int
	WayID      int
	Tag        uint64
	Hit        bool
	Evicted    bool
	EvictedTag uint64
	Latency    uint64
}

// AccessRecorder is a hook that stores every access it sees in the
// cache_accesses table. Accesses are numbered in the order they complete, so
// an L2 access caused by an L1 miss comes before the L1 access.
type AccessRecorder struct {
	recorder DataRecorder
	seq      uint64
}

// NewAccessRecorder creates the cache_accesses table.
func NewAccessRecorder(recorder DataRecorder) *AccessRecorder {
	recorder.CreateTable(accessTableName, accessEntry{})

	return &AccessRecorder{recorder: recorder}
}

// Func records the access.
func (r *AccessRecorder) Func(ctx hooking.HookCtx) {
	if ctx.Pos != hooking.HookPosCacheAccess {
		return
	}

	access := ctx.Item.(hooking.CacheAccess)

	r.seq++
	r.recorder.InsertData(accessTableName, accessEntry{
		Seq:        r.seq,
		Cache:      access.Where,
		Address:    access.Address,
		SetID:      access.SetID,
		WayID:      access.WayID,
		Tag:        access.Tag,
		Hit:        access.Hit,
		Evicted:    access.Evicted,
		EvictedTag: access.EvictedTag,
		Latency:    access.Latency,
	})
}
