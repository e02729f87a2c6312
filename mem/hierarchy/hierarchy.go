// Package hierarchy wires an instruction cache and a data cache to a shared
// L2 cache backed by a fixed-latency memory.
//
// An L1 miss costs the L1 hit latency plus the latency of the L2 access for
// the same address. An L2 miss costs the L2 hit latency plus the memory
// latency. The two L1 caches never invalidate each other.
package hierarchy

import (
	"errors"
	"fmt"

	"github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/mem/idealmemcontroller"
	"github.com/sarchlab/cachesim/sim/hooking"
)

var (
	// ErrNotInitialized is the cause of the panic raised by an access to a
	// hierarchy that has not been initialized.
	ErrNotInitialized = errors.New("hierarchy is not initialized")

	// ErrAlreadyInitialized is returned by a second call to Initialize.
	ErrAlreadyInitialized = errors.New("hierarchy is already initialized")
)

// Hierarchy is a two-level cache hierarchy. It is not safe for concurrent
// use. Accesses are served one at a time, in order.
type Hierarchy struct {
	config Config

	icache *cache.Cache
	dcache *cache.Cache
	l2     *cache.Cache
	memory *idealmemcontroller.Comp

	cycles uint64
}

var _ hooking.TimeTeller = (*Hierarchy)(nil)

// New creates and initializes a hierarchy.
func New(config Config) (*Hierarchy, error) {
	h := &Hierarchy{}

	if err := h.Initialize(config); err != nil {
		return nil, err
	}

	return h, nil
}

// Initialize builds the caches with all lines invalid and all counters zero.
// It must be called once, before any access.
func (h *Hierarchy) Initialize(config Config) error {
	if h.l2 != nil {
		return ErrAlreadyInitialized
	}

	if err := config.Validate(); err != nil {
		return err
	}

	memory := idealmemcontroller.MakeBuilder().
		WithLatency(config.MemoryLatency).
		Build(MemoryName)

	l2, err := cache.MakeBuilder().
		WithConfig(config.L2).
		WithBlockSize(config.BlockSize).
		WithLowerLevel(memory).
		Build(L2Name)
	if err != nil {
		return err
	}

	icache, err := cache.MakeBuilder().
		WithConfig(config.ICache).
		WithBlockSize(config.BlockSize).
		WithLowerLevel(l2).
		Build(ICacheName)
	if err != nil {
		return err
	}

	dcache, err := cache.MakeBuilder().
		WithConfig(config.DCache).
		WithBlockSize(config.BlockSize).
		WithLowerLevel(l2).
		Build(DCacheName)
	if err != nil {
		return err
	}

	h.config = config
	h.memory = memory
	h.l2 = l2
	h.icache = icache
	h.dcache = dcache

	return nil
}

// Initialized tells if Initialize has succeeded.
func (h *Hierarchy) Initialized() bool {
	return h.l2 != nil
}

// Config returns the configuration the hierarchy was initialized with.
func (h *Hierarchy) Config() Config {
	return h.config
}

// Access serves a reference of the given kind and returns its latency.
func (h *Hierarchy) Access(kind AccessKind, addr uint32) uint64 {
	switch kind {
	case Instruction:
		return h.AccessInstruction(addr)
	case Data:
		return h.AccessData(addr)
	default:
		panic(fmt.Sprintf("unknown access kind %d", int(kind)))
	}
}

// AccessInstruction fetches an instruction through the I-cache.
func (h *Hierarchy) AccessInstruction(addr uint32) uint64 {
	h.mustBeInitialized()

	latency := h.icache.Access(uint64(addr))
	h.cycles += latency

	return latency
}

// AccessData reads or writes data through the D-cache.
func (h *Hierarchy) AccessData(addr uint32) uint64 {
	h.mustBeInitialized()

	latency := h.dcache.Access(uint64(addr))
	h.cycles += latency

	return latency
}

// AccessL2 accesses the L2 cache directly. The L1 caches call the L2 on their
// misses. This method exists to exercise the L2 alone. Its latency is not
// added to the cycle count.
func (h *Hierarchy) AccessL2(addr uint32) uint64 {
	h.mustBeInitialized()

	return h.l2.Access(uint64(addr))
}

// Now returns the number of cycles spent by the accesses made through
// AccessInstruction and AccessData, assuming they are served back to back.
func (h *Hierarchy) Now() uint64 {
	return h.cycles
}

// ICache returns the instruction cache.
func (h *Hierarchy) ICache() *cache.Cache {
	return h.icache
}

// DCache returns the data cache.
func (h *Hierarchy) DCache() *cache.Cache {
	return h.dcache
}

// L2Cache returns the unified second level cache.
func (h *Hierarchy) L2Cache() *cache.Cache {
	return h.l2
}

// Memory returns the memory behind the L2 cache.
func (h *Hierarchy) Memory() *idealmemcontroller.Comp {
	return h.memory
}

// Caches returns the I-cache, the D-cache, and the L2 cache, in that order.
func (h *Hierarchy) Caches() []*cache.Cache {
	h.mustBeInitialized()

	return []*cache.Cache{h.icache, h.dcache, h.l2}
}

// FindCache returns the cache with the given name, or nil.
func (h *Hierarchy) FindCache(name string) *cache.Cache {
	if !h.Initialized() {
		return nil
	}

	for _, c := range h.Caches() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

func (h *Hierarchy) mustBeInitialized() {
	if !h.Initialized() {
		panic(fmt.Errorf("access: %w", ErrNotInitialized))
	}
}
