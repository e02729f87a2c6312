// Package cache provides a trace-driven model of a set-associative cache.
//
// The model keeps tags only. An access looks up the set the address maps to.
// A hit costs the hit latency. A miss replaces the least recently used way
// and costs the hit latency plus whatever the lower level charges for the
// same address.
package cache

import (
	"github.com/sarchlab/cachesim/mem/cache/tagging"
	"github.com/sarchlab/cachesim/sim/hooking"
)

// Cache is one level of the cache hierarchy.
type Cache struct {
	hooking.HookableBase

	name         string
	hitLatency   uint64
	tags         tagging.TagArray
	victimFinder tagging.VictimFinder
	lowerLevel   LowerLevel
	stats        Stats
}

// Name returns the name of the cache.
func (c *Cache) Name() string {
	return c.name
}

// HitLatency returns the number of cycles a hit takes.
func (c *Cache) HitLatency() uint64 {
	return c.hitLatency
}

// Tags returns the tag array of the cache.
func (c *Cache) Tags() tagging.TagArray {
	return c.tags
}

// LowerLevel returns where the misses of the cache go.
func (c *Cache) LowerLevel() LowerLevel {
	return c.lowerLevel
}

// Stats returns a copy of the counters of the cache.
func (c *Cache) Stats() Stats {
	return c.stats
}

// Access looks up the address and returns the number of cycles the access
// takes.
func (c *Cache) Access(addr uint64) uint64 {
	c.mustBeBuilt()

	c.stats.References++

	block, hit := c.tags.Lookup(addr)
	if hit {
		c.tags.Visit(block)
		c.traceAccess(addr, block, true, tagging.Block{}, c.hitLatency)

		return c.hitLatency
	}

	c.stats.Misses++

	victim := c.victimFinder.FindVictim(c.tags, addr)
	evicted := victim

	victim.Tag = c.tags.Locate(addr).Tag
	victim.IsValid = true
	c.tags.Update(victim)
	c.tags.Visit(victim)

	penalty := c.lowerLevel.Access(addr)
	c.stats.PenaltyCycles += penalty

	latency := c.hitLatency + penalty
	c.traceAccess(addr, victim, false, evicted, latency)

	return latency
}

func (c *Cache) mustBeBuilt() {
	if c.tags == nil || c.lowerLevel == nil {
		panic("cache " + c.name + " is used before being built")
	}
}
