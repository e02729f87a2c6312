package hierarchy

import (
	"errors"

	"github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/mem/idealmemcontroller"
)

// Names of the components of a hierarchy.
const (
	ICacheName = "L1I"
	DCacheName = "L1D"
	L2Name     = "L2"
	MemoryName = "Memory"
)

// Config describes a hierarchy. BlockSize is shared by all three caches.
// MemoryLatency is the fixed penalty of an L2 miss.
type Config struct {
	ICache cache.Config `json:"icache"`
	DCache cache.Config `json:"dcache"`
	L2     cache.Config `json:"l2cache"`

	BlockSize     int    `json:"block_size"`
	MemoryLatency uint64 `json:"memory_latency"`

	// Inclusive is recorded and reported. It does not change how accesses
	// are served.
	Inclusive bool `json:"inclusive"`
}

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() Config {
	return Config{
		ICache: cache.Config{
			NumSets:          256,
			WayAssociativity: 2,
			HitLatency:       2,
		},
		DCache: cache.Config{
			NumSets:          256,
			WayAssociativity: 4,
			HitLatency:       2,
		},
		L2: cache.Config{
			NumSets:          1024,
			WayAssociativity: 8,
			HitLatency:       10,
		},
		BlockSize:     64,
		MemoryLatency: idealmemcontroller.DefaultLatency,
	}
}

// Validate checks the geometry of all the caches. The returned error is a
// *cache.ConfigError naming the offending cache.
func (c Config) Validate() error {
	caches := []struct {
		name   string
		config cache.Config
	}{
		{ICacheName, c.ICache},
		{DCacheName, c.DCache},
		{L2Name, c.L2},
	}

	for _, entry := range caches {
		err := entry.config.Validate(c.BlockSize)
		if err == nil {
			continue
		}

		var configErr *cache.ConfigError
		if errors.As(err, &configErr) {
			configErr.Cache = entry.name
		}

		return err
	}

	return nil
}
