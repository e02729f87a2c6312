package cache

import (
	"github.com/sarchlab/cachesim/mem/cache/tagging"
)

// Builder can build caches.
type Builder struct {
	numSets          int
	wayAssociativity int
	blockSize        int
	hitLatency       uint64
	victimFinder     tagging.VictimFinder
	lowerLevel       LowerLevel
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		numSets:          64,
		wayAssociativity: 4,
		blockSize:        64,
		hitLatency:       1,
	}
}

// WithConfig sets the number of sets, the associativity and the hit latency
// at once.
func (b Builder) WithConfig(config Config) Builder {
	b.numSets = config.NumSets
	b.wayAssociativity = config.WayAssociativity
	b.hitLatency = config.HitLatency

	return b
}

// WithNumSets sets the number of sets. It must be a power of two.
func (b Builder) WithNumSets(numSets int) Builder {
	b.numSets = numSets
	return b
}

// WithWayAssociativity sets the number of ways in each set.
func (b Builder) WithWayAssociativity(wayAssociativity int) Builder {
	b.wayAssociativity = wayAssociativity
	return b
}

// WithBlockSize sets the number of bytes in a cache line. It must be a power
// of two.
func (b Builder) WithBlockSize(blockSize int) Builder {
	b.blockSize = blockSize
	return b
}

// WithHitLatency sets the number of cycles a hit takes.
func (b Builder) WithHitLatency(hitLatency uint64) Builder {
	b.hitLatency = hitLatency
	return b
}

// WithVictimFinder sets the replacement policy. LRU is used if not set.
func (b Builder) WithVictimFinder(victimFinder tagging.VictimFinder) Builder {
	b.victimFinder = victimFinder
	return b
}

// WithLowerLevel sets where the misses go.
func (b Builder) WithLowerLevel(lowerLevel LowerLevel) Builder {
	b.lowerLevel = lowerLevel
	return b
}

// Build builds a cache. It returns a *ConfigError if the geometry cannot be
// modeled or if no lower level is set.
func (b Builder) Build(name string) (*Cache, error) {
	if err := checkGeometry(
		b.numSets, b.wayAssociativity, b.blockSize,
	); err != nil {
		err.Cache = name
		return nil, err
	}

	if b.lowerLevel == nil {
		return nil, &ConfigError{
			Cache:  name,
			Field:  "LowerLevel",
			Value:  nil,
			Reason: "must be set",
		}
	}

	victimFinder := b.victimFinder
	if victimFinder == nil {
		victimFinder = tagging.NewLRUVictimFinder()
	}

	c := &Cache{
		name:         name,
		hitLatency:   b.hitLatency,
		tags:         tagging.NewTagArray(b.numSets, b.wayAssociativity, b.blockSize),
		victimFinder: victimFinder,
		lowerLevel:   b.lowerLevel,
	}

	return c, nil
}
