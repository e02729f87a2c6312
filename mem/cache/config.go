package cache

import (
	"fmt"
	"math/bits"

	"github.com/sarchlab/cachesim/mem/cache/tagging"
)

// Config is the per-cache part of the configuration.
type Config struct {
	NumSets          int
	WayAssociativity int
	HitLatency       uint64
}

// ConfigError reports a cache geometry that cannot be modeled.
type ConfigError struct {
	Cache  string
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Cache == "" {
		return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
	}

	return fmt.Sprintf("%s: invalid %s %v: %s",
		e.Cache, e.Field, e.Value, e.Reason)
}

// Validate checks the configuration against a block size.
func (c Config) Validate(blockSize int) error {
	return ValidateGeometry(c.NumSets, c.WayAssociativity, blockSize)
}

// ValidateGeometry checks that the number of sets and the block size are
// powers of two and that every set has at least one way. It also rejects
// geometries whose set span (numSets * blockSize) does not fit in a 64-bit
// address.
func ValidateGeometry(numSets, numWays, blockSize int) error {
	if err := checkGeometry(numSets, numWays, blockSize); err != nil {
		return err
	}

	return nil
}

func checkGeometry(numSets, numWays, blockSize int) *ConfigError {
	if !tagging.IsPowerOfTwo(numSets) {
		return &ConfigError{
			Field:  "NumSets",
			Value:  numSets,
			Reason: "must be a power of two",
		}
	}

	if numWays < 1 {
		return &ConfigError{
			Field:  "WayAssociativity",
			Value:  numWays,
			Reason: "must be at least 1",
		}
	}

	if !tagging.IsPowerOfTwo(blockSize) {
		return &ConfigError{
			Field:  "BlockSize",
			Value:  blockSize,
			Reason: "must be a power of two",
		}
	}

	spanBits := bits.TrailingZeros(uint(numSets)) +
		bits.TrailingZeros(uint(blockSize))
	if spanBits >= 64 {
		return &ConfigError{
			Field:  "NumSets",
			Value:  numSets,
			Reason: fmt.Sprintf("sets * block size (2^%d) overflows", spanBits),
		}
	}

	return nil
}
