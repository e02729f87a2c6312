package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/mem/hierarchy"
)

// Flag names and the environment variables that provide their defaults.
const (
	flagICache    = "icache"
	flagDCache    = "dcache"
	flagL2Cache   = "l2cache"
	flagBlockSize = "blocksize"
	flagMemSpeed  = "memspeed"
	flagInclusive = "inclusive"

	envPrefix = "CACHESIM_"
)

func envName(flagName string) string {
	return envPrefix + strings.ToUpper(flagName)
}

func addConfigFlags(flags *pflag.FlagSet) {
	d := hierarchy.DefaultConfig()

	flags.String(flagICache, formatCacheSpec(d.ICache),
		"I$ geometry as <sets>:<assoc>:<hit latency>")
	flags.String(flagDCache, formatCacheSpec(d.DCache),
		"D$ geometry as <sets>:<assoc>:<hit latency>")
	flags.String(flagL2Cache, formatCacheSpec(d.L2),
		"L2$ geometry as <sets>:<assoc>:<hit latency>")
	flags.Int(flagBlockSize, d.BlockSize, "block size in bytes")
	flags.Uint64(flagMemSpeed, d.MemoryLatency,
		"latency of main memory in cycles")
	flags.Bool(flagInclusive, d.Inclusive, "mark the L2 as inclusive")
}

// loadDotEnv loads a .env file into the environment. Variables that are
// already set are not overridden. A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}

// resolveConfig builds the hierarchy configuration. A flag given on the
// command line wins over the environment, which wins over the default.
func resolveConfig(flags *pflag.FlagSet) (hierarchy.Config, error) {
	config := hierarchy.Config{}

	caches := []struct {
		flag   string
		target *cache.Config
	}{
		{flagICache, &config.ICache},
		{flagDCache, &config.DCache},
		{flagL2Cache, &config.L2},
	}

	for _, c := range caches {
		value, err := lookup(flags, c.flag)
		if err != nil {
			return config, err
		}

		*c.target, err = parseCacheSpec(value)
		if err != nil {
			return config, fmt.Errorf("--%s: %w", c.flag, err)
		}
	}

	blockSize, err := lookupInt(flags, flagBlockSize, 0)
	if err != nil {
		return config, err
	}

	config.BlockSize = int(blockSize)

	config.MemoryLatency, err = lookupInt(flags, flagMemSpeed, 64)
	if err != nil {
		return config, err
	}

	inclusive, err := lookup(flags, flagInclusive)
	if err != nil {
		return config, err
	}

	config.Inclusive, err = strconv.ParseBool(inclusive)
	if err != nil {
		return config, fmt.Errorf("--%s: %w", flagInclusive, err)
	}

	return config, nil
}

func lookup(flags *pflag.FlagSet, name string) (string, error) {
	f := flags.Lookup(name)
	if f == nil {
		return "", fmt.Errorf("flag %s is not defined", name)
	}

	if f.Changed {
		return f.Value.String(), nil
	}

	if value, ok := os.LookupEnv(envName(name)); ok {
		return value, nil
	}

	return f.Value.String(), nil
}

// lookupInt parses an integer option. bitSize 0 means int.
func lookupInt(flags *pflag.FlagSet, name string, bitSize int) (uint64, error) {
	value, err := lookup(flags, name)
	if err != nil {
		return 0, err
	}

	if bitSize == 0 {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("--%s: %w", name, err)
		}

		if n < 0 {
			return 0, fmt.Errorf("--%s: must not be negative", name)
		}

		return uint64(n), nil
	}

	n, err := strconv.ParseUint(value, 10, bitSize)
	if err != nil {
		return 0, fmt.Errorf("--%s: %w", name, err)
	}

	return n, nil
}

// parseCacheSpec parses <sets>:<assoc>:<hit latency>.
func parseCacheSpec(spec string) (cache.Config, error) {
	fields := strings.Split(spec, ":")
	if len(fields) != 3 {
		return cache.Config{}, fmt.Errorf(
			"%q is not in the form <sets>:<assoc>:<hit latency>", spec)
	}

	numSets, err := strconv.Atoi(fields[0])
	if err != nil {
		return cache.Config{}, fmt.Errorf("sets: %w", err)
	}

	assoc, err := strconv.Atoi(fields[1])
	if err != nil {
		return cache.Config{}, fmt.Errorf("assoc: %w", err)
	}

	hitLatency, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return cache.Config{}, fmt.Errorf("hit latency: %w", err)
	}

	return cache.Config{
		NumSets:          numSets,
		WayAssociativity: assoc,
		HitLatency:       hitLatency,
	}, nil
}

func formatCacheSpec(c cache.Config) string {
	return fmt.Sprintf("%d:%d:%d", c.NumSets, c.WayAssociativity, c.HitLatency)
}
