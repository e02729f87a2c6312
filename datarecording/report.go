package datarecording

import (
	"github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/mem/hierarchy"
)

const statsTableName = "cache_stats"

type statsEntry struct {
	RunID          string
	Cache          string
	NumSets        int
	Associativity  int
	BlockSize      int
	HitLatency     uint64
	Inclusive      bool
	NumReferences  uint64
	NumMisses      uint64
	PenaltyCycles  uint64
	MissRate       float64
	AvgMissPenalty float64
}

// RecordReport stores the statistics of every cache of the report in the
// cache_stats table, one row per cache, and flushes.
func RecordReport(
	recorder DataRecorder,
	runID string,
	report hierarchy.Report,
) {
	recorder.CreateTable(statsTableName, statsEntry{})

	rows := []struct {
		name   string
		config cache.Config
		stats  cache.Stats
	}{
		{hierarchy.ICacheName, report.Config.ICache, report.ICache},
		{hierarchy.DCacheName, report.Config.DCache, report.DCache},
		{hierarchy.L2Name, report.Config.L2, report.L2},
	}

	for _, row := range rows {
		recorder.InsertData(statsTableName, statsEntry{
			RunID:          runID,
			Cache:          row.name,
			NumSets:        row.config.NumSets,
			Associativity:  row.config.WayAssociativity,
			BlockSize:      report.Config.BlockSize,
			HitLatency:     row.config.HitLatency,
			Inclusive:      report.Config.Inclusive,
			NumReferences:  row.stats.References,
			NumMisses:      row.stats.Misses,
			PenaltyCycles:  row.stats.PenaltyCycles,
			MissRate:       row.stats.MissRate(),
			AvgMissPenalty: row.stats.AvgMissPenalty(),
		})
	}

	recorder.Flush()
}
