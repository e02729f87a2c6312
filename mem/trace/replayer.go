package trace

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/sarchlab/cachesim/mem/hierarchy"
)

// A Source produces records until it returns io.EOF.
type Source interface {
	Next() (Record, error)
}

// A ProgressTracker is told how many records have been replayed.
type ProgressTracker interface {
	IncrementFinished(amount uint64)
}

type noLock struct{}

func (noLock) Lock()   {}
func (noLock) Unlock() {}

// Replayer feeds the records of a trace into a hierarchy, one at a time.
type Replayer struct {
	hierarchy *hierarchy.Hierarchy
	lock      sync.Locker
	progress  ProgressTracker

	numRecords uint64
}

// NewReplayer creates a Replayer.
func NewReplayer(h *hierarchy.Hierarchy) *Replayer {
	return &Replayer{
		hierarchy: h,
		lock:      noLock{},
	}
}

// WithLock makes the replayer hold the lock while it accesses the hierarchy,
// so that others holding the same lock see the hierarchy between accesses.
func (r *Replayer) WithLock(lock sync.Locker) *Replayer {
	r.lock = lock
	return r
}

// WithProgressTracker reports every replayed record to the tracker.
func (r *Replayer) WithProgressTracker(p ProgressTracker) *Replayer {
	r.progress = p
	return r
}

// NumRecords returns the number of records replayed so far.
func (r *Replayer) NumRecords() uint64 {
	return r.numRecords
}

// Replay reads the source to the end. It stops early if the context is
// canceled or if the source fails.
func (r *Replayer) Replay(ctx context.Context, src Source) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		record, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return err
		}

		r.replayOne(record)
	}
}

func (r *Replayer) replayOne(record Record) {
	r.lock.Lock()
	r.hierarchy.Access(record.Kind, record.Address)
	r.numRecords++
	r.lock.Unlock()

	if r.progress != nil {
		r.progress.IncrementFinished(1)
	}
}
