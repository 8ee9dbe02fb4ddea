package observability

import (
	"sync/atomic"
	"time"
)

// SweepStats tracks sweeper runs for the worker's status endpoint.
type SweepStats struct {
	runs    atomic.Uint64
	failed  atomic.Uint64
	purged  atomic.Uint64
	lastRun atomic.Int64 // unix nanos

	// duration stats (nanoseconds)
	durationTotal atomic.Int64
	durationMax   atomic.Int64
}

func NewSweepStats() *SweepStats {
	return &SweepStats{}
}

func (s *SweepStats) ObserveRun(purged int64, d time.Duration, err error) {
	s.runs.Add(1)
	s.lastRun.Store(time.Now().UnixNano())

	if err != nil {
		s.failed.Add(1)
	} else if purged > 0 {
		s.purged.Add(uint64(purged))
	}

	ns := d.Nanoseconds()
	s.durationTotal.Add(ns)

	// max update
	for {
		curr := s.durationMax.Load()

		if ns <= curr {
			return
		}

		if s.durationMax.CompareAndSwap(curr, ns) {
			return
		}
	}
}

type SweepSnapshot struct {
	Runs            uint64        `json:"runs"`
	Failed          uint64        `json:"failed"`
	Purged          uint64        `json:"purged"`
	LastRunAt       *time.Time    `json:"lastRunAt,omitempty"`
	AverageDuration time.Duration `json:"averageDurationNs"`
	MaxDuration     time.Duration `json:"maxDurationNs"`
}

func (s *SweepStats) Snapshot() SweepSnapshot {
	runs := s.runs.Load()
	total := s.durationTotal.Load()

	var avg time.Duration

	if runs > 0 {
		avg = time.Duration(total / int64(runs))
	}

	snap := SweepSnapshot{
		Runs:            runs,
		Failed:          s.failed.Load(),
		Purged:          s.purged.Load(),
		AverageDuration: avg,
		MaxDuration:     time.Duration(s.durationMax.Load()),
	}

	if last := s.lastRun.Load(); last > 0 {
		t := time.Unix(0, last).UTC()
		snap.LastRunAt = &t
	}

	return snap
}
