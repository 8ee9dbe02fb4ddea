package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/seoule/salon/internal/observability"
)

// Purger removes expired sessions and reports how many went.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type Config struct {
	// Schedule is a cron expression or descriptor, e.g. "@every 1h" or "0 * * * *".
	Schedule string
	Timeout  time.Duration
	Stats    *observability.SweepStats
	Logger   *slog.Logger
}

type Sweeper struct {
	purger   Purger
	schedule cron.Schedule
	expr     string
	timeout  time.Duration
	stats    *observability.SweepStats
	log      *slog.Logger

	running atomic.Bool
}

func New(purger Purger, cfg Config) (*Sweeper, error) {
	schedule, err := cron.ParseStandard(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("parse sweep schedule %q: %w", cfg.Schedule, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	stats := cfg.Stats
	if stats == nil {
		stats = observability.NewSweepStats()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Sweeper{
		purger:   purger,
		schedule: schedule,
		expr:     cfg.Schedule,
		timeout:  timeout,
		stats:    stats,
		log:      logger,
	}, nil
}

// RunOnce performs a single purge bounded by the configured timeout.
func (s *Sweeper) RunOnce(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	n, err := s.purger.PurgeExpired(ctx)
	s.stats.ObserveRun(n, time.Since(start), err)

	if err != nil {
		s.log.ErrorContext(ctx, "session sweep failed", "err", err)
		return 0, err
	}

	s.log.InfoContext(ctx, "session sweep done", "purged", n, "duration_ms", time.Since(start).Milliseconds())
	return n, nil
}

// Run sweeps once immediately, then on schedule until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	c.Schedule(s.schedule, cron.FuncJob(func() {
		_, _ = s.RunOnce(ctx)
	}))

	_, _ = s.RunOnce(ctx)

	c.Start()
	s.running.Store(true)
	s.log.Info("session sweeper started", "schedule", s.expr)

	<-ctx.Done()

	s.running.Store(false)

	// wait for an in-flight sweep to finish
	<-c.Stop().Done()
	s.log.Info("session sweeper stopped")

	return nil
}

func (s *Sweeper) Running() bool {
	return s.running.Load()
}

func (s *Sweeper) Stats() observability.SweepSnapshot {
	return s.stats.Snapshot()
}
