package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/seoule/salon/internal/config"
	"github.com/seoule/salon/internal/db"
	"github.com/seoule/salon/internal/observability"
	"github.com/seoule/salon/internal/repo/postgres"
	"github.com/seoule/salon/internal/sessions"
	"github.com/seoule/salon/internal/sweeper"
	"github.com/seoule/salon/internal/worker"
)

// issuerless is the token issuer for a store that only purges.
type issuerless struct{}

func (issuerless) Issue(string) (string, time.Time, error) {
	return "", time.Time{}, errors.New("worker does not issue sessions")
}

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env).With("component", "sweeper")
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DBURL, db.WithApplicationName("salon-sweeper"), db.WithMaxConns(2))
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	store := sessions.NewStore(postgres.NewSessionsRepo(pool, prom), issuerless{}, sessions.Config{
		Prom:   prom,
		Logger: log,
	})

	sw, err := sweeper.New(store, sweeper.Config{
		Schedule: cfg.SweepSchedule,
		Timeout:  30 * time.Second,
		Stats:    observability.NewSweepStats(),
		Logger:   log,
	})
	if err != nil {
		log.Error("sweeper config invalid", "err", err)
		os.Exit(1)
	}

	probes := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.WorkerHealthPort),
		Handler:           worker.ProbeHandler(pool, sw, reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("probe server starting", "port", cfg.WorkerHealthPort)
		if err := probes.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("probe server failed", "err", err)
		}
	}()

	if err := sw.Run(ctx); err != nil {
		log.Error("sweeper stopped with error", "err", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_ = probes.Shutdown(shutdownCtx)

	log.Info("worker shutdown complete")
}
