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
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/seoule/salon/internal/auth"
	"github.com/seoule/salon/internal/cache"
	"github.com/seoule/salon/internal/config"
	"github.com/seoule/salon/internal/db"
	httpx "github.com/seoule/salon/internal/http"
	"github.com/seoule/salon/internal/observability"
	"github.com/seoule/salon/internal/redisclient"
	"github.com/seoule/salon/internal/repo/postgres"
	"github.com/seoule/salon/internal/security"
	"github.com/seoule/salon/internal/sessions"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	if cfg.UsesDefaultSecret() {
		log.Warn("JWT_SECRET not set, using the insecure development secret")
	}

	ctx := context.Background()

	if cfg.OTelEnabled {
		shutdownTracer, err := observability.InitTracer(ctx, observability.TracerConfig{
			ServiceName: "salon-api",
			Env:         cfg.Env,
			Endpoint:    cfg.OTelEndpoint,
			SampleRatio: cfg.OTelSampleRatio,
		})
		if err != nil {
			log.Error("otel init failed", "err", err)
			os.Exit(1)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTracer(ctx)
		}()
	}

	// database
	pool, err := db.NewPool(ctx, cfg.DBURL, db.WithApplicationName("salon-api"))
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := db.RunMigrations(cfg.DBURL); err != nil {
			log.Error("migrations failed", "err", err)
			os.Exit(1)
		}
	}

	hasher := security.NewHasher(cfg.BcryptCost)

	if err := db.EnsureAdminUser(ctx, pool, cfg, hasher); err != nil {
		log.Error("admin seed failed", "err", err)
		os.Exit(1)
	}

	// metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	// session cache: none, per-process memory, or shared redis
	backend := cfg.SessionCacheBackend()

	var rdb *redis.Client

	if backend == cache.BackendRedis {
		rc, err := redisclient.NewFromURL(cfg.RedisURL)
		if err != nil {
			log.Error("redis config invalid", "err", err)
			os.Exit(1)
		}
		defer rc.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err = rc.Ping(pingCtx)
		cancel()

		if err != nil {
			log.Warn("redis unreachable, session lookups will fall through to postgres", "err", err)
		}

		rdb = rc.Raw()
	}

	sessionCache, err := cache.Select(backend, rdb, cfg.SessionCacheTTL)
	if err != nil {
		log.Error("session cache config invalid", "err", err)
		os.Exit(1)
	}
	if backend == cache.BackendMemory {
		log.Warn("memory session cache: logouts are only seen by this process until entries expire")
	}
	log.Info("session cache", "backend", backend)

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.SessionTTL)

	store := sessions.NewStore(postgres.NewSessionsRepo(pool, prom), issuer, sessions.Config{
		Cache:    sessionCache,
		CacheTTL: cfg.SessionCacheTTL,
		Prom:     prom,
		Logger:   log,
	})

	gate := auth.NewGate(postgres.NewUsersRepo(pool, prom), store, hasher, issuer, auth.GateOptions{
		Logger: log,
		Prom:   prom,
	})

	router := httpx.NewRouter(httpx.RouterDeps{
		Config:   cfg,
		Log:      log,
		Pool:     pool,
		Gate:     gate,
		Prom:     prom,
		Gatherer: reg,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")
	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
