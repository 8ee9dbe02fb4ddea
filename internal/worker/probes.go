package worker

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/seoule/salon/internal/observability"
)

type ReadinessDeps interface {
	Ping(ctx context.Context) error
}

type Status interface {
	Running() bool
	Stats() observability.SweepSnapshot
}

// ProbeHandler serves /healthz, /readyz and /metrics for the sweeper process.
func ProbeHandler(deps ReadinessDeps, status Status, gatherer prometheus.Gatherer) http.Handler {
	r := gin.New()

	r.Use(gin.Recovery())

	// liveness: process is up, plus what the sweeper has done so far
	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"ok":    true,
			"sweep": status.Stats(),
		})
	})

	// readiness: scheduler running and database reachable
	r.GET("/readyz", func(c *gin.Context) {
		if !status.Running() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "reason": "sweeper not running"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 500*time.Millisecond)
		defer cancel()

		if err := deps.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "reason": "db not ready"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return r
}
