package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestObserveDB_ClassifiesErrors(t *testing.T) {
	p := NewProm(prometheus.NewRegistry())

	_ = p.ObserveDB("sessions.insert", func() error { return &pgconn.PgError{Code: "23505"} })
	_ = p.ObserveDB("sessions.insert", func() error { return nil })
	_ = p.ObserveDB("users.get_by_id", func() error { return errors.New("dial tcp: connection refused") })

	if got := testutil.ToFloat64(p.DbErrorsTotal.WithLabelValues("sessions.insert", "unique_violation")); got != 1 {
		t.Fatalf("unique_violation count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.DbErrorsTotal.WithLabelValues("users.get_by_id", "connection")); got != 1 {
		t.Fatalf("connection count = %v, want 1", got)
	}
}

func TestObserveDB_NoRowsIsAMiss(t *testing.T) {
	p := NewProm(prometheus.NewRegistry())

	err := p.ObserveDB("sessions.find_valid", func() error { return fmt.Errorf("find: %w", pgx.ErrNoRows) })
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("error must pass through unchanged, got %v", err)
	}

	if n := testutil.CollectAndCount(p.DbErrorsTotal); n != 0 {
		t.Fatalf("a miss must not count as a db error, got %d series", n)
	}

	if got := classifyDBErr(context.DeadlineExceeded); got != "timeout" {
		t.Fatalf("deadline classified as %q", got)
	}
}

func TestNilPromIsSafe(t *testing.T) {
	var p *Prom

	called := false
	if err := p.ObserveDB("op", func() error { called = true; return nil }); err != nil || !called {
		t.Fatalf("nil prom must still run fn")
	}

	p.ObserveLogin("success")
	p.ObserveSessionCreated()
	p.ObserveSessionsPurged(3)
	p.ObserveSessionCache("hit")
}

func TestLoginCounter(t *testing.T) {
	p := NewProm(prometheus.NewRegistry())

	p.ObserveLogin("invalid")
	p.ObserveLogin("invalid")
	p.ObserveLogin("success")

	if got := testutil.ToFloat64(p.LoginAttempts.WithLabelValues("invalid")); got != 2 {
		t.Fatalf("invalid = %v, want 2", got)
	}
}

func TestSweepStats_Snapshot(t *testing.T) {
	s := NewSweepStats()

	s.ObserveRun(4, 10*time.Millisecond, nil)
	s.ObserveRun(0, 30*time.Millisecond, errors.New("boom"))

	snap := s.Snapshot()

	if snap.Runs != 2 || snap.Failed != 1 || snap.Purged != 4 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.MaxDuration != 30*time.Millisecond || snap.AverageDuration != 20*time.Millisecond {
		t.Fatalf("unexpected durations %+v", snap)
	}
	if snap.LastRunAt == nil {
		t.Fatalf("expected last run time")
	}
}

func TestLogger_AddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger("dev", &buf)

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	log.InfoContext(ctx, "inside span")
	span.End()

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal log line: %v (%s)", err, buf.String())
	}

	if rec["trace_id"] != span.SpanContext().TraceID().String() {
		t.Fatalf("trace_id = %v, want %s", rec["trace_id"], span.SpanContext().TraceID())
	}
}

func TestSamplerFor(t *testing.T) {
	for ratio, want := range map[float64]string{
		0:    "AlwaysOnSampler",
		1:    "AlwaysOnSampler",
		0.25: "TraceIDRatioBased{0.25}",
	} {
		if got := samplerFor(ratio).Description(); !strings.Contains(got, want) {
			t.Fatalf("ratio %v: sampler %q does not contain %q", ratio, got, want)
		}
	}
}
