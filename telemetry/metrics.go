// Package telemetry provides Prometheus metrics and optional OpenTelemetry tracing
// for the long-running watch loop.
package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	// Counters
	WatchChecks          prometheus.Counter
	WatchFailures        prometheus.Counter
	WatchPollErrors      prometheus.Counter
	WatchRestarts        prometheus.Counter
	WatchRestartFailures prometheus.Counter
	NotificationsSent    prometheus.Counter
	NotificationsFailed  prometheus.Counter

	// Gauges
	WatchConsecutiveFailures prometheus.Gauge
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		WatchChecks = promauto.NewCounter(prometheus.CounterOpts{Name: "stream_watch_checks_total", Help: "Health samples successfully fetched"})
		WatchFailures = promauto.NewCounter(prometheus.CounterOpts{Name: "stream_watch_failures_total", Help: "Unhealthy samples observed"})
		WatchPollErrors = promauto.NewCounter(prometheus.CounterOpts{Name: "stream_watch_poll_errors_total", Help: "Transient errors fetching a health sample"})
		WatchRestarts = promauto.NewCounter(prometheus.CounterOpts{Name: "stream_watch_restarts_total", Help: "Successful backend restarts triggered by the watch loop"})
		WatchRestartFailures = promauto.NewCounter(prometheus.CounterOpts{Name: "stream_watch_restart_failures_total", Help: "Failed backend restart attempts"})
		NotificationsSent = promauto.NewCounter(prometheus.CounterOpts{Name: "stream_notifications_sent_total", Help: "Webhook notifications delivered"})
		NotificationsFailed = promauto.NewCounter(prometheus.CounterOpts{Name: "stream_notifications_failed_total", Help: "Webhook notifications that failed to deliver"})
		WatchConsecutiveFailures = promauto.NewGauge(prometheus.GaugeOpts{Name: "stream_watch_consecutive_failures", Help: "Current consecutive unhealthy sample count"})
	})
}

// ServeMetrics exposes /metrics on addr when METRICS_ADDR is set, for scraping
// a long-lived `yt stream watch` process. It returns immediately; the server
// stops when ctx is cancelled.
func ServeMetrics(ctx context.Context) {
	addr := os.Getenv("METRICS_ADDR")
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		slog.Info("metrics server listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server error", slog.Any("err", err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()
}
