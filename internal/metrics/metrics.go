// Package metrics exposes pipeline counters for Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const Namespace = "weeklywatch"

// Metrics holds every collector the pipeline updates.
type Metrics struct {
	RunsTotal           *prometheus.CounterVec
	RunDurationSeconds  prometheus.Histogram
	CollectedItems      *prometheus.GaugeVec
	DispatchTotal       *prometheus.CounterVec
	SummarizeFailures   prometheus.Counter
	LastSuccessUnixTime prometheus.Gauge
}

// New registers the collectors on reg, or on a private registry when nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "runs_total",
				Help:      "Pipeline runs by final status",
			},
			[]string{"status"},
		),
		RunDurationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "run_duration_seconds",
				Help:      "Wall time of one pipeline run",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		CollectedItems: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "collected_items",
				Help:      "Items returned by each collector in the last run",
			},
			[]string{"collector"},
		),
		DispatchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "dispatch_total",
				Help:      "Alert deliveries by channel and result",
			},
			[]string{"channel", "result"},
		),
		SummarizeFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "summarize_failures_total",
				Help:      "Feed entries dropped because summarization failed",
			},
		),
		LastSuccessUnixTime: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last run that archived a report",
			},
		),
	}
}

// ObserveRun records the outcome of one run. Nil receivers are no-ops so
// callers need not check whether metrics are enabled.
func (m *Metrics) ObserveRun(status string, started, finished time.Time) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDurationSeconds.Observe(finished.Sub(started).Seconds())
	if status != "failed" {
		m.LastSuccessUnixTime.Set(float64(finished.Unix()))
	}
}

func (m *Metrics) ObserveCollected(collector string, n int) {
	if m == nil {
		return
	}
	m.CollectedItems.WithLabelValues(collector).Set(float64(n))
}

func (m *Metrics) ObserveDispatch(channel string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.DispatchTotal.WithLabelValues(channel, result).Inc()
}

func (m *Metrics) ObserveSummarizeFailure() {
	if m == nil {
		return
	}
	m.SummarizeFailures.Inc()
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	if logger != nil {
		logger.Info("metrics listening", "addr", addr)
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
