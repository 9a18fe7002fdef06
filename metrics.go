package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"codestop/stopper"
)

// Metrics holds the editor counters on a private registry so tests can
// build as many as they like.
type Metrics struct {
	registry *prometheus.Registry
	verdicts *prometheus.CounterVec
	runs     *prometheus.CounterVec
}

// NewMetrics registers the counters on a fresh registry.
// NewMetrics создаёт счётчики в отдельном реестре.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		verdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "codestop_stopper_verdicts_total",
			Help: "Enter submissions checked by the code stopper, by language and result",
		}, []string{"language", "result"}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "codestop_runs_total",
			Help: "Remote executions by language and final status",
		}, []string{"language", "status"}),
	}
}

// ObserveVerdict counts one checked Enter.
func (m *Metrics) ObserveVerdict(lang stopper.Language, allowed bool) {
	result := "rejected"
	if allowed {
		result = "allowed"
	}
	m.verdicts.WithLabelValues(lang.String(), result).Inc()
}

// ObserveRun counts one finished remote execution.
func (m *Metrics) ObserveRun(lang stopper.Language, status string) {
	m.runs.WithLabelValues(lang.String(), status).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
