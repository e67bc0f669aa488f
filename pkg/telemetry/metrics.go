package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Metrics provides Prometheus metrics for script generation.
// A disabled Metrics is a valid no-op.
type Metrics struct {
	config MetricsConfig

	compiles        *prometheus.CounterVec
	compileDuration prometheus.Histogram
	advisories      *prometheus.CounterVec
	clipboardCopies *prometheus.CounterVec
	configReloads   *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return &Metrics{config: cfg}
	}

	namespace := cfg.Namespace
	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		compiles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compiles_total",
				Help:      "Total number of script compilations",
			},
			[]string{"web_server", "database", "status"},
		),
		compileDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "compile_duration_seconds",
				Help:      "Duration of script compilation in seconds",
				Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
			},
		),
		advisories: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "advisories_total",
				Help:      "Total number of advisories reported",
			},
			[]string{"policy", "severity"},
		),
		clipboardCopies: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "clipboard_copies_total",
				Help:      "Total number of clipboard copy attempts",
			},
			[]string{"status"},
		),
		configReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "config_reloads_total",
				Help:      "Total number of config file reloads",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(
		m.compiles,
		m.compileDuration,
		m.advisories,
		m.clipboardCopies,
		m.configReloads,
	)

	return m
}

// Registry returns the metrics registry, or nil when metrics are disabled.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordCompile records a compilation with its outcome and duration.
func (m *Metrics) RecordCompile(webServer, database, status string, duration time.Duration) {
	if m == nil || m.compiles == nil {
		return
	}
	m.compiles.WithLabelValues(webServer, database, status).Inc()
	m.compileDuration.Observe(duration.Seconds())
}

// RecordAdvisory records an advisory.
func (m *Metrics) RecordAdvisory(policy, severity string) {
	if m == nil || m.advisories == nil {
		return
	}
	m.advisories.WithLabelValues(policy, severity).Inc()
}

// RecordClipboardCopy records a clipboard copy attempt.
func (m *Metrics) RecordClipboardCopy(status string) {
	if m == nil || m.clipboardCopies == nil {
		return
	}
	m.clipboardCopies.WithLabelValues(status).Inc()
}

// RecordConfigReload records a config file reload.
func (m *Metrics) RecordConfigReload(status string) {
	if m == nil || m.configReloads == nil {
		return
	}
	m.configReloads.WithLabelValues(status).Inc()
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// StartMetricsServer serves metrics until ctx is cancelled. It is a no-op
// when metrics are disabled or no listen address is configured.
func (m *Metrics) StartMetricsServer(ctx context.Context, logger zerolog.Logger) error {
	if !m.config.Enabled || m.config.ListenAddress == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(m.config.Path, m.Handler())

	server := &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			// Log error but don't fail the application
			logger.Error().Err(err).Str("addr", m.config.ListenAddress).Msg("Metrics server error")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", m.config.ListenAddress).Str("path", m.config.Path).Msg("Serving metrics")
	return nil
}
