// Package telemetry bundles structured logging (zerolog), Prometheus
// metrics and OpenTelemetry tracing behind one configuration.
package telemetry

import (
	"context"
	"fmt"
	"io"
)

// Telemetry holds the logger, metrics and tracer for a process.
type Telemetry struct {
	Logger  *Logger
	Metrics *Metrics
	Tracer  *Tracer
}

// NewTelemetry builds all telemetry components from cfg. Trace output from
// the stdout exporter is written to traceOut.
func NewTelemetry(cfg *Config, traceOut io.Writer) (*Telemetry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid telemetry config: %w", err)
	}

	logger, err := NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	tracer, err := NewTracer(cfg.Tracing, cfg.ServiceName, cfg.ServiceVersion, traceOut)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	return &Telemetry{
		Logger:  logger,
		Metrics: NewMetrics(cfg.Metrics),
		Tracer:  tracer,
	}, nil
}

// Shutdown flushes and stops telemetry components.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t.Tracer != nil {
		return t.Tracer.Shutdown(ctx)
	}
	return nil
}
