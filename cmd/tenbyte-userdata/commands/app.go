package commands

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vidinfra/tenbyte-userdata/pkg/config"
	"github.com/vidinfra/tenbyte-userdata/pkg/generator"
	"github.com/vidinfra/tenbyte-userdata/pkg/telemetry"
)

// app holds the collaborators shared by the subcommands.
type app struct {
	logger    zerolog.Logger
	telemetry *telemetry.Telemetry
	loader    *config.Loader
	service   *generator.Service
}

// newApp wires telemetry, the record loader and the generation service.
// metricsAddr is only set by the long-running commands.
func newApp(cmd *cobra.Command, metricsAddr string) (*app, error) {
	cfg := telemetry.DefaultConfig()
	cfg.Logging.Format = logFormat
	cfg.Logging.Level = zerolog.GlobalLevel().String()
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	switch {
	case traceAddr != "":
		cfg.Tracing.Enabled = true
		cfg.Tracing.Exporter = "otlp"
		cfg.Tracing.Endpoint = traceAddr
		cfg.Tracing.Insecure = true
	case traceOutput:
		cfg.Tracing.Enabled = true
		cfg.Tracing.Exporter = "stdout"
	}
	cfg.Metrics.ListenAddress = metricsAddr

	tel, err := telemetry.NewTelemetry(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	logger := tel.Logger.NewComponentLogger("cli").Zerolog()

	loader := config.NewLoader()
	service, err := generator.New(tel.Logger.Zerolog(),
		generator.WithMetrics(tel.Metrics),
		generator.WithTracer(tel.Tracer),
		generator.WithSchemas(loader.Schemas()),
	)
	if err != nil {
		return nil, err
	}

	if len(policyPaths) > 0 {
		if err := service.Policies().LoadPolicies(cmd.Context(), policyPaths); err != nil {
			return nil, err
		}
	}

	return &app{
		logger:    logger,
		telemetry: tel,
		loader:    loader,
		service:   service,
	}, nil
}

// serveMetrics starts the metrics endpoint if an address was configured.
func (a *app) serveMetrics(ctx context.Context) error {
	return a.telemetry.Metrics.StartMetricsServer(ctx, a.logger)
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := a.telemetry.Shutdown(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to flush telemetry")
	}
}
