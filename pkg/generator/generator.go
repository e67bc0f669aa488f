// Package generator composes validation, advisory policies and the script
// compiler into a single generation call used by every front end.
package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vidinfra/tenbyte-userdata/pkg/compiler"
	"github.com/vidinfra/tenbyte-userdata/pkg/config"
	"github.com/vidinfra/tenbyte-userdata/pkg/errdefs"
	"github.com/vidinfra/tenbyte-userdata/pkg/policy"
	"github.com/vidinfra/tenbyte-userdata/pkg/telemetry"
)

// Result is the output of a successful generation.
type Result struct {
	InitCommand string            `json:"init_command"`
	Script      string            `json:"script"`
	Advisories  []policy.Advisory `json:"advisories"`
}

// Report is the output of Check. Contract holds the first contract
// violation, if any; everything else is advisory.
type Report struct {
	Record     config.Record     `json:"record"`
	Contract   error             `json:"-"`
	Structure  error             `json:"-"`
	Advisories []policy.Advisory `json:"advisories"`
}

// OK reports whether the record passed every contract check.
func (r *Report) OK() bool {
	return r.Contract == nil && r.Structure == nil
}

// Service generates provisioning scripts. It is safe for concurrent use.
type Service struct {
	validator *config.Validator
	schemas   *config.SchemaRegistry
	policies  *policy.Engine
	compiler  *compiler.Compiler
	metrics   *telemetry.Metrics
	tracer    *telemetry.Tracer
	logger    zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records generation metrics on m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTracer wraps each generation in a span.
func WithTracer(t *telemetry.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// WithSchemas uses an existing schema registry instead of a new one.
func WithSchemas(sr *config.SchemaRegistry) Option {
	return func(s *Service) { s.schemas = sr }
}

// WithCompiler overrides the default compiler.
func WithCompiler(c *compiler.Compiler) Option {
	return func(s *Service) { s.compiler = c }
}

// New creates a generation service with the built-in policies loaded.
func New(logger zerolog.Logger, opts ...Option) (*Service, error) {
	s := &Service{
		validator: config.NewValidator(),
		compiler:  compiler.New(),
		logger:    logger.With().Str("component", "generator").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.schemas == nil {
		s.schemas = config.NewSchemaRegistry()
	}
	if s.tracer == nil {
		tracer, err := telemetry.NewTracer(telemetry.TracingConfig{}, "tenbyte-userdata", "", nil)
		if err != nil {
			return nil, err
		}
		s.tracer = tracer
	}

	engine, err := policy.NewEngine(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create policy engine: %w", err)
	}
	s.policies = engine

	return s, nil
}

// Policies returns the advisory engine so callers can load extra policies.
func (s *Service) Policies() *policy.Engine {
	return s.policies
}

// Generate validates r, compiles it and evaluates advisories. A contract
// violation returns an error and no script. Advisories never fail a
// generation.
func (s *Service) Generate(ctx context.Context, r config.Record) (*Result, error) {
	ctx, span := s.tracer.StartCompileSpan(ctx, r.WebServer, r.Database)
	defer span.End()

	start := time.Now()
	result, err := s.generate(ctx, r)
	status := "success"
	if err != nil {
		status = "error"
		telemetry.RecordError(span, err)
	} else {
		span.SetAttributes(
			telemetry.AttrAdvisories.Int(len(result.Advisories)),
			telemetry.AttrScriptBytes.Int(len(result.Script)),
		)
		telemetry.RecordSuccess(span)
	}
	s.metrics.RecordCompile(r.WebServer, r.Database, status, time.Since(start))

	return result, err
}

func (s *Service) generate(ctx context.Context, r config.Record) (*Result, error) {
	if err := s.validate(ctx, r); err != nil {
		return nil, err
	}

	initCommand, err := s.compiler.InitCommand(r)
	if err != nil {
		return nil, err
	}
	script, err := s.compiler.Compile(r)
	if err != nil {
		return nil, err
	}

	return &Result{
		InitCommand: initCommand,
		Script:      script,
		Advisories:  s.advise(ctx, r),
	}, nil
}

// Check runs every validation stage without stopping at the first
// advisory. It is the basis of the validate command.
func (s *Service) Check(ctx context.Context, r config.Record) *Report {
	ctx, span := s.tracer.StartSpan(ctx, "record.check",
		telemetry.AttrWebServer.String(r.WebServer),
		telemetry.AttrDatabase.String(r.Database),
	)
	defer span.End()

	report := &Report{Record: r}

	if err := s.validate(ctx, r); err != nil {
		report.Contract = err
		telemetry.RecordError(span, err)
		span.SetAttributes(telemetry.AttrErrorClass.String(string(errdefs.ErrorClassContract)))
		return report
	}

	script, err := s.compiler.Compile(r)
	if err != nil {
		report.Contract = err
		telemetry.RecordError(span, err)
		return report
	}

	doc, err := compiler.Inspect(script)
	if err == nil {
		err = compiler.Verify(doc)
	}
	if err != nil {
		report.Structure = err
		telemetry.RecordError(span, err)
	}

	report.Advisories = s.advise(ctx, r)
	return report
}

func (s *Service) validate(ctx context.Context, r config.Record) error {
	if err := s.validator.Validate(r); err != nil {
		return err
	}
	return s.schemas.ValidateRecord(ctx, r)
}

// advise evaluates policies. Engine failures are logged and dropped.
func (s *Service) advise(ctx context.Context, r config.Record) []policy.Advisory {
	res, err := s.policies.Evaluate(ctx, r)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Policy evaluation failed")
		return nil
	}
	for _, msg := range res.Errors {
		s.logger.Warn().Str("error", msg).Msg("Advisory skipped")
	}
	for _, a := range res.Advisories {
		s.metrics.RecordAdvisory(a.Policy, string(a.Severity))
	}
	return res.Advisories
}
