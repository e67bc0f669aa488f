package telemetry

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"missing service name", func(c *Config) { c.ServiceName = "" }, true},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"stdout tracing", func(c *Config) { c.Tracing.Enabled = true; c.Tracing.Exporter = "stdout" }, false},
		{"otlp without endpoint", func(c *Config) { c.Tracing.Enabled = true; c.Tracing.Exporter = "otlp" }, true},
		{"otlp with endpoint", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = "otlp"
			c.Tracing.Endpoint = "localhost:4317"
		}, false},
		{"unknown exporter", func(c *Config) { c.Tracing.Enabled = true; c.Tracing.Exporter = "jaeger" }, true},
		{"sampling out of range", func(c *Config) { c.Tracing.SamplingRate = 1.5 }, true},
		{"served metrics need path", func(c *Config) { c.Metrics.ListenAddress = ":0"; c.Metrics.Path = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(LoggingConfig{Level: "info", Format: "json"}, &buf)

	logger.NewComponentLogger("compiler").WithField("web_server", "nginx").Info("compiled")
	logger.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, `"component":"compiler"`) || !strings.Contains(out, `"web_server":"nginx"`) {
		t.Errorf("missing fields in %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug message should be filtered at info level")
	}

	ctx := logger.WithContext(context.Background())
	if FromContext(ctx) != logger {
		t.Error("FromContext should return the stored logger")
	}
	if FromContext(context.Background()) == nil {
		t.Error("FromContext should never return nil")
	}
}

func TestParseLevel(t *testing.T) {
	for _, level := range []string{"trace", "debug", "info", "warn", "error", "fatal"} {
		if got := ParseLevel(level).String(); got != level {
			t.Errorf("ParseLevel(%q) = %q", level, got)
		}
	}
	if ParseLevel("bogus").String() != "info" {
		t.Error("unknown level should default to info")
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, Namespace: "test", Path: "/metrics"})

	m.RecordCompile("nginx", "mysql", "success", time.Millisecond)
	m.RecordCompile("nginx", "mysql", "success", time.Millisecond)
	m.RecordAdvisory("password-length", "warning")
	m.RecordClipboardCopy("success")
	m.RecordConfigReload("error")

	if got := testutil.ToFloat64(m.compiles.WithLabelValues("nginx", "mysql", "success")); got != 2 {
		t.Errorf("compiles_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.advisories.WithLabelValues("password-length", "warning")); got != 1 {
		t.Errorf("advisories_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.configReloads.WithLabelValues("error")); got != 1 {
		t.Errorf("config_reloads_total = %v, want 1", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "test_clipboard_copies_total") {
		t.Error("handler should expose clipboard metric")
	}
}

func TestMetricsDisabled(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})
	m.RecordCompile("nginx", "mysql", "success", time.Millisecond)
	m.RecordAdvisory("x", "info")

	var nilMetrics *Metrics
	nilMetrics.RecordClipboardCopy("success")

	if m.Registry() != nil {
		t.Error("disabled metrics should have no registry")
	}
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestTracerStdout(t *testing.T) {
	var buf bytes.Buffer
	tracer, err := NewTracer(TracingConfig{Enabled: true, Exporter: "stdout", SamplingRate: 1}, "svc", "v1", &buf)
	if err != nil {
		t.Fatalf("NewTracer failed: %v", err)
	}

	_, span := tracer.StartCompileSpan(context.Background(), "mern", "mongodb")
	RecordError(span, errors.New("boom"))
	span.End()

	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"script.compile", "record.web_server", "mern", "boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("span output missing %q", want)
		}
	}
}

func TestTracerDisabled(t *testing.T) {
	tracer, err := NewTracer(TracingConfig{}, "svc", "v1", nil)
	if err != nil {
		t.Fatalf("NewTracer failed: %v", err)
	}
	_, span := tracer.StartSpan(context.Background(), "noop")
	RecordSuccess(span)
	span.End()
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestTracerUnknownExporter(t *testing.T) {
	if _, err := NewTracer(TracingConfig{Enabled: true, Exporter: "zipkin"}, "svc", "v1", nil); err == nil {
		t.Error("expected error for unsupported exporter")
	}
}

func TestStartMetricsServerNoAddress(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, Namespace: "test", Path: "/metrics"})
	if err := m.StartMetricsServer(context.Background(), NewLoggerWithWriter(LoggingConfig{Level: "info", Format: "json"}, &bytes.Buffer{}).Zerolog()); err != nil {
		t.Errorf("expected no-op without address, got %v", err)
	}
}
