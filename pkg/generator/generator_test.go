package generator

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/vidinfra/tenbyte-userdata/pkg/compiler"
	"github.com/vidinfra/tenbyte-userdata/pkg/config"
	"github.com/vidinfra/tenbyte-userdata/pkg/errdefs"
	"github.com/vidinfra/tenbyte-userdata/pkg/policy"
	"github.com/vidinfra/tenbyte-userdata/pkg/telemetry"
)

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	svc, err := New(zerolog.Nop(), opts...)
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	return svc
}

func policiesOf(advisories []policy.Advisory) map[string]bool {
	seen := make(map[string]bool)
	for _, a := range advisories {
		seen[a.Policy] = true
	}
	return seen
}

func TestGenerateDefault(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.Generate(context.Background(), config.Default())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	wantInit := "/usr/local/bin/tenbyte-cloud-init init --web-server nginx --database-type mysql"
	if result.InitCommand != wantInit {
		t.Errorf("init command = %q, want %q", result.InitCommand, wantInit)
	}
	if result.Script != compiler.MustCompile(config.Default()) {
		t.Error("script differs from compiler output")
	}
	if !strings.Contains(result.Script, wantInit) {
		t.Error("script does not embed the init command")
	}
	if !policiesOf(result.Advisories)["root-login"] {
		t.Error("expected root-login advisory on every script")
	}
}

func TestGenerateAdvisoriesDoNotBlock(t *testing.T) {
	svc := newTestService(t)

	r := config.Default().
		WithUsername("admin").
		WithPassword("abc").
		WithYarn(true)

	result, err := svc.Generate(context.Background(), r)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	want := "--username admin --password 'abc' --web-server nginx --database-type mysql"
	if !strings.HasSuffix(result.InitCommand, want) {
		t.Errorf("init command = %q, want suffix %q", result.InitCommand, want)
	}

	seen := policiesOf(result.Advisories)
	for _, name := range []string{"password-length", "yarn-ignored"} {
		if !seen[name] {
			t.Errorf("expected %s advisory, got %v", name, result.Advisories)
		}
	}
}

func TestGenerateContractViolation(t *testing.T) {
	tests := []struct {
		name  string
		rec   config.Record
		field string
	}{
		{"unknown web server", config.Default().WithWebServer("caddy"), "web_server"},
		{"unknown database", config.Default().WithDatabase("postgres"), "database_type"},
		{"empty web server", config.Default().WithWebServer(""), "web_server"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t)
			result, err := svc.Generate(context.Background(), tt.rec)
			if err == nil {
				t.Fatal("expected contract error")
			}
			if result != nil {
				t.Error("expected no result on contract violation")
			}
			if !errdefs.IsContract(err) {
				t.Errorf("expected contract error, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name field %s", err, tt.field)
			}
		})
	}
}

func TestGenerateRecordsMetrics(t *testing.T) {
	metrics := telemetry.NewMetrics(telemetry.MetricsConfig{Enabled: true, Namespace: "test"})
	svc := newTestService(t, WithMetrics(metrics))

	ctx := context.Background()
	if _, err := svc.Generate(ctx, config.Default()); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := svc.Generate(ctx, config.Default().WithDatabase("oracle")); err == nil {
		t.Fatal("expected error for unknown database")
	}

	ok, err := testutil.GatherAndCount(metrics.Registry(), "test_compiles_total")
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if ok != 2 {
		t.Errorf("expected 2 compile series, got %d", ok)
	}

	rootLogin, err := testutil.GatherAndCount(metrics.Registry(), "test_advisories_total")
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if rootLogin == 0 {
		t.Error("expected advisory series to be recorded")
	}
}

func TestGenerateConcurrent(t *testing.T) {
	svc := newTestService(t)
	r := config.Default().WithWebServer("mern").WithDatabase("mongodb").WithNodejs(true).WithYarn(true)

	want, err := svc.Generate(context.Background(), r)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := svc.Generate(context.Background(), r)
			if err != nil {
				errs <- err.Error()
				return
			}
			if got.Script != want.Script {
				errs <- "script mismatch"
			}
		}()
	}
	wg.Wait()
	close(errs)

	for e := range errs {
		t.Error(e)
	}
}

func TestCheck(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	t.Run("valid record", func(t *testing.T) {
		report := svc.Check(ctx, config.Default().WithUsername("deploy").WithPassword("long-enough"))
		if !report.OK() {
			t.Fatalf("expected OK report, got contract=%v structure=%v", report.Contract, report.Structure)
		}
		if policiesOf(report.Advisories)["password-length"] {
			t.Error("unexpected password-length advisory")
		}
	})

	t.Run("contract violation", func(t *testing.T) {
		report := svc.Check(ctx, config.Default().WithWebServer("iis"))
		if report.OK() {
			t.Fatal("expected failed report")
		}
		if !errdefs.IsContract(report.Contract) {
			t.Errorf("expected contract error, got %v", report.Contract)
		}
	})

	t.Run("structure broken by quote in password", func(t *testing.T) {
		report := svc.Check(ctx, config.Default().WithPassword(`pa"ssword`))
		if report.Contract != nil {
			t.Fatalf("unexpected contract error: %v", report.Contract)
		}
		if report.Structure == nil {
			t.Error("expected structure error for unescaped double quote")
		}
		if !policiesOf(report.Advisories)["yaml-escape"] {
			t.Error("expected yaml-escape advisory")
		}
	})
}
