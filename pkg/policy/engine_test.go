package policy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/vidinfra/tenbyte-userdata/pkg/config"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	eng, err := NewEngine(logger)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return eng
}

func advisoriesFor(t *testing.T, eng *Engine, r config.Record) map[string][]Advisory {
	t.Helper()
	result, err := eng.Evaluate(context.Background(), r)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(result.Errors) > 0 {
		t.Fatalf("policy errors: %v", result.Errors)
	}

	byPolicy := make(map[string][]Advisory)
	for _, a := range result.Advisories {
		byPolicy[a.Policy] = append(byPolicy[a.Policy], a)
	}
	return byPolicy
}

func TestNewEngine(t *testing.T) {
	eng := newTestEngine(t)

	expected := []string{
		"password-length",
		"password-quote",
		"root-login",
		"username-shell-safe",
		"yaml-escape",
		"yarn-ignored",
	}

	policies := eng.ListPolicies()
	if len(policies) != len(expected) {
		t.Fatalf("expected %d built-in policies, got %d", len(expected), len(policies))
	}
	for i, name := range expected {
		if policies[i].Name != name {
			t.Errorf("position %d: expected %s, got %s", i, name, policies[i].Name)
		}
		if !policies[i].Builtin {
			t.Errorf("%s should be marked builtin", name)
		}
	}
}

func TestEvaluate_DefaultRecord(t *testing.T) {
	eng := newTestEngine(t)
	got := advisoriesFor(t, eng, config.Default())

	if len(got) != 1 || len(got["root-login"]) != 1 {
		t.Fatalf("expected only the root-login note, got %+v", got)
	}
	if got["root-login"][0].Severity != SeverityInfo {
		t.Errorf("root-login should be informational")
	}
}

func TestEvaluate_BuiltinPolicies(t *testing.T) {
	eng := newTestEngine(t)

	tests := []struct {
		name        string
		record      config.Record
		wantPolicy  string
		wantField   string
		wantMessage string
		wantAbsent  bool
	}{
		{
			name:        "short password",
			record:      config.Default().WithPassword("abc"),
			wantPolicy:  "password-length",
			wantField:   "password",
			wantMessage: "Password must be at least 8 characters",
		},
		{
			name:       "eight character password",
			record:     config.Default().WithPassword("abcdefgh"),
			wantPolicy: "password-length",
			wantAbsent: true,
		},
		{
			name:       "empty password",
			record:     config.Default(),
			wantPolicy: "password-length",
			wantAbsent: true,
		},
		{
			name:       "single quote in password",
			record:     config.Default().WithPassword("it's-a-secret"),
			wantPolicy: "password-quote",
			wantField:  "password",
		},
		{
			name:       "double quote in password",
			record:     config.Default().WithPassword(`say "hi" now`),
			wantPolicy: "yaml-escape",
			wantField:  "password",
		},
		{
			name:       "backslash in username",
			record:     config.Default().WithUsername(`dom\user`),
			wantPolicy: "yaml-escape",
			wantField:  "username",
		},
		{
			name:       "username with space",
			record:     config.Default().WithUsername("web admin"),
			wantPolicy: "username-shell-safe",
			wantField:  "username",
		},
		{
			name:       "plain username",
			record:     config.Default().WithUsername("web-admin_1.ops"),
			wantPolicy: "username-shell-safe",
			wantAbsent: true,
		},
		{
			name:        "yarn without mern",
			record:      config.Default().WithWebServer("apache2").WithYarn(true),
			wantPolicy:  "yarn-ignored",
			wantField:   "yarn",
			wantMessage: "Yarn is only installed with the MERN stack; ignored for apache2",
		},
		{
			name:       "yarn with mern",
			record:     config.Default().WithWebServer("mern").WithYarn(true),
			wantPolicy: "yarn-ignored",
			wantAbsent: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := advisoriesFor(t, eng, tt.record)[tt.wantPolicy]

			if tt.wantAbsent {
				if len(got) != 0 {
					t.Errorf("expected no %s advisory, got %+v", tt.wantPolicy, got)
				}
				return
			}

			if len(got) != 1 {
				t.Fatalf("expected one %s advisory, got %+v", tt.wantPolicy, got)
			}
			if got[0].Field != tt.wantField {
				t.Errorf("expected field %s, got %s", tt.wantField, got[0].Field)
			}
			if tt.wantMessage != "" && got[0].Message != tt.wantMessage {
				t.Errorf("expected message %q, got %q", tt.wantMessage, got[0].Message)
			}
		})
	}
}

func TestEvaluate_SortedAndDeterministic(t *testing.T) {
	eng := newTestEngine(t)
	r := config.Default().WithUsername(`a b"`).WithPassword("x'y").WithYarn(true)

	first, err := eng.Evaluate(context.Background(), r)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	for i := 1; i < len(first.Advisories); i++ {
		if first.Advisories[i-1].Policy > first.Advisories[i].Policy {
			t.Errorf("advisories not sorted: %s before %s", first.Advisories[i-1].Policy, first.Advisories[i].Policy)
		}
	}

	second, err := eng.Evaluate(context.Background(), r)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(first.Advisories) != len(second.Advisories) {
		t.Fatal("advisory count changed between runs")
	}
	for i := range first.Advisories {
		if first.Advisories[i] != second.Advisories[i] {
			t.Errorf("advisory %d changed between runs", i)
		}
	}

	if !first.HasWarnings() {
		t.Error("expected warnings")
	}
	for _, a := range first.Filter(SeverityWarning) {
		if a.Severity != SeverityWarning {
			t.Errorf("Filter returned %s advisory", a.Severity)
		}
	}
}

func TestEnableDisablePolicy(t *testing.T) {
	eng := newTestEngine(t)

	if err := eng.DisablePolicy("root-login"); err != nil {
		t.Fatalf("DisablePolicy failed: %v", err)
	}
	if got := advisoriesFor(t, eng, config.Default()); len(got) != 0 {
		t.Errorf("expected no advisories with root-login disabled, got %+v", got)
	}

	if err := eng.EnablePolicy("root-login"); err != nil {
		t.Fatalf("EnablePolicy failed: %v", err)
	}
	if got := advisoriesFor(t, eng, config.Default()); len(got["root-login"]) != 1 {
		t.Error("expected root-login advisory after re-enabling")
	}

	if err := eng.DisablePolicy("missing"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestAddPolicy(t *testing.T) {
	eng := newTestEngine(t)

	err := eng.AddPolicy(context.Background(), Policy{
		Name:    "no-mongodb",
		Enabled: true,
		Rego: `package custom.no_mongodb

import rego.v1

warn contains "MongoDB is not backed up" if {
	input.config.database_type == "mongodb"
}
`,
	})
	if err != nil {
		t.Fatalf("AddPolicy failed: %v", err)
	}

	got := advisoriesFor(t, eng, config.Default().WithDatabase("mongodb"))["no-mongodb"]
	if len(got) != 1 || got[0].Message != "MongoDB is not backed up" {
		t.Fatalf("unexpected advisories: %+v", got)
	}
	if got[0].Severity != SeverityWarning {
		t.Errorf("expected default warning severity, got %s", got[0].Severity)
	}
}

func TestAddPolicy_InvalidRego(t *testing.T) {
	eng := newTestEngine(t)

	err := eng.AddPolicy(context.Background(), Policy{Name: "broken", Rego: "package x\n\nwarn contains if {"})
	if err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadPolicies(t *testing.T) {
	dir := t.TempDir()
	src := `package custom.small_team

import rego.v1

warn contains advisory if {
	input.config.username == "root"
	advisory := {"field": "username", "message": "Do not create a second root", "severity": "info"}
}
`
	if err := os.WriteFile(filepath.Join(dir, "small-team.rego"), []byte(src), 0600); err != nil {
		t.Fatalf("failed to write policy: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0600); err != nil {
		t.Fatalf("failed to write readme: %v", err)
	}

	eng := newTestEngine(t)
	if err := eng.LoadPolicies(context.Background(), []string{dir}); err != nil {
		t.Fatalf("LoadPolicies failed: %v", err)
	}

	p, err := eng.GetPolicy("small-team")
	if err != nil {
		t.Fatalf("GetPolicy failed: %v", err)
	}
	if p.Builtin {
		t.Error("loaded policy must not be builtin")
	}

	got := advisoriesFor(t, eng, config.Default().WithUsername("root"))["small-team"]
	if len(got) != 1 {
		t.Fatalf("expected one advisory, got %+v", got)
	}
	if got[0].Severity != SeverityInfo || got[0].Field != "username" {
		t.Errorf("unexpected advisory: %+v", got[0])
	}
}

func TestLoadPolicies_MissingPath(t *testing.T) {
	eng := newTestEngine(t)
	if err := eng.LoadPolicies(context.Background(), []string{filepath.Join(t.TempDir(), "nope")}); err == nil {
		t.Error("expected error for missing path")
	}
}
