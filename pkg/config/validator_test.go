package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/vidinfra/tenbyte-userdata/pkg/errdefs"
)

func TestValidator_Validate(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name      string
		record    Record
		wantErr   bool
		wantCode  string
		wantField string
	}{
		{
			name:   "default record",
			record: Default(),
		},
		{
			name:   "every field set",
			record: Record{Username: "ops", Password: "pw", WebServer: "openlitespeed", Database: "mariadb", InstallNodejs: true},
		},
		{
			name:      "unknown web server",
			record:    Default().WithWebServer("caddy"),
			wantErr:   true,
			wantCode:  errdefs.ErrCodeUnknownOption,
			wantField: "web_server",
		},
		{
			name:      "unknown database",
			record:    Default().WithDatabase("postgres"),
			wantErr:   true,
			wantCode:  errdefs.ErrCodeUnknownOption,
			wantField: "database_type",
		},
		{
			name:      "missing web server",
			record:    Default().WithWebServer(""),
			wantErr:   true,
			wantCode:  errdefs.ErrCodeValidation,
			wantField: "web_server",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.record)

			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatal("expected validation error, got none")
			}
			if !errdefs.IsContract(err) {
				t.Errorf("expected contract error, got %v", err)
			}

			var e *errdefs.Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *errdefs.Error, got %T", err)
			}
			if e.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, e.Code)
			}
			if e.Field != tt.wantField {
				t.Errorf("expected field %s, got %s", tt.wantField, e.Field)
			}
		})
	}
}

func TestValidator_MessageListsValidValues(t *testing.T) {
	err := NewValidator().Validate(Default().WithWebServer("caddy"))
	if err == nil {
		t.Fatal("expected error")
	}

	for _, v := range []string{"nginx", "apache2", "openlitespeed", "mern"} {
		if !strings.Contains(err.Error(), v) {
			t.Errorf("expected message to mention %s: %v", v, err)
		}
	}
}
