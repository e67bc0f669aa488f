// Package stores persists an audit history of generated scripts in SQLite.
//
// Passwords and script bodies are never stored. Each entry keeps the
// choices, the init command with the password redacted, and a SHA-256 of
// the exact script so that a deployed user-data file can be matched back
// to its entry.
package stores

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/vidinfra/tenbyte-userdata/pkg/compiler"
	"github.com/vidinfra/tenbyte-userdata/pkg/config"
)

// RedactedPassword replaces the password in stored init commands.
const RedactedPassword = "********"

// Entry is one recorded generation.
type Entry struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Username     string    `json:"username"`
	WebServer    string    `json:"web_server"`
	Database     string    `json:"database_type"`
	Nodejs       bool      `json:"nodejs"`
	Yarn         bool      `json:"yarn"`
	InitCommand  string    `json:"init_command"`
	ScriptSHA256 string    `json:"script_sha256"`
	Advisories   int       `json:"advisories"`
}

// Store is the history persistence interface.
type Store interface {
	Init(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close() error

	Append(ctx context.Context, e *Entry) error
	Get(ctx context.Context, id string) (*Entry, error)
	List(ctx context.Context, limit, offset int) ([]*Entry, error)
	Delete(ctx context.Context, id string) error

	HealthCheck(ctx context.Context) error
}

// NewEntry builds a history entry for a script compiled from r.
func NewEntry(r config.Record, script string, advisories int) (*Entry, error) {
	redacted := r
	if redacted.Password != "" {
		redacted = redacted.WithPassword(RedactedPassword)
	}
	initCommand, err := compiler.InitCommand(redacted)
	if err != nil {
		return nil, err
	}

	return &Entry{
		ID:           uuid.New().String(),
		CreatedAt:    time.Now().UTC(),
		Username:     r.Username,
		WebServer:    r.WebServer,
		Database:     r.Database,
		Nodejs:       r.InstallNodejs,
		Yarn:         r.InstallYarn && r.YarnApplies(),
		InitCommand:  initCommand,
		ScriptSHA256: ScriptDigest(script),
		Advisories:   advisories,
	}, nil
}

// ScriptDigest returns the hex SHA-256 of script.
func ScriptDigest(script string) string {
	sum := sha256.Sum256([]byte(script))
	return hex.EncodeToString(sum[:])
}
