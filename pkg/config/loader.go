package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vidinfra/tenbyte-userdata/pkg/errdefs"
	"gopkg.in/yaml.v3"
)

// Loader reads records from YAML, JSON or CUE files.
type Loader struct {
	schemas   *SchemaRegistry
	validator *Validator
}

// NewLoader creates a loader.
func NewLoader() *Loader {
	return &Loader{
		schemas:   NewSchemaRegistry(),
		validator: NewValidator(),
	}
}

// Schemas returns the schema registry used by the loader.
func (l *Loader) Schemas() *SchemaRegistry {
	return l.schemas
}

// LoadFile reads and validates a record file. Fields the file omits keep
// their Default() values.
func (l *Loader) LoadFile(ctx context.Context, path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, errdefs.NewInputError(fmt.Sprintf("failed to read %s", path), err)
	}

	return l.Load(ctx, path, data)
}

// Load decodes a record from data. The extension of name selects the
// format: .cue is evaluated with CUE, everything else is parsed as YAML
// (which also accepts JSON).
func (l *Loader) Load(ctx context.Context, name string, data []byte) (Record, error) {
	var (
		r   Record
		err error
	)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".cue":
		r, err = l.schemas.DecodeCUE(ctx, name, data)
	default:
		r, err = decodeYAML(data)
	}
	if err != nil {
		return Record{}, err
	}

	if err := l.validator.Validate(r); err != nil {
		return Record{}, err
	}

	return r, nil
}

func decodeYAML(data []byte) (Record, error) {
	r := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return r, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil {
		if errors.Is(err, io.EOF) {
			return r, nil
		}
		return Record{}, errdefs.NewInputError("failed to decode record", err).
			WithCode(errdefs.ErrCodeDecode)
	}

	return r, nil
}

// Marshal renders r as YAML, in the same shape LoadFile accepts.
func Marshal(r Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return buf.Bytes(), nil
}
