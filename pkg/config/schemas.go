package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/vidinfra/tenbyte-userdata/pkg/catalog"
	"github.com/vidinfra/tenbyte-userdata/pkg/errdefs"
)

// RecordDefinition is the CUE definition that records are checked against.
const RecordDefinition = "#Record"

// SchemaRegistry manages CUE schemas for validation.
type SchemaRegistry struct {
	mu      sync.Mutex
	ctx     *cue.Context
	schemas map[string]cue.Value
}

// NewSchemaRegistry creates a new schema registry with the built-in record
// schema derived from the catalog.
func NewSchemaRegistry() *SchemaRegistry {
	sr := &SchemaRegistry{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
	}

	if err := sr.RegisterSchema("record", RecordSchema()); err != nil {
		// The built-in schema is generated from constants.
		panic(err)
	}

	return sr
}

// RecordSchema renders the CUE source of the record schema. Category fields
// are disjunctions of the catalog values with the Default() value marked as
// the CUE default.
func RecordSchema() string {
	def := Default()

	var b strings.Builder
	b.WriteString("#Record: {\n")
	b.WriteString("\tusername:      *\"\" | string\n")
	b.WriteString("\tpassword:      *\"\" | string\n")
	fmt.Fprintf(&b, "\tweb_server:    %s\n", disjunction(catalog.CategoryWebServer, def.WebServer))
	fmt.Fprintf(&b, "\tdatabase_type: %s\n", disjunction(catalog.CategoryDatabase, def.Database))
	b.WriteString("\tnodejs:        *false | bool\n")
	b.WriteString("\tyarn:          *false | bool\n")
	b.WriteString("}\n")
	return b.String()
}

func disjunction(category catalog.Category, defaultValue string) string {
	values := catalog.Values(category)
	parts := make([]string, len(values))
	for i, v := range values {
		q := strconv.Quote(v)
		if v == defaultValue {
			q = "*" + q
		}
		parts[i] = q
	}
	return strings.Join(parts, " | ")
}

// RegisterSchema registers a CUE schema with the given name.
func (sr *SchemaRegistry) RegisterSchema(name, schema string) error {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	val := sr.ctx.CompileString(schema)
	if err := val.Err(); err != nil {
		return fmt.Errorf("failed to compile schema %s: %w", name, err)
	}

	sr.schemas[name] = val
	return nil
}

// GetSchema retrieves a schema by name.
func (sr *SchemaRegistry) GetSchema(name string) (cue.Value, bool) {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	val, ok := sr.schemas[name]
	return val, ok
}

// recordDefinition returns the #Record definition value. Callers hold sr.mu.
func (sr *SchemaRegistry) recordDefinition() (cue.Value, error) {
	schema, ok := sr.schemas["record"]
	if !ok {
		return cue.Value{}, fmt.Errorf("schema record not found")
	}
	def := schema.LookupPath(cue.ParsePath(RecordDefinition))
	if err := def.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("failed to look up %s: %w", RecordDefinition, err)
	}
	return def, nil
}

// ValidateRecord validates r against the record schema.
func (sr *SchemaRegistry) ValidateRecord(ctx context.Context, r Record) error {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	def, err := sr.recordDefinition()
	if err != nil {
		return err
	}

	dataVal := sr.ctx.Encode(r)
	if err := dataVal.Err(); err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	unified := def.Unify(dataVal)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return errdefs.NewContractError("record does not match schema", err).
			WithCode(errdefs.ErrCodeSchema)
	}

	return nil
}

// DecodeCUE compiles CUE source, unifies it with the record schema so that
// omitted fields take their defaults, and returns the resulting record.
func (sr *SchemaRegistry) DecodeCUE(ctx context.Context, filename string, src []byte) (Record, error) {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	def, err := sr.recordDefinition()
	if err != nil {
		return Record{}, err
	}

	val := sr.ctx.CompileBytes(src, cue.Filename(filename))
	if err := val.Err(); err != nil {
		return Record{}, errdefs.NewInputError("failed to compile CUE record", err).
			WithCode(errdefs.ErrCodeDecode)
	}

	unified := def.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return Record{}, errdefs.NewContractError("record does not match schema", err).
			WithCode(errdefs.ErrCodeSchema)
	}

	var r Record
	if err := unified.Decode(&r); err != nil {
		return Record{}, errdefs.NewInputError("failed to decode CUE record", err).
			WithCode(errdefs.ErrCodeDecode)
	}

	return r, nil
}
