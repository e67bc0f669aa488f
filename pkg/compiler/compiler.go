package compiler

import (
	"fmt"
	"strings"

	"github.com/vidinfra/tenbyte-userdata/pkg/catalog"
	"github.com/vidinfra/tenbyte-userdata/pkg/config"
	"github.com/vidinfra/tenbyte-userdata/pkg/errdefs"
)

// Compiler turns records into provisioning scripts. A Compiler holds no
// mutable state and is safe for concurrent use.
type Compiler struct {
	rules []Rule
}

// New creates a compiler. With no rules it uses DefaultRules.
func New(rules ...Rule) *Compiler {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Compiler{rules: rules}
}

var defaultCompiler = New()

// Rules returns the names of the compiler's rules in evaluation order.
func (c *Compiler) Rules() []string {
	names := make([]string, len(c.rules))
	for i, r := range c.rules {
		names[i] = r.Name
	}
	return names
}

// checkOptions rejects category values that did not come from the catalog.
func checkOptions(r config.Record) error {
	if _, ok := catalog.Find(catalog.CategoryWebServer, r.WebServer); !ok {
		return errdefs.NewContractError(fmt.Sprintf("unknown web server %q", r.WebServer), nil).
			WithCode(errdefs.ErrCodeUnknownOption).
			WithField("web_server")
	}
	if _, ok := catalog.Find(catalog.CategoryDatabase, r.Database); !ok {
		return errdefs.NewContractError(fmt.Sprintf("unknown database %q", r.Database), nil).
			WithCode(errdefs.ErrCodeUnknownOption).
			WithField("database_type")
	}
	return nil
}

// Args assembles the init argument list for r.
func (c *Compiler) Args(r config.Record) ([]string, error) {
	if err := checkOptions(r); err != nil {
		return nil, err
	}

	var args []string
	for _, rule := range c.rules {
		if rule.When(r) {
			args = append(args, rule.Args(r)...)
		}
	}
	return args, nil
}

// InitCommand returns the tenbyte-cloud-init invocation for r.
func (c *Compiler) InitCommand(r config.Record) (string, error) {
	args, err := c.Args(r)
	if err != nil {
		return "", err
	}
	return InitPrefix + strings.Join(args, " "), nil
}

// Compile returns the full provisioning script for r. The same record
// always produces byte-identical output.
func (c *Compiler) Compile(r config.Record) (string, error) {
	cmd, err := c.InitCommand(r)
	if err != nil {
		return "", err
	}
	return render(cmd), nil
}

// Args assembles the init argument list using DefaultRules.
func Args(r config.Record) ([]string, error) {
	return defaultCompiler.Args(r)
}

// InitCommand returns the init invocation using DefaultRules.
func InitCommand(r config.Record) (string, error) {
	return defaultCompiler.InitCommand(r)
}

// Compile returns the provisioning script using DefaultRules.
func Compile(r config.Record) (string, error) {
	return defaultCompiler.Compile(r)
}

// MustCompile is like Compile but panics on a contract violation. It is
// intended for callers whose category values come straight from the catalog.
func MustCompile(r config.Record) string {
	out, err := Compile(r)
	if err != nil {
		panic(err)
	}
	return out
}
