package compiler

import (
	"github.com/vidinfra/tenbyte-userdata/pkg/catalog"
	"github.com/vidinfra/tenbyte-userdata/pkg/config"
)

// Rule contributes arguments to the init command when its predicate holds.
// Rules are evaluated in declared order and each flag is owned by exactly
// one rule, so the argument list never contains duplicates.
type Rule struct {
	// Name identifies the rule in listings and tests.
	Name string

	// When reports whether the rule applies to the record.
	When func(config.Record) bool

	// Args returns the arguments to append.
	Args func(config.Record) []string
}

// DefaultRules is the rule table for tenbyte-cloud-init init.
var DefaultRules = []Rule{
	{
		Name: "username",
		When: func(r config.Record) bool { return r.Username != "" },
		// Passed through unquoted; callers supply shell-safe values.
		Args: func(r config.Record) []string { return []string{"--username", r.Username} },
	},
	{
		Name: "password",
		When: func(r config.Record) bool { return r.Password != "" },
		Args: func(r config.Record) []string { return []string{"--password", "'" + r.Password + "'"} },
	},
	{
		Name: "web-server",
		When: always,
		Args: func(r config.Record) []string { return []string{"--web-server", r.WebServer} },
	},
	{
		Name: "database-type",
		When: always,
		Args: func(r config.Record) []string { return []string{"--database-type", r.Database} },
	},
	{
		Name: "nodejs",
		When: func(r config.Record) bool { return r.InstallNodejs },
		Args: flag("--nodejs"),
	},
	{
		Name: "yarn",
		When: func(r config.Record) bool { return r.InstallYarn && r.WebServer == catalog.WebServerMERN },
		Args: flag("--yarn"),
	},
}

func always(config.Record) bool { return true }

func flag(name string) func(config.Record) []string {
	return func(config.Record) []string { return []string{name} }
}
