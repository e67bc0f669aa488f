package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath  string
	logLevel    string
	logFormat   string
	jsonOutput  bool
	traceOutput bool
	policyPaths []string
	historyPath string
	traceAddr   string
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tenbyte-userdata",
		Short: "Generate cloud-init user data for Tenbyte servers",
		Long: `tenbyte-userdata turns a server's provisioning intent into a
#cloud-config script that downloads and runs tenbyte-cloud-init.

The intent is a handful of choices:
  - Login username and password
  - Web server (nginx, apache2, openlitespeed, mern)
  - Database (mysql, mariadb, mongodb)
  - Optional Node.js and Yarn

Choices can come from flags, a YAML/JSON/CUE record file, or the
interactive form.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return configureLogging(cmd.ErrOrStderr())
		},
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "record file (.yaml, .yml, .json or .cue)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error); defaults to LOG_LEVEL")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&traceOutput, "trace", false, "print OpenTelemetry spans to stderr")
	rootCmd.PersistentFlags().StringVar(&traceAddr, "trace-endpoint", "", "export spans to this OTLP gRPC collector (plaintext)")
	rootCmd.PersistentFlags().StringSliceVar(&policyPaths, "policy", nil, "additional .rego policy files or directories")
	rootCmd.PersistentFlags().StringVar(&historyPath, "history", "", "SQLite file recording each generated script (passwords redacted)")

	// Add subcommands
	rootCmd.AddCommand(newGenerateCommand())
	rootCmd.AddCommand(newCatalogCommand())
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newTUICommand())
	rootCmd.AddCommand(newHistoryCommand())

	return rootCmd
}

// configureLogging applies --log-level and --log-format to the global
// logger. An empty level keeps what main derived from LOG_LEVEL.
func configureLogging(w io.Writer) error {
	switch logFormat {
	case "console":
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
	case "json":
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	default:
		return fmt.Errorf("invalid log format: %s (must be 'console' or 'json')", logFormat)
	}

	if logLevel != "" {
		level, err := zerolog.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level: %s", logLevel)
		}
		zerolog.SetGlobalLevel(level)
	}
	return nil
}

// stderrIsTerminal reports whether stderr is a character device.
func stderrIsTerminal() bool {
	fi, err := os.Stderr.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
