package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vidinfra/tenbyte-userdata/pkg/clipboard"
	"github.com/vidinfra/tenbyte-userdata/pkg/errdefs"
	"github.com/vidinfra/tenbyte-userdata/pkg/policy"
)

func newGenerateCommand() *cobra.Command {
	var (
		rf       recordFlags
		output   string
		copyOSC  bool
		copyTo   string
		initOnly bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a #cloud-config script",
		Long: `Generate a #cloud-config script from flags and/or a record file.

The script is written to stdout unless --output is given. Advisories,
such as a short password, are printed to stderr and never fail the
command. Unknown web server or database values are rejected.`,
		Example: `  # Default nginx + mysql script
  tenbyte-userdata generate

  # MERN stack with Node.js and Yarn, written to a file
  tenbyte-userdata generate -w mern -d mongodb --nodejs --yarn -o user-data.yaml

  # Start from a record file and override the password
  tenbyte-userdata generate -c server.yaml -p 's3cretpass'

  # Only the tenbyte-cloud-init command line
  tenbyte-userdata generate --init-only`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, "")
			if err != nil {
				return err
			}
			defer a.close()

			r, err := a.resolveRecord(cmd, configPath, &rf)
			if err != nil {
				return err
			}

			result, err := a.service.Generate(cmd.Context(), r)
			if err != nil {
				return err
			}

			a.logger.Debug().
				Str("web_server", r.WebServer).
				Str("database", r.Database).
				Int("advisories", len(result.Advisories)).
				Msg("Generated script")

			if historyPath != "" {
				recordHistory(cmd, a, r, result.Script, len(result.Advisories))
			}

			if copyOSC || copyTo != "" {
				copyScript(cmd, a, result.Script, copyOSC, copyTo)
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), result)
			}

			printAdvisories(cmd.ErrOrStderr(), result.Advisories)

			text := result.Script
			if initOnly {
				text = result.InitCommand
			}
			return writeResult(cmd.OutOrStdout(), output, text)
		},
	}

	addRecordFlags(cmd, &rf)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the script to a file instead of stdout")
	cmd.Flags().BoolVar(&copyOSC, "copy", false, "copy the script to the terminal clipboard (OSC 52)")
	cmd.Flags().StringVar(&copyTo, "copy-to", "", "also write the script to this file through the clipboard sink")
	cmd.Flags().BoolVar(&initOnly, "init-only", false, "print only the tenbyte-cloud-init command line")

	return cmd
}

// copyScript exports the script. Copy failures are logged, never returned.
func copyScript(cmd *cobra.Command, a *app, script string, osc bool, path string) {
	if osc {
		if !stderrIsTerminal() {
			a.logger.Warn().Msg("stderr is not a terminal; the OSC 52 sequence may not reach a clipboard")
		}
		sink := clipboard.NewOSC52Sink(os.Stderr, clipboard.DetectMultiplexer())
		copier := clipboard.NewCopier(sink, clipboard.WithLogger(a.logger), clipboard.WithMetrics(a.telemetry.Metrics))
		if copier.CopyNow(cmd.Context(), script) {
			a.logger.Info().Msg("Copied script to clipboard")
		}
		copier.Close()
	}

	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			a.logger.Warn().Err(err).Str("path", path).Msg("Failed to open copy target")
			return
		}
		defer f.Close()
		copier := clipboard.NewCopier(clipboard.NewWriterSink(f), clipboard.WithLogger(a.logger), clipboard.WithMetrics(a.telemetry.Metrics))
		copier.CopyNow(cmd.Context(), script)
		copier.Close()
	}
}

// writeResult writes text to path byte-for-byte, or to w followed by a
// newline.
func writeResult(w io.Writer, path, text string) error {
	if path == "" {
		_, err := fmt.Fprintln(w, text)
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return errdefs.NewSinkError(fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printAdvisories(w io.Writer, advisories []policy.Advisory) {
	for _, adv := range advisories {
		label := "note"
		if adv.Severity == policy.SeverityWarning {
			label = "warning"
		}
		fmt.Fprintf(w, "%s: %s [%s]\n", label, adv.Message, adv.Policy)
	}
}

