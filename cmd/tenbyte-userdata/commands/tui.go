package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vidinfra/tenbyte-userdata/pkg/clipboard"
	"github.com/vidinfra/tenbyte-userdata/pkg/compiler"
	"github.com/vidinfra/tenbyte-userdata/pkg/tui"
)

func newTUICommand() *cobra.Command {
	var (
		rf          recordFlags
		metricsAddr string
		printScript bool
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Build a script in an interactive form",
		Long: `Open an interactive form with a live preview of the generated script.

Press ctrl+y to copy the script to the clipboard over OSC 52.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, metricsAddr)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			if err := a.serveMetrics(ctx); err != nil {
				return err
			}

			r, err := a.resolveRecord(cmd, configPath, &rf)
			if err != nil {
				return err
			}

			sink := clipboard.NewOSC52Sink(os.Stderr, clipboard.DetectMultiplexer())
			copier := clipboard.NewCopier(sink,
				clipboard.WithLogger(a.logger),
				clipboard.WithMetrics(a.telemetry.Metrics),
			)
			defer copier.Close()

			final, err := tui.NewProgram(ctx, r, copier).Run(ctx)
			if err != nil {
				return err
			}

			if printScript {
				script, err := compiler.Compile(final)
				if err != nil {
					return err
				}
				return writeResult(cmd.OutOrStdout(), "", script)
			}
			return nil
		},
	}

	addRecordFlags(cmd, &rf)
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	cmd.Flags().BoolVar(&printScript, "print", false, "print the final script after quitting")

	return cmd
}
