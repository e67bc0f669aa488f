package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vidinfra/tenbyte-userdata/pkg/config"
	"github.com/vidinfra/tenbyte-userdata/pkg/errdefs"
)

func newWatchCommand() *cobra.Command {
	var (
		output      string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the script whenever the record file changes",
		Long: `Watch a record file and rewrite the output script after every change.

A record that fails validation leaves the previous script in place.`,
		Example: `  tenbyte-userdata watch -c server.yaml -o user-data.yaml --metrics-addr :9090`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return errdefs.NewInputError("watch requires --config", nil)
			}
			if output == "" {
				return errdefs.NewInputError("watch requires --output", nil)
			}

			a, err := newApp(cmd, metricsAddr)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			if err := a.serveMetrics(ctx); err != nil {
				return err
			}

			render := func(r config.Record) error {
				result, err := a.service.Generate(ctx, r)
				if err != nil {
					return err
				}
				printAdvisories(cmd.ErrOrStderr(), result.Advisories)
				return writeAtomic(output, result.Script)
			}

			r, err := a.resolveRecord(cmd, configPath, nil)
			if err != nil {
				return err
			}
			if err := render(r); err != nil {
				return err
			}
			a.logger.Info().Str("output", output).Msg("Wrote script")

			watcher := config.NewWatcher(a.loader, a.logger)
			defer watcher.Close()

			err = watcher.Watch(ctx, configPath, func(r config.Record, err error) {
				if err == nil {
					err = render(r)
				}
				if err != nil {
					a.telemetry.Metrics.RecordConfigReload("error")
					a.logger.Warn().Err(err).Msg("Keeping previous script")
					return
				}
				a.telemetry.Metrics.RecordConfigReload("success")
				a.logger.Info().Str("output", output).Msg("Regenerated script")
			})
			if err != nil {
				return err
			}

			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "script file to keep up to date")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	return cmd
}

// writeAtomic replaces path with text through a temporary file in the same
// directory.
func writeAtomic(path, text string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errdefs.NewSinkError(fmt.Sprintf("failed to create temp file for %s", path), err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return errdefs.NewSinkError(fmt.Sprintf("failed to write %s", path), err)
	}
	if err := tmp.Close(); err != nil {
		return errdefs.NewSinkError(fmt.Sprintf("failed to write %s", path), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errdefs.NewSinkError(fmt.Sprintf("failed to chmod %s", path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errdefs.NewSinkError(fmt.Sprintf("failed to replace %s", path), err)
	}
	return nil
}
