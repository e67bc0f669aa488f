package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vidinfra/tenbyte-userdata/pkg/config"
	"github.com/vidinfra/tenbyte-userdata/pkg/errdefs"
	"github.com/vidinfra/tenbyte-userdata/pkg/stores"
)

func newHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the generation history",
		Long: `Inspect the generation history recorded with --history.

Entries keep the choices, the init command with the password redacted,
and the SHA-256 of the exact script.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := configureLogging(cmd.ErrOrStderr()); err != nil {
				return err
			}
			if historyPath == "" {
				return errdefs.NewInputError("history requires --history", nil)
			}
			return nil
		},
	}

	cmd.AddCommand(newHistoryListCommand())
	cmd.AddCommand(newHistoryShowCommand())
	cmd.AddCommand(newHistoryDeleteCommand())

	return cmd
}

func newHistoryListCommand() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded generations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := stores.Open(cmd.Context(), historyPath)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), entries)
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "CREATED", "WEB SERVER", "DATABASE", "USERNAME", "SHA256")
			for _, e := range entries {
				t.Row(e.ID, e.CreatedAt.Format("2006-01-02 15:04:05"), e.WebServer, e.Database, e.Username, e.ScriptSHA256[:12])
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return err
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "entries to skip")

	return cmd
}

func newHistoryShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := stores.Open(cmd.Context(), historyPath)
			if err != nil {
				return err
			}
			defer store.Close()

			e, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), e)
		},
	}
}

func newHistoryDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one recorded generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := stores.Open(cmd.Context(), historyPath)
			if err != nil {
				return err
			}
			defer store.Close()

			return store.Delete(cmd.Context(), args[0])
		},
	}
}

// recordHistory appends a generation to the history file. Failures are
// logged; the script is still written.
func recordHistory(cmd *cobra.Command, a *app, r config.Record, script string, advisories int) {
	store, err := stores.Open(cmd.Context(), historyPath)
	if err != nil {
		a.logger.Warn().Err(err).Str("path", historyPath).Msg("Failed to open history")
		return
	}
	defer store.Close()

	entry, err := stores.NewEntry(r, script, advisories)
	if err == nil {
		err = store.Append(cmd.Context(), entry)
	}
	if err != nil {
		a.logger.Warn().Err(err).Msg("Failed to record history")
		return
	}
	a.logger.Debug().Str("id", entry.ID).Msg("Recorded generation")
}
