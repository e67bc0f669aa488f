package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vidinfra/tenbyte-userdata/pkg/catalog"
	"github.com/vidinfra/tenbyte-userdata/pkg/errdefs"
)

// catalogEntry is one descriptor with its category, for JSON output.
type catalogEntry struct {
	Category catalog.Category `json:"category"`
	catalog.Descriptor
}

func newCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog [web-server|database]",
		Short: "List the supported web servers and databases",
		Example: `  # Everything
  tenbyte-userdata catalog

  # Only databases, as JSON
  tenbyte-userdata catalog database --json`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"web-server", "database"},
		RunE: func(cmd *cobra.Command, args []string) error {
			categories := catalog.Categories()
			if len(args) == 1 {
				category, ok := catalog.ParseCategory(args[0])
				if !ok {
					return errdefs.NewInputError(fmt.Sprintf("unknown category %q (want web-server or database)", args[0]), nil)
				}
				categories = []catalog.Category{category}
			}

			var entries []catalogEntry
			for _, c := range categories {
				for _, d := range catalog.List(c) {
					entries = append(entries, catalogEntry{Category: c, Descriptor: d})
				}
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), entries)
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("CATEGORY", "VALUE", "LABEL", "DESCRIPTION")
			for _, e := range entries {
				t.Row(string(e.Category), e.Value, e.Label, e.Description)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return err
		},
	}

	return cmd
}
