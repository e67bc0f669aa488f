package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vidinfra/tenbyte-userdata/pkg/errdefs"
	"github.com/vidinfra/tenbyte-userdata/pkg/policy"
)

// validationReport is the JSON form of a validate run.
type validationReport struct {
	Valid      bool              `json:"valid"`
	Errors     []string          `json:"errors"`
	Advisories []policy.Advisory `json:"advisories"`
}

func newValidateCommand() *cobra.Command {
	var rf recordFlags

	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate a provisioning record",
		Long: `Validate a provisioning record without writing a script.

This command checks:
  - Field values against the option catalog
  - The CUE record schema
  - Advisory policies (OPA/rego)
  - The structure and ordering of the generated script

Only contract violations make the command fail; advisories are reported.`,
		Example: `  # Validate a record file
  tenbyte-userdata validate server.yaml

  # Validate flags, with extra policies
  tenbyte-userdata validate -w mern --yarn --policy ./policies`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if len(args) > 0 {
				path = args[0]
			}

			a, err := newApp(cmd, "")
			if err != nil {
				return err
			}
			defer a.close()

			log.Debug().Str("path", path).Msg("Validating record")

			r, err := a.resolveRecord(cmd, path, &rf)
			if err != nil {
				return err
			}

			report := a.service.Check(cmd.Context(), r)

			out := validationReport{
				Valid:      report.OK(),
				Errors:     []string{},
				Advisories: report.Advisories,
			}
			for _, e := range []error{report.Contract, report.Structure} {
				if e != nil {
					out.Errors = append(out.Errors, e.Error())
				}
			}

			if jsonOutput {
				if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
					return err
				}
			} else {
				w := cmd.OutOrStdout()
				for _, e := range out.Errors {
					fmt.Fprintf(w, "error: %s\n", e)
				}
				printAdvisories(w, out.Advisories)
				if out.Valid {
					fmt.Fprintln(w, "ok")
				}
			}

			if !out.Valid {
				if report.Contract != nil {
					return report.Contract
				}
				return errdefs.NewContractError("generated script failed structure checks", report.Structure).
					WithCode(errdefs.ErrCodeStructure)
			}
			return nil
		},
	}

	addRecordFlags(cmd, &rf)

	return cmd
}
