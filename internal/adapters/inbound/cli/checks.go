package cli

import (
	"encoding/json"
	"fmt"

	"github.com/openkraft/uiharness/internal/adapters/outbound/probes"
	"github.com/openkraft/uiharness/internal/adapters/outbound/tui"
	"github.com/spf13/cobra"
)

func newChecksCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "checks",
		Short: "List the structural accessibility checks",
		Long:  "List the DOM structure checks that scan --checks can run after the audit.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOutput {
				return renderJSON(cmd, probes.Catalog())
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderChecks(probes.Catalog()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output checks as JSON")

	return cmd
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
