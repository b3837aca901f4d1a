package cli

import (
	"context"

	"github.com/openkraft/uiharness/internal/domain"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// deps are swapped in tests. A nil engines uses Playwright.
type deps struct {
	engines domain.EngineStarter
}

func newRootCmd(d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uiharness",
		Short: "Browser sessions and accessibility gates for UI tests",
		Long: "uiharness drives each scenario in its own Playwright browser session, " +
			"captures screenshots and traces on failure, and fails the run when an axe-core " +
			"audit finds violations at the configured impact levels.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newScanCmd(d))
	cmd.AddCommand(newChecksCmd())
	cmd.AddCommand(newInstallCmd())
	cmd.AddCommand(newMCPCmd(d))
	return cmd
}

// NewRootCmdForTest returns the root command for testing. An engines value
// replaces the Playwright driver.
func NewRootCmdForTest(engines ...domain.EngineStarter) *cobra.Command {
	var d deps
	if len(engines) > 0 {
		d.engines = engines[0]
	}
	return newRootCmd(d)
}

func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the CLI. Once ctx is cancelled no further scenario
// starts; scenarios already running finish.
func ExecuteContext(ctx context.Context) error {
	return newRootCmd(deps{}).ExecuteContext(ctx)
}
