package cli

import (
	"fmt"

	"github.com/openkraft/uiharness/internal/adapters/outbound/browser"
	"github.com/openkraft/uiharness/internal/domain"
	"github.com/spf13/cobra"
)

func newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install [chromium|firefox|webkit]...",
		Short: "Download the Playwright driver and browsers",
		Long:  "Install the Playwright driver and the named browsers. Without arguments only chromium is installed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := []domain.BrowserKind{domain.BrowserChromium}
			if len(args) > 0 {
				kinds = kinds[:0]
				for _, a := range args {
					kind, err := browserArg(a)
					if err != nil {
						return err
					}
					kinds = append(kinds, kind)
				}
			}

			if err := browser.Install(kinds...); err != nil {
				return fmt.Errorf("installing browsers: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Browsers installed")
			return nil
		},
	}
}

// browserArg parses an explicit browser name. Unlike configuration values,
// names typed on the command line do not fall back to chromium.
func browserArg(name string) (domain.BrowserKind, error) {
	return domain.LookupBrowserKind(name)
}
