package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/openkraft/uiharness/internal/adapters/outbound/config"
	"github.com/openkraft/uiharness/internal/domain"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var (
		baseURL string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a uiharness.yaml configuration file",
		Long:  "Create a uiharness.yaml holding the default settings, ready to edit.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			dest := filepath.Join(absPath, config.FileName)

			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
				}
			}

			cfg := domain.DefaultConfig()
			cfg.BaseURL = baseURL
			if err := os.WriteFile(dest, []byte(generateConfig(cfg)), 0644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "Application root used to resolve relative paths")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing uiharness.yaml")

	return cmd
}

func generateConfig(cfg domain.HarnessConfig) string {
	baseURL := fmt.Sprintf("baseUrl: %s\n", cfg.BaseURL)
	if cfg.BaseURL == "" {
		baseURL = "# baseUrl: http://localhost:8080\n"
	}

	return fmt.Sprintf(`# uiharness configuration
# Every key can be overridden with a UIHARNESS_* environment variable,
# e.g. UIHARNESS_BROWSER=firefox or UIHARNESS_FAIL_ON=critical.

%s
# chromium, firefox or webkit
browser: %s
headless: %t
timeoutMs: %d
slowMoMs: %d

traceOnFailure: %t
# Keep traces of passing scenarios too (needs traceOnFailure).
traceOnPass: %t
screenshotOnFailure: %t
resultsDir: %s

accessibility:
  # Impact levels that fail a scan: minor, moderate, serious, critical.
  failOn: %s
  # Directory holding axe/axe.min.js.
  resourcesDir: %s

logging:
  level: %s
  format: %s
`,
		baseURL,
		cfg.Browser,
		cfg.Headless,
		cfg.TimeoutMs,
		cfg.SlowMoMs,
		cfg.TraceOnFailure,
		cfg.TraceOnPass,
		cfg.ScreenshotOnFailure,
		cfg.ResultsDir,
		cfg.Accessibility.FailOn,
		cfg.Accessibility.ResourcesDir,
		cfg.Logging.Level,
		cfg.Logging.Format,
	)
}
