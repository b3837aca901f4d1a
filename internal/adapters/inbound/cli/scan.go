package cli

import (
	"fmt"
	"strings"

	"github.com/openkraft/uiharness/internal/adapters/inbound/harness"
	"github.com/openkraft/uiharness/internal/adapters/outbound/probes"
	"github.com/openkraft/uiharness/internal/adapters/outbound/telemetry"
	"github.com/openkraft/uiharness/internal/adapters/outbound/tui"
	"github.com/openkraft/uiharness/internal/application"
	"github.com/openkraft/uiharness/internal/domain"
	"github.com/spf13/cobra"
)

// scanReport is the --json output.
type scanReport struct {
	Failed   bool                      `json:"failed"`
	Outcomes []application.ScanOutcome `json:"outcomes"`
}

func newScanCmd(d deps) *cobra.Command {
	var (
		configPath  string
		selector    string
		failOn      string
		browserName string
		headless    bool
		parallel    int
		checks      []string
		jsonOutput  bool
		ciMode      bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "scan <url|path>...",
		Short: "Audit pages for accessibility violations",
		Long: "Open each page in its own browser session, run the axe-core audit and " +
			"evaluate the result against accessibility.failOn. Paths are resolved against baseUrl. " +
			"Failing pages leave a screenshot and a trace under resultsDir.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := harness.Overrides{FailOn: failOn}
			if browserName != "" {
				kind, err := browserArg(browserName)
				if err != nil {
					return err
				}
				overrides.Browser = kind.String()
			}
			if cmd.Flags().Changed("headless") {
				overrides.Headless = &headless
			}
			for _, name := range checks {
				if _, ok := probes.Lookup(name); !ok {
					return fmt.Errorf("unknown check %q (run 'uiharness checks' for the list)", name)
				}
			}

			h, err := harness.Build(harness.Options{
				ConfigPath:  configPath,
				ProjectPath: ".",
				Parallel:    parallel,
				Overrides:   overrides,
				LogOutput:   cmd.ErrOrStderr(),
				Engines:     d.engines,
			})
			if err != nil {
				return err
			}

			if metricsAddr != "" {
				logger := telemetry.Component(h.Logger, "metrics")
				addr, stop, err := serveMetrics(metricsAddr, h.Metrics.Handler(), logger)
				if err != nil {
					return err
				}
				defer stop()
				logger.Info().Str("addr", addr).Msg("serving metrics")
			}

			targets := make([]application.ScanTarget, len(args))
			for i, a := range args {
				targets[i] = application.ScanTarget{URL: a, Selector: selector, Checks: checks}
			}
			outcomes := h.Scan(cmd.Context(), targets)
			failed := application.Failed(outcomes)

			if jsonOutput {
				if err := renderJSON(cmd, scanReport{Failed: failed, Outcomes: outcomes}); err != nil {
					return err
				}
			} else {
				results := make([]domain.ScenarioResult, len(outcomes))
				for i, o := range outcomes {
					results[i] = o.Result
					if o.Report != nil {
						fmt.Fprint(cmd.OutOrStdout(), tui.RenderScanReport(*o.Report))
					}
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderRunSummary(results))
			}

			if err := cmd.Context().Err(); err != nil {
				return fmt.Errorf("scan interrupted: %w", err)
			}
			if ciMode && failed {
				return fmt.Errorf("%d of %d page(s) failed the accessibility gate", countFailed(outcomes), len(outcomes))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", ".", "Path to uiharness.yaml or its directory")
	cmd.Flags().StringVar(&selector, "selector", "", "Audit only the region matching this CSS selector")
	cmd.Flags().StringVar(&failOn, "fail-on", "", "Impact levels that fail the scan, e.g. serious,critical")
	cmd.Flags().StringVar(&browserName, "browser", "", "Browser engine: chromium, firefox or webkit")
	cmd.Flags().BoolVar(&headless, "headless", true, "Run the browser without a window")
	cmd.Flags().IntVar(&parallel, "parallel", 1, "Pages scanned at the same time")
	cmd.Flags().StringSliceVar(&checks, "checks", nil, "Structural checks to run after the audit ("+strings.Join(checkNames(), ", ")+")")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output outcomes as JSON")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "CI mode: exit 1 if any page fails")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while scanning")

	return cmd
}

func checkNames() []string {
	var names []string
	for _, c := range probes.Catalog() {
		names = append(names, c.Name)
	}
	return names
}

func countFailed(outcomes []application.ScanOutcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Result.Status.IsFailureLike() {
			n++
		}
	}
	return n
}
