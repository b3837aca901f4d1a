// Package harness assembles the outbound adapters and application services
// shared by the CLI and the MCP server.
package harness

import (
	"context"
	"io"

	"github.com/openkraft/uiharness/internal/adapters/outbound/artifacts"
	"github.com/openkraft/uiharness/internal/adapters/outbound/axe"
	"github.com/openkraft/uiharness/internal/adapters/outbound/browser"
	"github.com/openkraft/uiharness/internal/adapters/outbound/config"
	"github.com/openkraft/uiharness/internal/adapters/outbound/gitinfo"
	"github.com/openkraft/uiharness/internal/adapters/outbound/probes"
	"github.com/openkraft/uiharness/internal/adapters/outbound/telemetry"
	"github.com/openkraft/uiharness/internal/application"
	"github.com/openkraft/uiharness/internal/domain"
	"github.com/openkraft/uiharness/internal/domain/a11y"
	"github.com/rs/zerolog"
)

// Overrides replace configuration values for one invocation. Zero values
// leave the loaded setting alone.
type Overrides struct {
	Browser  string
	Headless *bool
	FailOn   string
}

func (o Overrides) apply(cfg *domain.HarnessConfig) {
	if o.Browser != "" {
		cfg.Browser = o.Browser
	}
	if o.Headless != nil {
		cfg.Headless = *o.Headless
	}
	if o.FailOn != "" {
		cfg.Accessibility.FailOn = o.FailOn
	}
}

// overridden layers Overrides on top of a ConfigProvider.
type overridden struct {
	base      domain.ConfigProvider
	overrides Overrides
}

func (p overridden) Get() (domain.HarnessConfig, error) {
	cfg, err := p.base.Get()
	if err != nil {
		return domain.HarnessConfig{}, err
	}
	p.overrides.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return domain.HarnessConfig{}, err
	}
	return cfg, nil
}

// Options configures Build.
type Options struct {
	// ConfigPath is a uiharness.yaml file or the directory holding it.
	ConfigPath string
	// ProjectPath is where the commit hash for reports is read from.
	ProjectPath string
	Parallel    int
	Overrides   Overrides
	// LogOutput receives log lines. Nil means stderr.
	LogOutput io.Writer
	// Engines replaces the Playwright driver.
	Engines domain.EngineStarter
}

// Harness is a fully wired scan pipeline.
type Harness struct {
	Config  domain.HarnessConfig
	Logger  zerolog.Logger
	Metrics *telemetry.Metrics
	Store   *artifacts.Store
	Scans   *application.ScanService
}

// Build loads the configuration and wires every component. Configuration
// errors are returned before any browser is started.
func Build(opts Options) (*Harness, error) {
	provider := overridden{
		base:      config.NewProvider(config.New(), opts.ConfigPath),
		overrides: opts.Overrides,
	}
	cfg, err := provider.Get()
	if err != nil {
		return nil, err
	}
	policy, err := a11y.ParsePolicy(cfg.Accessibility.FailOn)
	if err != nil {
		return nil, &domain.ConfigError{Key: "accessibility.failOn", Err: err}
	}

	engines := opts.Engines
	if engines == nil {
		engines = browser.New()
	}
	projectPath := opts.ProjectPath
	if projectPath == "" {
		projectPath = "."
	}

	logger := telemetry.NewLogger(cfg.Logging, opts.LogOutput)
	metrics := telemetry.NewMetrics()
	store := artifacts.New(cfg.ResultsDir)

	lifecycle := application.NewLifecycleService(provider, engines, store, metrics, logger)
	checks := application.NewAccessibilityService(
		axe.NewFromDir(cfg.Accessibility.ResourcesDir),
		probes.New(),
		store,
		gitinfo.New(),
		metrics,
		policy,
		projectPath,
		logger,
	)
	runner := application.NewRunner(lifecycle, opts.Parallel, logger)

	return &Harness{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
		Store:   store,
		Scans:   application.NewScanService(runner, application.NewNavigator(cfg.BaseURL), checks),
	}, nil
}

// Scan audits every target, each in its own browser session.
func (h *Harness) Scan(ctx context.Context, targets []application.ScanTarget) []application.ScanOutcome {
	return h.Scans.ScanAll(ctx, targets)
}
