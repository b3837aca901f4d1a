package domain

import "time"

// EngineStarter starts the browser automation engine (driver process).
type EngineStarter interface {
	Start() (Engine, error)
}

// LaunchOptions configures a browser launch.
type LaunchOptions struct {
	Headless bool
	SlowMo   time.Duration
}

// Engine is a running automation engine able to launch browsers.
type Engine interface {
	Launch(kind BrowserKind, opts LaunchOptions) (Browser, error)
	Close() error
}

// ContextOptions configures an isolation context.
type ContextOptions struct {
	// DefaultTimeout applies to every wait and interaction in the context.
	DefaultTimeout time.Duration
}

// Browser is a launched browser instance.
type Browser interface {
	NewContext(opts ContextOptions) (BrowserContext, error)
	Close() error
}

// BrowserContext is an isolated cookie, cache and storage scope.
type BrowserContext interface {
	NewPage() (Page, error)
	// StartTracing records screenshots, DOM snapshots and sources.
	StartTracing() error
	// StopTracing ends the recording. An empty path discards it.
	StopTracing(path string) error
	Close() error
}

// Page is a single navigable document view.
type Page interface {
	Goto(url string) error
	URL() string
	Title() (string, error)
	// Screenshot captures the full scrollable page to path.
	Screenshot(path string) error
	AddScriptTag(content string) error
	Evaluate(expression string, arg ...any) (any, error)
	Close() error
}

// AuditScanner runs the accessibility audit engine against a page and
// returns its raw, untyped result tree.
type AuditScanner interface {
	ScanFullPage(page Page) (any, error)
	ScanRegion(page Page, selector string) (any, error)
}

// StructuralChecker runs named DOM structure checks against a page.
type StructuralChecker interface {
	Run(page Page, names ...string) error
}

// ConfigLoader loads harness configuration from a file path.
type ConfigLoader interface {
	Load(path string) (HarnessConfig, error)
}

// ConfigProvider hands out the configuration loaded once per process.
type ConfigProvider interface {
	Get() (HarnessConfig, error)
}

// ArtifactStore resolves artifact locations and persists scan reports.
// Path methods create the parent directories.
type ArtifactStore interface {
	ScreenshotPath(scenario string) (string, error)
	TracePath(scenario string) (string, error)
	SaveReport(report AccessibilityReport) (string, error)
}

// GitInfo provides version-control metadata for reports.
type GitInfo interface {
	CommitHash(projectPath string) (string, error)
}

// MetricsRecorder receives harness counters.
type MetricsRecorder interface {
	SessionOpened()
	SessionClosed(teardownFaults int)
	ScenarioFinished(status ScenarioStatus)
	ViolationsFound(result ScanResult)
}

// CheckInfo describes one structural check.
type CheckInfo struct {
	Name        string `json:"name"`
	Expectation string `json:"expectation"`
}
