package domain

import (
	"fmt"
	"time"
)

// HarnessConfig holds the runtime options loaded from uiharness.yaml.
// The yaml keys follow the property names the harness has always used.
type HarnessConfig struct {
	BaseURL             string              `yaml:"baseUrl"             json:"base_url,omitempty"   validate:"omitempty,url"`
	Browser             string              `yaml:"browser"             json:"browser"`
	Headless            bool                `yaml:"headless"            json:"headless"`
	TimeoutMs           int                 `yaml:"timeoutMs"           json:"timeout_ms"           validate:"gte=0"`
	SlowMoMs            int                 `yaml:"slowMoMs"            json:"slow_mo_ms"           validate:"gte=0"`
	TraceOnFailure      bool                `yaml:"traceOnFailure"      json:"trace_on_failure"`
	TraceOnPass         bool                `yaml:"traceOnPass"         json:"trace_on_pass"`
	ScreenshotOnFailure bool                `yaml:"screenshotOnFailure" json:"screenshot_on_failure"`
	ResultsDir          string              `yaml:"resultsDir"          json:"results_dir"          validate:"required"`
	Accessibility       AccessibilityConfig `yaml:"accessibility"       json:"accessibility"`
	Logging             LoggingConfig       `yaml:"logging"             json:"logging"`
}

// AccessibilityConfig configures the accessibility scan pipeline.
type AccessibilityConfig struct {
	// FailOn is a comma-separated list of impact levels that fail a scan.
	FailOn string `yaml:"failOn" json:"fail_on"`
	// ResourcesDir holds the bundled axe/axe.min.js script.
	ResourcesDir string `yaml:"resourcesDir" json:"resources_dir" validate:"required"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level"  json:"level"  validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" json:"format" validate:"omitempty,oneof=json console"`
}

// DefaultConfig returns the settings used when no file or override sets a key.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Browser:             BrowserChromium.String(),
		Headless:            true,
		TimeoutMs:           30000,
		TraceOnFailure:      true,
		ScreenshotOnFailure: true,
		ResultsDir:          "test-results",
		Accessibility: AccessibilityConfig{
			FailOn:       "serious,critical",
			ResourcesDir: "resources",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// BrowserKind resolves the configured browser name.
func (c HarnessConfig) BrowserKind() BrowserKind { return ParseBrowserKind(c.Browser) }

// Timeout is the default context timeout.
func (c HarnessConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// SlowMo is the artificial delay added to every interaction.
func (c HarnessConfig) SlowMo() time.Duration {
	return time.Duration(c.SlowMoMs) * time.Millisecond
}

// FailOnImpacts parses accessibility.failOn.
func (c HarnessConfig) FailOnImpacts() ([]Impact, error) {
	impacts, err := ParseImpacts(c.Accessibility.FailOn)
	if err != nil {
		return nil, &ConfigError{Key: "accessibility.failOn", Err: err}
	}
	return impacts, nil
}

// Validate checks the rules struct tags cannot express.
func (c HarnessConfig) Validate() error {
	if _, err := c.FailOnImpacts(); err != nil {
		return err
	}
	if c.TraceOnPass && !c.TraceOnFailure {
		return &ConfigError{
			Key: "traceOnPass",
			Err: fmt.Errorf("requires traceOnFailure to be enabled"),
		}
	}
	return nil
}
