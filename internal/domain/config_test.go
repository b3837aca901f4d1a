package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/openkraft/uiharness/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := domain.DefaultConfig()
	assert.Equal(t, domain.BrowserChromium, cfg.BrowserKind())
	assert.True(t, cfg.Headless)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, time.Duration(0), cfg.SlowMo())
	assert.True(t, cfg.TraceOnFailure)
	assert.False(t, cfg.TraceOnPass)
	assert.True(t, cfg.ScreenshotOnFailure)
	assert.Equal(t, "test-results", cfg.ResultsDir)
	require.NoError(t, cfg.Validate())

	impacts, err := cfg.FailOnImpacts()
	require.NoError(t, err)
	assert.Equal(t, []domain.Impact{domain.ImpactSerious, domain.ImpactCritical}, impacts)
}

func TestHarnessConfig_Durations(t *testing.T) {
	cfg := domain.HarnessConfig{TimeoutMs: 1500, SlowMoMs: 250}
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout())
	assert.Equal(t, 250*time.Millisecond, cfg.SlowMo())
}

func TestHarnessConfig_Validate_BadFailOn(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Accessibility.FailOn = "serious,blocker"

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
	assert.Contains(t, err.Error(), "accessibility.failOn")
}

func TestHarnessConfig_Validate_TraceOnPassNeedsTracing(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.TraceOnFailure = false
	cfg.TraceOnPass = true

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "traceOnPass")
}

func TestConfigError_Unwrap(t *testing.T) {
	err := &domain.ConfigError{Key: "baseUrl", Err: domain.ErrMissingSetting}
	assert.True(t, errors.Is(err, domain.ErrMissingSetting))
	assert.Equal(t, "configuration baseUrl: required setting missing", err.Error())
}
