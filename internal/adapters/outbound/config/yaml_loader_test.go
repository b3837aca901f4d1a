package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	appconfig "github.com/openkraft/uiharness/internal/adapters/outbound/config"
	"github.com/openkraft/uiharness/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, appconfig.FileName), []byte(content), 0644))
}

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestYAMLLoader_MissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	loader := appconfig.NewWithEnv(env(nil))

	cfg, err := loader.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestYAMLLoader_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
baseUrl: https://staging.example.test
browser: firefox
headless: false
timeoutMs: 10000
slowMoMs: 200
accessibility:
  failOn: critical
`)
	loader := appconfig.NewWithEnv(env(nil))

	cfg, err := loader.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.test", cfg.BaseURL)
	assert.Equal(t, domain.BrowserFirefox, cfg.BrowserKind())
	assert.False(t, cfg.Headless)
	assert.Equal(t, 10000, cfg.TimeoutMs)
	assert.Equal(t, 200, cfg.SlowMoMs)
	assert.Equal(t, "critical", cfg.Accessibility.FailOn)

	// Untouched keys keep their defaults.
	assert.True(t, cfg.TraceOnFailure)
	assert.Equal(t, "resources", cfg.Accessibility.ResourcesDir)
	assert.Equal(t, "test-results", cfg.ResultsDir)
}

func TestYAMLLoader_FilePath(t *testing.T) {
	dir := t.TempDir()
	fp := filepath.Join(dir, "ci.yaml")
	require.NoError(t, os.WriteFile(fp, []byte("browser: webkit\n"), 0644))

	cfg, err := appconfig.NewWithEnv(env(nil)).Load(fp)
	require.NoError(t, err)
	assert.Equal(t, domain.BrowserWebKit, cfg.BrowserKind())
}

func TestYAMLLoader_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{{{invalid yaml`)

	_, err := appconfig.NewWithEnv(env(nil)).Load(dir)
	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
	assert.Contains(t, err.Error(), "parsing uiharness.yaml")
}

func TestYAMLLoader_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "browser: firefox\nheadless: true\n")

	loader := appconfig.NewWithEnv(env(map[string]string{
		"UIHARNESS_BROWSER":       "webkit",
		"UIHARNESS_HEADLESS":      "false",
		"UIHARNESS_TIMEOUT_MS":    "5000",
		"UIHARNESS_TRACE_ON_PASS": "true",
		"UIHARNESS_FAIL_ON":       "moderate,serious,critical",
		"UIHARNESS_RESULTS_DIR":   "out",
		"UIHARNESS_LOG_FORMAT":    "json",
		"UIHARNESS_BASE_URL":      "http://localhost:8080",
	}))

	cfg, err := loader.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.BrowserWebKit, cfg.BrowserKind())
	assert.False(t, cfg.Headless)
	assert.Equal(t, 5000, cfg.TimeoutMs)
	assert.True(t, cfg.TraceOnPass)
	assert.Equal(t, "moderate,serious,critical", cfg.Accessibility.FailOn)
	assert.Equal(t, "out", cfg.ResultsDir)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
}

func TestYAMLLoader_BadEnvValue(t *testing.T) {
	loader := appconfig.NewWithEnv(env(map[string]string{"UIHARNESS_HEADLESS": "sometimes"}))

	_, err := loader.Load(t.TempDir())
	require.Error(t, err)

	var ce *domain.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "UIHARNESS_HEADLESS", ce.Key)
}

func TestYAMLLoader_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		key  string
	}{
		{"negative timeout", "timeoutMs: -1\n", "timeoutMs"},
		{"bad base url", "baseUrl: not a url\n", "baseUrl"},
		{"empty results dir", "resultsDir: \"\"\n", "resultsDir"},
		{"bad log level", "logging:\n  level: verbose\n", "logging.level"},
		{"bad fail-on", "accessibility:\n  failOn: serious,urgent\n", "accessibility.failOn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.yaml)

			_, err := appconfig.NewWithEnv(env(nil)).Load(dir)
			require.Error(t, err)

			var ce *domain.ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.key, ce.Key)
		})
	}
}

type countingLoader struct {
	calls int
	err   error
}

func (l *countingLoader) Load(string) (domain.HarnessConfig, error) {
	l.calls++
	return domain.DefaultConfig(), l.err
}

func TestProvider_LoadsOnce(t *testing.T) {
	loader := &countingLoader{}
	p := appconfig.NewProvider(loader, ".")

	for i := 0; i < 3; i++ {
		cfg, err := p.Get()
		require.NoError(t, err)
		assert.Equal(t, "test-results", cfg.ResultsDir)
	}
	assert.Equal(t, 1, loader.calls)
}

func TestProvider_CachesError(t *testing.T) {
	loader := &countingLoader{err: errors.New("unreadable")}
	p := appconfig.NewProvider(loader, ".")

	_, err := p.Get()
	require.Error(t, err)
	_, err = p.Get()
	require.Error(t, err)
	assert.Equal(t, 1, loader.calls)
}
