package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/openkraft/uiharness/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in a project directory.
const FileName = "uiharness.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "UIHARNESS_"

// YAMLLoader implements domain.ConfigLoader by reading uiharness.yaml and
// applying UIHARNESS_* environment overrides on top.
type YAMLLoader struct {
	lookupEnv func(string) (string, bool)
	validate  *validator.Validate
}

// New creates a YAMLLoader reading the process environment.
func New() *YAMLLoader {
	return NewWithEnv(os.LookupEnv)
}

// NewWithEnv creates a YAMLLoader with a custom environment lookup.
func NewWithEnv(lookup func(string) (string, bool)) *YAMLLoader {
	return &YAMLLoader{lookupEnv: lookup, validate: validator.New()}
}

// Load reads the configuration at path. A directory is searched for
// uiharness.yaml. Returns DefaultConfig (plus overrides) if the file does
// not exist.
func (l *YAMLLoader) Load(path string) (domain.HarnessConfig, error) {
	if path == "" {
		path = "."
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, FileName)
	}

	cfg := domain.DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return domain.HarnessConfig{}, &domain.ConfigError{Err: fmt.Errorf("reading %s: %w", path, err)}
	default:
		// Keys absent from the file keep their defaults.
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return domain.HarnessConfig{}, &domain.ConfigError{Err: fmt.Errorf("parsing %s: %w", filepath.Base(path), err)}
		}
	}

	if err := l.applyEnv(&cfg); err != nil {
		return domain.HarnessConfig{}, err
	}

	if err := l.validate.Struct(cfg); err != nil {
		return domain.HarnessConfig{}, validationError(err)
	}
	if err := cfg.Validate(); err != nil {
		return domain.HarnessConfig{}, err
	}

	return cfg, nil
}

type override struct {
	key   string
	apply func(cfg *domain.HarnessConfig, value string) error
}

var overrides = []override{
	{"BASE_URL", func(c *domain.HarnessConfig, v string) error { c.BaseURL = v; return nil }},
	{"BROWSER", func(c *domain.HarnessConfig, v string) error { c.Browser = v; return nil }},
	{"HEADLESS", boolField(func(c *domain.HarnessConfig) *bool { return &c.Headless })},
	{"TIMEOUT_MS", intField(func(c *domain.HarnessConfig) *int { return &c.TimeoutMs })},
	{"SLOW_MO_MS", intField(func(c *domain.HarnessConfig) *int { return &c.SlowMoMs })},
	{"TRACE_ON_FAILURE", boolField(func(c *domain.HarnessConfig) *bool { return &c.TraceOnFailure })},
	{"TRACE_ON_PASS", boolField(func(c *domain.HarnessConfig) *bool { return &c.TraceOnPass })},
	{"SCREENSHOT_ON_FAILURE", boolField(func(c *domain.HarnessConfig) *bool { return &c.ScreenshotOnFailure })},
	{"RESULTS_DIR", func(c *domain.HarnessConfig, v string) error { c.ResultsDir = v; return nil }},
	{"FAIL_ON", func(c *domain.HarnessConfig, v string) error { c.Accessibility.FailOn = v; return nil }},
	{"RESOURCES_DIR", func(c *domain.HarnessConfig, v string) error { c.Accessibility.ResourcesDir = v; return nil }},
	{"LOG_LEVEL", func(c *domain.HarnessConfig, v string) error { c.Logging.Level = v; return nil }},
	{"LOG_FORMAT", func(c *domain.HarnessConfig, v string) error { c.Logging.Format = v; return nil }},
}

func (l *YAMLLoader) applyEnv(cfg *domain.HarnessConfig) error {
	for _, o := range overrides {
		name := EnvPrefix + o.key
		v, ok := l.lookupEnv(name)
		if !ok {
			continue
		}
		if err := o.apply(cfg, strings.TrimSpace(v)); err != nil {
			return &domain.ConfigError{Key: name, Err: err}
		}
	}
	return nil
}

func boolField(field func(*domain.HarnessConfig) *bool) func(*domain.HarnessConfig, string) error {
	return func(c *domain.HarnessConfig, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", v)
		}
		*field(c) = b
		return nil
	}
}

func intField(field func(*domain.HarnessConfig) *int) func(*domain.HarnessConfig, string) error {
	return func(c *domain.HarnessConfig, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid integer %q", v)
		}
		*field(c) = n
		return nil
	}
}

// validationError reports the first failed struct tag as a ConfigError keyed
// by the yaml path of the field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &domain.ConfigError{Err: err}
	}
	fe := verrs[0]
	return &domain.ConfigError{
		Key: yamlKey(fe.StructNamespace()),
		Err: fmt.Errorf("failed %q validation (value %v)", fe.Tag(), fe.Value()),
	}
}

var yamlKeys = map[string]string{
	"BaseURL":       "baseUrl",
	"TimeoutMs":     "timeoutMs",
	"SlowMoMs":      "slowMoMs",
	"ResultsDir":    "resultsDir",
	"ResourcesDir":  "resourcesDir",
	"Accessibility": "accessibility",
	"Logging":       "logging",
	"Level":         "level",
	"Format":        "format",
}

func yamlKey(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:] // drop the struct name
	}
	for i, p := range parts {
		if k, ok := yamlKeys[p]; ok {
			parts[i] = k
		}
	}
	return strings.Join(parts, ".")
}

// Provider loads the configuration once and hands out the same value to
// every caller.
type Provider struct {
	loader domain.ConfigLoader
	path   string

	once sync.Once
	cfg  domain.HarnessConfig
	err  error
}

// NewProvider creates a Provider reading path through loader.
func NewProvider(loader domain.ConfigLoader, path string) *Provider {
	return &Provider{loader: loader, path: path}
}

// Get returns the loaded configuration. Later calls return the first result.
func (p *Provider) Get() (domain.HarnessConfig, error) {
	p.once.Do(func() {
		p.cfg, p.err = p.loader.Load(p.path)
	})
	return p.cfg, p.err
}
