package domain

import (
	"errors"
	"fmt"
)

// ErrMissingSetting marks a required configuration value that was not provided.
var ErrMissingSetting = errors.New("required setting missing")

// ConfigError reports a configuration key that is absent, unreadable or invalid.
// It aborts a scenario before any browser resource is opened.
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("configuration: %v", e.Err)
	}
	return fmt.Sprintf("configuration %s: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IsConfigError reports whether err is or wraps a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
