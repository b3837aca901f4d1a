// Package telemetry builds the harness logger and Prometheus metrics.
package telemetry

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/openkraft/uiharness/internal/domain"
	"github.com/rs/zerolog"
)

// NewLogger creates a logger writing to w (stderr when nil) in the
// configured format and level.
func NewLogger(cfg domain.LoggingConfig, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if cfg.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).
		Level(ParseLevel(cfg.Level)).
		With().Timestamp().
		Logger()
}

// ParseLevel maps a configured level name onto zerolog. Unknown names give info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Component returns a child logger tagged with the component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}
