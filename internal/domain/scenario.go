package domain

import (
	"errors"
	"time"
)

// ScenarioStatus is the outcome reported for one scenario execution.
type ScenarioStatus string

const (
	StatusPassed    ScenarioStatus = "PASSED"
	StatusFailed    ScenarioStatus = "FAILED"
	StatusUndefined ScenarioStatus = "UNDEFINED"
	StatusPending   ScenarioStatus = "PENDING"
	StatusAmbiguous ScenarioStatus = "AMBIGUOUS"
	StatusSkipped   ScenarioStatus = "SKIPPED"
)

// IsFailureLike reports whether artifacts should be captured for the status.
// Undefined, pending and ambiguous outcomes cannot be verified, so they are
// treated the same as an explicit failure.
func (s ScenarioStatus) IsFailureLike() bool {
	switch s {
	case StatusFailed, StatusUndefined, StatusPending, StatusAmbiguous:
		return true
	default:
		return false
	}
}

// Step outcomes that are not plain failures. Steps return (or wrap) these to
// report a non-passing status other than FAILED.
var (
	ErrPending       = errors.New("step pending")
	ErrUndefinedStep = errors.New("step undefined")
	ErrAmbiguousStep = errors.New("step ambiguous")
	ErrSkipped       = errors.New("scenario skipped")
)

// StatusFromError classifies the error returned by a scenario's steps.
func StatusFromError(err error) ScenarioStatus {
	switch {
	case err == nil:
		return StatusPassed
	case errors.Is(err, ErrPending):
		return StatusPending
	case errors.Is(err, ErrUndefinedStep):
		return StatusUndefined
	case errors.Is(err, ErrAmbiguousStep):
		return StatusAmbiguous
	case errors.Is(err, ErrSkipped):
		return StatusSkipped
	default:
		return StatusFailed
	}
}

// Scenario identifies one execution of a user journey.
type Scenario struct {
	Name  string   `json:"name"`
	RunID string   `json:"run_id"`
	Tags  []string `json:"tags,omitempty"`
}

// ScenarioResult summarises a finished scenario execution.
type ScenarioResult struct {
	Name       string         `json:"name"`
	RunID      string         `json:"run_id"`
	Status     ScenarioStatus `json:"status"`
	Error      string         `json:"error,omitempty"`
	Duration   time.Duration  `json:"duration"`
	Screenshot string         `json:"screenshot,omitempty"`
	Trace      string         `json:"trace,omitempty"`
	Err        error          `json:"-"`
}
