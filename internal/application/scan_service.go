package application

import (
	"context"
	"fmt"

	"github.com/openkraft/uiharness/internal/domain"
)

// ScanTarget is one page (or page region) to audit.
type ScanTarget struct {
	Name     string   `json:"name"`
	URL      string   `json:"url"`
	Selector string   `json:"selector,omitempty"`
	Checks   []string `json:"checks,omitempty"`
}

// ScanOutcome pairs a target with its scenario result and report. Report
// is nil when the page could not be opened or scanned.
type ScanOutcome struct {
	Target ScanTarget                  `json:"target"`
	Result domain.ScenarioResult       `json:"result"`
	Report *domain.AccessibilityReport `json:"report,omitempty"`
}

// ScanService audits a list of pages, each as its own scenario.
type ScanService struct {
	runner    *Runner
	navigator *Navigator
	checks    *AccessibilityService
}

func NewScanService(runner *Runner, navigator *Navigator, checks *AccessibilityService) *ScanService {
	return &ScanService{runner: runner, navigator: navigator, checks: checks}
}

// ScanAll opens every target in a fresh session, audits it and returns the
// outcomes in input order. A policy violation fails the target's scenario,
// which captures the failure artifacts. Targets whose names would share
// artifact files get a numeric suffix, so scans running in parallel never
// overwrite each other's screenshots, traces or reports.
func (s *ScanService) ScanAll(ctx context.Context, targets []ScanTarget) []ScanOutcome {
	outcomes := make([]ScanOutcome, len(targets))
	scenarios := make([]Scenario, len(targets))
	taken := make(map[string]bool, len(targets))

	for i, t := range targets {
		if t.Name == "" {
			t.Name = t.URL
		}
		t.Name = uniqueName(t.Name, taken)
		outcomes[i].Target = t
		scenarios[i] = Scenario{
			Name: t.Name,
			Steps: func(ctx context.Context) error {
				if err := s.navigator.Open(ctx, t.URL); err != nil {
					return err
				}
				report, err := s.checks.Check(ctx, ScanRequest{Scenario: t.Name, Selector: t.Selector, Checks: t.Checks})
				if report.Scenario != "" {
					outcomes[i].Report = &report
				}
				return err
			},
		}
	}

	results := s.runner.Run(ctx, scenarios)
	for i, r := range results {
		outcomes[i].Result = r
	}
	return outcomes
}

// uniqueName returns name, or name with the lowest "-N" suffix whose
// sanitized form is not yet taken, and marks the result taken.
func uniqueName(name string, taken map[string]bool) string {
	candidate := name
	for n := 2; taken[domain.SanitizeName(candidate)]; n++ {
		candidate = fmt.Sprintf("%s-%d", name, n)
	}
	taken[domain.SanitizeName(candidate)] = true
	return candidate
}

// Failed reports whether any outcome is failure-like.
func Failed(outcomes []ScanOutcome) bool {
	for _, o := range outcomes {
		if o.Result.Status.IsFailureLike() {
			return true
		}
	}
	return false
}
