package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openkraft/uiharness/internal/domain"
	"github.com/openkraft/uiharness/internal/domain/a11y"
	"github.com/openkraft/uiharness/internal/domain/session"
	"github.com/rs/zerolog"
)

// AccessibilityService runs the scan pipeline against the current page:
// scan → normalize → evaluate policy → persist report.
type AccessibilityService struct {
	scanner     domain.AuditScanner
	checker     domain.StructuralChecker
	artifacts   domain.ArtifactStore
	git         domain.GitInfo
	metrics     domain.MetricsRecorder
	policy      a11y.Policy
	projectPath string
	logger      zerolog.Logger
	now         func() time.Time
}

func NewAccessibilityService(
	scanner domain.AuditScanner,
	checker domain.StructuralChecker,
	artifacts domain.ArtifactStore,
	git domain.GitInfo,
	metrics domain.MetricsRecorder,
	policy a11y.Policy,
	projectPath string,
	logger zerolog.Logger,
) *AccessibilityService {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &AccessibilityService{
		scanner:     scanner,
		checker:     checker,
		artifacts:   artifacts,
		git:         git,
		metrics:     metrics,
		policy:      policy,
		projectPath: projectPath,
		logger:      logger.With().Str("component", "accessibility").Logger(),
		now:         time.Now,
	}
}

// ScanRequest selects what to audit on the current page.
type ScanRequest struct {
	// Scenario names the report file.
	Scenario string
	// Selector scopes the audit to one region. Empty scans the full page.
	Selector string
	// Checks lists structural checks to run after the audit.
	Checks []string
}

// Check audits the page of the session carried by ctx. The returned error
// is nil on a clean scan, wraps a11y.ErrPolicyViolation and/or the
// structural check failures otherwise, and is a scan or parse error when no
// report could be produced.
func (s *AccessibilityService) Check(ctx context.Context, req ScanRequest) (domain.AccessibilityReport, error) {
	page, err := session.CurrentPage(ctx)
	if err != nil {
		return domain.AccessibilityReport{}, err
	}

	var raw any
	if req.Selector == "" {
		raw, err = s.scanner.ScanFullPage(page)
	} else {
		raw, err = s.scanner.ScanRegion(page, req.Selector)
	}
	if err != nil {
		return domain.AccessibilityReport{}, fmt.Errorf("accessibility scan: %w", err)
	}

	result, err := a11y.Normalize(raw)
	if err != nil {
		return domain.AccessibilityReport{}, fmt.Errorf("accessibility scan: %w", err)
	}
	s.metrics.ViolationsFound(result)

	ev, policyErr := a11y.Evaluate(result, s.policy)
	log := s.logger.With().Str("scenario", req.Scenario).Str("url", page.URL()).Logger()
	for _, v := range ev.Findings {
		log.Warn().
			Str("rule", v.ID).
			Str("impact", v.Impact.String()).
			Int("nodes", len(v.Nodes)).
			Msg(v.Description)
	}

	report := domain.AccessibilityReport{
		Scenario:  req.Scenario,
		URL:       page.URL(),
		Selector:  req.Selector,
		Timestamp: s.now().UTC(),
		FailOn:    s.policy.Levels(),
		Fatal:     len(ev.Fatal),
		Result:    result,
	}
	if s.git != nil {
		if hash, err := s.git.CommitHash(s.projectPath); err == nil {
			report.CommitHash = hash
		}
	}
	if s.artifacts != nil {
		if path, err := s.artifacts.SaveReport(report); err != nil {
			log.Warn().Err(err).Msg("accessibility report not saved")
		} else {
			log.Debug().Str("path", path).Msg("accessibility report saved")
		}
	}

	var checkErr error
	if len(req.Checks) > 0 && s.checker != nil {
		checkErr = s.checker.Run(page, req.Checks...)
	}

	if policyErr != nil {
		log.Error().Int("fatal", report.Fatal).Msg("accessibility policy violated")
	}
	return report, errors.Join(policyErr, checkErr)
}
