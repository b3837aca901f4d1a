package artifacts

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/openkraft/uiharness/internal/domain"
)

const (
	screenshotDir    = "screenshots"
	traceDir         = "traces"
	accessibilityDir = "accessibility"
)

// Store implements domain.ArtifactStore under a results root directory.
type Store struct {
	root string
}

func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the results root.
func (s *Store) Root() string { return s.root }

// ScreenshotPath returns <root>/screenshots/<name>.png and creates its directory.
func (s *Store) ScreenshotPath(scenario string) (string, error) {
	return s.path(screenshotDir, scenario, ".png")
}

// TracePath returns <root>/traces/<name>.zip and creates its directory.
func (s *Store) TracePath(scenario string) (string, error) {
	return s.path(traceDir, scenario, ".zip")
}

// SaveReport writes the report to <root>/accessibility/<name>.json,
// replacing an earlier report for the same scenario.
func (s *Store) SaveReport(report domain.AccessibilityReport) (string, error) {
	fp, err := s.path(accessibilityDir, report.Scenario, ".json")
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(fp, data, 0644); err != nil {
		return "", err
	}
	return fp, nil
}

// LoadReport reads the saved report for scenario. A missing report returns
// (nil, nil).
func (s *Store) LoadReport(scenario string) (*domain.AccessibilityReport, error) {
	fp := filepath.Join(s.root, accessibilityDir, domain.SanitizeName(scenario)+".json")

	data, err := os.ReadFile(fp)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var report domain.AccessibilityReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *Store) path(dir, scenario, ext string) (string, error) {
	fp := filepath.Join(s.root, dir, domain.SanitizeName(scenario)+ext)
	if err := os.MkdirAll(filepath.Dir(fp), 0755); err != nil {
		return "", err
	}
	return fp, nil
}
