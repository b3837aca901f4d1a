// Package axe injects the axe-core audit engine into a page and runs it.
package axe

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/openkraft/uiharness/internal/domain"
)

// ScriptName is the location of the bundled engine inside the resources dir.
const ScriptName = "axe/axe.min.js"

// RuleTags restricts full-page scans to WCAG 2.0 and 2.1 level A and AA rules.
var RuleTags = []string{"wcag2a", "wcag2aa", "wcag21a", "wcag21aa"}

const (
	fullPageScan = `(tags) => axe.run(document, { runOnly: { type: 'tag', values: tags } })`
	regionScan   = `(selector) => axe.run(document.querySelector(selector))`
)

// ScanError wraps a failure to inject or run the audit engine.
type ScanError struct {
	Op  string
	Err error
}

func (e *ScanError) Error() string { return fmt.Sprintf("axe %s: %v", e.Op, e.Err) }

func (e *ScanError) Unwrap() error { return e.Err }

// Scanner implements domain.AuditScanner.
type Scanner struct {
	resources fs.FS
}

// New creates a Scanner reading the engine script from resources.
func New(resources fs.FS) *Scanner {
	return &Scanner{resources: resources}
}

// NewFromDir creates a Scanner reading the engine script from dir.
func NewFromDir(dir string) *Scanner {
	return New(os.DirFS(dir))
}

// Script loads the bundled engine. A missing script is a configuration error.
func (s *Scanner) Script() (string, error) {
	data, err := fs.ReadFile(s.resources, ScriptName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &domain.ConfigError{Key: "accessibility.resourcesDir", Err: fmt.Errorf("%s not found", ScriptName)}
		}
		return "", &domain.ConfigError{Key: "accessibility.resourcesDir", Err: err}
	}
	return string(data), nil
}

// Inject adds the engine to the page as a script tag. Each call injects
// again; scan at most once per page load to avoid the redundant tag.
func (s *Scanner) Inject(page domain.Page) error {
	script, err := s.Script()
	if err != nil {
		return err
	}
	if err := page.AddScriptTag(script); err != nil {
		return &ScanError{Op: "inject", Err: err}
	}
	return nil
}

// ScanFullPage audits the whole document against RuleTags.
func (s *Scanner) ScanFullPage(page domain.Page) (any, error) {
	if err := s.Inject(page); err != nil {
		return nil, err
	}
	raw, err := page.Evaluate(fullPageScan, RuleTags)
	if err != nil {
		return nil, &ScanError{Op: "run", Err: err}
	}
	return raw, nil
}

// ScanRegion audits the subtree matched by selector. An unmatched selector
// is passed through; axe then reports on a null context.
func (s *Scanner) ScanRegion(page domain.Page, selector string) (any, error) {
	if err := s.Inject(page); err != nil {
		return nil, err
	}
	raw, err := page.Evaluate(regionScan, selector)
	if err != nil {
		return nil, &ScanError{Op: "run", Err: fmt.Errorf("region %q: %w", selector, err)}
	}
	return raw, nil
}
