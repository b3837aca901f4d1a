// Package probes runs named DOM structure checks that complement the axe
// rule set: headings, landmarks, labels, keyboard focus and error summaries.
package probes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/openkraft/uiharness/internal/domain"
)

// ErrUnknownCheck is returned when a requested check name is not registered.
var ErrUnknownCheck = errors.New("unknown structural check")

// CheckFailure reports a page that does not meet a check's expectation.
type CheckFailure struct {
	Check       string
	Expectation string
	Detail      string
}

func (f *CheckFailure) Error() string {
	if f.Detail == "" {
		return fmt.Sprintf("%s: %s", f.Check, f.Expectation)
	}
	return fmt.Sprintf("%s: %s (%s)", f.Check, f.Expectation, f.Detail)
}

// Check is one named probe.
type Check struct {
	Name        string
	Expectation string
	probe       func(page domain.Page) (ok bool, detail string, err error)
}

const (
	countSelector = `(selector) => document.querySelectorAll(selector).length`

	h1Readable = `() => {
  const h = document.querySelector('h1');
  if (!h) return false;
  const style = window.getComputedStyle(h);
  const rendered = h.getClientRects().length > 0 && style.visibility !== 'hidden';
  return rendered && h.innerText.trim().length > 0;
}`

	unlabeledFields = `() => Array.from(document.querySelectorAll('input, select, textarea'))
  .filter(f => !(f.labels && f.labels.length > 0) &&
    !f.hasAttribute('aria-label') && !f.hasAttribute('aria-labelledby')).length`

	unnamedInteractive = `() => Array.from(document.querySelectorAll('a, button, input, select, textarea'))
  .filter(el => !(el.getAttribute('aria-label') || el.getAttribute('aria-labelledby') ||
    (el.textContent || '').trim())).length`

	unannouncedSections = `() => Array.from(document.querySelectorAll('main section'))
  .filter(s => !s.hasAttribute('aria-labelledby') && !s.querySelector('h2, h3')).length`

	imagesWithoutAlt = `() => Array.from(document.querySelectorAll('img'))
  .filter(img => img.getAttribute('alt') === null).length`

	focusIndicator = `() => {
  const el = document.activeElement;
  if (!el) return false;
  const style = window.getComputedStyle(el);
  return style.outlineStyle !== 'none' || style.boxShadow !== 'none';
}`

	dobFieldsets = `() => Array.from(document.querySelectorAll('fieldset')).filter(fs => {
  const legend = fs.querySelector('legend');
  return legend && legend.innerText.toLowerCase().includes('birth');
}).length`

	errorSummaryVisible = `() => {
  const s = document.querySelector('.govuk-error-summary');
  return !!s && s.getClientRects().length > 0 && window.getComputedStyle(s).visibility !== 'hidden';
}`
)

var registry = []Check{
	{Name: "page-title", Expectation: "page title must be present", probe: pageTitle},
	{Name: "descriptive-title", Expectation: "page title must be descriptive", probe: descriptiveTitle},
	{Name: "single-h1", Expectation: "page must contain exactly one <h1>", probe: countIs("h1", 1)},
	{Name: "h1-readable", Expectation: "main heading must be visible and not empty", probe: truthy(h1Readable)},
	{Name: "main-landmark", Expectation: "main landmark must exist", probe: countAtLeast("main", 1)},
	{Name: "single-main", Expectation: "there must be exactly one <main>", probe: countIs("main", 1)},
	{Name: "single-banner", Expectation: "there must be exactly one banner (<header>)", probe: countIs("header", 1)},
	{Name: "aria-landmarks", Expectation: "ARIA landmarks must be present", probe: countAtLeast("header, nav, main, footer", 1)},
	{Name: "form-labels", Expectation: "all form fields must have accessible labels", probe: zero(unlabeledFields)},
	{Name: "accessible-names", Expectation: "all interactive elements must have accessible names", probe: zero(unnamedInteractive)},
	{Name: "sections-announced", Expectation: "content sections must be announced correctly", probe: zero(unannouncedSections)},
	{Name: "decorative-images", Expectation: "images must carry alt text or be hidden from screen readers", probe: zero(imagesWithoutAlt)},
	{Name: "focusable-elements", Expectation: "page must contain focusable elements", probe: countAtLeast("a[href], button, input, select, textarea", 1)},
	{Name: "focus-visible", Expectation: "focus indicator must be visible", probe: truthy(focusIndicator)},
	{Name: "dob-grouped", Expectation: "date of birth fields must be grouped using fieldset and legend", probe: atLeast(dobFieldsets, 1)},
	{Name: "error-summary", Expectation: "error summary must be present and visible", probe: truthy(errorSummaryVisible)},
	{Name: "error-summary-links", Expectation: "error summary must link to the invalid fields", probe: countAtLeast(`.govuk-error-summary a[href^="#"]`, 1)},
}

// All lists every registered check in a stable order.
func All() []Check {
	return append([]Check(nil), registry...)
}

// Catalog describes every registered check.
func Catalog() []domain.CheckInfo {
	out := make([]domain.CheckInfo, len(registry))
	for i, c := range registry {
		out[i] = domain.CheckInfo{Name: c.Name, Expectation: c.Expectation}
	}
	return out
}

// Lookup finds a check by name.
func Lookup(name string) (Check, bool) {
	for _, c := range registry {
		if c.Name == name {
			return c, true
		}
	}
	return Check{}, false
}

// Checker implements domain.StructuralChecker.
type Checker struct{}

// New creates a Checker.
func New() *Checker { return &Checker{} }

// Run executes the named checks against page, or every check when names is
// empty. All requested checks run; their failures are joined. An unknown
// name fails before any check runs.
func (c *Checker) Run(page domain.Page, names ...string) error {
	checks := registry
	if len(names) > 0 {
		checks = make([]Check, 0, len(names))
		for _, n := range names {
			check, ok := Lookup(strings.TrimSpace(n))
			if !ok {
				return fmt.Errorf("%w: %q", ErrUnknownCheck, n)
			}
			checks = append(checks, check)
		}
	}

	var errs []error
	for _, check := range checks {
		ok, detail, err := check.probe(page)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", check.Name, err))
			continue
		}
		if !ok {
			errs = append(errs, &CheckFailure{Check: check.Name, Expectation: check.Expectation, Detail: detail})
		}
	}
	return errors.Join(errs...)
}

func pageTitle(page domain.Page) (bool, string, error) {
	title, err := page.Title()
	if err != nil {
		return false, "", err
	}
	return strings.TrimSpace(title) != "", "", nil
}

func descriptiveTitle(page domain.Page) (bool, string, error) {
	title, err := page.Title()
	if err != nil {
		return false, "", err
	}
	lower := strings.ToLower(title)
	if strings.Contains(lower, "page") || strings.Contains(lower, "untitled") {
		return false, fmt.Sprintf("title %q", title), nil
	}
	return true, "", nil
}

func countIs(selector string, want int) func(domain.Page) (bool, string, error) {
	return func(page domain.Page) (bool, string, error) {
		n, err := count(page, countSelector, selector)
		if err != nil {
			return false, "", err
		}
		return n == want, fmt.Sprintf("found %d", n), nil
	}
}

func countAtLeast(selector string, want int) func(domain.Page) (bool, string, error) {
	return func(page domain.Page) (bool, string, error) {
		n, err := count(page, countSelector, selector)
		if err != nil {
			return false, "", err
		}
		return n >= want, fmt.Sprintf("found %d", n), nil
	}
}

func atLeast(expr string, want int) func(domain.Page) (bool, string, error) {
	return func(page domain.Page) (bool, string, error) {
		n, err := count(page, expr)
		if err != nil {
			return false, "", err
		}
		return n >= want, fmt.Sprintf("found %d", n), nil
	}
}

func zero(expr string) func(domain.Page) (bool, string, error) {
	return func(page domain.Page) (bool, string, error) {
		n, err := count(page, expr)
		if err != nil {
			return false, "", err
		}
		return n == 0, fmt.Sprintf("%d offending element(s)", n), nil
	}
}

func truthy(expr string) func(domain.Page) (bool, string, error) {
	return func(page domain.Page) (bool, string, error) {
		raw, err := page.Evaluate(expr)
		if err != nil {
			return false, "", err
		}
		b, ok := raw.(bool)
		if !ok {
			return false, "", fmt.Errorf("expected boolean, got %T", raw)
		}
		return b, "", nil
	}
}

func count(page domain.Page, expr string, arg ...any) (int, error) {
	raw, err := page.Evaluate(expr, arg...)
	if err != nil {
		return 0, err
	}
	switch n := raw.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("expected number, got %T", raw)
	}
}
