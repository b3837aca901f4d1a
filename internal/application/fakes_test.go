package application_test

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/openkraft/uiharness/internal/domain"
)

// events records browser calls in order across all fakes of one test.
type events struct {
	mu  sync.Mutex
	log []string
}

func (e *events) add(format string, args ...any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log = append(e.log, fmt.Sprintf(format, args...))
}

func (e *events) all() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.log...)
}

func (e *events) has(entry string) bool {
	for _, l := range e.all() {
		if l == entry {
			return true
		}
	}
	return false
}

// faults configures which fake calls fail.
type faults struct {
	start, launch, newContext, newPage error
	startTracing, stopTracing          error
	screenshot                         error
	screenshotPanics                   bool
	closePage, closeContext            error
}

type fakeStarter struct {
	ev     *events
	faults *faults

	mu       sync.Mutex
	launched []domain.LaunchOptions
	kinds    []domain.BrowserKind
	timeouts []domain.ContextOptions
	pages    []*fakePage
}

func newStarter() *fakeStarter {
	return &fakeStarter{ev: &events{}, faults: &faults{}}
}

func (s *fakeStarter) Start() (domain.Engine, error) {
	if s.faults.start != nil {
		return nil, s.faults.start
	}
	s.ev.add("engine.start")
	return &fakeEngine{s: s}, nil
}

type fakeEngine struct{ s *fakeStarter }

func (e *fakeEngine) Launch(kind domain.BrowserKind, opts domain.LaunchOptions) (domain.Browser, error) {
	if e.s.faults.launch != nil {
		return nil, e.s.faults.launch
	}
	e.s.mu.Lock()
	e.s.kinds = append(e.s.kinds, kind)
	e.s.launched = append(e.s.launched, opts)
	e.s.mu.Unlock()
	e.s.ev.add("browser.launch %s", kind)
	return &fakeBrowser{s: e.s}, nil
}

func (e *fakeEngine) Close() error {
	e.s.ev.add("engine.close")
	return nil
}

type fakeBrowser struct{ s *fakeStarter }

func (b *fakeBrowser) NewContext(opts domain.ContextOptions) (domain.BrowserContext, error) {
	if b.s.faults.newContext != nil {
		return nil, b.s.faults.newContext
	}
	b.s.mu.Lock()
	b.s.timeouts = append(b.s.timeouts, opts)
	b.s.mu.Unlock()
	b.s.ev.add("context.new")
	return &fakeContext{s: b.s}, nil
}

func (b *fakeBrowser) Close() error {
	b.s.ev.add("browser.close")
	return nil
}

type fakeContext struct{ s *fakeStarter }

func (c *fakeContext) NewPage() (domain.Page, error) {
	if c.s.faults.newPage != nil {
		return nil, c.s.faults.newPage
	}
	p := &fakePage{s: c.s, url: "about:blank"}
	c.s.mu.Lock()
	c.s.pages = append(c.s.pages, p)
	c.s.mu.Unlock()
	c.s.ev.add("page.new")
	return p, nil
}

func (c *fakeContext) StartTracing() error {
	if c.s.faults.startTracing != nil {
		return c.s.faults.startTracing
	}
	c.s.ev.add("tracing.start")
	return nil
}

func (c *fakeContext) StopTracing(path string) error {
	if c.s.faults.stopTracing != nil {
		return c.s.faults.stopTracing
	}
	if path == "" {
		c.s.ev.add("tracing.discard")
	} else {
		c.s.ev.add("tracing.save %s", filepath.ToSlash(path))
	}
	return nil
}

func (c *fakeContext) Close() error {
	c.s.ev.add("context.close")
	return c.s.faults.closeContext
}

type fakePage struct {
	s      *fakeStarter
	mu     sync.Mutex
	url    string
	result any
}

func (p *fakePage) Goto(url string) error {
	p.mu.Lock()
	p.url = url
	p.mu.Unlock()
	p.s.ev.add("page.goto %s", url)
	return nil
}

func (p *fakePage) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *fakePage) Title() (string, error) { return "Example", nil }

func (p *fakePage) Screenshot(path string) error {
	if p.s.faults.screenshotPanics {
		panic("page crashed")
	}
	if p.s.faults.screenshot != nil {
		return p.s.faults.screenshot
	}
	p.s.ev.add("page.screenshot %s", filepath.ToSlash(path))
	return nil
}

func (p *fakePage) AddScriptTag(string) error { return nil }

func (p *fakePage) Evaluate(string, ...any) (any, error) { return p.result, nil }

func (p *fakePage) Close() error {
	p.s.ev.add("page.close")
	return p.s.faults.closePage
}

// memStore is an ArtifactStore that only computes paths.
type memStore struct {
	mu      sync.Mutex
	reports []domain.AccessibilityReport
	saveErr error
}

func (m *memStore) ScreenshotPath(name string) (string, error) {
	return filepath.Join("results", "screenshots", domain.SanitizeName(name)+".png"), nil
}

func (m *memStore) TracePath(name string) (string, error) {
	return filepath.Join("results", "traces", domain.SanitizeName(name)+".zip"), nil
}

func (m *memStore) SaveReport(r domain.AccessibilityReport) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, r)
	return filepath.Join("results", "accessibility", domain.SanitizeName(r.Scenario)+".json"), nil
}

type staticConfig struct {
	cfg domain.HarnessConfig
	err error
}

func (c staticConfig) Get() (domain.HarnessConfig, error) { return c.cfg, c.err }

type recordingMetrics struct {
	mu         sync.Mutex
	opened     int
	closed     int
	faults     int
	statuses   []domain.ScenarioStatus
	violations int
}

func (m *recordingMetrics) SessionOpened() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opened++
}

func (m *recordingMetrics) SessionClosed(faults int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	m.faults += faults
}

func (m *recordingMetrics) ScenarioFinished(s domain.ScenarioStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, s)
}

func (m *recordingMetrics) ViolationsFound(r domain.ScanResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.violations += len(r.Violations)
}

type fakeScanner struct {
	mu        sync.Mutex
	raw       any
	err       error
	selectors []string
}

func (f *fakeScanner) ScanFullPage(domain.Page) (any, error) {
	return f.ScanRegion(nil, "")
}

func (f *fakeScanner) ScanRegion(_ domain.Page, selector string) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selectors = append(f.selectors, selector)
	return f.raw, f.err
}

type fakeChecker struct {
	mu    sync.Mutex
	names []string
	err   error
}

func (f *fakeChecker) Run(_ domain.Page, names ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names = append(f.names, names...)
	return f.err
}

type fixedGit struct{ hash string }

func (g fixedGit) CommitHash(string) (string, error) {
	if g.hash == "" {
		return "", errors.New("not a git repository")
	}
	return g.hash, nil
}

func rawResult(violations ...map[string]any) map[string]any {
	list := make([]any, len(violations))
	for i, v := range violations {
		list[i] = v
	}
	return map[string]any{"violations": list}
}

func rawViolation(id, impact string) map[string]any {
	return map[string]any{
		"id":          id,
		"impact":      impact,
		"description": id + " description",
		"help":        id + " help",
		"nodes":       []any{map[string]any{"target": []any{"#" + id}, "html": "<div id=\"" + id + "\">"}},
	}
}

func filepathSlash(p string) string { return filepath.ToSlash(p) }
