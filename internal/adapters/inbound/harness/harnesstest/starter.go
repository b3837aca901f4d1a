// Package harnesstest provides an in-memory browser driver for exercising
// the wired harness without launching a real browser.
package harnesstest

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/openkraft/uiharness/internal/domain"
)

// ErrBrowserGone is returned by every call after the starter is broken.
var ErrBrowserGone = errors.New("browser disconnected")

// Starter implements domain.EngineStarter. Every page it opens answers
// Evaluate with Result. Screenshots and traces are written as empty files
// so artifact paths can be asserted on disk.
type Starter struct {
	Result any
	// Broken makes Start fail.
	Broken bool

	mu     sync.Mutex
	visits []string
	open   int
}

// NewStarter returns a Starter whose pages report result.
func NewStarter(result any) *Starter {
	return &Starter{Result: result}
}

func (s *Starter) Start() (domain.Engine, error) {
	if s.Broken {
		return nil, ErrBrowserGone
	}
	s.track(1)
	return &engine{s: s}, nil
}

// Visits returns the URLs navigated to, in order.
func (s *Starter) Visits() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.visits...)
}

// Open counts handles opened and not yet closed.
func (s *Starter) Open() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func (s *Starter) track(delta int) {
	s.mu.Lock()
	s.open += delta
	s.mu.Unlock()
}

func touch(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, nil, 0644)
}

type engine struct{ s *Starter }

func (e *engine) Launch(domain.BrowserKind, domain.LaunchOptions) (domain.Browser, error) {
	e.s.track(1)
	return &browser{s: e.s}, nil
}

func (e *engine) Close() error {
	e.s.track(-1)
	return nil
}

type browser struct{ s *Starter }

func (b *browser) NewContext(domain.ContextOptions) (domain.BrowserContext, error) {
	b.s.track(1)
	return &browserContext{s: b.s}, nil
}

func (b *browser) Close() error {
	b.s.track(-1)
	return nil
}

type browserContext struct{ s *Starter }

func (c *browserContext) NewPage() (domain.Page, error) {
	c.s.track(1)
	return &page{s: c.s, url: "about:blank"}, nil
}

func (c *browserContext) StartTracing() error { return nil }

func (c *browserContext) StopTracing(path string) error {
	if path == "" {
		return nil
	}
	return touch(path)
}

func (c *browserContext) Close() error {
	c.s.track(-1)
	return nil
}

type page struct {
	s   *Starter
	url string
}

func (p *page) Goto(url string) error {
	p.s.mu.Lock()
	p.s.visits = append(p.s.visits, url)
	p.s.mu.Unlock()
	p.url = url
	return nil
}

func (p *page) URL() string { return p.url }

func (p *page) Title() (string, error) { return "Test page", nil }

func (p *page) Screenshot(path string) error { return touch(path) }

func (p *page) AddScriptTag(string) error { return nil }

func (p *page) Evaluate(string, ...any) (any, error) { return p.s.Result, nil }

func (p *page) Close() error {
	p.s.track(-1)
	return nil
}
