// Package browser implements the domain browser ports on playwright-go.
package browser

import (
	"fmt"

	"github.com/openkraft/uiharness/internal/domain"
	"github.com/playwright-community/playwright-go"
)

// Starter implements domain.EngineStarter by starting the Playwright driver.
type Starter struct {
	run func() (*playwright.Playwright, error)
}

// New creates a Starter.
func New() *Starter {
	return &Starter{run: func() (*playwright.Playwright, error) { return playwright.Run() }}
}

// Start launches the driver process.
func (s *Starter) Start() (domain.Engine, error) {
	pw, err := s.run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}
	return &engine{pw: pw}, nil
}

// Install downloads the driver and the browsers named by kinds. With no
// kinds every supported browser is installed.
func Install(kinds ...domain.BrowserKind) error {
	opts := &playwright.RunOptions{}
	for _, k := range kinds {
		opts.Browsers = append(opts.Browsers, k.String())
	}
	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("installing playwright: %w", err)
	}
	return nil
}

type engine struct {
	pw *playwright.Playwright
}

func (e *engine) browserType(kind domain.BrowserKind) playwright.BrowserType {
	switch kind {
	case domain.BrowserFirefox:
		return e.pw.Firefox
	case domain.BrowserWebKit:
		return e.pw.WebKit
	default:
		return e.pw.Chromium
	}
}

func (e *engine) Launch(kind domain.BrowserKind, opts domain.LaunchOptions) (domain.Browser, error) {
	b, err := e.browserType(kind).Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		SlowMo:   playwright.Float(float64(opts.SlowMo.Milliseconds())),
	})
	if err != nil {
		return nil, fmt.Errorf("launching %s: %w", kind, err)
	}
	return &browser{b: b}, nil
}

func (e *engine) Close() error { return e.pw.Stop() }

type browser struct {
	b playwright.Browser
}

func (b *browser) NewContext(opts domain.ContextOptions) (domain.BrowserContext, error) {
	c, err := b.b.NewContext()
	if err != nil {
		return nil, fmt.Errorf("creating context: %w", err)
	}
	c.SetDefaultTimeout(float64(opts.DefaultTimeout.Milliseconds()))
	return &browserContext{c: c}, nil
}

func (b *browser) Close() error { return b.b.Close() }

type browserContext struct {
	c playwright.BrowserContext
}

func (c *browserContext) NewPage() (domain.Page, error) {
	p, err := c.c.NewPage()
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	return &page{p: p}, nil
}

func (c *browserContext) StartTracing() error {
	return c.c.Tracing().Start(playwright.TracingStartOptions{
		Screenshots: playwright.Bool(true),
		Snapshots:   playwright.Bool(true),
		Sources:     playwright.Bool(true),
	})
}

func (c *browserContext) StopTracing(path string) error {
	if path == "" {
		return c.c.Tracing().Stop()
	}
	return c.c.Tracing().Stop(path)
}

func (c *browserContext) Close() error { return c.c.Close() }

type page struct {
	p playwright.Page
}

func (p *page) Goto(url string) error {
	_, err := p.p.Goto(url)
	return err
}

func (p *page) URL() string { return p.p.URL() }

func (p *page) Title() (string, error) { return p.p.Title() }

func (p *page) Screenshot(path string) error {
	_, err := p.p.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

func (p *page) AddScriptTag(content string) error {
	_, err := p.p.AddScriptTag(playwright.PageAddScriptTagOptions{
		Content: playwright.String(content),
	})
	return err
}

func (p *page) Evaluate(expression string, arg ...any) (any, error) {
	return p.p.Evaluate(expression, arg...)
}

func (p *page) Close() error { return p.p.Close() }
