// Package session holds the browser resources of one scenario execution.
//
// A Manager is an explicit per-execution value carried through
// context.Context. Two scenarios never share a Manager, so concurrent
// executions cannot observe or mutate each other's handles.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/openkraft/uiharness/internal/domain"
	"github.com/rs/zerolog"
)

var (
	ErrNotInitialised    = errors.New("browser session not initialised")
	ErrSessionActive     = errors.New("browser session already active")
	ErrIncompleteSession = errors.New("browser session is missing handles")
)

// Session bundles the live resources of one scenario.
type Session struct {
	Engine  domain.Engine
	Browser domain.Browser
	Context domain.BrowserContext
	Page    domain.Page
}

func (s Session) complete() bool {
	return s.Engine != nil && s.Browser != nil && s.Context != nil && s.Page != nil
}

// closer pairs a resource name with its close function.
type closer struct {
	name  string
	close func() error
}

// closers lists the held handles innermost first: page, context, browser,
// engine. Dependent resources go before the ones they depend on.
func (s Session) closers() []closer {
	var out []closer
	if s.Page != nil {
		out = append(out, closer{"page", s.Page.Close})
	}
	if s.Context != nil {
		out = append(out, closer{"context", s.Context.Close})
	}
	if s.Browser != nil {
		out = append(out, closer{"browser", s.Browser.Close})
	}
	if s.Engine != nil {
		out = append(out, closer{"engine", s.Engine.Close})
	}
	return out
}

// TeardownError reports a handle that failed to close.
type TeardownError struct {
	Resource string
	Err      error
}

func (e *TeardownError) Error() string {
	return fmt.Sprintf("closing %s: %v", e.Resource, e.Err)
}

func (e *TeardownError) Unwrap() error { return e.Err }

// Manager owns the Session of a single scenario execution.
type Manager struct {
	mu      sync.Mutex
	current *Session
	logger  zerolog.Logger
}

// NewManager creates an empty Manager. Teardown faults go to logger.
func NewManager(logger zerolog.Logger) *Manager {
	return &Manager{logger: logger.With().Str("component", "session").Logger()}
}

// Acquire stores the four handles. It fails if a Session is already held
// or if any handle is missing.
func (m *Manager) Acquire(s Session) error {
	if !s.complete() {
		return ErrIncompleteSession
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		return ErrSessionActive
	}
	m.current = &s
	return nil
}

// Active reports whether a Session is held.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil
}

// Current returns the held Session or ErrNotInitialised.
func (m *Manager) Current() (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return Session{}, ErrNotInitialised
	}
	return *m.current, nil
}

func (m *Manager) Page() (domain.Page, error) {
	s, err := m.Current()
	if err != nil {
		return nil, fmt.Errorf("page: %w", err)
	}
	return s.Page, nil
}

func (m *Manager) Context() (domain.BrowserContext, error) {
	s, err := m.Current()
	if err != nil {
		return nil, fmt.Errorf("context: %w", err)
	}
	return s.Context, nil
}

func (m *Manager) Browser() (domain.Browser, error) {
	s, err := m.Current()
	if err != nil {
		return nil, fmt.Errorf("browser: %w", err)
	}
	return s.Browser, nil
}

func (m *Manager) Engine() (domain.Engine, error) {
	s, err := m.Current()
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	return s.Engine, nil
}

// Release clears the held Session and closes every handle, page first and
// engine last. Each close is attempted even if an earlier one fails. The
// returned error joins the individual *TeardownError values; callers log it
// and must not let it change a scenario outcome. Releasing an empty Manager
// is a no-op.
func (m *Manager) Release() error {
	m.mu.Lock()
	held := m.current
	m.current = nil
	m.mu.Unlock()

	if held == nil {
		return nil
	}
	return closeAll(m.logger, held.closers())
}

// Discard closes whatever handles s holds without storing it anywhere. It is
// used when a Session could only be partly opened.
func Discard(logger zerolog.Logger, s Session) error {
	return closeAll(logger, s.closers())
}

func closeAll(logger zerolog.Logger, closers []closer) error {
	var errs []error
	for _, c := range closers {
		if err := safeClose(c); err != nil {
			logger.Warn().Err(err).Str("resource", c.name).Msg("teardown fault ignored")
			errs = append(errs, &TeardownError{Resource: c.name, Err: err})
		}
	}
	return errors.Join(errs...)
}

func safeClose(c closer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return c.close()
}

// TeardownFaults counts the *TeardownError values joined in err.
func TeardownFaults(err error) int {
	if err == nil {
		return 0
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return len(joined.Unwrap())
	}
	return 1
}

type managerKey struct{}

// WithManager returns a context carrying m.
func WithManager(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, managerKey{}, m)
}

// FromContext returns the Manager carried by ctx or ErrNotInitialised.
func FromContext(ctx context.Context) (*Manager, error) {
	m, ok := ctx.Value(managerKey{}).(*Manager)
	if !ok || m == nil {
		return nil, ErrNotInitialised
	}
	return m, nil
}

// CurrentPage returns the page of the Session carried by ctx.
func CurrentPage(ctx context.Context) (domain.Page, error) {
	m, err := FromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("page: %w", err)
	}
	return m.Page()
}
