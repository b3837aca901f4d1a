package application_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/openkraft/uiharness/internal/application"
	"github.com/openkraft/uiharness/internal/domain"
	"github.com/openkraft/uiharness/internal/domain/session"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_ClassifiesOutcomes(t *testing.T) {
	f := newLifecycleFixture()
	runner := application.NewRunner(f.service(), 1, zerolog.Nop())

	results := runner.Run(context.Background(), []application.Scenario{
		{Name: "passes", Steps: func(context.Context) error { return nil }},
		{Name: "fails", Steps: func(context.Context) error { return errors.New("expected heading") }},
		{Name: "pending", Steps: func(context.Context) error { return fmt.Errorf("reset: %w", domain.ErrPending) }},
		{Name: "undefined"},
		{Name: "ambiguous", Steps: func(context.Context) error { return domain.ErrAmbiguousStep }},
		{Name: "skipped", Steps: func(context.Context) error { return domain.ErrSkipped }},
		{Name: "panics", Steps: func(context.Context) error { panic("nil locator") }},
	})

	require.Len(t, results, 7)
	want := []domain.ScenarioStatus{
		domain.StatusPassed, domain.StatusFailed, domain.StatusPending, domain.StatusUndefined,
		domain.StatusAmbiguous, domain.StatusSkipped, domain.StatusFailed,
	}
	for i, r := range results {
		assert.Equal(t, want[i], r.Status, r.Name)
		assert.NotEmpty(t, r.RunID, r.Name)
	}

	assert.Empty(t, results[0].Screenshot)
	assert.Equal(t, "results/screenshots/fails.png", filepathSlash(results[1].Screenshot))
	assert.Equal(t, "expected heading", results[1].Error)
	assert.Contains(t, results[6].Error, "step panicked: nil locator")
	assert.Empty(t, results[5].Screenshot)
}

func TestRunner_StepsSeeTheirOwnSession(t *testing.T) {
	f := newLifecycleFixture()
	runner := application.NewRunner(f.service(), 4, zerolog.Nop())

	var inFlight, peak atomic.Int32
	var scenarios []application.Scenario
	for i := 0; i < 12; i++ {
		name := fmt.Sprintf("scenario-%02d", i)
		scenarios = append(scenarios, application.Scenario{
			Name: name,
			Steps: func(ctx context.Context) error {
				n := inFlight.Add(1)
				defer inFlight.Add(-1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}

				page, err := session.CurrentPage(ctx)
				if err != nil {
					return err
				}
				if err := page.Goto("https://example.test/" + name); err != nil {
					return err
				}
				time.Sleep(5 * time.Millisecond)
				if page.URL() != "https://example.test/"+name {
					return fmt.Errorf("page of %s was navigated by another scenario", name)
				}
				return nil
			},
		})
	}

	results := runner.Run(context.Background(), scenarios)
	for i, r := range results {
		assert.Equal(t, scenarios[i].Name, r.Name)
		assert.Equal(t, domain.StatusPassed, r.Status, r.Error)
	}
	assert.LessOrEqual(t, peak.Load(), int32(4))
	assert.Equal(t, 12, f.metrics.opened)
	assert.Equal(t, 12, f.metrics.closed)
}

func TestRunner_BeginFailure(t *testing.T) {
	f := newLifecycleFixture()
	f.starter.faults.launch = errors.New("browser not installed")
	runner := application.NewRunner(f.service(), 0, zerolog.Nop())

	called := false
	results := runner.Run(context.Background(), []application.Scenario{
		{Name: "never", Steps: func(context.Context) error { called = true; return nil }},
	})

	require.Len(t, results, 1)
	assert.False(t, called)
	assert.Equal(t, domain.StatusFailed, results[0].Status)
	assert.Contains(t, results[0].Error, "browser not installed")
	assert.Equal(t, []string{"engine.start", "engine.close"}, f.starter.ev.all())
}

func TestRunner_CancelledContextStartsNothing(t *testing.T) {
	f := newLifecycleFixture()
	runner := application.NewRunner(f.service(), 2, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Int32
	var scenarios []application.Scenario
	for i := 0; i < 5; i++ {
		scenarios = append(scenarios, application.Scenario{
			Name:  fmt.Sprintf("page-%d", i),
			Steps: func(context.Context) error { ran.Add(1); return nil },
		})
	}

	results := runner.Run(ctx, scenarios)

	require.Len(t, results, 5)
	assert.Zero(t, ran.Load())
	for _, r := range results {
		assert.Equal(t, domain.StatusSkipped, r.Status, r.Name)
		assert.False(t, r.Status.IsFailureLike(), r.Name)
		assert.ErrorIs(t, r.Err, context.Canceled, r.Name)
	}
	assert.Empty(t, f.starter.ev.all())
	assert.Zero(t, f.metrics.opened)
}

func TestRunner_CancelSkipsQueuedScenarios(t *testing.T) {
	f := newLifecycleFixture()
	runner := application.NewRunner(f.service(), 1, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ran atomic.Int32
	scenarios := []application.Scenario{
		{Name: "first", Steps: func(context.Context) error { ran.Add(1); cancel(); return nil }},
		{Name: "second", Steps: func(context.Context) error { ran.Add(1); return nil }},
		{Name: "third", Steps: func(context.Context) error { ran.Add(1); return nil }},
	}

	results := runner.Run(ctx, scenarios)

	assert.Equal(t, int32(1), ran.Load())
	assert.Equal(t, domain.StatusPassed, results[0].Status)
	assert.Equal(t, domain.StatusSkipped, results[1].Status)
	assert.Equal(t, domain.StatusSkipped, results[2].Status)
	assert.Equal(t, 1, f.metrics.opened)
	assert.Equal(t, 1, f.metrics.closed)
}
