package application

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/openkraft/uiharness/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// StepFunc executes the steps of one scenario against the session carried
// by ctx. Returning (or wrapping) domain.ErrPending, ErrUndefinedStep,
// ErrAmbiguousStep or ErrSkipped reports that status; any other error or a
// panic is a failure.
type StepFunc func(ctx context.Context) error

// Scenario is a named user journey to run in its own browser session.
type Scenario struct {
	Name  string
	Tags  []string
	Steps StepFunc
}

// Runner executes scenarios, each in a private session, with bounded
// parallelism.
type Runner struct {
	lifecycle *LifecycleService
	parallel  int
	logger    zerolog.Logger
}

// NewRunner creates a Runner. parallel below 1 runs scenarios one at a time.
func NewRunner(lifecycle *LifecycleService, parallel int, logger zerolog.Logger) *Runner {
	if parallel < 1 {
		parallel = 1
	}
	return &Runner{
		lifecycle: lifecycle,
		parallel:  parallel,
		logger:    logger.With().Str("component", "runner").Logger(),
	}
}

// Run executes every scenario and returns their results in input order.
// Once ctx is cancelled, scenarios that have not started are reported as
// SKIPPED without opening a session. Running scenarios finish normally.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) []domain.ScenarioResult {
	results := make([]domain.ScenarioResult, len(scenarios))

	var g errgroup.Group
	g.SetLimit(r.parallel)
	for i, sc := range scenarios {
		g.Go(func() error {
			results[i] = r.runOne(ctx, sc)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (r *Runner) runOne(ctx context.Context, sc Scenario) domain.ScenarioResult {
	start := time.Now()
	ds := domain.Scenario{Name: sc.Name, RunID: uuid.NewString(), Tags: sc.Tags}
	result := domain.ScenarioResult{Name: sc.Name, RunID: ds.RunID}

	if err := ctx.Err(); err != nil {
		return r.skipped(result, start, err)
	}

	sctx, err := r.lifecycle.Begin(ctx, ds)
	if err != nil {
		if cerr := ctx.Err(); cerr != nil && errors.Is(err, cerr) {
			return r.skipped(result, start, err)
		}
		r.logger.Error().Err(err).Str("scenario", sc.Name).Msg("scenario could not start")
		result.Status = domain.StatusFailed
		result.Err = err
		result.Error = err.Error()
		result.Duration = time.Since(start)
		return result
	}

	stepErr := r.steps(sctx, sc)
	out := r.lifecycle.End(sctx, domain.StatusFromError(stepErr))

	result.Status = out.Status
	result.Screenshot = out.Screenshot
	result.Trace = out.Trace
	result.Duration = time.Since(start)
	if stepErr != nil {
		result.Err = stepErr
		result.Error = stepErr.Error()
	}
	return result
}

func (r *Runner) skipped(result domain.ScenarioResult, start time.Time, err error) domain.ScenarioResult {
	r.logger.Warn().Err(err).Str("scenario", result.Name).Msg("scenario not started")
	result.Status = domain.StatusSkipped
	result.Err = err
	result.Error = err.Error()
	result.Duration = time.Since(start)
	return result
}

func (r *Runner) steps(ctx context.Context, sc Scenario) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error().Str("scenario", sc.Name).Bytes("stack", debug.Stack()).Msg("step panicked")
			err = fmt.Errorf("step panicked: %v", rec)
		}
	}()
	if sc.Steps == nil {
		return domain.ErrUndefinedStep
	}
	return sc.Steps(ctx)
}
