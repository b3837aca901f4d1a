package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openkraft/uiharness/internal/domain"
	"github.com/openkraft/uiharness/internal/domain/session"
	"github.com/rs/zerolog"
)

// LifecycleService opens a browser session before a scenario and finalizes
// it afterwards: artifacts on failure-like outcomes, a discarded trace
// otherwise, and a release that always runs exactly once.
type LifecycleService struct {
	config    domain.ConfigProvider
	engines   domain.EngineStarter
	artifacts domain.ArtifactStore
	metrics   domain.MetricsRecorder
	logger    zerolog.Logger
}

func NewLifecycleService(
	config domain.ConfigProvider,
	engines domain.EngineStarter,
	artifacts domain.ArtifactStore,
	metrics domain.MetricsRecorder,
	logger zerolog.Logger,
) *LifecycleService {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &LifecycleService{
		config:    config,
		engines:   engines,
		artifacts: artifacts,
		metrics:   metrics,
		logger:    logger.With().Str("component", "lifecycle").Logger(),
	}
}

// Outcome reports how a scenario was finalized.
type Outcome struct {
	Status     domain.ScenarioStatus
	Screenshot string
	Trace      string
	// ArtifactErrors lists capture faults. They never change Status.
	ArtifactErrors []error
	// TeardownErr joins the handles that failed to close. Informational only.
	TeardownErr error
}

// execution is the per-scenario state carried in the context between Begin
// and End.
type execution struct {
	scenario domain.Scenario
	cfg      domain.HarnessConfig
	mgr      *session.Manager
	tracing  bool
	started  time.Time
	log      zerolog.Logger
}

type executionKey struct{}

// Begin loads the configuration, opens engine, browser, context and page,
// and returns a context carrying the new session. Configuration errors are
// returned before any resource is opened, and so is ctx.Err() when ctx is
// already cancelled. If opening fails part way, the handles already opened
// are closed.
func (s *LifecycleService) Begin(ctx context.Context, sc domain.Scenario) (context.Context, error) {
	if existing, ok := ctx.Value(executionKey{}).(*execution); ok && existing.mgr.Active() {
		return ctx, session.ErrSessionActive
	}

	cfg, err := s.config.Get()
	if err != nil {
		if !domain.IsConfigError(err) {
			err = &domain.ConfigError{Err: err}
		}
		return ctx, err
	}
	if err := ctx.Err(); err != nil {
		return ctx, err
	}
	if sc.RunID == "" {
		sc.RunID = uuid.NewString()
	}

	log := s.logger.With().Str("scenario", sc.Name).Str("run_id", sc.RunID).Logger()
	kind := cfg.BrowserKind()
	log.Info().
		Str("browser", kind.String()).
		Bool("headless", cfg.Headless).
		Int("timeout_ms", cfg.TimeoutMs).
		Int("slow_mo_ms", cfg.SlowMoMs).
		Msg("START scenario")

	sess, err := s.open(cfg, kind)
	if err != nil {
		_ = session.Discard(log, sess)
		return ctx, err
	}

	mgr := session.NewManager(log)
	if err := mgr.Acquire(sess); err != nil {
		_ = session.Discard(log, sess)
		return ctx, err
	}
	s.metrics.SessionOpened()

	exec := &execution{scenario: sc, cfg: cfg, mgr: mgr, started: time.Now(), log: log}
	if cfg.TraceOnFailure {
		if err := sess.Context.StartTracing(); err != nil {
			log.Warn().Err(err).Msg("trace could not be started")
		} else {
			exec.tracing = true
			log.Info().Msg("TRACE started")
		}
	}

	ctx = session.WithManager(ctx, mgr)
	return context.WithValue(ctx, executionKey{}, exec), nil
}

// open returns whatever it managed to open alongside any error, so the
// caller can discard a partial session.
func (s *LifecycleService) open(cfg domain.HarnessConfig, kind domain.BrowserKind) (session.Session, error) {
	var sess session.Session

	engine, err := s.engines.Start()
	if err != nil {
		return sess, fmt.Errorf("starting engine: %w", err)
	}
	sess.Engine = engine

	browser, err := engine.Launch(kind, domain.LaunchOptions{Headless: cfg.Headless, SlowMo: cfg.SlowMo()})
	if err != nil {
		return sess, fmt.Errorf("launching browser: %w", err)
	}
	sess.Browser = browser

	bctx, err := browser.NewContext(domain.ContextOptions{DefaultTimeout: cfg.Timeout()})
	if err != nil {
		return sess, fmt.Errorf("opening context: %w", err)
	}
	sess.Context = bctx

	page, err := bctx.NewPage()
	if err != nil {
		return sess, fmt.Errorf("opening page: %w", err)
	}
	sess.Page = page

	return sess, nil
}

// End finalizes the scenario started by Begin on ctx. Failure-like statuses
// capture a screenshot and persist the trace when enabled; other statuses
// discard the trace unless traceOnPass is set. Capture faults are collected
// in the Outcome and never skip the release of the session.
func (s *LifecycleService) End(ctx context.Context, status domain.ScenarioStatus) (out Outcome) {
	out.Status = status

	exec, ok := ctx.Value(executionKey{}).(*execution)
	if !ok {
		s.logger.Warn().Str("status", string(status)).Msg("end called without an active scenario")
		return out
	}

	defer func() {
		out.TeardownErr = exec.mgr.Release()
		s.metrics.SessionClosed(session.TeardownFaults(out.TeardownErr))
		s.metrics.ScenarioFinished(status)
	}()

	log := exec.log.With().Str("status", string(status)).Dur("elapsed", time.Since(exec.started)).Logger()

	if status.IsFailureLike() {
		if exec.cfg.ScreenshotOnFailure {
			path, err := s.captureScreenshot(exec)
			if err != nil {
				log.Warn().Err(err).Msg("screenshot capture failed")
				out.ArtifactErrors = append(out.ArtifactErrors, err)
			} else {
				out.Screenshot = path
				log.Info().Str("path", path).Msg("SCREENSHOT saved")
			}
		}
		if exec.tracing {
			path, err := s.saveTrace(exec)
			if err != nil {
				log.Warn().Err(err).Msg("trace save failed")
				out.ArtifactErrors = append(out.ArtifactErrors, err)
			} else {
				out.Trace = path
				log.Info().Str("path", path).Msg("TRACE saved")
			}
		}
		log.Error().Msg("FAILED scenario")
		return out
	}

	if exec.tracing {
		if exec.cfg.TraceOnPass {
			path, err := s.saveTrace(exec)
			if err != nil {
				log.Warn().Err(err).Msg("trace save failed")
				out.ArtifactErrors = append(out.ArtifactErrors, err)
			} else {
				out.Trace = path
				log.Info().Str("path", path).Msg("TRACE saved")
			}
		} else if err := guard("trace", func() error { return discardTrace(exec) }); err != nil {
			log.Debug().Err(err).Msg("trace discard failed")
		} else {
			log.Info().Msg("TRACE stopped (not saved)")
		}
	}
	log.Info().Msg("END scenario")
	return out
}

func (s *LifecycleService) captureScreenshot(exec *execution) (path string, err error) {
	err = guard("screenshot", func() error {
		page, err := exec.mgr.Page()
		if err != nil {
			return err
		}
		if path, err = s.artifacts.ScreenshotPath(exec.scenario.Name); err != nil {
			return err
		}
		return page.Screenshot(path)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

func (s *LifecycleService) saveTrace(exec *execution) (path string, err error) {
	err = guard("trace", func() error {
		bctx, err := exec.mgr.Context()
		if err != nil {
			return err
		}
		if path, err = s.artifacts.TracePath(exec.scenario.Name); err != nil {
			return err
		}
		return bctx.StopTracing(path)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

func discardTrace(exec *execution) error {
	bctx, err := exec.mgr.Context()
	if err != nil {
		return err
	}
	return bctx.StopTracing("")
}

// ArtifactError wraps a fault raised while capturing a failure artifact.
type ArtifactError struct {
	Artifact string
	Err      error
}

func (e *ArtifactError) Error() string { return fmt.Sprintf("capturing %s: %v", e.Artifact, e.Err) }

func (e *ArtifactError) Unwrap() error { return e.Err }

// guard runs fn, turning an error or a panic into an *ArtifactError.
func guard(artifact string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ArtifactError{Artifact: artifact, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if err := fn(); err != nil {
		return &ArtifactError{Artifact: artifact, Err: err}
	}
	return nil
}

type nopMetrics struct{}

func (nopMetrics) SessionOpened()                         {}
func (nopMetrics) SessionClosed(int)                      {}
func (nopMetrics) ScenarioFinished(domain.ScenarioStatus) {}
func (nopMetrics) ViolationsFound(domain.ScanResult)      {}
