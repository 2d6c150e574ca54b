package engine

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/arthur-debert/sifter/pkg/cache"
	"github.com/arthur-debert/sifter/pkg/conditions"
	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/logging"
	"github.com/arthur-debert/sifter/pkg/pipeline"
	"github.com/arthur-debert/sifter/pkg/registry"
	"github.com/arthur-debert/sifter/pkg/types"
)

const tracerName = "github.com/arthur-debert/sifter/pkg/engine"

// Config holds the plugins of one run. Source is required; a nil Condition
// matches every file.
type Config struct {
	Source    types.FileSource
	Condition types.Condition
	Fields    []types.FieldSource
	Tested    []types.Processor
	Matched   []types.Processor
	// MaxToMatch stops the run after that many matches; zero means no limit.
	MaxToMatch int

	Fs     afero.Fs
	Caches registry.Registry[cache.Factory]
	Logger *zerolog.Logger
}

// Engine runs a Config once.
type Engine struct {
	cfg     Config
	tested  *pipeline.Pipeline
	matched *pipeline.Pipeline
	kinds   []cache.Kind
	tracer  trace.Tracer
	logger  zerolog.Logger

	mu            sync.Mutex
	state         State
	rc            *types.RunContext
	stopRequested bool
	stats         Stats
}

func New(cfg Config) (*Engine, error) {
	if cfg.Source == nil {
		return nil, errors.New(errors.ErrInvalidInput, "a run needs a file source")
	}
	if cfg.MaxToMatch < 0 {
		return nil, errors.Newf(errors.ErrInvalidInput, "max to match must not be negative, got %d", cfg.MaxToMatch)
	}
	if cfg.Condition == nil {
		cfg.Condition = conditions.NewEverything()
	}
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.Caches == nil {
		cfg.Caches = cache.Factories()
	}

	logger := logging.GetLogger("engine")
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	kinds := [][]cache.Kind{cfg.Condition.CacheKinds()}
	for _, f := range cfg.Fields {
		kinds = append(kinds, f.CacheKinds())
	}

	return &Engine{
		cfg:     cfg,
		tested:  pipeline.New("tested", cfg.Tested...),
		matched: pipeline.New("matched", cfg.Matched...),
		kinds:   cache.UnionKinds(kinds...),
		tracer:  otel.Tracer(tracerName),
		logger:  logger,
	}, nil
}

// State returns the phase the run is in.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Stats returns a snapshot of the run's counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// RequestStop asks the run to stop after the file being processed. It is safe
// to call from any goroutine, before or during Run.
func (e *Engine) RequestStop() {
	e.mu.Lock()
	e.stopRequested = true
	rc := e.rc
	e.mu.Unlock()
	if rc != nil {
		rc.RequestStop()
	}
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
	e.logger.Debug().Str("state", s.String()).Msg("engine state")
}

func (e *Engine) count(fn func(*Stats)) {
	e.mu.Lock()
	fn(&e.stats)
	e.mu.Unlock()
}

// Run executes the run. It returns nil when the run completed, stopped early
// or failed to initialize (the failure goes to the error sink), and the
// context error when it was cancelled. An Engine runs once.
func (e *Engine) Run(ctx context.Context, progress types.Progress) error {
	e.mu.Lock()
	if e.state != StateNotStarted {
		e.mu.Unlock()
		return errors.New(errors.ErrInternal, "engine has already run")
	}
	e.state = StateInitializing
	e.mu.Unlock()

	ctx, span := e.tracer.Start(ctx, "sifter.run")
	defer span.End()

	reportErr := func(err error, file string) {
		e.count(func(s *Stats) { s.Errors++ })
		progress.Error(err, file)
	}

	rc := types.NewRunContext(e.cfg.Fs, e.logger)
	rc.Source = e.cfg.Source
	rc.Condition = e.cfg.Condition
	rc.Fields = e.cfg.Fields
	rc.Tested = e.cfg.Tested
	rc.Matched = e.cfg.Matched
	rc.MaxToMatch = e.cfg.MaxToMatch
	rc.Progress = progress

	e.mu.Lock()
	e.rc = rc
	if e.stopRequested {
		rc.RequestStop()
	}
	e.mu.Unlock()

	span.SetAttributes(attribute.String("sifter.run.id", rc.ID))
	logger := rc.Logger
	done := logging.LogOperationStart(logger, "run")
	defer done()

	plugins := e.lifecycle()

	initialized, err := e.initialize(ctx, rc, plugins)
	if err != nil {
		e.setState(StateCleanup)
		e.cleanup(initialized, reportErr)
		if errors.IsCanceled(err) {
			return e.cancelled(span, progress, err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "init failed")
		reportErr(err, "")
		e.setState(StateDone)
		progress.Complete(false)
		return nil
	}

	e.setState(StateStreaming)
	err = errors.Guard(func() error { return e.stream(ctx, rc, progress, reportErr) })
	if errors.IsCanceled(err) {
		e.setState(StateCleanup)
		e.cleanup(plugins, reportErr)
		return e.cancelled(span, progress, err)
	}
	if err != nil {
		// a panicking source ends the stream; what was processed is still finalized
		span.RecordError(err)
		reportErr(errors.Wrap(err, errors.ErrSourceWalk, "file source failed"), "")
	}

	e.setState(StateFinalizing)
	err = e.tested.Finalize(ctx, reportErr)
	if err == nil {
		err = e.matched.Finalize(ctx, reportErr)
	}

	e.setState(StateCleanup)
	e.cleanup(plugins, reportErr)
	if err != nil {
		return e.cancelled(span, progress, err)
	}

	stats := e.Stats()
	span.SetAttributes(
		attribute.Int("sifter.run.tested", stats.Tested),
		attribute.Int("sifter.run.matched", stats.Matched),
		attribute.Int("sifter.run.errors", stats.Errors),
	)
	logger.Info().
		Int("tested", stats.Tested).
		Int("matched", stats.Matched).
		Int("errors", stats.Errors).
		Msg("run completed")

	e.setState(StateDone)
	progress.Complete(false)
	return nil
}

func (e *Engine) cancelled(span trace.Span, progress types.Progress, err error) error {
	span.SetStatus(codes.Error, "cancelled")
	e.logger.Info().Err(err).Msg("run cancelled")
	e.setState(StateCancelled)
	progress.Complete(false)
	return err
}
