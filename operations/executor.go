package operations

import (
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/opkit/opkit/pkg/logger"
)

// ErrExecutorReleased is returned when dispatching through, or releasing, an
// executor whose context has already been moved out with Release.
var ErrExecutorReleased = errors.New("executor context already released")

// Executor owns one context instance and dispatches a sequence of
// heterogeneous operations against it, so the caller does not re-thread the
// context through every call.
//
// An executor has one state, holding a context, until Release moves the
// context back out. It is single-caller by contract, mirroring the
// exclusivity rule on the context it holds: dispatch takes no lock, and
// callers sharing an executor across goroutines must provide their own
// mutual exclusion.
// Use NewExecutor to create a new executor.
type Executor[C any] struct {
	ctx      C
	released bool

	lggr    logger.Logger
	journal Journal
	metrics *dispatchMetrics
}

// ExecutorOption is a functional option for configuring an Executor.
type ExecutorOption func(*executorConfig)

type executorConfig struct {
	lggr          logger.Logger
	journal       Journal
	meterProvider metric.MeterProvider
}

// WithLogger sets the logger that records dispatch activity.
// The default is a no-op logger.
func WithLogger(lggr logger.Logger) ExecutorOption {
	return func(cfg *executorConfig) {
		cfg.lggr = lggr
	}
}

// WithJournal sets the journal that receives one entry per dispatch.
// A failed append is logged and never alters the dispatch result.
func WithJournal(journal Journal) ExecutorOption {
	return func(cfg *executorConfig) {
		cfg.journal = journal
	}
}

// WithMeterProvider enables dispatch metrics through the given provider.
// A nil provider leaves the executor uninstrumented.
func WithMeterProvider(provider metric.MeterProvider) ExecutorOption {
	return func(cfg *executorConfig) {
		cfg.meterProvider = provider
	}
}

// NewExecutor creates an executor that takes ownership of ctx.
// Handing a context to an executor is a move: the caller must not keep using
// its own copy while the executor holds it. The context is held until
// Release moves it back out.
func NewExecutor[C any](ctx C, opts ...ExecutorOption) *Executor[C] {
	cfg := executorConfig{lggr: logger.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Executor[C]{
		ctx:     ctx,
		lggr:    cfg.lggr,
		journal: cfg.journal,
	}

	if cfg.meterProvider != nil {
		m, err := newDispatchMetrics(cfg.meterProvider)
		if err != nil {
			cfg.lggr.Errorw("Failed to create dispatch instruments", "error", err)
		} else {
			e.metrics = m
		}
	}

	return e
}

// Context returns the held context for inspection or manual mutation between
// dispatches. It returns nil once the context has been released.
func (e *Executor[C]) Context() *C {
	if e.released {
		return nil
	}

	return &e.ctx
}

// Released reports whether the executor has released its context.
func (e *Executor[C]) Released() bool {
	return e.released
}

// Release moves the context out of the executor and returns it, carrying all
// mutation made by earlier dispatches. The executor is poisoned afterwards:
// Dispatch and further Release calls return ErrExecutorReleased and Context
// returns nil, so a moved-out context cannot be mutated through a stale
// executor by accident.
func (e *Executor[C]) Release() (C, error) {
	if e.released {
		var zero C
		return zero, ErrExecutorReleased
	}

	e.released = true
	ctx := e.ctx

	var zero C
	e.ctx = zero

	return ctx, nil
}

// Dispatch invokes op against the executor's context and returns the
// handler's output or error verbatim, exactly as ExecuteOperation would for
// the same context state. The executor performs no retry and no rollback:
// if the handler fails partway through mutating the context, the mutation
// stays.
//
// Dispatch is a free function rather than a method so each call can carry its
// own params and output types against the one context type the executor owns.
func Dispatch[C, P, O any](e *Executor[C], op *Operation[C, P, O], params P) (O, error) {
	if e.released {
		var zero O
		return zero, ErrExecutorReleased
	}

	e.lggr.Infow("Executing operation",
		"id", op.def.ID, "version", op.def.Version, "description", op.def.Description)

	start := time.Now()
	output, err := op.execute(&e.ctx, params)
	elapsed := time.Since(start)

	if err != nil {
		e.lggr.Errorw("Operation failed", "id", op.def.ID, "error", err)
	}

	if e.metrics != nil {
		e.metrics.record(op.def, elapsed, err)
	}

	if e.journal != nil {
		if jerr := e.journal.Append(NewEntry(op.def, params, output, err)); jerr != nil {
			e.lggr.Errorw("Failed to append journal entry", "id", op.def.ID, "error", jerr)
		}
	}

	return output, err
}
