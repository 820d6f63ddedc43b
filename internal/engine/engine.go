// Package engine is the public entry point of HACF. It composes the
// scorer, planner, advisor, memory store and evaluator, and optionally a
// persistence collaborator for sessions, evaluations and checkpoints.
//
// The stateless operations never fail: malformed input, collaborator errors
// and panics all end in the operation's documented safe default, logged at
// WARN and counted in hacf_engine_degradations_total. Operations on
// persisted state (sessions, checkpoints, memory writes) return wrapped
// errors instead, since there is no safe default for a lost write.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/IlumCI/HACF/internal/advisor"
	"github.com/IlumCI/HACF/internal/catalog"
	"github.com/IlumCI/HACF/internal/checkpoint"
	"github.com/IlumCI/HACF/internal/complexity"
	"github.com/IlumCI/HACF/internal/evaluation"
	"github.com/IlumCI/HACF/internal/logging"
	"github.com/IlumCI/HACF/internal/memory"
	"github.com/IlumCI/HACF/internal/metrics"
	"github.com/IlumCI/HACF/internal/sequencer"
)

var tracer = otel.Tracer("hacf.engine")

// ErrNoPersistence is returned by stateful operations when the engine was
// built without a persistence collaborator.
var ErrNoPersistence = errors.New("engine: persistence is not configured")

// ErrInternal is returned by stateful operations that recovered a panic.
var ErrInternal = errors.New("engine: internal error")

// Persistence stores sessions, evaluations and checkpoints.
// storage.Store implements it.
type Persistence interface {
	SaveSession(ctx context.Context, s *sequencer.Session) error
	LoadSession(ctx context.Context, id string) (*sequencer.Session, error)
	SaveEvaluation(ctx context.Context, sessionID, output string, res evaluation.Result) (int64, error)
	SaveCheckpoint(ctx context.Context, cp checkpoint.Checkpoint) error
	LoadCheckpoint(ctx context.Context, id string) (checkpoint.Checkpoint, error)
	ListCheckpoints(ctx context.Context, sessionID string, stage catalog.Stage) ([]checkpoint.Checkpoint, error)
}

// Engine is safe for concurrent use.
type Engine struct {
	scorer    *complexity.Scorer
	planner   *sequencer.Planner
	advisor   *advisor.Advisor
	memory    *memory.Store
	evaluator *evaluation.Evaluator
	store     Persistence
	sessions  sessionLocks

	rng          sequencer.Random
	memRepo      memory.Repository
	memoryLimits [2]int
	newID        func() string
	logger       *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger shared by all components.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRandom sets the random source used for plans, next-stage decisions
// and simulated evaluation metrics.
func WithRandom(r sequencer.Random) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithPersistence enables the stateful operations.
func WithPersistence(p Persistence) Option {
	return func(e *Engine) { e.store = p }
}

// WithMemoryRepository sets where memory records live. The default is an
// in-process repository.
func WithMemoryRepository(r memory.Repository) Option {
	return func(e *Engine) { e.memRepo = r }
}

// WithMemoryLimits overrides the default query and summary limits.
func WithMemoryLimits(query, summary int) Option {
	return func(e *Engine) { e.memoryLimits = [2]int{query, summary} }
}

// WithIDGenerator overrides session ID generation.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// New builds an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger: logging.Nop(),
		newID:  newSessionID,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = sequencer.NewRandom(uint64(time.Now().UnixNano()))
	}

	log := logging.WithComponent(e.logger, "engine")
	e.scorer = complexity.NewScorer(complexity.WithLogger(logging.WithComponent(e.logger, "complexity")))
	e.planner = sequencer.NewPlanner(
		sequencer.WithRandom(e.rng),
		sequencer.WithScorer(e.scorer),
		sequencer.WithLogger(logging.WithComponent(e.logger, "sequencer")),
	)
	e.advisor = advisor.New(
		advisor.WithScorer(e.scorer),
		advisor.WithLogger(logging.WithComponent(e.logger, "advisor")),
	)
	e.memory = memory.NewStore(e.memRepo,
		memory.WithLimits(e.memoryLimits[0], e.memoryLimits[1]),
		memory.WithLogger(logging.WithComponent(e.logger, "memory")),
	)
	e.evaluator = evaluation.New(
		evaluation.WithRandom(e.rng),
		evaluation.WithLogger(logging.WithComponent(e.logger, "evaluation")),
	)
	e.logger = log
	return e
}

// Persistent reports whether stateful operations are available.
func (e *Engine) Persistent() bool { return e.store != nil }

// finish ends an operation's span. Deferred directly, it also recovers a
// panic and runs fallback to install the safe default.
type finish func(fallback func())

func (e *Engine) begin(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span, finish) {
	ctx, span := tracer.Start(ctx, "engine."+op, trace.WithAttributes(attrs...))
	start := time.Now()
	return ctx, span, func(fallback func()) {
		if r := recover(); r != nil {
			e.logger.Error("engine: recovered panic", "operation", op, "panic", fmt.Sprint(r))
			span.SetStatus(codes.Error, "panic")
			metrics.RecordDegradation(op, "panic")
			if fallback != nil {
				fallback()
			}
		}
		metrics.RecordLatency(op, time.Since(start).Seconds())
		span.End()
	}
}

// degrade logs and counts an operation that fell back to its default.
func (e *Engine) degrade(span trace.Span, op, cause string, err error, attrs ...any) {
	args := append([]any{"operation", op, "error", err.Error()}, attrs...)
	e.logger.Warn("engine: returning safe default", args...)
	span.RecordError(err)
	span.SetStatus(codes.Error, cause)
	metrics.RecordDegradation(op, cause)
}

// fail marks a stateful operation's span as failed.
func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func stageAttr(s catalog.Stage) attribute.KeyValue {
	return attribute.Int("hacf.stage", int(s))
}

func sessionAttr(id string) attribute.KeyValue {
	return attribute.String("hacf.session_id", id)
}
