package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/IlumCI/HACF/internal/logging"
	"github.com/IlumCI/HACF/internal/metrics"
	"github.com/IlumCI/HACF/internal/project"
	"github.com/IlumCI/HACF/internal/sequencer"
)

func newSessionID() string { return "sess-" + uuid.NewString() }

// StartSession plans a project and persists a new active session sitting
// on the plan's first stage.
func (e *Engine) StartSession(ctx context.Context, pr *project.Project) (sess *sequencer.Session, err error) {
	ctx, span, done := e.begin(ctx, "StartSession")
	defer done(func() { sess, err = nil, ErrInternal })

	if e.store == nil {
		return nil, fail(span, ErrNoPersistence)
	}

	plan := e.PlanSequence(ctx, pr)
	sess = sequencer.NewSession(e.newID(), pr, plan)
	if err := e.store.SaveSession(ctx, sess); err != nil {
		return nil, fail(span, fmt.Errorf("engine: start session: %w", err))
	}

	span.SetAttributes(sessionAttr(sess.ID), attribute.String("hacf.network", string(sess.Network)))
	logging.WithSession(e.logger, sess.ID).Info("engine: session started",
		"network", string(sess.Network),
		"complexity", string(sess.Complexity),
		"plan", fmt.Sprint(sess.Plan),
	)
	return sess, nil
}

// Session loads a session with its visit history.
func (e *Engine) Session(ctx context.Context, id string) (sess *sequencer.Session, err error) {
	ctx, span, done := e.begin(ctx, "Session", sessionAttr(id))
	defer done(func() { sess, err = nil, ErrInternal })

	if e.store == nil {
		return nil, fail(span, ErrNoPersistence)
	}
	sess, err = e.store.LoadSession(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	return sess, nil
}

// AdvanceSession completes the session's current stage with the given
// feedback and moves it to the next stage, chosen on the network the
// session started on.
func (e *Engine) AdvanceSession(ctx context.Context, id string, fb sequencer.Feedback) (sess *sequencer.Session, d sequencer.Decision, err error) {
	ctx, span, done := e.begin(ctx, "AdvanceSession", sessionAttr(id))
	defer done(func() { sess, d, err = nil, sequencer.Decision{}, ErrInternal })

	if e.store == nil {
		return nil, d, fail(span, ErrNoPersistence)
	}
	defer e.sessions.lock(id)()

	sess, err = e.store.LoadSession(ctx, id)
	if err != nil {
		return nil, d, fail(span, err)
	}
	if sess.Status != sequencer.StatusActive {
		return nil, d, fail(span, fmt.Errorf("engine: session %s is %s", id, sess.Status))
	}

	d = e.planner.DecideOn(sess.Network, sess.CurrentStage, fb)
	metrics.RecordTransition(string(d.Network), string(d.Reason))
	if err := sequencer.Advance(sess, d); err != nil {
		return nil, d, fail(span, fmt.Errorf("engine: advance session: %w", err))
	}
	if err := e.store.SaveSession(ctx, sess); err != nil {
		return nil, d, fail(span, fmt.Errorf("engine: save session: %w", err))
	}

	span.SetAttributes(stageAttr(d.Current), attribute.Int("hacf.next_stage", int(d.Next)),
		attribute.String("hacf.reason", string(d.Reason)))
	logging.WithStage(logging.WithSession(e.logger, id), int(d.Current)).Info("engine: stage completed",
		"next", int(d.Next),
		"reason", string(d.Reason),
		"satisfaction", d.Satisfaction,
	)
	return sess, d, nil
}

// SetSessionStatus moves a session to another lifecycle status.
func (e *Engine) SetSessionStatus(ctx context.Context, id string, to sequencer.Status) (sess *sequencer.Session, err error) {
	ctx, span, done := e.begin(ctx, "SetSessionStatus", sessionAttr(id), attribute.String("hacf.status", string(to)))
	defer done(func() { sess, err = nil, ErrInternal })

	if e.store == nil {
		return nil, fail(span, ErrNoPersistence)
	}
	defer e.sessions.lock(id)()

	sess, err = e.store.LoadSession(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	if err := sequencer.SetStatus(sess, to); err != nil {
		return nil, fail(span, err)
	}
	if err := e.store.SaveSession(ctx, sess); err != nil {
		return nil, fail(span, fmt.Errorf("engine: save session: %w", err))
	}
	return sess, nil
}
