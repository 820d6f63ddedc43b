package engine

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/IlumCI/HACF/internal/catalog"
	"github.com/IlumCI/HACF/internal/checkpoint"
	"github.com/IlumCI/HACF/internal/metrics"
	"github.com/IlumCI/HACF/internal/project"
)

// StageCheckpoints lists the human checkpoints a project would meet at a
// stage. It needs no session.
func (e *Engine) StageCheckpoints(ctx context.Context, pr *project.Project, stage catalog.Stage) (defs []checkpoint.Definition) {
	_, span, done := e.begin(ctx, "StageCheckpoints", stageAttr(stage))
	defer done(func() { defs = []checkpoint.Definition{} })

	defs = checkpoint.ForStage(stage, industryOf(pr))
	if defs == nil {
		defs = []checkpoint.Definition{}
	}
	span.SetAttributes(attribute.Int("hacf.checkpoints", len(defs)))
	return defs
}

// OpenCheckpoints creates the session's pending checkpoints for a stage.
// Calling it again for the same stage returns the existing ones.
func (e *Engine) OpenCheckpoints(ctx context.Context, sessionID string, stage catalog.Stage) (out []checkpoint.Checkpoint, err error) {
	ctx, span, done := e.begin(ctx, "OpenCheckpoints", sessionAttr(sessionID), stageAttr(stage))
	defer done(func() { out, err = nil, ErrInternal })

	if e.store == nil {
		return nil, fail(span, ErrNoPersistence)
	}
	defer e.sessions.lock(sessionID)()

	sess, err := e.store.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, fail(span, err)
	}
	existing, err := e.store.ListCheckpoints(ctx, sessionID, stage)
	if err != nil {
		return nil, fail(span, fmt.Errorf("engine: list checkpoints: %w", err))
	}
	if len(existing) > 0 {
		return existing, nil
	}

	out = []checkpoint.Checkpoint{}
	for _, def := range checkpoint.ForStage(stage, industryOf(sess.Project())) {
		cp := checkpoint.New(sessionID, stage, def)
		if err := e.store.SaveCheckpoint(ctx, cp); err != nil {
			return nil, fail(span, fmt.Errorf("engine: save checkpoint: %w", err))
		}
		out = append(out, cp)
	}
	span.SetAttributes(attribute.Int("hacf.checkpoints", len(out)))
	return out, nil
}

// ResolveCheckpoint completes a pending checkpoint with human feedback and
// returns the processed feedback, ready for AdvanceSession.
func (e *Engine) ResolveCheckpoint(ctx context.Context, id string, fb checkpoint.HumanFeedback) (cp checkpoint.Checkpoint, p checkpoint.Processed, err error) {
	ctx, span, done := e.begin(ctx, "ResolveCheckpoint", attribute.String("hacf.checkpoint_id", id))
	defer done(func() { cp, p, err = checkpoint.Checkpoint{}, checkpoint.Processed{}, ErrInternal })

	if e.store == nil {
		return cp, p, fail(span, ErrNoPersistence)
	}
	cp, err = e.store.LoadCheckpoint(ctx, id)
	if err != nil {
		return cp, p, fail(span, err)
	}
	if err := checkpoint.Complete(&cp, fb); err != nil {
		return cp, p, fail(span, err)
	}
	p, err = checkpoint.ProcessFeedback(cp.ID, fb)
	if err != nil {
		return cp, p, fail(span, err)
	}
	if err := e.store.SaveCheckpoint(ctx, cp); err != nil {
		return cp, p, fail(span, fmt.Errorf("engine: save checkpoint: %w", err))
	}

	metrics.RecordCheckpoint(string(cp.Type), string(cp.Status))
	span.SetAttributes(
		attribute.Float64("hacf.satisfaction", p.Satisfaction),
		attribute.String("hacf.impact", string(p.Impact)),
	)
	return cp, p, nil
}

// SkipCheckpoint resolves an optional pending checkpoint without feedback.
func (e *Engine) SkipCheckpoint(ctx context.Context, id string) (cp checkpoint.Checkpoint, err error) {
	ctx, span, done := e.begin(ctx, "SkipCheckpoint", attribute.String("hacf.checkpoint_id", id))
	defer done(func() { cp, err = checkpoint.Checkpoint{}, ErrInternal })

	if e.store == nil {
		return cp, fail(span, ErrNoPersistence)
	}
	cp, err = e.store.LoadCheckpoint(ctx, id)
	if err != nil {
		return cp, fail(span, err)
	}
	if err := checkpoint.Skip(&cp); err != nil {
		return cp, fail(span, err)
	}
	if err := e.store.SaveCheckpoint(ctx, cp); err != nil {
		return cp, fail(span, fmt.Errorf("engine: save checkpoint: %w", err))
	}
	metrics.RecordCheckpoint(string(cp.Type), string(cp.Status))
	return cp, nil
}

// industryOf returns the project's industry, empty when it has none.
func industryOf(pr *project.Project) string {
	md, ok := pr.Metadata()
	if !ok {
		return ""
	}
	industry, _ := md.String(project.KeyIndustry)
	return industry
}
