package engine

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel/attribute"

	"github.com/IlumCI/HACF/internal/advisor"
	"github.com/IlumCI/HACF/internal/catalog"
	"github.com/IlumCI/HACF/internal/complexity"
	"github.com/IlumCI/HACF/internal/metrics"
	"github.com/IlumCI/HACF/internal/project"
	"github.com/IlumCI/HACF/internal/sequencer"
)

// ScoreComplexity classifies a project. Unreadable metadata yields the
// all-medium default profile.
func (e *Engine) ScoreComplexity(ctx context.Context, pr *project.Project) (profile complexity.Profile) {
	_, span, done := e.begin(ctx, "ScoreComplexity")
	defer done(func() { profile = complexity.DefaultProfile() })

	profile = e.scorer.Score(pr)
	span.SetAttributes(
		attribute.String("hacf.complexity", string(profile.Overall)),
		attribute.Float64("hacf.complexity_score", profile.Score),
	)
	return profile
}

// SelectNetwork resolves the transition network for a project.
func (e *Engine) SelectNetwork(ctx context.Context, pr *project.Project) (name catalog.NetworkName) {
	_, span, done := e.begin(ctx, "SelectNetwork")
	defer done(func() { name = catalog.NetworkStandard })

	name = e.planner.SelectNetwork(pr)
	span.SetAttributes(attribute.String("hacf.network", string(name)))
	return name
}

// PlanSequence projects the initial stage path for a project.
func (e *Engine) PlanSequence(ctx context.Context, pr *project.Project) (plan sequencer.Plan) {
	_, span, done := e.begin(ctx, "PlanSequence")
	defer done(func() { plan = sequencer.DefaultPlan() })

	plan = e.planner.PlanInitialSequence(pr)
	if plan.Defaulted {
		metrics.RecordDegradation("PlanSequence", "invalid_input")
	}
	metrics.RecordPlan(string(plan.Network), string(plan.Complexity.Overall), len(plan.Stages), plan.Defaulted)
	span.SetAttributes(
		attribute.String("hacf.network", string(plan.Network)),
		attribute.Int("hacf.plan_length", len(plan.Stages)),
		attribute.Bool("hacf.defaulted", plan.Defaulted),
	)
	return plan
}

// NextStage picks the stage that follows current. Stages without outgoing
// edges fall back to development.
func (e *Engine) NextStage(ctx context.Context, pr *project.Project, sessionID string, current catalog.Stage, fb sequencer.Feedback) (d sequencer.Decision) {
	_, span, done := e.begin(ctx, "NextStage", sessionAttr(sessionID), stageAttr(current))
	defer done(func() {
		d = sequencer.Decision{
			Current:      current,
			Next:         sequencer.FallbackStage,
			Reason:       sequencer.ReasonFallback,
			Network:      catalog.NetworkStandard,
			Satisfaction: fb.SatisfactionOrDefault(),
		}
	})

	d = e.planner.Decide(pr, sessionID, current, fb)
	metrics.RecordTransition(string(d.Network), string(d.Reason))
	span.SetAttributes(
		attribute.Int("hacf.next_stage", int(d.Next)),
		attribute.String("hacf.reason", string(d.Reason)),
	)
	return d
}

// StageParameters recommends generation settings for a stage.
func (e *Engine) StageParameters(ctx context.Context, pr *project.Project, stage catalog.Stage) (p advisor.Parameters) {
	_, span, done := e.begin(ctx, "StageParameters", stageAttr(stage))
	defer done(func() { p = advisor.Defaults() })

	p = e.advisor.Parameters(pr, stage)
	span.SetAttributes(
		attribute.Int("hacf.max_tokens", p.MaxTokens),
		attribute.String("hacf.depth", string(p.Depth)),
	)
	return p
}

func stageLabel(s catalog.Stage) string {
	return strconv.Itoa(int(s))
}
