package engine

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/IlumCI/HACF/internal/catalog"
	"github.com/IlumCI/HACF/internal/evaluation"
	"github.com/IlumCI/HACF/internal/metrics"
	"github.com/IlumCI/HACF/internal/project"
)

// Evaluate scores a stage's output. metrics carries externally computed
// per-criterion scores; when empty the scores are simulated. With a session
// ID and persistence configured, the result is stored together with the
// output. A failed save is logged and does not change the result.
func (e *Engine) Evaluate(ctx context.Context, sessionID string, pr *project.Project, stage catalog.Stage, output string, scores map[string]float64) (res evaluation.Result) {
	ctx, span, done := e.begin(ctx, "Evaluate", sessionAttr(sessionID), stageAttr(stage))
	defer done(func() { res = neutralResult(stage) })

	res = e.evaluator.Evaluate(pr, stage, scores)
	metrics.RecordEvaluation(stageLabel(stage), res.OverallScore, res.Simulated)
	span.SetAttributes(
		attribute.Float64("hacf.overall_score", res.OverallScore),
		attribute.Bool("hacf.simulated", res.Simulated),
		attribute.Int("hacf.recommendations", len(res.Recommendations)),
	)

	if sessionID != "" && e.store != nil {
		if _, err := e.store.SaveEvaluation(ctx, sessionID, output, res); err != nil {
			e.degrade(span, "Evaluate", "error", err, "session_id", sessionID, "stage", int(stage))
		}
	}
	return res
}

// neutralResult is what Evaluate returns when scoring itself fails: every
// dimension at the unmapped default.
func neutralResult(stage catalog.Stage) evaluation.Result {
	dims := make(map[evaluation.Dimension]float64)
	weights := evaluation.Weights{}
	for _, d := range evaluation.Dimensions() {
		dims[d] = evaluation.UnmappedDimension
		weights[d] = evaluation.DefaultWeight(d)
	}
	return evaluation.Result{
		Stage:            stage,
		OverallScore:     evaluation.UnmappedDimension,
		DimensionScores:  dims,
		DimensionWeights: weights,
		MetricScores:     map[string]float64{},
		Criteria:         []string{},
		Recommendations:  []string{},
		Simulated:        true,
		EvaluatedAt:      time.Now().UTC(),
	}
}
