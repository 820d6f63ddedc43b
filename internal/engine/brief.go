package engine

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/IlumCI/HACF/internal/advisor"
	"github.com/IlumCI/HACF/internal/catalog"
	"github.com/IlumCI/HACF/internal/checkpoint"
	"github.com/IlumCI/HACF/internal/evaluation"
	"github.com/IlumCI/HACF/internal/memory"
	"github.com/IlumCI/HACF/internal/project"
	"github.com/IlumCI/HACF/internal/specialization"
)

// Brief is everything a generator needs before running a stage.
type Brief struct {
	SessionID  string              `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	Stage      catalog.StageInfo   `json:"stage" yaml:"stage"`
	Network    catalog.NetworkName `json:"network" yaml:"network"`
	Industry   string              `json:"industry,omitempty" yaml:"industry,omitempty"`
	Parameters advisor.Parameters  `json:"parameters" yaml:"parameters"`
	// Instructions is the stage description with the industry's prompt
	// modifier appended.
	Instructions string                  `json:"instructions" yaml:"instructions"`
	KeyConcerns  []string                `json:"key_concerns,omitempty" yaml:"key_concerns,omitempty"`
	Criteria     []string                `json:"criteria" yaml:"criteria"`
	Memory       memory.Summary          `json:"memory" yaml:"memory"`
	Checkpoints  []checkpoint.Definition `json:"checkpoints" yaml:"checkpoints"`
}

// StageBrief composes stage info, execution parameters, the memory
// summary, domain instructions, evaluation criteria and checkpoints for a
// stage. Without a session ID the memory summary is empty. Unknown stages
// get an empty stage description.
func (e *Engine) StageBrief(ctx context.Context, sessionID string, pr *project.Project, stage catalog.Stage) (b Brief) {
	ctx, span, done := e.begin(ctx, "StageBrief", sessionAttr(sessionID), stageAttr(stage))
	defer done(func() {
		b = Brief{
			SessionID:   sessionID,
			Stage:       catalog.StageInfo{ID: stage},
			Network:     catalog.NetworkStandard,
			Parameters:  advisor.Defaults(),
			Criteria:    []string{},
			Checkpoints: []checkpoint.Definition{},
		}
	})

	info, ok := catalog.StageByID(stage)
	if !ok {
		info = catalog.StageInfo{ID: stage, Responsibilities: []string{}}
	}
	industry := industryOf(pr)

	b = Brief{
		SessionID:    sessionID,
		Stage:        info,
		Network:      e.SelectNetwork(ctx, pr),
		Industry:     industry,
		Parameters:   e.StageParameters(ctx, pr, stage),
		Instructions: specialization.Apply(info.Description, industry, stage),
		Criteria:     stageCriteria(industry, stage),
		Checkpoints:  e.StageCheckpoints(ctx, pr, stage),
	}
	if domain, ok := specialization.Lookup(industry); ok {
		b.KeyConcerns = domain.KeyConcerns
	}
	if sessionID != "" {
		b.Memory = e.SummarizeMemory(ctx, sessionID, stage)
	}

	span.SetAttributes(
		attribute.Int("hacf.criteria", len(b.Criteria)),
		attribute.Int("hacf.checkpoints", len(b.Checkpoints)),
		attribute.Int("hacf.memories", b.Memory.Count),
	)
	return b
}

// stageCriteria lists the criteria a stage is evaluated on, extended by the
// industry's adjustment and its domain criteria, without duplicates.
func stageCriteria(industry string, stage catalog.Stage) []string {
	sc, _ := evaluation.CriteriaFor(stage)
	if adj, ok := evaluation.AdjustmentFor(industry); ok {
		sc = adj.Apply(sc)
	}
	seen := make(map[string]bool, len(sc.Criteria))
	out := make([]string, 0, len(sc.Criteria))
	for _, c := range append(sc.Criteria, specialization.EvaluationCriteria(industry)...) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
