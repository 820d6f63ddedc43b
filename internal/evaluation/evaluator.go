// Package evaluation scores the output of a stage along six weighted
// dimensions and turns the weakest criteria and dimensions into
// recommendations.
package evaluation

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/IlumCI/HACF/internal/catalog"
	"github.com/IlumCI/HACF/internal/logging"
	"github.com/IlumCI/HACF/internal/project"
	"github.com/IlumCI/HACF/internal/sequencer"
)

// Scoring constants.
const (
	SimulatedFloor     = 0.6
	SimulatedSpan      = 0.35
	UnmappedDimension  = 0.75
	CriterionThreshold = 0.7
	DimensionThreshold = 0.75

	lowestCriteria   = 3
	lowestDimensions = 2
)

// Random is the source used to simulate metrics when none are supplied.
type Random interface {
	Float64() float64
}

// Result is one evaluation of a stage's output. It is never mutated after
// Evaluate returns it.
type Result struct {
	Stage            catalog.Stage         `json:"stage" yaml:"stage"`
	Industry         string                `json:"industry,omitempty" yaml:"industry,omitempty"`
	OverallScore     float64               `json:"overall_score" yaml:"overall_score"`
	DimensionScores  map[Dimension]float64 `json:"dimension_scores" yaml:"dimension_scores"`
	DimensionWeights Weights               `json:"dimension_weights" yaml:"dimension_weights"`
	MetricScores     map[string]float64    `json:"metric_scores" yaml:"metric_scores"`
	Criteria         []string              `json:"criteria" yaml:"criteria"`
	Recommendations  []string              `json:"recommendations" yaml:"recommendations"`
	Simulated        bool                  `json:"simulated" yaml:"simulated"`
	EvaluatedAt      time.Time             `json:"evaluated_at" yaml:"evaluated_at"`
}

// Evaluator scores stage outputs.
type Evaluator struct {
	rng    Random
	now    func() time.Time
	logger *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithRandom sets the source for simulated metrics.
func WithRandom(r Random) Option {
	return func(e *Evaluator) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the evaluator's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Evaluator. Without WithRandom, simulated metrics are
// drawn from a clock-seeded source.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		rng:    sequencer.NewRandom(0),
		now:    time.Now,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IndustryOf returns the project's declared industry. Unlike the complexity
// scorer there is no default: a project without a readable industry is
// evaluated without adjustment.
func IndustryOf(pr *project.Project) (string, bool) {
	md, ok := pr.Metadata()
	if !ok {
		return "", false
	}
	return md.String(project.KeyIndustry)
}

// Evaluate scores a stage's output. When metrics is empty every criterion
// is simulated; otherwise criteria missing from metrics score 0.
func (e *Evaluator) Evaluate(pr *project.Project, stage catalog.Stage, metrics map[string]float64) Result {
	industry, _ := IndustryOf(pr)

	table, known := CriteriaFor(stage)
	if !known {
		e.logger.Warn("evaluation: unknown stage, using stage 1 criteria", "stage", int(stage))
	}
	if adj, ok := AdjustmentFor(industry); ok {
		table = adj.Apply(table)
	}

	simulated := len(metrics) == 0
	if simulated {
		metrics = e.simulate(table.Criteria)
	} else {
		metrics = cloneMetrics(metrics)
	}

	dims := DimensionScores(metrics, table.Criteria)
	overall := 0.0
	for _, d := range Dimensions() {
		overall += dims[d] * table.Weights[d]
	}

	return Result{
		Stage:            stage,
		Industry:         industry,
		OverallScore:     overall,
		DimensionScores:  dims,
		DimensionWeights: table.Weights,
		MetricScores:     metrics,
		Criteria:         table.Criteria,
		Recommendations:  Recommendations(metrics, dims),
		Simulated:        simulated,
		EvaluatedAt:      e.now().UTC(),
	}
}

func (e *Evaluator) simulate(criteria []string) map[string]float64 {
	out := make(map[string]float64, len(criteria))
	for _, c := range criteria {
		out[c] = SimulatedFloor + e.rng.Float64()*SimulatedSpan
	}
	return out
}

func cloneMetrics(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// DimensionFor maps a criterion to exactly one dimension: the first whose
// keywords it contains, then security/error to correctness, test to
// maintainability, and completeness for everything else.
func DimensionFor(criterion string) Dimension {
	for _, d := range Dimensions() {
		for _, kw := range dimensionInfo[d].keywords {
			if strings.Contains(criterion, kw) {
				return d
			}
		}
	}
	switch {
	case strings.Contains(criterion, "security"), strings.Contains(criterion, "error"):
		return Correctness
	case strings.Contains(criterion, "test"):
		return Maintainability
	default:
		return Completeness
	}
}

// DimensionScores averages the metric of each criterion into its
// dimension. Dimensions with no criteria score UnmappedDimension.
func DimensionScores(metrics map[string]float64, criteria []string) map[Dimension]float64 {
	sums := make(map[Dimension]float64)
	counts := make(map[Dimension]int)
	seen := make(map[string]bool, len(criteria))
	for _, c := range criteria {
		if seen[c] {
			continue
		}
		seen[c] = true
		d := DimensionFor(c)
		sums[d] += metrics[c]
		counts[d]++
	}

	out := make(map[Dimension]float64, len(dimensionInfo))
	for _, d := range Dimensions() {
		if counts[d] == 0 {
			out[d] = UnmappedDimension
			continue
		}
		out[d] = sums[d] / float64(counts[d])
	}
	return out
}

// criterionAdvice is tried in order; the first matching entry wins.
var criterionAdvice = []struct {
	keywords []string
	advice   string
}{
	{[]string{"requirement", "scope"}, "Improve clarity and completeness of requirements definition"},
	{[]string{"architecture"}, "Refine system architecture to ensure technical feasibility and scalability"},
	{[]string{"code", "implementation"}, "Enhance code quality and implementation completeness"},
	{[]string{"performance", "efficiency"}, "Optimize for better performance and resource efficiency"},
	{[]string{"security"}, "Strengthen security measures and vulnerability protections"},
	{[]string{"documentation"}, "Improve documentation quality and completeness"},
	{[]string{"test"}, "Expand test coverage and test case variety"},
}

// CriterionAdvice returns the recommendation for a weak criterion.
func CriterionAdvice(criterion string) string {
	for _, entry := range criterionAdvice {
		for _, kw := range entry.keywords {
			if strings.Contains(criterion, kw) {
				return entry.advice
			}
		}
	}
	return "Improve " + strings.ReplaceAll(criterion, "_", " ") + " in next iteration"
}

// DimensionAdvice returns the recommendation for a weak dimension.
func DimensionAdvice(d Dimension) string { return dimensionInfo[d].advice }

// Recommendations advises on the three lowest metrics scoring below
// CriterionThreshold and the two lowest dimensions scoring below
// DimensionThreshold. Duplicates are dropped. Ties are broken by name so
// the result is deterministic, though callers should not rely on order.
func Recommendations(metrics map[string]float64, dims map[Dimension]float64) []string {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if metrics[names[i]] != metrics[names[j]] {
			return metrics[names[i]] < metrics[names[j]]
		}
		return names[i] < names[j]
	})

	var out []string
	seen := make(map[string]bool)
	add := func(rec string) {
		if !seen[rec] {
			seen[rec] = true
			out = append(out, rec)
		}
	}

	for _, name := range names[:min(lowestCriteria, len(names))] {
		if metrics[name] < CriterionThreshold {
			add(CriterionAdvice(name))
		}
	}

	ordered := Dimensions()
	sort.SliceStable(ordered, func(i, j int) bool { return dims[ordered[i]] < dims[ordered[j]] })
	for _, d := range ordered[:lowestDimensions] {
		if dims[d] < DimensionThreshold {
			add(DimensionAdvice(d))
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}
