// Package advisor derives generation parameters for a stage from the
// project's complexity and industry.
package advisor

import (
	"log/slog"
	"slices"

	"github.com/IlumCI/HACF/internal/catalog"
	"github.com/IlumCI/HACF/internal/complexity"
	"github.com/IlumCI/HACF/internal/logging"
	"github.com/IlumCI/HACF/internal/project"
)

// Depth describes how thorough a stage's output should be.
type Depth string

const (
	DepthBasic         Depth = "basic"
	DepthStandard      Depth = "standard"
	DepthComprehensive Depth = "comprehensive"
)

// Temperature bounds.
const (
	MinTemperature = 0.1
	MaxTemperature = 1.0
)

// Parameters are the generation settings for one stage.
type Parameters struct {
	MaxTokens   int      `json:"max_tokens" yaml:"max_tokens"`
	Temperature float64  `json:"temperature" yaml:"temperature"`
	Depth       Depth    `json:"depth" yaml:"depth"`
	FocusAreas  []string `json:"focus_areas" yaml:"focus_areas"`
}

// Defaults are the generic parameters for stages without a preset.
func Defaults() Parameters {
	return Parameters{
		MaxTokens:   4000,
		Temperature: 0.7,
		Depth:       DepthStandard,
		FocusAreas:  []string{},
	}
}

// presets override the generic defaults for stages 1..5.
var presets = map[catalog.Stage]Parameters{
	1: {MaxTokens: 3000, Temperature: 0.8, FocusAreas: []string{"requirements", "constraints", "user_stories"}},
	2: {MaxTokens: 4000, Temperature: 0.6, FocusAreas: []string{"architecture", "technical_planning", "data_model"}},
	3: {MaxTokens: 6000, Temperature: 0.4, FocusAreas: []string{"code_generation", "implementation", "apis"}},
	4: {MaxTokens: 5000, Temperature: 0.3, FocusAreas: []string{"performance", "security", "debugging"}},
	5: {MaxTokens: 4000, Temperature: 0.5, FocusAreas: []string{"documentation", "user_guide", "deployment"}},
}

type complexityAdjustment struct {
	tokenFactor float64
	tempDelta   float64
	depth       Depth
}

var complexityAdjustments = map[complexity.Level]complexityAdjustment{
	complexity.Low:    {tokenFactor: 0.8, tempDelta: 0.1, depth: DepthBasic},
	complexity.Medium: {tokenFactor: 1.0, tempDelta: 0.0, depth: DepthStandard},
	complexity.High:   {tokenFactor: 1.5, tempDelta: -0.1, depth: DepthComprehensive},
}

type focusKey struct {
	industry string
	stage    catalog.Stage
}

// industryFocus adds focus areas for designated industry/stage pairs.
var industryFocus = map[focusKey][]string{
	{"healthcare", 4}: {"hipaa_compliance", "phi_security"},
	{"finance", 4}:    {"financial_regulations", "transaction_security"},
	{"education", 5}:  {"accessibility", "learning_outcomes"},
}

// Advisor computes execution parameters.
type Advisor struct {
	scorer *complexity.Scorer
	logger *slog.Logger
}

// Option configures an Advisor.
type Option func(*Advisor)

// WithScorer injects the complexity scorer.
func WithScorer(s *complexity.Scorer) Option {
	return func(a *Advisor) {
		if s != nil {
			a.scorer = s
		}
	}
}

// WithLogger sets the advisor's logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Advisor) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an Advisor.
func New(opts ...Option) *Advisor {
	a := &Advisor{logger: logging.Nop()}
	for _, opt := range opts {
		opt(a)
	}
	if a.scorer == nil {
		a.scorer = complexity.NewScorer(complexity.WithLogger(a.logger))
	}
	return a
}

// Parameters returns the execution parameters for a project's stage.
func (a *Advisor) Parameters(pr *project.Project, stage catalog.Stage) Parameters {
	return ForProfile(a.scorer.Score(pr), stage)
}

// ForProfile derives parameters from an already computed complexity
// profile: stage preset, then complexity adjustment, then industry weight
// and focus areas. An unknown complexity level yields Defaults.
func ForProfile(profile complexity.Profile, stage catalog.Stage) Parameters {
	adj, ok := complexityAdjustments[profile.Overall]
	if !ok {
		return Defaults()
	}

	params := Defaults()
	if preset, ok := presets[stage]; ok {
		params.MaxTokens = preset.MaxTokens
		params.Temperature = preset.Temperature
		params.FocusAreas = slices.Clone(preset.FocusAreas)
	}

	params.MaxTokens = int(float64(params.MaxTokens) * adj.tokenFactor)
	params.Temperature = clamp(params.Temperature+adj.tempDelta, MinTemperature, MaxTemperature)
	params.Depth = adj.depth

	if industry, ok := catalog.Industry(profile.Industry); ok {
		params.MaxTokens = int(float64(params.MaxTokens) * industry.LayerWeight(stage))
		params.FocusAreas = append(params.FocusAreas, industryFocus[focusKey{profile.Industry, stage}]...)
	}
	return params
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
