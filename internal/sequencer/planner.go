// Package sequencer plans a project's walk through the stage networks.
//
// A new session gets an initial plan that follows each network's preferred
// edge from stage 1 towards stage 5. Once stages start producing output,
// feedback satisfaction decides between the preferred edge, an alternative
// edge, or a redo of the current stage. Both decisions are stochastic; the
// randomness is injected so callers can make them reproducible.
package sequencer

import (
	"log/slog"

	"github.com/IlumCI/HACF/internal/catalog"
	"github.com/IlumCI/HACF/internal/complexity"
	"github.com/IlumCI/HACF/internal/logging"
	"github.com/IlumCI/HACF/internal/project"
)

// Planning constants.
const (
	StartStage    = catalog.StageTaskDefinition
	TargetStage   = catalog.StageDevelopment
	FallbackStage = catalog.StageDevelopment
	MaxPlanLength = 10

	ReworkProbability         = 0.4
	LowAlternativeChance      = 0.7
	LowRedoChance             = 0.3
	ModerateAlternativeChance = 0.3

	HighSatisfaction    = 0.8
	LowSatisfaction     = 0.4
	DefaultSatisfaction = 0.7
)

// projectTypeNetworks override the industry's preferred network.
var projectTypeNetworks = map[string]catalog.NetworkName{
	"research_poc":      catalog.NetworkResearch,
	"security_critical": catalog.NetworkSecurityFocused,
	"mvp":               catalog.NetworkIterativeDevelopment,
	"prototype":         catalog.NetworkIterativeDevelopment,
	"agile_project":     catalog.NetworkAgile,
}

// reworkNetworks allow duplicate stage 3/4 steps in plans for complex projects.
var reworkNetworks = map[catalog.NetworkName]bool{
	catalog.NetworkAgile:                true,
	catalog.NetworkIterativeDevelopment: true,
}

// Feedback is what a human or system reviewer reports after a stage.
type Feedback struct {
	Satisfaction        *float64          `json:"satisfaction,omitempty" yaml:"satisfaction,omitempty"`
	Comments            string            `json:"comments,omitempty" yaml:"comments,omitempty"`
	Suggestions         []string          `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	SpecificCorrections map[string]string `json:"specific_corrections,omitempty" yaml:"specific_corrections,omitempty"`
}

// SatisfactionOrDefault returns the reported satisfaction, 0.7 if absent.
func (f Feedback) SatisfactionOrDefault() float64 {
	if f.Satisfaction == nil {
		return DefaultSatisfaction
	}
	return *f.Satisfaction
}

// WithSatisfaction returns feedback carrying only a satisfaction score.
func WithSatisfaction(v float64) Feedback {
	return Feedback{Satisfaction: &v}
}

// Plan is the projected stage sequence for a new session.
type Plan struct {
	Network    catalog.NetworkName `json:"network" yaml:"network"`
	Complexity complexity.Profile  `json:"complexity" yaml:"complexity"`
	Stages     []catalog.Stage     `json:"stages" yaml:"stages"`
	// Defaulted marks the fixed 1..5 sequence used when the project
	// could not be read.
	Defaulted bool `json:"defaulted,omitempty" yaml:"defaulted,omitempty"`
}

// DefaultPlan is the linear sequence 1..5 on the standard network.
func DefaultPlan() Plan {
	return Plan{
		Network:    catalog.NetworkStandard,
		Complexity: complexity.DefaultProfile(),
		Stages:     []catalog.Stage{1, 2, 3, 4, 5},
		Defaulted:  true,
	}
}

// Reason explains how the next stage was chosen.
type Reason string

const (
	ReasonStandard    Reason = "standard"
	ReasonAlternative Reason = "alternative"
	ReasonRedo        Reason = "redo"
	ReasonFallback    Reason = "fallback"
)

// Decision is the outcome of a next-stage selection.
type Decision struct {
	Current      catalog.Stage       `json:"current" yaml:"current"`
	Next         catalog.Stage       `json:"next" yaml:"next"`
	Reason       Reason              `json:"reason" yaml:"reason"`
	Network      catalog.NetworkName `json:"network" yaml:"network"`
	Satisfaction float64             `json:"satisfaction" yaml:"satisfaction"`
}

// Planner selects networks, builds initial plans and picks next stages.
type Planner struct {
	scorer *complexity.Scorer
	rng    Random
	logger *slog.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithRandom injects the randomness source.
func WithRandom(r Random) Option {
	return func(p *Planner) {
		if r != nil {
			p.rng = r
		}
	}
}

// WithScorer injects the complexity scorer.
func WithScorer(s *complexity.Scorer) Option {
	return func(p *Planner) {
		if s != nil {
			p.scorer = s
		}
	}
}

// WithLogger sets the planner's logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Planner) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPlanner creates a Planner. Without WithRandom it uses a clock-seeded
// LockedRand.
func NewPlanner(opts ...Option) *Planner {
	p := &Planner{logger: logging.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = NewRandom(0)
	}
	if p.scorer == nil {
		p.scorer = complexity.NewScorer(complexity.WithLogger(p.logger))
	}
	return p
}

// SelectNetwork resolves the network for a project: the industry's
// preferred network, overridden by explicit project types, else standard.
func (p *Planner) SelectNetwork(pr *project.Project) catalog.NetworkName {
	md, ok := pr.Metadata()
	if !ok {
		p.logger.Warn("sequencer: unreadable project metadata, using standard network")
		return catalog.NetworkStandard
	}
	return NetworkFor(md)
}

// NetworkFor applies the network selection rules to decoded metadata.
func NetworkFor(md project.Metadata) catalog.NetworkName {
	network := catalog.NetworkStandard
	if profile, ok := catalog.Industry(md.Industry()); ok {
		network = profile.PreferredNetwork
	}
	if override, ok := projectTypeNetworks[md.ProjectType()]; ok {
		network = override
	}
	if catalog.ValidateNetwork(network) != nil {
		return catalog.NetworkStandard
	}
	return network
}

// PlanInitialSequence projects the stage path for a new session. The path
// starts at stage 1, follows each stage's first edge until stage 5 and is
// never longer than MaxPlanLength.
func (p *Planner) PlanInitialSequence(pr *project.Project) Plan {
	md, ok := pr.Metadata()
	if !ok {
		p.logger.Warn("sequencer: unreadable project metadata, using default plan")
		return DefaultPlan()
	}
	profile := p.scorer.ScoreMetadata(md)
	network := catalog.NetworkOrStandard(NetworkFor(md))
	return Plan{
		Network:    network.Name(),
		Complexity: profile,
		Stages:     p.walk(network, profile.Overall),
	}
}

func (p *Planner) walk(network catalog.Network, overall complexity.Level) []catalog.Stage {
	rework := overall == complexity.High && reworkNetworks[network.Name()]

	current := StartStage
	path := []catalog.Stage{current}
	for current != TargetStage && len(path) < MaxPlanLength {
		next := network.Next(current)
		if len(next) == 0 {
			if current >= TargetStage {
				break
			}
			current++
		} else {
			current = next[0]
		}
		path = append(path, current)

		if rework && (current == catalog.StageRefinement || current == catalog.StagePrototyping) &&
			len(path) < MaxPlanLength && p.rng.Float64() < ReworkProbability {
			path = append(path, current)
		}
	}
	return path
}

// SelectNextStage picks the stage that follows current given feedback.
func (p *Planner) SelectNextStage(pr *project.Project, sessionID string, current catalog.Stage, fb Feedback) catalog.Stage {
	return p.Decide(pr, sessionID, current, fb).Next
}

// Decide is SelectNextStage with the reasoning attached.
func (p *Planner) Decide(pr *project.Project, sessionID string, current catalog.Stage, fb Feedback) Decision {
	network := catalog.NetworkOrStandard(p.SelectNetwork(pr))
	d := p.decide(network, current, fb.SatisfactionOrDefault())
	p.logger.Debug("sequencer: next stage selected",
		"session_id", sessionID,
		"network", string(d.Network),
		"current", int(current),
		"next", int(d.Next),
		"reason", string(d.Reason),
		"satisfaction", d.Satisfaction,
	)
	return d
}

// DecideOn selects the next stage on an explicit network, bypassing
// network selection. Sessions use it to stay on the network they started on.
func (p *Planner) DecideOn(name catalog.NetworkName, current catalog.Stage, fb Feedback) Decision {
	return p.decide(catalog.NetworkOrStandard(name), current, fb.SatisfactionOrDefault())
}

func (p *Planner) decide(network catalog.Network, current catalog.Stage, satisfaction float64) Decision {
	d := Decision{Current: current, Network: network.Name(), Satisfaction: satisfaction}

	possible := network.Next(current)
	if len(possible) == 0 {
		d.Next, d.Reason = FallbackStage, ReasonFallback
		return d
	}
	standardNext := possible[0]
	alternatives := without(possible, standardNext)

	switch {
	case satisfaction > HighSatisfaction:
		d.Next, d.Reason = standardNext, ReasonStandard
	case satisfaction < LowSatisfaction:
		if len(possible) > 1 && len(alternatives) > 0 && p.rng.Float64() < LowAlternativeChance {
			d.Next, d.Reason = alternatives[p.rng.IntN(len(alternatives))], ReasonAlternative
			return d
		}
		if p.rng.Float64() < LowRedoChance {
			d.Next, d.Reason = current, ReasonRedo
			return d
		}
		d.Next, d.Reason = standardNext, ReasonStandard
	default:
		if len(alternatives) > 0 && p.rng.Float64() < ModerateAlternativeChance {
			d.Next, d.Reason = alternatives[p.rng.IntN(len(alternatives))], ReasonAlternative
			return d
		}
		d.Next, d.Reason = standardNext, ReasonStandard
	}
	return d
}

func without(stages []catalog.Stage, drop catalog.Stage) []catalog.Stage {
	out := make([]catalog.Stage, 0, len(stages))
	for _, s := range stages {
		if s != drop {
			out = append(out, s)
		}
	}
	return out
}
