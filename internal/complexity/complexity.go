// Package complexity converts project metadata into a weighted complexity
// profile.
//
// Four factors are bucketed into low/medium/high, mapped to 1/2/3 and
// combined with fixed weights. The overall level drives planning depth,
// rework loops and execution budgets downstream.
package complexity

import (
	"fmt"
	"log/slog"

	"github.com/IlumCI/HACF/internal/logging"
	"github.com/IlumCI/HACF/internal/project"
)

// --- Level enum ---

// Level is a three-step complexity bucket.
type Level string

const (
	Low    Level = "low"
	Medium Level = "medium"
	High   Level = "high"
)

var levelScores = map[Level]float64{
	Low:    1,
	Medium: 2,
	High:   3,
}

// ValidateLevel returns an error if the level is not recognized.
func ValidateLevel(l Level) error {
	if _, ok := levelScores[l]; !ok {
		return fmt.Errorf("invalid complexity level %q: must be one of: low, medium, high", l)
	}
	return nil
}

// Score returns the numeric value of the level (1..3), 0 if unknown.
func (l Level) Score() float64 { return levelScores[l] }

// --- Factor enum ---

// Factor names one input to the complexity score.
type Factor string

const (
	FactorCodeSize         Factor = "code_size"
	FactorDomain           Factor = "domain_complexity"
	FactorFeatureCount     Factor = "feature_count"
	FactorIntegrationCount Factor = "integration_count"
)

// factorWeights sum to 1.0.
var factorWeights = map[Factor]float64{
	FactorCodeSize:         0.25,
	FactorDomain:           0.35,
	FactorFeatureCount:     0.2,
	FactorIntegrationCount: 0.2,
}

// Factors lists the factors in scoring order.
func Factors() []Factor {
	return []Factor{FactorCodeSize, FactorDomain, FactorFeatureCount, FactorIntegrationCount}
}

// FactorWeight returns the fixed weight of a factor.
func FactorWeight(f Factor) float64 { return factorWeights[f] }

// Classification thresholds on the weighted score.
const (
	LowThreshold  = 1.67
	HighThreshold = 2.33
)

// threshold buckets a count: below low is Low, below medium is Medium.
type threshold struct{ low, medium float64 }

var (
	codeSizeThreshold    = threshold{low: 1000, medium: 5000}
	featureThreshold     = threshold{low: 3, medium: 8}
	integrationThreshold = threshold{low: 1, medium: 3}
)

func (t threshold) bucket(v float64) Level {
	switch {
	case v < t.low:
		return Low
	case v < t.medium:
		return Medium
	default:
		return High
	}
}

// domainLevels classifies known project domains. Unlisted domains are medium.
var domainLevels = map[string]Level{
	"landing_page": Low,
	"portfolio":    Low,
	"simple_blog":  Low,

	"e_commerce":         Medium,
	"content_management": Medium,
	"data_visualization": Medium,

	"financial_system":  High,
	"healthcare_app":    High,
	"ai_system":         High,
	"security_critical": High,
}

// DomainLevel returns the complexity of a project domain.
func DomainLevel(domain string) Level {
	if l, ok := domainLevels[domain]; ok {
		return l
	}
	return Medium
}

// Profile is the classified complexity of a project.
type Profile struct {
	Overall  Level            `json:"overall" yaml:"overall"`
	Factors  map[Factor]Level `json:"factors" yaml:"factors"`
	Score    float64          `json:"score" yaml:"score"`
	Industry string           `json:"industry" yaml:"industry"`
}

// DefaultProfile is returned whenever metadata cannot be read.
func DefaultProfile() Profile {
	return Profile{
		Overall:  Medium,
		Factors:  map[Factor]Level{},
		Industry: project.DefaultIndustry,
	}
}

// Classify maps a weighted score onto a level.
func Classify(score float64) Level {
	switch {
	case score < LowThreshold:
		return Low
	case score > HighThreshold:
		return High
	default:
		return Medium
	}
}

// Combine computes the weighted score of a factor set.
func Combine(factors map[Factor]Level) float64 {
	var total float64
	for _, f := range Factors() {
		if l, ok := factors[f]; ok {
			total += l.Score() * factorWeights[f]
		}
	}
	return total
}

// Scorer computes complexity profiles.
type Scorer struct {
	logger *slog.Logger
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithLogger sets the logger used to report malformed metadata.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scorer) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewScorer creates a Scorer.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{logger: logging.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score classifies a project. Missing fields take the documented defaults;
// unreadable metadata yields DefaultProfile.
func (s *Scorer) Score(p *project.Project) Profile {
	md, ok := p.Metadata()
	if !ok {
		s.logger.Warn("complexity: unreadable project metadata, using default profile")
		return DefaultProfile()
	}
	profile, ok := s.fromMetadata(md)
	if !ok {
		return DefaultProfile()
	}
	return profile
}

// ScoreMetadata classifies already-decoded metadata.
func (s *Scorer) ScoreMetadata(md project.Metadata) Profile {
	profile, ok := s.fromMetadata(md)
	if !ok {
		return DefaultProfile()
	}
	return profile
}

func (s *Scorer) fromMetadata(md project.Metadata) (Profile, bool) {
	codeSize, present, valid := md.Number(project.KeyCodeSize)
	if !valid {
		s.logger.Warn("complexity: estimated_code_size is not a number", "value", md[project.KeyCodeSize])
		return Profile{}, false
	}
	if !present {
		codeSize = project.DefaultCodeSize
	}

	features, valid := md.Count(project.KeyFeatures)
	if !valid {
		s.logger.Warn("complexity: features is not a list")
		return Profile{}, false
	}
	integrations, valid := md.Count(project.KeyIntegrations)
	if !valid {
		s.logger.Warn("complexity: integrations is not a list")
		return Profile{}, false
	}

	factors := map[Factor]Level{
		FactorCodeSize:         codeSizeThreshold.bucket(codeSize),
		FactorDomain:           DomainLevel(md.Domain()),
		FactorFeatureCount:     featureThreshold.bucket(float64(features)),
		FactorIntegrationCount: integrationThreshold.bucket(float64(integrations)),
	}
	score := Combine(factors)

	return Profile{
		Overall:  Classify(score),
		Factors:  factors,
		Score:    score,
		Industry: md.Industry(),
	}, true
}
