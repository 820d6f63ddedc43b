package complexity

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IlumCI/HACF/internal/project"
)

func TestFactorWeightsSumToOne(t *testing.T) {
	var total float64
	for _, f := range Factors() {
		total += FactorWeight(f)
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestValidateLevel(t *testing.T) {
	for _, l := range []Level{Low, Medium, High} {
		assert.NoError(t, ValidateLevel(l))
	}
	assert.Error(t, ValidateLevel("extreme"))
	assert.Zero(t, Level("extreme").Score())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		score float64
		want  Level
	}{
		{1.0, Low},
		{1.66, Low},
		{1.67, Medium},
		{2.0, Medium},
		{2.33, Medium},
		{2.34, High},
		{3.0, High},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.score), "score %v", tt.score)
	}
}

func TestDomainLevel(t *testing.T) {
	assert.Equal(t, Low, DomainLevel("landing_page"))
	assert.Equal(t, Medium, DomainLevel("e_commerce"))
	assert.Equal(t, High, DomainLevel("financial_system"))
	assert.Equal(t, Medium, DomainLevel("underwater_basket_weaving"))
}

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		md       project.Metadata
		overall  Level
		score    float64
		industry string
	}{
		{
			name:     "defaults",
			md:       project.Metadata{},
			overall:  Low,
			score:    1.6,
			industry: project.DefaultIndustry,
		},
		{
			name: "medium",
			md: project.Metadata{
				"domain":              "e_commerce",
				"industry":            "education",
				"estimated_code_size": 3000,
				"features":            []any{"a", "b", "c", "d", "e"},
				"integrations":        []any{"x", "y"},
			},
			overall:  Medium,
			score:    2.0,
			industry: "education",
		},
		{
			name: "high",
			md: project.Metadata{
				"domain":              "financial_system",
				"industry":            "finance",
				"estimated_code_size": "20000",
				"features":            []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"},
				"integrations":        []any{"a", "b", "c", "d", "e"},
			},
			overall:  High,
			score:    3.0,
			industry: "finance",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewScorer().Score(project.New("p", tt.md))
			assert.Equal(t, tt.overall, p.Overall)
			assert.InDelta(t, tt.score, p.Score, 1e-9)
			assert.Equal(t, tt.industry, p.Industry)
			assert.Len(t, p.Factors, 4)
		})
	}
}

func TestScore_FactorBuckets(t *testing.T) {
	p := NewScorer().ScoreMetadata(project.Metadata{
		"domain":              "portfolio",
		"estimated_code_size": 999,
		"features":            []any{"a", "b", "c"},
		"integrations":        []any{"a", "b", "c"},
	})

	assert.Equal(t, Low, p.Factors[FactorCodeSize])
	assert.Equal(t, Low, p.Factors[FactorDomain])
	assert.Equal(t, Medium, p.Factors[FactorFeatureCount])
	assert.Equal(t, High, p.Factors[FactorIntegrationCount])
}

func TestScore_MalformedMetadata(t *testing.T) {
	tests := []struct {
		name string
		p    *project.Project
		warn string
	}{
		{"unreadable json", project.FromJSON("p", "{oops"), "unreadable project metadata"},
		{"code size", project.New("p", project.Metadata{"estimated_code_size": "huge"}), "estimated_code_size"},
		{"features", project.New("p", project.Metadata{"features": "many"}), "features is not a list"},
		{"integrations", project.New("p", project.Metadata{"integrations": 3}), "integrations is not a list"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			s := NewScorer(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

			got := s.Score(tt.p)
			assert.Equal(t, DefaultProfile(), got)
			assert.Contains(t, buf.String(), tt.warn)
		})
	}
}

func TestScore_NilProject(t *testing.T) {
	assert.Equal(t, DefaultProfile(), NewScorer().Score(nil))
}

func TestWithLogger_NilIgnored(t *testing.T) {
	s := NewScorer(WithLogger(nil))
	require.NotNil(t, s.logger)
}

func TestScore_HealthcareAppIsHigh(t *testing.T) {
	p := NewScorer().ScoreMetadata(project.Metadata{
		"domain":              "healthcare_app",
		"industry":            "healthcare",
		"estimated_code_size": 22000,
		"features":            []any{1, 2, 3, 4, 5, 6, 7, 8, 9},
		"integrations":        []any{"ehr", "lab", "billing", "sso"},
	})
	assert.Equal(t, High, p.Overall)
	assert.Equal(t, "healthcare", p.Industry)
}

func TestOverall_MonotonicInEachFactor(t *testing.T) {
	levels := []Level{Low, Medium, High}
	factors := Factors()

	// Every combination of factor levels.
	combos := []map[Factor]Level{{}}
	for _, f := range factors {
		var next []map[Factor]Level
		for _, c := range combos {
			for _, l := range levels {
				m := make(map[Factor]Level, len(factors))
				for k, v := range c {
					m[k] = v
				}
				m[f] = l
				next = append(next, m)
			}
		}
		combos = next
	}
	require.Len(t, combos, 81)

	for _, c := range combos {
		before := Classify(Combine(c))
		for _, f := range factors {
			if c[f] == High {
				continue
			}
			raised := make(map[Factor]Level, len(c))
			for k, v := range c {
				raised[k] = v
			}
			raised[f] = levels[int(c[f].Score())]

			after := Classify(Combine(raised))
			assert.GreaterOrEqual(t, after.Score(), before.Score(),
				"raising %s from %s in %v lowered overall %s -> %s", f, c[f], c, before, after)
		}
	}
}
