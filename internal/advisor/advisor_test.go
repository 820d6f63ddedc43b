package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/IlumCI/HACF/internal/catalog"
	"github.com/IlumCI/HACF/internal/complexity"
	"github.com/IlumCI/HACF/internal/project"
)

func profile(level complexity.Level, industry string) complexity.Profile {
	return complexity.Profile{Overall: level, Industry: industry}
}

func TestForProfile(t *testing.T) {
	tests := []struct {
		name    string
		profile complexity.Profile
		stage   catalog.Stage
		want    Parameters
	}{
		{
			name:    "medium preset",
			profile: profile(complexity.Medium, "technology"),
			stage:   3,
			want: Parameters{
				MaxTokens:   6000,
				Temperature: 0.4,
				Depth:       DepthStandard,
				FocusAreas:  []string{"code_generation", "implementation", "apis"},
			},
		},
		{
			name:    "low scales down and warms up",
			profile: profile(complexity.Low, "technology"),
			stage:   1,
			want: Parameters{
				MaxTokens:   2400,
				Temperature: 0.9,
				Depth:       DepthBasic,
				FocusAreas:  []string{"requirements", "constraints", "user_stories"},
			},
		},
		{
			name:    "high finance testing",
			profile: profile(complexity.High, "finance"),
			stage:   4,
			want: Parameters{
				MaxTokens:   15000,
				Temperature: 0.2,
				Depth:       DepthComprehensive,
				FocusAreas: []string{
					"performance", "security", "debugging",
					"financial_regulations", "transaction_security",
				},
			},
		},
		{
			name:    "education documentation",
			profile: profile(complexity.Medium, "education"),
			stage:   5,
			want: Parameters{
				MaxTokens:   6800,
				Temperature: 0.5,
				Depth:       DepthStandard,
				FocusAreas:  []string{"documentation", "user_guide", "deployment", "accessibility", "learning_outcomes"},
			},
		},
		{
			name:    "stage without preset",
			profile: profile(complexity.Medium, "finance"),
			stage:   7,
			want: Parameters{
				MaxTokens:   4000,
				Temperature: 0.7,
				Depth:       DepthStandard,
				FocusAreas:  []string{},
			},
		},
		{
			name:    "unknown level",
			profile: profile("extreme", "finance"),
			stage:   3,
			want:    Defaults(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ForProfile(tt.profile, tt.stage)
			assert.Equal(t, tt.want.MaxTokens, got.MaxTokens)
			assert.InDelta(t, tt.want.Temperature, got.Temperature, 1e-9)
			assert.Equal(t, tt.want.Depth, got.Depth)
			assert.Equal(t, tt.want.FocusAreas, got.FocusAreas)
		})
	}
}

func TestForProfile_DoesNotShareFocusAreas(t *testing.T) {
	first := ForProfile(profile(complexity.Medium, "healthcare"), 4)
	first.FocusAreas[0] = "changed"

	second := ForProfile(profile(complexity.Medium, "healthcare"), 4)
	assert.Equal(t, "performance", second.FocusAreas[0])
}

func TestClamp(t *testing.T) {
	assert.Equal(t, MinTemperature, clamp(-1, MinTemperature, MaxTemperature))
	assert.Equal(t, MaxTemperature, clamp(1.4, MinTemperature, MaxTemperature))
	assert.Equal(t, 0.5, clamp(0.5, MinTemperature, MaxTemperature))
}

func TestAdvisor_Parameters(t *testing.T) {
	a := New()

	// Unreadable metadata scores as medium technology.
	got := a.Parameters(project.FromJSON("p", "{bad"), 3)
	assert.Equal(t, 6000, got.MaxTokens)
	assert.Equal(t, DepthStandard, got.Depth)

	// An empty project is low complexity.
	got = a.Parameters(project.New("p", nil), 3)
	assert.Equal(t, 4800, got.MaxTokens)
	assert.Equal(t, DepthBasic, got.Depth)
}
