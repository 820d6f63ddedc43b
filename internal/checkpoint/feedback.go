package checkpoint

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/IlumCI/HACF/internal/sequencer"
)

// DefaultRating applies when the human gives no rating.
const DefaultRating = 3

var validate = validator.New()

// HumanFeedback is what a person returns at a checkpoint.
type HumanFeedback struct {
	Rating              *int              `json:"rating,omitempty" yaml:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comments            string            `json:"comments,omitempty" yaml:"comments,omitempty"`
	Suggestions         []string          `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	SpecificCorrections map[string]string `json:"specific_corrections,omitempty" yaml:"specific_corrections,omitempty"`
}

// Validate checks the rating is on the 1..5 scale when present.
func (f HumanFeedback) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("checkpoint: invalid feedback: %w", err)
	}
	return nil
}

// RatingOrDefault returns the rating, DefaultRating when absent.
func (f HumanFeedback) RatingOrDefault() int {
	if f.Rating == nil {
		return DefaultRating
	}
	return *f.Rating
}

// Impact is how strongly feedback should steer the following stages.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// Processed is feedback reduced to a satisfaction score and the areas the
// next stages should adjust.
type Processed struct {
	CheckpointID    string    `json:"checkpoint_id" yaml:"checkpoint_id"`
	Satisfaction    float64   `json:"satisfaction" yaml:"satisfaction"`
	Impact          Impact    `json:"impact_level" yaml:"impact_level"`
	AdjustmentAreas []string  `json:"adjustment_areas" yaml:"adjustment_areas"`
	ProcessedAt     time.Time `json:"processed_at" yaml:"processed_at"`

	fb HumanFeedback
}

var commentTriggers = []string{"improve", "enhance", "add"}

// ProcessFeedback scores feedback as rating/5 and collects adjustment
// areas: suggestions, then corrections sorted by area, then a general
// entry when the comments ask for improvements.
func ProcessFeedback(checkpointID string, fb HumanFeedback) (Processed, error) {
	if err := fb.Validate(); err != nil {
		return Processed{}, err
	}
	satisfaction := float64(fb.RatingOrDefault()) / 5.0

	impact := ImpactLow
	switch {
	case satisfaction < 0.4:
		impact = ImpactHigh
	case satisfaction < 0.7:
		impact = ImpactMedium
	}

	areas := append([]string{}, fb.Suggestions...)
	keys := make([]string, 0, len(fb.SpecificCorrections))
	for k := range fb.SpecificCorrections {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		areas = append(areas, k+": "+fb.SpecificCorrections[k])
	}
	comments := strings.ToLower(fb.Comments)
	for _, trigger := range commentTriggers {
		if strings.Contains(comments, trigger) {
			areas = append(areas, "General improvements based on comments")
			break
		}
	}

	return Processed{
		CheckpointID:    checkpointID,
		Satisfaction:    satisfaction,
		Impact:          impact,
		AdjustmentAreas: areas,
		ProcessedAt:     timeNow().UTC(),
		fb:              fb,
	}, nil
}

// Feedback converts processed feedback into the sequencer's input.
func (p Processed) Feedback() sequencer.Feedback {
	out := sequencer.WithSatisfaction(p.Satisfaction)
	out.Comments = p.fb.Comments
	out.Suggestions = append([]string(nil), p.fb.Suggestions...)
	if len(p.fb.SpecificCorrections) > 0 {
		out.SpecificCorrections = make(map[string]string, len(p.fb.SpecificCorrections))
		for k, v := range p.fb.SpecificCorrections {
			out.SpecificCorrections[k] = v
		}
	}
	return out
}
