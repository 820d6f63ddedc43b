// Package checkpoint models the points in a stage where a human reviews,
// guides, corrects, extends or decides on the generated output, and turns
// their feedback into the satisfaction signal the sequencer adapts to.
package checkpoint

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/IlumCI/HACF/internal/catalog"
)

// ErrUnknownCheckpoint is returned when a checkpoint ID does not resolve.
var ErrUnknownCheckpoint = errors.New("checkpoint: unknown checkpoint")

// ErrResolved is returned when a checkpoint is no longer pending.
var ErrResolved = errors.New("checkpoint: already resolved")

// --- Type enum ---

// Type is the kind of human intervention.
type Type string

const (
	TypeReview     Type = "review"
	TypeGuidance   Type = "guidance"
	TypeCorrection Type = "correction"
	TypeExtension  Type = "extension"
	TypeDecision   Type = "decision"
)

type typeInfo struct {
	description string
	minutes     int
}

var types = map[Type]typeInfo{
	TypeReview:     {"Human reviews AI output and provides feedback", 15},
	TypeGuidance:   {"Human provides specific direction before AI processing", 10},
	TypeCorrection: {"Human corrects specific aspects of AI output", 20},
	TypeExtension:  {"Human extends AI output with additional insights", 25},
	TypeDecision:   {"Human makes a key decision among AI-generated alternatives", 15},
}

// ValidateType returns an error if the checkpoint type is not recognized.
func ValidateType(t Type) error {
	if _, ok := types[t]; !ok {
		return fmt.Errorf("invalid checkpoint type %q: must be one of: review, guidance, correction, extension, decision", t)
	}
	return nil
}

// Description returns the one-line description of a checkpoint type.
func (t Type) Description() string { return types[t].description }

// AverageMinutes is the typical human time a checkpoint of this type takes.
func (t Type) AverageMinutes() int { return types[t].minutes }

// --- Position enum ---

// Position places a checkpoint relative to the stage's generation.
type Position string

const (
	PositionBefore Position = "before"
	PositionDuring Position = "during"
	PositionAfter  Position = "after"
)

// --- Status enum ---

// Status is the lifecycle state of a checkpoint.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusSkipped   Status = "skipped"
)

// ValidateStatus returns an error if the status is not recognized.
func ValidateStatus(s Status) error {
	switch s {
	case StatusPending, StatusCompleted, StatusSkipped:
		return nil
	}
	return fmt.Errorf("invalid checkpoint status %q: must be one of: pending, completed, skipped", s)
}

// Definition is a checkpoint template for a stage.
type Definition struct {
	Type           Type     `json:"type" yaml:"type"`
	Name           string   `json:"name" yaml:"name"`
	Description    string   `json:"description" yaml:"description"`
	RequiredSkills []string `json:"required_skills" yaml:"required_skills"`
	Position       Position `json:"position" yaml:"position"`
	Optional       bool     `json:"optional" yaml:"optional"`
}

// Checkpoint is a definition opened for a session.
type Checkpoint struct {
	ID             string         `json:"id" yaml:"id"`
	SessionID      string         `json:"session_id" yaml:"session_id"`
	Stage          catalog.Stage  `json:"stage" yaml:"stage"`
	Type           Type           `json:"type" yaml:"type"`
	Name           string         `json:"name" yaml:"name"`
	Description    string         `json:"description" yaml:"description"`
	Position       Position       `json:"position" yaml:"position"`
	RequiredSkills []string       `json:"required_skills" yaml:"required_skills"`
	Optional       bool           `json:"optional" yaml:"optional"`
	Status         Status         `json:"status" yaml:"status"`
	CreatedAt      time.Time      `json:"created_at" yaml:"created_at"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	Feedback       *HumanFeedback `json:"feedback,omitempty" yaml:"feedback,omitempty"`
}

// New opens a pending checkpoint. Unknown types become reviews and an
// empty position means after.
func New(sessionID string, stage catalog.Stage, def Definition) Checkpoint {
	typ := def.Type
	if ValidateType(typ) != nil {
		typ = TypeReview
	}
	pos := def.Position
	if pos == "" {
		pos = PositionAfter
	}
	return Checkpoint{
		ID:             "cp-" + uuid.NewString(),
		SessionID:      sessionID,
		Stage:          stage,
		Type:           typ,
		Name:           def.Name,
		Description:    def.Description,
		Position:       pos,
		RequiredSkills: append([]string{}, def.RequiredSkills...),
		Optional:       def.Optional,
		Status:         StatusPending,
		CreatedAt:      timeNow().UTC(),
	}
}

// Complete resolves a pending checkpoint with the human's feedback.
func Complete(cp *Checkpoint, fb HumanFeedback) error {
	if cp.Status != StatusPending {
		return fmt.Errorf("%w: %s is %s", ErrResolved, cp.ID, cp.Status)
	}
	if err := fb.Validate(); err != nil {
		return err
	}
	at := timeNow().UTC()
	cp.Status = StatusCompleted
	cp.CompletedAt = &at
	cp.Feedback = &fb
	return nil
}

// Skip resolves a pending checkpoint without feedback. Required
// checkpoints cannot be skipped.
func Skip(cp *Checkpoint) error {
	if cp.Status != StatusPending {
		return fmt.Errorf("%w: %s is %s", ErrResolved, cp.ID, cp.Status)
	}
	if !cp.Optional {
		return fmt.Errorf("checkpoint: %q is required and cannot be skipped", cp.Name)
	}
	cp.Status = StatusSkipped
	return nil
}

// ForStage returns the stage's default checkpoints followed by any the
// industry adds for it. Stages outside the catalog have none.
func ForStage(stage catalog.Stage, industry string) []Definition {
	var out []Definition
	for _, def := range stageDefaults[stage] {
		out = append(out, def.clone())
	}
	for _, extra := range industryExtras[industry] {
		if extra.stage == stage {
			out = append(out, extra.def.clone())
		}
	}
	return out
}

func (d Definition) clone() Definition {
	d.RequiredSkills = slices.Clone(d.RequiredSkills)
	return d
}
