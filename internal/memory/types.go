// Package memory is the cross-stage memory of a HACF session.
//
// Stages leave typed notes (decisions, constraints, errors, ...) that
// later stages retrieve ranked by relevance to the stage asking. Retrieval
// is not a pure read: every returned record has its usage count bumped and
// its last-access time stamped.
//
// The Store holds no records itself. It ranks what a Repository returns;
// MemRepository keeps records in process and the storage package keeps
// them in SQLite.
package memory

import (
	"fmt"
	"time"

	"github.com/IlumCI/HACF/internal/catalog"
)

// --- Memory type enum ---

// Type classifies a memory record.
type Type string

const (
	TypeDecision   Type = "decision"
	TypeConstraint Type = "constraint"
	TypeInsight    Type = "insight"
	TypeError      Type = "error"
	TypePreference Type = "preference"
	TypeContext    Type = "context"
	TypeArtifact   Type = "artifact"
)

// --- Priority enum ---

// Priority ranks a memory record. It is always derived from the Type.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// typePriorities is the only source of a record's priority.
var typePriorities = map[Type]Priority{
	TypeDecision:   PriorityHigh,
	TypeConstraint: PriorityCritical,
	TypeInsight:    PriorityMedium,
	TypeError:      PriorityHigh,
	TypePreference: PriorityMedium,
	TypeContext:    PriorityLow,
	TypeArtifact:   PriorityMedium,
}

var priorityWeights = map[Priority]float64{
	PriorityCritical: 1.0,
	PriorityHigh:     0.8,
	PriorityMedium:   0.5,
	PriorityLow:      0.3,
}

// defaultPriorityWeight applies to priorities outside the table.
const defaultPriorityWeight = 0.5

// Types lists every memory type in declaration order.
func Types() []Type {
	return []Type{TypeDecision, TypeConstraint, TypeInsight, TypeError, TypePreference, TypeContext, TypeArtifact}
}

// ValidateType returns an error if the type is not recognized.
func ValidateType(t Type) error {
	if _, ok := typePriorities[t]; !ok {
		return fmt.Errorf("invalid memory type %q: must be one of: decision, constraint, insight, error, preference, context, artifact", t)
	}
	return nil
}

// NormalizeType maps unknown types to context.
func NormalizeType(t Type) Type {
	if _, ok := typePriorities[t]; ok {
		return t
	}
	return TypeContext
}

// PriorityFor returns the priority of a memory type. Unknown types get
// the priority of context.
func PriorityFor(t Type) Priority {
	return typePriorities[NormalizeType(t)]
}

// PriorityWeight returns the ranking weight of a priority.
func PriorityWeight(p Priority) float64 {
	if w, ok := priorityWeights[p]; ok {
		return w
	}
	return defaultPriorityWeight
}

// Record is one memory entry.
type Record struct {
	ID           string         `json:"id" yaml:"id"`
	SessionID    string         `json:"session_id" yaml:"session_id"`
	SourceStage  catalog.Stage  `json:"source_stage" yaml:"source_stage"`
	Type         Type           `json:"type" yaml:"type"`
	Priority     Priority       `json:"priority" yaml:"priority"`
	Content      string         `json:"content" yaml:"content"`
	Metadata     map[string]any `json:"metadata" yaml:"metadata"`
	UsageCount   int            `json:"usage_count" yaml:"usage_count"`
	CreatedAt    time.Time      `json:"created_at" yaml:"created_at"`
	LastAccessed *time.Time     `json:"last_accessed,omitempty" yaml:"last_accessed,omitempty"`
}

// Clone returns a copy that shares no mutable state with r.
func (r Record) Clone() Record {
	if r.Metadata != nil {
		md := make(map[string]any, len(r.Metadata))
		for k, v := range r.Metadata {
			md[k] = v
		}
		r.Metadata = md
	}
	if r.LastAccessed != nil {
		t := *r.LastAccessed
		r.LastAccessed = &t
	}
	return r
}

// QueryOptions selects and ranks records for a stage.
type QueryOptions struct {
	SessionID    string        `json:"session_id" validate:"required"`
	CurrentStage catalog.Stage `json:"current_stage"`
	Keywords     []string      `json:"keywords,omitempty"`
	Types        []Type        `json:"types,omitempty"`
	Limit        int           `json:"limit,omitempty" validate:"gte=0"`
}

// Summary groups a stage's most relevant constraints, decisions and errors
// as bulleted lists.
type Summary struct {
	Constraints string `json:"constraints" yaml:"constraints"`
	Decisions   string `json:"decisions" yaml:"decisions"`
	Errors      string `json:"errors" yaml:"errors"`
	Count       int    `json:"count" yaml:"count"`
}
