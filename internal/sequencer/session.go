package sequencer

import (
	"fmt"
	"time"

	"github.com/IlumCI/HACF/internal/catalog"
	"github.com/IlumCI/HACF/internal/complexity"
	"github.com/IlumCI/HACF/internal/project"
)

// --- Session status enum ---

// Status is the lifecycle state of a session. The engine never ends a
// session on its own; callers move it out of active.
type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// statusTransitions lists the statuses reachable from each status.
var statusTransitions = map[Status][]Status{
	StatusActive: {StatusPaused, StatusCompleted, StatusFailed},
	StatusPaused: {StatusActive, StatusFailed},
}

// ValidateStatus returns an error if the status is not recognized.
func ValidateStatus(s Status) error {
	switch s {
	case StatusActive, StatusPaused, StatusCompleted, StatusFailed:
		return nil
	}
	return fmt.Errorf("invalid session status %q: must be one of: active, paused, completed, failed", s)
}

// Visit records one stage completion.
type Visit struct {
	Stage        catalog.Stage `json:"stage" yaml:"stage"`
	Next         catalog.Stage `json:"next" yaml:"next"`
	Reason       Reason        `json:"reason" yaml:"reason"`
	Satisfaction float64       `json:"satisfaction" yaml:"satisfaction"`
	CompletedAt  time.Time     `json:"completed_at" yaml:"completed_at"`
}

// Session tracks one project's walk through its network. It occupies
// exactly one stage at a time.
type Session struct {
	ID           string              `json:"id" yaml:"id"`
	ProjectID    string              `json:"project_id" yaml:"project_id"`
	Metadata     string              `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Network      catalog.NetworkName `json:"network" yaml:"network"`
	Complexity   complexity.Level    `json:"complexity" yaml:"complexity"`
	Plan         []catalog.Stage     `json:"plan" yaml:"plan"`
	CurrentStage catalog.Stage       `json:"current_stage" yaml:"current_stage"`
	Status       Status              `json:"status" yaml:"status"`
	Visits       []Visit             `json:"visits" yaml:"visits"`
	CreatedAt    time.Time           `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at" yaml:"updated_at"`
}

// NewSession starts an active session at the first stage of the plan.
func NewSession(id string, pr *project.Project, plan Plan) *Session {
	now := timeNow().UTC()
	start := StartStage
	if len(plan.Stages) > 0 {
		start = plan.Stages[0]
	}
	s := &Session{
		ID:           id,
		Network:      plan.Network,
		Complexity:   plan.Complexity.Overall,
		Plan:         append([]catalog.Stage(nil), plan.Stages...),
		CurrentStage: start,
		Status:       StatusActive,
		Visits:       []Visit{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if pr != nil {
		s.ProjectID = pr.ID
		s.Metadata = pr.Encode()
	}
	return s
}

// Project rebuilds the session's project from its stored metadata.
func (s *Session) Project() *project.Project {
	return project.FromJSON(s.ProjectID, s.Metadata)
}

// --- State machine ---

// CanMoveTo checks whether the session may move from its current stage to
// next: an edge of its network, a redo of the current stage, or one of the
// two fallbacks for stages without edges (linear +1 below stage 5, and
// stage 5 itself).
func CanMoveTo(s *Session, next catalog.Stage) error {
	if s.Status != StatusActive {
		return fmt.Errorf("session %q is not active (status: %s)", s.ID, s.Status)
	}
	if err := catalog.ValidateStage(next); err != nil {
		return err
	}
	if next == s.CurrentStage {
		return nil
	}

	network := catalog.NetworkOrStandard(s.Network)
	edges := network.Next(s.CurrentStage)
	if len(edges) == 0 {
		if next == FallbackStage || (s.CurrentStage < TargetStage && next == s.CurrentStage+1) {
			return nil
		}
		return fmt.Errorf("stage %d has no transitions in network %q: only stage %d is reachable",
			s.CurrentStage, network.Name(), FallbackStage)
	}
	if !network.Allows(s.CurrentStage, next) {
		return fmt.Errorf("network %q does not allow %d -> %d (allowed: %v)",
			network.Name(), s.CurrentStage, next, edges)
	}
	return nil
}

// Advance records completion of the current stage and moves the session
// to d.Next.
func Advance(s *Session, d Decision) error {
	if err := CanMoveTo(s, d.Next); err != nil {
		return err
	}
	now := timeNow().UTC()
	s.Visits = append(s.Visits, Visit{
		Stage:        s.CurrentStage,
		Next:         d.Next,
		Reason:       d.Reason,
		Satisfaction: d.Satisfaction,
		CompletedAt:  now,
	})
	s.CurrentStage = d.Next
	s.UpdatedAt = now
	return nil
}

// SetStatus moves the session to a new lifecycle status.
func SetStatus(s *Session, to Status) error {
	if err := ValidateStatus(to); err != nil {
		return err
	}
	if s.Status == to {
		return nil
	}
	for _, allowed := range statusTransitions[s.Status] {
		if allowed == to {
			s.Status = to
			s.UpdatedAt = timeNow().UTC()
			return nil
		}
	}
	return fmt.Errorf("session %q cannot move from %s to %s", s.ID, s.Status, to)
}
