package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/IlumCI/HACF/internal/catalog"
	"github.com/IlumCI/HACF/internal/complexity"
	"github.com/IlumCI/HACF/internal/sequencer"
)

// ─── Sessions ────────────────────────────────────────────────────────────────

// SaveSession upserts a session and appends any visits not yet stored.
// Visits are append-only: a stored history is never rewritten.
func (s *Store) SaveSession(ctx context.Context, sess *sequencer.Session) error {
	plan, err := encodeJSON(sess.Plan)
	if err != nil {
		return fmt.Errorf("storage: encode plan: %w", err)
	}
	metadata := sess.Metadata
	if metadata == "" {
		metadata = "{}"
	}

	tx, err := s.beginTxHook(ctx)
	if err != nil {
		return fmt.Errorf("storage: save session: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := s.execHook(ctx, tx, `
		INSERT INTO sessions (id, project_id, metadata, network, complexity, plan, current_stage, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			network       = excluded.network,
			complexity    = excluded.complexity,
			plan          = excluded.plan,
			current_stage = excluded.current_stage,
			status        = excluded.status,
			updated_at    = excluded.updated_at`,
		sess.ID, sess.ProjectID, metadata, string(sess.Network), string(sess.Complexity), plan,
		int(sess.CurrentStage), string(sess.Status), formatTime(sess.CreatedAt), formatTime(sess.UpdatedAt),
	); err != nil {
		return fmt.Errorf("storage: save session %s: %w", sess.ID, err)
	}

	var stored int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM stage_visits WHERE session_id = ?`, sess.ID).Scan(&stored); err != nil {
		return fmt.Errorf("storage: count visits: %w", err)
	}
	for _, v := range sess.Visits[min(stored, len(sess.Visits)):] {
		if _, err := s.execHook(ctx, tx, `
			INSERT INTO stage_visits (session_id, stage, next_stage, reason, satisfaction, completed_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			sess.ID, int(v.Stage), int(v.Next), string(v.Reason), v.Satisfaction, formatTime(v.CompletedAt),
		); err != nil {
			return fmt.Errorf("storage: save visit: %w", err)
		}
	}

	if err := s.commitHook(tx); err != nil {
		return fmt.Errorf("storage: save session: commit: %w", err)
	}
	return nil
}

// LoadSession reads a session with its full visit history.
func (s *Store) LoadSession(ctx context.Context, id string) (*sequencer.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, metadata, network, complexity, plan, current_stage, status, created_at, updated_at
		FROM sessions WHERE id = ?`, id)

	var (
		sess                 sequencer.Session
		network, level, plan string
		status               string
		stage                int
		created, updated     string
	)
	if err := row.Scan(&sess.ID, &sess.ProjectID, &sess.Metadata, &network, &level, &plan, &stage, &status, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: session %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("storage: load session %s: %w", id, err)
	}
	sess.Network = catalog.NetworkName(network)
	sess.Complexity = complexity.Level(level)
	sess.CurrentStage = catalog.Stage(stage)
	sess.Status = sequencer.Status(status)
	if err := json.Unmarshal([]byte(plan), &sess.Plan); err != nil {
		return nil, fmt.Errorf("storage: decode plan: %w", err)
	}
	var err error
	if sess.CreatedAt, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("storage: session created_at: %w", err)
	}
	if sess.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, fmt.Errorf("storage: session updated_at: %w", err)
	}

	visits, err := s.visits(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.Visits = visits
	return &sess, nil
}

func (s *Store) visits(ctx context.Context, sessionID string) ([]sequencer.Visit, error) {
	rows, err := s.queryItHook(ctx, s.db, `
		SELECT stage, next_stage, reason, satisfaction, completed_at
		FROM stage_visits WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("storage: list visits: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []sequencer.Visit{}
	for rows.Next() {
		var (
			v           sequencer.Visit
			stage, next int
			reason, at  string
		)
		if err := rows.Scan(&stage, &next, &reason, &v.Satisfaction, &at); err != nil {
			return nil, err
		}
		v.Stage = catalog.Stage(stage)
		v.Next = catalog.Stage(next)
		v.Reason = sequencer.Reason(reason)
		if v.CompletedAt, err = parseTime(at); err != nil {
			return nil, fmt.Errorf("storage: visit completed_at: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// SessionSummary is a compact view of a session.
type SessionSummary struct {
	ID           string              `json:"id"`
	ProjectID    string              `json:"project_id"`
	Network      catalog.NetworkName `json:"network"`
	CurrentStage catalog.Stage       `json:"current_stage"`
	Status       sequencer.Status    `json:"status"`
	Visits       int                 `json:"visits"`
	UpdatedAt    string              `json:"updated_at"`
}

// RecentSessions returns the most recently updated sessions, optionally
// filtered by status.
func (s *Store) RecentSessions(ctx context.Context, status sequencer.Status, limit int) ([]SessionSummary, error) {
	if limit <= 0 || limit > s.cfg.MaxSessions {
		limit = s.cfg.MaxSessions
	}

	query := `
		SELECT s.id, s.project_id, s.network, s.current_stage, s.status, COUNT(v.id), s.updated_at
		FROM sessions s
		LEFT JOIN stage_visits v ON v.session_id = s.id
		WHERE 1=1
	`
	args := []any{}
	if status != "" {
		query += " AND s.status = ?"
		args = append(args, string(status))
	}
	query += " GROUP BY s.id ORDER BY s.updated_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.queryItHook(ctx, s.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: recent sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []SessionSummary
	for rows.Next() {
		var (
			ss             SessionSummary
			network, state string
			stage          int
		)
		if err := rows.Scan(&ss.ID, &ss.ProjectID, &network, &stage, &state, &ss.Visits, &ss.UpdatedAt); err != nil {
			return nil, err
		}
		ss.Network = catalog.NetworkName(network)
		ss.CurrentStage = catalog.Stage(stage)
		ss.Status = sequencer.Status(state)
		results = append(results, ss)
	}
	return results, rows.Err()
}
