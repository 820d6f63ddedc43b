package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IlumCI/HACF/internal/catalog"
	"github.com/IlumCI/HACF/internal/checkpoint"
)

// ─── Checkpoints ─────────────────────────────────────────────────────────────

const checkpointColumns = `id, session_id, stage, type, name, description, position, required_skills,
	optional, status, created_at, completed_at, feedback`

// SaveCheckpoint inserts a checkpoint or updates its resolution.
func (s *Store) SaveCheckpoint(ctx context.Context, cp checkpoint.Checkpoint) error {
	skills := cp.RequiredSkills
	if skills == nil {
		skills = []string{}
	}
	encodedSkills, err := encodeJSON(skills)
	if err != nil {
		return fmt.Errorf("storage: encode skills: %w", err)
	}
	var feedback *string
	if cp.Feedback != nil {
		v, err := encodeJSON(cp.Feedback)
		if err != nil {
			return fmt.Errorf("storage: encode feedback: %w", err)
		}
		feedback = &v
	}

	_, err = s.execHook(ctx, s.db, `
		INSERT INTO checkpoints (`+checkpointColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status       = excluded.status,
			completed_at = excluded.completed_at,
			feedback     = excluded.feedback`,
		cp.ID, cp.SessionID, int(cp.Stage), string(cp.Type), cp.Name, cp.Description, string(cp.Position),
		encodedSkills, boolInt(cp.Optional), string(cp.Status), formatTime(cp.CreatedAt),
		formatNullableTime(cp.CompletedAt), feedback,
	)
	if err != nil {
		return fmt.Errorf("storage: save checkpoint %s: %w", cp.ID, err)
	}
	return nil
}

// LoadCheckpoint reads one checkpoint. A missing ID matches both
// ErrNotFound and checkpoint.ErrUnknownCheckpoint.
func (s *Store) LoadCheckpoint(ctx context.Context, id string) (checkpoint.Checkpoint, error) {
	rows, err := s.queryItHook(ctx, s.db, `SELECT `+checkpointColumns+` FROM checkpoints WHERE id = ?`, id)
	if err != nil {
		return checkpoint.Checkpoint{}, fmt.Errorf("storage: load checkpoint %s: %w", id, err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return checkpoint.Checkpoint{}, fmt.Errorf("storage: load checkpoint %s: %w", id, err)
		}
		return checkpoint.Checkpoint{}, fmt.Errorf("%w: %w %s", ErrNotFound, checkpoint.ErrUnknownCheckpoint, id)
	}
	return scanCheckpoint(rows)
}

// ListCheckpoints lists a session's checkpoints in creation order. A
// negative stage lists every stage.
func (s *Store) ListCheckpoints(ctx context.Context, sessionID string, stage catalog.Stage) ([]checkpoint.Checkpoint, error) {
	query := `SELECT ` + checkpointColumns + ` FROM checkpoints WHERE session_id = ?`
	args := []any{sessionID}
	if stage >= 0 {
		query += " AND stage = ?"
		args = append(args, int(stage))
	}
	query += " ORDER BY created_at, rowid"

	rows, err := s.queryItHook(ctx, s.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: list checkpoints: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []checkpoint.Checkpoint
	for rows.Next() {
		cp, err := scanCheckpoint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	return out, rows.Err()
}

func scanCheckpoint(rows rowScanner) (checkpoint.Checkpoint, error) {
	var (
		cp                      checkpoint.Checkpoint
		stage, optional         int
		typ, position, status   string
		skills, created         string
		completed, feedbackJSON *string
	)
	if err := rows.Scan(&cp.ID, &cp.SessionID, &stage, &typ, &cp.Name, &cp.Description, &position,
		&skills, &optional, &status, &created, &completed, &feedbackJSON); err != nil {
		return cp, err
	}
	cp.Stage = catalog.Stage(stage)
	cp.Type = checkpoint.Type(typ)
	cp.Position = checkpoint.Position(position)
	cp.Status = checkpoint.Status(status)
	cp.Optional = optional != 0
	if err := json.Unmarshal([]byte(skills), &cp.RequiredSkills); err != nil {
		return cp, fmt.Errorf("storage: decode skills for %s: %w", cp.ID, err)
	}
	if feedbackJSON != nil {
		var fb checkpoint.HumanFeedback
		if err := json.Unmarshal([]byte(*feedbackJSON), &fb); err != nil {
			return cp, fmt.Errorf("storage: decode feedback for %s: %w", cp.ID, err)
		}
		cp.Feedback = &fb
	}
	var err error
	if cp.CreatedAt, err = parseTime(created); err != nil {
		return cp, fmt.Errorf("storage: checkpoint created_at: %w", err)
	}
	if cp.CompletedAt, err = parseNullableTime(completed); err != nil {
		return cp, fmt.Errorf("storage: checkpoint completed_at: %w", err)
	}
	return cp, nil
}
