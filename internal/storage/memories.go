package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/IlumCI/HACF/internal/catalog"
	"github.com/IlumCI/HACF/internal/memory"
)

// ─── Memories ────────────────────────────────────────────────────────────────

var _ memory.Repository = (*Store)(nil)

// InsertMemory implements memory.Repository.
func (s *Store) InsertMemory(ctx context.Context, r memory.Record) error {
	md := r.Metadata
	if md == nil {
		md = map[string]any{}
	}
	metadata, err := encodeJSON(md)
	if err != nil {
		return fmt.Errorf("storage: encode memory metadata: %w", err)
	}
	_, err = s.execHook(ctx, s.db, `
		INSERT INTO memories (id, session_id, source_stage, type, priority, content, metadata, usage_count, created_at, last_accessed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.SessionID, int(r.SourceStage), string(r.Type), string(r.Priority), r.Content, metadata,
		r.UsageCount, formatTime(r.CreatedAt), formatNullableTime(r.LastAccessed),
	)
	if err != nil {
		return fmt.Errorf("storage: insert memory: %w", err)
	}
	return nil
}

// ListMemories implements memory.Repository. Records come back in
// insertion order.
func (s *Store) ListMemories(ctx context.Context, sessionID string, types []memory.Type) ([]memory.Record, error) {
	query := `
		SELECT id, session_id, source_stage, type, priority, content, metadata, usage_count, created_at, last_accessed
		FROM memories WHERE session_id = ?`
	args := []any{sessionID}
	if len(types) > 0 {
		query += " AND type IN (?" + strings.Repeat(", ?", len(types)-1) + ")"
		for _, t := range types {
			args = append(args, string(t))
		}
	}
	query += " ORDER BY seq"

	rows, err := s.queryItHook(ctx, s.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: list memories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []memory.Record
	for rows.Next() {
		var (
			r                   memory.Record
			stage               int
			typ, prio, metadata string
			created             string
			accessed            *string
		)
		if err := rows.Scan(&r.ID, &r.SessionID, &stage, &typ, &prio, &r.Content, &metadata, &r.UsageCount, &created, &accessed); err != nil {
			return nil, err
		}
		r.SourceStage = catalog.Stage(stage)
		r.Type = memory.Type(typ)
		r.Priority = memory.Priority(prio)
		if err := json.Unmarshal([]byte(metadata), &r.Metadata); err != nil {
			return nil, fmt.Errorf("storage: decode memory metadata %s: %w", r.ID, err)
		}
		if r.CreatedAt, err = parseTime(created); err != nil {
			return nil, fmt.Errorf("storage: memory created_at: %w", err)
		}
		if r.LastAccessed, err = parseNullableTime(accessed); err != nil {
			return nil, fmt.Errorf("storage: memory last_accessed: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// TouchMemories implements memory.Repository. All records are updated in
// one transaction; the increment happens in SQL so concurrent writers
// cannot lose counts.
func (s *Store) TouchMemories(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := s.beginTxHook(ctx)
	if err != nil {
		return fmt.Errorf("storage: touch memories: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stamp := formatTime(at)
	for _, id := range ids {
		if _, err := s.execHook(ctx, tx,
			`UPDATE memories SET usage_count = usage_count + 1, last_accessed = ? WHERE id = ?`,
			stamp, id,
		); err != nil {
			return fmt.Errorf("storage: touch memory %s: %w", id, err)
		}
	}

	if err := s.commitHook(tx); err != nil {
		return fmt.Errorf("storage: touch memories: commit: %w", err)
	}
	return nil
}
