// Package storage is the durable side of HACF: sessions with their stage
// visit history, memory records, evaluation results and human checkpoints,
// kept in a single SQLite database.
//
// The engine itself holds nothing between calls. Store implements
// memory.Repository so the memory store can rank records kept here, and
// offers typed save/load helpers for everything else.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ErrNotFound is returned when a session or checkpoint does not exist.
var ErrNotFound = errors.New("storage: not found")

// DBName is the database file created inside the data directory.
const DBName = "hacf.db"

// timeFormat is fixed-width so stored timestamps sort as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds store configuration.
type Config struct {
	DataDir string
	// MaxSessions bounds RecentSessions results.
	MaxSessions int
}

// DefaultConfig returns the default configuration: ~/.hacf.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:     filepath.Join(home, ".hacf"),
		MaxSessions: 20,
	}
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the SQLite persistence collaborator.
type Store struct {
	db    *sql.DB
	cfg   Config
	hooks storeHooks
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type sqlRowScanner struct {
	rows *sql.Rows
}

func (r sqlRowScanner) Next() bool             { return r.rows.Next() }
func (r sqlRowScanner) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r sqlRowScanner) Err() error             { return r.rows.Err() }
func (r sqlRowScanner) Close() error           { return r.rows.Close() }

type storeHooks struct {
	exec    func(ctx context.Context, db execer, query string, args ...any) (sql.Result, error)
	queryIt func(ctx context.Context, db queryer, query string, args ...any) (rowScanner, error)
	beginTx func(ctx context.Context, db *sql.DB) (*sql.Tx, error)
	commit  func(tx *sql.Tx) error
}

func defaultStoreHooks() storeHooks {
	return storeHooks{
		exec: func(ctx context.Context, db execer, query string, args ...any) (sql.Result, error) {
			return db.ExecContext(ctx, query, args...)
		},
		queryIt: func(ctx context.Context, db queryer, query string, args ...any) (rowScanner, error) {
			rows, err := db.QueryContext(ctx, query, args...)
			if err != nil {
				return nil, err
			}
			return sqlRowScanner{rows: rows}, nil
		},
		beginTx: func(ctx context.Context, db *sql.DB) (*sql.Tx, error) {
			return db.BeginTx(ctx, nil)
		},
		commit: func(tx *sql.Tx) error {
			return tx.Commit()
		},
	}
}

func (s *Store) execHook(ctx context.Context, db execer, query string, args ...any) (sql.Result, error) {
	if s.hooks.exec != nil {
		return s.hooks.exec(ctx, db, query, args...)
	}
	return db.ExecContext(ctx, query, args...)
}

func (s *Store) queryItHook(ctx context.Context, db queryer, query string, args ...any) (rowScanner, error) {
	if s.hooks.queryIt != nil {
		return s.hooks.queryIt(ctx, db, query, args...)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRowScanner{rows: rows}, nil
}

func (s *Store) beginTxHook(ctx context.Context) (*sql.Tx, error) {
	if s.hooks.beginTx != nil {
		return s.hooks.beginTx(ctx, s.db)
	}
	return s.db.BeginTx(ctx, nil)
}

func (s *Store) commitHook(tx *sql.Tx) error {
	if s.hooks.commit != nil {
		return s.hooks.commit(tx)
	}
	return tx.Commit()
}

// New creates a new Store with the given configuration.
// It creates the data directory if needed, opens SQLite with WAL mode,
// and runs migrations.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("storage: create data dir: %w", err)
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultConfig().MaxSessions
	}

	dbPath := filepath.Join(cfg.DataDir, DBName)
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("storage: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg, hooks: defaultStoreHooks()}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: migration: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id            TEXT PRIMARY KEY,
			project_id    TEXT    NOT NULL DEFAULT '',
			metadata      TEXT    NOT NULL DEFAULT '{}',
			network       TEXT    NOT NULL,
			complexity    TEXT    NOT NULL,
			plan          TEXT    NOT NULL DEFAULT '[]',
			current_stage INTEGER NOT NULL,
			status        TEXT    NOT NULL DEFAULT 'active',
			created_at    TEXT    NOT NULL,
			updated_at    TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_sessions_status  ON sessions(status);
		CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at DESC);

		CREATE TABLE IF NOT EXISTS stage_visits (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id   TEXT    NOT NULL,
			stage        INTEGER NOT NULL,
			next_stage   INTEGER NOT NULL,
			reason       TEXT    NOT NULL,
			satisfaction REAL    NOT NULL,
			completed_at TEXT    NOT NULL,
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_visits_session ON stage_visits(session_id, id);

		CREATE TABLE IF NOT EXISTS memories (
			seq           INTEGER PRIMARY KEY AUTOINCREMENT,
			id            TEXT    NOT NULL UNIQUE,
			session_id    TEXT    NOT NULL,
			source_stage  INTEGER NOT NULL,
			type          TEXT    NOT NULL,
			priority      TEXT    NOT NULL,
			content       TEXT    NOT NULL,
			metadata      TEXT    NOT NULL DEFAULT '{}',
			usage_count   INTEGER NOT NULL DEFAULT 0,
			created_at    TEXT    NOT NULL,
			last_accessed TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_memories_session ON memories(session_id, seq);
		CREATE INDEX IF NOT EXISTS idx_memories_type    ON memories(session_id, type);

		CREATE TABLE IF NOT EXISTS evaluations (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id        TEXT    NOT NULL,
			stage             INTEGER NOT NULL,
			industry          TEXT,
			overall_score     REAL    NOT NULL,
			dimension_scores  TEXT    NOT NULL,
			dimension_weights TEXT    NOT NULL,
			metric_scores     TEXT    NOT NULL,
			criteria          TEXT    NOT NULL,
			recommendations   TEXT    NOT NULL,
			simulated         INTEGER NOT NULL DEFAULT 0,
			output            TEXT,
			evaluated_at      TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_evaluations_session ON evaluations(session_id, stage);

		CREATE TABLE IF NOT EXISTS checkpoints (
			id              TEXT PRIMARY KEY,
			session_id      TEXT    NOT NULL,
			stage           INTEGER NOT NULL,
			type            TEXT    NOT NULL,
			name            TEXT    NOT NULL,
			description     TEXT    NOT NULL DEFAULT '',
			position        TEXT    NOT NULL,
			required_skills TEXT    NOT NULL DEFAULT '[]',
			optional        INTEGER NOT NULL DEFAULT 0,
			status          TEXT    NOT NULL DEFAULT 'pending',
			created_at      TEXT    NOT NULL,
			completed_at    TEXT,
			feedback        TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_checkpoints_session ON checkpoints(session_id, stage);
	`
	_, err := s.execHook(ctx, s.db, schema)
	return err
}

// ─── Stats ───────────────────────────────────────────────────────────────────

// Stats holds row counts per table.
type Stats struct {
	Sessions       int `json:"sessions"`
	ActiveSessions int `json:"active_sessions"`
	Memories       int `json:"memories"`
	Evaluations    int `json:"evaluations"`
	Checkpoints    int `json:"checkpoints"`
}

// Stats returns aggregate counts.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	row := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM sessions),
			(SELECT COUNT(*) FROM sessions WHERE status = 'active'),
			(SELECT COUNT(*) FROM memories),
			(SELECT COUNT(*) FROM evaluations),
			(SELECT COUNT(*) FROM checkpoints)
	`)
	if err := row.Scan(&st.Sessions, &st.ActiveSessions, &st.Memories, &st.Evaluations, &st.Checkpoints); err != nil {
		return nil, fmt.Errorf("storage: stats: %w", err)
	}
	return &st, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(v string) (time.Time, error) {
	return time.Parse(timeFormat, v)
}

func formatNullableTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := formatTime(*t)
	return &v
}

func parseNullableTime(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := parseTime(*v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
