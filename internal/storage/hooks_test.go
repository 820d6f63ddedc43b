package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/IlumCI/HACF/internal/memory"
	"github.com/IlumCI/HACF/internal/sequencer"
)

func newHookedStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNew_OpenFailure(t *testing.T) {
	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(string, string) (*sql.DB, error) {
		return nil, errors.New("no driver")
	}

	_, err := New(Config{DataDir: t.TempDir()})
	if err == nil || !strings.Contains(err.Error(), "open database") {
		t.Fatalf("err = %v, want open database error", err)
	}
}

func TestSaveSession_CommitFailureLeavesNothing(t *testing.T) {
	s := newHookedStore(t)
	s.hooks.commit = func(*sql.Tx) error { return errors.New("commit refused") }

	sess := sequencer.NewSession("sess-1", nil, sequencer.DefaultPlan())
	err := s.SaveSession(context.Background(), sess)
	if err == nil || !strings.Contains(err.Error(), "commit refused") {
		t.Fatalf("err = %v, want commit error", err)
	}

	if _, err := s.LoadSession(context.Background(), "sess-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("session persisted despite failed commit: %v", err)
	}
}

func TestTouchMemories_ExecFailure(t *testing.T) {
	s := newHookedStore(t)
	ctx := context.Background()
	if err := s.InsertMemory(ctx, memory.Record{
		ID: "m1", SessionID: "s", Type: memory.TypeInsight, Priority: memory.PriorityMedium,
		Content: "x", CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("InsertMemory: %v", err)
	}

	s.hooks.exec = func(ctx context.Context, db execer, query string, args ...any) (sql.Result, error) {
		if strings.HasPrefix(strings.TrimSpace(query), "UPDATE memories") {
			return nil, errors.New("disk full")
		}
		return db.ExecContext(ctx, query, args...)
	}

	err := s.TouchMemories(ctx, []string{"m1"}, time.Now())
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("err = %v, want disk full", err)
	}

	s.hooks = defaultStoreHooks()
	got, err := s.ListMemories(ctx, "s", nil)
	if err != nil {
		t.Fatalf("ListMemories: %v", err)
	}
	if got[0].UsageCount != 0 {
		t.Errorf("usage = %d, want rollback to 0", got[0].UsageCount)
	}
}

func TestListMemories_QueryFailure(t *testing.T) {
	s := newHookedStore(t)
	s.hooks.queryIt = func(context.Context, queryer, string, ...any) (rowScanner, error) {
		return nil, errors.New("locked")
	}
	if _, err := s.ListMemories(context.Background(), "s", nil); err == nil {
		t.Fatal("expected error")
	}
	if _, err := s.Evaluations(context.Background(), "s", -1); err == nil {
		t.Fatal("expected error")
	}
	if _, err := s.ListCheckpoints(context.Background(), "s", -1); err == nil {
		t.Fatal("expected error")
	}
}
