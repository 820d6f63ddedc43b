package memory

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Repository persists memory records. Implementations return records of a
// session in insertion order and must apply TouchMemories atomically per
// record.
type Repository interface {
	InsertMemory(ctx context.Context, r Record) error
	ListMemories(ctx context.Context, sessionID string, types []Type) ([]Record, error)
	TouchMemories(ctx context.Context, ids []string, at time.Time) error
}

// MemRepository is an in-process Repository. The zero value is not usable;
// call NewMemRepository.
type MemRepository struct {
	mu        sync.RWMutex
	bySession map[string][]*Record
	byID      map[string]*Record
}

// NewMemRepository creates an empty in-process repository.
func NewMemRepository() *MemRepository {
	return &MemRepository{
		bySession: make(map[string][]*Record),
		byID:      make(map[string]*Record),
	}
}

// InsertMemory implements Repository.
func (m *MemRepository) InsertMemory(_ context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := r.Clone()
	m.bySession[r.SessionID] = append(m.bySession[r.SessionID], &rec)
	m.byID[r.ID] = &rec
	return nil
}

// ListMemories implements Repository.
func (m *MemRepository) ListMemories(_ context.Context, sessionID string, types []Type) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Record
	for _, rec := range m.bySession[sessionID] {
		if len(types) > 0 && !slices.Contains(types, rec.Type) {
			continue
		}
		out = append(out, rec.Clone())
	}
	return out, nil
}

// TouchMemories implements Repository.
func (m *MemRepository) TouchMemories(_ context.Context, ids []string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		rec, ok := m.byID[id]
		if !ok {
			continue
		}
		t := at
		rec.UsageCount++
		rec.LastAccessed = &t
	}
	return nil
}
