package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/IlumCI/HACF/internal/catalog"
	"github.com/IlumCI/HACF/internal/logging"
)

// Retrieval limits.
const (
	DefaultLimit = 10
	SummaryLimit = 15
)

var validate = validator.New()

// summaryTypes are the record types a stage summary is built from.
var summaryTypes = []Type{TypeConstraint, TypeDecision, TypeError}

// Store creates, ranks and retrieves memory records on top of a Repository.
// Retrievals for the same session are serialized so usage updates are
// never lost; different sessions proceed independently.
type Store struct {
	repo   Repository
	locks  sessionLocks
	now    func() time.Time
	newID  func() string
	logger *slog.Logger

	defaultLimit int
	summaryLimit int
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides record ID generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithLimits overrides DefaultLimit and SummaryLimit. Non-positive values
// keep the defaults.
func WithLimits(query, summary int) Option {
	return func(s *Store) {
		if query > 0 {
			s.defaultLimit = query
		}
		if summary > 0 {
			s.summaryLimit = summary
		}
	}
}

// WithLogger sets the store's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a Store over repo. A nil repo gets a fresh MemRepository.
func NewStore(repo Repository, opts ...Option) *Store {
	if repo == nil {
		repo = NewMemRepository()
	}
	s := &Store{
		repo:   repo,
		now:    time.Now,
		newID:  func() string { return "mem-" + uuid.NewString() },
		logger: logging.Nop(),

		defaultLimit: DefaultLimit,
		summaryLimit: SummaryLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateMemory records a note produced by a stage. The priority is derived
// from the type; unknown types are stored as context.
func (s *Store) CreateMemory(ctx context.Context, sessionID string, stage catalog.Stage, typ Type, content string, metadata map[string]any) (Record, error) {
	if strings.TrimSpace(sessionID) == "" {
		return Record{}, fmt.Errorf("memory: session id is required")
	}
	if ValidateType(typ) != nil {
		s.logger.Warn("memory: unknown memory type, storing as context", "type", string(typ))
	}
	typ = NormalizeType(typ)
	if metadata == nil {
		metadata = map[string]any{}
	}

	rec := Record{
		ID:          s.newID(),
		SessionID:   sessionID,
		SourceStage: stage,
		Type:        typ,
		Priority:    PriorityFor(typ),
		Content:     content,
		Metadata:    metadata,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.InsertMemory(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("memory: insert: %w", err)
	}
	return rec.Clone(), nil
}

type scored struct {
	rec   Record
	score float64
}

// Query returns the session's records most relevant to the current stage,
// highest score first. Ties keep insertion order. Records scoring zero or
// less are never returned. Every returned record has its usage count
// incremented and its last-access time set; the returned values reflect
// that update.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]Record, error) {
	if err := validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("memory: invalid query: %w", err)
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}

	unlock := s.locks.lock(opts.SessionID)
	defer unlock()

	records, err := s.repo.ListMemories(ctx, opts.SessionID, opts.Types)
	if err != nil {
		return nil, fmt.Errorf("memory: list: %w", err)
	}

	ranked := make([]scored, 0, len(records))
	for _, rec := range records {
		score := Relevance(rec, opts.CurrentStage, opts.Keywords)
		if score > 0 {
			ranked = append(ranked, scored{rec: rec, score: score})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	if len(ranked) == 0 {
		return []Record{}, nil
	}

	at := s.now().UTC()
	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.rec.ID
	}
	if err := s.repo.TouchMemories(ctx, ids, at); err != nil {
		return nil, fmt.Errorf("memory: touch: %w", err)
	}

	out := make([]Record, len(ranked))
	for i, r := range ranked {
		rec := r.rec
		rec.UsageCount++
		t := at
		rec.LastAccessed = &t
		out[i] = rec
	}
	return out, nil
}

// Summarize collects the stage's most relevant constraints, decisions and
// errors (up to the summary limit) as bulleted lists.
func (s *Store) Summarize(ctx context.Context, sessionID string, stage catalog.Stage) (Summary, error) {
	records, err := s.Query(ctx, QueryOptions{
		SessionID:    sessionID,
		CurrentStage: stage,
		Types:        summaryTypes,
		Limit:        s.summaryLimit,
	})
	if err != nil {
		return Summary{}, err
	}
	return Summarize(records), nil
}

// Summarize renders already retrieved records as a Summary.
func Summarize(records []Record) Summary {
	grouped := make(map[Type][]string)
	for _, r := range records {
		grouped[r.Type] = append(grouped[r.Type], "• "+r.Content)
	}
	return Summary{
		Constraints: strings.Join(grouped[TypeConstraint], "\n"),
		Decisions:   strings.Join(grouped[TypeDecision], "\n"),
		Errors:      strings.Join(grouped[TypeError], "\n"),
		Count:       len(records),
	}
}

// sessionLocks hands out one mutex per session.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *sessionLocks) lock(sessionID string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	m, ok := l.locks[sessionID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[sessionID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
