package memory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IlumCI/HACF/internal/catalog"
	"github.com/IlumCI/HACF/internal/memory"
)

func newStore(t *testing.T) (*memory.Store, *time.Time) {
	t.Helper()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	seq := 0
	s := memory.NewStore(memory.NewMemRepository(),
		memory.WithClock(func() time.Time { return now }),
		memory.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("mem-%d", seq)
		}),
	)
	return s, &now
}

func mustCreate(t *testing.T, s *memory.Store, stage catalog.Stage, typ memory.Type, content string) memory.Record {
	t.Helper()
	r, err := s.CreateMemory(context.Background(), "s1", stage, typ, content, nil)
	require.NoError(t, err)
	return r
}

func TestCreateMemory_PriorityFromType(t *testing.T) {
	s, _ := newStore(t)
	tests := []struct {
		typ  memory.Type
		want memory.Priority
		norm memory.Type
	}{
		{memory.TypeConstraint, memory.PriorityCritical, memory.TypeConstraint},
		{memory.TypeDecision, memory.PriorityHigh, memory.TypeDecision},
		{memory.TypeError, memory.PriorityHigh, memory.TypeError},
		{memory.TypeInsight, memory.PriorityMedium, memory.TypeInsight},
		{memory.TypeContext, memory.PriorityLow, memory.TypeContext},
		{"gossip", memory.PriorityLow, memory.TypeContext},
	}
	for _, tt := range tests {
		r := mustCreate(t, s, 1, tt.typ, "x")
		assert.Equal(t, tt.want, r.Priority, tt.typ)
		assert.Equal(t, tt.norm, r.Type, tt.typ)
		assert.Zero(t, r.UsageCount)
		assert.Nil(t, r.LastAccessed)
		assert.NotNil(t, r.Metadata)
	}
}

func TestCreateMemory_RequiresSession(t *testing.T) {
	s, _ := newStore(t)
	_, err := s.CreateMemory(context.Background(), " ", 1, memory.TypeDecision, "x", nil)
	assert.Error(t, err)
}

func TestQuery_OrdersByRelevance(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	mustCreate(t, s, 5, memory.TypeContext, "late context")     // 0.4*0.4 + 0.3*0.3 + 0.1
	mustCreate(t, s, 1, memory.TypeConstraint, "must be HIPAA") // 0.4*0.7 + 0.3*1.0 + 0.1
	mustCreate(t, s, 3, memory.TypeDecision, "use postgres")    // 0.4*1.0 + 0.3*0.8 + 0.1

	got, err := s.Query(ctx, memory.QueryOptions{SessionID: "s1", CurrentStage: 3})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "use postgres", got[0].Content)
	assert.Equal(t, "must be HIPAA", got[1].Content)
	assert.Equal(t, "late context", got[2].Content)
}

func TestQuery_TiesKeepInsertionOrder(t *testing.T) {
	s, _ := newStore(t)
	for i := 0; i < 4; i++ {
		mustCreate(t, s, 2, memory.TypeInsight, fmt.Sprintf("insight %d", i))
	}
	got, err := s.Query(context.Background(), memory.QueryOptions{SessionID: "s1", CurrentStage: 2})
	require.NoError(t, err)
	for i, r := range got {
		assert.Equal(t, fmt.Sprintf("insight %d", i), r.Content)
	}
}

func TestQuery_UpdatesUsage(t *testing.T) {
	s, now := newStore(t)
	ctx := context.Background()
	mustCreate(t, s, 1, memory.TypeDecision, "d")

	prev := 0
	for i := 0; i < 3; i++ {
		*now = now.Add(time.Minute)
		got, err := s.Query(ctx, memory.QueryOptions{SessionID: "s1", CurrentStage: 1})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Greater(t, got[0].UsageCount, prev)
		prev = got[0].UsageCount
		require.NotNil(t, got[0].LastAccessed)
		assert.Equal(t, *now, *got[0].LastAccessed)
	}
	assert.Equal(t, 3, prev)
}

func TestQuery_NeverReturnsNonPositiveScores(t *testing.T) {
	s, _ := newStore(t)
	for stage := catalog.FirstStage; stage <= catalog.LastStage; stage++ {
		for _, typ := range memory.Types() {
			mustCreate(t, s, stage, typ, "note")
		}
	}
	for current := catalog.FirstStage; current <= catalog.LastStage; current++ {
		got, err := s.Query(context.Background(), memory.QueryOptions{
			SessionID: "s1", CurrentStage: current, Keywords: []string{"absent"}, Limit: 100,
		})
		require.NoError(t, err)
		for _, r := range got {
			assert.Greater(t, memory.Relevance(r, current, []string{"absent"}), 0.0)
		}
	}
}

func TestQuery_FiltersByTypeAndLimit(t *testing.T) {
	s, _ := newStore(t)
	for i := 0; i < 12; i++ {
		mustCreate(t, s, 1, memory.TypeDecision, "d")
	}
	mustCreate(t, s, 1, memory.TypeError, "e")

	got, err := s.Query(context.Background(), memory.QueryOptions{SessionID: "s1", CurrentStage: 1})
	require.NoError(t, err)
	assert.Len(t, got, memory.DefaultLimit)

	got, err = s.Query(context.Background(), memory.QueryOptions{SessionID: "s1", CurrentStage: 1, Types: []memory.Type{memory.TypeError}, Limit: 5})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, memory.TypeError, got[0].Type)
}

func TestQuery_SessionsAreIsolated(t *testing.T) {
	s, _ := newStore(t)
	mustCreate(t, s, 1, memory.TypeDecision, "d")
	got, err := s.Query(context.Background(), memory.QueryOptions{SessionID: "s2", CurrentStage: 1})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestQuery_RejectsInvalidOptions(t *testing.T) {
	s, _ := newStore(t)
	_, err := s.Query(context.Background(), memory.QueryOptions{CurrentStage: 1})
	assert.Error(t, err)
	_, err = s.Query(context.Background(), memory.QueryOptions{SessionID: "s1", Limit: -1})
	assert.Error(t, err)
}

func TestQuery_ConcurrentUsageNotLost(t *testing.T) {
	s := memory.NewStore(nil)
	ctx := context.Background()
	_, err := s.CreateMemory(ctx, "s1", 2, memory.TypeConstraint, "c", nil)
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Query(ctx, memory.QueryOptions{SessionID: "s1", CurrentStage: 2})
		}()
	}
	wg.Wait()

	got, err := s.Query(ctx, memory.QueryOptions{SessionID: "s1", CurrentStage: 2})
	require.NoError(t, err)
	assert.Equal(t, n+1, got[0].UsageCount)
}

func TestSummarize(t *testing.T) {
	s, _ := newStore(t)
	mustCreate(t, s, 1, memory.TypeConstraint, "budget is fixed")
	mustCreate(t, s, 1, memory.TypeDecision, "use Go")
	mustCreate(t, s, 1, memory.TypeDecision, "use SQLite")
	mustCreate(t, s, 1, memory.TypeInsight, "users like dark mode")
	mustCreate(t, s, 1, memory.TypeError, "migration failed")

	sum, err := s.Summarize(context.Background(), "s1", 2)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Count)
	assert.Equal(t, "• budget is fixed", sum.Constraints)
	assert.Equal(t, "• use Go\n• use SQLite", sum.Decisions)
	assert.Equal(t, "• migration failed", sum.Errors)
}

type failingRepo struct{ memory.Repository }

func (failingRepo) ListMemories(context.Context, string, []memory.Type) ([]memory.Record, error) {
	return nil, errors.New("disk on fire")
}

func TestQuery_RepositoryError(t *testing.T) {
	s := memory.NewStore(failingRepo{memory.NewMemRepository()})
	_, err := s.Query(context.Background(), memory.QueryOptions{SessionID: "s1"})
	assert.ErrorContains(t, err, "disk on fire")
}

func TestQuery_WithLimits(t *testing.T) {
	s := memory.NewStore(nil, memory.WithLimits(3, 0))
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := s.CreateMemory(ctx, "s1", 1, memory.TypeDecision, fmt.Sprintf("d%d", i), nil)
		require.NoError(t, err)
	}
	got, err := s.Query(ctx, memory.QueryOptions{SessionID: "s1", CurrentStage: 1})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	sum, err := s.Summarize(ctx, "s1", 1)
	require.NoError(t, err)
	assert.Equal(t, 5, sum.Count)
}
