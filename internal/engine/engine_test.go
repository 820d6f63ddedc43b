package engine_test

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
	"github.com/IlumCI/HACF/internal/checkpoint"
	"github.com/IlumCI/HACF/internal/complexity"
	"github.com/IlumCI/HACF/internal/engine"
	"github.com/IlumCI/HACF/internal/evaluation"
	"github.com/IlumCI/HACF/internal/memory"
	"github.com/IlumCI/HACF/internal/project"
	"github.com/IlumCI/HACF/internal/sequencer"
	"github.com/IlumCI/HACF/internal/storage"
)

func healthcare() *project.Project {
	return project.New("clinic", project.Metadata{
		"industry":            "healthcare",
		"features":            []any{"scheduling", "records", "billing"},
		"estimated_code_size": 12000,
	})
}

func newPersistentEngine(t *testing.T) (*engine.Engine, *storage.Store) {
	t.Helper()
	s, err := storage.New(storage.Config{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	seq := 0
	e := engine.New(
		engine.WithRandom(sequencer.NewRandom(3)),
		engine.WithPersistence(s),
		engine.WithMemoryRepository(s),
		engine.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("sess-%d", seq)
		}),
	)
	return e, s
}

// ─── Stateless operations ───────────────────────────────────────────────────

func TestStateless_MalformedProjectGetsDefaults(t *testing.T) {
	e := engine.New(engine.WithRandom(sequencer.NewRandom(1)))
	ctx := context.Background()
	bad := project.FromJSON("p", "{not json")

	assert.Equal(t, complexity.DefaultProfile(), e.ScoreComplexity(ctx, bad))
	assert.Equal(t, catalog.NetworkStandard, e.SelectNetwork(ctx, bad))

	plan := e.PlanSequence(ctx, bad)
	assert.True(t, plan.Defaulted)
	assert.Equal(t, []catalog.Stage{1, 2, 3, 4, 5}, plan.Stages)

	plan = e.PlanSequence(ctx, nil)
	assert.True(t, plan.Defaulted)
}

func TestNextStage_HighSatisfactionFollowsPreferredEdge(t *testing.T) {
	e := engine.New(engine.WithRandom(sequencer.NewRandom(1)))
	pr := healthcare()
	network := catalog.NetworkOrStandard(e.SelectNetwork(context.Background(), pr))

	for i := 0; i < 20; i++ {
		d := e.NextStage(context.Background(), pr, "s", 1, sequencer.WithSatisfaction(0.95))
		assert.Equal(t, network.Next(1)[0], d.Next)
		assert.Equal(t, sequencer.ReasonStandard, d.Reason)
	}
}

func TestNextStage_StageWithoutEdgesFallsBack(t *testing.T) {
	e := engine.New()
	d := e.NextStage(context.Background(), nil, "s", 42, sequencer.Feedback{})
	assert.Equal(t, sequencer.FallbackStage, d.Next)
	assert.Equal(t, sequencer.ReasonFallback, d.Reason)
	assert.InDelta(t, sequencer.DefaultSatisfaction, d.Satisfaction, 1e-9)
}

func TestQueryMemory_InvalidOptionsYieldEmptyList(t *testing.T) {
	e := engine.New()
	got := e.QueryMemory(context.Background(), memory.QueryOptions{CurrentStage: 2})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMemory_InProcessByDefault(t *testing.T) {
	e := engine.New(engine.WithMemoryLimits(2, 0))
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := e.CreateMemory(ctx, "s", 1, memory.TypeDecision, fmt.Sprintf("d%d", i), nil)
		require.NoError(t, err)
	}
	assert.Len(t, e.QueryMemory(ctx, memory.QueryOptions{SessionID: "s", CurrentStage: 1}), 2)

	sum := e.SummarizeMemory(ctx, "s", 2)
	assert.Equal(t, 3, sum.Count)
	assert.Contains(t, sum.Decisions, "• d0")
}

func TestCreateMemory_BlankSessionFails(t *testing.T) {
	e := engine.New()
	_, err := e.CreateMemory(context.Background(), "", 1, memory.TypeDecision, "x", nil)
	assert.Error(t, err)
}

func TestStatefulOperations_RequirePersistence(t *testing.T) {
	e := engine.New()
	ctx := context.Background()
	assert.False(t, e.Persistent())

	_, err := e.StartSession(ctx, healthcare())
	assert.ErrorIs(t, err, engine.ErrNoPersistence)
	_, err = e.Session(ctx, "x")
	assert.ErrorIs(t, err, engine.ErrNoPersistence)
	_, _, err = e.AdvanceSession(ctx, "x", sequencer.Feedback{})
	assert.ErrorIs(t, err, engine.ErrNoPersistence)
	_, err = e.OpenCheckpoints(ctx, "x", 1)
	assert.ErrorIs(t, err, engine.ErrNoPersistence)
	_, _, err = e.ResolveCheckpoint(ctx, "cp", checkpoint.HumanFeedback{})
	assert.ErrorIs(t, err, engine.ErrNoPersistence)
	_, err = e.SkipCheckpoint(ctx, "cp")
	assert.ErrorIs(t, err, engine.ErrNoPersistence)
}

func TestStageCheckpoints_IndustryExtras(t *testing.T) {
	e := engine.New()
	defs := e.StageCheckpoints(context.Background(), healthcare(), 2)
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	assert.Contains(t, names, "HIPAA Compliance Review")

	assert.NotNil(t, e.StageCheckpoints(context.Background(), nil, 99))
}

func TestStageBrief(t *testing.T) {
	e := engine.New()
	ctx := context.Background()
	_, err := e.CreateMemory(ctx, "s", 1, memory.TypeConstraint, "patient data stays on-prem", nil)
	require.NoError(t, err)

	b := e.StageBrief(ctx, "s", healthcare(), 2)
	assert.Equal(t, catalog.Stage(2), b.Stage.ID)
	assert.Equal(t, "healthcare", b.Industry)
	assert.Contains(t, b.Instructions, "[DOMAIN SPECIALIZATION:")
	assert.Contains(t, b.Criteria, "hipaa_compliance")
	assert.NotEmpty(t, b.KeyConcerns)
	assert.Equal(t, "• patient data stays on-prem", b.Memory.Constraints)
	assert.NotEmpty(t, b.Checkpoints)

	unknown := e.StageBrief(ctx, "", nil, 77)
	assert.Equal(t, catalog.Stage(77), unknown.Stage.ID)
	assert.Zero(t, unknown.Memory.Count)
}

// ─── Degradation ────────────────────────────────────────────────────────────

type panickingRepo struct{ memory.Repository }

func (panickingRepo) ListMemories(context.Context, string, []memory.Type) ([]memory.Record, error) {
	panic("corrupted index")
}

func TestQueryMemory_RecoversPanic(t *testing.T) {
	e := engine.New(engine.WithMemoryRepository(panickingRepo{memory.NewMemRepository()}))
	got := e.QueryMemory(context.Background(), memory.QueryOptions{SessionID: "s", CurrentStage: 1})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

type brokenStore struct {
	engine.Persistence
	saveErr error
	panics  bool
}

func (b brokenStore) SaveEvaluation(context.Context, string, string, evaluation.Result) (int64, error) {
	if b.panics {
		panic("driver crashed")
	}
	return 0, b.saveErr
}

func TestEvaluate_SaveFailureKeepsResult(t *testing.T) {
	e := engine.New(engine.WithPersistence(brokenStore{saveErr: errors.New("disk full")}))
	res := e.Evaluate(context.Background(), "s", healthcare(), 2, "out", map[string]float64{"task_completeness": 0.9})
	assert.False(t, res.Simulated)
	assert.InDelta(t, 0.9, res.MetricScores["task_completeness"], 1e-9)
}

func TestEvaluate_PanicYieldsNeutralResult(t *testing.T) {
	e := engine.New(engine.WithPersistence(brokenStore{panics: true}))
	res := e.Evaluate(context.Background(), "s", healthcare(), 2, "out", nil)
	assert.InDelta(t, evaluation.UnmappedDimension, res.OverallScore, 1e-9)
	assert.Len(t, res.DimensionScores, len(evaluation.Dimensions()))
	assert.NotNil(t, res.Recommendations)
}

// ─── Sessions ───────────────────────────────────────────────────────────────

func TestSessionLifecycle(t *testing.T) {
	e, s := newPersistentEngine(t)
	ctx := context.Background()

	sess, err := e.StartSession(ctx, healthcare())
	require.NoError(t, err)
	assert.Equal(t, "sess-1", sess.ID)
	assert.Equal(t, sequencer.StartStage, sess.CurrentStage)
	assert.Equal(t, sequencer.StatusActive, sess.Status)

	network := catalog.NetworkOrStandard(sess.Network)
	sess, d, err := e.AdvanceSession(ctx, sess.ID, sequencer.WithSatisfaction(0.9))
	require.NoError(t, err)
	assert.Equal(t, sequencer.ReasonStandard, d.Reason)
	assert.Equal(t, network.Next(1)[0], sess.CurrentStage)

	loaded, err := e.Session(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, loaded.Visits, 1)
	assert.Equal(t, catalog.Stage(1), loaded.Visits[0].Stage)
	assert.InDelta(t, 0.9, loaded.Visits[0].Satisfaction, 1e-9)

	_, err = e.SetSessionStatus(ctx, "sess-1", sequencer.StatusCompleted)
	require.NoError(t, err)
	_, _, err = e.AdvanceSession(ctx, "sess-1", sequencer.WithSatisfaction(0.9))
	assert.Error(t, err)

	_, err = e.Session(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Sessions)
	assert.Zero(t, st.ActiveSessions)
}

// slowLoads widens the window between loading and saving a session.
type slowLoads struct {
	*storage.Store
}

func (s slowLoads) LoadSession(ctx context.Context, id string) (*sequencer.Session, error) {
	sess, err := s.Store.LoadSession(ctx, id)
	time.Sleep(5 * time.Millisecond)
	return sess, err
}

func TestAdvanceSession_ConcurrentAdvancesKeepEveryVisit(t *testing.T) {
	s, err := storage.New(storage.Config{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	e := engine.New(
		engine.WithRandom(sequencer.NewRandom(3)),
		engine.WithPersistence(slowLoads{s}),
	)
	ctx := context.Background()

	sess, err := e.StartSession(ctx, healthcare())
	require.NoError(t, err)
	require.Equal(t, catalog.NetworkSecurityFocused, sess.Network)

	const advances = 6
	var wg sync.WaitGroup
	errs := make(chan error, advances)
	for range advances {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := e.AdvanceSession(ctx, sess.ID, sequencer.WithSatisfaction(0.95))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	loaded, err := e.Session(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Visits, advances)
	for i, v := range loaded.Visits {
		assert.Equal(t, catalog.Stage(i+1), v.Stage, "visit %d", i)
	}
	assert.Equal(t, catalog.Stage(advances+1), loaded.CurrentStage)
}

func TestEvaluate_PersistsWithSession(t *testing.T) {
	e, s := newPersistentEngine(t)
	ctx := context.Background()

	e.Evaluate(ctx, "sess-1", healthcare(), 3, "prototype notes", nil)
	e.Evaluate(ctx, "", healthcare(), 3, "not stored", nil)

	stored, err := s.Evaluations(ctx, "sess-1", -1)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "prototype notes", stored[0].Output)
	assert.True(t, stored[0].Simulated)
	assert.Equal(t, "healthcare", stored[0].Industry)
}

func TestCheckpointFlow(t *testing.T) {
	e, _ := newPersistentEngine(t)
	ctx := context.Background()
	sess, err := e.StartSession(ctx, healthcare())
	require.NoError(t, err)

	opened, err := e.OpenCheckpoints(ctx, sess.ID, 2)
	require.NoError(t, err)
	require.Len(t, opened, 3, "two stage defaults plus the HIPAA review")

	again, err := e.OpenCheckpoints(ctx, sess.ID, 2)
	require.NoError(t, err)
	assert.Len(t, again, len(opened))

	var required, optional *checkpoint.Checkpoint
	for i := range opened {
		if opened[i].Optional && optional == nil {
			optional = &opened[i]
		}
		if !opened[i].Optional && required == nil {
			required = &opened[i]
		}
	}
	require.NotNil(t, required)

	_, err = e.SkipCheckpoint(ctx, required.ID)
	assert.Error(t, err)

	rating := 1
	cp, processed, err := e.ResolveCheckpoint(ctx, required.ID, checkpoint.HumanFeedback{
		Rating:   &rating,
		Comments: "Please add audit logging",
	})
	require.NoError(t, err)
	assert.Equal(t, checkpoint.StatusCompleted, cp.Status)
	assert.Equal(t, checkpoint.ImpactHigh, processed.Impact)
	assert.Contains(t, processed.AdjustmentAreas, "General improvements based on comments")

	_, _, err = e.ResolveCheckpoint(ctx, required.ID, checkpoint.HumanFeedback{})
	assert.ErrorIs(t, err, checkpoint.ErrResolved)

	_, _, err = e.ResolveCheckpoint(ctx, "cp-missing", checkpoint.HumanFeedback{})
	assert.ErrorIs(t, err, checkpoint.ErrUnknownCheckpoint)

	bad := 9
	_, _, err = e.ResolveCheckpoint(ctx, opened[len(opened)-1].ID, checkpoint.HumanFeedback{Rating: &bad})
	assert.Error(t, err)

	if optional != nil {
		skipped, err := e.SkipCheckpoint(ctx, optional.ID)
		require.NoError(t, err)
		assert.Equal(t, checkpoint.StatusSkipped, skipped.Status)
	}

	_, err = e.OpenCheckpoints(ctx, "no-such-session", 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
