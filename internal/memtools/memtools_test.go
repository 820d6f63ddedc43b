package memtools

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/IlumCI/HACF/internal/engine"
	"github.com/IlumCI/HACF/internal/memory"
	"github.com/IlumCI/HACF/internal/sequencer"
	"github.com/IlumCI/HACF/internal/storage"
	"github.com/IlumCI/HACF/internal/templates"
)

// ─── Test helpers ────────────────────────────────────────────────────────────

// newTestEngine creates an engine over the in-process memory repository.
func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	return engine.New(engine.WithRandom(sequencer.NewRandom(1)))
}

func newTestRenderer(t *testing.T) templates.Renderer {
	t.Helper()
	r, err := templates.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

type handler interface {
	Handle(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

func mustOK(t *testing.T, h handler, args map[string]interface{}) string {
	t.Helper()
	result, err := h.Handle(context.Background(), makeReq(args))
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(result))
	}
	return resultText(result)
}

func mustToolError(t *testing.T, h handler, args map[string]interface{}, want string) {
	t.Helper()
	result, err := h.Handle(context.Background(), makeReq(args))
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if !result.IsError {
		t.Fatalf("expected tool error, got: %s", resultText(result))
	}
	if !strings.Contains(resultText(result), want) {
		t.Errorf("error %q should mention %q", resultText(result), want)
	}
}

// ─── Definitions ─────────────────────────────────────────────────────────────

func TestDefinitions(t *testing.T) {
	e, r := newTestEngine(t), newTestRenderer(t)
	tests := []struct {
		def      mcp.Tool
		name     string
		required []string
	}{
		{NewCreateTool(e).Definition(), "hacf_mem_create", []string{"session_id", "stage", "content"}},
		{NewQueryTool(e, r).Definition(), "hacf_mem_query", []string{"session_id", "stage"}},
		{NewSummaryTool(e, r).Definition(), "hacf_mem_summary", []string{"session_id", "stage"}},
	}
	for _, tt := range tests {
		if tt.def.Name != tt.name {
			t.Errorf("tool name = %q, want %q", tt.def.Name, tt.name)
		}
		if strings.Join(tt.def.InputSchema.Required, ",") != strings.Join(tt.required, ",") {
			t.Errorf("%s required = %v, want %v", tt.name, tt.def.InputSchema.Required, tt.required)
		}
	}
}

// ─── CreateTool Tests ────────────────────────────────────────────────────────

func TestCreateTool_Handle(t *testing.T) {
	tool := NewCreateTool(newTestEngine(t))
	text := mustOK(t, tool, map[string]interface{}{
		"session_id": "sess-1",
		"stage":      1,
		"type":       "constraint",
		"content":    "All PHI must be encrypted at rest",
		"metadata":   map[string]interface{}{"source": "compliance"},
	})
	if !strings.Contains(text, "(constraint, critical priority)") {
		t.Errorf("response should show type and priority, got: %s", text)
	}
	if !strings.Contains(text, "Stage: 1") {
		t.Errorf("response should show the stage, got: %s", text)
	}
}

func TestCreateTool_UnknownTypeStoredAsContext(t *testing.T) {
	tool := NewCreateTool(newTestEngine(t))
	text := mustOK(t, tool, map[string]interface{}{
		"session_id": "sess-1",
		"stage":      2,
		"type":       "rumour",
		"content":    "someone mentioned a deadline",
	})
	if !strings.Contains(text, "(context, low priority)") {
		t.Errorf("unknown type should be stored as context, got: %s", text)
	}
}

func TestCreateTool_Validation(t *testing.T) {
	tool := NewCreateTool(newTestEngine(t))
	mustToolError(t, tool, map[string]interface{}{"stage": 1, "content": "x"}, "session_id")
	mustToolError(t, tool, map[string]interface{}{"session_id": "s", "stage": 1}, "content")
	mustToolError(t, tool, map[string]interface{}{"session_id": "s", "content": "x"}, "stage")
	mustToolError(t, tool, map[string]interface{}{"session_id": "s", "stage": 1, "content": "x", "metadata": 7}, "metadata")
}

// ─── QueryTool Tests ─────────────────────────────────────────────────────────

func seed(t *testing.T, e *engine.Engine) {
	t.Helper()
	create := NewCreateTool(e)
	for _, m := range []map[string]interface{}{
		{"session_id": "sess-1", "stage": 1, "type": "constraint", "content": "Budget is fixed at 10k"},
		{"session_id": "sess-1", "stage": 2, "type": "decision", "content": "Use PostgreSQL | primary store"},
		{"session_id": "sess-1", "stage": 3, "type": "error", "content": "Load test failed at 200 rps"},
		{"session_id": "sess-2", "stage": 1, "type": "constraint", "content": "Other session"},
	} {
		mustOK(t, create, m)
	}
}

func TestQueryTool_RanksAndCountsUsage(t *testing.T) {
	e := newTestEngine(t)
	seed(t, e)
	tool := NewQueryTool(e, newTestRenderer(t))

	text := mustOK(t, tool, map[string]interface{}{"session_id": "sess-1", "stage": 2})
	if !strings.Contains(text, "Budget is fixed at 10k") || !strings.Contains(text, `PostgreSQL \| primary store`) {
		t.Errorf("query should return the session's memories, got:\n%s", text)
	}
	if strings.Contains(text, "Other session") {
		t.Errorf("query leaked another session's memory:\n%s", text)
	}
	if !strings.Contains(text, "| 1 | Use PostgreSQL") {
		t.Errorf("returned records should show one use, got:\n%s", text)
	}
}

func TestQueryTool_FiltersAndLimits(t *testing.T) {
	e := newTestEngine(t)
	seed(t, e)
	tool := NewQueryTool(e, newTestRenderer(t))

	text := mustOK(t, tool, map[string]interface{}{
		"session_id": "sess-1",
		"stage":      3,
		"types":      []interface{}{"error"},
	})
	if !strings.Contains(text, "Load test failed") || strings.Contains(text, "Budget") {
		t.Errorf("type filter not applied:\n%s", text)
	}

	text = mustOK(t, tool, map[string]interface{}{
		"session_id": "sess-1",
		"stage":      2,
		"keywords":   "postgresql, store",
		"limit":      1,
	})
	if got := strings.Count(text, "| mem-"); got != 1 {
		t.Errorf("limit 1 should return one row, got %d:\n%s", got, text)
	}
	if !strings.Contains(text, "PostgreSQL") {
		t.Errorf("keyword match should rank first:\n%s", text)
	}
}

func TestQueryTool_Validation(t *testing.T) {
	tool := NewQueryTool(newTestEngine(t), newTestRenderer(t))
	mustToolError(t, tool, map[string]interface{}{"stage": 1}, "session_id")
	mustToolError(t, tool, map[string]interface{}{"session_id": "s"}, "stage")
	mustToolError(t, tool, map[string]interface{}{"session_id": "s", "stage": 1, "types": []interface{}{"gossip"}}, "invalid memory type")
	mustToolError(t, tool, map[string]interface{}{"session_id": "s", "stage": 1, "limit": -2}, "limit")
}

func TestQueryTool_Empty(t *testing.T) {
	tool := NewQueryTool(newTestEngine(t), newTestRenderer(t))
	text := mustOK(t, tool, map[string]interface{}{"session_id": "nobody", "stage": 1})
	if !strings.Contains(text, "No matching memories.") {
		t.Errorf("expected empty message, got: %s", text)
	}
}

// ─── SummaryTool Tests ───────────────────────────────────────────────────────

func TestSummaryTool_Handle(t *testing.T) {
	e := newTestEngine(t)
	seed(t, e)
	tool := NewSummaryTool(e, newTestRenderer(t))

	text := mustOK(t, tool, map[string]interface{}{"session_id": "sess-1", "stage": 4})
	for _, want := range []string{"## Constraints", "Budget is fixed at 10k", "## Decisions", "## Errors", "Load test failed"} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}
}

func TestSummaryTool_Validation(t *testing.T) {
	tool := NewSummaryTool(newTestEngine(t), newTestRenderer(t))
	mustToolError(t, tool, map[string]interface{}{"stage": 1}, "session_id")
	mustToolError(t, tool, map[string]interface{}{"session_id": "s", "stage": "later"}, "stage")
}

// ─── Persistence ─────────────────────────────────────────────────────────────

func TestTools_PersistThroughStorage(t *testing.T) {
	s, err := storage.New(storage.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	e := engine.New(engine.WithRandom(sequencer.NewRandom(1)), engine.WithMemoryRepository(s))

	mustOK(t, NewCreateTool(e), map[string]interface{}{
		"session_id": "sess-1", "stage": 1, "type": "decision", "content": "Ship weekly",
	})
	mustOK(t, NewQueryTool(e, newTestRenderer(t)), map[string]interface{}{"session_id": "sess-1", "stage": 1})

	recs, err := s.ListMemories(context.Background(), "sess-1", []memory.Type{memory.TypeDecision})
	if err != nil {
		t.Fatalf("ListMemories: %v", err)
	}
	if len(recs) != 1 || recs[0].UsageCount != 1 || recs[0].LastAccessed == nil {
		t.Fatalf("stored record = %+v, want one record used once", recs)
	}
}
