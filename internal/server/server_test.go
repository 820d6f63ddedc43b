package server

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/server"

	"github.com/IlumCI/HACF/internal/config"
	"github.com/IlumCI/HACF/internal/storage"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.DataDir = t.TempDir()
	cfg.Planner.Seed = 7
	return cfg
}

// rpc sends one JSON-RPC request and returns the marshaled response.
func rpc(t *testing.T, s *server.MCPServer, method string) string {
	t.Helper()
	msg := `{"jsonrpc":"2.0","id":1,"method":"` + method + `","params":{}}`
	resp := s.HandleMessage(context.Background(), json.RawMessage(msg))
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return string(data)
}

var statelessTools = []string{
	"hacf_score_complexity",
	"hacf_plan_sequence",
	"hacf_next_stage",
	"hacf_stage_parameters",
	"hacf_evaluate",
	"hacf_stage_brief",
	"hacf_checkpoints",
	"hacf_stage_catalog",
	"hacf_mem_create",
	"hacf_mem_query",
	"hacf_mem_summary",
}

var sessionTools = []string{
	"hacf_session_start",
	"hacf_session_advance",
	"hacf_session_status",
	"hacf_checkpoint_feedback",
}

func TestNew_WithStorage(t *testing.T) {
	s, cleanup, err := New(testConfig(t), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer cleanup()

	tools := rpc(t, s, "tools/list")
	for _, name := range append(statelessTools, sessionTools...) {
		if !strings.Contains(tools, `"`+name+`"`) {
			t.Errorf("tool %s not registered", name)
		}
	}

	res := rpc(t, s, "resources/list")
	for _, uri := range []string{"hacf://catalog/stages", "hacf://catalog/domains", "hacf://sessions/recent"} {
		if !strings.Contains(res, uri) {
			t.Errorf("resource %s not registered", uri)
		}
	}

	prompts := rpc(t, s, "prompts/list")
	for _, name := range []string{"hacf-start", "hacf-status"} {
		if !strings.Contains(prompts, name) {
			t.Errorf("prompt %s not registered", name)
		}
	}
}

func TestNew_StorageDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Disabled = true

	s, cleanup, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer cleanup()

	tools := rpc(t, s, "tools/list")
	for _, name := range statelessTools {
		if !strings.Contains(tools, `"`+name+`"`) {
			t.Errorf("tool %s not registered", name)
		}
	}
	for _, name := range sessionTools {
		if strings.Contains(tools, `"`+name+`"`) {
			t.Errorf("session tool %s registered without storage", name)
		}
	}
	if strings.Contains(rpc(t, s, "resources/list"), "hacf://sessions/recent") {
		t.Error("sessions resource registered without storage")
	}
}

func TestNew_StorageFailureFallsBack(t *testing.T) {
	orig := openStore
	openStore = func(storage.Config) (*storage.Store, error) { return nil, errors.New("locked") }
	t.Cleanup(func() { openStore = orig })

	s, cleanup, err := New(testConfig(t), nil)
	if err != nil {
		t.Fatalf("New should survive a storage failure: %v", err)
	}
	defer cleanup()

	tools := rpc(t, s, "tools/list")
	if !strings.Contains(tools, `"hacf_mem_create"`) {
		t.Error("memory tools should still be registered")
	}
	if strings.Contains(tools, `"hacf_session_start"`) {
		t.Error("session tools should not be registered")
	}
}

func TestNew_NilConfigUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	s, cleanup, err := New(nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer cleanup()
	if s == nil {
		t.Fatal("expected a server")
	}
}

func TestServerInstructions(t *testing.T) {
	with := serverInstructions(true)
	without := serverInstructions(false)
	if !strings.Contains(with, "## SESSIONS") || strings.Contains(with, "Storage is disabled") {
		t.Error("persistent instructions should describe sessions")
	}
	if strings.Contains(without, "## SESSIONS") || !strings.Contains(without, "Storage is disabled") {
		t.Error("non-persistent instructions should say storage is disabled")
	}
}
