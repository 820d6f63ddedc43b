package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/IlumCI/HACF/internal/engine"
	"github.com/IlumCI/HACF/internal/templates"
)

// SessionStartTool handles the hacf_session_start MCP tool.
type SessionStartTool struct {
	engine   *engine.Engine
	renderer templates.Renderer
}

// NewSessionStartTool creates a SessionStartTool.
func NewSessionStartTool(e *engine.Engine, r templates.Renderer) *SessionStartTool {
	return &SessionStartTool{engine: e, renderer: r}
}

// Definition returns the MCP tool definition for registration.
func (t *SessionStartTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Start a tracked workflow session for a project. The session is planned like " +
				"hacf_plan_sequence, sits on the plan's first stage and keeps its network for every " +
				"later transition. Returns the session ID used by the other session tools.",
		),
	}
	return mcp.NewTool("hacf_session_start", append(opts, projectOptions()...)...)
}

// Handle processes the hacf_session_start tool call.
func (t *SessionStartTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := t.engine.StartSession(ctx, projectArg(req))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to start session: %v", err)), nil
	}
	return render(t.renderer, templates.Session, templates.SessionData{Session: sess})
}
