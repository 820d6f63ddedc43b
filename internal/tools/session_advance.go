package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/IlumCI/HACF/internal/engine"
	"github.com/IlumCI/HACF/internal/templates"
)

// SessionAdvanceTool handles the hacf_session_advance MCP tool.
type SessionAdvanceTool struct {
	engine   *engine.Engine
	renderer templates.Renderer
}

// NewSessionAdvanceTool creates a SessionAdvanceTool.
func NewSessionAdvanceTool(e *engine.Engine, r templates.Renderer) *SessionAdvanceTool {
	return &SessionAdvanceTool{engine: e, renderer: r}
}

// Definition returns the MCP tool definition for registration.
func (t *SessionAdvanceTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Complete the session's current stage with reviewer feedback and move to the next stage " +
				"chosen on the session's network. The visit is recorded in the session history.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session to advance"),
		),
	}
	return mcp.NewTool("hacf_session_advance", append(opts, feedbackOptions()...)...)
}

// Handle processes the hacf_session_advance tool call.
func (t *SessionAdvanceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := strings.TrimSpace(req.GetString("session_id", ""))
	if id == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}
	fb, err := feedbackArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sess, d, err := t.engine.AdvanceSession(ctx, id, fb)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to advance session: %v", err)), nil
	}
	return render(t.renderer, templates.Session, templates.SessionData{Session: sess, Decision: &d})
}
