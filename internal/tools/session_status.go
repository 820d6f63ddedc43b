package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/IlumCI/HACF/internal/engine"
	"github.com/IlumCI/HACF/internal/sequencer"
	"github.com/IlumCI/HACF/internal/templates"
)

// SessionStatusTool handles the hacf_session_status MCP tool.
type SessionStatusTool struct {
	engine   *engine.Engine
	renderer templates.Renderer
}

// NewSessionStatusTool creates a SessionStatusTool.
func NewSessionStatusTool(e *engine.Engine, r templates.Renderer) *SessionStatusTool {
	return &SessionStatusTool{engine: e, renderer: r}
}

// Definition returns the MCP tool definition for registration.
func (t *SessionStatusTool) Definition() mcp.Tool {
	return mcp.NewTool("hacf_session_status",
		mcp.WithDescription(
			"Show a session's status, plan, current stage and visit history. "+
				"Pass status to pause, resume, complete or fail the session.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session to show"),
		),
		mcp.WithString("status",
			mcp.Description("New lifecycle status; omit to only show the session"),
			mcp.Enum(
				string(sequencer.StatusActive),
				string(sequencer.StatusPaused),
				string(sequencer.StatusCompleted),
				string(sequencer.StatusFailed),
			),
		),
	)
}

// Handle processes the hacf_session_status tool call.
func (t *SessionStatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := strings.TrimSpace(req.GetString("session_id", ""))
	if id == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}

	var (
		sess *sequencer.Session
		err  error
	)
	if to := sequencer.Status(req.GetString("status", "")); to != "" {
		if verr := sequencer.ValidateStatus(to); verr != nil {
			return mcp.NewToolResultError(verr.Error()), nil
		}
		sess, err = t.engine.SetSessionStatus(ctx, id, to)
	} else {
		sess, err = t.engine.Session(ctx, id)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("session %s: %v", id, err)), nil
	}
	return render(t.renderer, templates.Session, templates.SessionData{Session: sess})
}
