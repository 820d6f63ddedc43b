package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/IlumCI/HACF/internal/engine"
	"github.com/IlumCI/HACF/internal/templates"
)

// CheckpointsTool handles the hacf_checkpoints MCP tool.
type CheckpointsTool struct {
	engine   *engine.Engine
	renderer templates.Renderer
}

// NewCheckpointsTool creates a CheckpointsTool.
func NewCheckpointsTool(e *engine.Engine, r templates.Renderer) *CheckpointsTool {
	return &CheckpointsTool{engine: e, renderer: r}
}

// Definition returns the MCP tool definition for registration.
func (t *CheckpointsTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"List the human checkpoints of a stage. With a session_id the checkpoints are opened " +
				"for the session (idempotently) and get IDs to resolve with hacf_checkpoint_feedback; " +
				"without one the project's checkpoint definitions are listed.",
		),
		mcp.WithNumber("stage",
			mcp.Required(),
			mcp.Description("Stage whose checkpoints to list (0-11)"),
		),
		mcp.WithString("session_id",
			mcp.Description("Session to open the checkpoints for"),
		),
	}
	return mcp.NewTool("hacf_checkpoints", append(opts, projectOptions()...)...)
}

// Handle processes the hacf_checkpoints tool call.
func (t *CheckpointsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stage, err := stageArg(req, "stage")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data := templates.CheckpointsData{Stage: stage}
	if id := strings.TrimSpace(req.GetString("session_id", "")); id != "" {
		cps, err := t.engine.OpenCheckpoints(ctx, id, stage)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to open checkpoints: %v", err)), nil
		}
		data.SessionID = id
		data.Checkpoints = cps
	} else {
		data.Definitions = t.engine.StageCheckpoints(ctx, projectArg(req), stage)
	}
	return render(t.renderer, templates.Checkpoints, data)
}
