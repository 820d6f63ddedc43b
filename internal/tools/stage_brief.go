package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/IlumCI/HACF/internal/engine"
	"github.com/IlumCI/HACF/internal/templates"
)

// StageBriefTool handles the hacf_stage_brief MCP tool.
type StageBriefTool struct {
	engine   *engine.Engine
	renderer templates.Renderer
}

// NewStageBriefTool creates a StageBriefTool.
func NewStageBriefTool(e *engine.Engine, r templates.Renderer) *StageBriefTool {
	return &StageBriefTool{engine: e, renderer: r}
}

// Definition returns the MCP tool definition for registration.
func (t *StageBriefTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Everything needed before running a stage: its responsibilities, generation parameters, " +
				"domain instructions and key concerns, evaluation criteria, human checkpoints and, " +
				"with a session_id, the summary of relevant memories from earlier stages.",
		),
		mcp.WithNumber("stage",
			mcp.Required(),
			mcp.Description("Stage about to run (0-11)"),
		),
		mcp.WithString("session_id",
			mcp.Description("Session whose memories should be summarized"),
		),
	}
	return mcp.NewTool("hacf_stage_brief", append(opts, projectOptions()...)...)
}

// Handle processes the hacf_stage_brief tool call.
func (t *StageBriefTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stage, err := stageArg(req, "stage")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	b := t.engine.StageBrief(ctx, req.GetString("session_id", ""), projectArg(req), stage)
	return render(t.renderer, templates.Brief, b)
}
