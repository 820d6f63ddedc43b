package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/IlumCI/HACF/internal/engine"
	"github.com/IlumCI/HACF/internal/templates"
)

// NextStageTool handles the hacf_next_stage MCP tool. It is stateless: for
// tracked sessions use hacf_session_advance.
type NextStageTool struct {
	engine   *engine.Engine
	renderer templates.Renderer
}

// NewNextStageTool creates a NextStageTool.
func NewNextStageTool(e *engine.Engine, r templates.Renderer) *NextStageTool {
	return &NextStageTool{engine: e, renderer: r}
}

// Definition returns the MCP tool definition for registration.
func (t *NextStageTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Choose the stage to run after the current one, given reviewer feedback. " +
				"Satisfaction >= 0.8 follows the network's preferred successor, below that an alternative " +
				"or a redo of the current stage may be chosen.",
		),
		mcp.WithNumber("current_stage",
			mcp.Required(),
			mcp.Description("The stage that just completed (0-11)"),
		),
		mcp.WithString("session_id",
			mcp.Description("Session the decision belongs to, for logging only"),
		),
	}
	opts = append(opts, projectOptions()...)
	opts = append(opts, feedbackOptions()...)
	return mcp.NewTool("hacf_next_stage", opts...)
}

// Handle processes the hacf_next_stage tool call.
func (t *NextStageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	current, err := stageArg(req, "current_stage")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fb, err := feedbackArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	d := t.engine.NextStage(ctx, projectArg(req), req.GetString("session_id", ""), current, fb)
	return render(t.renderer, templates.Decision, d)
}
