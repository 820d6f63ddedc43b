package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/IlumCI/HACF/internal/engine"
	"github.com/IlumCI/HACF/internal/templates"
)

// PlanSequenceTool handles the hacf_plan_sequence MCP tool.
type PlanSequenceTool struct {
	engine   *engine.Engine
	renderer templates.Renderer
}

// NewPlanSequenceTool creates a PlanSequenceTool.
func NewPlanSequenceTool(e *engine.Engine, r templates.Renderer) *PlanSequenceTool {
	return &PlanSequenceTool{engine: e, renderer: r}
}

// Definition returns the MCP tool definition for registration.
func (t *PlanSequenceTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Project the stage sequence for a new project: pick the transition network for its industry " +
				"and complexity, then lay out the stages from requirement validation onward. " +
				"Plans are a projection; the actual path follows feedback via hacf_next_stage.",
		),
	}
	return mcp.NewTool("hacf_plan_sequence", append(opts, projectOptions()...)...)
}

// Handle processes the hacf_plan_sequence tool call.
func (t *PlanSequenceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plan := t.engine.PlanSequence(ctx, projectArg(req))
	return render(t.renderer, templates.Plan, plan)
}
