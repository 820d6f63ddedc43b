package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/IlumCI/HACF/internal/engine"
	"github.com/IlumCI/HACF/internal/templates"
)

// StageParametersTool handles the hacf_stage_parameters MCP tool.
type StageParametersTool struct {
	engine   *engine.Engine
	renderer templates.Renderer
}

// NewStageParametersTool creates a StageParametersTool.
func NewStageParametersTool(e *engine.Engine, r templates.Renderer) *StageParametersTool {
	return &StageParametersTool{engine: e, renderer: r}
}

// Definition returns the MCP tool definition for registration.
func (t *StageParametersTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Recommend generation parameters (max_tokens, temperature, depth, focus areas) " +
				"for running a stage on a project of the given complexity.",
		),
		mcp.WithNumber("stage",
			mcp.Required(),
			mcp.Description("Stage to run (0-11)"),
		),
	}
	return mcp.NewTool("hacf_stage_parameters", append(opts, projectOptions()...)...)
}

// Handle processes the hacf_stage_parameters tool call.
func (t *StageParametersTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stage, err := stageArg(req, "stage")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	params := t.engine.StageParameters(ctx, projectArg(req), stage)
	return render(t.renderer, templates.Parameters, templates.ParametersData{Stage: stage, Parameters: params})
}
