package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/IlumCI/HACF/internal/engine"
	"github.com/IlumCI/HACF/internal/templates"
)

// EvaluateTool handles the hacf_evaluate MCP tool.
type EvaluateTool struct {
	engine   *engine.Engine
	renderer templates.Renderer
}

// NewEvaluateTool creates an EvaluateTool.
func NewEvaluateTool(e *engine.Engine, r templates.Renderer) *EvaluateTool {
	return &EvaluateTool{engine: e, renderer: r}
}

// Definition returns the MCP tool definition for registration.
func (t *EvaluateTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Score a stage's output on the stage's criteria (industry-adjusted), roll the criteria up into " +
				"quality dimensions and recommend improvements. Without scores the metrics are simulated and " +
				"the result is flagged; supplied scores count missing criteria as 0. With a session_id the evaluation is recorded.",
		),
		mcp.WithNumber("stage",
			mcp.Required(),
			mcp.Description("Stage whose output is evaluated (0-11)"),
		),
		mcp.WithString("output",
			mcp.Description("The stage output being evaluated"),
		),
		mcp.WithObject("scores",
			mcp.Description("Criterion scores in [0,1], e.g. {\"accuracy\": 0.9, \"test_coverage\": 0.6}"),
		),
		mcp.WithString("session_id",
			mcp.Description("Session to record the evaluation against"),
		),
	}
	return mcp.NewTool("hacf_evaluate", append(opts, projectOptions()...)...)
}

// Handle processes the hacf_evaluate tool call.
func (t *EvaluateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stage, err := stageArg(req, "stage")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	scores, err := scoresArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sessionID := req.GetString("session_id", "")
	res := t.engine.Evaluate(ctx, sessionID, projectArg(req), stage, req.GetString("output", ""), scores)
	return render(t.renderer, templates.Evaluation, templates.EvaluationData{SessionID: sessionID, Result: res})
}
