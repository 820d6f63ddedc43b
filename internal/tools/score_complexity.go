package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/IlumCI/HACF/internal/engine"
	"github.com/IlumCI/HACF/internal/templates"
)

// ScoreComplexityTool handles the hacf_score_complexity MCP tool.
type ScoreComplexityTool struct {
	engine   *engine.Engine
	renderer templates.Renderer
}

// NewScoreComplexityTool creates a ScoreComplexityTool.
func NewScoreComplexityTool(e *engine.Engine, r templates.Renderer) *ScoreComplexityTool {
	return &ScoreComplexityTool{engine: e, renderer: r}
}

// Definition returns the MCP tool definition for registration.
func (t *ScoreComplexityTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Classify a project's complexity as low, medium or high from its code size, " +
				"domain, feature count and integration count. Malformed metadata yields the default medium profile.",
		),
	}
	return mcp.NewTool("hacf_score_complexity", append(opts, projectOptions()...)...)
}

// Handle processes the hacf_score_complexity tool call.
func (t *ScoreComplexityTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profile := t.engine.ScoreComplexity(ctx, projectArg(req))
	return render(t.renderer, templates.Profile, profile)
}
