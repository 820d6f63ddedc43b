package memtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/IlumCI/HACF/internal/engine"
	"github.com/IlumCI/HACF/internal/templates"
)

// SummaryTool handles the hacf_mem_summary MCP tool.
type SummaryTool struct {
	engine   *engine.Engine
	renderer templates.Renderer
}

// NewSummaryTool creates a SummaryTool.
func NewSummaryTool(e *engine.Engine, r templates.Renderer) *SummaryTool {
	return &SummaryTool{engine: e, renderer: r}
}

// Definition returns the MCP tool definition for hacf_mem_summary.
func (t *SummaryTool) Definition() mcp.Tool {
	return mcp.NewTool("hacf_mem_summary",
		mcp.WithDescription(
			"Summarize the constraints, decisions and errors from earlier stages that matter most "+
				"for the stage about to run. Use this to prime a stage prompt.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session to summarize"),
		),
		mcp.WithNumber("stage",
			mcp.Required(),
			mcp.Description("Stage about to run (0-11)"),
		),
	)
}

// Handle processes the hacf_mem_summary tool call.
func (t *SummaryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := strings.TrimSpace(req.GetString("session_id", ""))
	if sessionID == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}
	stage, err := stageArg(req, "stage")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sum := t.engine.SummarizeMemory(ctx, sessionID, stage)
	content, err := t.renderer.Render(templates.Summary, templates.SummaryData{
		SessionID: sessionID,
		Stage:     stage,
		Summary:   sum,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering summary: %w", err)
	}
	return mcp.NewToolResultText(content), nil
}
