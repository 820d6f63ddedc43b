package memtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/IlumCI/HACF/internal/engine"
	"github.com/IlumCI/HACF/internal/memory"
	"github.com/IlumCI/HACF/internal/templates"
)

// QueryTool handles the hacf_mem_query MCP tool.
type QueryTool struct {
	engine   *engine.Engine
	renderer templates.Renderer
}

// NewQueryTool creates a QueryTool.
func NewQueryTool(e *engine.Engine, r templates.Renderer) *QueryTool {
	return &QueryTool{engine: e, renderer: r}
}

// Definition returns the MCP tool definition for hacf_mem_query.
func (t *QueryTool) Definition() mcp.Tool {
	return mcp.NewTool("hacf_mem_query",
		mcp.WithDescription(
			"Recall the session's memories most relevant to the stage about to run. Records are ranked "+
				"by priority, stage proximity, keyword matches and past usage; every returned record counts as used.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session to search"),
		),
		mcp.WithNumber("stage",
			mcp.Required(),
			mcp.Description("Stage about to run (0-11)"),
		),
		mcp.WithArray("keywords",
			mcp.Description("Words to match in memory content"),
			mcp.WithStringItems(),
		),
		mcp.WithArray("types",
			mcp.Description("Only return these memory types"),
			mcp.WithStringItems(mcp.Enum(typeNames()...)),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default from configuration, usually 10)"),
			mcp.Min(0),
		),
	)
}

// Handle processes the hacf_mem_query tool call.
func (t *QueryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := strings.TrimSpace(req.GetString("session_id", ""))
	if sessionID == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}
	stage, err := stageArg(req, "stage")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	keywords, err := wordsArg(req, "keywords")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	names, err := wordsArg(req, "types")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	types := make([]memory.Type, 0, len(names))
	for _, n := range names {
		typ := memory.Type(n)
		if err := memory.ValidateType(typ); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		types = append(types, typ)
	}
	limit := intArg(req, "limit", 0)
	if limit < 0 {
		return mcp.NewToolResultError(fmt.Sprintf("'limit' must not be negative, got %d", limit)), nil
	}

	records := t.engine.QueryMemory(ctx, memory.QueryOptions{
		SessionID:    sessionID,
		CurrentStage: stage,
		Keywords:     keywords,
		Types:        types,
		Limit:        limit,
	})

	content, err := t.renderer.Render(templates.Memories, templates.MemoriesData{
		SessionID: sessionID,
		Stage:     stage,
		Records:   records,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering memories: %w", err)
	}
	return mcp.NewToolResultText(content), nil
}
