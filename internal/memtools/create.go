package memtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cast"

	"github.com/IlumCI/HACF/internal/engine"
	"github.com/IlumCI/HACF/internal/memory"
)

// CreateTool handles the hacf_mem_create MCP tool.
type CreateTool struct {
	engine *engine.Engine
}

// NewCreateTool creates a CreateTool.
func NewCreateTool(e *engine.Engine) *CreateTool {
	return &CreateTool{engine: e}
}

// Definition returns the MCP tool definition for hacf_mem_create.
func (t *CreateTool) Definition() mcp.Tool {
	return mcp.NewTool("hacf_mem_create",
		mcp.WithDescription(
			"Record a note produced while running a stage so later stages can recall it. "+
				"Constraints and errors rank highest, decisions next. Call this after every stage "+
				"for the decisions made, constraints discovered and errors hit.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session the memory belongs to"),
		),
		mcp.WithNumber("stage",
			mcp.Required(),
			mcp.Description("Stage that produced the memory (0-11)"),
		),
		mcp.WithString("type",
			mcp.Description("Kind of memory (default: context); unknown types are stored as context"),
			mcp.Enum(typeNames()...),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The note itself, one fact per memory"),
		),
		mcp.WithObject("metadata",
			mcp.Description("Optional free-form attributes stored with the memory"),
		),
	)
}

// Handle processes the hacf_mem_create tool call.
func (t *CreateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := strings.TrimSpace(req.GetString("session_id", ""))
	if sessionID == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}
	content := strings.TrimSpace(req.GetString("content", ""))
	if content == "" {
		return mcp.NewToolResultError("'content' is required"), nil
	}
	stage, err := stageArg(req, "stage")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var md map[string]any
	if v := req.GetArguments()["metadata"]; v != nil {
		if md, err = cast.ToStringMapE(v); err != nil {
			return mcp.NewToolResultError("'metadata' must be an object"), nil
		}
	}

	typ := memory.Type(req.GetString("type", string(memory.TypeContext)))
	rec, err := t.engine.CreateMemory(ctx, sessionID, stage, typ, content, md)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save memory: %v", err)), nil
	}

	response := fmt.Sprintf("Memory saved: %s (%s, %s priority)", rec.ID, rec.Type, rec.Priority)
	response += fmt.Sprintf("\nSession: %s\nStage: %d (%s)", rec.SessionID, rec.SourceStage, rec.SourceStage.Name())
	return mcp.NewToolResultText(response), nil
}
