package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the hacf-status MCP prompt.
// It instructs the model to read a session and say what comes next.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("hacf-status",
		mcp.WithPromptDescription(
			"Check an HACF session: current stage, visit history, pending checkpoints "+
				"and what to do next.",
		),
		mcp.WithArgument("session_id",
			mcp.ArgumentDescription("Session to inspect"),
			mcp.RequiredArgument(),
		),
	)
}

// Handle processes the hacf-status prompt request.
func (p *StatusPrompt) Handle(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	sessionID := strings.TrimSpace(req.Params.Arguments["session_id"])
	if sessionID == "" {
		return nil, fmt.Errorf("session_id is required")
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("HACF session status: %s", sessionID),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Please run `hacf_session_status` with session_id='%s'.\n\n"+
						"Then:\n"+
						"1. Show me where the session is in its plan and how the last transitions went\n"+
						"2. Run `hacf_checkpoints` for the current stage with the same session_id and list anything pending\n"+
						"3. Run `hacf_mem_summary` for the current stage and point out constraints I should keep in mind\n"+
						"4. Tell me exactly what I should do next",
					sessionID,
				)),
			},
		},
	}, nil
}
