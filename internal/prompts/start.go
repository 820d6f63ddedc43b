// Package prompts implements the MCP prompts HACF offers.
//
// Prompts are user-triggered workflows (like slash commands). They do not
// touch the engine; they tell the model which hacf_* tools to run in which
// order.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the hacf-start MCP prompt.
// It walks the model from describing a project to its first stage brief.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("hacf-start",
		mcp.WithPromptDescription(
			"Start an HACF session: describe the project, score its complexity, "+
				"plan the stage sequence and get the brief for the first stage.",
		),
		mcp.WithArgument("industry",
			mcp.ArgumentDescription("Industry of the project, e.g. healthcare, finance, ecommerce. Optional."),
		),
		mcp.WithArgument("description",
			mcp.ArgumentDescription("One-line description of what is being built. Optional."),
		),
	)
}

// Handle processes the hacf-start prompt request.
func (p *StartPrompt) Handle(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	industry := strings.TrimSpace(req.Params.Arguments["industry"])
	description := strings.TrimSpace(req.Params.Arguments["description"])

	var known strings.Builder
	if industry != "" {
		fmt.Fprintf(&known, "- industry: %s\n", industry)
	}
	if description != "" {
		fmt.Fprintf(&known, "- description: %s\n", description)
	}
	if known.Len() == 0 {
		known.WriteString("- nothing yet, ask me\n")
	}

	title := "Start HACF session"
	if industry != "" {
		title = fmt.Sprintf("Start HACF session (%s)", industry)
	}

	return &mcp.GetPromptResult{
		Description: title,
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"I want to run a project through the HACF workflow.\n\n" +
						"What you know so far:\n" + known.String() + "\n" +
						"Please:\n" +
						"1. Ask me for any missing project metadata: domain, industry, estimated_code_size, " +
						"features, integrations, project_type\n" +
						"2. Run `hacf_score_complexity` with that metadata and show me the profile\n" +
						"3. Run `hacf_session_start` with the same metadata (fall back to `hacf_plan_sequence` " +
						"if session tools are unavailable)\n" +
						"4. Run `hacf_stage_brief` for the first planned stage and follow it\n" +
						"5. Before finishing a stage, check `hacf_checkpoints` and ask me for feedback on each one",
				),
			},
		},
	}, nil
}
