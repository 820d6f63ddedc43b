package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cast"

	"github.com/IlumCI/HACF/internal/checkpoint"
	"github.com/IlumCI/HACF/internal/engine"
	"github.com/IlumCI/HACF/internal/templates"
)

// Checkpoint feedback actions.
const (
	ActionComplete = "complete"
	ActionSkip     = "skip"
)

// CheckpointFeedbackTool handles the hacf_checkpoint_feedback MCP tool.
type CheckpointFeedbackTool struct {
	engine   *engine.Engine
	renderer templates.Renderer
}

// NewCheckpointFeedbackTool creates a CheckpointFeedbackTool.
func NewCheckpointFeedbackTool(e *engine.Engine, r templates.Renderer) *CheckpointFeedbackTool {
	return &CheckpointFeedbackTool{engine: e, renderer: r}
}

// Definition returns the MCP tool definition for registration.
func (t *CheckpointFeedbackTool) Definition() mcp.Tool {
	return mcp.NewTool("hacf_checkpoint_feedback",
		mcp.WithDescription(
			"Resolve a pending human checkpoint. 'complete' records the person's rating and comments, "+
				"derives satisfaction (rating/5), impact and adjustment areas, and with advance=true moves the "+
				"session on using that feedback. 'skip' resolves an optional checkpoint without feedback.",
		),
		mcp.WithString("checkpoint_id",
			mcp.Required(),
			mcp.Description("Checkpoint to resolve, as listed by hacf_checkpoints"),
		),
		mcp.WithString("action",
			mcp.Description("complete (default) or skip"),
			mcp.Enum(ActionComplete, ActionSkip),
		),
		mcp.WithNumber("rating",
			mcp.Description("Rating from 1 to 5 (default 3)"),
			mcp.Min(1),
			mcp.Max(5),
		),
		mcp.WithString("comments",
			mcp.Description("Reviewer comments; asking to improve, enhance or add flags a general adjustment"),
		),
		mcp.WithArray("suggestions",
			mcp.Description("Improvement suggestions"),
			mcp.WithStringItems(),
		),
		mcp.WithObject("specific_corrections",
			mcp.Description("Corrections keyed by area"),
		),
		mcp.WithBoolean("advance",
			mcp.Description("Advance the checkpoint's session with the processed feedback (default false)"),
		),
	)
}

// Handle processes the hacf_checkpoint_feedback tool call.
func (t *CheckpointFeedbackTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := strings.TrimSpace(req.GetString("checkpoint_id", ""))
	if id == "" {
		return mcp.NewToolResultError("'checkpoint_id' is required"), nil
	}

	switch action := req.GetString("action", ActionComplete); action {
	case ActionSkip:
		cp, err := t.engine.SkipCheckpoint(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to skip checkpoint: %v", err)), nil
		}
		return render(t.renderer, templates.Checkpoint, templates.CheckpointData{Checkpoint: cp})
	case ActionComplete:
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown action %q: use complete or skip", action)), nil
	}

	fb, err := humanFeedbackArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cp, p, err := t.engine.ResolveCheckpoint(ctx, id, fb)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to resolve checkpoint: %v", err)), nil
	}
	data := templates.CheckpointData{Checkpoint: cp, Processed: &p}

	if advance, _ := cast.ToBoolE(req.GetArguments()["advance"]); advance {
		_, d, err := t.engine.AdvanceSession(ctx, cp.SessionID, p.Feedback())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("checkpoint resolved but session not advanced: %v", err)), nil
		}
		data.Decision = &d
	}
	return render(t.renderer, templates.Checkpoint, data)
}

// humanFeedbackArg reads checkpoint feedback. The rating range is checked
// by the checkpoint package.
func humanFeedbackArg(req mcp.CallToolRequest) (checkpoint.HumanFeedback, error) {
	var fb checkpoint.HumanFeedback
	if v, ok := req.GetArguments()["rating"]; ok && v != nil {
		n, err := cast.ToIntE(v)
		if err != nil {
			return fb, fmt.Errorf("'rating' must be a whole number from 1 to 5, got %v", v)
		}
		fb.Rating = &n
	}
	fb.Comments = strings.TrimSpace(req.GetString("comments", ""))

	var err error
	if fb.Suggestions, err = stringsArg(req, "suggestions"); err != nil {
		return fb, err
	}
	if fb.SpecificCorrections, err = correctionsArg(req); err != nil {
		return fb, err
	}
	return fb, nil
}
