// Package tools implements the MCP tools for planning, evaluation, sessions
// and human checkpoints.
//
// Each tool is a struct holding its dependencies, a Definition() with the
// MCP schema and a Handle() for calls, one tool per file. User mistakes come
// back as tool errors; only internal failures return a Go error.
package tools

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cast"

	"github.com/IlumCI/HACF/internal/catalog"
	"github.com/IlumCI/HACF/internal/project"
	"github.com/IlumCI/HACF/internal/sequencer"
	"github.com/IlumCI/HACF/internal/templates"
)

// projectOptions declares the arguments every project-based tool takes.
func projectOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("project_id",
			mcp.Description("Identifier of the project being planned"),
		),
		mcp.WithString("metadata",
			mcp.Description("Project metadata as a JSON object: domain, industry, estimated_code_size, features, integrations, project_type. Missing fields take defaults."),
		),
	}
}

// projectArg builds the project from the call. Metadata may be a JSON
// string or an object; anything unreadable is left for the engine to
// default.
func projectArg(req mcp.CallToolRequest) *project.Project {
	id := req.GetString("project_id", "")
	switch md := req.GetArguments()["metadata"].(type) {
	case nil:
		return project.FromJSON(id, "")
	case string:
		return project.FromJSON(id, md)
	case map[string]any:
		return project.New(id, md)
	default:
		return project.FromJSON(id, cast.ToString(md))
	}
}

var errMissing = errors.New("is required")

// stageArg reads a stage number. Out-of-catalog stages are accepted; the
// engine decides how to treat them.
func stageArg(req mcp.CallToolRequest, key string) (catalog.Stage, error) {
	v, ok := req.GetArguments()[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("'%s' %w", key, errMissing)
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, fmt.Errorf("'%s' must be a stage number, got %v", key, v)
	}
	return catalog.Stage(n), nil
}

// stringsArg reads a list of strings, accepting a single string too.
func stringsArg(req mcp.CallToolRequest, key string) ([]string, error) {
	v, ok := req.GetArguments()[key]
	if !ok || v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok {
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}
		return []string{s}, nil
	}
	out, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil, fmt.Errorf("'%s' must be a list of strings", key)
	}
	return out, nil
}

// correctionsArg reads an area -> correction object.
func correctionsArg(req mcp.CallToolRequest) (map[string]string, error) {
	v, ok := req.GetArguments()["specific_corrections"]
	if !ok || v == nil {
		return nil, nil
	}
	out, err := cast.ToStringMapStringE(v)
	if err != nil {
		return nil, errors.New("'specific_corrections' must be an object of area to correction")
	}
	return out, nil
}

// feedbackOptions declares the stage feedback arguments.
func feedbackOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("satisfaction",
			mcp.Description("Reviewer satisfaction with the stage output, 0 to 1 (default 0.7)"),
			mcp.Min(0),
			mcp.Max(1),
		),
		mcp.WithString("comments",
			mcp.Description("Free-form reviewer comments"),
		),
		mcp.WithArray("suggestions",
			mcp.Description("Improvement suggestions"),
			mcp.WithStringItems(),
		),
		mcp.WithObject("specific_corrections",
			mcp.Description("Corrections keyed by area, e.g. {\"security\": \"encrypt at rest\"}"),
		),
	}
}

// feedbackArg reads stage feedback. Satisfaction stays nil when absent so
// the sequencer applies its default.
func feedbackArg(req mcp.CallToolRequest) (sequencer.Feedback, error) {
	var fb sequencer.Feedback
	if v, ok := req.GetArguments()["satisfaction"]; ok && v != nil {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return fb, fmt.Errorf("'satisfaction' must be a number, got %v", v)
		}
		if f < 0 || f > 1 {
			return fb, fmt.Errorf("'satisfaction' must be between 0 and 1, got %v", f)
		}
		fb.Satisfaction = &f
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

// scoresArg reads criterion -> score pairs.
func scoresArg(req mcp.CallToolRequest) (map[string]float64, error) {
	v, ok := req.GetArguments()["scores"]
	if !ok || v == nil {
		return nil, nil
	}
	raw, err := cast.ToStringMapE(v)
	if err != nil {
		return nil, errors.New("'scores' must be an object of criterion to number")
	}
	out := make(map[string]float64, len(raw))
	for _, k := range slices.Sorted(maps.Keys(raw)) {
		f, err := cast.ToFloat64E(raw[k])
		if err != nil {
			return nil, fmt.Errorf("score for %q must be a number, got %v", k, raw[k])
		}
		if f < 0 || f > 1 {
			return nil, fmt.Errorf("score for %q must be between 0 and 1, got %v", k, f)
		}
		out[k] = f
	}
	return out, nil
}

// render renders a template into a text result.
func render(r templates.Renderer, name string, data any) (*mcp.CallToolResult, error) {
	content, err := r.Render(name, data)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}
	return mcp.NewToolResultText(content), nil
}
