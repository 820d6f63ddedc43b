// Package resources implements the MCP resources HACF exposes.
//
// Resources are read-only data the host can pull into context. They use
// hacf:// URIs: the static catalog as markdown, and a JSON overview of
// recent sessions when storage is available.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/IlumCI/HACF/internal/sequencer"
	"github.com/IlumCI/HACF/internal/storage"
	"github.com/IlumCI/HACF/internal/templates"
	"github.com/IlumCI/HACF/internal/tools"
)

// SessionsURI addresses the recent sessions overview.
const SessionsURI = "hacf://sessions/recent"

// SessionSource lists stored sessions. storage.Store implements it.
type SessionSource interface {
	RecentSessions(ctx context.Context, status sequencer.Status, limit int) ([]storage.SessionSummary, error)
	Stats(ctx context.Context) (*storage.Stats, error)
}

// Handler manages HACF resource endpoints.
type Handler struct {
	renderer templates.Renderer
	sessions SessionSource
}

// NewHandler creates a resource Handler. sessions may be nil when the
// server runs without storage.
func NewHandler(r templates.Renderer, sessions SessionSource) *Handler {
	return &Handler{renderer: r, sessions: sessions}
}

// CatalogURI returns the URI of a catalog kind, e.g. hacf://catalog/stages.
func CatalogURI(kind string) string {
	return "hacf://catalog/" + kind
}

// CatalogResource returns the MCP resource definition for a catalog kind.
func (h *Handler) CatalogResource(kind string) mcp.Resource {
	return mcp.NewResource(
		CatalogURI(kind),
		fmt.Sprintf("HACF %s catalog", kind),
		mcp.WithResourceDescription(fmt.Sprintf("Static HACF %s reference", kind)),
		mcp.WithMIMEType("text/markdown"),
	)
}

// CatalogHandler returns the read handler for a catalog kind.
func (h *Handler) CatalogHandler(kind string) func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return func(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		name, data, ok := tools.CatalogView(kind)
		if !ok {
			return errorResource(req.Params.URI, fmt.Sprintf("unknown catalog %q", kind)), nil
		}
		text, err := h.renderer.Render(name, data)
		if err != nil {
			return nil, fmt.Errorf("rendering %s catalog: %w", kind, err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "text/markdown",
				Text:     text,
			},
		}, nil
	}
}

// SessionsResource returns the MCP resource definition for recent sessions.
func (h *Handler) SessionsResource() mcp.Resource {
	return mcp.NewResource(
		SessionsURI,
		"HACF Recent Sessions",
		mcp.WithResourceDescription("Store counts and the most recently updated sessions"),
		mcp.WithMIMEType("application/json"),
	)
}

type sessionsView struct {
	Stats    *storage.Stats           `json:"stats"`
	Sessions []storage.SessionSummary `json:"sessions"`
}

// HandleSessions returns store counts and recent sessions as JSON.
func (h *Handler) HandleSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.sessions == nil {
		return errorResource(req.Params.URI, "storage is disabled"), nil
	}

	stats, err := h.sessions.Stats(ctx)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	recent, err := h.sessions.RecentSessions(ctx, "", 0)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	if recent == nil {
		recent = []storage.SessionSummary{}
	}

	data, err := json.MarshalIndent(sessionsView{Stats: stats, Sessions: recent}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling sessions: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
