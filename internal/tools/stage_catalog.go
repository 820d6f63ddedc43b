package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/IlumCI/HACF/internal/catalog"
	"github.com/IlumCI/HACF/internal/specialization"
	"github.com/IlumCI/HACF/internal/templates"
)

// Catalog kinds served by hacf_stage_catalog.
const (
	KindStages     = "stages"
	KindNetworks   = "networks"
	KindIndustries = "industries"
	KindDomains    = "domains"
)

// StageCatalogTool handles the hacf_stage_catalog MCP tool.
type StageCatalogTool struct {
	renderer templates.Renderer
}

// NewStageCatalogTool creates a StageCatalogTool.
func NewStageCatalogTool(r templates.Renderer) *StageCatalogTool {
	return &StageCatalogTool{renderer: r}
}

// Definition returns the MCP tool definition for registration.
func (t *StageCatalogTool) Definition() mcp.Tool {
	return mcp.NewTool("hacf_stage_catalog",
		mcp.WithDescription(
			"List the static catalog: the twelve workflow stages, the transition networks, "+
				"the industry profiles or the domain specializations.",
		),
		mcp.WithString("kind",
			mcp.Description("What to list (default: stages)"),
			mcp.Enum(KindStages, KindNetworks, KindIndustries, KindDomains),
		),
	)
}

// Handle processes the hacf_stage_catalog tool call.
func (t *StageCatalogTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := req.GetString("kind", KindStages)
	name, data, ok := CatalogView(kind)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown kind %q: use stages, networks, industries or domains", kind)), nil
	}
	return render(t.renderer, name, data)
}

// CatalogView returns the template and data that present a catalog kind.
func CatalogView(kind string) (name string, data any, ok bool) {
	switch kind {
	case KindStages:
		return templates.Stages, catalog.Stages(), true
	case KindNetworks:
		return templates.Networks, templates.NetworkCatalog(), true
	case KindIndustries:
		names := catalog.Industries()
		profiles := make([]catalog.IndustryProfile, 0, len(names))
		for _, n := range names {
			p, _ := catalog.Industry(n)
			profiles = append(profiles, p)
		}
		return templates.Industries, profiles, true
	case KindDomains:
		return templates.Domains, specialization.Available(), true
	}
	return "", nil, false
}
