// Package templates renders engine results as markdown for MCP clients and
// the CLI. Templates are embedded at build time.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/IlumCI/HACF/internal/advisor"
	"github.com/IlumCI/HACF/internal/catalog"
	"github.com/IlumCI/HACF/internal/checkpoint"
	"github.com/IlumCI/HACF/internal/evaluation"
	"github.com/IlumCI/HACF/internal/memory"
	"github.com/IlumCI/HACF/internal/sequencer"
)

//go:embed files/*.md.tmpl
var files embed.FS

// Template names.
const (
	Profile     = "profile.md.tmpl"
	Plan        = "plan.md.tmpl"
	Decision    = "decision.md.tmpl"
	Parameters  = "parameters.md.tmpl"
	Evaluation  = "evaluation.md.tmpl"
	Brief       = "brief.md.tmpl"
	Session     = "session.md.tmpl"
	Sessions    = "sessions.md.tmpl"
	Checkpoints = "checkpoints.md.tmpl"
	Checkpoint  = "checkpoint.md.tmpl"
	Memories    = "memories.md.tmpl"
	Summary     = "summary.md.tmpl"
	Stages      = "stages.md.tmpl"
	Networks    = "networks.md.tmpl"
	Industries  = "industries.md.tmpl"
	Domains     = "domains.md.tmpl"
)

// Renderer renders a named template with data.
type Renderer interface {
	Render(name string, data any) (string, error)
}

// EmbedRenderer renders the embedded templates.
type EmbedRenderer struct {
	templates *template.Template
}

// NewRenderer parses every embedded template.
func NewRenderer() (*EmbedRenderer, error) {
	t, err := template.New("").Funcs(funcs).ParseFS(files, "files/*.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &EmbedRenderer{templates: t}, nil
}

// Render executes the named template.
func (r *EmbedRenderer) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}

// ─── Template data ──────────────────────────────────────────────────────────

// ParametersData is the input for Parameters.
type ParametersData struct {
	Stage      catalog.Stage
	Parameters advisor.Parameters
}

// EvaluationData is the input for Evaluation. SessionID is set when the
// result was recorded against a session.
type EvaluationData struct {
	SessionID string
	evaluation.Result
}

// SessionData is the input for Session. Decision is set right after an
// advance.
type SessionData struct {
	Session  *sequencer.Session
	Decision *sequencer.Decision
}

// CheckpointsData is the input for Checkpoints. Checkpoints holds opened
// session checkpoints; Definitions is shown when there are none.
type CheckpointsData struct {
	SessionID   string
	Stage       catalog.Stage
	Definitions []checkpoint.Definition
	Checkpoints []checkpoint.Checkpoint
}

// CheckpointData is the input for Checkpoint.
type CheckpointData struct {
	Checkpoint checkpoint.Checkpoint
	Processed  *checkpoint.Processed
	Decision   *sequencer.Decision
}

// MemoriesData is the input for Memories.
type MemoriesData struct {
	SessionID string
	Stage     catalog.Stage
	Records   []memory.Record
}

// SummaryData is the input for Summary.
type SummaryData struct {
	SessionID string
	Stage     catalog.Stage
	Summary   memory.Summary
}

// NetworkData is one entry of the Networks input.
type NetworkData struct {
	Name      catalog.NetworkName
	Adjacency map[catalog.Stage][]catalog.Stage
}

// NetworkCatalog builds the Networks input from the registered networks.
func NetworkCatalog() []NetworkData {
	names := catalog.Networks()
	out := make([]NetworkData, 0, len(names))
	for _, name := range names {
		n, _ := catalog.LookupNetwork(name)
		out = append(out, NetworkData{Name: name, Adjacency: n.Adjacency()})
	}
	return out
}

// ─── Functions ──────────────────────────────────────────────────────────────

var funcs = template.FuncMap{
	"add":     func(a, b int) int { return a + b },
	"f2":      func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
	"join":    func(s []string) string { return strings.Join(s, ", ") },
	"oneline": oneline,
	"stages":  joinStages,
}

var cellEscaper = strings.NewReplacer("\r\n", " ", "\n", " ", "|", `\|`)

// oneline makes text safe for a markdown table cell.
func oneline(s string) string {
	return cellEscaper.Replace(strings.TrimSpace(s))
}

func joinStages(ss []catalog.Stage, sep string) string {
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = strconv.Itoa(int(s))
	}
	return strings.Join(parts, sep)
}
