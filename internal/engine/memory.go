package engine

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/IlumCI/HACF/internal/catalog"
	"github.com/IlumCI/HACF/internal/memory"
	"github.com/IlumCI/HACF/internal/metrics"
)

// CreateMemory records a note for later stages of a session.
func (e *Engine) CreateMemory(ctx context.Context, sessionID string, stage catalog.Stage, typ memory.Type, content string, md map[string]any) (rec memory.Record, err error) {
	ctx, span, done := e.begin(ctx, "CreateMemory", sessionAttr(sessionID), stageAttr(stage))
	defer done(func() { rec, err = memory.Record{}, ErrInternal })

	rec, err = e.memory.CreateMemory(ctx, sessionID, stage, typ, content, md)
	if err != nil {
		return memory.Record{}, fail(span, err)
	}
	metrics.RecordMemoryCreated(string(rec.Type))
	span.SetAttributes(
		attribute.String("hacf.memory_type", string(rec.Type)),
		attribute.String("hacf.memory_priority", string(rec.Priority)),
	)
	return rec, nil
}

// QueryMemory returns the records most relevant to the current stage. Any
// failure yields an empty list.
func (e *Engine) QueryMemory(ctx context.Context, opts memory.QueryOptions) (out []memory.Record) {
	ctx, span, done := e.begin(ctx, "QueryMemory", sessionAttr(opts.SessionID), stageAttr(opts.CurrentStage))
	defer done(func() { out = []memory.Record{} })

	records, err := e.memory.Query(ctx, opts)
	if err != nil {
		e.degrade(span, "QueryMemory", "error", err, "session_id", opts.SessionID)
		return []memory.Record{}
	}
	metrics.RecordMemoryQuery(len(records))
	span.SetAttributes(attribute.Int("hacf.results", len(records)))
	return records
}

// SummarizeMemory condenses a session's constraints, decisions and errors
// for a stage. Any failure yields an empty summary.
func (e *Engine) SummarizeMemory(ctx context.Context, sessionID string, stage catalog.Stage) (sum memory.Summary) {
	ctx, span, done := e.begin(ctx, "SummarizeMemory", sessionAttr(sessionID), stageAttr(stage))
	defer done(func() { sum = memory.Summary{} })

	sum, err := e.memory.Summarize(ctx, sessionID, stage)
	if err != nil {
		e.degrade(span, "SummarizeMemory", "error", err, "session_id", sessionID)
		return memory.Summary{}
	}
	span.SetAttributes(attribute.Int("hacf.results", sum.Count))
	return sum
}
