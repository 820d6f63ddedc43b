// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it opens storage, builds the engine and
// hands both to the tools, prompts and resources. No business logic lives
// here, only wiring.
package server

import (
	"fmt"
	"log"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/IlumCI/HACF/internal/config"
	"github.com/IlumCI/HACF/internal/engine"
	"github.com/IlumCI/HACF/internal/logging"
	"github.com/IlumCI/HACF/internal/memtools"
	"github.com/IlumCI/HACF/internal/prompts"
	"github.com/IlumCI/HACF/internal/resources"
	"github.com/IlumCI/HACF/internal/sequencer"
	"github.com/IlumCI/HACF/internal/storage"
	"github.com/IlumCI/HACF/internal/templates"
	"github.com/IlumCI/HACF/internal/tools"
)

// Name is the MCP server name.
const Name = "hacf"

// Version is set at build time via ldflags.
var Version = "dev"

// openStore is a package-level var to allow test injection.
var openStore = storage.New

// New creates and configures the MCP server with all tools, prompts and
// resources registered.
//
// Storage is optional: if it is disabled or fails to open, the server
// still offers the stateless tools and keeps memories in process, but the
// session and checkpoint tools are not registered.
//
// The returned cleanup function closes the store and must be called on
// shutdown. It is always non-nil.
func New(cfg *config.Config, logger *slog.Logger) (*server.MCPServer, func(), error) {
	if cfg == nil {
		cfg = config.Default()
	}
	logger = logging.OrNop(logger)

	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, noop, fmt.Errorf("creating template renderer: %w", err)
	}

	// --- Open storage ---

	cleanup := noop
	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithMemoryLimits(cfg.Memory.DefaultLimit, cfg.Memory.SummaryLimit),
	}
	if cfg.Planner.Seed != 0 {
		opts = append(opts, engine.WithRandom(sequencer.NewRandom(cfg.Planner.Seed)))
	}

	var store *storage.Store
	if !cfg.Storage.Disabled {
		store, err = openStore(storage.Config{
			DataDir:     cfg.Storage.DataDir,
			MaxSessions: cfg.Storage.MaxSessions,
		})
		if err != nil {
			log.Printf("WARNING: storage disabled, sessions unavailable: %v", err)
			store = nil
		}
	}
	if store != nil {
		opts = append(opts, engine.WithPersistence(store), engine.WithMemoryRepository(store))
		cleanup = func() {
			if err := store.Close(); err != nil {
				log.Printf("WARNING: storage close: %v", err)
			}
		}
	}

	eng := engine.New(opts...)

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		Name,
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions(eng.Persistent())),
	)

	// --- Register stateless tools ---

	scoreTool := tools.NewScoreComplexityTool(eng, renderer)
	s.AddTool(scoreTool.Definition(), scoreTool.Handle)

	planTool := tools.NewPlanSequenceTool(eng, renderer)
	s.AddTool(planTool.Definition(), planTool.Handle)

	nextTool := tools.NewNextStageTool(eng, renderer)
	s.AddTool(nextTool.Definition(), nextTool.Handle)

	paramsTool := tools.NewStageParametersTool(eng, renderer)
	s.AddTool(paramsTool.Definition(), paramsTool.Handle)

	evaluateTool := tools.NewEvaluateTool(eng, renderer)
	s.AddTool(evaluateTool.Definition(), evaluateTool.Handle)

	briefTool := tools.NewStageBriefTool(eng, renderer)
	s.AddTool(briefTool.Definition(), briefTool.Handle)

	checkpointsTool := tools.NewCheckpointsTool(eng, renderer)
	s.AddTool(checkpointsTool.Definition(), checkpointsTool.Handle)

	catalogTool := tools.NewStageCatalogTool(renderer)
	s.AddTool(catalogTool.Definition(), catalogTool.Handle)

	// --- Register memory tools ---
	//
	// Memory works with or without storage; without it records live only
	// as long as the process.

	registerMemoryTools(s, eng, renderer)

	// --- Register session tools ---

	if eng.Persistent() {
		registerSessionTools(s, eng, renderer)
	}

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Register resources ---

	var sessions resources.SessionSource
	if store != nil {
		sessions = store
	}
	resourceHandler := resources.NewHandler(renderer, sessions)
	for _, kind := range []string{tools.KindStages, tools.KindNetworks, tools.KindIndustries, tools.KindDomains} {
		s.AddResource(resourceHandler.CatalogResource(kind), resourceHandler.CatalogHandler(kind))
	}
	if store != nil {
		s.AddResource(resourceHandler.SessionsResource(), resourceHandler.HandleSessions)
	}

	logger.Info("server: ready", "version", Version, "persistent", eng.Persistent())
	return s, cleanup, nil
}

// noop is the cleanup used when there is nothing to close.
func noop() {}

func registerMemoryTools(s *server.MCPServer, eng *engine.Engine, r templates.Renderer) {
	createTool := memtools.NewCreateTool(eng)
	s.AddTool(createTool.Definition(), createTool.Handle)

	queryTool := memtools.NewQueryTool(eng, r)
	s.AddTool(queryTool.Definition(), queryTool.Handle)

	summaryTool := memtools.NewSummaryTool(eng, r)
	s.AddTool(summaryTool.Definition(), summaryTool.Handle)
}

func registerSessionTools(s *server.MCPServer, eng *engine.Engine, r templates.Renderer) {
	startTool := tools.NewSessionStartTool(eng, r)
	s.AddTool(startTool.Definition(), startTool.Handle)

	advanceTool := tools.NewSessionAdvanceTool(eng, r)
	s.AddTool(advanceTool.Definition(), advanceTool.Handle)

	statusTool := tools.NewSessionStatusTool(eng, r)
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	feedbackTool := tools.NewCheckpointFeedbackTool(eng, r)
	s.AddTool(feedbackTool.Definition(), feedbackTool.Handle)
}

// serverInstructions returns the system instructions that tell the model
// how to use HACF.
func serverInstructions(persistent bool) string {
	base := `You have access to HACF, an adaptive sequencing, memory and evaluation engine for
multi-stage software delivery work.

## THE WORKFLOW

HACF models delivery as twelve stages (0 to 11): requirement validation, task
definition, analysis and research, refinement, prototyping, development,
testing and QA, optimization, deployment preparation, final output,
monitoring and feedback, evolution and maintenance. Not every project visits
every stage. HACF picks a transition network from the project's industry and
project_type, then moves between stages based on feedback satisfaction.

## PROJECT METADATA

Most tools take a metadata object. Keys: domain, industry (e.g. healthcare,
finance, education), estimated_code_size (lines of code), features (list),
integrations (list), project_type. Missing or malformed metadata never fails
a call: HACF falls back to defaults, the standard network and the default
plan.

## TYPICAL FLOW

1. hacf_score_complexity to see how demanding the project is
2. hacf_plan_sequence to preview the stage path
3. hacf_stage_brief before working on a stage: responsibilities, parameters,
   evaluation criteria, memory and human checkpoints in one call
4. hacf_mem_create to record constraints, decisions, errors and insights as
   you go; hacf_mem_query and hacf_mem_summary to recall them
5. hacf_evaluate on the stage output; pass real scores when you have them,
   otherwise metrics are simulated
6. hacf_next_stage with satisfaction (0-1) to choose what comes next. Low
   satisfaction makes HACF try an alternative stage or repeat the current one.

## MEMORY TYPES

context, decision, error, constraint, insight, preference, artifact.
Constraints are critical priority and rank highest in queries. Record them
early.
`
	if !persistent {
		return base + `
## STORAGE

Storage is disabled in this server. Session and checkpoint feedback tools are
not available and memories are lost when the server stops.
`
	}
	return base + `
## SESSIONS

With hacf_session_start the project gets a session ID and a stored plan.
Pass the session_id to the brief, evaluate, memory and checkpoint tools.
hacf_session_advance completes the current stage with feedback;
hacf_session_status shows history and can pause, resume, complete or
mark a session failed.

## HUMAN CHECKPOINTS

Every stage has human checkpoints (review, guidance, correction, extension,
decision), with extra ones in healthcare and finance. Run hacf_checkpoints with the session_id to open them,
ask the user, then submit the answer with hacf_checkpoint_feedback (rating
1-5), or action=skip for optional ones. Set advance=true to move the session
with that feedback. Required checkpoints cannot be skipped.
`
}
