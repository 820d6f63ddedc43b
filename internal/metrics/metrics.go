// Package metrics holds the prometheus collectors for the engine. All
// collectors register with the default registry; `hacf serve --metrics-addr`
// exposes them over HTTP.
package metrics

import (
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hacf"

var (
	// plansTotal counts initial plans by network and complexity.
	// Labels: network, complexity (low, medium, high), defaulted (true, false)
	plansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sequencer",
		Name:      "plans_total",
		Help:      "Initial stage plans produced",
	}, []string{"network", "complexity", "defaulted"})

	planLength = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "sequencer",
		Name:      "plan_length",
		Help:      "Number of stages in initial plans",
		Buckets:   []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	})

	// transitionsTotal counts next-stage decisions.
	// Labels: network, reason (standard, alternative, redo, fallback)
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sequencer",
		Name:      "transitions_total",
		Help:      "Next-stage decisions by reason",
	}, []string{"network", "reason"})

	// evaluationScore tracks overall evaluation scores.
	// Labels: stage, simulated (true, false)
	evaluationScore = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "evaluation",
		Name:      "overall_score",
		Help:      "Distribution of overall evaluation scores",
		Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.75, 0.8, 0.85, 0.9, 0.95, 1.0},
	}, []string{"stage", "simulated"})

	// memoriesCreated counts memory records by type.
	memoriesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "memory",
		Name:      "created_total",
		Help:      "Memory records created by type",
	}, []string{"type"})

	memoryQueryResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "memory",
		Name:      "query_results",
		Help:      "Number of records returned per memory query",
		Buckets:   []float64{0, 1, 2, 3, 5, 8, 10, 15, 25, 50},
	})

	// checkpointsResolved counts checkpoint resolutions.
	// Labels: type, status (completed, skipped)
	checkpointsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checkpoint",
		Name:      "resolved_total",
		Help:      "Checkpoints resolved by type and outcome",
	}, []string{"type", "status"})

	// degradations counts entry points that fell back to a safe default.
	// Labels: operation, cause (error, panic, invalid_input)
	degradations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "degradations_total",
		Help:      "Operations that returned their safe default",
	}, []string{"operation", "cause"})

	operationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "operation_seconds",
		Help:      "Engine entry point latency in seconds",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"operation"})
)

// RecordPlan records an initial plan.
func RecordPlan(network, complexity string, stages int, defaulted bool) {
	plansTotal.WithLabelValues(network, complexity, boolLabel(defaulted)).Inc()
	planLength.Observe(float64(stages))
}

// RecordTransition records a next-stage decision.
func RecordTransition(network, reason string) {
	transitionsTotal.WithLabelValues(network, reason).Inc()
}

// RecordEvaluation records an overall evaluation score.
//
// Inputs:
//
//	stage - Stage number as a label value.
//	score - Overall score (0.0-1.0).
//	simulated - Whether the metric scores were simulated.
func RecordEvaluation(stage string, score float64, simulated bool) {
	evaluationScore.WithLabelValues(stage, boolLabel(simulated)).Observe(score)
}

// RecordMemoryCreated records a new memory record.
func RecordMemoryCreated(typ string) {
	memoriesCreated.WithLabelValues(typ).Inc()
}

// RecordMemoryQuery records how many records a query returned.
func RecordMemoryQuery(results int) {
	memoryQueryResults.Observe(float64(results))
}

// RecordCheckpoint records a checkpoint resolution.
func RecordCheckpoint(typ, status string) {
	checkpointsResolved.WithLabelValues(typ, status).Inc()
}

// RecordDegradation records an entry point returning its safe default.
//
// Inputs:
//
//	operation - Engine entry point name.
//	cause - "error", "panic", or "invalid_input".
func RecordDegradation(operation, cause string) {
	degradations.WithLabelValues(operation, cause).Inc()
}

// RecordLatency records entry point latency.
func RecordLatency(operation string, seconds float64) {
	operationLatency.WithLabelValues(operation).Observe(seconds)
}

// Handler serves the default registry in the prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes Handler at /metrics on addr in the background. The returned
// server is already listening; stop it with Shutdown.
func Serve(addr string) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics: listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{
		Addr:              ln.Addr().String(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("WARNING: metrics server: %v", err)
		}
	}()
	return srv, nil
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
