package metrics

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordTransition(t *testing.T) {
	before := testutil.ToFloat64(transitionsTotal.WithLabelValues("agile", "redo"))
	RecordTransition("agile", "redo")
	RecordTransition("agile", "redo")
	assert.Equal(t, before+2, testutil.ToFloat64(transitionsTotal.WithLabelValues("agile", "redo")))
}

func TestRecordPlan(t *testing.T) {
	before := testutil.ToFloat64(plansTotal.WithLabelValues("standard", "low", "true"))
	RecordPlan("standard", "low", 5, true)
	assert.Equal(t, before+1, testutil.ToFloat64(plansTotal.WithLabelValues("standard", "low", "true")))
}

func TestRecordDegradation(t *testing.T) {
	before := testutil.ToFloat64(degradations.WithLabelValues("QueryMemory", "error"))
	RecordDegradation("QueryMemory", "error")
	assert.Equal(t, before+1, testutil.ToFloat64(degradations.WithLabelValues("QueryMemory", "error")))
}

func TestHistogramsCollect(t *testing.T) {
	RecordEvaluation("2", 0.8, false)
	RecordMemoryQuery(3)
	RecordLatency("Evaluate", 0.002)
	assert.Positive(t, testutil.CollectAndCount(evaluationScore))
	assert.Equal(t, 1, testutil.CollectAndCount(memoryQueryResults))
	assert.Positive(t, testutil.CollectAndCount(operationLatency))
}

func TestBoolLabel(t *testing.T) {
	assert.Equal(t, "true", boolLabel(true))
	assert.Equal(t, "false", boolLabel(false))
}

func TestServe_ExposesCollectors(t *testing.T) {
	RecordMemoryCreated("constraint")

	srv, err := Serve("127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	resp, err := http.Get("http://" + srv.Addr + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `hacf_memory_created_total{type="constraint"}`)
}

func TestServe_BadAddress(t *testing.T) {
	_, err := Serve("not-an-address")
	assert.Error(t, err)
}
