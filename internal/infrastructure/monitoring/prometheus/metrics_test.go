package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAppMetrics(t *testing.T) (*AppMetrics, MetricsCollector) {
	c := newTestCollector(t)
	m := NewAppMetrics(c)
	return m, c
}

func TestNewAppMetricsAllFieldsRegistered(t *testing.T) {
	m, _ := newTestAppMetrics(t)
	require.NotNil(t, m)

	assert.NotNil(t, m.ResolverDuration)
	assert.NotNil(t, m.DocumentsAnalyzed)
	assert.NotNil(t, m.PipelineStageErrors)
	assert.NotNil(t, m.ObligationsExtracted)
	assert.NotNil(t, m.ConflictsDetected)
	assert.NotNil(t, m.ClausesSegmented)
	assert.NotNil(t, m.AmbiguitiesFlagged)
	assert.NotNil(t, m.CacheHitsTotal)
	assert.NotNil(t, m.CacheMissesTotal)
	assert.NotNil(t, m.CollaboratorRequestDuration)
	assert.NotNil(t, m.CollaboratorErrorsTotal)
	assert.NotNil(t, m.WatchFilesProcessed)
	assert.NotNil(t, m.WatchDebounceDepth)
}

func TestRecordResolverStage(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordResolverStage(m, "obligations", 5*time.Millisecond)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_resolver_duration_seconds_count{stage="obligations"} 1`)
}

func TestRecordDocumentAnalyzedSuccessAndFailure(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordDocumentAnalyzed(m, true)
	RecordDocumentAnalyzed(m, false)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_documents_analyzed_total{status="success"} 1`)
	assert.Contains(t, output, `test_unit_documents_analyzed_total{status="failure"} 1`)
}

func TestRecordCacheAccessHitAndMiss(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordCacheAccess(m, true)
	RecordCacheAccess(m, false)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, "test_unit_cache_hits_total 1")
	assert.Contains(t, output, "test_unit_cache_misses_total 1")
}

func TestRecordCollaboratorCallSuccess(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordCollaboratorCall(m, "graphstore", "export_clauses", 20*time.Millisecond, nil)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_collaborator_request_duration_seconds_count{collaborator="graphstore",operation="export_clauses"} 1`)
}

func TestRecordCollaboratorCallError(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordCollaboratorCall(m, "auditstore", "record_run", 5*time.Millisecond, errors.New("connection refused"))

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_collaborator_errors_total{collaborator="auditstore",operation="record_run"} 1`)
}

func TestConcurrentMetricRecording(t *testing.T) {
	m, _ := newTestAppMetrics(t)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				RecordResolverStage(m, "clauses", time.Microsecond)
			}
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestDefaultBuckets(t *testing.T) {
	assert.NotEmpty(t, DefaultResolverDurationBuckets)
	assert.NotEmpty(t, DefaultCollaboratorDurationBuckets)
}
