package prometheus

import "time"

// AppMetrics holds every metric the analyzer and its collaborators
// emit, grouped by the layer that records them.
type AppMetrics struct {
	// Pipeline
	ResolverDuration     HistogramVec
	DocumentsAnalyzed    CounterVec
	PipelineStageErrors  CounterVec

	// Extraction results
	ObligationsExtracted CounterVec
	ConflictsDetected    CounterVec
	ClausesSegmented     CounterVec
	AmbiguitiesFlagged   CounterVec

	// Cache
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec

	// Collaborators
	CollaboratorRequestDuration HistogramVec
	CollaboratorErrorsTotal     CounterVec

	// CLI/watch
	WatchFilesProcessed CounterVec
	WatchDebounceDepth  GaugeVec
}

var (
	DefaultResolverDurationBuckets     = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1}
	DefaultCollaboratorDurationBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
)

// NewAppMetrics registers every metric against collector and returns
// the populated AppMetrics.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.ResolverDuration = collector.RegisterHistogram("resolver_duration_seconds", "Resolver stage duration", DefaultResolverDurationBuckets, "stage")
	m.DocumentsAnalyzed = collector.RegisterCounter("documents_analyzed_total", "Documents run through the pipeline", "status")
	m.PipelineStageErrors = collector.RegisterCounter("pipeline_stage_errors_total", "Errors raised while resolving a stage", "stage")

	m.ObligationsExtracted = collector.RegisterCounter("obligations_extracted_total", "Obligation phrases extracted", "type")
	m.ConflictsDetected = collector.RegisterCounter("conflicts_detected_total", "Conflict links detected", "kind")
	m.ClausesSegmented = collector.RegisterCounter("clauses_segmented_total", "Clauses segmented", "kind")
	m.AmbiguitiesFlagged = collector.RegisterCounter("ambiguities_flagged_total", "Attributes flagged as ambiguous for review", "attribute")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Snapshot cache hits")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Snapshot cache misses")

	m.CollaboratorRequestDuration = collector.RegisterHistogram("collaborator_request_duration_seconds", "Collaborator round-trip duration", DefaultCollaboratorDurationBuckets, "collaborator", "operation")
	m.CollaboratorErrorsTotal = collector.RegisterCounter("collaborator_errors_total", "Collaborator operation failures", "collaborator", "operation")

	m.WatchFilesProcessed = collector.RegisterCounter("watch_files_processed_total", "Files re-analyzed by the watch command", "outcome")
	m.WatchDebounceDepth = collector.RegisterGauge("watch_debounce_depth", "Pending file events awaiting debounce settle")

	return m
}

// RecordResolverStage observes one resolver stage's wall-clock duration.
func RecordResolverStage(metrics *AppMetrics, stage string, duration time.Duration) {
	metrics.ResolverDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordDocumentAnalyzed increments the per-outcome analyzed-document counter.
func RecordDocumentAnalyzed(metrics *AppMetrics, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	metrics.DocumentsAnalyzed.WithLabelValues(status).Inc()
}

// RecordCacheAccess increments the cache hit or miss counter.
func RecordCacheAccess(metrics *AppMetrics, hit bool) {
	if hit {
		metrics.CacheHitsTotal.WithLabelValues().Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues().Inc()
	}
}

// RecordCollaboratorCall observes a collaborator round trip and, on
// failure, increments its error counter.
func RecordCollaboratorCall(metrics *AppMetrics, collaborator, operation string, duration time.Duration, err error) {
	metrics.CollaboratorRequestDuration.WithLabelValues(collaborator, operation).Observe(duration.Seconds())
	if err != nil {
		metrics.CollaboratorErrorsTotal.WithLabelValues(collaborator, operation).Inc()
	}
}
