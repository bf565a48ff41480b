package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/layeredcontracts/internal/infrastructure/monitoring/logging"
)

func newTestCollector(t *testing.T) MetricsCollector {
	cfg := CollectorConfig{
		Namespace:            "test",
		Subsystem:            "unit",
		EnableProcessMetrics: false,
		EnableGoMetrics:      false,
	}
	c, err := NewMetricsCollector(cfg, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func scrapeMetrics(t *testing.T, collector MetricsCollector) string {
	handler := collector.Handler()
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestNewMetricsCollectorRequiresNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{}, logging.NewNopLogger())
	assert.Error(t, err)
}

func TestRegisterCounterIsIdempotentByName(t *testing.T) {
	c := newTestCollector(t)
	first := c.RegisterCounter("widgets_total", "widgets", "kind")
	second := c.RegisterCounter("widgets_total", "widgets", "kind")
	first.WithLabelValues("a").Inc()
	second.WithLabelValues("a").Inc()

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_widgets_total{kind="a"} 2`)
}

func TestRegisterGaugeSetAndObserve(t *testing.T) {
	c := newTestCollector(t)
	g := c.RegisterGauge("queue_depth", "depth")
	g.WithLabelValues().Set(3)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, "test_unit_queue_depth 3")
}

func TestRegisterHistogramObserve(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("latency_seconds", "latency", nil)
	h.WithLabelValues().Observe(0.01)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, "test_unit_latency_seconds_count 1")
}

func TestTimerObservesElapsedDuration(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("timed_seconds", "timed", nil)

	timer := NewTimer(h.WithLabelValues())
	timer.ObserveDuration()

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, "test_unit_timed_seconds_count 1")
}
