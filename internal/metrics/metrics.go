package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	globalMetrics *Metrics
	globalMu      sync.RWMutex
)

// Metrics holds all Prometheus metrics for the outreach service
type Metrics struct {
	// Import pipeline counters
	ContactsImportedTotal  prometheus.Counter
	ContactsDuplicateTotal prometheus.Counter
	ImportFailuresTotal    prometheus.Counter
	ImportBatchesTotal     prometheus.Counter

	// Workflow counters
	WorkflowsDispatchedTotal *prometheus.CounterVec
	WorkflowCallbacksTotal   *prometheus.CounterVec

	// WebSocket gauge
	WSConnectionsActive prometheus.Gauge

	// API metrics
	APIRequestsTotal          *prometheus.CounterVec
	APIRequestDurationSeconds *prometheus.HistogramVec
	APIErrorsTotal            *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates a new Metrics instance with all metrics registered
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		ContactsImportedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "outreach_contacts_imported_total",
				Help: "Total number of contacts inserted by the import pipeline",
			},
		),
		ContactsDuplicateTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "outreach_contacts_duplicate_total",
				Help: "Total number of records skipped as duplicates",
			},
		),
		ImportFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "outreach_import_failures_total",
				Help: "Total number of records that failed to insert",
			},
		),
		ImportBatchesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "outreach_import_batches_total",
				Help: "Total number of import batches processed",
			},
		),

		WorkflowsDispatchedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "outreach_workflows_dispatched_total",
				Help: "Total number of workflows handed off to the automation engine",
			},
			[]string{"type"},
		),
		WorkflowCallbacksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "outreach_workflow_callbacks_total",
				Help: "Total number of completion callbacks received",
			},
			[]string{"type", "status"},
		),

		WSConnectionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "outreach_ws_connections_active",
				Help: "Number of currently open WebSocket connections",
			},
		),

		APIRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "outreach_api_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"method", "path", "status"},
		),
		APIRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "outreach_api_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		APIErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "outreach_api_errors_total",
				Help: "Total number of API errors",
			},
			[]string{"error_type"},
		),

		registry: reg,
	}

	reg.MustRegister(
		m.ContactsImportedTotal,
		m.ContactsDuplicateTotal,
		m.ImportFailuresTotal,
		m.ImportBatchesTotal,
		m.WorkflowsDispatchedTotal,
		m.WorkflowCallbacksTotal,
		m.WSConnectionsActive,
		m.APIRequestsTotal,
		m.APIRequestDurationSeconds,
		m.APIErrorsTotal,
	)

	return m
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an http.Handler serving the text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SetGlobal sets the global metrics instance
func SetGlobal(m *Metrics) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalMetrics = m
}

// Global returns the global metrics instance
func Global() *Metrics {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalMetrics
}

// IncContactsImported increments the imported contact counter
func IncContactsImported() {
	m := Global()
	if m != nil {
		m.ContactsImportedTotal.Inc()
	}
}

// IncContactsDuplicate increments the duplicate counter
func IncContactsDuplicate() {
	m := Global()
	if m != nil {
		m.ContactsDuplicateTotal.Inc()
	}
}

// IncImportFailures increments the failed insert counter
func IncImportFailures() {
	m := Global()
	if m != nil {
		m.ImportFailuresTotal.Inc()
	}
}

// IncImportBatches increments the processed batch counter
func IncImportBatches() {
	m := Global()
	if m != nil {
		m.ImportBatchesTotal.Inc()
	}
}

// IncWorkflowsDispatched increments the dispatch counter for a workflow type
func IncWorkflowsDispatched(workflowType string) {
	m := Global()
	if m != nil {
		m.WorkflowsDispatchedTotal.WithLabelValues(workflowType).Inc()
	}
}

// IncWorkflowCallbacks increments the callback counter
func IncWorkflowCallbacks(workflowType, status string) {
	m := Global()
	if m != nil {
		m.WorkflowCallbacksTotal.WithLabelValues(workflowType, status).Inc()
	}
}

// IncWSConnections increments the active WebSocket connection gauge
func IncWSConnections() {
	m := Global()
	if m != nil {
		m.WSConnectionsActive.Inc()
	}
}

// DecWSConnections decrements the active WebSocket connection gauge
func DecWSConnections() {
	m := Global()
	if m != nil {
		m.WSConnectionsActive.Dec()
	}
}
