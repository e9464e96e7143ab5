package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service collectors on a dedicated registry.
type Metrics struct {
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	errorCount      *prometheus.CounterVec
	reportDuration  *prometheus.HistogramVec
	reportFailures  *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
}

// NewMetrics registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "demand_analytics_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route, method and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method", "status"}),
		errorCount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "demand_analytics_http_errors_total",
			Help: "HTTP errors by route, method and error code",
		}, []string{"path", "method", "code"}),
		reportDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "demand_analytics_report_duration_seconds",
			Help:    "Duration of report generation by report kind",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"kind"}),
		reportFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "demand_analytics_report_failures_total",
			Help: "Failed report generations by report kind and error code",
		}, []string{"kind", "code"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "demand_analytics_name_cache_lookups_total",
			Help: "Name cache lookups by reference table and result",
		}, []string{"table", "result"}),
	}
}

// RecordRequest observes a completed HTTP request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(path, method, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorCount.WithLabelValues(path, method, code).Inc()
}

// ObserveReport records how long a report of kind took to generate.
func (m *Metrics) ObserveReport(kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.reportDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// RecordReportFailure counts a failed report generation.
func (m *Metrics) RecordReportFailure(kind, code string) {
	if m == nil {
		return
	}
	m.reportFailures.WithLabelValues(kind, code).Inc()
}

// RecordCacheLookup counts name cache hits and misses for table.
func (m *Metrics) RecordCacheLookup(table string, hits, misses int) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(table, "hit").Add(float64(hits))
	m.cacheLookups.WithLabelValues(table, "miss").Add(float64(misses))
}
