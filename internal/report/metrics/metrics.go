// Package metrics provides observability for the report module.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments the report pipeline. A nil *Metrics is a no-op so
// tests can skip registration.
type Metrics struct {
	// Per-source fetch latencies
	SourceFetchDuration *prometheus.HistogramVec

	// Report requests by selected type ("all" when unfiltered)
	ReportRequests *prometheus.CounterVec

	// Full pipeline latency
	ReportDuration prometheus.Histogram

	// Payload cache outcomes
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// New registers and returns the report metrics.
func New() *Metrics {
	return &Metrics{
		SourceFetchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "assetdog_report_source_fetch_duration_seconds",
			Help:    "Duration of per-source adapter fetches",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"source"}),

		ReportRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "assetdog_report_requests_total",
			Help: "Transaction report requests by selected type",
		}, []string{"type"}),

		ReportDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "assetdog_report_duration_seconds",
			Help:    "Duration of full report generation including all source fetches",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "assetdog_report_cache_hits_total",
			Help: "Report payload cache hits",
		}),

		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "assetdog_report_cache_misses_total",
			Help: "Report payload cache misses",
		}),
	}
}

// ObserveSourceFetch records one adapter fetch duration.
func (m *Metrics) ObserveSourceFetch(source string, d time.Duration) {
	if m != nil {
		m.SourceFetchDuration.WithLabelValues(source).Observe(d.Seconds())
	}
}

// IncrementRequests records one report request.
func (m *Metrics) IncrementRequests(reportType string) {
	if m != nil {
		m.ReportRequests.WithLabelValues(reportType).Inc()
	}
}

// ObserveReportDuration records the full pipeline duration.
func (m *Metrics) ObserveReportDuration(d time.Duration) {
	if m != nil {
		m.ReportDuration.Observe(d.Seconds())
	}
}

// RecordCacheHit counts a payload cache hit.
func (m *Metrics) RecordCacheHit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

// RecordCacheMiss counts a payload cache miss.
func (m *Metrics) RecordCacheMiss() {
	if m != nil {
		m.CacheMisses.Inc()
	}
}
