package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the campaign API.
type Metrics struct {
	// Stat entry metrics
	StatEntries        *prometheus.CounterVec
	StatEntryDeletions *prometheus.CounterVec
	ExcludedRecords    *prometheus.CounterVec

	// Reporting metrics
	MetricsComputations *prometheus.CounterVec
	Comparisons         prometheus.Counter
	SpendAdvisories     *prometheus.CounterVec
	CacheHits           prometheus.Counter
	CacheMisses         prometheus.Counter
	CacheInvalidations  prometheus.Counter

	// Archive metrics
	ArchiveWrites   prometheus.Counter
	ArchiveFailures prometheus.Counter

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// System metrics
	ActiveCampaigns prometheus.Gauge
	RateLimitHits   *prometheus.CounterVec
}

var (
	// DefaultMetrics is the global metrics instance
	DefaultMetrics *Metrics
)

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		StatEntries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stat_entries_total",
				Help:      "Daily stat entries recorded",
			},
			[]string{"campaign_id"},
		),
		StatEntryDeletions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stat_entry_deletions_total",
				Help:      "Daily stat entries deleted",
			},
			[]string{"campaign_id"},
		),
		ExcludedRecords: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "excluded_records_total",
				Help:      "Stat records excluded from aggregation as malformed",
			},
			[]string{"campaign_id", "reason"},
		),

		MetricsComputations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "metrics_computations_total",
				Help:      "Derived metric computations by aggregation mode",
			},
			[]string{"mode"},
		),
		Comparisons: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "comparisons_total",
				Help:      "Period comparisons computed",
			},
		),
		SpendAdvisories: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "spend_advisories_total",
				Help:      "Spend recommendations by outcome",
			},
			[]string{"recommendation"},
		),
		CacheHits: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "metrics_cache_hits_total",
				Help:      "Derived-metrics cache hits",
			},
		),
		CacheMisses: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "metrics_cache_misses_total",
				Help:      "Derived-metrics cache misses",
			},
		),
		CacheInvalidations: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "metrics_cache_invalidations_total",
				Help:      "Derived-metrics cache invalidations",
			},
		),

		ArchiveWrites: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "archive_writes_total",
				Help:      "Stat rows mirrored to the analytical archive",
			},
		),
		ArchiveFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "archive_failures_total",
				Help:      "Failed archive writes",
			},
		),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by path and status",
			},
			[]string{"path", "method", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"path"},
		),

		ActiveCampaigns: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_campaigns",
				Help:      "Number of active campaigns",
			},
		),
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limit_hits_total",
				Help:      "Requests rejected by rate limiting",
			},
			[]string{"endpoint"},
		),
	}

	DefaultMetrics = m
	return m
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordStatEntry records a stat entry write.
func (m *Metrics) RecordStatEntry(campaignID string) {
	m.StatEntries.WithLabelValues(campaignID).Inc()
}

// RecordStatEntryDeletion records a stat entry delete.
func (m *Metrics) RecordStatEntryDeletion(campaignID string) {
	m.StatEntryDeletions.WithLabelValues(campaignID).Inc()
}

// RecordExcluded records stat records dropped from an aggregation.
func (m *Metrics) RecordExcluded(campaignID, reason string) {
	m.ExcludedRecords.WithLabelValues(campaignID, reason).Inc()
}

// RecordComputation records a derived metric computation.
func (m *Metrics) RecordComputation(mode string) {
	m.MetricsComputations.WithLabelValues(mode).Inc()
}

// RecordComparison records a period comparison.
func (m *Metrics) RecordComparison() {
	m.Comparisons.Inc()
}

// RecordSpendAdvice records a spend recommendation outcome.
func (m *Metrics) RecordSpendAdvice(recommendation string) {
	m.SpendAdvisories.WithLabelValues(recommendation).Inc()
}

// RecordCacheHit records a metrics cache hit or miss.
func (m *Metrics) RecordCacheHit(hit bool) {
	if hit {
		m.CacheHits.Inc()
	} else {
		m.CacheMisses.Inc()
	}
}

// RecordCacheInvalidation records a cache invalidation.
func (m *Metrics) RecordCacheInvalidation() {
	m.CacheInvalidations.Inc()
}

// RecordArchiveWrite records an archive write attempt.
func (m *Metrics) RecordArchiveWrite(ok bool) {
	if ok {
		m.ArchiveWrites.Inc()
	} else {
		m.ArchiveFailures.Inc()
	}
}

// RecordHTTPRequest records a served HTTP request.
func (m *Metrics) RecordHTTPRequest(path, method, status string, latency time.Duration) {
	m.HTTPRequests.WithLabelValues(path, method, status).Inc()
	m.HTTPDuration.WithLabelValues(path).Observe(latency.Seconds())
}

// UpdateActiveCampaigns updates the active campaign gauge.
func (m *Metrics) UpdateActiveCampaigns(n int) {
	m.ActiveCampaigns.Set(float64(n))
}

// RecordRateLimitHit records a rate limit rejection.
func (m *Metrics) RecordRateLimitHit(endpoint string) {
	m.RateLimitHits.WithLabelValues(endpoint).Inc()
}
