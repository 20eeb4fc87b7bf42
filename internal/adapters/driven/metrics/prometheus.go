package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/philiph/orglogo/internal/core/ports"
)

// PrometheusMetricsRecorder records metrics using Prometheus.
type PrometheusMetricsRecorder struct {
	logoFetchesTotal      *prometheus.CounterVec
	cacheLookupsTotal     *prometheus.CounterVec
	cachedLogos           prometheus.Gauge
	directoryRefreshTotal *prometheus.CounterVec
	directoryOrgCount     prometheus.Gauge
}

// NewPrometheusMetricsRecorder creates a new Prometheus metrics recorder
// using the default Prometheus registry.
func NewPrometheusMetricsRecorder() *PrometheusMetricsRecorder {
	return NewPrometheusMetricsRecorderWithRegistry(prometheus.DefaultRegisterer)
}

// NewPrometheusMetricsRecorderWithRegistry creates a new Prometheus metrics
// recorder with a custom registry. Use this for testing.
func NewPrometheusMetricsRecorderWithRegistry(reg prometheus.Registerer) *PrometheusMetricsRecorder {
	logoFetchesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orglogo_logo_fetches_total",
		Help: "Total logo fetch attempts",
	}, []string{"result"})

	cacheLookupsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orglogo_cache_lookups_total",
		Help: "Total logo cache lookups",
	}, []string{"outcome"})

	cachedLogos := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orglogo_cached_logos",
		Help: "Current number of retained logo cache entries",
	})

	directoryRefreshTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orglogo_directory_refresh_total",
		Help: "Total organization directory refresh attempts",
	}, []string{"source", "result"})

	directoryOrgCount := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orglogo_directory_org_count",
		Help: "Current number of loaded organizations",
	})

	reg.MustRegister(
		logoFetchesTotal,
		cacheLookupsTotal,
		cachedLogos,
		directoryRefreshTotal,
		directoryOrgCount,
	)

	return &PrometheusMetricsRecorder{
		logoFetchesTotal:      logoFetchesTotal,
		cacheLookupsTotal:     cacheLookupsTotal,
		cachedLogos:           cachedLogos,
		directoryRefreshTotal: directoryRefreshTotal,
		directoryOrgCount:     directoryOrgCount,
	}
}

// RecordLogoFetch records the result of one logo fetch attempt.
func (p *PrometheusMetricsRecorder) RecordLogoFetch(result string) {
	p.logoFetchesTotal.WithLabelValues(result).Inc()
}

// RecordCacheLookup records one cache lookup outcome.
func (p *PrometheusMetricsRecorder) RecordCacheLookup(outcome string) {
	p.cacheLookupsTotal.WithLabelValues(outcome).Inc()
}

// SetCachedLogos records the current number of retained cache entries.
func (p *PrometheusMetricsRecorder) SetCachedLogos(count int) {
	p.cachedLogos.Set(float64(count))
}

// RecordDirectoryRefresh records an organization directory refresh attempt.
func (p *PrometheusMetricsRecorder) RecordDirectoryRefresh(source string, success bool, orgCount int) {
	result := "failure"
	if success {
		result = "success"
	}
	p.directoryRefreshTotal.WithLabelValues(source, result).Inc()
	if success {
		p.directoryOrgCount.Set(float64(orgCount))
	}
}

// Ensure PrometheusMetricsRecorder implements ports.MetricsRecorder
var _ ports.MetricsRecorder = (*PrometheusMetricsRecorder)(nil)
