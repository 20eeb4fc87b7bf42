package ports

// Label values for MetricsRecorder. Stable; used directly as metric labels.
const (
	FetchResultSuccess        = "success"
	FetchResultFetchFailed    = "fetch_failed"
	FetchResultTransportError = "transport_error"
	FetchResultEncodingFailed = "encoding_failed"

	CacheOutcomeHit   = "hit"
	CacheOutcomeStale = "stale"
	CacheOutcomeMiss  = "miss"
)

// MetricsRecorder is the port interface for recording metrics.
// Implementations are adapters (PrometheusMetricsRecorder for production,
// NoopMetricsRecorder for disabled/testing).
type MetricsRecorder interface {
	// RecordLogoFetch records the result of one logo fetch attempt.
	RecordLogoFetch(result string)

	// RecordCacheLookup records one cache lookup outcome.
	RecordCacheLookup(outcome string)

	// SetCachedLogos records the current number of retained cache entries.
	SetCachedLogos(count int)

	// RecordDirectoryRefresh records an organization directory refresh attempt.
	RecordDirectoryRefresh(source string, success bool, orgCount int)
}
