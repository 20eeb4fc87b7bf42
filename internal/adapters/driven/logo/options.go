package logo

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/philiph/orglogo/internal/core/ports"
)

// Option is a functional option for configuring the caching provider.
type Option func(*options)

// Clock provides time functionality for testing.
type Clock interface {
	Now() time.Time
}

// RealClock uses the standard time package.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time { return time.Now() }

type options struct {
	httpClient   *http.Client
	httpTimeout  time.Duration
	maxSize      int64
	maxDimension int
	freshFor     time.Duration
	retainFor    time.Duration
	cache        ports.LogoCache
	logger       *zap.Logger
	metrics      ports.MetricsRecorder
	clock        Clock
	onRefresh    func(locator string)
}

// WithHTTPClient sets the underlying HTTP client used for logo fetches.
// Useful for tests against httptest servers with custom transports.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithHTTPTimeout bounds each logo fetch. The default is no timeout
// beyond the transport's own; callers needing bounded latency can also
// pass a context with a deadline.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.httpTimeout = timeout
	}
}

// WithMaxSize sets the maximum logo size in bytes.
func WithMaxSize(size int64) Option {
	return func(o *options) {
		o.maxSize = size
	}
}

// WithMaxDimension enables raster normalization: fetched PNG and JPEG
// logos wider or taller than px pixels are downscaled (and re-encoded as
// PNG) before encoding. SVG logos pass through untouched.
func WithMaxDimension(px int) Option {
	return func(o *options) {
		o.maxDimension = px
	}
}

// WithFreshFor sets the freshness window of cached logos.
func WithFreshFor(d time.Duration) Option {
	return func(o *options) {
		o.freshFor = d
	}
}

// WithRetainFor sets the inactivity window after which cached logos are
// evicted. Only applies to the provider-owned default cache; a cache
// supplied via WithCache keeps its own retention policy.
func WithRetainFor(d time.Duration) Option {
	return func(o *options) {
		o.retainFor = d
	}
}

// WithCache sets the cache backend. The provider does not close a
// caller-supplied cache.
func WithCache(cache ports.LogoCache) Option {
	return func(o *options) {
		o.cache = cache
	}
}

// WithLogger sets the logger. Fetch and encoding failures are logged
// here; they are never surfaced to callers.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetricsRecorder sets the metrics recorder.
func WithMetricsRecorder(recorder ports.MetricsRecorder) Option {
	return func(o *options) {
		o.metrics = recorder
	}
}

// WithClock sets a custom clock for time operations.
// Used for testing freshness windows without time.Sleep.
func WithClock(clock Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithOnRefresh sets a callback invoked after each background refresh of
// a stale entry completes. Used for testing synchronization.
func WithOnRefresh(fn func(locator string)) Option {
	return func(o *options) {
		o.onRefresh = fn
	}
}
