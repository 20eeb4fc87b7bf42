package orgs

import (
	"time"

	"go.uber.org/zap"

	"github.com/philiph/orglogo/internal/core/ports"
)

// Option is a functional option for configuring organization directories.
type Option func(*directoryOptions)

// Clock provides time functionality for testing.
type Clock interface {
	Now() time.Time
}

// RealClock uses the standard time package.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time { return time.Now() }

type directoryOptions struct {
	idFilter  string
	logger    *zap.Logger
	metrics   ports.MetricsRecorder
	onRefresh func(error)
	clock     Clock
}

// WithIDFilter returns an option that filters organizations by ID pattern.
// Only organizations whose ID matches the pattern will be loaded.
// Supports glob-like patterns: "*substring*", "prefix*", "*suffix".
func WithIDFilter(pattern string) Option {
	return func(o *directoryOptions) {
		o.idFilter = pattern
	}
}

// WithLogger returns an option that sets the logger for the directory.
// When set, background refresh events (success/failure) will be logged.
func WithLogger(logger *zap.Logger) Option {
	return func(o *directoryOptions) {
		o.logger = logger
	}
}

// WithMetricsRecorder returns an option that sets the metrics recorder.
// When set, directory refresh operations will be recorded as metrics.
func WithMetricsRecorder(recorder ports.MetricsRecorder) Option {
	return func(o *directoryOptions) {
		o.metrics = recorder
	}
}

// WithOnRefresh returns an option that sets a callback invoked after each
// background refresh. The callback receives the error (nil on success).
// Used for testing synchronization.
func WithOnRefresh(fn func(error)) Option {
	return func(o *directoryOptions) {
		o.onRefresh = fn
	}
}

// WithClock returns an option that sets a custom clock for time operations.
// Used for testing cache TTL expiration without time.Sleep.
func WithClock(clock Clock) Option {
	return func(o *directoryOptions) {
		o.clock = clock
	}
}
