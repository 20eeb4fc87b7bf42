package metrics

import (
	"github.com/philiph/orglogo/internal/core/ports"
)

// NoopMetricsRecorder is a no-op implementation for when metrics are disabled.
// All methods are safe to call and do nothing.
type NoopMetricsRecorder struct{}

// NewNoopMetricsRecorder creates a new no-op metrics recorder.
func NewNoopMetricsRecorder() *NoopMetricsRecorder {
	return &NoopMetricsRecorder{}
}

// RecordLogoFetch is a no-op.
func (n *NoopMetricsRecorder) RecordLogoFetch(result string) {}

// RecordCacheLookup is a no-op.
func (n *NoopMetricsRecorder) RecordCacheLookup(outcome string) {}

// SetCachedLogos is a no-op.
func (n *NoopMetricsRecorder) SetCachedLogos(count int) {}

// RecordDirectoryRefresh is a no-op.
func (n *NoopMetricsRecorder) RecordDirectoryRefresh(source string, success bool, orgCount int) {}

// Ensure NoopMetricsRecorder implements ports.MetricsRecorder
var _ ports.MetricsRecorder = (*NoopMetricsRecorder)(nil)
