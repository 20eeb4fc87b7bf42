package orglogo

import (
	"github.com/philiph/orglogo/internal/adapters/driven/metrics"
	"github.com/philiph/orglogo/internal/core/ports"
)

// Re-export MetricsRecorder port and adapters
type MetricsRecorder = ports.MetricsRecorder
type PrometheusMetricsRecorder = metrics.PrometheusMetricsRecorder
type NoopMetricsRecorder = metrics.NoopMetricsRecorder

var (
	NewPrometheusMetricsRecorder             = metrics.NewPrometheusMetricsRecorder
	NewPrometheusMetricsRecorderWithRegistry = metrics.NewPrometheusMetricsRecorderWithRegistry
	NewNoopMetricsRecorder                   = metrics.NewNoopMetricsRecorder
)
