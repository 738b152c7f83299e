package prometheus

import (
	"time"
)

// Namespace prefixes every evadb metric.
const Namespace = "eva"

// DefaultBootstrapDurationBuckets covers a warm run (a parse) up to a cold
// run copying the udf tree onto slow storage.
var DefaultBootstrapDurationBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

// BootstrapMetrics records bootstrap outcomes.  It satisfies
// bootstrap.Recorder.
type BootstrapMetrics struct {
	collector MetricsCollector

	RunsTotal        CounterVec
	ProvisionedTotal CounterVec
	DefaultsFilled   CounterVec
	Duration         HistogramVec
}

// NewBootstrapMetrics registers the bootstrap metrics on collector.
func NewBootstrapMetrics(collector MetricsCollector) *BootstrapMetrics {
	return &BootstrapMetrics{
		collector:        collector,
		RunsTotal:        collector.RegisterCounter("runs_total", "Bootstrap runs by result (success or error code)", "result"),
		ProvisionedTotal: collector.RegisterCounter("provisioned_total", "Assets created in the configuration directory", "asset"),
		DefaultsFilled:   collector.RegisterCounter("defaults_filled_total", "Configuration keys filled with a computed default", "key"),
		Duration:         collector.RegisterHistogram("duration_seconds", "Bootstrap wall time", DefaultBootstrapDurationBuckets),
	}
}

// NewDefaultBootstrapMetrics builds BootstrapMetrics on its own
// eva_bootstrap_* collector.  processMetrics adds the eva_process_* series.
func NewDefaultBootstrapMetrics(processMetrics bool) (*BootstrapMetrics, error) {
	c, err := NewMetricsCollector(CollectorConfig{
		Namespace:            Namespace,
		Subsystem:            "bootstrap",
		EnableProcessMetrics: processMetrics,
	}, nil)
	if err != nil {
		return nil, err
	}
	return NewBootstrapMetrics(c), nil
}

// Provisioned implements bootstrap.Recorder.
func (m *BootstrapMetrics) Provisioned(asset string) {
	m.ProvisionedTotal.WithLabelValues(asset).Inc()
}

// DefaultFilled implements bootstrap.Recorder.
func (m *BootstrapMetrics) DefaultFilled(key string) {
	m.DefaultsFilled.WithLabelValues(key).Inc()
}

// Finished implements bootstrap.Recorder.
func (m *BootstrapMetrics) Finished(outcome string, elapsed time.Duration) {
	m.RunsTotal.WithLabelValues(outcome).Inc()
	m.Duration.WithLabelValues().Observe(elapsed.Seconds())
}

// Collector returns the collector the metrics are registered on.
func (m *BootstrapMetrics) Collector() MetricsCollector {
	return m.collector
}

// WriteTextfile exports the metrics for the node-exporter textfile collector.
func (m *BootstrapMetrics) WriteTextfile(path string) error {
	return m.collector.WriteTextfile(path)
}
