// Package observability provides metrics for albatross-data runs.
package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/albatross-proto/albatross-data/internal/buildinfo"
	"github.com/albatross-proto/albatross-data/internal/observability/metrics"
)

// Metrics holds all the metric collectors of one run on a private registry.
type Metrics struct {
	registry *prometheus.Registry
	Pipeline *metrics.PipelineMetrics
}

// NewMetrics creates a new instance of Metrics, initializing all metric
// collectors. A constant albatross_build_info gauge carries the version.
func NewMetrics(info buildinfo.BuildInfo) (*Metrics, error) {
	registry := prometheus.NewRegistry()

	pipelineMetrics, err := metrics.NewPipelineMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	if info != nil {
		buildInfo := prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "albatross_build_info",
			Help: "Build metadata of the albatross-data binary, always 1.",
			ConstLabels: prometheus.Labels{
				"version":    info.GetVersion(),
				"build_date": info.GetBuildDate(),
			},
		})
		buildInfo.Set(1)
		if err := registry.Register(buildInfo); err != nil {
			return nil, fmt.Errorf("failed to register build info: %w", err)
		}
	}

	return &Metrics{
		registry: registry,
		Pipeline: pipelineMetrics,
	}, nil
}

// Registry returns the registry all collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the current metric values to path for the
// node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return metrics.WriteTextfile(path, m.registry)
}
