// Package metrics provides Prometheus metrics for the albatross-data pipelines.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Label values used by PipelineMetrics.
const (
	RowKept                     = "kept"
	RowDroppedMissingIdentity   = "dropped_missing_identity"
	RowDroppedMissingScientific = "dropped_missing_scientific_name"
	SegmentsSaved               = "saved"
	SegmentsRejected            = "rejected"
	PipelineBuild               = "build"
	PipelineSegments            = "segments"
	PipelineCalendarCheck       = "calendar_check"
)

// PipelineMetrics contains all Prometheus metrics for the data pipelines.
// A nil *PipelineMetrics is valid and records nothing.
type PipelineMetrics struct {
	RowsTotal          *prometheus.CounterVec
	ColoniesTotal      prometheus.Counter
	SpeciesTotal       prometheus.Counter
	SegmentsTotal      *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	PipelineDuration   *prometheus.HistogramVec
}

// NewPipelineMetrics creates the pipeline metrics and registers them with registry.
func NewPipelineMetrics(registry *prometheus.Registry) (*PipelineMetrics, error) {
	m := &PipelineMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register pipeline metrics: %w", err)
	}
	return m, nil
}

func (m *PipelineMetrics) initMetrics() {
	m.RowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "albatross_rows_total",
			Help: "Source rows processed by the colony builder, partitioned by outcome.",
		},
		[]string{"outcome"},
	)
	m.ColoniesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "albatross_colonies_total",
			Help: "Colony summaries written.",
		},
	)
	m.SpeciesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "albatross_species_total",
			Help: "Species entries written.",
		},
	)
	m.SegmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "albatross_segments_total",
			Help: "Segments submitted for saving, partitioned by outcome.",
		},
		[]string{"outcome"},
	)
	m.ValidationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "albatross_validation_failures_total",
			Help: "Validation failures partitioned by reason.",
		},
		[]string{"reason"},
	)
	m.PipelineDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "albatross_pipeline_duration_seconds",
			Help:    "Wall time of a pipeline run.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8), // 1ms to ~16s
		},
		[]string{"pipeline"},
	)
}

// RecordRows records the outcome counts of the cleaning stage.
func (m *PipelineMetrics) RecordRows(kept, droppedIdentity, droppedScientific int) {
	if m == nil {
		return
	}
	m.RowsTotal.WithLabelValues(RowKept).Add(float64(kept))
	m.RowsTotal.WithLabelValues(RowDroppedMissingIdentity).Add(float64(droppedIdentity))
	m.RowsTotal.WithLabelValues(RowDroppedMissingScientific).Add(float64(droppedScientific))
}

// RecordBuild records the size of a written colony document.
func (m *PipelineMetrics) RecordBuild(colonies, species int) {
	if m == nil {
		return
	}
	m.ColoniesTotal.Add(float64(colonies))
	m.SpeciesTotal.Add(float64(species))
}

// RecordSegments records n segments with the given outcome.
func (m *PipelineMetrics) RecordSegments(outcome string, n int) {
	if m == nil {
		return
	}
	m.SegmentsTotal.WithLabelValues(outcome).Add(float64(n))
}

// RecordValidationFailure counts one failed validation.
func (m *PipelineMetrics) RecordValidationFailure(reason string) {
	if m == nil {
		return
	}
	m.ValidationFailures.WithLabelValues(reason).Inc()
}

// ObserveDuration records the wall time of a pipeline run.
func (m *PipelineMetrics) ObserveDuration(pipeline string, seconds float64) {
	if m == nil {
		return
	}
	m.PipelineDuration.WithLabelValues(pipeline).Observe(seconds)
}

// Describe implements the prometheus.Collector interface.
func (m *PipelineMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.RowsTotal.Describe(ch)
	ch <- m.ColoniesTotal.Desc()
	ch <- m.SpeciesTotal.Desc()
	m.SegmentsTotal.Describe(ch)
	m.ValidationFailures.Describe(ch)
	m.PipelineDuration.Describe(ch)
}

// Collect implements the prometheus.Collector interface.
func (m *PipelineMetrics) Collect(ch chan<- prometheus.Metric) {
	m.RowsTotal.Collect(ch)
	ch <- m.ColoniesTotal
	ch <- m.SpeciesTotal
	m.SegmentsTotal.Collect(ch)
	m.ValidationFailures.Collect(ch)
	m.PipelineDuration.Collect(ch)
}

// WriteTextfile writes every metric gathered from g to path in the Prometheus
// text format, for the node_exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}
