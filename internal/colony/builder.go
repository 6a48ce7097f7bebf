package colony

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/albatross-proto/albatross-data/internal/calendar"
	"github.com/albatross-proto/albatross-data/internal/fsutil"
	"github.com/albatross-proto/albatross-data/internal/logger"
	"github.com/albatross-proto/albatross-data/internal/observability/metrics"
)

// Config names the files a build reads and writes.
type Config struct {
	Source   string // raw CSV export
	Output   string // species colony JSON document
	Calendar string // calendar stub CSV
}

// Result describes a completed build.
type Result struct {
	Document Document
	Stats    CleanStats
	Colonies int
	Output   string
	Calendar string
}

// Builder runs the whole colony pipeline.
type Builder struct {
	config  Config
	log     logger.Logger
	metrics *metrics.PipelineMetrics
}

// NewBuilder returns a Builder. A nil log falls back to the global logger and
// nil metrics record nothing.
func NewBuilder(config Config, log logger.Logger, m *metrics.PipelineMetrics) *Builder {
	if log == nil {
		log = logger.Global().Module("colony")
	}
	return &Builder{config: config, log: log, metrics: m}
}

// Run loads the source, aggregates it and writes the colony document and the
// calendar stub. Each output is replaced atomically; a failure while writing
// the calendar leaves an already written document in place.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	log := b.log

	rows, err := LoadFile(b.config.Source)
	if err != nil {
		log.Debug("failed to load source", logger.String("source", b.config.Source), logger.Error(err))
		return nil, err
	}
	log.Debug("source loaded", logger.String("source", b.config.Source), logger.Int("rows", len(rows)))

	records, stats := Clean(rows)
	b.metrics.RecordRows(stats.Kept, stats.DroppedMissingIdentity, stats.DroppedMissingScientific)
	if stats.Dropped() > 0 {
		log.Info("dropped incomplete rows",
			logger.Int("missing_identity", stats.DroppedMissingIdentity),
			logger.Int("missing_scientific_name", stats.DroppedMissingScientific))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	colonies := Aggregate(records)
	doc := NewDocument(filepath.Base(b.config.Source), Nest(colonies))

	if err := fsutil.WriteAtomic(b.config.Output, func(w io.Writer) error {
		return WriteDocument(w, doc)
	}); err != nil {
		log.Error("failed to write colony document", logger.String("path", b.config.Output), logger.Error(err))
		return nil, err
	}
	if err := fsutil.WriteAtomic(b.config.Calendar, func(w io.Writer) error {
		return calendar.WriteStub(w, doc.CommonNames())
	}); err != nil {
		log.Error("failed to write calendar stub", logger.String("path", b.config.Calendar), logger.Error(err))
		return nil, err
	}

	b.metrics.RecordBuild(len(colonies), doc.SpeciesCount)
	b.metrics.ObserveDuration(metrics.PipelineBuild, time.Since(start).Seconds())

	log.Info("colony data built",
		logger.Int("rows", stats.Read),
		logger.Int("kept", stats.Kept),
		logger.Int("colonies", len(colonies)),
		logger.Int("species", doc.SpeciesCount),
		logger.Duration("elapsed", time.Since(start)))

	return &Result{
		Document: doc,
		Stats:    stats,
		Colonies: len(colonies),
		Output:   b.config.Output,
		Calendar: b.config.Calendar,
	}, nil
}
