package segments

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/albatross-proto/albatross-data/internal/fsutil"
	"github.com/albatross-proto/albatross-data/internal/logger"
	"github.com/albatross-proto/albatross-data/internal/observability/metrics"
)

// Save writes raw, re-indented by two spaces, to path. Key order, number
// literals and unknown keys are kept as submitted. The file is replaced
// atomically and parent directories are created.
func Save(path string, raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
		return parseError(err)
	}
	buf.WriteByte('\n')

	return fsutil.WriteFileAtomic(path, buf.Bytes())
}

// Saver runs read, parse, validate and save for one submission.
type Saver struct {
	output  string
	log     logger.Logger
	metrics *metrics.PipelineMetrics
}

// NewSaver returns a Saver writing to output. A nil log falls back to the
// global logger and nil metrics record nothing.
func NewSaver(output string, log logger.Logger, m *metrics.PipelineMetrics) *Saver {
	if log == nil {
		log = logger.Global().Module("segments")
	}
	return &Saver{output: output, log: log, metrics: m}
}

// Output returns the path segments are saved to.
func (s *Saver) Output() string {
	return s.output
}

// Run reads the submission from input, or stdin when input is empty, and
// saves it if every segment is valid. It returns the number of segments
// saved. The output file is not touched on any error.
func (s *Saver) Run(ctx context.Context, input string, stdin io.Reader) (int, error) {
	start := time.Now()
	log := s.log.With(logger.String("input", displayInput(input)))

	raw, err := ReadInput(input, stdin)
	if err != nil {
		log.Debug("failed to read segments", logger.Error(err))
		return 0, err
	}

	v, err := Parse(raw)
	if err != nil {
		return 0, s.reject(log, err, 0)
	}
	segs, err := Validate(v)
	if err != nil {
		submitted := 0
		if elems, arrErr := v.Array(); arrErr == nil {
			submitted = len(elems)
		}
		return 0, s.reject(log, err, submitted)
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if err := Save(s.output, raw); err != nil {
		log.Error("failed to save segments", logger.String("output", s.output), logger.Error(err))
		return 0, err
	}

	s.metrics.RecordSegments(metrics.SegmentsSaved, len(segs))
	s.metrics.ObserveDuration(metrics.PipelineSegments, time.Since(start).Seconds())
	log.Info("segments saved",
		logger.Int("count", len(segs)),
		logger.String("output", s.output))

	return len(segs), nil
}

// reject records a failed submission of submitted segments.
func (s *Saver) reject(log logger.Logger, err error, submitted int) error {
	reason := Reason(err)
	s.metrics.RecordValidationFailure(reason)
	s.metrics.RecordSegments(metrics.SegmentsRejected, submitted)
	log.Info("segments rejected",
		logger.String("reason", reason),
		logger.Int("submitted", submitted),
		logger.Error(err))
	return err
}

func displayInput(input string) string {
	if input == "" {
		return "<stdin>"
	}
	return input
}
