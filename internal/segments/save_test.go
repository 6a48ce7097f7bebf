package segments

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albatross-proto/albatross-data/internal/errors"
	"github.com/albatross-proto/albatross-data/internal/logger"
	"github.com/albatross-proto/albatross-data/internal/observability/metrics"
)

func newTestSaver(t *testing.T) (*Saver, *metrics.PipelineMetrics) {
	t.Helper()

	m, err := metrics.NewPipelineMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	output := filepath.Join(t.TempDir(), "data", "saved_segments.json")
	return NewSaver(output, logger.NewSlogLogger(&bytes.Buffer{}, logger.LogLevelDebug), m), m
}

func TestSaverFromStdin(t *testing.T) {
	t.Parallel()

	s, m := newTestSaver(t)
	in := `[{"start":0.1,"end":0.4,"box":2},{"start":0.5,"end":0.9,"box":1}]`

	n, err := s.Run(context.Background(), "", strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	saved, err := os.ReadFile(s.Output())
	require.NoError(t, err)
	assert.JSONEq(t, in, string(saved))
	assert.Equal(t, `[
  {
    "start": 0.1,
    "end": 0.4,
    "box": 2
  },
  {
    "start": 0.5,
    "end": 0.9,
    "box": 1
  }
]
`, string(saved))

	assert.InDelta(t, 2, testutil.ToFloat64(m.SegmentsTotal.WithLabelValues(metrics.SegmentsSaved)), 0)
}

func TestSaverRejectionLeavesOutputUntouched(t *testing.T) {
	t.Parallel()

	s, m := newTestSaver(t)
	previous := "[]\n"
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Output()), 0o755))
	require.NoError(t, os.WriteFile(s.Output(), []byte(previous), 0o600))

	n, err := s.Run(context.Background(), "", strings.NewReader(`[{"start":0.5,"end":0.3,"box":1}]`))
	require.Error(t, err)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, ErrRangeViolation)

	n, err = s.Run(context.Background(), "", strings.NewReader(`[{"start":0.5,`))
	require.Error(t, err)
	assert.Zero(t, n)
	assert.True(t, errors.IsCategory(err, errors.CategoryParse))

	got, err := os.ReadFile(s.Output())
	require.NoError(t, err)
	assert.Equal(t, previous, string(got))

	entries, err := os.ReadDir(filepath.Dir(s.Output()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")

	assert.InDelta(t, 1, testutil.ToFloat64(m.ValidationFailures.WithLabelValues(ReasonRange)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ValidationFailures.WithLabelValues(ReasonParse)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SegmentsTotal.WithLabelValues(metrics.SegmentsRejected)), 0)
}

func TestSaverFromFile(t *testing.T) {
	t.Parallel()

	s, _ := newTestSaver(t)
	input := filepath.Join(t.TempDir(), "segments.json")
	require.NoError(t, os.WriteFile(input, []byte(`  [{"start":0,"end":1,"box":3,"note":"whole"}]`+"\n\n"), 0o600))

	n, err := s.Run(context.Background(), input, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	saved, err := os.ReadFile(s.Output())
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"start\": 0,\n    \"end\": 1,\n    \"box\": 3,\n    \"note\": \"whole\"\n  }\n]\n", string(saved))
}

func TestSaverMissingFile(t *testing.T) {
	t.Parallel()

	s, _ := newTestSaver(t)
	_, err := s.Run(context.Background(), filepath.Join(t.TempDir(), "nope.json"), nil)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	_, statErr := os.Stat(s.Output())
	assert.True(t, os.IsNotExist(statErr))
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`[]`,
		`[{"start":0.25,"end":0.75,"box":10}]`,
		`[{"end":1,"box":-1,"start":0,"tags":["a",{"b":null}]},{"start":1e-3,"end":0.002,"box":4}]`,
	}
	for _, in := range inputs {
		path := filepath.Join(t.TempDir(), "out.json")
		require.NoError(t, Save(path, []byte(in)))

		saved, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.JSONEq(t, in, string(saved))

		v, err := Parse(saved)
		require.NoError(t, err)
		_, err = Validate(v)
		require.NoError(t, err)

		var a, b any
		require.NoError(t, json.Unmarshal([]byte(in), &a))
		require.NoError(t, json.Unmarshal(saved, &b))
		assert.Equal(t, a, b)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"[] ", "\n\t[1, 2]\n", `{"a":1}`} {
		_, err := Parse([]byte(in))
		assert.NoError(t, err, in)
	}

	for _, in := range []string{"", "   ", "[1,]", "[] []", "[1] x", "NaN", "{'a':1}", "[True]"} {
		_, err := Parse([]byte(in))
		require.Error(t, err, in)
		assert.True(t, errors.IsCategory(err, errors.CategoryParse), in)
		assert.Contains(t, err.Error(), "invalid JSON", in)
	}
}

func TestReadInput(t *testing.T) {
	t.Parallel()

	raw, err := ReadInput("", strings.NewReader("[]"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))

	_, err = ReadInput("", nil)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileIO))

	dir := t.TempDir()
	_, err = ReadInput(dir, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileIO))
}
