package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albatross-proto/albatross-data/internal/errors"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func runIn(t *testing.T, stdin string, args ...string) result {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	return dir
}

func TestSegmentsSaveFromStdin(t *testing.T) {
	dir := chdirTemp(t)

	res := runIn(t, `[{"start":0.1,"end":0.4,"box":2},{"start":0.5,"end":0.9,"box":1}]`, "segments", "save")
	assert.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "Saved 2 segments to data/saved_segments.json\n", res.stdout)

	saved, err := os.ReadFile(filepath.Join(dir, "data", "saved_segments.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"start":0.1,"end":0.4,"box":2},{"start":0.5,"end":0.9,"box":1}]`, string(saved))
}

func TestSegmentsSaveRejectsAndKeepsOutput(t *testing.T) {
	dir := chdirTemp(t)
	output := filepath.Join(dir, "data", "saved_segments.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(output), 0o755))
	previous := `[{"start": 0, "end": 1, "box": 1}]`
	require.NoError(t, os.WriteFile(output, []byte(previous), 0o600))

	res := runIn(t, `[{"start":0.5,"end":0.3,"box":1}]`, "segments", "save")
	assert.Equal(t, 4, res.code)
	assert.Empty(t, res.stdout)
	assert.True(t, strings.HasPrefix(res.stderr, "Error: segment 0: range violation"), res.stderr)

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, previous, string(got))
}

func TestSegmentsSaveExitCodes(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`[{"start":0.1,`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "flag.json"), []byte(`[{"start":0.1,"end":0.2,"box":true}]`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.json"), []byte(`[{"start":0,"end":1,"box":9}]`), 0o600))

	tests := []struct {
		args []string
		code int
	}{
		{[]string{"segments", "save", "missing.json"}, 2},
		{[]string{"segments", "save", "bad.json"}, 3},
		{[]string{"segments", "save", "flag.json"}, 4},
		{[]string{"segments", "save", "ok.json", "--output", "custom/out.json"}, 0},
		{[]string{"segments", "save", "a.json", "b.json"}, 1},
		{[]string{"no-such-command"}, 1},
	}
	for _, tt := range tests {
		res := runIn(t, "", tt.args...)
		assert.Equal(t, tt.code, res.code, "%v: %s", tt.args, res.stderr)
		if tt.code != 0 {
			assert.True(t, strings.HasPrefix(res.stderr, "Error: "), res.stderr)
		}
	}
	assert.FileExists(t, filepath.Join(dir, "custom", "out.json"))
}

func TestVersionSkipsSettings(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("build: [\n"), 0o600))

	res := runIn(t, "", "--version")
	assert.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "version dev (built unknown)")
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	build := func(category errors.ErrorCategory) error {
		return errors.Newf("boom").Category(category).Build()
	}

	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{build(errors.CategoryNotFound), 2},
		{build(errors.CategoryParse), 3},
		{build(errors.CategorySchema), 4},
		{build(errors.CategorySourceRead), 1},
		{build(errors.CategoryConfiguration), 1},
		{fmt.Errorf("wrapped: %w", build(errors.CategorySchema)), 4},
		{errors.Join(nil, build(errors.CategoryParse)), 3},
		{assert.AnError, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, exitCode(tt.err), "%v", tt.err)
	}
}
