package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaults(t *testing.T) {
	t.Parallel()

	ee := New(fmt.Errorf("test error")).Build()

	assert.Equal(t, "test error", ee.Error())
	assert.Equal(t, CategoryGeneric, ee.Category)
	assert.NotEmpty(t, ee.GetComponent())
	assert.False(t, ee.GetTimestamp().IsZero())
}

func TestBuildKeepsExplicitMetadata(t *testing.T) {
	t.Parallel()

	ee := Newf("bad row %d", 3).
		Component("colony").
		Category(CategorySourceRead).
		Context("row", 3).
		Build()

	assert.Equal(t, "bad row 3", ee.Error())
	assert.Equal(t, "colony", ee.GetComponent())
	assert.Equal(t, "source-read", ee.GetCategory())
	assert.Equal(t, map[string]any{"row": 3}, ee.GetContext())
}

func TestGetContextReturnsCopy(t *testing.T) {
	t.Parallel()

	ee := New(NewStd("x")).Context("k", "v").Build()
	ctx := ee.GetContext()
	ctx["k"] = "changed"

	assert.Equal(t, "v", ee.GetContext()["k"])
}

func TestCategoryInheritedFromWrappedError(t *testing.T) {
	t.Parallel()

	inner := New(NewStd("inner")).Category(CategorySchema).Build()
	outer := New(fmt.Errorf("outer: %w", inner)).Build()

	assert.Equal(t, CategorySchema, outer.Category)
	assert.True(t, IsCategory(outer, CategorySchema))
}

func TestIsMatchesSentinelThroughWrapper(t *testing.T) {
	t.Parallel()

	sentinel := NewStd("range violation")
	ee := New(fmt.Errorf("segment 2: %w", sentinel)).Category(CategorySchema).Build()
	wrapped := fmt.Errorf("save: %w", ee)

	require.True(t, Is(wrapped, sentinel))
	assert.True(t, IsCategory(wrapped, CategorySchema))
	assert.False(t, IsCategory(wrapped, CategoryParse))
	assert.False(t, IsNotFound(wrapped))
}

func TestFileErrorContext(t *testing.T) {
	t.Parallel()

	ee := FileError(NewStd("denied"), "raw/export.CSV", 2048)

	assert.Equal(t, CategoryFileIO, ee.Category)
	ctx := ee.GetContext()
	assert.Equal(t, "csv", ctx["file_extension"])
	assert.Equal(t, int64(2048), ctx["file_size"])
}

func TestComponentOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		funcName string
		want     string
	}{
		{"github.com/albatross-proto/albatross-data/internal/colony.Load", "colony"},
		{"github.com/albatross-proto/albatross-data/internal/segments.(*Saver).Run", "segments"},
		{"github.com/albatross-proto/albatross-data/internal/conf.Load", "configuration"},
		{"github.com/albatross-proto/albatross-data/internal/observability/metrics.WriteTextfile", "observability"},
		{"github.com/albatross-proto/albatross-data/cmd/calendar.CheckCommand.func1", "calendar"},
		{"github.com/albatross-proto/albatross-data/internal/errors.New", ""},
		{"main.main", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, componentOf(tt.funcName), tt.funcName)
	}
}

func TestFileExtensionWithoutDot(t *testing.T) {
	t.Parallel()

	ee := FileError(NewStd("denied"), "data/README", 0)

	assert.Equal(t, "none", ee.GetContext()["file_extension"])
	assert.NotContains(t, ee.GetContext(), "file_size")
}
