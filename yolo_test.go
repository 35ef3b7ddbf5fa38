package yoloprep

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLabels(t *testing.T) {
	records, err := ParseLabels("a.txt", []string{"0 0.1 0.2 0.3 0.4", "", "  12   0.5 0.5 0.25 0.125  "})
	require.NoError(t, err)
	assert.Equal(t, []LabelRecord{
		{ClassID: 0, Box: BoundingBox{X: 0.1, Y: 0.2, Width: 0.3, Height: 0.4}},
		{ClassID: 12, Box: BoundingBox{X: 0.5, Y: 0.5, Width: 0.25, Height: 0.125}},
	}, records)
}

func TestParseLabelsMalformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"too few tokens", "0 0.1 0.2 0.3"},
		{"too many tokens", "0 0.1 0.2 0.3 0.4 0.9"},
		{"non-numeric class", "dog 0.1 0.2 0.3 0.4"},
		{"fractional class", "1.5 0.1 0.2 0.3 0.4"},
		{"negative class", "-1 0.1 0.2 0.3 0.4"},
		{"non-numeric coordinate", "1 0.1 x 0.3 0.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLabels("labels/a.txt", []string{"0 0 0 0 0", tt.line})
			var malformed *MalformedLabelError
			require.True(t, errors.As(err, &malformed), "got %v", err)
			assert.Equal(t, "labels/a.txt", malformed.Path)
			assert.Equal(t, 2, malformed.Line)
		})
	}
}

func TestFormatLabels(t *testing.T) {
	records := []LabelRecord{
		{ClassID: 1, Box: BoundingBox{X: 0.1, Y: 0.2, Width: 0.2, Height: 0.4}},
		{ClassID: 0, Box: BoundingBox{X: 1, Y: 0, Width: 0.5, Height: 0.125}},
	}
	assert.Equal(t, "1 0.1 0.2 0.2 0.4\n0 1 0 0.5 0.125\n", string(FormatLabels(records)))
	assert.Empty(t, FormatLabels(nil))
}

func TestConvertLabels(t *testing.T) {
	dir := t.TempDir()
	labelDir := filepath.Join(dir, "labels")
	writeFile(t, labelDir, "a.txt", "0 0.1 0.2 0.4 0.6\n1 0 0 1 1\n")
	writeFile(t, labelDir, "b.txt", "")
	writeFile(t, labelDir, "notes.md", "not a label file")

	sink := NewMemSink()
	outDir := filepath.Join(dir, "out")
	n, err := ConvertLabels(ConvertOptions{
		LabelDir:  labelDir,
		Direction: CornerToCenter,
		OutDir:    outDir,
	}, sink)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	a, err := ParseLabels("a.txt", strings.Split(string(sink.Files[filepath.Join(outDir, "a.txt")]), "\n"))
	require.NoError(t, err)
	require.Len(t, a, 2)
	assert.InDelta(t, 0.3, a[0].Box.X, 1e-9)
	assert.InDelta(t, 0.5, a[0].Box.Y, 1e-9)
	assert.Equal(t, 0.4, a[0].Box.Width)
	assert.Equal(t, 0.6, a[0].Box.Height)
	assert.Equal(t, LabelRecord{ClassID: 1, Box: BoundingBox{X: 0.5, Y: 0.5, Width: 1, Height: 1}}, a[1])
	assert.Empty(t, sink.Files[filepath.Join(outDir, "b.txt")])
}

func TestConvertLabelsInPlace(t *testing.T) {
	labelDir := t.TempDir()
	path := writeFile(t, labelDir, "a.txt", "3 0.5 0.5 0.2 0.2\n")

	_, err := ConvertLabels(ConvertOptions{LabelDir: labelDir, Direction: CenterToCorner}, DirSink{})
	require.NoError(t, err)

	records, err := ReadLabelFile(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.InDelta(t, 0.4, records[0].Box.X, 1e-9)
	assert.InDelta(t, 0.4, records[0].Box.Y, 1e-9)
}

func TestConvertLabelsMalformedWritesNothing(t *testing.T) {
	labelDir := t.TempDir()
	writeFile(t, labelDir, "a.txt", "0 0.1 0.2 0.4 0.6\n")
	bad := writeFile(t, labelDir, "b.txt", "0 0.1 0.2 0.4 0.6\n1 0.1 0.2\n")

	sink := NewMemSink()
	_, err := ConvertLabels(ConvertOptions{LabelDir: labelDir, Direction: CornerToCenter}, sink)

	var malformed *MalformedLabelError
	require.True(t, errors.As(err, &malformed), "got %v", err)
	assert.Equal(t, bad, malformed.Path)
	assert.Equal(t, 2, malformed.Line)
	assert.Empty(t, sink.Files)

	content, err := os.ReadFile(filepath.Join(labelDir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "0 0.1 0.2 0.4 0.6\n", string(content))
}
