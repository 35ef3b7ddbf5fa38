package yoloprep

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vocImg1 = `<annotation>
	<filename>img1.jpg</filename>
	<size><width>100</width><height>50</height><depth>3</depth></size>
	<object>
		<name>dog</name>
		<bndbox><xmin>10</xmin><ymin>10</ymin><xmax>30</xmax><ymax>30</ymax></bndbox>
	</object>
</annotation>
`

func mustNames(t *testing.T, names ...string) *ClassNames {
	t.Helper()
	c, err := NewClassNames(names)
	require.NoError(t, err)
	return c
}

func TestNormalizeVOCDir(t *testing.T) {
	dir := t.TempDir()
	xmlDir := filepath.Join(dir, "xml")
	writeFile(t, xmlDir, "img1.xml", vocImg1)
	writeFile(t, xmlDir, "empty.xml", `<annotation><filename>img2.png</filename>
		<size><width>10</width><height>10</height></size></annotation>`)
	writeFile(t, xmlDir, "readme.txt", "ignored")

	outDir := filepath.Join(dir, "labels")
	sink := NewMemSink()
	n, err := NormalizeVOCDir(xmlDir, mustNames(t, "cat", "dog"), outDir, sink)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, "1 0.1 0.2 0.2 0.4\n", string(sink.Files[filepath.Join(outDir, "img1.txt")]))
	content, ok := sink.Files[filepath.Join(outDir, "img2.txt")]
	assert.True(t, ok)
	assert.Empty(t, content)
}

func TestNormalizeVOCDirFilename(t *testing.T) {
	dir := t.TempDir()
	xmlDir := filepath.Join(dir, "xml")
	// The label file is named after the image, not after the annotation file.
	writeFile(t, xmlDir, "000123.xml", vocImg1)
	writeFile(t, xmlDir, "nameless.xml", `<annotation><filename> </filename>
		<size><width>10</width><height>10</height></size></annotation>`)

	outDir := filepath.Join(dir, "labels")
	sink := NewMemSink()
	_, err := NormalizeVOCDir(xmlDir, mustNames(t, "cat", "dog"), outDir, sink)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(outDir, "img1.txt"), filepath.Join(outDir, "nameless.txt")},
		sink.Paths(outDir))
}

func TestNormalizeVOCDirErrors(t *testing.T) {
	t.Run("unknown class", func(t *testing.T) {
		xmlDir := t.TempDir()
		path := writeFile(t, xmlDir, "img1.xml", vocImg1)

		sink := NewMemSink()
		_, err := NormalizeVOCDir(xmlDir, mustNames(t, "cat"), filepath.Join(xmlDir, "out"), sink)
		var unknown *UnknownClassError
		require.True(t, errors.As(err, &unknown), "got %v", err)
		assert.Equal(t, "dog", unknown.Name)
		assert.Equal(t, path, unknown.Path)
		assert.Empty(t, sink.Files)
	})

	t.Run("invalid xml", func(t *testing.T) {
		xmlDir := t.TempDir()
		writeFile(t, xmlDir, "a.xml", vocImg1)
		writeFile(t, xmlDir, "b.xml", "<annotation><filename>")

		sink := NewMemSink()
		_, err := NormalizeVOCDir(xmlDir, mustNames(t, "dog"), filepath.Join(xmlDir, "out"), sink)
		assert.Error(t, err)
		assert.Empty(t, sink.Files)
	})

	t.Run("duplicate output", func(t *testing.T) {
		xmlDir := t.TempDir()
		writeFile(t, xmlDir, "a.xml", vocImg1)
		writeFile(t, xmlDir, "b.xml", vocImg1)

		_, err := NormalizeVOCDir(xmlDir, mustNames(t, "dog"), filepath.Join(xmlDir, "out"),
			NewMemSink())
		assert.Error(t, err)
	})
}

func TestVOCToRecordsSkipsMissingBox(t *testing.T) {
	a := &VOCAnnotation{Objects: []VOCObject{
		{Name: "dog"},
		{Name: " cat ", BndBox: &VOCBox{XMin: 0, YMin: 0, XMax: 5, YMax: 10}},
	}}
	a.Size.Width, a.Size.Height = 10, 10

	records, err := VOCToRecords(a, mustNames(t, "cat", "dog"), "a.xml")
	require.NoError(t, err)
	assert.Equal(t, []LabelRecord{{ClassID: 0, Box: BoundingBox{Width: 0.5, Height: 1}}}, records)
}

func TestNormalizeInvalidSize(t *testing.T) {
	_, err := Normalize(ExternalObject{Name: "cat"}, 0, 10, mustNames(t, "cat"), "a.xml")
	assert.Error(t, err)
}

func TestLoadNames(t *testing.T) {
	path := writeFile(t, t.TempDir(), "classes.names", "cat\n\n  dog  \r\nbird\n")

	names, err := LoadNames(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog", "bird"}, names.Names())
	assert.Equal(t, 3, names.Len())
	id, ok := names.ID("dog")
	assert.True(t, ok)
	assert.Equal(t, 1, id)
	assert.Equal(t, "bird", names.Name(2))
	assert.Equal(t, "7", names.Name(7))

	dup := writeFile(t, t.TempDir(), "classes.names", "cat\ncat\n")
	_, err = LoadNames(dup)
	assert.Error(t, err)
}

func TestClassNamesNil(t *testing.T) {
	var names *ClassNames
	_, ok := names.ID("cat")
	assert.False(t, ok)
	assert.Equal(t, "3", names.Name(3))
	assert.Zero(t, names.Len())
	assert.Nil(t, names.Names())
}
