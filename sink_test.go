package yoloprep

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirSink(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "a", "b")
	s := DirSink{}

	require.NoError(t, s.CheckEmptyDir(out))
	_, err := os.Stat(out)
	require.True(t, os.IsNotExist(err), "checking must not create the directory")
	require.NoError(t, s.MkdirAll(out))
	require.NoError(t, s.CheckEmptyDir(out))

	src := writeFile(t, dir, "src.txt", "content")
	require.NoError(t, s.CopyFile(src, filepath.Join(out, "dst.txt")))
	got, err := os.ReadFile(filepath.Join(out, "dst.txt"))
	require.NoError(t, err)
	assert.Equal(t, "content", string(got))
	_, err = os.Stat(src)
	assert.NoError(t, err)

	require.NoError(t, s.WriteImage(filepath.Join(out, "img.jpg"), blackImage(6, 4)))
	cfg, format, err := decodeImageConfig(filepath.Join(out, "img.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, image.Pt(6, 4), image.Pt(cfg.Width, cfg.Height))

	w, err := s.Create(filepath.Join(out, "created.bin"))
	require.NoError(t, err)
	_, err = w.Write([]byte("abc"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	got, err = os.ReadFile(filepath.Join(out, "created.bin"))
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	err = s.CheckEmptyDir(out)
	var precondition *PreconditionError
	require.True(t, errors.As(err, &precondition), "got %v", err)
	assert.Equal(t, 3, precondition.NumFiles)

	assert.Error(t, s.CopyFile(filepath.Join(dir, "missing.txt"), filepath.Join(out, "x.txt")))
}

func TestMemSink(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "src.txt", "content")
	out := filepath.Join(dir, "out")

	s := NewMemSink()
	require.NoError(t, s.CheckEmptyDir(out))
	assert.Empty(t, s.Dirs)
	require.NoError(t, s.MkdirAll(out))
	require.NoError(t, s.CopyFile(src, filepath.Join(out, "b.txt")))
	require.NoError(t, s.WriteFile(filepath.Join(out, "a.txt"), []byte("x")))
	require.NoError(t, s.WriteImage(filepath.Join(out, "sub", "c.png"), blackImage(1, 1)))
	w, err := s.Create(filepath.Join(out, "d.bin"))
	require.NoError(t, err)
	_, err = w.Write([]byte("buffered"))
	require.NoError(t, err)
	assert.NotContains(t, s.Files, filepath.Join(out, "d.bin"))
	require.NoError(t, w.Close())
	assert.Equal(t, "buffered", string(s.Files[filepath.Join(out, "d.bin")]))

	assert.Equal(t, []string{filepath.Join(out, "a.txt"), filepath.Join(out, "b.txt"),
		filepath.Join(out, "d.bin")}, s.Paths(out))
	assert.Equal(t, src, s.Copies[filepath.Join(out, "b.txt")])
	assert.True(t, s.Dirs[out])

	// Nothing reaches the disk.
	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))

	var precondition *PreconditionError
	err = s.CheckEmptyDir(out)
	require.True(t, errors.As(err, &precondition), "got %v", err)
	assert.Equal(t, 3, precondition.NumFiles)

	// Existing files on disk count too.
	err = s.CheckEmptyDir(dir)
	assert.True(t, errors.As(err, &precondition), "got %v", err)

	assert.Error(t, s.CopyFile(filepath.Join(dir, "missing.txt"), filepath.Join(out, "x.txt")))
}
