package yoloprep

// Output side effects of the tools, kept behind Sink so the transforms can be tested in memory.

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Sink receives every file a tool produces.
type Sink interface {
	// CheckEmptyDir fails with a *PreconditionError if dir holds any entries. An absent dir is
	// empty. Nothing is written.
	CheckEmptyDir(dir string) error
	MkdirAll(dir string) error
	// Create opens path for writing, truncating any existing file.
	Create(path string) (io.WriteCloser, error)
	// CopyFile copies the file at src to dst, never moving or modifying src.
	CopyFile(src, dst string) error
	WriteFile(path string, data []byte) error
	// WriteImage encodes img according to the file extension of path.
	WriteImage(path string, img image.Image) error
}

// DirSink writes to the local file system.
type DirSink struct {
	JPEGQuality int // Quality for JPEG outputs of WriteImage; 95 if zero.
}

// countDirEntries returns the number of entries in dir, or zero if dir does not exist.
func countDirEntries(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, nil
	} else if err != nil {
		return 0, fmt.Errorf("cannot read directory %q: %w", dir, err)
	}
	return len(entries), nil
}

// prepareEmptyDirs checks that every dir is empty or absent and only then creates them all.
func prepareEmptyDirs(sink Sink, dirs ...string) error {
	for _, d := range dirs {
		if err := sink.CheckEmptyDir(d); err != nil {
			return err
		}
	}
	for _, d := range dirs {
		if err := sink.MkdirAll(d); err != nil {
			return err
		}
	}
	return nil
}

// CheckEmptyDir implements Sink.
func (DirSink) CheckEmptyDir(dir string) error {
	n, err := countDirEntries(dir)
	if err != nil {
		return err
	}
	if n > 0 {
		return &PreconditionError{Dir: dir, NumFiles: n}
	}
	return nil
}

// MkdirAll implements Sink.
func (DirSink) MkdirAll(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create directory %q: %w", dir, err)
	}
	return nil
}

// CopyFile implements Sink.
func (DirSink) CopyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("cannot copy %q: %w", src, err)
	}
	defer closeWithErrCheck(in, &err)

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("cannot create %q: %w", dst, err)
	}
	defer closeWithErrCheck(out, &err)

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %q to %q: %w", src, dst, err)
	}
	return nil
}

// Create implements Sink.
func (DirSink) Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("cannot create %q: %w", path, err)
	}
	return f, nil
}

// WriteFile implements Sink.
func (DirSink) WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("cannot write file %q: %w", path, err)
	}
	return nil
}

// WriteImage implements Sink.
func (s DirSink) WriteImage(path string, img image.Image) error {
	quality := s.JPEGQuality
	if quality <= 0 {
		quality = 95
	}
	if err := saveImage(path, img, quality); err != nil {
		return fmt.Errorf("cannot write image %q: %w", path, err)
	}
	return nil
}

// MemSink records outputs in memory. It is used for dry runs and tests.
//
// Destination emptiness is checked against both the recorded outputs and the local file system.
type MemSink struct {
	mu     sync.Mutex
	Dirs   map[string]bool
	Copies map[string]string // Destination path to source path.
	Files  map[string][]byte
	Images map[string]image.Image
}

// NewMemSink returns an empty MemSink.
func NewMemSink() *MemSink {
	return &MemSink{
		Dirs:   make(map[string]bool),
		Copies: make(map[string]string),
		Files:  make(map[string][]byte),
		Images: make(map[string]image.Image),
	}
}

// CheckEmptyDir implements Sink.
func (s *MemSink) CheckEmptyDir(dir string) error {
	n, err := countDirEntries(dir)
	if err != nil {
		return err
	}
	n += len(s.Paths(dir))
	if n > 0 {
		return &PreconditionError{Dir: dir, NumFiles: n}
	}
	return nil
}

// MkdirAll implements Sink.
func (s *MemSink) MkdirAll(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Dirs[filepath.Clean(dir)] = true
	return nil
}

// CopyFile implements Sink. The source must exist.
func (s *MemSink) CopyFile(src, dst string) error {
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("cannot copy %q: %w", src, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Copies[filepath.Clean(dst)] = src
	return nil
}

// memFile buffers a file created on a MemSink until it is closed.
type memFile struct {
	bytes.Buffer
	sink *MemSink
	path string
}

func (f *memFile) Close() error {
	return f.sink.WriteFile(f.path, f.Bytes())
}

// Create implements Sink. The content is recorded in Files on Close.
func (s *MemSink) Create(path string) (io.WriteCloser, error) {
	return &memFile{sink: s, path: path}, nil
}

// WriteFile implements Sink.
func (s *MemSink) WriteFile(path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Files[filepath.Clean(path)] = append([]byte(nil), data...)
	return nil
}

// WriteImage implements Sink.
func (s *MemSink) WriteImage(path string, img image.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Images[filepath.Clean(path)] = img
	return nil
}

// Paths returns the sorted output paths recorded directly in dir.
func (s *MemSink) Paths(dir string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir = filepath.Clean(dir)
	var paths []string
	add := func(p string) {
		if filepath.Dir(p) == dir {
			paths = append(paths, p)
		}
	}
	for p := range s.Copies {
		add(p)
	}
	for p := range s.Files {
		add(p)
	}
	for p := range s.Images {
		add(p)
	}
	sort.Strings(paths)
	return paths
}
