package yoloprep

// Error kinds reported by the dataset tools. All of them are fatal to a run.

import (
	"fmt"
)

// CorpusMismatchError reports image and label files that do not pair up by base name.
type CorpusMismatchError struct {
	Image string // Base name of the offending image, empty if there is none.
	Label string // Base name of the offending label, empty if there is none.

	NumImages int
	NumLabels int
}

func (e *CorpusMismatchError) Error() string {
	if e.NumImages != e.NumLabels {
		return fmt.Sprintf("found %d images and %d labels; first unmatched pair: image %q, label %q",
			e.NumImages, e.NumLabels, e.Image, e.Label)
	}
	return fmt.Sprintf("image and label file names do not match: image %q, label %q",
		e.Image, e.Label)
}

// ConfigError reports invalid or conflicting options.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Msg
}

func configErrorf(format string, args ...interface{}) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// PreconditionError reports a destination directory that must be empty but is not.
type PreconditionError struct {
	Dir      string
	NumFiles int
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("destination %q is not empty (%d entries); delete them or choose another"+
		" directory", e.Dir, e.NumFiles)
}

// MalformedLabelError reports a label line with the wrong shape or non-numeric fields.
type MalformedLabelError struct {
	Path   string
	Line   int // 1-based.
	Reason string
}

func (e *MalformedLabelError) Error() string {
	return fmt.Sprintf("malformed label in %q at line %d: %s", e.Path, e.Line, e.Reason)
}

// UnknownClassError reports an annotation with a class name missing from the names table.
type UnknownClassError struct {
	Name string
	Path string
}

func (e *UnknownClassError) Error() string {
	return fmt.Sprintf("unknown class %q in %q", e.Name, e.Path)
}
