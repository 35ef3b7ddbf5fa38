package yoloprep

// YOLO text label files: one "class x1 x2 x3 x4" line per object.

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
)

// parseLabelLine parses the tokens of a single label line.
func parseLabelLine(line string) (LabelRecord, error) {
	var r LabelRecord

	tokens := strings.Fields(line)
	if len(tokens) != 5 {
		return r, fmt.Errorf("expected 5 tokens, found %d in %q", len(tokens), line)
	}

	classID, err := strconv.Atoi(tokens[0])
	if err != nil {
		return r, fmt.Errorf("class index %q is not an integer", tokens[0])
	}
	if classID < 0 {
		return r, fmt.Errorf("class index %d is negative", classID)
	}
	r.ClassID = classID

	var values [4]float64
	for i := range values {
		values[i], err = strconv.ParseFloat(tokens[i+1], 64)
		if err != nil {
			return r, fmt.Errorf("coordinate %q is not a number", tokens[i+1])
		}
	}
	r.Box = BoundingBox{X: values[0], Y: values[1], Width: values[2], Height: values[3]}

	return r, nil
}

// ParseLabels parses label lines. Blank lines are ignored; any other line that is not a valid
// record fails with a *MalformedLabelError for path.
func ParseLabels(path string, lines []string) ([]LabelRecord, error) {
	records := make([]LabelRecord, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		r, err := parseLabelLine(line)
		if err != nil {
			return nil, &MalformedLabelError{Path: path, Line: i + 1, Reason: err.Error()}
		}
		records = append(records, r)
	}
	return records, nil
}

// ReadLabelFile reads and parses the label file at path.
func ReadLabelFile(path string) ([]LabelRecord, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	return ParseLabels(path, lines)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatLabel returns the text line for r, without a line break.
func FormatLabel(r LabelRecord) string {
	return strings.Join([]string{
		strconv.Itoa(r.ClassID),
		formatFloat(r.Box.X), formatFloat(r.Box.Y),
		formatFloat(r.Box.Width), formatFloat(r.Box.Height),
	}, " ")
}

// FormatLabels returns the content of a label file holding records. Zero records give an empty
// file.
func FormatLabels(records []LabelRecord) []byte {
	var b strings.Builder
	for _, r := range records {
		b.WriteString(FormatLabel(r))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// ConvertOptions configures ConvertLabels.
type ConvertOptions struct {
	LabelDir  string
	LabelExt  string // Suffix of the label files, ".txt" if empty.
	Direction Direction
	OutDir    string // Output directory; the input files are overwritten if empty.
}

// ConvertLabels re-anchors every box of every label file in opts.LabelDir.
//
// All files are parsed before the first write, so a malformed line leaves the output untouched.
// Returns the number of files written.
func ConvertLabels(opts ConvertOptions, sink Sink) (int, error) {
	ext := normalizeExt(opts.LabelExt)
	if ext == "" {
		ext = ".txt"
	}
	if opts.Direction.From == opts.Direction.To {
		return 0, configErrorf("conversion %s does not change the format", opts.Direction)
	}

	paths, err := filesByExtInDir(opts.LabelDir, ext)
	if err != nil {
		return 0, err
	}

	converted := make([][]LabelRecord, len(paths))
	for i, path := range paths {
		records, err := ReadLabelFile(path)
		if err != nil {
			return 0, err
		}
		ConvertAll(records, opts.Direction)
		converted[i] = records
	}

	if opts.OutDir != "" {
		if err := sink.MkdirAll(opts.OutDir); err != nil {
			return 0, err
		}
	}
	for i, path := range paths {
		outPath := path
		if opts.OutDir != "" {
			outPath = filepath.Join(opts.OutDir, filepath.Base(path))
		}
		if err := sink.WriteFile(outPath, FormatLabels(converted[i])); err != nil {
			return 0, err
		}
		slog.Debug("Converted labels", "file", outPath, "objects", len(converted[i]))
	}

	slog.Info("Converted label files", "files", len(paths), "conversion", opts.Direction.String())
	return len(paths), nil
}
