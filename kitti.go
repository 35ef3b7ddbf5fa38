package yoloprep

// KITTI label files as an alternative source for the annotation normalizer.

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// parseKittiObject parses the line of values for a single KITTI annotation. Only the class name
// and the 2D box (tokens 4 to 7) are used.
func parseKittiObject(line string) (ExternalObject, error) {
	o := ExternalObject{}

	tokens := strings.Fields(line)
	if len(tokens) < 8 {
		return o, fmt.Errorf("insufficient tokens in %q", line)
	}

	o.Name = tokens[0]
	var err error
	for i := 4; i < 8 && err == nil; i++ {
		o.Coords[i-4], err = strconv.ParseFloat(tokens[i], 64)
	}
	if err != nil {
		return o, fmt.Errorf("unexpected values in %q: %v", line, err)
	}

	return o, nil
}

// NormalizeKittiDir converts the KITTI label files in labelDir into label files in outDir. The
// image of each label file is found in imageDir by base name and only its header is read, for
// the pixel size.
//
// All files are converted before the first write. Returns the number of files written.
func NormalizeKittiDir(labelDir, imageDir string, names *ClassNames, outDir string,
	sink Sink) (int, error) {

	labelFiles, err := filesByExtInDir(labelDir, ".txt")
	if err != nil {
		return 0, err
	}
	slog.Info("Parsing KITTI labels", "files", len(labelFiles))

	// Find the image files and map base names without extension to the paths.
	imageFiles, err := filesByExtInDir(imageDir, "")
	if err != nil {
		return 0, err
	}
	imagesByName := make(map[string]string, len(imageFiles))
	for _, path := range imageFiles {
		imagesByName[baseNoExt(path)] = path
	}

	outputs := make(map[string][]LabelRecord, len(labelFiles))
	order := make([]string, 0, len(labelFiles))
	for _, path := range labelFiles {
		_, name, _, err := splitPath(path)
		if err != nil {
			return 0, err
		}
		imagePath, found := imagesByName[name]
		if !found {
			return 0, &CorpusMismatchError{Label: name, NumImages: len(imageFiles),
				NumLabels: len(labelFiles)}
		}
		img, _, err := decodeImageConfig(imagePath)
		if err != nil {
			return 0, fmt.Errorf("failed to decode the image metadata of %q: %w", imagePath, err)
		}

		lines, err := readLines(path)
		if err != nil {
			return 0, err
		}
		records := make([]LabelRecord, 0, len(lines))
		for i, line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			o, err := parseKittiObject(line)
			if err != nil {
				return 0, &MalformedLabelError{Path: path, Line: i + 1, Reason: err.Error()}
			}
			r, err := Normalize(o, img.Width, img.Height, names, path)
			if err != nil {
				return 0, err
			}
			records = append(records, r)
		}

		outName := name + ".txt"
		outputs[outName] = records
		order = append(order, outName)
	}

	return writeLabelFiles(outDir, order, outputs, sink)
}
