package yoloprep

// Pascal VOC XML annotations.

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// VOCBox is an absolute pixel box.
type VOCBox struct {
	XMin float64 `xml:"xmin"`
	YMin float64 `xml:"ymin"`
	XMax float64 `xml:"xmax"`
	YMax float64 `xml:"ymax"`
}

// VOCObject is a single object block.
type VOCObject struct {
	Name   string  `xml:"name"`
	BndBox *VOCBox `xml:"bndbox"`
}

// VOCAnnotation is the annotation document of one image.
type VOCAnnotation struct {
	XMLName  xml.Name `xml:"annotation"`
	Filename string   `xml:"filename"`
	Size     struct {
		Width  int `xml:"width"`
		Height int `xml:"height"`
	} `xml:"size"`
	Objects []VOCObject `xml:"object"`
}

// ParseVOC reads the annotation document at path.
func ParseVOC(path string) (*VOCAnnotation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var a VOCAnnotation
	if err := xml.NewDecoder(f).Decode(&a); err != nil {
		return nil, fmt.Errorf("failed to parse VOC annotation %q: %w", path, err)
	}
	return &a, nil
}

// ExternalObject is an object with a class name and absolute pixel corners, as found in external
// annotation formats.
type ExternalObject struct {
	Name   string
	Coords [4]float64 // Absolute x1, y1, x2, y2 offsets from the top-left corner.
}

// Width is the object width from o.Coords.
func (o ExternalObject) Width() float64 {
	return o.Coords[2] - o.Coords[0]
}

// Height is the object height from o.Coords.
func (o ExternalObject) Height() float64 {
	return o.Coords[3] - o.Coords[1]
}

// Normalize converts o to a corner-relative record for an image of the given pixel size. The class
// name is resolved through names; source names the annotation file for error messages.
func Normalize(o ExternalObject, width, height int, names *ClassNames, source string) (
	LabelRecord, error) {

	if width <= 0 || height <= 0 {
		return LabelRecord{}, fmt.Errorf("invalid image size %dx%d in %q", width, height, source)
	}
	classID, ok := names.ID(o.Name)
	if !ok {
		return LabelRecord{}, &UnknownClassError{Name: o.Name, Path: source}
	}

	w, h := float64(width), float64(height)
	return LabelRecord{
		ClassID: classID,
		Box: BoundingBox{
			X:      o.Coords[0] / w,
			Y:      o.Coords[1] / h,
			Width:  o.Width() / w,
			Height: o.Height() / h,
		},
	}, nil
}

// labelNameFor returns the label file name for an annotation of the image named filename. The
// fallback is used when filename is empty.
func labelNameFor(filename, fallback string) string {
	name := baseNoExt(strings.TrimSpace(filename))
	if name == "" || name == "." {
		name = baseNoExt(fallback)
	}
	return name + ".txt"
}

// VOCToRecords normalises all objects of a. Objects without a bndbox are skipped with a warning.
func VOCToRecords(a *VOCAnnotation, names *ClassNames, source string) ([]LabelRecord, error) {
	records := make([]LabelRecord, 0, len(a.Objects))
	for _, obj := range a.Objects {
		if obj.BndBox == nil {
			slog.Warn("Skipping object without bndbox", "file", source, "class", obj.Name)
			continue
		}
		o := ExternalObject{
			Name:   strings.TrimSpace(obj.Name),
			Coords: [4]float64{obj.BndBox.XMin, obj.BndBox.YMin, obj.BndBox.XMax, obj.BndBox.YMax},
		}
		r, err := Normalize(o, a.Size.Width, a.Size.Height, names, source)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// NormalizeVOCDir converts every .xml annotation in xmlDir into a label file in outDir. The label
// file is named after the embedded filename field, not the XML file. An annotation without objects
// yields an empty label file.
//
// All annotations are converted before the first write. Returns the number of files written.
func NormalizeVOCDir(xmlDir string, names *ClassNames, outDir string, sink Sink) (int, error) {
	paths, err := filesByExtInDir(xmlDir, ".xml")
	if err != nil {
		return 0, err
	}

	outputs := make(map[string][]LabelRecord, len(paths))
	order := make([]string, 0, len(paths))
	for _, path := range paths {
		a, err := ParseVOC(path)
		if err != nil {
			return 0, err
		}
		records, err := VOCToRecords(a, names, path)
		if err != nil {
			return 0, err
		}

		name := labelNameFor(a.Filename, path)
		if _, dup := outputs[name]; dup {
			return 0, fmt.Errorf("annotation %q writes %q, which another annotation already writes",
				path, name)
		}
		outputs[name] = records
		order = append(order, name)
	}

	return writeLabelFiles(outDir, order, outputs, sink)
}

// writeLabelFiles writes outputs[name] to outDir/name for every name in order.
func writeLabelFiles(outDir string, order []string, outputs map[string][]LabelRecord,
	sink Sink) (int, error) {

	if err := sink.MkdirAll(outDir); err != nil {
		return 0, err
	}
	for _, name := range order {
		path := filepath.Join(outDir, name)
		if err := sink.WriteFile(path, FormatLabels(outputs[name])); err != nil {
			return 0, err
		}
		slog.Debug("Wrote labels", "file", path, "objects", len(outputs[name]))
	}
	slog.Info("Annotations loaded", "files", len(order), "dir", outDir)
	return len(order), nil
}
