package yoloprep

// Class subsetting and remapping.

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
)

// Policy decides what happens to objects whose class was not selected.
type Policy int

// The remapping policies. IncludeEmpty and BucketOther are mutually exclusive by construction.
const (
	// Drop removes unselected objects and images left without objects.
	Drop Policy = iota
	// IncludeEmpty removes unselected objects but keeps images left without objects, with an
	// empty label file, as negative examples.
	IncludeEmpty
	// BucketOther maps every unselected class to one extra "other" class.
	BucketOther
)

func (p Policy) String() string {
	switch p {
	case Drop:
		return "drop"
	case IncludeEmpty:
		return "include-empty"
	case BucketOther:
		return "bucket-other"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// NewPolicy builds a Policy from the two command-line switches. Setting both is a *ConfigError.
func NewPolicy(includeEmptyAsNegative, bucketLeftover bool) (Policy, error) {
	switch {
	case includeEmptyAsNegative && bucketLeftover:
		return Drop, configErrorf("including empty images and bucketing leftover classes cannot" +
			" be selected together")
	case includeEmptyAsNegative:
		return IncludeEmpty, nil
	case bucketLeftover:
		return BucketOther, nil
	}
	return Drop, nil
}

// ClassMapping maps selected source class indices to dense target indices 0..n-1, in ascending
// order of the source indices.
type ClassMapping struct {
	targets map[int]int
	other   int // Target index for unselected classes, -1 if they are dropped.
}

// BuildMapping creates the mapping for the selected classes. Duplicates collapse. An empty
// selection or a negative class index is a *ConfigError.
func BuildMapping(selected []int, bucketLeftover bool) (ClassMapping, error) {
	if len(selected) == 0 {
		return ClassMapping{}, configErrorf("no classes selected")
	}

	unique := make(map[int]bool, len(selected))
	for _, c := range selected {
		if c < 0 {
			return ClassMapping{}, configErrorf("class index %d is negative", c)
		}
		unique[c] = true
	}
	sorted := make([]int, 0, len(unique))
	for c := range unique {
		sorted = append(sorted, c)
	}
	sort.Ints(sorted)

	m := ClassMapping{targets: make(map[int]int, len(sorted)), other: -1}
	for i, c := range sorted {
		m.targets[c] = i
	}
	if bucketLeftover {
		m.other = len(sorted)
	}
	return m, nil
}

// Lookup returns the target index for a source class, and false if objects of that class are
// dropped.
func (m ClassMapping) Lookup(classID int) (int, bool) {
	if t, ok := m.targets[classID]; ok {
		return t, true
	}
	if m.other >= 0 {
		return m.other, true
	}
	return 0, false
}

// Other returns the "other" target index, and false if the mapping has none.
func (m ClassMapping) Other() (int, bool) {
	return m.other, m.other >= 0
}

// NumClasses returns the number of target classes, including "other".
func (m ClassMapping) NumClasses() int {
	if m.other >= 0 {
		return len(m.targets) + 1
	}
	return len(m.targets)
}

// Remap rewrites the class of r. The box is unchanged. It returns false if r is dropped.
func Remap(r LabelRecord, m ClassMapping) (LabelRecord, bool) {
	t, ok := m.Lookup(r.ClassID)
	if !ok {
		return r, false
	}
	r.ClassID = t
	return r, true
}

// RemapAll remaps records and reports whether the image should be kept under policy p.
func RemapAll(records []LabelRecord, m ClassMapping, p Policy) ([]LabelRecord, bool) {
	out := make([]LabelRecord, 0, len(records))
	for _, r := range records {
		if r2, ok := Remap(r, m); ok {
			out = append(out, r2)
		}
	}
	return out, len(out) > 0 || p == IncludeEmpty
}

// SubsetOptions configures SubsetCorpus.
type SubsetOptions struct {
	ImageOutDir string
	LabelOutDir string
	Classes     []int
	Policy      Policy
	ImageExt    string // Extension of the copied images; that of the source image if empty.
	LabelExt    string // Extension of the written labels, ".txt" if empty.
}

// SubsetResult summarises a subset run.
type SubsetResult struct {
	Mapping    ClassMapping
	NumImages  int // Images written.
	NumObjects int // Objects written.
	NumDropped int // Objects dropped.
}

type subsetItem struct {
	image   string
	name    string
	records []LabelRecord
}

// SubsetCorpus keeps the objects of the selected classes, renumbered densely, and copies the
// retained images with their rewritten labels. Sources are never modified.
//
// Destinations must be empty and all label files must parse before anything is written.
func SubsetCorpus(c Corpus, opts SubsetOptions, sink Sink) (SubsetResult, error) {
	if opts.ImageOutDir == "" || opts.LabelOutDir == "" {
		return SubsetResult{}, configErrorf("image and label output directories are required")
	}
	if filepath.Clean(opts.ImageOutDir) == filepath.Clean(opts.LabelOutDir) {
		return SubsetResult{}, configErrorf("image and label output directories must differ")
	}
	if opts.Policy < Drop || opts.Policy > BucketOther {
		return SubsetResult{}, configErrorf("unknown policy %v", opts.Policy)
	}

	m, err := BuildMapping(opts.Classes, opts.Policy == BucketOther)
	if err != nil {
		return SubsetResult{}, err
	}
	res := SubsetResult{Mapping: m}

	// Parse and remap everything before the first write.
	items := make([]subsetItem, 0, c.Len())
	for i := range c.Labels {
		records, err := ReadLabelFile(c.Labels[i])
		if err != nil {
			return res, err
		}
		kept, include := RemapAll(records, m, opts.Policy)
		res.NumDropped += len(records) - len(kept)
		if !include {
			slog.Debug("Skipping image without selected classes", "image", c.Images[i])
			continue
		}
		items = append(items, subsetItem{image: c.Images[i], name: c.Name(i), records: kept})
	}

	if err := prepareEmptyDirs(sink, opts.ImageOutDir, opts.LabelOutDir); err != nil {
		return res, err
	}

	labelExt := normalizeExt(opts.LabelExt)
	if labelExt == "" {
		labelExt = ".txt"
	}
	for _, it := range items {
		imageExt := normalizeExt(opts.ImageExt)
		if imageExt == "" {
			imageExt = filepath.Ext(it.image)
		}
		if err := sink.CopyFile(it.image, filepath.Join(opts.ImageOutDir, it.name+imageExt)); err != nil {
			return res, err
		}
		labelPath := filepath.Join(opts.LabelOutDir, it.name+labelExt)
		if err := sink.WriteFile(labelPath, FormatLabels(it.records)); err != nil {
			return res, err
		}
		res.NumImages++
		res.NumObjects += len(it.records)
	}

	slog.Info("Created subset", "images", res.NumImages, "objects", res.NumObjects,
		"dropped", res.NumDropped, "classes", m.NumClasses(), "policy", opts.Policy.String())
	return res, nil
}
