package yoloprep

import (
	"log/slog"
)

// Corpus pairs image files with label files. Images[i] and Labels[i] share the same base name.
type Corpus struct {
	Images []string
	Labels []string
}

// Len returns the number of image/label pairs.
func (c Corpus) Len() int {
	return len(c.Images)
}

// Name returns the base name, without extension, of pair i.
func (c Corpus) Name(i int) string {
	return baseNoExt(c.Images[i])
}

// Subset returns the pairs at the given indices, in that order.
func (c Corpus) Subset(idx []int) Corpus {
	sub := Corpus{
		Images: make([]string, len(idx)),
		Labels: make([]string, len(idx)),
	}
	for i, j := range idx {
		sub.Images[i] = c.Images[j]
		sub.Labels[i] = c.Labels[j]
	}
	return sub
}

// NewCorpus pairs image and label paths by position after checking that they correspond 1:1 by
// base name. Any mismatch, including a length mismatch, is a *CorpusMismatchError.
func NewCorpus(images, labels []string) (Corpus, error) {
	n := len(images)
	if len(labels) > n {
		n = len(labels)
	}
	for i := 0; i < n; i++ {
		var image, label string
		if i < len(images) {
			image = baseNoExt(images[i])
		}
		if i < len(labels) {
			label = baseNoExt(labels[i])
		}
		if image != label {
			return Corpus{}, &CorpusMismatchError{
				Image:     image,
				Label:     label,
				NumImages: len(images),
				NumLabels: len(labels),
			}
		}
	}
	return Corpus{Images: images, Labels: labels}, nil
}

// LoadCorpus lists the images with suffix imageExt in imageDir and the labels with suffix labelExt
// in labelDir, in lexicographic order, and pairs them with NewCorpus.
func LoadCorpus(imageDir, imageExt, labelDir, labelExt string) (Corpus, error) {
	images, err := filesByExtInDir(imageDir, normalizeExt(imageExt))
	if err != nil {
		return Corpus{}, err
	}
	labels, err := filesByExtInDir(labelDir, normalizeExt(labelExt))
	if err != nil {
		return Corpus{}, err
	}
	slog.Info("Listed corpus", "images", len(images), "labels", len(labels),
		"imageDir", imageDir, "labelDir", labelDir)

	c, err := NewCorpus(images, labels)
	if err != nil {
		return Corpus{}, err
	}
	slog.Debug("Image and label file names match")
	return c, nil
}
