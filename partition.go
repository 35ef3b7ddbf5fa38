package yoloprep

// Train/validation partitioning of a corpus.

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"path/filepath"

	"github.com/disintegration/imaging"
	"gopkg.in/yaml.v3"
)

// Partition splits the indices 0..n-1 into a training and a validation set using a random
// permutation drawn from rng. The training set holds the first floor(n*pctTrain) elements of the
// permutation, the validation set the rest.
func Partition(n int, pctTrain float64, rng *rand.Rand) (trainIdx, valIdx []int, err error) {
	if n < 0 {
		return nil, nil, configErrorf("negative corpus size %d", n)
	}
	if math.IsNaN(pctTrain) || pctTrain < 0 || pctTrain > 1 {
		return nil, nil, configErrorf("training fraction %v is not in [0, 1]", pctTrain)
	}

	nTrain := int(math.Floor(float64(n) * pctTrain))
	perm := rng.Perm(n)
	return perm[:nTrain], perm[nTrain:], nil
}

// SplitOptions configures SplitCorpus.
type SplitOptions struct {
	TrainImageDir string
	TrainLabelDir string
	ValImageDir   string
	ValLabelDir   string

	PctTrain float64
	Seed     int64

	// ImageSize resizes the copied images to ImageSize x ImageSize pixels when positive. The
	// source images are never modified.
	ImageSize          int
	DownsamplingFilter string // Defaults to "box".
	UpsamplingFilter   string // Defaults to "linear".

	// DatasetYAML, when set, is the path of a dataset description for the training framework,
	// listing the two image directories and Names.
	DatasetYAML string
	Names       []string
}

// SplitResult summarises a split.
type SplitResult struct {
	Train Corpus
	Val   Corpus
}

// DatasetConfig is the dataset description read by the training framework.
type DatasetConfig struct {
	Train  string   `yaml:"train"`
	Val    string   `yaml:"val"`
	IsCOCO bool     `yaml:"is_coco"`
	NC     int      `yaml:"nc"`
	Names  []string `yaml:"names"`
}

func (opts *SplitOptions) validate() error {
	dirs := []string{opts.TrainImageDir, opts.TrainLabelDir, opts.ValImageDir, opts.ValLabelDir}
	seen := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		if d == "" {
			return configErrorf("all four destination directories are required")
		}
		d = filepath.Clean(d)
		if seen[d] {
			return configErrorf("destination directory %q is used twice", d)
		}
		seen[d] = true
	}
	if opts.ImageSize < 0 {
		return configErrorf("invalid image size %d", opts.ImageSize)
	}
	if opts.DatasetYAML != "" && len(opts.Names) == 0 {
		return configErrorf("a names table is required to write %q", opts.DatasetYAML)
	}
	return nil
}

// SplitCorpus partitions c with Partition, seeded by opts.Seed, and copies every pair into the
// training or validation directories.
//
// All four destination directories must be empty or absent; all of them are checked before the
// first one is created.
func SplitCorpus(c Corpus, opts SplitOptions, sink Sink) (SplitResult, error) {
	if err := opts.validate(); err != nil {
		return SplitResult{}, err
	}

	var down, up imaging.ResampleFilter
	if opts.ImageSize > 0 {
		var err error
		if down, err = resampleFilter(orDefault(opts.DownsamplingFilter, "box")); err != nil {
			return SplitResult{}, err
		}
		if up, err = resampleFilter(orDefault(opts.UpsamplingFilter, "linear")); err != nil {
			return SplitResult{}, err
		}
	}

	trainIdx, valIdx, err := Partition(c.Len(), opts.PctTrain, rand.New(rand.NewSource(opts.Seed)))
	if err != nil {
		return SplitResult{}, err
	}

	if err := prepareEmptyDirs(sink, opts.TrainImageDir, opts.TrainLabelDir, opts.ValImageDir,
		opts.ValLabelDir); err != nil {
		return SplitResult{}, err
	}

	res := SplitResult{Train: c.Subset(trainIdx), Val: c.Subset(valIdx)}
	sets := []struct {
		name     string
		corpus   Corpus
		imageDir string
		labelDir string
	}{
		{"train", res.Train, opts.TrainImageDir, opts.TrainLabelDir},
		{"val", res.Val, opts.ValImageDir, opts.ValLabelDir},
	}
	for _, set := range sets {
		for i := range set.corpus.Images {
			imgPath := set.corpus.Images[i]
			lblPath := set.corpus.Labels[i]

			imgOut := filepath.Join(set.imageDir, filepath.Base(imgPath))
			if opts.ImageSize > 0 {
				if err := writeResized(imgPath, imgOut, opts.ImageSize, down, up, sink); err != nil {
					return res, err
				}
			} else if err := sink.CopyFile(imgPath, imgOut); err != nil {
				return res, err
			}

			if err := sink.CopyFile(lblPath, filepath.Join(set.labelDir, filepath.Base(lblPath))); err != nil {
				return res, err
			}
		}
		slog.Info("Copied split", "set", set.name, "files", set.corpus.Len(), "imageDir", set.imageDir,
			"labelDir", set.labelDir)
	}

	if opts.DatasetYAML != "" {
		if err := writeDatasetConfig(opts, sink); err != nil {
			return res, err
		}
	}

	return res, nil
}

// writeResized writes a size x size copy of the image at src to dst.
func writeResized(src, dst string, size int, down, up imaging.ResampleFilter, sink Sink) error {
	img, err := loadImage(src)
	if err != nil {
		return fmt.Errorf("cannot load image %q: %w", src, err)
	}
	return sink.WriteImage(dst, resizeSquare(img, size, down, up))
}

func writeDatasetConfig(opts SplitOptions, sink Sink) error {
	cfg := DatasetConfig{
		Train: opts.TrainImageDir,
		Val:   opts.ValImageDir,
		NC:    len(opts.Names),
		Names: opts.Names,
	}
	enc, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("failed to encode dataset config: %w", err)
	}
	if err := sink.WriteFile(opts.DatasetYAML, enc); err != nil {
		return err
	}
	slog.Info("Wrote dataset config", "file", opts.DatasetYAML, "classes", cfg.NC)
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
