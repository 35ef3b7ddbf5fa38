package yoloprep

// TFRecord export of a YOLO corpus for the TensorFlow Object Detection API.

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/protobuf/proto"
	"github.com/ryszard/tfutils/go/example"
	"github.com/ryszard/tfutils/go/tfrecord"
	"github.com/ryszard/tfutils/proto/tensorflow/core/example" // package tensorflow
)

// TFFeatureMap maps feature names to their values. Values must be convertible to
// tensorflow.Feature.
type TFFeatureMap map[string]interface{}

// ExportOptions configures ExportTFRecord.
type ExportOptions struct {
	RecordPath   string    // Shard suffixes are appended when NumShards > 1.
	LabelMapPath string    // Written in prototxt format; skipped if empty.
	NumShards    int       // Values below 1 mean 1; at most one shard per image.
	Format       BoxFormat // Box convention of the label files.
}

// toFeatureMap converts one image and its labels to the Object Detection API feature map.
// Object Detection API class labels start at 1.
func toFeatureMap(imagePath string, records []LabelRecord, f BoxFormat,
	names *ClassNames) (TFFeatureMap, error) {

	img, format, err := decodeImageConfig(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to decode the image metadata: %w", err)
	}
	imgData, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read the image: %w", err)
	}

	m := make(TFFeatureMap, 16)
	m["image/height"] = img.Height
	m["image/width"] = img.Width
	m["image/filename"] = filepath.Base(imagePath)
	m["image/source_id"] = baseNoExt(imagePath)
	m["image/encoded"] = imgData
	m["image/format"] = format

	n := len(records)
	xmins := make([]float32, n)
	ymins := make([]float32, n)
	xmaxs := make([]float32, n)
	ymaxs := make([]float32, n)
	classes := make([]string, n)
	classIDs := make([]int64, n)
	for i, r := range records {
		c := r.Box.Corners(f)
		xmins[i] = float32(c[0])
		ymins[i] = float32(c[1])
		xmaxs[i] = float32(c[2])
		ymaxs[i] = float32(c[3])
		classes[i] = names.Name(r.ClassID)
		classIDs[i] = int64(r.ClassID) + 1
	}
	m["image/object/bbox/xmin"] = xmins
	m["image/object/bbox/ymin"] = ymins
	m["image/object/bbox/xmax"] = xmaxs
	m["image/object/bbox/ymax"] = ymaxs
	m["image/object/class/text"] = classes
	m["image/object/class/label"] = classIDs

	return m, nil
}

// ExportTFRecord does a streaming conversion, serialisation and file write of the corpus to one
// or more TFRecord files. All label files are parsed before the first shard is created. An empty
// corpus is a *ConfigError.
func ExportTFRecord(c Corpus, names *ClassNames, opts ExportOptions, sink Sink) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = fmt.Errorf("conversion to TensorFlow Example failed: %v", e)
		}
	}()

	if opts.RecordPath == "" {
		return configErrorf("a record output path is required")
	}
	if c.Len() == 0 {
		return configErrorf("no images to export")
	}
	numShards := opts.NumShards
	if numShards <= 0 {
		numShards = 1
	} else if numShards > c.Len() {
		numShards = c.Len()
	}

	labels := make([][]LabelRecord, c.Len())
	for i, path := range c.Labels {
		if labels[i], err = ReadLabelFile(path); err != nil {
			return err
		}
	}

	shardSize := int(math.Ceil(float64(c.Len()) / float64(numShards)))
	if shardSize == 0 {
		shardSize = 1
	}

	var shardFile io.WriteCloser
	shardIdx := -1
	closeShard := func() error {
		if shardFile == nil {
			return nil
		}
		err := shardFile.Close()
		shardFile = nil
		return err
	}
	defer closeShard()

	for i, imagePath := range c.Images {
		// Check if a new shard file needs to be opened for writing.
		if i%shardSize == 0 {
			shardIdx++
			if err := closeShard(); err != nil {
				return err
			}
			shardPath := opts.RecordPath
			if numShards > 1 {
				shardPath += fmt.Sprintf("-%05d-of-%05d", shardIdx, numShards)
			}
			if shardFile, err = sink.Create(shardPath); err != nil {
				return fmt.Errorf("failed to create shard: %w", err)
			}
		}

		features, err := toFeatureMap(imagePath, labels[i], opts.Format, names)
		if err != nil {
			return fmt.Errorf("failed to convert %q: %w", imagePath, err)
		}
		if err := writeTFRecordExample(shardFile, example.New(features)); err != nil {
			return fmt.Errorf("failed to write example for %q: %w", imagePath, err)
		}
	}
	if err := closeShard(); err != nil {
		return err
	}
	slog.Info("Wrote TFRecord", "examples", c.Len(), "shards", shardIdx+1, "path", opts.RecordPath)

	if opts.LabelMapPath != "" {
		return sink.WriteFile(opts.LabelMapPath, []byte(FormatLabelMap(names)))
	}
	return nil
}

// writeTFRecordExample serialises the example and writes it as a TFRecord to w.
func writeTFRecordExample(w io.Writer, e *tensorflow.Example) error {
	enc, err := proto.Marshal(e)
	if err != nil {
		return err
	}

	return tfrecord.Write(w, enc)
}

// FormatLabelMap returns the StringIntLabelMap prototxt for names, with ids starting at 1.
func FormatLabelMap(names *ClassNames) string {
	var b strings.Builder
	for i, n := range names.Names() {
		fmt.Fprintf(&b, "item {\n  name: %q\n  id: %d\n}\n", n, i+1)
	}
	return b.String()
}
