package main

import (
	"github.com/spf13/cobra"

	"github.com/sensorable/yoloprep"
)

func exportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export an image/label corpus as TFRecord files",
		Long: "Writes one tf.Example per image in the TensorFlow Object Detection API layout" +
			" and a matching label map.",
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	f := cmd.Flags()
	f.String("data-dir", "", "The `path` to the image directory")
	f.String("labels-dir", "", "The `path` to the label directory")
	f.String("data-extension", ".jpg", "The file extension of the images")
	f.String("labels-extension", ".txt", "The file extension of the labels")
	f.String("names", "", "The names file `path`")
	f.String("format", "yolo", "The box convention of the labels {yolo, yolov6}")
	f.String("output", "", "The TFRecord output `path`")
	f.String("label-map", "", "The label map output `path` (prototxt)")
	f.Int("num-shards", 1, "The number of shard files to create")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	v, err := settings(cmd)
	if err != nil {
		return err
	}
	if err := requirePaths(v, "data-dir", "labels-dir", "names", "output"); err != nil {
		return err
	}
	format, err := yoloprep.ParseBoxFormat(v.GetString("format"))
	if err != nil {
		return err
	}
	names, err := loadNames(v, "names")
	if err != nil {
		return err
	}

	corpus, err := yoloprep.LoadCorpus(v.GetString("data-dir"), v.GetString("data-extension"),
		v.GetString("labels-dir"), v.GetString("labels-extension"))
	if err != nil {
		return err
	}

	sink := sinkFor(v)
	err = yoloprep.ExportTFRecord(corpus, names, yoloprep.ExportOptions{
		RecordPath:   v.GetString("output"),
		LabelMapPath: v.GetString("label-map"),
		NumShards:    v.GetInt("num-shards"),
		Format:       format,
	}, sink)
	if err != nil {
		return err
	}
	reportDryRun(sink)
	return nil
}
