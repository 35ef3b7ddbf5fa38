package main

import (
	"github.com/spf13/cobra"

	"github.com/sensorable/yoloprep"
)

func drawCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Draw labels on images for inspection",
		Args:  cobra.NoArgs,
		RunE:  runDraw,
	}

	f := cmd.Flags()
	f.String("img-dir", "", "The `path` to the image directory")
	f.String("label-dir", "", "The `path` to the label directory")
	f.IntSlice("img-ids", nil,
		"Numeric image `ids`, drawn from files named img<id:06d> and saved as <id:06d>")
	f.StringSlice("img-names", nil, "Image base `names` to draw")
	f.String("class-names", "", "The `path` to the names file")
	f.String("save-dir", "", "The output `path` for the annotated images")
	f.String("format", "yolo", "The box convention of the labels {yolo, yolov6}")
	f.String("img-extension", ".jpg", "The file extension of the images")
	f.String("label-extension", ".txt", "The file extension of the labels")
	f.Int("jpeg-quality", 95, "The quality to use when encoding JPEGs [1, 100]")

	return cmd
}

func runDraw(cmd *cobra.Command, _ []string) error {
	v, err := settings(cmd)
	if err != nil {
		return err
	}
	if err := requirePaths(v, "img-dir", "label-dir", "class-names", "save-dir"); err != nil {
		return err
	}
	format, err := yoloprep.ParseBoxFormat(v.GetString("format"))
	if err != nil {
		return err
	}
	names, err := loadNames(v, "class-names")
	if err != nil {
		return err
	}

	sink := sinkFor(v)
	_, err = yoloprep.DrawCorpus(yoloprep.DrawOptions{
		ImageDir: v.GetString("img-dir"),
		LabelDir: v.GetString("label-dir"),
		SaveDir:  v.GetString("save-dir"),
		ImageExt: v.GetString("img-extension"),
		LabelExt: v.GetString("label-extension"),
		Format:   format,
		Names:    v.GetStringSlice("img-names"),
		IDs:      v.GetIntSlice("img-ids"),
	}, names, sink)
	if err != nil {
		return err
	}
	reportDryRun(sink)
	return nil
}
