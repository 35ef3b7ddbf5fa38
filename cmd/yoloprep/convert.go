package main

import (
	"github.com/spf13/cobra"

	"github.com/sensorable/yoloprep"
)

func convertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert label boxes between the yolo and yolov6 conventions",
		Long: "Re-anchors every box of every label file between top-left corner (yolo) and" +
			" center (yolov6) coordinates. Without --save-folder the label files are overwritten.",
		Args: cobra.NoArgs,
		RunE: runConvert,
	}

	f := cmd.Flags()
	f.String("labels-dir", "", "The `path` to the label directory")
	f.String("correction-type", "yolo -> yolov6",
		"The conversion to apply {\"yolo -> yolov6\", \"yolov6 -> yolo\"}")
	f.String("save-folder", "", "The output `path`; the original labels are overwritten if empty")
	f.String("labels-extension", ".txt", "The file extension of the labels")

	return cmd
}

func runConvert(cmd *cobra.Command, _ []string) error {
	v, err := settings(cmd)
	if err != nil {
		return err
	}
	if err := requirePaths(v, "labels-dir"); err != nil {
		return err
	}
	direction, err := yoloprep.ParseDirection(v.GetString("correction-type"))
	if err != nil {
		return err
	}

	sink := sinkFor(v)
	_, err = yoloprep.ConvertLabels(yoloprep.ConvertOptions{
		LabelDir:  v.GetString("labels-dir"),
		LabelExt:  v.GetString("labels-extension"),
		Direction: direction,
		OutDir:    v.GetString("save-folder"),
	}, sink)
	if err != nil {
		return err
	}
	reportDryRun(sink)
	return nil
}
