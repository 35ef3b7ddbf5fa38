package main

import (
	"github.com/spf13/cobra"

	"github.com/sensorable/yoloprep"
)

func voc2yoloCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voc2yolo",
		Short: "Convert VOC XML (or KITTI) annotations to yolo label files",
		Long: "Writes one label file per annotation, named after the image file the annotation" +
			" refers to. Class indices are the line positions in the names file.",
		Args: cobra.NoArgs,
		RunE: runVOC2YOLO,
	}

	f := cmd.Flags()
	f.String("source", "voc", "The annotation `format` {voc, kitti}")
	f.String("xml-annotation-folder", "", "The `path` to the annotation folder")
	f.String("images", "", "The `path` to the image folder (kitti only, for the image sizes)")
	f.String("annotation-names-path", "", "The `path` to the names file")
	f.String("save-folder", "", "The output `path` for the label files")

	return cmd
}

func runVOC2YOLO(cmd *cobra.Command, _ []string) error {
	v, err := settings(cmd)
	if err != nil {
		return err
	}
	if err := requirePaths(v, "xml-annotation-folder", "annotation-names-path",
		"save-folder"); err != nil {
		return err
	}
	names, err := loadNames(v, "annotation-names-path")
	if err != nil {
		return err
	}

	sink := sinkFor(v)
	switch source := v.GetString("source"); source {
	case "voc":
		_, err = yoloprep.NormalizeVOCDir(v.GetString("xml-annotation-folder"), names,
			v.GetString("save-folder"), sink)
	case "kitti":
		if err := requirePaths(v, "images"); err != nil {
			return err
		}
		_, err = yoloprep.NormalizeKittiDir(v.GetString("xml-annotation-folder"),
			v.GetString("images"), names, v.GetString("save-folder"), sink)
	default:
		return &yoloprep.ConfigError{Msg: "unsupported annotation format " + source}
	}
	if err != nil {
		return err
	}
	reportDryRun(sink)
	return nil
}
