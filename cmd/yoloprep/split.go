package main

import (
	"github.com/spf13/cobra"

	"github.com/sensorable/yoloprep"
)

func splitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split an image/label corpus into train and validation sets",
		Long: "Copies a seeded random fraction of the image/label pairs into the training" +
			" directories and the rest into the validation directories. The destination" +
			" directories must be empty or absent.",
		Args: cobra.NoArgs,
		RunE: runSplit,
	}

	f := cmd.Flags()
	f.String("data-dir", "", "The `path` to the image input directory")
	f.String("labels-dir", "", "The `path` to the label input directory")
	f.String("save-dir-train", "", "The output `path` for training images")
	f.String("save-dir-val", "", "The output `path` for validation images")
	f.String("save-dir-train-label", "", "The output `path` for training labels")
	f.String("save-dir-val-label", "", "The output `path` for validation labels")
	f.String("data-extension", ".jpg", "The file extension of the images")
	f.String("labels-extension", ".txt", "The file extension of the labels")
	f.Float64("pct-train", 0.8, "The fraction of pairs used for training [0.0, 1.0]")
	f.Int64("seed", 1111, "The seed of the random permutation")
	f.Int("image-size", 0,
		"Resize copied images to squares with sides of `pixels` length (zero keeps the size)")
	f.String("downsample-filter", "box",
		"The filter to use when downsampling an image {nearest, box, linear, gaussian, lanczos}")
	f.String("upsample-filter", "linear",
		"The filter to use when upsampling an image {nearest, box, linear, gaussian, lanczos}")
	f.Int("jpeg-quality", 95, "The quality to use when encoding resized JPEGs [1, 100]")
	f.String("names", "", "The names file `path`, required for --dataset-yaml")
	f.String("dataset-yaml", "", "Write a dataset description for the training framework to `path`")

	return cmd
}

func runSplit(cmd *cobra.Command, _ []string) error {
	v, err := settings(cmd)
	if err != nil {
		return err
	}
	if err := requirePaths(v, "data-dir", "labels-dir", "save-dir-train", "save-dir-val",
		"save-dir-train-label", "save-dir-val-label"); err != nil {
		return err
	}
	if q := v.GetInt("jpeg-quality"); q < 1 || q > 100 {
		return &yoloprep.ConfigError{Msg: "invalid --jpeg-quality, must be in [1, 100]"}
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
	_, err = yoloprep.SplitCorpus(corpus, yoloprep.SplitOptions{
		TrainImageDir:      v.GetString("save-dir-train"),
		TrainLabelDir:      v.GetString("save-dir-train-label"),
		ValImageDir:        v.GetString("save-dir-val"),
		ValLabelDir:        v.GetString("save-dir-val-label"),
		PctTrain:           v.GetFloat64("pct-train"),
		Seed:               v.GetInt64("seed"),
		ImageSize:          v.GetInt("image-size"),
		DownsamplingFilter: v.GetString("downsample-filter"),
		UpsamplingFilter:   v.GetString("upsample-filter"),
		DatasetYAML:        v.GetString("dataset-yaml"),
		Names:              names.Names(),
	}, sink)
	if err != nil {
		return err
	}
	reportDryRun(sink)
	return nil
}
