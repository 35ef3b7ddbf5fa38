package main

import (
	"github.com/spf13/cobra"

	"github.com/sensorable/yoloprep"
)

func subsetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subset",
		Short: "Create a subset of the data and labels with selected classes",
		Long: "Copies the images containing the selected classes and rewrites their labels." +
			" The class indices are recreated from 0 to n-1, where n is the number of selected" +
			" classes, in ascending order of the original indices.",
		Args: cobra.NoArgs,
		RunE: runSubset,
	}

	f := cmd.Flags()
	f.String("data-dir", "", "The `path` to the image directory")
	f.String("labels-dir", "", "The `path` to the label directory")
	f.String("output-dir-data", "", "The output `path` for the subset images")
	f.String("output-dir-labels", "", "The output `path` for the subset labels")
	f.IntSlice("subset-classes", nil, "The comma-separated class `indices` to keep")
	f.Bool("include-no-classes", false,
		"Keep images left without objects, with an empty label file; cannot be combined with"+
			" --leftover-classes-to-other")
	f.Bool("leftover-classes-to-other", false,
		"Map unselected classes to a new class \"other\" with index n; cannot be combined with"+
			" --include-no-classes")
	f.String("img-extension", "jpg", "The file extension of the images")
	f.String("label-extension", "txt", "The file extension of the labels")

	return cmd
}

func runSubset(cmd *cobra.Command, _ []string) error {
	v, err := settings(cmd)
	if err != nil {
		return err
	}
	if err := requirePaths(v, "data-dir", "labels-dir", "output-dir-data",
		"output-dir-labels"); err != nil {
		return err
	}
	policy, err := yoloprep.NewPolicy(v.GetBool("include-no-classes"),
		v.GetBool("leftover-classes-to-other"))
	if err != nil {
		return err
	}

	corpus, err := yoloprep.LoadCorpus(v.GetString("data-dir"), v.GetString("img-extension"),
		v.GetString("labels-dir"), v.GetString("label-extension"))
	if err != nil {
		return err
	}

	sink := sinkFor(v)
	_, err = yoloprep.SubsetCorpus(corpus, yoloprep.SubsetOptions{
		ImageOutDir: v.GetString("output-dir-data"),
		LabelOutDir: v.GetString("output-dir-labels"),
		Classes:     v.GetIntSlice("subset-classes"),
		Policy:      policy,
		ImageExt:    v.GetString("img-extension"),
		LabelExt:    v.GetString("label-extension"),
	}, sink)
	if err != nil {
		return err
	}
	reportDryRun(sink)
	return nil
}
