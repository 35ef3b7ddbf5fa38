// Prepares object detection datasets: train/val splits, YOLO box convention conversion, class
// subsets, VOC/KITTI to YOLO conversion, label overlays and TFRecord export.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFilePath string // Optional YAML file with one section per subcommand.
	debug          bool
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "yoloprep",
		Short:         "Object detection dataset preparation tools",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if debug {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr,
				&slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFilePath, "config", "",
		"YAML config `file` with one section of flag values per subcommand")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("dry-run", false,
		"Validate inputs and report the outputs without writing them")

	rootCmd.AddCommand(
		splitCommand(),
		convertCommand(),
		subsetCommand(),
		voc2yoloCommand(),
		drawCommand(),
		exportCommand(),
	)

	return rootCmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
