package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sensorable/yoloprep"
)

const envPrefix = "YOLOPREP"

// envKey returns the environment variable read for flag name.
func envKey(name string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// splitList splits a comma-separated environment value, dropping empty items.
func splitList(s string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// settings returns the values for cmd's flags. A flag set on the command line wins over the
// YOLOPREP_<FLAG> environment variable, which wins over the command's section in the config file,
// which wins over the flag default. Slice flags take comma-separated environment values.
func settings(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFilePath != "" {
		file := viper.New()
		file.SetConfigFile(configFilePath)
		if err := file.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("cannot read config file %q: %w", configFilePath, err)
		}
		if section := file.Sub(cmd.Name()); section != nil {
			if err := v.MergeConfigMap(section.AllSettings()); err != nil {
				return nil, fmt.Errorf("invalid section %q in %q: %w", cmd.Name(), configFilePath, err)
			}
		}
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("error binding flags: %w", err)
	}

	// Viper hands environment values of slice flags over as one unsplit string.
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed || !strings.HasSuffix(f.Value.Type(), "Slice") {
			return
		}
		if s, ok := os.LookupEnv(envKey(f.Name)); ok {
			v.Set(f.Name, splitList(s))
		}
	})
	return v, nil
}

// requirePaths returns a *yoloprep.ConfigError naming the first empty setting in keys, and cleans
// the others.
func requirePaths(v *viper.Viper, keys ...string) error {
	for _, k := range keys {
		p := v.GetString(k)
		if p == "" {
			return &yoloprep.ConfigError{Msg: "missing required flag --" + k}
		}
		v.Set(k, filepath.Clean(p))
	}
	return nil
}

// sinkFor returns the output sink for the run.
func sinkFor(v *viper.Viper) yoloprep.Sink {
	if v.GetBool("dry-run") {
		return yoloprep.NewMemSink()
	}
	return yoloprep.DirSink{JPEGQuality: v.GetInt("jpeg-quality")}
}

// reportDryRun logs what a dry run would have written.
func reportDryRun(sink yoloprep.Sink) {
	mem, ok := sink.(*yoloprep.MemSink)
	if !ok {
		return
	}
	slog.Info("Dry run, nothing written", "copies", len(mem.Copies), "files", len(mem.Files),
		"images", len(mem.Images))
}

// loadNames loads the names file at the path in setting key, if set.
func loadNames(v *viper.Viper, key string) (*yoloprep.ClassNames, error) {
	path := v.GetString(key)
	if path == "" {
		return nil, nil
	}
	return yoloprep.LoadNames(path)
}
