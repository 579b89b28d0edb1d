// Command drometa builds DROP datasets from metadata files, inspects their
// dimensions and aggregates, and manages their snapshots.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/hupe1980/drometa"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "drometa",
		Short: "Index and aggregate dimensionality reduction metadata",
		Long: `drometa builds crossfilter datasets from DR metadata (hyperparameters,
objectives and categorical attributes), prints their dimensions and groups,
and saves or restores snapshots in a blob store.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to the YAML configuration file")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "text", "log format (text, json)")

	root.AddCommand(newInspectCmd(flags), newSnapshotCmd(flags))
	return root
}

// logger builds the logger selected by the global flags. Logs go to stderr
// so command output stays machine readable.
func (f *globalFlags) logger(w io.Writer) (*drometa.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(f.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", f.logLevel)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(f.logFormat) {
	case "text":
		return drometa.NewLogger(slog.NewTextHandler(w, opts)), nil
	case "json":
		return drometa.NewLogger(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", f.logFormat)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
