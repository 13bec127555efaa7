// launchdash serves the SpaceX launch records dashboard and offers the
// same aggregations on the command line.
//
// Usage:
//
//	launchdash [serve] [--port=4546] [--open]
//	launchdash summary [--site=<site>] [--format=table|csv|json]
//	launchdash export [--site=<site>] [--low=<kg>] [--high=<kg>] [--format=csv|xlsx] [--out=<path>]
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"launchdash/internal/config"
	"launchdash/internal/dataset"
	"launchdash/internal/infrastructure"
	"launchdash/pkg/contracts"
)

type rootOptions struct {
	configPath string
	source     string
	logLevel   string
}

// newRootCmd builds the command tree. serve is also the default command.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	serve := &serveOptions{root: opts}

	cmd := &cobra.Command{
		Use:   "launchdash",
		Short: "SpaceX launch records dashboard",
		Long: "launchdash loads a launch records file and serves an interactive dashboard\n" +
			"with a success pie chart and a payload/outcome scatter chart.",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		Version: contracts.GetVersionString(),
		RunE:    serve.run,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "YAML config file (default: $LAUNCHDASH_CONFIG, launchdash.yaml, configs/launchdash.yaml)")
	pf.StringVar(&opts.source, "dataset", "", "dataset path or s3://bucket/key URI")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	serve.addFlags(cmd)
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newSummaryCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig layers the command line flags over config.Load
func (o *rootOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFrom(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if o.source != "" {
		cfg.Dataset.Source = o.source
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadDataset is shared by the offline subcommands. Their logs go to
// stderr so stdout carries only the result.
func (o *rootOptions) loadDataset(cmd *cobra.Command) (*dataset.Dataset, *slog.Logger, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := infrastructure.NewLogger(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	ds, err := dataset.NewLoader(cfg.Dataset, logger).Load(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	return ds, logger, nil
}
