package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"launchdash/internal/app"
	"launchdash/internal/infrastructure"
)

type serveOptions struct {
	root *rootOptions
	host string
	port int
	open bool
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{root: root}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard HTTP server (default command)",
		Long: `Loads the dataset and serves the dashboard page, the JSON API and the
/ws live channel. SIGINT or SIGTERM shuts the server down gracefully.`,
		RunE: opts.run,
	}
	opts.addFlags(cmd)
	return cmd
}

func (o *serveOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.host, "host", "", "listen host (overrides config)")
	cmd.Flags().IntVar(&o.port, "port", 0, "listen port (overrides config)")
	cmd.Flags().BoolVar(&o.open, "open", false, "open the dashboard in the default browser")
}

func (o *serveOptions) run(cmd *cobra.Command, _ []string) error {
	cfg, err := o.root.loadConfig()
	if err != nil {
		return err
	}
	if o.host != "" {
		cfg.Server.Host = o.host
	}
	if o.port != 0 {
		cfg.Server.Port = o.port
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApplication(ctx, cfg, logger, app.WithBrowser(o.open))
	if err != nil {
		logger.Error("Failed to initialize application", slog.String("error", err.Error()))
		return err
	}

	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}
	return nil
}
