package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spektr-org/homesight/dataset"
	"github.com/spektr-org/homesight/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		loader := dataset.NewLoader(cfg.GetFetchTimeout(), logger.Named("loader"))
		srv, err := server.New(cfg, logger.Named("http"), loader, nil)
		if err != nil {
			return err
		}

		// First load happens before the listener comes up: a schema
		// mismatch stops startup, a fetch failure degrades to an empty
		// dataset and the server starts anyway.
		if err := srv.LoadDataset(ctx); err != nil {
			return err
		}

		return srv.Run(ctx)
	},
}
