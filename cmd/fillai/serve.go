package main

import (
	"os"
	"os/signal"
	"syscall"

	"fillai-backend/interfaces/server"

	"github.com/spf13/cobra"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, websocket stream and physics loop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			loader := flags.loader()
			cfg, err := loader.Load()
			if err != nil {
				return err
			}
			return server.Run(ctx, cfg, loader)
		},
	}
}
