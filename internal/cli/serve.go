package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"precios/catalog/internal/container"

	"github.com/spf13/cobra"
)

func newServeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog API and static files over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := container.NewServer(opts.cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return app.Run(ctx)
		},
	}
}
