package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dpshade/prompt-builder/internal/api"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(app *App) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (generate-prompt, health, compose, analyze)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				app.cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			gen, err := app.newRelay(ctx)
			if err != nil {
				return err
			}
			srv, err := api.NewServer(api.Options{
				Config:         app.cfg.Server,
				Generator:      gen,
				Logger:         app.log,
				IncludeDetails: app.verbose,
			})
			if err != nil {
				return err
			}
			return srv.Run(ctx, shutdownTimeout)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides server.port)")
	return cmd
}
