package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/m-zajac/gitpulse/internal/api/http"
	"github.com/m-zajac/gitpulse/internal/app"
	"github.com/spf13/cobra"
)

func newServeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run dashboard daemon",
		Long: `Run dashboard daemon: loads all projects, refreshes them periodically (GITPULSE_REFRESH_INTERVAL)
and serves dashboard state and actions over http (GITPULSE_HTTP_SERVER_ADDRESS).

Stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, e)
		},
	}
}

func runServe(cmd *cobra.Command, e *env) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := e.openFilterStore()
	if err != nil {
		return fmt.Errorf("opening filters db: %w", err)
	}
	defer closeStore()

	dashboard, err := app.NewDashboard(
		newBackendClient(e.conf),
		store,
		e.conf.RefreshInterval,
		e.l.WithField("component", "dashboard"),
	)
	if err != nil {
		return fmt.Errorf("creating dashboard: %w", err)
	}
	dashboard.Start()
	defer dashboard.Close()

	mux := http.NewMux(dashboard, e.conf.ServiceResponseTimeout, e.l.WithField("component", "mux"))
	server := http.NewServer(
		e.conf.HTTPServerAddress,
		e.conf.HTTPProfileServerAddress,
		mux,
		e.l.WithField("component", "httpServer"),
	)

	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("running http server: %w", err)
	}
	e.l.Info("shutting down")

	return nil
}
