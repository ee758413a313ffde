package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/dappnode/packages-status/pkg/server"
)

// shutdownTimeout bounds graceful shutdown of the API server.
const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the status dashboard API over HTTP",
		Long: `Serve exposes the refresh cycle over HTTP:

  GET  /api/status         ordered rows of a refresh (?filter= narrows them)
  POST /api/update-status  resolve {query, rows} supplied by the caller
  GET  /api/summary        summary counts of a refresh
  GET  /healthz            liveness and upstream circuit breaker states`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, \":8080\")")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireRemote(); err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	a, err := newApp(ctx, cfg, false, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.New(a.runner,
		server.WithReportTTL(cfg.Server.ReportTTL.Duration),
		server.WithLogger(logger),
		server.WithBreakers(a.breakers),
	)

	errc := make(chan error, 1)
	go func() { errc <- srv.Start(addr) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}
