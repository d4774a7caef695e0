package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"tradeJournal/internal/adapters/httpapi"
)

func newServeCmd(env *Env) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only journal API and Prometheus metrics",
		Long: `Serve a read-only JSON view of the journal and the Prometheus endpoint
until interrupted.

Routes:
  GET /health
  GET /metrics
  GET /api/v1/trades/active
  GET /api/v1/trades/closed
  GET /api/v1/trades/{id}
  GET /api/v1/metrics/summary
  GET /api/v1/pairs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", addr, err)
			}

			router := httpapi.SetupRoutes(httpapi.NewHandler(env.Store, env.Logger), env.Metrics.Handler())
			server := &http.Server{
				Handler:      router,
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			env.Logger.Info(ctx, "HTTP server listening", map[string]interface{}{"addr": ln.Addr().String()})
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", ln.Addr())
			return serve(ctx, server, ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:9090", "Listen address")

	return cmd
}

// serve runs server on ln until ctx is canceled, then shuts it down gracefully.
func serve(ctx context.Context, server *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
