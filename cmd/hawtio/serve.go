package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/woq-blended/hawtio-integration/internal/cli"
	"github.com/woq-blended/hawtio-integration/internal/presentation/tui"
	httpAdapter "github.com/woq-blended/hawtio-integration/pkg/adapters/http"
	"github.com/woq-blended/hawtio-integration/pkg/observability"
)

func newServeCmd(opts *cli.Options) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Serves the route document over HTTP: routes, outlines, diagrams, step records,
trace message parsing, change events (SSE) and Prometheus metrics on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sigCtx := cli.NewSignalContext(cmd.Context())
			defer sigCtx.Cancel()

			logger, err := cli.NewLogger(*opts)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			serveOpts := *opts
			serveOpts.Metrics = observability.NewMetrics(reg)

			ws, done, err := cli.OpenWorkspace(sigCtx, serveOpts, logger)
			if err != nil {
				return err
			}
			defer done()

			handler := httpAdapter.NewHandler(ws,
				httpAdapter.WithLogger(logger),
				httpAdapter.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
			)

			srv := &http.Server{
				Addr:              ":" + port,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Channel to listen for errors coming from the listener.
			serverErrors := make(chan error, 1)

			out := cmd.OutOrStdout()
			if cli.IsTerminal(out) {
				tui.PrintBanner(out)
			}
			go func() {
				cli.PrintSystemMessage(out, "Starting hawtio server on %s", srv.Addr)
				cli.PrintSystemMessage(out, "Serving routes from: %s", serveOpts.File)
				serverErrors <- srv.ListenAndServe()
			}()

			select {
			case err := <-serverErrors:
				return fmt.Errorf("server error: %w", err)

			case <-sigCtx.Done():
				cli.PrintSystemMessage(out, "Start shutdown... Signal: %v", sigCtx.Signal())

				// Give outstanding requests a deadline for completion.
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				if err := srv.Shutdown(ctx); err != nil {
					logger.Error("Graceful shutdown did not complete", "err", err)
					if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						return fmt.Errorf("error killing server: %w", err)
					}
				}
				cli.PrintSystemMessage(out, "hawtio server stopped gracefully")
				return nil
			}
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "8080", "Port to listen on")
	cmd.Flags().StringVar(&opts.RedisAddr, "redis", "", "Redis address for the diagram cache (host:port)")
	cmd.Flags().DurationVar(&opts.CacheTTL, "cache-ttl", 10*time.Minute, "Lifetime of cached diagrams in Redis (0 keeps them)")
	return cmd
}
