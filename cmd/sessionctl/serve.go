package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	sessionredis "github.com/weekian/telegraf-session-redis"
	httpAdapter "github.com/weekian/telegraf-session-redis/internal/adapters/http"
	"github.com/weekian/telegraf-session-redis/pkg/observability"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the admin HTTP server",
		Long:  `Serves session inspection, update injection and Prometheus metrics over HTTP.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = a.cfg.HTTPAddr
			}
			inMemory, _ := cmd.Flags().GetBool("memory")

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector())
			metrics := observability.NewStoreMetrics(reg)

			rs, err := a.open(inMemory, sessionredis.WithStoreMiddleware(metrics.Middleware()))
			if err != nil {
				return err
			}
			defer rs.Close()

			handler := httpAdapter.NewHandler(rs.Store(),
				httpAdapter.WithHandler(counterChain(rs, cmd)),
				httpAdapter.WithGatherer(reg),
				httpAdapter.WithLogger(a.logger),
			)
			srv := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 5 * time.Second,
			}

			// Channel to listen for errors coming from the listener.
			serverErrors := make(chan error, 1)
			go func() {
				a.logger.Info("Starting admin server", "addr", srv.Addr)
				serverErrors <- srv.ListenAndServe()
			}()

			// Channel to listen for interrupt or terminate signals.
			shutdown := make(chan os.Signal, 1)
			signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(shutdown)

			select {
			case err := <-serverErrors:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("server error: %w", err)

			case sig := <-shutdown:
				a.logger.Info("Start shutdown", "signal", sig.String())

				// Give outstanding requests a deadline for completion.
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				if err := srv.Shutdown(ctx); err != nil {
					a.logger.Error("Graceful shutdown did not complete", "err", err)
					return srv.Close()
				}
				a.logger.Info("Admin server stopped gracefully")
			}
			return nil
		},
	}
	cmd.Flags().String("addr", "", "Listen address (defaults to http_addr from the config)")
	cmd.Flags().Bool("memory", false, "Keep sessions in memory instead of Redis")
	return cmd
}
