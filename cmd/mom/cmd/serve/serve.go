package serve

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mom-generator/cmd/mom/cmd/shared"
	"mom-generator/internal/api/server"
)

var shutdownTimeout time.Duration

func init() {
	Cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "time allowed for in-flight requests on shutdown")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI and HTTP API",
	Long: `Start the web UI and HTTP API

- The browser UI is served at / behind the fixed login
- The JSON API is served under /api/v1, metrics at /metrics
- SIGINT or SIGTERM drains in-flight requests before exiting`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := shared.Load()
		if err != nil {
			return err
		}
		defer env.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		svc, cleanup, err := env.Services(ctx, registry)
		if err != nil {
			return err
		}
		defer cleanup()

		srv, err := server.NewServer(server.ConfigFrom(env.Config), server.DependenciesFrom(env.Config, svc, registry), env.Logger)
		if err != nil {
			return err
		}
		errc, err := srv.Start()
		if err != nil {
			return err
		}

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}

		env.Logger.Info("shutdown signal received", zap.Duration("timeout", shutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
