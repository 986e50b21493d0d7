package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/triage/internal/cli"
	"github.com/aretw0/triage/internal/config"
	httpAdapter "github.com/aretw0/triage/pkg/adapters/http"
	"github.com/aretw0/triage/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/triage/pkg/adapters/redis"
	"github.com/aretw0/triage/pkg/domain"
	"github.com/aretw0/triage/pkg/observability"
	"github.com/aretw0/triage/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stateless HTTP server",
	Long: `Starts the triage assistant as a JSON API over HTTP.

Endpoints: POST /api/symptom_check, POST /api/answer, GET /api/tree,
GET /api/stats, GET /metrics, GET /health.
Outcome counters are kept in Redis when TRIAGE_REDIS_ADDR is set and in
memory otherwise.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		treePath, _ := cmd.Flags().GetString("tree")
		cfg, logger := loadConfig(cmd)

		handler, cleanup, err := buildServeHandler(cmd.Context(), cfg, treePath, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("starting triage server", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("triage server stopped gracefully")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}

// buildServeHandler wires metrics, the outcome recorder and the assistant
// behind the HTTP adapter. cleanup releases the Redis client, if any.
func buildServeHandler(ctx context.Context, cfg config.Config, treePath string, logger *slog.Logger) (http.Handler, func(), error) {
	cleanup := func() {}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(reg)

	hooks := []domain.LifecycleHooks{metrics.Hooks(), observability.LogHooks(logger)}
	handlerOpts := []httpAdapter.Option{
		httpAdapter.WithLogger(logger),
		httpAdapter.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	}

	// Outcome counters live in Redis when configured, otherwise in memory.
	var recorder ports.OutcomeRecorder
	if cfg.Redis.Enabled() {
		rec := redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redisAdapter.WithLogger(logger))
		cleanup = func() {
			if err := rec.Close(); err != nil {
				logger.Warn("closing redis client", "err", err)
			}
		}
		if err := rec.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, outcome counters will be skipped until it recovers", "addr", cfg.Redis.Addr, "err", err)
		}
		hooks = append(hooks, rec.Hooks())
		recorder = rec
	} else {
		rec := memory.NewRecorder()
		hooks = append(hooks, rec.Hooks())
		recorder = rec
	}
	handlerOpts = append(handlerOpts, httpAdapter.WithStats(func(ctx context.Context) (any, error) {
		return recorder.Stats(ctx)
	}))

	assistant, err := cli.BuildAssistant(ctx, cli.BuildOptions{
		TreePath: treePath,
		Config:   cfg,
		Logger:   logger,
		Hooks:    domain.ChainHooks(hooks...),
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	handler, err := httpAdapter.NewHandler(assistant, handlerOpts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return handler, cleanup, nil
}
