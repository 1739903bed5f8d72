package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/marmos91/nfs4state/internal/controlplane/api"
	"github.com/marmos91/nfs4state/internal/logger"
	"github.com/marmos91/nfs4state/internal/protocol/nfs/v4/state"
	"github.com/marmos91/nfs4state/internal/telemetry"
	"github.com/marmos91/nfs4state/pkg/config"
	"github.com/marmos91/nfs4state/pkg/metrics"
)

var pidFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the NFSv4.1 state handler and its admin API",
	Long: `Run the NFSv4.1 state handler in the foreground.

The state handler owns the client and session tables. The admin API
exposes them over HTTP. When metrics are enabled a Prometheus
endpoint is served on its own port; admin requests and session sweeps
can also be traced to an OTLP collector.

A missing config file is not an error: defaults and NFS4STATE_*
environment variables are used instead.

Examples:
  # Start with the default config
  nfs4state serve

  # Start with a custom config file
  nfs4state serve --config /etc/nfs4state/config.yaml

  # Override the lease time from the environment
  NFS4STATE_STATE_LEASE_TIME=30s nfs4state serve`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&pidFile, "pid-file", "", "Write the process ID to this file")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return err
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	logger.Info("Log level", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	logger.Info("Configuration loaded", "source", configSource(GetConfigFile()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	traceCfg, profCfg := cfg.TelemetryOptions(Version)
	shutdownTracing, err := telemetry.Init(ctx, traceCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("Tracing shutdown error", logger.Err(err))
		}
	}()
	if traceCfg.Enabled {
		logger.Info("Tracing enabled", "endpoint", traceCfg.Endpoint, "sample_rate", traceCfg.SampleRate)
	}

	stopProfiling, err := telemetry.InitProfiling(profCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	defer func() {
		if err := stopProfiling(); err != nil {
			logger.Error("Profiling shutdown error", logger.Err(err))
		}
	}()
	if profCfg.Enabled {
		logger.Info("Profiling enabled", "endpoint", profCfg.Endpoint)
	}

	opts := cfg.StateOptions()

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		opts = append(opts, state.WithMetrics(state.NewStateMetrics(metrics.GetRegistry())))
		metricsServer = metrics.NewServer(metrics.ServerConfig{Port: cfg.Metrics.Port})
		logger.Info("Metrics enabled", "port", cfg.Metrics.Port)
	} else {
		logger.Info("Metrics collection disabled")
	}

	sm, err := state.NewStateHandler(opts...)
	if err != nil {
		return fmt.Errorf("failed to create state handler: %w", err)
	}
	defer func() {
		if err := sm.Shutdown(); err != nil && !errors.Is(err, state.ErrNotRunning) {
			logger.Error("State handler shutdown error", logger.Err(err))
		}
	}()

	apiServer, err := api.NewServer(cfg.ControlPlane, sm)
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}

	if pidFile != "" {
		if err := os.WriteFile(pidFile, []byte(fmt.Sprintf("%d", os.Getpid())), 0644); err != nil {
			return fmt.Errorf("failed to write PID file: %w", err)
		}
		defer func() { _ = os.Remove(pidFile) }()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return apiServer.Start(gctx) })
	if metricsServer != nil {
		g.Go(func() error { return metricsServer.Start(gctx) })
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	logger.Info("Server is running. Press Ctrl+C to stop.")

	select {
	case err := <-done:
		// A listener failed before any signal arrived.
		return err
	case <-ctx.Done():
		stop()
		logger.Info("Shutdown signal received, initiating graceful shutdown")
	}

	select {
	case err := <-done:
		if err != nil {
			logger.Error("Server shutdown error", logger.Err(err))
			return err
		}
		logger.Info("Server stopped gracefully")
		return nil
	case <-time.After(cfg.ShutdownTimeout):
		return fmt.Errorf("graceful shutdown timed out after %s", cfg.ShutdownTimeout)
	}
}

func configSource(path string) string {
	switch {
	case path != "":
		return path
	case config.DefaultConfigExists():
		return config.GetDefaultConfigPath()
	default:
		return "defaults"
	}
}
