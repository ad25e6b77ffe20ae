package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"crednova/polaris/pkg/config"
	"crednova/polaris/pkg/decision/engine"
	"crednova/polaris/pkg/predictions"
	"crednova/polaris/pkg/server"
	"crednova/polaris/pkg/storage"
	"crednova/polaris/pkg/telemetry/health"
	"crednova/polaris/pkg/telemetry/logging"
	"crednova/polaris/pkg/telemetry/metrics"
	"crednova/polaris/pkg/telemetry/tracing"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
	watch         bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the decision server",
	Long: `Start the Polaris decision server with the specified configuration.

The server exposes the decision API under /api/v1, health probes on
/healthz and /readyz, and Prometheus metrics on /metrics.

Examples:
  # Start with default config
  polaris run

  # Start with custom config
  polaris run --config /etc/polaris/config.yaml

  # Override listen address
  polaris run --listen 0.0.0.0:8080

  # Validate config without starting server
  polaris run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
	runCmd.Flags().BoolVar(&runFlags.watch, "watch", true, "reload engine thresholds when the config file changes")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.New(cfg.Telemetry.Logging, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}

	if runFlags.dryRun {
		fmt.Println("configuration valid")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracer, err := tracing.New(cfg.Telemetry.Tracing, Version)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer tracer.Shutdown(context.Background())

	var registry *prometheus.Registry
	var decisionMetrics *metrics.DecisionMetrics
	var providerMetrics *metrics.ProviderMetrics
	if cfg.Telemetry.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		decisionMetrics = metrics.NewDecisionMetrics(cfg.Telemetry.Metrics, registry)
		providerMetrics = metrics.NewProviderMetrics(cfg.Telemetry.Metrics, registry)
	}

	store, err := storage.NewStore(cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	provider, closeProvider := buildProvider(cfg, logger, providerMetrics)
	defer closeProvider()

	orch, err := engine.New(cfg.Engine, provider, logger, engine.WithMetrics(decisionMetrics))
	if err != nil {
		return fmt.Errorf("failed to build decision engine: %w", err)
	}

	checker := health.New(0)
	checker.RegisterCheck("storage", store.Ping)

	pruner := storage.NewPruner(store, cfg.Storage.Retention, logger)
	scheduler := storage.NewScheduler(pruner)
	if err := scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start retention scheduler: %w", err)
	}
	defer scheduler.Stop()

	srv := server.New(cfg.Server, orch, store, checker, registry, logger)

	if runFlags.watch {
		watcher := config.NewWatcher(cfgFile, logger)
		go func() {
			err := watcher.Watch(ctx, func(next *config.Config) {
				orch, err := engine.New(next.Engine, provider, logger, engine.WithMetrics(decisionMetrics))
				if err != nil {
					logger.Error("reloaded config rejected", "error", err)
					return
				}
				srv.SwapEngine(orch)
			})
			if err != nil {
				logger.Error("config watcher stopped", "error", err)
			}
		}()
	}

	return srv.Start(ctx)
}

// buildProvider assembles the prediction pipeline: the HTTP ensemble,
// wrapped in the Redis cache when enabled.
func buildProvider(cfg *config.Config, logger *slog.Logger, pm *metrics.ProviderMetrics) (predictions.Provider, func()) {
	ensemble := predictions.NewEnsemble(cfg.Models, logger, pm)
	if !cfg.Models.Cache.Enabled {
		return ensemble, func() { ensemble.Close() }
	}

	cache := predictions.NewCachingProvider(ensemble, cfg.Models.Cache, logger, pm)
	return cache, func() {
		cache.Close()
		ensemble.Close()
	}
}
