package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pavanmanishd/handlepool/internal/churn"
	"github.com/pavanmanishd/handlepool/internal/logger"
	"github.com/pavanmanishd/handlepool/metrics"
)

func newChurnCmd() *cobra.Command {
	var configFile string
	flagCfg := churn.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "churn",
		Short: "Run a randomized insert/free/recycle workload",
		Long: `Run a seeded random workload against a pool and verify on every step that
freed handles never resolve and live handles resolve to their own value.

Values come from churn.DefaultConfig, then --config (YAML), then flags.
With --metrics-addr the workload repeats until interrupted and pool
metrics are served at /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := churn.DefaultConfig()
			if configFile != "" {
				var err error
				if cfg, err = churn.LoadConfig(configFile); err != nil {
					return err
				}
			}
			applyFlags(cmd, &cfg, flagCfg)
			return runChurn(cmd, cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configFile, "config", "c", "", "YAML workload config file")
	f.Uint64Var(&flagCfg.Seed, "seed", flagCfg.Seed, "random seed")
	f.IntVar(&flagCfg.Rounds, "rounds", flagCfg.Rounds, "rounds to run (0 = until interrupted)")
	f.IntVar(&flagCfg.Operations, "ops", flagCfg.Operations, "operations per round")
	f.Float64Var(&flagCfg.InsertRatio, "insert-ratio", flagCfg.InsertRatio, "share of operations that insert")
	f.Float64Var(&flagCfg.RecycleRatio, "recycle-ratio", flagCfg.RecycleRatio, "share of operations that recycle")
	f.IntVar(&flagCfg.Capacity, "capacity", flagCfg.Capacity, "initial pool capacity")
	f.IntVar(&flagCfg.StaleWindow, "stale-window", flagCfg.StaleWindow, "freed handles kept for stale probes")
	f.StringVar(&flagCfg.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	f.StringVar(&flagCfg.Log.Level, "log-level", flagCfg.Log.Level, "log level")
	return cmd
}

// applyFlags copies explicitly set flags over cfg.
func applyFlags(cmd *cobra.Command, cfg *churn.Config, flags churn.Config) {
	set := cmd.Flags().Changed
	if set("seed") {
		cfg.Seed = flags.Seed
	}
	if set("rounds") {
		cfg.Rounds = flags.Rounds
	}
	if set("ops") {
		cfg.Operations = flags.Operations
	}
	if set("insert-ratio") {
		cfg.InsertRatio = flags.InsertRatio
	}
	if set("recycle-ratio") {
		cfg.RecycleRatio = flags.RecycleRatio
	}
	if set("capacity") {
		cfg.Capacity = flags.Capacity
	}
	if set("stale-window") {
		cfg.StaleWindow = flags.StaleWindow
	}
	if set("metrics-addr") {
		cfg.MetricsAddr = flags.MetricsAddr
	}
	if set("log-level") {
		cfg.Log.Level = flags.Log.Level
	}
	if cfg.MetricsAddr != "" && !set("rounds") {
		cfg.Rounds = 0
	}
}

func runChurn(cmd *cobra.Command, cfg churn.Config) error {
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rec *metrics.Recorder
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		if rec, err = metrics.NewRecorder("", "churn", reg); err != nil {
			return err
		}
		shutdown := serveMetrics(cfg.MetricsAddr, reg, log)
		defer shutdown()
	}

	rep, err := churn.Run(ctx, cfg, log, rec)
	if err != nil {
		log.Error("churn failed", zap.Error(err))
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(rep), "encode report")
}

func serveMetrics(addr string, reg *prometheus.Registry, log *zap.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info("serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", zap.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
