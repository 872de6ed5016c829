// Copyright (C) 2026, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package command

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/apex/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/luxfi/lrucache/internal/workload"
	"github.com/luxfi/lrucache/lru"
	"github.com/luxfi/lrucache/metercacher"
)

// sources resolves a flag from the environment first, then from key in the
// run section of the YAML config.
func sources(env, key, configPath string) cli.ValueSourceChain {
	return cli.NewValueSourceChain(
		cli.EnvVar(env),
		yaml.YAML("run."+key, altsrc.StringSourcer(configPath)),
	)
}

func RunCommandBuilder(configPath string) *cli.Command {
	defaults := workload.DefaultConfig()

	return &cli.Command{
		Name:      "run",
		Usage:     "run a put/get/remove/contains workload against an LRU cache",
		UsageText: "lrubench run [options]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "capacity",
				Aliases: []string{"c"},
				Usage:   "maximum number of cache entries",
				Value:   1024,
				Sources: sources("LRUBENCH_CAPACITY", "capacity", configPath),
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "number of concurrent workers",
				Value:   defaults.Workers,
				Sources: sources("LRUBENCH_WORKERS", "workers", configPath),
			},
			&cli.IntFlag{
				Name:    "keys",
				Aliases: []string{"k"},
				Usage:   "size of the key space",
				Value:   defaults.Keys,
				Sources: sources("LRUBENCH_KEYS", "keys", configPath),
			},
			&cli.IntFlag{
				Name:    "ops",
				Usage:   "operations per worker when no duration is set",
				Value:   defaults.Ops,
				Sources: sources("LRUBENCH_OPS", "ops", configPath),
			},
			&cli.DurationFlag{
				Name:    "duration",
				Aliases: []string{"d"},
				Usage:   "run for this long instead of a fixed number of operations",
				Sources: sources("LRUBENCH_DURATION", "duration", configPath),
			},
			&cli.FloatFlag{
				Name:    "put-ratio",
				Usage:   "fraction of operations that are puts",
				Value:   defaults.PutRatio,
				Sources: sources("LRUBENCH_PUT_RATIO", "put_ratio", configPath),
			},
			&cli.FloatFlag{
				Name:    "remove-ratio",
				Usage:   "fraction of operations that are removes",
				Value:   defaults.RemoveRatio,
				Sources: sources("LRUBENCH_REMOVE_RATIO", "remove_ratio", configPath),
			},
			&cli.FloatFlag{
				Name:    "contains-ratio",
				Usage:   "fraction of operations that are contains checks",
				Value:   defaults.ContainsRatio,
				Sources: sources("LRUBENCH_CONTAINS_RATIO", "contains_ratio", configPath),
			},
			&cli.Uint64Flag{
				Name:    "seed",
				Usage:   "random seed",
				Value:   defaults.Seed,
				Sources: sources("LRUBENCH_SEED", "seed", configPath),
			},
			&cli.StringFlag{
				Name:    "namespace",
				Usage:   "prometheus namespace for cache metrics",
				Value:   "lrubench",
				Sources: sources("LRUBENCH_NAMESPACE", "namespace", configPath),
			},
			&cli.StringFlag{
				Name:    "metrics-addr",
				Usage:   "serve /metrics on this address while running",
				Sources: sources("LRUBENCH_METRICS_ADDR", "metrics_addr", configPath),
			},
		},
		Action: RunCommandAction,
	}
}

func RunCommandAction(ctx context.Context, cmd *cli.Command) error {
	var evictions atomic.Uint64
	engine, err := lru.NewCache(cmd.Int("capacity"), lru.WithOnEvict(func(int, int) {
		evictions.Add(1)
	}))
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	cache, err := metercacher.New[int, int](cmd.String("namespace"), reg, engine)
	if err != nil {
		return fmt.Errorf("failed to register cache metrics: %w", err)
	}

	if addr := cmd.String("metrics-addr"); addr != "" {
		srv := serveMetrics(addr, reg)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.WithError(err).Warn("metrics server shutdown")
			}
		}()
	}

	cfg := workload.Config{
		Workers:       cmd.Int("workers"),
		Keys:          cmd.Int("keys"),
		Ops:           cmd.Int("ops"),
		Duration:      cmd.Duration("duration"),
		PutRatio:      cmd.Float("put-ratio"),
		RemoveRatio:   cmd.Float("remove-ratio"),
		ContainsRatio: cmd.Float("contains-ratio"),
		Seed:          cmd.Uint64("seed"),
	}

	log.WithFields(log.Fields{
		"capacity": engine.Capacity(),
		"workers":  cfg.Workers,
		"keys":     cfg.Keys,
		"duration": cfg.Duration,
	}).Info("starting workload")

	// An interrupted run still reports what it got through.
	report, runErr := workload.Run(ctx, cache, cfg)
	if runErr != nil && ctx.Err() == nil {
		return runErr
	}

	log.WithFields(log.Fields{
		"ops":       report.Ops(),
		"evictions": evictions.Load(),
		"elapsed":   report.Elapsed,
	}).Info("workload finished")

	if _, err := fmt.Fprintf(cmd.Root().Writer, "%s evictions=%d\n", report, evictions.Load()); err != nil {
		return err
	}
	return runErr
}

func serveMetrics(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.WithField("addr", addr).Info("metrics server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server")
		}
	}()
	return srv
}
