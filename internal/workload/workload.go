// Copyright (C) 2026, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package workload drives a concurrent put/get/remove/contains mix against a
// cache and reports what happened.
package workload

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/lrucache"
)

// ErrInvalidConfig is returned when a Config cannot be run.
var ErrInvalidConfig = errors.New("invalid workload config")

// Config describes a workload. When Duration is zero every worker performs
// exactly Ops operations; otherwise workers run until Duration elapses.
// Operations not claimed by the put, remove and contains ratios are gets.
type Config struct {
	Workers       int
	Keys          int
	Ops           int
	Duration      time.Duration
	PutRatio      float64
	RemoveRatio   float64
	ContainsRatio float64
	Seed          uint64
}

// DefaultConfig returns a read-heavy mix.
func DefaultConfig() Config {
	return Config{
		Workers:       8,
		Keys:          4096,
		Ops:           100_000,
		PutRatio:      0.25,
		RemoveRatio:   0.05,
		ContainsRatio: 0.10,
		Seed:          1,
	}
}

// Validate checks that c describes a runnable workload.
func (c Config) Validate() error {
	switch {
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	case c.Keys < 1:
		return fmt.Errorf("%w: keys must be positive, got %d", ErrInvalidConfig, c.Keys)
	case c.Duration < 0:
		return fmt.Errorf("%w: negative duration %s", ErrInvalidConfig, c.Duration)
	case c.Duration == 0 && c.Ops < 1:
		return fmt.Errorf("%w: ops must be positive without a duration, got %d", ErrInvalidConfig, c.Ops)
	case c.PutRatio < 0 || c.RemoveRatio < 0 || c.ContainsRatio < 0:
		return fmt.Errorf("%w: ratios must not be negative", ErrInvalidConfig)
	case c.PutRatio+c.RemoveRatio+c.ContainsRatio > 1:
		return fmt.Errorf("%w: ratios sum above 1", ErrInvalidConfig)
	}
	return nil
}

// Report summarizes a finished run.
type Report struct {
	Puts     uint64
	Gets     uint64
	Hits     uint64
	Removes  uint64
	Contains uint64
	Elapsed  time.Duration
	FinalLen int
}

// Ops is the total number of operations performed.
func (r Report) Ops() uint64 {
	return r.Puts + r.Gets + r.Removes + r.Contains
}

// Misses is the number of gets that found nothing.
func (r Report) Misses() uint64 {
	return r.Gets - r.Hits
}

// HitRate is the fraction of gets that found their key.
func (r Report) HitRate() float64 {
	if r.Gets == 0 {
		return 0
	}
	return float64(r.Hits) / float64(r.Gets)
}

// OpsPerSecond is the throughput over Elapsed.
func (r Report) OpsPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Ops()) / r.Elapsed.Seconds()
}

// String renders the report as a single human readable line.
func (r Report) String() string {
	return fmt.Sprintf(
		"%s ops in %s (%s ops/s): puts=%s gets=%s hits=%s misses=%s removes=%s contains=%s hit_rate=%.2f%% len=%s",
		humanize.Comma(int64(r.Ops())),
		r.Elapsed.Round(time.Millisecond),
		humanize.CommafWithDigits(r.OpsPerSecond(), 0),
		humanize.Comma(int64(r.Puts)),
		humanize.Comma(int64(r.Gets)),
		humanize.Comma(int64(r.Hits)),
		humanize.Comma(int64(r.Misses())),
		humanize.Comma(int64(r.Removes)),
		humanize.Comma(int64(r.Contains)),
		r.HitRate()*100,
		humanize.Comma(int64(r.FinalLen)),
	)
}

type counters struct {
	puts, gets, hits, removes, contains atomic.Uint64
}

// Run executes cfg against c. It returns early with ctx's error if ctx is
// cancelled; reaching cfg.Duration is a normal finish.
func Run(ctx context.Context, c lrucache.Cacher[int, int], cfg Config) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}

	start := time.Now()
	runCtx := ctx
	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}

	var cnt counters
	g, gctx := errgroup.WithContext(runCtx)
	for w := 0; w < cfg.Workers; w++ {
		rng := rand.New(rand.NewPCG(cfg.Seed, uint64(w)))
		g.Go(func() error {
			for i := 0; cfg.Duration > 0 || i < cfg.Ops; i++ {
				if gctx.Err() != nil {
					return nil
				}
				step(c, cfg, rng, &cnt)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	report := Report{
		Puts:     cnt.puts.Load(),
		Gets:     cnt.gets.Load(),
		Hits:     cnt.hits.Load(),
		Removes:  cnt.removes.Load(),
		Contains: cnt.contains.Load(),
		Elapsed:  time.Since(start),
		FinalLen: c.Len(),
	}
	return report, ctx.Err()
}

func step(c lrucache.Cacher[int, int], cfg Config, rng *rand.Rand, cnt *counters) {
	key := rng.IntN(cfg.Keys)
	switch p := rng.Float64(); {
	case p < cfg.PutRatio:
		c.Put(key, key)
		cnt.puts.Add(1)
	case p < cfg.PutRatio+cfg.RemoveRatio:
		c.Remove(key)
		cnt.removes.Add(1)
	case p < cfg.PutRatio+cfg.RemoveRatio+cfg.ContainsRatio:
		c.Contains(key)
		cnt.contains.Add(1)
	default:
		if _, ok := c.Get(key); ok {
			cnt.hits.Add(1)
		}
		cnt.gets.Add(1)
	}
}
