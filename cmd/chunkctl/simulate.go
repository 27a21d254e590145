/*
 * Copyright 2026 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cloudwego/chunkmem/metrics"
	"github.com/cloudwego/chunkmem/pool"
)

// simulateOptions are the workload settings of the simulate command.
type simulateOptions struct {
	Workers     int
	Ops         int
	MaxSize     int
	FreeRatio   float64
	Seed        int64
	DumpDir     string
	MetricsAddr string
	Linger      time.Duration
}

var simOpts simulateOptions

func init() {
	cmd := newSimulateCmd()
	cmd.Flags().IntVar(&simOpts.Workers, "workers", 1, "Number of pools, each driven by its own goroutine")
	cmd.Flags().IntVar(&simOpts.Ops, "ops", 10000, "Operations per worker")
	cmd.Flags().IntVar(&simOpts.MaxSize, "max-size", 512, "Largest request size in bytes")
	cmd.Flags().Float64Var(&simOpts.FreeRatio, "free-ratio", 0.4, "Probability that an operation is a release")
	cmd.Flags().Int64Var(&simOpts.Seed, "seed", 1, "Random seed, worker i uses seed+i")
	cmd.Flags().StringVar(&simOpts.DumpDir, "dump-dir", "", "Dump every pool to this directory before releasing it")
	cmd.Flags().StringVar(&simOpts.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running")
	cmd.Flags().DurationVar(&simOpts.Linger, "linger", 0, "Keep serving metrics this long after the run")
	rootCmd.AddCommand(cmd)
}

func newSimulateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "simulate",
		Short: "Run a random acquire/release workload",
		Long: `The simulate command drives one pool per worker with a random mix of
acquisitions and releases, validates every pool, releases what is still live
and prints the final pool statistics.

Example:
  chunkctl simulate --workers 4 --ops 100000
  chunkctl simulate --chunk-size 128 --debug-fill --dump-dir /tmp/dumps
  chunkctl simulate --metrics-addr :9102 --linger 1m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd.Context(), cmd.OutOrStdout(), cfg, simOpts)
		},
	}
}

// workerResult is the outcome of one worker.
type workerResult struct {
	Worker   int        `json:"worker"`
	Acquires int        `json:"acquires"`
	Releases int        `json:"releases"`
	Peak     pool.Stats `json:"peak"`
	Dump     string     `json:"dump,omitempty"`
}

func runSimulate(ctx context.Context, out io.Writer, c Config, o simulateOptions) error {
	if o.Workers <= 0 || o.Ops < 0 || o.MaxSize < 0 {
		return fmt.Errorf("invalid workload: workers=%d ops=%d max-size=%d", o.Workers, o.Ops, o.MaxSize)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	pools := make([]*pool.SafePool, o.Workers)
	reg := prometheus.NewRegistry()
	for i := range pools {
		opts := c.poolOptions()
		l := logger.With().Int("worker", i).Logger()
		opts.Logger = &l
		p, err := pool.NewSafePool(opts)
		if err != nil {
			for _, prev := range pools[:i] {
				_ = prev.Close()
			}
			return err
		}
		pools[i] = p
		reg.MustRegister(metrics.NewCollector(fmt.Sprintf("worker-%d", i), p))
	}

	var srv *http.Server
	if o.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv = &http.Server{Addr: o.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Str("addr", o.MetricsAddr).Msg("metrics server failed")
			}
		}()
		logger.Info().Str("addr", o.MetricsAddr).Msg("serving metrics")
	}

	results := make([]workerResult, o.Workers)
	g, gctx := errgroup.WithContext(ctx)
	for i := range pools {
		i := i
		g.Go(func() error {
			res, err := simulateWorker(gctx, i, pools[i], o)
			results[i] = res
			return err
		})
	}
	err := g.Wait()

	if srv != nil {
		if err == nil && o.Linger > 0 {
			select {
			case <-time.After(o.Linger):
			case <-ctx.Done():
			}
		}
		_ = srv.Close()
	}
	for _, p := range pools {
		if cerr := p.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(out, results)
	}
	fmt.Fprintf(out, "%-8s %10s %10s %8s %8s %12s %12s %8s\n",
		"WORKER", "ACQUIRES", "RELEASES", "CHUNKS", "BLOCKS", "TOTAL", "PEAK_USED", "UTIL")
	for _, r := range results {
		fmt.Fprintf(out, "%-8d %10d %10d %8d %8d %12d %12d %7.1f%%\n",
			r.Worker, r.Acquires, r.Releases, r.Peak.Chunks, r.Peak.Blocks,
			r.Peak.TotalBytes, r.Peak.UsedBytes, r.Peak.Utilization*100)
	}
	return nil
}

type liveAlloc struct {
	b    []byte
	size int
}

// simulateWorker runs the workload against p. Everything it acquires is
// released before it returns, so p can be closed without a leak.
func simulateWorker(ctx context.Context, id int, p *pool.SafePool, o simulateOptions) (workerResult, error) {
	res := workerResult{Worker: id}
	rnd := rand.New(rand.NewSource(o.Seed + int64(id)))
	var live []liveAlloc

	releaseAll := func() error {
		for _, a := range live {
			if err := p.Release(a.b, a.size); err != nil {
				return err
			}
			res.Releases++
		}
		live = live[:0]
		return nil
	}

	for op := 0; op < o.Ops; op++ {
		if err := ctx.Err(); err != nil {
			_ = releaseAll()
			return res, err
		}
		if len(live) > 0 && rnd.Float64() < o.FreeRatio {
			k := rnd.Intn(len(live))
			if err := p.Release(live[k].b, live[k].size); err != nil {
				_ = releaseAll()
				return res, fmt.Errorf("worker %d op %d: %w", id, op, err)
			}
			live[k] = live[len(live)-1]
			live = live[:len(live)-1]
			res.Releases++
			continue
		}
		size := rnd.Intn(o.MaxSize + 1)
		b, err := p.Acquire(size)
		if err != nil {
			_ = releaseAll()
			return res, fmt.Errorf("worker %d op %d: %w", id, op, err)
		}
		for i := range b {
			b[i] = byte(id)
		}
		live = append(live, liveAlloc{b: b, size: size})
		res.Acquires++
		if s := p.Stats(); s.UsedBytes > res.Peak.UsedBytes {
			res.Peak = s
		}
	}

	if err := p.Validate(); err != nil {
		_ = releaseAll()
		return res, fmt.Errorf("worker %d: %w", id, err)
	}
	if o.DumpDir != "" {
		path := filepath.Join(o.DumpDir, fmt.Sprintf("worker-%d.bin", id))
		if _, err := p.DumpToFile(path); err != nil {
			_ = releaseAll()
			return res, err
		}
		res.Dump = path
	}
	if err := releaseAll(); err != nil {
		return res, err
	}
	if res.Peak.Chunks == 0 {
		res.Peak = p.Stats()
	}
	logger.Debug().Int("worker", id).Int("acquires", res.Acquires).Int("releases", res.Releases).Msg("worker done")
	return res, nil
}
