/*
Copyright © 2026 Benchvault Authors
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v3"

	"github.com/benchvault/benchvault/pkg/collector"
	"github.com/benchvault/benchvault/pkg/runplan"
	"github.com/benchvault/benchvault/pkg/suite"
)

const defaultDataDir = ".benchvault"

// batchReport is the per-toolchain summary emitted by run and plan.
type batchReport struct {
	Toolchain string   `json:"toolchain"`
	Plans     []string `json:"plans"`
}

func reportBatches(batches []collector.Batch) []batchReport {
	out := make([]batchReport, 0, len(batches))
	for _, b := range batches {
		r := batchReport{Toolchain: b.Toolchain.String()}
		for i := range b.Plans {
			r.Plans = append(r.Plans, b.Plans[i].String())
		}
		out = append(out, r)
	}
	return out
}

// openCollector loads the suite and opens a collector on the resolved
// data directory. The caller must Close the collector.
func openCollector(cmd *cli.Command, opts ...collector.Option) (*suite.Config, *collector.Collector, error) {
	cfg, err := suite.Load(cmd.String("suite"))
	if err != nil {
		return nil, nil, err
	}

	dataDir := cmd.String("data-dir")
	if dataDir == "" {
		dataDir = cfg.DataDir
	}
	if dataDir == "" {
		dataDir = defaultDataDir
	}

	opts = append([]collector.Option{
		collector.WithCooldown(time.Duration(cfg.Cooldown)),
	}, opts...)

	c, err := collector.New(dataDir, opts...)
	if err != nil {
		return nil, nil, err
	}
	return cfg, c, nil
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "run every suite plan that has no measurement on record",
		Flags: []cli.Flag{
			suiteFlag,
			dataDirFlag,
			outputFlag,
			formatFlag,
			metricsAddrFlag,
			verifyShieldsFlag,
		},
		Action: runAction,
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	var opts []collector.Option
	if cmd.Bool("verify-shields") {
		ex := runplan.NewExecutor()
		ex.VerifyShields = true
		opts = append(opts, collector.WithRunner(ex))
	}

	cfg, c, err := openCollector(cmd, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := c.Close(); cerr != nil {
			slog.Error("closing collector", "error", cerr)
		}
	}()

	stopMetrics := serveMetrics(ctx, cmd.String("metrics-addr"))
	defer stopMetrics()

	batches := cfg.Batches()
	ran, err := c.RunSuite(ctx, batches)
	if err != nil {
		return err
	}

	w, err := newOutputWriter(cmd)
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Serialize(reportBatches(ran))
}

// serveMetrics exposes /metrics on addr until ctx is cancelled or the
// returned stop function runs. An empty addr is a no-op.
func serveMetrics(ctx context.Context, addr string) func() {
	if addr == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
