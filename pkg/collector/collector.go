/*
Copyright © 2026 Benchvault Authors
SPDX-License-Identifier: Apache-2.0
*/

package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/opencontainers/go-digest"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	apperrors "github.com/benchvault/benchvault/pkg/errors"
	"github.com/benchvault/benchvault/pkg/measurement"
	"github.com/benchvault/benchvault/pkg/runplan"
	"github.com/benchvault/benchvault/pkg/storage"
)

// DefaultScanConcurrency bounds the parallel store reads used when
// computing which plans can be skipped.
const DefaultScanConcurrency = 4

// Runner builds and executes benchmark binaries. The production
// implementation is runplan.Executor; tests substitute their own.
type Runner interface {
	// Build produces the plan's benchmark binary and returns its
	// content digest.
	Build(ctx context.Context, rp *runplan.RunPlan) (digest.Digest, error)

	// Exec runs the plan's benchmark binary, leaving its output under
	// the plan's target directory.
	Exec(ctx context.Context, rp *runplan.RunPlan) error
}

// Batch groups the run plans that share one toolchain. Plans in a
// batch run sequentially while the toolchain lease is held.
type Batch struct {
	Toolchain *runplan.Toolchain `json:"toolchain,omitempty"`
	Plans     []runplan.RunPlan  `json:"plans"`
}

// Collector owns the result store and drives run plans through the
// build and measurement stages.
type Collector struct {
	store     *storage.Store
	runner    Runner
	hooks     Hooks
	cooldown  *rate.Limiter
	retries   uint8
	scanLimit int
}

// Option configures a Collector.
type Option func(*Collector)

// WithRunner replaces the default executor.
func WithRunner(r Runner) Option {
	return func(c *Collector) { c.runner = r }
}

// WithHooks attaches prepare/publish hooks.
func WithHooks(h Hooks) Option {
	return func(c *Collector) { c.hooks = h }
}

// WithCooldown enforces a minimum interval between benchmark
// executions, giving the machine time to return to an idle baseline.
func WithCooldown(d time.Duration) Option {
	return func(c *Collector) {
		if d > 0 {
			c.cooldown = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// WithMaxRetries overrides the retry budget for transient execution
// failures.
func WithMaxRetries(n uint8) Option {
	return func(c *Collector) { c.retries = n }
}

// WithScanConcurrency bounds parallelism of the skip scan.
func WithScanConcurrency(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.scanLimit = n
		}
	}
}

// New opens the result store under dataDir and returns a collector
// ready to run plans. The caller must Close it.
func New(dataDir string, opts ...Option) (*Collector, error) {
	store, err := storage.Open(dataDir)
	if err != nil {
		return nil, err
	}
	c := &Collector{
		store:     store,
		runner:    runplan.NewExecutor(),
		hooks:     NoopHooks{},
		retries:   measurement.DefaultMaxRetries,
		scanLimit: DefaultScanConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases the store and its advisory lock.
func (c *Collector) Close() error {
	return c.store.Close()
}

// Run resolves one plan end to end: binary hash first, then
// measurement, persisting whatever was freshly computed. A measurement
// that ends in a recorded failure is persisted and then returned as a
// *measurement.Failure; any other error means nothing durable was
// produced for the failing stage.
func (c *Collector) Run(ctx context.Context, rp *runplan.RunPlan) error {
	if err := c.hooks.Prepare(ctx, rp); err != nil {
		return fmt.Errorf("prepare hook for %s: %w", rp, err)
	}

	binaryHash, err := c.resolveBinaryHash(ctx, rp)
	if err != nil {
		return err
	}
	hash, err := binaryHash.Value()
	if err != nil {
		return err
	}

	estimates, err := c.resolveMeasurement(ctx, rp, hash)
	if err != nil {
		return err
	}

	if err := binaryHash.EnsurePersisted(ctx); err != nil {
		return err
	}
	if err := estimates.EnsurePersisted(ctx); err != nil {
		return err
	}

	if err := c.hooks.Publish(ctx, rp); err != nil {
		return fmt.Errorf("publish hook for %s: %w", rp, err)
	}

	slog.Info("plan complete", "plan", rp.String(), "binary_hash", hash.String())
	return nil
}

// resolveBinaryHash returns the plan's binary hash entry, building the
// binary only when the plan identity has never been seen. Build
// failures abort plan resolution; nothing is recorded for them.
func (c *Collector) resolveBinaryHash(ctx context.Context, rp *runplan.RunPlan) (*storage.Entry[digest.Digest], error) {
	key := storage.NewIndexKey(rp.Identity())

	rec, ok, err := storage.Lookup[digest.Digest](ctx, c.store, key)
	if err != nil {
		return nil, err
	}
	if ok {
		cacheHitsTotal.WithLabelValues("index").Inc()
		slog.Debug("binary hash cached", "plan", rp.String(), "binary_hash", rec.Value.String())
		return storage.Existing(rec.Value), nil
	}

	slog.Info("building benchmark", "plan", rp.String(), "toolchain", rp.Toolchain.String())
	start := time.Now()
	hash, err := c.runner.Build(ctx, rp)
	buildDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		buildsTotal.WithLabelValues("error").Inc()
		return nil, apperrors.Wrap(apperrors.ErrCodeBuild, fmt.Sprintf("building %s", rp), err)
	}
	buildsTotal.WithLabelValues("success").Inc()

	return storage.NewEntry(key, hash, nil, c.store), nil
}

// resolveMeasurement returns the measurement entry for the plan's
// binary. A cached success is reused as is. A cached failure does not
// satisfy the lookup: the benchmark runs again and the fresh outcome
// replaces the recorded one.
func (c *Collector) resolveMeasurement(ctx context.Context, rp *runplan.RunPlan, hash digest.Digest) (*storage.Entry[measurement.Result], error) {
	key := storage.NewMeasurementKey(hash, rp.Benchmark.Runner, rp.Shield)

	rec, ok, err := storage.Lookup[measurement.Result](ctx, c.store, key)
	if err != nil {
		return nil, err
	}
	if ok && rec.Value.Ok() {
		cacheHitsTotal.WithLabelValues("measurement").Inc()
		slog.Debug("measurement cached", "plan", rp.String(), "binary_hash", hash.String())
		return storage.Existing(rec.Value), nil
	}
	if ok {
		slog.Info("cached measurement is a recorded failure, measuring again",
			"plan", rp.String(), "error", rec.Value.Failure.Message)
	}

	result := c.measure(ctx, rp)
	if result.Ok() {
		return storage.NewEntry(key, result, nil, c.store), nil
	}
	return storage.NewEntry(key, result, result.Failure, c.store), nil
}

// measure executes the benchmark and parses its output, retrying
// transient execution failures up to the configured budget.
func (c *Collector) measure(ctx context.Context, rp *runplan.RunPlan) measurement.Result {
	var attempts uint8
	for {
		est, fail := c.measureOnce(ctx, rp)
		if fail == nil {
			return measurement.Success(est)
		}
		fail.NumRetries = attempts
		fail.MaxRetries = c.retries
		if ctx.Err() != nil || !fail.CanRetry() {
			return measurement.Failed(fail)
		}
		attempts++
		slog.Warn("benchmark attempt failed, retrying",
			"plan", rp.String(), "attempt", attempts, "error", fail.Message)
	}
}

func (c *Collector) measureOnce(ctx context.Context, rp *runplan.RunPlan) (measurement.Estimates, *measurement.Failure) {
	if c.cooldown != nil {
		if err := c.cooldown.Wait(ctx); err != nil {
			return nil, measurement.NewRunFailure(err)
		}
	}

	slog.Info("executing benchmark", "plan", rp.String())
	start := time.Now()
	err := c.runner.Exec(ctx, rp)
	executionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		executionsTotal.WithLabelValues("error").Inc()
		return nil, measurement.NewRunFailure(err)
	}
	executionsTotal.WithLabelValues("success").Inc()

	est, err := measurement.LoadDir(rp.TargetDir(), rp.Benchmark.Package, rp.Benchmark.Name)
	if err != nil {
		return nil, measurement.NewPostProcessFailure(err)
	}
	return est, nil
}

// PlanCanBeSkipped reports whether the plan already has a successful
// measurement on record. It reads the store only; a recorded failure
// or an unknown binary hash both mean the plan still needs to run.
func (c *Collector) PlanCanBeSkipped(ctx context.Context, rp *runplan.RunPlan) (bool, error) {
	rec, ok, err := storage.Lookup[digest.Digest](ctx, c.store, storage.NewIndexKey(rp.Identity()))
	if err != nil || !ok {
		return false, err
	}

	key := storage.NewMeasurementKey(rec.Value, rp.Benchmark.Runner, rp.Shield)
	mrec, ok, err := storage.Lookup[measurement.Result](ctx, c.store, key)
	if err != nil || !ok {
		return false, err
	}
	return mrec.Value.Ok(), nil
}

// LookupEstimates reads whatever the store holds for the plan: its
// binary hash if one is recorded, and the measurement for that hash if
// one exists. Missing records return zero values, not errors.
func (c *Collector) LookupEstimates(ctx context.Context, rp *runplan.RunPlan) (digest.Digest, *measurement.Result, error) {
	rec, ok, err := storage.Lookup[digest.Digest](ctx, c.store, storage.NewIndexKey(rp.Identity()))
	if err != nil || !ok {
		return "", nil, err
	}

	key := storage.NewMeasurementKey(rec.Value, rp.Benchmark.Runner, rp.Shield)
	mrec, ok, err := storage.Lookup[measurement.Result](ctx, c.store, key)
	if err != nil || !ok {
		return rec.Value, nil, err
	}
	return rec.Value, &mrec.Value, nil
}

// ComputeBuildsNeeded filters batches down to the plans that still
// need work, scanning the store concurrently. Batch order is
// preserved, plans within a batch are sorted, and batches left with no
// plans are dropped.
func (c *Collector) ComputeBuildsNeeded(ctx context.Context, batches []Batch) ([]Batch, error) {
	needed := make([][]runplan.RunPlan, len(batches))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.scanLimit)
	for bi, b := range batches {
		for _, rp := range b.Plans {
			g.Go(func() error {
				skip, err := c.PlanCanBeSkipped(gctx, &rp)
				if err != nil {
					return err
				}
				if skip {
					plansSkippedTotal.Inc()
					slog.Info("skipping plan, measurement on record", "plan", rp.String())
					return nil
				}
				mu.Lock()
				needed[bi] = append(needed[bi], rp)
				mu.Unlock()
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Batch, 0, len(batches))
	for bi, b := range batches {
		plans := needed[bi]
		if len(plans) == 0 {
			continue
		}
		sort.Slice(plans, func(i, j int) bool {
			return plans[i].Compare(&plans[j]) < 0
		})
		out = append(out, Batch{Toolchain: b.Toolchain, Plans: plans})
	}
	return out, nil
}

// RunBenchesWithToolchain installs the batch's toolchain, holds its
// lease, and runs every plan. A plan that ends in a recorded failure
// does not stop the batch; its failure is durable and the remaining
// plans are worth running. Any other error aborts the batch.
func (c *Collector) RunBenchesWithToolchain(ctx context.Context, tc *runplan.Toolchain, plans []runplan.RunPlan) error {
	lease, err := tc.EnsureInstalled(ctx)
	if err != nil {
		return err
	}
	defer lease.Release()

	for i := range plans {
		if err := c.Run(ctx, &plans[i]); err != nil {
			var fail *measurement.Failure
			if errors.As(err, &fail) {
				slog.Warn("plan failed, failure recorded",
					"plan", plans[i].String(), "kind", fail.Kind, "error", fail.Message)
				continue
			}
			return err
		}
	}
	return nil
}

// RunSuite computes the remaining work across all batches and runs it,
// one toolchain at a time. It returns the batches that actually ran.
func (c *Collector) RunSuite(ctx context.Context, batches []Batch) ([]Batch, error) {
	needed, err := c.ComputeBuildsNeeded(ctx, batches)
	if err != nil {
		return nil, err
	}
	if len(needed) == 0 {
		slog.Info("all plans already measured, nothing to run")
		return needed, nil
	}

	for _, b := range needed {
		if err := c.RunBenchesWithToolchain(ctx, b.Toolchain, b.Plans); err != nil {
			return needed, err
		}
	}
	return needed, nil
}
