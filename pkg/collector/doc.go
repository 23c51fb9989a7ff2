// Package collector runs benchmarks, memoizes their results, and shares
// results across toolchains whose builds produce identical binaries.
//
// For each run plan the collector drives a two-stage pipeline. Stage A
// resolves the plan's binary hash: a cached hash is reused, otherwise the
// external build runs and the resulting content digest becomes the hash.
// Stage B resolves the measurement for (binary hash, runner, shield): a
// cached successful measurement is reused, otherwise the benchmark
// executes and its output is parsed, with bounded retries for transient
// execution failures. Both stages write through the storage Entry
// lifecycle, so a result — including a recorded failure — becomes
// visible to future invocations only at the persist step.
//
// Because the measurement key derives from the binary hash rather than
// the toolchain, toolchains that produce byte-identical binaries share
// measurements without re-execution.
package collector
