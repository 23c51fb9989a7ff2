// Package measurement defines the statistical results produced by a
// benchmark run and the recorded-failure type persisted when a run or
// its post-processing fails.
//
// Estimates map metric names (always at least "nanoseconds") to the
// statistical summary emitted by the benchmark harness. LoadDir reads
// the harness output from disk: the mandatory runtime estimates record
// plus an optional secondary metrics record merged on top.
package measurement
