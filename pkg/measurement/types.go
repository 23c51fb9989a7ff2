/*
Copyright © 2026 Benchvault Authors
SPDX-License-Identifier: Apache-2.0
*/
package measurement

// MetricNanoseconds is the mandatory primary timing metric present in
// every successful set of estimates.
const MetricNanoseconds = "nanoseconds"

// ConfidenceInterval bounds a point estimate at a given confidence level.
type ConfidenceInterval struct {
	ConfidenceLevel float64 `json:"confidence_level"`
	LowerBound      float64 `json:"lower_bound"`
	UpperBound      float64 `json:"upper_bound"`
}

// Estimate is a single statistical estimate with its confidence interval
// and standard error.
type Estimate struct {
	ConfidenceInterval ConfidenceInterval `json:"confidence_interval"`
	PointEstimate      float64            `json:"point_estimate"`
	StandardError      float64            `json:"standard_error"`
}

// Statistic is the statistical summary the benchmark harness produces
// for one metric. Slope is only present for metrics sampled by linear
// regression.
type Statistic struct {
	Mean         Estimate  `json:"mean"`
	Median       Estimate  `json:"median"`
	MedianAbsDev Estimate  `json:"median_abs_dev"`
	Slope        *Estimate `json:"slope,omitempty"`
	StdDev       Estimate  `json:"std_dev"`
}

// Estimates maps metric names to their statistical summaries. Metric
// names are unique; insertion order is irrelevant.
type Estimates map[string]Statistic

// Merge copies entries from other into e without overwriting metrics
// already present. Metric names across primary and secondary records are
// expected to be disjoint; when they are not, the existing entry wins.
func (e Estimates) Merge(other Estimates) {
	for name, stat := range other {
		if _, ok := e[name]; ok {
			continue
		}
		e[name] = stat
	}
}

// Result is the persisted outcome of a measurement: either Estimates on
// success or a recorded Failure. Exactly one of the two is set.
type Result struct {
	Estimates Estimates `json:"estimates,omitempty"`
	Failure   *Failure  `json:"failure,omitempty"`
}

// Ok reports whether the result is a success.
func (r *Result) Ok() bool {
	return r != nil && r.Failure == nil
}

// Success wraps estimates as a successful Result.
func Success(e Estimates) Result {
	return Result{Estimates: e}
}

// Failed wraps a recorded failure as a Result.
func Failed(f *Failure) Result {
	return Result{Failure: f}
}
