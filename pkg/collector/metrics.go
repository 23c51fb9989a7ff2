/*
Copyright © 2026 Benchvault Authors
SPDX-License-Identifier: Apache-2.0
*/

package collector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	buildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "benchvault_builds_total",
			Help: "Total number of benchmark binary builds",
		},
		[]string{"status"}, // success or error
	)

	buildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "benchvault_build_duration_seconds",
			Help:    "Time taken to build one benchmark binary",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	executionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "benchvault_executions_total",
			Help: "Total number of benchmark executions, including retries",
		},
		[]string{"status"}, // success or error
	)

	executionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "benchvault_execution_duration_seconds",
			Help:    "Time taken by one benchmark execution",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	cacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "benchvault_cache_hits_total",
			Help: "Records reused from the store instead of recomputed",
		},
		[]string{"kind"}, // index or measurement
	)

	plansSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "benchvault_plans_skipped_total",
			Help: "Run plans skipped because a successful measurement already exists",
		},
	)
)
