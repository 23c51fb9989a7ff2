/*
Copyright © 2026 Benchvault Authors
SPDX-License-Identifier: Apache-2.0
*/
package measurement

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStatisticJSON = `{
	"mean": {
		"confidence_interval": {"confidence_level": 0.95, "lower_bound": 95.0, "upper_bound": 105.0},
		"point_estimate": 100.0,
		"standard_error": 2.5
	},
	"median": {
		"confidence_interval": {"confidence_level": 0.95, "lower_bound": 97.0, "upper_bound": 103.0},
		"point_estimate": 99.0,
		"standard_error": 1.5
	},
	"median_abs_dev": {
		"confidence_interval": {"confidence_level": 0.95, "lower_bound": 1.0, "upper_bound": 3.0},
		"point_estimate": 2.0,
		"standard_error": 0.5
	},
	"std_dev": {
		"confidence_interval": {"confidence_level": 0.95, "lower_bound": 4.0, "upper_bound": 6.0},
		"point_estimate": 5.0,
		"standard_error": 0.4
	}
}`

func writeResults(t *testing.T, targetDir, pkg, bench string, files map[string]string) {
	t.Helper()
	dir := ResultsDir(targetDir, pkg, bench)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func TestMerge(t *testing.T) {
	s1 := Statistic{Mean: Estimate{PointEstimate: 1}}
	s2 := Statistic{Mean: Estimate{PointEstimate: 2}}

	t.Run("disjoint", func(t *testing.T) {
		e := Estimates{MetricNanoseconds: s1}
		e.Merge(Estimates{"throughput": s2})
		assert.Len(t, e, 2)
		assert.Equal(t, s1, e[MetricNanoseconds])
		assert.Equal(t, s2, e["throughput"])
	})

	t.Run("secondary does not overwrite primary", func(t *testing.T) {
		e := Estimates{MetricNanoseconds: s1}
		e.Merge(Estimates{MetricNanoseconds: s2})
		assert.Equal(t, s1, e[MetricNanoseconds])
	})
}

func TestLoadDir(t *testing.T) {
	t.Run("primary only", func(t *testing.T) {
		target := t.TempDir()
		writeResults(t, target, "micro", "fib", map[string]string{
			"estimates.json": testStatisticJSON,
		})

		est, err := LoadDir(target, "micro", "fib")
		require.NoError(t, err)
		assert.Len(t, est, 1)
		assert.InDelta(t, 100.0, est[MetricNanoseconds].Mean.PointEstimate, 0.001)
		assert.Nil(t, est[MetricNanoseconds].Slope)
	})

	t.Run("with secondary metrics", func(t *testing.T) {
		target := t.TempDir()
		writeResults(t, target, "micro", "fib", map[string]string{
			"estimates.json":         testStatisticJSON,
			"metrics-estimates.json": `{"instructions": ` + testStatisticJSON + `}`,
		})

		est, err := LoadDir(target, "micro", "fib")
		require.NoError(t, err)
		assert.Len(t, est, 2)
		assert.Contains(t, est, "instructions")
		assert.Contains(t, est, MetricNanoseconds)
	})

	t.Run("missing primary is an error", func(t *testing.T) {
		target := t.TempDir()
		_, err := LoadDir(target, "micro", "fib")
		assert.Error(t, err)
	})

	t.Run("malformed primary is an error", func(t *testing.T) {
		target := t.TempDir()
		writeResults(t, target, "micro", "fib", map[string]string{
			"estimates.json": "not json",
		})
		_, err := LoadDir(target, "micro", "fib")
		assert.Error(t, err)
	})

	t.Run("malformed secondary is an error", func(t *testing.T) {
		target := t.TempDir()
		writeResults(t, target, "micro", "fib", map[string]string{
			"estimates.json":         testStatisticJSON,
			"metrics-estimates.json": "{broken",
		})
		_, err := LoadDir(target, "micro", "fib")
		assert.Error(t, err)
	})
}

func TestFailure(t *testing.T) {
	t.Run("run failures retry", func(t *testing.T) {
		f := NewRunFailure(errors.New("exit status 1"))
		assert.Equal(t, KindRun, f.Kind)
		assert.True(t, f.CanRetry())

		f.NumRetries = f.MaxRetries
		assert.False(t, f.CanRetry())
	})

	t.Run("post-process failures do not retry", func(t *testing.T) {
		f := NewPostProcessFailure(errors.New("parsing runtime estimates: unexpected EOF"))
		assert.Equal(t, KindPostProcess, f.Kind)
		assert.False(t, f.CanRetry())
	})

	t.Run("result state", func(t *testing.T) {
		ok := Success(Estimates{})
		assert.True(t, ok.Ok())

		bad := Failed(NewRunFailure(errors.New("boom")))
		assert.False(t, bad.Ok())
		assert.EqualError(t, bad.Failure, "run failure: boom")
	})
}
