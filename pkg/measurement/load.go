/*
Copyright © 2026 Benchvault Authors
SPDX-License-Identifier: Apache-2.0
*/
package measurement

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	harnessDir           = "criterion"
	newResultsDir        = "new"
	runtimeEstimatesFile = "estimates.json"
	metricsEstimatesFile = "metrics-estimates.json"
)

// ResultsDir returns the directory the harness writes results to for one
// benchmark under the given target directory.
func ResultsDir(targetDir, pkg, bench string) string {
	return filepath.Join(targetDir, harnessDir, fmt.Sprintf("%s::%s", pkg, bench), newResultsDir)
}

// LoadDir reads a completed benchmark's results from disk. The runtime
// estimates record is mandatory; its absence or malformed content is an
// error. The secondary metrics record is merged when present and quietly
// tolerated when absent, but a present-and-malformed secondary record is
// still an error.
func LoadDir(targetDir, pkg, bench string) (Estimates, error) {
	dir := ResultsDir(targetDir, pkg, bench)

	runtimePath := filepath.Join(dir, runtimeEstimatesFile)
	slog.Debug("reading runtime estimates", "path", runtimePath)

	raw, err := os.ReadFile(runtimePath)
	if err != nil {
		return nil, fmt.Errorf("reading runtime estimates: %w", err)
	}

	var runtime Statistic
	if err := json.Unmarshal(raw, &runtime); err != nil {
		return nil, fmt.Errorf("parsing runtime estimates: %w", err)
	}

	estimates := Estimates{
		MetricNanoseconds: runtime,
	}

	metricsPath := filepath.Join(dir, metricsEstimatesFile)
	raw, err = os.ReadFile(metricsPath)
	if err != nil {
		slog.Warn("no metrics estimates for benchmark",
			"package", pkg,
			"benchmark", bench,
			"path", metricsPath,
		)
		return estimates, nil
	}

	var metrics Estimates
	if err := json.Unmarshal(raw, &metrics); err != nil {
		return nil, fmt.Errorf("parsing metrics estimates: %w", err)
	}
	estimates.Merge(metrics)

	return estimates, nil
}
