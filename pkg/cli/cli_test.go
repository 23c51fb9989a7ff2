/*
Copyright © 2026 Benchvault Authors
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSuiteYAML = `
runner: test-runner
exec: ["true"]
toolchains:
  - name: stable
benchmarks:
  - name: insert
    package: hashmap
  - name: lookup
    package: hashmap
`

func writeTestSuite(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testSuiteYAML), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	return New().Run(context.Background(), append([]string{name}, args...))
}

func TestPlanCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "plan.json")

	err := runCLI(t, "plan",
		"--suite", writeTestSuite(t),
		"--data-dir", t.TempDir(),
		"--format", "json",
		"--output", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var report []batchReport
	require.NoError(t, json.Unmarshal(data, &report))
	require.Len(t, report, 1)
	assert.Equal(t, "stable", report[0].Toolchain)
	assert.Equal(t, []string{"hashmap::insert@stable", "hashmap::lookup@stable"}, report[0].Plans)
}

func TestShowCommandEmptyStore(t *testing.T) {
	out := filepath.Join(t.TempDir(), "show.json")

	err := runCLI(t, "show",
		"--suite", writeTestSuite(t),
		"--data-dir", t.TempDir(),
		"--format", "json",
		"--output", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var rows []planStatus
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, "unknown", row.Status)
		assert.Empty(t, row.BinaryHash)
	}
}

func TestRejectsUnknownFormat(t *testing.T) {
	err := runCLI(t, "plan",
		"--suite", writeTestSuite(t),
		"--data-dir", t.TempDir(),
		"--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestRejectsMissingSuite(t *testing.T) {
	err := runCLI(t, "plan",
		"--suite", filepath.Join(t.TempDir(), "nope.yaml"),
		"--data-dir", t.TempDir())
	require.Error(t, err)
}
