/*
Copyright © 2026 Benchvault Authors
SPDX-License-Identifier: Apache-2.0
*/
package runplan

import (
	"fmt"
	"strings"
)

// Benchmark describes a single benchmark within a package, bound to the
// runner machine it executes on.
type Benchmark struct {
	// Name is the benchmark name within its package.
	Name string `json:"name" yaml:"name"`
	// Package is the module the benchmark belongs to.
	Package string `json:"package" yaml:"package"`
	// Runner is the execution-environment identity distinguishing
	// otherwise-identical measurement requests.
	Runner string `json:"runner" yaml:"runner"`
}

// RunPlan is an immutable description of "run benchmark B under
// toolchain T with runner R and shield S". Two structurally identical
// run plans are the same request.
type RunPlan struct {
	Benchmark Benchmark  `json:"benchmark"`
	Shield    string     `json:"shield,omitempty"`
	Toolchain *Toolchain `json:"toolchain,omitempty"`

	// BuildArgv builds the benchmark binary at BinaryPath.
	BuildArgv []string `json:"build,omitempty"`
	// ExecArgv runs the benchmark; results are read from disk afterward.
	ExecArgv []string `json:"exec,omitempty"`
	// BinaryPath is where the build step leaves the built artifact.
	BinaryPath string `json:"binary,omitempty"`
}

// Identity is the comparable value identifying a run plan. Storage keys
// derive from it, never from the build or exec command lines.
type Identity struct {
	Toolchain string `json:"toolchain,omitempty"`
	Package   string `json:"package"`
	Benchmark string `json:"benchmark"`
	Runner    string `json:"runner"`
	Shield    string `json:"shield,omitempty"`
}

// Identity returns the plan's identity value.
func (rp *RunPlan) Identity() Identity {
	id := Identity{
		Package:   rp.Benchmark.Package,
		Benchmark: rp.Benchmark.Name,
		Runner:    rp.Benchmark.Runner,
		Shield:    rp.Shield,
	}
	if rp.Toolchain != nil {
		id.Toolchain = rp.Toolchain.Name
	}
	return id
}

// TargetDir returns the build output directory for the plan: the
// toolchain's directory, or "target" when no toolchain is set.
func (rp *RunPlan) TargetDir() string {
	if rp.Toolchain == nil {
		return DefaultTargetDir
	}
	return rp.Toolchain.TargetDir()
}

func (rp *RunPlan) String() string {
	return fmt.Sprintf("%s::%s@%s", rp.Benchmark.Package, rp.Benchmark.Name, rp.Toolchain)
}

// Compare orders run plans by toolchain, package, benchmark, runner,
// then shield, giving a deterministic total order for batch output.
func (rp *RunPlan) Compare(o *RunPlan) int {
	if c := rp.Toolchain.Compare(o.Toolchain); c != 0 {
		return c
	}
	a, b := rp.Identity(), o.Identity()
	for _, pair := range [][2]string{
		{a.Package, b.Package},
		{a.Benchmark, b.Benchmark},
		{a.Runner, b.Runner},
		{a.Shield, b.Shield},
	} {
		if c := strings.Compare(pair[0], pair[1]); c != 0 {
			return c
		}
	}
	return 0
}
