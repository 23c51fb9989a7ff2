/*
Copyright © 2026 Benchvault Authors
SPDX-License-Identifier: Apache-2.0
*/

package suite

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/benchvault/benchvault/pkg/collector"
	apperrors "github.com/benchvault/benchvault/pkg/errors"
	"github.com/benchvault/benchvault/pkg/runplan"
)

// Argv template placeholders, replaced per plan during expansion.
const (
	placeholderToolchain = "{toolchain}"
	placeholderTargetDir = "{target_dir}"
	placeholderPackage   = "{package}"
	placeholderBenchmark = "{benchmark}"
)

// Duration is a time.Duration that unmarshals from a YAML string such
// as "30s" or "2m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// ToolchainSpec declares one toolchain in the suite.
type ToolchainSpec struct {
	Name    string   `yaml:"name"`
	Install []string `yaml:"install,omitempty"`
	Target  string   `yaml:"target,omitempty"`
}

// BenchmarkSpec declares one benchmark in the suite. Runner, Shield,
// and the argv templates fall back to the suite-level defaults when
// empty.
type BenchmarkSpec struct {
	Name    string   `yaml:"name"`
	Package string   `yaml:"package"`
	Runner  string   `yaml:"runner,omitempty"`
	Shield  string   `yaml:"shield,omitempty"`
	Build   []string `yaml:"build,omitempty"`
	Exec    []string `yaml:"exec,omitempty"`
	Binary  string   `yaml:"binary,omitempty"`
}

// Config is a parsed suite file.
type Config struct {
	// DataDir is where results are stored. Flags override it.
	DataDir string `yaml:"data_dir,omitempty"`

	// Cooldown is the minimum pause between benchmark executions.
	Cooldown Duration `yaml:"cooldown,omitempty"`

	// Suite-level defaults applied to benchmarks that do not set
	// their own.
	Runner string   `yaml:"runner,omitempty"`
	Shield string   `yaml:"shield,omitempty"`
	Build  []string `yaml:"build,omitempty"`
	Exec   []string `yaml:"exec,omitempty"`
	Binary string   `yaml:"binary,omitempty"`

	Toolchains []ToolchainSpec `yaml:"toolchains,omitempty"`
	Benchmarks []BenchmarkSpec `yaml:"benchmarks"`
}

// Load reads and validates a suite file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("reading suite file %s", path), err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("parsing suite file %s", path), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the suite for the mistakes expansion cannot recover
// from: unnamed entries, duplicate names, and benchmarks with no exec
// command from any level.
func (c *Config) Validate() error {
	if len(c.Benchmarks) == 0 {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "suite defines no benchmarks")
	}

	seenTC := make(map[string]bool, len(c.Toolchains))
	for i, tc := range c.Toolchains {
		if tc.Name == "" {
			return apperrors.Newf(apperrors.ErrCodeInvalidRequest, "toolchain %d has no name", i)
		}
		if seenTC[tc.Name] {
			return apperrors.Newf(apperrors.ErrCodeInvalidRequest, "duplicate toolchain %q", tc.Name)
		}
		seenTC[tc.Name] = true
	}

	seenBench := make(map[string]bool, len(c.Benchmarks))
	for i, b := range c.Benchmarks {
		if b.Name == "" || b.Package == "" {
			return apperrors.Newf(apperrors.ErrCodeInvalidRequest,
				"benchmark %d needs both name and package", i)
		}
		full := b.Package + "::" + b.Name
		if seenBench[full] {
			return apperrors.Newf(apperrors.ErrCodeInvalidRequest, "duplicate benchmark %q", full)
		}
		seenBench[full] = true

		if b.Runner == "" && c.Runner == "" {
			return apperrors.Newf(apperrors.ErrCodeInvalidRequest,
				"benchmark %q has no runner and the suite sets no default", full)
		}
		if len(b.Exec) == 0 && len(c.Exec) == 0 {
			return apperrors.Newf(apperrors.ErrCodeInvalidRequest,
				"benchmark %q has no exec command and the suite sets no default", full)
		}
	}
	return nil
}

// Batches expands the suite into one batch per toolchain, ordered by
// toolchain, with each batch's plans sorted and deduplicated. A suite
// with no toolchains yields a single host-toolchain batch.
func (c *Config) Batches() []collector.Batch {
	toolchains := make([]*runplan.Toolchain, 0, len(c.Toolchains))
	if len(c.Toolchains) == 0 {
		toolchains = append(toolchains, nil)
	}
	for _, spec := range c.Toolchains {
		toolchains = append(toolchains, &runplan.Toolchain{
			Name:    spec.Name,
			Install: spec.Install,
			Target:  spec.Target,
		})
	}
	sort.Slice(toolchains, func(i, j int) bool {
		return toolchains[i].Compare(toolchains[j]) < 0
	})

	batches := make([]collector.Batch, 0, len(toolchains))
	for _, tc := range toolchains {
		seen := make(map[runplan.Identity]bool, len(c.Benchmarks))
		plans := make([]runplan.RunPlan, 0, len(c.Benchmarks))
		for _, b := range c.Benchmarks {
			rp := c.expand(tc, b)
			if id := rp.Identity(); !seen[id] {
				seen[id] = true
				plans = append(plans, rp)
			}
		}
		sort.Slice(plans, func(i, j int) bool {
			return plans[i].Compare(&plans[j]) < 0
		})
		batches = append(batches, collector.Batch{Toolchain: tc, Plans: plans})
	}
	return batches
}

func (c *Config) expand(tc *runplan.Toolchain, b BenchmarkSpec) runplan.RunPlan {
	rp := runplan.RunPlan{
		Benchmark: runplan.Benchmark{
			Name:    b.Name,
			Package: b.Package,
			Runner:  fallback(b.Runner, c.Runner),
		},
		Shield:    fallback(b.Shield, c.Shield),
		Toolchain: tc,
	}

	tcName := ""
	if tc != nil {
		tcName = tc.Name
	}
	r := strings.NewReplacer(
		placeholderToolchain, tcName,
		placeholderTargetDir, rp.TargetDir(),
		placeholderPackage, b.Package,
		placeholderBenchmark, b.Name,
	)

	rp.BuildArgv = expandArgv(r, fallbackArgv(b.Build, c.Build))
	rp.ExecArgv = expandArgv(r, fallbackArgv(b.Exec, c.Exec))
	rp.BinaryPath = r.Replace(fallback(b.Binary, c.Binary))
	return rp
}

func expandArgv(r *strings.Replacer, argv []string) []string {
	if len(argv) == 0 {
		return nil
	}
	out := make([]string, len(argv))
	for i, a := range argv {
		out[i] = r.Replace(a)
	}
	return out
}

func fallback(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func fallbackArgv(v, def []string) []string {
	if len(v) > 0 {
		return v
	}
	return def
}
