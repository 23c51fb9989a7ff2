/*
Copyright © 2026 Benchvault Authors
SPDX-License-Identifier: Apache-2.0
*/
package runplan

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/benchvault/benchvault/pkg/version"
)

// DefaultTargetDir is the build output location used when a run plan has
// no toolchain.
const DefaultTargetDir = "target"

// Toolchain identifies a build configuration capable of producing a
// benchmark binary. Installation is an external, possibly expensive side
// effect guarded by a scoped lease.
type Toolchain struct {
	// Name is the toolchain identity, e.g. "1.72.0" or "nightly-2026-01-15".
	Name string `json:"name" yaml:"name"`

	// Install is the argv run by EnsureInstalled. The command must be
	// idempotent. Empty means the toolchain is assumed present.
	Install []string `json:"install,omitempty" yaml:"install,omitempty"`

	// Target is the build output directory for this toolchain. The
	// {toolchain} placeholder expands to Name. Empty defaults to
	// "target-<name>".
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
}

// TargetDir returns the build output directory for the toolchain.
func (t *Toolchain) TargetDir() string {
	if t.Target == "" {
		return DefaultTargetDir + "-" + t.Name
	}
	return strings.ReplaceAll(t.Target, "{toolchain}", t.Name)
}

// Compare orders toolchains by name, numerically where the names parse
// as versions. A nil toolchain sorts first.
func (t *Toolchain) Compare(o *Toolchain) int {
	switch {
	case t == o:
		return 0
	case t == nil:
		return -1
	case o == nil:
		return 1
	default:
		return version.CompareNames(t.Name, o.Name)
	}
}

func (t *Toolchain) String() string {
	if t == nil {
		return "<host>"
	}
	return t.Name
}

// Lease is the scoped guard returned by EnsureInstalled. Release signals
// the toolchain is no longer needed for the current batch. Release is
// idempotent.
type Lease struct {
	name string
	once sync.Once
}

// Release releases the lease.
func (l *Lease) Release() {
	l.once.Do(func() {
		slog.Debug("toolchain lease released", "toolchain", l.name)
	})
}

// EnsureInstalled installs the toolchain if an install command is
// configured and returns a lease that must be held while plans under
// this toolchain run, including on early-return failure paths.
func (t *Toolchain) EnsureInstalled(ctx context.Context) (*Lease, error) {
	if t == nil || len(t.Install) == 0 {
		return &Lease{name: t.String()}, nil
	}

	slog.Info("ensuring toolchain installed", "toolchain", t.Name)

	runner := &CommandRunner{}
	res, err := runner.Run(ctx, t.Install)
	if err != nil {
		return nil, fmt.Errorf("installing toolchain %s: %w", t.Name, err)
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("installing toolchain %s: %s", t.Name, res.Tail())
	}

	return &Lease{name: t.Name}, nil
}
