/*
Copyright © 2026 Benchvault Authors
SPDX-License-Identifier: Apache-2.0
*/
package runplan

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/opencontainers/go-digest"

	apperrors "github.com/benchvault/benchvault/pkg/errors"
)

// Executor carries out the external build and execution steps a run plan
// describes.
type Executor struct {
	// Runner executes the external commands.
	Runner CommandRunner

	// VerifyShields checks a plan's shield unit is active before
	// executing under it.
	VerifyShields bool
}

// NewExecutor creates an Executor with default command settings.
func NewExecutor() *Executor {
	return &Executor{}
}

// Build runs the plan's build command and returns the content digest of
// the built artifact. The digest is the cross-toolchain sharing key: two
// toolchains producing byte-identical binaries share measurements.
func (e *Executor) Build(ctx context.Context, rp *RunPlan) (digest.Digest, error) {
	if len(rp.BuildArgv) == 0 {
		return "", apperrors.Newf(apperrors.ErrCodeInvalidRequest, "plan %s has no build command", rp)
	}

	slog.Info("building benchmark", "plan", rp.String())

	res, err := e.Runner.Run(ctx, rp.BuildArgv)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("build exited %d: %s", res.ExitCode, res.Tail())
	}

	f, err := os.Open(rp.BinaryPath)
	if err != nil {
		return "", fmt.Errorf("opening built artifact: %w", err)
	}
	defer func() { _ = f.Close() }()

	d, err := digest.FromReader(f)
	if err != nil {
		return "", fmt.Errorf("hashing built artifact: %w", err)
	}

	slog.Debug("built benchmark", "plan", rp.String(), "digest", d, "duration", res.Duration)
	return d, nil
}

// Exec runs the benchmark. Results are written to disk by the benchmark
// harness and read afterward; Exec itself returns no value.
func (e *Executor) Exec(ctx context.Context, rp *RunPlan) error {
	if len(rp.ExecArgv) == 0 {
		return apperrors.Newf(apperrors.ErrCodeInvalidRequest, "plan %s has no exec command", rp)
	}

	if e.VerifyShields && rp.Shield != "" {
		if err := VerifyShield(ctx, rp.Shield); err != nil {
			return fmt.Errorf("shield %q: %w", rp.Shield, err)
		}
	}

	slog.Info("executing benchmark", "plan", rp.String(), "shield", rp.Shield)

	res, err := e.Runner.Run(ctx, rp.ExecArgv)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("benchmark exited %d: %s", res.ExitCode, res.Tail())
	}

	slog.Debug("executed benchmark", "plan", rp.String(), "attempt", res.AttemptID, "duration", res.Duration)
	return nil
}
