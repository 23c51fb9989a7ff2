/*
Copyright © 2026 Benchvault Authors
SPDX-License-Identifier: Apache-2.0
*/
package runplan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxOutput caps captured stdout/stderr per stream.
const DefaultMaxOutput = 1 << 20 // 1MB

// ExecResult holds the observed outcome of one external command run.
type ExecResult struct {
	AttemptID string
	ExitCode  int
	Stdout    []byte
	Stderr    []byte
	Truncated bool
	Duration  time.Duration
}

// Tail returns a short human-readable slice of stderr for error messages.
func (r *ExecResult) Tail() string {
	s := strings.TrimSpace(string(r.Stderr))
	const max = 512
	if len(s) > max {
		s = "..." + s[len(s)-max:]
	}
	if s == "" {
		return fmt.Sprintf("exit status %d", r.ExitCode)
	}
	return s
}

// CommandRunner executes external commands with an optional timeout and
// bounded output capture.
type CommandRunner struct {
	// Timeout bounds a single run. Zero means no timeout beyond ctx.
	Timeout time.Duration
	// MaxOutput caps bytes captured per stream. Zero means DefaultMaxOutput.
	MaxOutput int
	// Dir is the working directory. Empty means the process default.
	Dir string
	// Env is appended to the current process environment.
	Env []string
}

// Run executes argv. The first element is resolved via PATH. A non-zero
// exit is not an error here; callers inspect ExitCode. An error means
// the command could not be run at all.
func (r *CommandRunner) Run(ctx context.Context, argv []string) (*ExecResult, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty argv")
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	maxOutput := r.MaxOutput
	if maxOutput <= 0 {
		maxOutput = DefaultMaxOutput
	}

	attemptID := uuid.New().String()
	slog.Debug("executing command", "attempt", attemptID, "argv", argv)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.Dir
	if len(r.Env) > 0 {
		cmd.Env = append(cmd.Environ(), r.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &limitWriter{buf: &stdout, limit: maxOutput}
	cmd.Stderr = &limitWriter{buf: &stderr, limit: maxOutput}

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return nil, fmt.Errorf("executing %s: %w", argv[0], runErr)
		}
	}

	return &ExecResult{
		AttemptID: attemptID,
		ExitCode:  exitCode,
		Stdout:    stdout.Bytes(),
		Stderr:    stderr.Bytes(),
		Truncated: stdout.Len() >= maxOutput || stderr.Len() >= maxOutput,
		Duration:  elapsed,
	}, nil
}

// limitWriter writes up to limit bytes to buf, then silently discards
// the rest while still reporting all bytes consumed to avoid short-write
// errors.
type limitWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *limitWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil
	}
	if len(p) > remaining {
		w.buf.Write(p[:remaining])
		return len(p), nil
	}
	return w.buf.Write(p)
}
