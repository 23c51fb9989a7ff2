/*
Copyright © 2026 Benchvault Authors
SPDX-License-Identifier: Apache-2.0
*/
package measurement

import "fmt"

// FailureKind classifies where in the pipeline a recorded failure occurred.
type FailureKind string

const (
	// KindRun is a failure of the benchmark execution itself.
	KindRun FailureKind = "run"
	// KindPostProcess is a failure parsing or interpreting output the
	// execution already produced.
	KindPostProcess FailureKind = "post-process"
)

// DefaultMaxRetries is the retry ceiling applied to new failures.
const DefaultMaxRetries uint8 = 2

// Failure is a recorded benchmark failure. Unlike errors that propagate
// to the caller, a Failure is persisted as the durable outcome of a
// measurement attempt so future invocations can observe it and retry.
type Failure struct {
	Kind       FailureKind `json:"kind"`
	Message    string      `json:"message"`
	NumRetries uint8       `json:"num_retries"`
	MaxRetries uint8       `json:"max_retries"`
	Retryable  bool        `json:"retryable"`
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return fmt.Sprintf("%s failure: %s", f.Kind, f.Message)
}

// CanRetry reports whether another attempt is worth making.
func (f *Failure) CanRetry() bool {
	return f.Retryable && f.NumRetries < f.MaxRetries
}

// NewRunFailure records an execution failure. Execution failures are
// considered transient and retryable.
func NewRunFailure(cause error) *Failure {
	return &Failure{
		Kind:       KindRun,
		Message:    cause.Error(),
		MaxRetries: DefaultMaxRetries,
		Retryable:  true,
	}
}

// NewPostProcessFailure records a parse failure. Malformed output does
// not fix itself, so these are not retryable.
func NewPostProcessFailure(cause error) *Failure {
	return &Failure{
		Kind:       KindPostProcess,
		Message:    cause.Error(),
		MaxRetries: DefaultMaxRetries,
		Retryable:  false,
	}
}
