// Package errors provides structured error types shared across benchvault.
//
// Errors that propagate to callers carry a machine-readable code so that
// orchestration layers can distinguish storage faults, build failures,
// and bad input without string matching. Recorded benchmark failures
// (persisted alongside results) are a separate concern and live in
// pkg/measurement.
package errors
