// Package logging provides structured logging setup for benchvault components.
//
// It wraps the standard library slog package with shared defaults: JSON
// output to stderr, a module/version context pair on every record, log
// level taken from the LOG_LEVEL environment variable, and source
// location tracking when running at debug level.
//
// Typical use, early in main:
//
//	logging.SetDefaultStructuredLogger("benchvault", version)
//	slog.Info("starting", "dataDir", dir)
//
// An explicit level can be forced regardless of the environment:
//
//	logging.SetDefaultStructuredLoggerWithLevel("benchvault", version, "debug")
//
// Supported levels (case-insensitive): DEBUG, INFO, WARN/WARNING, ERROR.
// Unset or unrecognized values fall back to INFO.
package logging
