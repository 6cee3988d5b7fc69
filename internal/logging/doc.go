// Package logging provides structured logging for simulation runs.
//
// This package wraps Go's log/slog to produce JSON-formatted logs with
// run context attached, for post-hoc analysis of long simulations. A
// run directory gets a run.log file; without a directory, logs go to
// stderr.
//
// # Features
//
//   - JSON-formatted structured logging via slog
//   - Configurable log levels (DEBUG, INFO, WARN, ERROR)
//   - Context propagation (run ID, component, tick)
//
// # Thread Safety
//
// The [Logger] type is safe for concurrent use; With* methods return
// child loggers sharing the same output file.
package logging
