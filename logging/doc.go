// Package logging provides a minimal logging interface and adapters for
// antmesh.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that agents and the colony host use for observability. This
// package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - ZapAdapter wrapping go.uber.org/zap
//   - ColonyLogger with per-ant context and decision/exchange helpers
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	ant := antmesh.New(func(o *antmesh.Options) { o.Logger = logger })
//
// Loggers are always passed in explicitly; nothing in antmesh writes to a
// process-wide logger.
package logging
