// Package logging provides a minimal logging interface and adapters for RiskMesh.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the coordinator and agent runtimes use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - ReviewLogger with contextual helpers (job, component) and domain
//     specific helpers for capability calls, cache lookups and job transitions
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	engine, err := riskmesh.New(capability, func(o *riskmesh.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal to avoid vendor lock-in
// while supporting structured logging where available.
package logging
