// Package runtime implements the shared contract every concrete analysis
// agent is built on. A Runtime decorates an AnalyzerSpec (prompt + schema)
// with the cross-cutting concerns the spec itself must stay free of:
//
//   - Cache-first execution keyed on (agent, input fingerprint)
//   - Bounded exponential retry for transient capability failures
//   - Structured-output validation with a single repair re-invocation,
//     degrading to raw text instead of failing
//   - Success-only cache writes after validation
//   - Audit events for every cache hit, attempt, retry and degradation
//   - Global backpressure on concurrent capability calls across all jobs
//
// Composition over inheritance: the decorator wraps the AnalyzerSpec
// interface rather than being a base type, keeping caching and retry
// separable from domain logic and unit-testable in isolation.
package runtime
