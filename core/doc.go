// Package core provides the foundational domain types and contracts used by
// RiskMesh. It defines the core abstractions for:
//
//   - Review jobs (the unit of work owned by the coordinator, with a typed
//     state machine and immutable transition history)
//   - Agent results (the Success / Degraded / Failed tagged variant every
//     analyzer produces)
//   - Reports (the final aggregate with its JSON wire format)
//   - Audit events (immutable side-channel records of runtime behavior)
//   - Pluggable contracts for capabilities, analyzers, result caching, raw
//     output auditing and job archival
//
// The package intentionally keeps implementation concerns (caching backends,
// retry policies, concrete analyzers, orchestration) out of scope, exposing
// small interfaces so each can be swapped and unit-tested in isolation.
package core
