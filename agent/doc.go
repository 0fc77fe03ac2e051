// Package agent provides the concrete analysis agents: domain-specific
// prompts and output schemas for legal and business document review. Agents
// hold no cross-cutting behavior; wrap a spec in a runtime.Runtime to get
// caching, retry and validation.
//
// The two analyzers are strictly independent of each other's output so the
// coordinator can fan them out in parallel without ordering constraints.
package agent
