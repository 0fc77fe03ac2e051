package core

import "context"

// CapabilityInfo contains metadata about a capability provider.
type CapabilityInfo struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "anthropic", "openai", "mock", etc.
}

// Capability is the opaque external analysis capability: given a prompt it
// returns text or fails. Providers classify failures via CapabilityError so
// the runtime can apply its retry policy; unclassified errors default to
// transient. Implementations must respect context cancellation.
type Capability interface {
	Invoke(ctx context.Context, prompt string) (string, error)

	// Info returns information about the provider implementation.
	Info() CapabilityInfo
}

// CapabilityFunc adapts a plain function to the Capability interface.
type CapabilityFunc func(ctx context.Context, prompt string) (string, error)

// Invoke implements Capability.
func (f CapabilityFunc) Invoke(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Info implements Capability.
func (f CapabilityFunc) Info() CapabilityInfo {
	return CapabilityInfo{Name: "func", Provider: "func"}
}
