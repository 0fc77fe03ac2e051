// Package model provides capability implementations backed by hosted model
// providers, plus an in-memory mock for tests and examples. Sub-packages wrap
// the official vendor SDKs behind the core.Capability contract.
package model

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/riskmesh/riskmesh/core"
)

type cannedResponse struct {
	substr string
	output string
}

// MockCapability is a lightweight in-memory Capability useful for tests and
// examples. Responses are selected by prompt substring match in registration
// order; scripted errors are consumed one per call before any response is
// served. Safe for concurrent use.
type MockCapability struct {
	name string

	mu        sync.Mutex
	responses []cannedResponse
	fallback  string
	script    []error
	prompts   []string
}

// NewMockCapability constructs a mock with the given display name.
func NewMockCapability(name string) *MockCapability {
	return &MockCapability{name: name}
}

// AddResponse registers a canned completion served when the prompt contains
// substr. Earlier registrations win.
func (m *MockCapability) AddResponse(substr, output string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, cannedResponse{substr: substr, output: output})
}

// SetFallback sets the completion served when no registered substring
// matches.
func (m *MockCapability) SetFallback(output string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = output
}

// FailNext queues err to be returned by upcoming Invoke calls, one per call,
// before any canned response is served.
func (m *MockCapability) FailNext(err error, times int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < times; i++ {
		m.script = append(m.script, err)
	}
}

// Calls returns the number of Invoke calls made so far.
func (m *MockCapability) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// Prompts returns a snapshot of the prompts received, in call order.
func (m *MockCapability) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// Invoke implements core.Capability.
func (m *MockCapability) Invoke(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)

	if len(m.script) > 0 {
		err := m.script[0]
		m.script = m.script[1:]
		return "", err
	}

	for _, r := range m.responses {
		if strings.Contains(prompt, r.substr) {
			return r.output, nil
		}
	}
	if m.fallback != "" {
		return m.fallback, nil
	}
	return fmt.Sprintf("Mock response to: %s", prompt), nil
}

// Info implements core.Capability.
func (m *MockCapability) Info() core.CapabilityInfo {
	return core.CapabilityInfo{Name: m.name, Provider: "mock"}
}
