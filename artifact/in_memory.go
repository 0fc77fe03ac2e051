// Package artifact preserves raw capability output for audit. Degraded
// results keep their unparsed text here so it is never silently discarded.
package artifact

import "sync"

// InMemoryStore is a trivial in-process core.AuditStore implementation useful
// for tests, examples and single-process deployments. It keeps all raw
// outputs in a nested map guarded by an RWMutex. Data is copied on save /
// retrieval to avoid accidental external mutation of internal buffers.
//
// Layout: jobID -> agent -> raw bytes
//
// This implementation is intentionally minimal; it does not enforce retention
// limits, size quotas, or eviction. For production, prefer a durable
// implementation that survives process restarts.
type InMemoryStore struct {
	mu   sync.RWMutex
	raws map[string]map[string][]byte // jobID -> agent -> data
}

// NewInMemoryStore returns an empty in-memory audit store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{raws: make(map[string]map[string][]byte)}
}

// Save stores (or overwrites) the raw output for the given job and agent.
// The input slice is copied before storage.
func (a *InMemoryStore) Save(jobID, agent string, raw []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.raws[jobID]; !exists {
		a.raws[jobID] = make(map[string][]byte)
	}
	cp := make([]byte, len(raw))
	copy(cp, raw)
	a.raws[jobID][agent] = cp
	return nil
}

// Get returns a copy of the stored raw output or ErrNotFound.
func (a *InMemoryStore) Get(jobID, agent string) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	m, ok := a.raws[jobID]
	if !ok {
		return nil, ErrNotFound
	}
	data, ok := m[agent]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

// List returns the agent names with stored output for the job. The slice is
// a snapshot and safe for caller mutation.
func (a *InMemoryStore) List(jobID string) ([]string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	m, ok := a.raws[jobID]
	if !ok {
		return []string{}, nil
	}
	agents := make([]string, 0, len(m))
	for agent := range m {
		agents = append(agents, agent)
	}
	return agents, nil
}

// Delete removes the stored output if present or returns ErrNotFound.
func (a *InMemoryStore) Delete(jobID, agent string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	m, ok := a.raws[jobID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := m[agent]; !ok {
		return ErrNotFound
	}
	delete(m, agent)
	return nil
}
