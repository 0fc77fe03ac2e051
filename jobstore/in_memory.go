// Package jobstore archives review jobs once they reach a terminal state.
package jobstore

import (
	"fmt"
	"sync"

	"github.com/riskmesh/riskmesh/core"
)

// InMemoryStore is a volatile core.JobStore implementation keeping archived
// jobs in a process local map. It is safe for concurrent access and best
// suited for tests or ephemeral deployments. Each returned record is a value
// copy so callers cannot mutate internal state.
type InMemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]core.ArchivedJob
}

// NewInMemoryStore constructs an empty in-memory job archive.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{jobs: make(map[string]core.ArchivedJob)}
}

// Archive stores the terminal job record. Archiving a non-terminal job is an
// error: live jobs are owned by the coordinator, not the store.
func (s *InMemoryStore) Archive(job core.ArchivedJob) error {
	if !job.State.Terminal() {
		return fmt.Errorf("cannot archive job %s in non-terminal state %s", job.JobID, job.State)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.JobID] = job
	return nil
}

// Get returns the archived record for jobID or core.ErrJobNotFound.
func (s *InMemoryStore) Get(jobID string) (core.ArchivedJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return core.ArchivedJob{}, core.ErrJobNotFound
	}
	return job, nil
}

// List returns the ids of all archived jobs.
func (s *InMemoryStore) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.jobs))
	for id := range s.jobs {
		ids = append(ids, id)
	}
	return ids, nil
}
