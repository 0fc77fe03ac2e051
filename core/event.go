package core

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventKind categorizes audit events emitted by the runtime and coordinator.
type EventKind string

const (
	// EventJobTransition records a job state machine edge.
	EventJobTransition EventKind = "job_transition"
	// EventCacheHit records a task short-circuited by the result cache.
	EventCacheHit EventKind = "cache_hit"
	// EventAttempt records one capability invocation.
	EventAttempt EventKind = "attempt"
	// EventRetry records a scheduled retry after a transient failure.
	EventRetry EventKind = "retry"
	// EventRepair records the single schema-repair re-invocation.
	EventRepair EventKind = "repair"
	// EventDegraded records a result falling back to raw text.
	EventDegraded EventKind = "degraded"
	// EventResult records the terminal outcome of a task.
	EventResult EventKind = "result"
)

// Event is an immutable audit record. It is a pure side channel used for
// traceability and must never affect control flow.
type Event struct {
	ID        string    `json:"id"`
	JobID     string    `json:"job_id"`
	Agent     string    `json:"agent,omitempty"`
	Kind      EventKind `json:"kind"`
	Timestamp time.Time `json:"timestamp"`

	// Attempt is the 1-based capability invocation count, where relevant.
	Attempt int `json:"attempt,omitempty"`
	// From / To carry job transition edges.
	From JobState `json:"from,omitempty"`
	To   JobState `json:"to,omitempty"`
	// Message carries free-form detail (error text, delay, result kind).
	Message string `json:"message,omitempty"`
}

// NewEvent creates a bare audit event bound to a job.
func NewEvent(jobID string, kind EventKind) Event {
	return Event{
		ID:        uuid.NewString(),
		JobID:     jobID,
		Kind:      kind,
		Timestamp: time.Now().UTC(),
	}
}

// NewAgentEvent creates an audit event attributed to an agent task.
func NewAgentEvent(jobID, agent string, kind EventKind) Event {
	ev := NewEvent(jobID, kind)
	ev.Agent = agent
	return ev
}

// NewTransitionEvent records a job state machine edge.
func NewTransitionEvent(jobID string, from, to JobState) Event {
	ev := NewEvent(jobID, EventJobTransition)
	ev.From = from
	ev.To = to
	return ev
}

// EventSink consumes audit events. Implementations must not block: a slow or
// full sink drops events rather than stalling a task.
type EventSink interface {
	Emit(ev Event)
}

// NoOpSink discards all events.
type NoOpSink struct{}

// Emit implements EventSink.
func (NoOpSink) Emit(Event) {}

// CollectorSink buffers events in memory for inspection. Intended for tests
// and small audit trails; not bounded.
type CollectorSink struct {
	mu     sync.Mutex
	events []Event
}

// NewCollectorSink returns an empty collector.
func NewCollectorSink() *CollectorSink { return &CollectorSink{} }

// Emit implements EventSink.
func (c *CollectorSink) Emit(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

// Events returns a snapshot copy of collected events.
func (c *CollectorSink) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// ByKind returns collected events of the given kind, preserving order.
func (c *CollectorSink) ByKind(kind EventKind) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Event
	for _, ev := range c.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}
