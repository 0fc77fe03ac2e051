package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobState is the typed state of a review job. Transitions are validated; the
// zero value is not a valid state.
type JobState string

const (
	// StateInit is the entry state of every job.
	StateInit JobState = "INIT"
	// StateDispatched means agent tasks have been created and launched.
	StateDispatched JobState = "DISPATCHED"
	// StateAwaitingResults means the coordinator is blocked on the fan-in join.
	StateAwaitingResults JobState = "AWAITING_RESULTS"
	// StateIntegrating means collected results are being merged.
	StateIntegrating JobState = "INTEGRATING"
	// StateDone is the successful terminal state.
	StateDone JobState = "DONE"
	// StateError is the failing terminal state.
	StateError JobState = "ERROR"
)

// Terminal reports whether the state ends the job lifecycle.
func (s JobState) Terminal() bool { return s == StateDone || s == StateError }

// validNext enumerates the legal state machine edges. ERROR is reachable from
// every non-terminal state so failures never strand a job.
var validNext = map[JobState][]JobState{
	StateInit:            {StateDispatched, StateError},
	StateDispatched:      {StateAwaitingResults, StateError},
	StateAwaitingResults: {StateIntegrating, StateError},
	StateIntegrating:     {StateDone, StateError},
}

// CanTransition reports whether the edge s -> next is legal.
func (s JobState) CanTransition(next JobState) bool {
	for _, n := range validNext[s] {
		if n == next {
			return true
		}
	}
	return false
}

// Transition records one state machine edge taken by a job.
type Transition struct {
	From JobState  `json:"from"`
	To   JobState  `json:"to"`
	At   time.Time `json:"at"`
}

// ReviewJob identifies one review request. It is owned exclusively by the
// coordinator for its lifetime and archived once a terminal state is reached.
// State access is synchronized; everything else is set once at creation.
type ReviewJob struct {
	ID          string
	Input       string
	Fingerprint string
	CreatedAt   time.Time

	mu      sync.Mutex
	state   JobState
	history []Transition
}

// NewReviewJob creates a job in StateInit with a fresh id and the fingerprint
// of the (already normalized) input text.
func NewReviewJob(input string) *ReviewJob {
	return &ReviewJob{
		ID:          uuid.NewString(),
		Input:       input,
		Fingerprint: TextFingerprint(input),
		CreatedAt:   time.Now().UTC(),
		state:       StateInit,
	}
}

// State returns the current state.
func (j *ReviewJob) State() JobState {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Transition moves the job to next, validating the edge and recording an
// immutable history entry. Returns an error on an illegal edge or when the
// job is already terminal.
func (j *ReviewJob) Transition(next JobState) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.state.CanTransition(next) {
		return fmt.Errorf("illegal job state transition %s -> %s", j.state, next)
	}
	j.history = append(j.history, Transition{From: j.state, To: next, At: time.Now().UTC()})
	j.state = next
	return nil
}

// History returns a snapshot copy of the transitions taken so far.
func (j *ReviewJob) History() []Transition {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Transition, len(j.history))
	copy(out, j.history)
	return out
}

// AgentTask is the unit of dispatch: one per registered analyzer per job.
type AgentTask struct {
	ID          string
	Agent       string
	Fingerprint string
	Deadline    time.Time
}

// NewAgentTask creates a task binding an analyzer to a job's fingerprint.
func NewAgentTask(agent, fingerprint string, deadline time.Time) AgentTask {
	return AgentTask{
		ID:          uuid.NewString(),
		Agent:       agent,
		Fingerprint: fingerprint,
		Deadline:    deadline,
	}
}

// TextFingerprint returns the stable content identity of the input text used
// as cache key and dedup identity: the SHA-256 hex digest of the text with
// surrounding whitespace trimmed.
func TextFingerprint(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])
}
