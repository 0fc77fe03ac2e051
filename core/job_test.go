package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewJob_HappyPath(t *testing.T) {
	job := NewReviewJob("some contract text")

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, StateInit, job.State())
	assert.Equal(t, TextFingerprint("some contract text"), job.Fingerprint)

	for _, next := range []JobState{StateDispatched, StateAwaitingResults, StateIntegrating, StateDone} {
		require.NoError(t, job.Transition(next))
	}
	assert.Equal(t, StateDone, job.State())
	assert.True(t, job.State().Terminal())

	history := job.History()
	require.Len(t, history, 4)
	assert.Equal(t, StateInit, history[0].From)
	assert.Equal(t, StateDone, history[3].To)
}

func TestReviewJob_IllegalEdgeRejected(t *testing.T) {
	job := NewReviewJob("text")

	err := job.Transition(StateIntegrating)
	assert.Error(t, err)
	assert.Equal(t, StateInit, job.State())
	assert.Empty(t, job.History())
}

func TestReviewJob_ErrorReachableFromAnyNonTerminalState(t *testing.T) {
	for _, from := range []JobState{StateInit, StateDispatched, StateAwaitingResults, StateIntegrating} {
		assert.True(t, from.CanTransition(StateError), "from %s", from)
	}
}

func TestReviewJob_TerminalStatesAreFinal(t *testing.T) {
	job := NewReviewJob("text")
	require.NoError(t, job.Transition(StateError))

	assert.Error(t, job.Transition(StateDispatched))
	assert.Error(t, job.Transition(StateDone))
	assert.Equal(t, StateError, job.State())
}

func TestTextFingerprint(t *testing.T) {
	a := TextFingerprint("contract body")
	b := TextFingerprint("  contract body\n")
	c := TextFingerprint("different body")

	assert.Equal(t, a, b, "surrounding whitespace must not change identity")
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}
