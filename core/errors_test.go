package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.True(t, IsTransient(TransientError(errors.New("rate limited"))))
	assert.False(t, IsTransient(PermanentError(errors.New("bad request"))))
	assert.False(t, IsTransient(context.Canceled))
	assert.False(t, IsTransient(context.DeadlineExceeded))

	// Unclassified errors default to the retry path.
	assert.True(t, IsTransient(errors.New("connection reset")))
}

func TestIsTransient_Wrapped(t *testing.T) {
	err := fmt.Errorf("invoking capability: %w", PermanentError(errors.New("invalid api key")))
	assert.False(t, IsTransient(err))
}

func TestClassifyError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, ""},
		{"deadline", context.DeadlineExceeded, ErrorKindTimeout},
		{"cancelled", context.Canceled, ErrorKindCancelled},
		{"budget", fmt.Errorf("%w: max 5", ErrCallBudgetExceeded), ErrorKindPermanent},
		{"transient", TransientError(errors.New("503")), ErrorKindTransient},
		{"permanent", PermanentError(errors.New("401")), ErrorKindPermanent},
		{"unclassified", errors.New("boom"), ErrorKindTransient},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyError(tc.err))
		})
	}
}

func TestCapabilityError_Unwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := TransientError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "transient")
}
