package core

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced by the engine. Task-level kinds are
// absorbed into AgentResult values; only job-level kinds (invalid input, no
// usable results, cancelled) propagate to the caller as errors.
type ErrorKind string

const (
	// ErrorKindInvalidInput marks input rejected before dispatch (empty or
	// oversized text). Never retried.
	ErrorKindInvalidInput ErrorKind = "invalid_input"
	// ErrorKindTransient marks network / rate-limit class failures that are
	// retried up to the configured bound.
	ErrorKindTransient ErrorKind = "transient"
	// ErrorKindPermanent marks an explicit capability rejection. Not retried.
	ErrorKindPermanent ErrorKind = "permanent"
	// ErrorKindParse marks schema validation failure after the repair attempt.
	// Produces a Degraded result, never a hard failure.
	ErrorKindParse ErrorKind = "parse_error"
	// ErrorKindTimeout marks a task that did not resolve before its deadline.
	ErrorKindTimeout ErrorKind = "timeout"
	// ErrorKindCancelled marks caller-initiated cancellation.
	ErrorKindCancelled ErrorKind = "cancelled"
	// ErrorKindNoUsableResults marks a job whose integration had zero usable
	// inputs. Terminal job error.
	ErrorKindNoUsableResults ErrorKind = "no_usable_results"
)

// Sentinel errors surfaced across the coordinator boundary.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNoUsableResults    = errors.New("no usable results")
	ErrJobCancelled       = errors.New("job cancelled")
	ErrJobNotFound        = errors.New("job not found")
	ErrCallBudgetExceeded = errors.New("capability call budget exceeded")
)

// CapabilityError wraps a capability failure with its retry classification.
// Providers return these so the runtime can decide whether to retry without
// inspecting provider-specific error types.
type CapabilityError struct {
	Kind ErrorKind // ErrorKindTransient or ErrorKindPermanent
	Err  error
}

// Error implements the error interface.
func (e *CapabilityError) Error() string {
	return fmt.Sprintf("capability error (%s): %v", e.Kind, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As chains.
func (e *CapabilityError) Unwrap() error { return e.Err }

// TransientError wraps err as a retryable capability failure.
func TransientError(err error) *CapabilityError {
	return &CapabilityError{Kind: ErrorKindTransient, Err: err}
}

// PermanentError wraps err as a non-retryable capability failure.
func PermanentError(err error) *CapabilityError {
	return &CapabilityError{Kind: ErrorKindPermanent, Err: err}
}

// IsTransient reports whether err should be retried. Unclassified errors are
// treated as transient so flaky transports default to the retry path; context
// errors are never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var capErr *CapabilityError
	if errors.As(err, &capErr) {
		return capErr.Kind == ErrorKindTransient
	}
	return true
}

// ClassifyError maps an invocation error to the failure taxonomy used in
// Failed results.
func ClassifyError(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorKindTimeout
	case errors.Is(err, context.Canceled):
		return ErrorKindCancelled
	case errors.Is(err, ErrCallBudgetExceeded):
		return ErrorKindPermanent
	}
	var capErr *CapabilityError
	if errors.As(err, &capErr) {
		return capErr.Kind
	}
	return ErrorKindTransient
}
