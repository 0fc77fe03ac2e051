package core

import (
	"context"

	"github.com/riskmesh/riskmesh/logging"
)

// Analyzer is the contract every analysis agent satisfies. Run never returns
// an error: task-level failures are absorbed into the AgentResult variant so
// the coordinator handles one shape regardless of outcome.
//
// Implementations must:
//   - Respect context cancellation at capability-call and backoff boundaries
//   - Emit audit events through the JobContext (pure side channel)
//   - Be safe for concurrent use across jobs
type Analyzer interface {
	Name() string
	Run(jc *JobContext, text string) AgentResult
}

// AnalyzerSpec is the domain specialization a runtime decorates: the prompt,
// the repair instruction and the schema parse. Specs hold no cross-cutting
// concerns (no caching, no retry) so they stay unit-testable in isolation.
type AnalyzerSpec interface {
	Name() string
	SchemaVersion() string

	// Prompt builds the capability prompt for the input text.
	Prompt(text string) string

	// RepairPrompt builds the single amended re-invocation prompt after raw
	// failed schema validation.
	RepairPrompt(raw string) string

	// Parse validates raw against the agent schema.
	Parse(raw string) (*Analysis, error)
}

// JobContext carries the per-job execution scope handed to every analyzer
// task. It is created at submit, passed explicitly (never stored globally)
// and discarded when the job reaches a terminal state.
type JobContext struct {
	Context     context.Context
	JobID       string
	Fingerprint string

	// Limiter caps capability calls for this job. Optional.
	Limiter *CallLimiter

	// Events receives audit records. Optional; never affects control flow.
	Events EventSink

	// RetryCeiling overrides the runtime's maximum attempt count for this job
	// when positive.
	RetryCeiling int

	Logger logging.Logger
}

// NewJobContext constructs a JobContext for the given job identity.
func NewJobContext(
	ctx context.Context,
	jobID, fingerprint string,
	limiter *CallLimiter,
	events EventSink,
	logger logging.Logger,
) *JobContext {
	if events == nil {
		events = NoOpSink{}
	}
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &JobContext{
		Context:     ctx,
		JobID:       jobID,
		Fingerprint: fingerprint,
		Limiter:     limiter,
		Events:      events,
		Logger:      logger,
	}
}

// Done mirrors context.Context's Done.
func (jc *JobContext) Done() <-chan struct{} { return jc.Context.Done() }

// Err returns the cancellation error (if any) from the underlying context.
func (jc *JobContext) Err() error { return jc.Context.Err() }

// Emit records an audit event. Nil-safe; must never block or fail the task.
func (jc *JobContext) Emit(ev Event) {
	if jc.Events != nil {
		jc.Events.Emit(ev)
	}
}

// WithContext returns a shallow copy bound to ctx, used to attach per-task
// deadlines without mutating the parent scope.
func (jc *JobContext) WithContext(ctx context.Context) *JobContext {
	c := *jc
	c.Context = ctx
	return &c
}
