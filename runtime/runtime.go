package runtime

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/semaphore"

	"github.com/riskmesh/riskmesh/core"
	"github.com/riskmesh/riskmesh/logging"
)

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// MaxAttempts bounds capability invocations per task for transient
	// failures (first attempt included).
	MaxAttempts int
	// InitialBackoff is the delay before the first retry; subsequent delays
	// grow exponentially up to MaxBackoff.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// Cache short-circuits execution on a fingerprint hit. Optional.
	Cache core.ResultCache
	// Audit preserves raw output of degraded results. Optional.
	Audit core.AuditStore
	// Calls bounds concurrent capability invocations across all jobs sharing
	// this semaphore. Tasks exceeding the limit queue rather than fail.
	// Optional.
	Calls *semaphore.Weighted
	// Logger for runtime diagnostics.
	Logger logging.Logger
}

// Runtime wraps a single AnalyzerSpec + Capability pair behind the
// core.Analyzer contract. Safe for concurrent use across jobs.
type Runtime struct {
	spec       core.AnalyzerSpec
	capability core.Capability

	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	cache          core.ResultCache
	audit          core.AuditStore
	calls          *semaphore.Weighted
	logger         logging.Logger
}

// New constructs a Runtime for the given spec and capability with optional
// overrides.
func New(spec core.AnalyzerSpec, capability core.Capability, optFns ...func(o *Options)) *Runtime {
	opts := Options{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		Logger:         logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Runtime{
		spec:           spec,
		capability:     capability,
		maxAttempts:    opts.MaxAttempts,
		initialBackoff: opts.InitialBackoff,
		maxBackoff:     opts.MaxBackoff,
		cache:          opts.Cache,
		audit:          opts.Audit,
		calls:          opts.Calls,
		logger:         opts.Logger,
	}
}

// Name returns the wrapped agent's identity.
func (r *Runtime) Name() string { return r.spec.Name() }

// Run implements core.Analyzer. It never returns an error: every failure mode
// is absorbed into the AgentResult variant.
func (r *Runtime) Run(jc *core.JobContext, text string) core.AgentResult {
	key := core.CacheKey{Agent: r.spec.Name(), Fingerprint: jc.Fingerprint}

	if r.cache != nil {
		if cached, ok := r.cache.Get(key); ok {
			r.logger.Debug("result cache hit agent=%s fingerprint=%s", key.Agent, key.Fingerprint)
			jc.Emit(core.NewAgentEvent(jc.JobID, r.spec.Name(), core.EventCacheHit))
			cached.FromCache = true
			return cached
		}
	}

	attempts := 0
	raw, err := r.invoke(jc, r.spec.Prompt(text), r.attemptBudget(jc), &attempts)
	if err != nil {
		return r.fail(jc, err, attempts)
	}

	analysis, parseErr := r.spec.Parse(raw)
	if parseErr != nil {
		raw, analysis, parseErr = r.repair(jc, raw, parseErr, &attempts)
	}
	if parseErr != nil {
		return r.degrade(jc, raw, parseErr, attempts)
	}

	result := core.NewSuccessResult(r.spec.Name(), r.spec.SchemaVersion(), analysis, attempts)
	if r.cache != nil {
		r.cache.Put(key, result)
	}

	ev := core.NewAgentEvent(jc.JobID, r.spec.Name(), core.EventResult)
	ev.Attempt = attempts
	ev.Message = string(core.ResultSuccess)
	jc.Emit(ev)

	return result
}

// attemptBudget resolves the retry ceiling, honoring a per-job override.
func (r *Runtime) attemptBudget(jc *core.JobContext) int {
	if jc.RetryCeiling > 0 {
		return jc.RetryCeiling
	}
	return r.maxAttempts
}

// invoke drives capability calls under the retry policy. Transient failures
// are retried with exponential backoff up to maxAttempts total invocations;
// permanent failures, budget exhaustion and context cancellation abort
// immediately. Cancellation is checked before every attempt and during
// backoff waits, so a cancelled job stops promptly.
func (r *Runtime) invoke(jc *core.JobContext, prompt string, maxAttempts int, attempts *int) (string, error) {
	var out string

	op := func() error {
		if err := jc.Err(); err != nil {
			return backoff.Permanent(err)
		}
		if jc.Limiter != nil {
			if err := jc.Limiter.Increment(); err != nil {
				return backoff.Permanent(err)
			}
		}
		if r.calls != nil {
			if err := r.calls.Acquire(jc.Context, 1); err != nil {
				return backoff.Permanent(err)
			}
			defer r.calls.Release(1)
		}

		*attempts++
		ev := core.NewAgentEvent(jc.JobID, r.spec.Name(), core.EventAttempt)
		ev.Attempt = *attempts
		jc.Emit(ev)

		start := time.Now()
		text, err := r.capability.Invoke(jc.Context, prompt)
		dur := time.Since(start)
		if err != nil {
			r.logger.Warn("capability call failed agent=%s attempt=%d duration=%s err=%v", r.spec.Name(), *attempts, dur, err)
			if core.IsTransient(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		r.logger.Debug("capability call ok agent=%s attempt=%d duration=%s", r.spec.Name(), *attempts, dur)

		out = text
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.initialBackoff
	bo.MaxInterval = r.maxBackoff
	bo.MaxElapsedTime = 0 // bounded by attempt count and context, not wall clock

	retries := maxAttempts - 1
	if retries < 0 {
		retries = 0
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(retries)), jc.Context)

	notify := func(err error, delay time.Duration) {
		ev := core.NewAgentEvent(jc.JobID, r.spec.Name(), core.EventRetry)
		ev.Attempt = *attempts
		ev.Message = fmt.Sprintf("retrying in %s after: %v", delay, err)
		jc.Emit(ev)
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return "", err
	}
	return out, nil
}

// repair performs the single schema-repair pass: one amended re-invocation
// asking for schema-conformant output. Returns the latest raw text and parse
// outcome; a nil error means the repaired output validated.
func (r *Runtime) repair(jc *core.JobContext, raw string, parseErr error, attempts *int) (string, *core.Analysis, error) {
	ev := core.NewAgentEvent(jc.JobID, r.spec.Name(), core.EventRepair)
	ev.Message = parseErr.Error()
	jc.Emit(ev)

	repaired, err := r.invoke(jc, r.spec.RepairPrompt(raw), 1, attempts)
	if err != nil {
		// Repair call itself failed; keep the original raw output and error.
		return raw, nil, parseErr
	}

	analysis, repairParseErr := r.spec.Parse(repaired)
	if repairParseErr != nil {
		return repaired, nil, repairParseErr
	}
	return repaired, analysis, nil
}

// degrade produces the Degraded variant, preserving the raw text in the
// audit store. It never raises past this boundary.
func (r *Runtime) degrade(jc *core.JobContext, raw string, parseErr error, attempts int) core.AgentResult {
	if r.audit != nil {
		if err := r.audit.Save(jc.JobID, r.spec.Name(), []byte(raw)); err != nil {
			r.logger.Warn("failed to save raw output for audit agent=%s job=%s err=%v", r.spec.Name(), jc.JobID, err)
		}
	}

	ev := core.NewAgentEvent(jc.JobID, r.spec.Name(), core.EventDegraded)
	ev.Message = parseErr.Error()
	jc.Emit(ev)
	r.logger.Warn("schema validation failed after repair agent=%s job=%s err=%v", r.spec.Name(), jc.JobID, parseErr)

	return core.NewDegradedResult(r.spec.Name(), raw, parseErr, attempts)
}

// fail produces the Failed variant from an invocation error.
func (r *Runtime) fail(jc *core.JobContext, err error, attempts int) core.AgentResult {
	kind := core.ClassifyError(err)

	ev := core.NewAgentEvent(jc.JobID, r.spec.Name(), core.EventResult)
	ev.Attempt = attempts
	ev.Message = fmt.Sprintf("%s: %v", core.ResultFailed, err)
	jc.Emit(ev)

	return core.NewFailedResult(r.spec.Name(), kind, err.Error(), attempts)
}
