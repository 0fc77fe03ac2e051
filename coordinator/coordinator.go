// Package coordinator drives review jobs through their lifecycle: it
// validates and preprocesses input, fans agent tasks out in parallel, joins
// their results under the job deadline and hands the collected set to the
// integrator. One coordinator serves many concurrent jobs; per-job scope
// lives in the JobContext, never in coordinator fields.
package coordinator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskmesh/riskmesh/core"
	"github.com/riskmesh/riskmesh/evaluation"
	"github.com/riskmesh/riskmesh/integration"
	"github.com/riskmesh/riskmesh/logging"
)

const (
	defaultJobTimeout    = 2 * time.Minute
	defaultMaxInputBytes = 1 << 20
	defaultCompressLimit = 8000
)

// Options configure a Coordinator.
type Options struct {
	// JobTimeout bounds the whole job from dispatch to integration.
	JobTimeout time.Duration
	// MaxInputBytes rejects oversized input synchronously at submit.
	MaxInputBytes int
	// CompressLimit is the rune budget above which input text is compressed
	// to its risk-relevant sentences. Zero disables compression.
	CompressLimit int
	// MaxCallsPerJob caps capability invocations per job across all agents
	// and retries. Zero means unlimited.
	MaxCallsPerJob int
	// Integrator merges results; nil selects integration.New().
	Integrator *integration.Integrator
	// Jobs archives terminal jobs. Optional.
	Jobs core.JobStore
	// Evaluators run against the finished report; issues are logged, never
	// fatal.
	Evaluators []evaluation.Evaluator
	// Events receives the audit trail for all jobs.
	Events core.EventSink
	// Logger for lifecycle diagnostics.
	Logger logging.Logger
}

// Coordinator owns the review job state machine.
type Coordinator struct {
	jobTimeout     time.Duration
	maxInputBytes  int
	compressLimit  int
	maxCallsPerJob int
	integrator     *integration.Integrator
	jobs           core.JobStore
	evaluators     []evaluation.Evaluator
	events         core.EventSink
	logger         logging.Logger

	analyzers []core.Analyzer

	mu     sync.Mutex
	active map[string]context.CancelFunc
}

// New constructs a Coordinator with optional overrides. Register at least one
// analyzer before submitting jobs.
func New(optFns ...func(o *Options)) *Coordinator {
	opts := Options{
		JobTimeout:    defaultJobTimeout,
		MaxInputBytes: defaultMaxInputBytes,
		CompressLimit: defaultCompressLimit,
		Events:        core.NoOpSink{},
		Logger:        logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Integrator == nil {
		opts.Integrator = integration.New()
	}
	if opts.Events == nil {
		opts.Events = core.NoOpSink{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Coordinator{
		jobTimeout:     opts.JobTimeout,
		maxInputBytes:  opts.MaxInputBytes,
		compressLimit:  opts.CompressLimit,
		maxCallsPerJob: opts.MaxCallsPerJob,
		integrator:     opts.Integrator,
		jobs:           opts.Jobs,
		evaluators:     opts.Evaluators,
		events:         opts.Events,
		logger:         opts.Logger,
		active:         map[string]context.CancelFunc{},
	}
}

// Register adds an analyzer. Fan-out and report ordering follow registration
// order. Duplicate names are rejected.
func (c *Coordinator) Register(a core.Analyzer) error {
	for _, existing := range c.analyzers {
		if existing.Name() == a.Name() {
			return fmt.Errorf("analyzer %q already registered", a.Name())
		}
	}
	c.analyzers = append(c.analyzers, a)
	return nil
}

// JobOptions are per-job overrides.
type JobOptions struct {
	// Timeout overrides the coordinator's JobTimeout when positive.
	Timeout time.Duration
	// RetryCeiling overrides the runtimes' maximum attempt count when
	// positive.
	RetryCeiling int
}

// JobHandle tracks an in-flight job.
type JobHandle struct {
	// ID is the job identifier, usable with Cancel and the job store.
	ID string

	done   chan struct{}
	report *core.Report
	err    error
}

// Wait blocks until the job reaches a terminal state or ctx expires. The
// job keeps running if ctx expires first; Wait can be called again.
func (h *JobHandle) Wait(ctx context.Context) (*core.Report, error) {
	select {
	case <-h.done:
		return h.report, h.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Submit validates input, creates a job and launches it asynchronously.
// Validation failures return core.ErrInvalidInput synchronously: no job is
// created, no task dispatched, the cache untouched.
func (c *Coordinator) Submit(ctx context.Context, input string, optFns ...func(o *JobOptions)) (*JobHandle, error) {
	jobOpts := JobOptions{Timeout: c.jobTimeout}
	for _, fn := range optFns {
		fn(&jobOpts)
	}
	if jobOpts.Timeout <= 0 {
		jobOpts.Timeout = c.jobTimeout
	}

	if len(c.analyzers) == 0 {
		return nil, fmt.Errorf("no analyzers registered")
	}

	normalized := normalizeWhitespace(input)
	if normalized == "" {
		return nil, fmt.Errorf("%w: empty document text", core.ErrInvalidInput)
	}
	if len(input) > c.maxInputBytes {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", core.ErrInvalidInput, c.maxInputBytes)
	}

	text := compress(normalized, c.compressLimit)
	job := core.NewReviewJob(text)

	jobCtx, cancel := context.WithTimeout(ctx, jobOpts.Timeout)
	c.mu.Lock()
	c.active[job.ID] = cancel
	c.mu.Unlock()

	h := &JobHandle{ID: job.ID, done: make(chan struct{})}
	go c.run(jobCtx, cancel, job, jobOpts, h)
	return h, nil
}

// Review is the synchronous convenience wrapper: submit and wait.
func (c *Coordinator) Review(ctx context.Context, input string, optFns ...func(o *JobOptions)) (*core.Report, error) {
	h, err := c.Submit(ctx, input, optFns...)
	if err != nil {
		return nil, err
	}
	return h.Wait(ctx)
}

// Cancel aborts a running job. Returns core.ErrJobNotFound when no job with
// that id is active.
func (c *Coordinator) Cancel(jobID string) error {
	c.mu.Lock()
	cancel, ok := c.active[jobID]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrJobNotFound, jobID)
	}
	cancel()
	return nil
}

type indexedResult struct {
	idx int
	res core.AgentResult
}

func (c *Coordinator) run(jobCtx context.Context, cancel context.CancelFunc, job *core.ReviewJob, jobOpts JobOptions, h *JobHandle) {
	defer close(h.done)
	defer cancel()
	defer func() {
		c.mu.Lock()
		delete(c.active, job.ID)
		c.mu.Unlock()
	}()

	logger := c.jobLogger(job.ID)

	limiter := core.NewCallLimiter(c.maxCallsPerJob)
	jc := core.NewJobContext(jobCtx, job.ID, job.Fingerprint, limiter, c.events, logger)
	jc.RetryCeiling = jobOpts.RetryCeiling

	c.transition(job, core.StateDispatched, logger)

	deadline := time.Now().Add(jobOpts.Timeout)
	if d, ok := jobCtx.Deadline(); ok {
		deadline = d
	}
	tasks := make([]core.AgentTask, len(c.analyzers))
	for i, a := range c.analyzers {
		tasks[i] = core.NewAgentTask(a.Name(), job.Fingerprint, deadline)
	}

	// Fan-out: one goroutine per analyzer, joined through a buffered channel
	// so a deadline never leaves this goroutine reading a racing slice.
	resultCh := make(chan indexedResult, len(c.analyzers))
	var wg sync.WaitGroup
	for i, a := range c.analyzers {
		wg.Add(1)
		logger.Debug("task dispatched id=%s agent=%s", tasks[i].ID, tasks[i].Agent)
		go func(idx int, a core.Analyzer) {
			defer wg.Done()
			resultCh <- indexedResult{idx: idx, res: a.Run(jc, job.Input)}
		}(i, a)
	}
	allDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(allDone)
	}()

	c.transition(job, core.StateAwaitingResults, logger)

	select {
	case <-allDone:
	case <-jobCtx.Done():
	}

	if jobCtx.Err() == context.Canceled {
		c.fail(job, h, logger, core.ErrJobCancelled, "job cancelled by caller")
		return
	}

	// Partial fan-in: collect whatever has arrived, mark the rest timed out.
	results := make([]core.AgentResult, len(c.analyzers))
	collected := make([]bool, len(c.analyzers))
	for {
		select {
		case ir := <-resultCh:
			results[ir.idx] = ir.res
			collected[ir.idx] = true
			continue
		default:
		}
		break
	}
	for i, ok := range collected {
		if !ok {
			results[i] = core.NewFailedResult(tasks[i].Agent, core.ErrorKindTimeout, "task did not resolve before the job deadline", 0)
		}
	}

	c.transition(job, core.StateIntegrating, logger)

	report, err := c.integrator.Integrate(jobCtx, job.ID, results)
	if err != nil {
		c.fail(job, h, logger, err, err.Error())
		return
	}

	for _, ev := range c.evaluators {
		for _, issue := range ev.Evaluate(report) {
			logger.Warn("report evaluation issue evaluator=%s %s", ev.Name(), issue)
		}
	}

	c.transition(job, core.StateDone, logger)
	h.report = report
	c.archive(job, report, logger)
	logger.Info("job finished status=%s calls=%d", report.Status, limiter.Count())
}

// transition applies a state machine edge, emits the audit event and logs it.
// Edges are driven strictly forward by run, so a transition error here is a
// programming bug worth surfacing loudly in logs.
func (c *Coordinator) transition(job *core.ReviewJob, next core.JobState, logger logging.Logger) {
	from := job.State()
	if err := job.Transition(next); err != nil {
		logger.Error("state transition rejected: %v", err)
		return
	}
	c.events.Emit(core.NewTransitionEvent(job.ID, from, next))
	logger.Debug("job transition %s -> %s", from, next)
}

// fail moves the job to ERROR with an error report and archives it.
func (c *Coordinator) fail(job *core.ReviewJob, h *JobHandle, logger logging.Logger, err error, message string) {
	from := job.State()
	if terr := job.Transition(core.StateError); terr == nil {
		c.events.Emit(core.NewTransitionEvent(job.ID, from, core.StateError))
	}
	h.err = err
	h.report = core.NewErrorReport(job.ID, message)
	c.archive(job, h.report, logger)
	logger.Warn("job failed: %s", message)
}

func (c *Coordinator) archive(job *core.ReviewJob, report *core.Report, logger logging.Logger) {
	if c.jobs == nil {
		return
	}
	archived := core.ArchivedJob{
		JobID:       job.ID,
		Fingerprint: job.Fingerprint,
		State:       job.State(),
		History:     job.History(),
		Report:      report,
	}
	if err := c.jobs.Archive(archived); err != nil {
		logger.Warn("job archive failed: %v", err)
	}
}

func (c *Coordinator) jobLogger(jobID string) logging.Logger {
	if rl, ok := c.logger.(*logging.ReviewLogger); ok {
		return rl.WithComponent("coordinator").WithJob(jobID)
	}
	return c.logger
}
