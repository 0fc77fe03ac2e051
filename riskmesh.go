// Package riskmesh provides a high-level façade over the review engine:
// coordinator, analysis agents, result cache, audit store and job archive.
// Most applications interact with this package by:
//  1. Creating an Engine via New() with a capability (or provider adapter)
//  2. Submitting document text asynchronously (Submit) or synchronously (Review)
//  3. Inspecting archived jobs, cached results and the audit trail as needed
//
// The façade wires the default legal and business analyzers behind shared
// caching, retry and concurrency limits. All defaults are safe for local
// development and testing; production deployments typically supply durable
// store implementations and a structured logger.
package riskmesh

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/riskmesh/riskmesh/agent"
	"github.com/riskmesh/riskmesh/artifact"
	"github.com/riskmesh/riskmesh/cache"
	"github.com/riskmesh/riskmesh/coordinator"
	"github.com/riskmesh/riskmesh/core"
	"github.com/riskmesh/riskmesh/evaluation"
	"github.com/riskmesh/riskmesh/integration"
	"github.com/riskmesh/riskmesh/jobstore"
	"github.com/riskmesh/riskmesh/logging"
	"github.com/riskmesh/riskmesh/runtime"
)

// Options configures the Engine.
type Options struct {
	// Cache short-circuits repeat analyses of identical text. Defaults to an
	// in-memory LRU.
	Cache core.ResultCache
	// Audit preserves raw output of degraded results. Defaults in-memory.
	Audit core.AuditStore
	// Jobs archives terminal jobs. Defaults in-memory.
	Jobs core.JobStore
	// Events receives the audit event trail. Defaults to a discard sink.
	Events core.EventSink
	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger

	// MaxConcurrentCalls bounds in-flight capability invocations across all
	// jobs. Provides global backpressure; excess tasks queue. Zero disables
	// the bound.
	MaxConcurrentCalls int64
	// MaxCallsPerJob caps capability invocations per job across agents and
	// retries. Zero means unlimited.
	MaxCallsPerJob int
	// MaxAttempts bounds capability invocations per agent task.
	MaxAttempts int
	// JobTimeout bounds each job from dispatch to integration.
	JobTimeout time.Duration
	// Weights overrides the per-agent score weighting; nil keeps the default
	// legal 0.6 / business 0.4 split.
	Weights map[string]float64
}

// Engine is the high-level façade aggregating the coordinator and its
// supporting stores.
type Engine struct {
	coordinator *coordinator.Coordinator
	cache       core.ResultCache
	audit       core.AuditStore
	jobs        core.JobStore
}

// New creates an Engine reviewing documents with the given capability. Any
// unset store is initialized with an in-memory implementation.
func New(capability core.Capability, optFns ...func(o *Options)) (*Engine, error) {
	if capability == nil {
		return nil, fmt.Errorf("capability must not be nil")
	}

	opts := Options{
		Cache:              cache.New(),
		Audit:              artifact.NewInMemoryStore(),
		Jobs:               jobstore.NewInMemoryStore(),
		Events:             core.NoOpSink{},
		Logger:             logging.NoOpLogger{},
		MaxConcurrentCalls: 4,
		MaxAttempts:        3,
		JobTimeout:         2 * time.Minute,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	var calls *semaphore.Weighted
	if opts.MaxConcurrentCalls > 0 {
		calls = semaphore.NewWeighted(opts.MaxConcurrentCalls)
	}

	runtimeOpts := func(o *runtime.Options) {
		o.MaxAttempts = opts.MaxAttempts
		o.Cache = opts.Cache
		o.Audit = opts.Audit
		o.Calls = calls
		o.Logger = opts.Logger
	}

	coord := coordinator.New(func(o *coordinator.Options) {
		o.JobTimeout = opts.JobTimeout
		o.MaxCallsPerJob = opts.MaxCallsPerJob
		o.Integrator = integration.New(func(io *integration.Options) {
			io.Weights = opts.Weights
			io.Logger = opts.Logger
		})
		o.Jobs = opts.Jobs
		o.Evaluators = []evaluation.Evaluator{evaluation.NewCompletenessEvaluator()}
		o.Events = opts.Events
		o.Logger = opts.Logger
	})

	for _, a := range []core.Analyzer{
		agent.NewLegalAnalyzer(capability, runtimeOpts),
		agent.NewBusinessAnalyzer(capability, runtimeOpts),
	} {
		if err := coord.Register(a); err != nil {
			return nil, err
		}
	}

	return &Engine{
		coordinator: coord,
		cache:       opts.Cache,
		audit:       opts.Audit,
		jobs:        opts.Jobs,
	}, nil
}

// Review runs a document review synchronously and returns the final report.
func (e *Engine) Review(ctx context.Context, text string, optFns ...func(o *coordinator.JobOptions)) (*core.Report, error) {
	return e.coordinator.Review(ctx, text, optFns...)
}

// Submit starts a review asynchronously. Use the returned handle's Wait to
// collect the report and Cancel to abort.
func (e *Engine) Submit(ctx context.Context, text string, optFns ...func(o *coordinator.JobOptions)) (*coordinator.JobHandle, error) {
	return e.coordinator.Submit(ctx, text, optFns...)
}

// Cancel aborts a running job by id.
func (e *Engine) Cancel(jobID string) error { return e.coordinator.Cancel(jobID) }

// Job returns the archived record of a terminal job.
func (e *Engine) Job(jobID string) (core.ArchivedJob, error) { return e.jobs.Get(jobID) }

// Cache exposes the result cache, e.g. for explicit invalidation.
func (e *Engine) Cache() core.ResultCache { return e.cache }

// Audit exposes the raw-output audit store for degraded results.
func (e *Engine) Audit() core.AuditStore { return e.audit }
