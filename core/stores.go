package core

// CacheKey is the content-addressed identity of a cached result: which agent
// analyzed which input.
type CacheKey struct {
	Agent       string
	Fingerprint string
}

// ResultCache stores validated Success results keyed on content identity so
// identical inputs never trigger redundant capability calls. Shared by all
// runtimes across concurrent jobs.
//
// Semantics:
//   - Only Success results are stored; Put rejects everything else
//   - Writes are at-most-once per key (first writer wins; concurrent identical
//     computations converge to the same cached value)
//   - Entries have no expiry but support explicit invalidation
//   - Reads never block writers
type ResultCache interface {
	// Get returns the cached result for key, if present.
	Get(key CacheKey) (AgentResult, bool)

	// Put stores a Success result under key unless one is already present.
	// Returns true if the result was stored by this call.
	Put(key CacheKey, result AgentResult) bool

	// Invalidate removes the entry for key, if present.
	Invalidate(key CacheKey)

	// Purge removes all entries.
	Purge()

	// Len returns the number of cached entries.
	Len() int
}

// AuditStore preserves raw capability output per (job, agent) so degraded
// results remain inspectable. Implementations copy data on save and get.
type AuditStore interface {
	Save(jobID, agent string, raw []byte) error
	Get(jobID, agent string) ([]byte, error)
	List(jobID string) ([]string, error)
	Delete(jobID, agent string) error
}

// ArchivedJob is the immutable record kept once a job reaches a terminal
// state: the job's identity, its transition history and the final report.
type ArchivedJob struct {
	JobID       string       `json:"job_id"`
	Fingerprint string       `json:"fingerprint"`
	State       JobState     `json:"state"`
	History     []Transition `json:"history"`
	Report      *Report      `json:"report,omitempty"`
}

// JobStore archives terminal jobs for later inspection.
type JobStore interface {
	Archive(job ArchivedJob) error
	Get(jobID string) (ArchivedJob, error)
	List() ([]string, error)
}
