package scheduler

import (
	"context"
	"time"
)

// Job defines a recurring maintenance task. Jobs are value-registered and
// never mutated by the scheduler; per-job bookkeeping lives in the
// scheduler's own state.
type Job struct {
	// Name uniquely identifies the job in the registry, logs, and the
	// execution log.
	Name string

	// Description is a human-readable summary for status output.
	Description string

	// Schedule is a 5-field cron expression (minute hour dom month dow),
	// evaluated in UTC. Validated at registration.
	Schedule string

	// Enabled controls whether Start creates a cron entry for the job.
	// Disabled jobs stay registered and can still be run manually.
	Enabled bool

	// Handler does the work. A nil result with a nil error is treated as
	// a failure by the runner, as are returned errors and panics.
	Handler func(ctx context.Context) (*JobResult, error)
}

// JobResult is the outcome of one job execution. Details is opaque to the
// scheduler; handlers put whatever counts and error lists they want there,
// and the runner stamps execution_id and duration_ms into it.
type JobResult struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// JobStatistics counts a job's real executions. Concurrency rejections are
// not executions and leave both counters alone.
type JobStatistics struct {
	Runs     int `json:"runs"`
	Failures int `json:"failures"`
}

// JobStatus is a read-only snapshot of one registered job.
type JobStatus struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Schedule    string        `json:"schedule"`
	Enabled     bool          `json:"enabled"`
	Running     bool          `json:"running"`
	LastRun     *time.Time    `json:"last_run,omitempty"`
	NextRun     *time.Time    `json:"next_run,omitempty"`
	LastResult  *JobResult    `json:"last_result,omitempty"`
	Stats       JobStatistics `json:"stats"`
}

// Run is the record of one execution handed to a RunRecorder.
type Run struct {
	JobName     string
	ExecutionID string
	Success     bool
	Message     string
	Details     map[string]interface{}
	StartedAt   time.Time
	Duration    time.Duration
}

// RunRecorder receives one record per job execution, successful or not.
// Recording is best-effort: errors are logged by the runner and never
// affect the job's result. Defined here so the scheduler does not depend
// on any particular storage.
type RunRecorder interface {
	Record(ctx context.Context, run Run) error
}
