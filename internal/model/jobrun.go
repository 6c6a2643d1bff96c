package model

import "time"

// JobRun is one row of the append-only job execution log. The scheduler's
// status snapshot only keeps each job's most recent result; when history is
// wanted, runs are appended here as a separate record, never read back by
// the scheduler itself.
type JobRun struct {
	ID          string         `json:"id"`
	JobName     string         `json:"job_name"`
	ExecutionID string         `json:"execution_id"`
	Success     bool           `json:"success"`
	Message     string         `json:"message"`
	Details     map[string]any `json:"details,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	DurationMS  int64          `json:"duration_ms"`
}
