package repository

import (
	"context"

	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/database"
	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/model"
)

// JobRunRepository appends to the job execution log. The log is write-only
// from this subsystem's point of view; reading it is an operator concern.
type JobRunRepository struct {
	db database.Database
}

// NewJobRunRepository creates a new job run repository
func NewJobRunRepository(db database.Database) *JobRunRepository {
	return &JobRunRepository{db: db}
}

// Append records one job execution
func (r *JobRunRepository) Append(ctx context.Context, run *model.JobRun) error {
	query := `
		CREATE job_run CONTENT {
			job_name: $job_name,
			execution_id: $execution_id,
			success: $success,
			message: $message,
			details: $details,
			started_at: $started_at,
			duration_ms: $duration_ms
		}
	`
	details := run.Details
	if details == nil {
		details = map[string]any{}
	}
	vars := map[string]interface{}{
		"job_name":     run.JobName,
		"execution_id": run.ExecutionID,
		"success":      run.Success,
		"message":      run.Message,
		"details":      details,
		"started_at":   run.StartedAt,
		"duration_ms":  run.DurationMS,
	}

	return r.db.Execute(ctx, query, vars)
}
