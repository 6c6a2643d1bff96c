package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/scheduler"
	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/service"
)

// DeletionFinalizer defines the service interface needed by the
// account-deletion finalization job.
type DeletionFinalizer interface {
	FinalizeDue(ctx context.Context, now time.Time) (*service.FinalizeSummary, error)
}

// NewDeletionFinalization builds the job that processes account-deletion
// requests whose grace period has elapsed. It runs first in the nightly
// window so the other cleanups see the post-deletion state of the data.
func NewDeletionFinalization(deletions DeletionFinalizer) scheduler.Job {
	return scheduler.Job{
		Name:        "finalize-account-deletions",
		Description: "Finalize account-deletion requests past their grace period",
		Schedule:    "45 1 * * *",
		Enabled:     true,
		Handler: func(ctx context.Context) (*scheduler.JobResult, error) {
			summary, err := deletions.FinalizeDue(ctx, time.Now().UTC())
			if err != nil {
				return nil, err
			}

			result := &scheduler.JobResult{
				Success: summary.Failed == 0,
				Message: fmt.Sprintf("finalized %d of %d due deletion requests", summary.Completed, summary.Due),
				Details: map[string]interface{}{
					"due":       summary.Due,
					"completed": summary.Completed,
					"failed":    summary.Failed,
				},
			}
			if len(summary.Errors) > 0 {
				result.Details["errors"] = summary.Errors
			}
			return result, nil
		},
	}
}
