package jobs

import (
	"context"
	"fmt"

	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/scheduler"
	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/pkg/batch"
)

// KarmaRecalculator defines the service interface needed by the karma
// recalculation job.
type KarmaRecalculator interface {
	RecalculateAll(ctx context.Context) (*batch.Summary, error)
}

// NewKarmaRecalculation builds the job that recomputes every user's karma
// from their current collaborations and upvotes. It runs last in the
// nightly window so the night's deletions and cleanups are already
// reflected in the scores.
func NewKarmaRecalculation(karma KarmaRecalculator) scheduler.Job {
	return scheduler.Job{
		Name:        "recalculate-karma",
		Description: "Recompute every user's karma from collaborations and upvotes",
		Schedule:    "0 5 * * *",
		Enabled:     true,
		Handler: func(ctx context.Context) (*scheduler.JobResult, error) {
			summary, err := karma.RecalculateAll(ctx)
			if err != nil {
				return nil, err
			}

			result := &scheduler.JobResult{
				Success: summary.Failed == 0,
				Message: fmt.Sprintf("recalculated karma for %d of %d users", summary.Succeeded, summary.Total),
				Details: map[string]interface{}{
					"users":     summary.Total,
					"succeeded": summary.Succeeded,
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
