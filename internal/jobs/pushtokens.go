package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/retention"
	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/scheduler"
)

// PushTokenCleaner defines the repository interface needed by the
// inactive-push-token cleanup job.
type PushTokenCleaner interface {
	DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// NewInactivePushTokenCleanup builds the job that removes device push
// tokens with no delivery activity inside the retention window. Activity
// means the later of registration and last successful use.
func NewInactivePushTokenCleanup(tokens PushTokenCleaner) scheduler.Job {
	return scheduler.Job{
		Name:        "cleanup-inactive-push-tokens",
		Description: "Remove device push tokens inactive for 90 days",
		Schedule:    "30 3 * * *",
		Enabled:     true,
		Handler: func(ctx context.Context) (*scheduler.JobResult, error) {
			cutoff := retention.InactivePushTokens.Cutoff(time.Now().UTC())
			deleted, err := tokens.DeleteInactiveBefore(ctx, cutoff)
			if err != nil {
				return nil, fmt.Errorf("failed to delete inactive push tokens: %w", err)
			}
			return &scheduler.JobResult{
				Success: true,
				Message: fmt.Sprintf("deleted %d inactive push tokens", deleted),
				Details: map[string]interface{}{"deleted": deleted},
			}, nil
		},
	}
}
