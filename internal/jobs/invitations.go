package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/retention"
	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/scheduler"
)

// InvitationCleaner defines the repository interface needed by the
// stale-invitation cleanup job.
type InvitationCleaner interface {
	DeleteUnresolvedBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// NewStaleInvitationCleanup builds the job that removes project invitations
// never accepted or declined within the retention window. Resolved
// invitations are collaboration history and are kept.
func NewStaleInvitationCleanup(invitations InvitationCleaner) scheduler.Job {
	return scheduler.Job{
		Name:        "cleanup-stale-invitations",
		Description: "Remove project invitations unanswered for 30 days",
		Schedule:    "15 3 * * *",
		Enabled:     true,
		Handler: func(ctx context.Context) (*scheduler.JobResult, error) {
			cutoff := retention.StaleInvitations.Cutoff(time.Now().UTC())
			deleted, err := invitations.DeleteUnresolvedBefore(ctx, cutoff)
			if err != nil {
				return nil, fmt.Errorf("failed to delete stale invitations: %w", err)
			}
			return &scheduler.JobResult{
				Success: true,
				Message: fmt.Sprintf("deleted %d stale invitations", deleted),
				Details: map[string]interface{}{"deleted": deleted},
			}, nil
		},
	}
}
