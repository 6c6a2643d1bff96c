package model

import "time"

// DeletionGracePeriod is the fixed interval between an account-deletion
// request and its irreversible finalization. Until it elapses the user can
// cancel; after it, the next finalization pass will process the request.
const DeletionGracePeriod = 30 * 24 * time.Hour

// DeletionStatus represents the lifecycle stage of a deletion request
type DeletionStatus string

const (
	DeletionStatusPending   DeletionStatus = "pending"
	DeletionStatusCancelled DeletionStatus = "cancelled"
	DeletionStatusCompleted DeletionStatus = "completed"
)

// Terminal returns true for states that permit no further transition.
func (s DeletionStatus) Terminal() bool {
	return s == DeletionStatusCancelled || s == DeletionStatusCompleted
}

// DeletionOptions selects which finalization branch runs for a request.
type DeletionOptions struct {
	// AnonymizeContributions keeps the user's authored content under a
	// de-identified label instead of cascading a full delete.
	AnonymizeContributions bool `json:"anonymize_contributions"`
}

// DeletionRequest is the account-deletion grace-period record. Requests are
// never deleted: completed and cancelled rows remain as the record of what
// happened to the account.
type DeletionRequest struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	RequestedAt  time.Time       `json:"requested_at"`
	ScheduledFor time.Time       `json:"scheduled_for"`
	Options      DeletionOptions `json:"options"`
	Status       DeletionStatus  `json:"status"`
	CancelledAt  *time.Time      `json:"cancelled_at,omitempty"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}

// Due reports whether the grace period has elapsed at the given instant.
// A request scheduled for exactly now is due.
func (r *DeletionRequest) Due(now time.Time) bool {
	return !r.ScheduledFor.After(now)
}
