package model

import "time"

// InvitationStatus represents the lifecycle stage of a project invitation
type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusDeclined InvitationStatus = "declined"
)

// ProjectInvitation represents an invite to collaborate on a project.
// Invitations carry the recipient's email address, so stale ones are a
// retention liability as well as clutter.
type ProjectInvitation struct {
	ID         string            `json:"id"`
	ProjectID  string            `json:"project_id"`
	Email      string            `json:"email"`
	InvitedBy  string            `json:"invited_by"`
	Role       CollaborationRole `json:"role"`
	Status     InvitationStatus  `json:"status"`
	CreatedOn  time.Time         `json:"created_on"`
	ResolvedOn *time.Time        `json:"resolved_on,omitempty"`
}

// Resolved returns true once the invitation was accepted or declined.
// Unresolved invitations are the ones stale-invite cleanup removes.
func (i *ProjectInvitation) Resolved() bool {
	return i.ResolvedOn != nil
}
