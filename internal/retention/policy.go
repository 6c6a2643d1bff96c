// Package retention defines the pure rules deciding which records are old
// enough for a maintenance action. Policies know nothing about storage: they
// turn "now" into a cutoff instant, and the repositories turn the cutoff into
// a selection. Because the cutoff is computed fresh on every invocation and
// selections are age-based, every policy-driven job is idempotent: rerunning
// against unchanged data selects nothing new.
package retention

import "time"

// Policy is an age rule for one maintenance concern: records whose relevant
// timestamp predates Cutoff(now) are eligible for the action.
type Policy struct {
	// Name identifies the policy in logs and job results.
	Name string

	// MaxAge is how old a record may grow before it becomes eligible.
	MaxAge time.Duration
}

// Cutoff returns the eligibility boundary at the given instant. Records
// strictly older than the returned time are eligible.
func (p Policy) Cutoff(now time.Time) time.Time {
	return now.Add(-p.MaxAge)
}

// Eligible reports whether a record with the given timestamp is selected by
// the policy at the given instant. A record exactly at the cutoff is not yet
// eligible; it becomes eligible on the next evaluation.
func (p Policy) Eligible(recordTime, now time.Time) bool {
	return recordTime.Before(p.Cutoff(now))
}

// The platform's retention windows. Ages are fixed product decisions, not
// tunables; operational knobs (batch sizes, pauses) live in config instead.
var (
	// StaleInvitations removes project invitations that were never accepted
	// or declined. The invite email has long since gone cold, and the row
	// carries a recipient address.
	StaleInvitations = Policy{Name: "stale_invitations", MaxAge: 30 * 24 * time.Hour}

	// InactivePushTokens removes device tokens with no delivery activity.
	// Providers invalidate tokens far sooner; these rows are dead weight.
	InactivePushTokens = Policy{Name: "inactive_push_tokens", MaxAge: 90 * 24 * time.Hour}

	// OrphanedUploads removes stored files no owning record ever claimed.
	// The window leaves room for slow multi-step flows to attach a file.
	OrphanedUploads = Policy{Name: "orphaned_uploads", MaxAge: 30 * 24 * time.Hour}

	// AuditLogAnonymization strips identity from audit rows once their
	// investigative value has aged out, keeping the what but not the who.
	AuditLogAnonymization = Policy{Name: "audit_log_anonymization", MaxAge: 365 * 24 * time.Hour}

	// AuditLogPurge permanently removes audit rows past the retention
	// horizon, anonymized or not.
	AuditLogPurge = Policy{Name: "audit_log_purge", MaxAge: 3 * 365 * 24 * time.Hour}
)
