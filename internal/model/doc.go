// Package model defines the domain records the maintenance subsystem reads
// and mutates, plus the pure rules attached to them.
//
// The maintenance subsystem does not own the platform schema; these types
// mirror the slices of it that the background jobs touch:
//
//   - User: account record; anonymization strips its identity fields
//   - Project / Collaboration: karma inputs (upvote counts, roles, featured flag)
//   - ProjectInvitation: pending invites eligible for stale cleanup
//   - PushToken: device notification tokens eligible for inactivity cleanup
//   - AuditLogEntry: log rows subject to age-based anonymization and purging
//   - Upload: stored files eligible for orphan cleanup
//   - DeletionRequest: the account-deletion grace-period record
//   - JobRun: one row of the append-only job execution log
//
// # Pure Rules
//
// Behavior that does not need storage lives on the types themselves so it can
// be tested without a database:
//
//	role.Multiplier()      // karma weight for a collaboration role
//	req.Due(now)           // grace period elapsed?
//	entry.Scrub()          // strip PII from an audit log row
//
// # JSON Serialization
//
// All records use json struct tags matching the platform's storage field
// names (snake_case), so repository round-trips stay symmetric:
//
//	type Upload struct {
//	    ID        string    `json:"id"`
//	    Path      string    `json:"path"`
//	    CreatedOn time.Time `json:"created_on"`
//	}
package model
