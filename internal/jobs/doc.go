// Package jobs defines the platform's scheduled maintenance jobs and wires
// them into a running scheduler.
//
// Each job lives in its own file as a constructor returning a
// scheduler.Job value. Constructors take narrow consumer interfaces rather
// than concrete repositories, so handlers are testable with small mocks.
//
// # Jobs
//
// In nightly firing order (all schedules are UTC):
//
//   - finalize-account-deletions (01:45): run deletion requests past their
//     grace period through the anonymize or delete branch
//   - anonymize-audit-logs (02:00): strip identity from audit rows older
//     than a year
//   - purge-audit-logs (02:20): remove audit rows past the retention horizon
//   - cleanup-stale-invitations (03:15): drop invitations unanswered for
//     30 days
//   - cleanup-inactive-push-tokens (03:30): drop device tokens idle for
//     90 days
//   - cleanup-orphaned-uploads (04:00): delete files no record claimed
//     within 30 days, plus their rows
//   - recalculate-karma (05:00): recompute every user's karma from scratch
//
// The start times are staggered so no two jobs contend for the data store.
//
// # Setup
//
// Hosts call Setup once:
//
//	sched, err := jobs.Setup(jobs.SetupConfig{
//	    DB:          db,
//	    Logger:      logger,
//	    UploadsRoot: cfg.Jobs.UploadsRoot,
//	    AutoStart:   true,
//	})
//
// Setup builds the repositories and services behind every job, registers
// all of them, and (optionally) starts cron triggering. Every error it
// returns is a configuration error; hosts must treat it as fatal.
//
// # Failure containment
//
// Handlers return an error only when the whole pass is broken (the listing
// query failed, nothing was attempted). Per-record failures are logged,
// counted in the result details, and never stop the rest of the pass.
package jobs
