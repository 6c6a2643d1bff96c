package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/model"
	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/retention"
	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/scheduler"
)

// DefaultAuditPageSize is how many audit rows one anonymization page
// fetches when the host does not configure a size.
const DefaultAuditPageSize = 500

// AuditLogScrubber defines the repository interface needed by the audit-log
// anonymization job.
type AuditLogScrubber interface {
	ListUnanonymizedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*model.AuditLogEntry, error)
	SaveScrubbed(ctx context.Context, entry *model.AuditLogEntry) error
}

// AuditLogPurger defines the repository interface needed by the audit-log
// purge job.
type AuditLogPurger interface {
	DeleteBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// NewAuditLogAnonymization builds the job that strips actor identity, IP,
// user agent, and PII metadata from audit rows older than the anonymization
// window. Rows are processed in pages so a year's backlog never loads at
// once.
//
// A row that fails to save keeps matching the next listing, so the pass
// stops after the first page with a failure instead of spinning on it; the
// next scheduled run picks the backlog up again.
func NewAuditLogAnonymization(logs AuditLogScrubber, pageSize int, logger *slog.Logger) scheduler.Job {
	if pageSize <= 0 {
		pageSize = DefaultAuditPageSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return scheduler.Job{
		Name:        "anonymize-audit-logs",
		Description: "Strip identity from audit log entries older than one year",
		Schedule:    "0 2 * * *",
		Enabled:     true,
		Handler: func(ctx context.Context) (*scheduler.JobResult, error) {
			cutoff := retention.AuditLogAnonymization.Cutoff(time.Now().UTC())

			anonymized := 0
			var errs []string
			for {
				page, err := logs.ListUnanonymizedBefore(ctx, cutoff, pageSize)
				if err != nil {
					return nil, fmt.Errorf("failed to list audit log entries: %w", err)
				}
				if len(page) == 0 {
					break
				}

				for _, entry := range page {
					entry.Scrub()
					if err := logs.SaveScrubbed(ctx, entry); err != nil {
						logger.Warn("audit entry not anonymized",
							"entry", entry.ID,
							"error", err,
						)
						errs = append(errs, fmt.Sprintf("entry %s: %v", entry.ID, err))
						continue
					}
					anonymized++
				}

				if len(errs) > 0 || len(page) < pageSize {
					break
				}
			}

			result := &scheduler.JobResult{
				Success: len(errs) == 0,
				Message: fmt.Sprintf("anonymized %d audit log entries, %d failed", anonymized, len(errs)),
				Details: map[string]interface{}{
					"anonymized": anonymized,
					"failed":     len(errs),
				},
			}
			if len(errs) > 0 {
				result.Details["errors"] = errs
			}
			return result, nil
		},
	}
}

// NewAuditLogPurge builds the job that permanently removes audit rows past
// the retention horizon, anonymized or not.
func NewAuditLogPurge(logs AuditLogPurger) scheduler.Job {
	return scheduler.Job{
		Name:        "purge-audit-logs",
		Description: "Delete audit log entries past the three-year retention horizon",
		Schedule:    "20 2 * * *",
		Enabled:     true,
		Handler: func(ctx context.Context) (*scheduler.JobResult, error) {
			cutoff := retention.AuditLogPurge.Cutoff(time.Now().UTC())
			deleted, err := logs.DeleteBefore(ctx, cutoff)
			if err != nil {
				return nil, fmt.Errorf("failed to purge audit log entries: %w", err)
			}
			return &scheduler.JobResult{
				Success: true,
				Message: fmt.Sprintf("purged %d audit log entries", deleted),
				Details: map[string]interface{}{"deleted": deleted},
			}, nil
		},
	}
}
