package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/database"
	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/model"
)

// AuditLogRepository handles audit log data access
type AuditLogRepository struct {
	db database.Database
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db database.Database) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// ListUnanonymizedBefore retrieves up to limit entries created before the
// cutoff that still carry actor identity, oldest first. Callers page by
// calling again after scrubbing: scrubbed rows no longer match.
func (r *AuditLogRepository) ListUnanonymizedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*model.AuditLogEntry, error) {
	query := `
		SELECT * FROM audit_log
		WHERE anonymized != true AND created_on < $cutoff
		ORDER BY created_on ASC
		LIMIT $limit
	`
	vars := map[string]interface{}{
		"cutoff": cutoff,
		"limit":  limit,
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseAuditLogRows(results)
}

// SaveScrubbed writes an entry's post-scrub state: identity fields cleared,
// metadata replaced, and the anonymized marker set.
func (r *AuditLogRepository) SaveScrubbed(ctx context.Context, entry *model.AuditLogEntry) error {
	query := `
		UPDATE type::record($id) SET
			actor_id = NONE,
			ip_address = NONE,
			user_agent = NONE,
			metadata = $metadata,
			anonymized = true
	`
	metadata := entry.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	vars := map[string]interface{}{
		"id":       entry.ID,
		"metadata": metadata,
	}

	return r.db.Execute(ctx, query, vars)
}

// DeleteBefore deletes all entries created before the cutoff, anonymized or
// not. Returns the number of rows removed.
func (r *AuditLogRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int, error) {
	countQuery := `
		SELECT count() AS count FROM audit_log
		WHERE created_on < $cutoff
		GROUP ALL
	`
	vars := map[string]interface{}{"cutoff": cutoff}

	result, err := r.db.QueryOne(ctx, countQuery, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	count := extractCount(result)
	if count == 0 {
		return 0, nil
	}

	query := `DELETE audit_log WHERE created_on < $cutoff`
	if err := r.db.Execute(ctx, query, vars); err != nil {
		return 0, err
	}

	return count, nil
}

// parseAuditLogRows parses audit log entries from query results
func parseAuditLogRows(results []interface{}) ([]*model.AuditLogEntry, error) {
	rows := rowsFromResults(results)
	entries := make([]*model.AuditLogEntry, 0, len(rows))

	for _, row := range rows {
		entry, err := parseAuditLogFromData(row)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// parseAuditLogFromData parses an audit log entry from map data
func parseAuditLogFromData(data map[string]interface{}) (*model.AuditLogEntry, error) {
	normalizeRecordIDs(data, "id", "actor_id")

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var entry model.AuditLogEntry
	if err := json.Unmarshal(jsonBytes, &entry); err != nil {
		return nil, err
	}

	return &entry, nil
}
