package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/database"
	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/model"
)

// DeletionRequestRepository handles account deletion request data access.
// Requests are never deleted: terminal rows are the record of what happened
// to the account, so this repository exposes no delete operation.
type DeletionRequestRepository struct {
	db database.Database
}

// NewDeletionRequestRepository creates a new deletion request repository
func NewDeletionRequestRepository(db database.Database) *DeletionRequestRepository {
	return &DeletionRequestRepository{db: db}
}

// Create persists a new deletion request and fills in its generated ID
func (r *DeletionRequestRepository) Create(ctx context.Context, req *model.DeletionRequest) error {
	query := `
		CREATE deletion_request CONTENT {
			user_id: type::record($user_id),
			requested_at: $requested_at,
			scheduled_for: $scheduled_for,
			options: {
				anonymize_contributions: $anonymize_contributions
			},
			status: $status
		}
	`
	vars := map[string]interface{}{
		"user_id":                 req.UserID,
		"requested_at":            req.RequestedAt,
		"scheduled_for":           req.ScheduledFor,
		"anonymize_contributions": req.Options.AnonymizeContributions,
		"status":                  string(req.Status),
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return fmt.Errorf("failed to create deletion request: %w", err)
	}

	rows := rowsFromResults(results)
	if len(rows) == 0 {
		return errors.New("failed to extract created deletion request")
	}
	req.ID = extractRecordID(rows[0]["id"])

	return nil
}

// GetByID retrieves a deletion request by ID. Returns nil without error
// when no such request exists.
func (r *DeletionRequestRepository) GetByID(ctx context.Context, id string) (*model.DeletionRequest, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseDeletionRequestResult(result)
}

// GetPendingByUser retrieves the user's pending deletion request, or nil
// when none is pending. At most one can be pending per user.
func (r *DeletionRequestRepository) GetPendingByUser(ctx context.Context, userID string) (*model.DeletionRequest, error) {
	query := `
		SELECT * FROM deletion_request
		WHERE user_id = type::record($user_id) AND status = $status
		LIMIT 1
	`
	vars := map[string]interface{}{
		"user_id": userID,
		"status":  string(model.DeletionStatusPending),
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseDeletionRequestResult(result)
}

// ListDue retrieves pending requests whose grace period has elapsed at the
// given instant, oldest schedule first. A request scheduled for exactly now
// is due.
func (r *DeletionRequestRepository) ListDue(ctx context.Context, now time.Time) ([]*model.DeletionRequest, error) {
	query := `
		SELECT * FROM deletion_request
		WHERE status = $status AND scheduled_for <= $now
		ORDER BY scheduled_for ASC
	`
	vars := map[string]interface{}{
		"status": string(model.DeletionStatusPending),
		"now":    now,
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows := rowsFromResults(results)
	requests := make([]*model.DeletionRequest, 0, len(rows))
	for _, row := range rows {
		req, err := parseDeletionRequestFromData(row)
		if err != nil {
			continue
		}
		requests = append(requests, req)
	}

	return requests, nil
}

// MarkCancelled transitions a request from pending to cancelled. Returns
// false when the request was not pending, leaving it untouched.
func (r *DeletionRequestRepository) MarkCancelled(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `
		UPDATE type::record($id)
		SET status = $to, cancelled_at = $at
		WHERE status = $from
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"id":   id,
		"to":   string(model.DeletionStatusCancelled),
		"from": string(model.DeletionStatusPending),
		"at":   at,
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return false, err
	}

	return len(rowsFromResults(results)) > 0, nil
}

// MarkCompleted transitions a request from pending to completed. Returns
// false when the request was not pending, leaving it untouched.
func (r *DeletionRequestRepository) MarkCompleted(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `
		UPDATE type::record($id)
		SET status = $to, completed_at = $at
		WHERE status = $from
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"id":   id,
		"to":   string(model.DeletionStatusCompleted),
		"from": string(model.DeletionStatusPending),
		"at":   at,
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return false, err
	}

	return len(rowsFromResults(results)) > 0, nil
}

// parseDeletionRequestResult parses a single deletion request result
func parseDeletionRequestResult(result interface{}) (*model.DeletionRequest, error) {
	data, err := rowFromResult(result)
	if err != nil {
		return nil, err
	}
	return parseDeletionRequestFromData(data)
}

// parseDeletionRequestFromData parses a deletion request from map data
func parseDeletionRequestFromData(data map[string]interface{}) (*model.DeletionRequest, error) {
	normalizeRecordIDs(data, "id", "user_id")

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var req model.DeletionRequest
	if err := json.Unmarshal(jsonBytes, &req); err != nil {
		return nil, err
	}

	return &req, nil
}
