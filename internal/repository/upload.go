package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/database"
	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/model"
)

// UploadRepository handles uploaded file metadata access
type UploadRepository struct {
	db database.Database
}

// NewUploadRepository creates a new upload repository
func NewUploadRepository(db database.Database) *UploadRepository {
	return &UploadRepository{db: db}
}

// ListOrphanedBefore retrieves uploads no owning record references, created
// before the cutoff, oldest first. The caller removes the physical file
// before deleting the row, so this lists rather than bulk-deletes.
func (r *UploadRepository) ListOrphanedBefore(ctx context.Context, cutoff time.Time) ([]*model.Upload, error) {
	query := `
		SELECT * FROM upload
		WHERE attached_to = NONE AND created_on < $cutoff
		ORDER BY created_on ASC
	`
	vars := map[string]interface{}{"cutoff": cutoff}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseUploadRows(results)
}

// Delete deletes an upload row by ID
func (r *UploadRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	return r.db.Execute(ctx, query, map[string]interface{}{"id": id})
}

// parseUploadRows parses uploads from query results
func parseUploadRows(results []interface{}) ([]*model.Upload, error) {
	rows := rowsFromResults(results)
	uploads := make([]*model.Upload, 0, len(rows))

	for _, row := range rows {
		upload, err := parseUploadFromData(row)
		if err != nil {
			continue
		}
		uploads = append(uploads, upload)
	}

	return uploads, nil
}

// parseUploadFromData parses an upload from map data
func parseUploadFromData(data map[string]interface{}) (*model.Upload, error) {
	normalizeRecordIDs(data, "id", "uploaded_by", "attached_to")

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var upload model.Upload
	if err := json.Unmarshal(jsonBytes, &upload); err != nil {
		return nil, err
	}

	return &upload, nil
}
