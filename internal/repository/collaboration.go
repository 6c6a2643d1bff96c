package repository

import (
	"context"

	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/database"
	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/model"
)

// CollaborationRepository handles collaboration data access
type CollaborationRepository struct {
	db database.Database
}

// NewCollaborationRepository creates a new collaboration repository
func NewCollaborationRepository(db database.Database) *CollaborationRepository {
	return &CollaborationRepository{db: db}
}

// ListByUser retrieves a user's collaborations with their projects resolved
// in the same query, so karma can be computed without per-project reads.
func (r *CollaborationRepository) ListByUser(ctx context.Context, userID string) ([]*model.Collaboration, error) {
	query := `
		SELECT
			*,
			(SELECT * FROM project WHERE id = $parent.project_id)[0] AS project
		FROM collaboration
		WHERE user_id = type::record($user_id)
		ORDER BY created_on ASC
	`
	vars := map[string]interface{}{"user_id": userID}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows := rowsFromResults(results)
	collabs := make([]*model.Collaboration, 0, len(rows))
	for _, row := range rows {
		collabs = append(collabs, parseCollaborationFromData(row))
	}

	return collabs, nil
}

// parseCollaborationFromData parses a collaboration from map data. The
// project subquery field is mapped by hand because its times and record IDs
// arrive in SurrealDB's native forms.
func parseCollaborationFromData(data map[string]interface{}) *model.Collaboration {
	collab := &model.Collaboration{
		ID:        extractRecordID(data["id"]),
		UserID:    extractRecordID(data["user_id"]),
		ProjectID: extractRecordID(data["project_id"]),
		Role:      model.CollaborationRole(getString(data, "role")),
		CreatedOn: getTime(data, "created_on"),
	}

	if projectData, ok := data["project"].(map[string]interface{}); ok {
		collab.Project = &model.Project{
			ID:          extractRecordID(projectData["id"]),
			Name:        getString(projectData, "name"),
			UpvoteCount: getInt(projectData, "upvote_count"),
			Featured:    getBool(projectData, "featured"),
			CreatedOn:   getTime(projectData, "created_on"),
		}
	}

	return collab
}
