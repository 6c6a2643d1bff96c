package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/database"
	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/model"
)

// UserRepository handles user data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID retrieves a user by ID. Returns nil without error when the user
// does not exist, so sweeps over stale ID lists can skip deleted accounts.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseUserResult(result)
}

// ListActiveIDs retrieves the IDs of all users that still hold their
// identity, i.e. have not been anonymized. Ordered by ID for a stable
// iteration sequence.
func (r *UserRepository) ListActiveIDs(ctx context.Context) ([]string, error) {
	query := `SELECT id FROM user WHERE anonymized != true ORDER BY id ASC`

	results, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	rows := rowsFromResults(results)
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if id := extractRecordID(row["id"]); id != "" {
			ids = append(ids, id)
		}
	}

	return ids, nil
}

// SetKarma writes a user's karma score
func (r *UserRepository) SetKarma(ctx context.Context, id string, karma int) error {
	query := `UPDATE type::record($id) SET karma = $karma, updated_on = time::now()`
	vars := map[string]interface{}{
		"id":    id,
		"karma": karma,
	}
	return r.db.Execute(ctx, query, vars)
}

// Anonymize overwrites a user's identity fields with the replacement
// profile, clears the avatar, and sets the anonymized marker. The row and
// its authored content survive.
func (r *UserRepository) Anonymize(ctx context.Context, id string, profile model.AnonymousProfile) error {
	query := `
		UPDATE type::record($id) SET
			email = $email,
			display_name = $display_name,
			avatar_url = NONE,
			anonymized = true,
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":           id,
		"email":        profile.Email,
		"display_name": profile.DisplayName,
	}
	return r.db.Execute(ctx, query, vars)
}

// DeleteCascade removes the user row and everything it owns in one
// transaction: push tokens, sent and unresolved received invitations,
// upvotes, collaborations, and authored ideas. All statements succeed or
// fail together.
func (r *UserRepository) DeleteCascade(ctx context.Context, user *model.User) error {
	userVars := map[string]interface{}{"user_id": user.ID}

	batch := database.NewAtomicBatch()
	batch.Add(`DELETE push_token WHERE user_id = type::record($user_id)`, userVars)
	batch.Add(`DELETE project_invitation WHERE invited_by = type::record($user_id)`, userVars)
	batch.Add(`DELETE project_invitation WHERE email = $email AND resolved_on = NONE`,
		map[string]interface{}{"email": user.Email})
	batch.Add(`DELETE upvote WHERE user_id = type::record($user_id)`, userVars)
	batch.Add(`DELETE collaboration WHERE user_id = type::record($user_id)`, userVars)
	batch.Add(`DELETE idea WHERE author_id = type::record($user_id)`, userVars)
	batch.Add(`DELETE type::record($id)`, map[string]interface{}{"id": user.ID})

	return batch.Execute(ctx, r.db)
}

// parseUserResult parses a single user result
func parseUserResult(result interface{}) (*model.User, error) {
	data, err := rowFromResult(result)
	if err != nil {
		return nil, err
	}

	normalizeRecordIDs(data, "id")

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(jsonBytes, &user); err != nil {
		return nil, err
	}

	return &user, nil
}
