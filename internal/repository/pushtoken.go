package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/database"
)

// PushTokenRepository handles push notification token data access
type PushTokenRepository struct {
	db database.Database
}

// NewPushTokenRepository creates a new push token repository
func NewPushTokenRepository(db database.Database) *PushTokenRepository {
	return &PushTokenRepository{db: db}
}

// inactiveCondition matches tokens whose last delivery, or registration when
// they were never used, predates $cutoff.
const inactiveCondition = `
	(last_used_at != NONE AND last_used_at < $cutoff)
	OR (last_used_at = NONE AND created_on < $cutoff)
`

// DeleteInactiveBefore deletes tokens that have seen no activity since the
// cutoff. Returns the number of rows removed.
func (r *PushTokenRepository) DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int, error) {
	countQuery := `
		SELECT count() AS count FROM push_token
		WHERE ` + inactiveCondition + `
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

	query := `DELETE push_token WHERE ` + inactiveCondition
	if err := r.db.Execute(ctx, query, vars); err != nil {
		return 0, err
	}

	return count, nil
}

// DeleteByUser deletes all tokens registered by a user. Returns the number
// of rows removed.
func (r *PushTokenRepository) DeleteByUser(ctx context.Context, userID string) (int, error) {
	countQuery := `
		SELECT count() AS count FROM push_token
		WHERE user_id = type::record($user_id)
		GROUP ALL
	`
	vars := map[string]interface{}{"user_id": userID}

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

	query := `DELETE push_token WHERE user_id = type::record($user_id)`
	if err := r.db.Execute(ctx, query, vars); err != nil {
		return 0, err
	}

	return count, nil
}
