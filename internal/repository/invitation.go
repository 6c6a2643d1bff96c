package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/database"
)

// InvitationRepository handles project invitation data access
type InvitationRepository struct {
	db database.Database
}

// NewInvitationRepository creates a new invitation repository
func NewInvitationRepository(db database.Database) *InvitationRepository {
	return &InvitationRepository{db: db}
}

// DeleteUnresolvedBefore deletes invitations that were never accepted or
// declined and were created before the cutoff. Returns the number of rows
// removed.
func (r *InvitationRepository) DeleteUnresolvedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	countQuery := `
		SELECT count() AS count FROM project_invitation
		WHERE resolved_on = NONE AND created_on < $cutoff
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

	query := `DELETE project_invitation WHERE resolved_on = NONE AND created_on < $cutoff`
	if err := r.db.Execute(ctx, query, vars); err != nil {
		return 0, err
	}

	return count, nil
}

// DeleteUnresolvedByEmail deletes unresolved invitations addressed to the
// given email. Used when the address's owner is anonymized: pending invites
// are the only rows still carrying the real address.
func (r *InvitationRepository) DeleteUnresolvedByEmail(ctx context.Context, email string) (int, error) {
	countQuery := `
		SELECT count() AS count FROM project_invitation
		WHERE email = $email AND resolved_on = NONE
		GROUP ALL
	`
	vars := map[string]interface{}{"email": email}

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

	query := `DELETE project_invitation WHERE email = $email AND resolved_on = NONE`
	if err := r.db.Execute(ctx, query, vars); err != nil {
		return 0, err
	}

	return count, nil
}
