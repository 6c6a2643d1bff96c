package model

import (
	"math"
	"time"
)

// CollaborationRole represents a user's role on a project
type CollaborationRole string

const (
	RoleCreator     CollaborationRole = "creator"
	RoleContributor CollaborationRole = "contributor"
	RoleAdvisor     CollaborationRole = "advisor"
)

// IsValid returns true if the role is one the platform recognizes
func (r CollaborationRole) IsValid() bool {
	switch r {
	case RoleCreator, RoleContributor, RoleAdvisor:
		return true
	default:
		return false
	}
}

// Multiplier returns the karma weight applied to a project's upvote count
// for a collaboration held under this role. Unknown roles contribute nothing.
func (r CollaborationRole) Multiplier() float64 {
	switch r {
	case RoleCreator:
		return 1.0
	case RoleContributor:
		return 0.5
	case RoleAdvisor:
		return 0.25
	default:
		return 0
	}
}

// FeaturedCreatorBonus is the flat karma awarded once per project where the
// user holds the creator role and the project is featured.
const FeaturedCreatorBonus = 100

// Project represents a project as seen by karma recalculation: only the
// aggregate upvote count and the featured flag matter here. Both are
// maintained by the platform's request path and read-only in this subsystem.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	UpvoteCount int       `json:"upvote_count"`
	Featured    bool      `json:"featured"`
	CreatedOn   time.Time `json:"created_on"`
}

// Collaboration links a user to a project under a role. The Project field is
// populated when the repository fetches the linked record in the same query.
type Collaboration struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	ProjectID string            `json:"project_id"`
	Role      CollaborationRole `json:"role"`
	Project   *Project          `json:"project,omitempty"`
	CreatedOn time.Time         `json:"created_on"`
}

// Contribution returns the karma contributed by this collaboration: the
// project's upvote count weighted by the role multiplier, floored. A
// collaboration without its project fetched contributes nothing.
func (c *Collaboration) Contribution() int {
	if c.Project == nil {
		return 0
	}
	return int(math.Floor(float64(c.Project.UpvoteCount) * c.Role.Multiplier()))
}
