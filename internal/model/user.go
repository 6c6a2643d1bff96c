package model

import "time"

// User represents a platform account as seen by the maintenance jobs.
// Request-path concerns (credentials, sessions, profiles) live with the
// platform; this subsystem only reads karma inputs and rewrites identity
// fields during deletion finalization.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	Karma       int       `json:"karma"`
	Anonymized  bool      `json:"anonymized"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}

// AnonymizedEmailDomain is the reserved domain substituted for a user's real
// address when their contributions are anonymized. The .invalid TLD can never
// resolve, and a unique local part keeps uniqueness indexes satisfied.
const AnonymizedEmailDomain = "anonymized.invalid"

// AnonymousProfile is the replacement identity written over a user record by
// the anonymization branch of deletion finalization.
type AnonymousProfile struct {
	Email       string
	DisplayName string
}
