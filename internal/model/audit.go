package model

import (
	"strings"
	"time"
)

// AuditLogEntry represents one row of the platform's audit trail. The
// maintenance jobs never create these; they only strip identity from old
// rows and purge very old ones.
type AuditLogEntry struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	ActorID    *string        `json:"actor_id,omitempty"`
	IPAddress  *string        `json:"ip_address,omitempty"`
	UserAgent  *string        `json:"user_agent,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Anonymized bool           `json:"anonymized"`
	CreatedOn  time.Time      `json:"created_on"`
}

// piiMetadataKeys are the metadata fields stripped during anonymization.
// Matching is case-insensitive. The action and non-identifying context stay
// intact so the row keeps its audit value.
var piiMetadataKeys = map[string]struct{}{
	"email":        {},
	"name":         {},
	"first_name":   {},
	"last_name":    {},
	"full_name":    {},
	"display_name": {},
	"username":     {},
	"phone":        {},
	"address":      {},
	"location":     {},
	"ip":           {},
	"ip_address":   {},
	"user_agent":   {},
	"avatar_url":   {},
}

// ScrubPIIMetadata returns a copy of metadata with PII-bearing keys removed,
// recursing into nested objects. The input map is not modified. A nil input
// yields nil.
func ScrubPIIMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return nil
	}
	scrubbed := make(map[string]any, len(metadata))
	for key, value := range metadata {
		if _, pii := piiMetadataKeys[strings.ToLower(key)]; pii {
			continue
		}
		if nested, ok := value.(map[string]any); ok {
			scrubbed[key] = ScrubPIIMetadata(nested)
			continue
		}
		scrubbed[key] = value
	}
	return scrubbed
}

// Scrub strips the entry's identity fields in place: actor, network address,
// user agent, and PII-bearing metadata keys. The row itself survives; who is
// removed, what happened stays. Scrubbing an already-scrubbed entry changes
// nothing.
func (e *AuditLogEntry) Scrub() {
	e.ActorID = nil
	e.IPAddress = nil
	e.UserAgent = nil
	e.Metadata = ScrubPIIMetadata(e.Metadata)
	e.Anonymized = true
}
