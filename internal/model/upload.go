package model

import "time"

// Upload represents a stored file. Path is relative to the uploads root.
// AttachedTo is set when an owning record (project, idea, avatar) claims the
// file; uploads that were never claimed, or whose owner released them, are
// orphans.
type Upload struct {
	ID         string    `json:"id"`
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	UploadedBy *string   `json:"uploaded_by,omitempty"`
	AttachedTo *string   `json:"attached_to,omitempty"`
	CreatedOn  time.Time `json:"created_on"`
}

// Orphaned returns true when no owning record references the upload.
func (u *Upload) Orphaned() bool {
	return u.AttachedTo == nil
}
