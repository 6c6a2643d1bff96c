package model

import "time"

// DevicePlatform represents a device's platform type
type DevicePlatform string

const (
	PlatformIOS     DevicePlatform = "ios"
	PlatformAndroid DevicePlatform = "android"
	PlatformWeb     DevicePlatform = "web"
)

// IsValid returns true if the platform is valid
func (p DevicePlatform) IsValid() bool {
	switch p {
	case PlatformIOS, PlatformAndroid, PlatformWeb:
		return true
	default:
		return false
	}
}

// PushToken represents a device push notification token. The platform
// updates LastUsedAt on every delivery; tokens that go unused long enough
// are dead devices and get swept by inactivity cleanup.
type PushToken struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	Platform   DevicePlatform `json:"platform"`
	Token      string         `json:"token"`
	CreatedOn  time.Time      `json:"created_on"`
	LastUsedAt *time.Time     `json:"last_used_at,omitempty"`
}

// LastActivity returns the instant inactivity is measured from: the last
// delivery, or registration when the token was never used.
func (t *PushToken) LastActivity() time.Time {
	if t.LastUsedAt != nil {
		return *t.LastUsedAt
	}
	return t.CreatedOn
}
