package identity

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no profile matches a lookup.
	ErrNotFound = errors.New("profile not found")
	// ErrDuplicate is returned when a signup email is already registered.
	ErrDuplicate = errors.New("email already registered")
)

// GuestID is the reserved identifier of the fallback profile. It exists
// even when nobody has signed up and is never deleted.
const GuestID = "00000000-0000-0000-0000-000000000000"

// Profile is a user identity. Email is the de-facto login key and is
// unique case-insensitively.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// guestEpoch is the fixed creation time of the reserved profile. Every
// bootstrap path (key-value seed, table seed, degraded reads) must
// produce the identical record.
var guestEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// GuestProfile returns a fresh copy of the reserved guest profile.
func GuestProfile() Profile {
	return Profile{
		ID:        GuestID,
		Email:     "guest@asu.edu",
		FullName:  "Guest User",
		CreatedAt: guestEpoch,
		UpdatedAt: guestEpoch,
	}
}
