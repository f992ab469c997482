package identity

import "context"

// Repository defines the contract for profile storage and the session pointer.
type Repository interface {
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (Profile, error)
	GetByID(ctx context.Context, id string) (Profile, error)
	// Insert fails with ErrDuplicate when the email is already taken.
	Insert(ctx context.Context, p Profile) error
	// CurrentUser returns nil when no user is logged in. Callers fall
	// back to the guest profile themselves.
	CurrentUser(ctx context.Context) (*Profile, error)
	SetCurrentUser(ctx context.Context, p *Profile) error
}
