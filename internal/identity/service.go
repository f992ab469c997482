package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Service provides signup, login and session management.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Login looks a profile up by email. There is no credential check: any
// password is accepted for a known account. This is a documented
// property of the design, not a security control.
func (s *Service) Login(ctx context.Context, email, _ string) (Profile, error) {
	p, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return Profile{}, err
	}
	if err := s.repo.SetCurrentUser(ctx, &p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Signup registers a new profile and logs it in. No password is stored.
func (s *Service) Signup(ctx context.Context, email, fullName string) (Profile, error) {
	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return Profile{}, ErrDuplicate
	}
	if !errors.Is(err, ErrNotFound) {
		return Profile{}, err
	}

	now := s.now().UTC()
	p := Profile{
		ID:        uuid.NewString(),
		Email:     email,
		FullName:  fullName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, p); err != nil {
		return Profile{}, err
	}
	if err := s.repo.SetCurrentUser(ctx, &p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Logout clears the session pointer. It always succeeds on a healthy store.
func (s *Service) Logout(ctx context.Context) error {
	return s.repo.SetCurrentUser(ctx, nil)
}

// Current returns the logged-in profile, or nil when there is none.
func (s *Service) Current(ctx context.Context) (*Profile, error) {
	return s.repo.CurrentUser(ctx)
}

// GetByID resolves a profile by its identifier.
func (s *Service) GetByID(ctx context.Context, id string) (Profile, error) {
	return s.repo.GetByID(ctx, id)
}
