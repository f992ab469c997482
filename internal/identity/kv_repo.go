package identity

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"bookmarket/internal/kvstore"
)

const (
	profilesKey    = "profiles"
	currentUserKey = "current_user"
)

// KVRepo persists the profile collection and the session pointer as whole
// JSON documents in a key-value store. The first access to a missing key
// seeds the guest profile, and only then; existing data is never overwritten.
type KVRepo struct {
	store kvstore.Store
	mu    sync.Mutex
}

func NewKVRepo(store kvstore.Store) *KVRepo {
	return &KVRepo{store: store}
}

// load returns the persisted profiles, bootstrapping on first use. When
// the store is unavailable, reads degrade to the guest profile alone.
func (r *KVRepo) load(ctx context.Context) ([]Profile, error) {
	raw, err := r.store.Get(ctx, profilesKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		seeded := []Profile{GuestProfile()}
		if err := r.save(ctx, seeded); err != nil {
			return nil, err
		}
		return seeded, nil
	}
	if err != nil {
		return nil, err
	}
	var profiles []Profile
	if err := json.Unmarshal(raw, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *KVRepo) save(ctx context.Context, profiles []Profile) error {
	raw, err := json.Marshal(profiles)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, profilesKey, raw)
}

func (r *KVRepo) GetByEmail(ctx context.Context, email string) (Profile, error) {
	profiles, err := r.load(ctx)
	if errors.Is(err, kvstore.ErrUnavailable) {
		profiles = []Profile{GuestProfile()}
	} else if err != nil {
		return Profile{}, err
	}
	for _, p := range profiles {
		if strings.EqualFold(p.Email, email) {
			return p, nil
		}
	}
	return Profile{}, ErrNotFound
}

func (r *KVRepo) GetByID(ctx context.Context, id string) (Profile, error) {
	profiles, err := r.load(ctx)
	if errors.Is(err, kvstore.ErrUnavailable) {
		profiles = []Profile{GuestProfile()}
	} else if err != nil {
		return Profile{}, err
	}
	for _, p := range profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return Profile{}, ErrNotFound
}

func (r *KVRepo) Insert(ctx context.Context, p Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	profiles, err := r.load(ctx)
	if err != nil {
		return err
	}
	for _, existing := range profiles {
		if strings.EqualFold(existing.Email, p.Email) {
			return ErrDuplicate
		}
	}
	return r.save(ctx, append(profiles, p))
}

func (r *KVRepo) CurrentUser(ctx context.Context) (*Profile, error) {
	raw, err := r.store.Get(ctx, currentUserKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		if err := r.store.Set(ctx, currentUserKey, []byte("null")); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if errors.Is(err, kvstore.ErrUnavailable) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p *Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *KVRepo) SetCurrentUser(ctx context.Context, p *Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, currentUserKey, raw)
}
