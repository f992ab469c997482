package identity

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepo stores profiles in a table. The session pointer stays
// process-local: the design models a single session per process, so a
// shared table for it would add nothing.
type PostgresRepo struct {
	db *pgxpool.Pool

	mu      sync.Mutex
	current *Profile
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

// EnsureGuest makes the reserved guest profile present. Safe to call on
// every startup.
func (r *PostgresRepo) EnsureGuest(ctx context.Context) error {
	guest := GuestProfile()
	const query = `
		INSERT INTO profiles (id, email, full_name, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`
	_, err := r.db.Exec(ctx, query,
		guest.ID, guest.Email, guest.FullName, guest.AvatarURL, guest.CreatedAt, guest.UpdatedAt)
	return err
}

func (r *PostgresRepo) GetByEmail(ctx context.Context, email string) (Profile, error) {
	const query = `
		SELECT id, email, full_name, avatar_url, created_at, updated_at
		FROM profiles
		WHERE LOWER(email) = LOWER($1)
		LIMIT 1`
	return r.scanOne(r.db.QueryRow(ctx, query, email))
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Profile, error) {
	const query = `
		SELECT id, email, full_name, avatar_url, created_at, updated_at
		FROM profiles
		WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *PostgresRepo) scanOne(row pgx.Row) (Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (r *PostgresRepo) Insert(ctx context.Context, p Profile) error {
	const query = `
		INSERT INTO profiles (id, email, full_name, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query, p.ID, p.Email, p.FullName, p.AvatarURL, p.CreatedAt, p.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

func (r *PostgresRepo) CurrentUser(_ context.Context) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return nil, nil
	}
	p := *r.current
	return &p, nil
}

func (r *PostgresRepo) SetCurrentUser(_ context.Context, p *Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p == nil {
		r.current = nil
		return nil
	}
	copied := *p
	r.current = &copied
	return nil
}
