package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	statusAvailable = "available"
	statusSold      = "sold"
)

// PostgresRepo is the remote table adapter. The table carries a status
// column in place of the is_sold flag; both map to the same canonical
// entity and the same observable orderings as the key-value adapter.
type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const bookColumns = `id, title, course_code, price, condition, material_type, genre,
	description, seller_id, status, created_at, updated_at`

// orderNewestFirst breaks created_at ties by the insertion ordinal, so
// rows sharing a timestamp come back in the order they were written,
// exactly as the key-value adapter's stable sort orders them.
const orderNewestFirst = `ORDER BY created_at DESC, seq`

var (
	listQuery = fmt.Sprintf(`
		SELECT %s FROM books
		WHERE status <> $1 AND ($2 = '' OR genre = $2)
		%s`, bookColumns, orderNewestFirst)
	listBySellerQuery = fmt.Sprintf(`
		SELECT %s FROM books
		WHERE seller_id = $1
		%s`, bookColumns, orderNewestFirst)
)

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	var status string
	err := row.Scan(
		&b.ID, &b.Title, &b.CourseCode, &b.Price, &b.Condition, &b.MaterialType,
		&b.Genre, &b.Description, &b.SellerID, &status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return Book{}, err
	}
	b.IsSold = status == statusSold
	return b, nil
}

func (r *PostgresRepo) queryBooks(ctx context.Context, query string, args ...any) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) List(ctx context.Context, genre Genre) ([]Book, error) {
	return r.queryBooks(ctx, listQuery, statusSold, string(genre))
}

func (r *PostgresRepo) ListBySeller(ctx context.Context, sellerID string) ([]Book, error) {
	return r.queryBooks(ctx, listBySellerQuery, sellerID)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books WHERE id = $1`, bookColumns)
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Book{}, ErrNotFound
	}
	if err != nil {
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Insert(ctx context.Context, b Book) error {
	const query = `
		INSERT INTO books (id, title, course_code, price, condition, material_type,
			genre, description, seller_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, query,
		b.ID, b.Title, b.CourseCode, b.Price, b.Condition, b.MaterialType,
		b.Genre, b.Description, b.SellerID, status(b), b.CreatedAt, b.UpdatedAt,
	)
	return err
}

func (r *PostgresRepo) Update(ctx context.Context, b Book) error {
	const query = `
		UPDATE books
		SET title = $2, course_code = $3, price = $4, condition = $5,
			material_type = $6, genre = $7, description = $8, status = $9,
			updated_at = $10
		WHERE id = $1`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query,
		b.ID, b.Title, b.CourseCode, b.Price, b.Condition, b.MaterialType,
		b.Genre, b.Description, status(b), b.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, "DELETE FROM books WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Search(ctx context.Context, q string, f Filters) ([]Book, error) {
	query, args := searchQuery(q, f)
	return r.queryBooks(ctx, query, args...)
}

func searchQuery(q string, f Filters) (string, []any) {
	clauses := []string{"status <> $1"}
	args := []any{statusSold}
	argn := 2

	if q != "" {
		clauses = append(clauses, fmt.Sprintf(
			"(title ILIKE $%d OR course_code ILIKE $%d OR description ILIKE $%d)",
			argn, argn+1, argn+2))
		pattern := "%" + q + "%"
		args = append(args, pattern, pattern, pattern)
		argn += 3
	}
	if f.Genre != "" {
		clauses = append(clauses, fmt.Sprintf("genre = $%d", argn))
		args = append(args, string(f.Genre))
		argn++
	}
	if f.MinPrice != nil {
		clauses = append(clauses, fmt.Sprintf("price >= $%d", argn))
		args = append(args, *f.MinPrice)
		argn++
	}
	if f.MaxPrice != nil {
		clauses = append(clauses, fmt.Sprintf("price <= $%d", argn))
		args = append(args, *f.MaxPrice)
		argn++
	}

	query := fmt.Sprintf(`
		SELECT %s FROM books
		WHERE %s
		%s`, bookColumns, strings.Join(clauses, " AND "), orderNewestFirst)
	return query, args
}

func status(b Book) string {
	if b.IsSold {
		return statusSold
	}
	return statusAvailable
}
