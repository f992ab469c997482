package listing

import "context"

// Repository defines the contract for listing storage. Both adapters must
// produce identical orderings: created_at descending, ties in insertion order.
type Repository interface {
	// List returns unsold books, optionally narrowed to one genre.
	List(ctx context.Context, genre Genre) ([]Book, error)
	// ListBySeller includes sold books so sellers see their history.
	ListBySeller(ctx context.Context, sellerID string) ([]Book, error)
	GetByID(ctx context.Context, id string) (Book, error)
	Insert(ctx context.Context, b Book) error
	Update(ctx context.Context, b Book) error
	Delete(ctx context.Context, id string) error
	// Search matches query case-insensitively against title, course code
	// and description. An empty query matches everything. Sold books are
	// always excluded.
	Search(ctx context.Context, query string, f Filters) ([]Book, error)
}
