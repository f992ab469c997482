package listing

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"

	"bookmarket/internal/kvstore"
)

const booksKey = "books"

// KVRepo persists the whole book collection as one JSON array under a
// single key, mirroring browser-local storage semantics. Every mutation
// rewrites the full collection.
type KVRepo struct {
	store kvstore.Store
	mu    sync.Mutex
}

func NewKVRepo(store kvstore.Store) *KVRepo {
	return &KVRepo{store: store}
}

// load returns the persisted books. A missing key means an uninitialized
// store and triggers the one-time demonstration seed; existing data is
// never overwritten.
func (r *KVRepo) load(ctx context.Context) ([]Book, error) {
	raw, err := r.store.Get(ctx, booksKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		seeded := DemoBooks()
		if err := r.save(ctx, seeded); err != nil {
			return nil, err
		}
		return seeded, nil
	}
	if err != nil {
		return nil, err
	}
	var books []Book
	if err := json.Unmarshal(raw, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// loadForRead degrades to the built-in demonstration set when the store
// is unavailable. Writes never degrade.
func (r *KVRepo) loadForRead(ctx context.Context) ([]Book, error) {
	books, err := r.load(ctx)
	if errors.Is(err, kvstore.ErrUnavailable) {
		return DemoBooks(), nil
	}
	return books, err
}

func (r *KVRepo) save(ctx context.Context, books []Book) error {
	raw, err := json.Marshal(books)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, booksKey, raw)
}

func (r *KVRepo) List(ctx context.Context, genre Genre) ([]Book, error) {
	books, err := r.loadForRead(ctx)
	if err != nil {
		return nil, err
	}
	out := books[:0:0]
	for _, b := range books {
		if b.IsSold {
			continue
		}
		if genre != "" && b.Genre != genre {
			continue
		}
		out = append(out, b)
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *KVRepo) ListBySeller(ctx context.Context, sellerID string) ([]Book, error) {
	books, err := r.loadForRead(ctx)
	if err != nil {
		return nil, err
	}
	out := books[:0:0]
	for _, b := range books {
		if b.SellerID == sellerID {
			out = append(out, b)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *KVRepo) GetByID(ctx context.Context, id string) (Book, error) {
	books, err := r.loadForRead(ctx)
	if err != nil {
		return Book{}, err
	}
	for _, b := range books {
		if b.ID == id {
			return b, nil
		}
	}
	return Book{}, ErrNotFound
}

func (r *KVRepo) Insert(ctx context.Context, b Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	books, err := r.load(ctx)
	if err != nil {
		return err
	}
	return r.save(ctx, append(books, b))
}

func (r *KVRepo) Update(ctx context.Context, b Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	books, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range books {
		if books[i].ID == b.ID {
			books[i] = b
			return r.save(ctx, books)
		}
	}
	return ErrNotFound
}

func (r *KVRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	books, err := r.load(ctx)
	if err != nil {
		return err
	}
	kept := books[:0:0]
	for _, b := range books {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	if len(kept) == len(books) {
		return ErrNotFound
	}
	return r.save(ctx, kept)
}

func (r *KVRepo) Search(ctx context.Context, query string, f Filters) ([]Book, error) {
	books, err := r.loadForRead(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	out := books[:0:0]
	for _, b := range books {
		if b.IsSold {
			continue
		}
		if q != "" && !matchesQuery(b, q) {
			continue
		}
		if f.Genre != "" && b.Genre != f.Genre {
			continue
		}
		if f.MinPrice != nil && b.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && b.Price > *f.MaxPrice {
			continue
		}
		out = append(out, b)
	}
	sortNewestFirst(out)
	return out, nil
}

// matchesQuery checks the lowered query against title, course code and
// description; any one hit qualifies.
func matchesQuery(b Book, loweredQuery string) bool {
	return strings.Contains(strings.ToLower(b.Title), loweredQuery) ||
		strings.Contains(strings.ToLower(b.CourseCode), loweredQuery) ||
		strings.Contains(strings.ToLower(b.Description), loweredQuery)
}

// sortNewestFirst orders by created_at descending. The sort must be
// stable: records sharing a timestamp keep their insertion order.
func sortNewestFirst(books []Book) {
	sort.SliceStable(books, func(i, j int) bool {
		return books[i].CreatedAt.After(books[j].CreatedAt)
	})
}
