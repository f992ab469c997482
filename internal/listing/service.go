package listing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"bookmarket/internal/identity"
)

// Service provides listing business logic over a Repository.
type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// List returns unsold books, newest first.
func (s *Service) List(ctx context.Context, genre Genre) ([]Book, error) {
	return s.repo.List(ctx, genre)
}

// ListBySeller returns a seller's books including sold ones, newest first.
func (s *Service) ListBySeller(ctx context.Context, sellerID string) ([]Book, error) {
	return s.repo.ListBySeller(ctx, sellerID)
}

// Get returns one book by id.
func (s *Service) Get(ctx context.Context, id string) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates the input and persists a new listing. An empty seller
// falls back to the guest profile.
func (s *Service) Create(ctx context.Context, in CreateInput, sellerID string) (Book, error) {
	price, verr := in.validateCreate()
	if verr != nil {
		return Book{}, verr
	}
	if sellerID == "" {
		sellerID = identity.GuestID
	}

	now := s.now().UTC()
	b := Book{
		ID:           s.newID(),
		Title:        in.Title,
		CourseCode:   in.CourseCode,
		Price:        price,
		Condition:    Condition(in.Condition),
		MaterialType: MaterialType(in.MaterialType),
		Genre:        Genre(in.Genre),
		Description:  in.Description,
		SellerID:     sellerID,
		IsSold:       false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Update merges a partial patch into an existing listing and re-stamps
// updated_at. Two near-simultaneous updates are unguarded: last write wins.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Book, error) {
	price, verr := in.validateUpdate()
	if verr != nil {
		return Book{}, verr
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Book{}, err
	}

	if in.Title != nil {
		b.Title = *in.Title
	}
	if in.CourseCode != nil {
		b.CourseCode = *in.CourseCode
	}
	if in.Price != nil {
		b.Price = price
	}
	if in.Condition != nil {
		b.Condition = Condition(*in.Condition)
	}
	if in.MaterialType != nil {
		b.MaterialType = MaterialType(*in.MaterialType)
	}
	if in.Genre != nil {
		b.Genre = Genre(*in.Genre)
	}
	if in.Description != nil {
		b.Description = *in.Description
	}
	if in.IsSold != nil {
		b.IsSold = *in.IsSold
	}
	b.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Delete removes a listing. A second delete of the same id fails with
// ErrNotFound.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Search runs the combined text-and-filter query over unsold books.
func (s *Service) Search(ctx context.Context, query string, f Filters) ([]Book, error) {
	return s.repo.Search(ctx, query, f)
}
