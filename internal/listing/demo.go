package listing

import (
	"time"

	"github.com/google/uuid"

	"bookmarket/internal/identity"
)

// DemoBooks returns the demonstration set seeded into an empty store and
// served as the degraded read fallback. Timestamps descend so the listing
// order is deterministic on every backend.
func DemoBooks() []Book {
	base := time.Now().UTC()
	demo := []struct {
		title       string
		courseCode  string
		price       float64
		condition   Condition
		genre       Genre
		description string
	}{
		{"Introduction to Computer Science", "CSE 110", 45.99, ConditionGood, GenreSTEM,
			"Great introductory textbook for CS students"},
		{"Calculus for Engineers", "MAT 265", 55.00, ConditionLikeNew, GenreSTEM,
			"Barely used calculus textbook"},
		{"Introduction to Psychology", "PSY 101", 30.50, ConditionFair, GenreHumanities,
			"Psychology textbook with some highlighting"},
	}

	books := make([]Book, 0, len(demo))
	for i, d := range demo {
		stamp := base.Add(-time.Duration(i) * time.Minute)
		books = append(books, Book{
			ID:           uuid.NewString(),
			Title:        d.title,
			CourseCode:   d.courseCode,
			Price:        d.price,
			Condition:    d.condition,
			MaterialType: MaterialTextbook,
			Genre:        d.genre,
			Description:  d.description,
			SellerID:     identity.GuestID,
			IsSold:       false,
			CreatedAt:    stamp,
			UpdatedAt:    stamp,
		})
	}
	return books
}
