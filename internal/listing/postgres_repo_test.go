package listing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Rows sharing a created_at must come back in insertion order on every
// adapter, so every list-shaped query orders by the insertion ordinal
// after the timestamp.
func TestQueriesBreakTimestampTiesByInsertionOrder(t *testing.T) {
	searchAll, _ := searchQuery("", Filters{})
	for name, query := range map[string]string{
		"list":           listQuery,
		"list by seller": listBySellerQuery,
		"search":         searchAll,
	} {
		assert.True(t, strings.HasSuffix(strings.TrimSpace(query), orderNewestFirst),
			"%s query must order by created_at DESC with the seq tie-break", name)
	}
}

func TestSearchQueryBuilding(t *testing.T) {
	t.Run("no query and no filters", func(t *testing.T) {
		query, args := searchQuery("", Filters{})
		assert.Contains(t, query, "status <> $1")
		assert.NotContains(t, query, "ILIKE")
		assert.Equal(t, []any{statusSold}, args)
	})

	t.Run("text query matches three columns", func(t *testing.T) {
		query, args := searchQuery("calculus", Filters{})
		assert.Contains(t, query, "title ILIKE $2")
		assert.Contains(t, query, "course_code ILIKE $3")
		assert.Contains(t, query, "description ILIKE $4")
		require.Len(t, args, 4)
		assert.Equal(t, "%calculus%", args[1])
	})

	t.Run("all filters numbered in sequence", func(t *testing.T) {
		minPrice, maxPrice := 10.0, 60.0
		query, args := searchQuery("math", Filters{
			Genre:    GenreSTEM,
			MinPrice: &minPrice,
			MaxPrice: &maxPrice,
		})
		assert.Contains(t, query, "genre = $5")
		assert.Contains(t, query, "price >= $6")
		assert.Contains(t, query, "price <= $7")
		assert.Equal(t, []any{statusSold, "%math%", "%math%", "%math%", "STEM", 10.0, 60.0}, args)
	})
}
