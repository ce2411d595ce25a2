package service

import (
	"sort"
	"strings"

	"github.com/fitstore/fitstore-backend/internal/app/model"
)

// FilterProducts is a pure function from (catalog, query) to a new ordered
// slice. The search term matches case-insensitively against the product name,
// the category filter is an exact match, and both match everything when
// empty. Price ties keep their original relative order: SortNone preserves
// feed order and both price modes use a stable sort. The input slice is never
// mutated.
func FilterProducts(products []model.Product, query CatalogQuery) []model.Product {
	term := strings.ToLower(strings.TrimSpace(query.Search))

	result := make([]model.Product, 0, len(products))
	for _, p := range products {
		if query.Category != "" && p.Category != query.Category {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(p.Name), term) {
			continue
		}
		result = append(result, p)
	}

	switch query.Sort {
	case SortPriceAsc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Price < result[j].Price
		})
	case SortPriceDesc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Price > result[j].Price
		})
	}

	return result
}
