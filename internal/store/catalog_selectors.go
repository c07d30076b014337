package store

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"kasir/internal/models"
)

// VisibleProducts returns the products matching the search text and the
// category filter, ordered by the sort key. Products that compare equal keep
// their catalog order.
func VisibleProducts(state CatalogState) []models.Product {
	query := strings.ToLower(state.SearchText)

	out := make([]models.Product, 0, len(state.Products))
	for _, p := range state.Products {
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		if !state.CategoryFilter.Allows(p.Category) {
			continue
		}
		out = append(out, p)
	}

	slices.SortStableFunc(out, productComparer(state.SortKey))
	return out
}

func matchesQuery(p models.Product, query string) bool {
	return strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strings.ToLower(p.Category), query) ||
		strings.Contains(p.Price.String(), query)
}

func productComparer(key SortKey) func(a, b models.Product) int {
	// Collators keep scratch buffers, one per sort.
	col := collate.New(language.English)

	var cmp func(a, b models.Product) int
	switch key {
	case SortCategoryAsc, SortCategoryDesc:
		cmp = func(a, b models.Product) int { return col.CompareString(a.Category, b.Category) }
	case SortPriceAsc, SortPriceDesc:
		cmp = func(a, b models.Product) int { return a.Price.Cmp(b.Price) }
	default:
		cmp = func(a, b models.Product) int { return col.CompareString(a.Name, b.Name) }
	}

	switch key {
	case SortNameDesc, SortCategoryDesc, SortPriceDesc:
		return func(a, b models.Product) int { return -cmp(a, b) }
	}
	return cmp
}

// Categories returns the distinct categories of the whole catalog in
// ascending order, regardless of the current filter.
func Categories(state CatalogState) []string {
	names := make([]string, 0, len(state.Products))
	for _, p := range state.Products {
		names = append(names, p.Category)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// ProductByID looks up a catalog product.
func ProductByID(state CatalogState, id int) (models.Product, bool) {
	for _, p := range state.Products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}
