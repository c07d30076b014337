package store

import (
	"fmt"
	"slices"
	"strings"

	"kasir/internal/models"
)

// SortKey selects the ordering of the visible catalog.
type SortKey string

// Sort keys.
const (
	SortNameAsc      SortKey = "name-asc"
	SortNameDesc     SortKey = "name-desc"
	SortCategoryAsc  SortKey = "category-asc"
	SortCategoryDesc SortKey = "category-desc"
	SortPriceAsc     SortKey = "price-asc"
	SortPriceDesc    SortKey = "price-desc"
)

// Valid reports whether k is one of the known sort keys.
func (k SortKey) Valid() bool {
	switch k {
	case SortNameAsc, SortNameDesc, SortCategoryAsc, SortCategoryDesc, SortPriceAsc, SortPriceDesc:
		return true
	}
	return false
}

// ParseSortKey accepts the sort keys above as well as the bare field names
// "name", "category" and "price", which sort ascending.
func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "name", "category", "price":
		key += "-asc"
	}
	if !key.Valid() {
		return "", fmt.Errorf("unknown sort key %q", s)
	}
	return key, nil
}

// CategoryFilter restricts the visible catalog to a set of categories.
// A filter that is not Set admits every category. Once set, only the listed
// categories pass, so an empty set hides everything.
type CategoryFilter struct {
	Set        bool     `json:"set"`
	Categories []string `json:"categories"`
}

// NewCategoryFilter returns a set filter over the given names.
func NewCategoryFilter(names ...string) CategoryFilter {
	return CategoryFilter{Set: true, Categories: normalizeNames(names)}
}

// Allows reports whether category passes the filter.
func (f CategoryFilter) Allows(category string) bool {
	if !f.Set {
		return true
	}
	_, found := slices.BinarySearch(f.Categories, category)
	return found
}

func normalizeNames(names []string) []string {
	out := slices.Clone(names)
	if out == nil {
		out = []string{}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// CatalogState is the state of the catalog store.
type CatalogState struct {
	Products       []models.Product `json:"products"`
	Loading        bool             `json:"loading"`
	Error          string           `json:"error,omitempty"`
	SearchText     string           `json:"searchText"`
	SortKey        SortKey          `json:"sortBy"`
	CategoryFilter CategoryFilter   `json:"categoryFilter"`
	// FetchSeq is the tag of the most recently started fetch.
	FetchSeq uint64 `json:"-"`
}

// InitialCatalogState is the empty catalog sorted by name.
func InitialCatalogState() CatalogState {
	return CatalogState{
		Products: []models.Product{},
		SortKey:  SortNameAsc,
	}
}

// CatalogAction is an action understood by ReduceCatalog.
type CatalogAction interface {
	catalogAction()
}

// FetchStarted marks the start of the fetch tagged Seq.
type FetchStarted struct{ Seq uint64 }

// FetchSucceeded carries the deduplicated products of the fetch tagged Seq.
type FetchSucceeded struct {
	Seq      uint64
	Products []models.Product
}

// FetchFailed carries the error message of the fetch tagged Seq.
type FetchFailed struct {
	Seq     uint64
	Message string
}

// SetSearchText replaces the free-text search.
type SetSearchText struct{ Text string }

// SetSortKey changes the ordering. Invalid keys are ignored.
type SetSortKey struct{ Key SortKey }

// SetCategoryFilter replaces the filter with exactly Categories.
type SetCategoryFilter struct{ Categories []string }

// ToggleCategory adds Name to the filter or removes it if present.
type ToggleCategory struct{ Name string }

// ResetCategoryFilter clears the filter so every category is admitted.
type ResetCategoryFilter struct{}

func (FetchStarted) catalogAction()        {}
func (FetchSucceeded) catalogAction()      {}
func (FetchFailed) catalogAction()         {}
func (SetSearchText) catalogAction()       {}
func (SetSortKey) catalogAction()          {}
func (SetCategoryFilter) catalogAction()   {}
func (ToggleCategory) catalogAction()      {}
func (ResetCategoryFilter) catalogAction() {}

// ReduceCatalog applies action to state.
func ReduceCatalog(state CatalogState, action CatalogAction) CatalogState {
	switch a := action.(type) {
	case FetchStarted:
		// a newer fetch already owns the store
		if a.Seq < state.FetchSeq {
			return state
		}
		state.Loading = true
		state.Error = ""
		state.FetchSeq = a.Seq

	case FetchSucceeded:
		// completions of a superseded fetch are dropped
		if a.Seq != state.FetchSeq {
			return state
		}
		state.Products = slices.Clone(a.Products)
		if state.Products == nil {
			state.Products = []models.Product{}
		}
		state.Loading = false
		state.Error = ""
		state.CategoryFilter = NewCategoryFilter(Categories(state)...)

	case FetchFailed:
		if a.Seq != state.FetchSeq {
			return state
		}
		state.Loading = false
		state.Error = a.Message

	case SetSearchText:
		state.SearchText = a.Text

	case SetSortKey:
		if a.Key.Valid() {
			state.SortKey = a.Key
		}

	case SetCategoryFilter:
		state.CategoryFilter = NewCategoryFilter(a.Categories...)

	case ToggleCategory:
		current := state.CategoryFilter.Categories
		if !state.CategoryFilter.Set {
			current = Categories(state)
		}
		next := slices.Clone(current)
		if i := slices.Index(next, a.Name); i >= 0 {
			next = slices.Delete(next, i, i+1)
		} else {
			next = append(next, a.Name)
		}
		state.CategoryFilter = NewCategoryFilter(next...)

	case ResetCategoryFilter:
		state.CategoryFilter = CategoryFilter{}
	}
	return state
}

// ProductFromRaw maps a remote record onto a Product.
func ProductFromRaw(raw models.RawProduct) models.Product {
	return models.Product{
		ID:          raw.ID,
		Name:        raw.Title,
		Price:       raw.Price,
		Category:    raw.Category,
		Image:       raw.Thumbnail,
		Description: raw.Description,
	}
}

// DedupeProducts drops products whose name, price and category repeat an
// earlier product. The first occurrence wins and order is kept.
func DedupeProducts(products []models.Product) []models.Product {
	seen := make(map[string]struct{}, len(products))
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		key := dedupeKey(p)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

func dedupeKey(p models.Product) string {
	return p.Name + "|" + p.Price.String() + "|" + p.Category
}
