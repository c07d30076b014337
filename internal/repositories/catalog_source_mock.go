package repositories

import (
	"context"
	"slices"
	"sync"

	"kasir/internal/models"
)

// MockCatalogSource is an in-memory implementation of CatalogSource.
type MockCatalogSource struct {
	products []models.RawProduct
	err      error
	calls    int
	mu       sync.RWMutex
}

// NewMockCatalogSource creates a new instance of MockCatalogSource serving
// products.
func NewMockCatalogSource(products []models.RawProduct) *MockCatalogSource {
	return &MockCatalogSource{
		products: slices.Clone(products),
	}
}

// FetchProducts returns the configured products or error.
func (s *MockCatalogSource) FetchProducts(ctx context.Context) ([]models.RawProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return slices.Clone(s.products), nil
}

// SetProducts replaces the served products.
func (s *MockCatalogSource) SetProducts(products []models.RawProduct) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = slices.Clone(products)
}

// SetError makes subsequent fetches fail with err. A nil err restores
// normal behavior.
func (s *MockCatalogSource) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Calls returns how many fetches were served.
func (s *MockCatalogSource) Calls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls
}
