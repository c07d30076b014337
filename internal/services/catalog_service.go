package services

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"kasir/internal/models"
	"kasir/internal/repositories"
	"kasir/internal/store"
)

// CatalogService handles catalog fetching and the catalog query state.
type CatalogService struct {
	store  *store.Store[store.CatalogState, store.CatalogAction]
	source repositories.CatalogSource
	logger *zap.Logger
	seq    atomic.Uint64
}

// NewCatalogService creates a new CatalogService reading from source.
func NewCatalogService(source repositories.CatalogSource, logger *zap.Logger) *CatalogService {
	s := &CatalogService{
		store:  store.New(store.InitialCatalogState(), store.ReduceCatalog),
		source: source,
		logger: logger.Named("catalog"),
	}
	s.store.Observe(func(action store.CatalogAction, next store.CatalogState) {
		s.logger.Debug("catalog transition",
			zap.String("action", fmt.Sprintf("%T", action)),
			zap.Int("products", len(next.Products)),
			zap.Bool("loading", next.Loading),
		)
	})
	return s
}

// FetchCatalog replaces the catalog with a fresh, deduplicated copy from the
// source. Only the most recently started fetch may change the catalog; an
// older fetch finishing later leaves the state alone.
func (s *CatalogService) FetchCatalog(ctx context.Context) error {
	seq := s.seq.Add(1)
	s.store.Dispatch(store.FetchStarted{Seq: seq})

	raw, err := s.source.FetchProducts(ctx)
	if err != nil {
		s.logger.Warn("catalog fetch failed", zap.Uint64("seq", seq), zap.Error(err))
		s.store.Dispatch(store.FetchFailed{Seq: seq, Message: err.Error()})
		return fmt.Errorf("failed to fetch catalog: %w", err)
	}

	products := make([]models.Product, 0, len(raw))
	for _, r := range raw {
		products = append(products, store.ProductFromRaw(r))
	}
	products = store.DedupeProducts(products)

	next := s.store.Dispatch(store.FetchSucceeded{Seq: seq, Products: products})
	if next.FetchSeq != seq {
		s.logger.Debug("superseded catalog fetch dropped", zap.Uint64("seq", seq), zap.Uint64("latest", next.FetchSeq))
		return nil
	}

	s.logger.Info("catalog loaded",
		zap.Uint64("seq", seq),
		zap.Int("received", len(raw)),
		zap.Int("kept", len(products)),
	)
	return nil
}

// StartFetch runs FetchCatalog in the background. The returned channel
// receives its result and is then closed.
func (s *CatalogService) StartFetch(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- s.FetchCatalog(ctx)
	}()
	return done
}

// State returns the current catalog state.
func (s *CatalogService) State() store.CatalogState {
	return s.store.State()
}

// VisibleProducts returns the filtered and sorted catalog.
func (s *CatalogService) VisibleProducts() []models.Product {
	return store.VisibleProducts(s.store.State())
}

// Categories returns every category in the catalog.
func (s *CatalogService) Categories() []string {
	return store.Categories(s.store.State())
}

// ProductByID looks up a product in the loaded catalog.
func (s *CatalogService) ProductByID(id int) (models.Product, bool) {
	return store.ProductByID(s.store.State(), id)
}

// SetSearchText sets the free-text catalog search.
func (s *CatalogService) SetSearchText(text string) store.CatalogState {
	return s.store.Dispatch(store.SetSearchText{Text: text})
}

// SetSortKey parses key and makes it the active ordering.
func (s *CatalogService) SetSortKey(key string) (store.CatalogState, error) {
	parsed, err := store.ParseSortKey(key)
	if err != nil {
		return s.store.State(), err
	}
	return s.store.Dispatch(store.SetSortKey{Key: parsed}), nil
}

// SetCategoryFilter restricts the visible catalog to exactly categories.
func (s *CatalogService) SetCategoryFilter(categories []string) store.CatalogState {
	return s.store.Dispatch(store.SetCategoryFilter{Categories: categories})
}

// ToggleCategory adds name to the category filter or removes it.
func (s *CatalogService) ToggleCategory(name string) store.CatalogState {
	return s.store.Dispatch(store.ToggleCategory{Name: name})
}

// ResetCategoryFilter admits every category again.
func (s *CatalogService) ResetCategoryFilter() store.CatalogState {
	return s.store.Dispatch(store.ResetCategoryFilter{})
}
