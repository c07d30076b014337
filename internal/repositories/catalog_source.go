package repositories

import (
	"context"
	"errors"

	"kasir/internal/models"
)

// ErrCatalogUnavailable is returned when the catalog cannot be reached,
// answers with a non-success status or serves an unreadable body.
var ErrCatalogUnavailable = errors.New("failed to fetch menu")

// CatalogSource defines read access to the product catalog.
type CatalogSource interface {
	FetchProducts(ctx context.Context) ([]models.RawProduct, error)
}
