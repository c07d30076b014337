package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"kasir/internal/models"
)

// GORMCatalogRepository is a GORM implementation of CatalogSource backed by
// the catalog_records table.
type GORMCatalogRepository struct {
	db *gorm.DB
}

// NewGORMCatalogRepository creates a new instance of GORMCatalogRepository.
func NewGORMCatalogRepository(db *gorm.DB) *GORMCatalogRepository {
	return &GORMCatalogRepository{
		db: db,
	}
}

// Migrate creates or updates the catalog table.
func (r *GORMCatalogRepository) Migrate() error {
	if err := r.db.AutoMigrate(&models.CatalogRecord{}); err != nil {
		return fmt.Errorf("failed to migrate catalog records: %w", err)
	}
	return nil
}

// FetchProducts returns every record in serving order.
func (r *GORMCatalogRepository) FetchProducts(ctx context.Context) ([]models.RawProduct, error) {
	var records []models.CatalogRecord
	if err := r.db.WithContext(ctx).Order("position asc").Order("id asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get catalog records: %w", err)
	}

	products := make([]models.RawProduct, 0, len(records))
	for _, rec := range records {
		products = append(products, rec.Raw())
	}
	return products, nil
}

// ReplaceAll swaps the stored catalog for products, keeping their order.
func (r *GORMCatalogRepository) ReplaceAll(ctx context.Context, products []models.RawProduct) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.CatalogRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear catalog records: %w", err)
		}
		if len(products) == 0 {
			return nil
		}

		records := make([]models.CatalogRecord, 0, len(products))
		for i, p := range products {
			records = append(records, models.CatalogRecord{
				ID:          p.ID,
				Position:    i,
				Title:       p.Title,
				Price:       p.Price,
				Category:    p.Category,
				Thumbnail:   p.Thumbnail,
				Description: p.Description,
			})
		}
		if err := tx.Create(&records).Error; err != nil {
			return fmt.Errorf("failed to create catalog records: %w", err)
		}
		return nil
	})
}

// Count returns the number of stored records.
func (r *GORMCatalogRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.CatalogRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count catalog records: %w", err)
	}
	return n, nil
}
