package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a menu entry in the catalog.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image,omitempty"`
	Description string          `json:"description,omitempty"`
}

// RawProduct is a product record as served by the remote catalog.
type RawProduct struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Thumbnail   string          `json:"thumbnail"`
	Description string          `json:"description"`
}

// CatalogRecord is the database row backing the local catalog source.
// Position keeps the order in which records are served.
type CatalogRecord struct {
	ID          int             `gorm:"primaryKey;autoIncrement:false"`
	Position    int             `gorm:"index"`
	Title       string          `gorm:"type:varchar(255)"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2)"`
	Category    string          `gorm:"type:varchar(100)"`
	Thumbnail   string          `gorm:"type:varchar(500)"`
	Description string          `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Raw converts the record into the remote record shape.
func (r CatalogRecord) Raw() RawProduct {
	return RawProduct{
		ID:          r.ID,
		Title:       r.Title,
		Price:       r.Price,
		Category:    r.Category,
		Thumbnail:   r.Thumbnail,
		Description: r.Description,
	}
}
