package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus represents product visibility
type ProductStatus string

const (
	ProductStatusDraft     ProductStatus = "draft"
	ProductStatusPublished ProductStatus = "published"
)

// Valid reports whether s is a known status
func (s ProductStatus) Valid() bool {
	return s == ProductStatusDraft || s == ProductStatusPublished
}

// Image is a stored product picture
type Image struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// Product represents a catalogue item
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  *string         `json:"categoryId,omitempty"`
	Images      []Image         `json:"images"`
	Status      ProductStatus   `json:"status"`
	CreatedBy   string          `json:"createdBy"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// IsPublished reports whether anonymous callers may see the product
func (p *Product) IsPublished() bool {
	return p.Status == ProductStatusPublished
}

// ImageIndex returns the position of the image stored under key, or -1
func (p *Product) ImageIndex(key string) int {
	for i, img := range p.Images {
		if img.Key == key {
			return i
		}
	}
	return -1
}
