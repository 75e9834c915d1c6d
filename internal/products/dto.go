package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategorySummary is the embedded category shape on product reads.
type CategorySummary struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ProductDTO is the API-facing shape of a catalog entry.
type ProductDTO struct {
	ID                   uuid.UUID         `json:"id"`
	Name                 string            `json:"name"`
	Description          *string           `json:"description,omitempty"`
	SKU                  string            `json:"sku"`
	Price                decimal.Decimal   `json:"price"`
	ImageURL             *string           `json:"image_url,omitempty"`
	PrescriptionRequired bool              `json:"prescription_required"`
	Active               bool              `json:"active"`
	Categories           []CategorySummary `json:"categories"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

// ProductList wraps the paginated products plus the next page cursor.
type ProductList struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// ProductListFilters describe the supported filter knobs for the browse endpoint.
type ProductListFilters struct {
	CategoryID *int
	ActiveOnly bool
	Query      string
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name                 string
	Description          *string
	SKU                  string
	Price                decimal.Decimal
	ImageURL             *string
	PrescriptionRequired bool
	Active               bool
	CategoryIDs          []int
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name                 *string
	Description          *string
	SKU                  *string
	Price                *decimal.Decimal
	ImageURL             *string
	PrescriptionRequired *bool
	Active               *bool
	CategoryIDs          *[]int
}
