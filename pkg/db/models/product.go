package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable catalog entry. Stock is never stored here; it lives
// in inventory batches keyed by product.
type Product struct {
	ID                   uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                 string          `gorm:"column:name;not null"`
	Description          *string         `gorm:"column:description;type:text"`
	SKU                  string          `gorm:"column:sku;not null;uniqueIndex"`
	Price                decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	ImageURL             *string         `gorm:"column:image_url"`
	PrescriptionRequired bool            `gorm:"column:prescription_required;not null;default:false"`
	Active               bool            `gorm:"column:active;not null"`
	Categories           []Category      `gorm:"many2many:product_categories;joinForeignKey:ProductID;joinReferences:CategoryID"`
	CreatedAt            time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
