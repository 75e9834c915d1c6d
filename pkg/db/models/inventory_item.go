package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem is a single stock batch of a product. A product's on-hand
// quantity is the sum over its batches; sales drain batches in expiry order.
type InventoryItem struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID   uuid.UUID  `gorm:"column:product_id;type:uuid;not null;index"`
	Quantity    int        `gorm:"column:quantity;not null;default:0"`
	BatchNumber *string    `gorm:"column:batch_number"`
	ExpiryDate  *time.Time `gorm:"column:expiry_date;type:date"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
