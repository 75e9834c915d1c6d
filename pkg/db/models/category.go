package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products for browsing and reporting.
type Category struct {
	ID          int       `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name;not null;uniqueIndex"`
	Description *string   `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductCategory links a product to a category. The pair is unique.
type ProductCategory struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_product_categories_pair"`
	CategoryID int       `gorm:"column:category_id;not null;uniqueIndex:idx_product_categories_pair"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
