package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/medgrove/pharmacare-backend/pkg/enums"
)

// OrderStatusItem is one entry in an order's append-only status log. The
// current status of an order is the entry with the latest CreatedAt.
type OrderStatusItem struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	Status    enums.OrderStatus `gorm:"column:status;type:text;not null"`
	Notes     *string           `gorm:"column:notes"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
}
