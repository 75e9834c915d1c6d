package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medgrove/pharmacare-backend/pkg/enums"
)

// InventoryTransaction is the append-only audit record of a stock movement
// against a batch. Quantity is always stored positive; the type decides the
// direction.
type InventoryTransaction struct {
	ID              uuid.UUID                      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	InventoryItemID uuid.UUID                      `gorm:"column:inventory_item_id;type:uuid;not null;index"`
	SupplierID      *uuid.UUID                     `gorm:"column:supplier_id;type:uuid"`
	TransactionType enums.InventoryTransactionType `gorm:"column:transaction_type;type:text;not null"`
	Quantity        int                            `gorm:"column:quantity;not null"`
	UnitCost        *decimal.Decimal               `gorm:"column:unit_cost;type:numeric(10,2)"`
	TransactionDate time.Time                      `gorm:"column:transaction_date;autoCreateTime"`
	Notes           *string                        `gorm:"column:notes"`
	CreatedAt       time.Time                      `gorm:"column:created_at;autoCreateTime"`
}
