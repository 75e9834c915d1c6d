package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medgrove/pharmacare-backend/pkg/enums"
)

// CreateItemInput holds the validated payload to create a stock batch.
type CreateItemInput struct {
	ProductID   uuid.UUID
	Quantity    int
	BatchNumber *string
	ExpiryDate  *time.Time
}

// UpdateItemInput holds optional mutation values for a stock batch.
type UpdateItemInput struct {
	BatchNumber *string
	ExpiryDate  *time.Time
}

// AddTransactionInput captures one stock movement against a batch.
type AddTransactionInput struct {
	InventoryItemID uuid.UUID
	SupplierID      *uuid.UUID
	Type            enums.InventoryTransactionType
	Quantity        int
	UnitCost        *decimal.Decimal
	Notes           *string
}

// StockItemDTO joins a batch with its product for stock reports.
type StockItemDTO struct {
	ID          uuid.UUID  `json:"id"`
	ProductID   uuid.UUID  `json:"product_id"`
	ProductName string     `json:"product_name"`
	SKU         string     `json:"sku"`
	Quantity    int        `json:"quantity"`
	BatchNumber *string    `json:"batch_number,omitempty"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
}
