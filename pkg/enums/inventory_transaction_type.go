package enums

import "fmt"

// InventoryTransactionType classifies a stock movement. Purchases and returns
// add to a batch, sales and adjustments subtract from it.
type InventoryTransactionType string

const (
	InventoryTransactionPurchase   InventoryTransactionType = "purchase"
	InventoryTransactionSale       InventoryTransactionType = "sale"
	InventoryTransactionReturn     InventoryTransactionType = "return"
	InventoryTransactionAdjustment InventoryTransactionType = "adjustment"
)

var validInventoryTransactionTypes = []InventoryTransactionType{
	InventoryTransactionPurchase,
	InventoryTransactionSale,
	InventoryTransactionReturn,
	InventoryTransactionAdjustment,
}

// String implements fmt.Stringer.
func (t InventoryTransactionType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known InventoryTransactionType.
func (t InventoryTransactionType) IsValid() bool {
	for _, candidate := range validInventoryTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// Additive reports whether the movement increases batch quantity.
func (t InventoryTransactionType) Additive() bool {
	return t == InventoryTransactionPurchase || t == InventoryTransactionReturn
}

// ParseInventoryTransactionType converts raw input into an
// InventoryTransactionType.
func ParseInventoryTransactionType(value string) (InventoryTransactionType, error) {
	for _, candidate := range validInventoryTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inventory transaction type %q", value)
}
