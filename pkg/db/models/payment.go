package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medgrove/pharmacare-backend/pkg/enums"
)

// Payment is an append-only record of a payment attempt against an order.
// Refunds are new rows with a refunded status, never updates in place.
type Payment struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	TransactionID *string             `gorm:"column:transaction_id"`
	Amount        decimal.Decimal     `gorm:"column:amount;type:numeric(10,2);not null"`
	Status        enums.PaymentStatus `gorm:"column:status;type:text;not null"`
	PaymentDate   time.Time           `gorm:"column:payment_date;autoCreateTime"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}
