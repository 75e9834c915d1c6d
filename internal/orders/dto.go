package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medgrove/pharmacare-backend/pkg/db/models"
	"github.com/medgrove/pharmacare-backend/pkg/enums"
)

// OrderLineInput is one requested product line at placement time. UnitPrice
// is the price snapshot supplied by the caller, not looked up again here.
type OrderLineInput struct {
	ProductID *uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreateOrderInput holds the validated payload to place an order. Totals are
// computed by the caller; the service records them as given.
type CreateOrderInput struct {
	UserID          *uuid.UUID
	CouponID        *uuid.UUID
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	Discount        decimal.Decimal
	Total           decimal.Decimal
	ShippingAddress *string
	Items           []OrderLineInput
	InitialStatus   *enums.OrderStatus
}

// UpdateStatusInput appends one entry to an order's status log.
type UpdateStatusInput struct {
	Status enums.OrderStatus
	Notes  *string
}

// AddPaymentInput appends one payment attempt to an order.
type AddPaymentInput struct {
	Method        enums.PaymentMethod
	Amount        decimal.Decimal
	Status        enums.PaymentStatus
	TransactionID *string
}

// OrderDetails is an order with its lines, full status log and payments,
// plus the computed current status.
type OrderDetails struct {
	Order         models.Order            `json:"order"`
	LatestStatus  *models.OrderStatusItem `json:"latest_status,omitempty"`
	LatestPayment *models.Payment         `json:"latest_payment,omitempty"`
}

// StatsWindow bounds a statistics query. Nil bounds are open-ended.
type StatsWindow struct {
	From *time.Time
	To   *time.Time
}

// OrderStats aggregates orders placed inside a window. StatusCounts is keyed
// by every known status, zero-valued when no order currently holds it.
type OrderStats struct {
	TotalOrders       int                       `json:"total_orders"`
	TotalRevenue      decimal.Decimal           `json:"total_revenue"`
	AverageOrderValue decimal.Decimal           `json:"average_order_value"`
	StatusCounts      map[enums.OrderStatus]int `json:"status_counts"`
}
