package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/medgrove/pharmacare-backend/internal/coupons"
	"github.com/medgrove/pharmacare-backend/internal/inventory"
	"github.com/medgrove/pharmacare-backend/pkg/db/models"
	"github.com/medgrove/pharmacare-backend/pkg/enums"
	pkgerrors "github.com/medgrove/pharmacare-backend/pkg/errors"
	"github.com/medgrove/pharmacare-backend/pkg/metrics"
	"github.com/medgrove/pharmacare-backend/pkg/pagination"
)

// Service exposes the order lifecycle: placement with stock allocation,
// cancellation with stock reversal, status and payment recording, and
// windowed statistics.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetOrderDetails(ctx context.Context, id uuid.UUID) (*OrderDetails, error)
	ListOrders(ctx context.Context, params pagination.Params, userID *uuid.UUID) (*OrderList, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, input UpdateStatusInput) error
	AddPayment(ctx context.Context, id uuid.UUID, input AddPaymentInput) (*models.Payment, error)
	CancelOrder(ctx context.Context, id uuid.UUID, reason *string) error
	OrderStats(ctx context.Context, window StatsWindow) (*OrderStats, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo       Repository
	inventory  inventory.Repository
	coupons    coupons.Repository
	tx         txRunner
	orderStats *metrics.OrderMetrics
}

// ServiceParams carries the dependencies for the order service.
type ServiceParams struct {
	Repo      Repository
	Inventory inventory.Repository
	Coupons   coupons.Repository
	Tx        txRunner
	Metrics   *metrics.OrderMetrics
}

// NewService constructs an order service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if params.Coupons == nil {
		return nil, fmt.Errorf("coupons repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:       params.Repo,
		inventory:  params.Inventory,
		coupons:    params.Coupons,
		tx:         params.Tx,
		orderStats: params.Metrics,
	}, nil
}

// CreateOrder places an order in one transaction: header, lines, initial
// status, coupon redemption and stock allocation either all commit or none
// do. Stock is drained from the soonest-expiring batches first; a shortfall
// on any line aborts the whole order.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	for _, line := range input.Items {
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		if line.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative")
		}
	}
	if input.Subtotal.IsNegative() || input.Tax.IsNegative() || input.Discount.IsNegative() || input.Total.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order amounts must not be negative")
	}

	initialStatus := enums.OrderStatusPending
	if input.InitialStatus != nil {
		if !input.InitialStatus.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
		}
		initialStatus = *input.InitialStatus
	}

	order := &models.Order{
		ID:              uuid.New(),
		UserID:          input.UserID,
		CouponID:        input.CouponID,
		Subtotal:        input.Subtotal,
		Tax:             input.Tax,
		Discount:        input.Discount,
		Total:           input.Total,
		ShippingAddress: input.ShippingAddress,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		invRepo := s.inventory.WithTx(tx)

		if _, err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
		}

		items := make([]models.OrderItem, 0, len(input.Items))
		for _, line := range input.Items {
			items = append(items, models.OrderItem{
				ID:         uuid.New(),
				OrderID:    order.ID,
				ProductID:  line.ProductID,
				Quantity:   line.Quantity,
				UnitPrice:  line.UnitPrice,
				TotalPrice: line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
			})
		}
		if err := repo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order items")
		}

		status := &models.OrderStatusItem{ID: uuid.New(), OrderID: order.ID, Status: initialStatus}
		if err := repo.AppendStatus(ctx, status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording initial status")
		}

		// Redemption is counted here without re-checking limits; the
		// coupon was validated before the order reached this point.
		if input.CouponID != nil {
			if err := s.coupons.WithTx(tx).IncrementUsage(ctx, *input.CouponID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting coupon redemption")
			}
		}

		for _, line := range input.Items {
			if line.ProductID == nil {
				continue
			}
			if err := s.allocateLine(ctx, invRepo, order.ID, *line.ProductID, line.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			if appErr.Code() == pkgerrors.CodeInsufficientStock {
				s.orderStats.IncInsufficientStock()
			}
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "placing order")
	}

	s.orderStats.IncCreated()
	return order, nil
}

// allocateLine debits batches of one product in expiry order until the
// requested quantity is covered, pairing every debit with a sale transaction.
func (s *service) allocateLine(ctx context.Context, invRepo inventory.Repository, orderID, productID uuid.UUID, quantity int) error {
	batches, err := invRepo.AvailableBatches(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading batches")
	}

	note := fmt.Sprintf("Order %s", orderID)
	remaining := quantity
	for _, batch := range batches {
		if remaining == 0 {
			break
		}
		take := remaining
		if take > batch.Quantity {
			take = batch.Quantity
		}

		if err := invRepo.SetQuantity(ctx, batch.ID, batch.Quantity-take); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "debiting batch")
		}
		txn := &models.InventoryTransaction{
			ID:              uuid.New(),
			InventoryItemID: batch.ID,
			TransactionType: enums.InventoryTransactionSale,
			Quantity:        take,
			Notes:           &note,
		}
		if _, err := invRepo.CreateTransaction(ctx, txn); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording sale transaction")
		}
		remaining -= take
	}

	if remaining > 0 {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient inventory").
			WithDetails(map[string]any{"product_id": productID.String()})
	}
	return nil
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

func (s *service) GetOrderDetails(ctx context.Context, id uuid.UUID) (*OrderDetails, error) {
	order, err := s.repo.FindWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return &OrderDetails{
		Order:         *order,
		LatestStatus:  latestStatus(order.StatusLog),
		LatestPayment: latestPayment(order.Payments),
	}, nil
}

func (s *service) ListOrders(ctx context.Context, params pagination.Params, userID *uuid.UUID) (*OrderList, error) {
	list, err := s.repo.List(ctx, params, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return list, nil
}

// UpdateOrderStatus appends a status entry. Transition legality against
// terminal states is the caller's check, not this primitive's.
func (s *service) UpdateOrderStatus(ctx context.Context, id uuid.UUID, input UpdateStatusInput) error {
	if !input.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}
	if _, err := s.GetOrder(ctx, id); err != nil {
		return err
	}

	entry := &models.OrderStatusItem{ID: uuid.New(), OrderID: id, Status: input.Status, Notes: input.Notes}
	if err := s.repo.AppendStatus(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording order status")
	}
	return nil
}

// AddPayment appends a payment attempt. Retries produce additional rows; the
// effective payment status is the latest row.
func (s *service) AddPayment(ctx context.Context, id uuid.UUID, input AddPaymentInput) (*models.Payment, error) {
	if !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment status")
	}
	if input.Amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must not be negative")
	}
	if _, err := s.GetOrder(ctx, id); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		ID:            uuid.New(),
		OrderID:       id,
		PaymentMethod: input.Method,
		TransactionID: input.TransactionID,
		Amount:        input.Amount,
		Status:        input.Status,
	}
	if err := s.repo.AppendPayment(ctx, payment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording payment")
	}
	return payment, nil
}

// CancelOrder appends a cancelled status and returns each line's quantity to
// stock. Stock goes back to the first batch found for the product, or a new
// batch when none exists; the batches the sale originally drained are not
// reconstructed. The coupon redemption, if any, stays counted.
func (s *service) CancelOrder(ctx context.Context, id uuid.UUID, reason *string) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		invRepo := s.inventory.WithTx(tx)

		order, err := repo.FindWithDetails(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
		}

		if current := latestStatus(order.StatusLog); current != nil && current.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("order is already %s", current.Status))
		}

		entry := &models.OrderStatusItem{
			ID:      uuid.New(),
			OrderID: order.ID,
			Status:  enums.OrderStatusCancelled,
			Notes:   reason,
		}
		if err := repo.AppendStatus(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording cancellation")
		}

		note := fmt.Sprintf("Cancelled order %s", order.ID)
		for _, item := range order.Items {
			if item.ProductID == nil {
				continue
			}
			if err := s.returnLine(ctx, invRepo, *item.ProductID, item.Quantity, note); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return appErr
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancelling order")
	}

	s.orderStats.IncCancelled()
	return nil
}

func (s *service) returnLine(ctx context.Context, invRepo inventory.Repository, productID uuid.UUID, quantity int, note string) error {
	batch, err := invRepo.FirstBatchForProduct(ctx, productID)
	switch {
	case err == nil:
		if err := invRepo.SetQuantity(ctx, batch.ID, batch.Quantity+quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restocking batch")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		batch, err = invRepo.CreateItem(ctx, &models.InventoryItem{
			ID:        uuid.New(),
			ProductID: productID,
			Quantity:  quantity,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating restock batch")
		}
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading restock batch")
	}

	txn := &models.InventoryTransaction{
		ID:              uuid.New(),
		InventoryItemID: batch.ID,
		TransactionType: enums.InventoryTransactionReturn,
		Quantity:        quantity,
		Notes:           &note,
	}
	if _, err := invRepo.CreateTransaction(ctx, txn); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording return transaction")
	}
	return nil
}

// OrderStats aggregates orders created inside the window. Per-status counts
// are projected from each order's latest status entry only.
func (s *service) OrderStats(ctx context.Context, window StatsWindow) (*OrderStats, error) {
	if window.From != nil && window.To != nil && window.To.Before(*window.From) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "window end precedes its start")
	}

	rows, err := s.repo.ListInWindow(ctx, window.From, window.To)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading orders for stats")
	}

	stats := &OrderStats{
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
		StatusCounts:      make(map[enums.OrderStatus]int, len(enums.AllOrderStatuses())),
	}
	for _, status := range enums.AllOrderStatuses() {
		stats.StatusCounts[status] = 0
	}

	for _, order := range rows {
		stats.TotalOrders++
		stats.TotalRevenue = stats.TotalRevenue.Add(order.Total)
		if current := latestStatus(order.StatusLog); current != nil {
			stats.StatusCounts[current.Status]++
		}
	}
	if stats.TotalOrders > 0 {
		stats.AverageOrderValue = stats.TotalRevenue.
			Div(decimal.NewFromInt(int64(stats.TotalOrders))).
			Round(2)
	}
	return stats, nil
}

// latestStatus projects the current status from an append-only log. Ties on
// the timestamp resolve to the later entry.
func latestStatus(log []models.OrderStatusItem) *models.OrderStatusItem {
	var current *models.OrderStatusItem
	for i := range log {
		if current == nil || !log[i].CreatedAt.Before(current.CreatedAt) {
			current = &log[i]
		}
	}
	return current
}

func latestPayment(payments []models.Payment) *models.Payment {
	var current *models.Payment
	for i := range payments {
		if current == nil || !payments[i].CreatedAt.Before(current.CreatedAt) {
			current = &payments[i]
		}
	}
	return current
}
