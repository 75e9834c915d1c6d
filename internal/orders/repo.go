package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medgrove/pharmacare-backend/pkg/db/models"
	"github.com/medgrove/pharmacare-backend/pkg/pagination"
)

// OrderList is one page of order headers.
type OrderList struct {
	Orders     []models.Order `json:"orders"`
	NextCursor *string        `json:"next_cursor,omitempty"`
}

// Repository defines persistence operations for orders and their append-only
// status and payment logs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateItems(ctx context.Context, items []models.OrderItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindWithDetails(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, params pagination.Params, userID *uuid.UUID) (*OrderList, error)
	AppendStatus(ctx context.Context, entry *models.OrderStatusItem) error
	AppendPayment(ctx context.Context, payment *models.Payment) error
	StatusLog(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusItem, error)
	ListInWindow(ctx context.Context, from, to *time.Time) ([]models.Order, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Omit("Items", "StatusLog", "Payments").Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindWithDetails(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusLog").
		Preload("Payments").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, userID *uuid.UUID) (*OrderList, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Order("created_at DESC, id DESC").
		Limit(params.LimitWithBuffer())

	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if params.Cursor != nil {
		query = query.Where(
			"((created_at < ?) OR (created_at = ? AND id < ?))",
			params.Cursor.CreatedAt, params.Cursor.CreatedAt, params.Cursor.ID,
		)
	}

	var rows []models.Order
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	pageSize := pagination.NormalizeLimit(params.Limit)
	list := &OrderList{Orders: rows}
	if len(rows) > pageSize {
		list.Orders = rows[:pageSize]
		last := list.Orders[len(list.Orders)-1]
		cursor := pagination.EncodeCursor(last.CreatedAt, last.ID)
		list.NextCursor = &cursor
	}
	return list, nil
}

func (r *repository) AppendStatus(ctx context.Context, entry *models.OrderStatusItem) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) AppendPayment(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *repository) StatusLog(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusItem, error) {
	var log []models.OrderStatusItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Find(&log).Error
	if err != nil {
		return nil, err
	}
	return log, nil
}

// ListInWindow loads order headers created inside the bounds, status logs
// included so the caller can project each order's current status.
func (r *repository) ListInWindow(ctx context.Context, from, to *time.Time) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{}).Preload("StatusLog")
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}

	var rows []models.Order
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
