package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medgrove/pharmacare-backend/pkg/db/models"
	"github.com/medgrove/pharmacare-backend/pkg/pagination"
)

// ItemList is one page of stock batches.
type ItemList struct {
	Items      []models.InventoryItem `json:"items"`
	NextCursor *string                `json:"next_cursor,omitempty"`
}

// Repository defines persistence operations for stock batches and their movements.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateItem(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	FindItemByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	ListItems(ctx context.Context, params pagination.Params, productID *uuid.UUID) (*ItemList, error)
	UpdateItem(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	SetQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	CreateTransaction(ctx context.Context, txn *models.InventoryTransaction) (*models.InventoryTransaction, error)
	ListTransactions(ctx context.Context, itemID uuid.UUID) ([]models.InventoryTransaction, error)
	AvailableBatches(ctx context.Context, productID uuid.UUID) ([]models.InventoryItem, error)
	FirstBatchForProduct(ctx context.Context, productID uuid.UUID) (*models.InventoryItem, error)
	ProductStock(ctx context.Context, productID uuid.UUID) (int, error)
	LowStock(ctx context.Context, threshold int) ([]StockItemDTO, error)
	Expiring(ctx context.Context, from, to time.Time) ([]StockItemDTO, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateItem(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) FindItemByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) ListItems(ctx context.Context, params pagination.Params, productID *uuid.UUID) (*ItemList, error) {
	query := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Order("created_at DESC, id DESC").
		Limit(params.LimitWithBuffer())

	if productID != nil {
		query = query.Where("product_id = ?", *productID)
	}
	if params.Cursor != nil {
		query = query.Where(
			"((created_at < ?) OR (created_at = ? AND id < ?))",
			params.Cursor.CreatedAt, params.Cursor.CreatedAt, params.Cursor.ID,
		)
	}

	var items []models.InventoryItem
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}

	pageSize := pagination.NormalizeLimit(params.Limit)
	list := &ItemList{Items: items}
	if len(items) > pageSize {
		list.Items = items[:pageSize]
		last := list.Items[len(list.Items)-1]
		cursor := pagination.EncodeCursor(last.CreatedAt, last.ID)
		list.NextCursor = &cursor
	}
	return list, nil
}

func (r *repository) UpdateItem(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.InventoryItem{}, "id = ?", id).Error
}

func (r *repository) SetQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", id).
		Update("quantity", quantity).Error
}

func (r *repository) CreateTransaction(ctx context.Context, txn *models.InventoryTransaction) (*models.InventoryTransaction, error) {
	if err := r.db.WithContext(ctx).Create(txn).Error; err != nil {
		return nil, err
	}
	return txn, nil
}

func (r *repository) ListTransactions(ctx context.Context, itemID uuid.UUID) ([]models.InventoryTransaction, error) {
	var txns []models.InventoryTransaction
	err := r.db.WithContext(ctx).
		Where("inventory_item_id = ?", itemID).
		Order("transaction_date DESC, id DESC").
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

// AvailableBatches returns the sellable batches for a product, soonest expiry
// first so allocation consumes stock closest to its expiry date.
func (r *repository) AvailableBatches(ctx context.Context, productID uuid.UUID) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND quantity > 0", productID).
		Order("expiry_date IS NULL, expiry_date ASC, created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) FirstBatchForProduct(ctx context.Context, productID uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC, id ASC").
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) ProductStock(ctx context.Context, productID uuid.UUID) (int, error) {
	var total int
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("product_id = ?", productID).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *repository) LowStock(ctx context.Context, threshold int) ([]StockItemDTO, error) {
	var rows []StockItemDTO
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Select("inventory_items.id, inventory_items.product_id, products.name AS product_name, products.sku, inventory_items.quantity, inventory_items.batch_number, inventory_items.expiry_date").
		Joins("JOIN products ON products.id = inventory_items.product_id").
		Where("inventory_items.quantity < ?", threshold).
		Order("inventory_items.quantity ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Expiring(ctx context.Context, from, to time.Time) ([]StockItemDTO, error) {
	var rows []StockItemDTO
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Select("inventory_items.id, inventory_items.product_id, products.name AS product_name, products.sku, inventory_items.quantity, inventory_items.batch_number, inventory_items.expiry_date").
		Joins("JOIN products ON products.id = inventory_items.product_id").
		Where("inventory_items.expiry_date IS NOT NULL").
		Where("inventory_items.expiry_date BETWEEN ? AND ?", from, to).
		Order("inventory_items.expiry_date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
