package reports

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/medgrove/pharmacare-backend/pkg/db/models"
)

// Repository defines the aggregate queries backing the reporting service.
type Repository interface {
	OrdersBetween(ctx context.Context, from, to time.Time) ([]models.Order, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProductRow, error)
	InventoryByCategory(ctx context.Context) ([]InventoryReportRow, error)
	CountUsers(ctx context.Context) (int64, error)
	CountProducts(ctx context.Context) (int64, error)
	CountOrders(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reports repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) OrdersBetween(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProductRow, error) {
	var rows []TopProductRow
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("products.id AS product_id, products.name, products.sku, SUM(order_items.quantity) AS units_sold, SUM(order_items.total_price) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.created_at >= ? AND orders.created_at < ?", from, to).
		Group("products.id, products.name, products.sku").
		Order("units_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) InventoryByCategory(ctx context.Context) ([]InventoryReportRow, error) {
	var rows []InventoryReportRow
	err := r.db.WithContext(ctx).
		Table("inventory_items").
		Select("COALESCE(categories.name, 'uncategorized') AS category, COUNT(DISTINCT products.id) AS products, SUM(inventory_items.quantity) AS total_quantity, SUM(inventory_items.quantity * products.price) AS stock_value").
		Joins("JOIN products ON products.id = inventory_items.product_id").
		Joins("LEFT JOIN product_categories ON product_categories.product_id = products.id").
		Joins("LEFT JOIN categories ON categories.id = product_categories.category_id").
		Group("COALESCE(categories.name, 'uncategorized')").
		Order("category ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CountUsers(ctx context.Context) (int64, error) {
	return r.count(ctx, &models.User{})
}

func (r *repository) CountProducts(ctx context.Context) (int64, error) {
	return r.count(ctx, &models.Product{})
}

func (r *repository) CountOrders(ctx context.Context) (int64, error) {
	return r.count(ctx, &models.Order{})
}

func (r *repository) count(ctx context.Context, model any) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(model).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
