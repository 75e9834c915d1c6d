package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medgrove/pharmacare-backend/pkg/db/models"
	"github.com/medgrove/pharmacare-backend/pkg/pagination"
)

// Repository defines persistence operations for the product catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindBySKU(ctx context.Context, sku string) (*models.Product, error)
	List(ctx context.Context, params pagination.Params, filters ProductListFilters) (*ProductList, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	ReplaceCategories(ctx context.Context, productID uuid.UUID, categoryIDs []int) error
	Categories(ctx context.Context, productID uuid.UUID) ([]CategorySummary, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a products repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Omit("Categories").Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("sku = ?", strings.TrimSpace(sku)).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ProductListFilters) (*ProductList, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).
		Order("products.created_at DESC, products.id DESC").
		Limit(params.LimitWithBuffer())
	if filters.ActiveOnly {
		query = query.Where("products.active = ?", true)
	}
	if filters.CategoryID != nil {
		query = query.
			Joins("JOIN product_categories pc ON pc.product_id = products.id").
			Where("pc.category_id = ?", *filters.CategoryID)
	}
	if q := strings.TrimSpace(filters.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"(lower(products.name) LIKE ? OR lower(products.sku) LIKE ? OR lower(products.description) LIKE ?)",
			pattern, pattern, pattern,
		)
	}
	if params.Cursor != nil {
		query = query.Where(
			"((products.created_at < ?) OR (products.created_at = ? AND products.id < ?))",
			params.Cursor.CreatedAt, params.Cursor.CreatedAt, params.Cursor.ID,
		)
	}

	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	pageSize := pagination.NormalizeLimit(params.Limit)
	next := ""
	if len(rows) > pageSize {
		last := rows[pageSize-1]
		next = pagination.EncodeCursor(last.CreatedAt, last.ID)
		rows = rows[:pageSize]
	}

	result := &ProductList{Products: make([]ProductDTO, 0, len(rows)), NextCursor: next}
	for i := range rows {
		cats, err := r.Categories(ctx, rows[i].ID)
		if err != nil {
			return nil, err
		}
		result.Products = append(result.Products, toProductDTO(&rows[i], cats))
	}
	return result, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// ReplaceCategories replaces all category links for the product.
func (r *repository) ReplaceCategories(ctx context.Context, productID uuid.UUID, categoryIDs []int) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductCategory{}).Error; err != nil {
		return err
	}
	if len(categoryIDs) == 0 {
		return nil
	}
	links := make([]models.ProductCategory, 0, len(categoryIDs))
	for _, categoryID := range categoryIDs {
		links = append(links, models.ProductCategory{
			ID:         uuid.New(),
			ProductID:  productID,
			CategoryID: categoryID,
		})
	}
	return tx.Create(&links).Error
}

func (r *repository) Categories(ctx context.Context, productID uuid.UUID) ([]CategorySummary, error) {
	var cats []CategorySummary
	err := r.db.WithContext(ctx).
		Model(&models.ProductCategory{}).
		Select("categories.id, categories.name").
		Joins("JOIN categories ON categories.id = product_categories.category_id").
		Where("product_categories.product_id = ?", productID).
		Order("categories.name ASC").
		Scan(&cats).Error
	if err != nil {
		return nil, err
	}
	return cats, nil
}

func toProductDTO(product *models.Product, categories []CategorySummary) ProductDTO {
	if categories == nil {
		categories = []CategorySummary{}
	}
	return ProductDTO{
		ID:                   product.ID,
		Name:                 product.Name,
		Description:          product.Description,
		SKU:                  product.SKU,
		Price:                product.Price,
		ImageURL:             product.ImageURL,
		PrescriptionRequired: product.PrescriptionRequired,
		Active:               product.Active,
		Categories:           categories,
		CreatedAt:            product.CreatedAt,
		UpdatedAt:            product.UpdatedAt,
	}
}
