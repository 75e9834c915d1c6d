package categories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/medgrove/pharmacare-backend/pkg/db/models"
	pkgerrors "github.com/medgrove/pharmacare-backend/pkg/errors"
)

func setupCategoriesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:categories_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS categories (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_categories (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  category_id INTEGER NOT NULL,
  created_at DATETIME,
  UNIQUE (product_id, category_id)
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newCategoriesService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc
}

func TestCreateAndListCategories(t *testing.T) {
	db := setupCategoriesTestDB(t)
	svc := newCategoriesService(t, db)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Pain Relief"})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, CreateCategoryInput{Name: "Antibiotics"})
	require.NoError(t, err)

	rows, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Antibiotics", rows[0].Name)
	assert.Equal(t, "Pain Relief", rows[1].Name)
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	db := setupCategoriesTestDB(t)
	svc := newCategoriesService(t, db)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Vitamins"})
	require.NoError(t, err)

	_, err = svc.CreateCategory(ctx, CreateCategoryInput{Name: "Vitamins"})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestDeleteCategoryWithProductsIsRefused(t *testing.T) {
	db := setupCategoriesTestDB(t)
	svc := newCategoriesService(t, db)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Cold & Flu"})
	require.NoError(t, err)

	link := models.ProductCategory{ID: uuid.New(), ProductID: uuid.New(), CategoryID: created.ID}
	require.NoError(t, db.Create(&link).Error)

	err = svc.DeleteCategory(ctx, created.ID)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())

	require.NoError(t, db.Delete(&link).Error)
	require.NoError(t, svc.DeleteCategory(ctx, created.ID))

	_, err = svc.GetCategory(ctx, created.ID)
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestUpdateCategoryValidation(t *testing.T) {
	db := setupCategoriesTestDB(t)
	svc := newCategoriesService(t, db)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Skin Care"})
	require.NoError(t, err)

	_, err = svc.UpdateCategory(ctx, created.ID, UpdateCategoryInput{})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	name := "Dermatology"
	updated, err := svc.UpdateCategory(ctx, created.ID, UpdateCategoryInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Dermatology", updated.Name)
}
