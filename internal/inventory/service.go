package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medgrove/pharmacare-backend/pkg/config"
	"github.com/medgrove/pharmacare-backend/pkg/db/models"
	pkgerrors "github.com/medgrove/pharmacare-backend/pkg/errors"
	"github.com/medgrove/pharmacare-backend/pkg/pagination"
)

// Service exposes stock batch management and stock movement operations.
type Service interface {
	CreateItem(ctx context.Context, input CreateItemInput) (*models.InventoryItem, error)
	GetItem(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	ListItems(ctx context.Context, params pagination.Params, productID *uuid.UUID) (*ItemList, error)
	UpdateItem(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*models.InventoryItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	AddTransaction(ctx context.Context, input AddTransactionInput) (*models.InventoryTransaction, error)
	ListTransactions(ctx context.Context, itemID uuid.UUID) ([]models.InventoryTransaction, error)
	LowStockItems(ctx context.Context, threshold *int) ([]StockItemDTO, error)
	ExpiringItems(ctx context.Context, days *int) ([]StockItemDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo    Repository
	tx      txRunner
	reports config.ReportsConfig
}

// ServiceParams carries the dependencies for the inventory service.
type ServiceParams struct {
	Repo    Repository
	Tx      txRunner
	Reports config.ReportsConfig
}

// NewService constructs an inventory service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: params.Repo, tx: params.Tx, reports: params.Reports}, nil
}

func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (*models.InventoryItem, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}

	item := &models.InventoryItem{
		ID:          uuid.New(),
		ProductID:   input.ProductID,
		Quantity:    input.Quantity,
		BatchNumber: input.BatchNumber,
		ExpiryDate:  input.ExpiryDate,
	}
	created, err := s.repo.CreateItem(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating inventory item")
	}
	return created, nil
}

func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	item, err := s.repo.FindItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading inventory item")
	}
	return item, nil
}

func (s *service) ListItems(ctx context.Context, params pagination.Params, productID *uuid.UUID) (*ItemList, error) {
	list, err := s.repo.ListItems(ctx, params, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing inventory items")
	}
	return list, nil
}

func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*models.InventoryItem, error) {
	if _, err := s.GetItem(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.BatchNumber != nil {
		updates["batch_number"] = *input.BatchNumber
	}
	if input.ExpiryDate != nil {
		updates["expiry_date"] = *input.ExpiryDate
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.UpdateItem(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating inventory item")
	}
	return s.GetItem(ctx, id)
}

// DeleteItem removes a batch even when movements reference it; the schema
// cascades transaction rows with the item.
func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetItem(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting inventory item")
	}
	return nil
}

// AddTransaction records one stock movement and adjusts the batch quantity in
// the same transaction. Purchases and returns add stock; sales and adjustments
// subtract it and fail when the batch holds less than the requested quantity.
func (s *service) AddTransaction(ctx context.Context, input AddTransactionInput) (*models.InventoryTransaction, error) {
	if input.InventoryItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory_item_id is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown transaction type")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var created *models.InventoryTransaction
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.FindItemByID(ctx, input.InventoryItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading inventory item")
		}

		newQuantity := item.Quantity
		if input.Type.Additive() {
			newQuantity += input.Quantity
		} else {
			if input.Quantity > item.Quantity {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient inventory")
			}
			newQuantity -= input.Quantity
		}

		if err := repo.SetQuantity(ctx, item.ID, newQuantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating batch quantity")
		}

		txn := &models.InventoryTransaction{
			ID:              uuid.New(),
			InventoryItemID: item.ID,
			SupplierID:      input.SupplierID,
			TransactionType: input.Type,
			Quantity:        input.Quantity,
			UnitCost:        input.UnitCost,
			Notes:           input.Notes,
		}
		created, err = repo.CreateTransaction(ctx, txn)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording inventory transaction")
		}
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding inventory transaction")
	}
	return created, nil
}

func (s *service) ListTransactions(ctx context.Context, itemID uuid.UUID) ([]models.InventoryTransaction, error) {
	if _, err := s.GetItem(ctx, itemID); err != nil {
		return nil, err
	}
	txns, err := s.repo.ListTransactions(ctx, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing inventory transactions")
	}
	return txns, nil
}

func (s *service) LowStockItems(ctx context.Context, threshold *int) ([]StockItemDTO, error) {
	limit := s.reports.LowStockThreshold
	if threshold != nil {
		limit = *threshold
	}
	if limit <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "threshold must be positive")
	}
	rows, err := s.repo.LowStock(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing low stock items")
	}
	return rows, nil
}

func (s *service) ExpiringItems(ctx context.Context, days *int) ([]StockItemDTO, error) {
	window := s.reports.ExpiringDays
	if days != nil {
		window = *days
	}
	if window <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "days must be positive")
	}
	now := time.Now().UTC()
	rows, err := s.repo.Expiring(ctx, now, now.AddDate(0, 0, window))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing expiring items")
	}
	return rows, nil
}
