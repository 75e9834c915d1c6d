package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medgrove/pharmacare-backend/api/responses"
	"github.com/medgrove/pharmacare-backend/api/validators"
	inventorysvc "github.com/medgrove/pharmacare-backend/internal/inventory"
	"github.com/medgrove/pharmacare-backend/pkg/enums"
	pkgerrors "github.com/medgrove/pharmacare-backend/pkg/errors"
	"github.com/medgrove/pharmacare-backend/pkg/logger"
)

type createInventoryItemRequest struct {
	ProductID   string     `json:"product_id" validate:"required,uuid"`
	Quantity    int        `json:"quantity" validate:"min=0"`
	BatchNumber *string    `json:"batch_number,omitempty"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
}

type updateInventoryItemRequest struct {
	BatchNumber *string    `json:"batch_number,omitempty"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
}

type addTransactionRequest struct {
	InventoryItemID string           `json:"inventory_item_id" validate:"required,uuid"`
	SupplierID      *string          `json:"supplier_id,omitempty" validate:"omitempty,uuid"`
	Type            string           `json:"type" validate:"required"`
	Quantity        int              `json:"quantity" validate:"required,min=1"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
}

func (req addTransactionRequest) toInput() (inventorysvc.AddTransactionInput, error) {
	itemID, err := uuid.Parse(req.InventoryItemID)
	if err != nil {
		return inventorysvc.AddTransactionInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid inventory_item_id")
	}

	txnType, err := enums.ParseInventoryTransactionType(strings.TrimSpace(req.Type))
	if err != nil {
		return inventorysvc.AddTransactionInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type")
	}

	var supplierID *uuid.UUID
	if req.SupplierID != nil {
		parsed, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return inventorysvc.AddTransactionInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid supplier_id")
		}
		supplierID = &parsed
	}

	return inventorysvc.AddTransactionInput{
		InventoryItemID: itemID,
		SupplierID:      supplierID,
		Type:            txnType,
		Quantity:        req.Quantity,
		UnitCost:        req.UnitCost,
		Notes:           req.Notes,
	}, nil
}

func CreateInventoryItem(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload createInventoryItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product_id"))
			return
		}

		item, err := svc.CreateItem(r.Context(), inventorysvc.CreateItemInput{
			ProductID:   productID,
			Quantity:    payload.Quantity,
			BatchNumber: payload.BatchNumber,
			ExpiryDate:  payload.ExpiryDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func GetInventoryItem(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetItem(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

func ListInventoryItems(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParseQueryUUID(r, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListItems(r.Context(), params, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func UpdateInventoryItem(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateInventoryItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.UpdateItem(r.Context(), id, inventorysvc.UpdateItemInput{
			BatchNumber: payload.BatchNumber,
			ExpiryDate:  payload.ExpiryDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

func DeleteInventoryItem(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteItem(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func AddInventoryTransaction(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload addTransactionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		txn, err := svc.AddTransaction(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, txn)
	}
}

func ListInventoryTransactions(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		transactions, err := svc.ListTransactions(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, transactions)
	}
}

func LowStock(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var threshold *int
		if raw := r.URL.Query().Get("threshold"); raw != "" {
			value, err := validators.ParseQueryInt(r, "threshold", 0, 1, 1_000_000)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			threshold = &value
		}

		items, err := svc.LowStockItems(r.Context(), threshold)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

func ExpiringStock(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var days *int
		if raw := r.URL.Query().Get("days"); raw != "" {
			value, err := validators.ParseQueryInt(r, "days", 0, 1, 3650)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			days = &value
		}

		items, err := svc.ExpiringItems(r.Context(), days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}
