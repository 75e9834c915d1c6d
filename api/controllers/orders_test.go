package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medgrove/pharmacare-backend/api/middleware"
	ordersvc "github.com/medgrove/pharmacare-backend/internal/orders"
	"github.com/medgrove/pharmacare-backend/pkg/db/models"
	"github.com/medgrove/pharmacare-backend/pkg/enums"
	"github.com/medgrove/pharmacare-backend/pkg/pagination"
)

// stubOrdersService serves a single order owned by owner and records whether
// a cancellation went through.
type stubOrdersService struct {
	owner     uuid.UUID
	cancelled bool
}

func (s *stubOrdersService) CreateOrder(ctx context.Context, input ordersvc.CreateOrderInput) (*models.Order, error) {
	return &models.Order{}, nil
}

func (s *stubOrdersService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	owner := s.owner
	return &models.Order{ID: id, UserID: &owner}, nil
}

func (s *stubOrdersService) GetOrderDetails(ctx context.Context, id uuid.UUID) (*ordersvc.OrderDetails, error) {
	owner := s.owner
	return &ordersvc.OrderDetails{Order: models.Order{ID: id, UserID: &owner}}, nil
}

func (s *stubOrdersService) ListOrders(ctx context.Context, params pagination.Params, userID *uuid.UUID) (*ordersvc.OrderList, error) {
	return &ordersvc.OrderList{}, nil
}

func (s *stubOrdersService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, input ordersvc.UpdateStatusInput) error {
	return nil
}

func (s *stubOrdersService) AddPayment(ctx context.Context, id uuid.UUID, input ordersvc.AddPaymentInput) (*models.Payment, error) {
	return &models.Payment{}, nil
}

func (s *stubOrdersService) CancelOrder(ctx context.Context, id uuid.UUID, reason *string) error {
	s.cancelled = true
	return nil
}

func (s *stubOrdersService) OrderStats(ctx context.Context, window ordersvc.StatsWindow) (*ordersvc.OrderStats, error) {
	return &ordersvc.OrderStats{}, nil
}

func orderRequest(method string, orderID, userID uuid.UUID, roles ...string) *http.Request {
	req := httptest.NewRequest(method, "/orders/"+orderID.String(), nil)
	ctx := middleware.WithUserID(req.Context(), userID.String())
	ctx = middleware.WithRoles(ctx, roles)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", orderID.String())
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)

	return req.WithContext(ctx)
}

func TestGetOrderHidesOtherCustomersOrders(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	orderID := uuid.New()
	svc := &stubOrdersService{owner: owner}
	handler := GetOrder(svc, nil)

	rec := httptest.NewRecorder()
	handler(rec, orderRequest(http.MethodGet, orderID, stranger, string(enums.RoleCustomer)))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("stranger: expected 403, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler(rec, orderRequest(http.MethodGet, orderID, owner, string(enums.RoleCustomer)))
	if rec.Code != http.StatusOK {
		t.Fatalf("owner: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler(rec, orderRequest(http.MethodGet, orderID, stranger, string(enums.RoleStaff)))
	if rec.Code != http.StatusOK {
		t.Fatalf("staff: expected 200, got %d", rec.Code)
	}
}

func TestCancelOrderRequiresOwnerOrStaff(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	orderID := uuid.New()

	svc := &stubOrdersService{owner: owner}
	handler := CancelOrder(svc, nil)

	rec := httptest.NewRecorder()
	handler(rec, orderRequest(http.MethodPost, orderID, stranger, string(enums.RoleCustomer)))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("stranger: expected 403, got %d", rec.Code)
	}
	if svc.cancelled {
		t.Fatal("stranger must not cancel another user's order")
	}

	rec = httptest.NewRecorder()
	handler(rec, orderRequest(http.MethodPost, orderID, owner, string(enums.RoleCustomer)))
	if rec.Code != http.StatusOK {
		t.Fatalf("owner: expected 200, got %d", rec.Code)
	}
	if !svc.cancelled {
		t.Fatal("owner cancellation should reach the service")
	}

	svc = &stubOrdersService{owner: owner}
	handler = CancelOrder(svc, nil)
	rec = httptest.NewRecorder()
	handler(rec, orderRequest(http.MethodPost, orderID, stranger, string(enums.RolePharmacist)))
	if rec.Code != http.StatusOK {
		t.Fatalf("pharmacist: expected 200, got %d", rec.Code)
	}
	if !svc.cancelled {
		t.Fatal("staff cancellation should reach the service")
	}
}
