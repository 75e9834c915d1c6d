package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	productsvc "github.com/medgrove/pharmacare-backend/internal/products"
	pkgAuth "github.com/medgrove/pharmacare-backend/pkg/auth"
	"github.com/medgrove/pharmacare-backend/pkg/config"
	"github.com/medgrove/pharmacare-backend/pkg/enums"
	"github.com/medgrove/pharmacare-backend/pkg/logger"
	"github.com/medgrove/pharmacare-backend/pkg/pagination"
)

type stubProductsService struct{}

func (stubProductsService) CreateProduct(ctx context.Context, input productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (stubProductsService) GetProduct(ctx context.Context, id uuid.UUID) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (stubProductsService) ListProducts(ctx context.Context, params pagination.Params, filters productsvc.ProductListFilters) (*productsvc.ProductList, error) {
	return &productsvc.ProductList{Products: []productsvc.ProductDTO{}}, nil
}

func (stubProductsService) UpdateProduct(ctx context.Context, id uuid.UUID, input productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (stubProductsService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return nil
}

func testRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "router-test", Level: zerolog.Disabled, Output: io.Discard})
	return NewRouter(cfg, logg, nil, nil, nil, nil, nil, nil, nil, nil, nil, stubProductsService{}, nil, nil, nil, nil, nil)
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60},
	}
}

func TestHealthLive(t *testing.T) {
	router := testRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPublicCatalogNeedsNoToken(t *testing.T) {
	router := testRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	router := testRouter(t, testConfig())

	for _, target := range []string{"/api/v1/orders/mine", "/api/v1/prescriptions/mine", "/api/v1/users"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", target, rec.Code)
		}
	}
}

func TestAdminRoutesRejectCustomers(t *testing.T) {
	cfg := testConfig()
	router := testRouter(t, cfg)

	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "customer@example.com",
		Roles:  []string{string(enums.RoleCustomer)},
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	for _, target := range []string{"/api/v1/users", "/api/v1/reports/dashboard", "/api/v1/inventory/items"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s: expected 403, got %d", target, rec.Code)
		}
	}
}

func TestStaffRoleScope(t *testing.T) {
	cfg := testConfig()
	router := testRouter(t, cfg)

	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "counter@example.com",
		Roles:  []string{string(enums.RoleStaff)},
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	// Catalog writes stay closed to counter staff.
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("catalog write: expected 403, got %d", rec.Code)
	}

	// Order processing clears the role check.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code == http.StatusUnauthorized || rec.Code == http.StatusForbidden {
		t.Fatalf("order list: staff should clear role checks, got %d", rec.Code)
	}
}

func TestCatalogWritesRequireStaffRole(t *testing.T) {
	cfg := testConfig()
	router := testRouter(t, cfg)

	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "rx@example.com",
		Roles:  []string{string(enums.RolePharmacist)},
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
