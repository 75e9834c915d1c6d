package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medgrove/pharmacare-backend/api/controllers"
	"github.com/medgrove/pharmacare-backend/api/middleware"
	authsvc "github.com/medgrove/pharmacare-backend/internal/auth"
	"github.com/medgrove/pharmacare-backend/internal/categories"
	"github.com/medgrove/pharmacare-backend/internal/coupons"
	"github.com/medgrove/pharmacare-backend/internal/inventory"
	"github.com/medgrove/pharmacare-backend/internal/orders"
	"github.com/medgrove/pharmacare-backend/internal/prescriptions"
	"github.com/medgrove/pharmacare-backend/internal/products"
	"github.com/medgrove/pharmacare-backend/internal/reports"
	"github.com/medgrove/pharmacare-backend/internal/suppliers"
	"github.com/medgrove/pharmacare-backend/internal/users"
	"github.com/medgrove/pharmacare-backend/pkg/config"
	"github.com/medgrove/pharmacare-backend/pkg/db"
	"github.com/medgrove/pharmacare-backend/pkg/enums"
	"github.com/medgrove/pharmacare-backend/pkg/logger"
	"github.com/medgrove/pharmacare-backend/pkg/metrics"
	"github.com/medgrove/pharmacare-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	authService authsvc.Service,
	registerService authsvc.RegisterService,
	usersService users.Service,
	categoriesService categories.Service,
	suppliersService suppliers.Service,
	productsService products.Service,
	inventoryService inventory.Service,
	couponsService coupons.Service,
	ordersService orders.Service,
	prescriptionsService prescriptions.Service,
	reportsService reports.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbClient, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.Login(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.Register(registerService, logg))
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/me", controllers.Me(authService, logg))
			r.Put("/profile", controllers.UpdateProfile(authService, logg))
			r.Post("/change-password", controllers.ChangePassword(authService, logg))
		})
	})

	// Storefront catalog reads stay public.
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(productsService, logg))
		r.Get("/products/{id}", controllers.GetProduct(productsService, logg))
		r.Get("/categories", controllers.ListCategories(categoriesService, logg))
		r.Get("/coupons/validate", controllers.ValidateCoupon(couponsService, logg))
		r.Get("/coupons/code/{code}", controllers.ValidateCoupon(couponsService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		// Authenticated customer surface.
		r.Post("/orders", controllers.CreateOrder(ordersService, logg))
		r.Get("/orders/mine", controllers.ListMyOrders(ordersService, logg))
		r.Get("/orders/{id}", controllers.GetOrder(ordersService, logg))
		r.Post("/orders/{id}/cancel", controllers.CancelOrder(ordersService, logg))
		r.Post("/prescriptions", controllers.UploadPrescription(prescriptionsService, cfg.Uploads, logg))
		r.Get("/prescriptions/mine", controllers.ListMyPrescriptions(prescriptionsService, logg))
		r.Get("/prescriptions/{id}", controllers.GetPrescription(prescriptionsService, logg))

		// Order processing, stock visibility and reporting. Counter staff
		// work here without catalog write access.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, enums.RoleAdmin, enums.RolePharmacist, enums.RoleStaff))

			r.Get("/orders", controllers.ListOrders(ordersService, logg))
			r.Put("/orders/{id}/status", controllers.UpdateOrderStatus(ordersService, logg))
			r.Post("/orders/{id}/payments", controllers.AddOrderPayment(ordersService, logg))
			r.Get("/orders/stats", controllers.OrderStats(ordersService, logg))
			r.Get("/suppliers", controllers.ListSuppliers(suppliersService, logg))
			r.Get("/suppliers/{id}", controllers.GetSupplier(suppliersService, logg))
			r.Get("/inventory/items", controllers.ListInventoryItems(inventoryService, logg))
			r.Get("/inventory/items/{id}", controllers.GetInventoryItem(inventoryService, logg))
			r.Get("/inventory/items/{id}/transactions", controllers.ListInventoryTransactions(inventoryService, logg))
			r.Get("/inventory/low-stock", controllers.LowStock(inventoryService, logg))
			r.Get("/inventory/expiring", controllers.ExpiringStock(inventoryService, logg))
			r.Route("/reports", func(r chi.Router) {
				r.Get("/dashboard", controllers.DashboardReport(reportsService, logg))
				r.Get("/sales", controllers.SalesReport(reportsService, logg))
				r.Get("/top-products", controllers.TopProductsReport(reportsService, logg))
				r.Get("/inventory", controllers.InventoryReport(reportsService, logg))
			})
		})

		// Catalog and pharmacy management.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, enums.RoleAdmin, enums.RolePharmacist))

			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.CreateProduct(productsService, logg))
				r.Put("/{id}", controllers.UpdateProduct(productsService, logg))
				r.Delete("/{id}", controllers.DeleteProduct(productsService, logg))
			})
			r.Route("/categories", func(r chi.Router) {
				r.Post("/", controllers.CreateCategory(categoriesService, logg))
				r.Get("/{id}", controllers.GetCategory(categoriesService, logg))
				r.Put("/{id}", controllers.UpdateCategory(categoriesService, logg))
				r.Delete("/{id}", controllers.DeleteCategory(categoriesService, logg))
			})
			r.Post("/suppliers", controllers.CreateSupplier(suppliersService, logg))
			r.Put("/suppliers/{id}", controllers.UpdateSupplier(suppliersService, logg))
			r.Delete("/suppliers/{id}", controllers.DeleteSupplier(suppliersService, logg))
			r.Post("/inventory/items", controllers.CreateInventoryItem(inventoryService, logg))
			r.Put("/inventory/items/{id}", controllers.UpdateInventoryItem(inventoryService, logg))
			r.Delete("/inventory/items/{id}", controllers.DeleteInventoryItem(inventoryService, logg))
			r.Post("/inventory/transactions", controllers.AddInventoryTransaction(inventoryService, logg))
			r.Route("/coupons", func(r chi.Router) {
				r.Get("/", controllers.ListCoupons(couponsService, logg))
				r.Post("/", controllers.CreateCoupon(couponsService, logg))
				r.Get("/{id}", controllers.GetCoupon(couponsService, logg))
				r.Put("/{id}", controllers.UpdateCoupon(couponsService, logg))
				r.Delete("/{id}", controllers.DeleteCoupon(couponsService, logg))
			})
			r.Get("/prescriptions", controllers.ListPrescriptions(prescriptionsService, logg))
			r.Put("/prescriptions/{id}/review", controllers.ReviewPrescription(prescriptionsService, logg))
			r.Delete("/prescriptions/{id}", controllers.DeletePrescription(prescriptionsService, logg))
		})

		// Account administration is admin only.
		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, enums.RoleAdmin))
			r.Get("/", controllers.ListUsers(usersService, logg))
			r.Get("/{id}", controllers.GetUser(usersService, logg))
			r.Put("/{id}", controllers.UpdateUser(usersService, logg))
			r.Delete("/{id}", controllers.DeactivateUser(usersService, logg))
			r.Post("/{id}/roles", controllers.AssignUserRole(usersService, logg))
			r.Delete("/{id}/roles/{role}", controllers.RemoveUserRole(usersService, logg))
		})
	})

	return r
}
