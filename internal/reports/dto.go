package reports

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medgrove/pharmacare-backend/internal/inventory"
)

// Grouping buckets sales report rows by calendar period.
type Grouping string

const (
	GroupByDay   Grouping = "day"
	GroupByWeek  Grouping = "week"
	GroupByMonth Grouping = "month"
)

func (g Grouping) IsValid() bool {
	return g == GroupByDay || g == GroupByWeek || g == GroupByMonth
}

// DashboardReport is the admin landing page summary: this month against the
// previous one, plus the stock items needing attention.
type DashboardReport struct {
	OrdersThisMonth  int             `json:"orders_this_month"`
	OrdersLastMonth  int             `json:"orders_last_month"`
	OrdersChangePct  decimal.Decimal `json:"orders_change_pct"`
	RevenueThisMonth decimal.Decimal `json:"revenue_this_month"`
	RevenueLastMonth decimal.Decimal `json:"revenue_last_month"`
	RevenueChangePct decimal.Decimal `json:"revenue_change_pct"`

	LowStock []inventory.StockItemDTO `json:"low_stock"`
	Expiring []inventory.StockItemDTO `json:"expiring"`

	TotalUsers    int64 `json:"total_users"`
	TotalProducts int64 `json:"total_products"`
	TotalOrders   int64 `json:"total_orders"`
}

// SalesReportRow is one period bucket of the sales report.
type SalesReportRow struct {
	Period  string          `json:"period"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// TopProductRow is one product's sales aggregate inside a window.
type TopProductRow struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	UnitsSold int             `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// InventoryReportRow aggregates on-hand stock per category. Products without
// a category fall into the "uncategorized" row.
type InventoryReportRow struct {
	Category      string          `json:"category"`
	Products      int             `json:"products"`
	TotalQuantity int             `json:"total_quantity"`
	StockValue    decimal.Decimal `json:"stock_value"`
}
