package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/medgrove/pharmacare-backend/internal/inventory"
	"github.com/medgrove/pharmacare-backend/pkg/config"
	pkgerrors "github.com/medgrove/pharmacare-backend/pkg/errors"
)

// Service exposes the reporting queries behind the admin dashboard.
type Service interface {
	Dashboard(ctx context.Context) (*DashboardReport, error)
	SalesReport(ctx context.Context, from, to time.Time, groupBy Grouping) ([]SalesReportRow, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProductRow, error)
	InventoryReport(ctx context.Context) ([]InventoryReportRow, error)
}

const (
	dashboardListSize  = 5
	defaultTopProducts = 10
	maxTopProducts     = 100
)

type service struct {
	repo    Repository
	stock   inventory.Repository
	reports config.ReportsConfig
	now     func() time.Time
}

// ServiceParams carries the dependencies for the reports service.
type ServiceParams struct {
	Repo    Repository
	Stock   inventory.Repository
	Reports config.ReportsConfig
	Now     func() time.Time
}

// NewService constructs a reports service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	if params.Stock == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{repo: params.Repo, stock: params.Stock, reports: params.Reports, now: now}, nil
}

func (s *service) Dashboard(ctx context.Context) (*DashboardReport, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	prevMonthStart := monthStart.AddDate(0, -1, 0)

	current, err := s.repo.OrdersBetween(ctx, monthStart, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading current month orders")
	}
	previous, err := s.repo.OrdersBetween(ctx, prevMonthStart, monthStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading previous month orders")
	}

	report := &DashboardReport{
		OrdersThisMonth:  len(current),
		OrdersLastMonth:  len(previous),
		RevenueThisMonth: decimal.Zero,
		RevenueLastMonth: decimal.Zero,
	}
	for _, order := range current {
		report.RevenueThisMonth = report.RevenueThisMonth.Add(order.Total)
	}
	for _, order := range previous {
		report.RevenueLastMonth = report.RevenueLastMonth.Add(order.Total)
	}
	report.OrdersChangePct = percentChange(
		decimal.NewFromInt(int64(report.OrdersLastMonth)),
		decimal.NewFromInt(int64(report.OrdersThisMonth)),
	)
	report.RevenueChangePct = percentChange(report.RevenueLastMonth, report.RevenueThisMonth)

	lowStock, err := s.stock.LowStock(ctx, s.reports.LowStockThreshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading low stock items")
	}
	expiring, err := s.stock.Expiring(ctx, now, now.AddDate(0, 0, s.reports.ExpiringDays))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading expiring items")
	}
	report.LowStock = topN(lowStock, dashboardListSize)
	report.Expiring = topN(expiring, dashboardListSize)

	if report.TotalUsers, err = s.repo.CountUsers(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting users")
	}
	if report.TotalProducts, err = s.repo.CountProducts(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting products")
	}
	if report.TotalOrders, err = s.repo.CountOrders(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting orders")
	}
	return report, nil
}

// SalesReport buckets orders by calendar period. Bucketing happens here
// rather than in SQL so the same query runs on every supported engine.
func (s *service) SalesReport(ctx context.Context, from, to time.Time, groupBy Grouping) ([]SalesReportRow, error) {
	if !groupBy.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group_by must be day, week or month")
	}
	if to.Before(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "window end precedes its start")
	}

	orders, err := s.repo.OrdersBetween(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading orders for sales report")
	}

	buckets := make(map[string]*SalesReportRow)
	for _, order := range orders {
		key := periodKey(order.CreatedAt, groupBy)
		row, ok := buckets[key]
		if !ok {
			row = &SalesReportRow{Period: key, Revenue: decimal.Zero}
			buckets[key] = row
		}
		row.Orders++
		row.Revenue = row.Revenue.Add(order.Total)
	}

	rows := make([]SalesReportRow, 0, len(buckets))
	for _, row := range buckets {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Period < rows[j].Period })
	return rows, nil
}

func (s *service) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProductRow, error) {
	if limit <= 0 {
		limit = defaultTopProducts
	}
	if limit > maxTopProducts {
		limit = maxTopProducts
	}
	if to.Before(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "window end precedes its start")
	}

	rows, err := s.repo.TopProducts(ctx, from, to, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading top products")
	}
	return rows, nil
}

func (s *service) InventoryReport(ctx context.Context) ([]InventoryReportRow, error) {
	rows, err := s.repo.InventoryByCategory(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading inventory report")
	}
	return rows, nil
}

// percentChange reports the relative change from prev to current. A zero
// baseline yields 100 when anything was gained and 0 otherwise.
func percentChange(prev, current decimal.Decimal) decimal.Decimal {
	if prev.IsZero() {
		if current.IsZero() {
			return decimal.Zero
		}
		return decimal.NewFromInt(100)
	}
	return current.Sub(prev).
		Div(prev).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}

func periodKey(t time.Time, groupBy Grouping) string {
	t = t.UTC()
	switch groupBy {
	case GroupByWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case GroupByMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

func topN(rows []inventory.StockItemDTO, n int) []inventory.StockItemDTO {
	if len(rows) <= n {
		return rows
	}
	return rows[:n]
}
