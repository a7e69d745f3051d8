package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"sales-service/internal/models"
	"sales-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	topLimit         = 10
	recentOrderLimit = 50

	// Placeholder for orders whose customer no longer exists.
	unknownCustomer = "Unknown"
)

// ReportStore is the read path the aggregator works over. Both queries
// filter on order_date in [start, end).
type ReportStore interface {
	QueryOrders(ctx context.Context, start, end time.Time) ([]models.ReportOrder, error)
	QueryOrderLines(ctx context.Context, start, end time.Time) ([]models.ReportLine, error)
}

// Summary holds the headline numbers over the filtered order set. All fields
// are zero for an empty range; average-of-empty is zero, not an error.
type Summary struct {
	OrderCount   int             `json:"order_count"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	AvgOrder     decimal.Decimal `json:"avg_order"`
	LargestOrder decimal.Decimal `json:"largest_order"`
}

// StatusBucket groups orders by their stored status string. Statuses are
// opaque: legacy values like "Procesing" group as-is.
type StatusBucket struct {
	Status      string          `json:"status"`
	OrderCount  int             `json:"order_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// CustomerRank is one row of the top-customers view.
type CustomerRank struct {
	CustomerID   int64           `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	CompanyName  string          `json:"company_name"`
	OrderCount   int             `json:"order_count"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// ProductRank is one row of the top-products view.
type ProductRank struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductCode string          `json:"product_code"`
	TotalQty    int             `json:"total_qty"`
	TotalSales  decimal.Decimal `json:"total_sales"`
}

// OrderView is a recent order annotated with its resolved customer.
type OrderView struct {
	models.Order
	CustomerName string `json:"customer_name"`
	CompanyName  string `json:"company_name"`
}

// SalesReport is the full report payload. Values are unformatted; currency
// presentation is the renderer's problem.
type SalesReport struct {
	StartDate       string         `json:"start_date"`
	EndDate         string         `json:"end_date"`
	GroupBy         string         `json:"group_by"`
	Summary         Summary        `json:"summary"`
	StatusBreakdown []StatusBucket `json:"status_breakdown"`
	TopCustomers    []CustomerRank `json:"top_customers"`
	TopProducts     []ProductRank  `json:"top_products"`
	RecentOrders    []OrderView    `json:"recent_orders"`
}

// ReportService computes sales reports over a date range
type ReportService struct {
	store      ReportStore
	windowDays int
	logger     *zap.Logger
	now        func() time.Time
}

// NewReportService creates a new report service. windowDays sets the default
// range when the caller omits dates.
func NewReportService(store ReportStore, windowDays int) *ReportService {
	return &ReportService{
		store:      store,
		windowDays: windowDays,
		logger:     util.GetLogger(),
		now:        time.Now,
	}
}

// Generate builds a sales report for orders dated within [start, end], both
// inclusive calendar dates (the end date covers its entire day). Zero times
// select the default window ending today on the local clock. groupBy only
// arranges the display and defaults to status.
func (s *ReportService) Generate(ctx context.Context, start, end time.Time, groupBy string) (*SalesReport, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.Generate")
	defer span.End()

	began := time.Now()
	defer func() {
		util.ReportGenerationLatency.Observe(time.Since(began).Seconds())
	}()

	if end.IsZero() {
		end = s.now()
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -s.windowDays)
	}

	startDay := truncateToDay(start)
	// Inclusive end date: the filter bound covers the whole final day.
	endExclusive := truncateToDay(end).AddDate(0, 0, 1)

	orders, err := s.store.QueryOrders(ctx, startDay, endExclusive)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	lines, err := s.store.QueryOrderLines(ctx, startDay, endExclusive)
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}

	if groupBy == "" {
		groupBy = "status"
	}

	report := &SalesReport{
		StartDate:       startDay.Format("2006-01-02"),
		EndDate:         truncateToDay(end).Format("2006-01-02"),
		GroupBy:         groupBy,
		Summary:         summarize(orders),
		StatusBreakdown: groupByStatus(orders),
		TopCustomers:    rankCustomers(orders),
		TopProducts:     rankProducts(lines),
		RecentOrders:    recentOrders(orders),
	}

	util.ReportsGeneratedTotal.Inc()
	s.logger.Info("Sales report generated",
		zap.String("start", report.StartDate),
		zap.String("end", report.EndDate),
		zap.Int("orders", report.Summary.OrderCount))

	return report, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func summarize(orders []models.ReportOrder) Summary {
	summary := Summary{
		TotalRevenue: decimal.Zero,
		AvgOrder:     decimal.Zero,
		LargestOrder: decimal.Zero,
	}

	for _, o := range orders {
		summary.OrderCount++
		summary.TotalRevenue = summary.TotalRevenue.Add(o.TotalAmount)
		if o.TotalAmount.GreaterThan(summary.LargestOrder) {
			summary.LargestOrder = o.TotalAmount
		}
	}

	if summary.OrderCount > 0 {
		summary.AvgOrder = summary.TotalRevenue.Div(decimal.NewFromInt(int64(summary.OrderCount)))
	}
	return summary
}

func groupByStatus(orders []models.ReportOrder) []StatusBucket {
	buckets := make(map[string]*StatusBucket)
	for _, o := range orders {
		bucket, ok := buckets[o.Status]
		if !ok {
			bucket = &StatusBucket{Status: o.Status, TotalAmount: decimal.Zero}
			buckets[o.Status] = bucket
		}
		bucket.OrderCount++
		bucket.TotalAmount = bucket.TotalAmount.Add(o.TotalAmount)
	}

	result := make([]StatusBucket, 0, len(buckets))
	for _, bucket := range buckets {
		result = append(result, *bucket)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].TotalAmount.Equal(result[j].TotalAmount) {
			return result[i].TotalAmount.GreaterThan(result[j].TotalAmount)
		}
		return result[i].Status < result[j].Status
	})
	return result
}

// rankCustomers keeps orders whose customer was deleted: the revenue still
// counts, shown under a placeholder name. Contrast with rankProducts.
func rankCustomers(orders []models.ReportOrder) []CustomerRank {
	ranks := make(map[int64]*CustomerRank)
	for _, o := range orders {
		rank, ok := ranks[o.CustomerID]
		if !ok {
			rank = &CustomerRank{
				CustomerID:   o.CustomerID,
				CustomerName: unknownCustomer,
				Revenue:      decimal.Zero,
			}
			if o.CustomerName.Valid {
				rank.CustomerName = o.CustomerName.String
			}
			if o.CompanyName.Valid {
				rank.CompanyName = o.CompanyName.String
			}
			ranks[o.CustomerID] = rank
		}
		rank.OrderCount++
		rank.Revenue = rank.Revenue.Add(o.TotalAmount)
	}

	result := make([]CustomerRank, 0, len(ranks))
	for _, rank := range ranks {
		result = append(result, *rank)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Revenue.Equal(result[j].Revenue) {
			return result[i].Revenue.GreaterThan(result[j].Revenue)
		}
		return result[i].CustomerID < result[j].CustomerID
	})
	if len(result) > topLimit {
		result = result[:topLimit]
	}
	return result
}

// rankProducts drops lines whose product was deleted, unlike rankCustomers.
// The two views have always disagreed this way and downstream consumers
// reconcile against it.
func rankProducts(lines []models.ReportLine) []ProductRank {
	ranks := make(map[int64]*ProductRank)
	for _, line := range lines {
		if !line.ProductName.Valid {
			continue
		}
		rank, ok := ranks[line.ProductID]
		if !ok {
			rank = &ProductRank{
				ProductID:   line.ProductID,
				ProductName: line.ProductName.String,
				ProductCode: line.ProductCode.String,
				TotalSales:  decimal.Zero,
			}
			ranks[line.ProductID] = rank
		}
		rank.TotalQty += line.Quantity
		rank.TotalSales = rank.TotalSales.Add(line.LineTotal)
	}

	result := make([]ProductRank, 0, len(ranks))
	for _, rank := range ranks {
		result = append(result, *rank)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].TotalSales.Equal(result[j].TotalSales) {
			return result[i].TotalSales.GreaterThan(result[j].TotalSales)
		}
		return result[i].ProductID < result[j].ProductID
	})
	if len(result) > topLimit {
		result = result[:topLimit]
	}
	return result
}

func recentOrders(orders []models.ReportOrder) []OrderView {
	sorted := make([]models.ReportOrder, len(orders))
	copy(sorted, orders)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].OrderDate.After(sorted[j].OrderDate)
	})
	if len(sorted) > recentOrderLimit {
		sorted = sorted[:recentOrderLimit]
	}

	result := make([]OrderView, 0, len(sorted))
	for _, o := range sorted {
		view := OrderView{
			Order:        o.Order,
			CustomerName: unknownCustomer,
		}
		if o.CustomerName.Valid {
			view.CustomerName = o.CustomerName.String
		}
		if o.CompanyName.Valid {
			view.CompanyName = o.CompanyName.String
		}
		result = append(result, view)
	}
	return result
}
