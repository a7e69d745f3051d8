package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"sales-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReportStore struct {
	orders []models.ReportOrder
	lines  []models.ReportLine

	gotStart time.Time
	gotEnd   time.Time
}

func (f *fakeReportStore) QueryOrders(_ context.Context, start, end time.Time) ([]models.ReportOrder, error) {
	f.gotStart, f.gotEnd = start, end
	var out []models.ReportOrder
	for _, o := range f.orders {
		if !o.OrderDate.Before(start) && o.OrderDate.Before(end) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeReportStore) QueryOrderLines(_ context.Context, start, end time.Time) ([]models.ReportLine, error) {
	return f.lines, nil
}

func newReportService(store *fakeReportStore) *ReportService {
	return NewReportService(store, 30)
}

func valid(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func reportOrder(id, customerID int64, name string, date time.Time, status, total string) models.ReportOrder {
	ro := models.ReportOrder{
		Order: models.Order{
			ID:          id,
			CustomerID:  customerID,
			OrderDate:   date,
			Status:      status,
			TotalAmount: decimal.RequireFromString(total),
		},
	}
	if name != "" {
		ro.CustomerName = valid(name)
	}
	return ro
}

func TestGenerateEmptyRange(t *testing.T) {
	st := &fakeReportStore{}
	svc := newReportService(st)

	report, err := svc.Generate(context.Background(), time.Time{}, time.Time{}, "")
	require.NoError(t, err)

	assert.Equal(t, 0, report.Summary.OrderCount)
	assert.True(t, report.Summary.TotalRevenue.IsZero())
	assert.True(t, report.Summary.AvgOrder.IsZero(), "average of empty set is zero, not an error")
	assert.True(t, report.Summary.LargestOrder.IsZero())
	assert.Empty(t, report.StatusBreakdown)
	assert.Empty(t, report.TopCustomers)
	assert.Empty(t, report.TopProducts)
	assert.Empty(t, report.RecentOrders)
	assert.Equal(t, "status", report.GroupBy)
}

func TestGenerateDefaultWindow(t *testing.T) {
	st := &fakeReportStore{}
	svc := newReportService(st)

	fixed := time.Date(2024, 3, 15, 14, 30, 0, 0, time.Local)
	svc.now = func() time.Time { return fixed }

	_, err := svc.Generate(context.Background(), time.Time{}, time.Time{}, "")
	require.NoError(t, err)

	wantStart := time.Date(2024, 2, 14, 0, 0, 0, 0, time.Local)
	wantEnd := time.Date(2024, 3, 16, 0, 0, 0, 0, time.Local)
	assert.True(t, st.gotStart.Equal(wantStart), "got start %s", st.gotStart)
	assert.True(t, st.gotEnd.Equal(wantEnd), "got end %s", st.gotEnd)
}

func TestGenerateEndDateCoversWholeDay(t *testing.T) {
	endOfDay := time.Date(2024, 3, 10, 23, 59, 0, 0, time.Local)
	st := &fakeReportStore{orders: []models.ReportOrder{
		reportOrder(1, 1, "Ann Lee", endOfDay, models.OrderStatusPending, "100"),
	}}
	svc := newReportService(st)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local)
	report, err := svc.Generate(context.Background(), start, end, "")
	require.NoError(t, err)

	// An order late on the end date is inside the range.
	assert.Equal(t, 1, report.Summary.OrderCount)
	assert.Equal(t, "2024-03-01", report.StartDate)
	assert.Equal(t, "2024-03-10", report.EndDate)
}

func TestGenerateSummaryAndStatusBreakdown(t *testing.T) {
	day := time.Date(2024, 3, 5, 10, 0, 0, 0, time.Local)
	st := &fakeReportStore{orders: []models.ReportOrder{
		reportOrder(1, 1, "Ann Lee", day, models.OrderStatusDelivered, "300"),
		reportOrder(2, 1, "Ann Lee", day, models.OrderStatusDelivered, "100"),
		reportOrder(3, 2, "Bob Roy", day, models.OrderStatusLegacyProcessing, "250"),
		reportOrder(4, 2, "Bob Roy", day, models.OrderStatusPending, "50"),
	}}
	svc := newReportService(st)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.Local)
	report, err := svc.Generate(context.Background(), start, end, "")
	require.NoError(t, err)

	assert.Equal(t, 4, report.Summary.OrderCount)
	assert.True(t, report.Summary.TotalRevenue.Equal(decimal.RequireFromString("700")))
	assert.True(t, report.Summary.AvgOrder.Equal(decimal.RequireFromString("175")))
	assert.True(t, report.Summary.LargestOrder.Equal(decimal.RequireFromString("300")))

	// Buckets sorted by total desc. The misspelled legacy status groups
	// under its stored string, not a corrected one.
	require.Len(t, report.StatusBreakdown, 3)
	assert.Equal(t, models.OrderStatusDelivered, report.StatusBreakdown[0].Status)
	assert.Equal(t, 2, report.StatusBreakdown[0].OrderCount)
	assert.Equal(t, "Procesing", report.StatusBreakdown[1].Status)
	assert.True(t, report.StatusBreakdown[1].TotalAmount.Equal(decimal.RequireFromString("250")))
	assert.Equal(t, models.OrderStatusPending, report.StatusBreakdown[2].Status)
}

func TestGenerateTopCustomersKeepsDeletedCustomers(t *testing.T) {
	day := time.Date(2024, 3, 5, 10, 0, 0, 0, time.Local)
	st := &fakeReportStore{orders: []models.ReportOrder{
		reportOrder(1, 1, "Ann Lee", day, models.OrderStatusDelivered, "100"),
		// Customer 9 was deleted: no resolved name, revenue still counts.
		reportOrder(2, 9, "", day, models.OrderStatusDelivered, "500"),
		reportOrder(3, 9, "", day, models.OrderStatusDelivered, "200"),
	}}
	svc := newReportService(st)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.Local)
	report, err := svc.Generate(context.Background(), start, end, "")
	require.NoError(t, err)

	require.Len(t, report.TopCustomers, 2)
	assert.Equal(t, int64(9), report.TopCustomers[0].CustomerID)
	assert.Equal(t, "Unknown", report.TopCustomers[0].CustomerName)
	assert.Equal(t, 2, report.TopCustomers[0].OrderCount)
	assert.True(t, report.TopCustomers[0].Revenue.Equal(decimal.RequireFromString("700")))
	assert.Equal(t, "Ann Lee", report.TopCustomers[1].CustomerName)
}

func TestGenerateTopCustomersLimit(t *testing.T) {
	day := time.Date(2024, 3, 5, 10, 0, 0, 0, time.Local)
	st := &fakeReportStore{}
	for i := int64(1); i <= 15; i++ {
		st.orders = append(st.orders, reportOrder(i, i,
			fmt.Sprintf("Customer %d", i), day, models.OrderStatusDelivered,
			fmt.Sprintf("%d", i*10)))
	}
	svc := newReportService(st)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.Local)
	report, err := svc.Generate(context.Background(), start, end, "")
	require.NoError(t, err)

	require.Len(t, report.TopCustomers, 10)
	// Highest revenue first.
	assert.Equal(t, int64(15), report.TopCustomers[0].CustomerID)
	assert.Equal(t, int64(6), report.TopCustomers[9].CustomerID)
}

func TestGenerateTopProductsDropsDeletedProducts(t *testing.T) {
	st := &fakeReportStore{lines: []models.ReportLine{
		{ProductID: 1, ProductName: valid("Widget"), ProductCode: valid("WDG-100"),
			Quantity: 3, LineTotal: decimal.RequireFromString("75")},
		{ProductID: 1, ProductName: valid("Widget"), ProductCode: valid("WDG-100"),
			Quantity: 2, LineTotal: decimal.RequireFromString("50")},
		// Deleted product: no resolved name, so its sales are excluded.
		{ProductID: 9, Quantity: 100, LineTotal: decimal.RequireFromString("9999")},
	}}
	svc := newReportService(st)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.Local)
	report, err := svc.Generate(context.Background(), start, end, "")
	require.NoError(t, err)

	require.Len(t, report.TopProducts, 1)
	assert.Equal(t, int64(1), report.TopProducts[0].ProductID)
	assert.Equal(t, "Widget", report.TopProducts[0].ProductName)
	assert.Equal(t, 5, report.TopProducts[0].TotalQty)
	assert.True(t, report.TopProducts[0].TotalSales.Equal(decimal.RequireFromString("125")))
}

func TestGenerateRecentOrders(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	st := &fakeReportStore{}
	for i := int64(1); i <= 55; i++ {
		st.orders = append(st.orders, reportOrder(i, 1, "Ann Lee",
			base.Add(time.Duration(i)*time.Hour), models.OrderStatusDelivered, "10"))
	}
	// One orphan order, newest of all.
	st.orders = append(st.orders, reportOrder(99, 42, "",
		base.Add(100*time.Hour), models.OrderStatusPending, "10"))
	svc := newReportService(st)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.Local)
	report, err := svc.Generate(context.Background(), start, end, "")
	require.NoError(t, err)

	require.Len(t, report.RecentOrders, 50)
	assert.Equal(t, int64(99), report.RecentOrders[0].ID, "newest first")
	assert.Equal(t, "Unknown", report.RecentOrders[0].CustomerName)
	assert.Equal(t, int64(55), report.RecentOrders[1].ID)
}
