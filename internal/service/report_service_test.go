package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bakery-backoffice/internal/entity"
	"bakery-backoffice/internal/export"
)

type fakeReportStore struct {
	orders []entity.Order
}

func (f *fakeReportStore) GetOrders(ctx context.Context, limit int) ([]entity.Order, error) {
	if len(f.orders) > limit {
		return f.orders[:limit], nil
	}
	return f.orders, nil
}

func (f *fakeReportStore) CountOrders(ctx context.Context) (int, error) {
	return len(f.orders), nil
}

func (f *fakeReportStore) CountOrdersByDate(ctx context.Context, date string) (int, error) {
	count := 0
	for _, o := range f.orders {
		if o.OrderDate == date {
			count++
		}
	}
	return count, nil
}

func (f *fakeReportStore) CountOrdersSince(ctx context.Context, date string) (int, error) {
	count := 0
	for _, o := range f.orders {
		if o.OrderDate >= date {
			count++
		}
	}
	return count, nil
}

func (f *fakeReportStore) RecentOrders(ctx context.Context, n int) ([]entity.Order, error) {
	if len(f.orders) > n {
		return f.orders[:n], nil
	}
	return f.orders, nil
}

func TestBuildReport(t *testing.T) {
	t.Setenv("ENV", "test")
	today := time.Now().Format("2006-01-02")
	store := &fakeReportStore{orders: []entity.Order{
		{
			OrderID: "ORD000001", OrderDate: today, Status: "New", Total: 40,
			LineItems: []entity.LineItem{{Type: "Chocolate Cake", CakeQty: 2, UnitPrice: 20}},
		},
		{
			OrderID: "ORD000002", OrderDate: "2020-01-05", Status: "Completed", Total: 20,
			LineItems: []entity.LineItem{{Type: "Cupcake", CakeQty: 4, UnitPrice: 5}},
		},
	}}
	svc := NewReportService(store, nil)

	report, err := svc.BuildReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 60.0, report.Revenue.TotalRevenue)
	assert.Equal(t, 30.0, report.Revenue.AverageOrderValue)

	require.Len(t, report.TopProducts, 2)
	assert.Equal(t, "Chocolate Cake", report.TopProducts[0].Name)
	assert.Equal(t, 40.0, report.TopProducts[0].Revenue)

	assert.Equal(t, 1, report.StatusBreakdown["New"])
	assert.Equal(t, 1, report.StatusBreakdown["Completed"])

	assert.Equal(t, 2, report.Dashboard.TotalOrders)
	assert.Equal(t, 1, report.Dashboard.TodayOrders)
	assert.Len(t, report.Dashboard.RecentOrders, 2)
}

func TestBuildReportEmpty(t *testing.T) {
	t.Setenv("ENV", "test")
	svc := NewReportService(&fakeReportStore{}, nil)

	report, err := svc.BuildReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, report.Revenue.TotalRevenue)
	assert.Equal(t, 0.0, report.Revenue.AverageOrderValue)
	assert.Empty(t, report.TopProducts)
	assert.Empty(t, report.StatusBreakdown)
}

func TestExportCSV(t *testing.T) {
	t.Setenv("ENV", "test")
	store := &fakeReportStore{orders: []entity.Order{
		{OrderID: "ORD000001", CustomerFirstName: "Ada", CustomerLastName: "Mae", OrderDate: "2026-08-20", Total: 40, Status: "New"},
	}}
	svc := NewReportService(store, nil)

	filename, csv, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "bakery-report-"))
	assert.True(t, strings.HasSuffix(filename, ".csv"))

	lines := strings.Split(csv, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, export.Header, lines[0])
	assert.Contains(t, lines[1], "ORD000001,Ada Mae")
}

func TestExportCSVNoOrdersIsHeaderOnly(t *testing.T) {
	t.Setenv("ENV", "test")
	svc := NewReportService(&fakeReportStore{}, nil)

	_, csv, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)
	assert.Equal(t, export.Header, csv)
}
