package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/go-redis/redis/v8"

	"bakery-backoffice/internal/aggregation"
	"bakery-backoffice/internal/entity"
	"bakery-backoffice/internal/export"
)

// ReportSnapshotKey holds the cached dashboard counters. The consumer
// deletes it on every order event, so the next report read does a full
// reload.
const ReportSnapshotKey = "reports:snapshot"

// reportFetchLimit is how many orders feed the analysis, newest first.
const reportFetchLimit = 500

type ReportStore interface {
	GetOrders(ctx context.Context, limit int) ([]entity.Order, error)
	CountOrders(ctx context.Context) (int, error)
	CountOrdersByDate(ctx context.Context, date string) (int, error)
	CountOrdersSince(ctx context.Context, date string) (int, error)
	RecentOrders(ctx context.Context, n int) ([]entity.Order, error)
}

type ReportService struct {
	orders ReportStore
	rdb    *redis.Client
}

func NewReportService(orders ReportStore, rdb *redis.Client) *ReportService {
	return &ReportService{orders: orders, rdb: rdb}
}

type DashboardStats struct {
	TotalOrders     int            `json:"total_orders"`
	TodayOrders     int            `json:"today_orders"`
	ThisMonthOrders int            `json:"this_month_orders"`
	RecentOrders    []entity.Order `json:"recent_orders"`
}

type Report struct {
	Revenue         aggregation.RevenueStats  `json:"revenue"`
	TopProducts     []aggregation.ProductStat `json:"top_products"`
	StatusBreakdown map[string]int            `json:"status_breakdown"`
	Dashboard       DashboardStats            `json:"dashboard"`
}

// BuildReport loads the analysis window and derives every figure the
// reports page shows.
func (s *ReportService) BuildReport(ctx context.Context) (*Report, error) {
	orders, err := s.orders.GetOrders(ctx, reportFetchLimit)
	if err != nil {
		logger.Error().Err(err).Msg("Error loading orders for report")
		return nil, err
	}

	dashboard, err := s.dashboardStats(ctx)
	if err != nil {
		return nil, err
	}

	return &Report{
		Revenue:         aggregation.Revenue(orders),
		TopProducts:     aggregation.TopProducts(orders),
		StatusBreakdown: aggregation.StatusBreakdown(orders),
		Dashboard:       *dashboard,
	}, nil
}

// dashboardStats serves the counters from the Redis snapshot when one
// exists and recomputes and caches them on a miss.
func (s *ReportService) dashboardStats(ctx context.Context) (*DashboardStats, error) {
	useCache := os.Getenv("ENV") != "test" && s.rdb != nil

	if useCache {
		cached, err := s.rdb.Get(ctx, ReportSnapshotKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			logger.Error().Err(err).Msg("Error reading report snapshot")
		}
		if err == nil {
			stats := &DashboardStats{}
			if jsonErr := json.Unmarshal([]byte(cached), stats); jsonErr == nil {
				return stats, nil
			}
		}
	}

	stats, err := s.computeDashboardStats(ctx)
	if err != nil {
		return nil, err
	}

	if useCache {
		if snapshot, err := json.Marshal(stats); err == nil {
			if err := s.rdb.Set(ctx, ReportSnapshotKey, snapshot, 0).Err(); err != nil {
				logger.Error().Err(err).Msg("Error caching report snapshot")
			}
		}
	}

	return stats, nil
}

func (s *ReportService) computeDashboardStats(ctx context.Context) (*DashboardStats, error) {
	now := time.Now()
	today := now.Format("2006-01-02")
	monthStart := now.Format("2006-01") + "-01"

	total, err := s.orders.CountOrders(ctx)
	if err != nil {
		return nil, err
	}
	todayCount, err := s.orders.CountOrdersByDate(ctx, today)
	if err != nil {
		return nil, err
	}
	monthCount, err := s.orders.CountOrdersSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}
	recent, err := s.orders.RecentOrders(ctx, 5)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalOrders:     total,
		TodayOrders:     todayCount,
		ThisMonthOrders: monthCount,
		RecentOrders:    recent,
	}, nil
}

// ExportCSV renders the analysis window as delimited text and names the
// download after the current date.
func (s *ReportService) ExportCSV(ctx context.Context) (filename, csv string, err error) {
	orders, err := s.orders.GetOrders(ctx, reportFetchLimit)
	if err != nil {
		logger.Error().Err(err).Msg("Error loading orders for export")
		return "", "", err
	}

	filename = "bakery-report-" + time.Now().Format("2006-01-02") + ".csv"
	return filename, export.Report(orders), nil
}
