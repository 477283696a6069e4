// Package reports is the service surface of the analytics core. It resolves
// periods to date ranges, pulls rows from the stores, and hands them to the
// pure aggregation code. Every operation takes the restaurant id explicitly;
// there is no ambient tenant state.
package reports

import (
	"context"
	"time"

	"tableorder-analytics/internal/analytics"
	"tableorder-analytics/internal/config"
	"tableorder-analytics/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Service struct {
	orders  *store.OrderStore
	records *store.RecordStore
	waiters *store.WaiterStore
	cfg     config.Config
	log     *zap.Logger
}

func New(pool *pgxpool.Pool, cfg config.Config, log *zap.Logger) *Service {
	return &Service{
		orders:  store.NewOrderStore(pool),
		records: store.NewRecordStore(pool),
		waiters: store.NewWaiterStore(pool),
		cfg:     cfg,
		log:     log,
	}
}

// Summary aggregates the period's finished orders from the live order tables.
func (s *Service) Summary(
	ctx context.Context,
	restaurantID int64,
	period analytics.Period,
	targetDate time.Time,
	waiterID *int64,
) (analytics.Summary, error) {
	orders, err := s.ordersInPeriod(ctx, restaurantID, period, targetDate, waiterID)
	if err != nil {
		return analytics.Summary{}, err
	}
	return analytics.SummarizeOrders(orders), nil
}

// RecordedSummary computes the same totals from the derived analytics
// records. For any range whose orders have all been derived it must agree
// with Summary; where it does not, derivation has been missed.
func (s *Service) RecordedSummary(
	ctx context.Context,
	restaurantID int64,
	period analytics.Period,
	targetDate time.Time,
	waiterID *int64,
) (analytics.Summary, error) {
	dateRange, err := s.resolveRange(period, targetDate)
	if err != nil {
		return analytics.Summary{}, err
	}
	records, err := s.records.InRange(ctx, restaurantID, dateRange, waiterID)
	if err != nil {
		return analytics.Summary{}, err
	}
	return analytics.SummarizeRecords(records), nil
}

// TopItems ranks the period's menu items by quantity sold. A non-positive
// limit falls back to the configured default.
func (s *Service) TopItems(
	ctx context.Context,
	restaurantID int64,
	period analytics.Period,
	targetDate time.Time,
	limit int,
	waiterID *int64,
) ([]analytics.ItemSales, error) {
	orders, err := s.ordersInPeriod(ctx, restaurantID, period, targetDate, waiterID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.cfg.TopItemsLimit
	}
	return analytics.RankItems(orders, limit), nil
}

// CategoryBreakdown ranks the period's menu categories by revenue.
func (s *Service) CategoryBreakdown(
	ctx context.Context,
	restaurantID int64,
	period analytics.Period,
	targetDate time.Time,
	waiterID *int64,
) ([]analytics.CategorySales, error) {
	orders, err := s.ordersInPeriod(ctx, restaurantID, period, targetDate, waiterID)
	if err != nil {
		return nil, err
	}
	return analytics.RankCategories(orders), nil
}

// WaiterPerformance ranks the period's waiters by sales.
func (s *Service) WaiterPerformance(
	ctx context.Context,
	restaurantID int64,
	period analytics.Period,
	targetDate time.Time,
) ([]analytics.WaiterPerformance, error) {
	orders, err := s.ordersInPeriod(ctx, restaurantID, period, targetDate, nil)
	if err != nil {
		return nil, err
	}
	names, err := s.waiters.NamesByID(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	return analytics.RankWaiters(orders, names), nil
}

// SalesTrends buckets the last `days` days of finished orders into a daily
// series ending today.
func (s *Service) SalesTrends(ctx context.Context, restaurantID int64, days int) ([]analytics.DailyTrend, error) {
	end := s.today()
	dateRange := analytics.DateRange{Start: end.AddDate(0, 0, -days), End: end}
	orders, err := s.orders.FinishedOrders(ctx, restaurantID, dateRange, nil)
	if err != nil {
		return nil, err
	}
	return analytics.DailyTrends(orders, s.location()), nil
}

// HourlySalesPattern returns the 24-slot sales pattern for one day.
func (s *Service) HourlySalesPattern(ctx context.Context, restaurantID int64, targetDate time.Time) ([]analytics.HourlySlot, error) {
	dateRange, err := s.resolveRange(analytics.PeriodDay, targetDate)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.FinishedOrders(ctx, restaurantID, dateRange, nil)
	if err != nil {
		return nil, err
	}
	return analytics.HourlyPattern(orders, s.location()), nil
}

// DetailedSales lists the period's orders newest first together with the
// summary computed from the same rows.
func (s *Service) DetailedSales(
	ctx context.Context,
	restaurantID int64,
	period analytics.Period,
	targetDate time.Time,
	waiterID *int64,
) (analytics.DetailedSales, error) {
	orders, err := s.ordersInPeriod(ctx, restaurantID, period, targetDate, waiterID)
	if err != nil {
		return analytics.DetailedSales{}, err
	}
	names, err := s.waiters.NamesByID(ctx, restaurantID)
	if err != nil {
		return analytics.DetailedSales{}, err
	}
	return analytics.DetailedSales{
		Summary: analytics.SummarizeOrders(orders),
		Orders:  analytics.OrderRows(orders, names),
	}, nil
}

// ActiveWaiters lists the restaurant's current staff roster. Historical
// reports still cover deactivated waiters; this is the forward-looking view.
func (s *Service) ActiveWaiters(ctx context.Context, restaurantID int64) ([]store.Waiter, error) {
	return s.waiters.Active(ctx, restaurantID)
}

// SalesByTable rolls the period's orders up per table.
func (s *Service) SalesByTable(
	ctx context.Context,
	restaurantID int64,
	period analytics.Period,
	targetDate time.Time,
) ([]analytics.TableSales, error) {
	orders, err := s.ordersInPeriod(ctx, restaurantID, period, targetDate, nil)
	if err != nil {
		return nil, err
	}
	return analytics.TableBreakdown(orders), nil
}

// DeriveAnalyticsForOrder materializes a finished order's per-category
// analytics records and returns how many were created. Zero with a nil error
// means the order was already derived; re-running checkout is a no-op. The
// existence check is the fast path, the unique constraint on
// (order_id, item_category) the real serialization under concurrent
// checkouts of the same order.
func (s *Service) DeriveAnalyticsForOrder(ctx context.Context, restaurantID, orderID int64) (int64, error) {
	order, err := s.orders.FinishedOrder(ctx, restaurantID, orderID)
	if err != nil {
		return 0, err
	}

	exists, err := s.records.ExistsForOrder(ctx, restaurantID, orderID)
	if err != nil {
		return 0, err
	}
	if exists {
		s.log.Debug("analytics records already derived",
			zap.Int64("restaurantId", restaurantID),
			zap.Int64("orderId", orderID))
		return 0, nil
	}

	records := analytics.DeriveRecords(order)
	if len(records) == 0 {
		s.log.Warn("finished order has no line items, nothing to derive",
			zap.Int64("restaurantId", restaurantID),
			zap.Int64("orderId", orderID))
		return 0, nil
	}

	inserted, err := s.records.InsertBatch(ctx, records)
	if err != nil {
		return 0, err
	}
	if inserted < int64(len(records)) {
		// Lost a race with a concurrent derivation of the same order.
		s.log.Info("concurrent derivation detected, kept existing records",
			zap.Int64("orderId", orderID),
			zap.Int64("inserted", inserted),
			zap.Int("derived", len(records)))
	}
	return inserted, nil
}

func (s *Service) ordersInPeriod(
	ctx context.Context,
	restaurantID int64,
	period analytics.Period,
	targetDate time.Time,
	waiterID *int64,
) ([]analytics.FinishedOrder, error) {
	dateRange, err := s.resolveRange(period, targetDate)
	if err != nil {
		return nil, err
	}
	return s.orders.FinishedOrders(ctx, restaurantID, dateRange, waiterID)
}

// resolveRange turns (period, target) into a date range, defaulting a zero
// target to today. The target's civil date is re-anchored to midnight in the
// reporting timezone so that range bounds fall on the restaurant's midnights
// no matter which location the caller built the target in.
func (s *Service) resolveRange(period analytics.Period, targetDate time.Time) (analytics.DateRange, error) {
	if targetDate.IsZero() {
		targetDate = s.today()
	} else {
		targetDate = time.Date(
			targetDate.Year(), targetDate.Month(), targetDate.Day(),
			0, 0, 0, 0, s.location())
	}
	return analytics.ResolvePeriod(period, targetDate)
}

func (s *Service) today() time.Time {
	loc := s.location()
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
}

func (s *Service) location() *time.Location {
	loc, err := time.LoadLocation(s.cfg.ReportTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
