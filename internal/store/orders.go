package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tableorder-analytics/internal/analytics"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrOrderNotFound is returned when an order id does not resolve to a
// finished order for the given restaurant.
var ErrOrderNotFound = errors.New("finished order not found")

// OrderStore reads finished orders and their line items from the tables the
// upstream order-management system writes. Prices and categories are resolved
// through the menu at read time.
type OrderStore struct {
	pool *pgxpool.Pool
}

func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

// Legacy rows finished before finished_at existed fall back to created_at.
const finishedOrderColumns = `
	o.id, o.table_number, o.waiter_id, o.tip_amount,
	coalesce(o.finished_at, o.created_at),
	oi.product_id, mi.name, mi.category, oi.qty, mi.price, oi.is_extra_item`

// FinishedOrders returns the restaurant's finished orders whose checkout date
// falls inside the range, optionally narrowed to one waiter. Line rows are
// folded into their orders; ordering is by checkout time then order id so the
// result is stable across calls.
func (s *OrderStore) FinishedOrders(
	ctx context.Context,
	restaurantID int64,
	dateRange analytics.DateRange,
	waiterID *int64,
) ([]analytics.FinishedOrder, error) {
	// Half-open instant bounds keep the day boundary in the reporting
	// timezone; a ::date cast would move it to the session timezone.
	from, to := dateRange.Bounds()
	rows, err := s.pool.Query(ctx, `
		select`+finishedOrderColumns+`
		from orders o
		join order_items oi on oi.order_id = o.id
		join menu_items mi on mi.id = oi.product_id
		where o.restaurant_id = $1
		  and o.status = 'finished'
		  and coalesce(o.finished_at, o.created_at) >= $2
		  and coalesce(o.finished_at, o.created_at) < $3
		  and ($4::bigint is null or o.waiter_id = $4)
		order by coalesce(o.finished_at, o.created_at), o.id, oi.id
	`, restaurantID, from, to, waiterID)
	if err != nil {
		return nil, fmt.Errorf("orders.FinishedOrders: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("orders.FinishedOrders scan: %w", err)
	}
	return orders, nil
}

// FinishedOrder loads a single finished order with its line items, or
// ErrOrderNotFound if the order does not exist, belongs to another restaurant,
// or has not been checked out yet.
func (s *OrderStore) FinishedOrder(ctx context.Context, restaurantID, orderID int64) (analytics.FinishedOrder, error) {
	rows, err := s.pool.Query(ctx, `
		select`+finishedOrderColumns+`
		from orders o
		join order_items oi on oi.order_id = o.id
		join menu_items mi on mi.id = oi.product_id
		where o.restaurant_id = $1
		  and o.id = $2
		  and o.status = 'finished'
		order by oi.id
	`, restaurantID, orderID)
	if err != nil {
		return analytics.FinishedOrder{}, fmt.Errorf("orders.FinishedOrder: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows, restaurantID)
	if err != nil {
		return analytics.FinishedOrder{}, fmt.Errorf("orders.FinishedOrder scan: %w", err)
	}
	if len(orders) == 0 {
		return analytics.FinishedOrder{}, fmt.Errorf("%w: order %d", ErrOrderNotFound, orderID)
	}
	return orders[0], nil
}

// queryRows is the slice of pgx.Rows the collect helpers need; tests feed
// them canned tuples through it.
type queryRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func collectOrders(rows queryRows, restaurantID int64) ([]analytics.FinishedOrder, error) {
	var orders []analytics.FinishedOrder
	index := make(map[int64]int)

	for rows.Next() {
		var (
			orderID     int64
			tableNumber int32
			waiterID    *int64
			tipAmount   decimal.Decimal
			finishedAt  time.Time
			item        analytics.LineItem
		)
		if err := rows.Scan(
			&orderID,
			&tableNumber,
			&waiterID,
			&tipAmount,
			&finishedAt,
			&item.ProductID,
			&item.Name,
			&item.Category,
			&item.Quantity,
			&item.UnitPrice,
			&item.IsExtraItem,
		); err != nil {
			return nil, err
		}

		pos, ok := index[orderID]
		if !ok {
			pos = len(orders)
			index[orderID] = pos
			orders = append(orders, analytics.FinishedOrder{
				ID:           orderID,
				RestaurantID: restaurantID,
				TableNumber:  tableNumber,
				WaiterID:     waiterID,
				TipAmount:    tipAmount,
				FinishedAt:   finishedAt,
			})
		}
		orders[pos].Items = append(orders[pos].Items, item)
	}
	return orders, rows.Err()
}
