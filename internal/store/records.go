package store

import (
	"context"
	"fmt"

	"tableorder-analytics/internal/analytics"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RecordStore owns the analytics_records table: the append-only fact rows
// derived once per (order, category) at checkout. The UNIQUE constraint on
// (order_id, item_category) is the hard idempotence guard; the existence
// check in the deriver is only a fast path in front of it.
type RecordStore struct {
	pool *pgxpool.Pool
}

func NewRecordStore(pool *pgxpool.Pool) *RecordStore {
	return &RecordStore{pool: pool}
}

// InRange returns derived records whose checkout date falls inside the range,
// newest first, optionally narrowed to one waiter.
func (s *RecordStore) InRange(
	ctx context.Context,
	restaurantID int64,
	dateRange analytics.DateRange,
	waiterID *int64,
) ([]analytics.Record, error) {
	// Same instant bounds as the order store, so both summary sources see
	// the identical slice of time.
	from, to := dateRange.Bounds()
	rows, err := s.pool.Query(ctx, `
		select id, order_id, table_number, waiter_id, item_name, item_category,
		       quantity, unit_price, total_price, tip_amount, checkout_date
		from analytics_records
		where restaurant_id = $1
		  and checkout_date >= $2
		  and checkout_date < $3
		  and ($4::bigint is null or waiter_id = $4)
		order by checkout_date desc, id desc
	`, restaurantID, from, to, waiterID)
	if err != nil {
		return nil, fmt.Errorf("records.InRange: %w", err)
	}
	defer rows.Close()

	var records []analytics.Record
	for rows.Next() {
		record := analytics.Record{RestaurantID: restaurantID}
		if err := rows.Scan(
			&record.ID,
			&record.OrderID,
			&record.TableNumber,
			&record.WaiterID,
			&record.ItemName,
			&record.ItemCategory,
			&record.Quantity,
			&record.UnitPrice,
			&record.TotalPrice,
			&record.TipAmount,
			&record.CheckoutDate,
		); err != nil {
			return nil, fmt.Errorf("records.InRange scan: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// ExistsForOrder reports whether any record has already been derived for the
// order.
func (s *RecordStore) ExistsForOrder(ctx context.Context, restaurantID, orderID int64) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		select exists (
			select 1 from analytics_records
			where restaurant_id = $1 and order_id = $2
		)
	`, restaurantID, orderID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("records.ExistsForOrder: %w", err)
	}
	return exists, nil
}

// InsertBatch writes one derivation's records in a single transaction and
// returns how many rows were actually inserted. Conflicts on
// (order_id, item_category) are skipped, so a concurrent derivation of the
// same order ends up with one of the two calls reporting zero rows.
func (s *RecordStore) InsertBatch(ctx context.Context, records []analytics.Record) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("records.InsertBatch begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var inserted int64
	for _, record := range records {
		tag, err := tx.Exec(ctx, `
			insert into analytics_records (
				restaurant_id, order_id, table_number, waiter_id,
				item_name, item_category, quantity,
				unit_price, total_price, tip_amount, checkout_date
			) values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			on conflict (order_id, item_category) do nothing
		`,
			record.RestaurantID,
			record.OrderID,
			record.TableNumber,
			record.WaiterID,
			record.ItemName,
			record.ItemCategory,
			record.Quantity,
			record.UnitPrice,
			record.TotalPrice,
			record.TipAmount,
			record.CheckoutDate,
		)
		if err != nil {
			return 0, fmt.Errorf("records.InsertBatch exec: %w", err)
		}
		inserted += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("records.InsertBatch commit: %w", err)
	}
	return inserted, nil
}
