package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// WaiterStore is the read-only view of the restaurant's staff: names for
// waiter grouping and the active roster.
type WaiterStore struct {
	pool *pgxpool.Pool
}

// Waiter is one staff row.
type Waiter struct {
	ID     int64
	Name   string
	Active bool
}

func NewWaiterStore(pool *pgxpool.Pool) *WaiterStore {
	return &WaiterStore{pool: pool}
}

// NamesByID maps the restaurant's waiter ids to display names. Inactive
// waiters are included: they may still appear on historical orders.
func (s *WaiterStore) NamesByID(ctx context.Context, restaurantID int64) (map[int64]string, error) {
	rows, err := s.pool.Query(ctx, `
		select id, name from waiters where restaurant_id = $1
	`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("waiters.NamesByID: %w", err)
	}
	defer rows.Close()

	names := make(map[int64]string)
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("waiters.NamesByID scan: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}

// Active lists the restaurant's currently active waiters, ordered by name.
// Deactivated staff stay out of the roster even though their historical
// orders remain reportable.
func (s *WaiterStore) Active(ctx context.Context, restaurantID int64) ([]Waiter, error) {
	rows, err := s.pool.Query(ctx, `
		select id, name, active from waiters
		where restaurant_id = $1 and active
		order by name, id
	`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("waiters.Active: %w", err)
	}
	defer rows.Close()

	waiters, err := collectWaiters(rows)
	if err != nil {
		return nil, fmt.Errorf("waiters.Active scan: %w", err)
	}
	return waiters, nil
}

func collectWaiters(rows queryRows) ([]Waiter, error) {
	var waiters []Waiter
	for rows.Next() {
		var w Waiter
		if err := rows.Scan(&w.ID, &w.Name, &w.Active); err != nil {
			return nil, err
		}
		waiters = append(waiters, w)
	}
	return waiters, rows.Err()
}
