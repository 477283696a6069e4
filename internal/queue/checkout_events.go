package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tableorder-analytics/internal/reports"
	"tableorder-analytics/internal/store"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	// EventsExchange is the topic exchange the order-management system
	// publishes lifecycle events to.
	EventsExchange = "tableorder.events"

	// AnalyticsQueue receives checkout events for record derivation.
	AnalyticsQueue  = "tableorder.analytics"
	AnalyticsDLQ    = "tableorder.analytics.dlq"
	AnalyticsDeadRK = "dead"

	// OrderFinishedBinding matches order.finished and any sub-keys the
	// producer may add later ('#' also matches multi-segment suffixes).
	OrderFinishedBinding = "order.finished.#"

	orderFinishedType = "order.finished"
)

// OrderFinishedEvent is the checkout notification published once the order
// transitions active -> finished. Duplicate deliveries are expected and
// harmless: derivation is idempotent per order.
type OrderFinishedEvent struct {
	Type         string     `json:"type"`
	RestaurantID int64      `json:"restaurantId"`
	OrderID      int64      `json:"orderId"`
	FinishedAt   *time.Time `json:"finishedAt"`
}

// ParseOrderFinishedEvent decodes and validates an event payload.
func ParseOrderFinishedEvent(body []byte) (OrderFinishedEvent, error) {
	var event OrderFinishedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return OrderFinishedEvent{}, fmt.Errorf("decode event: %w", err)
	}
	if event.Type != "" && event.Type != orderFinishedType {
		return OrderFinishedEvent{}, fmt.Errorf("unexpected event type %q", event.Type)
	}
	if event.RestaurantID <= 0 || event.OrderID <= 0 {
		return OrderFinishedEvent{}, fmt.Errorf("event missing restaurant or order id")
	}
	return event, nil
}

// EnsureAnalyticsTopology declares the exchange, the analytics queue with its
// dead-letter wiring, and the binding for checkout events. Safe to call on
// every startup.
func EnsureAnalyticsTopology(ctx context.Context, qc *Client) error {
	if qc == nil {
		return nil
	}

	if err := qc.EnsureExchangeKind(EventsExchange, "topic"); err != nil {
		return err
	}

	if _, err := qc.EnsureQueue(AnalyticsDLQ); err != nil {
		return err
	}
	if err := qc.BindQueue(AnalyticsDLQ, EventsExchange, AnalyticsDeadRK); err != nil {
		return err
	}

	_, err := qc.EnsureQueueWithArgs(AnalyticsQueue, amqp.Table{
		"x-dead-letter-exchange":    EventsExchange,
		"x-dead-letter-routing-key": AnalyticsDeadRK,
	})
	if err != nil {
		return err
	}
	return qc.BindQueue(AnalyticsQueue, EventsExchange, OrderFinishedBinding)
}

// ProcessOrderFinished is the consumer handler: parse the checkout event and
// derive the order's analytics records. Malformed payloads are dropped (a
// retry cannot fix them); a missing order is retried, since the event may
// have raced the producer's own commit.
func ProcessOrderFinished(ctx context.Context, svc *reports.Service, log *zap.Logger, body []byte) error {
	event, err := ParseOrderFinishedEvent(body)
	if err != nil {
		log.Warn("dropping malformed checkout event", zap.Error(err))
		return nil
	}

	created, err := svc.DeriveAnalyticsForOrder(ctx, event.RestaurantID, event.OrderID)
	if err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			log.Warn("checkout event for unknown order, will retry",
				zap.Int64("restaurantId", event.RestaurantID),
				zap.Int64("orderId", event.OrderID))
		}
		return err
	}

	if created == 0 {
		log.Debug("checkout event for already-derived order",
			zap.Int64("restaurantId", event.RestaurantID),
			zap.Int64("orderId", event.OrderID))
		return nil
	}

	log.Info("derived analytics records",
		zap.Int64("restaurantId", event.RestaurantID),
		zap.Int64("orderId", event.OrderID),
		zap.Int64("records", created),
		zap.Timep("finishedAt", event.FinishedAt))
	return nil
}
