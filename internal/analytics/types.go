package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status values written by the upstream order-management system. Only
// finished orders are visible to analytics; an order never leaves `finished`.
const (
	OrderStatusActive   = "active"
	OrderStatusFinished = "finished"
)

// UncategorizedCategory groups line items whose menu entry carries no
// category. Missing categorization is a data problem, not a derivation
// failure.
const UncategorizedCategory = "Uncategorized"

// DefaultTopLimit caps ranked listings when the caller does not ask for a
// specific limit.
const DefaultTopLimit = 10

// LineItem is one line of a finished order, with price and category already
// resolved from the menu at read time.
type LineItem struct {
	ProductID   int64           `json:"productId"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Quantity    int32           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	IsExtraItem bool            `json:"isExtraItem"`
}

// Subtotal is quantity times unit price.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt32(li.Quantity))
}

// FinishedOrder is a checked-out dining session together with its line items.
// Immutable as far as analytics is concerned.
type FinishedOrder struct {
	ID           int64           `json:"id"`
	RestaurantID int64           `json:"restaurantId"`
	TableNumber  int32           `json:"tableNumber"`
	WaiterID     *int64          `json:"waiterId"`
	TipAmount    decimal.Decimal `json:"tipAmount"`
	FinishedAt   time.Time       `json:"finishedAt"`
	Items        []LineItem      `json:"items"`
}

// Revenue is the order's pre-tip item total.
func (o FinishedOrder) Revenue() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Record is one denormalized analytics fact row: a single category's
// contribution to a single finished order. Derived exactly once per
// (order, category) at checkout, never hand-edited.
type Record struct {
	ID           int64           `json:"id"`
	RestaurantID int64           `json:"restaurantId"`
	OrderID      int64           `json:"orderId"`
	TableNumber  int32           `json:"tableNumber"`
	WaiterID     *int64          `json:"waiterId"`
	ItemName     string          `json:"itemName"`
	ItemCategory string          `json:"itemCategory"`
	Quantity     int32           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
	TipAmount    decimal.Decimal `json:"tipAmount"`
	CheckoutDate time.Time       `json:"checkoutDate"`
}

// Summary is the headline rollup for a period. Empty periods produce zero
// values, never nulls.
type Summary struct {
	TotalOrders int64           `json:"totalOrders"`
	TotalSales  decimal.Decimal `json:"totalSales"`
	TotalTips   decimal.Decimal `json:"totalTips"`
}

// ItemSales is one menu item's ranked performance within a period.
type ItemSales struct {
	ProductID      int64           `json:"productId"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	QuantitySold   int64           `json:"quantitySold"`
	Revenue        decimal.Decimal `json:"revenue"`
	OrderFrequency int64           `json:"orderFrequency"`
}

// CategorySales is one menu category's rollup within a period.
type CategorySales struct {
	Category       string          `json:"category"`
	QuantitySold   int64           `json:"quantitySold"`
	Revenue        decimal.Decimal `json:"revenue"`
	UniqueItems    int64           `json:"uniqueItems"`
	OrderFrequency int64           `json:"orderFrequency"`
}

// WaiterPerformance is one waiter's rollup within a period.
type WaiterPerformance struct {
	WaiterID      int64           `json:"waiterId"`
	Name          string          `json:"name"`
	TotalOrders   int64           `json:"totalOrders"`
	TotalSales    decimal.Decimal `json:"totalSales"`
	TotalTips     decimal.Decimal `json:"totalTips"`
	AvgOrderValue decimal.Decimal `json:"avgOrderValue"`
	TablesServed  int64           `json:"tablesServed"`
}

// DailyTrend is one calendar day in a trend series.
type DailyTrend struct {
	Date    string          `json:"date"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
	Tips    decimal.Decimal `json:"tips"`
}

// HourlySlot is one hour of a single day's sales pattern.
type HourlySlot struct {
	Hour    int             `json:"hour"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// OrderSales is one finished order in a detailed listing.
type OrderSales struct {
	OrderID     int64           `json:"orderId"`
	TableNumber int32           `json:"tableNumber"`
	WaiterName  string          `json:"waiterName"`
	TotalSales  decimal.Decimal `json:"totalSales"`
	TotalTips   decimal.Decimal `json:"totalTips"`
	FinishedAt  time.Time       `json:"finishedAt"`
}

// TableSales is one table's rollup within a period.
type TableSales struct {
	TableNumber int32           `json:"tableNumber"`
	TotalOrders int64           `json:"totalOrders"`
	TotalSales  decimal.Decimal `json:"totalSales"`
	TotalTips   decimal.Decimal `json:"totalTips"`
}

// DetailedSales pairs per-order rows with the period summary computed from
// the same rows.
type DetailedSales struct {
	Summary Summary      `json:"summary"`
	Orders  []OrderSales `json:"orders"`
}
