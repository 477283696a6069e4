package analytics

import (
	"testing"
	"time"
)

func fixtureOrders() []FinishedOrder {
	return []FinishedOrder{
		pizzaOrder(),
		{
			ID:           43,
			RestaurantID: 1,
			TableNumber:  2,
			WaiterID:     waiter(4),
			TipAmount:    money("2.00"),
			FinishedAt:   time.Date(2024, time.June, 15, 13, 15, 0, 0, time.UTC),
			Items: []LineItem{
				{ProductID: 3, Name: "Tiramisu", Category: "Desserts", Quantity: 2, UnitPrice: money("6.50")},
				{ProductID: 2, Name: "Coke", Category: "Beverages", Quantity: 2, UnitPrice: money("2.50")},
			},
		},
		{
			ID:           44,
			RestaurantID: 1,
			TableNumber:  7,
			WaiterID:     waiter(3),
			TipAmount:    money("1.50"),
			FinishedAt:   time.Date(2024, time.June, 16, 19, 0, 0, 0, time.UTC),
			Items: []LineItem{
				{ProductID: 1, Name: "Pizza Margherita", Category: "Food", Quantity: 1, UnitPrice: money("12.50")},
			},
		},
	}
}

func TestSummarizeOrders(t *testing.T) {
	summary := SummarizeOrders(fixtureOrders())

	if summary.TotalOrders != 3 {
		t.Fatalf("expected 3 orders, got %d", summary.TotalOrders)
	}
	// 27.50 + 18.00 + 12.50
	if !summary.TotalSales.Equal(money("58.00")) {
		t.Fatalf("expected sales 58.00, got %s", summary.TotalSales)
	}
	if !summary.TotalTips.Equal(money("8.50")) {
		t.Fatalf("expected tips 8.50, got %s", summary.TotalTips)
	}
}

func TestSummarizeOrdersPizzaDay(t *testing.T) {
	summary := SummarizeOrders([]FinishedOrder{pizzaOrder()})

	if summary.TotalOrders != 1 {
		t.Fatalf("expected 1 order, got %d", summary.TotalOrders)
	}
	if !summary.TotalSales.Equal(money("27.50")) {
		t.Fatalf("expected sales 27.50, got %s", summary.TotalSales)
	}
	if !summary.TotalTips.Equal(money("5.00")) {
		t.Fatalf("expected tips 5.00, got %s", summary.TotalTips)
	}
}

func TestSummarizeOrdersZeroData(t *testing.T) {
	for _, orders := range [][]FinishedOrder{nil, {}} {
		summary := SummarizeOrders(orders)
		if summary.TotalOrders != 0 {
			t.Fatalf("expected 0 orders, got %d", summary.TotalOrders)
		}
		if !summary.TotalSales.IsZero() || !summary.TotalTips.IsZero() {
			t.Fatalf("expected zero sums, got sales %s tips %s", summary.TotalSales, summary.TotalTips)
		}
	}
}

func TestSummarizeOrdersSkipsEmptyOrders(t *testing.T) {
	orders := append(fixtureOrders(), FinishedOrder{ID: 99, TipAmount: money("9.99")})
	summary := SummarizeOrders(orders)
	if summary.TotalOrders != 3 {
		t.Fatalf("expected empty order to be excluded, got %d orders", summary.TotalOrders)
	}
	if !summary.TotalTips.Equal(money("8.50")) {
		t.Fatalf("expected empty order's tip to be excluded, got %s", summary.TotalTips)
	}
}

// The core consistency property: aggregating derived records must give the
// same totals as aggregating the live orders they were derived from.
func TestSummariesAgreeAcrossSources(t *testing.T) {
	orders := fixtureOrders()

	var records []Record
	for _, order := range orders {
		records = append(records, DeriveRecords(order)...)
	}

	live := SummarizeOrders(orders)
	derived := SummarizeRecords(records)

	if live.TotalOrders != derived.TotalOrders {
		t.Fatalf("order counts disagree: live %d, derived %d", live.TotalOrders, derived.TotalOrders)
	}
	if !live.TotalSales.Equal(derived.TotalSales) {
		t.Fatalf("sales disagree: live %s, derived %s", live.TotalSales, derived.TotalSales)
	}
	if !live.TotalTips.Equal(derived.TotalTips) {
		t.Fatalf("tips disagree: live %s, derived %s", live.TotalTips, derived.TotalTips)
	}
}

// Deriving twice and aggregating the union of one derivation's records must
// equal a single derivation: the aggregator itself never double counts an
// order's tip across its category rows.
func TestSummarizeRecordsCountsOrdersOnce(t *testing.T) {
	records := DeriveRecords(pizzaOrder())
	summary := SummarizeRecords(records)

	if summary.TotalOrders != 1 {
		t.Fatalf("expected 1 distinct order across %d category rows, got %d", len(records), summary.TotalOrders)
	}
	if !summary.TotalTips.Equal(money("5.00")) {
		t.Fatalf("expected tips 5.00, got %s", summary.TotalTips)
	}
}

func TestDailyTrends(t *testing.T) {
	trends := DailyTrends(fixtureOrders(), time.UTC)
	if len(trends) != 2 {
		t.Fatalf("expected 2 days, got %d", len(trends))
	}
	if trends[0].Date != "2024-06-15" || trends[1].Date != "2024-06-16" {
		t.Fatalf("expected ascending dates, got %s then %s", trends[0].Date, trends[1].Date)
	}
	if trends[0].Orders != 2 || !trends[0].Revenue.Equal(money("45.50")) {
		t.Fatalf("unexpected first day: %d orders, revenue %s", trends[0].Orders, trends[0].Revenue)
	}
	if !trends[1].Tips.Equal(money("1.50")) {
		t.Fatalf("expected second day tips 1.50, got %s", trends[1].Tips)
	}
}

func TestHourlyPattern(t *testing.T) {
	slots := HourlyPattern(fixtureOrders(), time.UTC)
	if len(slots) != 24 {
		t.Fatalf("expected 24 slots, got %d", len(slots))
	}
	if slots[13].Orders != 1 || !slots[13].Revenue.Equal(money("18.00")) {
		t.Fatalf("unexpected 13:00 slot: %d orders, revenue %s", slots[13].Orders, slots[13].Revenue)
	}
	if slots[0].Orders != 0 || !slots[0].Revenue.IsZero() {
		t.Fatalf("expected empty hours to stay zero-filled")
	}
}

// An order closed just after midnight restaurant time lands on the previous
// UTC day; bucketing must follow the restaurant's wall clock, not the zone
// the timestamp was scanned in.
func TestHourlyPatternFollowsLocation(t *testing.T) {
	restaurant := time.FixedZone("UTC+2", 2*60*60)
	order := pizzaOrder()
	order.FinishedAt = time.Date(2024, time.June, 14, 22, 30, 0, 0, time.UTC)

	slots := HourlyPattern([]FinishedOrder{order}, restaurant)
	if slots[0].Orders != 1 {
		t.Fatalf("expected the order in slot 0 restaurant time, got %d", slots[0].Orders)
	}
	if slots[22].Orders != 0 {
		t.Fatalf("order was bucketed in UTC slot 22")
	}
}

func TestDailyTrendsFollowLocation(t *testing.T) {
	restaurant := time.FixedZone("UTC+2", 2*60*60)
	order := pizzaOrder()
	order.FinishedAt = time.Date(2024, time.June, 14, 22, 30, 0, 0, time.UTC)

	trends := DailyTrends([]FinishedOrder{order}, restaurant)
	if len(trends) != 1 || trends[0].Date != "2024-06-15" {
		t.Fatalf("expected the order on 2024-06-15 restaurant time, got %+v", trends)
	}
}

func TestTableBreakdown(t *testing.T) {
	tables := TableBreakdown(fixtureOrders())
	if len(tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(tables))
	}
	if tables[0].TableNumber != 2 || tables[1].TableNumber != 7 {
		t.Fatalf("expected tables ordered by number, got %d then %d", tables[0].TableNumber, tables[1].TableNumber)
	}
	if tables[1].TotalOrders != 2 || !tables[1].TotalSales.Equal(money("40.00")) {
		t.Fatalf("unexpected table 7 rollup: %d orders, sales %s", tables[1].TotalOrders, tables[1].TotalSales)
	}
}

func TestOrderRows(t *testing.T) {
	names := map[int64]string{3: "Maria", 4: "Luca"}
	rows := OrderRows(fixtureOrders(), names)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].OrderID != 44 {
		t.Fatalf("expected newest order first, got %d", rows[0].OrderID)
	}
	if rows[0].WaiterName != "Maria" {
		t.Fatalf("expected waiter name Maria, got %s", rows[0].WaiterName)
	}

	unassigned := FinishedOrder{
		ID:         50,
		FinishedAt: time.Date(2024, time.June, 17, 12, 0, 0, 0, time.UTC),
		Items:      []LineItem{{ProductID: 1, Name: "Pizza", Category: "Food", Quantity: 1, UnitPrice: money("12.50")}},
	}
	rows = OrderRows([]FinishedOrder{unassigned}, names)
	if rows[0].WaiterName != "Unknown" {
		t.Fatalf("expected Unknown for unassigned waiter, got %s", rows[0].WaiterName)
	}
}
