package analytics

import (
	"testing"
	"time"
)

func TestRankItems(t *testing.T) {
	items := RankItems(fixtureOrders(), 10)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	// Pizza qty 3, Coke qty 3 (tie, pizza seen first), Tiramisu qty 2.
	if items[0].Name != "Pizza Margherita" || items[1].Name != "Coke" {
		t.Fatalf("expected Pizza then Coke, got %s then %s", items[0].Name, items[1].Name)
	}
	if items[0].QuantitySold != 3 {
		t.Fatalf("expected pizza quantity 3, got %d", items[0].QuantitySold)
	}
	if !items[0].Revenue.Equal(money("37.50")) {
		t.Fatalf("expected pizza revenue 37.50, got %s", items[0].Revenue)
	}
	if items[0].OrderFrequency != 2 {
		t.Fatalf("expected pizza in 2 distinct orders, got %d", items[0].OrderFrequency)
	}
	if items[2].Name != "Tiramisu" {
		t.Fatalf("expected Tiramisu last, got %s", items[2].Name)
	}
}

func TestRankItemsDeterministicTies(t *testing.T) {
	for run := 0; run < 20; run++ {
		items := RankItems(fixtureOrders(), 10)
		if items[0].Name != "Pizza Margherita" || items[1].Name != "Coke" {
			t.Fatalf("run %d: tie order changed: %s then %s", run, items[0].Name, items[1].Name)
		}
	}
}

func TestRankItemsLimit(t *testing.T) {
	items := RankItems(fixtureOrders(), 2)
	if len(items) != 2 {
		t.Fatalf("expected truncation to 2, got %d", len(items))
	}

	// Non-positive limits fall back to the default.
	items = RankItems(fixtureOrders(), 0)
	if len(items) != 3 {
		t.Fatalf("expected all 3 items under default limit, got %d", len(items))
	}
}

func TestRankItemsEmpty(t *testing.T) {
	items := RankItems(nil, 10)
	if len(items) != 0 {
		t.Fatalf("expected empty ranking, got %d entries", len(items))
	}
}

func TestRankCategories(t *testing.T) {
	categories := RankCategories(fixtureOrders())
	if len(categories) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(categories))
	}

	// Food 37.50, Desserts 13.00, Beverages 7.50.
	if categories[0].Category != "Food" {
		t.Fatalf("expected Food first, got %s", categories[0].Category)
	}
	if !categories[0].Revenue.Equal(money("37.50")) {
		t.Fatalf("expected Food revenue 37.50, got %s", categories[0].Revenue)
	}
	if categories[1].Category != "Desserts" || categories[2].Category != "Beverages" {
		t.Fatalf("expected Desserts then Beverages, got %s then %s",
			categories[1].Category, categories[2].Category)
	}
	if categories[2].QuantitySold != 3 {
		t.Fatalf("expected Beverages quantity 3, got %d", categories[2].QuantitySold)
	}
	if categories[2].OrderFrequency != 2 {
		t.Fatalf("expected Beverages in 2 orders, got %d", categories[2].OrderFrequency)
	}
	if categories[0].UniqueItems != 1 {
		t.Fatalf("expected 1 unique Food item, got %d", categories[0].UniqueItems)
	}
}

func TestRankCategoriesUncategorizedFallback(t *testing.T) {
	orders := []FinishedOrder{{
		ID:         60,
		FinishedAt: time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC),
		Items: []LineItem{
			{ProductID: 9, Name: "Mystery", Category: "", Quantity: 1, UnitPrice: money("4.00")},
		},
	}}
	categories := RankCategories(orders)
	if len(categories) != 1 || categories[0].Category != UncategorizedCategory {
		t.Fatalf("expected a single %s group, got %+v", UncategorizedCategory, categories)
	}
}

func TestRankWaiters(t *testing.T) {
	names := map[int64]string{3: "Maria", 4: "Luca"}
	waiters := RankWaiters(fixtureOrders(), names)
	if len(waiters) != 2 {
		t.Fatalf("expected 2 waiters, got %d", len(waiters))
	}

	// Maria: orders 42 + 44 = 40.00 sales; Luca: order 43 = 18.00.
	if waiters[0].Name != "Maria" {
		t.Fatalf("expected Maria first, got %s", waiters[0].Name)
	}
	if waiters[0].TotalOrders != 2 || !waiters[0].TotalSales.Equal(money("40.00")) {
		t.Fatalf("unexpected Maria rollup: %d orders, sales %s", waiters[0].TotalOrders, waiters[0].TotalSales)
	}
	if !waiters[0].TotalTips.Equal(money("6.50")) {
		t.Fatalf("expected Maria tips 6.50, got %s", waiters[0].TotalTips)
	}
	if !waiters[0].AvgOrderValue.Equal(money("20.00")) {
		t.Fatalf("expected Maria avg order 20.00, got %s", waiters[0].AvgOrderValue)
	}
	if waiters[0].TablesServed != 1 {
		t.Fatalf("expected Maria to serve 1 table, got %d", waiters[0].TablesServed)
	}
}

func TestRankWaitersPlaceholderName(t *testing.T) {
	waiters := RankWaiters(fixtureOrders(), nil)
	for _, w := range waiters {
		if w.Name == "" {
			t.Fatalf("expected placeholder name for waiter %d", w.WaiterID)
		}
	}
	if waiters[0].Name != "Waiter 3" {
		t.Fatalf("expected placeholder Waiter 3, got %s", waiters[0].Name)
	}
}

func TestRankWaitersSkipsUnassignedOrders(t *testing.T) {
	unassigned := FinishedOrder{
		ID:         70,
		FinishedAt: time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC),
		Items:      []LineItem{{ProductID: 1, Name: "Pizza", Category: "Food", Quantity: 1, UnitPrice: money("12.50")}},
	}
	waiters := RankWaiters([]FinishedOrder{unassigned}, nil)
	if len(waiters) != 0 {
		t.Fatalf("expected no waiter rows for unassigned orders, got %d", len(waiters))
	}
}
