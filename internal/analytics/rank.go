package analytics

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// RankItems groups line items by menu item and ranks them by quantity sold,
// descending. Ties keep first-seen order (stable sort over insertion order),
// so repeated calls over the same data rank identically. A non-positive limit
// falls back to DefaultTopLimit.
func RankItems(orders []FinishedOrder, limit int) []ItemSales {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	index := make(map[int64]*ItemSales)
	ranked := make([]*ItemSales, 0)

	for _, order := range orders {
		seenInOrder := make(map[int64]struct{})
		for _, item := range order.Items {
			entry := index[item.ProductID]
			if entry == nil {
				entry = &ItemSales{
					ProductID: item.ProductID,
					Name:      item.Name,
					Category:  normalizeCategory(item.Category),
					Revenue:   decimal.Zero,
				}
				index[item.ProductID] = entry
				ranked = append(ranked, entry)
			}
			entry.QuantitySold += int64(item.Quantity)
			entry.Revenue = entry.Revenue.Add(item.Subtotal())
			if _, ok := seenInOrder[item.ProductID]; !ok {
				seenInOrder[item.ProductID] = struct{}{}
				entry.OrderFrequency++
			}
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].QuantitySold > ranked[j].QuantitySold
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	result := make([]ItemSales, 0, len(ranked))
	for _, entry := range ranked {
		result = append(result, *entry)
	}
	return result
}

// RankCategories rolls line items up per category and ranks categories by
// revenue, descending, ties in first-seen order. Blank categories fold into
// the Uncategorized sentinel. The breakdown is never truncated.
func RankCategories(orders []FinishedOrder) []CategorySales {
	type categoryAgg struct {
		sales    CategorySales
		products map[int64]struct{}
	}

	index := make(map[string]*categoryAgg)
	ranked := make([]*categoryAgg, 0)

	for _, order := range orders {
		seenInOrder := make(map[string]struct{})
		for _, item := range order.Items {
			category := normalizeCategory(item.Category)
			entry := index[category]
			if entry == nil {
				entry = &categoryAgg{
					sales:    CategorySales{Category: category, Revenue: decimal.Zero},
					products: make(map[int64]struct{}),
				}
				index[category] = entry
				ranked = append(ranked, entry)
			}
			entry.sales.QuantitySold += int64(item.Quantity)
			entry.sales.Revenue = entry.sales.Revenue.Add(item.Subtotal())
			entry.products[item.ProductID] = struct{}{}
			if _, ok := seenInOrder[category]; !ok {
				seenInOrder[category] = struct{}{}
				entry.sales.OrderFrequency++
			}
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].sales.Revenue.GreaterThan(ranked[j].sales.Revenue)
	})

	result := make([]CategorySales, 0, len(ranked))
	for _, entry := range ranked {
		entry.sales.UniqueItems = int64(len(entry.products))
		result = append(result, entry.sales)
	}
	return result
}

// RankWaiters rolls finished orders up per waiter and ranks waiters by sales,
// descending, ties in first-seen order. Orders without an assigned waiter are
// skipped; ids missing from the name map get a placeholder name.
func RankWaiters(orders []FinishedOrder, names map[int64]string) []WaiterPerformance {
	type waiterAgg struct {
		perf   WaiterPerformance
		tables map[int32]struct{}
	}

	index := make(map[int64]*waiterAgg)
	ranked := make([]*waiterAgg, 0)

	for _, order := range orders {
		if order.WaiterID == nil || len(order.Items) == 0 {
			continue
		}
		id := *order.WaiterID
		entry := index[id]
		if entry == nil {
			name, ok := names[id]
			if !ok {
				name = fmt.Sprintf("Waiter %d", id)
			}
			entry = &waiterAgg{
				perf: WaiterPerformance{
					WaiterID:   id,
					Name:       name,
					TotalSales: decimal.Zero,
					TotalTips:  decimal.Zero,
				},
				tables: make(map[int32]struct{}),
			}
			index[id] = entry
			ranked = append(ranked, entry)
		}
		entry.perf.TotalOrders++
		entry.perf.TotalSales = entry.perf.TotalSales.Add(order.Revenue())
		entry.perf.TotalTips = entry.perf.TotalTips.Add(order.TipAmount)
		entry.tables[order.TableNumber] = struct{}{}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].perf.TotalSales.GreaterThan(ranked[j].perf.TotalSales)
	})

	result := make([]WaiterPerformance, 0, len(ranked))
	for _, entry := range ranked {
		entry.perf.TablesServed = int64(len(entry.tables))
		entry.perf.AvgOrderValue = entry.perf.TotalSales.
			DivRound(decimal.NewFromInt(entry.perf.TotalOrders), 2)
		result = append(result, entry.perf)
	}
	return result
}
