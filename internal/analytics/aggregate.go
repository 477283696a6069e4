package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SummarizeOrders folds finished orders into period totals. Tips live on the
// order, not its line rows, so an order spanning several categories is still
// counted and tipped once. Orders that somehow finished without line items
// contribute nothing.
func SummarizeOrders(orders []FinishedOrder) Summary {
	summary := Summary{TotalSales: decimal.Zero, TotalTips: decimal.Zero}
	for _, order := range orders {
		if len(order.Items) == 0 {
			continue
		}
		summary.TotalOrders++
		summary.TotalSales = summary.TotalSales.Add(order.Revenue())
		summary.TotalTips = summary.TotalTips.Add(order.TipAmount)
	}
	return summary
}

// SummarizeRecords computes the same totals from derived analytics records.
// A finished order contributes one record per category; counting distinct
// order ids keeps the record-sourced order count equal to the live one, and
// the derivation's tip reconciliation keeps the tip total equal as well.
func SummarizeRecords(records []Record) Summary {
	summary := Summary{TotalSales: decimal.Zero, TotalTips: decimal.Zero}
	seen := make(map[int64]struct{}, len(records))
	for _, record := range records {
		if _, ok := seen[record.OrderID]; !ok {
			seen[record.OrderID] = struct{}{}
			summary.TotalOrders++
		}
		summary.TotalSales = summary.TotalSales.Add(record.TotalPrice)
		summary.TotalTips = summary.TotalTips.Add(record.TipAmount)
	}
	return summary
}

// DailyTrends buckets orders into calendar days of the given location,
// ascending by date. A nil location buckets in UTC.
func DailyTrends(orders []FinishedOrder, loc *time.Location) []DailyTrend {
	if loc == nil {
		loc = time.UTC
	}
	byDate := make(map[string]*DailyTrend)
	for _, order := range orders {
		if len(order.Items) == 0 {
			continue
		}
		key := order.FinishedAt.In(loc).Format("2006-01-02")
		entry := byDate[key]
		if entry == nil {
			entry = &DailyTrend{Date: key, Revenue: decimal.Zero, Tips: decimal.Zero}
			byDate[key] = entry
		}
		entry.Orders++
		entry.Revenue = entry.Revenue.Add(order.Revenue())
		entry.Tips = entry.Tips.Add(order.TipAmount)
	}

	result := make([]DailyTrend, 0, len(byDate))
	for _, entry := range byDate {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})
	return result
}

// HourlyPattern buckets a day's orders into 24 fixed slots of the given
// location's wall clock. Hours without sales stay at zero so the series is
// always complete; a nil location buckets in UTC.
func HourlyPattern(orders []FinishedOrder, loc *time.Location) []HourlySlot {
	if loc == nil {
		loc = time.UTC
	}
	slots := make([]HourlySlot, 24)
	for hour := range slots {
		slots[hour] = HourlySlot{Hour: hour, Revenue: decimal.Zero}
	}
	for _, order := range orders {
		if len(order.Items) == 0 {
			continue
		}
		hour := order.FinishedAt.In(loc).Hour()
		slots[hour].Orders++
		slots[hour].Revenue = slots[hour].Revenue.Add(order.Revenue())
	}
	return slots
}

// TableBreakdown rolls orders up per table, ascending by table number.
func TableBreakdown(orders []FinishedOrder) []TableSales {
	byTable := make(map[int32]*TableSales)
	for _, order := range orders {
		if len(order.Items) == 0 {
			continue
		}
		entry := byTable[order.TableNumber]
		if entry == nil {
			entry = &TableSales{
				TableNumber: order.TableNumber,
				TotalSales:  decimal.Zero,
				TotalTips:   decimal.Zero,
			}
			byTable[order.TableNumber] = entry
		}
		entry.TotalOrders++
		entry.TotalSales = entry.TotalSales.Add(order.Revenue())
		entry.TotalTips = entry.TotalTips.Add(order.TipAmount)
	}

	result := make([]TableSales, 0, len(byTable))
	for _, entry := range byTable {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].TableNumber < result[j].TableNumber
	})
	return result
}

// OrderRows lists orders newest first with waiter names resolved. Orders
// without an assigned waiter show as "Unknown".
func OrderRows(orders []FinishedOrder, waiterNames map[int64]string) []OrderSales {
	result := make([]OrderSales, 0, len(orders))
	for _, order := range orders {
		if len(order.Items) == 0 {
			continue
		}
		result = append(result, OrderSales{
			OrderID:     order.ID,
			TableNumber: order.TableNumber,
			WaiterName:  waiterName(order.WaiterID, waiterNames),
			TotalSales:  order.Revenue(),
			TotalTips:   order.TipAmount,
			FinishedAt:  order.FinishedAt,
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].FinishedAt.After(result[j].FinishedAt)
	})
	return result
}

func waiterName(id *int64, names map[int64]string) string {
	if id == nil {
		return "Unknown"
	}
	if name, ok := names[*id]; ok {
		return name
	}
	return "Unknown"
}

func normalizeCategory(category string) string {
	if strings.TrimSpace(category) == "" {
		return UncategorizedCategory
	}
	return category
}
