package analytics

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// categoryGroup is the per-category accumulation an order derives into.
type categoryGroup struct {
	category string
	quantity int32
	revenue  decimal.Decimal
}

// DeriveRecords converts a finished order into one analytics record per menu
// category. It is pure and deterministic: categories appear in the order the
// order's items first reference them, unit prices are quantity-weighted
// averages, and the order tip is split across categories in proportion to
// each category's share of the order's revenue.
//
// Tip rounding rule: each share is rounded to cents (half away from zero) and
// the leftover cent difference is folded into the largest-revenue category,
// so the shares always sum exactly to the order tip. Orders whose revenue is
// zero split the tip evenly instead of dividing by zero.
//
// Persistence and the once-only guard live with the caller; re-deriving the
// same order yields identical records.
func DeriveRecords(order FinishedOrder) []Record {
	index := make(map[string]*categoryGroup)
	groups := make([]*categoryGroup, 0)
	for _, item := range order.Items {
		category := normalizeCategory(item.Category)
		entry := index[category]
		if entry == nil {
			entry = &categoryGroup{category: category, revenue: decimal.Zero}
			index[category] = entry
			groups = append(groups, entry)
		}
		entry.quantity += item.Quantity
		entry.revenue = entry.revenue.Add(item.Subtotal())
	}
	if len(groups) == 0 {
		return nil
	}

	orderRevenue := decimal.Zero
	for _, group := range groups {
		orderRevenue = orderRevenue.Add(group.revenue)
	}
	shares := tipShares(order.TipAmount, groups, orderRevenue)

	records := make([]Record, 0, len(groups))
	for i, group := range groups {
		unitPrice := decimal.Zero
		if group.quantity > 0 {
			unitPrice = group.revenue.DivRound(decimal.NewFromInt32(group.quantity), 2)
		}
		records = append(records, Record{
			RestaurantID: order.RestaurantID,
			OrderID:      order.ID,
			TableNumber:  order.TableNumber,
			WaiterID:     order.WaiterID,
			ItemName:     fmt.Sprintf("Order #%d - %s", order.ID, group.category),
			ItemCategory: group.category,
			Quantity:     group.quantity,
			UnitPrice:    unitPrice,
			TotalPrice:   group.revenue,
			TipAmount:    shares[i],
			CheckoutDate: order.FinishedAt,
		})
	}
	return records
}

// tipShares allocates the order tip across category groups: proportional by
// revenue when there is any, even otherwise, reconciled so the shares sum
// exactly to the tip.
func tipShares(tip decimal.Decimal, groups []*categoryGroup, orderRevenue decimal.Decimal) []decimal.Decimal {
	shares := make([]decimal.Decimal, len(groups))
	allocated := decimal.Zero
	largest := 0

	for i, group := range groups {
		if orderRevenue.IsZero() {
			shares[i] = tip.DivRound(decimal.NewFromInt(int64(len(groups))), 2)
		} else {
			shares[i] = tip.Mul(group.revenue).DivRound(orderRevenue, 2)
		}
		allocated = allocated.Add(shares[i])
		if group.revenue.GreaterThan(groups[largest].revenue) {
			largest = i
		}
	}

	if remainder := tip.Sub(allocated); !remainder.IsZero() {
		shares[largest] = shares[largest].Add(remainder)
	}
	return shares
}
