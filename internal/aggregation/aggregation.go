// Package aggregation computes the derived figures behind the dashboard
// and reports views. All functions are pure and never fail: missing money
// fields count as 0 and a missing quantity counts as 1, so partially
// filled orders still aggregate.
package aggregation

import (
	"sort"

	"bakery-backoffice/internal/entity"
)

type RevenueStats struct {
	TotalRevenue      float64 `json:"total_revenue"`
	AverageOrderValue float64 `json:"average_order_value"`
}

type ProductStat struct {
	Name       string  `json:"name"`
	OrderCount int     `json:"order_count"`
	Revenue    float64 `json:"revenue"`
}

func itemQty(item entity.LineItem) int {
	if item.CakeQty == 0 {
		return 1
	}
	return item.CakeQty
}

// OrderTotal returns the sum of unit_price × cake_qty over the order's
// line items. Orders without line items fall back to the cached total.
func OrderTotal(order entity.Order) float64 {
	if len(order.LineItems) == 0 {
		return order.Total
	}
	var total float64
	for _, item := range order.LineItems {
		total += item.UnitPrice * float64(itemQty(item))
	}
	return total
}

// Revenue sums the cached order totals. It deliberately does not
// recompute from line items: reporting operates on bulk order totals.
func Revenue(orders []entity.Order) RevenueStats {
	if len(orders) == 0 {
		return RevenueStats{}
	}
	var total float64
	for _, o := range orders {
		total += o.Total
	}
	return RevenueStats{
		TotalRevenue:      total,
		AverageOrderValue: total / float64(len(orders)),
	}
}

// TopProducts groups every line item across all orders by its type and
// accumulates quantity and revenue per group. The result is sorted by
// revenue, highest first; ties keep encounter order.
func TopProducts(orders []entity.Order) []ProductStat {
	index := make(map[string]int)
	stats := make([]ProductStat, 0)
	for _, order := range orders {
		for _, item := range order.LineItems {
			name := item.Type
			if name == "" {
				name = "Unknown Product"
			}
			i, ok := index[name]
			if !ok {
				i = len(stats)
				index[name] = i
				stats = append(stats, ProductStat{Name: name})
			}
			qty := itemQty(item)
			stats[i].OrderCount += qty
			stats[i].Revenue += item.UnitPrice * float64(qty)
		}
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Revenue > stats[j].Revenue
	})
	return stats
}

// StatusBreakdown counts orders per status label. Orders without a
// status count under "Unknown".
func StatusBreakdown(orders []entity.Order) map[string]int {
	counts := make(map[string]int)
	for _, order := range orders {
		status := order.Status
		if status == "" {
			status = "Unknown"
		}
		counts[status]++
	}
	return counts
}

// LineLabel maps a zero-based position to its spreadsheet-style letter
// label: 0→A .. 25→Z, 26→AA, 27→AB, ...
func LineLabel(index int) string {
	label := ""
	for index >= 0 {
		label = string(rune('A'+index%26)) + label
		index = index/26 - 1
	}
	return label
}

// ReassignLineLabels relabels items by their position so labels stay
// contiguous after an insertion or removal. The input is not mutated.
func ReassignLineLabels(items []entity.LineItem) []entity.LineItem {
	relabeled := make([]entity.LineItem, len(items))
	for i, item := range items {
		item.LineItem = LineLabel(i)
		relabeled[i] = item
	}
	return relabeled
}
