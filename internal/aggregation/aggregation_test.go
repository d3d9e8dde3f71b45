package aggregation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bakery-backoffice/internal/entity"
)

func TestOrderTotalFromLineItems(t *testing.T) {
	order := entity.Order{
		Total: 999, // stale cached value must be ignored
		LineItems: []entity.LineItem{
			{UnitPrice: 2.50, CakeQty: 3},
			{UnitPrice: 10, CakeQty: 1},
		},
	}
	assert.Equal(t, 17.50, OrderTotal(order))
}

func TestOrderTotalFallsBackToCachedTotal(t *testing.T) {
	assert.Equal(t, 42.0, OrderTotal(entity.Order{Total: 42}))
}

func TestOrderTotalEmptyOrder(t *testing.T) {
	assert.Equal(t, 0.0, OrderTotal(entity.Order{}))
}

func TestOrderTotalMissingQuantityCountsAsOne(t *testing.T) {
	order := entity.Order{
		LineItems: []entity.LineItem{
			{UnitPrice: 5},             // no quantity entered
			{UnitPrice: 0, CakeQty: 4}, // no price entered
		},
	}
	assert.Equal(t, 5.0, OrderTotal(order))
}

func TestOrderTotalIsPure(t *testing.T) {
	order := entity.Order{
		LineItems: []entity.LineItem{{UnitPrice: 3, CakeQty: 2}},
	}
	first := OrderTotal(order)
	second := OrderTotal(order)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, order.LineItems[0].CakeQty)
}

func TestRevenueEmpty(t *testing.T) {
	stats := Revenue(nil)
	assert.Equal(t, 0.0, stats.TotalRevenue)
	assert.Equal(t, 0.0, stats.AverageOrderValue)
}

func TestRevenueUsesCachedTotals(t *testing.T) {
	orders := []entity.Order{{Total: 10}, {Total: 20}, {Total: 30}}
	stats := Revenue(orders)
	assert.Equal(t, 60.0, stats.TotalRevenue)
	assert.Equal(t, 20.0, stats.AverageOrderValue)
}

func TestTopProductsGroupsByType(t *testing.T) {
	orders := []entity.Order{
		{LineItems: []entity.LineItem{{Type: "Chocolate Cake", CakeQty: 1, UnitPrice: 20}}},
		{LineItems: []entity.LineItem{{Type: "Chocolate Cake", CakeQty: 2, UnitPrice: 20}}},
	}
	stats := TopProducts(orders)
	assert.Len(t, stats, 1)
	assert.Equal(t, "Chocolate Cake", stats[0].Name)
	assert.Equal(t, 3, stats[0].OrderCount)
	assert.Equal(t, 60.0, stats[0].Revenue)
}

func TestTopProductsSortedByRevenueDescending(t *testing.T) {
	orders := []entity.Order{
		{LineItems: []entity.LineItem{
			{Type: "Cupcake", CakeQty: 1, UnitPrice: 10},
			{Type: "Wedding Cake", CakeQty: 1, UnitPrice: 50},
			{Type: "Pound Cake", CakeQty: 1, UnitPrice: 30},
		}},
	}
	stats := TopProducts(orders)
	assert.Equal(t, []float64{50, 30, 10}, []float64{stats[0].Revenue, stats[1].Revenue, stats[2].Revenue})
}

func TestTopProductsTiesKeepEncounterOrder(t *testing.T) {
	orders := []entity.Order{
		{LineItems: []entity.LineItem{
			{Type: "Lemon Cake", CakeQty: 1, UnitPrice: 15},
			{Type: "Carrot Cake", CakeQty: 1, UnitPrice: 15},
		}},
	}
	stats := TopProducts(orders)
	assert.Equal(t, "Lemon Cake", stats[0].Name)
	assert.Equal(t, "Carrot Cake", stats[1].Name)
}

func TestTopProductsUnknownProductDefault(t *testing.T) {
	orders := []entity.Order{
		{LineItems: []entity.LineItem{{CakeQty: 2, UnitPrice: 5}}},
	}
	stats := TopProducts(orders)
	assert.Len(t, stats, 1)
	assert.Equal(t, "Unknown Product", stats[0].Name)
	assert.Equal(t, 10.0, stats[0].Revenue)
}

func TestStatusBreakdown(t *testing.T) {
	orders := []entity.Order{
		{Status: "New"},
		{Status: "New"},
		{Status: "Ready"},
		{},
	}
	counts := StatusBreakdown(orders)
	assert.Equal(t, 2, counts["New"])
	assert.Equal(t, 1, counts["Ready"])
	assert.Equal(t, 1, counts["Unknown"])
}

func TestLineLabel(t *testing.T) {
	assert.Equal(t, "A", LineLabel(0))
	assert.Equal(t, "B", LineLabel(1))
	assert.Equal(t, "Z", LineLabel(25))
	assert.Equal(t, "AA", LineLabel(26))
	assert.Equal(t, "AB", LineLabel(27))
	assert.Equal(t, "BA", LineLabel(52))
}

func TestReassignLineLabelsAfterRemoval(t *testing.T) {
	items := []entity.LineItem{
		{LineItem: "A", Type: "Cupcake"},
		{LineItem: "C", Type: "Pound Cake"},
		{LineItem: "D", Type: "Cookie"},
	}
	relabeled := ReassignLineLabels(items)
	assert.Equal(t, "A", relabeled[0].LineItem)
	assert.Equal(t, "B", relabeled[1].LineItem)
	assert.Equal(t, "C", relabeled[2].LineItem)
	// original slice untouched
	assert.Equal(t, "C", items[1].LineItem)
}
