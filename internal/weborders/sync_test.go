package weborders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bakery-backoffice/internal/entity"
	"bakery-backoffice/internal/repository"
)

type fakeSyncStore struct {
	orders      map[string]*entity.Order
	updates     int
	itemReplace int
}

func newFakeSyncStore() *fakeSyncStore {
	return &fakeSyncStore{orders: make(map[string]*entity.Order)}
}

func (f *fakeSyncStore) GetOrderByCode(ctx context.Context, code string) (*entity.Order, error) {
	order, ok := f.orders[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (f *fakeSyncStore) CreateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	f.orders[order.OrderID] = order
	return order, nil
}

func (f *fakeSyncStore) UpdateWebOrder(ctx context.Context, order *entity.Order) error {
	stored := f.orders[order.OrderID]
	stored.Total = order.Total
	stored.FulfillmentStatus = order.FulfillmentStatus
	stored.UpdatedAt = order.UpdatedAt
	f.updates++
	return nil
}

func (f *fakeSyncStore) ReplaceLineItems(ctx context.Context, code string, items []entity.LineItem) error {
	f.orders[code].LineItems = items
	f.itemReplace++
	return nil
}

func sampleShopOrder() shopifyOrder {
	return shopifyOrder{
		OrderNumber:       1001,
		CreatedAt:         "2026-08-27T09:30:00-05:00",
		UpdatedAt:         "2026-08-27T09:30:00-05:00",
		Note:              "ring the back door",
		ContactEmail:      "ada@example.com",
		Phone:             "312-555-0117",
		TotalPrice:        "58.50",
		FulfillmentStatus: "unfulfilled",
		Customer:          shopifyCustomer{FirstName: "Ada", LastName: "Mae"},
		NoteAttributes: []shopifyAttribute{
			{Name: "Pickup-Date", Value: "2026/08/29"},
			{Name: "Pickup-Time", Value: "2:00 PM"},
			{Name: "Checkout-Method", Value: "Pickup"},
		},
		LineItems: []shopifyLineItem{
			{
				Title:        "Caramel Cake",
				VariantTitle: "8 inch",
				Quantity:     1,
				Price:        "48.50",
				Properties: []shopifyAttribute{
					{Name: "Cake Writing", Value: "Happy Birthday"},
					{Name: "Writing-Color", Value: "Gold"},
				},
			},
			{Title: "Sweet Potato Pie", VariantTitle: "None", Quantity: 2, Price: "5.00"},
		},
	}
}

func TestConvertOrderMapsShopFields(t *testing.T) {
	order := convertOrder(sampleShopOrder())

	assert.Equal(t, "WEB1001", order.OrderID)
	assert.Equal(t, 1001, order.WebOrderID)
	assert.Equal(t, "Ada", order.CustomerFirstName)
	assert.Equal(t, "Mae", order.CustomerLastName)
	assert.Equal(t, "ada@example.com", order.Email)
	assert.Equal(t, "312-555-0117", order.PhoneNumber)
	assert.Equal(t, "2026-08-27", order.OrderDate)
	assert.Equal(t, "2026-08-29", order.DuePickupDate)
	assert.Equal(t, "2:00 PM", order.DuePickupTime)
	assert.Equal(t, "Pickup | Note: ring the back door", order.Special)
	assert.Equal(t, 58.5, order.Total)
	assert.Equal(t, entity.StatusNew, order.Status)
	assert.Equal(t, "Web", order.OrderType)
	assert.Equal(t, "Web", order.OrderTaker)
	assert.Equal(t, "unfulfilled", order.FulfillmentStatus)
}

func TestConvertOrderFallbacks(t *testing.T) {
	shopOrder := sampleShopOrder()
	shopOrder.ContactEmail = ""
	shopOrder.Email = "backup@example.com"
	shopOrder.NoteAttributes = []shopifyAttribute{
		{Name: "Shipping-Date", Value: "2026-09-02"},
	}

	order := convertOrder(shopOrder)
	assert.Equal(t, "backup@example.com", order.Email)
	assert.Equal(t, "2026-09-02", order.DuePickupDate)
	// no checkout method, so the note stands alone
	assert.Equal(t, "Note: ring the back door", order.Special)
}

func TestConvertLineItems(t *testing.T) {
	order := convertOrder(sampleShopOrder())
	require.Len(t, order.LineItems, 2)

	first := order.LineItems[0]
	assert.Equal(t, "A", first.LineItem)
	assert.Equal(t, "Caramel Cake", first.Type)
	assert.Equal(t, "8 inch", first.Size)
	assert.Equal(t, "Caramel Cake 8 inch", first.ProductDescription)
	assert.Equal(t, 48.5, first.UnitPrice)
	assert.Equal(t, 1, first.CakeQty)
	assert.Equal(t, "Cake", first.Category)
	assert.Equal(t, "Happy Birthday", first.WritingNotes)
	assert.Equal(t, "Gold", first.Color)

	second := order.LineItems[1]
	assert.Equal(t, "B", second.LineItem)
	// "None" variant means no size
	assert.Equal(t, "", second.Size)
	assert.Equal(t, "Sweet Potato Pie", second.ProductDescription)
	assert.Equal(t, "Pie", second.Category)
}

func TestDetermineCategory(t *testing.T) {
	cases := map[string]string{
		"Half Sheet Cake":          "Sheet Cake",
		"Mini Cupcakes Dozen":      "Mini Cupcakes",
		"Sweet Potato Pie":         "Pie",
		"Turtle Cheesecake":        "Cheesecake",
		"Thanksgiving Special Box": "Special",
		"Caramel Cake":             "Cake",
		"Pound Cake":               "Cake",
	}
	for title, want := range cases {
		assert.Equal(t, want, determineCategory(title), title)
	}
}

func TestNeedsUpdate(t *testing.T) {
	stored := &entity.Order{
		Total:             58.5,
		FulfillmentStatus: "unfulfilled",
		UpdatedAt:         time.Date(2026, 8, 27, 15, 0, 0, 0, time.UTC),
	}

	unchanged := sampleShopOrder()
	unchanged.UpdatedAt = "2026-08-27T10:00:00Z"
	assert.False(t, needsUpdate(unchanged, stored))

	newer := unchanged
	newer.UpdatedAt = "2026-08-28T10:00:00Z"
	assert.True(t, needsUpdate(newer, stored))

	repriced := unchanged
	repriced.TotalPrice = "60.00"
	assert.True(t, needsUpdate(repriced, stored))

	fulfilled := unchanged
	fulfilled.FulfillmentStatus = "fulfilled"
	assert.True(t, needsUpdate(fulfilled, stored))

	garbled := unchanged
	garbled.UpdatedAt = "not a timestamp"
	assert.True(t, needsUpdate(garbled, stored))
}

func TestSyncOnceInsertsThenReconciles(t *testing.T) {
	t.Setenv("ENV", "test")

	shopOrder := sampleShopOrder()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token", r.Header.Get("X-Shopify-Access-Token"))
		assert.Equal(t, "250", r.URL.Query().Get("limit"))
		assert.Equal(t, "any", r.URL.Query().Get("status"))
		assert.NotEmpty(t, r.URL.Query().Get("created_at_min"))

		w.Header().Set("Content-Type", "application/json")
		writeOrdersJSON(t, w, shopOrder)
	}))
	defer server.Close()

	store := newFakeSyncStore()
	svc := NewSyncService(store, server.URL, "token", nil)
	ctx := context.Background()

	require.NoError(t, svc.SyncOnce(ctx))
	stored, err := store.GetOrderByCode(ctx, "WEB1001")
	require.NoError(t, err)
	assert.Equal(t, 58.5, stored.Total)
	assert.Len(t, stored.LineItems, 2)
	assert.Zero(t, store.updates)

	// nothing moved on the shop side, so the second pass is a no-op
	require.NoError(t, svc.SyncOnce(ctx))
	assert.Zero(t, store.updates)

	// shop copy superseded: refresh the row and its items
	shopOrder.FulfillmentStatus = "fulfilled"
	shopOrder.TotalPrice = "60.00"
	shopOrder.UpdatedAt = time.Now().Add(time.Hour).Format(time.RFC3339)
	require.NoError(t, svc.SyncOnce(ctx))
	assert.Equal(t, 1, store.updates)
	assert.Equal(t, 1, store.itemReplace)

	stored, err = store.GetOrderByCode(ctx, "WEB1001")
	require.NoError(t, err)
	assert.Equal(t, 60.0, stored.Total)
	assert.Equal(t, "fulfilled", stored.FulfillmentStatus)
}

func writeOrdersJSON(t *testing.T, w http.ResponseWriter, orders ...shopifyOrder) {
	t.Helper()
	payload := struct {
		Orders []shopifyOrder `json:"orders"`
	}{Orders: orders}
	require.NoError(t, json.NewEncoder(w).Encode(payload))
}
