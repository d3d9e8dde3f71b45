package weborders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"bakery-backoffice/internal/aggregation"
	"bakery-backoffice/internal/entity"
	"bakery-backoffice/internal/repository"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

const (
	shopifyAPIVersion = "2023-07"
	fetchWindow       = 24 * time.Hour
	syncInterval      = 15 * time.Minute
)

// OrderStore is the slice of the gateway the sync needs.
type OrderStore interface {
	GetOrderByCode(ctx context.Context, code string) (*entity.Order, error)
	CreateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error)
	UpdateWebOrder(ctx context.Context, order *entity.Order) error
	ReplaceLineItems(ctx context.Context, code string, items []entity.LineItem) error
}

// SyncService pulls recent Shopify orders into the back office. Web
// orders get WEB<order_number> codes so they never collide with the
// ORD codes issued at intake.
type SyncService struct {
	orders      OrderStore
	shopURL     string
	accessToken string
	kafkaWriter *kafka.Writer
}

func NewSyncService(orders OrderStore, shopURL, accessToken string, kafkaWriter *kafka.Writer) *SyncService {
	return &SyncService{
		orders:      orders,
		shopURL:     shopURL,
		accessToken: accessToken,
		kafkaWriter: kafkaWriter,
	}
}

// Start polls the shop on a fixed interval. Without credentials the
// loop never starts and in-store intake keeps working on its own.
func (s *SyncService) Start() {
	if s.shopURL == "" || s.accessToken == "" {
		logger.Info().Msg("Shopify credentials not set, web order sync disabled")
		return
	}

	ticker := time.NewTicker(syncInterval)
	defer ticker.Stop()

	for {
		if err := s.SyncOnce(context.Background()); err != nil {
			logger.Error().Err(err).Msg("Web order sync failed")
		}
		<-ticker.C
	}
}

// SyncOnce fetches the last day of shop orders and reconciles each one
// against the stored copy.
func (s *SyncService) SyncOnce(ctx context.Context) error {
	shopOrders, err := s.fetchOrders(ctx)
	if err != nil {
		return err
	}

	for _, shopOrder := range shopOrders {
		if err := s.reconcile(ctx, shopOrder); err != nil {
			logger.Error().Err(err).Msgf("Error syncing web order %d", shopOrder.OrderNumber)
		}
	}

	logger.Info().Msgf("Web order sync processed %d orders", len(shopOrders))
	return nil
}

func (s *SyncService) fetchOrders(ctx context.Context) ([]shopifyOrder, error) {
	params := url.Values{}
	params.Set("limit", "250")
	params.Set("status", "any")
	params.Set("financial_status", "any")
	params.Set("fulfillment_status", "any")
	params.Set("created_at_min", time.Now().Add(-fetchWindow).Format(time.RFC3339))

	endpoint := fmt.Sprintf("%s/admin/api/%s/orders.json?%s", s.shopURL, shopifyAPIVersion, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Shopify-Access-Token", s.accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("shopify returned status %d", resp.StatusCode)
	}

	var payload struct {
		Orders []shopifyOrder `json:"orders"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	return payload.Orders, nil
}

// reconcile inserts a shop order the first time it is seen and
// refreshes the sync-owned fields when the shop copy moved on.
func (s *SyncService) reconcile(ctx context.Context, shopOrder shopifyOrder) error {
	order := convertOrder(shopOrder)

	existing, err := s.orders.GetOrderByCode(ctx, order.OrderID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if _, err := s.orders.CreateOrder(ctx, order); err != nil {
			return err
		}
		return s.publishSyncEvent(ctx, order)
	}

	if !needsUpdate(shopOrder, existing) {
		return nil
	}

	if err := s.orders.UpdateWebOrder(ctx, order); err != nil {
		return err
	}
	if err := s.orders.ReplaceLineItems(ctx, order.OrderID, order.LineItems); err != nil {
		return err
	}
	return s.publishSyncEvent(ctx, order)
}

// needsUpdate decides whether the shop copy supersedes the stored one.
// Unparseable timestamps count as stale so the row gets refreshed.
func needsUpdate(shopOrder shopifyOrder, existing *entity.Order) bool {
	shopUpdated, err := time.Parse(time.RFC3339, shopOrder.UpdatedAt)
	if err != nil {
		return true
	}
	if shopUpdated.After(existing.UpdatedAt) {
		return true
	}
	if math.Abs(parseMoney(shopOrder.TotalPrice)-existing.Total) > 0.01 {
		return true
	}
	return shopOrder.FulfillmentStatus != existing.FulfillmentStatus
}

func convertOrder(shopOrder shopifyOrder) *entity.Order {
	order := &entity.Order{
		OrderID:           fmt.Sprintf("WEB%d", shopOrder.OrderNumber),
		WebOrderID:        shopOrder.OrderNumber,
		CustomerFirstName: shopOrder.Customer.FirstName,
		CustomerLastName:  shopOrder.Customer.LastName,
		Email:             shopOrder.ContactEmail,
		PhoneNumber:       shopOrder.Phone,
		Total:             parseMoney(shopOrder.TotalPrice),
		Status:            entity.StatusNew,
		OrderType:         "Web",
		OrderTaker:        "Web",
		FulfillmentStatus: shopOrder.FulfillmentStatus,
		UpdatedAt:         time.Now(),
	}
	if order.Email == "" {
		order.Email = shopOrder.Email
	}
	if created, err := time.Parse(time.RFC3339, shopOrder.CreatedAt); err == nil {
		order.OrderDate = created.Format("2006-01-02")
	}

	applyNoteAttributes(order, shopOrder)
	order.LineItems = convertLineItems(order.OrderID, shopOrder.LineItems)
	return order
}

// applyNoteAttributes pulls pickup details out of the checkout's
// note_attributes and folds the free-form order note into special.
func applyNoteAttributes(order *entity.Order, shopOrder shopifyOrder) {
	attrs := make(map[string]string, len(shopOrder.NoteAttributes))
	for _, attr := range shopOrder.NoteAttributes {
		attrs[attr.Name] = attr.Value
	}

	pickupDate := attrs["Pickup-Date"]
	if pickupDate == "" {
		pickupDate = attrs["Shipping-Date"]
	}
	if pickupDate != "" {
		for _, layout := range []string{"2006/01/02", "2006-01-02"} {
			if parsed, err := time.Parse(layout, pickupDate); err == nil {
				order.DuePickupDate = parsed.Format("2006-01-02")
				break
			}
		}
	}
	order.DuePickupTime = attrs["Pickup-Time"]
	order.Special = attrs["Checkout-Method"]

	if shopOrder.Note != "" {
		if order.Special != "" {
			order.Special = order.Special + " | Note: " + shopOrder.Note
		} else {
			order.Special = "Note: " + shopOrder.Note
		}
	}
}

func convertLineItems(orderCode string, shopItems []shopifyLineItem) []entity.LineItem {
	items := make([]entity.LineItem, 0, len(shopItems))
	for i, shopItem := range shopItems {
		size := shopItem.VariantTitle
		if size == "None" {
			size = ""
		}
		item := entity.LineItem{
			OrderID:            orderCode,
			LineItem:           aggregation.LineLabel(i),
			Type:               shopItem.Title,
			Size:               size,
			CakeQty:            shopItem.Quantity,
			UnitPrice:          parseMoney(shopItem.Price),
			Category:           determineCategory(shopItem.Title),
			ProductDescription: strings.TrimSpace(shopItem.Title + " " + size),
		}
		for _, prop := range shopItem.Properties {
			switch prop.Name {
			case "Cake Writing":
				item.WritingNotes = prop.Value
			case "Writing-Color":
				item.Color = prop.Value
			}
		}
		items = append(items, item)
	}
	return items
}

// determineCategory infers the catalog category from the product
// title, falling back to Cake.
func determineCategory(title string) string {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "sheet cake"):
		return "Sheet Cake"
	case strings.Contains(lower, "mini cupcake"):
		return "Mini Cupcakes"
	case strings.Contains(lower, "pie"):
		return "Pie"
	case strings.Contains(lower, "cheesecake"):
		return "Cheesecake"
	case strings.Contains(lower, "thanksgiving special"):
		return "Special"
	default:
		return "Cake"
	}
}

// parseMoney reads Shopify's string-typed amounts; bad input counts
// as zero rather than failing the whole order.
func parseMoney(raw string) float64 {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return value
}

func (s *SyncService) publishSyncEvent(ctx context.Context, order *entity.Order) error {
	// if env is set to test, skip the broker
	if os.Getenv("ENV") == "test" {
		return nil
	}

	orderJSON, err := json.Marshal(order)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order-synced-%s", order.OrderID)),
		Value: orderJSON,
	}

	return s.kafkaWriter.WriteMessages(ctx, msg)
}
