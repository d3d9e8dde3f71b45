package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"bakery-backoffice/internal/aggregation"
	"bakery-backoffice/internal/entity"
	"bakery-backoffice/internal/repository"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// OrderStore is the slice of the gateway the order flows use.
type OrderStore interface {
	GetOrders(ctx context.Context, limit int) ([]entity.Order, error)
	GetOrderByCode(ctx context.Context, code string) (*entity.Order, error)
	CreateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error)
	UpdateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error)
	UpdateOrderStatus(ctx context.Context, code, status string) error
	UpdateOrderTotal(ctx context.Context, code string, total float64) error
	ReplaceLineItems(ctx context.Context, code string, items []entity.LineItem) error
}

// OrderService owns order intake, edits and status changes.
type OrderService struct {
	orders      OrderStore
	kafkaWriter *kafka.Writer
	rdb         *redis.Client
}

func NewOrderService(orders OrderStore, kafkaWriter *kafka.Writer, rdb *redis.Client) *OrderService {
	return &OrderService{
		orders:      orders,
		kafkaWriter: kafkaWriter,
		rdb:         rdb,
	}
}

// CreateOrder runs the intake flow: stamp the order, price it from its
// line items, label the items and persist everything in one shot.
func (s *OrderService) CreateOrder(ctx context.Context, order *entity.Order, idempotentKey string) (*entity.Order, error) {
	if idempotentKey != "" {
		ok, err := s.validateIdempotentKey(ctx, idempotentKey)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.New("idempotent key already exists")
		}
	}

	order.OrderID = generateOrderCode()
	order.OrderDate = time.Now().Format("2006-01-02")
	if order.Status == "" {
		order.Status = entity.StatusNew
	}
	if order.OrderType == "" {
		order.OrderType = "In-Store"
	}
	if order.OrderTaker == "" {
		order.OrderTaker = "Staff"
	}

	// intake skips rows the user never filled in
	items := make([]entity.LineItem, 0, len(order.LineItems))
	for _, item := range order.LineItems {
		if item.Type == "" {
			continue
		}
		item.ProductDescription = strings.TrimSpace(item.Type + " " + item.Size)
		items = append(items, item)
	}
	order.LineItems = aggregation.ReassignLineLabels(items)
	// price purely from the entered items, never from a posted total
	order.Total = aggregation.OrderTotal(entity.Order{LineItems: order.LineItems})

	if _, err := s.orders.CreateOrder(ctx, order); err != nil {
		logger.Error().Err(err).Msg("Error creating order")
		return nil, err
	}

	// re-read the stored rows: the insert issued the item row ids and
	// the creation timestamp, and the response must carry both
	createdOrder, err := s.orders.GetOrderByCode(ctx, order.OrderID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error reloading order %s", order.OrderID)
		return nil, err
	}

	if err := s.publishOrderEvent(ctx, createdOrder, "created"); err != nil {
		return nil, err
	}

	return createdOrder, nil
}

// GetOrder loads a single order by its short code.
func (s *OrderService) GetOrder(ctx context.Context, code string) (*entity.Order, error) {
	order, err := s.orders.GetOrderByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error getting order %s", code)
		}
		return nil, err
	}
	return order, nil
}

// EffectiveTotal recomputes the order value from its line items,
// trusting the cached column only when no items are loaded.
func EffectiveTotal(order *entity.Order) float64 {
	return aggregation.OrderTotal(*order)
}

// UpdateOrder applies the editable customer and pickup fields to an
// existing order.
func (s *OrderService) UpdateOrder(ctx context.Context, code string, updates *entity.Order) (*entity.Order, error) {
	order, err := s.orders.GetOrderByCode(ctx, code)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting order %s", code)
		return nil, err
	}

	order.CustomerFirstName = updates.CustomerFirstName
	order.CustomerLastName = updates.CustomerLastName
	order.Email = updates.Email
	order.PhoneNumber = updates.PhoneNumber
	order.DuePickupDate = updates.DuePickupDate
	order.DuePickupTime = updates.DuePickupTime
	order.Special = updates.Special

	updatedOrder, err := s.orders.UpdateOrder(ctx, order)
	if err != nil {
		logger.Error().Err(err).Msg("Error updating order")
		return nil, err
	}

	if err := s.publishOrderEvent(ctx, updatedOrder, "updated"); err != nil {
		return nil, err
	}

	return updatedOrder, nil
}

// UpdateStatus sets any status from the enum. Transitions are not a
// state machine; the UI suggests New→In Progress→Ready→Completed but
// every jump is allowed.
func (s *OrderService) UpdateStatus(ctx context.Context, code, status string) (*entity.Order, error) {
	order, err := s.orders.GetOrderByCode(ctx, code)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting order %s", code)
		return nil, err
	}

	if err := s.orders.UpdateOrderStatus(ctx, code, status); err != nil {
		logger.Error().Err(err).Msg("Error updating order status")
		return nil, err
	}
	order.Status = status

	if err := s.publishOrderEvent(ctx, order, "status"); err != nil {
		return nil, err
	}

	return order, nil
}

// AddLineItem appends an item, relabels and reprices the order.
func (s *OrderService) AddLineItem(ctx context.Context, code string, item entity.LineItem) (*entity.Order, error) {
	order, err := s.orders.GetOrderByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	item.ProductDescription = strings.TrimSpace(item.Type + " " + item.Size)
	return s.saveLineItems(ctx, order, append(order.LineItems, item))
}

// UpdateLineItem replaces the item with the given row id, then relabels
// and reprices the order.
func (s *OrderService) UpdateLineItem(ctx context.Context, code string, itemID int, updated entity.LineItem) (*entity.Order, error) {
	order, err := s.orders.GetOrderByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	found := false
	items := make([]entity.LineItem, 0, len(order.LineItems))
	for _, item := range order.LineItems {
		if item.ID == itemID {
			updated.ProductDescription = strings.TrimSpace(updated.Type + " " + updated.Size)
			items = append(items, updated)
			found = true
			continue
		}
		items = append(items, item)
	}
	if !found {
		return nil, repository.ErrNotFound
	}

	return s.saveLineItems(ctx, order, items)
}

// RemoveLineItem drops the item with the given row id; remaining items
// are relabeled contiguously, no gap at the removed position.
func (s *OrderService) RemoveLineItem(ctx context.Context, code string, itemID int) (*entity.Order, error) {
	order, err := s.orders.GetOrderByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	found := false
	items := make([]entity.LineItem, 0, len(order.LineItems))
	for _, item := range order.LineItems {
		if item.ID == itemID {
			found = true
			continue
		}
		items = append(items, item)
	}
	if !found {
		return nil, repository.ErrNotFound
	}

	return s.saveLineItems(ctx, order, items)
}

func (s *OrderService) saveLineItems(ctx context.Context, order *entity.Order, items []entity.LineItem) (*entity.Order, error) {
	order.LineItems = aggregation.ReassignLineLabels(items)
	// removing the last item must zero the total, not leave the cached one
	order.Total = aggregation.OrderTotal(entity.Order{LineItems: order.LineItems})

	if err := s.orders.ReplaceLineItems(ctx, order.OrderID, order.LineItems); err != nil {
		logger.Error().Err(err).Msg("Error replacing line items")
		return nil, err
	}
	if err := s.orders.UpdateOrderTotal(ctx, order.OrderID, order.Total); err != nil {
		logger.Error().Err(err).Msg("Error updating order total")
		return nil, err
	}

	// the replace reissued the item row ids; respond with the stored
	// rows so a follow-up item edit or removal addresses real ids
	reloaded, err := s.orders.GetOrderByCode(ctx, order.OrderID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error reloading order %s", order.OrderID)
		return nil, err
	}

	if err := s.publishOrderEvent(ctx, reloaded, "items"); err != nil {
		return nil, err
	}

	return reloaded, nil
}

func (s *OrderService) publishOrderEvent(ctx context.Context, order *entity.Order, key string) error {
	// if env is set to test, skip the broker
	if os.Getenv("ENV") == "test" {
		return nil
	}

	orderJSON, err := json.Marshal(order)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order-%s-%s", key, order.OrderID)),
		Value: orderJSON,
	}

	return s.kafkaWriter.WriteMessages(ctx, msg)
}

func (s *OrderService) validateIdempotentKey(ctx context.Context, key string) (bool, error) {
	if os.Getenv("ENV") == "test" {
		return true, nil
	}

	redisKey := fmt.Sprintf("idempotent-key:%s", key)
	val, err := s.rdb.Get(ctx, redisKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, err
	}
	if val != "" {
		return false, nil
	}

	return true, s.rdb.Set(ctx, redisKey, "exists", 24*time.Hour).Err()
}

// generateOrderCode mirrors the short codes staff read over the phone:
// "ORD" plus the trailing six digits of a millisecond timestamp.
func generateOrderCode() string {
	ts := fmt.Sprintf("%d", time.Now().UnixMilli())
	return "ORD" + ts[len(ts)-6:]
}
