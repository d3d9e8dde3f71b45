package consumer

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"bakery-backoffice/internal/config"
	"bakery-backoffice/internal/service"
)

// Consumer follows the order event stream and drops the cached report
// snapshot on every change, so the next reports read does a full reload.
// No incremental merge: last full reload wins, as in the source system.
type Consumer struct {
	rdb *redis.Client
}

func NewConsumer(rdb *redis.Client) *Consumer {
	return &Consumer{rdb: rdb}
}

// StartKafkaConsumer blocks reading order events; run it in its own
// goroutine.
func (c *Consumer) StartKafkaConsumer() {
	orderReader := config.NewKafkaReader(config.OrderEventsTopic, "backoffice-reports-group")

	for {
		ctx := context.Background()
		msg, err := orderReader.ReadMessage(ctx)
		if err != nil {
			log.Error().Msgf("Error reading message: %v", err)
			continue
		}

		c.processMessage(ctx, msg)
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	// key -> "order-created-ORD123456", "order-status-ORD123456", ...
	key := string(msg.Key)
	log.Info().Msgf("Order change event %s, invalidating report snapshot", key)

	if err := c.rdb.Del(ctx, service.ReportSnapshotKey).Err(); err != nil {
		log.Error().Msgf("Error invalidating report snapshot: %v", err)
	}
}
