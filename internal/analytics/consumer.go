package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/winecraft-dev/connect4/internal/logger"
)

// Consumer drains game events from Kafka into the analytics table.
type Consumer struct {
	consumer sarama.ConsumerGroup
	db       *sql.DB
	ready    chan bool
}

// ConsumerGroupHandler implements the sarama.ConsumerGroupHandler interface
type ConsumerGroupHandler struct {
	ready chan bool
	db    *sql.DB
}

// NewConsumer creates a new Kafka consumer
func NewConsumer(brokers []string, groupID string, db *sql.DB) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	group, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		consumer: group,
		db:       db,
		ready:    make(chan bool),
	}, nil
}

// Start consumes messages until the context is cancelled.
func (c *Consumer) Start(ctx context.Context, topics []string) error {
	handler := &ConsumerGroupHandler{
		ready: c.ready,
		db:    c.db,
	}

	for {
		err := c.consumer.Consume(ctx, topics, handler)
		if err != nil {
			return err
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.ready = make(chan bool)
	}
}

// Close closes the consumer group
func (c *Consumer) Close() error {
	return c.consumer.Close()
}

// Setup is run before consuming begins
func (h *ConsumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	close(h.ready)
	return nil
}

// Cleanup is run when consuming ends
func (h *ConsumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim processes messages from a partition. Events that cannot
// be stored go to the failed_events table rather than blocking the
// claim.
func (h *ConsumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			var event GameEvent
			err := json.Unmarshal(message.Value, &event)
			if err == nil {
				err = h.storeEvent(event)
			}
			if err != nil {
				logger.Error("failed to process analytics event", map[string]any{
					"topic": message.Topic, "offset": message.Offset, "error": err.Error(),
				})
				h.storeFailed(message, err)
			}
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

// Database schema for analytics
const (
	CreateAnalyticsTableSQL = `
		CREATE TABLE IF NOT EXISTS game_analytics (
			game_id TEXT,
			event_type TEXT,
			event_time TIMESTAMP,
			player TEXT,
			duration FLOAT,
			additional_data JSONB
		);
		CREATE TABLE IF NOT EXISTS failed_events (
			topic TEXT,
			partition INT,
			"offset" BIGINT,
			message TEXT,
			error TEXT,
			timestamp TIMESTAMP
		)`

	insertAnalyticsSQL = `
		INSERT INTO game_analytics (
			game_id, event_type, event_time, player, duration, additional_data
		) VALUES ($1, $2, $3, $4, $5, $6)`
)

// storeEvent flattens one event into the analytics table.
func (h *ConsumerGroupHandler) storeEvent(event GameEvent) error {
	player, _ := event.Data["player"].(string)
	duration, _ := event.Data["duration"].(float64)

	extra, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("marshaling event data: %w", err)
	}

	_, err = h.db.Exec(insertAnalyticsSQL,
		event.GameID,
		event.Type,
		event.Timestamp,
		player,
		duration,
		extra,
	)
	return err
}

func (h *ConsumerGroupHandler) storeFailed(message *sarama.ConsumerMessage, cause error) {
	_, err := h.db.Exec(`
		INSERT INTO failed_events (
			topic, partition, "offset", message, error, timestamp
		) VALUES ($1, $2, $3, $4, $5, NOW())`,
		message.Topic,
		message.Partition,
		message.Offset,
		string(message.Value),
		cause.Error(),
	)
	if err != nil {
		logger.Error("failed to store dead-lettered event", map[string]any{"error": err.Error()})
	}
}
