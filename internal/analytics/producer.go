// Package analytics publishes game events to Kafka and drains them into
// an analytics table. It is an operational sink; gameplay never depends
// on it.
package analytics

import (
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
)

// GameEvent represents an event in the life of a game session.
type GameEvent struct {
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	GameID    string         `json:"gameId"`
	Data      map[string]any `json:"data"`
}

// EventType constants
const (
	EventGameStart   = "game_start"
	EventMove        = "move"
	EventGameEnd     = "game_end"
	EventPlayerJoin  = "player_join"
	EventPlayerLeave = "player_leave"
)

// Producer handles sending events to Kafka
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	return &Producer{
		producer: producer,
		topic:    topic,
	}, nil
}

// SendEvent sends a game event to Kafka
func (p *Producer) SendEvent(event GameEvent) error {
	event.Timestamp = time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Value: sarama.StringEncoder(payload),
	}

	_, _, err = p.producer.SendMessage(msg)
	return err
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	return p.producer.Close()
}

// Helper functions to create specific events

// CreateGameStartEvent records both seats filling and play beginning.
func CreateGameStartEvent(gameID, red, blue string) GameEvent {
	return GameEvent{
		Type:   EventGameStart,
		GameID: gameID,
		Data: map[string]any{
			"red":  red,
			"blue": blue,
		},
	}
}

// CreateMoveEvent records one accepted move.
func CreateMoveEvent(gameID string, player string, row, col int) GameEvent {
	return GameEvent{
		Type:   EventMove,
		GameID: gameID,
		Data: map[string]any{
			"player": player,
			"row":    row,
			"column": col,
		},
	}
}

// CreateGameEndEvent records the session outcome: "won", "stalemate" or
// "abandoned". Winner is empty unless the outcome is "won".
func CreateGameEndEvent(gameID string, outcome, winner string, duration time.Duration) GameEvent {
	return GameEvent{
		Type:   EventGameEnd,
		GameID: gameID,
		Data: map[string]any{
			"outcome":  outcome,
			"winner":   winner,
			"duration": duration.Seconds(),
		},
	}
}

// CreatePlayerEvent records a player joining or leaving a session.
func CreatePlayerEvent(eventType string, gameID, player string) GameEvent {
	return GameEvent{
		Type:   eventType,
		GameID: gameID,
		Data: map[string]any{
			"player": player,
		},
	}
}
