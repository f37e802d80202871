package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Domenick1991/flightledger/config"
	"github.com/segmentio/kafka-go"
)

const (
	defaultHeartbeat      = 3 * time.Second
	defaultSessionTimeout = 30 * time.Second
)

// Consumer reads ledger events from a topic as part of a consumer group.
type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(cfg config.KafkaConfig, topic string) *Consumer {
	heartbeat := time.Duration(cfg.HeartbeatSeconds) * time.Second
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	session := time.Duration(cfg.SessionTimeoutSeconds) * time.Second
	if session <= 0 {
		session = defaultSessionTimeout
	}
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           cfg.Brokers,
			GroupID:           cfg.GroupID,
			Topic:             topic,
			HeartbeatInterval: heartbeat,
			SessionTimeout:    session,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume decodes each message into a LedgerEvent and hands it to handler.
// Messages that do not decode are skipped; a handler error stops the loop.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, LedgerEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		event, err := decodeEvent(msg.Value)
		if err != nil {
			continue
		}
		if err := handler(ctx, event); err != nil {
			return err
		}
	}
}

func decodeEvent(data []byte) (LedgerEvent, error) {
	var event LedgerEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return LedgerEvent{}, err
	}
	return event, nil
}
