package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	EventFlightCreated    = "flight_created"
	EventFlightUpdated    = "flight_updated"
	EventFlightDeleted    = "flight_deleted"
	EventBookingCreated   = "booking_created"
	EventBookingCheckedIn = "booking_checked_in"
	EventBookingRefunded  = "booking_refunded"
	EventReviewAdded      = "review_added"
)

// LedgerEvent is the notification payload published for every catalog and
// ledger state change. Observability only, never load-bearing.
type LedgerEvent struct {
	Type       string    `json:"type"`
	FlightID   int64     `json:"flight_id"`
	BookingID  int64     `json:"booking_id,omitempty"`
	Caller     string    `json:"caller,omitempty"`
	Seats      int       `json:"seats,omitempty"`
	TotalPrice int64     `json:"total_price,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Producer struct {
	brokers []string
	writer  *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	return &Producer{
		brokers: brokers,
		writer:  writer,
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
