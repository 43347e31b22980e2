package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// ReceiptEvent is the fire-and-forget booking receipt contract. It carries
// everything the mail worker needs; delivery failure never affects the
// booking it describes.
type ReceiptEvent struct {
	Email       string `json:"email"`
	TollName    string `json:"toll_name"`
	TimeSlot    string `json:"time_slot"`
	BookingDate string `json:"booking_date"`
	Amount      string `json:"amount"`
	BookingType string `json:"booking_type"`
	DistanceKm  string `json:"distance_km,omitempty"`
}

// Producer publishes events to Kafka.
type Producer struct {
	writer *kafka.Writer
}

// NewProducer creates a new Producer.
func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// Publish sends one JSON-encoded message to the topic.
func (p *Producer) Publish(ctx context.Context, topic, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
