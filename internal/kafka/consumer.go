package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/segmentio/kafka-go"
)

// ReceiptHandler processes one decoded receipt event.
type ReceiptHandler func(ctx context.Context, event ReceiptEvent) error

// Consumer reads receipt events from Kafka as part of a consumer group.
type Consumer struct {
	reader *kafka.Reader
}

// NewConsumer creates a new Consumer.
func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			Topic:   topic,
			GroupID: groupID,
		}),
	}
}

// Run consumes messages until the context is cancelled. Messages that fail
// to decode are logged and skipped; handler errors are logged and the
// message is not retried (receipts are best-effort).
func (c *Consumer) Run(ctx context.Context, handler ReceiptHandler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		var event ReceiptEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Printf("skipping undecodable receipt event at offset %d: %v", msg.Offset, err)
			continue
		}

		if err := handler(ctx, event); err != nil {
			log.Printf("receipt handler failed for %s: %v", event.Email, err)
		}
	}
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
