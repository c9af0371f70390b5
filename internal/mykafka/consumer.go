package mykafka

import (
	"context"
	"errors"

	"github.com/segmentio/kafka-go"

	"github.com/Skotchmaster/grocery_shop/internal/logging"
)

// Handler processes one message. Errors are logged and the message is
// skipped.
type Handler func(ctx context.Context, key, value []byte) error

type Consumer struct {
	r *kafka.Reader
}

// NewConsumer reads topic as member of group, starting at the newest
// offset when the group has no committed position.
func NewConsumer(brokers []string, group, topic string) *Consumer {
	return &Consumer{r: kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupID:     group,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})}
}

// Run blocks until ctx is cancelled or the reader fails.
func (c *Consumer) Run(ctx context.Context, h Handler) error {
	for {
		m, err := c.r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if err := h(ctx, m.Key, m.Value); err != nil {
			logging.FromContext(ctx).Warn("kafka_message_skipped", "topic", m.Topic, "offset", m.Offset, "error", err)
		}
	}
}

func (c *Consumer) Close() error {
	return c.r.Close()
}
