package messagebus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaMessageBus implements MessageBus over a single kafka-go writer.
// The writer is topic-less; each message carries its destination.
type KafkaMessageBus struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewKafkaMessageBus(brokers []string, logger *zap.Logger) *KafkaMessageBus {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	logger.Info("kafka message bus initialized", zap.Strings("brokers", brokers))
	return &KafkaMessageBus{writer: writer, logger: logger}
}

// Publish marshals the message to JSON and writes it to the destination
// topic. The error is returned to the caller, never swallowed.
func (b *KafkaMessageBus) Publish(ctx context.Context, destination, key string, message any) error {
	if destination == "" {
		return fmt.Errorf("publish: empty destination")
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("publish to %s: marshal: %w", destination, err)
	}

	msg := kafka.Message{
		Topic: destination,
		Key:   []byte(key),
		Value: data,
	}

	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		b.logger.Error("kafka publish failed",
			zap.String("destination", destination),
			zap.Error(err),
		)
		return fmt.Errorf("publish to %s: %w", destination, err)
	}
	return nil
}

func (b *KafkaMessageBus) Close() error {
	b.logger.Info("closing kafka message bus")
	return b.writer.Close()
}
