package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/reazulhasan44/MangoRestaurent/services/order-service/models"
	"github.com/reazulhasan44/MangoRestaurent/services/order-service/repository"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentConsumer listens for payment-settlement events and flips the
// payment-status flag on the matching order. This is the only path that
// mutates an order after creation.
type PaymentConsumer struct {
	reader *kafkago.Reader
	orders repository.OrderRepository
	topic  string
	logger *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPaymentConsumer(brokers []string, topic, groupID string, orders repository.OrderRepository, logger *zap.Logger) *PaymentConsumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1e3,
		MaxBytes: 10e6,
	})
	return &PaymentConsumer{
		reader: reader,
		orders: orders,
		topic:  topic,
		logger: logger,
	}
}

func (pc *PaymentConsumer) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	pc.cancel = cancel

	pc.wg.Add(1)
	go pc.run(runCtx)
	pc.logger.Info("payment consumer started", zap.String("topic", pc.topic))
}

func (pc *PaymentConsumer) Stop() error {
	if pc.cancel != nil {
		pc.cancel()
	}
	err := pc.reader.Close()
	pc.wg.Wait()
	pc.logger.Info("payment consumer stopped", zap.String("topic", pc.topic))
	return err
}

func (pc *PaymentConsumer) run(ctx context.Context) {
	defer pc.wg.Done()

	for {
		msg, err := pc.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return
			}
			pc.logger.Error("broker fetch error", zap.String("topic", pc.topic), zap.Error(err))
			continue
		}

		// Commit only once the event is handled; a crash mid-handle leaves
		// the offset for redelivery. SetPaymentStatus is idempotent, so a
		// redelivered event is safe.
		if err := pc.handle(ctx, msg.Value); err != nil {
			pc.logger.Error("payment event handling failed, leaving message unacknowledged",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			continue
		}
		if err := pc.reader.CommitMessages(ctx, msg); err != nil {
			pc.logger.Error("offset commit failed",
				zap.String("topic", pc.topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

// handle applies one payment event. A nil return means the event is done
// with (applied, ignored, or unusable) and may be acknowledged; an error
// means a transient failure worth a redelivery.
func (pc *PaymentConsumer) handle(ctx context.Context, payload []byte) error {
	var evt models.PaymentEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		pc.logger.Error("invalid payment event", zap.Error(err), zap.ByteString("payload", payload))
		return nil
	}
	if evt.OrderID == "" || evt.Type == "" {
		pc.logger.Error("payment event missing fields",
			zap.String("order_id", evt.OrderID),
			zap.String("type", evt.Type),
		)
		return nil
	}

	orderID, err := uuid.Parse(evt.OrderID)
	if err != nil {
		pc.logger.Error("payment event order_id is not a UUID", zap.String("order_id", evt.OrderID))
		return nil
	}

	switch evt.Type {
	case models.PaymentSucceeded:
		if err := pc.orders.SetPaymentStatus(ctx, orderID, true); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Redelivery cannot conjure up the order.
				pc.logger.Error("payment event for unknown order", zap.String("order_id", evt.OrderID))
				return nil
			}
			return fmt.Errorf("mark order %s paid: %w", evt.OrderID, err)
		}
		pc.logger.Info("order paid",
			zap.String("order_id", evt.OrderID),
			zap.String("payment_id", evt.PaymentID),
		)
	case models.PaymentFailed:
		pc.logger.Warn("payment failed for order",
			zap.String("order_id", evt.OrderID),
			zap.String("payment_id", evt.PaymentID),
		)
	default:
		pc.logger.Warn("unknown payment event type", zap.String("type", evt.Type))
	}
	return nil
}
