package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/reazulhasan44/MangoRestaurent/services/common/messagebus"
	"github.com/reazulhasan44/MangoRestaurent/services/payment-service/models"
	"github.com/reazulhasan44/MangoRestaurent/services/payment-service/repository"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentRequestConsumer reads payment requests off the broker, opens a
// payment with the gateway, and announces failures immediately. Successful
// settlements are reported later by the Stripe webhook, not here.
type PaymentRequestConsumer struct {
	reader      *kafkago.Reader
	payments    repository.PaymentRepository
	gateway     PaymentGateway
	bus         messagebus.MessageBus
	eventsTopic string
	currency    string
	topic       string
	logger      *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPaymentRequestConsumer(
	brokers []string,
	topic, groupID string,
	payments repository.PaymentRepository,
	gateway PaymentGateway,
	bus messagebus.MessageBus,
	eventsTopic, currency string,
	logger *zap.Logger,
) *PaymentRequestConsumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1e3,
		MaxBytes: 10e6,
	})
	return &PaymentRequestConsumer{
		reader:      reader,
		payments:    payments,
		gateway:     gateway,
		bus:         bus,
		eventsTopic: eventsTopic,
		currency:    currency,
		topic:       topic,
		logger:      logger,
	}
}

func (pc *PaymentRequestConsumer) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	pc.cancel = cancel

	pc.wg.Add(1)
	go pc.run(runCtx)
	pc.logger.Info("payment request consumer started", zap.String("topic", pc.topic))
}

func (pc *PaymentRequestConsumer) Stop() error {
	if pc.cancel != nil {
		pc.cancel()
	}
	err := pc.reader.Close()
	pc.wg.Wait()
	pc.logger.Info("payment request consumer stopped", zap.String("topic", pc.topic))
	return err
}

func (pc *PaymentRequestConsumer) run(ctx context.Context) {
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

		// Commit only after the request is handled. A crash mid-handle
		// redelivers; the unique OrderID index makes the replay a no-op once
		// the payment row exists.
		if err := pc.handle(ctx, msg.Value); err != nil {
			pc.logger.Error("payment request handling failed, leaving message unacknowledged",
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

// handle opens a payment for one request. A nil return means the request
// is settled from this consumer's point of view and may be acknowledged; an
// error means a transient failure worth a redelivery.
func (pc *PaymentRequestConsumer) handle(ctx context.Context, payload []byte) error {
	var req models.PaymentRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		pc.logger.Error("invalid payment request", zap.Error(err), zap.ByteString("payload", payload))
		return nil
	}
	if req.OrderID == uuid.Nil || req.OrderTotal <= 0 {
		pc.logger.Error("payment request missing fields",
			zap.String("order_id", req.OrderID.String()),
			zap.Float64("order_total", req.OrderTotal),
		)
		return nil
	}

	amount := int64(math.Round(req.OrderTotal * 100))
	payment := &models.Payment{
		OrderID:  req.OrderID,
		Amount:   amount,
		Currency: pc.currency,
		Status:   models.StatusProcessing,
	}

	if err := pc.payments.AddPayment(ctx, payment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			pc.logger.Info("payment already opened for order, skipping",
				zap.String("order_id", req.OrderID.String()),
			)
			return nil
		}
		return fmt.Errorf("record payment for order %s: %w", req.OrderID, err)
	}

	intent, err := pc.gateway.CreatePaymentIntent(amount, pc.currency, req.OrderID.String())
	if err != nil {
		pc.logger.Error("payment intent creation failed",
			zap.String("order_id", req.OrderID.String()),
			zap.Error(err),
		)
		if dbErr := pc.payments.SetStatus(ctx, req.OrderID, models.StatusFailed); dbErr != nil {
			pc.logger.Error("failed to mark payment failed",
				zap.String("order_id", req.OrderID.String()),
				zap.Error(dbErr),
			)
		}
		pc.publishEvent(ctx, models.PaymentEvent{
			Type:      models.PaymentFailed,
			OrderID:   req.OrderID.String(),
			PaymentID: payment.ID.String(),
			Timestamp: time.Now().UTC(),
		})
		return nil
	}

	// The payment row already exists, so a redelivery would stop at the
	// duplicate check; this failure is logged rather than retried.
	if err := pc.payments.SetStripeID(ctx, req.OrderID, intent.ID); err != nil {
		pc.logger.Error("failed to record gateway reference",
			zap.String("order_id", req.OrderID.String()),
			zap.String("payment_intent_id", intent.ID),
			zap.Error(err),
		)
		return nil
	}

	pc.logger.Info("payment intent created",
		zap.String("order_id", req.OrderID.String()),
		zap.String("payment_intent_id", intent.ID),
		zap.Int64("amount", amount),
	)
	return nil
}

func (pc *PaymentRequestConsumer) publishEvent(ctx context.Context, event models.PaymentEvent) {
	if err := pc.bus.Publish(ctx, pc.eventsTopic, event.OrderID, event); err != nil {
		pc.logger.Error("failed to publish payment event",
			zap.String("order_id", event.OrderID),
			zap.String("type", event.Type),
			zap.Error(err),
		)
		return
	}
	pc.logger.Info("payment event published",
		zap.String("order_id", event.OrderID),
		zap.String("type", event.Type),
	)
}
