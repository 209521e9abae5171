package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/reazulhasan44/MangoRestaurent/services/common/messagebus"
	"github.com/reazulhasan44/MangoRestaurent/services/order-service/models"
	"github.com/reazulhasan44/MangoRestaurent/services/order-service/repository"

	"go.uber.org/zap"
)

// Stage identifies where in the pipeline a checkout message failed, so
// operators and tests can tell "order exists, payment not requested" apart
// from "order never created".
type Stage string

const (
	StageDeserialize Stage = "deserialize"
	StagePersist     Stage = "persist"
	StagePublish     Stage = "publish"
)

// ProcessingError tags a failure with its pipeline stage.
type ProcessingError struct {
	Stage Stage
	Err   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("checkout processing failed at %s: %v", e.Stage, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// Retryable reports whether redelivering the message can possibly help.
// Malformed payloads never deserialize differently on a second attempt.
func (e *ProcessingError) Retryable() bool {
	return e.Stage != StageDeserialize
}

// CheckoutProcessor materializes one order per checkout message and requests
// payment for it. This is the only place an order is created from a
// checkout event.
type CheckoutProcessor struct {
	orders       repository.OrderRepository
	bus          messagebus.MessageBus
	paymentTopic string
	logger       *zap.Logger
}

func NewCheckoutProcessor(
	orders repository.OrderRepository,
	bus messagebus.MessageBus,
	paymentTopic string,
	logger *zap.Logger,
) *CheckoutProcessor {
	return &CheckoutProcessor{
		orders:       orders,
		bus:          bus,
		paymentTopic: paymentTopic,
		logger:       logger,
	}
}

// Process handles one delivered checkout message: deserialize, persist the
// order with its line items, then publish the payment request. The caller
// must not acknowledge the message unless Process returns nil. Processing
// is idempotent under redelivery: a request token that was already
// persisted reuses the existing order and still publishes the payment
// request, so a crash between persist and publish cannot strand an order.
func (p *CheckoutProcessor) Process(ctx context.Context, payload []byte) error {
	var evt models.CheckoutEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return &ProcessingError{Stage: StageDeserialize, Err: err}
	}
	if err := validateEvent(&evt); err != nil {
		return &ProcessingError{Stage: StageDeserialize, Err: err}
	}

	order := buildOrder(&evt)

	created, err := p.orders.AddOrder(ctx, order)
	if err != nil {
		return &ProcessingError{Stage: StagePersist, Err: err}
	}
	if !created {
		p.logger.Warn("duplicate checkout delivery, reusing existing order",
			zap.String("request_token", evt.RequestToken),
			zap.String("order_id", order.ID.String()),
		)
	}

	// Needs the generated order id, so this strictly follows the persist.
	paymentReq := models.PaymentRequest{
		OrderID:         order.ID,
		Name:            order.FirstName + " " + order.LastName,
		Email:           order.Email,
		CardNumber:      order.CardNumber,
		CVV:             order.CVV,
		ExpiryMonthYear: order.ExpiryMonthYear,
		OrderTotal:      order.OrderTotal,
	}

	if err := p.bus.Publish(ctx, p.paymentTopic, order.ID.String(), paymentReq); err != nil {
		return &ProcessingError{Stage: StagePublish, Err: err}
	}

	p.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", order.UserID),
		zap.Int("total_items", order.TotalItems),
		zap.Float64("order_total", order.OrderTotal),
		zap.Bool("first_delivery", created),
	)
	return nil
}

func validateEvent(evt *models.CheckoutEvent) error {
	if evt.RequestToken == "" {
		return fmt.Errorf("missing request_token")
	}
	if evt.UserID == "" {
		return fmt.Errorf("missing user_id")
	}
	if len(evt.Items) == 0 {
		return fmt.Errorf("checkout event has no items")
	}
	for _, it := range evt.Items {
		if it.Quantity <= 0 {
			return fmt.Errorf("invalid quantity %d for product %s", it.Quantity, it.ProductID)
		}
	}
	return nil
}

// buildOrder derives the order header and its line items (fixed 1:1) from
// the event, accumulating the total item count.
func buildOrder(evt *models.CheckoutEvent) *models.OrderHeader {
	order := &models.OrderHeader{
		RequestToken:    evt.RequestToken,
		UserID:          evt.UserID,
		FirstName:       evt.FirstName,
		LastName:        evt.LastName,
		Phone:           evt.Phone,
		Email:           evt.Email,
		CardNumber:      evt.CardNumber,
		CVV:             evt.CVV,
		ExpiryMonthYear: evt.ExpiryMonthYear,
		CouponCode:      evt.CouponCode,
		DiscountTotal:   evt.DiscountTotal,
		OrderTotal:      evt.OrderTotal,
		PickupTime:      evt.PickupTime,
		PaymentStatus:   false,
		OrderTime:       time.Now(),
		Items:           make([]models.OrderLineItem, 0, len(evt.Items)),
	}

	for _, it := range evt.Items {
		order.Items = append(order.Items, models.OrderLineItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Price:       it.Price,
			Quantity:    it.Quantity,
		})
		order.TotalItems += it.Quantity
	}

	return order
}
