package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/reazulhasan44/MangoRestaurent/services/common/messagebus"
	"github.com/reazulhasan44/MangoRestaurent/services/payment-service/models"
	"github.com/reazulhasan44/MangoRestaurent/services/payment-service/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WebhookParser verifies and decodes an incoming Stripe webhook request.
type WebhookParser interface {
	ParseWebhook(r *http.Request) (stripe.Event, error)
}

var terminalStatuses = map[string]bool{
	models.StatusSucceeded: true,
	models.StatusFailed:    true,
}

type PaymentController struct {
	payments    repository.PaymentRepository
	parser      WebhookParser
	bus         messagebus.MessageBus
	eventsTopic string
	logger      *zap.Logger
}

func NewPaymentController(
	payments repository.PaymentRepository,
	parser WebhookParser,
	bus messagebus.MessageBus,
	eventsTopic string,
	logger *zap.Logger,
) *PaymentController {
	return &PaymentController{
		payments:    payments,
		parser:      parser,
		bus:         bus,
		eventsTopic: eventsTopic,
		logger:      logger,
	}
}

// StripeWebhook receives settlement notifications from Stripe and turns
// them into payment events on the bus.
func (pc *PaymentController) StripeWebhook(c *gin.Context) {
	event, err := pc.parser.ParseWebhook(c.Request)
	if err != nil {
		pc.logger.Warn("webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid webhook"})
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		pc.settle(c, event, models.StatusSucceeded, models.PaymentSucceeded)
	case "payment_intent.payment_failed":
		pc.settle(c, event, models.StatusFailed, models.PaymentFailed)
	default:
		pc.logger.Info("unhandled webhook event type", zap.String("event_type", string(event.Type)))
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "received"})
}

func (pc *PaymentController) settle(c *gin.Context, event stripe.Event, status, eventType string) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		pc.logger.Error("failed to decode payment intent", zap.String("event_id", event.ID), zap.Error(err))
		return
	}

	payment, err := pc.payments.FindByStripeID(c.Request.Context(), intent.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			pc.logger.Warn("no payment for payment intent", zap.String("payment_intent_id", intent.ID))
			return
		}
		pc.logger.Error("payment lookup failed", zap.String("payment_intent_id", intent.ID), zap.Error(err))
		return
	}

	if terminalStatuses[payment.Status] {
		pc.logger.Info("skipping duplicate webhook",
			zap.String("payment_id", payment.ID.String()),
			zap.String("status", payment.Status),
		)
		return
	}

	if err := pc.payments.SetStatus(c.Request.Context(), payment.OrderID, status); err != nil {
		pc.logger.Error("failed to update payment status",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err),
		)
		return
	}

	paymentEvent := models.PaymentEvent{
		Type:      eventType,
		OrderID:   payment.OrderID.String(),
		PaymentID: payment.ID.String(),
		Timestamp: time.Now().UTC(),
	}
	if err := pc.bus.Publish(c.Request.Context(), pc.eventsTopic, paymentEvent.OrderID, paymentEvent); err != nil {
		pc.logger.Error("failed to publish payment event",
			zap.String("order_id", paymentEvent.OrderID),
			zap.String("type", eventType),
			zap.Error(err),
		)
		return
	}

	pc.logger.Info("payment settled",
		zap.String("order_id", paymentEvent.OrderID),
		zap.String("type", eventType),
	)
}

// GetPaymentByOrderID returns the payment record for an order.
func (pc *PaymentController) GetPaymentByOrderID(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("orderID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid order id"})
		return
	}

	payment, err := pc.payments.FindByOrderID(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "payment not found"})
			return
		}
		pc.logger.Error("payment lookup failed", zap.String("order_id", orderID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "result": payment})
}
