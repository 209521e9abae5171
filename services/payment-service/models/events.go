package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment event types (payment-service → order-service).
const (
	PaymentSucceeded = "payment_succeeded"
	PaymentFailed    = "payment_failed"
)

// PaymentRequest arrives from order-service on the payment-request topic.
// Field names are the cross-service contract.
type PaymentRequest struct {
	OrderID         uuid.UUID `json:"order_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	CardNumber      string    `json:"card_number"`
	CVV             string    `json:"cvv"`
	ExpiryMonthYear string    `json:"expiry_month_year"`
	OrderTotal      float64   `json:"order_total"`
}

// PaymentEvent is published once a payment settles (or fails to start).
type PaymentEvent struct {
	Type      string    `json:"type"`
	OrderID   string    `json:"order_id"`
	PaymentID string    `json:"payment_id,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}
