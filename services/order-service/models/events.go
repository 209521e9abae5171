package models

import (
	"time"

	"github.com/google/uuid"
)

// Wire types shared with cart-service and the payment service. Field names
// are the cross-service contract; changes must stay backward-compatible for
// messages already in flight.

// EventCheckoutRequested is the expected event name on the checkout topic.
const EventCheckoutRequested = "checkout.requested"

// Payment event types (payment-service → order-service).
const (
	PaymentSucceeded = "payment_succeeded"
	PaymentFailed    = "payment_failed"
)

// CheckoutEvent arrives from cart-service on the checkout topic.
type CheckoutEvent struct {
	Event           string         `json:"event"`
	RequestToken    string         `json:"request_token"`
	UserID          string         `json:"user_id"`
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	Phone           string         `json:"phone"`
	Email           string         `json:"email"`
	CardNumber      string         `json:"card_number"`
	CVV             string         `json:"cvv"`
	ExpiryMonthYear string         `json:"expiry_month_year"`
	CouponCode      string         `json:"coupon_code"`
	DiscountTotal   float64        `json:"discount_total"`
	OrderTotal      float64        `json:"order_total"`
	PickupTime      time.Time      `json:"pickup_time"`
	Items           []CheckoutItem `json:"items"`
	Timestamp       time.Time      `json:"timestamp"`
}

type CheckoutItem struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
}

// PaymentRequest goes to the payment-processing topic once the order is
// durably created.
type PaymentRequest struct {
	OrderID         uuid.UUID `json:"order_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	CardNumber      string    `json:"card_number"`
	CVV             string    `json:"cvv"`
	ExpiryMonthYear string    `json:"expiry_month_year"`
	OrderTotal      float64   `json:"order_total"`
}

// PaymentEvent arrives from the payment service once payment settles.
type PaymentEvent struct {
	Type      string    `json:"type"`
	OrderID   string    `json:"order_id"`
	PaymentID string    `json:"payment_id,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}
