package models

import "time"

// EventCheckoutRequested is the event name carried by every checkout message.
const EventCheckoutRequested = "checkout.requested"

// CheckoutRequest is the HTTP payload for POST /cart/checkout.
type CheckoutRequest struct {
	FirstName       string    `json:"first_name" binding:"required"`
	LastName        string    `json:"last_name" binding:"required"`
	Phone           string    `json:"phone"`
	Email           string    `json:"email" binding:"required,email"`
	CardNumber      string    `json:"card_number" binding:"required"`
	CVV             string    `json:"cvv" binding:"required"`
	ExpiryMonthYear string    `json:"expiry_month_year" binding:"required"`
	CouponCode      string    `json:"coupon_code"`
	DiscountTotal   float64   `json:"discount_total"`
	OrderTotal      float64   `json:"order_total" binding:"required"`
	PickupTime      time.Time `json:"pickup_time"`
}

// CheckoutEvent is the snapshot of a cart at checkout time, published to the
// checkout topic. Field names are the wire contract between cart-service and
// order-service and must stay stable across deployments.
type CheckoutEvent struct {
	Event           string     `json:"event"`
	RequestToken    string     `json:"request_token"`
	UserID          string     `json:"user_id"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Phone           string     `json:"phone"`
	Email           string     `json:"email"`
	CardNumber      string     `json:"card_number"`
	CVV             string     `json:"cvv"`
	ExpiryMonthYear string     `json:"expiry_month_year"`
	CouponCode      string     `json:"coupon_code"`
	DiscountTotal   float64    `json:"discount_total"`
	OrderTotal      float64    `json:"order_total"`
	PickupTime      time.Time  `json:"pickup_time"`
	Items           []CartItem `json:"items"`
	Timestamp       time.Time  `json:"timestamp"`
}
