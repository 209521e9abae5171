package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderHeader is the durable record materialized from a CheckoutEvent. It is
// owned exclusively by this service. RequestToken carries the originating
// checkout's idempotency key; the unique index makes redelivered checkout
// messages collapse onto the same order instead of inserting twice.
type OrderHeader struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestToken    string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"request_token"`
	UserID          string    `gorm:"type:varchar(64);not null;index" json:"user_id"`
	FirstName       string    `gorm:"type:varchar(128)" json:"first_name"`
	LastName        string    `gorm:"type:varchar(128)" json:"last_name"`
	Phone           string    `gorm:"type:varchar(32)" json:"phone"`
	Email           string    `gorm:"type:varchar(256)" json:"email"`
	CardNumber      string    `gorm:"type:varchar(32)" json:"-"`
	CVV             string    `gorm:"type:varchar(8)" json:"-"`
	ExpiryMonthYear string    `gorm:"type:varchar(16)" json:"-"`
	CouponCode      string    `gorm:"type:varchar(64)" json:"coupon_code"`
	DiscountTotal   float64   `json:"discount_total"`
	OrderTotal      float64   `gorm:"not null" json:"order_total"`
	PickupTime      time.Time `json:"pickup_time"`
	PaymentStatus   bool      `gorm:"not null;default:false" json:"payment_status"`
	TotalItems      int       `gorm:"not null" json:"total_items"`
	OrderTime       time.Time `gorm:"not null" json:"order_time"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Items []OrderLineItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// OrderLineItem is a child of OrderHeader, derived 1:1 from the checkout
// event's cart lines. Never created or deleted independently of its parent.
type OrderLineItem struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	ProductName string    `gorm:"type:varchar(256);not null" json:"product_name"`
	Price       float64   `gorm:"not null" json:"price"`
	Quantity    int       `gorm:"not null" json:"quantity"`
}
