package models

import (
	"time"

	"github.com/google/uuid"
)

type CartItem struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
}

type Cart struct {
	UserID     string     `json:"user_id"`
	CouponCode string     `json:"coupon_code,omitempty"`
	Items      []CartItem `json:"items"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
