package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment lifecycle statuses. A payment is terminal once it reaches
// SUCCEEDED or FAILED; webhook redeliveries for terminal payments are
// ignored.
const (
	StatusProcessing = "PROCESSING"
	StatusSucceeded  = "SUCCEEDED"
	StatusFailed     = "FAILED"
)

type Payment struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID         uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"order_id"`
	Amount          int64      `gorm:"not null" json:"amount"` // smallest currency unit
	Currency        string     `gorm:"type:varchar(10);not null" json:"currency"`
	Status          string     `gorm:"type:varchar(20);not null" json:"status"`
	StripePaymentID *string    `gorm:"uniqueIndex" json:"stripe_payment_id,omitempty"`
	SucceededAt     *time.Time `json:"succeeded_at,omitempty"`
	FailedAt        *time.Time `json:"failed_at,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
