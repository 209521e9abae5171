package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Coupon is a promotional code stored in Postgres. DiscountAmount is the
// flat discount currently granted by the code; checkout compares it against
// the discount the client believes was applied.
type Coupon struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code           string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	DiscountAmount float64        `gorm:"not null" json:"discount_amount"`
	Active         bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
