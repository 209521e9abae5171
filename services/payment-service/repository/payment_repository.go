package repository

import (
	"context"
	"time"

	"github.com/reazulhasan44/MangoRestaurent/services/payment-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	// AddPayment inserts a new payment row. Returns gorm.ErrDuplicatedKey
	// when a payment already exists for the order, which callers treat as
	// a redelivered request.
	AddPayment(ctx context.Context, payment *models.Payment) error
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Payment, error)
	FindByStripeID(ctx context.Context, stripeID string) (*models.Payment, error)
	// SetStripeID records the gateway reference once the payment intent
	// has been created.
	SetStripeID(ctx context.Context, orderID uuid.UUID, stripeID string) error
	// SetStatus moves a payment to the given status and stamps the
	// matching settlement time for terminal statuses.
	SetStatus(ctx context.Context, orderID uuid.UUID, status string) error
}

type gormPaymentRepository struct {
	db *gorm.DB
}

func NewGormPaymentRepository(db *gorm.DB) PaymentRepository {
	return &gormPaymentRepository{db: db}
}

func (r *gormPaymentRepository) AddPayment(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *gormPaymentRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *gormPaymentRepository) FindByStripeID(ctx context.Context, stripeID string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Where("stripe_payment_id = ?", stripeID).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *gormPaymentRepository) SetStripeID(ctx context.Context, orderID uuid.UUID, stripeID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("order_id = ?", orderID).
		Update("stripe_payment_id", stripeID).Error
}

func (r *gormPaymentRepository) SetStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	now := time.Now()
	updates := map[string]interface{}{"status": status}
	switch status {
	case models.StatusSucceeded:
		updates["succeeded_at"] = &now
	case models.StatusFailed:
		updates["failed_at"] = &now
	}
	return r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("order_id = ?", orderID).
		Updates(updates).Error
}
