package repository

import (
	"context"
	"errors"

	"github.com/reazulhasan44/MangoRestaurent/services/order-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// AddOrder persists the order with its line items in one transaction.
	// When an order with the same request token already exists, the existing
	// order is loaded into the argument instead and created is false.
	AddOrder(ctx context.Context, order *models.OrderHeader) (created bool, err error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.OrderHeader, error)
	FindByUserID(ctx context.Context, userID string, page, limit int) ([]models.OrderHeader, int64, error)
	SetPaymentStatus(ctx context.Context, orderID uuid.UUID, paid bool) error
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// AddOrder creates the order and its items atomically. The request_token
// unique index turns a concurrent or redelivered insert into a
// gorm.ErrDuplicatedKey, which is resolved by loading the existing order.
func (r *GormOrderRepository) AddOrder(ctx context.Context, order *models.OrderHeader) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return false, err
	}

	existing, findErr := r.findByToken(ctx, order.RequestToken)
	if findErr != nil {
		return false, findErr
	}
	*order = *existing
	return false, nil
}

func (r *GormOrderRepository) findByToken(ctx context.Context, token string) (*models.OrderHeader, error) {
	var order models.OrderHeader
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("request_token = ?", token).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.OrderHeader, error) {
	var order models.OrderHeader
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByUserID retrieves a user's orders with pagination, newest first.
func (r *GormOrderRepository) FindByUserID(ctx context.Context, userID string, page, limit int) ([]models.OrderHeader, int64, error) {
	var orders []models.OrderHeader
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.OrderHeader{}).
		Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("Items").
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// SetPaymentStatus flips the payment-status flag for the given order.
func (r *GormOrderRepository) SetPaymentStatus(ctx context.Context, orderID uuid.UUID, paid bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.OrderHeader{}).
		Where("id = ?", orderID).
		Update("payment_status", paid)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
