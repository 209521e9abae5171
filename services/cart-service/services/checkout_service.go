package services

import (
	"context"
	"net/http"
	"time"

	"github.com/reazulhasan44/MangoRestaurent/services/cart-service/models"
	"github.com/reazulhasan44/MangoRestaurent/services/common/messagebus"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CouponChangedMessage is returned when the discount the client believes was
// applied no longer matches the coupon's stored discount.
const CouponChangedMessage = "Coupon Price has changed, please confirm"

// ServiceError represents a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// CartRepository is the slice of cart storage the checkout flow needs.
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
	DeleteCart(ctx context.Context, userID string) error
}

// CouponRepository resolves coupon codes. FindByCode returns (nil, nil) for
// unknown codes.
type CouponRepository interface {
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
}

// CheckoutService turns a cart into a checkout event on the message bus.
type CheckoutService interface {
	Checkout(ctx context.Context, userID string, req *models.CheckoutRequest) (*models.CheckoutEvent, *ServiceError)
}

type checkoutServiceImpl struct {
	carts         CartRepository
	coupons       CouponRepository
	bus           messagebus.MessageBus
	checkoutTopic string
	logger        *zap.Logger
}

func NewCheckoutService(
	carts CartRepository,
	coupons CouponRepository,
	bus messagebus.MessageBus,
	checkoutTopic string,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		carts:         carts,
		coupons:       coupons,
		bus:           bus,
		checkoutTopic: checkoutTopic,
		logger:        logger,
	}
}

// Checkout validates the cart and coupon, publishes a CheckoutEvent, and
// clears the cart. The cart is cleared only after the publish succeeded: a
// failed publish aborts the checkout with the cart intact, so no order is
// ever lost silently.
func (s *checkoutServiceImpl) Checkout(ctx context.Context, userID string, req *models.CheckoutRequest) (*models.CheckoutEvent, *ServiceError) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load cart", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "failed to load cart"}
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "cart is empty"}
	}

	couponCode := req.CouponCode
	if couponCode == "" {
		couponCode = cart.CouponCode
	}

	if couponCode != "" {
		coupon, err := s.coupons.FindByCode(ctx, couponCode)
		if err != nil {
			s.logger.Error("failed to load coupon", zap.String("code", couponCode), zap.Error(err))
			return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "failed to load coupon"}
		}
		if coupon == nil {
			return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "invalid coupon: " + couponCode}
		}
		if req.DiscountTotal != coupon.DiscountAmount {
			return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: CouponChangedMessage}
		}
	}

	event := &models.CheckoutEvent{
		Event:           models.EventCheckoutRequested,
		RequestToken:    uuid.NewString(),
		UserID:          userID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		Email:           req.Email,
		CardNumber:      req.CardNumber,
		CVV:             req.CVV,
		ExpiryMonthYear: req.ExpiryMonthYear,
		CouponCode:      couponCode,
		DiscountTotal:   req.DiscountTotal,
		OrderTotal:      req.OrderTotal,
		PickupTime:      req.PickupTime,
		Items:           cart.Items,
		Timestamp:       time.Now(),
	}

	if err := s.bus.Publish(ctx, s.checkoutTopic, userID, event); err != nil {
		s.logger.Error("failed to publish checkout event",
			zap.String("user_id", userID),
			zap.String("request_token", event.RequestToken),
			zap.Error(err),
		)
		return nil, &ServiceError{StatusCode: http.StatusBadGateway, Message: "failed to publish checkout event"}
	}

	// The event owns the order from here on; a failed clear must not fail
	// the checkout.
	if err := s.carts.DeleteCart(ctx, userID); err != nil {
		s.logger.Warn("failed to clear cart after checkout",
			zap.String("user_id", userID),
			zap.String("request_token", event.RequestToken),
			zap.Error(err),
		)
	}

	s.logger.Info("checkout published",
		zap.String("user_id", userID),
		zap.String("request_token", event.RequestToken),
		zap.Int("items", len(event.Items)),
		zap.Float64("order_total", event.OrderTotal),
	)
	return event, nil
}
