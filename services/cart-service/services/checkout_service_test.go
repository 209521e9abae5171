package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/reazulhasan44/MangoRestaurent/services/cart-service/models"
	"github.com/reazulhasan44/MangoRestaurent/services/cart-service/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ---- mock cart repository ----

type mockCartRepo struct {
	cart    *models.Cart
	getErr  error
	delErr  error
	deleted bool
}

func (m *mockCartRepo) GetCart(_ context.Context, _ string) (*models.Cart, error) {
	return m.cart, m.getErr
}
func (m *mockCartRepo) SaveCart(_ context.Context, _ *models.Cart) error { return nil }
func (m *mockCartRepo) DeleteCart(_ context.Context, _ string) error {
	if m.delErr != nil {
		return m.delErr
	}
	m.deleted = true
	return nil
}

// ---- mock coupon repository ----

type mockCouponRepo struct {
	coupon *models.Coupon
	err    error
}

func (m *mockCouponRepo) FindByCode(_ context.Context, _ string) (*models.Coupon, error) {
	return m.coupon, m.err
}

// ---- mock message bus ----

type publishedMessage struct {
	destination string
	key         string
	message     any
}

type mockBus struct {
	published  []publishedMessage
	publishErr error
}

func (m *mockBus) Publish(_ context.Context, destination, key string, message any) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, publishedMessage{destination, key, message})
	return nil
}
func (m *mockBus) Close() error { return nil }

// ---- helpers ----

func testCart(userID string) *models.Cart {
	return &models.Cart{
		UserID: userID,
		Items: []models.CartItem{
			{ProductID: uuid.New(), ProductName: "A", Price: 10, Quantity: 2},
			{ProductID: uuid.New(), ProductName: "B", Price: 5, Quantity: 1},
		},
	}
}

func checkoutRequest() *models.CheckoutRequest {
	return &models.CheckoutRequest{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "ada@example.com",
		CardNumber:      "4111111111111111",
		CVV:             "123",
		ExpiryMonthYear: "12/30",
		OrderTotal:      25,
	}
}

func newService(carts *mockCartRepo, coupons *mockCouponRepo, bus *mockBus) services.CheckoutService {
	logger := zap.NewNop()
	return services.NewCheckoutService(carts, coupons, bus, "checkout.requested", logger)
}

// ---- tests ----

func TestCheckout_PublishesEventAndClearsCart(t *testing.T) {
	carts := &mockCartRepo{cart: testCart("u1")}
	bus := &mockBus{}
	svc := newService(carts, &mockCouponRepo{}, bus)

	event, svcErr := svc.Checkout(context.Background(), "u1", checkoutRequest())
	require.Nil(t, svcErr)
	require.NotNil(t, event)

	require.Len(t, bus.published, 1)
	assert.Equal(t, "checkout.requested", bus.published[0].destination)
	assert.Equal(t, "u1", bus.published[0].key)

	published, ok := bus.published[0].message.(*models.CheckoutEvent)
	require.True(t, ok)
	assert.Equal(t, models.EventCheckoutRequested, published.Event)
	assert.Equal(t, carts.cart.Items, published.Items)
	assert.NotEmpty(t, published.RequestToken)
	assert.Equal(t, float64(25), published.OrderTotal)

	assert.True(t, carts.deleted, "cart must be cleared after a successful publish")
}

func TestCheckout_EmptyCartPublishesNothing(t *testing.T) {
	bus := &mockBus{}
	svc := newService(&mockCartRepo{cart: nil}, &mockCouponRepo{}, bus)

	_, svcErr := svc.Checkout(context.Background(), "u1", checkoutRequest())
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
	assert.Empty(t, bus.published)
}

func TestCheckout_CouponDiscountMismatch(t *testing.T) {
	carts := &mockCartRepo{cart: testCart("u1")}
	coupons := &mockCouponRepo{coupon: &models.Coupon{Code: "SAVE5", DiscountAmount: 5}}
	bus := &mockBus{}
	svc := newService(carts, coupons, bus)

	req := checkoutRequest()
	req.CouponCode = "SAVE5"
	req.DiscountTotal = 3 // stored discount is 5

	_, svcErr := svc.Checkout(context.Background(), "u1", req)
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
	assert.Equal(t, "Coupon Price has changed, please confirm", svcErr.Message)

	assert.Empty(t, bus.published, "mismatched coupon must not publish")
	assert.False(t, carts.deleted, "mismatched coupon must leave the cart unchanged")
}

func TestCheckout_MatchingCouponSucceeds(t *testing.T) {
	carts := &mockCartRepo{cart: testCart("u1")}
	coupons := &mockCouponRepo{coupon: &models.Coupon{Code: "SAVE5", DiscountAmount: 5}}
	bus := &mockBus{}
	svc := newService(carts, coupons, bus)

	req := checkoutRequest()
	req.CouponCode = "SAVE5"
	req.DiscountTotal = 5

	event, svcErr := svc.Checkout(context.Background(), "u1", req)
	require.Nil(t, svcErr)
	assert.Equal(t, "SAVE5", event.CouponCode)
	assert.Len(t, bus.published, 1)
	assert.True(t, carts.deleted)
}

func TestCheckout_UnknownCouponRejected(t *testing.T) {
	carts := &mockCartRepo{cart: testCart("u1")}
	bus := &mockBus{}
	svc := newService(carts, &mockCouponRepo{coupon: nil}, bus)

	req := checkoutRequest()
	req.CouponCode = "NOPE"

	_, svcErr := svc.Checkout(context.Background(), "u1", req)
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
	assert.Empty(t, bus.published)
}

func TestCheckout_CouponFromCartIsValidated(t *testing.T) {
	cart := testCart("u1")
	cart.CouponCode = "SAVE5"
	coupons := &mockCouponRepo{coupon: &models.Coupon{Code: "SAVE5", DiscountAmount: 5}}
	bus := &mockBus{}
	svc := newService(&mockCartRepo{cart: cart}, coupons, bus)

	req := checkoutRequest() // no coupon on the request itself
	req.DiscountTotal = 5

	event, svcErr := svc.Checkout(context.Background(), "u1", req)
	require.Nil(t, svcErr)
	assert.Equal(t, "SAVE5", event.CouponCode)
}

func TestCheckout_PublishFailureKeepsCart(t *testing.T) {
	carts := &mockCartRepo{cart: testCart("u1")}
	bus := &mockBus{publishErr: errors.New("broker unreachable")}
	svc := newService(carts, &mockCouponRepo{}, bus)

	_, svcErr := svc.Checkout(context.Background(), "u1", checkoutRequest())
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadGateway, svcErr.StatusCode)

	assert.False(t, carts.deleted, "cart must survive a failed publish")
}

func TestCheckout_CartLoadErrorSurfaces(t *testing.T) {
	carts := &mockCartRepo{getErr: errors.New("redis down")}
	bus := &mockBus{}
	svc := newService(carts, &mockCouponRepo{}, bus)

	_, svcErr := svc.Checkout(context.Background(), "u1", checkoutRequest())
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusInternalServerError, svcErr.StatusCode)
	assert.Empty(t, bus.published)
}
