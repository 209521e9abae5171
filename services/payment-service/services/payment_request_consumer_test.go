package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/reazulhasan44/MangoRestaurent/services/payment-service/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type mockPaymentRepo struct {
	payments  map[uuid.UUID]*models.Payment
	addErr    error
	stripeIDs map[uuid.UUID]string
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{
		payments:  make(map[uuid.UUID]*models.Payment),
		stripeIDs: make(map[uuid.UUID]string),
	}
}

func (m *mockPaymentRepo) AddPayment(_ context.Context, p *models.Payment) error {
	if m.addErr != nil {
		return m.addErr
	}
	if _, ok := m.payments[p.OrderID]; ok {
		return gorm.ErrDuplicatedKey
	}
	p.ID = uuid.New()
	m.payments[p.OrderID] = p
	return nil
}

func (m *mockPaymentRepo) FindByOrderID(_ context.Context, orderID uuid.UUID) (*models.Payment, error) {
	p, ok := m.payments[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (m *mockPaymentRepo) FindByStripeID(_ context.Context, stripeID string) (*models.Payment, error) {
	for _, p := range m.payments {
		if p.StripePaymentID != nil && *p.StripePaymentID == stripeID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPaymentRepo) SetStripeID(_ context.Context, orderID uuid.UUID, stripeID string) error {
	m.stripeIDs[orderID] = stripeID
	if p, ok := m.payments[orderID]; ok {
		p.StripePaymentID = &stripeID
	}
	return nil
}

func (m *mockPaymentRepo) SetStatus(_ context.Context, orderID uuid.UUID, status string) error {
	p, ok := m.payments[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Status = status
	return nil
}

type mockGateway struct {
	err   error
	calls int
}

func (m *mockGateway) CreatePaymentIntent(amount int64, currency, orderID string) (*stripe.PaymentIntent, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &stripe.PaymentIntent{ID: "pi_test_" + orderID}, nil
}

type mockBus struct {
	published []publishedMessage
}

type publishedMessage struct {
	topic   string
	key     string
	message any
}

func (m *mockBus) Publish(_ context.Context, topic, key string, message any) error {
	m.published = append(m.published, publishedMessage{topic: topic, key: key, message: message})
	return nil
}

func (m *mockBus) Close() error { return nil }

func newTestConsumer(repo *mockPaymentRepo, gw *mockGateway, bus *mockBus) *PaymentRequestConsumer {
	return &PaymentRequestConsumer{
		payments:    repo,
		gateway:     gw,
		bus:         bus,
		eventsTopic: "payment.events",
		currency:    "usd",
		topic:       "payment.requests",
		logger:      zap.NewNop(),
	}
}

func requestPayload(t *testing.T, orderID uuid.UUID, total float64) []byte {
	t.Helper()
	payload, err := json.Marshal(models.PaymentRequest{
		OrderID:    orderID,
		Name:       "Jane Doe",
		Email:      "jane@example.com",
		OrderTotal: total,
	})
	require.NoError(t, err)
	return payload
}

func TestHandleOpensPaymentIntent(t *testing.T) {
	repo := newMockPaymentRepo()
	gw := &mockGateway{}
	bus := &mockBus{}
	pc := newTestConsumer(repo, gw, bus)

	orderID := uuid.New()
	require.NoError(t, pc.handle(context.Background(), requestPayload(t, orderID, 42.50)))

	payment, ok := repo.payments[orderID]
	require.True(t, ok, "payment record should exist")
	assert.Equal(t, int64(4250), payment.Amount)
	assert.Equal(t, models.StatusProcessing, payment.Status)
	require.NotNil(t, payment.StripePaymentID)
	assert.Equal(t, "pi_test_"+orderID.String(), *payment.StripePaymentID)

	assert.Empty(t, bus.published, "settlement events come from the webhook, not intent creation")
}

func TestHandleGatewayFailurePublishesFailure(t *testing.T) {
	repo := newMockPaymentRepo()
	gw := &mockGateway{err: errors.New("card declined")}
	bus := &mockBus{}
	pc := newTestConsumer(repo, gw, bus)

	orderID := uuid.New()
	require.NoError(t, pc.handle(context.Background(), requestPayload(t, orderID, 10)))

	assert.Equal(t, models.StatusFailed, repo.payments[orderID].Status)
	require.Len(t, bus.published, 1)
	assert.Equal(t, "payment.events", bus.published[0].topic)

	event, ok := bus.published[0].message.(models.PaymentEvent)
	require.True(t, ok)
	assert.Equal(t, models.PaymentFailed, event.Type)
	assert.Equal(t, orderID.String(), event.OrderID)
}

func TestHandleSkipsDuplicateRequests(t *testing.T) {
	repo := newMockPaymentRepo()
	gw := &mockGateway{}
	bus := &mockBus{}
	pc := newTestConsumer(repo, gw, bus)

	orderID := uuid.New()
	payload := requestPayload(t, orderID, 15)
	require.NoError(t, pc.handle(context.Background(), payload))
	require.NoError(t, pc.handle(context.Background(), payload), "replay is acknowledged, not retried")

	assert.Equal(t, 1, gw.calls, "redelivered request must not open a second payment")
	assert.Empty(t, bus.published)
}

func TestHandleRedeliversOnStorageFailure(t *testing.T) {
	repo := newMockPaymentRepo()
	repo.addErr = errors.New("db down")
	gw := &mockGateway{}
	bus := &mockBus{}
	pc := newTestConsumer(repo, gw, bus)

	err := pc.handle(context.Background(), requestPayload(t, uuid.New(), 10))

	assert.Error(t, err, "transient storage failures must leave the request unacknowledged")
	assert.Zero(t, gw.calls)
	assert.Empty(t, bus.published)
}

func TestHandleRejectsMalformedPayload(t *testing.T) {
	repo := newMockPaymentRepo()
	gw := &mockGateway{}
	bus := &mockBus{}
	pc := newTestConsumer(repo, gw, bus)

	assert.NoError(t, pc.handle(context.Background(), []byte("{not json")))
	assert.NoError(t, pc.handle(context.Background(), requestPayload(t, uuid.Nil, 10)))

	assert.Empty(t, repo.payments)
	assert.Zero(t, gw.calls)
	assert.Empty(t, bus.published)
}
