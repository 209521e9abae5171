package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/reazulhasan44/MangoRestaurent/services/order-service/models"
	"github.com/reazulhasan44/MangoRestaurent/services/order-service/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ---- mock order repository ----

type mockOrderRepo struct {
	addErr     error
	existing   *models.OrderHeader // non-nil simulates a duplicate token
	added      []*models.OrderHeader
	assignedID uuid.UUID
}

func (m *mockOrderRepo) AddOrder(_ context.Context, order *models.OrderHeader) (bool, error) {
	if m.addErr != nil {
		return false, m.addErr
	}
	if m.existing != nil {
		*order = *m.existing
		return false, nil
	}
	if m.assignedID == uuid.Nil {
		m.assignedID = uuid.New()
	}
	order.ID = m.assignedID
	copied := *order
	m.added = append(m.added, &copied)
	return true, nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, _ uuid.UUID) (*models.OrderHeader, error) {
	return nil, errors.New("not implemented")
}
func (m *mockOrderRepo) FindByUserID(_ context.Context, _ string, _, _ int) ([]models.OrderHeader, int64, error) {
	return nil, 0, nil
}
func (m *mockOrderRepo) SetPaymentStatus(_ context.Context, _ uuid.UUID, _ bool) error {
	return nil
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

func checkoutPayload(t *testing.T) []byte {
	t.Helper()
	evt := models.CheckoutEvent{
		Event:           models.EventCheckoutRequested,
		RequestToken:    uuid.NewString(),
		UserID:          "u1",
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "ada@example.com",
		CardNumber:      "4111111111111111",
		CVV:             "123",
		ExpiryMonthYear: "12/30",
		OrderTotal:      25,
		Items: []models.CheckoutItem{
			{ProductID: uuid.New(), ProductName: "A", Price: 10, Quantity: 2},
			{ProductID: uuid.New(), ProductName: "B", Price: 5, Quantity: 1},
		},
		Timestamp: time.Now(),
	}
	payload, err := json.Marshal(evt)
	require.NoError(t, err)
	return payload
}

func newProcessor(repo *mockOrderRepo, bus *mockBus) *services.CheckoutProcessor {
	return services.NewCheckoutProcessor(repo, bus, "payment.requests", zap.NewNop())
}

// ---- tests ----

func TestProcess_CreatesOrderAndRequestsPayment(t *testing.T) {
	repo := &mockOrderRepo{}
	bus := &mockBus{}
	processor := newProcessor(repo, bus)

	err := processor.Process(context.Background(), checkoutPayload(t))
	require.NoError(t, err)

	require.Len(t, repo.added, 1)
	order := repo.added[0]
	assert.Equal(t, 3, order.TotalItems, "total items must equal the sum of quantities")
	assert.Len(t, order.Items, 2)
	assert.False(t, order.PaymentStatus, "new orders start unpaid")
	assert.False(t, order.OrderTime.IsZero())

	require.Len(t, bus.published, 1)
	assert.Equal(t, "payment.requests", bus.published[0].destination)
	paymentReq, ok := bus.published[0].message.(models.PaymentRequest)
	require.True(t, ok)
	assert.Equal(t, order.ID, paymentReq.OrderID)
	assert.Equal(t, "Ada Lovelace", paymentReq.Name)
	assert.Equal(t, float64(25), paymentReq.OrderTotal)
}

func TestProcess_MalformedPayloadIsDeserializeStage(t *testing.T) {
	processor := newProcessor(&mockOrderRepo{}, &mockBus{})

	err := processor.Process(context.Background(), []byte("{not json"))
	require.Error(t, err)

	var procErr *services.ProcessingError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, services.StageDeserialize, procErr.Stage)
	assert.False(t, procErr.Retryable())
}

func TestProcess_MissingTokenIsDeserializeStage(t *testing.T) {
	evt := models.CheckoutEvent{
		UserID: "u1",
		Items:  []models.CheckoutItem{{ProductID: uuid.New(), ProductName: "A", Price: 1, Quantity: 1}},
	}
	payload, err := json.Marshal(evt)
	require.NoError(t, err)

	bus := &mockBus{}
	procErr := processAndExtract(t, newProcessor(&mockOrderRepo{}, bus), payload)
	assert.Equal(t, services.StageDeserialize, procErr.Stage)
	assert.Empty(t, bus.published)
}

func TestProcess_PersistFailureNoPaymentRequest(t *testing.T) {
	repo := &mockOrderRepo{addErr: errors.New("db down")}
	bus := &mockBus{}
	processor := newProcessor(repo, bus)

	procErr := processAndExtract(t, processor, checkoutPayload(t))
	assert.Equal(t, services.StagePersist, procErr.Stage)
	assert.True(t, procErr.Retryable())
	assert.Empty(t, bus.published, "payment request only after a durable order")
}

func TestProcess_PublishFailureIsPublishStage(t *testing.T) {
	repo := &mockOrderRepo{}
	bus := &mockBus{publishErr: errors.New("broker unreachable")}
	processor := newProcessor(repo, bus)

	procErr := processAndExtract(t, processor, checkoutPayload(t))
	assert.Equal(t, services.StagePublish, procErr.Stage)
	assert.True(t, procErr.Retryable())

	// The order exists; the stage tag is what distinguishes this state.
	assert.Len(t, repo.added, 1)
}

func TestProcess_RedeliveryReusesOrderAndRepublishes(t *testing.T) {
	existing := &models.OrderHeader{
		ID:           uuid.New(),
		RequestToken: "token-1",
		UserID:       "u1",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		OrderTotal:   25,
		TotalItems:   3,
	}
	repo := &mockOrderRepo{existing: existing}
	bus := &mockBus{}
	processor := newProcessor(repo, bus)

	err := processor.Process(context.Background(), checkoutPayload(t))
	require.NoError(t, err)

	assert.Empty(t, repo.added, "no second insert on redelivery")
	require.Len(t, bus.published, 1, "payment request still goes out for the existing order")
	paymentReq := bus.published[0].message.(models.PaymentRequest)
	assert.Equal(t, existing.ID, paymentReq.OrderID)
}

func processAndExtract(t *testing.T, processor *services.CheckoutProcessor, payload []byte) *services.ProcessingError {
	t.Helper()
	err := processor.Process(context.Background(), payload)
	require.Error(t, err)
	var procErr *services.ProcessingError
	require.ErrorAs(t, err, &procErr)
	return procErr
}
