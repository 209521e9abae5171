package services

import (
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
	"github.com/stripe/stripe-go/v80/webhook"
)

// PaymentGateway is the slice of the Stripe API the request consumer needs.
type PaymentGateway interface {
	CreatePaymentIntent(amount int64, currency, orderID string) (*stripe.PaymentIntent, error)
}

type StripeClient struct {
	webhookSecret string
}

func NewStripeClient(secretKey, webhookSecret string) *StripeClient {
	stripe.Key = secretKey
	return &StripeClient{webhookSecret: webhookSecret}
}

func (s *StripeClient) CreatePaymentIntent(amount int64, currency, orderID string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
	}
	params.AddMetadata("order_id", orderID)
	return paymentintent.New(params)
}

// ParseWebhook verifies the Stripe-Signature header and decodes the event.
func (s *StripeClient) ParseWebhook(r *http.Request) (stripe.Event, error) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return stripe.Event{}, err
	}
	return webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), s.webhookSecret)
}
