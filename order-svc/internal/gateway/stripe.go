package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"

	"comanda/order-svc/internal/domain"
)

const sessionLifetime = 30 * time.Minute

// StripeClient implements the payment gateway against Stripe Checkout.
type StripeClient struct {
	webhookSecret string
	successURL    string
	cancelURL     string
}

func NewStripeClient(apiKey, webhookSecret, successURL, cancelURL string) *StripeClient {
	stripe.Key = apiKey
	return &StripeClient{
		webhookSecret: webhookSecret,
		successURL:    successURL,
		cancelURL:     cancelURL,
	}
}

// toCentavos converts a peso amount to the smallest payable unit. The
// multiplication must be rounded, not truncated: 19.99 * 100 sits just
// below 1999 in binary floating point.
func toCentavos(amount float64) int64 {
	return int64(math.Round(domain.RoundMXN(amount) * 100))
}

func (c *StripeClient) CreateCheckoutSession(ctx context.Context, amount float64, orderID, description string) (*domain.CheckoutSession, error) {
	expiresAt := time.Now().Add(sessionLifetime)

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("mxn"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
					// Stripe wants integer cents.
					UnitAmount: stripe.Int64(toCentavos(amount)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(c.successURL),
		CancelURL:  stripe.String(c.cancelURL),
		ExpiresAt:  stripe.Int64(expiresAt.Unix()),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{"orderId": orderID},
		},
	}
	params.Context = ctx
	params.AddMetadata("orderId", orderID)

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	return &domain.CheckoutSession{
		ID:        s.ID,
		URL:       s.URL,
		ExpiresAt: expiresAt,
	}, nil
}

// VerifyWebhook checks the signature and reduces the Stripe event to the
// fields the reconciler needs. A bad signature is the only error path;
// unrecognized event types come back with just ID and Type set.
func (c *StripeClient) VerifyWebhook(payload []byte, signature string) (*domain.GatewayEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, c.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("verify webhook signature: %w", err)
	}

	out := &domain.GatewayEvent{
		ID:      event.ID,
		Type:    string(event.Type),
		Gateway: "stripe",
	}

	switch event.Type {
	case "checkout.session.completed":
		var s stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		out.ExternalID = s.ID
		out.OrderID = s.Metadata["orderId"]
		out.Amount = domain.RoundMXN(float64(s.AmountTotal) / 100)
		if s.PaymentIntent != nil {
			out.PaymentIntentID = s.PaymentIntent.ID
		}

	case "payment_intent.succeeded", "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("decode payment intent: %w", err)
		}
		out.ExternalID = pi.ID
		out.PaymentIntentID = pi.ID
		out.OrderID = pi.Metadata["orderId"]
		out.Amount = domain.RoundMXN(float64(pi.Amount) / 100)
		if pi.LastPaymentError != nil {
			out.FailureReason = pi.LastPaymentError.Msg
		}
	}

	return out, nil
}
