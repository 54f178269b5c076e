package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"comanda/order-svc/internal/domain"
)

var ErrInvalidSignature = errors.New("webhook signature verification failed")

// WebhookService reconciles asynchronous gateway events against payments.
// Deliveries are at-least-once and possibly out of order, so every
// transition it drives is idempotent.
type WebhookService struct {
	gateway  PaymentGateway
	payments PaymentFlow
	orders   OrderFlow
	markers  ReplayMarkerStore
}

func NewWebhookService(gateway PaymentGateway, payments PaymentFlow, orders OrderFlow, markers ReplayMarkerStore) *WebhookService {
	return &WebhookService{
		gateway:  gateway,
		payments: payments,
		orders:   orders,
		markers:  markers,
	}
}

// HandleGatewayEvent verifies and applies one webhook delivery. Signature
// failures and failed transitions return an error so the gateway retries;
// events we cannot use (unknown type, missing order id) are logged and
// acknowledged. The replay marker is only kept once the event's side
// effects have been applied: on failure it is released again so the retry
// is not mistaken for a duplicate.
func (s *WebhookService) HandleGatewayEvent(ctx context.Context, payload []byte, signature string) error {
	if signature == "" || len(payload) == 0 {
		return ErrInvalidSignature
	}

	event, err := s.gateway.VerifyWebhook(payload, signature)
	if err != nil {
		log.Printf("[order-svc] webhook verification failed: %v", err)
		return ErrInvalidSignature
	}

	log.Printf("[order-svc] processing gateway event %s (%s)", event.ID, event.Type)

	marked := false
	if s.markers != nil && event.ID != "" {
		first, err := s.markers.MarkOnce(ctx, event.ID)
		switch {
		case err != nil:
			// Degraded: the conditional updates below still keep the
			// transitions single-shot.
			log.Printf("[order-svc] replay marker unavailable: %v", err)
		case !first:
			log.Printf("[order-svc] duplicate delivery of event %s, acknowledged", event.ID)
			return nil
		default:
			marked = true
		}
	}

	var applyErr error
	switch event.Type {
	case "checkout.session.completed", "payment_intent.succeeded":
		applyErr = s.handleSuccess(event)
	case "payment_intent.payment_failed":
		applyErr = s.handleFailure(event)
	default:
		log.Printf("[order-svc] unhandled gateway event type %s, acknowledged", event.Type)
	}

	if applyErr != nil {
		if marked {
			if err := s.markers.Unmark(ctx, event.ID); err != nil {
				log.Printf("[order-svc] failed to release marker for event %s: %v", event.ID, err)
			}
		}
		return applyErr
	}
	return nil
}

func (s *WebhookService) handleSuccess(event *domain.GatewayEvent) error {
	if event.OrderID == "" {
		log.Printf("[order-svc] event %s carries no order id, discarded", event.ID)
		return nil
	}

	externalID := event.PaymentIntentID
	if externalID == "" {
		externalID = event.ExternalID
	}

	payment, err := s.matchPayment(event)
	if err != nil {
		return err
	}
	if payment == nil {
		// Compatibility fallback: record the transaction rather than lose it.
		log.Printf("[order-svc] no payment found for order %s, creating from webhook", event.OrderID)
		if _, err := s.payments.CreateCompletedFromGateway(event.OrderID, event.Amount, externalID, event.Gateway); err != nil {
			return fmt.Errorf("record gateway payment for order %s: %w", event.OrderID, err)
		}
	} else if err := s.payments.Complete(payment.ID, externalID); err != nil {
		return fmt.Errorf("complete payment %s: %w", payment.ID, err)
	}

	if err := s.orders.Paid(event.OrderID); err != nil {
		return fmt.Errorf("mark order %s paid: %w", event.OrderID, err)
	}

	log.Printf("[order-svc] order %s paid via event %s", event.OrderID, event.ID)
	return nil
}

func (s *WebhookService) handleFailure(event *domain.GatewayEvent) error {
	if event.OrderID == "" {
		log.Printf("[order-svc] event %s carries no order id, discarded", event.ID)
		return nil
	}

	payment, err := s.matchPayment(event)
	if err != nil {
		return err
	}
	if payment == nil {
		log.Printf("[order-svc] no payment to fail for order %s", event.OrderID)
		return nil
	}

	reason := event.FailureReason
	if reason == "" {
		reason = "Payment failed"
	}
	if err := s.payments.Fail(payment.ID, reason); err != nil {
		return fmt.Errorf("fail payment %s: %w", payment.ID, err)
	}
	return nil
}

// matchPayment finds the payment an event refers to: first by external
// reference, otherwise the one currently in PROCESSING. A storage error is
// returned rather than treated as absence, so a flaky database cannot
// trigger the fallback-creation path.
func (s *WebhookService) matchPayment(event *domain.GatewayEvent) (*domain.Payment, error) {
	payments, err := s.payments.FindByOrder(event.OrderID)
	if err != nil {
		return nil, fmt.Errorf("load payments for order %s: %w", event.OrderID, err)
	}

	for i := range payments {
		if payments[i].ExternalPaymentID != "" &&
			(payments[i].ExternalPaymentID == event.ExternalID || payments[i].ExternalPaymentID == event.PaymentIntentID) {
			return &payments[i], nil
		}
	}
	for i := range payments {
		if payments[i].Status == domain.PaymentProcessing {
			return &payments[i], nil
		}
	}
	return nil, nil
}
