package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"comanda/order-svc/internal/domain"
)

var (
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrOrderNotPayable     = errors.New("order must be closed before payment")
	ErrInvalidAmount       = errors.New("invalid payment amount")
	ErrAlreadyHasPayment   = errors.New("order already has a completed payment")
	ErrUnsupportedMethod   = errors.New("unsupported payment method")
	ErrNotBankTransfer     = errors.New("payment is not a bank transfer")
	ErrPaymentNotPending   = errors.New("payment is not pending")
	ErrPaymentNotCompleted = errors.New("only completed payments can be refunded")
	ErrPaymentImmutable    = errors.New("cannot delete a completed payment")
)

type CreatePayment struct {
	OrderID  string               `json:"order_id"`
	Amount   float64              `json:"amount"`
	Method   domain.PaymentMethod `json:"method"`
	Gateway  string               `json:"gateway,omitempty"`
	Metadata map[string]string    `json:"metadata,omitempty"`
}

// paymentHandler processes a freshly created payment for one method and
// leaves it in the state the method dictates.
type paymentHandler func(ctx context.Context, payment *domain.Payment) error

type PaymentService struct {
	repo      PaymentRepository
	orders    OrderFlow
	gateway   PaymentGateway
	publisher EventPublisher
	handlers  map[domain.PaymentMethod]paymentHandler
}

func NewPaymentService(repo PaymentRepository, orders OrderFlow, gateway PaymentGateway, publisher EventPublisher) *PaymentService {
	s := &PaymentService{
		repo:      repo,
		orders:    orders,
		gateway:   gateway,
		publisher: publisher,
	}
	s.handlers = map[domain.PaymentMethod]paymentHandler{
		domain.MethodCash:          s.processCash,
		domain.MethodCard:          s.processCheckout,
		domain.MethodDigitalWallet: s.processCheckout,
		domain.MethodBankTransfer:  s.processBankTransfer,
	}
	return s
}

// Create registers a payment attempt for a closed order. A second COMPLETED
// payment for the same order is rejected here and again by the database.
func (s *PaymentService) Create(dto CreatePayment) (*domain.Payment, error) {
	order, err := s.orders.FindOne(dto.OrderID)
	if err != nil {
		return nil, err
	}
	if !order.IsClosed() {
		return nil, ErrOrderNotPayable
	}

	dto.Amount = domain.RoundMXN(dto.Amount)
	if !domain.IsValidAmount(dto.Amount) {
		return nil, ErrInvalidAmount
	}

	completed, err := s.repo.HasCompletedPayment(dto.OrderID)
	if err != nil {
		return nil, err
	}
	if completed {
		return nil, ErrAlreadyHasPayment
	}

	payment := &domain.Payment{
		ID:            uuid.New().String(),
		OrderID:       dto.OrderID,
		Amount:        dto.Amount,
		Method:        dto.Method,
		Status:        domain.PaymentPending,
		TransactionID: generateTransactionID(),
		Gateway:       dto.Gateway,
		Metadata:      dto.Metadata,
		IsActive:      true,
	}

	if err := s.repo.CreatePayment(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// Process creates a payment for the order's total and dispatches it to the
// handler for its method.
func (s *PaymentService) Process(ctx context.Context, orderID string, method domain.PaymentMethod, gatewayName string, metadata map[string]string) (*domain.Payment, error) {
	handler, ok := s.handlers[method]
	if !ok {
		return nil, ErrUnsupportedMethod
	}

	order, err := s.orders.FindOne(orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsClosed() {
		return nil, ErrOrderNotPayable
	}

	payment, err := s.Create(CreatePayment{
		OrderID:  orderID,
		Amount:   order.Total,
		Method:   method,
		Gateway:  gatewayName,
		Metadata: metadata,
	})
	if err != nil {
		return nil, err
	}

	if err := handler(ctx, payment); err != nil {
		return nil, err
	}

	if payment.Status == domain.PaymentCompleted {
		if err := s.orders.Paid(orderID); err != nil {
			return nil, err
		}
		s.publishCompleted(ctx, payment)
	}

	return payment, nil
}

// Cash completes immediately, no external call.
func (s *PaymentService) processCash(_ context.Context, payment *domain.Payment) error {
	now := time.Now()
	payment.Status = domain.PaymentCompleted
	payment.Gateway = "cash"
	payment.ProcessedAt = &now
	payment.CompletedAt = &now
	return s.repo.UpdatePayment(payment)
}

// Card and digital wallets go through a hosted checkout session; the final
// state is set later by the webhook reconciler. A gateway failure degrades
// to a FAILED payment instead of a dropped request.
func (s *PaymentService) processCheckout(ctx context.Context, payment *domain.Payment) error {
	now := time.Now()
	payment.Status = domain.PaymentProcessing
	payment.Gateway = "stripe"
	payment.ProcessedAt = &now
	if err := s.repo.UpdatePayment(payment); err != nil {
		return err
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payment.Amount, payment.OrderID,
		fmt.Sprintf("Orden %s", payment.OrderID))
	if err != nil {
		log.Printf("[order-svc] checkout session failed for payment %s: %v", payment.ID, err)
		payment.Status = domain.PaymentFailed
		payment.FailureReason = err.Error()
		return s.repo.UpdatePayment(payment)
	}

	payment.ExternalPaymentID = session.ID
	if payment.Metadata == nil {
		payment.Metadata = map[string]string{}
	}
	payment.Metadata["checkout_url"] = session.URL
	payment.Metadata["checkout_session_id"] = session.ID
	return s.repo.UpdatePayment(payment)
}

// Bank transfers wait for manual confirmation.
func (s *PaymentService) processBankTransfer(_ context.Context, payment *domain.Payment) error {
	now := time.Now()
	payment.Status = domain.PaymentPending
	payment.ProcessedAt = &now
	if payment.Gateway == "" {
		payment.Gateway = "bank_transfer"
	}
	if payment.Metadata == nil {
		payment.Metadata = map[string]string{}
	}
	payment.Metadata["requires_manual_confirmation"] = "true"
	return s.repo.UpdatePayment(payment)
}

// ConfirmBankTransfer completes a pending transfer and pays the order.
func (s *PaymentService) ConfirmBankTransfer(ctx context.Context, paymentID, externalPaymentID string) (*domain.Payment, error) {
	payment, err := s.repo.GetPayment(paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Method != domain.MethodBankTransfer {
		return nil, ErrNotBankTransfer
	}
	if payment.Status != domain.PaymentPending {
		return nil, ErrPaymentNotPending
	}

	if err := s.Complete(paymentID, externalPaymentID); err != nil {
		return nil, err
	}
	if err := s.orders.Paid(payment.OrderID); err != nil {
		return nil, err
	}

	return s.repo.GetPayment(paymentID)
}

// Refund is terminal and permitted only from COMPLETED. The order status is
// deliberately left untouched.
func (s *PaymentService) Refund(paymentID, reason string) (*domain.Payment, error) {
	payment, err := s.repo.GetPayment(paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != domain.PaymentCompleted {
		return nil, ErrPaymentNotCompleted
	}

	if reason == "" {
		reason = "Refund requested"
	}
	payment.Status = domain.PaymentRefunded
	payment.FailureReason = reason
	if payment.Metadata == nil {
		payment.Metadata = map[string]string{}
	}
	payment.Metadata["refunded_at"] = time.Now().Format(time.RFC3339)

	if err := s.repo.UpdatePayment(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) Remove(id string) error {
	payment, err := s.repo.GetPayment(id)
	if err != nil {
		return err
	}
	if payment.Status == domain.PaymentCompleted {
		return ErrPaymentImmutable
	}
	return s.repo.DeactivatePayment(id)
}

func (s *PaymentService) FindOne(id string) (*domain.Payment, error) {
	return s.repo.GetPayment(id)
}

func (s *PaymentService) FindByOrder(orderID string) ([]domain.Payment, error) {
	return s.repo.ListPaymentsByOrder(orderID)
}

// PaymentStats summarizes the payment attempts recorded against one order.
type PaymentStats struct {
	OrderID        string  `json:"order_id"`
	Count          int     `json:"count"`
	TotalCompleted float64 `json:"total_completed"`
	TotalPending   float64 `json:"total_pending"`
	TotalRefunded  float64 `json:"total_refunded"`
	Settled        bool    `json:"settled"`
}

func (s *PaymentService) Stats(orderID string) (*PaymentStats, error) {
	payments, err := s.repo.ListPaymentsByOrder(orderID)
	if err != nil {
		return nil, err
	}

	stats := &PaymentStats{OrderID: orderID, Count: len(payments)}
	for _, payment := range payments {
		switch payment.Status {
		case domain.PaymentCompleted:
			stats.TotalCompleted = domain.RoundMXN(stats.TotalCompleted + payment.Amount)
			stats.Settled = true
		case domain.PaymentPending, domain.PaymentProcessing:
			stats.TotalPending = domain.RoundMXN(stats.TotalPending + payment.Amount)
		case domain.PaymentRefunded:
			stats.TotalRefunded = domain.RoundMXN(stats.TotalRefunded + payment.Amount)
		}
	}
	return stats, nil
}

// Complete is idempotent: completing an already completed payment changes
// zero rows and is a no-op, which also suppresses a duplicate event.
func (s *PaymentService) Complete(paymentID, externalPaymentID string) error {
	rows, err := s.repo.CompletePayment(paymentID, externalPaymentID)
	if err != nil {
		return err
	}
	if rows == 0 {
		log.Printf("[order-svc] payment %s already completed, skipping", paymentID)
		return nil
	}
	if payment, err := s.repo.GetPayment(paymentID); err == nil {
		s.publishCompleted(context.Background(), payment)
	}
	return nil
}

func (s *PaymentService) Fail(paymentID, reason string) error {
	return s.repo.FailPayment(paymentID, reason)
}

// ExpireStaleProcessing fails PROCESSING payments older than the given age.
// Checkout sessions expire on the gateway side; this sweep reconciles
// abandoned ones that never produced a webhook.
func (s *PaymentService) ExpireStaleProcessing(olderThan time.Duration) (int64, error) {
	swept, err := s.repo.FailStaleProcessing(time.Now().Add(-olderThan))
	if err != nil {
		return 0, err
	}
	if swept > 0 {
		log.Printf("[order-svc] expired %d stale processing payments", swept)
	}
	return swept, nil
}

// CreateCompletedFromGateway is the reconciler's fallback: a success event
// arrived for an order with no matching payment record, so record the
// transaction rather than lose it.
func (s *PaymentService) CreateCompletedFromGateway(orderID string, amount float64, externalPaymentID, gatewayName string) (*domain.Payment, error) {
	now := time.Now()
	payment := &domain.Payment{
		ID:                uuid.New().String(),
		OrderID:           orderID,
		Amount:            domain.RoundMXN(amount),
		Method:            domain.MethodCard,
		Status:            domain.PaymentCompleted,
		TransactionID:     generateTransactionID(),
		ExternalPaymentID: externalPaymentID,
		Gateway:           gatewayName,
		IsActive:          true,
		ProcessedAt:       &now,
		CompletedAt:       &now,
	}
	if err := s.repo.CreatePayment(payment); err != nil {
		return nil, err
	}
	s.publishCompleted(context.Background(), payment)
	return payment, nil
}

// CreateCheckoutSession registers a PROCESSING card payment backed by a
// hosted checkout page and returns the redirect data.
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, orderID string) (*domain.Payment, *domain.CheckoutSession, error) {
	order, err := s.orders.FindOne(orderID)
	if err != nil {
		return nil, nil, err
	}
	if !order.IsClosed() {
		return nil, nil, ErrOrderNotPayable
	}

	payment, err := s.Create(CreatePayment{
		OrderID: orderID,
		Amount:  order.Total,
		Method:  domain.MethodCard,
		Gateway: "stripe",
	})
	if err != nil {
		return nil, nil, err
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payment.Amount, orderID, fmt.Sprintf("Orden %s", orderID))
	if err != nil {
		payment.Status = domain.PaymentFailed
		payment.FailureReason = err.Error()
		_ = s.repo.UpdatePayment(payment)
		return nil, nil, fmt.Errorf("create checkout session: %w", err)
	}

	now := time.Now()
	payment.Status = domain.PaymentProcessing
	payment.ExternalPaymentID = session.ID
	payment.ProcessedAt = &now
	if payment.Metadata == nil {
		payment.Metadata = map[string]string{}
	}
	payment.Metadata["checkout_url"] = session.URL
	if err := s.repo.UpdatePayment(payment); err != nil {
		return nil, nil, err
	}

	return payment, session, nil
}

func (s *PaymentService) publishCompleted(ctx context.Context, payment *domain.Payment) {
	if s.publisher == nil {
		return
	}
	branchID := ""
	if order, err := s.orders.FindOne(payment.OrderID); err == nil && order != nil {
		branchID = order.BranchID
	}
	err := s.publisher.Publish(ctx, domain.StreamEvent{
		Type:      domain.EventPaymentCompleted,
		OrderID:   payment.OrderID,
		BranchID:  branchID,
		PaymentID: payment.ID,
		Total:     payment.Amount,
		Timestamp: time.Now(),
	})
	if err != nil {
		log.Printf("[order-svc] failed to publish payment event: %v", err)
	}
}

func generateTransactionID() string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffix := make([]byte, 10)
	for i := range suffix {
		suffix[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return strings.ToUpper(fmt.Sprintf("TXN_%d_%s", time.Now().UnixMilli(), suffix))
}

var _ PaymentFlow = (*PaymentService)(nil)
