package service

import (
	"errors"
	"log"
	"time"

	"comanda/order-svc/internal/domain"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrOrderAlreadyPaid = errors.New("order is already paid")
	ErrOrderEmpty       = errors.New("cannot close an empty order")
	ErrOrderConflict    = errors.New("order was modified concurrently")
	ErrOrderNotMutable  = errors.New("order no longer accepts items")
)

type OrderService struct {
	repo OrderRepository
}

func NewOrderService(repo OrderRepository) *OrderService {
	return &OrderService{repo: repo}
}

func (s *OrderService) FindOne(id string) (*domain.Order, error) {
	return s.repo.GetOrder(id)
}

func (s *OrderService) List(branchID string) ([]domain.Order, error) {
	return s.repo.ListOrders(branchID)
}

// Close stamps closedAt and moves the order to the payable state.
// Rejected when the order is already paid or has no items. The repository
// update is conditional on the current status so two concurrent closes
// cannot both succeed.
func (s *OrderService) Close(id string) (*domain.Order, error) {
	order, err := s.repo.GetOrder(id)
	if err != nil {
		return nil, err
	}

	if order.Status == domain.OrderPaid {
		return nil, ErrOrderAlreadyPaid
	}
	if len(order.Items) == 0 {
		return nil, ErrOrderEmpty
	}
	if order.IsClosed() {
		return order, nil
	}

	rows, err := s.repo.CloseOrder(id, order.Status)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrOrderConflict
	}

	order.Status = domain.OrderCompleted
	now := time.Now()
	order.ClosedAt = &now
	return order, nil
}

// Paid moves a closed order to PAID. It is idempotent: paying an already
// paid order is a no-op so at-least-once webhook delivery is safe. This is
// the only writer of the PAID transition.
func (s *OrderService) Paid(id string) error {
	order, err := s.repo.GetOrder(id)
	if err != nil {
		return err
	}
	if order.Status == domain.OrderPaid {
		return nil
	}

	rows, err := s.repo.MarkOrderPaid(id)
	if err != nil {
		return err
	}
	if rows == 0 {
		// Lost the race to another delivery of the same event.
		log.Printf("[order-svc] order %s already paid, skipping", id)
	}
	return nil
}

// Cancel deactivates the order and marks it CANCELLED. Cancelling never
// deletes anything, and an order with a completed payment cannot be
// cancelled; it must be refunded first.
func (s *OrderService) Cancel(id string) error {
	order, err := s.repo.GetOrder(id)
	if err != nil {
		return err
	}
	if order.Status == domain.OrderPaid {
		return ErrOrderAlreadyPaid
	}
	return s.repo.CancelOrder(id)
}

var _ OrderFlow = (*OrderService)(nil)
