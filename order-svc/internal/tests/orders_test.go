package tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comanda/order-svc/internal/domain"
	"comanda/order-svc/internal/mocks"
	"comanda/order-svc/internal/service"
)

func orderWithStatus(status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		ID:       "o1",
		BranchID: "b1",
		Type:     domain.DineIn,
		Status:   status,
		Items: []domain.OrderItem{
			{ID: "i1", OrderID: "o1", ProductID: "p1", ProductName: "Pizza Margarita", Quantity: 2, UnitPrice: 125.50},
		},
		Total:    251.00,
		IsActive: true,
	}
}

func TestOrderService_Close(t *testing.T) {
	repository := mocks.NewOrderRepository(t)
	svc := service.NewOrderService(repository)

	tests := []struct {
		name          string
		prepareMocks  func()
		expectedError error
	}{
		{
			name: "success_from_pending",
			prepareMocks: func() {
				repository.On("GetOrder", "o1").Return(orderWithStatus(domain.OrderPending), nil).Once()
				repository.On("CloseOrder", "o1", domain.OrderPending).Return(int64(1), nil).Once()
			},
			expectedError: nil,
		},
		{
			name: "success_from_in_progress",
			prepareMocks: func() {
				repository.On("GetOrder", "o1").Return(orderWithStatus(domain.OrderInProgress), nil).Once()
				repository.On("CloseOrder", "o1", domain.OrderInProgress).Return(int64(1), nil).Once()
			},
			expectedError: nil,
		},
		{
			name: "idempotent_when_already_closed",
			prepareMocks: func() {
				repository.On("GetOrder", "o1").Return(orderWithStatus(domain.OrderCompleted), nil).Once()
			},
			expectedError: nil,
		},
		{
			name: "error_already_paid",
			prepareMocks: func() {
				repository.On("GetOrder", "o1").Return(orderWithStatus(domain.OrderPaid), nil).Once()
			},
			expectedError: service.ErrOrderAlreadyPaid,
		},
		{
			name: "error_empty_order",
			prepareMocks: func() {
				empty := orderWithStatus(domain.OrderPending)
				empty.Items = nil
				repository.On("GetOrder", "o1").Return(empty, nil).Once()
			},
			expectedError: service.ErrOrderEmpty,
		},
		{
			name: "error_concurrent_close",
			prepareMocks: func() {
				repository.On("GetOrder", "o1").Return(orderWithStatus(domain.OrderPending), nil).Once()
				repository.On("CloseOrder", "o1", domain.OrderPending).Return(int64(0), nil).Once()
			},
			expectedError: service.ErrOrderConflict,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			testCase.prepareMocks()

			order, err := svc.Close("o1")
			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.OrderCompleted, order.Status)
			assert.NotNil(t, order.ClosedAt)
		})
	}
}

func TestOrderService_Paid(t *testing.T) {
	repository := mocks.NewOrderRepository(t)
	svc := service.NewOrderService(repository)

	t.Run("pays_closed_order", func(t *testing.T) {
		repository.On("GetOrder", "o1").Return(orderWithStatus(domain.OrderCompleted), nil).Once()
		repository.On("MarkOrderPaid", "o1").Return(int64(1), nil).Once()

		assert.NoError(t, svc.Paid("o1"))
	})

	t.Run("noop_when_already_paid", func(t *testing.T) {
		repository.On("GetOrder", "o1").Return(orderWithStatus(domain.OrderPaid), nil).Once()

		assert.NoError(t, svc.Paid("o1"))
	})

	t.Run("lost_race_is_not_an_error", func(t *testing.T) {
		repository.On("GetOrder", "o1").Return(orderWithStatus(domain.OrderCompleted), nil).Once()
		repository.On("MarkOrderPaid", "o1").Return(int64(0), nil).Once()

		assert.NoError(t, svc.Paid("o1"))
	})
}

func TestOrderService_Cancel(t *testing.T) {
	repository := mocks.NewOrderRepository(t)
	svc := service.NewOrderService(repository)

	t.Run("cancels_unpaid_order", func(t *testing.T) {
		repository.On("GetOrder", "o1").Return(orderWithStatus(domain.OrderPending), nil).Once()
		repository.On("CancelOrder", "o1").Return(nil).Once()

		assert.NoError(t, svc.Cancel("o1"))
	})

	t.Run("rejects_paid_order", func(t *testing.T) {
		repository.On("GetOrder", "o1").Return(orderWithStatus(domain.OrderPaid), nil).Once()

		assert.ErrorIs(t, svc.Cancel("o1"), service.ErrOrderAlreadyPaid)
	})
}
