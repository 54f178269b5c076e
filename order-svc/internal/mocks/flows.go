package mocks

import (
	"github.com/stretchr/testify/mock"

	"comanda/order-svc/internal/domain"
)

// OrderFlow is a testify mock for service.OrderFlow.
type OrderFlow struct {
	mock.Mock
}

func NewOrderFlow(t testingT) *OrderFlow {
	m := &OrderFlow{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *OrderFlow) FindOne(id string) (*domain.Order, error) {
	ret := _m.Called(id)
	var r0 *domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderFlow) Paid(id string) error {
	ret := _m.Called(id)
	return ret.Error(0)
}

// PaymentFlow is a testify mock for service.PaymentFlow.
type PaymentFlow struct {
	mock.Mock
}

func NewPaymentFlow(t testingT) *PaymentFlow {
	m := &PaymentFlow{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *PaymentFlow) FindByOrder(orderID string) ([]domain.Payment, error) {
	ret := _m.Called(orderID)
	var r0 []domain.Payment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Payment)
	}
	return r0, ret.Error(1)
}

func (_m *PaymentFlow) Complete(paymentID, externalPaymentID string) error {
	ret := _m.Called(paymentID, externalPaymentID)
	return ret.Error(0)
}

func (_m *PaymentFlow) Fail(paymentID, reason string) error {
	ret := _m.Called(paymentID, reason)
	return ret.Error(0)
}

func (_m *PaymentFlow) CreateCompletedFromGateway(orderID string, amount float64, externalPaymentID, gateway string) (*domain.Payment, error) {
	ret := _m.Called(orderID, amount, externalPaymentID, gateway)
	var r0 *domain.Payment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Payment)
	}
	return r0, ret.Error(1)
}
