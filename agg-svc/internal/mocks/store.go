package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"

	"comanda/agg-svc/internal/domain"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// StoreInterface is a testify mock for service.StoreInterface.
type StoreInterface struct {
	mock.Mock
}

func NewStoreInterface(t testingT) *StoreInterface {
	m := &StoreInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *StoreInterface) RecordOrderCreated(branchID string, ts time.Time) error {
	ret := _m.Called(branchID, ts)
	return ret.Error(0)
}

func (_m *StoreInterface) RecordPaymentCompleted(branchID string, amount float64, ts time.Time) error {
	ret := _m.Called(branchID, amount, ts)
	return ret.Error(0)
}

func (_m *StoreInterface) TopBranches(day string, limit int) ([]domain.BranchRevenue, error) {
	ret := _m.Called(day, limit)
	var r0 []domain.BranchRevenue
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.BranchRevenue)
	}
	return r0, ret.Error(1)
}

func (_m *StoreInterface) BranchSales(branchID, day string) (*domain.BranchSales, error) {
	ret := _m.Called(branchID, day)
	var r0 *domain.BranchSales
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.BranchSales)
	}
	return r0, ret.Error(1)
}
