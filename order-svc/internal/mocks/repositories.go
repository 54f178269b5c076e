package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"

	"comanda/order-svc/internal/domain"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// OrderRepository is a testify mock for service.OrderRepository.
type OrderRepository struct {
	mock.Mock
}

func NewOrderRepository(t testingT) *OrderRepository {
	m := &OrderRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *OrderRepository) CreateOrderWithItems(order *domain.Order, seatTableID string) error {
	ret := _m.Called(order, seatTableID)
	return ret.Error(0)
}

func (_m *OrderRepository) GetOrder(id string) (*domain.Order, error) {
	ret := _m.Called(id)
	var r0 *domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderRepository) ListOrders(branchID string) ([]domain.Order, error) {
	ret := _m.Called(branchID)
	var r0 []domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderRepository) CloseOrder(id string, fromStatus domain.OrderStatus) (int64, error) {
	ret := _m.Called(id, fromStatus)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *OrderRepository) MarkOrderPaid(id string) (int64, error) {
	ret := _m.Called(id)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *OrderRepository) CancelOrder(id string) error {
	ret := _m.Called(id)
	return ret.Error(0)
}

func (_m *OrderRepository) AddOrderItems(orderID string, items []domain.OrderItem) error {
	ret := _m.Called(orderID, items)
	return ret.Error(0)
}

// PaymentRepository is a testify mock for service.PaymentRepository.
type PaymentRepository struct {
	mock.Mock
}

func NewPaymentRepository(t testingT) *PaymentRepository {
	m := &PaymentRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *PaymentRepository) CreatePayment(payment *domain.Payment) error {
	ret := _m.Called(payment)
	return ret.Error(0)
}

func (_m *PaymentRepository) GetPayment(id string) (*domain.Payment, error) {
	ret := _m.Called(id)
	var r0 *domain.Payment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Payment)
	}
	return r0, ret.Error(1)
}

func (_m *PaymentRepository) ListPaymentsByOrder(orderID string) ([]domain.Payment, error) {
	ret := _m.Called(orderID)
	var r0 []domain.Payment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Payment)
	}
	return r0, ret.Error(1)
}

func (_m *PaymentRepository) HasCompletedPayment(orderID string) (bool, error) {
	ret := _m.Called(orderID)
	return ret.Bool(0), ret.Error(1)
}

func (_m *PaymentRepository) UpdatePayment(payment *domain.Payment) error {
	ret := _m.Called(payment)
	return ret.Error(0)
}

func (_m *PaymentRepository) CompletePayment(id, externalPaymentID string) (int64, error) {
	ret := _m.Called(id, externalPaymentID)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *PaymentRepository) FailPayment(id, reason string) error {
	ret := _m.Called(id, reason)
	return ret.Error(0)
}

func (_m *PaymentRepository) FailStaleProcessing(before time.Time) (int64, error) {
	ret := _m.Called(before)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *PaymentRepository) DeactivatePayment(id string) error {
	ret := _m.Called(id)
	return ret.Error(0)
}

// TableRepository is a testify mock for service.TableRepository.
type TableRepository struct {
	mock.Mock
}

func NewTableRepository(t testingT) *TableRepository {
	m := &TableRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *TableRepository) CreateTable(table *domain.Table) error {
	ret := _m.Called(table)
	return ret.Error(0)
}

func (_m *TableRepository) ListTablesByBranch(branchID string) ([]domain.Table, error) {
	ret := _m.Called(branchID)
	var r0 []domain.Table
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Table)
	}
	return r0, ret.Error(1)
}

func (_m *TableRepository) GetTable(id string) (*domain.Table, error) {
	ret := _m.Called(id)
	var r0 *domain.Table
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Table)
	}
	return r0, ret.Error(1)
}

func (_m *TableRepository) UpdateTable(table *domain.Table) error {
	ret := _m.Called(table)
	return ret.Error(0)
}

func (_m *TableRepository) DeleteTable(id string) (int64, error) {
	ret := _m.Called(id)
	return ret.Get(0).(int64), ret.Error(1)
}

// CustomerRepository is a testify mock for service.CustomerRepository.
type CustomerRepository struct {
	mock.Mock
}

func NewCustomerRepository(t testingT) *CustomerRepository {
	m := &CustomerRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *CustomerRepository) GetCustomerByPhone(phone string) (*domain.Customer, error) {
	ret := _m.Called(phone)
	var r0 *domain.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *CustomerRepository) CreateCustomer(customer *domain.Customer) error {
	ret := _m.Called(customer)
	return ret.Error(0)
}

func (_m *CustomerRepository) UpdateCustomerThread(phone, threadID string) error {
	ret := _m.Called(phone, threadID)
	return ret.Error(0)
}

// MenuRepository is a testify mock for service.MenuRepository.
type MenuRepository struct {
	mock.Mock
}

func NewMenuRepository(t testingT) *MenuRepository {
	m := &MenuRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MenuRepository) CreateMenu(menu *domain.Menu) error {
	ret := _m.Called(menu)
	return ret.Error(0)
}

func (_m *MenuRepository) GetMenuByBranch(branchID string) (*domain.Menu, error) {
	ret := _m.Called(branchID)
	var r0 *domain.Menu
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Menu)
	}
	return r0, ret.Error(1)
}

func (_m *MenuRepository) ListMenus(branchID string) ([]domain.Menu, error) {
	ret := _m.Called(branchID)
	var r0 []domain.Menu
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Menu)
	}
	return r0, ret.Error(1)
}

func (_m *MenuRepository) DeleteMenu(id string) (int64, error) {
	ret := _m.Called(id)
	return ret.Get(0).(int64), ret.Error(1)
}

// ProductRepository is a testify mock for service.ProductRepository.
type ProductRepository struct {
	mock.Mock
}

func NewProductRepository(t testingT) *ProductRepository {
	m := &ProductRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *ProductRepository) CreateProduct(product *domain.Product) error {
	ret := _m.Called(product)
	return ret.Error(0)
}

func (_m *ProductRepository) ListProductsByMenu(menuID string) ([]domain.Product, error) {
	ret := _m.Called(menuID)
	var r0 []domain.Product
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Product)
	}
	return r0, ret.Error(1)
}

func (_m *ProductRepository) GetProduct(id string) (*domain.Product, error) {
	ret := _m.Called(id)
	var r0 *domain.Product
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Product)
	}
	return r0, ret.Error(1)
}

func (_m *ProductRepository) UpdateProduct(product *domain.Product) error {
	ret := _m.Called(product)
	return ret.Error(0)
}

func (_m *ProductRepository) DeactivateProduct(id string) error {
	ret := _m.Called(id)
	return ret.Error(0)
}

// BranchRepository is a testify mock for service.BranchRepository.
type BranchRepository struct {
	mock.Mock
}

func NewBranchRepository(t testingT) *BranchRepository {
	m := &BranchRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *BranchRepository) CreateBranch(branch *domain.Branch) error {
	ret := _m.Called(branch)
	return ret.Error(0)
}

func (_m *BranchRepository) ListBranches(restaurantID string) ([]domain.Branch, error) {
	ret := _m.Called(restaurantID)
	var r0 []domain.Branch
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Branch)
	}
	return r0, ret.Error(1)
}

func (_m *BranchRepository) GetBranch(id string) (*domain.Branch, error) {
	ret := _m.Called(id)
	var r0 *domain.Branch
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Branch)
	}
	return r0, ret.Error(1)
}

func (_m *BranchRepository) GetBranchByAssistantNumber(phone string) (*domain.Branch, error) {
	ret := _m.Called(phone)
	var r0 *domain.Branch
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Branch)
	}
	return r0, ret.Error(1)
}

func (_m *BranchRepository) UpdateBranch(branch *domain.Branch) error {
	ret := _m.Called(branch)
	return ret.Error(0)
}

func (_m *BranchRepository) DeleteBranch(id string) (int64, error) {
	ret := _m.Called(id)
	return ret.Get(0).(int64), ret.Error(1)
}
