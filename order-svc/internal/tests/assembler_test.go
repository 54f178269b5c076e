package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"comanda/order-svc/internal/domain"
	"comanda/order-svc/internal/mocks"
	"comanda/order-svc/internal/service"
)

type processingFixture struct {
	orders    *mocks.OrderRepository
	customers *mocks.CustomerRepository
	tables    *mocks.TableRepository
	menus     *mocks.MenuRepository
	products  *mocks.ProductRepository
	publisher *mocks.EventPublisher
	svc       *service.OrderProcessingService
}

func newProcessingFixture(t *testing.T) *processingFixture {
	f := &processingFixture{
		orders:    mocks.NewOrderRepository(t),
		customers: mocks.NewCustomerRepository(t),
		tables:    mocks.NewTableRepository(t),
		menus:     mocks.NewMenuRepository(t),
		products:  mocks.NewProductRepository(t),
		publisher: mocks.NewEventPublisher(t),
	}
	f.svc = service.NewOrderProcessingService(f.orders, f.customers, f.tables, f.menus, f.products, f.publisher)
	return f
}

func (f *processingFixture) expectCatalog() {
	f.menus.On("GetMenuByBranch", "b1").Return(&domain.Menu{ID: "m1", BranchID: "b1"}, nil).Once()
	f.products.On("ListProductsByMenu", "m1").Return([]domain.Product{
		{ID: "p1", MenuID: "m1", Name: "Pizza Margarita", Price: 125.50, IsActive: true},
		{ID: "p2", MenuID: "m1", Name: "Refrescos (Cola, Fresa, Toronja)", Price: 25.00, IsActive: true},
		{ID: "p3", MenuID: "m1", Name: "Tacos al Pastor", Price: 18.00, IsActive: false},
	}, nil).Once()
}

func TestOrderProcessing_DineInSuccess(t *testing.T) {
	f := newProcessingFixture(t)
	ctx := context.Background()

	f.customers.On("GetCustomerByPhone", "+5215550001111").
		Return(&domain.Customer{ID: "c1", Phone: "+5215550001111"}, nil).Once()
	f.tables.On("GetTable", "t1").
		Return(&domain.Table{ID: "t1", Name: "1", Status: domain.TableAvailable}, nil).Once()
	f.expectCatalog()
	f.orders.On("CreateOrderWithItems", mock.Anything, "t1").Return(nil).Once()
	f.publisher.On("Publish", ctx, mock.Anything).Return(nil).Once()

	result, err := f.svc.ProcessOrderConfirmation(ctx, service.OrderConfirmation{
		CustomerPhone: "+5215550001111",
		BranchID:      "b1",
		TableID:       "t1",
		OrderType:     domain.DineIn,
		Items: []service.DraftItem{
			{ProductName: "pizza margarita", Quantity: 2},
			{ProductName: "coca cola", Quantity: 1},
		},
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 276.00, result.Total)
	require.NotNil(t, result.Order)
	assert.Equal(t, domain.OrderPending, result.Order.Status)
	assert.Equal(t, domain.DineIn, result.Order.Type)
	assert.Len(t, result.OrderItems, 2)
	// Menu price is captured on the item at order time.
	assert.Equal(t, 125.50, result.OrderItems[0].UnitPrice)
}

func TestOrderProcessing_TableTakenConcurrently(t *testing.T) {
	f := newProcessingFixture(t)
	ctx := context.Background()

	f.customers.On("GetCustomerByPhone", "+5215550001111").
		Return(&domain.Customer{ID: "c1", Phone: "+5215550001111"}, nil).Once()
	f.tables.On("GetTable", "t1").
		Return(&domain.Table{ID: "t1", Name: "1", Status: domain.TableAvailable}, nil).Once()
	f.expectCatalog()
	f.orders.On("CreateOrderWithItems", mock.Anything, "t1").Return(domain.ErrTableTaken).Once()

	result, err := f.svc.ProcessOrderConfirmation(ctx, service.OrderConfirmation{
		CustomerPhone: "+5215550001111",
		BranchID:      "b1",
		TableID:       "t1",
		OrderType:     domain.DineIn,
		Items:         []service.DraftItem{{ProductName: "pizza margarita", Quantity: 1}},
	})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Errors)
}

func TestOrderProcessing_CustomerNotFound(t *testing.T) {
	f := newProcessingFixture(t)

	f.customers.On("GetCustomerByPhone", "+5215550009999").Return(nil, nil).Once()

	result, err := f.svc.ProcessOrderConfirmation(context.Background(), service.OrderConfirmation{
		CustomerPhone: "+5215550009999",
		BranchID:      "b1",
		OrderType:     domain.Takeaway,
		Items:         []service.DraftItem{{ProductName: "pizza", Quantity: 1}},
	})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Errors, "Cliente no encontrado")
}

func TestOrderProcessing_DineInRequiresTable(t *testing.T) {
	f := newProcessingFixture(t)

	f.customers.On("GetCustomerByPhone", "+5215550001111").
		Return(&domain.Customer{ID: "c1", Phone: "+5215550001111"}, nil).Once()

	result, err := f.svc.ProcessOrderConfirmation(context.Background(), service.OrderConfirmation{
		CustomerPhone: "+5215550001111",
		BranchID:      "b1",
		OrderType:     domain.DineIn,
		Items:         []service.DraftItem{{ProductName: "pizza margarita", Quantity: 1}},
	})

	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestOrderProcessing_PartialItems(t *testing.T) {
	f := newProcessingFixture(t)
	ctx := context.Background()

	f.customers.On("GetCustomerByPhone", "+5215550001111").
		Return(&domain.Customer{ID: "c1", Phone: "+5215550001111"}, nil).Once()
	f.expectCatalog()
	f.orders.On("CreateOrderWithItems", mock.Anything, "").Return(nil).Once()
	f.publisher.On("Publish", ctx, mock.Anything).Return(nil).Once()

	result, err := f.svc.ProcessOrderConfirmation(ctx, service.OrderConfirmation{
		CustomerPhone: "+5215550001111",
		BranchID:      "b1",
		OrderType:     domain.Takeaway,
		Items: []service.DraftItem{
			{ProductName: "pizza margarita", Quantity: 1},
			{ProductName: "tacos al pastor", Quantity: 2}, // inactive
			{ProductName: "sushi", Quantity: 1},           // not on the menu
		},
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Len(t, result.OrderItems, 1)
	assert.Len(t, result.Errors, 2)
	assert.NotEmpty(t, result.Warnings)
	assert.Equal(t, 125.50, result.Total)
}

func TestOrderProcessing_NoValidItemsAborts(t *testing.T) {
	f := newProcessingFixture(t)

	f.customers.On("GetCustomerByPhone", "+5215550001111").
		Return(&domain.Customer{ID: "c1", Phone: "+5215550001111"}, nil).Once()
	f.expectCatalog()

	result, err := f.svc.ProcessOrderConfirmation(context.Background(), service.OrderConfirmation{
		CustomerPhone: "+5215550001111",
		BranchID:      "b1",
		OrderType:     domain.Takeaway,
		Items:         []service.DraftItem{{ProductName: "sushi", Quantity: 1}},
	})

	require.NoError(t, err)
	assert.False(t, result.Success)
	f.orders.AssertNotCalled(t, "CreateOrderWithItems", mock.Anything, mock.Anything)
}

func TestOrderProcessing_AddItemsToExistingOrder(t *testing.T) {
	f := newProcessingFixture(t)

	t.Run("appends_to_pending_order", func(t *testing.T) {
		pending := orderWithStatus(domain.OrderPending)
		updated := orderWithStatus(domain.OrderPending)
		updated.Total = 301.00

		f.orders.On("GetOrder", "o1").Return(pending, nil).Once()
		f.expectCatalog()
		f.orders.On("AddOrderItems", "o1", mock.Anything).Return(nil).Once()
		f.orders.On("GetOrder", "o1").Return(updated, nil).Once()

		result, err := f.svc.AddItemsToExistingOrder("o1", []service.DraftItem{
			{ProductName: "refresco", Quantity: 2},
		}, "b1")

		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 301.00, result.Total)
	})

	t.Run("rejects_closed_order", func(t *testing.T) {
		f.orders.On("GetOrder", "o2").Return(orderWithStatus(domain.OrderCompleted), nil).Once()

		result, err := f.svc.AddItemsToExistingOrder("o2", []service.DraftItem{
			{ProductName: "refresco", Quantity: 1},
		}, "b1")

		require.NoError(t, err)
		assert.False(t, result.Success)
	})
}
