package tests

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"comanda/order-svc/internal/domain"
	"comanda/order-svc/internal/mocks"
	"comanda/order-svc/internal/service"
)

type conversationFixture struct {
	messaging *mocks.MessagingClient
	assistant *mocks.AssistantClient
	branches  *mocks.BranchRepository
	customers *mocks.CustomerRepository
	tableRepo *mocks.TableRepository
	orders    *mocks.OrderRepository
	menus     *mocks.MenuRepository
	products  *mocks.ProductRepository
	publisher *mocks.EventPublisher
	svc       *service.ConversationService
}

func newConversationFixture(t *testing.T) *conversationFixture {
	f := &conversationFixture{
		messaging: mocks.NewMessagingClient(t),
		assistant: mocks.NewAssistantClient(t),
		branches:  mocks.NewBranchRepository(t),
		customers: mocks.NewCustomerRepository(t),
		tableRepo: mocks.NewTableRepository(t),
		orders:    mocks.NewOrderRepository(t),
		menus:     mocks.NewMenuRepository(t),
		products:  mocks.NewProductRepository(t),
		publisher: mocks.NewEventPublisher(t),
	}
	tables := service.NewTableService(f.tableRepo)
	processor := service.NewOrderProcessingService(f.orders, f.customers, f.tableRepo, f.menus, f.products, f.publisher)
	f.svc = service.NewConversationService(f.messaging, f.assistant, f.branches, f.customers, tables, processor)
	return f
}

func activeBranch() *domain.Branch {
	return &domain.Branch{
		ID:                   "b1",
		RestaurantID:         "r1",
		Name:                 "Centro",
		PhoneNumberAssistant: "+5215550000001",
		PhoneNumberCashier:   "+5215550000002",
		AssistantID:          "asst_1",
		Balance:              100.0,
		IsActive:             true,
	}
}

func incomingForm() url.Values {
	return url.Values{
		"From": {"whatsapp:+5215550001111"},
		"To":   {"whatsapp:+5215550000001"},
		"Body": {"Quiero una pizza"},
	}
}

func (f *conversationFixture) expectIncoming(body string) {
	f.messaging.On("ProcessIncoming", mock.Anything).Return(domain.IncomingMessage{
		From:        "+5215550001111",
		To:          "+5215550000001",
		Body:        body,
		ProfileName: "Ana",
	}).Once()
}

func TestConversation_BranchNotFound(t *testing.T) {
	f := newConversationFixture(t)

	f.expectIncoming("Hola")
	f.branches.On("GetBranchByAssistantNumber", "+5215550000001").Return(nil, nil).Once()

	result, err := f.svc.HandleIncoming(context.Background(), incomingForm())
	require.NoError(t, err)
	assert.False(t, result.Processed)
	assert.Equal(t, "branch not found", result.Error)
}

func TestConversation_BranchWithoutBalance(t *testing.T) {
	f := newConversationFixture(t)

	branch := activeBranch()
	branch.Balance = 0

	f.expectIncoming("Hola")
	f.branches.On("GetBranchByAssistantNumber", "+5215550000001").Return(branch, nil).Once()

	result, err := f.svc.HandleIncoming(context.Background(), incomingForm())
	require.NoError(t, err)
	assert.False(t, result.Processed)
	assert.Equal(t, "branch has no balance", result.Error)
}

func TestConversation_NoAssistantFallsBack(t *testing.T) {
	f := newConversationFixture(t)

	branch := activeBranch()
	branch.AssistantID = ""

	f.expectIncoming("Hola")
	f.branches.On("GetBranchByAssistantNumber", "+5215550000001").Return(branch, nil).Once()
	f.customers.On("GetCustomerByPhone", "+5215550001111").
		Return(&domain.Customer{ID: "c1", Phone: "+5215550001111"}, nil).Once()
	f.messaging.On("Send", "+5215550001111", mock.Anything, "+5215550000001").Return("SM1", nil).Once()

	result, err := f.svc.HandleIncoming(context.Background(), incomingForm())
	require.NoError(t, err)
	assert.True(t, result.Processed)
	assert.NotEmpty(t, result.Reply)
}

func TestConversation_NewCustomerIsCreated(t *testing.T) {
	f := newConversationFixture(t)

	f.expectIncoming("Hola")
	f.branches.On("GetBranchByAssistantNumber", "+5215550000001").Return(activeBranch(), nil).Once()
	f.customers.On("GetCustomerByPhone", "+5215550001111").Return(nil, nil).Once()
	f.customers.On("CreateCustomer", mock.MatchedBy(func(c *domain.Customer) bool {
		return c.Phone == "+5215550001111" && c.Name == "Ana" && !c.IsAdmin
	})).Return(nil).Once()
	f.assistant.On("SendMessage", mock.Anything, "asst_1", "", "Hola", "").
		Return("¡Hola! ¿Qué te gustaría ordenar?", "thread_1", nil).Once()
	f.customers.On("UpdateCustomerThread", "+5215550001111", "thread_1").Return(nil).Once()
	f.messaging.On("Send", "+5215550001111", "¡Hola! ¿Qué te gustaría ordenar?", "+5215550000001").
		Return("SM1", nil).Once()

	result, err := f.svc.HandleIncoming(context.Background(), incomingForm())
	require.NoError(t, err)
	assert.True(t, result.Processed)
	assert.Equal(t, "¡Hola! ¿Qué te gustaría ordenar?", result.Reply)
}

func TestConversation_AssistantDownFallsBack(t *testing.T) {
	f := newConversationFixture(t)

	f.expectIncoming("Quiero una pizza")
	f.branches.On("GetBranchByAssistantNumber", "+5215550000001").Return(activeBranch(), nil).Once()
	f.customers.On("GetCustomerByPhone", "+5215550001111").
		Return(&domain.Customer{ID: "c1", Phone: "+5215550001111", ThreadID: "thread_1"}, nil).Once()
	f.assistant.On("SendMessage", mock.Anything, "asst_1", "thread_1", "Quiero una pizza", "").
		Return("", "thread_1", assert.AnError).Once()
	f.messaging.On("Send", "+5215550001111", mock.Anything, "+5215550000001").Return("SM1", nil).Once()

	result, err := f.svc.HandleIncoming(context.Background(), incomingForm())
	require.NoError(t, err)
	assert.True(t, result.Processed)
	assert.NotEmpty(t, result.Reply)
}

func TestConversation_CashierBlocksSplitAndRouted(t *testing.T) {
	f := newConversationFixture(t)

	reply := "Tu pedido va en camino.\n### CAJA\nNuevo pedido: 1. Pizza Margarita x2"

	f.expectIncoming("confirmo el pedido")
	f.branches.On("GetBranchByAssistantNumber", "+5215550000001").Return(activeBranch(), nil).Once()
	f.customers.On("GetCustomerByPhone", "+5215550001111").
		Return(&domain.Customer{ID: "c1", Phone: "+5215550001111", ThreadID: "thread_1"}, nil).Once()
	f.assistant.On("SendMessage", mock.Anything, "asst_1", "thread_1", "confirmo el pedido", "").
		Return(reply, "thread_1", nil).Once()
	f.messaging.On("Send", "+5215550001111", "Tu pedido va en camino.", "+5215550000001").
		Return("SM1", nil).Once()
	f.messaging.On("Send", "+5215550000002", "Nuevo pedido: 1. Pizza Margarita x2", "+5215550000001").
		Return("SM2", nil).Once()

	result, err := f.svc.HandleIncoming(context.Background(), incomingForm())
	require.NoError(t, err)
	assert.True(t, result.Processed)
	assert.Equal(t, "Tu pedido va en camino.", result.Reply)
}

func TestConversation_BillRequestResetsThread(t *testing.T) {
	f := newConversationFixture(t)

	// The client part carries no itemized lines, so no order is committed,
	// but the thread must still be reset for the next visit.
	reply := "En un momento le llevamos la cuenta.\n### CAJA\nAcción: El cliente ha pedido la cuenta."

	f.expectIncoming("la cuenta por favor")
	f.branches.On("GetBranchByAssistantNumber", "+5215550000001").Return(activeBranch(), nil).Once()
	f.customers.On("GetCustomerByPhone", "+5215550001111").
		Return(&domain.Customer{ID: "c1", Phone: "+5215550001111", ThreadID: "thread_1"}, nil).Once()
	f.assistant.On("SendMessage", mock.Anything, "asst_1", "thread_1", "la cuenta por favor", "").
		Return(reply, "thread_1", nil).Once()
	f.messaging.On("Send", "+5215550001111", "En un momento le llevamos la cuenta.", "+5215550000001").
		Return("SM1", nil).Once()
	f.messaging.On("Send", "+5215550000002", "Acción: El cliente ha pedido la cuenta.", "+5215550000001").
		Return("SM2", nil).Once()
	f.customers.On("UpdateCustomerThread", "+5215550001111", "").Return(nil).Once()

	result, err := f.svc.HandleIncoming(context.Background(), incomingForm())
	require.NoError(t, err)
	assert.True(t, result.Processed)
	assert.Empty(t, result.OrderID)
}

func TestConversation_ResolveOrderFromText(t *testing.T) {
	f := newConversationFixture(t)
	ctx := context.Background()

	text := "- Pizza Margarita x2\nestoy en la mesa 3"

	f.tableRepo.On("ListTablesByBranch", "b1").Return([]domain.Table{
		{ID: "t3", BranchID: "b1", Name: "3", Capacity: 4, Status: domain.TableAvailable},
	}, nil).Once()
	f.customers.On("GetCustomerByPhone", "+5215550001111").
		Return(&domain.Customer{ID: "c1", Phone: "+5215550001111"}, nil).Once()
	f.tableRepo.On("GetTable", "t3").
		Return(&domain.Table{ID: "t3", Name: "3", Status: domain.TableAvailable}, nil).Once()
	f.menus.On("GetMenuByBranch", "b1").Return(&domain.Menu{ID: "m1", BranchID: "b1"}, nil).Once()
	f.products.On("ListProductsByMenu", "m1").Return([]domain.Product{
		{ID: "p1", MenuID: "m1", Name: "Pizza Margarita", Price: 125.50, IsActive: true},
	}, nil).Once()
	f.orders.On("CreateOrderWithItems", mock.Anything, "t3").Return(nil).Once()
	f.publisher.On("Publish", ctx, mock.Anything).Return(nil).Once()

	result, err := f.svc.ResolveOrderFromText(ctx, text, "b1", "+5215550001111")
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.NotNil(t, result.Order)
	assert.Equal(t, domain.DineIn, result.Order.Type)
	assert.Equal(t, "t3", result.Order.TableID)
	assert.Equal(t, 251.00, result.Total)
}

func TestConversation_ResolveOrderFromText_NoItems(t *testing.T) {
	f := newConversationFixture(t)

	result, err := f.svc.ResolveOrderFromText(context.Background(), "Hola, ¿qué tienen de menú?", "b1", "+5215550001111")
	require.NoError(t, err)
	assert.False(t, result.Success)
}
