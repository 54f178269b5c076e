package mocks

import (
	"context"
	"net/url"

	"github.com/stretchr/testify/mock"

	"comanda/order-svc/internal/domain"
)

// PaymentGateway is a testify mock for service.PaymentGateway.
type PaymentGateway struct {
	mock.Mock
}

func NewPaymentGateway(t testingT) *PaymentGateway {
	m := &PaymentGateway{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *PaymentGateway) CreateCheckoutSession(ctx context.Context, amount float64, orderID, description string) (*domain.CheckoutSession, error) {
	ret := _m.Called(ctx, amount, orderID, description)
	var r0 *domain.CheckoutSession
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.CheckoutSession)
	}
	return r0, ret.Error(1)
}

func (_m *PaymentGateway) VerifyWebhook(payload []byte, signature string) (*domain.GatewayEvent, error) {
	ret := _m.Called(payload, signature)
	var r0 *domain.GatewayEvent
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.GatewayEvent)
	}
	return r0, ret.Error(1)
}

// AssistantClient is a testify mock for service.AssistantClient.
type AssistantClient struct {
	mock.Mock
}

func NewAssistantClient(t testingT) *AssistantClient {
	m := &AssistantClient{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *AssistantClient) SendMessage(ctx context.Context, assistantID, threadID, message, conversationContext string) (string, string, error) {
	ret := _m.Called(ctx, assistantID, threadID, message, conversationContext)
	return ret.String(0), ret.String(1), ret.Error(2)
}

// MessagingClient is a testify mock for service.MessagingClient.
type MessagingClient struct {
	mock.Mock
}

func NewMessagingClient(t testingT) *MessagingClient {
	m := &MessagingClient{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MessagingClient) Send(to, body, from string) (string, error) {
	ret := _m.Called(to, body, from)
	return ret.String(0), ret.Error(1)
}

func (_m *MessagingClient) ProcessIncoming(form url.Values) domain.IncomingMessage {
	ret := _m.Called(form)
	return ret.Get(0).(domain.IncomingMessage)
}

// EventPublisher is a testify mock for service.EventPublisher.
type EventPublisher struct {
	mock.Mock
}

func NewEventPublisher(t testingT) *EventPublisher {
	m := &EventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *EventPublisher) Publish(ctx context.Context, event domain.StreamEvent) error {
	ret := _m.Called(ctx, event)
	return ret.Error(0)
}

// ReplayMarkerStore is a testify mock for service.ReplayMarkerStore.
type ReplayMarkerStore struct {
	mock.Mock
}

func NewReplayMarkerStore(t testingT) *ReplayMarkerStore {
	m := &ReplayMarkerStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *ReplayMarkerStore) MarkOnce(ctx context.Context, eventID string) (bool, error) {
	ret := _m.Called(ctx, eventID)
	return ret.Bool(0), ret.Error(1)
}

func (_m *ReplayMarkerStore) Unmark(ctx context.Context, eventID string) error {
	ret := _m.Called(ctx, eventID)
	return ret.Error(0)
}
