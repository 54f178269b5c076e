package tests

import (
	"errors"
	"testing"
	"time"

	"comanda/agg-svc/internal/domain"
	"comanda/agg-svc/internal/mocks"
	"comanda/agg-svc/internal/service"
)

func TestConsumer_ProcessEvent(t *testing.T) {
	ts := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		inputEvent     domain.StreamEvent
		setupMockStore func(*mocks.StoreInterface)
	}{
		{
			name: "order created",
			inputEvent: domain.StreamEvent{
				Type:      domain.EventOrderCreated,
				OrderID:   "o1",
				BranchID:  "b1",
				Timestamp: ts,
			},
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("RecordOrderCreated", "b1", ts).Return(nil)
			},
		},
		{
			name: "payment completed",
			inputEvent: domain.StreamEvent{
				Type:      domain.EventPaymentCompleted,
				OrderID:   "o1",
				BranchID:  "b1",
				Total:     251.00,
				Timestamp: ts,
			},
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("RecordPaymentCompleted", "b1", 251.00, ts).Return(nil)
			},
		},
		{
			name: "store error is swallowed",
			inputEvent: domain.StreamEvent{
				Type:      domain.EventOrderCreated,
				OrderID:   "o1",
				BranchID:  "b1",
				Timestamp: ts,
			},
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("RecordOrderCreated", "b1", ts).Return(errors.New("db connection failed"))
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockStore := mocks.NewStoreInterface(t)
			testCase.setupMockStore(mockStore)

			consumer := &service.Consumer{
				Store: mockStore,
			}

			consumer.ProcessEvent(testCase.inputEvent)
			mockStore.AssertExpectations(t)
		})
	}
}

func TestConsumer_IgnoresUnknownType(t *testing.T) {
	mockStore := mocks.NewStoreInterface(t)
	consumer := &service.Consumer{
		Store: mockStore,
	}

	consumer.ProcessEvent(domain.StreamEvent{
		Type:     "order_cancelled",
		OrderID:  "o1",
		BranchID: "b1",
	})

	mockStore.AssertNotCalled(t, "RecordOrderCreated")
	mockStore.AssertNotCalled(t, "RecordPaymentCompleted")
}

func TestConsumer_IgnoresMissingBranch(t *testing.T) {
	mockStore := mocks.NewStoreInterface(t)
	consumer := &service.Consumer{
		Store: mockStore,
	}

	consumer.ProcessEvent(domain.StreamEvent{
		Type:    domain.EventOrderCreated,
		OrderID: "o1",
	})

	mockStore.AssertNotCalled(t, "RecordOrderCreated")
}
