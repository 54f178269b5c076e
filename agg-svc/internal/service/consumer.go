package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"

	"comanda/agg-svc/internal/domain"
)

type Consumer struct {
	Reader *kafka.Reader
	Store  StoreInterface
}

func NewConsumer(reader *kafka.Reader, store StoreInterface) *Consumer {
	return &Consumer{
		Reader: reader,
		Store:  store,
	}
}

func (c *Consumer) Start(ctx context.Context) {
	log.Println("Starting sales aggregation consumer...")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			log.Printf("Error reading message: %v", err)
			continue
		}

		var evt domain.StreamEvent
		if err := json.Unmarshal(message.Value, &evt); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		c.ProcessEvent(evt)
	}
}

func (c *Consumer) ProcessEvent(evt domain.StreamEvent) {
	if evt.BranchID == "" {
		return
	}

	switch evt.Type {
	case domain.EventOrderCreated:
		log.Printf("Processing order created: OrderID=%s, BranchID=%s", evt.OrderID, evt.BranchID)
		if err := c.Store.RecordOrderCreated(evt.BranchID, evt.Timestamp); err != nil {
			log.Printf("Error recording order: %v", err)
		}
	case domain.EventPaymentCompleted:
		log.Printf("Processing payment completed: OrderID=%s, BranchID=%s, Total=%.2f",
			evt.OrderID, evt.BranchID, evt.Total)
		if err := c.Store.RecordPaymentCompleted(evt.BranchID, evt.Total, evt.Timestamp); err != nil {
			log.Printf("Error recording payment: %v", err)
		}
	}
}
