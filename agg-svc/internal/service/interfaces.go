package service

import (
	"context"
	"time"

	"comanda/agg-svc/internal/domain"
	"comanda/agg-svc/internal/storage"
)

type StoreInterface interface {
	RecordOrderCreated(branchID string, ts time.Time) error
	RecordPaymentCompleted(branchID string, amount float64, ts time.Time) error
	TopBranches(day string, limit int) ([]domain.BranchRevenue, error)
	BranchSales(branchID, day string) (*domain.BranchSales, error)
}

type ConsumerInterface interface {
	Start(ctx context.Context)
	ProcessEvent(evt domain.StreamEvent)
}

var _ StoreInterface = (*storage.Store)(nil)
