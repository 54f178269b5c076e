package domain

import "time"

// StreamEvent mirrors the messages the order service publishes. Only the
// fields this service aggregates are declared.
type StreamEvent struct {
	Type      string    `json:"type"`
	OrderID   string    `json:"order_id"`
	BranchID  string    `json:"branch_id"`
	PaymentID string    `json:"payment_id,omitempty"`
	Total     float64   `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	EventOrderCreated     = "order_created"
	EventPaymentCompleted = "payment_completed"
)

// BranchSales is the aggregate row kept per branch per day.
type BranchSales struct {
	BranchID string  `json:"branch_id"`
	Day      string  `json:"day"`
	Orders   int     `json:"orders"`
	Payments int     `json:"payments"`
	Revenue  float64 `json:"revenue"`
}

// BranchRevenue is one entry of a daily revenue leaderboard.
type BranchRevenue struct {
	BranchID string  `json:"branch_id"`
	Revenue  float64 `json:"revenue"`
}
