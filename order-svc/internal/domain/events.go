package domain

import "time"

// StreamEvent is the message published to Kafka when something worth
// aggregating happens to an order.
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

// CheckoutSession is the gateway-hosted payment page created for an order.
type CheckoutSession struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GatewayEvent is a verified webhook notification from the payment gateway,
// reduced to the fields the reconciler cares about.
type GatewayEvent struct {
	ID              string
	Type            string
	Gateway         string
	ExternalID      string
	PaymentIntentID string
	OrderID         string
	Amount          float64
	FailureReason   string
}

// IncomingMessage is one inbound message from the messaging channel.
type IncomingMessage struct {
	From        string    `json:"from"`
	To          string    `json:"to"`
	Body        string    `json:"body"`
	ProfileName string    `json:"profile_name"`
	MessageSID  string    `json:"message_sid"`
	Timestamp   time.Time `json:"timestamp"`
}
