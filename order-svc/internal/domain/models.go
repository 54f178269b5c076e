package domain

import "time"

type Restaurant struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type Branch struct {
	ID                   string    `json:"id"`
	RestaurantID         string    `json:"restaurant_id"`
	Name                 string    `json:"name"`
	Address              string    `json:"address"`
	PhoneNumberAssistant string    `json:"phone_number_assistant"`
	PhoneNumberCashier   string    `json:"phone_number_cashier"`
	AssistantID          string    `json:"assistant_id,omitempty"`
	Balance              float64   `json:"balance"`
	IsActive             bool      `json:"is_active"`
	CreatedAt            time.Time `json:"created_at"`
}

type Menu struct {
	ID        string    `json:"id"`
	BranchID  string    `json:"branch_id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type Product struct {
	ID          string    `json:"id"`
	MenuID      string    `json:"menu_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	ThreadID  string    `json:"thread_id,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type Table struct {
	ID        string      `json:"id"`
	BranchID  string      `json:"branch_id"`
	Name      string      `json:"name"`
	Capacity  int         `json:"capacity"`
	Status    TableStatus `json:"status"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
}

type Order struct {
	ID         string      `json:"id"`
	BranchID   string      `json:"branch_id"`
	CustomerID string      `json:"customer_id,omitempty"`
	TableID    string      `json:"table_id,omitempty"`
	Type       OrderType   `json:"type"`
	Status     OrderStatus `json:"status"`
	Items      []OrderItem `json:"items"`
	Total      float64     `json:"total"`
	Notes      string      `json:"notes,omitempty"`
	IsActive   bool        `json:"is_active"`
	ClosedAt   *time.Time  `json:"closed_at,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

type OrderItem struct {
	ID          string  `json:"id"`
	OrderID     string  `json:"order_id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Notes       string  `json:"notes,omitempty"`
}

type Payment struct {
	ID                string            `json:"id"`
	OrderID           string            `json:"order_id"`
	Amount            float64           `json:"amount"`
	Method            PaymentMethod     `json:"method"`
	Status            PaymentStatus     `json:"status"`
	TransactionID     string            `json:"transaction_id"`
	ExternalPaymentID string            `json:"external_payment_id,omitempty"`
	Gateway           string            `json:"gateway,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	FailureReason     string            `json:"failure_reason,omitempty"`
	IsActive          bool              `json:"is_active"`
	ProcessedAt       *time.Time        `json:"processed_at,omitempty"`
	CompletedAt       *time.Time        `json:"completed_at,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}
