package domain

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderInProgress OrderStatus = "IN_PROGRESS"
	OrderCompleted  OrderStatus = "COMPLETED"
	OrderCancelled  OrderStatus = "CANCELLED"
	OrderPaid       OrderStatus = "PAID"
)

// IsClosed reports whether the order has been closed and is waiting for
// payment. COMPLETED is the payable state between close and pay.
func (o *Order) IsClosed() bool {
	return o.Status == OrderCompleted
}

func (o *Order) IsTerminal() bool {
	return o.Status == OrderPaid || o.Status == OrderCancelled
}

type OrderType string

const (
	DineIn   OrderType = "DINE_IN"
	Takeaway OrderType = "TAKEAWAY"
	Delivery OrderType = "DELIVERY"
)

type TableStatus string

const (
	TableAvailable TableStatus = "AVAILABLE"
	TableOccupied  TableStatus = "OCCUPIED"
	TableReserved  TableStatus = "RESERVED"
)

// OrderableAt reports whether a customer may place an order at the table.
// An already seated customer can still order, so OCCUPIED counts.
func (t *Table) OrderableAt() bool {
	return t.Status == TableAvailable || t.Status == TableOccupied
}

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentProcessing PaymentStatus = "PROCESSING"
	PaymentCompleted  PaymentStatus = "COMPLETED"
	PaymentFailed     PaymentStatus = "FAILED"
	PaymentRefunded   PaymentStatus = "REFUNDED"
)

type PaymentMethod string

const (
	MethodCash          PaymentMethod = "CASH"
	MethodCard          PaymentMethod = "CARD"
	MethodDigitalWallet PaymentMethod = "DIGITAL_WALLET"
	MethodBankTransfer  PaymentMethod = "BANK_TRANSFER"
)
