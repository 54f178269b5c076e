package service

import (
	"context"
	"net/url"
	"time"

	"comanda/order-svc/internal/domain"
)

type RestaurantRepository interface {
	CreateRestaurant(rest *domain.Restaurant) error
	ListRestaurants() ([]domain.Restaurant, error)
	GetRestaurant(id string) (*domain.Restaurant, error)
	UpdateRestaurant(rest *domain.Restaurant) error
	DeleteRestaurant(id string) (int64, error)
}

type BranchRepository interface {
	CreateBranch(branch *domain.Branch) error
	ListBranches(restaurantID string) ([]domain.Branch, error)
	GetBranch(id string) (*domain.Branch, error)
	GetBranchByAssistantNumber(phone string) (*domain.Branch, error)
	UpdateBranch(branch *domain.Branch) error
	DeleteBranch(id string) (int64, error)
}

type MenuRepository interface {
	CreateMenu(menu *domain.Menu) error
	GetMenuByBranch(branchID string) (*domain.Menu, error)
	ListMenus(branchID string) ([]domain.Menu, error)
	DeleteMenu(id string) (int64, error)
}

type ProductRepository interface {
	CreateProduct(product *domain.Product) error
	ListProductsByMenu(menuID string) ([]domain.Product, error)
	GetProduct(id string) (*domain.Product, error)
	UpdateProduct(product *domain.Product) error
	DeactivateProduct(id string) error
}

type CustomerRepository interface {
	GetCustomerByPhone(phone string) (*domain.Customer, error)
	CreateCustomer(customer *domain.Customer) error
	UpdateCustomerThread(phone, threadID string) error
}

type TableRepository interface {
	CreateTable(table *domain.Table) error
	ListTablesByBranch(branchID string) ([]domain.Table, error)
	GetTable(id string) (*domain.Table, error)
	UpdateTable(table *domain.Table) error
	DeleteTable(id string) (int64, error)
}

type OrderRepository interface {
	// CreateOrderWithItems persists the order and its items in one
	// transaction. When seatTableID is non-empty the table is moved
	// AVAILABLE -> OCCUPIED inside the same transaction; if the table was
	// taken concurrently the whole transaction rolls back.
	CreateOrderWithItems(order *domain.Order, seatTableID string) error
	GetOrder(id string) (*domain.Order, error)
	ListOrders(branchID string) ([]domain.Order, error)
	// CloseOrder stamps closed_at and moves the order to COMPLETED, but only
	// if it is still in fromStatus. Returns the number of rows changed so
	// concurrent closes cannot both succeed.
	CloseOrder(id string, fromStatus domain.OrderStatus) (int64, error)
	// MarkOrderPaid moves a COMPLETED order to PAID. Zero rows means the
	// order was not in the payable state (possibly already PAID).
	MarkOrderPaid(id string) (int64, error)
	CancelOrder(id string) error
	// AddOrderItems appends items and recomputes the order total from the
	// item rows inside one transaction.
	AddOrderItems(orderID string, items []domain.OrderItem) error
}

type PaymentRepository interface {
	CreatePayment(payment *domain.Payment) error
	GetPayment(id string) (*domain.Payment, error)
	ListPaymentsByOrder(orderID string) ([]domain.Payment, error)
	HasCompletedPayment(orderID string) (bool, error)
	UpdatePayment(payment *domain.Payment) error
	// CompletePayment conditionally moves a payment to COMPLETED. Zero rows
	// means it already was, which callers treat as a no-op.
	CompletePayment(id, externalPaymentID string) (int64, error)
	FailPayment(id, reason string) error
	// FailStaleProcessing fails PROCESSING payments whose checkout session
	// started before the cutoff and reports how many were swept.
	FailStaleProcessing(before time.Time) (int64, error)
	DeactivatePayment(id string) error
}

// PaymentGateway is the external payment provider: hosted checkout plus
// webhook signature verification.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, amount float64, orderID, description string) (*domain.CheckoutSession, error)
	VerifyWebhook(payload []byte, signature string) (*domain.GatewayEvent, error)
}

// AssistantClient is the conversational agent, treated as a black box that
// returns free text. threadID may be empty on the first message; the client
// returns the thread to reuse on the next turn.
type AssistantClient interface {
	SendMessage(ctx context.Context, assistantID, threadID, message, conversationContext string) (reply string, newThreadID string, err error)
}

// MessagingClient is the messaging-channel transport.
type MessagingClient interface {
	Send(to, body, from string) (sid string, err error)
	ProcessIncoming(form url.Values) domain.IncomingMessage
}

// EventPublisher pushes stream events for downstream aggregation.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.StreamEvent) error
}

// ReplayMarkerStore remembers webhook event ids with a TTL so duplicate
// deliveries are suppressed across instances.
type ReplayMarkerStore interface {
	MarkOnce(ctx context.Context, eventID string) (bool, error)
	// Unmark releases an id claimed by MarkOnce, used when applying the
	// event failed and the gateway's retry must not look like a duplicate.
	Unmark(ctx context.Context, eventID string) error
}

// OrderFlow is the slice of the order lifecycle other services may drive.
// Paid is the single writer of the PAID transition.
type OrderFlow interface {
	FindOne(id string) (*domain.Order, error)
	Paid(id string) error
}

// PaymentFlow is the slice of the payment lifecycle the webhook reconciler
// drives.
type PaymentFlow interface {
	FindByOrder(orderID string) ([]domain.Payment, error)
	Complete(paymentID, externalPaymentID string) error
	Fail(paymentID, reason string) error
	CreateCompletedFromGateway(orderID string, amount float64, externalPaymentID, gateway string) (*domain.Payment, error)
}
