package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"comanda/order-svc/internal/catalog"
	"comanda/order-svc/internal/domain"
)

// OrderConfirmation is the raw material for a committed order: who, where,
// how, and the (possibly messy) item list extracted from conversation.
type OrderConfirmation struct {
	CustomerPhone     string           `json:"customer_phone"`
	BranchID          string           `json:"branch_id"`
	TableID           string           `json:"table_id,omitempty"`
	OrderType         domain.OrderType `json:"order_type"`
	Items             []DraftItem      `json:"items"`
	Notes             string           `json:"notes,omitempty"`
	AssistantThreadID string           `json:"assistant_thread_id,omitempty"`
}

type DraftItem struct {
	ProductName string   `json:"product_name"`
	Quantity    int      `json:"quantity"`
	UnitPrice   *float64 `json:"unit_price,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

// ProcessedOrder reports the outcome, including per-item errors collected
// along the way. A partially successful order carries warnings, not errors.
type ProcessedOrder struct {
	Order      *domain.Order      `json:"order,omitempty"`
	OrderItems []domain.OrderItem `json:"order_items"`
	Total      float64            `json:"total"`
	Success    bool               `json:"success"`
	Errors     []string           `json:"errors,omitempty"`
	Warnings   []string           `json:"warnings,omitempty"`
}

// OrderProcessingService turns a confirmation into a committed order:
// customer check, table check, per-item catalog resolution, then a single
// transaction that persists the order and seats the table.
type OrderProcessingService struct {
	orders    OrderRepository
	customers CustomerRepository
	tables    TableRepository
	menus     MenuRepository
	products  ProductRepository
	publisher EventPublisher
}

func NewOrderProcessingService(
	orders OrderRepository,
	customers CustomerRepository,
	tables TableRepository,
	menus MenuRepository,
	products ProductRepository,
	publisher EventPublisher,
) *OrderProcessingService {
	return &OrderProcessingService{
		orders:    orders,
		customers: customers,
		tables:    tables,
		menus:     menus,
		products:  products,
		publisher: publisher,
	}
}

func failed(errs []string) *ProcessedOrder {
	return &ProcessedOrder{OrderItems: []domain.OrderItem{}, Success: false, Errors: errs}
}

// ProcessOrderConfirmation validates and commits an order. Item errors are
// collected rather than failing fast: a typo in one item must not block the
// rest of a large order. Zero valid items aborts the whole order.
func (s *OrderProcessingService) ProcessOrderConfirmation(ctx context.Context, data OrderConfirmation) (*ProcessedOrder, error) {
	log.Printf("[order-svc] processing order confirmation for %s", data.CustomerPhone)

	var errs, warnings []string

	customer, err := s.customers.GetCustomerByPhone(data.CustomerPhone)
	if err != nil || customer == nil {
		return failed([]string{"Cliente no encontrado"}), nil
	}

	var seatTableID string
	if data.OrderType == domain.DineIn {
		if data.TableID == "" {
			return failed([]string{"Se requiere mesa para pedidos en restaurante"}), nil
		}

		table, err := s.tables.GetTable(data.TableID)
		if err != nil || table == nil {
			return failed([]string{fmt.Sprintf("Mesa %s no encontrada", data.TableID)}), nil
		}
		if table.Status == domain.TableOccupied {
			return failed([]string{fmt.Sprintf("Mesa %s no está disponible (%s)", table.Name, table.Status)}), nil
		}
		if table.Status == domain.TableAvailable {
			// Seated inside the order transaction; re-verified there.
			seatTableID = table.ID
		}
	}

	validItems, itemErrs := s.resolveItems(data.Items, data.BranchID)
	errs = append(errs, itemErrs...)

	if len(validItems) == 0 {
		errs = append(errs, "No hay productos válidos en el pedido")
		return failed(errs), nil
	}
	if len(itemErrs) > 0 {
		warnings = append(warnings, fmt.Sprintf("%d producto(s) fueron descartados", len(itemErrs)))
	}

	var total float64
	for _, item := range validItems {
		total += item.UnitPrice * float64(item.Quantity)
	}
	total = domain.RoundMXN(total)

	order := &domain.Order{
		ID:         uuid.New().String(),
		BranchID:   data.BranchID,
		CustomerID: customer.ID,
		TableID:    data.TableID,
		Type:       data.OrderType,
		Status:     domain.OrderPending,
		Items:      validItems,
		Total:      total,
		Notes:      data.Notes,
		IsActive:   true,
	}
	for i := range order.Items {
		order.Items[i].ID = uuid.New().String()
		order.Items[i].OrderID = order.ID
	}

	if err := s.orders.CreateOrderWithItems(order, seatTableID); err != nil {
		if errors.Is(err, domain.ErrTableTaken) {
			return failed([]string{fmt.Sprintf("Mesa %s no está disponible (%s)", data.TableID, domain.TableOccupied)}), nil
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	log.Printf("[order-svc] order %s created, total $%.2f", order.ID, total)

	if data.AssistantThreadID != "" && customer.ThreadID != data.AssistantThreadID {
		if err := s.customers.UpdateCustomerThread(customer.Phone, data.AssistantThreadID); err != nil {
			log.Printf("[order-svc] failed to attach thread to customer %s: %v", customer.Phone, err)
		}
	}

	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, domain.StreamEvent{
			Type:      domain.EventOrderCreated,
			OrderID:   order.ID,
			BranchID:  order.BranchID,
			Total:     order.Total,
			Timestamp: time.Now(),
		})
	}

	return &ProcessedOrder{
		Order:      order,
		OrderItems: order.Items,
		Total:      total,
		Success:    true,
		Errors:     errs,
		Warnings:   warnings,
	}, nil
}

// AddItemsToExistingOrder appends validated items to an order that still
// accepts them and recomputes the total server-side.
func (s *OrderProcessingService) AddItemsToExistingOrder(orderID string, items []DraftItem, branchID string) (*ProcessedOrder, error) {
	order, err := s.orders.GetOrder(orderID)
	if err != nil || order == nil {
		return failed([]string{"Orden no encontrada"}), nil
	}

	if order.Status != domain.OrderPending && order.Status != domain.OrderInProgress {
		return failed([]string{fmt.Sprintf("No se pueden agregar items a una orden %s", order.Status)}), nil
	}

	validItems, itemErrs := s.resolveItems(items, branchID)
	if len(validItems) == 0 {
		return failed(append(itemErrs, "No hay productos válidos para agregar")), nil
	}

	for i := range validItems {
		validItems[i].ID = uuid.New().String()
		validItems[i].OrderID = order.ID
	}

	if err := s.orders.AddOrderItems(order.ID, validItems); err != nil {
		return nil, fmt.Errorf("add order items: %w", err)
	}

	updated, err := s.orders.GetOrder(order.ID)
	if err != nil {
		return nil, err
	}

	return &ProcessedOrder{
		Order:      updated,
		OrderItems: validItems,
		Total:      updated.Total,
		Success:    true,
		Errors:     itemErrs,
	}, nil
}

// resolveItems maps raw mentions to catalog products. Unresolved, inactive
// or zero-quantity items become errors and are excluded; they are never
// silently dropped.
func (s *OrderProcessingService) resolveItems(items []DraftItem, branchID string) ([]domain.OrderItem, []string) {
	var errs []string

	menu, err := s.menus.GetMenuByBranch(branchID)
	if err != nil || menu == nil {
		return nil, []string{"Menú no encontrado para la sucursal"}
	}

	branchProducts, err := s.products.ListProductsByMenu(menu.ID)
	if err != nil {
		return nil, []string{fmt.Sprintf("Error consultando productos: %v", err)}
	}

	var valid []domain.OrderItem
	for _, item := range items {
		product := catalog.FindProductByName(branchProducts, item.ProductName)
		if product == nil {
			errs = append(errs, fmt.Sprintf("Producto %q no encontrado", item.ProductName))
			continue
		}
		if !product.IsActive {
			errs = append(errs, fmt.Sprintf("Producto %q no está disponible", product.Name))
			continue
		}
		if item.Quantity <= 0 {
			errs = append(errs, fmt.Sprintf("Cantidad inválida para %q: %d", product.Name, item.Quantity))
			continue
		}

		// Price captured at order time; later catalog changes must not
		// rewrite history.
		unitPrice := product.Price
		if item.UnitPrice != nil {
			unitPrice = *item.UnitPrice
		}

		valid = append(valid, domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   unitPrice,
			Notes:       item.Notes,
		})
	}

	return valid, errs
}
