package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"comanda/order-svc/internal/domain"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// --- restaurants ---

func (r *PostgresRepository) CreateRestaurant(rest *domain.Restaurant) error {
	if rest.ID == "" {
		rest.ID = uuid.New().String()
	}
	rest.IsActive = true
	return r.DB.QueryRow(
		"INSERT INTO restaurants (id, name, description, is_active) VALUES ($1, $2, $3, true) RETURNING created_at",
		rest.ID, rest.Name, rest.Description,
	).Scan(&rest.CreatedAt)
}

func (r *PostgresRepository) ListRestaurants() ([]domain.Restaurant, error) {
	rows, err := r.DB.Query(`
		SELECT id, name, COALESCE(description, ''), is_active, created_at
		FROM restaurants
		WHERE is_active = true
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var restaurants []domain.Restaurant
	for rows.Next() {
		var rest domain.Restaurant
		if err := rows.Scan(&rest.ID, &rest.Name, &rest.Description, &rest.IsActive, &rest.CreatedAt); err != nil {
			continue
		}
		restaurants = append(restaurants, rest)
	}
	return restaurants, nil
}

func (r *PostgresRepository) GetRestaurant(id string) (*domain.Restaurant, error) {
	var rest domain.Restaurant
	err := r.DB.QueryRow(`
		SELECT id, name, COALESCE(description, ''), is_active, created_at
		FROM restaurants WHERE id = $1 AND is_active = true`, id).
		Scan(&rest.ID, &rest.Name, &rest.Description, &rest.IsActive, &rest.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *PostgresRepository) UpdateRestaurant(rest *domain.Restaurant) error {
	return r.DB.QueryRow(
		"UPDATE restaurants SET name=$1, description=$2 WHERE id=$3 RETURNING is_active, created_at",
		rest.Name, rest.Description, rest.ID).
		Scan(&rest.IsActive, &rest.CreatedAt)
}

func (r *PostgresRepository) DeleteRestaurant(id string) (int64, error) {
	result, err := r.DB.Exec("UPDATE restaurants SET is_active=false WHERE id=$1 AND is_active=true", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// --- branches ---

func (r *PostgresRepository) CreateBranch(branch *domain.Branch) error {
	if branch.ID == "" {
		branch.ID = uuid.New().String()
	}
	branch.IsActive = true
	return r.DB.QueryRow(`
		INSERT INTO branches (id, restaurant_id, name, address, phone_number_assistant, phone_number_cashier, assistant_id, balance, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true)
		RETURNING created_at`,
		branch.ID, branch.RestaurantID, branch.Name, branch.Address,
		branch.PhoneNumberAssistant, branch.PhoneNumberCashier,
		nullable(branch.AssistantID), branch.Balance,
	).Scan(&branch.CreatedAt)
}

func (r *PostgresRepository) ListBranches(restaurantID string) ([]domain.Branch, error) {
	rows, err := r.DB.Query(`
		SELECT id, restaurant_id, name, COALESCE(address, ''), phone_number_assistant, phone_number_cashier,
		       COALESCE(assistant_id, ''), balance, is_active, created_at
		FROM branches
		WHERE restaurant_id = $1 AND is_active = true
		ORDER BY created_at DESC`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var branches []domain.Branch
	for rows.Next() {
		var b domain.Branch
		if err := rows.Scan(&b.ID, &b.RestaurantID, &b.Name, &b.Address, &b.PhoneNumberAssistant,
			&b.PhoneNumberCashier, &b.AssistantID, &b.Balance, &b.IsActive, &b.CreatedAt); err != nil {
			continue
		}
		branches = append(branches, b)
	}
	return branches, nil
}

func (r *PostgresRepository) GetBranch(id string) (*domain.Branch, error) {
	return r.scanBranch("id = $1", id)
}

func (r *PostgresRepository) GetBranchByAssistantNumber(phone string) (*domain.Branch, error) {
	branch, err := r.scanBranch("phone_number_assistant = $1", phone)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return branch, err
}

func (r *PostgresRepository) scanBranch(where string, arg any) (*domain.Branch, error) {
	var b domain.Branch
	err := r.DB.QueryRow(`
		SELECT id, restaurant_id, name, COALESCE(address, ''), phone_number_assistant, phone_number_cashier,
		       COALESCE(assistant_id, ''), balance, is_active, created_at
		FROM branches WHERE `+where+` AND is_active = true`, arg).
		Scan(&b.ID, &b.RestaurantID, &b.Name, &b.Address, &b.PhoneNumberAssistant,
			&b.PhoneNumberCashier, &b.AssistantID, &b.Balance, &b.IsActive, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PostgresRepository) UpdateBranch(branch *domain.Branch) error {
	_, err := r.DB.Exec(`
		UPDATE branches
		SET name=$1, address=$2, phone_number_assistant=$3, phone_number_cashier=$4, assistant_id=$5, balance=$6
		WHERE id=$7`,
		branch.Name, branch.Address, branch.PhoneNumberAssistant, branch.PhoneNumberCashier,
		nullable(branch.AssistantID), branch.Balance, branch.ID)
	return err
}

func (r *PostgresRepository) DeleteBranch(id string) (int64, error) {
	result, err := r.DB.Exec("UPDATE branches SET is_active=false WHERE id=$1 AND is_active=true", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// --- menus ---

func (r *PostgresRepository) CreateMenu(menu *domain.Menu) error {
	if menu.ID == "" {
		menu.ID = uuid.New().String()
	}
	menu.IsActive = true
	return r.DB.QueryRow(
		"INSERT INTO menus (id, branch_id, name, is_active) VALUES ($1, $2, $3, true) RETURNING created_at",
		menu.ID, menu.BranchID, menu.Name,
	).Scan(&menu.CreatedAt)
}

func (r *PostgresRepository) GetMenuByBranch(branchID string) (*domain.Menu, error) {
	var m domain.Menu
	err := r.DB.QueryRow(`
		SELECT id, branch_id, name, is_active, created_at
		FROM menus WHERE branch_id = $1 AND is_active = true
		ORDER BY created_at DESC LIMIT 1`, branchID).
		Scan(&m.ID, &m.BranchID, &m.Name, &m.IsActive, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PostgresRepository) ListMenus(branchID string) ([]domain.Menu, error) {
	rows, err := r.DB.Query(`
		SELECT id, branch_id, name, is_active, created_at
		FROM menus WHERE branch_id = $1 AND is_active = true
		ORDER BY created_at DESC`, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menus []domain.Menu
	for rows.Next() {
		var m domain.Menu
		if err := rows.Scan(&m.ID, &m.BranchID, &m.Name, &m.IsActive, &m.CreatedAt); err != nil {
			continue
		}
		menus = append(menus, m)
	}
	return menus, nil
}

func (r *PostgresRepository) DeleteMenu(id string) (int64, error) {
	result, err := r.DB.Exec("UPDATE menus SET is_active=false WHERE id=$1 AND is_active=true", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// --- products ---

func (r *PostgresRepository) CreateProduct(product *domain.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	product.IsActive = true
	return r.DB.QueryRow(
		"INSERT INTO products (id, menu_id, name, description, price, is_active) VALUES ($1, $2, $3, $4, $5, true) RETURNING created_at",
		product.ID, product.MenuID, product.Name, product.Description, product.Price,
	).Scan(&product.CreatedAt)
}

func (r *PostgresRepository) ListProductsByMenu(menuID string) ([]domain.Product, error) {
	rows, err := r.DB.Query(`
		SELECT id, menu_id, name, COALESCE(description, ''), price, is_active, created_at
		FROM products
		WHERE menu_id = $1 AND is_active = true
		ORDER BY created_at`, menuID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.MenuID, &p.Name, &p.Description, &p.Price, &p.IsActive, &p.CreatedAt); err != nil {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *PostgresRepository) GetProduct(id string) (*domain.Product, error) {
	var p domain.Product
	err := r.DB.QueryRow(`
		SELECT id, menu_id, name, COALESCE(description, ''), price, is_active, created_at
		FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.MenuID, &p.Name, &p.Description, &p.Price, &p.IsActive, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) UpdateProduct(product *domain.Product) error {
	_, err := r.DB.Exec(
		"UPDATE products SET name=$1, description=$2, price=$3 WHERE id=$4",
		product.Name, product.Description, product.Price, product.ID)
	return err
}

func (r *PostgresRepository) DeactivateProduct(id string) error {
	_, err := r.DB.Exec("UPDATE products SET is_active=false WHERE id=$1", id)
	return err
}

// --- customers ---

func (r *PostgresRepository) GetCustomerByPhone(phone string) (*domain.Customer, error) {
	var c domain.Customer
	err := r.DB.QueryRow(`
		SELECT id, name, phone, COALESCE(thread_id, ''), is_admin, created_at
		FROM customers WHERE phone = $1`, phone).
		Scan(&c.ID, &c.Name, &c.Phone, &c.ThreadID, &c.IsAdmin, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresRepository) CreateCustomer(customer *domain.Customer) error {
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	return r.DB.QueryRow(
		"INSERT INTO customers (id, name, phone, thread_id, is_admin) VALUES ($1, $2, $3, $4, $5) RETURNING created_at",
		customer.ID, customer.Name, customer.Phone, nullable(customer.ThreadID), customer.IsAdmin,
	).Scan(&customer.CreatedAt)
}

func (r *PostgresRepository) UpdateCustomerThread(phone, threadID string) error {
	_, err := r.DB.Exec("UPDATE customers SET thread_id=$1 WHERE phone=$2", nullable(threadID), phone)
	return err
}

// --- tables ---

func (r *PostgresRepository) CreateTable(table *domain.Table) error {
	if table.ID == "" {
		table.ID = uuid.New().String()
	}
	if table.Capacity == 0 {
		table.Capacity = 4
	}
	if table.Status == "" {
		table.Status = domain.TableAvailable
	}
	table.IsActive = true
	return r.DB.QueryRow(
		"INSERT INTO tables (id, branch_id, name, capacity, status, is_active) VALUES ($1, $2, $3, $4, $5, true) RETURNING created_at",
		table.ID, table.BranchID, table.Name, table.Capacity, table.Status,
	).Scan(&table.CreatedAt)
}

func (r *PostgresRepository) ListTablesByBranch(branchID string) ([]domain.Table, error) {
	rows, err := r.DB.Query(`
		SELECT id, branch_id, name, capacity, status, is_active, created_at
		FROM tables
		WHERE branch_id = $1 AND is_active = true
		ORDER BY name`, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []domain.Table
	for rows.Next() {
		var t domain.Table
		if err := rows.Scan(&t.ID, &t.BranchID, &t.Name, &t.Capacity, &t.Status, &t.IsActive, &t.CreatedAt); err != nil {
			continue
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func (r *PostgresRepository) GetTable(id string) (*domain.Table, error) {
	var t domain.Table
	err := r.DB.QueryRow(`
		SELECT id, branch_id, name, capacity, status, is_active, created_at
		FROM tables WHERE id = $1 AND is_active = true`, id).
		Scan(&t.ID, &t.BranchID, &t.Name, &t.Capacity, &t.Status, &t.IsActive, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PostgresRepository) UpdateTable(table *domain.Table) error {
	_, err := r.DB.Exec(
		"UPDATE tables SET name=$1, capacity=$2, status=$3 WHERE id=$4",
		table.Name, table.Capacity, table.Status, table.ID)
	return err
}

func (r *PostgresRepository) DeleteTable(id string) (int64, error) {
	result, err := r.DB.Exec("UPDATE tables SET is_active=false WHERE id=$1 AND is_active=true", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// --- orders ---

func (r *PostgresRepository) CreateOrderWithItems(order *domain.Order, seatTableID string) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if seatTableID != "" {
		// Re-verified at the moment of the transition: the earlier read may
		// be stale under concurrent confirmations.
		result, err := tx.Exec(
			"UPDATE tables SET status=$1 WHERE id=$2 AND status=$3",
			domain.TableOccupied, seatTableID, domain.TableAvailable)
		if err != nil {
			return err
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return domain.ErrTableTaken
		}
	}

	if err := tx.QueryRow(`
		INSERT INTO orders (id, branch_id, customer_id, table_id, type, status, total, notes, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true)
		RETURNING created_at`,
		order.ID, order.BranchID, nullable(order.CustomerID), nullable(order.TableID),
		order.Type, order.Status, order.Total, nullable(order.Notes),
	).Scan(&order.CreatedAt); err != nil {
		return err
	}

	for _, item := range order.Items {
		if _, err := tx.Exec(`
			INSERT INTO order_items (id, order_id, product_id, product_name, quantity, unit_price, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, order.ID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, nullable(item.Notes),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetOrder(id string) (*domain.Order, error) {
	var o domain.Order
	var closedAt sql.NullTime
	err := r.DB.QueryRow(`
		SELECT id, branch_id, COALESCE(customer_id, ''), COALESCE(table_id, ''), type, status,
		       total, COALESCE(notes, ''), is_active, closed_at, created_at
		FROM orders WHERE id = $1`, id).
		Scan(&o.ID, &o.BranchID, &o.CustomerID, &o.TableID, &o.Type, &o.Status,
			&o.Total, &o.Notes, &o.IsActive, &closedAt, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	if closedAt.Valid {
		o.ClosedAt = &closedAt.Time
	}

	items, err := r.listOrderItems(id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *PostgresRepository) listOrderItems(orderID string) ([]domain.OrderItem, error) {
	rows, err := r.DB.Query(`
		SELECT id, order_id, product_id, product_name, quantity, unit_price, COALESCE(notes, '')
		FROM order_items WHERE order_id = $1
		ORDER BY created_at`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.UnitPrice, &item.Notes); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *PostgresRepository) ListOrders(branchID string) ([]domain.Order, error) {
	rows, err := r.DB.Query(`
		SELECT id, branch_id, COALESCE(customer_id, ''), COALESCE(table_id, ''), type, status,
		       total, COALESCE(notes, ''), is_active, closed_at, created_at
		FROM orders
		WHERE branch_id = $1 AND is_active = true
		ORDER BY created_at DESC`, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		var closedAt sql.NullTime
		if err := rows.Scan(&o.ID, &o.BranchID, &o.CustomerID, &o.TableID, &o.Type, &o.Status,
			&o.Total, &o.Notes, &o.IsActive, &closedAt, &o.CreatedAt); err != nil {
			continue
		}
		if closedAt.Valid {
			o.ClosedAt = &closedAt.Time
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *PostgresRepository) CloseOrder(id string, fromStatus domain.OrderStatus) (int64, error) {
	result, err := r.DB.Exec(
		"UPDATE orders SET status=$1, closed_at=NOW() WHERE id=$2 AND status=$3",
		domain.OrderCompleted, id, fromStatus)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) MarkOrderPaid(id string) (int64, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		"UPDATE orders SET status=$1 WHERE id=$2 AND status=$3",
		domain.OrderPaid, id, domain.OrderCompleted)
	if err != nil {
		return 0, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	if rows > 0 {
		// Paying releases the table for the next guest.
		if _, err := tx.Exec(`
			UPDATE tables SET status=$1
			WHERE status=$2 AND id = (SELECT table_id FROM orders WHERE id=$3)`,
			domain.TableAvailable, domain.TableOccupied, id); err != nil {
			return 0, err
		}
	}

	return rows, tx.Commit()
}

func (r *PostgresRepository) CancelOrder(id string) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"UPDATE orders SET status=$1, is_active=false WHERE id=$2",
		domain.OrderCancelled, id); err != nil {
		return err
	}

	if _, err := tx.Exec(`
		UPDATE tables SET status=$1
		WHERE status=$2 AND id = (SELECT table_id FROM orders WHERE id=$3)`,
		domain.TableAvailable, domain.TableOccupied, id); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PostgresRepository) AddOrderItems(orderID string, items []domain.OrderItem) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, item := range items {
		if _, err := tx.Exec(`
			INSERT INTO order_items (id, order_id, product_id, product_name, quantity, unit_price, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, orderID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, nullable(item.Notes),
		); err != nil {
			return err
		}
	}

	// The total is always derived from the item rows, never taken from the
	// caller.
	if _, err := tx.Exec(`
		UPDATE orders
		SET total = (SELECT COALESCE(SUM(quantity * unit_price), 0) FROM order_items WHERE order_id = $1)
		WHERE id = $1`, orderID); err != nil {
		return err
	}

	return tx.Commit()
}

// --- payments ---

func (r *PostgresRepository) CreatePayment(payment *domain.Payment) error {
	metadata, err := json.Marshal(payment.Metadata)
	if err != nil {
		return err
	}
	return r.DB.QueryRow(`
		INSERT INTO payments (id, order_id, amount, method, status, transaction_id, external_payment_id,
		                      gateway, metadata, failure_reason, is_active, processed_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, true, $11, $12)
		RETURNING created_at`,
		payment.ID, payment.OrderID, payment.Amount, payment.Method, payment.Status,
		payment.TransactionID, nullable(payment.ExternalPaymentID), nullable(payment.Gateway),
		metadata, nullable(payment.FailureReason), payment.ProcessedAt, payment.CompletedAt,
	).Scan(&payment.CreatedAt)
}

func (r *PostgresRepository) GetPayment(id string) (*domain.Payment, error) {
	row := r.DB.QueryRow(`
		SELECT id, order_id, amount, method, status, COALESCE(transaction_id, ''),
		       COALESCE(external_payment_id, ''), COALESCE(gateway, ''), COALESCE(metadata, 'null'),
		       COALESCE(failure_reason, ''), is_active, processed_at, completed_at, created_at
		FROM payments WHERE id = $1 AND is_active = true`, id)
	return scanPayment(row)
}

func (r *PostgresRepository) ListPaymentsByOrder(orderID string) ([]domain.Payment, error) {
	rows, err := r.DB.Query(`
		SELECT id, order_id, amount, method, status, COALESCE(transaction_id, ''),
		       COALESCE(external_payment_id, ''), COALESCE(gateway, ''), COALESCE(metadata, 'null'),
		       COALESCE(failure_reason, ''), is_active, processed_at, completed_at, created_at
		FROM payments
		WHERE order_id = $1 AND is_active = true
		ORDER BY created_at DESC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			continue
		}
		payments = append(payments, *payment)
	}
	return payments, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var p domain.Payment
	var metadata []byte
	var processedAt, completedAt sql.NullTime
	err := row.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Method, &p.Status, &p.TransactionID,
		&p.ExternalPaymentID, &p.Gateway, &metadata, &p.FailureReason,
		&p.IsActive, &processedAt, &completedAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(metadata) > 0 {
		_ = json.Unmarshal(metadata, &p.Metadata)
	}
	if processedAt.Valid {
		p.ProcessedAt = &processedAt.Time
	}
	if completedAt.Valid {
		p.CompletedAt = &completedAt.Time
	}
	return &p, nil
}

func (r *PostgresRepository) HasCompletedPayment(orderID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM payments WHERE order_id=$1 AND status=$2 AND is_active=true)",
		orderID, domain.PaymentCompleted).Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) UpdatePayment(payment *domain.Payment) error {
	metadata, err := json.Marshal(payment.Metadata)
	if err != nil {
		return err
	}
	_, err = r.DB.Exec(`
		UPDATE payments
		SET status=$1, external_payment_id=$2, gateway=$3, metadata=$4, failure_reason=$5,
		    processed_at=$6, completed_at=$7
		WHERE id=$8`,
		payment.Status, nullable(payment.ExternalPaymentID), nullable(payment.Gateway),
		metadata, nullable(payment.FailureReason), payment.ProcessedAt, payment.CompletedAt, payment.ID)
	return err
}

func (r *PostgresRepository) CompletePayment(id, externalPaymentID string) (int64, error) {
	result, err := r.DB.Exec(`
		UPDATE payments
		SET status=$1, external_payment_id=COALESCE(NULLIF($2, ''), external_payment_id), completed_at=NOW()
		WHERE id=$3 AND status IN ($4, $5)`,
		domain.PaymentCompleted, externalPaymentID, id, domain.PaymentPending, domain.PaymentProcessing)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) FailPayment(id, reason string) error {
	_, err := r.DB.Exec(
		"UPDATE payments SET status=$1, failure_reason=$2 WHERE id=$3 AND status <> $4",
		domain.PaymentFailed, reason, id, domain.PaymentCompleted)
	return err
}

func (r *PostgresRepository) FailStaleProcessing(before time.Time) (int64, error) {
	result, err := r.DB.Exec(
		"UPDATE payments SET status=$1, failure_reason=$2 WHERE status=$3 AND processed_at < $4",
		domain.PaymentFailed, "checkout session expired", domain.PaymentProcessing, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) DeactivatePayment(id string) error {
	_, err := r.DB.Exec("UPDATE payments SET is_active=false WHERE id=$1", id)
	return err
}

// EnsureSchema creates the tables the service needs. The partial unique
// index is the hard backstop for the one-completed-payment-per-order
// invariant.
func (r *PostgresRepository) EnsureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS restaurants (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS branches (
			id UUID PRIMARY KEY,
			restaurant_id UUID NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			address TEXT,
			phone_number_assistant TEXT NOT NULL,
			phone_number_cashier TEXT NOT NULL,
			assistant_id TEXT,
			balance NUMERIC(12,2) NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS menus (
			id UUID PRIMARY KEY,
			branch_id UUID NOT NULL REFERENCES branches(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			menu_id UUID NOT NULL REFERENCES menus(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			description TEXT,
			price NUMERIC(10,2) NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT NOT NULL UNIQUE,
			thread_id TEXT,
			is_admin BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS tables (
			id UUID PRIMARY KEY,
			branch_id UUID NOT NULL REFERENCES branches(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			capacity INT NOT NULL DEFAULT 4,
			status TEXT NOT NULL DEFAULT 'AVAILABLE',
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			branch_id UUID NOT NULL REFERENCES branches(id),
			customer_id UUID REFERENCES customers(id),
			table_id UUID REFERENCES tables(id),
			type TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'PENDING',
			total NUMERIC(10,2) NOT NULL DEFAULT 0,
			notes TEXT,
			is_active BOOLEAN NOT NULL DEFAULT true,
			closed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id UUID NOT NULL REFERENCES products(id),
			product_name TEXT NOT NULL,
			quantity INT NOT NULL DEFAULT 1,
			unit_price NUMERIC(10,2) NOT NULL,
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			amount NUMERIC(10,2) NOT NULL,
			method TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'PENDING',
			transaction_id TEXT,
			external_payment_id TEXT,
			gateway TEXT,
			metadata JSONB,
			failure_reason TEXT,
			is_active BOOLEAN NOT NULL DEFAULT true,
			processed_at TIMESTAMPTZ,
			completed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS payments_one_completed_per_order
			ON payments (order_id) WHERE status = 'COMPLETED'`,
		`CREATE INDEX IF NOT EXISTS payments_order_idx ON payments (order_id)`,
		`CREATE INDEX IF NOT EXISTS orders_branch_idx ON orders (branch_id)`,
	}

	for _, stmt := range statements {
		if _, err := r.DB.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
