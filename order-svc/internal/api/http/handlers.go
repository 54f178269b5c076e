package httpapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"comanda/order-svc/internal/domain"
	"comanda/order-svc/internal/service"
)

type Handler struct {
	Restaurants  *service.RestaurantService
	Branches     *service.BranchService
	Menus        *service.MenuService
	Products     *service.ProductService
	Tables       *service.TableService
	Orders       *service.OrderService
	Processor    *service.OrderProcessingService
	Payments     *service.PaymentService
	Webhooks     *service.WebhookService
	Conversation *service.ConversationService
	QR           service.QRGenerator
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/webhooks/whatsapp", h.whatsappWebhook).Methods("POST")
	r.HandleFunc("/webhooks/stripe", h.stripeWebhook).Methods("POST")

	r.HandleFunc("/api/restaurants", h.createRestaurant).Methods("POST")
	r.HandleFunc("/api/restaurants", h.getRestaurants).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}", h.getRestaurant).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}", h.updateRestaurant).Methods("PUT")
	r.HandleFunc("/api/restaurants/{id}", h.deleteRestaurant).Methods("DELETE")

	r.HandleFunc("/api/restaurants/{restaurantId}/branches", h.createBranch).Methods("POST")
	r.HandleFunc("/api/restaurants/{restaurantId}/branches", h.getBranches).Methods("GET")
	r.HandleFunc("/api/branches/{id}", h.getBranch).Methods("GET")
	r.HandleFunc("/api/branches/{id}", h.updateBranch).Methods("PUT")
	r.HandleFunc("/api/branches/{id}", h.deleteBranch).Methods("DELETE")

	r.HandleFunc("/api/branches/{branchId}/menus", h.createMenu).Methods("POST")
	r.HandleFunc("/api/branches/{branchId}/menus", h.getMenus).Methods("GET")
	r.HandleFunc("/api/menus/{id}", h.deleteMenu).Methods("DELETE")

	r.HandleFunc("/api/menus/{menuId}/products", h.createProduct).Methods("POST")
	r.HandleFunc("/api/menus/{menuId}/products", h.getProducts).Methods("GET")
	r.HandleFunc("/api/products/{id}", h.getProduct).Methods("GET")
	r.HandleFunc("/api/products/{id}", h.updateProduct).Methods("PUT")
	r.HandleFunc("/api/products/{id}", h.deactivateProduct).Methods("DELETE")

	r.HandleFunc("/api/branches/{branchId}/tables", h.createTable).Methods("POST")
	r.HandleFunc("/api/branches/{branchId}/tables", h.getTables).Methods("GET")
	r.HandleFunc("/api/branches/{branchId}/table-context", h.tableContext).Methods("POST")
	r.HandleFunc("/api/tables/{id}", h.updateTable).Methods("PUT")
	r.HandleFunc("/api/tables/{id}", h.deleteTable).Methods("DELETE")
	r.HandleFunc("/api/tables/{id}/qrcode", h.tableQRCode).Methods("GET")

	r.HandleFunc("/api/orders/confirm", h.confirmOrder).Methods("POST")
	r.HandleFunc("/api/orders/resolve", h.resolveOrderFromText).Methods("POST")
	r.HandleFunc("/api/branches/{branchId}/orders", h.getOrders).Methods("GET")
	r.HandleFunc("/api/orders/{id}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{id}/items", h.addOrderItems).Methods("POST")
	r.HandleFunc("/api/orders/{id}/close", h.closeOrder).Methods("POST")
	r.HandleFunc("/api/orders/{id}/cancel", h.cancelOrder).Methods("POST")

	r.HandleFunc("/api/orders/{id}/payments", h.processPayment).Methods("POST")
	r.HandleFunc("/api/orders/{id}/payments", h.getOrderPayments).Methods("GET")
	r.HandleFunc("/api/orders/{id}/payments/stats", h.getPaymentStats).Methods("GET")
	r.HandleFunc("/api/orders/{id}/checkout-session", h.createCheckoutSession).Methods("POST")
	r.HandleFunc("/api/payments/{id}", h.getPayment).Methods("GET")
	r.HandleFunc("/api/payments/{id}", h.removePayment).Methods("DELETE")
	r.HandleFunc("/api/payments/{id}/confirm-transfer", h.confirmBankTransfer).Methods("POST")
	r.HandleFunc("/api/payments/{id}/refund", h.refundPayment).Methods("POST")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// paymentError maps the lifecycle sentinels onto HTTP statuses; anything
// unrecognized is a 500.
func paymentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, service.ErrOrderNotPayable),
		errors.Is(err, service.ErrAlreadyHasPayment),
		errors.Is(err, service.ErrNotBankTransfer),
		errors.Is(err, service.ErrPaymentNotPending),
		errors.Is(err, service.ErrPaymentNotCompleted),
		errors.Is(err, service.ErrPaymentImmutable),
		errors.Is(err, service.ErrOrderAlreadyPaid),
		errors.Is(err, service.ErrOrderEmpty):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrUnsupportedMethod):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrOrderConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "order-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// --- channel webhooks ---

func (h *Handler) whatsappWebhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form payload", http.StatusBadRequest)
		return
	}

	result, err := h.Conversation.HandleIncoming(r.Context(), r.PostForm)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) stripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "Cannot read payload", http.StatusBadRequest)
		return
	}

	err = h.Webhooks.HandleGatewayEvent(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidSignature) {
			http.Error(w, "Invalid signature", http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// --- restaurants ---

func (h *Handler) createRestaurant(w http.ResponseWriter, r *http.Request) {
	var rest domain.Restaurant
	if err := json.NewDecoder(r.Body).Decode(&rest); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Restaurants.Create(&rest); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, rest)
}

func (h *Handler) getRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.Restaurants.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, restaurants)
}

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	rest, err := h.Restaurants.Get(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Restaurant not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *Handler) updateRestaurant(w http.ResponseWriter, r *http.Request) {
	var rest domain.Restaurant
	if err := json.NewDecoder(r.Body).Decode(&rest); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rest.ID = mux.Vars(r)["id"]
	if err := h.Restaurants.Update(&rest); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Restaurant not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *Handler) deleteRestaurant(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Restaurants.Delete(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if rows == 0 {
		http.Error(w, "Restaurant not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- branches ---

func (h *Handler) createBranch(w http.ResponseWriter, r *http.Request) {
	var branch domain.Branch
	if err := json.NewDecoder(r.Body).Decode(&branch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	branch.RestaurantID = mux.Vars(r)["restaurantId"]
	if err := h.Branches.Create(&branch); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, branch)
}

func (h *Handler) getBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.Branches.List(mux.Vars(r)["restaurantId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, branches)
}

func (h *Handler) getBranch(w http.ResponseWriter, r *http.Request) {
	branch, err := h.Branches.Get(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Branch not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, branch)
}

func (h *Handler) updateBranch(w http.ResponseWriter, r *http.Request) {
	var branch domain.Branch
	if err := json.NewDecoder(r.Body).Decode(&branch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	branch.ID = mux.Vars(r)["id"]
	if err := h.Branches.Update(&branch); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, branch)
}

func (h *Handler) deleteBranch(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Branches.Delete(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if rows == 0 {
		http.Error(w, "Branch not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- menus ---

func (h *Handler) createMenu(w http.ResponseWriter, r *http.Request) {
	var menu domain.Menu
	if err := json.NewDecoder(r.Body).Decode(&menu); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	menu.BranchID = mux.Vars(r)["branchId"]
	if err := h.Menus.Create(&menu); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, menu)
}

func (h *Handler) getMenus(w http.ResponseWriter, r *http.Request) {
	menus, err := h.Menus.List(mux.Vars(r)["branchId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, menus)
}

func (h *Handler) deleteMenu(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Menus.Delete(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if rows == 0 {
		http.Error(w, "Menu not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- products ---

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	product.MenuID = mux.Vars(r)["menuId"]
	if err := h.Products.Create(&product); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) getProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Products.ListByMenu(mux.Vars(r)["menuId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.Products.Get(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	product.ID = mux.Vars(r)["id"]
	if err := h.Products.Update(&product); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) deactivateProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.Products.Deactivate(mux.Vars(r)["id"]); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- tables ---

func (h *Handler) createTable(w http.ResponseWriter, r *http.Request) {
	var table domain.Table
	if err := json.NewDecoder(r.Body).Decode(&table); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	table.BranchID = mux.Vars(r)["branchId"]
	if err := h.Tables.Create(&table); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, table)
}

func (h *Handler) getTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.Tables.ListByBranch(mux.Vars(r)["branchId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tables)
}

// tableContext runs the mention detector over a free-text message and
// returns the classified result without committing anything.
func (h *Handler) tableContext(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, err := h.Tables.ProcessTableMention(req.Message, mux.Vars(r)["branchId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, ctx)
}

func (h *Handler) updateTable(w http.ResponseWriter, r *http.Request) {
	var table domain.Table
	if err := json.NewDecoder(r.Body).Decode(&table); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	table.ID = mux.Vars(r)["id"]
	if err := h.Tables.Update(&table); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (h *Handler) deleteTable(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Tables.Delete(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if rows == 0 {
		http.Error(w, "Table not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) tableQRCode(w http.ResponseWriter, r *http.Request) {
	table, err := h.Tables.Get(mux.Vars(r)["id"])
	if err != nil || table == nil {
		http.Error(w, "Table not found", http.StatusNotFound)
		return
	}
	branch, err := h.Branches.Get(table.BranchID)
	if err != nil {
		http.Error(w, "Branch not found", http.StatusNotFound)
		return
	}

	png, err := h.QR.Generate(branch.PhoneNumberAssistant, table.Name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// --- orders ---

func (h *Handler) confirmOrder(w http.ResponseWriter, r *http.Request) {
	var data service.OrderConfirmation
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.Processor.ProcessOrderConfirmation(r.Context(), data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	status := http.StatusCreated
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

func (h *Handler) resolveOrderFromText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text          string `json:"text"`
		BranchID      string `json:"branch_id"`
		CustomerPhone string `json:"customer_phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.Conversation.ResolveOrderFromText(r.Context(), req.Text, req.BranchID, req.CustomerPhone)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	status := http.StatusCreated
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

func (h *Handler) getOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.List(mux.Vars(r)["branchId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.FindOne(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) addOrderItems(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BranchID string              `json:"branch_id"`
		Items    []service.DraftItem `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.Processor.AddItemsToExistingOrder(mux.Vars(r)["id"], req.Items, req.BranchID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

func (h *Handler) closeOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.Close(mux.Vars(r)["id"])
	if err != nil {
		paymentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.Orders.Cancel(mux.Vars(r)["id"]); err != nil {
		paymentError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- payments ---

func (h *Handler) processPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method   domain.PaymentMethod `json:"method"`
		Gateway  string               `json:"gateway,omitempty"`
		Metadata map[string]string    `json:"metadata,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	payment, err := h.Payments.Process(r.Context(), mux.Vars(r)["id"], req.Method, req.Gateway, req.Metadata)
	if err != nil {
		paymentError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

func (h *Handler) getOrderPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Payments.FindByOrder(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

func (h *Handler) getPaymentStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Payments.Stats(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) createCheckoutSession(w http.ResponseWriter, r *http.Request) {
	payment, session, err := h.Payments.CreateCheckoutSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		paymentError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"payment": payment,
		"session": session,
	})
}

func (h *Handler) getPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := h.Payments.FindOne(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Payment not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (h *Handler) removePayment(w http.ResponseWriter, r *http.Request) {
	if err := h.Payments.Remove(mux.Vars(r)["id"]); err != nil {
		paymentError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) confirmBankTransfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExternalPaymentID string `json:"external_payment_id,omitempty"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	payment, err := h.Payments.ConfirmBankTransfer(r.Context(), mux.Vars(r)["id"], req.ExternalPaymentID)
	if err != nil {
		paymentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (h *Handler) refundPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason,omitempty"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	payment, err := h.Payments.Refund(mux.Vars(r)["id"], req.Reason)
	if err != nil {
		paymentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}
