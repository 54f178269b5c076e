package tests

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "comanda/order-svc/internal/api/http"
	"comanda/order-svc/internal/domain"
	"comanda/order-svc/internal/mocks"
	"comanda/order-svc/internal/service"
)

func newTestRouter(t *testing.T) (*mux.Router, *mocks.OrderRepository, *mocks.TableRepository, *mocks.BranchRepository) {
	orderRepo := mocks.NewOrderRepository(t)
	tableRepo := mocks.NewTableRepository(t)
	branchRepo := mocks.NewBranchRepository(t)
	gateway := mocks.NewPaymentGateway(t)
	paymentRepo := mocks.NewPaymentRepository(t)
	markers := mocks.NewReplayMarkerStore(t)

	orders := service.NewOrderService(orderRepo)
	payments := service.NewPaymentService(paymentRepo, orders, gateway, nil)

	handler := &httpapi.Handler{
		Branches: service.NewBranchService(branchRepo),
		Tables:   service.NewTableService(tableRepo),
		Orders:   orders,
		Payments: payments,
		Webhooks: service.NewWebhookService(gateway, payments, orders, markers),
		QR:       service.DefaultQRGenerator{},
	}

	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	return r, orderRepo, tableRepo, branchRepo
}

func TestHandlers_HealthCheck(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "order-svc")
}

func TestHandlers_CloseOrder(t *testing.T) {
	router, orderRepo, _, _ := newTestRouter(t)

	t.Run("closes_open_order", func(t *testing.T) {
		orderRepo.On("GetOrder", "o1").Return(orderWithStatus(domain.OrderPending), nil).Once()
		orderRepo.On("CloseOrder", "o1", domain.OrderPending).Return(int64(1), nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/orders/o1/close", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), string(domain.OrderCompleted))
	})

	t.Run("conflict_when_already_paid", func(t *testing.T) {
		orderRepo.On("GetOrder", "o1").Return(orderWithStatus(domain.OrderPaid), nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/orders/o1/close", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestHandlers_StripeWebhookRejectsMissingSignature(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(`{"id":"evt_1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlers_TableQRCode(t *testing.T) {
	router, _, tableRepo, branchRepo := newTestRouter(t)

	tableRepo.On("GetTable", "t1").Return(&domain.Table{
		ID: "t1", BranchID: "b1", Name: "5", Status: domain.TableAvailable,
	}, nil).Once()
	branchRepo.On("GetBranch", "b1").Return(&domain.Branch{
		ID: "b1", PhoneNumberAssistant: "+5215550000001",
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/tables/t1/qrcode", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())
}
