package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"comanda/agg-svc/internal/service"
)

type Handler struct {
	Store service.StoreInterface
}

func NewHandler(store service.StoreInterface) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok", "service": "agg-svc"})
	}).Methods("GET")
	r.HandleFunc("/api/sales/top-branches", h.getTopBranches).Methods("GET")
	r.HandleFunc("/api/branches/{branchId}/sales", h.getBranchSales).Methods("GET")
}

func queryDay(r *http.Request) string {
	if day := r.URL.Query().Get("day"); day != "" {
		return day
	}
	return time.Now().Format("2006-01-02")
}

func (h *Handler) getTopBranches(w http.ResponseWriter, r *http.Request) {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		limitStr = "10"
	}
	limit, _ := strconv.Atoi(limitStr)

	data, err := h.Store.TopBranches(queryDay(r), limit)
	if err != nil || data == nil {
		json.NewEncoder(w).Encode([]interface{}{})
		return
	}
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) getBranchSales(w http.ResponseWriter, r *http.Request) {
	branchID := mux.Vars(r)["branchId"]

	sales, err := h.Store.BranchSales(branchID, queryDay(r))
	if err != nil {
		http.Error(w, "Failed to load sales", http.StatusInternalServerError)
		return
	}
	if sales == nil {
		http.Error(w, "No sales for branch", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(sales)
}
