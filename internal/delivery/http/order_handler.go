package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"tradebot/internal/domain"
)

// OrderHandler serves the order ledger over REST.
type OrderHandler struct {
	orders domain.OrderRepository
	log    *logrus.Logger
}

func NewOrderHandler(orders domain.OrderRepository, log *logrus.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, log: log}
}

// HistoryResponse summarizes closed orders over a window.
type HistoryResponse struct {
	Orders      []*domain.Order `json:"orders"`
	TotalProfit float64         `json:"totalProfit"`
	Wins        int             `json:"wins"`
	Losses      int             `json:"losses"`
}

// GetOpenOrders handles GET /api/orders/open.
func (h *OrderHandler) GetOpenOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	orders, err := h.orders.ListOpen(r.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to list open orders")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, orders)
}

// GetHistory handles GET /api/orders/history?hours=N (default 24).
func (h *OrderHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	hours := 24
	if v := r.URL.Query().Get("hours"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			http.Error(w, "hours must be a positive integer", http.StatusBadRequest)
			return
		}
		hours = parsed
	}

	from := time.Now().Add(-time.Duration(hours) * time.Hour)
	orders, err := h.orders.ListClosed(r.Context(), from)
	if err != nil {
		h.log.WithError(err).Error("failed to list closed orders")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := HistoryResponse{Orders: orders}
	for _, order := range orders {
		if order.Profit == nil {
			continue
		}
		resp.TotalProfit += *order.Profit
		if *order.Profit >= 0 {
			resp.Wins++
		} else {
			resp.Losses++
		}
	}

	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
