package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/and161185/ordertrack/internal/errs"
	"github.com/and161185/ordertrack/internal/middleware"
	"github.com/and161185/ordertrack/internal/model"
	"github.com/go-chi/chi/v5"
)

const maxUploadSize = 32 << 20

func (s *Server) CreateOrderHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	customerName := strings.TrimSpace(r.FormValue("customerName"))
	if customerName == "" {
		writeError(w, http.StatusBadRequest, "customer name is required")
		return
	}

	amount, err := strconv.ParseFloat(r.FormValue("orderAmount"), 64)
	if err != nil || amount <= 0 {
		writeError(w, http.StatusBadRequest, "order amount must be greater than 0")
		return
	}

	file, header, err := r.FormFile("invoiceFile")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invoice file is required")
		return
	}
	defer file.Close()

	if header.Header.Get("Content-Type") != "application/pdf" {
		writeError(w, http.StatusBadRequest, "only PDF files are allowed")
		return
	}

	order, err := s.orders.Create(r.Context(), customerName, amount, file, header.Filename)
	if err != nil {
		s.deps.Logger.Errorf("create order: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create order")
		return
	}

	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		s.deps.Logger.Infow("order created", "order_id", order.ID, "actor", claims.Subject)
	}

	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) GetOrderHandler(w http.ResponseWriter, r *http.Request) {
	order, err := s.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, errs.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		s.deps.Logger.Errorf("get order: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to get order")
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (s *Server) ListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	orders, err := s.orders.List(r.Context())
	if err != nil {
		s.deps.Logger.Errorf("list orders: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	writeJSON(w, http.StatusOK, nonNil(orders))
}

// SearchOrdersHandler filters by customer name substring when customerName is
// given, by inclusive amount range when both bounds are given, and falls back
// to the full list otherwise.
func (s *Server) SearchOrdersHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var orders []model.Order
	var err error

	switch {
	case strings.TrimSpace(query.Get("customerName")) != "":
		orders, err = s.orders.FindByCustomer(r.Context(), strings.TrimSpace(query.Get("customerName")))
	case query.Get("minAmount") != "" && query.Get("maxAmount") != "":
		var min, max float64
		min, err = strconv.ParseFloat(query.Get("minAmount"), 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid minAmount")
			return
		}
		max, err = strconv.ParseFloat(query.Get("maxAmount"), 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid maxAmount")
			return
		}
		orders, err = s.orders.FindByAmountRange(r.Context(), min, max)
	default:
		orders, err = s.orders.List(r.Context())
	}

	if err != nil {
		s.deps.Logger.Errorf("search orders: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to search orders")
		return
	}

	writeJSON(w, http.StatusOK, nonNil(orders))
}

func (s *Server) UpdateOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}

	customerName := strings.TrimSpace(req.CustomerName)
	if customerName == "" {
		writeError(w, http.StatusBadRequest, "customer name is required")
		return
	}
	if req.OrderAmount <= 0 {
		writeError(w, http.StatusBadRequest, "order amount must be greater than 0")
		return
	}

	order, err := s.orders.Update(r.Context(), chi.URLParam(r, "id"), customerName, req.OrderAmount)
	if err != nil {
		if errors.Is(err, errs.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		s.deps.Logger.Errorf("update order: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update order")
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (s *Server) UpdateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}

	status, ok := model.ParseOrderStatus(req.Status)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid status, valid values are: PENDING, PROCESSING, COMPLETED, CANCELLED, DECLINED")
		return
	}

	order, err := s.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		if errors.Is(err, errs.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		s.deps.Logger.Errorf("update order status: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update order status")
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (s *Server) DeleteOrderHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.orders.Delete(r.Context(), id); err != nil {
		if errors.Is(err, errs.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		s.deps.Logger.Errorf("delete order: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to delete order")
		return
	}

	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		s.deps.Logger.Infow("order deleted", "order_id", id, "actor", claims.Subject)
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "order deleted"})
}

func nonNil(orders []model.Order) []model.Order {
	if orders == nil {
		return []model.Order{}
	}
	return orders
}
