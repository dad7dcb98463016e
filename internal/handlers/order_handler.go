package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/LEMNXCIX/neutra-order-api/internal/middleware"
	"github.com/LEMNXCIX/neutra-order-api/internal/models"
	"github.com/LEMNXCIX/neutra-order-api/internal/service"
	"github.com/LEMNXCIX/neutra-order-api/internal/store"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
	log          *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		log:          log,
	}
}

// CreateOrder handles POST /api/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Not authenticated", h.log)
		return
	}

	var req models.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("failed to decode order request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid payload", h.log)
		return
	}

	order, err := h.orderService.PlaceOrder(r.Context(), userID, req)
	if err != nil {
		h.writeOrderError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{"order": order}, h.log)
}

// ListOrders handles GET /api/orders
// Query parameters: status, dateFrom, dateTo (YYYY-MM-DD), page, pageSize
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Not authenticated", h.log)
		return
	}

	filter, err := parseOrderFilter(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	orders, total, err := h.orderService.ListOrders(r.Context(), userID, filter)
	if err != nil {
		h.log.Error("failed to list orders", "user_id", userID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	page, pageSize := normalizePaging(filter.Page, filter.PageSize)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"orders":   orders,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	}, h.log)
}

// writeOrderError maps workflow errors onto the API's error contract
func (h *OrderHandler) writeOrderError(w http.ResponseWriter, err error) {
	var unknownProduct *service.UnknownProductError
	var insufficientStock *service.InsufficientStockError

	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		WriteError(w, http.StatusUnauthorized, "Not authenticated", h.log)
	case errors.Is(err, service.ErrEmptyOrder):
		WriteError(w, http.StatusBadRequest, "No items", h.log)
	case errors.Is(err, service.ErrInvalidItemFormat):
		WriteError(w, http.StatusBadRequest, "Invalid item format", h.log)
	case errors.Is(err, service.ErrInvalidQuantity):
		WriteError(w, http.StatusBadRequest, "Invalid item quantity", h.log)
	case errors.Is(err, service.ErrMissingAddress):
		WriteError(w, http.StatusBadRequest, "Address is required", h.log)
	case errors.Is(err, service.ErrInvalidCoupon):
		WriteError(w, http.StatusBadRequest, "Invalid coupon", h.log)
	case errors.Is(err, service.ErrCouponUsed):
		WriteError(w, http.StatusBadRequest, "Coupon already used", h.log)
	case errors.Is(err, service.ErrCouponExpired):
		WriteError(w, http.StatusBadRequest, "Coupon expired", h.log)
	case errors.As(err, &unknownProduct):
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Unknown product id: %s", unknownProduct.ID), h.log)
	case errors.As(err, &insufficientStock):
		WriteJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":     fmt.Sprintf("Insufficient stock for %s", insufficientStock.ProductID),
			"available": insufficientStock.Available,
		}, h.log)
	default:
		h.log.Error("order placement failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
	}
}

// parseOrderFilter reads listing query parameters into a store filter
func parseOrderFilter(r *http.Request) (store.OrderFilter, error) {
	var filter store.OrderFilter
	q := r.URL.Query()

	if status := q.Get("status"); status != "" {
		switch status {
		case models.StatusPending, models.StatusPaid, models.StatusShipped, models.StatusDelivered, models.StatusCancelled:
			filter.Status = status
		default:
			return filter, fmt.Errorf("Invalid status: %s", status)
		}
	}

	if from := q.Get("dateFrom"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return filter, fmt.Errorf("Invalid dateFrom: %s", from)
		}
		filter.DateFrom = t
	}

	if to := q.Get("dateTo"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return filter, fmt.Errorf("Invalid dateTo: %s", to)
		}
		// Inclusive of the whole end day
		filter.DateTo = t.Add(24*time.Hour - time.Nanosecond)
	}

	if page := q.Get("page"); page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n < 1 {
			return filter, fmt.Errorf("Invalid page: %s", page)
		}
		filter.Page = n
	}

	if size := q.Get("pageSize"); size != "" {
		n, err := strconv.Atoi(size)
		if err != nil || n < 1 {
			return filter, fmt.Errorf("Invalid pageSize: %s", size)
		}
		filter.PageSize = n
	}

	return filter, nil
}

func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = store.DefaultPageSize
	}
	if pageSize > store.MaxPageSize {
		pageSize = store.MaxPageSize
	}
	return page, pageSize
}
