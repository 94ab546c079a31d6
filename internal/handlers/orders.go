// internal/handlers/orders.go
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gmods/storefront-be/internal/core/domain"
	"github.com/gmods/storefront-be/internal/core/ports"
)

// OrderHandler handles order HTTP requests. Orders are never cached; they
// always reflect the catalog's current state.
type OrderHandler struct {
	catalog ports.CatalogClient
	logger  *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(catalog ports.CatalogClient, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		catalog: catalog,
		logger:  logger.With(slog.String("handler", "orders")),
	}
}

// ListOrders handles GET /api/v1/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filters, err := parseOrderFilters(r)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.catalog.GetOrders(ctx, filters)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list orders",
			slog.String("error", err.Error()))
		h.respondUpstreamError(w, err, "Failed to list orders")
		return
	}

	respondList(w, h.logger, result)
}

// GetOrder handles GET /api/v1/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	order, err := h.catalog.GetOrder(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get order",
			slog.Int("order_id", id),
			slog.String("error", err.Error()))
		h.respondUpstreamError(w, err, "Failed to retrieve order")
		return
	}

	respondData(w, h.logger, http.StatusOK, order)
}

// CreateOrder handles POST /api/v1/orders, the checkout handoff
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var order domain.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(order.LineItems) == 0 {
		respondError(w, h.logger, http.StatusBadRequest, "order must contain at least one line item")
		return
	}

	created, err := h.catalog.CreateOrder(ctx, order)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create order",
			slog.String("error", err.Error()))
		h.respondUpstreamError(w, err, "Failed to create order")
		return
	}

	h.logger.InfoContext(ctx, "order created",
		slog.Int("order_id", created.ID),
		slog.String("status", string(created.Status)))

	respondData(w, h.logger, http.StatusCreated, created)
}

// UpdateOrder handles PUT /api/v1/orders/{id}
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var order domain.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.catalog.UpdateOrder(ctx, id, order)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update order",
			slog.Int("order_id", id),
			slog.String("error", err.Error()))
		h.respondUpstreamError(w, err, "Failed to update order")
		return
	}

	respondData(w, h.logger, http.StatusOK, updated)
}

// UpdateOrderStatus handles PUT /api/v1/orders/{id}/status
func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Status == "" {
		respondError(w, h.logger, http.StatusBadRequest, "status is required")
		return
	}

	updated, err := h.catalog.UpdateOrderStatus(ctx, id, domain.OrderStatus(req.Status))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update order status",
			slog.Int("order_id", id),
			slog.String("status", req.Status),
			slog.String("error", err.Error()))
		h.respondUpstreamError(w, err, "Failed to update order status")
		return
	}

	h.logger.InfoContext(ctx, "order status updated",
		slog.Int("order_id", id),
		slog.String("status", req.Status))

	respondData(w, h.logger, http.StatusOK, updated)
}

func (h *OrderHandler) respondUpstreamError(w http.ResponseWriter, err error, fallback string) {
	switch upstreamStatus(err) {
	case http.StatusNotFound:
		respondError(w, h.logger, http.StatusNotFound, "Order not found")
	case http.StatusBadRequest:
		respondError(w, h.logger, http.StatusBadRequest, fallback)
	default:
		respondError(w, h.logger, http.StatusBadGateway, fallback)
	}
}

func parseOrderFilters(r *http.Request) (ports.OrderFilters, error) {
	q := r.URL.Query()
	filters := ports.OrderFilters{
		Status:    q.Get("status"),
		DateStart: q.Get("after"),
		DateEnd:   q.Get("before"),
	}

	var err error
	if filters.Page, err = queryIntStrict(r, "page"); err != nil {
		return filters, err
	}
	if filters.PerPage, err = queryIntStrict(r, "per_page"); err != nil {
		return filters, err
	}
	if raw := q.Get("customer"); raw != "" {
		if filters.Customer, err = strconv.Atoi(raw); err != nil {
			return filters, fmt.Errorf("invalid customer parameter")
		}
	}

	return filters, nil
}
