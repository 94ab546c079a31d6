// internal/handlers/customers.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gmods/storefront-be/internal/core/domain"
	"github.com/gmods/storefront-be/internal/core/ports"
)

// CustomerHandler handles customer HTTP requests
type CustomerHandler struct {
	catalog ports.CatalogClient
	logger  *slog.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(catalog ports.CatalogClient, logger *slog.Logger) *CustomerHandler {
	return &CustomerHandler{
		catalog: catalog,
		logger:  logger.With(slog.String("handler", "customers")),
	}
}

// ListCustomers handles GET /api/v1/customers
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, err := queryIntStrict(r, "page")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}
	perPage, err := queryIntStrict(r, "per_page")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.catalog.GetCustomers(ctx, page, perPage)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list customers",
			slog.String("error", err.Error()))
		h.respondUpstreamError(w, err, "Failed to list customers")
		return
	}

	respondList(w, h.logger, result)
}

// GetCustomer handles GET /api/v1/customers/{id}
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	customer, err := h.catalog.GetCustomer(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get customer",
			slog.Int("customer_id", id),
			slog.String("error", err.Error()))
		h.respondUpstreamError(w, err, "Failed to retrieve customer")
		return
	}

	respondData(w, h.logger, http.StatusOK, customer)
}

// CreateCustomer handles POST /api/v1/customers
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var customer domain.Customer
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if customer.Email == "" {
		respondError(w, h.logger, http.StatusBadRequest, "email is required")
		return
	}

	created, err := h.catalog.CreateCustomer(ctx, customer)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create customer",
			slog.String("error", err.Error()))
		h.respondUpstreamError(w, err, "Failed to create customer")
		return
	}

	h.logger.InfoContext(ctx, "customer created",
		slog.Int("customer_id", created.ID))

	respondData(w, h.logger, http.StatusCreated, created)
}

// UpdateCustomer handles PUT /api/v1/customers/{id}
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var customer domain.Customer
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.catalog.UpdateCustomer(ctx, id, customer)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update customer",
			slog.Int("customer_id", id),
			slog.String("error", err.Error()))
		h.respondUpstreamError(w, err, "Failed to update customer")
		return
	}

	respondData(w, h.logger, http.StatusOK, updated)
}

func (h *CustomerHandler) respondUpstreamError(w http.ResponseWriter, err error, fallback string) {
	switch upstreamStatus(err) {
	case http.StatusNotFound:
		respondError(w, h.logger, http.StatusNotFound, "Customer not found")
	case http.StatusBadRequest:
		respondError(w, h.logger, http.StatusBadRequest, fallback)
	default:
		respondError(w, h.logger, http.StatusBadGateway, fallback)
	}
}
