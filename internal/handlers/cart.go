// internal/handlers/cart.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gmods/storefront-be/internal/core/domain"
	"github.com/gmods/storefront-be/internal/core/ports"
)

// CartHandler handles cart HTTP requests. Product snapshots are resolved
// through the catalog at add time; the cart engine owns everything after
// that.
type CartHandler struct {
	carts   ports.CartService
	catalog ports.CatalogClient
	logger  *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts ports.CartService, catalog ports.CatalogClient, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalog,
		logger:  logger.With(slog.String("handler", "cart")),
	}
}

// GetCart handles GET /api/v1/carts/{cartId}
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cartID := r.PathValue("cartId")

	cart, err := h.carts.Get(ctx, cartID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get cart",
			slog.String("cart_id", cartID),
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to retrieve cart")
		return
	}

	respondData(w, h.logger, http.StatusOK, cart)
}

// AddItemRequest is the request body for adding an item to a cart
type AddItemRequest struct {
	ProductID   int `json:"product_id"`
	Quantity    int `json:"quantity"`
	VariationID int `json:"variation_id,omitempty"`
}

// AddItem handles POST /api/v1/carts/{cartId}/items. The product is fetched
// from the catalog so the cart stores a point-in-time snapshot of it.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cartID := r.PathValue("cartId")

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, h.logger, http.StatusBadRequest, "product_id is required")
		return
	}

	product, err := h.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to resolve product for cart",
			slog.String("cart_id", cartID),
			slog.Int("product_id", req.ProductID),
			slog.String("error", err.Error()))
		if upstreamStatus(err) == http.StatusNotFound {
			respondError(w, h.logger, http.StatusNotFound, "Product not found")
			return
		}
		respondError(w, h.logger, http.StatusBadGateway, "Failed to resolve product")
		return
	}

	cart, err := h.carts.AddItem(ctx, cartID, product, req.Quantity, req.VariationID)
	if err != nil {
		var priceErr *domain.PriceError
		if errors.As(err, &priceErr) {
			respondError(w, h.logger, http.StatusUnprocessableEntity, priceErr.Error())
			return
		}
		h.logger.ErrorContext(ctx, "failed to add cart item",
			slog.String("cart_id", cartID),
			slog.Int("product_id", req.ProductID),
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to add item to cart")
		return
	}

	h.logger.InfoContext(ctx, "cart item added",
		slog.String("cart_id", cartID),
		slog.Int("product_id", req.ProductID),
		slog.Int("quantity", req.Quantity))

	respondData(w, h.logger, http.StatusOK, cart)
}

// UpdateItemRequest is the request body for changing an item's quantity
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem handles PUT /api/v1/carts/{cartId}/items/{itemId}. A quantity
// of zero or less removes the item.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cartID := r.PathValue("cartId")
	itemID := r.PathValue("itemId")

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	cart, err := h.carts.UpdateQuantity(ctx, cartID, itemID, req.Quantity)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update cart item",
			slog.String("cart_id", cartID),
			slog.String("item_id", itemID),
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to update cart item")
		return
	}

	respondData(w, h.logger, http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/v1/carts/{cartId}/items/{itemId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cartID := r.PathValue("cartId")
	itemID := r.PathValue("itemId")

	cart, err := h.carts.RemoveItem(ctx, cartID, itemID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to remove cart item",
			slog.String("cart_id", cartID),
			slog.String("item_id", itemID),
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to remove cart item")
		return
	}

	respondData(w, h.logger, http.StatusOK, cart)
}

// ClearCart handles DELETE /api/v1/carts/{cartId}
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cartID := r.PathValue("cartId")

	cart, err := h.carts.Clear(ctx, cartID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to clear cart",
			slog.String("cart_id", cartID),
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	h.logger.InfoContext(ctx, "cart cleared", slog.String("cart_id", cartID))

	respondData(w, h.logger, http.StatusOK, cart)
}

// SetOpenRequest is the request body for toggling the cart panel state
type SetOpenRequest struct {
	Open bool `json:"open"`
}

// SetOpen handles PUT /api/v1/carts/{cartId}/open. Panel visibility is
// session state only; it is never persisted.
func (h *CartHandler) SetOpen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cartID := r.PathValue("cartId")

	var req SetOpenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	cart, err := h.carts.SetOpen(ctx, cartID, req.Open)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to set cart visibility",
			slog.String("cart_id", cartID),
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to update cart")
		return
	}

	respondData(w, h.logger, http.StatusOK, cart)
}

// PersistCart handles POST /api/v1/carts/{cartId}/persist, forcing a durable
// write of the cart's current state.
func (h *CartHandler) PersistCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cartID := r.PathValue("cartId")

	if err := h.carts.Persist(ctx, cartID); err != nil {
		h.logger.ErrorContext(ctx, "failed to persist cart",
			slog.String("cart_id", cartID),
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to persist cart")
		return
	}

	respondData(w, h.logger, http.StatusOK, map[string]string{
		"message": "Cart persisted successfully",
		"cart_id": cartID,
	})
}
