// cmd/api/main_test.go
package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmods/storefront-be/internal/pkg/config"
)

func TestRegisterRoutes(t *testing.T) {
	mux := http.NewServeMux()

	// ServeMux panics at registration time when two patterns conflict
	require.NotPanics(t, func() {
		registerRoutes(mux, &dependencies{}, &config.Config{})
	})

	tests := []struct {
		name    string
		method  string
		path    string
		pattern string
	}{
		{"health", http.MethodGet, "/health", "GET /health"},
		{"list_products", http.MethodGet, "/api/v1/products", "GET /api/v1/products"},
		{"product_by_id", http.MethodGet, "/api/v1/products/42", "GET /api/v1/products/{id}"},
		{"product_by_slug", http.MethodGet, "/api/v1/products/slug/ceramic-vase", "GET /api/v1/products/slug/{slug}"},
		{"slug_named_related_still_resolves", http.MethodGet, "/api/v1/products/slug/related", "GET /api/v1/products/slug/{slug}"},
		{"categories_wins_over_product_id", http.MethodGet, "/api/v1/products/categories", "GET /api/v1/products/categories"},
		{"related_products", http.MethodGet, "/api/v1/related-products/42", "GET /api/v1/related-products/{id}"},
		{"create_order", http.MethodPost, "/api/v1/orders", "POST /api/v1/orders"},
		{"get_cart", http.MethodGet, "/api/v1/carts/cart-1", "GET /api/v1/carts/{cartId}"},
		{"update_cart_item", http.MethodPut, "/api/v1/carts/cart-1/items/101-7", "PUT /api/v1/carts/{cartId}/items/{itemId}"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			_, pattern := mux.Handler(req)
			assert.Equal(t, tc.pattern, pattern)
		})
	}
}
