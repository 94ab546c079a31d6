// internal/adapters/woocommerce/client_test.go
package woocommerce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmods/storefront-be/internal/core/domain"
	"github.com/gmods/storefront-be/internal/core/ports"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(Config{
		BaseURL:        srv.URL,
		ConsumerKey:    "ck_test",
		ConsumerSecret: "cs_test",
	}, logger)
}

func TestClient_GetProducts(t *testing.T) {
	t.Run("sends credentials and filter params", func(t *testing.T) {
		var gotPath string
		var gotQuery map[string][]string
		var gotUser, gotPass string

		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = r.URL.Query()
			gotUser, gotPass, _ = r.BasicAuth()

			w.Header().Set("X-WP-Total", "57")
			w.Header().Set("X-WP-TotalPages", "5")
			json.NewEncoder(w).Encode([]domain.Product{{ID: 1, Name: "Vase"}})
		})

		result, err := client.GetProducts(context.Background(), ports.ProductFilters{
			Page:    2,
			PerPage: 12,
			Search:  "vase",
			OnSale:  true,
		})
		require.NoError(t, err)

		assert.Equal(t, "/wp-json/wc/v3/products", gotPath)
		assert.Equal(t, "ck_test", gotUser)
		assert.Equal(t, "cs_test", gotPass)
		assert.Equal(t, []string{"2"}, gotQuery["page"])
		assert.Equal(t, []string{"12"}, gotQuery["per_page"])
		assert.Equal(t, []string{"vase"}, gotQuery["search"])
		assert.Equal(t, []string{"true"}, gotQuery["on_sale"])

		require.Len(t, result.Data, 1)
		assert.Equal(t, "Vase", result.Data[0].Name)
	})

	t.Run("pagination totals come from response headers", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-WP-Total", "123")
			w.Header().Set("X-WP-TotalPages", "11")
			json.NewEncoder(w).Encode([]domain.Product{})
		})

		result, err := client.GetProducts(context.Background(), ports.ProductFilters{Page: 3, PerPage: 12})
		require.NoError(t, err)

		assert.Equal(t, 123, result.Total)
		assert.Equal(t, 11, result.TotalPages)
		assert.Equal(t, 3, result.Page)
		assert.Equal(t, 12, result.PerPage)
		assert.NotNil(t, result.Data)
	})

	t.Run("defaults page and page size when unset", func(t *testing.T) {
		var gotQuery map[string][]string
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			json.NewEncoder(w).Encode([]domain.Product{})
		})

		_, err := client.GetProducts(context.Background(), ports.ProductFilters{})
		require.NoError(t, err)

		assert.Equal(t, []string{"1"}, gotQuery["page"])
		assert.Equal(t, []string{"12"}, gotQuery["per_page"])
		assert.Equal(t, []string{"date"}, gotQuery["orderby"])
		assert.Equal(t, []string{"desc"}, gotQuery["order"])
	})
}

func TestClient_GetProduct(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wp-json/wc/v3/products/42", r.URL.Path)
		json.NewEncoder(w).Encode(domain.Product{ID: 42, Name: "Lamp", Price: "19.99"})
	})

	product, err := client.GetProduct(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 42, product.ID)
	assert.Equal(t, "19.99", product.Price)
}

func TestClient_GetProductBySlug(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "brass-lamp", r.URL.Query().Get("slug"))
		json.NewEncoder(w).Encode([]domain.Product{{ID: 7, Slug: "brass-lamp"}})
	})

	products, err := client.GetProductBySlug(context.Background(), "brass-lamp")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 7, products[0].ID)
}

func TestClient_APIError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":"woocommerce_rest_product_invalid_id"}`))
	})

	_, err := client.GetProduct(context.Background(), 999)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "woocommerce_rest_product_invalid_id")
}

func TestClient_GetRelatedProducts(t *testing.T) {
	t.Run("fetches at most four related products", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/wp-json/wc/v3/products/1":
				json.NewEncoder(w).Encode(domain.Product{ID: 1, RelatedIDs: []int{2, 3, 4, 5, 6}})
			default:
				var id int
				_, err := fmt.Sscanf(r.URL.Path, "/wp-json/wc/v3/products/%d", &id)
				require.NoError(t, err)
				json.NewEncoder(w).Encode(domain.Product{ID: id})
			}
		})

		related, err := client.GetRelatedProducts(context.Background(), 1)
		require.NoError(t, err)
		assert.Len(t, related, 4)
	})

	t.Run("skips related products that fail to load", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/wp-json/wc/v3/products/1":
				json.NewEncoder(w).Encode(domain.Product{ID: 1, RelatedIDs: []int{2, 3}})
			case "/wp-json/wc/v3/products/2":
				w.WriteHeader(http.StatusNotFound)
			default:
				json.NewEncoder(w).Encode(domain.Product{ID: 3})
			}
		})

		related, err := client.GetRelatedProducts(context.Background(), 1)
		require.NoError(t, err)
		require.Len(t, related, 1)
		assert.Equal(t, 3, related[0].ID)
	})

	t.Run("empty slice when product has no related ids", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(domain.Product{ID: 1})
		})

		related, err := client.GetRelatedProducts(context.Background(), 1)
		require.NoError(t, err)
		assert.Empty(t, related)
	})
}

func TestClient_CreateOrder(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/wp-json/wc/v3/orders", r.URL.Path)

		var order domain.Order
		require.NoError(t, json.NewDecoder(r.Body).Decode(&order))
		order.ID = 100
		order.Status = domain.OrderProcessing
		json.NewEncoder(w).Encode(order)
	})

	created, err := client.CreateOrder(context.Background(), domain.Order{
		Billing: domain.Address{Email: "buyer@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, 100, created.ID)
	assert.Equal(t, domain.OrderProcessing, created.Status)
}

func TestClient_UpdateOrderStatus(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/wp-json/wc/v3/orders/55", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "completed", body["status"])

		json.NewEncoder(w).Encode(domain.Order{ID: 55, Status: domain.OrderCompleted})
	})

	updated, err := client.UpdateOrderStatus(context.Background(), 55, domain.OrderCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCompleted, updated.Status)
}

func TestClient_CheckConnection(t *testing.T) {
	t.Run("healthy upstream", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "1", r.URL.Query().Get("per_page"))
			json.NewEncoder(w).Encode([]domain.Product{})
		})

		assert.NoError(t, client.CheckConnection(context.Background()))
	})

	t.Run("rejected credentials", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		err := client.CheckConnection(context.Background())
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	})
}
