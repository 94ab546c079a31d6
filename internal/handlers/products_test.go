package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	redis_a "github.com/gmods/storefront-be/internal/adapters/redis_adapter"
	"github.com/gmods/storefront-be/internal/adapters/woocommerce"
	"github.com/gmods/storefront-be/internal/core/domain"
	"github.com/gmods/storefront-be/internal/core/ports"
	"github.com/gmods/storefront-be/internal/handlers"
	"github.com/gmods/storefront-be/test/helpers"
	"github.com/gmods/storefront-be/test/mocks"
)

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Pagination *struct {
		Total      int `json:"total"`
		TotalPages int `json:"total_pages"`
		Page       int `json:"page"`
		PerPage    int `json:"per_page"`
	} `json:"pagination"`
	Error string `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func newProductHandler(t *testing.T) (*handlers.ProductHandler, *mocks.MockCatalogClient, ports.CacheRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	catalog := mocks.NewMockCatalogClient(ctrl)
	tr := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(tr.Client, time.Minute, helpers.TestLogger().Logger)
	h := handlers.NewProductHandler(catalog, cache, time.Minute, helpers.TestLogger().Logger)
	return h, catalog, cache
}

func TestProductHandler_ListProducts(t *testing.T) {
	t.Run("returns_products_with_pagination", func(t *testing.T) {
		h, catalog, _ := newProductHandler(t)
		catalog.EXPECT().GetProducts(gomock.Any(), gomock.Any()).Return(ports.ListResult[domain.Product]{
			Data:       helpers.CreateTestProducts(3),
			Total:      42,
			TotalPages: 4,
			Page:       1,
			PerPage:    12,
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		rec := httptest.NewRecorder()
		h.ListProducts(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.True(t, env.Success)
		require.NotNil(t, env.Pagination)
		assert.Equal(t, 42, env.Pagination.Total)
		assert.Equal(t, 4, env.Pagination.TotalPages)

		var products []domain.Product
		require.NoError(t, json.Unmarshal(env.Data, &products))
		assert.Len(t, products, 3)
	})

	t.Run("second_request_served_from_cache", func(t *testing.T) {
		h, catalog, _ := newProductHandler(t)
		catalog.EXPECT().GetProducts(gomock.Any(), gomock.Any()).Return(ports.ListResult[domain.Product]{
			Data: helpers.CreateTestProducts(1),
		}, nil).Times(1)

		for range 2 {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/products?page=2", nil)
			rec := httptest.NewRecorder()
			h.ListProducts(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("passes_filters_to_catalog", func(t *testing.T) {
		h, catalog, _ := newProductHandler(t)
		catalog.EXPECT().
			GetProducts(gomock.Any(), ports.ProductFilters{
				Page:     2,
				PerPage:  24,
				Search:   "vase",
				Category: "7",
				OnSale:   true,
			}).
			Return(ports.ListResult[domain.Product]{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products?page=2&per_page=24&search=vase&category=7&on_sale=true", nil)
		rec := httptest.NewRecorder()
		h.ListProducts(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non_numeric_page_is_client_error", func(t *testing.T) {
		h, _, _ := newProductHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products?page=abc", nil)
		rec := httptest.NewRecorder()
		h.ListProducts(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.False(t, env.Success)
		assert.Contains(t, env.Error, "invalid page parameter")
	})

	t.Run("upstream_failure_is_bad_gateway", func(t *testing.T) {
		h, catalog, _ := newProductHandler(t)
		catalog.EXPECT().GetProducts(gomock.Any(), gomock.Any()).
			Return(ports.ListResult[domain.Product]{}, errors.New("connection refused"))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		rec := httptest.NewRecorder()
		h.ListProducts(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestProductHandler_GetProduct(t *testing.T) {
	t.Run("returns_product", func(t *testing.T) {
		h, catalog, _ := newProductHandler(t)
		catalog.EXPECT().GetProduct(gomock.Any(), 101).Return(helpers.CreateTestProduct(), nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/101", nil)
		req.SetPathValue("id", "101")
		rec := httptest.NewRecorder()
		h.GetProduct(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		var p domain.Product
		require.NoError(t, json.Unmarshal(env.Data, &p))
		assert.Equal(t, 101, p.ID)
	})

	t.Run("non_numeric_id_is_client_error", func(t *testing.T) {
		h, _, _ := newProductHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/abc", nil)
		req.SetPathValue("id", "abc")
		rec := httptest.NewRecorder()
		h.GetProduct(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Invalid product ID format", env.Error)
	})

	t.Run("upstream_404_maps_to_not_found", func(t *testing.T) {
		h, catalog, _ := newProductHandler(t)
		catalog.EXPECT().GetProduct(gomock.Any(), 999).
			Return(domain.Product{}, &woocommerce.APIError{StatusCode: http.StatusNotFound})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/999", nil)
		req.SetPathValue("id", "999")
		rec := httptest.NewRecorder()
		h.GetProduct(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Product not found", env.Error)
	})
}

func TestProductHandler_GetProductBySlug(t *testing.T) {
	t.Run("returns_first_match", func(t *testing.T) {
		h, catalog, _ := newProductHandler(t)
		catalog.EXPECT().GetProductBySlug(gomock.Any(), "ceramic-vase").
			Return([]domain.Product{helpers.CreateTestProduct()}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/slug/ceramic-vase", nil)
		req.SetPathValue("slug", "ceramic-vase")
		rec := httptest.NewRecorder()
		h.GetProductBySlug(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("empty_result_is_not_found", func(t *testing.T) {
		h, catalog, _ := newProductHandler(t)
		catalog.EXPECT().GetProductBySlug(gomock.Any(), "ghost").Return([]domain.Product{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/slug/ghost", nil)
		req.SetPathValue("slug", "ghost")
		rec := httptest.NewRecorder()
		h.GetProductBySlug(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestProductHandler_ListCategories(t *testing.T) {
	h, catalog, _ := newProductHandler(t)
	catalog.EXPECT().GetCategories(gomock.Any(), 1, 100).
		Return([]domain.Category{{ID: 7, Name: "Decor", Slug: "decor"}}, nil).
		Times(1)

	// Second request hits the cache.
	for range 2 {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
		rec := httptest.NewRecorder()
		h.ListCategories(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestProductHandler_CreateProduct(t *testing.T) {
	t.Run("creates_and_invalidates_cache", func(t *testing.T) {
		h, catalog, cache := newProductHandler(t)

		// Warm a cache entry that the write must invalidate.
		require.NoError(t, cache.Set(t.Context(), "prod:item:101", helpers.CreateTestProduct()))

		created := helpers.CreateTestProduct(func(p *domain.Product) {
			p.ID = 200
			p.Name = "New Product"
		})
		catalog.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).Return(created, nil)

		body, _ := json.Marshal(domain.Product{Name: "New Product", RegularPrice: "15.00"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		h.CreateProduct(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var stale domain.Product
		assert.ErrorIs(t, cache.Get(t.Context(), "prod:item:101", &stale), redis_a.ErrCacheMiss)
	})

	t.Run("missing_name_is_client_error", func(t *testing.T) {
		h, _, _ := newProductHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader([]byte(`{}`)))
		rec := httptest.NewRecorder()
		h.CreateProduct(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestProductHandler_DeleteProduct(t *testing.T) {
	h, catalog, _ := newProductHandler(t)
	catalog.EXPECT().DeleteProduct(gomock.Any(), 101).Return(helpers.CreateTestProduct(), nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/101", nil)
	req.SetPathValue("id", "101")
	rec := httptest.NewRecorder()
	h.DeleteProduct(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
