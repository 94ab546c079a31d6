package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/gmods/storefront-be/internal/adapters/woocommerce"
	"github.com/gmods/storefront-be/internal/core/domain"
	"github.com/gmods/storefront-be/internal/core/ports"
	"github.com/gmods/storefront-be/internal/handlers"
	"github.com/gmods/storefront-be/test/helpers"
	"github.com/gmods/storefront-be/test/mocks"
)

func newOrderHandler(t *testing.T) (*handlers.OrderHandler, *mocks.MockCatalogClient) {
	t.Helper()
	ctrl := gomock.NewController(t)
	catalog := mocks.NewMockCatalogClient(ctrl)
	return handlers.NewOrderHandler(catalog, helpers.TestLogger().Logger), catalog
}

func TestOrderHandler_ListOrders(t *testing.T) {
	t.Run("passes_filters_to_catalog", func(t *testing.T) {
		h, catalog := newOrderHandler(t)
		catalog.EXPECT().
			GetOrders(gomock.Any(), ports.OrderFilters{
				Page:     2,
				Status:   "processing",
				Customer: 9,
			}).
			Return(ports.ListResult[domain.Order]{
				Data:  []domain.Order{{ID: 55, Status: domain.OrderProcessing}},
				Total: 1,
			}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?page=2&status=processing&customer=9", nil)
		rec := httptest.NewRecorder()
		h.ListOrders(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		require.NotNil(t, env.Pagination)
		assert.Equal(t, 1, env.Pagination.Total)
	})

	t.Run("non_numeric_customer_is_client_error", func(t *testing.T) {
		h, _ := newOrderHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?customer=bob", nil)
		rec := httptest.NewRecorder()
		h.ListOrders(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestOrderHandler_GetOrder(t *testing.T) {
	t.Run("returns_order", func(t *testing.T) {
		h, catalog := newOrderHandler(t)
		catalog.EXPECT().GetOrder(gomock.Any(), 55).Return(domain.Order{ID: 55}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/55", nil)
		req.SetPathValue("id", "55")
		rec := httptest.NewRecorder()
		h.GetOrder(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("upstream_404_maps_to_not_found", func(t *testing.T) {
		h, catalog := newOrderHandler(t)
		catalog.EXPECT().GetOrder(gomock.Any(), 999).
			Return(domain.Order{}, &woocommerce.APIError{StatusCode: http.StatusNotFound})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/999", nil)
		req.SetPathValue("id", "999")
		rec := httptest.NewRecorder()
		h.GetOrder(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Order not found", env.Error)
	})
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	t.Run("creates_order", func(t *testing.T) {
		h, catalog := newOrderHandler(t)
		catalog.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
			Return(domain.Order{ID: 100, Status: domain.OrderPending}, nil)

		body := `{"line_items": [{"product_id": 101, "quantity": 2}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.CreateOrder(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		env := decodeEnvelope(t, rec)
		var order domain.Order
		require.NoError(t, json.Unmarshal(env.Data, &order))
		assert.Equal(t, 100, order.ID)
	})

	t.Run("empty_line_items_is_client_error", func(t *testing.T) {
		h, _ := newOrderHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"line_items": []}`))
		rec := httptest.NewRecorder()
		h.CreateOrder(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestOrderHandler_UpdateOrderStatus(t *testing.T) {
	t.Run("updates_status", func(t *testing.T) {
		h, catalog := newOrderHandler(t)
		catalog.EXPECT().UpdateOrderStatus(gomock.Any(), 55, domain.OrderCompleted).
			Return(domain.Order{ID: 55, Status: domain.OrderCompleted}, nil)

		body := `{"status": "completed"}`
		req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/55/status", strings.NewReader(body))
		req.SetPathValue("id", "55")
		rec := httptest.NewRecorder()
		h.UpdateOrderStatus(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing_status_is_client_error", func(t *testing.T) {
		h, _ := newOrderHandler(t)

		req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/55/status", strings.NewReader(`{}`))
		req.SetPathValue("id", "55")
		rec := httptest.NewRecorder()
		h.UpdateOrderStatus(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "status is required", env.Error)
	})
}
