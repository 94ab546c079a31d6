package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/gmods/storefront-be/internal/adapters/woocommerce"
	"github.com/gmods/storefront-be/internal/core/domain"
	"github.com/gmods/storefront-be/internal/handlers"
	"github.com/gmods/storefront-be/test/helpers"
	"github.com/gmods/storefront-be/test/mocks"
)

func newCartHandler(t *testing.T) (*handlers.CartHandler, *mocks.MockCartService, *mocks.MockCatalogClient) {
	t.Helper()
	ctrl := gomock.NewController(t)
	carts := mocks.NewMockCartService(ctrl)
	catalog := mocks.NewMockCatalogClient(ctrl)
	h := handlers.NewCartHandler(carts, catalog, helpers.TestLogger().Logger)
	return h, carts, catalog
}

func cartSnapshot(t *testing.T, itemCount int) domain.Cart {
	t.Helper()
	cart := domain.NewCart("cart-1")
	if itemCount > 0 {
		require.NoError(t, cart.AddItem(helpers.CreateTestProduct(), itemCount, 0, domain.DefaultPricingPolicy()))
	}
	return cart.Snapshot()
}

func TestCartHandler_GetCart(t *testing.T) {
	h, carts, _ := newCartHandler(t)
	carts.EXPECT().Get(gomock.Any(), "cart-1").Return(cartSnapshot(t, 2), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/carts/cart-1", nil)
	req.SetPathValue("cartId", "cart-1")
	rec := httptest.NewRecorder()
	h.GetCart(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)

	var cart domain.Cart
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	assert.Equal(t, "cart-1", cart.ID)
	assert.Equal(t, 2, cart.ItemCount)
}

func TestCartHandler_AddItem(t *testing.T) {
	t.Run("resolves_product_and_adds", func(t *testing.T) {
		h, carts, catalog := newCartHandler(t)
		product := helpers.CreateTestProduct()
		catalog.EXPECT().GetProduct(gomock.Any(), 101).Return(product, nil)
		carts.EXPECT().AddItem(gomock.Any(), "cart-1", product, 2, 0).Return(cartSnapshot(t, 2), nil)

		body := `{"product_id": 101, "quantity": 2}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/carts/cart-1/items", strings.NewReader(body))
		req.SetPathValue("cartId", "cart-1")
		rec := httptest.NewRecorder()
		h.AddItem(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		var cart domain.Cart
		require.NoError(t, json.Unmarshal(env.Data, &cart))
		assert.Equal(t, 2, cart.ItemCount)
	})

	t.Run("missing_product_id_is_client_error", func(t *testing.T) {
		h, _, _ := newCartHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/carts/cart-1/items", strings.NewReader(`{"quantity": 1}`))
		req.SetPathValue("cartId", "cart-1")
		rec := httptest.NewRecorder()
		h.AddItem(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown_product_is_not_found", func(t *testing.T) {
		h, _, catalog := newCartHandler(t)
		catalog.EXPECT().GetProduct(gomock.Any(), 999).
			Return(domain.Product{}, &woocommerce.APIError{StatusCode: http.StatusNotFound})

		body := `{"product_id": 999, "quantity": 1}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/carts/cart-1/items", strings.NewReader(body))
		req.SetPathValue("cartId", "cart-1")
		rec := httptest.NewRecorder()
		h.AddItem(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Product not found", env.Error)
	})

	t.Run("unparseable_price_is_unprocessable", func(t *testing.T) {
		h, carts, catalog := newCartHandler(t)
		bad := helpers.CreateTestProduct(func(p *domain.Product) {
			p.Price = "N/A"
		})
		catalog.EXPECT().GetProduct(gomock.Any(), 101).Return(bad, nil)
		carts.EXPECT().AddItem(gomock.Any(), "cart-1", bad, 1, 0).
			Return(domain.Cart{}, &domain.PriceError{ProductID: 101, Value: "N/A"})

		body := `{"product_id": 101, "quantity": 1}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/carts/cart-1/items", strings.NewReader(body))
		req.SetPathValue("cartId", "cart-1")
		rec := httptest.NewRecorder()
		h.AddItem(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Contains(t, env.Error, "invalid price")
	})

	t.Run("catalog_outage_is_bad_gateway", func(t *testing.T) {
		h, _, catalog := newCartHandler(t)
		catalog.EXPECT().GetProduct(gomock.Any(), 101).
			Return(domain.Product{}, errors.New("connection refused"))

		body := `{"product_id": 101, "quantity": 1}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/carts/cart-1/items", strings.NewReader(body))
		req.SetPathValue("cartId", "cart-1")
		rec := httptest.NewRecorder()
		h.AddItem(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestCartHandler_UpdateItem(t *testing.T) {
	h, carts, _ := newCartHandler(t)
	carts.EXPECT().UpdateQuantity(gomock.Any(), "cart-1", "101", 3).Return(cartSnapshot(t, 3), nil)

	body := `{"quantity": 3}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/carts/cart-1/items/101", strings.NewReader(body))
	req.SetPathValue("cartId", "cart-1")
	req.SetPathValue("itemId", "101")
	rec := httptest.NewRecorder()
	h.UpdateItem(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCartHandler_RemoveItem(t *testing.T) {
	h, carts, _ := newCartHandler(t)
	carts.EXPECT().RemoveItem(gomock.Any(), "cart-1", "101-7").Return(cartSnapshot(t, 0), nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/carts/cart-1/items/101-7", nil)
	req.SetPathValue("cartId", "cart-1")
	req.SetPathValue("itemId", "101-7")
	rec := httptest.NewRecorder()
	h.RemoveItem(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCartHandler_ClearCart(t *testing.T) {
	h, carts, _ := newCartHandler(t)
	carts.EXPECT().Clear(gomock.Any(), "cart-1").Return(cartSnapshot(t, 0), nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/carts/cart-1", nil)
	req.SetPathValue("cartId", "cart-1")
	rec := httptest.NewRecorder()
	h.ClearCart(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	var cart domain.Cart
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	assert.Equal(t, 0, cart.ItemCount)
}

func TestCartHandler_SetOpen(t *testing.T) {
	h, carts, _ := newCartHandler(t)
	open := cartSnapshot(t, 0)
	open.IsOpen = true
	carts.EXPECT().SetOpen(gomock.Any(), "cart-1", true).Return(open, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/carts/cart-1/open", bytes.NewReader([]byte(`{"open": true}`)))
	req.SetPathValue("cartId", "cart-1")
	rec := httptest.NewRecorder()
	h.SetOpen(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	var cart domain.Cart
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	assert.True(t, cart.IsOpen)
}

func TestCartHandler_PersistCart(t *testing.T) {
	t.Run("reports_success", func(t *testing.T) {
		h, carts, _ := newCartHandler(t)
		carts.EXPECT().Persist(gomock.Any(), "cart-1").Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/carts/cart-1/persist", nil)
		req.SetPathValue("cartId", "cart-1")
		rec := httptest.NewRecorder()
		h.PersistCart(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("reports_failure", func(t *testing.T) {
		h, carts, _ := newCartHandler(t)
		carts.EXPECT().Persist(gomock.Any(), "cart-1").Return(errors.New("redis down"))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/carts/cart-1/persist", nil)
		req.SetPathValue("cartId", "cart-1")
		rec := httptest.NewRecorder()
		h.PersistCart(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
