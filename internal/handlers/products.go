// internal/handlers/products.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gmods/storefront-be/internal/core/domain"
	"github.com/gmods/storefront-be/internal/core/ports"
)

// ProductHandler handles product catalog HTTP requests. List and read
// responses are cached; writes invalidate the product cache wholesale.
type ProductHandler struct {
	catalog  ports.CatalogClient
	cache    ports.CacheRepository
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalog ports.CatalogClient, cache ports.CacheRepository, cacheTTL time.Duration, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		catalog:  catalog,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.With(slog.String("handler", "products")),
	}
}

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filters, err := parseProductFilters(r)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	cacheKey := productListKey(r)
	var result ports.ListResult[domain.Product]
	err = h.cache.GetOrSet(ctx, cacheKey, &result, func() (interface{}, error) {
		res, err := h.catalog.GetProducts(ctx, filters)
		if err != nil {
			return nil, err
		}
		return res, nil
	}, h.cacheTTL)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list products",
			slog.String("error", err.Error()))
		h.respondUpstreamError(w, err, "Failed to list products")
		return
	}

	respondList(w, h.logger, result)
}

// GetProduct handles GET /api/v1/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	cacheKey := productKey(id)
	var product domain.Product
	err = h.cache.GetOrSet(ctx, cacheKey, &product, func() (interface{}, error) {
		p, err := h.catalog.GetProduct(ctx, id)
		if err != nil {
			return nil, err
		}
		return p, nil
	}, h.cacheTTL)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get product",
			slog.Int("product_id", id),
			slog.String("error", err.Error()))
		h.respondUpstreamError(w, err, "Failed to retrieve product")
		return
	}

	respondData(w, h.logger, http.StatusOK, product)
}

// GetProductBySlug handles GET /api/v1/products/slug/{slug}
func (h *ProductHandler) GetProductBySlug(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := r.PathValue("slug")

	products, err := h.catalog.GetProductBySlug(ctx, slug)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get product by slug",
			slog.String("slug", slug),
			slog.String("error", err.Error()))
		h.respondUpstreamError(w, err, "Failed to retrieve product")
		return
	}
	if len(products) == 0 {
		respondError(w, h.logger, http.StatusNotFound, "Product not found")
		return
	}

	respondData(w, h.logger, http.StatusOK, products[0])
}

// GetRelatedProducts handles GET /api/v1/related-products/{id}
func (h *ProductHandler) GetRelatedProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	related, err := h.catalog.GetRelatedProducts(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get related products",
			slog.Int("product_id", id),
			slog.String("error", err.Error()))
		h.respondUpstreamError(w, err, "Failed to retrieve related products")
		return
	}

	respondData(w, h.logger, http.StatusOK, related)
}

// ListCategories handles GET /api/v1/categories
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 100)

	cacheKey := categoryListKey(page, perPage)
	var categories []domain.Category
	err := h.cache.GetOrSet(ctx, cacheKey, &categories, func() (interface{}, error) {
		cats, err := h.catalog.GetCategories(ctx, page, perPage)
		if err != nil {
			return nil, err
		}
		return cats, nil
	}, h.cacheTTL)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list categories",
			slog.String("error", err.Error()))
		h.respondUpstreamError(w, err, "Failed to list categories")
		return
	}

	respondData(w, h.logger, http.StatusOK, categories)
}

// CreateProduct handles POST /api/v1/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if product.Name == "" {
		respondError(w, h.logger, http.StatusBadRequest, "name is required")
		return
	}

	created, err := h.catalog.CreateProduct(ctx, product)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create product",
			slog.String("error", err.Error()))
		h.respondUpstreamError(w, err, "Failed to create product")
		return
	}

	h.invalidateProductCache(ctx)
	h.logger.InfoContext(ctx, "product created",
		slog.Int("product_id", created.ID),
		slog.String("name", created.Name))

	respondData(w, h.logger, http.StatusCreated, created)
}

// UpdateProduct handles PUT /api/v1/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.catalog.UpdateProduct(ctx, id, product)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update product",
			slog.Int("product_id", id),
			slog.String("error", err.Error()))
		h.respondUpstreamError(w, err, "Failed to update product")
		return
	}

	h.invalidateProductCache(ctx)
	respondData(w, h.logger, http.StatusOK, updated)
}

// DeleteProduct handles DELETE /api/v1/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	deleted, err := h.catalog.DeleteProduct(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to delete product",
			slog.Int("product_id", id),
			slog.String("error", err.Error()))
		h.respondUpstreamError(w, err, "Failed to delete product")
		return
	}

	h.invalidateProductCache(ctx)
	h.logger.InfoContext(ctx, "product deleted", slog.Int("product_id", id))

	respondData(w, h.logger, http.StatusOK, deleted)
}

func (h *ProductHandler) respondUpstreamError(w http.ResponseWriter, err error, fallback string) {
	switch upstreamStatus(err) {
	case http.StatusNotFound:
		respondError(w, h.logger, http.StatusNotFound, "Product not found")
	case http.StatusBadRequest:
		respondError(w, h.logger, http.StatusBadRequest, fallback)
	default:
		respondError(w, h.logger, http.StatusBadGateway, fallback)
	}
}

func (h *ProductHandler) invalidateProductCache(ctx context.Context) {
	if err := h.cache.DeletePattern(ctx, "prod:*"); err != nil {
		h.logger.WarnContext(ctx, "failed to invalidate product cache",
			slog.String("error", err.Error()))
	}
	if err := h.cache.DeletePattern(ctx, "cat:*"); err != nil {
		h.logger.WarnContext(ctx, "failed to invalidate category cache",
			slog.String("error", err.Error()))
	}
}

// parseProductFilters reads the product listing query parameters. A
// non-numeric page or per_page is a client error rather than a silent
// default.
func parseProductFilters(r *http.Request) (ports.ProductFilters, error) {
	q := r.URL.Query()
	filters := ports.ProductFilters{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		MinPrice: q.Get("min_price"),
		MaxPrice: q.Get("max_price"),
		OrderBy:  q.Get("orderby"),
		Order:    q.Get("order"),
	}

	var err error
	if filters.Page, err = queryIntStrict(r, "page"); err != nil {
		return filters, err
	}
	if filters.PerPage, err = queryIntStrict(r, "per_page"); err != nil {
		return filters, err
	}

	filters.Featured = q.Get("featured") == "true"
	filters.OnSale = q.Get("on_sale") == "true"
	filters.InStock = q.Get("in_stock") == "true"

	return filters, nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func queryIntStrict(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("invalid %s parameter", name)
	}
	return v, nil
}

func productListKey(r *http.Request) string {
	return "prod:list:" + r.URL.RawQuery
}

func productKey(id int) string {
	return "prod:item:" + strconv.Itoa(id)
}

func categoryListKey(page, perPage int) string {
	return fmt.Sprintf("cat:list:%d:%d", page, perPage)
}
