// internal/adapters/woocommerce/client.go
package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gmods/storefront-be/internal/core/domain"
	"github.com/gmods/storefront-be/internal/core/ports"
)

const (
	defaultVersion   = "wc/v3"
	defaultTimeout   = 15 * time.Second
	maxRelated       = 4
	headerTotal      = "X-WP-Total"
	headerTotalPages = "X-WP-TotalPages"
)

// Config holds the connection settings for the remote catalog service
type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	Version        string
	Timeout        time.Duration
}

// Client talks to the WooCommerce REST API. Every method issues a single
// authenticated request; calls are independent and may run concurrently.
// There is no retry, backoff, or circuit breaking at this layer.
type Client struct {
	baseURL string
	key     string
	secret  string
	version string
	hc      *http.Client
	logger  *slog.Logger
}

// Statically assert that *Client implements the CatalogClient interface.
var _ ports.CatalogClient = (*Client)(nil)

// NewClient creates a catalog client for the given store
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Version == "" {
		cfg.Version = defaultVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		key:     cfg.ConsumerKey,
		secret:  cfg.ConsumerSecret,
		version: cfg.Version,
		hc:      &http.Client{Timeout: cfg.Timeout},
		logger:  logger.With(slog.String("component", "woocommerce")),
	}
}

// APIError is a non-2xx response from the catalog service
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("woocommerce api error: %d %s - %s", e.StatusCode, e.Status, e.Body)
}

// HTTPStatus exposes the upstream status code so transport-level callers can
// forward it.
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}

// GetProducts lists products matching the filters. Total and TotalPages are
// read from the catalog's pagination response headers.
func (c *Client) GetProducts(ctx context.Context, filters ports.ProductFilters) (ports.ListResult[domain.Product], error) {
	params := productParams(filters)
	page, _ := strconv.Atoi(params.Get("page"))
	perPage, _ := strconv.Atoi(params.Get("per_page"))
	return doList[domain.Product](ctx, c, "products", params, page, perPage)
}

// SearchProducts runs a free-text product search
func (c *Client) SearchProducts(ctx context.Context, query string, page, perPage int) (ports.ListResult[domain.Product], error) {
	return c.GetProducts(ctx, ports.ProductFilters{Search: query, Page: page, PerPage: perPage})
}

// GetFeaturedProducts lists products flagged as featured in the catalog
func (c *Client) GetFeaturedProducts(ctx context.Context, perPage int) (ports.ListResult[domain.Product], error) {
	return c.GetProducts(ctx, ports.ProductFilters{Featured: true, PerPage: perPage})
}

// GetSaleProducts lists products currently on sale
func (c *Client) GetSaleProducts(ctx context.Context, perPage int) (ports.ListResult[domain.Product], error) {
	return c.GetProducts(ctx, ports.ProductFilters{OnSale: true, PerPage: perPage})
}

// GetProduct fetches a single product by ID
func (c *Client) GetProduct(ctx context.Context, id int) (domain.Product, error) {
	var product domain.Product
	_, err := c.do(ctx, http.MethodGet, fmt.Sprintf("products/%d", id), nil, nil, &product)
	return product, err
}

// GetProductBySlug fetches products matching a URL slug. The catalog returns
// a list; slugs are unique so it holds at most one entry.
func (c *Client) GetProductBySlug(ctx context.Context, slug string) ([]domain.Product, error) {
	params := url.Values{}
	params.Set("slug", slug)

	var products []domain.Product
	_, err := c.do(ctx, http.MethodGet, "products", params, nil, &products)
	return products, err
}

// CreateProduct creates a product in the catalog
func (c *Client) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	var created domain.Product
	_, err := c.do(ctx, http.MethodPost, "products", nil, product, &created)
	return created, err
}

// UpdateProduct updates a product in the catalog
func (c *Client) UpdateProduct(ctx context.Context, id int, product domain.Product) (domain.Product, error) {
	var updated domain.Product
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("products/%d", id), nil, product, &updated)
	return updated, err
}

// DeleteProduct deletes a product from the catalog, returning the deleted
// record
func (c *Client) DeleteProduct(ctx context.Context, id int) (domain.Product, error) {
	var deleted domain.Product
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("products/%d", id), nil, nil, &deleted)
	return deleted, err
}

// GetCategories lists product categories, hiding empty ones
func (c *Client) GetCategories(ctx context.Context, page, perPage int) ([]domain.Category, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultCategoriesPage
	}
	params := pageParams(page, perPage)
	params.Set("hide_empty", "true")

	var categories []domain.Category
	_, err := c.do(ctx, http.MethodGet, "products/categories", params, nil, &categories)
	return categories, err
}

// GetRelatedProducts resolves a product's related ids, fetching up to four of
// them concurrently. Individual fetch failures are logged and skipped so one
// missing product does not empty the whole strip.
func (c *Client) GetRelatedProducts(ctx context.Context, productID int) ([]domain.Product, error) {
	product, err := c.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	ids := product.RelatedIDs
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}
	if len(ids) > maxRelated {
		ids = ids[:maxRelated]
	}

	results := make([]domain.Product, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			p, err := c.GetProduct(gctx, id)
			if err != nil {
				c.logger.WarnContext(gctx, "failed to fetch related product",
					slog.Int("product_id", id),
					slog.String("error", err.Error()))
				return nil
			}
			results[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	related := make([]domain.Product, 0, len(results))
	for _, p := range results {
		if p.ID != 0 {
			related = append(related, p)
		}
	}
	return related, nil
}

// GetOrders lists orders matching the filters
func (c *Client) GetOrders(ctx context.Context, filters ports.OrderFilters) (ports.ListResult[domain.Order], error) {
	params := orderParams(filters)
	page, _ := strconv.Atoi(params.Get("page"))
	perPage, _ := strconv.Atoi(params.Get("per_page"))
	return doList[domain.Order](ctx, c, "orders", params, page, perPage)
}

// GetOrder fetches a single order by ID
func (c *Client) GetOrder(ctx context.Context, id int) (domain.Order, error) {
	var order domain.Order
	_, err := c.do(ctx, http.MethodGet, fmt.Sprintf("orders/%d", id), nil, nil, &order)
	return order, err
}

// CreateOrder creates an order in the catalog service (the checkout handoff)
func (c *Client) CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	var created domain.Order
	_, err := c.do(ctx, http.MethodPost, "orders", nil, order, &created)
	return created, err
}

// UpdateOrder updates an order in the catalog service
func (c *Client) UpdateOrder(ctx context.Context, id int, order domain.Order) (domain.Order, error) {
	var updated domain.Order
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("orders/%d", id), nil, order, &updated)
	return updated, err
}

// UpdateOrderStatus transitions an order to a new status
func (c *Client) UpdateOrderStatus(ctx context.Context, id int, status domain.OrderStatus) (domain.Order, error) {
	var updated domain.Order
	body := map[string]string{"status": string(status)}
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("orders/%d", id), nil, body, &updated)
	return updated, err
}

// GetCustomers lists customers
func (c *Client) GetCustomers(ctx context.Context, page, perPage int) (ports.ListResult[domain.Customer], error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultCustomersPerPage
	}
	return doList[domain.Customer](ctx, c, "customers", pageParams(page, perPage), page, perPage)
}

// GetCustomer fetches a single customer by ID
func (c *Client) GetCustomer(ctx context.Context, id int) (domain.Customer, error) {
	var customer domain.Customer
	_, err := c.do(ctx, http.MethodGet, fmt.Sprintf("customers/%d", id), nil, nil, &customer)
	return customer, err
}

// CreateCustomer creates a customer record
func (c *Client) CreateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	var created domain.Customer
	_, err := c.do(ctx, http.MethodPost, "customers", nil, customer, &created)
	return created, err
}

// UpdateCustomer updates a customer record
func (c *Client) UpdateCustomer(ctx context.Context, id int, customer domain.Customer) (domain.Customer, error) {
	var updated domain.Customer
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("customers/%d", id), nil, customer, &updated)
	return updated, err
}

// CheckConnection verifies the catalog service is reachable and the
// credentials are accepted
func (c *Client) CheckConnection(ctx context.Context) error {
	params := url.Values{}
	params.Set("per_page", "1")

	var probe []domain.Product
	_, err := c.do(ctx, http.MethodGet, "products", params, nil, &probe)
	return err
}

// doList issues a GET for a paginated collection and reads the pagination
// totals from the response headers.
func doList[T any](ctx context.Context, c *Client, endpoint string, params url.Values, page, perPage int) (ports.ListResult[T], error) {
	var data []T
	header, err := c.do(ctx, http.MethodGet, endpoint, params, nil, &data)
	if err != nil {
		return ports.ListResult[T]{}, err
	}
	if data == nil {
		data = []T{}
	}

	total, _ := strconv.Atoi(header.Get(headerTotal))
	totalPages, _ := strconv.Atoi(header.Get(headerTotalPages))

	return ports.ListResult[T]{
		Data:       data,
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
		PerPage:    perPage,
	}, nil
}

// do issues one authenticated request against the catalog API and decodes
// the JSON response into dest when dest is non-nil. Non-2xx responses become
// an *APIError carrying the upstream status and body.
func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, body, dest any) (http.Header, error) {
	u := fmt.Sprintf("%s/wp-json/%s/%s", c.baseURL, c.version, endpoint)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.key, c.secret)

	c.logger.DebugContext(ctx, "catalog request",
		slog.String("method", method),
		slog.String("endpoint", endpoint))

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.ErrorContext(ctx, "catalog request rejected",
			slog.String("method", method),
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(errBody)),
		}
	}

	if dest != nil {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return nil, fmt.Errorf("failed to decode catalog response: %w", err)
		}
	}

	return resp.Header, nil
}
