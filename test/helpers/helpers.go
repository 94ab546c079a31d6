// test/helpers/helpers.go
package helpers

import (
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/gmods/storefront-be/internal/core/domain"
	"github.com/gmods/storefront-be/internal/pkg/config"
	"github.com/gmods/storefront-be/internal/pkg/logger"
)

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *logger.Logger {
	level := "error"
	if testing.Verbose() {
		level = "debug"
	}
	return logger.NewLogger(&logger.LogConfig{
		Level:  level,
		Format: "text",
		Output: "stderr",
	})
}

// SetupTestRedis creates a mock Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// LoadTestConfig returns a test configuration
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "test-api",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
			Debug:       true,
		},
		WooCommerce: config.WooCommerceConfig{
			BaseURL:        "http://localhost:8089",
			ConsumerKey:    "ck_test",
			ConsumerSecret: "cs_test",
			Version:        "wc/v3",
			Timeout:        5 * time.Second,
		},
		Pricing: config.PricingConfig{
			TaxRate:               decimal.NewFromFloat(0.10),
			FreeShippingThreshold: decimal.NewFromInt(50),
			FlatShippingFee:       decimal.NewFromInt(5),
		},
		Redis: config.RedisConfig{
			Host:     "localhost",
			Port:     "6379",
			DB:       0,
			PoolSize: 10,
		},
		Cache: config.CacheConfig{
			CatalogTTL: time.Minute,
			CartTTL:    time.Hour,
		},
		Security: config.SecurityConfig{
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"*"},
			SecureHeaders:     false,
		},
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

// TestPricingPolicy returns the default storefront pricing policy
func TestPricingPolicy() domain.PricingPolicy {
	return domain.DefaultPricingPolicy()
}

// CreateTestProduct creates a test product snapshot
func CreateTestProduct(overrides ...func(*domain.Product)) domain.Product {
	product := domain.Product{
		ID:           101,
		Name:         "Ceramic Vase",
		Slug:         "ceramic-vase",
		Type:         domain.ProductSimple,
		Status:       domain.ProductPublish,
		Price:        "29.99",
		RegularPrice: "34.99",
		SalePrice:    "29.99",
		OnSale:       true,
		StockStatus:  domain.StockInStock,
		Categories: []domain.CategoryRef{
			{ID: 7, Name: "Decor", Slug: "decor"},
		},
	}

	for _, override := range overrides {
		override(&product)
	}

	return product
}

// CreateTestProducts creates multiple test products with distinct IDs
func CreateTestProducts(count int) []domain.Product {
	products := make([]domain.Product, count)
	for i := 0; i < count; i++ {
		products[i] = CreateTestProduct(func(p *domain.Product) {
			p.ID = 101 + i
			p.Name = fmt.Sprintf("Test Product %d", i+1)
			p.Slug = fmt.Sprintf("test-product-%d", i+1)
			p.Price = decimal.NewFromInt(int64(10 + i*5)).String()
		})
	}
	return products
}

// CreateTestCart creates a cart holding the given products, one unit each
func CreateTestCart(t *testing.T, id string, products ...domain.Product) *domain.Cart {
	t.Helper()

	cart := domain.NewCart(id)
	policy := domain.DefaultPricingPolicy()
	for _, p := range products {
		require.NoError(t, cart.AddItem(p, 1, 0, policy))
	}
	return cart
}

// AssertDecimalEqual asserts that a decimal equals its expected string form
func AssertDecimalEqual(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(expected).Equal(actual),
		"expected %s, got %s", expected, actual.String())
}

// AssertEventuallyWithTimeout asserts that a condition is met within a timeout
func AssertEventuallyWithTimeout(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Errorf("Condition not met within %v: %s", timeout, msg)
}
