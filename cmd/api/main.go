// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	redis_a "github.com/gmods/storefront-be/internal/adapters/redis_adapter"
	"github.com/gmods/storefront-be/internal/adapters/woocommerce"
	"github.com/gmods/storefront-be/internal/core/domain"
	"github.com/gmods/storefront-be/internal/core/ports"
	"github.com/gmods/storefront-be/internal/core/services"
	"github.com/gmods/storefront-be/internal/handlers"
	"github.com/gmods/storefront-be/internal/handlers/middleware"
	"github.com/gmods/storefront-be/internal/pkg/config"
	"github.com/gmods/storefront-be/internal/pkg/logger"
	"github.com/gmods/storefront-be/internal/workers"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	// Initialize structured logger
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting storefront API",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	// Load configuration
	slogger.Info("loading configuration")
	cfg, err := config.Load(slogger.Logger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	// Create application context
	ctx := context.Background()

	// Fetch catalog credentials from Secrets Manager when configured
	if cfg.AWS.SecretName != "" {
		loader, err := config.NewSecretsLoader(ctx, cfg.AWS, slogger.Logger)
		if err != nil {
			slogger.Error("failed to initialize secrets loader", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := loader.LoadWooCredentials(ctx, &cfg.WooCommerce); err != nil {
			slogger.Error("failed to load catalog credentials", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// Initialize dependencies
	deps, err := initializeDependencies(ctx, cfg, slogger.Logger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	// Kick off an initial cache warm; the worker's scheduler takes over from here
	if _, err := deps.asynqClient.Enqueue(workers.NewCatalogRefreshTask()); err != nil {
		slogger.Warn("failed to enqueue initial catalog refresh", slog.String("error", err.Error()))
	}

	// Setup HTTP server
	server := setupHTTPServer(cfg, deps, slogger)

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
			slog.Bool("tls", cfg.Server.TLSEnabled),
		)

		if cfg.Server.TLSEnabled {
			serverErrors <- server.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		// Create shutdown context with timeout
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		// Gracefully shutdown HTTP server
		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		// Write any carts still held in memory back to Redis before exit
		if err := deps.cartService.Flush(shutdownCtx); err != nil {
			slogger.Error("failed to flush carts", slog.String("error", err.Error()))
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	redisClient     *redis.Client
	redisCache      ports.CacheRepository
	asynqClient     *asynq.Client
	asynqInspector  *asynq.Inspector
	catalogClient   *woocommerce.Client
	cartService     *services.CartService
	productHandler  *handlers.ProductHandler
	orderHandler    *handlers.OrderHandler
	customerHandler *handlers.CustomerHandler
	cartHandler     *handlers.CartHandler
	healthHandler   *handlers.HealthHandler
}

func (d *dependencies) cleanup() {
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
	if d.asynqInspector != nil {
		d.asynqInspector.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	// Initialize Redis client
	logger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:            fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		MaxRetries:      cfg.Redis.MaxRetries,
		MinRetryBackoff: cfg.Redis.MinRetryBackoff,
		MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
		DialTimeout:     cfg.Redis.DialTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
		PoolSize:        cfg.Redis.PoolSize,
		MinIdleConns:    cfg.Redis.MinIdleConns,
		PoolTimeout:     cfg.Redis.PoolTimeout,
	})

	// Test Redis connection
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.redisClient = redisClient

	// Create Redis cache wrapper and cart store
	deps.redisCache = redis_a.NewCache(redisClient, cfg.Cache.CatalogTTL, logger)
	cartStore := redis_a.NewCartStore(redisClient, cfg.Cache.CartTTL, logger)

	// Asynq client for enqueueing tasks, inspector for health reporting
	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
	deps.asynqClient = asynq.NewClient(asynqRedisOpt)
	deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)

	// Initialize the upstream catalog client
	logger.Info("initializing catalog client",
		slog.String("base_url", cfg.WooCommerce.BaseURL),
		slog.String("version", cfg.WooCommerce.Version),
	)
	deps.catalogClient = woocommerce.NewClient(woocommerce.Config{
		BaseURL:        cfg.WooCommerce.BaseURL,
		ConsumerKey:    cfg.WooCommerce.ConsumerKey,
		ConsumerSecret: cfg.WooCommerce.ConsumerSecret,
		Version:        cfg.WooCommerce.Version,
		Timeout:        cfg.WooCommerce.Timeout,
	}, logger)

	// Initialize services
	policy := domain.PricingPolicy{
		TaxRate:               cfg.Pricing.TaxRate,
		FreeShippingThreshold: cfg.Pricing.FreeShippingThreshold,
		FlatShippingFee:       cfg.Pricing.FlatShippingFee,
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pricing configuration: %w", err)
	}
	deps.cartService = services.NewCartService(cartStore, policy, logger)

	// Initialize handlers
	deps.productHandler = handlers.NewProductHandler(deps.catalogClient, deps.redisCache, cfg.Cache.CatalogTTL, logger)
	deps.orderHandler = handlers.NewOrderHandler(deps.catalogClient, logger)
	deps.customerHandler = handlers.NewCustomerHandler(deps.catalogClient, logger)
	deps.cartHandler = handlers.NewCartHandler(deps.cartService, deps.catalogClient, logger)
	deps.healthHandler = handlers.NewHealthHandler(
		deps.catalogClient,
		redisClient,
		deps.asynqInspector,
		cfg,
		logger,
	)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, l *logger.Logger) *http.Server {
	// Create new ServeMux using Go 1.22+ features
	mux := http.NewServeMux()

	// Setup middleware chain
	var handler http.Handler = mux

	// Apply middleware in reverse order (innermost first)
	if cfg.App.Environment != "test" {
		handler = middleware.RequestID(handler)
		handler = middleware.Logger(l)(handler)
		handler = middleware.Recovery(l.Logger)(handler)
	}

	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}

	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}

	if cfg.Security.SecureHeaders {
		handler = middleware.SecureHeaders(handler)
	}

	// Register routes using Go 1.22 method-specific routing
	registerRoutes(mux, deps, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(l.Handler(), slog.LevelError),
	}

	return server
}

func registerRoutes(mux *http.ServeMux, deps *dependencies, cfg *config.Config) {
	apiV1 := "/api/v1"

	// Health and readiness endpoints
	mux.HandleFunc("GET /health", deps.healthHandler.Health)
	mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)
	mux.HandleFunc("GET "+apiV1+"/health", deps.healthHandler.Health)

	// Product endpoints
	mux.HandleFunc("GET "+apiV1+"/products", deps.productHandler.ListProducts)
	mux.HandleFunc("GET "+apiV1+"/products/slug/{slug}", deps.productHandler.GetProductBySlug)
	mux.HandleFunc("GET "+apiV1+"/products/{id}", deps.productHandler.GetProduct)
	mux.HandleFunc("GET "+apiV1+"/related-products/{id}", deps.productHandler.GetRelatedProducts)
	mux.HandleFunc("POST "+apiV1+"/products", deps.productHandler.CreateProduct)
	mux.HandleFunc("PUT "+apiV1+"/products/{id}", deps.productHandler.UpdateProduct)
	mux.HandleFunc("DELETE "+apiV1+"/products/{id}", deps.productHandler.DeleteProduct)
	mux.HandleFunc("GET "+apiV1+"/products/categories", deps.productHandler.ListCategories)

	// Order endpoints
	mux.HandleFunc("GET "+apiV1+"/orders", deps.orderHandler.ListOrders)
	mux.HandleFunc("GET "+apiV1+"/orders/{id}", deps.orderHandler.GetOrder)
	mux.HandleFunc("POST "+apiV1+"/orders", deps.orderHandler.CreateOrder)
	mux.HandleFunc("PUT "+apiV1+"/orders/{id}", deps.orderHandler.UpdateOrder)
	mux.HandleFunc("PUT "+apiV1+"/orders/{id}/status", deps.orderHandler.UpdateOrderStatus)

	// Customer endpoints
	mux.HandleFunc("GET "+apiV1+"/customers", deps.customerHandler.ListCustomers)
	mux.HandleFunc("GET "+apiV1+"/customers/{id}", deps.customerHandler.GetCustomer)
	mux.HandleFunc("POST "+apiV1+"/customers", deps.customerHandler.CreateCustomer)
	mux.HandleFunc("PUT "+apiV1+"/customers/{id}", deps.customerHandler.UpdateCustomer)

	// Cart endpoints
	mux.HandleFunc("GET "+apiV1+"/carts/{cartId}", deps.cartHandler.GetCart)
	mux.HandleFunc("POST "+apiV1+"/carts/{cartId}/items", deps.cartHandler.AddItem)
	mux.HandleFunc("PUT "+apiV1+"/carts/{cartId}/items/{itemId}", deps.cartHandler.UpdateItem)
	mux.HandleFunc("DELETE "+apiV1+"/carts/{cartId}/items/{itemId}", deps.cartHandler.RemoveItem)
	mux.HandleFunc("DELETE "+apiV1+"/carts/{cartId}", deps.cartHandler.ClearCart)
	mux.HandleFunc("PUT "+apiV1+"/carts/{cartId}/open", deps.cartHandler.SetOpen)
	mux.HandleFunc("POST "+apiV1+"/carts/{cartId}/persist", deps.cartHandler.PersistCart)

	// pprof endpoints (development only)
	if cfg.Server.EnablePprof && cfg.IsDevelopment() {
		mux.HandleFunc("GET /debug/pprof/", http.HandlerFunc(http.DefaultServeMux.ServeHTTP))
	}
}
