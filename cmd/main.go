package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/shophub/storefront/internal/backend"
	h "github.com/shophub/storefront/internal/http"
	"github.com/shophub/storefront/internal/service"
	"github.com/shophub/storefront/internal/session"
)

type Config struct {
	HTTPPort           string
	CatalogServiceURL  string
	CustomerServiceURL string
	RedisAddr          string
	RedisPassword      string
	RequestTimeout     time.Duration
	BackendTimeout     time.Duration
	ProductCacheTTL    time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		CatalogServiceURL:  getEnv("CATALOG_SERVICE_URL", "http://localhost:3000"),
		CustomerServiceURL: getEnv("CUSTOMER_SERVICE_URL", "http://localhost:3001"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RequestTimeout:     30 * time.Second,
		BackendTimeout:     10 * time.Second,
		ProductCacheTTL:    30 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		MaxRequestBodySize: 1 << 20, // 1MB
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {

	cfg := loadConfig()

	// Session snapshot store: Redis when configured, in-process otherwise
	var store session.Store
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Redis connection failed:", err)
		}
		log.Printf("Redis ping succeeded")
		store = session.NewRedisStore(redisClient)
	} else {
		log.Printf("REDIS_ADDR not set, using in-memory session store")
		store = session.NewMemoryStore()
	}

	catalogClient := backend.NewCatalogClient(cfg.CatalogServiceURL, cfg.BackendTimeout)
	customerClient := backend.NewCustomerClient(cfg.CustomerServiceURL, cfg.BackendTimeout)
	productCache := service.NewProductCache(catalogClient, cfg.ProductCacheTTL)

	carts := service.NewCartService(store)
	checkouts := service.NewCheckoutService(store)

	productHandler := h.NewProductHandler(productCache, catalogClient, cfg.RequestTimeout)
	cartHandler := h.NewCartHandler(carts, cfg.RequestTimeout)
	checkoutHandler := h.NewCheckoutHandler(carts, checkouts, catalogClient, customerClient, cfg.RequestTimeout)
	ordersHandler := h.NewOrdersHandler(catalogClient, productCache, checkouts, cfg.RequestTimeout)
	customerHandler := h.NewCustomerHandler(customerClient, cfg.RequestTimeout)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.MaxBytesMiddleware(cfg.MaxRequestBodySize))
	r.Use(h.SessionMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Post("/", productHandler.Create)
		})
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Post("/items/{product_id}/increment", cartHandler.IncrementItem)
			r.Post("/items/{product_id}/decrement", cartHandler.DecrementItem)
		})
		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", checkoutHandler.View)
			r.Post("/coupon", checkoutHandler.ApplyCoupon)
			r.Put("/tax", checkoutHandler.SetTax)
			r.Post("/order", checkoutHandler.PlaceOrder)
			r.Get("/summary", checkoutHandler.Summary)
		})
		r.Get("/orders", ordersHandler.List)
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", customerHandler.List)
			r.Post("/", customerHandler.Create)
			r.Get("/{customer_id}", customerHandler.Get)
			r.Put("/{customer_id}", customerHandler.Update)
			r.Delete("/{customer_id}", customerHandler.Delete)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront gateway starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
