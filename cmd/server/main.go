package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LEMNXCIX/neutra-order-api/internal/config"
	"github.com/LEMNXCIX/neutra-order-api/internal/handlers"
	"github.com/LEMNXCIX/neutra-order-api/internal/middleware"
	"github.com/LEMNXCIX/neutra-order-api/internal/models"
	"github.com/LEMNXCIX/neutra-order-api/internal/service"
	"github.com/LEMNXCIX/neutra-order-api/internal/store"
	"github.com/LEMNXCIX/neutra-order-api/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting neutra order api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
	)

	// Initialize stores
	productStore := store.NewInMemoryProductStore(snapshotter(cfg.Store.ProductsFile))
	couponStore := store.NewInMemoryCouponStore(snapshotter(cfg.Store.CouponsFile))
	orderStore := store.NewInMemoryOrderStore(snapshotter(cfg.Store.OrdersFile))

	if err := seedStores(cfg, productStore, couponStore, orderStore); err != nil {
		log.Error("failed to seed stores", "error", err)
		os.Exit(1)
	}

	// Initialize services
	orderService := service.NewOrderService(productStore, couponStore, orderStore, cfg.Order, log)
	productService := service.NewProductService(productStore)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log)
	productHandler := handlers.NewProductHandler(productService, log)
	orderHandler := handlers.NewOrderHandler(orderService, log)
	couponHandler := handlers.NewCouponHandler(orderService, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Catalog read side, public
		r.Get("/products", productHandler.ListProducts)
		r.Get("/products/{productId}", productHandler.GetProduct)

		// Everything touching orders or coupons needs a session
		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionAuth(cfg.Auth))

			r.Post("/orders", orderHandler.CreateOrder)
			r.Get("/orders", orderHandler.ListOrders)
			r.Get("/coupons/{code}", couponHandler.PreviewCoupon)
		})
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// snapshotter builds a collection snapshotter for a configured path, or
// nil when persistence for that collection is disabled
func snapshotter(path string) store.Snapshotter {
	if path == "" {
		return nil
	}
	return store.NewFileSnapshotter(path)
}

// seedStores loads the collections from their configured files; absent
// files leave the built-in demo catalog in place
func seedStores(cfg *config.Config, products *store.InMemoryProductStore, coupons *store.InMemoryCouponStore, orders *store.InMemoryOrderStore) error {
	ctx := context.Background()

	productSeed := defaultProducts()
	if cfg.Store.ProductsFile != "" {
		if err := store.LoadCollection(cfg.Store.ProductsFile, &productSeed); err != nil {
			return err
		}
	}
	if err := products.ReplaceAll(ctx, productSeed); err != nil {
		return err
	}

	var couponSeed []models.Coupon
	if cfg.Store.CouponsFile != "" {
		if err := store.LoadCollection(cfg.Store.CouponsFile, &couponSeed); err != nil {
			return err
		}
	}
	if err := coupons.ReplaceAll(ctx, couponSeed); err != nil {
		return err
	}

	var orderSeed []models.Order
	if cfg.Store.OrdersFile != "" {
		if err := store.LoadCollection(cfg.Store.OrdersFile, &orderSeed); err != nil {
			return err
		}
	}
	return orders.ReplaceAll(ctx, orderSeed)
}

// defaultProducts is the demo catalog used when no products file is
// configured
func defaultProducts() []models.Product {
	return []models.Product{
		{ID: "1", Title: "Linen Tote Bag", Price: 24.50, Stock: 40},
		{ID: "2", Title: "Ceramic Mug", Price: 18.00, Stock: 60},
		{ID: "3", Title: "Soy Candle", Price: 12.99, Stock: 80},
		{ID: "4", Title: "Walnut Desk Organizer", Price: 45.00, Stock: 25},
		{ID: "5", Title: "Cotton Throw Blanket", Price: 59.90, Stock: 15},
		{ID: "6", Title: "Brass Plant Mister", Price: 21.75, Stock: 30},
	}
}
